package dto

// ==================== AUTHENTICATION REQUEST DTOs ====================

type SiweLoginRequest struct {
	Message   string `json:"message" validate:"required" example:"example.com wants you to sign in with your Ethereum account..."`
	Signature string `json:"signature" validate:"required" example:"0x3046..."`
}

func (r SiweLoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type NonceResponse struct {
	Nonce string `json:"nonce" example:"K7sEwpBQh3bMtLnV"`
}

type LoginResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Address   string `json:"address" example:"0x702ba46435d1e55b18440100bc81eb055574875e"`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

type SessionResponse struct {
	Address             string `json:"address" example:"0x702ba46435d1e55b18440100bc81eb055574875e"`
	SupabaseAccessToken string `json:"supabase_access_token,omitempty"`
	IsAdmin             bool   `json:"is_admin" example:"false"`
}
