package shared

const (
	WalletAddress       = "wallet_address"
	SupabaseAccessToken = "supabase_access_token"

	ClassAuth     = "auth"
	ClassComments = "comments"
	ClassUpload   = "upload"
	ClassDefault  = "default"

	RatingSessionHeader = "X-Rating-Session"
)
