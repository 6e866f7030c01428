package dto

import "time"

// ==================== GAME REQUEST DTOs ====================

type CreateGameRequest struct {
	Slug            string   `json:"slug" validate:"required,min=2,max=100" example:"pixel-racer"`
	Title           string   `json:"title" validate:"required,min=1,max=255" example:"Pixel Racer"`
	Description     string   `json:"description" validate:"max=5000"`
	Source          string   `json:"source" validate:"max=255"`
	Category        string   `json:"category" validate:"required,min=1,max=100" example:"arcade"`
	Images          []string `json:"images" validate:"dive,url"`
	Cartridge       string   `json:"cartridge" validate:"omitempty,url"`
	ContractAddress string   `json:"contract_address" validate:"omitempty,eth_addr"`
	OpenseaURL      string   `json:"opensea_url" validate:"omitempty,url"`
	StoragePath     string   `json:"storage_path" validate:"max=512"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

func (r CreateGameRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateGameRequest struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Source          *string  `json:"source,omitempty" validate:"omitempty,max=255"`
	Category        *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Images          []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Cartridge       *string  `json:"cartridge,omitempty" validate:"omitempty,url"`
	ContractAddress *string  `json:"contract_address,omitempty" validate:"omitempty,eth_addr"`
	OpenseaURL      *string  `json:"opensea_url,omitempty" validate:"omitempty,url"`
	StoragePath     *string  `json:"storage_path,omitempty" validate:"omitempty,max=512"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

func (r UpdateGameRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== GAME RESPONSE DTOs ====================

type GameResponse struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Source          string    `json:"source,omitempty"`
	Category        string    `json:"category"`
	Images          []string  `json:"images"`
	Cartridge       string    `json:"cartridge,omitempty"`
	ContractAddress string    `json:"contract_address,omitempty"`
	OpenseaURL      string    `json:"opensea_url,omitempty"`
	StoragePath     string    `json:"storage_path,omitempty"`
	Plays           int64     `json:"plays"`
	AverageRating   float64   `json:"average_rating"`
	TotalRatings    int       `json:"total_ratings"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type GameListResponse struct {
	Games []GameResponse `json:"games"`
	Total int            `json:"total"`
}

type PlayResponse struct {
	Slug  string `json:"slug"`
	Plays int64  `json:"plays"`
}
