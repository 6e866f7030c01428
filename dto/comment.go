package dto

import "time"

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000" example:"Great game!"`
}

func (r CreateCommentRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

func (r UpdateCommentRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CommentResponse struct {
	ID            string    `json:"id"`
	GameID        string    `json:"game_id"`
	WalletAddress string    `json:"wallet_address"`
	Content       string    `json:"content"`
	IsEdited      bool      `json:"is_edited"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int               `json:"total"`
}
