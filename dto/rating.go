package dto

type SubmitRatingRequest struct {
	Rating    int    `json:"rating" validate:"required,min=1,max=5" example:"4"`
	SessionID string `json:"session_id" validate:"required,min=8,max=64" example:"c3a1f8e2b4d64b1f"`
}

func (r SubmitRatingRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RatingSummaryResponse struct {
	GameID        string  `json:"game_id"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
	UserRating    int     `json:"user_rating,omitempty"`
}
