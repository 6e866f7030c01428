package services

import (
	"github.com/alphabatem/common/context"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/model"
	"github.com/baesapp/arcade_api/shared"
)

// RatingService records anonymous 1-5 star ratings keyed by a
// client-generated session ID. One rating per session per game; a
// repeat submission replaces the earlier one and the game's aggregates
// are recomputed.
type RatingService struct {
	context.DefaultService

	db *PostgresService
}

const RATING_SVC = "rating_svc"

func (svc RatingService) Id() string {
	return RATING_SVC
}

func (svc *RatingService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *RatingService) GetRatingSummary(gameSlug, sessionID string) (*dto.RatingSummaryResponse, error) {
	game, err := svc.db.GetGameBySlug(gameSlug)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}

	resp := &dto.RatingSummaryResponse{
		GameID:        game.ID,
		AverageRating: game.AverageRating,
		TotalRatings:  game.TotalRatings,
	}

	if sessionID != "" {
		if rating, err := svc.db.GetRating(game.ID, sessionID); err == nil {
			resp.UserRating = rating.Rating
		}
	}
	return resp, nil
}

func (svc *RatingService) SubmitRating(gameSlug string, req *dto.SubmitRatingRequest) (*dto.RatingSummaryResponse, error) {
	game, err := svc.db.GetGameBySlug(gameSlug)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}

	if err := svc.db.EnsureRatingSession(req.SessionID); err != nil {
		return nil, shared.NewInternalError(err, "failed to record rating")
	}

	rating := &model.Rating{
		GameID:    game.ID,
		SessionID: req.SessionID,
		Rating:    req.Rating,
	}
	if _, err := svc.db.UpsertRating(rating); err != nil {
		return nil, shared.NewInternalError(err, "failed to record rating")
	}

	updated, err := svc.db.RecomputeGameRating(game.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to record rating")
	}

	return &dto.RatingSummaryResponse{
		GameID:        updated.ID,
		AverageRating: updated.AverageRating,
		TotalRatings:  updated.TotalRatings,
		UserRating:    req.Rating,
	}, nil
}
