package handlers

import (
	goctx "context"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/services"
)

type AuthServiceInterface interface {
	Nonce(ctx goctx.Context) (string, error)
	Login(ctx goctx.Context, req *dto.SiweLoginRequest) (*dto.LoginResponse, error)
	Session(claims *services.SessionClaims) *dto.SessionResponse
	RequireAuth() fiber.Handler
	RequireAdmin() fiber.Handler
}

type JWTServiceInterface interface {
	VerifySessionToken(token string) (*services.SessionClaims, error)
}

type GameServiceInterface interface {
	ListGames(category string, includeInactive bool) (*dto.GameListResponse, error)
	SearchGames(query string) (*dto.GameListResponse, error)
	GetGame(slug string) (*dto.GameResponse, error)
	RecordPlay(slug string) (*dto.PlayResponse, error)
	CreateGame(req *dto.CreateGameRequest) (*dto.GameResponse, error)
	UpdateGame(id string, req *dto.UpdateGameRequest) (*dto.GameResponse, error)
	DeleteGame(id string) error
}

type CommentServiceInterface interface {
	ListComments(gameSlug string) (*dto.CommentListResponse, error)
	CreateComment(gameSlug, walletAddress string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(commentID, walletAddress string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(commentID, walletAddress string) error
}

type RatingServiceInterface interface {
	GetRatingSummary(gameSlug, sessionID string) (*dto.RatingSummaryResponse, error)
	SubmitRating(gameSlug string, req *dto.SubmitRatingRequest) (*dto.RatingSummaryResponse, error)
}

type MediaServiceInterface interface {
	UploadGameImage(gameSlug string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	DeleteGameImage(objectName string) error
}

type RateLimitServiceInterface interface {
	PeekClient(clientID string) map[string]services.RateLimitResult
	ClearClient(clientID string) int
	Store() *services.RateLimitStore
}
