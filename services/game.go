package services

import (
	"encoding/json"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/model"
	"github.com/baesapp/arcade_api/shared"
)

// GameService owns the catalog: public listing and detail, play
// counting, and the admin CRUD surface.
type GameService struct {
	context.DefaultService

	db *PostgresService
}

const GAME_SVC = "game_svc"

func (svc GameService) Id() string {
	return GAME_SVC
}

func (svc *GameService) Start() error {
	svc.db = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *GameService) ListGames(category string, includeInactive bool) (*dto.GameListResponse, error) {
	games, err := svc.db.ListGames(category, includeInactive)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to load games")
	}

	out := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		out = append(out, toGameResponse(&games[i]))
	}
	return &dto.GameListResponse{Games: out, Total: len(out)}, nil
}

// SearchGames matches active games on title, description or source.
func (svc *GameService) SearchGames(query string) (*dto.GameListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &dto.GameListResponse{Games: []dto.GameResponse{}}, nil
	}

	games, err := svc.db.SearchGames(query)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to search games")
	}

	out := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		out = append(out, toGameResponse(&games[i]))
	}
	return &dto.GameListResponse{Games: out, Total: len(out)}, nil
}

func (svc *GameService) GetGame(slug string) (*dto.GameResponse, error) {
	game, err := svc.db.GetGameBySlug(slug)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}
	if !game.IsActive {
		return nil, shared.NewNotFoundError(nil, "game not found")
	}
	resp := toGameResponse(game)
	return &resp, nil
}

// RecordPlay bumps the play counter for an active game.
func (svc *GameService) RecordPlay(slug string) (*dto.PlayResponse, error) {
	game, err := svc.db.IncrementGamePlays(slug)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}
	RecordGamePlay()
	return &dto.PlayResponse{Slug: game.Slug, Plays: game.Plays}, nil
}

func (svc *GameService) CreateGame(req *dto.CreateGameRequest) (*dto.GameResponse, error) {
	images, err := marshalImages(req.Images)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "invalid images")
	}

	game := &model.Game{
		Slug:            strings.ToLower(strings.TrimSpace(req.Slug)),
		Title:           req.Title,
		Description:     req.Description,
		Source:          req.Source,
		Category:        req.Category,
		Images:          images,
		Cartridge:       req.Cartridge,
		ContractAddress: req.ContractAddress,
		OpenseaURL:      req.OpenseaURL,
		StoragePath:     req.StoragePath,
		IsActive:        true,
	}
	if req.IsActive != nil {
		game.IsActive = *req.IsActive
	}

	created, err := svc.db.CreateGame(game)
	if err != nil {
		if strings.HasPrefix(err.Error(), "UNIQUE_CONSTRAINT") || strings.HasPrefix(err.Error(), "CONFLICT") {
			return nil, shared.NewConflictError(err, "slug already in use")
		}
		return nil, shared.NewInternalError(err, "failed to create game")
	}

	log.WithFields(log.Fields{"slug": created.Slug, "id": created.ID}).Info("Game created")
	resp := toGameResponse(created)
	return &resp, nil
}

func (svc *GameService) UpdateGame(id string, req *dto.UpdateGameRequest) (*dto.GameResponse, error) {
	game, err := svc.db.GetGameByID(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "game not found")
	}

	if req.Title != nil {
		game.Title = *req.Title
	}
	if req.Description != nil {
		game.Description = *req.Description
	}
	if req.Source != nil {
		game.Source = *req.Source
	}
	if req.Category != nil {
		game.Category = *req.Category
	}
	if req.Images != nil {
		images, err := marshalImages(req.Images)
		if err != nil {
			return nil, shared.NewBadRequestError(err, "invalid images")
		}
		game.Images = images
	}
	if req.Cartridge != nil {
		game.Cartridge = *req.Cartridge
	}
	if req.ContractAddress != nil {
		game.ContractAddress = *req.ContractAddress
	}
	if req.OpenseaURL != nil {
		game.OpenseaURL = *req.OpenseaURL
	}
	if req.StoragePath != nil {
		game.StoragePath = *req.StoragePath
	}
	if req.IsActive != nil {
		game.IsActive = *req.IsActive
	}

	updated, err := svc.db.UpdateGame(game)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to update game")
	}

	resp := toGameResponse(updated)
	return &resp, nil
}

func (svc *GameService) DeleteGame(id string) error {
	if err := svc.db.DeleteGame(id); err != nil {
		if strings.HasPrefix(err.Error(), "NOT_FOUND") {
			return shared.NewNotFoundError(err, "game not found")
		}
		return shared.NewInternalError(err, "failed to delete game")
	}
	log.WithField("id", id).Info("Game deleted")
	return nil
}

func toGameResponse(game *model.Game) dto.GameResponse {
	return dto.GameResponse{
		ID:              game.ID,
		Slug:            game.Slug,
		Title:           game.Title,
		Description:     game.Description,
		Source:          game.Source,
		Category:        game.Category,
		Images:          game.ImageURLs(),
		Cartridge:       game.Cartridge,
		ContractAddress: game.ContractAddress,
		OpenseaURL:      game.OpenseaURL,
		StoragePath:     game.StoragePath,
		Plays:           game.Plays,
		AverageRating:   game.AverageRating,
		TotalRatings:    game.TotalRatings,
		IsActive:        game.IsActive,
		CreatedAt:       game.CreatedAt,
		UpdatedAt:       game.UpdatedAt,
	}
}

func marshalImages(images []string) (json.RawMessage, error) {
	if images == nil {
		images = []string{}
	}
	data, err := sonic.Marshal(images)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
