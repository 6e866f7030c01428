package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baesapp/arcade_api/shared"
)

type GameHandler struct {
	gameSvc GameServiceInterface
}

func NewGameHandler(gameSvc GameServiceInterface) *GameHandler {
	return &GameHandler{
		gameSvc: gameSvc,
	}
}

// @Summary List Games
// @Description List active games, optionally filtered by category
// @Tags games
// @Accept json
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} shared.Response{data=dto.GameListResponse}
// @Router /api/v1/games [get]
func (h *GameHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.gameSvc.ListGames(c.Query("category"), false)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", games)
}

// @Summary Search Games
// @Description Search active games by title, description or source
// @Tags games
// @Accept json
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} shared.Response{data=dto.GameListResponse}
// @Router /api/v1/games/search [get]
func (h *GameHandler) SearchGames(c *fiber.Ctx) error {
	games, err := h.gameSvc.SearchGames(c.Query("q"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", games)
}

// @Summary Games By Category
// @Description List active games in a category
// @Tags games
// @Accept json
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} shared.Response{data=dto.GameListResponse}
// @Router /api/v1/games/category/{category} [get]
func (h *GameHandler) ListByCategory(c *fiber.Ctx) error {
	games, err := h.gameSvc.ListGames(c.Params("category"), false)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", games)
}

// @Summary Get Game
// @Description Get a single active game by slug
// @Tags games
// @Accept json
// @Produce json
// @Param slug path string true "Game slug"
// @Success 200 {object} shared.Response{data=dto.GameResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/games/{slug} [get]
func (h *GameHandler) GetGame(c *fiber.Ctx) error {
	game, err := h.gameSvc.GetGame(c.Params("slug"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", game)
}

// @Summary Record Play
// @Description Increment the play counter for a game
// @Tags games
// @Accept json
// @Produce json
// @Param slug path string true "Game slug"
// @Success 200 {object} shared.Response{data=dto.PlayResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/games/{slug}/play [post]
func (h *GameHandler) RecordPlay(c *fiber.Ctx) error {
	play, err := h.gameSvc.RecordPlay(c.Params("slug"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", play)
}
