package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/shared"
)

type AdminHandler struct {
	gameSvc      GameServiceInterface
	mediaSvc     MediaServiceInterface
	rateLimitSvc RateLimitServiceInterface
}

func NewAdminHandler(gameSvc GameServiceInterface, mediaSvc MediaServiceInterface, rateLimitSvc RateLimitServiceInterface) *AdminHandler {
	return &AdminHandler{
		gameSvc:      gameSvc,
		mediaSvc:     mediaSvc,
		rateLimitSvc: rateLimitSvc,
	}
}

// @Summary List All Games
// @Description List every game including inactive ones
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Success 200 {object} shared.Response{data=dto.GameListResponse}
// @Router /api/v1/admin/games [get]
func (h *AdminHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.gameSvc.ListGames(c.Query("category"), true)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", games)
}

// @Summary Create Game
// @Description Add a game to the catalog
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGameRequest true "Game"
// @Success 201 {object} shared.Response{data=dto.GameResponse}
// @Failure 409 {object} shared.Response
// @Router /api/v1/admin/games [post]
func (h *AdminHandler) CreateGame(c *fiber.Ctx) error {
	var req dto.CreateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	game, err := h.gameSvc.CreateGame(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", game)
}

// @Summary Update Game
// @Description Update catalog fields on a game
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gameId path string true "Game ID"
// @Param request body dto.UpdateGameRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.GameResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/admin/games/{gameId} [put]
func (h *AdminHandler) UpdateGame(c *fiber.Ctx) error {
	var req dto.UpdateGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	game, err := h.gameSvc.UpdateGame(c.Params("gameId"), &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", game)
}

// @Summary Delete Game
// @Description Remove a game and its comments and ratings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gameId path string true "Game ID"
// @Success 200 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/admin/games/{gameId} [delete]
func (h *AdminHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.gameSvc.DeleteGame(c.Params("gameId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Upload Game Image
// @Description Upload an image for a game
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param slug formData string true "Game slug"
// @Param file formData file true "Image file"
// @Success 200 {object} shared.Response{data=dto.MediaUploadResponse}
// @Failure 400 {object} shared.Response
// @Router /api/v1/admin/upload [post]
func (h *AdminHandler) UploadGameImage(c *fiber.Ctx) error {
	slug := c.FormValue("slug")
	if slug == "" {
		return shared.NewBadRequestError(nil, "slug is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "file is required")
	}

	upload, err := h.mediaSvc.UploadGameImage(slug, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", upload)
}

// @Summary Rate Limit Stats
// @Description Inspect live rate limiter state
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId query string false "Inspect a single client"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/rate-limits [get]
func (h *AdminHandler) GetRateLimits(c *fiber.Ctx) error {
	if clientID := c.Query("clientId"); clientID != "" {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.rateLimitSvc.PeekClient(clientID))
	}

	total, clients, byClass := h.rateLimitSvc.Store().Stats()
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.RateLimitStats{
		TotalEntries:  total,
		ActiveClients: clients,
		ByType:        byClass,
	})
}

// @Summary Clear Rate Limits
// @Description Drop all rate limit windows for a client
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/rate-limits/{clientId} [delete]
func (h *AdminHandler) ClearRateLimits(c *fiber.Ctx) error {
	removed := h.rateLimitSvc.ClearClient(c.Params("clientId"))
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", fiber.Map{"removed": removed})
}
