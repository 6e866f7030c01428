package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/shared"
)

type RatingHandler struct {
	ratingSvc RatingServiceInterface
}

func NewRatingHandler(ratingSvc RatingServiceInterface) *RatingHandler {
	return &RatingHandler{
		ratingSvc: ratingSvc,
	}
}

// @Summary Rating Summary
// @Description Get the rating aggregates for a game, plus the caller's own rating when a session header is sent
// @Tags ratings
// @Accept json
// @Produce json
// @Param slug path string true "Game slug"
// @Param X-Rating-Session header string false "Rating session ID"
// @Success 200 {object} shared.Response{data=dto.RatingSummaryResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/games/{slug}/rating [get]
func (h *RatingHandler) GetRatingSummary(c *fiber.Ctx) error {
	summary, err := h.ratingSvc.GetRatingSummary(c.Params("slug"), c.Get(shared.RatingSessionHeader))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", summary)
}

// @Summary Submit Rating
// @Description Submit a 1-5 star rating; repeat submissions from the same session replace the previous value
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Game slug"
// @Param request body dto.SubmitRatingRequest true "Rating"
// @Success 200 {object} shared.Response{data=dto.RatingSummaryResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/games/{slug}/rating [post]
func (h *RatingHandler) SubmitRating(c *fiber.Ctx) error {
	var req dto.SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	summary, err := h.ratingSvc.SubmitRating(c.Params("slug"), &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", summary)
}
