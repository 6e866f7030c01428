package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/shared"
)

type CommentHandler struct {
	commentSvc CommentServiceInterface
}

func NewCommentHandler(commentSvc CommentServiceInterface) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

// @Summary List Comments
// @Description List comments for a game, newest first
// @Tags comments
// @Accept json
// @Produce json
// @Param slug path string true "Game slug"
// @Success 200 {object} shared.Response{data=dto.CommentListResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/games/{slug}/comments [get]
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.commentSvc.ListComments(c.Params("slug"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", comments)
}

// @Summary Post Comment
// @Description Post a comment on a game as the signed-in wallet
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Game slug"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} shared.Response{data=dto.CommentResponse}
// @Failure 401 {object} shared.Response
// @Router /api/v1/games/{slug}/comments [post]
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	walletAddress, _ := c.Locals(shared.WalletAddress).(string)
	comment, err := h.commentSvc.CreateComment(c.Params("slug"), walletAddress, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", comment)
}

// @Summary Edit Comment
// @Description Edit one of your own comments
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New content"
// @Success 200 {object} shared.Response{data=dto.CommentResponse}
// @Failure 403 {object} shared.Response
// @Router /api/v1/comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	walletAddress, _ := c.Locals(shared.WalletAddress).(string)
	comment, err := h.commentSvc.UpdateComment(c.Params("commentId"), walletAddress, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", comment)
}

// @Summary Delete Comment
// @Description Delete your own comment, or any comment as an admin
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} shared.Response
// @Failure 403 {object} shared.Response
// @Router /api/v1/comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	walletAddress, _ := c.Locals(shared.WalletAddress).(string)
	if err := h.commentSvc.DeleteComment(c.Params("commentId"), walletAddress); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
