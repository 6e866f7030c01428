package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baesapp/arcade_api/dto"
	"github.com/baesapp/arcade_api/services"
	"github.com/baesapp/arcade_api/shared"
)

type AuthHandler struct {
	authSvc AuthServiceInterface
	jwtSvc  JWTServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface, jwtSvc JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		jwtSvc:  jwtSvc,
	}
}

// @Summary Request Nonce
// @Description Issue a single-use nonce for the next wallet sign-in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.NonceResponse
// @Router /api/auth/nonce [get]
func (h *AuthHandler) Nonce(c *fiber.Ctx) error {
	nonce, err := h.authSvc.Nonce(c.Context())
	if err != nil {
		return shared.NewInternalError(err, "failed to issue nonce")
	}

	return c.Status(fiber.StatusOK).JSON(dto.NonceResponse{Nonce: nonce})
}

// @Summary Wallet Login
// @Description Verify a signed sign-in message and issue a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SiweLoginRequest true "Signed message"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} shared.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.SiweLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.authSvc.Login(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Current Session
// @Description Resolve the bearer token into the caller's session view
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} shared.Response
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	token := services.ExtractTokenFromHeader(c.Get("Authorization"))
	if token == "" {
		return shared.ResponseUnauthorized(c, "authentication required")
	}

	claims, err := h.jwtSvc.VerifySessionToken(token)
	if err != nil {
		return shared.ResponseUnauthorized(c, "authentication required")
	}

	return c.Status(fiber.StatusOK).JSON(h.authSvc.Session(claims))
}
