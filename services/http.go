package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/baesapp/arcade_api/docs"
	"github.com/baesapp/arcade_api/services/handlers"
	"github.com/baesapp/arcade_api/shared"
)

// HttpService owns the public API surface. Routes split into three
// tiers: public catalog reads, wallet-authenticated mutations, and the
// admin surface behind the allow-list.
type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	authHandler := handlers.NewAuthHandler(svc.authSvc, svc.Service(JWT_SVC).(*JWTService))
	gameHandler := handlers.NewGameHandler(svc.Service(GAME_SVC).(*GameService))
	commentHandler := handlers.NewCommentHandler(svc.Service(COMMENT_SVC).(*CommentService))
	ratingHandler := handlers.NewRatingHandler(svc.Service(RATING_SVC).(*RatingService))
	adminHandler := handlers.NewAdminHandler(
		svc.Service(GAME_SVC).(*GameService),
		svc.Service(MEDIA_SVC).(*MediaService),
		svc.rateLimitSvc,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.errorHandler,
		BodyLimit:    32 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("CORS_ALLOW_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Rating-Session",
		AllowCredentials: false,
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.rateLimitSvc.Middleware())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := app.Group("/api/auth")
	auth.Get("/nonce", authHandler.Nonce)
	auth.Post("/login", authHandler.Login)
	auth.Get("/session", authHandler.Session)

	v1 := app.Group("/api/v1")

	v1.Get("/games", gameHandler.ListGames)
	v1.Get("/games/search", gameHandler.SearchGames)
	v1.Get("/games/category/:category", gameHandler.ListByCategory)
	v1.Get("/games/:slug", gameHandler.GetGame)
	v1.Post("/games/:slug/play", gameHandler.RecordPlay)
	v1.Get("/games/:slug/comments", commentHandler.ListComments)
	v1.Get("/games/:slug/rating", ratingHandler.GetRatingSummary)

	authed := v1.Group("", svc.authSvc.RequireAuth())
	authed.Post("/games/:slug/comments", commentHandler.CreateComment)
	authed.Post("/games/:slug/rating", ratingHandler.SubmitRating)
	authed.Put("/comments/:commentId", commentHandler.UpdateComment)
	authed.Delete("/comments/:commentId", commentHandler.DeleteComment)

	admin := v1.Group("/admin", svc.authSvc.RequireAuth(), svc.authSvc.RequireAdmin())
	admin.Get("/games", adminHandler.ListGames)
	admin.Post("/games", adminHandler.CreateGame)
	admin.Put("/games/:gameId", adminHandler.UpdateGame)
	admin.Delete("/games/:gameId", adminHandler.DeleteGame)
	admin.Post("/upload", adminHandler.UploadGameImage)
	admin.Get("/rate-limits", adminHandler.GetRateLimits)
	admin.Delete("/rate-limits/:clientId", adminHandler.ClearRateLimits)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
