package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/radmastery/radprep_api/services/handlers"
	"github.com/radmastery/radprep_api/shared"
)

// AuthProvider is implemented by the auth middleware service. Declared here
// so the HTTP layer does not import the middleware package directly.
type AuthProvider interface {
	RequiredAuth() fiber.Handler
	OptionalAuth() fiber.Handler
}

// RateLimiter is implemented by the rate limit middleware service.
type RateLimiter interface {
	Limit() fiber.Handler
}

type HttpService struct {
	context.DefaultService

	port   int
	server *fiber.App
}

const (
	HTTP_SVC = "http_svc"

	authMiddlewareID      = "auth"
	rateLimitMiddlewareID = "rate_limit"
)

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
	monitoringSvc := svc.Service(MONITORING_SVC).(*MonitoringService)
	auth := svc.Service(authMiddlewareID).(AuthProvider)
	rateLimit := svc.Service(rateLimitMiddlewareID).(RateLimiter)

	catalogHandler := handlers.NewCatalogHandler(svc.Service(CATALOG_SVC).(*CatalogService))
	reviewHandler := handlers.NewReviewHandler(
		svc.Service(REVIEW_SVC).(*ReviewService),
		svc.Service(READINESS_SVC).(*ReadinessService),
		svc.Service(GAMIFICATION_SVC).(*GamificationService),
	)
	sessionHandler := handlers.NewSessionHandler(
		svc.Service(SESSION_SVC).(*SessionService),
		svc.Service(DEVICE_SYNC_SVC).(*DeviceSyncService),
	)
	planHandler := handlers.NewPlanHandler(svc.Service(STUDY_PLAN_SVC).(*StudyPlanService))

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(monitoringSvc))
	app.Use(rateLimit.Limit())

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Get("/cases", catalogHandler.ListCases)
	v1.Get("/cases/:id", catalogHandler.GetCase)

	v1.Post("/attempts", auth.OptionalAuth(), reviewHandler.RecordAttempt)
	v1.Get("/review/due", auth.RequiredAuth(), reviewHandler.GetDueForReview)
	v1.Get("/review/progress", auth.RequiredAuth(), reviewHandler.GetProgressSummary)
	v1.Get("/review/readiness", auth.RequiredAuth(), reviewHandler.GetReadiness)
	v1.Get("/badges", auth.RequiredAuth(), reviewHandler.GetBadges)

	v1.Post("/sessions", auth.OptionalAuth(), sessionHandler.StartSession)
	// Registered before /sessions/:id so "active" is not read as an id.
	v1.Put("/sessions/active", auth.RequiredAuth(), sessionHandler.PutActiveSession)
	v1.Get("/sessions/active", auth.RequiredAuth(), sessionHandler.GetActiveSession)
	v1.Delete("/sessions/active", auth.RequiredAuth(), sessionHandler.DeleteActiveSession)
	v1.Get("/sessions/:id", auth.OptionalAuth(), sessionHandler.GetSession)
	v1.Post("/sessions/:id/answers", auth.OptionalAuth(), sessionHandler.SubmitAnswer)
	v1.Post("/sessions/:id/complete", auth.OptionalAuth(), sessionHandler.CompleteSession)

	v1.Post("/plans", auth.RequiredAuth(), planHandler.CreatePlan)
	v1.Get("/plans/:id", auth.RequiredAuth(), planHandler.GetPlan)
	v1.Get("/plans/:id/milestones", auth.RequiredAuth(), planHandler.GetMilestones)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.Info().Int("port", svc.port).Msg("HTTP server started")
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

	return shared.ResponseOK(c, "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.Error().Err(appErr.Err).Str("path", c.Path()).Msg(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return shared.ResponseInternalError(c, err)
}
