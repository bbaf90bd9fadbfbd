package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/radmastery/radprep_api/middleware"
	"github.com/radmastery/radprep_api/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		databaseService(),
		&services.RedisService{},
		&services.MonitoringService{},

		&services.JWTService{},
		&middleware.AuthMiddleware{},
		&middleware.RateLimitMiddleware{},

		&services.CatalogService{},
		&services.McqService{},
		&services.RetentionService{},
		&services.SchedulerService{},
		&services.GamificationService{},
		&services.ReviewService{},
		&services.StudyPlanService{},
		&services.DeviceSyncService{},
		&services.ReadinessService{},
		&services.SessionService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}

// databaseService picks the storage driver. Both register under the same
// service id, so everything downstream resolves the same interface.
func databaseService() context.Service {
	if os.Getenv("DB_DRIVER") == "postgres" {
		return &services.PostgresService{}
	}
	return &services.SqliteService{}
}
