package services

import (
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/services/repositories"
	"gorm.io/gorm"
)

// SQL_SVC is shared by SqliteService and PostgresService; DB_DRIVER picks
// which one registers at boot.
const SQL_SVC = "sql_svc"

// DatabaseService is the storage surface the domain services depend on,
// satisfied by both drivers.
type DatabaseService interface {
	Db() *gorm.DB
	Catalog() *repositories.CatalogRepository
	Progress() *repositories.ProgressRepository
	Attempts() *repositories.AttemptRepository
	Sessions() *repositories.SessionRepository
	Plans() *repositories.PlanRepository
	Gamification() *repositories.GamificationRepository
	HandleError(err error) error
}

func migratedModels() []interface{} {
	return []interface{}{
		&model.Case{},
		&model.CaseProgress{},
		&model.Attempt{},
		&model.QuizSession{},
		&model.ActiveSessionSnapshot{},
		&model.DailyCompletion{},
		&model.UserStats{},
		&model.Badge{},
		&model.UserBadge{},
		&model.StudyPlan{},
		&model.StudyPlanMilestone{},
	}
}
