package handlers

import (
	"github.com/radmastery/radprep_api/algorithm"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/shared"
)

// validationError wraps validator output so the response body carries the
// per-field messages.
func validationError(err error) *shared.AppError {
	appErr := shared.NewValidationError(err, "Validation failed")
	appErr.Data = dto.FormatValidationErrors(err)
	return appErr
}

type CatalogServiceInterface interface {
	ListCases(req dto.CaseFilterRequest) (*dto.CaseListResponse, error)
	GetCaseResponse(caseID string) (*dto.CaseResponse, error)
}

type ReviewServiceInterface interface {
	RecordAttempt(userID string, req dto.RecordAttemptRequest) (*dto.RecordAttemptResponse, error)
	GetDueForReview(userID string, limit int) (*dto.DueForReviewResponse, error)
	GetProgressSummary(userID string) (*dto.ProgressSummaryResponse, error)
}

type SessionServiceInterface interface {
	StartSession(userID string, req dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	SubmitAnswer(userID, sessionID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	CompleteSession(userID, sessionID string) (*dto.CompleteSessionResponse, error)
	GetSession(userID, sessionID string) (*dto.SessionSummary, error)
}

type StudyPlanServiceInterface interface {
	CreatePlan(userID string, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(userID, planID string) (*dto.PlanResponse, error)
	GetMilestones(userID, planID string) ([]dto.PlanMilestoneResponse, error)
}

type ReadinessServiceInterface interface {
	GetReadiness(userID string) (*algorithm.BoardReadinessScore, error)
}

type DeviceSyncServiceInterface interface {
	Put(userID string, req dto.PutActiveSessionRequest) error
	Get(userID string) (*dto.ActiveSessionResponse, error)
	Delete(userID string) error
}

type GamificationViewInterface interface {
	GetUserBadges(userID string) ([]dto.BadgeResponse, error)
}
