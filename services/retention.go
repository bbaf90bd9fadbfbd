package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/algorithm"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
	"gorm.io/gorm"
)

// RetentionService owns the per-user, per-case review state. Every graded
// answer flows through RecordOutcome, which advances the schedule and
// persists the updated row.
type RetentionService struct {
	context.DefaultService

	sqlSvc DatabaseService
}

const RETENTION_SVC = "retention_svc"

func (svc RetentionService) Id() string {
	return RETENTION_SVC
}

func (svc *RetentionService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *RetentionService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	return nil
}

// RecordOutcome applies one answer to the case's review state. A case with
// no prior row starts from the initial state, so the first answer always
// produces a persisted schedule.
func (svc *RetentionService) RecordOutcome(userID, caseID string, correct bool) (*model.CaseProgress, error) {
	progress, err := svc.sqlSvc.Progress().GetProgress(userID, caseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewPersistenceError(err, "Failed to load review state")
		}
		progress = &model.CaseProgress{
			UserID:       userID,
			CaseID:       caseID,
			EaseFactor:   algorithm.InitialEaseFactor,
			IntervalDays: 0,
			Repetitions:  0,
		}
	}

	state := algorithm.ReviewState{
		EaseFactor:   progress.EaseFactor,
		IntervalDays: progress.IntervalDays,
		Repetitions:  progress.Repetitions,
	}
	next := state.Apply(correct)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextReview := today.AddDate(0, 0, next.IntervalDays)

	progress.EaseFactor = next.EaseFactor
	progress.IntervalDays = next.IntervalDays
	progress.Repetitions = next.Repetitions
	progress.NextReviewDate = nextReview
	progress.LastReviewedAt = now

	if err := svc.sqlSvc.Progress().UpsertProgress(progress); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to save review state")
	}
	return progress, nil
}
