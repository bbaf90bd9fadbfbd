package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
)

// SchedulerService selects cases for quiz sessions. Due reviews always take
// priority over unseen material; weakness mode ranks by historical accuracy.
type SchedulerService struct {
	context.DefaultService

	sqlSvc     DatabaseService
	catalogSvc *CatalogService
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	return nil
}

// GetDueAndNew returns up to limit cases, due reviews first in due-date
// order, the remainder filled with unseen cases. The combined count never
// exceeds the limit.
func (svc *SchedulerService) GetDueAndNew(userID string, limit int) (due []model.Case, fresh []model.Case, err error) {
	if limit <= 0 {
		return nil, nil, nil
	}

	cutoff := endOfToday()
	dueRows, err := svc.sqlSvc.Progress().GetDueProgress(userID, cutoff, limit)
	if err != nil {
		return nil, nil, shared.NewPersistenceError(err, "Failed to load due reviews")
	}

	dueIDs := make([]string, 0, len(dueRows))
	for _, row := range dueRows {
		dueIDs = append(dueIDs, row.CaseID)
	}
	due, err = svc.catalogSvc.GetCasesOrdered(dueIDs)
	if err != nil {
		return nil, nil, err
	}

	remaining := limit - len(due)
	if remaining <= 0 {
		return due, nil, nil
	}

	fresh, err = svc.sqlSvc.Progress().GetNewCases(userID, remaining)
	if err != nil {
		return nil, nil, shared.NewPersistenceError(err, "Failed to load unseen cases")
	}
	return due, fresh, nil
}

// CountDue reports how many reviews are scheduled through end of today.
func (svc *SchedulerService) CountDue(userID string) (int64, error) {
	count, err := svc.sqlSvc.Progress().CountDue(userID, endOfToday())
	if err != nil {
		return 0, shared.NewPersistenceError(err, "Failed to count due reviews")
	}
	return count, nil
}

// GetWeakest returns the user's lowest-accuracy cases, worst first. Cases
// with fewer than two attempts never qualify.
func (svc *SchedulerService) GetWeakest(userID string, limit int) ([]model.Case, error) {
	stats, err := svc.sqlSvc.Attempts().WeakestCases(userID, limit)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to rank weak cases")
	}

	ids := make([]string, 0, len(stats))
	for _, stat := range stats {
		ids = append(ids, stat.CaseID)
	}
	return svc.catalogSvc.GetCasesOrdered(ids)
}

// endOfToday is the due cutoff. Anything scheduled today counts as due even
// if the scheduled instant is later in the day.
func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}
