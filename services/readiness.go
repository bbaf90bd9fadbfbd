package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/algorithm"
	"github.com/radmastery/radprep_api/shared"
)

// ReadinessService gathers the aggregates the board readiness score is
// built from. The score itself is pure arithmetic in the algorithm package
// and is recomputed on every request.
type ReadinessService struct {
	context.DefaultService

	sqlSvc DatabaseService
}

const READINESS_SVC = "readiness_svc"

func (svc ReadinessService) Id() string {
	return READINESS_SVC
}

func (svc *ReadinessService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ReadinessService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	return nil
}

func (svc *ReadinessService) GetReadiness(userID string) (*algorithm.BoardReadinessScore, error) {
	attemptedCombos, err := svc.sqlSvc.Attempts().DistinctCombosAttempted(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to compute coverage")
	}
	totalCombos, err := svc.sqlSvc.Catalog().DistinctComboCount()
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to compute coverage")
	}

	weightedCorrect, weightedAttempts, err := svc.sqlSvc.Attempts().WeightedAccuracySums(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to compute weighted accuracy")
	}

	studyDays, err := svc.studyDaysLast30(userID)
	if err != nil {
		return nil, err
	}

	difficulties, err := svc.sqlSvc.Attempts().DistinctDifficultiesAttempted(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to compute difficulty spread")
	}

	mastered, err := svc.sqlSvc.Progress().CountMastered(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count mastered cases")
	}
	totalCases, err := svc.sqlSvc.Catalog().CountCases()
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count cases")
	}

	score := algorithm.ComputeReadiness(algorithm.ReadinessInput{
		AttemptedCombos:      int(attemptedCombos),
		TotalCombos:          int(totalCombos),
		WeightedCorrect:      weightedCorrect,
		WeightedAttempts:     weightedAttempts,
		StudyDaysLast30:      studyDays,
		DistinctDifficulties: int(difficulties),
		MasteredCases:        int(mastered),
		TotalCases:           int(totalCases),
	})
	return &score, nil
}

func (svc *ReadinessService) studyDaysLast30(userID string) (int, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := today.AddDate(0, 0, -29)

	attempts, err := svc.sqlSvc.Attempts().GetAttemptsSince(userID, windowStart)
	if err != nil {
		return 0, shared.NewPersistenceError(err, "Failed to load recent attempts")
	}

	days := make(map[string]struct{})
	for _, attempt := range attempts {
		days[attempt.AttemptedAt.Format("2006-01-02")] = struct{}{}
	}
	return len(days), nil
}
