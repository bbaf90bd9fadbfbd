package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
	log "github.com/sirupsen/logrus"
)

// ReviewService backs the standalone attempt and review endpoints that sit
// outside session orchestration. A logged-in attempt advances the review
// schedule and earns XP; a guest attempt is only appended to the log.
type ReviewService struct {
	context.DefaultService

	sqlSvc          DatabaseService
	retentionSvc    *RetentionService
	schedulerSvc    *SchedulerService
	catalogSvc      *CatalogService
	gamificationSvc *GamificationService
	monitoringSvc   *MonitoringService
}

const REVIEW_SVC = "review_svc"

const streakWindowDays = 30

func (svc ReviewService) Id() string {
	return REVIEW_SVC
}

func (svc *ReviewService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ReviewService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	svc.retentionSvc = svc.Service(RETENTION_SVC).(*RetentionService)
	svc.schedulerSvc = svc.Service(SCHEDULER_SVC).(*SchedulerService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	svc.gamificationSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// RecordAttempt logs one answer against a catalog case. userID is empty for
// guests, who get no schedule update and no rewards.
func (svc *ReviewService) RecordAttempt(userID string, req dto.RecordAttemptRequest) (*dto.RecordAttemptResponse, error) {
	caseData, err := svc.catalogSvc.GetCase(req.CaseID)
	if err != nil {
		return nil, err
	}

	correct := *req.Correct

	attempt := &model.Attempt{
		CaseID:       caseData.ID,
		Correct:      correct,
		TimeSpentMs:  req.TimeSpentMs,
		AnswerIndex:  req.AnswerIndex,
		CorrectIndex: req.CorrectIndex,
		AttemptedAt:  time.Now(),
	}
	if userID != "" {
		attempt.UserID = &userID
	}
	if req.SessionID != "" {
		attempt.SessionID = &req.SessionID
	}

	if userID == "" {
		if err := svc.sqlSvc.Attempts().CreateAttempt(attempt); err != nil {
			return nil, shared.NewPersistenceError(err, "Failed to record attempt")
		}
		svc.monitoringSvc.RecordAttempt(correct)
		return &dto.RecordAttemptResponse{Success: true}, nil
	}

	if _, err := svc.retentionSvc.RecordOutcome(userID, caseData.ID, correct); err != nil {
		return nil, err
	}

	if err := svc.sqlSvc.Attempts().CreateAttempt(attempt); err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to record attempt")
	}
	svc.monitoringSvc.RecordAttempt(correct)

	reward, err := svc.gamificationSvc.EvaluateAnswer(userID, correct, req.TimeSpentMs, caseData.Difficulty)
	if err != nil {
		// Schedule and log already committed; reward failure should not
		// surface as a failed attempt.
		log.WithError(err).WithField("user_id", userID).Warn("Failed to evaluate answer reward")
		return &dto.RecordAttemptResponse{Success: true}, nil
	}

	return &dto.RecordAttemptResponse{
		Success:   true,
		XPEarned:  reward.XPEarned,
		LevelUp:   reward.LevelUp,
		NewBadges: reward.NewBadges,
	}, nil
}

// GetDueForReview returns due reviews and a sample of unseen cases.
func (svc *ReviewService) GetDueForReview(userID string, limit int) (*dto.DueForReviewResponse, error) {
	due, fresh, err := svc.schedulerSvc.GetDueAndNew(userID, limit)
	if err != nil {
		return nil, err
	}

	totalDue, err := svc.schedulerSvc.CountDue(userID)
	if err != nil {
		return nil, err
	}
	totalNew, err := svc.sqlSvc.Progress().CountNewCases(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count unseen cases")
	}

	resp := &dto.DueForReviewResponse{
		DueCases: make([]dto.CaseResponse, 0, len(due)),
		NewCases: make([]dto.CaseResponse, 0, len(fresh)),
		TotalDue: int(totalDue),
		TotalNew: int(totalNew),
	}
	for _, c := range due {
		resp.DueCases = append(resp.DueCases, MapCaseToResponse(c))
	}
	for _, c := range fresh {
		resp.NewCases = append(resp.NewCases, MapCaseToResponse(c))
	}
	return resp, nil
}

// GetProgressSummary aggregates lifetime attempt stats plus a 30-day
// activity histogram for the streak calendar.
func (svc *ReviewService) GetProgressSummary(userID string) (*dto.ProgressSummaryResponse, error) {
	total, correct, err := svc.sqlSvc.Attempts().CountAttempts(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count attempts")
	}

	uniqueCases, err := svc.sqlSvc.Attempts().CountUniqueCases(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count unique cases")
	}

	mastered, err := svc.sqlSvc.Progress().CountMastered(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count mastered cases")
	}

	tracked, err := svc.sqlSvc.Progress().CountProgressRows(userID)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to count tracked cases")
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	streakData, err := svc.buildStreakData(userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProgressSummaryResponse{
		TotalAttempts: int(total),
		CorrectCount:  int(correct),
		Accuracy:      accuracy,
		UniqueCases:   int(uniqueCases),
		MasteredCases: int(mastered),
		LearningCases: int(tracked - mastered),
		StreakData:    streakData,
	}, nil
}

// buildStreakData buckets the last 30 days of attempts by calendar day.
// Days without activity are included with a zero count so the client can
// render a contiguous calendar.
func (svc *ReviewService) buildStreakData(userID string) ([]dto.DayActivity, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := today.AddDate(0, 0, -(streakWindowDays - 1))

	attempts, err := svc.sqlSvc.Attempts().GetAttemptsSince(userID, windowStart)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to load recent attempts")
	}

	counts := make(map[string]int, streakWindowDays)
	for _, attempt := range attempts {
		counts[attempt.AttemptedAt.Format("2006-01-02")]++
	}

	days := make([]dto.DayActivity, 0, streakWindowDays)
	for i := 0; i < streakWindowDays; i++ {
		day := windowStart.AddDate(0, 0, i).Format("2006-01-02")
		days = append(days, dto.DayActivity{Date: day, Attempts: counts[day]})
	}
	return days, nil
}
