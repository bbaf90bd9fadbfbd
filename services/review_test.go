package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
)

func newReviewService(t *testing.T) (*SqliteService, *ReviewService) {
	t.Helper()
	ds := newTestDB(t)
	monitoring := &MonitoringService{}
	catalog := &CatalogService{sqlSvc: ds}
	return ds, &ReviewService{
		sqlSvc:          ds,
		retentionSvc:    &RetentionService{sqlSvc: ds},
		schedulerSvc:    &SchedulerService{sqlSvc: ds, catalogSvc: catalog},
		catalogSvc:      catalog,
		gamificationSvc: &GamificationService{sqlSvc: ds, monitoringSvc: monitoring},
		monitoringSvc:   monitoring,
	}
}

func boolPtr(v bool) *bool {
	return &v
}

func TestRecordAttemptGuestLogsOnly(t *testing.T) {
	ds, svc := newReviewService(t)
	c := seedCase(t, ds, model.Case{ID: "case-1"})

	resp, err := svc.RecordAttempt("", dto.RecordAttemptRequest{
		CaseID:  c.ID,
		Correct: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Zero(t, resp.XPEarned)

	// The attempt is on the log with no user attached, and no schedule row
	// was created.
	var attempts []model.Attempt
	require.NoError(t, ds.db.Find(&attempts).Error)
	require.Len(t, attempts, 1)
	assert.Nil(t, attempts[0].UserID)

	var progressRows int64
	require.NoError(t, ds.db.Model(&model.CaseProgress{}).Count(&progressRows).Error)
	assert.Zero(t, progressRows)
}

func TestRecordAttemptUpdatesScheduleAndRewards(t *testing.T) {
	ds, svc := newReviewService(t)
	c := seedCase(t, ds, model.Case{ID: "case-1", Difficulty: 3})

	resp, err := svc.RecordAttempt("user-1", dto.RecordAttemptRequest{
		CaseID:      c.ID,
		Correct:     boolPtr(true),
		TimeSpentMs: 4000,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 35, resp.XPEarned)

	progress, err := ds.Progress().GetProgress("user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Repetitions)
	assert.Equal(t, 1, progress.IntervalDays)
}

func TestRecordAttemptUnknownCase(t *testing.T) {
	_, svc := newReviewService(t)

	_, err := svc.RecordAttempt("user-1", dto.RecordAttemptRequest{
		CaseID:  "missing",
		Correct: boolPtr(true),
	})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestGetDueForReviewSplitsDueAndNew(t *testing.T) {
	ds, svc := newReviewService(t)
	due := seedCase(t, ds, model.Case{ID: "case-due"})
	seedCase(t, ds, model.Case{ID: "case-new"})

	seedProgress(t, ds, "user-1", due.ID, time.Now().AddDate(0, 0, -1))

	resp, err := svc.GetDueForReview("user-1", 10)
	require.NoError(t, err)

	require.Len(t, resp.DueCases, 1)
	assert.Equal(t, "case-due", resp.DueCases[0].ID)
	require.Len(t, resp.NewCases, 1)
	assert.Equal(t, "case-new", resp.NewCases[0].ID)
	assert.Equal(t, 1, resp.TotalDue)
	assert.Equal(t, 1, resp.TotalNew)
}

func TestGetProgressSummaryAggregates(t *testing.T) {
	ds, svc := newReviewService(t)
	first := seedCase(t, ds, model.Case{ID: "case-1"})
	second := seedCase(t, ds, model.Case{ID: "case-2"})

	for _, attempt := range []struct {
		caseID  string
		correct bool
	}{
		{first.ID, true},
		{first.ID, true},
		{second.ID, false},
	} {
		_, err := svc.RecordAttempt("user-1", dto.RecordAttemptRequest{
			CaseID:  attempt.caseID,
			Correct: boolPtr(attempt.correct),
		})
		require.NoError(t, err)
	}

	summary, err := svc.GetProgressSummary("user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalAttempts)
	assert.Equal(t, 2, summary.CorrectCount)
	assert.InDelta(t, 2.0/3.0, summary.Accuracy, 1e-9)
	assert.Equal(t, 2, summary.UniqueCases)
	assert.Equal(t, 0, summary.MasteredCases)
	assert.Equal(t, 2, summary.LearningCases)
}

func TestProgressSummaryStreakCalendar(t *testing.T) {
	ds, svc := newReviewService(t)
	c := seedCase(t, ds, model.Case{ID: "case-1"})

	_, err := svc.RecordAttempt("user-1", dto.RecordAttemptRequest{
		CaseID:  c.ID,
		Correct: boolPtr(true),
	})
	require.NoError(t, err)

	summary, err := svc.GetProgressSummary("user-1")
	require.NoError(t, err)

	require.Len(t, summary.StreakData, streakWindowDays)

	today := time.Now().Format("2006-01-02")
	last := summary.StreakData[len(summary.StreakData)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, 1, last.Attempts)

	// Every other day in the window is present with a zero count.
	for _, day := range summary.StreakData[:len(summary.StreakData)-1] {
		assert.Zero(t, day.Attempts, day.Date)
	}
}
