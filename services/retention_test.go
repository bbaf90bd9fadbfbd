package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/model"
)

func TestRecordOutcomeFirstAnswerSeedsState(t *testing.T) {
	ds := newTestDB(t)
	svc := &RetentionService{sqlSvc: ds}
	seedCase(t, ds, model.Case{ID: "c1"})

	progress, err := svc.RecordOutcome("user-1", "c1", true)
	require.NoError(t, err)

	assert.Equal(t, 1, progress.Repetitions)
	assert.Equal(t, 1, progress.IntervalDays)
	assert.InDelta(t, 2.5, progress.EaseFactor, 1e-9)

	now := time.Now()
	wantReview := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	assert.Equal(t, wantReview, progress.NextReviewDate)
}

func TestRecordOutcomeCorrectStreakGrowsInterval(t *testing.T) {
	ds := newTestDB(t)
	svc := &RetentionService{sqlSvc: ds}
	seedCase(t, ds, model.Case{ID: "c1"})

	intervals := []int{1, 6, 15}
	for _, want := range intervals {
		progress, err := svc.RecordOutcome("user-1", "c1", true)
		require.NoError(t, err)
		assert.Equal(t, want, progress.IntervalDays)
	}

	stored, err := ds.Progress().GetProgress("user-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Repetitions)
	assert.Equal(t, 15, stored.IntervalDays)
}

func TestRecordOutcomeIncorrectResets(t *testing.T) {
	ds := newTestDB(t)
	svc := &RetentionService{sqlSvc: ds}
	seedCase(t, ds, model.Case{ID: "c1"})

	for i := 0; i < 3; i++ {
		_, err := svc.RecordOutcome("user-1", "c1", true)
		require.NoError(t, err)
	}

	progress, err := svc.RecordOutcome("user-1", "c1", false)
	require.NoError(t, err)

	assert.Equal(t, 0, progress.Repetitions)
	assert.Equal(t, 1, progress.IntervalDays)
	assert.InDelta(t, 1.96, progress.EaseFactor, 1e-9)
}

func TestRecordOutcomeKeepsSingleRowPerCase(t *testing.T) {
	ds := newTestDB(t)
	svc := &RetentionService{sqlSvc: ds}
	seedCase(t, ds, model.Case{ID: "c1"})

	for i := 0; i < 5; i++ {
		_, err := svc.RecordOutcome("user-1", "c1", i%2 == 0)
		require.NoError(t, err)
	}

	count, err := ds.Progress().CountProgressRows("user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
