package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/model"
)

func newReadinessService(t *testing.T) (*SqliteService, *ReadinessService) {
	t.Helper()
	ds := newTestDB(t)
	return ds, &ReadinessService{sqlSvc: ds}
}

func seedAttempt(t *testing.T, ds *SqliteService, userID, caseID string, correct bool, at time.Time) {
	t.Helper()
	require.NoError(t, ds.Attempts().CreateAttempt(&model.Attempt{
		UserID:      &userID,
		CaseID:      caseID,
		Correct:     correct,
		AttemptedAt: at,
	}))
}

func TestReadinessEmptyUserScoresZero(t *testing.T) {
	ds, svc := newReadinessService(t)
	seedCase(t, ds, model.Case{ID: "case-1"})

	score, err := svc.GetReadiness("user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, score.Total)
	assert.Zero(t, score.Breakdown.Coverage.Score)
	assert.Zero(t, score.Breakdown.Accuracy.Score)
	assert.Zero(t, score.Breakdown.Consistency.Score)
	assert.Zero(t, score.Breakdown.DifficultySpread.Score)
	assert.Zero(t, score.Breakdown.Retention.Score)
}

func TestReadinessCoverageCountsCombos(t *testing.T) {
	ds, svc := newReadinessService(t)
	chest := seedCase(t, ds, model.Case{ID: "case-1", BodyPart: "Chest", Modality: "XR"})
	seedCase(t, ds, model.Case{ID: "case-2", BodyPart: "Head", Modality: "CT"})

	seedAttempt(t, ds, "user-1", chest.ID, true, time.Now())

	score, err := svc.GetReadiness("user-1")
	require.NoError(t, err)

	// One of two combos attempted rounds to half the component cap.
	assert.Equal(t, 10, score.Breakdown.Coverage.Score)
}

func TestReadinessConsistencyUsesDistinctDays(t *testing.T) {
	ds, svc := newReadinessService(t)
	c := seedCase(t, ds, model.Case{ID: "case-1"})

	// Three attempts on the same day count as one study day.
	today := time.Now()
	for i := 0; i < 3; i++ {
		seedAttempt(t, ds, "user-1", c.ID, true, today)
	}
	seedAttempt(t, ds, "user-1", c.ID, true, today.AddDate(0, 0, -1))

	score, err := svc.GetReadiness("user-1")
	require.NoError(t, err)

	assert.Contains(t, score.Breakdown.Consistency.Detail, "2 of the last 30 days")
}

func TestReadinessDifficultySpread(t *testing.T) {
	ds, svc := newReadinessService(t)
	easy := seedCase(t, ds, model.Case{ID: "case-1", Difficulty: 1})
	hard := seedCase(t, ds, model.Case{ID: "case-2", Difficulty: 5})

	seedAttempt(t, ds, "user-1", easy.ID, true, time.Now())
	seedAttempt(t, ds, "user-1", hard.ID, false, time.Now())

	score, err := svc.GetReadiness("user-1")
	require.NoError(t, err)

	assert.Equal(t, 8, score.Breakdown.DifficultySpread.Score)
}

func TestReadinessRetentionTracksMastery(t *testing.T) {
	ds, svc := newReadinessService(t)
	c := seedCase(t, ds, model.Case{ID: "case-1"})
	seedCase(t, ds, model.Case{ID: "case-2"})

	// A mastered schedule row: enough repetitions at a long enough interval.
	require.NoError(t, ds.Progress().UpsertProgress(&model.CaseProgress{
		UserID:         "user-1",
		CaseID:         c.ID,
		Repetitions:    5,
		IntervalDays:   30,
		EaseFactor:     2.5,
		NextReviewDate: time.Now().AddDate(0, 0, 30),
	}))

	score, err := svc.GetReadiness("user-1")
	require.NoError(t, err)

	assert.Equal(t, 10, score.Breakdown.Retention.Score)
	assert.Contains(t, score.Breakdown.Retention.Detail, "1 of 2")
}

func TestReadinessTotalIsComponentSum(t *testing.T) {
	ds, svc := newReadinessService(t)
	c := seedCase(t, ds, model.Case{ID: "case-1", Difficulty: 3})
	seedAttempt(t, ds, "user-1", c.ID, true, time.Now())

	score, err := svc.GetReadiness("user-1")
	require.NoError(t, err)

	sum := score.Breakdown.Coverage.Score +
		score.Breakdown.Accuracy.Score +
		score.Breakdown.Consistency.Score +
		score.Breakdown.DifficultySpread.Score +
		score.Breakdown.Retention.Score
	assert.Equal(t, sum, score.Total)
	assert.LessOrEqual(t, score.Total, 100)
}
