package services

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
)

func seedStack(t *testing.T, ds *SqliteService, n int) []model.Case {
	t.Helper()
	cases := make([]model.Case, 0, n)
	for i := 0; i < n; i++ {
		cases = append(cases, seedCase(t, ds, model.Case{
			Question:     "What is the most likely diagnosis?",
			Options:      mustRawOptions(t, "Option A", "Option B", "Option C"),
			CorrectIndex: 1,
			Explanation:  "Option B explains the findings.",
		}))
	}
	return cases
}

func mustRawOptions(t *testing.T, options ...string) []byte {
	t.Helper()
	raw, err := sonic.Marshal(options)
	require.NoError(t, err)
	return raw
}

func TestQuickSessionFullFlow(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 3)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 3})
	require.NoError(t, err)
	require.Len(t, start.Cards, 3)

	// Answer index 1 is always correct for the seeded stack.
	for i := range start.Cards {
		resp, err := svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{
			AnswerIndex: intPtr(1),
			TimeSpentMs: 5000,
			CardIndex:   intPtr(i),
		})
		require.NoError(t, err)
		assert.True(t, resp.Correct)
		assert.Equal(t, 1, resp.CorrectIndex)
		assert.NotEmpty(t, resp.Explanation)
		assert.Greater(t, resp.XPEarned, 0)
	}

	complete, err := svc.CompleteSession("user-1", start.SessionID)
	require.NoError(t, err)

	assert.Equal(t, 3, complete.Summary.TotalCards)
	assert.Equal(t, 3, complete.Summary.Answered)
	assert.Equal(t, 3, complete.Summary.CorrectCount)
	assert.InDelta(t, 1.0, complete.Summary.Accuracy, 1e-9)
	assert.Empty(t, complete.Summary.MissedAnswers)
}

func TestSessionCardsWithholdAnswers(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 2)

	start, err := svc.StartSession("", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 2})
	require.NoError(t, err)

	for _, card := range start.Cards {
		assert.NotEmpty(t, card.Options)
		assert.NotEmpty(t, card.Question)
	}
}

func TestSubmitAnswerRejectsReplay(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 2)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 2})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{
		AnswerIndex: intPtr(0),
		CardIndex:   intPtr(0),
	})
	require.NoError(t, err)

	// Replaying the answered card conflicts; skipping ahead is invalid.
	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{
		AnswerIndex: intPtr(1),
		CardIndex:   intPtr(0),
	})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)

	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{
		AnswerIndex: intPtr(1),
		CardIndex:   intPtr(5),
	})
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestSubmitAnswerAfterAllCardsConflicts(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 1)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 1})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(1)})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestCompleteSessionIsFinalizedOnce(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 1)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 1})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.CompleteSession("user-1", start.SessionID)
	require.NoError(t, err)

	_, err = svc.CompleteSession("user-1", start.SessionID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestCompleteSessionEarlyKeepsPartialSummary(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 3)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 3})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(0)})
	require.NoError(t, err)

	complete, err := svc.CompleteSession("user-1", start.SessionID)
	require.NoError(t, err)

	assert.Equal(t, 3, complete.Summary.TotalCards)
	assert.Equal(t, 1, complete.Summary.Answered)
	assert.Equal(t, 0, complete.Summary.CorrectCount)
	require.Len(t, complete.Summary.MissedAnswers, 1)
	assert.Equal(t, 1, complete.Summary.MissedAnswers[0].CorrectIndex)
}

func TestSessionOwnershipEnforced(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 1)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeQuick, Limit: 1})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer("user-2", start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(0)})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestGuestCannotStartRestrictedModes(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 1)

	for _, mode := range []string{shared.ModeReview, shared.ModePlan, shared.ModeWeakness} {
		_, err := svc.StartSession("", dto.StartSessionRequest{Mode: mode})
		appErr, ok := shared.GetAppError(err)
		require.True(t, ok, mode)
		assert.Equal(t, 401, appErr.StatusCode, mode)
	}
}

func TestDailySessionDeterministicForDate(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 8)

	first, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeDaily})
	require.NoError(t, err)
	second, err := svc.StartSession("user-2", dto.StartSessionRequest{Mode: shared.ModeDaily})
	require.NoError(t, err)

	require.Equal(t, len(first.Cards), len(second.Cards))
	for i := range first.Cards {
		assert.Equal(t, first.Cards[i].CaseID, second.Cards[i].CaseID)
	}
}

func TestDailyCompletionBonusAwardedOnce(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 8)

	runDaily := func(userID string) *dto.CompleteSessionResponse {
		start, err := svc.StartSession(userID, dto.StartSessionRequest{Mode: shared.ModeDaily})
		require.NoError(t, err)
		for range start.Cards {
			_, err := svc.SubmitAnswer(userID, start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(1)})
			require.NoError(t, err)
		}
		complete, err := svc.CompleteSession(userID, start.SessionID)
		require.NoError(t, err)
		return complete
	}

	first := runDaily("user-1")
	second := runDaily("user-1")

	assert.Greater(t, first.BonusXP, second.BonusXP)

	date := time.Now().Format("2006-01-02")
	completion, err := ds.Sessions().GetDailyCompletion("user-1", date)
	require.NoError(t, err)
	assert.Equal(t, "user-1", completion.UserID)
}

func TestPlanSessionAdvancesMilestone(t *testing.T) {
	ds, svc := newServiceStack(t)
	seedStack(t, ds, 6)

	planSvc := svc.studyPlanSvc
	plan, err := planSvc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Core review",
		CasesPerMilestone: 3,
		MilestoneCount:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.MilestoneIndex)

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModePlan, PlanID: plan.ID})
	require.NoError(t, err)
	require.Len(t, start.Cards, 3)

	for range start.Cards {
		_, err := svc.SubmitAnswer("user-1", start.SessionID, dto.SubmitAnswerRequest{AnswerIndex: intPtr(1)})
		require.NoError(t, err)
	}
	_, err = svc.CompleteSession("user-1", start.SessionID)
	require.NoError(t, err)

	updated, err := planSvc.GetPlan("user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.MilestoneIndex)
}

func TestReviewSessionUsesDueCards(t *testing.T) {
	ds, svc := newServiceStack(t)
	cases := seedStack(t, ds, 3)

	seedProgress(t, ds, "user-1", cases[0].ID, time.Now().AddDate(0, 0, -2))

	start, err := svc.StartSession("user-1", dto.StartSessionRequest{Mode: shared.ModeReview, Limit: 2})
	require.NoError(t, err)

	require.Len(t, start.Cards, 2)
	assert.Equal(t, cases[0].ID, start.Cards[0].CaseID)
}
