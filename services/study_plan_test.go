package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/shared"
)

func newStudyPlanService(t *testing.T) (*SqliteService, *StudyPlanService) {
	t.Helper()
	ds := newTestDB(t)
	return ds, &StudyPlanService{sqlSvc: ds, catalogSvc: &CatalogService{sqlSvc: ds}}
}

func seedPlanCases(t *testing.T, ds *SqliteService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		seedCase(t, ds, model.Case{})
	}
}

func TestCreatePlanChunksMilestones(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 6)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Chest intensive",
		CasesPerMilestone: 2,
		MilestoneCount:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Chest intensive", plan.Name)
	assert.Equal(t, 0, plan.MilestoneIndex)
	assert.Equal(t, 3, plan.MilestoneCount)

	milestones, err := svc.GetMilestones("user-1", plan.ID)
	require.NoError(t, err)
	require.Len(t, milestones, 3)
	for i, m := range milestones {
		assert.Equal(t, i, m.MilestoneIndex)
		assert.Len(t, m.Cases, 2)
		assert.False(t, m.Completed)
	}
}

func TestCreatePlanNeedsEnoughCases(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 2)

	_, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Too ambitious",
		CasesPerMilestone: 5,
		MilestoneCount:    4,
	})
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestNextMilestoneCasesFollowsCursor(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 4)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Two milestones",
		CasesPerMilestone: 2,
		MilestoneCount:    2,
	})
	require.NoError(t, err)

	_, cases, err := svc.NextMilestoneCases("user-1", plan.ID)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	firstMilestone := []string{cases[0].ID, cases[1].ID}

	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 2))

	_, cases, err = svc.NextMilestoneCases("user-1", plan.ID)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.NotContains(t, firstMilestone, cases[0].ID)
	assert.NotContains(t, firstMilestone, cases[1].ID)
}

func TestNextMilestoneCasesAfterCompletionConflicts(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 2)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Single milestone",
		CasesPerMilestone: 2,
		MilestoneCount:    1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 2))

	_, _, err = svc.NextMilestoneCases("user-1", plan.ID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestRecordProgressPartialDoesNotAdvance(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 4)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Slow and steady",
		CasesPerMilestone: 2,
		MilestoneCount:    2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 1))

	updated, err := svc.GetPlan("user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.MilestoneIndex)

	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 2))

	updated, err = svc.GetPlan("user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.MilestoneIndex)
}

func TestRecordProgressStaleMilestoneIsNoop(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 4)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Replay guard",
		CasesPerMilestone: 2,
		MilestoneCount:    2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 2))

	// A late report for the already-finished milestone leaves the cursor alone.
	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 2))

	updated, err := svc.GetPlan("user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.MilestoneIndex)
}

func TestPlanOwnershipEnforced(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 2)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Private plan",
		CasesPerMilestone: 2,
		MilestoneCount:    1,
	})
	require.NoError(t, err)

	_, err = svc.GetPlan("user-2", plan.ID)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)

	_, err = svc.GetPlan("user-1", "missing")
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestGetMilestonesMarksCompleted(t *testing.T) {
	ds, svc := newStudyPlanService(t)
	seedPlanCases(t, ds, 4)

	plan, err := svc.CreatePlan("user-1", dto.CreatePlanRequest{
		Name:              "Progress view",
		CasesPerMilestone: 2,
		MilestoneCount:    2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RecordProgress("user-1", plan.ID, 0, 2))

	milestones, err := svc.GetMilestones("user-1", plan.ID)
	require.NoError(t, err)
	require.Len(t, milestones, 2)
	assert.True(t, milestones[0].Completed)
	assert.False(t, milestones[1].Completed)
}
