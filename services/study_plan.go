package services

import (
	"errors"
	"fmt"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/model"
	"github.com/radmastery/radprep_api/services/repositories"
	"github.com/radmastery/radprep_api/shared"
	"gorm.io/gorm"
)

// StudyPlanService builds fixed milestone sequences from the catalog and
// tracks the user's position in them. Plan-mode sessions pull their cards
// from the current milestone and report completions back here.
type StudyPlanService struct {
	context.DefaultService

	sqlSvc     DatabaseService
	catalogSvc *CatalogService
}

const STUDY_PLAN_SVC = "study_plan_svc"

const (
	defaultCasesPerMilestone = 5
	defaultMilestoneCount    = 10
)

func (svc StudyPlanService) Id() string {
	return STUDY_PLAN_SVC
}

func (svc *StudyPlanService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *StudyPlanService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(DatabaseService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)
	return nil
}

// CreatePlan samples the catalog and chunks the draw into ordered
// milestones. A specialty filter narrows the draw; an empty filter plans
// across the whole catalog.
func (svc *StudyPlanService) CreatePlan(userID string, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	perMilestone := req.CasesPerMilestone
	if perMilestone <= 0 {
		perMilestone = defaultCasesPerMilestone
	}
	milestoneCount := req.MilestoneCount
	if milestoneCount <= 0 {
		milestoneCount = defaultMilestoneCount
	}

	filter := repositories.CaseFilter{Specialty: req.Specialty}
	cases, err := svc.catalogSvc.RandomCases(filter, perMilestone*milestoneCount)
	if err != nil {
		return nil, err
	}
	if len(cases) < perMilestone {
		return nil, shared.NewValidationError(
			fmt.Errorf("catalog has %d matching cases, need %d", len(cases), perMilestone),
			"Not enough cases to build a plan")
	}

	plan := &model.StudyPlan{
		UserID:         userID,
		Name:           req.Name,
		Specialty:      req.Specialty,
		MilestoneIndex: 0,
	}

	for i := 0; i < len(cases); i += perMilestone {
		end := i + perMilestone
		if end > len(cases) {
			break // drop the short tail rather than pad a milestone
		}

		ids := make([]string, 0, perMilestone)
		for _, c := range cases[i:end] {
			ids = append(ids, c.ID)
		}
		rawIDs, err := sonic.Marshal(ids)
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to encode milestone cases")
		}

		position := len(plan.Milestones)
		plan.Milestones = append(plan.Milestones, model.StudyPlanMilestone{
			Position: position,
			Title:    fmt.Sprintf("Milestone %d", position+1),
			CaseIDs:  rawIDs,
		})
	}

	created, err := svc.sqlSvc.Plans().CreatePlan(plan)
	if err != nil {
		return nil, shared.NewPersistenceError(err, "Failed to create study plan")
	}
	return mapPlanToResponse(created), nil
}

// GetPlan returns the plan header for the owning user.
func (svc *StudyPlanService) GetPlan(userID, planID string) (*dto.PlanResponse, error) {
	plan, err := svc.loadOwnedPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	return mapPlanToResponse(plan), nil
}

// NextMilestoneCases returns the cases of the user's current milestone. A
// finished plan has no next milestone.
func (svc *StudyPlanService) NextMilestoneCases(userID, planID string) (*model.StudyPlan, []model.Case, error) {
	plan, err := svc.loadOwnedPlan(userID, planID)
	if err != nil {
		return nil, nil, err
	}
	if plan.MilestoneIndex >= len(plan.Milestones) {
		return nil, nil, shared.NewConflictError(
			fmt.Errorf("plan %s already complete", planID),
			"Study plan is already complete")
	}

	milestone := plan.Milestones[plan.MilestoneIndex]
	var ids []string
	if err := sonic.Unmarshal(milestone.CaseIDs, &ids); err != nil {
		return nil, nil, shared.NewInternalError(err, "Failed to decode milestone cases")
	}

	cases, err := svc.catalogSvc.GetCasesOrdered(ids)
	if err != nil {
		return nil, nil, err
	}
	return plan, cases, nil
}

// RecordProgress marks answered cards on the milestone the session was
// built from. When every card in the milestone is answered, the plan
// advances to the next milestone.
func (svc *StudyPlanService) RecordProgress(userID, planID string, milestoneIndex, answered int) error {
	plan, err := svc.loadOwnedPlan(userID, planID)
	if err != nil {
		return err
	}
	if milestoneIndex < 0 || milestoneIndex >= len(plan.Milestones) {
		return shared.NewValidationError(
			fmt.Errorf("milestone %d of %d", milestoneIndex, len(plan.Milestones)),
			"Milestone index out of range")
	}

	milestone := plan.Milestones[milestoneIndex]
	var ids []string
	if err := sonic.Unmarshal(milestone.CaseIDs, &ids); err != nil {
		return shared.NewInternalError(err, "Failed to decode milestone cases")
	}

	if answered > milestone.CompletedCount {
		milestone.CompletedCount = answered
		if milestone.CompletedCount > len(ids) {
			milestone.CompletedCount = len(ids)
		}
		if err := svc.sqlSvc.Plans().UpdateMilestone(&milestone); err != nil {
			return shared.NewPersistenceError(err, "Failed to update milestone")
		}
	}

	// Advance only from the current milestone; replaying an old one is a
	// no-op for the plan cursor.
	if milestoneIndex == plan.MilestoneIndex && milestone.CompletedCount >= len(ids) {
		plan.MilestoneIndex++
		if err := svc.sqlSvc.Plans().UpdatePlan(plan); err != nil {
			return shared.NewPersistenceError(err, "Failed to advance study plan")
		}
	}
	return nil
}

// GetMilestones returns all milestones with their hydrated cases.
func (svc *StudyPlanService) GetMilestones(userID, planID string) ([]dto.PlanMilestoneResponse, error) {
	plan, err := svc.loadOwnedPlan(userID, planID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PlanMilestoneResponse, 0, len(plan.Milestones))
	for _, milestone := range plan.Milestones {
		var ids []string
		if err := sonic.Unmarshal(milestone.CaseIDs, &ids); err != nil {
			return nil, shared.NewInternalError(err, "Failed to decode milestone cases")
		}

		cases, err := svc.catalogSvc.GetCasesOrdered(ids)
		if err != nil {
			return nil, err
		}

		caseResponses := make([]dto.CaseResponse, 0, len(cases))
		for _, c := range cases {
			caseResponses = append(caseResponses, MapCaseToResponse(c))
		}

		responses = append(responses, dto.PlanMilestoneResponse{
			MilestoneIndex: milestone.Position,
			Title:          milestone.Title,
			Cases:          caseResponses,
			Completed:      milestone.Position < plan.MilestoneIndex,
		})
	}
	return responses, nil
}

func (svc *StudyPlanService) loadOwnedPlan(userID, planID string) (*model.StudyPlan, error) {
	plan, err := svc.sqlSvc.Plans().GetPlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Study plan not found")
		}
		return nil, shared.NewPersistenceError(err, "Failed to load study plan")
	}
	if plan.UserID != userID {
		return nil, shared.NewForbiddenError(
			fmt.Errorf("plan %s not owned by user", planID),
			"Study plan belongs to another user")
	}
	return plan, nil
}

func mapPlanToResponse(plan *model.StudyPlan) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:             plan.ID,
		Name:           plan.Name,
		Specialty:      plan.Specialty,
		MilestoneIndex: plan.MilestoneIndex,
		MilestoneCount: len(plan.Milestones),
	}
}
