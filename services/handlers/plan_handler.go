package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/shared"
)

type PlanHandler struct {
	planSvc StudyPlanServiceInterface
}

func NewPlanHandler(planSvc StudyPlanServiceInterface) *PlanHandler {
	return &PlanHandler{
		planSvc: planSvc,
	}
}

// @Summary Create study plan
// @Description Build a milestone-based study plan from the catalog
// @Tags plan
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param planRequest body dto.CreatePlanRequest true "Plan parameters"
// @Success 201 {object} shared.Response{data=dto.PlanResponse}
// @Router /api/v1/plans [post]
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	plan, err := h.planSvc.CreatePlan(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", plan)
}

// @Summary Get study plan
// @Description Plan header with the current milestone cursor
// @Tags plan
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Plan ID"
// @Success 200 {object} shared.Response{data=dto.PlanResponse}
// @Router /api/v1/plans/{id} [get]
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	planID := c.Params("id")

	plan, err := h.planSvc.GetPlan(userID, planID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", plan)
}

// @Summary Get plan milestones
// @Description All milestones of a plan with their hydrated cases
// @Tags plan
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Plan ID"
// @Success 200 {object} shared.Response{data=[]dto.PlanMilestoneResponse}
// @Router /api/v1/plans/{id}/milestones [get]
func (h *PlanHandler) GetMilestones(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	planID := c.Params("id")

	milestones, err := h.planSvc.GetMilestones(userID, planID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", milestones)
}
