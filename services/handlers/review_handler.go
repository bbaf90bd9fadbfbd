package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/shared"
)

type ReviewHandler struct {
	reviewSvc    ReviewServiceInterface
	readinessSvc ReadinessServiceInterface
	gamifySvc    GamificationViewInterface
}

func NewReviewHandler(reviewSvc ReviewServiceInterface, readinessSvc ReadinessServiceInterface, gamifySvc GamificationViewInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewSvc:    reviewSvc,
		readinessSvc: readinessSvc,
		gamifySvc:    gamifySvc,
	}
}

// @Summary Record attempt
// @Description Record a graded answer against a case. Guests are logged without schedule updates or rewards.
// @Tags review
// @Accept json
// @Produce json
// @Param attemptRequest body dto.RecordAttemptRequest true "Attempt"
// @Success 200 {object} shared.Response{data=dto.RecordAttemptResponse}
// @Router /api/v1/attempts [post]
func (h *ReviewHandler) RecordAttempt(c *fiber.Ctx) error {
	var req dto.RecordAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	userID := userIDFromLocals(c)
	resp, err := h.reviewSvc.RecordAttempt(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Due for review
// @Description Cases due for review plus a sample of unseen cases
// @Tags review
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Maximum combined cases" default(10)
// @Success 200 {object} shared.Response{data=dto.DueForReviewResponse}
// @Router /api/v1/review/due [get]
func (h *ReviewHandler) GetDueForReview(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	limit := c.QueryInt("limit", 10)

	resp, err := h.reviewSvc.GetDueForReview(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Progress summary
// @Description Lifetime attempt stats with a 30-day activity calendar
// @Tags review
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ProgressSummaryResponse}
// @Router /api/v1/review/progress [get]
func (h *ReviewHandler) GetProgressSummary(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.reviewSvc.GetProgressSummary(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Board readiness
// @Description Composite 0-100 board readiness score with per-component breakdown
// @Tags review
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=algorithm.BoardReadinessScore}
// @Router /api/v1/review/readiness [get]
func (h *ReviewHandler) GetReadiness(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	score, err := h.readinessSvc.GetReadiness(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", score)
}

// @Summary User badges
// @Description Badges the user has unlocked
// @Tags review
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Router /api/v1/badges [get]
func (h *ReviewHandler) GetBadges(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	badges, err := h.gamifySvc.GetUserBadges(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", badges)
}

func userIDFromLocals(c *fiber.Ctx) string {
	if userID, ok := c.Locals(shared.UserID).(string); ok {
		return userID
	}
	return ""
}
