package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/radmastery/radprep_api/dto"
	"github.com/radmastery/radprep_api/shared"
)

type SessionHandler struct {
	sessionSvc    SessionServiceInterface
	deviceSyncSvc DeviceSyncServiceInterface
}

func NewSessionHandler(sessionSvc SessionServiceInterface, deviceSyncSvc DeviceSyncServiceInterface) *SessionHandler {
	return &SessionHandler{
		sessionSvc:    sessionSvc,
		deviceSyncSvc: deviceSyncSvc,
	}
}

// @Summary Start session
// @Description Start a quiz session in one of the five modes. Guests may start quick and daily sessions.
// @Tags session
// @Accept json
// @Produce json
// @Param startRequest body dto.StartSessionRequest true "Session parameters"
// @Success 201 {object} shared.Response{data=dto.StartSessionResponse}
// @Router /api/v1/sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	userID := userIDFromLocals(c)
	resp, err := h.sessionSvc.StartSession(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Submit answer
// @Description Grade the session's current card and advance it
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answerRequest body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.SubmitAnswerResponse}
// @Router /api/v1/sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	userID := userIDFromLocals(c)
	resp, err := h.sessionSvc.SubmitAnswer(userID, sessionID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Complete session
// @Description Finalize the session, apply end-of-session rewards, and return the summary
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.CompleteSessionResponse}
// @Router /api/v1/sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	userID := userIDFromLocals(c)
	resp, err := h.sessionSvc.CompleteSession(userID, sessionID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Get session
// @Description Current state of a session as a summary
// @Tags session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionSummary}
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	userID := userIDFromLocals(c)
	summary, err := h.sessionSvc.GetSession(userID, sessionID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", summary)
}

// @Summary Store active session snapshot
// @Description Store the caller's resumable session snapshot, replacing any previous one
// @Tags session
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param snapshot body dto.PutActiveSessionRequest true "Snapshot"
// @Success 200 {object} shared.Response
// @Router /api/v1/sessions/active [put]
func (h *SessionHandler) PutActiveSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.PutActiveSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}

	if err := h.deviceSyncSvc.Put(userID, req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Get active session snapshot
// @Description Fetch the caller's resumable session snapshot. Snapshots older than 30 minutes are expired on read.
// @Tags session
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.ActiveSessionResponse}
// @Router /api/v1/sessions/active [get]
func (h *SessionHandler) GetActiveSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.deviceSyncSvc.Get(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Delete active session snapshot
// @Description Remove the caller's resumable session snapshot
// @Tags session
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response
// @Router /api/v1/sessions/active [delete]
func (h *SessionHandler) DeleteActiveSession(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.deviceSyncSvc.Delete(userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
