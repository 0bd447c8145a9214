package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/service"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// WizardHandler drives the plan-creation wizard sessions over HTTP.
type WizardHandler struct {
	wizardService *service.WizardService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(wizardService *service.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: wizardService}
}

// OpenSession starts a fresh wizard at stage 1.
// POST /v1/admin/rating/wizard/sessions
func (h *WizardHandler) OpenSession(c *gin.Context) {
	session, err := h.wizardService.Open(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to open wizard session")
		return
	}
	utils.Success(c, 201, "Wizard session opened", session)
}

// GetSession returns the current stage and draft.
// GET /v1/admin/rating/wizard/sessions/:id
func (h *WizardHandler) GetSession(c *gin.Context) {
	session, err := h.wizardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.wizardError(c, err)
		return
	}
	utils.Success(c, 200, "Successfully retrieved wizard session", session)
}

// UpdateDraft replaces the session's draft wholesale.
// PUT /v1/admin/rating/wizard/sessions/:id/draft
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	var draft models.PlanDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session, err := h.wizardService.UpdateDraft(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		h.wizardError(c, err)
		return
	}
	utils.Success(c, 200, "Draft updated", session)
}

// Next advances a stage, or submits from stage 5.
// POST /v1/admin/rating/wizard/sessions/:id/next
func (h *WizardHandler) Next(c *gin.Context) {
	session, err := h.wizardService.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.wizardError(c, err)
		return
	}
	if session.Complete {
		utils.Success(c, 201, "Plan created", session)
		return
	}
	utils.Success(c, 200, "Advanced to next stage", session)
}

// Previous steps back a stage; no-op at stage 1.
// POST /v1/admin/rating/wizard/sessions/:id/previous
func (h *WizardHandler) Previous(c *gin.Context) {
	session, err := h.wizardService.Previous(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.wizardError(c, err)
		return
	}
	utils.Success(c, 200, "Stepped back", session)
}

// CloseSession discards the session (cancel or done).
// DELETE /v1/admin/rating/wizard/sessions/:id
func (h *WizardHandler) CloseSession(c *gin.Context) {
	if err := h.wizardService.Close(c.Request.Context(), c.Param("id")); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to close wizard session")
		return
	}
	utils.Success(c, 200, "Wizard session closed", nil)
}

// wizardError maps service errors to HTTP responses. Submission failures
// carry the underlying message verbatim so the console can toast it.
func (h *WizardHandler) wizardError(c *gin.Context, err error) {
	switch err {
	case utils.ErrWizardNotFound:
		utils.Error(c, 404, "WIZARD_SESSION_NOT_FOUND", "Wizard session not found or expired")
	case utils.ErrWizardComplete:
		utils.Error(c, 409, "WIZARD_ALREADY_COMPLETE", "Wizard already completed")
	case utils.ErrSubmitInFlight:
		utils.Error(c, 409, "SUBMIT_IN_FLIGHT", "Plan creation already in progress")
	case utils.ErrMissingPlanName, utils.ErrMissingCurrency:
		utils.Error(c, 400, err.Error(), "Plan name and currency are required")
	case utils.ErrDuplicatePlanName:
		utils.Error(c, 409, "DUPLICATE_PLAN_NAME", "A plan with this name already exists")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
	}
}
