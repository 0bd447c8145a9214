package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/service"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// PlanHandler handles rating-plan HTTP requests for one plan side. The
// customer and supplier route groups each get their own instance.
type PlanHandler struct {
	planService *service.PlanService
	side        models.PlanSide
}

// NewPlanHandler creates a PlanHandler bound to a plan side.
func NewPlanHandler(planService *service.PlanService, side models.PlanSide) *PlanHandler {
	return &PlanHandler{planService: planService, side: side}
}

// ListPlans returns a paged list of plans.
// GET /v1/admin/rating/{side}-plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	plans, total, err := h.planService.ListPlans(c.Request.Context(), h.side, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve plans")
		return
	}
	utils.SuccessWithPagination(c, 200, "Successfully retrieved plans", plans, page, limit, total)
}

// GetPlan returns one plan.
// GET /v1/admin/rating/{side}-plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve plan")
		return
	}
	utils.Success(c, 200, "Successfully retrieved plan", plan)
}

// CreatePlan creates a plan from a flattened draft, bypassing the wizard.
// POST /v1/admin/rating/{side}-plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var draft models.PlanDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	draft.Side = h.side

	plan, err := h.planService.CreateFromDraft(c.Request.Context(), &draft)
	if err != nil {
		switch err {
		case utils.ErrMissingPlanName, utils.ErrMissingCurrency:
			utils.Error(c, 400, err.Error(), "Plan name and currency are required")
		case utils.ErrDuplicatePlanName:
			utils.Error(c, 409, "DUPLICATE_PLAN_NAME", "A plan with this name already exists")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		}
		return
	}
	utils.Success(c, 201, "Plan created", plan)
}

// UpdatePlan applies mutable field changes.
// PUT /v1/admin/rating/{side}-plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	var req service.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), id, &req)
	if err != nil {
		switch err {
		case utils.ErrPlanNotFound:
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
		case utils.ErrImmutableField:
			utils.Error(c, 400, "IMMUTABLE_FIELD", "Plan name and currency cannot be changed after creation")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		}
		return
	}
	utils.Success(c, 200, "Plan updated", plan)
}

// DeletePlan removes a plan and its rates.
// DELETE /v1/admin/rating/{side}-plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), id); err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	utils.Success(c, 200, "Plan deleted", nil)
}
