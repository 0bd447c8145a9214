package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/service"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// RateHandler handles rate-table HTTP requests.
type RateHandler struct {
	rateService *service.RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateService *service.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// viewRequest is the filter/pivot/paginate query for the rate table.
type viewRequest struct {
	Criteria service.FilterCriteria `json:"criteria"`
	Mode     service.DisplayMode    `json:"mode"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// ViewRates runs the view pipeline over a plan's rates.
// POST /v1/admin/rating/{side}-plans/:id/rates/view
func (h *RateHandler) ViewRates(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	view, err := h.rateService.ViewRates(c.Request.Context(), planID, req.Criteria, req.Mode, req.Page, req.PageSize)
	if err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to build rate view")
		return
	}
	utils.Success(c, 200, "Successfully retrieved rates", view)
}

// ListRates returns one cursor page of raw rate records.
// GET /v1/admin/rating/{side}-plans/:id/rates?cursor=&limit=
func (h *RateHandler) ListRates(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}
	cursor, _ := strconv.Atoi(c.DefaultQuery("cursor", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	rates, next, err := h.rateService.ListRates(c.Request.Context(), planID, cursor, limit)
	if err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve rates")
		return
	}
	utils.Success(c, 200, "Successfully retrieved rates", gin.H{
		"items":      rates,
		"nextCursor": next,
	})
}

// AddRate inserts a rate record into a plan.
// POST /v1/admin/rating/{side}-plans/:id/rates
func (h *RateHandler) AddRate(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	var req service.AddRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	rate, err := h.rateService.AddRate(c.Request.Context(), planID, &req)
	if err != nil {
		switch err {
		case utils.ErrPlanNotFound:
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
		case utils.ErrEmptyCodes:
			utils.Error(c, 400, "EMPTY_CODES", "A rate requires at least one code")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		}
		return
	}
	utils.Success(c, 201, "Rate added", rate)
}

// DeleteRate removes a whole rate record.
// DELETE /v1/admin/rating/{side}-plans/:id/rates/:rateId
func (h *RateHandler) DeleteRate(c *gin.Context) {
	rateID, err := strconv.Atoi(c.Param("rateId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid rate id")
		return
	}

	if err := h.rateService.DeleteRate(c.Request.Context(), rateID); err != nil {
		if err == utils.ErrRateNotFound {
			utils.Error(c, 404, "RATE_NOT_FOUND", "Rate not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	utils.Success(c, 200, "Rate deleted", nil)
}

// BlockRate sets the blocked flag on a rate.
// PUT /v1/admin/rating/{side}-plans/:id/rates/:rateId/block
func (h *RateHandler) BlockRate(c *gin.Context) {
	h.setBlocked(c, true)
}

// UnblockRate clears the blocked flag on a rate.
// PUT /v1/admin/rating/{side}-plans/:id/rates/:rateId/unblock
func (h *RateHandler) UnblockRate(c *gin.Context) {
	h.setBlocked(c, false)
}

func (h *RateHandler) setBlocked(c *gin.Context, blocked bool) {
	rateID, err := strconv.Atoi(c.Param("rateId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid rate id")
		return
	}

	if err := h.rateService.SetBlocked(c.Request.Context(), rateID, blocked); err != nil {
		if err == utils.ErrRateNotFound {
			utils.Error(c, 404, "RATE_NOT_FOUND", "Rate not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	msg := "Rate unblocked"
	if blocked {
		msg = "Rate blocked"
	}
	utils.Success(c, 200, msg, nil)
}
