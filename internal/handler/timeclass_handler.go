package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// TimeClassHandler handles time-class CRUD.
type TimeClassHandler struct {
	tcRepo   *repository.TimeClassRepository
	rateRepo *repository.RateRepository
}

// NewTimeClassHandler creates a new TimeClassHandler.
func NewTimeClassHandler(tcRepo *repository.TimeClassRepository, rateRepo *repository.RateRepository) *TimeClassHandler {
	return &TimeClassHandler{tcRepo: tcRepo, rateRepo: rateRepo}
}

// ListTimeClasses returns all time classes.
// GET /v1/admin/rating/time-classes
func (h *TimeClassHandler) ListTimeClasses(c *gin.Context) {
	classes, err := h.tcRepo.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve time classes")
		return
	}
	utils.Success(c, 200, "Successfully retrieved time classes", classes)
}

// CreateTimeClass creates a time class.
// POST /v1/admin/rating/time-classes
func (h *TimeClassHandler) CreateTimeClass(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Days      string `json:"days" binding:"required"`
		StartTime string `json:"startTime" binding:"required"`
		EndTime   string `json:"endTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	tc := &models.TimeClass{
		Name:      req.Name,
		Days:      req.Days,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.tcRepo.Create(c.Request.Context(), tc); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	utils.Success(c, 201, "Time class created", tc)
}

// DeleteTimeClass removes a time class unless rates reference it.
// DELETE /v1/admin/rating/time-classes/:id
func (h *TimeClassHandler) DeleteTimeClass(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid time class id")
		return
	}
	ctx := c.Request.Context()

	tc, err := h.tcRepo.GetByID(ctx, id)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve time class")
		return
	}
	if tc == nil {
		utils.Error(c, 404, "NOT_FOUND", "Time class not found")
		return
	}

	n, err := h.rateRepo.CountByTimeClass(ctx, tc.Name)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to check time class usage")
		return
	}
	if n > 0 {
		utils.Error(c, 409, "TIME_CLASS_IN_USE", "Cannot delete: time class is used by rates")
		return
	}

	if err := h.tcRepo.Delete(ctx, id); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	utils.Success(c, 200, "Time class deleted", nil)
}
