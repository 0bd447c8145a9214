package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// OriginSetHandler handles origin-set CRUD.
type OriginSetHandler struct {
	osRepo   *repository.OriginSetRepository
	rateRepo *repository.RateRepository
}

// NewOriginSetHandler creates a new OriginSetHandler.
func NewOriginSetHandler(osRepo *repository.OriginSetRepository, rateRepo *repository.RateRepository) *OriginSetHandler {
	return &OriginSetHandler{osRepo: osRepo, rateRepo: rateRepo}
}

// ListOriginSets returns all origin sets.
// GET /v1/admin/rating/origin-sets
func (h *OriginSetHandler) ListOriginSets(c *gin.Context) {
	sets, err := h.osRepo.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve origin sets")
		return
	}
	utils.Success(c, 200, "Successfully retrieved origin sets", sets)
}

// CreateOriginSet creates an origin set.
// POST /v1/admin/rating/origin-sets
func (h *OriginSetHandler) CreateOriginSet(c *gin.Context) {
	var req struct {
		Name     string   `json:"name" binding:"required"`
		Prefixes []string `json:"prefixes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	os := &models.OriginSet{
		Name:     req.Name,
		Prefixes: req.Prefixes,
	}
	if err := h.osRepo.Create(c.Request.Context(), os); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	utils.Success(c, 201, "Origin set created", os)
}

// DeleteOriginSet removes an origin set unless rates reference it.
// DELETE /v1/admin/rating/origin-sets/:id
func (h *OriginSetHandler) DeleteOriginSet(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid origin set id")
		return
	}
	ctx := c.Request.Context()

	os, err := h.osRepo.GetByID(ctx, id)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve origin set")
		return
	}
	if os == nil {
		utils.Error(c, 404, "NOT_FOUND", "Origin set not found")
		return
	}

	n, err := h.rateRepo.CountByOriginSet(ctx, id)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to check origin set usage")
		return
	}
	if n > 0 {
		utils.Error(c, 409, "ORIGIN_SET_IN_USE", "Cannot delete: origin set is used by rates")
		return
	}

	if err := h.osRepo.Delete(ctx, id); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}
	utils.Success(c, 200, "Origin set deleted", nil)
}
