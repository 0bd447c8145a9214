package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/service"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// LookupHandler serves the A-Z autocomplete endpoints.
type LookupHandler struct {
	lookupService *service.LookupService
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// SearchZones returns zones matching a search term.
// GET /v1/admin/rating/az-lookup/zones?search=
func (h *LookupHandler) SearchZones(c *gin.Context) {
	zones, err := h.lookupService.SearchZones(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to search zones")
		return
	}
	utils.Success(c, 200, "Successfully retrieved zones", zones)
}

// CodesByZone returns a zone's codes with billing intervals.
// GET /v1/admin/rating/az-lookup/codes?zone=
func (h *LookupHandler) CodesByZone(c *gin.Context) {
	zone := c.Query("zone")
	if zone == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "zone query parameter is required")
		return
	}

	codes, err := h.lookupService.CodesByZone(c.Request.Context(), zone)
	if err != nil {
		if err == utils.ErrZoneNotFound {
			utils.Error(c, 404, "ZONE_NOT_FOUND", "Zone not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve codes")
		return
	}
	utils.Success(c, 200, "Successfully retrieved codes", codes)
}

// ZoneByCode resolves the zone owning the longest prefix of a code.
// GET /v1/admin/rating/az-lookup/zone-by-code?code=
func (h *LookupHandler) ZoneByCode(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "code query parameter is required")
		return
	}

	zone, err := h.lookupService.ZoneByCode(c.Request.Context(), code)
	if err != nil {
		if err == utils.ErrZoneNotFound {
			utils.Error(c, 404, "ZONE_NOT_FOUND", "No zone matches this code")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to resolve zone")
		return
	}
	utils.Success(c, 200, "Successfully resolved zone", zone)
}
