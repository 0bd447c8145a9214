package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NimbusVoIP/nimbus_api/internal/service"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// maxDeckBytes caps uploaded deck size at 20MB.
const maxDeckBytes = 20 << 20

// DeckHandler handles rate-deck CSV import and export.
type DeckHandler struct {
	deckService *service.DeckService
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(deckService *service.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

// ImportDeck accepts a multipart CSV upload and imports it whole.
// POST /v1/admin/rating/supplier-plans/:id/decks
func (h *DeckHandler) ImportDeck(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	fileHeader, err := c.FormFile("deck")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "deck file is required")
		return
	}
	if fileHeader.Size > maxDeckBytes {
		utils.Error(c, 400, "DECK_TOO_LARGE", "Deck exceeds the 20MB limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read deck file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read deck file")
		return
	}

	result, err := h.deckService.ImportDeck(c.Request.Context(), planID, fileHeader.Filename, data)
	if err != nil {
		switch err {
		case utils.ErrPlanNotFound:
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
		case utils.ErrInvalidDeck:
			// Row errors ride along so the console can list them.
			utils.ErrorWithData(c, 422, "INVALID_DECK", "Deck rejected: invalid rows", result)
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		}
		return
	}
	utils.Success(c, 201, "Deck imported", result)
}

// ExportDeck streams the plan's rates as CSV.
// GET /v1/admin/rating/supplier-plans/:id/decks/export
func (h *DeckHandler) ExportDeck(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid plan id")
		return
	}

	data, err := h.deckService.ExportDeck(c.Request.Context(), planID)
	if err != nil {
		if err == utils.ErrPlanNotFound {
			utils.Error(c, 404, "PLAN_NOT_FOUND", "Plan not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="plan-%d-rates.csv"`, planID))
	c.Data(200, "text/csv", data)
}
