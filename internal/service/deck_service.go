package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// DeckArchiver stores the original uploaded deck file. Implemented by
// DeckStore; nil disables archival.
type DeckArchiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// DeckService imports and exports supplier rate decks as CSV.
type DeckService struct {
	rateRepo *repository.RateRepository
	planRepo *repository.PlanRepository
	archiver DeckArchiver
}

// NewDeckService constructs a DeckService. archiver may be nil, in which
// case decks import without S3 archival.
func NewDeckService(rateRepo *repository.RateRepository, planRepo *repository.PlanRepository, archiver DeckArchiver) *DeckService {
	return &DeckService{rateRepo: rateRepo, planRepo: planRepo, archiver: archiver}
}

// deckHeader is the canonical column order for import and export.
var deckHeader = []string{
	"zone", "codes", "time_class", "connection_charge", "initial_charge",
	"recurring_charge", "recurring_interval", "effective_at", "end_at",
}

// RowError describes one invalid deck row.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// DeckImportResult summarizes a deck import.
type DeckImportResult struct {
	PlanID     int        `json:"planId"`
	Rows       int        `json:"rows"`
	ArchiveKey string     `json:"archiveKey,omitempty"`
	Errors     []RowError `json:"errors,omitempty"`
}

// ImportDeck parses and validates a CSV rate deck and inserts its rates in
// one transaction. A deck with any invalid row is rejected whole; the
// result then carries every row error and nothing is written.
func (s *DeckService) ImportDeck(ctx context.Context, planID int, filename string, data []byte) (*DeckImportResult, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	rates, rowErrs, err := parseDeck(planID, data)
	if err != nil {
		return nil, err
	}
	if len(rowErrs) > 0 {
		return &DeckImportResult{PlanID: planID, Errors: rowErrs}, utils.ErrInvalidDeck
	}
	if len(rates) == 0 {
		return &DeckImportResult{PlanID: planID, Errors: []RowError{{Line: 1, Message: "deck contains no rate rows"}}}, utils.ErrInvalidDeck
	}

	if err := s.rateRepo.CreateBatch(ctx, rates); err != nil {
		return nil, err
	}

	result := &DeckImportResult{PlanID: planID, Rows: len(rates)}
	if s.archiver != nil {
		key := fmt.Sprintf("decks/plan-%d/%d-%s", planID, time.Now().Unix(), filename)
		archiveKey, err := s.archiver.Archive(ctx, key, data, "text/csv")
		if err != nil {
			// Rates are committed; a failed archive is logged, not fatal.
			log.Error().Err(err).Int("plan_id", planID).Msg("Deck archival failed")
		} else {
			result.ArchiveKey = archiveKey
		}
	}

	log.Info().Int("plan_id", planID).Int("rows", result.Rows).Msg("Rate deck imported")
	return result, nil
}

// parseDeck reads the CSV into rate records, collecting per-row errors.
func parseDeck(planID int, data []byte) ([]models.RateRecord, []RowError, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(deckHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	start := 0
	if strings.EqualFold(records[0][0], "zone") {
		start = 1
	}

	var rates []models.RateRecord
	var rowErrs []RowError
	for i := start; i < len(records); i++ {
		line := i + 1
		rate, errs := parseDeckRow(planID, line, records[i])
		if len(errs) > 0 {
			rowErrs = append(rowErrs, errs...)
			continue
		}
		rates = append(rates, *rate)
	}
	return rates, rowErrs, nil
}

func parseDeckRow(planID, line int, row []string) (*models.RateRecord, []RowError) {
	var errs []RowError
	fail := func(msg string) {
		errs = append(errs, RowError{Line: line, Message: msg})
	}

	zone := strings.TrimSpace(row[0])
	if zone == "" {
		fail("zone is required")
	}

	var codes []string
	for _, c := range strings.Split(row[1], ";") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	if len(codes) == 0 {
		fail("at least one code is required")
	}

	timeClass := strings.TrimSpace(row[2])
	if timeClass == "" {
		timeClass = "any"
	}

	connection, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		fail("invalid connection_charge: " + row[3])
	}
	initial, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		fail("invalid initial_charge: " + row[4])
	}
	recurring, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		fail("invalid recurring_charge: " + row[5])
	}
	interval, err := strconv.Atoi(row[6])
	if err != nil || interval <= 0 {
		fail("invalid recurring_interval: " + row[6])
	}

	effective, err := time.Parse("2006-01-02", strings.TrimSpace(row[7]))
	if err != nil {
		fail("invalid effective_at: " + row[7])
	}

	var endAt *time.Time
	if raw := strings.TrimSpace(row[8]); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail("invalid end_at: " + row[8])
		} else {
			endAt = &t
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &models.RateRecord{
		PlanID:            planID,
		Zone:              zone,
		Codes:             codes,
		TimeClass:         timeClass,
		EffectiveAt:       effective,
		EndAt:             endAt,
		ConnectionCharge:  connection,
		InitialCharge:     initial,
		RecurringCharge:   recurring,
		RecurringInterval: interval,
	}, nil
}

// ExportDeck renders a plan's full rate set back out as CSV in the same
// column order the importer accepts.
func (s *DeckService) ExportDeck(ctx context.Context, planID int) ([]byte, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	rates, err := s.rateRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(deckHeader); err != nil {
		return nil, err
	}
	for i := range rates {
		r := &rates[i]
		endAt := ""
		if r.EndAt != nil {
			endAt = r.EndAt.Format("2006-01-02")
		}
		row := []string{
			r.Zone,
			strings.Join(r.Codes, ";"),
			r.TimeClass,
			strconv.FormatFloat(r.ConnectionCharge, 'f', -1, 64),
			strconv.FormatFloat(r.InitialCharge, 'f', -1, 64),
			strconv.FormatFloat(r.RecurringCharge, 'f', -1, 64),
			strconv.Itoa(r.RecurringInterval),
			r.EffectiveAt.Format("2006-01-02"),
			endAt,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
