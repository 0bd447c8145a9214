package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// PlanService handles rating-plan CRUD and creation from wizard drafts.
type PlanService struct {
	planRepo *repository.PlanRepository
	rateRepo *repository.RateRepository
	zoneRepo *repository.ZoneRepository
}

// NewPlanService constructs a PlanService.
func NewPlanService(planRepo *repository.PlanRepository, rateRepo *repository.RateRepository, zoneRepo *repository.ZoneRepository) *PlanService {
	return &PlanService{planRepo: planRepo, rateRepo: rateRepo, zoneRepo: zoneRepo}
}

// ListPlans returns one page of plans for a side plus the total count.
func (s *PlanService) ListPlans(ctx context.Context, side models.PlanSide, page, limit int) ([]models.RatingPlan, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.planRepo.List(ctx, side, page, limit)
}

// GetPlan returns a plan by id.
func (s *PlanService) GetPlan(ctx context.Context, id int) (*models.RatingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

// intOr parses a numeric string, falling back to def on any parse failure.
// Malformed numeric input never blocks plan creation.
func intOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// draftEffectiveAt combines the draft's date and time strings; a missing or
// malformed value falls back to now.
func draftEffectiveAt(d *models.PlanDraft) time.Time {
	if d.EffectiveDate == "" {
		return time.Now()
	}
	raw := d.EffectiveDate + "T" + d.EffectiveTime
	if d.EffectiveTime == "" {
		raw = d.EffectiveDate + "T00:00"
	}
	t, err := time.Parse("2006-01-02T15:04", raw)
	if err != nil {
		return time.Now()
	}
	return t
}

// planFromDraft maps a draft to a plan, coercing the numeric string fields
// to defaults (1, 1, 0) when unparseable.
func planFromDraft(draft *models.PlanDraft) *models.RatingPlan {
	side := draft.Side
	if side == "" {
		side = models.PlanSideCustomer
	}
	originMode := draft.OriginMode
	if originMode == "" {
		originMode = models.OriginModeNone
	}

	return &models.RatingPlan{
		Name:              draft.Name,
		Currency:          draft.Currency,
		Side:              side,
		PlanTimezone:      draft.PlanTimezone,
		DisplayTimezone:   draft.DisplayTimezone,
		DefaultRatePolicy: draft.DefaultRatePolicy,
		EnforceMargin:     draft.EnforceMargin,
		MinMarginPercent:  intOr(draft.MinMarginRaw, 0),
		EffectiveAt:       draftEffectiveAt(draft),
		InitialInterval:   intOr(draft.InitialIntervalRaw, 1),
		RecurringInterval: intOr(draft.RecurringIntervalRaw, 1),
		PeriodTemplateID:  draft.PeriodTemplateID,
		OriginMode:        originMode,
	}
}

// CreateFromDraft turns an accumulated wizard draft into a persisted plan.
// Name and currency are the only hard requirements; malformed numeric input
// never blocks creation.
func (s *PlanService) CreateFromDraft(ctx context.Context, draft *models.PlanDraft) (*models.RatingPlan, error) {
	if draft.Name == "" {
		return nil, utils.ErrMissingPlanName
	}
	if draft.Currency == "" {
		return nil, utils.ErrMissingCurrency
	}
	existing, err := s.planRepo.GetByName(ctx, draft.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicatePlanName
	}

	plan := planFromDraft(draft)
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	if err := s.seedZones(ctx, plan, draft); err != nil {
		// The plan itself is created; zone seeding is best-effort and a
		// failure here is reported but does not roll the plan back.
		log.Error().Err(err).Int("plan_id", plan.ID).Msg("Zone seeding failed")
	}

	return plan, nil
}

// seedZones creates the plan's initial default rate records according to
// the draft's zone-selection mode.
func (s *PlanService) seedZones(ctx context.Context, plan *models.RatingPlan, draft *models.PlanDraft) error {
	var zones []models.Zone
	var err error
	switch draft.ZoneMode {
	case models.ZoneModeAll:
		zones, err = s.zoneRepo.ListAllZones(ctx)
	case models.ZoneModeSpecify:
		zones, err = s.zoneRepo.ListZonesByIDs(ctx, draft.SelectedZoneIDs)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if len(zones) == 0 {
		return nil
	}

	rates := make([]models.RateRecord, 0, len(zones))
	for _, z := range zones {
		codes, err := s.zoneRepo.CodesByZone(ctx, z.ID)
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			continue
		}
		codeList := make([]string, 0, len(codes))
		for _, c := range codes {
			codeList = append(codeList, c.Code)
		}
		rates = append(rates, models.RateRecord{
			PlanID:            plan.ID,
			Zone:              z.Name,
			Codes:             codeList,
			TimeClass:         "any",
			EffectiveAt:       plan.EffectiveAt,
			RecurringInterval: plan.RecurringInterval,
		})
	}
	if len(rates) == 0 {
		return nil
	}
	return s.rateRepo.CreateBatch(ctx, rates)
}

// UpdatePlanRequest carries the mutable plan fields. Name and currency are
// immutable post-creation; a request attempting to change either is rejected.
type UpdatePlanRequest struct {
	Name              string             `json:"name"`
	Currency          string             `json:"currency"`
	PlanTimezone      string             `json:"planTimezone"`
	DisplayTimezone   string             `json:"displayTimezone"`
	DefaultRatePolicy string             `json:"defaultRatePolicy"`
	EnforceMargin     *bool              `json:"enforceMargin"`
	MinMarginPercent  *int               `json:"minMarginPercent"`
	EffectiveAt       *time.Time         `json:"effectiveAt"`
	InitialInterval   *int               `json:"initialInterval"`
	RecurringInterval *int               `json:"recurringInterval"`
	PeriodTemplateID  *int               `json:"periodTemplateId"`
	OriginMode        *models.OriginMode `json:"originMode"`
}

// UpdatePlan applies mutable field changes to a plan.
func (s *PlanService) UpdatePlan(ctx context.Context, id int, req *UpdatePlanRequest) (*models.RatingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	if req.Name != "" && req.Name != plan.Name {
		return nil, utils.ErrImmutableField
	}
	if req.Currency != "" && req.Currency != plan.Currency {
		return nil, utils.ErrImmutableField
	}

	if req.PlanTimezone != "" {
		plan.PlanTimezone = req.PlanTimezone
	}
	if req.DisplayTimezone != "" {
		plan.DisplayTimezone = req.DisplayTimezone
	}
	if req.DefaultRatePolicy != "" {
		plan.DefaultRatePolicy = req.DefaultRatePolicy
	}
	if req.EnforceMargin != nil {
		plan.EnforceMargin = *req.EnforceMargin
	}
	if req.MinMarginPercent != nil {
		plan.MinMarginPercent = *req.MinMarginPercent
	}
	if req.EffectiveAt != nil {
		plan.EffectiveAt = *req.EffectiveAt
	}
	if req.InitialInterval != nil {
		plan.InitialInterval = *req.InitialInterval
	}
	if req.RecurringInterval != nil {
		plan.RecurringInterval = *req.RecurringInterval
	}
	if req.PeriodTemplateID != nil {
		plan.PeriodTemplateID = req.PeriodTemplateID
	}
	if req.OriginMode != nil {
		plan.OriginMode = *req.OriginMode
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan and (via cascade) its rates.
func (s *PlanService) DeletePlan(ctx context.Context, id int) error {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if plan == nil {
		return utils.ErrPlanNotFound
	}
	return s.planRepo.Delete(ctx, id)
}
