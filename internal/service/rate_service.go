package service

import (
	"context"
	"time"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/repository"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// RateService handles rate CRUD and the rate-table view pipeline.
type RateService struct {
	rateRepo *repository.RateRepository
	planRepo *repository.PlanRepository
}

// NewRateService constructs a RateService.
func NewRateService(rateRepo *repository.RateRepository, planRepo *repository.PlanRepository) *RateService {
	return &RateService{rateRepo: rateRepo, planRepo: planRepo}
}

// RateView is the paginated, pivoted result of the view pipeline.
type RateView struct {
	Rows       []DisplayRow `json:"rows"`
	Mode       DisplayMode  `json:"mode"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalRows  int          `json:"totalRows"`
	TotalPages int          `json:"totalPages"`
}

// ViewRates runs filter -> pivot -> paginate over the plan's full rate set.
// The reported page is the clamped one, so a filter change that shrinks the
// result below the requested page lands the caller on the last valid page.
func (s *RateService) ViewRates(ctx context.Context, planID int, criteria FilterCriteria, mode DisplayMode, page, pageSize int) (*RateView, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	records, err := s.rateRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	filtered := FilterRates(records, criteria, now)

	var rows []DisplayRow
	switch mode {
	case ModeCode:
		rows = ToCodeRows(filtered, now)
	default:
		mode = ModeZone
		rows = ToZoneRows(filtered, now)
	}

	pageRows, clampedPage, totalPages := PaginateRows(rows, page, pageSize)
	if pageSize <= 0 {
		pageSize = 25
	}
	return &RateView{
		Rows:       pageRows,
		Mode:       mode,
		Page:       clampedPage,
		PageSize:   pageSize,
		TotalRows:  len(rows),
		TotalPages: totalPages,
	}, nil
}

// ListRates returns one cursor page of raw rate records.
func (s *RateService) ListRates(ctx context.Context, planID, cursor, limit int) ([]models.RateRecord, int, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, 0, err
	}
	if plan == nil {
		return nil, 0, utils.ErrPlanNotFound
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.rateRepo.ListCursor(ctx, planID, cursor, limit)
}

// AddRateRequest is the add-rate form payload.
type AddRateRequest struct {
	Zone              string     `json:"zone" binding:"required"`
	Codes             []string   `json:"codes" binding:"required"`
	OriginSetID       *int       `json:"originSetId"`
	TimeClass         string     `json:"timeClass"`
	EffectiveAt       time.Time  `json:"effectiveAt"`
	EndAt             *time.Time `json:"endAt"`
	ConnectionCharge  float64    `json:"connectionCharge"`
	InitialCharge     float64    `json:"initialCharge"`
	RecurringCharge   float64    `json:"recurringCharge"`
	RecurringInterval int        `json:"recurringInterval"`
}

// AddRate inserts a rate record. A persisted record always has at least one
// code; an empty code list is rejected before any write.
func (s *RateService) AddRate(ctx context.Context, planID int, req *AddRateRequest) (*models.RateRecord, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	if len(req.Codes) == 0 {
		return nil, utils.ErrEmptyCodes
	}

	timeClass := req.TimeClass
	if timeClass == "" {
		timeClass = "any"
	}
	interval := req.RecurringInterval
	if interval <= 0 {
		interval = plan.RecurringInterval
	}
	effective := req.EffectiveAt
	if effective.IsZero() {
		effective = time.Now()
	}

	rate := &models.RateRecord{
		PlanID:            planID,
		Zone:              req.Zone,
		Codes:             req.Codes,
		OriginSetID:       req.OriginSetID,
		TimeClass:         timeClass,
		EffectiveAt:       effective,
		EndAt:             req.EndAt,
		ConnectionCharge:  req.ConnectionCharge,
		InitialCharge:     req.InitialCharge,
		RecurringCharge:   req.RecurringCharge,
		RecurringInterval: interval,
	}
	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// DeleteRate removes a whole rate record.
func (s *RateService) DeleteRate(ctx context.Context, id int) error {
	rate, err := s.rateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rate == nil {
		return utils.ErrRateNotFound
	}
	return s.rateRepo.Delete(ctx, id)
}

// SetBlocked flips the blocked flag on a rate record.
func (s *RateService) SetBlocked(ctx context.Context, id int, blocked bool) error {
	rate, err := s.rateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rate == nil {
		return utils.ErrRateNotFound
	}
	return s.rateRepo.SetBlocked(ctx, id, blocked)
}
