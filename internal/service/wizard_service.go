package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

// WizardStore persists wizard sessions. Implemented by cache.WizardCache;
// tests supply an in-memory stub.
type WizardStore interface {
	Save(ctx context.Context, session *models.WizardSession) error
	Get(ctx context.Context, id string) (*models.WizardSession, error)
	Delete(ctx context.Context, id string) error
	AcquireSubmitLock(ctx context.Context, id string) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id string) error
}

// PlanCreator turns a finished draft into a persisted plan.
// Implemented by PlanService.
type PlanCreator interface {
	CreateFromDraft(ctx context.Context, draft *models.PlanDraft) (*models.RatingPlan, error)
}

// WizardService drives the five-stage plan-creation flow:
// PlanDetails -> DefaultRates -> TimeClasses -> Zones -> Analysis, with a
// terminal complete state reachable only by submitting from stage 5.
type WizardService struct {
	store   WizardStore
	creator PlanCreator
}

// NewWizardService constructs a WizardService.
func NewWizardService(store WizardStore, creator PlanCreator) *WizardService {
	return &WizardService{store: store, creator: creator}
}

// Open starts a fresh wizard: default draft, stage 1.
func (s *WizardService) Open(ctx context.Context) (*models.WizardSession, error) {
	session := &models.WizardSession{
		ID:    uuid.New().String(),
		Stage: models.StagePlanDetails,
		Draft: models.NewPlanDraft(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the session's current stage and draft.
func (s *WizardService) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, utils.ErrWizardNotFound
	}
	return session, nil
}

// UpdateDraft replaces the session's draft wholesale. Stage advances never
// validate the draft; validation happens only at submission.
func (s *WizardService) UpdateDraft(ctx context.Context, id string, draft models.PlanDraft) (*models.WizardSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Complete {
		return nil, utils.ErrWizardComplete
	}
	session.Draft = draft
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Next advances one stage. From stages 1-4 the advance is unconditional.
// From stage 5 it submits the accumulated draft exactly once: the complete
// flag rejects re-submission after success, and the store's submit lock
// suppresses a second call racing the first one's response. A failed submit
// releases the lock and leaves the session at stage 5 so the user can retry.
func (s *WizardService) Next(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Complete {
		return nil, utils.ErrWizardComplete
	}

	if session.Stage < models.StageAnalysis {
		session.Stage++
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	// Stage 5: submit.
	ok, err := s.store.AcquireSubmitLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.ErrSubmitInFlight
	}

	plan, err := s.creator.CreateFromDraft(ctx, &session.Draft)
	if err != nil {
		if relErr := s.store.ReleaseSubmitLock(ctx, id); relErr != nil {
			log.Error().Err(relErr).Str("session_id", id).Msg("Failed to release submit lock")
		}
		return nil, err
	}

	session.Complete = true
	session.CreatedPlanID = plan.ID
	if err := s.store.Save(ctx, session); err != nil {
		// The plan exists; losing the session here only costs the client
		// the completion screen.
		log.Error().Err(err).Str("session_id", id).Int("plan_id", plan.ID).Msg("Failed to save completed wizard session")
	}
	log.Info().Str("session_id", id).Int("plan_id", plan.ID).Str("plan", plan.Name).Msg("Rating plan created from wizard")
	return session, nil
}

// Previous steps back one stage. At stage 1 it is a no-op; once complete it
// is rejected.
func (s *WizardService) Previous(ctx context.Context, id string) (*models.WizardSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Complete {
		return nil, utils.ErrWizardComplete
	}
	if session.Stage > models.StagePlanDetails {
		session.Stage--
		if err := s.store.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Close discards the session: cancel from any stage, or done after
// completion. Either way the draft is gone.
func (s *WizardService) Close(ctx context.Context, id string) error {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.store.Delete(ctx, id)
}
