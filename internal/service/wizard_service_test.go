package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NimbusVoIP/nimbus_api/internal/models"
	"github.com/NimbusVoIP/nimbus_api/internal/utils"
)

type wizardStoreStub struct {
	sessions map[string]models.WizardSession
	locked   map[string]bool
}

func newWizardStoreStub() *wizardStoreStub {
	return &wizardStoreStub{
		sessions: make(map[string]models.WizardSession),
		locked:   make(map[string]bool),
	}
}

func (s *wizardStoreStub) Save(ctx context.Context, session *models.WizardSession) error {
	s.sessions[session.ID] = *session
	return nil
}

func (s *wizardStoreStub) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := session
	return &copied, nil
}

func (s *wizardStoreStub) Delete(ctx context.Context, id string) error {
	delete(s.sessions, id)
	delete(s.locked, id)
	return nil
}

func (s *wizardStoreStub) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	if s.locked[id] {
		return false, nil
	}
	s.locked[id] = true
	return true, nil
}

func (s *wizardStoreStub) ReleaseSubmitLock(ctx context.Context, id string) error {
	delete(s.locked, id)
	return nil
}

type planCreatorStub struct {
	calls int
	err   error
}

func (s *planCreatorStub) CreateFromDraft(ctx context.Context, draft *models.PlanDraft) (*models.RatingPlan, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.RatingPlan{ID: 42, Name: draft.Name, Currency: draft.Currency}, nil
}

func openAtStage(t *testing.T, svc *WizardService, stage models.WizardStage) *models.WizardSession {
	t.Helper()
	ctx := context.Background()
	session, err := svc.Open(ctx)
	require.NoError(t, err)
	for session.Stage < stage {
		session, err = svc.Next(ctx, session.ID)
		require.NoError(t, err)
	}
	return session
}

func TestWizardOpenDefaults(t *testing.T) {
	svc := NewWizardService(newWizardStoreStub(), &planCreatorStub{})

	session, err := svc.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StagePlanDetails, session.Stage)
	assert.False(t, session.Complete)
	assert.Equal(t, "1", session.Draft.InitialIntervalRaw)
	assert.Equal(t, models.ZoneModeNone, session.Draft.ZoneMode)
}

func TestWizardPreviousMonotonic(t *testing.T) {
	svc := NewWizardService(newWizardStoreStub(), &planCreatorStub{})
	ctx := context.Background()
	session := openAtStage(t, svc, models.StageAnalysis)

	for want := models.StageZones; want >= models.StagePlanDetails; want-- {
		var err error
		session, err = svc.Previous(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, want, session.Stage)
	}

	// At stage 1, previous is a no-op.
	session, err := svc.Previous(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StagePlanDetails, session.Stage)
}

func TestWizardNextAdvancesWithoutValidation(t *testing.T) {
	svc := NewWizardService(newWizardStoreStub(), &planCreatorStub{})
	ctx := context.Background()
	session, err := svc.Open(ctx)
	require.NoError(t, err)

	// The draft has no name, yet every advance up to stage 5 succeeds.
	for want := models.StageDefaultRates; want <= models.StageAnalysis; want++ {
		session, err = svc.Next(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, want, session.Stage)
	}
}

func TestWizardSubmitAtMostOnce(t *testing.T) {
	store := newWizardStoreStub()
	creator := &planCreatorStub{}
	svc := NewWizardService(store, creator)
	ctx := context.Background()

	session := openAtStage(t, svc, models.StageAnalysis)
	_, err := svc.UpdateDraft(ctx, session.ID, models.PlanDraft{Name: "Gold", Currency: "EUR"})
	require.NoError(t, err)

	done, err := svc.Next(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, done.Complete)
	assert.Equal(t, 42, done.CreatedPlanID)
	assert.Equal(t, 1, creator.calls)

	// A second next after completion is rejected without a second create.
	_, err = svc.Next(ctx, session.ID)
	assert.ErrorIs(t, err, utils.ErrWizardComplete)
	assert.Equal(t, 1, creator.calls)
}

func TestWizardSubmitSuppressedWhileInFlight(t *testing.T) {
	store := newWizardStoreStub()
	creator := &planCreatorStub{}
	svc := NewWizardService(store, creator)
	ctx := context.Background()

	session := openAtStage(t, svc, models.StageAnalysis)
	_, err := svc.UpdateDraft(ctx, session.ID, models.PlanDraft{Name: "Gold", Currency: "EUR"})
	require.NoError(t, err)

	// Simulate a first submission holding the lock.
	held, err := store.AcquireSubmitLock(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, held)

	_, err = svc.Next(ctx, session.ID)
	assert.ErrorIs(t, err, utils.ErrSubmitInFlight)
	assert.Zero(t, creator.calls)
}

func TestWizardSubmitFailureStaysAtStageFive(t *testing.T) {
	store := newWizardStoreStub()
	creator := &planCreatorStub{err: errors.New("currency unsupported")}
	svc := NewWizardService(store, creator)
	ctx := context.Background()

	session := openAtStage(t, svc, models.StageAnalysis)
	_, err := svc.UpdateDraft(ctx, session.ID, models.PlanDraft{Name: "Gold", Currency: "XXX"})
	require.NoError(t, err)

	_, err = svc.Next(ctx, session.ID)
	require.EqualError(t, err, "currency unsupported")

	// The session stays at stage 5, incomplete, and the lock is released so
	// a retry can submit again.
	after, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageAnalysis, after.Stage)
	assert.False(t, after.Complete)

	creator.err = nil
	done, err := svc.Next(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, done.Complete)
	assert.Equal(t, 2, creator.calls)
}

func TestWizardUpdateDraftReplacesWholesale(t *testing.T) {
	svc := NewWizardService(newWizardStoreStub(), &planCreatorStub{})
	ctx := context.Background()
	session, err := svc.Open(ctx)
	require.NoError(t, err)

	updated, err := svc.UpdateDraft(ctx, session.ID, models.PlanDraft{Name: "Silver", Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "Silver", updated.Draft.Name)
	// The replacement is wholesale: defaults not re-sent are gone.
	assert.Empty(t, updated.Draft.InitialIntervalRaw)
}

func TestWizardCloseDiscards(t *testing.T) {
	store := newWizardStoreStub()
	svc := NewWizardService(store, &planCreatorStub{})
	ctx := context.Background()

	session, err := svc.Open(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx, session.ID))

	_, err = svc.Get(ctx, session.ID)
	assert.ErrorIs(t, err, utils.ErrWizardNotFound)

	// Closing an unknown session is not an error.
	assert.NoError(t, svc.Close(ctx, "missing"))
}
