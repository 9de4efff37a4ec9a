package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
)

type stubPlanRepo struct {
	insertCalls int
	updateCalls int
	insertErr   error
	updateErr   error
	lastPlan    domain.HealthPlan
}

func (s *stubPlanRepo) Insert(_ context.Context, plan domain.HealthPlan) (domain.HealthPlan, error) {
	s.insertCalls++
	s.lastPlan = plan
	if s.insertErr != nil {
		return domain.HealthPlan{}, s.insertErr
	}
	plan.PubID = "plan-1"
	return plan, nil
}

func (s *stubPlanRepo) Update(_ context.Context, plan domain.HealthPlan) (domain.HealthPlan, error) {
	s.updateCalls++
	s.lastPlan = plan
	if s.updateErr != nil {
		return domain.HealthPlan{}, s.updateErr
	}
	return plan, nil
}

func (s *stubPlanRepo) GetByPubID(context.Context, string, string) (domain.HealthPlan, error) {
	return domain.HealthPlan{}, nil
}

func (s *stubPlanRepo) ListByPayer(context.Context, string) ([]domain.HealthPlan, error) {
	return nil, nil
}

func newTestActions(plans *stubPlanRepo, store cache.Store) *Actions {
	return New(Repositories{Plans: plans}, store, zap.NewNop())
}

func bpoContext() context.Context {
	return auth.ContextWithUser(context.Background(), domain.UserContext{
		UserPubID: "u-bpo",
		Type:      domain.UserTypeBPO,
	})
}

func payerEditorContext(payerPubID string) context.Context {
	return auth.ContextWithUser(context.Background(), domain.UserContext{
		UserPubID: "u-editor",
		Type:      domain.UserTypePayer,
		Assignments: []domain.RoleAssignment{
			{PayerPubID: payerPubID, Roles: []domain.UserRole{domain.UserRoleEdit}},
		},
	})
}

func validInsert() InsertHealthPlanRequest {
	return InsertHealthPlanRequest{
		PayerPubID: "payer-1",
		PlanName:   "Acme Gold",
		CMSPlanID:  "H1234",
		PlanType:   "hmo",
		PBPs:       []PBPInput{{PBPID: "001", PBPName: "Basic"}},
	}
}

func TestInsertHealthPlanValidationFailureHasNoSideEffects(t *testing.T) {
	plans := &stubPlanRepo{}
	store := cache.NewMemory()
	actions := newTestActions(plans, store)

	req := validInsert()
	req.CMSPlanID = "bad" // wrong length

	_, err := actions.InsertHealthPlan(bpoContext(), req)

	var valErr *domain.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields, "cmsPlanId")
	assert.Zero(t, plans.insertCalls, "repository must not be reached on validation failure")
}

func TestInsertHealthPlanAuthorizationFailureIsNotValidation(t *testing.T) {
	plans := &stubPlanRepo{}
	actions := newTestActions(plans, cache.NewMemory())

	// Editor for a different payer.
	_, err := actions.InsertHealthPlan(payerEditorContext("payer-2"), validInsert())

	var authErr *domain.AuthorizationError
	require.True(t, errors.As(err, &authErr))
	var valErr *domain.ValidationError
	assert.False(t, errors.As(err, &valErr))
	assert.Zero(t, plans.insertCalls)
}

func TestInsertHealthPlanSuccessInvalidatesView(t *testing.T) {
	ctx := bpoContext()
	plans := &stubPlanRepo{}
	store := cache.NewMemory()
	require.NoError(t, store.Set(ctx, cache.Tag("payer-1", "healthPlans"), []byte("stale"), 0))

	actions := newTestActions(plans, store)
	created, err := actions.InsertHealthPlan(ctx, validInsert())
	require.NoError(t, err)
	assert.Equal(t, "plan-1", created.PubID)
	assert.Equal(t, "u-bpo", plans.lastPlan.CreatedBy, "caller identity must stamp the audit columns")

	_, ok, err := store.Get(ctx, cache.Tag("payer-1", "healthPlans"))
	require.NoError(t, err)
	assert.False(t, ok, "cached view must be invalidated after a successful mutation")
}

func TestInsertHealthPlanDuplicatePropagatesUnchanged(t *testing.T) {
	ctx := bpoContext()
	dup := &domain.DuplicateError{Fields: []string{"Health Plan Name", "CMS Plan ID"}}
	plans := &stubPlanRepo{insertErr: dup}
	store := cache.NewMemory()
	require.NoError(t, store.Set(ctx, cache.Tag("payer-1", "healthPlans"), []byte("view"), 0))

	actions := newTestActions(plans, store)
	_, err := actions.InsertHealthPlan(ctx, validInsert())

	var dupErr *domain.DuplicateError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, []string{"Health Plan Name", "CMS Plan ID"}, dupErr.Fields)

	_, ok, getErr := store.Get(ctx, cache.Tag("payer-1", "healthPlans"))
	require.NoError(t, getErr)
	assert.True(t, ok, "failed mutations must not invalidate cached views")
}

func TestUpdateHealthPlanScopedEditorAllowed(t *testing.T) {
	plans := &stubPlanRepo{}
	actions := newTestActions(plans, cache.NewMemory())

	req := UpdateHealthPlanRequest{
		PubID:      "plan-1",
		PayerPubID: "payer-1",
		PlanName:   "Acme Gold",
		CMSPlanID:  "H1234",
		PlanType:   "hmo",
		IsActive:   true,
	}
	_, err := actions.UpdateHealthPlan(payerEditorContext("payer-1"), req)
	require.NoError(t, err)
	assert.Equal(t, 1, plans.updateCalls)
	assert.Equal(t, "u-editor", plans.lastPlan.UpdatedBy)
}
