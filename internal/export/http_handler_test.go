package export

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/domain"
)

type failingPlanRepo struct {
	fixturePlanRepo
	err error
}

func (r *failingPlanRepo) ListByPayer(context.Context, string) ([]domain.HealthPlan, error) {
	return nil, r.err
}

func rosterRequest(payerPubID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/exports/roster?payerPubId="+payerPubID, nil)
	user := domain.UserContext{UserPubID: "u-bpo", Type: domain.UserTypeBPO}
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func TestRosterHandlerHidesRepositoryErrors(t *testing.T) {
	plans := &failingPlanRepo{err: errors.New(`connect to "db.internal:5432" refused`)}
	service := NewService(plans, &fixturePhysicianRepo{}, &fixtureEntityRepo{})
	handler := NewHTTPHandler(service, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, rosterRequest("payer-1"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error\n", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "db.internal", "infrastructure details stay out of the response")
}

func TestRosterHandlerRejectsAnonymous(t *testing.T) {
	fixture := rosterFixture{}
	service := NewService(fixture.planRepo(), fixture.physicianRepo(), fixture.entityRepo())
	handler := NewHTTPHandler(service, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/roster?payerPubId=payer-1", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
