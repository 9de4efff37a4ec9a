package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/action"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/middleware"
)

type fakePlanRepo struct {
	insertErr error
}

func (f *fakePlanRepo) Insert(_ context.Context, plan domain.HealthPlan) (domain.HealthPlan, error) {
	if f.insertErr != nil {
		return domain.HealthPlan{}, f.insertErr
	}
	plan.PubID = "plan-1"
	return plan, nil
}

func (f *fakePlanRepo) Update(_ context.Context, plan domain.HealthPlan) (domain.HealthPlan, error) {
	return plan, nil
}

func (f *fakePlanRepo) GetByPubID(context.Context, string, string) (domain.HealthPlan, error) {
	return domain.HealthPlan{}, nil
}

func (f *fakePlanRepo) ListByPayer(context.Context, string) ([]domain.HealthPlan, error) {
	return []domain.HealthPlan{{PubID: "plan-1", PlanName: "Acme Gold"}}, nil
}

func testHandler(plans *fakePlanRepo) http.Handler {
	actions := action.New(action.Repositories{Plans: plans}, cache.NewMemory(), zap.NewNop())
	mux := NewRouter(actions, http.NotFoundHandler(), zap.NewNop())
	return middleware.UserContext(mux)
}

func bpoHeader(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(domain.UserContext{UserPubID: "u-1", Type: domain.UserTypeBPO})
	require.NoError(t, err)
	return string(raw)
}

const validPlanBody = `{"payerPubId":"payer-1","planName":"Acme Gold","cmsPlanId":"H1234","planType":"hmo","pbps":[{"pbpId":"001","pbpName":"Basic"}]}`

func TestInsertHealthPlanEndpoint(t *testing.T) {
	handler := testHandler(&fakePlanRepo{})

	req := httptest.NewRequest(http.MethodPost, "/health-plans", strings.NewReader(validPlanBody))
	req.Header.Set(middleware.UserContextHeader, bpoHeader(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var plan domain.HealthPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "plan-1", plan.PubID)
}

func TestInsertHealthPlanWithoutIdentityIsForbidden(t *testing.T) {
	handler := testHandler(&fakePlanRepo{})

	req := httptest.NewRequest(http.MethodPost, "/health-plans", strings.NewReader(validPlanBody))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInsertHealthPlanValidationFailureReturnsFieldMap(t *testing.T) {
	handler := testHandler(&fakePlanRepo{})

	body := `{"payerPubId":"payer-1","planName":"Acme Gold","cmsPlanId":"bad","planType":"hmo"}`
	req := httptest.NewRequest(http.MethodPost, "/health-plans", strings.NewReader(body))
	req.Header.Set(middleware.UserContextHeader, bpoHeader(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "cmsPlanId")
}

func TestInsertHealthPlanDuplicateReturnsConflict(t *testing.T) {
	handler := testHandler(&fakePlanRepo{
		insertErr: &domain.DuplicateError{Fields: []string{"Health Plan Name"}},
	})

	req := httptest.NewRequest(http.MethodPost, "/health-plans", strings.NewReader(validPlanBody))
	req.Header.Set(middleware.UserContextHeader, bpoHeader(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Health Plan Name"}, resp.Fields)
}

func TestListHealthPlansEndpoint(t *testing.T) {
	handler := testHandler(&fakePlanRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health-plans?payerPubId=payer-1", nil)
	req.Header.Set(middleware.UserContextHeader, bpoHeader(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var plans []domain.HealthPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "Acme Gold", plans[0].PlanName)
}

func TestMalformedIdentityHeaderRejected(t *testing.T) {
	handler := testHandler(&fakePlanRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health-plans?payerPubId=payer-1", nil)
	req.Header.Set(middleware.UserContextHeader, "{not json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
