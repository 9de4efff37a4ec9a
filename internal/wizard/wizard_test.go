package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

type planForm struct {
	PlanName  string `json:"planName" validate:"required,max=100"`
	CMSPlanID string `json:"cmsPlanId" validate:"required,len=5"`
	PlanType  string `json:"planType" validate:"required,oneof=hmo ppo pos pffs snp"`
}

func newPlanWizard(t *testing.T, form *planForm) *Controller {
	t.Helper()
	ctrl, err := New(validate.New(), form,
		Step{Name: "identity", Fields: []string{"PlanName", "CMSPlanID"}},
		Step{Name: "details", Fields: []string{"PlanType"}},
	)
	require.NoError(t, err)
	return ctrl
}

func TestNextBlockedWhileCurrentStepInvalid(t *testing.T) {
	form := &planForm{PlanName: "Acme Gold"} // cmsPlanId missing
	ctrl := newPlanWizard(t, form)

	err := ctrl.Next()
	require.Error(t, err)
	assert.Equal(t, 0, ctrl.Step(), "invalid step must never advance")

	var valErr *domain.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields, "cmsPlanId")
	assert.NotContains(t, valErr.Fields, "planType", "step validation must not consult other steps' fields")
}

func TestNextAdvancesExactlyOneStep(t *testing.T) {
	form := &planForm{PlanName: "Acme Gold", CMSPlanID: "H1234"}
	ctrl := newPlanWizard(t, form)

	require.NoError(t, ctrl.Next())
	assert.Equal(t, 1, ctrl.Step())
}

func TestIsStepValidIgnoresOtherSteps(t *testing.T) {
	form := &planForm{PlanName: "Acme Gold", CMSPlanID: "H1234"} // planType still empty
	ctrl := newPlanWizard(t, form)

	assert.True(t, ctrl.IsStepValid(0))
	assert.False(t, ctrl.IsStepValid(1))
}

func TestPrevNeverValidatesAndFloorsAtZero(t *testing.T) {
	form := &planForm{PlanName: "Acme Gold", CMSPlanID: "H1234"}
	ctrl := newPlanWizard(t, form)
	require.NoError(t, ctrl.Next())

	form.PlanName = "" // invalidate step 0; prev must still succeed
	ctrl.Prev()
	assert.Equal(t, 0, ctrl.Step())
	ctrl.Prev()
	assert.Equal(t, 0, ctrl.Step())
}

func TestSubmitOnlyFromLastStep(t *testing.T) {
	form := &planForm{PlanName: "Acme Gold", CMSPlanID: "H1234", PlanType: "hmo"}
	ctrl := newPlanWizard(t, form)

	require.Error(t, ctrl.Submit(), "submit must be rejected before the last step")

	require.NoError(t, ctrl.Next())
	assert.NoError(t, ctrl.Submit())
}

func TestSubmitValidatesWholePayload(t *testing.T) {
	form := &planForm{PlanName: "Acme Gold", CMSPlanID: "H1234"}
	ctrl := newPlanWizard(t, form)
	require.NoError(t, ctrl.Next())

	err := ctrl.Submit()
	var valErr *domain.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields, "planType")
}

func TestNewRejectsOverlappingSteps(t *testing.T) {
	_, err := New(validate.New(), &planForm{},
		Step{Name: "a", Fields: []string{"PlanName"}},
		Step{Name: "b", Fields: []string{"PlanName", "PlanType"}},
	)
	require.Error(t, err)
}
