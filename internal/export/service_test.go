package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vbtech/vbadmin/internal/domain"
)

type rosterFixture struct {
	plans      []domain.HealthPlan
	physicians []domain.NetworkPhysician
	entities   []domain.NetworkEntity
}

func (f rosterFixture) planRepo() *fixturePlanRepo           { return &fixturePlanRepo{plans: f.plans} }
func (f rosterFixture) physicianRepo() *fixturePhysicianRepo { return &fixturePhysicianRepo{rows: f.physicians} }
func (f rosterFixture) entityRepo() *fixtureEntityRepo       { return &fixtureEntityRepo{rows: f.entities} }

type fixturePlanRepo struct{ plans []domain.HealthPlan }

func (r *fixturePlanRepo) Insert(_ context.Context, p domain.HealthPlan) (domain.HealthPlan, error) {
	return p, nil
}
func (r *fixturePlanRepo) Update(_ context.Context, p domain.HealthPlan) (domain.HealthPlan, error) {
	return p, nil
}
func (r *fixturePlanRepo) GetByPubID(context.Context, string, string) (domain.HealthPlan, error) {
	return domain.HealthPlan{}, nil
}
func (r *fixturePlanRepo) ListByPayer(context.Context, string) ([]domain.HealthPlan, error) {
	return r.plans, nil
}

type fixturePhysicianRepo struct{ rows []domain.NetworkPhysician }

func (r *fixturePhysicianRepo) Insert(_ context.Context, p domain.NetworkPhysician) (domain.NetworkPhysician, error) {
	return p, nil
}
func (r *fixturePhysicianRepo) Update(_ context.Context, p domain.NetworkPhysician) (domain.NetworkPhysician, error) {
	return p, nil
}
func (r *fixturePhysicianRepo) GetByPubID(context.Context, string, string) (domain.NetworkPhysician, error) {
	return domain.NetworkPhysician{}, nil
}
func (r *fixturePhysicianRepo) ListByPayer(context.Context, string) ([]domain.NetworkPhysician, error) {
	return r.rows, nil
}

type fixtureEntityRepo struct{ rows []domain.NetworkEntity }

func (r *fixtureEntityRepo) Insert(_ context.Context, e domain.NetworkEntity) (domain.NetworkEntity, error) {
	return e, nil
}
func (r *fixtureEntityRepo) Update(_ context.Context, e domain.NetworkEntity) (domain.NetworkEntity, error) {
	return e, nil
}
func (r *fixtureEntityRepo) GetByPubID(context.Context, string, string) (domain.NetworkEntity, error) {
	return domain.NetworkEntity{}, nil
}
func (r *fixtureEntityRepo) ListByPayer(context.Context, string) ([]domain.NetworkEntity, error) {
	return r.rows, nil
}

func TestBuildRosterWorkbook(t *testing.T) {
	fixture := rosterFixture{
		plans: []domain.HealthPlan{
			{
				PlanName: "Acme Gold", CMSPlanID: "H1234", PlanType: "hmo", IsActive: true,
				PBPs: []domain.PlanBenefitPackage{
					{PBPID: "001", PBPName: "Basic", IsActive: true},
					{PBPID: "002", PBPName: "Enhanced", IsActive: true},
				},
			},
			{PlanName: "Retired Plan", CMSPlanID: "H9999", PlanType: "ppo", IsActive: false},
		},
		physicians: []domain.NetworkPhysician{
			{
				LastName: "Nguyen", FirstName: "Lan", NPI: "1234567893",
				Credential: "MD", Specialty: "cardiology", Class: "specialist", IsActive: true,
				Affiliations: []domain.PhysicianAffiliation{
					{NetworkEntityPubID: "ent-1", Position: "attending", IsPrimary: true, IsActive: true},
				},
			},
		},
		entities: []domain.NetworkEntity{
			{
				PubID: "ent-1", NetEntType: domain.NetworkEntityTypeFacility,
				MarketingName: "Mercy General", LegalBusinessName: "Mercy General LLC",
				OrgNPI: "1111111112", TaxID: "123456789", IsActive: true,
			},
		},
	}

	service := NewService(fixture.planRepo(), fixture.physicianRepo(), fixture.entityRepo(),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }))

	file, err := service.BuildRoster(context.Background(), "payer-1")
	require.NoError(t, err)
	defer file.Close()

	var buf bytes.Buffer
	_, err = file.WriteTo(&buf)
	require.NoError(t, err)

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	assert.ElementsMatch(t, []string{planSheet, physicianSheet, entitySheet}, reopened.GetSheetList())

	planRows, err := reopened.GetRows(planSheet)
	require.NoError(t, err)
	// Header plus one row per active PBP; the inactive plan is skipped.
	require.Len(t, planRows, 3)
	assert.Equal(t, []string{"Acme Gold", "H1234", "HMO", "001", "Basic", "TRUE"}, planRows[1])

	physRows, err := reopened.GetRows(physicianSheet)
	require.NoError(t, err)
	require.Len(t, physRows, 2)
	assert.Equal(t, "Nguyen", physRows[1][0])
	assert.Equal(t, "Mercy General", physRows[1][6], "affiliation rows carry the entity marketing name")

	assert.Equal(t, "roster-payer-1-20260301.xlsx", service.FileName("payer-1"))
}
