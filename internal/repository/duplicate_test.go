package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func planChecks(name, cmsPlanID string) []uniquenessCheck {
	return []uniquenessCheck{
		{column: "plan_name", display: "Health Plan Name", value: name},
		{column: "cms_plan_id", display: "CMS Plan ID", value: cmsPlanID},
	}
}

func TestCollidingFieldsReportsEveryCollision(t *testing.T) {
	// One stored row collides on the name, another on the CMS plan id; both
	// must be reported, not just the first.
	rows := [][]any{
		{"Acme Gold", "H9999"},
		{"Other Plan", "H1234"},
	}
	collisions := collidingFields(rows, planChecks("Acme Gold", "H1234"))
	assert.Equal(t, []string{"Health Plan Name", "CMS Plan ID"}, collisions)
}

func TestCollidingFieldsSingleField(t *testing.T) {
	rows := [][]any{{"Acme Gold", "H9999"}}
	collisions := collidingFields(rows, planChecks("Acme Gold", "H1234"))
	assert.Equal(t, []string{"Health Plan Name"}, collisions)
}

func TestCollidingFieldsNoRows(t *testing.T) {
	collisions := collidingFields(nil, planChecks("Acme Gold", "H1234"))
	assert.Empty(t, collisions)
}

func TestBuildDuplicateQueryScopesToTenant(t *testing.T) {
	query, args := buildDuplicateQuery(duplicateScope{
		table:      "health_plans",
		payerPubID: "payer-1",
	}, planChecks("Acme Gold", "H1234"))

	assert.Contains(t, query, "payer_pub_id =", "duplicate check must be tenant-scoped")
	assert.Contains(t, query, "is_active =", "inactive rows must not collide")
	assert.Contains(t, args, "payer-1")
	assert.Contains(t, args, "Acme Gold")
	assert.Contains(t, args, "H1234")
}

func TestBuildDuplicateQuerySubTypeScope(t *testing.T) {
	query, args := buildDuplicateQuery(duplicateScope{
		table:       "network_entities",
		payerPubID:  "payer-1",
		extraEquals: []sqlCondition{{column: "net_ent_type", value: "facility"}},
	}, []uniquenessCheck{{column: "legal_business_name", display: "Legal Business Name", value: "Mercy"}})

	assert.Contains(t, query, "net_ent_type =")
	assert.Contains(t, args, "facility")
}

func TestBuildDuplicateQueryExcludesTargetRow(t *testing.T) {
	query, args := buildDuplicateQuery(duplicateScope{
		table:        "health_plans",
		payerPubID:   "payer-1",
		excludePubID: "self",
	}, planChecks("Acme Gold", "H1234"))

	assert.Contains(t, query, "pub_id <>")
	assert.Contains(t, args, "self")
}

func TestBuildDuplicateQueryGlobalScope(t *testing.T) {
	// Payers are the tenants themselves; their check has no payer column.
	query, _ := buildDuplicateQuery(duplicateScope{table: "payers"},
		[]uniquenessCheck{{column: "payer_name", display: "Payer Name", value: "Acme"}})

	assert.NotContains(t, query, "payer_pub_id")
}
