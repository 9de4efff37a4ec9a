package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbtech/vbadmin/internal/domain"
)

func pbp(pubID, pbpID, name string) domain.PlanBenefitPackage {
	return domain.PlanBenefitPackage{PubID: pubID, PBPID: pbpID, PBPName: name, IsActive: true}
}

func inactivePBP(pubID, pbpID, name string) domain.PlanBenefitPackage {
	p := pbp(pubID, pbpID, name)
	p.IsActive = false
	return p
}

func pbpPubID(p domain.PlanBenefitPackage) string { return p.PubID }

func pbpActive(p domain.PlanBenefitPackage) bool { return p.IsActive }

func pbpEqual(stored, submitted domain.PlanBenefitPackage) bool {
	return stored.PBPID == submitted.PBPID && stored.PBPName == submitted.PBPName
}

func TestPartitionChildrenThreeWays(t *testing.T) {
	stored := []domain.PlanBenefitPackage{
		pbp("a", "001", "Basic"),
		pbp("b", "002", "Plus"),
		pbp("c", "003", "Premier"),
	}
	submitted := []domain.PlanBenefitPackage{
		pbp("a", "001", "Basic"),        // unchanged
		pbp("b", "002", "Plus Renamed"), // changed
		pbp("", "004", "Brand New"),     // new
	}

	diff := PartitionChildren(stored, submitted, pbpPubID, pbpActive, pbpEqual)

	require.Len(t, diff.New, 1)
	assert.Equal(t, "004", diff.New[0].PBPID)

	require.Len(t, diff.Changed, 1)
	assert.Equal(t, "b", diff.Changed[0].PubID)

	require.Len(t, diff.Removed, 1)
	assert.Equal(t, "c", diff.Removed[0].PubID, "stored rows absent from the submission are removed, never dropped silently")
}

func TestPartitionChildrenUnchangedRowsUntouched(t *testing.T) {
	stored := []domain.PlanBenefitPackage{pbp("a", "001", "Basic")}
	submitted := []domain.PlanBenefitPackage{pbp("a", "001", "Basic")}

	diff := PartitionChildren(stored, submitted, pbpPubID, pbpActive, pbpEqual)
	assert.Empty(t, diff.New)
	assert.Empty(t, diff.Changed)
	assert.Empty(t, diff.Removed)
}

func TestPartitionChildrenEmptySubmissionRemovesAll(t *testing.T) {
	stored := []domain.PlanBenefitPackage{pbp("a", "001", "Basic"), pbp("b", "002", "Plus")}

	diff := PartitionChildren(stored, nil, pbpPubID, pbpActive, pbpEqual)
	assert.Len(t, diff.Removed, 2)
}

func TestPartitionChildrenUnknownIDTreatedAsNew(t *testing.T) {
	submitted := []domain.PlanBenefitPackage{pbp("ghost", "001", "Basic")}

	diff := PartitionChildren(nil, submitted, pbpPubID, pbpActive, pbpEqual)
	require.Len(t, diff.New, 1)
	assert.Empty(t, diff.Removed)
}

func TestPartitionChildrenInactiveAbsentStaysUntouched(t *testing.T) {
	stored := []domain.PlanBenefitPackage{
		pbp("a", "001", "Basic"),
		inactivePBP("b", "002", "Plus"),
	}
	submitted := []domain.PlanBenefitPackage{pbp("a", "001", "Basic")}

	diff := PartitionChildren(stored, submitted, pbpPubID, pbpActive, pbpEqual)
	assert.Empty(t, diff.New)
	assert.Empty(t, diff.Changed)
	assert.Empty(t, diff.Removed, "a deactivated row absent from the submission must not be re-deactivated")
}

func TestPartitionChildrenResubmittedInactiveReactivates(t *testing.T) {
	stored := []domain.PlanBenefitPackage{inactivePBP("b", "002", "Plus")}
	submitted := []domain.PlanBenefitPackage{pbp("b", "002", "Plus")}

	diff := PartitionChildren(stored, submitted, pbpPubID, pbpActive, pbpEqual)
	assert.Empty(t, diff.New)
	assert.Empty(t, diff.Removed)
	require.Len(t, diff.Changed, 1, "resubmitting a deactivated row reactivates it even with identical fields")
	assert.Equal(t, "b", diff.Changed[0].PubID)
}
