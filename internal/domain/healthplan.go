package domain

// HealthPlan is a payer-scoped Medicare Advantage contract. Its PBPs are a
// child collection reconciled on every update: PBPs missing from an update
// payload are deactivated, never deleted.
type HealthPlan struct {
	PubID      string `json:"pubId"`
	PayerPubID string `json:"payerPubId"`
	PlanName   string `json:"planName"`
	CMSPlanID  string `json:"cmsPlanId"`
	PlanType   string `json:"planType"`
	IsActive   bool   `json:"isActive"`
	Audit

	PBPs []PlanBenefitPackage `json:"pbps"`
}

// PlanBenefitPackage is one benefit package under a health plan, identified by
// the CMS three-digit PBP id within the plan's contract.
type PlanBenefitPackage struct {
	PubID           string `json:"pubId"`
	HealthPlanPubID string `json:"healthPlanPubId"`
	PBPID           string `json:"pbpId"`
	PBPName         string `json:"pbpName"`
	IsActive        bool   `json:"isActive"`
	Audit
}

// PlanTypes enumerates the supported health plan types.
var PlanTypes = []string{"hmo", "ppo", "pos", "pffs", "snp"}
