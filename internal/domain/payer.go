package domain

// Payer is a tenant: a client health-plan payer whose data is isolated from
// every other payer's via its public identifier.
type Payer struct {
	PubID             string `json:"pubId"`
	Name              string `json:"name"`
	MarketingName     string `json:"marketingName"`
	CMSID             string `json:"cmsId"`
	PayerType         string `json:"payerType"`
	InitialPerfYear   int    `json:"initialPerfYear"`
	PerfYearCount     int    `json:"perfYearCount"`
	ParentOrgName     string `json:"parentOrgName"`
	WebsiteURL        string `json:"websiteUrl"`
	IsActive          bool   `json:"isActive"`
	Audit
}

// PayerTypes enumerates the supported lines of business.
var PayerTypes = []string{"aco", "ma", "medicaid", "commercial"}
