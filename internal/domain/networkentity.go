package domain

// NetworkEntityType classifies a contracted network organization.
type NetworkEntityType string

const (
	NetworkEntityTypePracticeGroup NetworkEntityType = "practice group"
	NetworkEntityTypeFacility      NetworkEntityType = "facility"
	NetworkEntityTypePhysicianOrg  NetworkEntityType = "physician org"
	NetworkEntityTypeVendor        NetworkEntityType = "vendor"
)

// NetworkEntity is a payer-scoped contracted organization. Uniqueness checks
// for network entities are additionally scoped by entity type: two entities of
// different types may legitimately share a legal business name.
type NetworkEntity struct {
	PubID             string            `json:"pubId"`
	PayerPubID        string            `json:"payerPubId"`
	NetEntType        NetworkEntityType `json:"netEntType"`
	MarketingName     string            `json:"marketingName"`
	LegalBusinessName string            `json:"legalBusinessName"`
	ReferenceName     string            `json:"referenceName"`
	OrgNPI            string            `json:"orgNpi"`
	TaxID             string            `json:"taxId"`
	IsActive          bool              `json:"isActive"`
	Audit
}
