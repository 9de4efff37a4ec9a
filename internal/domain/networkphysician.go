package domain

// NetworkPhysician is a payer-scoped contracted physician. Affiliations to
// network entities form a child collection reconciled on every update.
type NetworkPhysician struct {
	PubID          string `json:"pubId"`
	PayerPubID     string `json:"payerPubId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	NPI            string `json:"npi"`
	TaxID          string `json:"taxId"`
	Credential     string `json:"credential"`
	Specialty      string `json:"specialty"`
	PrimaryTaxCode string `json:"primaryTaxCode"`
	PhysType       string `json:"physType"`
	Class          string `json:"class"`
	SoleProprietor bool   `json:"soleProprietor"`
	IsActive       bool   `json:"isActive"`
	Audit

	Affiliations []PhysicianAffiliation `json:"affiliations"`
}

// PhysicianAffiliation links a physician to a network entity, optionally
// marking the entity as the physician's primary affiliation.
type PhysicianAffiliation struct {
	PubID              string `json:"pubId"`
	PhysicianPubID     string `json:"physicianPubId"`
	NetworkEntityPubID string `json:"networkEntityPubId"`
	Position           string `json:"position"`
	IsPrimary          bool   `json:"isPrimary"`
	IsActive           bool   `json:"isActive"`
	Audit
}

// PhysicianClasses enumerates the supported physician classes.
var PhysicianClasses = []string{"pcp", "specialist", "both"}
