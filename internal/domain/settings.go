package domain

// GlobalSettings is the per-payer singleton row holding cross-application
// behavior toggles. It is created alongside the payer and only ever updated.
type GlobalSettings struct {
	PubID                    string `json:"pubId"`
	PayerPubID               string `json:"payerPubId"`
	PhysAssignmentSource     string `json:"physAssignmentSource"`
	RequirePhysCredential    bool   `json:"requirePhysCredential"`
	AllowMultiplePrimaryAffs bool   `json:"allowMultiplePrimaryAffs"`
	AllowInactivePlanRefs    bool   `json:"allowInactivePlanRefs"`
	IsActive                 bool   `json:"isActive"`
	Audit
}
