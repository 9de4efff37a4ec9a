package action

import (
	"context"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// AffiliationInput is one submitted entity affiliation. PubID is empty for
// new rows; a stored affiliation absent from the submission is deactivated.
type AffiliationInput struct {
	PubID              string `json:"pubId"`
	NetworkEntityPubID string `json:"networkEntityPubId" validate:"required"`
	Position           string `json:"position" validate:"max=50"`
	IsPrimary          bool   `json:"isPrimary"`
}

// InsertNetworkPhysicianRequest is the payload of the add-physician wizard.
type InsertNetworkPhysicianRequest struct {
	PayerPubID     string             `json:"payerPubId" validate:"required"`
	FirstName      string             `json:"firstName" validate:"required,max=50"`
	LastName       string             `json:"lastName" validate:"required,max=50"`
	NPI            string             `json:"npi" validate:"required,len=10,numeric"`
	TaxID          string             `json:"taxId" validate:"omitempty,len=9,numeric"`
	Credential     string             `json:"credential" validate:"max=20"`
	Specialty      string             `json:"specialty" validate:"max=100"`
	PrimaryTaxCode string             `json:"primaryTaxCode" validate:"omitempty,len=10"`
	PhysType       string             `json:"physType" validate:"max=50"`
	Class          string             `json:"class" validate:"required,oneof=pcp specialist both"`
	SoleProprietor bool               `json:"soleProprietor"`
	Affiliations   []AffiliationInput `json:"affiliations" validate:"dive"`
}

// UpdateNetworkPhysicianRequest is the payload of the edit-physician form.
type UpdateNetworkPhysicianRequest struct {
	PubID          string             `json:"pubId" validate:"required"`
	PayerPubID     string             `json:"payerPubId" validate:"required"`
	FirstName      string             `json:"firstName" validate:"required,max=50"`
	LastName       string             `json:"lastName" validate:"required,max=50"`
	NPI            string             `json:"npi" validate:"required,len=10,numeric"`
	TaxID          string             `json:"taxId" validate:"omitempty,len=9,numeric"`
	Credential     string             `json:"credential" validate:"max=20"`
	Specialty      string             `json:"specialty" validate:"max=100"`
	PrimaryTaxCode string             `json:"primaryTaxCode" validate:"omitempty,len=10"`
	PhysType       string             `json:"physType" validate:"max=50"`
	Class          string             `json:"class" validate:"required,oneof=pcp specialist both"`
	SoleProprietor bool               `json:"soleProprietor"`
	IsActive       bool               `json:"isActive"`
	Affiliations   []AffiliationInput `json:"affiliations" validate:"dive"`
}

func physicianRequirement(payerPubID string, roles ...domain.UserRole) auth.Requirement {
	return auth.Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      roles,
		PayerPubID: payerPubID,
	}
}

// InsertNetworkPhysician creates a physician with affiliations.
func (a *Actions) InsertNetworkPhysician(ctx context.Context, req InsertNetworkPhysicianRequest) (domain.NetworkPhysician, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.NetworkPhysician{}, err
	}
	user, err := auth.RequireUser(ctx, physicianRequirement(req.PayerPubID, domain.UserRoleAdd, domain.UserRoleEdit))
	if err != nil {
		return domain.NetworkPhysician{}, err
	}

	physician := domain.NetworkPhysician{
		PayerPubID:     req.PayerPubID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		NPI:            req.NPI,
		TaxID:          req.TaxID,
		Credential:     req.Credential,
		Specialty:      req.Specialty,
		PrimaryTaxCode: req.PrimaryTaxCode,
		PhysType:       req.PhysType,
		Class:          req.Class,
		SoleProprietor: req.SoleProprietor,
		Audit:          domain.Audit{CreatedBy: user.UserPubID},
	}
	for _, aff := range req.Affiliations {
		physician.Affiliations = append(physician.Affiliations, domain.PhysicianAffiliation{
			NetworkEntityPubID: aff.NetworkEntityPubID,
			Position:           aff.Position,
			IsPrimary:          aff.IsPrimary,
		})
	}

	created, err := a.repos.Physicians.Insert(ctx, physician)
	if err != nil {
		return domain.NetworkPhysician{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "networkPhysicians"))
	return created, nil
}

// UpdateNetworkPhysician applies an edit, reconciling the affiliation collection.
func (a *Actions) UpdateNetworkPhysician(ctx context.Context, req UpdateNetworkPhysicianRequest) (domain.NetworkPhysician, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.NetworkPhysician{}, err
	}
	user, err := auth.RequireUser(ctx, physicianRequirement(req.PayerPubID, domain.UserRoleEdit))
	if err != nil {
		return domain.NetworkPhysician{}, err
	}

	physician := domain.NetworkPhysician{
		PubID:          req.PubID,
		PayerPubID:     req.PayerPubID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		NPI:            req.NPI,
		TaxID:          req.TaxID,
		Credential:     req.Credential,
		Specialty:      req.Specialty,
		PrimaryTaxCode: req.PrimaryTaxCode,
		PhysType:       req.PhysType,
		Class:          req.Class,
		SoleProprietor: req.SoleProprietor,
		IsActive:       req.IsActive,
		Audit:          domain.Audit{UpdatedBy: user.UserPubID},
	}
	for _, aff := range req.Affiliations {
		physician.Affiliations = append(physician.Affiliations, domain.PhysicianAffiliation{
			PubID:              aff.PubID,
			NetworkEntityPubID: aff.NetworkEntityPubID,
			Position:           aff.Position,
			IsPrimary:          aff.IsPrimary,
		})
	}

	updated, err := a.repos.Physicians.Update(ctx, physician)
	if err != nil {
		return domain.NetworkPhysician{}, err
	}

	a.invalidate(ctx,
		cache.Tag(req.PayerPubID, "networkPhysicians"),
		cache.Tag(req.PayerPubID, "networkPhysician:"+req.PubID),
	)
	return updated, nil
}
