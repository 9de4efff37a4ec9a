package action

import (
	"context"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// InsertNetworkEntityRequest is the payload of the add-network-entity wizard.
type InsertNetworkEntityRequest struct {
	PayerPubID        string `json:"payerPubId" validate:"required"`
	NetEntType        string `json:"netEntType" validate:"required,oneof='practice group' facility 'physician org' vendor"`
	MarketingName     string `json:"marketingName" validate:"required,max=100"`
	LegalBusinessName string `json:"legalBusinessName" validate:"required,max=100"`
	ReferenceName     string `json:"referenceName" validate:"max=50"`
	OrgNPI            string `json:"orgNpi" validate:"required,len=10,numeric"`
	TaxID             string `json:"taxId" validate:"required,len=9,numeric"`
}

// UpdateNetworkEntityRequest is the payload of the edit-network-entity form.
type UpdateNetworkEntityRequest struct {
	PubID             string `json:"pubId" validate:"required"`
	PayerPubID        string `json:"payerPubId" validate:"required"`
	NetEntType        string `json:"netEntType" validate:"required,oneof='practice group' facility 'physician org' vendor"`
	MarketingName     string `json:"marketingName" validate:"required,max=100"`
	LegalBusinessName string `json:"legalBusinessName" validate:"required,max=100"`
	ReferenceName     string `json:"referenceName" validate:"max=50"`
	OrgNPI            string `json:"orgNpi" validate:"required,len=10,numeric"`
	TaxID             string `json:"taxId" validate:"required,len=9,numeric"`
	IsActive          bool   `json:"isActive"`
}

func networkEntityRequirement(payerPubID string, roles ...domain.UserRole) auth.Requirement {
	return auth.Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      roles,
		PayerPubID: payerPubID,
	}
}

// InsertNetworkEntity creates a contracted network organization.
func (a *Actions) InsertNetworkEntity(ctx context.Context, req InsertNetworkEntityRequest) (domain.NetworkEntity, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.NetworkEntity{}, err
	}
	user, err := auth.RequireUser(ctx, networkEntityRequirement(req.PayerPubID, domain.UserRoleAdd, domain.UserRoleEdit))
	if err != nil {
		return domain.NetworkEntity{}, err
	}

	entity := domain.NetworkEntity{
		PayerPubID:        req.PayerPubID,
		NetEntType:        domain.NetworkEntityType(req.NetEntType),
		MarketingName:     req.MarketingName,
		LegalBusinessName: req.LegalBusinessName,
		ReferenceName:     req.ReferenceName,
		OrgNPI:            req.OrgNPI,
		TaxID:             req.TaxID,
		Audit:             domain.Audit{CreatedBy: user.UserPubID},
	}

	created, err := a.repos.Entities.Insert(ctx, entity)
	if err != nil {
		return domain.NetworkEntity{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "networkEntities"))
	return created, nil
}

// UpdateNetworkEntity applies an edit to a network entity.
func (a *Actions) UpdateNetworkEntity(ctx context.Context, req UpdateNetworkEntityRequest) (domain.NetworkEntity, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.NetworkEntity{}, err
	}
	user, err := auth.RequireUser(ctx, networkEntityRequirement(req.PayerPubID, domain.UserRoleEdit))
	if err != nil {
		return domain.NetworkEntity{}, err
	}

	entity := domain.NetworkEntity{
		PubID:             req.PubID,
		PayerPubID:        req.PayerPubID,
		NetEntType:        domain.NetworkEntityType(req.NetEntType),
		MarketingName:     req.MarketingName,
		LegalBusinessName: req.LegalBusinessName,
		ReferenceName:     req.ReferenceName,
		OrgNPI:            req.OrgNPI,
		TaxID:             req.TaxID,
		IsActive:          req.IsActive,
		Audit:             domain.Audit{UpdatedBy: user.UserPubID},
	}

	updated, err := a.repos.Entities.Update(ctx, entity)
	if err != nil {
		return domain.NetworkEntity{}, err
	}

	a.invalidate(ctx,
		cache.Tag(req.PayerPubID, "networkEntities"),
		cache.Tag(req.PayerPubID, "networkEntity:"+req.PubID),
	)
	return updated, nil
}
