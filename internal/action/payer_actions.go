package action

import (
	"context"

	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// InsertPayerRequest is the payload of the add-payer wizard. Creating a payer
// also seeds its settings and license singletons so the admin screens always
// have a row to edit.
type InsertPayerRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	MarketingName   string `json:"marketingName" validate:"max=100"`
	CMSID           string `json:"cmsId" validate:"required,min=5,max=10"`
	PayerType       string `json:"payerType" validate:"required,oneof=aco ma medicaid commercial"`
	InitialPerfYear int    `json:"initialPerfYear" validate:"required,min=2000,max=2100"`
	PerfYearCount   int    `json:"perfYearCount" validate:"required,min=1,max=10"`
	ParentOrgName   string `json:"parentOrgName" validate:"max=100"`
	WebsiteURL      string `json:"websiteUrl" validate:"omitempty,url"`
}

// UpdatePayerRequest is the payload of the edit-payer form.
type UpdatePayerRequest struct {
	PubID           string `json:"pubId" validate:"required"`
	Name            string `json:"name" validate:"required,max=100"`
	MarketingName   string `json:"marketingName" validate:"max=100"`
	CMSID           string `json:"cmsId" validate:"required,min=5,max=10"`
	PayerType       string `json:"payerType" validate:"required,oneof=aco ma medicaid commercial"`
	InitialPerfYear int    `json:"initialPerfYear" validate:"required,min=2000,max=2100"`
	PerfYearCount   int    `json:"perfYearCount" validate:"required,min=1,max=10"`
	ParentOrgName   string `json:"parentOrgName" validate:"max=100"`
	WebsiteURL      string `json:"websiteUrl" validate:"omitempty,url"`
	IsActive        bool   `json:"isActive"`
}

// InsertPayer creates a payer. Only back-office staff onboard tenants.
func (a *Actions) InsertPayer(ctx context.Context, req InsertPayerRequest) (domain.Payer, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.Payer{}, err
	}
	user, ok := auth.UserFromContext(ctx)
	if !ok || user.Type != domain.UserTypeBPO {
		return domain.Payer{}, &domain.AuthorizationError{Message: "only back-office staff may onboard payers"}
	}

	payer := domain.Payer{
		Name:            req.Name,
		MarketingName:   req.MarketingName,
		CMSID:           req.CMSID,
		PayerType:       req.PayerType,
		InitialPerfYear: req.InitialPerfYear,
		PerfYearCount:   req.PerfYearCount,
		ParentOrgName:   req.ParentOrgName,
		WebsiteURL:      req.WebsiteURL,
		Audit:           domain.Audit{CreatedBy: user.UserPubID},
	}

	created, err := a.repos.Payers.Insert(ctx, payer)
	if err != nil {
		return domain.Payer{}, err
	}

	// Seed the singletons. These run in their own transactions after the
	// payer commit; a failure here leaves a payer without settings, which the
	// settings screen repairs on first save.
	if _, err := a.repos.Settings.Insert(ctx, domain.GlobalSettings{
		PayerPubID: created.PubID,
		Audit:      domain.Audit{CreatedBy: user.UserPubID},
	}); err != nil {
		a.logger.Warn("failed to seed payer settings", zap.String("payerPubId", created.PubID), zap.Error(err))
	}
	if _, err := a.repos.Licenses.Insert(ctx, domain.License{
		PayerPubID: created.PubID,
		Audit:      domain.Audit{CreatedBy: user.UserPubID},
	}); err != nil {
		a.logger.Warn("failed to seed payer license", zap.String("payerPubId", created.PubID), zap.Error(err))
	}

	a.invalidate(ctx, cache.Tag(created.PubID, "payer"), "payers")
	return created, nil
}

// UpdatePayer applies an edit to a payer row.
func (a *Actions) UpdatePayer(ctx context.Context, req UpdatePayerRequest) (domain.Payer, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.Payer{}, err
	}
	user, err := auth.RequireUser(ctx, auth.Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      []domain.UserRole{domain.UserRoleEdit},
		PayerPubID: req.PubID,
	})
	if err != nil {
		return domain.Payer{}, err
	}

	payer := domain.Payer{
		PubID:           req.PubID,
		Name:            req.Name,
		MarketingName:   req.MarketingName,
		CMSID:           req.CMSID,
		PayerType:       req.PayerType,
		InitialPerfYear: req.InitialPerfYear,
		PerfYearCount:   req.PerfYearCount,
		ParentOrgName:   req.ParentOrgName,
		WebsiteURL:      req.WebsiteURL,
		IsActive:        req.IsActive,
		Audit:           domain.Audit{UpdatedBy: user.UserPubID},
	}

	updated, err := a.repos.Payers.Update(ctx, payer)
	if err != nil {
		return domain.Payer{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PubID, "payer"), "payers")
	return updated, nil
}
