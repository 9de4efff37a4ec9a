package action

import (
	"context"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// PBPInput is one submitted benefit package. PubID is empty for new rows; a
// stored PBP absent from the submission is deactivated, not deleted.
type PBPInput struct {
	PubID   string `json:"pubId"`
	PBPID   string `json:"pbpId" validate:"required,len=3,numeric"`
	PBPName string `json:"pbpName" validate:"required,max=100"`
}

// InsertHealthPlanRequest is the payload of the add-health-plan wizard.
type InsertHealthPlanRequest struct {
	PayerPubID string     `json:"payerPubId" validate:"required"`
	PlanName   string     `json:"planName" validate:"required,max=100"`
	CMSPlanID  string     `json:"cmsPlanId" validate:"required,len=5"`
	PlanType   string     `json:"planType" validate:"required,oneof=hmo ppo pos pffs snp"`
	PBPs       []PBPInput `json:"pbps" validate:"dive"`
}

// UpdateHealthPlanRequest is the payload of the edit-health-plan form.
type UpdateHealthPlanRequest struct {
	PubID      string     `json:"pubId" validate:"required"`
	PayerPubID string     `json:"payerPubId" validate:"required"`
	PlanName   string     `json:"planName" validate:"required,max=100"`
	CMSPlanID  string     `json:"cmsPlanId" validate:"required,len=5"`
	PlanType   string     `json:"planType" validate:"required,oneof=hmo ppo pos pffs snp"`
	IsActive   bool       `json:"isActive"`
	PBPs       []PBPInput `json:"pbps" validate:"dive"`
}

func healthPlanRequirement(payerPubID string, roles ...domain.UserRole) auth.Requirement {
	return auth.Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      roles,
		PayerPubID: payerPubID,
	}
}

// InsertHealthPlan creates a health plan with its PBPs.
func (a *Actions) InsertHealthPlan(ctx context.Context, req InsertHealthPlanRequest) (domain.HealthPlan, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.HealthPlan{}, err
	}
	user, err := auth.RequireUser(ctx, healthPlanRequirement(req.PayerPubID, domain.UserRoleAdd, domain.UserRoleEdit))
	if err != nil {
		return domain.HealthPlan{}, err
	}

	plan := domain.HealthPlan{
		PayerPubID: req.PayerPubID,
		PlanName:   req.PlanName,
		CMSPlanID:  req.CMSPlanID,
		PlanType:   req.PlanType,
		Audit:      domain.Audit{CreatedBy: user.UserPubID},
	}
	for _, pbp := range req.PBPs {
		plan.PBPs = append(plan.PBPs, domain.PlanBenefitPackage{PBPID: pbp.PBPID, PBPName: pbp.PBPName})
	}

	created, err := a.repos.Plans.Insert(ctx, plan)
	if err != nil {
		return domain.HealthPlan{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "healthPlans"))
	return created, nil
}

// UpdateHealthPlan applies an edit, reconciling the PBP collection.
func (a *Actions) UpdateHealthPlan(ctx context.Context, req UpdateHealthPlanRequest) (domain.HealthPlan, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.HealthPlan{}, err
	}
	user, err := auth.RequireUser(ctx, healthPlanRequirement(req.PayerPubID, domain.UserRoleEdit))
	if err != nil {
		return domain.HealthPlan{}, err
	}

	plan := domain.HealthPlan{
		PubID:      req.PubID,
		PayerPubID: req.PayerPubID,
		PlanName:   req.PlanName,
		CMSPlanID:  req.CMSPlanID,
		PlanType:   req.PlanType,
		IsActive:   req.IsActive,
		Audit:      domain.Audit{UpdatedBy: user.UserPubID},
	}
	for _, pbp := range req.PBPs {
		plan.PBPs = append(plan.PBPs, domain.PlanBenefitPackage{
			PubID:   pbp.PubID,
			PBPID:   pbp.PBPID,
			PBPName: pbp.PBPName,
		})
	}

	updated, err := a.repos.Plans.Update(ctx, plan)
	if err != nil {
		return domain.HealthPlan{}, err
	}

	a.invalidate(ctx,
		cache.Tag(req.PayerPubID, "healthPlans"),
		cache.Tag(req.PayerPubID, "healthPlan:"+req.PubID),
	)
	return updated, nil
}
