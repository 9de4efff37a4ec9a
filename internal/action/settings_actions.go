package action

import (
	"context"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// UpdateSettingsRequest is the payload of the global settings form. Settings
// are a per-payer singleton; the target row is addressed by payer.
type UpdateSettingsRequest struct {
	PayerPubID               string `json:"payerPubId" validate:"required"`
	PhysAssignmentSource     string `json:"physAssignmentSource" validate:"required,oneof=claims attestation roster"`
	RequirePhysCredential    bool   `json:"requirePhysCredential"`
	AllowMultiplePrimaryAffs bool   `json:"allowMultiplePrimaryAffs"`
	AllowInactivePlanRefs    bool   `json:"allowInactivePlanRefs"`
}

// UpdateSettings applies an edit to a payer's settings singleton.
func (a *Actions) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (domain.GlobalSettings, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.GlobalSettings{}, err
	}
	user, err := auth.RequireUser(ctx, auth.Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      []domain.UserRole{domain.UserRoleEdit},
		PayerPubID: req.PayerPubID,
	})
	if err != nil {
		return domain.GlobalSettings{}, err
	}

	settings := domain.GlobalSettings{
		PayerPubID:               req.PayerPubID,
		PhysAssignmentSource:     req.PhysAssignmentSource,
		RequirePhysCredential:    req.RequirePhysCredential,
		AllowMultiplePrimaryAffs: req.AllowMultiplePrimaryAffs,
		AllowInactivePlanRefs:    req.AllowInactivePlanRefs,
		Audit:                    domain.Audit{UpdatedBy: user.UserPubID},
	}

	updated, err := a.repos.Settings.Update(ctx, settings)
	if err != nil {
		return domain.GlobalSettings{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "settings"))
	return updated, nil
}
