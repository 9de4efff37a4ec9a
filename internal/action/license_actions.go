package action

import (
	"context"
	"time"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// UpdateLicenseRequest is the payload of the license form. Licensing is a
// back-office concern only.
type UpdateLicenseRequest struct {
	PayerPubID    string    `json:"payerPubId" validate:"required"`
	VBCallEnabled bool      `json:"vbcallEnabled"`
	VBPayEnabled  bool      `json:"vbpayEnabled"`
	VBUMEnabled   bool      `json:"vbumEnabled"`
	UserLimit     int       `json:"userLimit" validate:"required,min=1,max=10000"`
	FromDate      time.Time `json:"fromDate" validate:"required"`
	ToDate        time.Time `json:"toDate" validate:"required,gtfield=FromDate"`
}

// UpdateLicense applies an edit to a payer's license singleton.
func (a *Actions) UpdateLicense(ctx context.Context, req UpdateLicenseRequest) (domain.License, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.License{}, err
	}
	user, ok := auth.UserFromContext(ctx)
	if !ok || user.Type != domain.UserTypeBPO {
		return domain.License{}, &domain.AuthorizationError{Message: "only back-office staff may edit licenses"}
	}

	license := domain.License{
		PayerPubID:    req.PayerPubID,
		VBCallEnabled: req.VBCallEnabled,
		VBPayEnabled:  req.VBPayEnabled,
		VBUMEnabled:   req.VBUMEnabled,
		UserLimit:     req.UserLimit,
		FromDate:      req.FromDate,
		ToDate:        req.ToDate,
		Audit:         domain.Audit{UpdatedBy: user.UserPubID},
	}

	updated, err := a.repos.Licenses.Update(ctx, license)
	if err != nil {
		return domain.License{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "license"))
	return updated, nil
}
