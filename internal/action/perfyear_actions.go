package action

import (
	"context"
	"time"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/validate"
)

// InsertPerfYearRequest is the payload of the add-performance-year wizard.
type InsertPerfYearRequest struct {
	PayerPubID        string    `json:"payerPubId" validate:"required"`
	PerformanceYear   int       `json:"performanceYear" validate:"required,min=2000,max=2100"`
	ProgramStart      time.Time `json:"programStart" validate:"required"`
	ProgramEnd        time.Time `json:"programEnd" validate:"required,gtfield=ProgramStart"`
	EligibilitySource string    `json:"eligibilitySource" validate:"required,oneof=cms payer manual"`
	PaymentModel      string    `json:"paymentModel" validate:"required,oneof=capitation ffs shared-savings"`
	RiskAdjusted      bool      `json:"riskAdjusted"`
}

// UpdatePerfYearRequest is the payload of the edit form. The performance year
// itself is immutable after insert.
type UpdatePerfYearRequest struct {
	PubID             string    `json:"pubId" validate:"required"`
	PayerPubID        string    `json:"payerPubId" validate:"required"`
	ProgramStart      time.Time `json:"programStart" validate:"required"`
	ProgramEnd        time.Time `json:"programEnd" validate:"required,gtfield=ProgramStart"`
	EligibilitySource string    `json:"eligibilitySource" validate:"required,oneof=cms payer manual"`
	PaymentModel      string    `json:"paymentModel" validate:"required,oneof=capitation ffs shared-savings"`
	RiskAdjusted      bool      `json:"riskAdjusted"`
	IsActive          bool      `json:"isActive"`
}

func perfYearRequirement(payerPubID string, roles ...domain.UserRole) auth.Requirement {
	return auth.Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      roles,
		PayerPubID: payerPubID,
	}
}

// InsertPerfYear creates a performance-year configuration.
func (a *Actions) InsertPerfYear(ctx context.Context, req InsertPerfYearRequest) (domain.PerformanceYearConfig, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.PerformanceYearConfig{}, err
	}
	user, err := auth.RequireUser(ctx, perfYearRequirement(req.PayerPubID, domain.UserRoleAdd, domain.UserRoleEdit))
	if err != nil {
		return domain.PerformanceYearConfig{}, err
	}

	config := domain.PerformanceYearConfig{
		PayerPubID:        req.PayerPubID,
		PerformanceYear:   req.PerformanceYear,
		ProgramStart:      req.ProgramStart,
		ProgramEnd:        req.ProgramEnd,
		EligibilitySource: req.EligibilitySource,
		PaymentModel:      req.PaymentModel,
		RiskAdjusted:      req.RiskAdjusted,
		Audit:             domain.Audit{CreatedBy: user.UserPubID},
	}

	created, err := a.repos.PerfYears.Insert(ctx, config)
	if err != nil {
		return domain.PerformanceYearConfig{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "perfYears"))
	return created, nil
}

// UpdatePerfYear applies an edit to a performance-year configuration.
func (a *Actions) UpdatePerfYear(ctx context.Context, req UpdatePerfYearRequest) (domain.PerformanceYearConfig, error) {
	if err := validate.Struct(a.validator, req); err != nil {
		return domain.PerformanceYearConfig{}, err
	}
	user, err := auth.RequireUser(ctx, perfYearRequirement(req.PayerPubID, domain.UserRoleEdit))
	if err != nil {
		return domain.PerformanceYearConfig{}, err
	}

	config := domain.PerformanceYearConfig{
		PubID:             req.PubID,
		PayerPubID:        req.PayerPubID,
		ProgramStart:      req.ProgramStart,
		ProgramEnd:        req.ProgramEnd,
		EligibilitySource: req.EligibilitySource,
		PaymentModel:      req.PaymentModel,
		RiskAdjusted:      req.RiskAdjusted,
		IsActive:          req.IsActive,
		Audit:             domain.Audit{UpdatedBy: user.UserPubID},
	}

	updated, err := a.repos.PerfYears.Update(ctx, config)
	if err != nil {
		return domain.PerformanceYearConfig{}, err
	}

	a.invalidate(ctx, cache.Tag(req.PayerPubID, "perfYears"))
	return updated, nil
}
