package repository

import (
	"context"

	"github.com/vbtech/vbadmin/internal/domain"
)

// PayerRepository defines operations on payer (tenant) rows.
type PayerRepository interface {
	Insert(ctx context.Context, payer domain.Payer) (domain.Payer, error)
	Update(ctx context.Context, payer domain.Payer) (domain.Payer, error)
	GetByPubID(ctx context.Context, pubID string) (domain.Payer, error)
	List(ctx context.Context) ([]domain.Payer, error)
}

// HealthPlanRepository defines operations on health plans and their PBPs.
type HealthPlanRepository interface {
	Insert(ctx context.Context, plan domain.HealthPlan) (domain.HealthPlan, error)
	Update(ctx context.Context, plan domain.HealthPlan) (domain.HealthPlan, error)
	GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.HealthPlan, error)
	ListByPayer(ctx context.Context, payerPubID string) ([]domain.HealthPlan, error)
}

// NetworkEntityRepository defines operations on contracted network organizations.
type NetworkEntityRepository interface {
	Insert(ctx context.Context, entity domain.NetworkEntity) (domain.NetworkEntity, error)
	Update(ctx context.Context, entity domain.NetworkEntity) (domain.NetworkEntity, error)
	GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.NetworkEntity, error)
	ListByPayer(ctx context.Context, payerPubID string) ([]domain.NetworkEntity, error)
}

// NetworkPhysicianRepository defines operations on physicians and their affiliations.
type NetworkPhysicianRepository interface {
	Insert(ctx context.Context, physician domain.NetworkPhysician) (domain.NetworkPhysician, error)
	Update(ctx context.Context, physician domain.NetworkPhysician) (domain.NetworkPhysician, error)
	GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.NetworkPhysician, error)
	ListByPayer(ctx context.Context, payerPubID string) ([]domain.NetworkPhysician, error)
}

// PerfYearRepository defines operations on performance-year configurations.
type PerfYearRepository interface {
	Insert(ctx context.Context, config domain.PerformanceYearConfig) (domain.PerformanceYearConfig, error)
	Update(ctx context.Context, config domain.PerformanceYearConfig) (domain.PerformanceYearConfig, error)
	GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.PerformanceYearConfig, error)
	ListByPayer(ctx context.Context, payerPubID string) ([]domain.PerformanceYearConfig, error)
}

// SettingsRepository defines operations on the per-payer settings singleton.
type SettingsRepository interface {
	Insert(ctx context.Context, settings domain.GlobalSettings) (domain.GlobalSettings, error)
	Update(ctx context.Context, settings domain.GlobalSettings) (domain.GlobalSettings, error)
	GetByPayer(ctx context.Context, payerPubID string) (domain.GlobalSettings, error)
}

// LicenseRepository defines operations on the per-payer license singleton.
type LicenseRepository interface {
	Insert(ctx context.Context, license domain.License) (domain.License, error)
	Update(ctx context.Context, license domain.License) (domain.License, error)
	GetByPayer(ctx context.Context, payerPubID string) (domain.License, error)
}
