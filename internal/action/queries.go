package action

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/domain"
)

// viewTTL bounds staleness for cached views that miss an invalidation.
const viewTTL = 5 * time.Minute

func readRequirement(payerPubID string) auth.Requirement {
	return auth.Requirement{
		Types: []domain.UserType{
			domain.UserTypeBPO, domain.UserTypePayer,
			domain.UserTypePhysician, domain.UserTypeVendor,
		},
		Roles:      []domain.UserRole{domain.UserRoleRead, domain.UserRoleAdd, domain.UserRoleEdit},
		PayerPubID: payerPubID,
	}
}

// cachedView serves the tag from cache when present, otherwise loads from the
// repository and stores the rendered view.
func cachedView[T any](ctx context.Context, a *Actions, tag string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if raw, ok, err := a.cache.Get(ctx, tag); err == nil && ok {
		var out T
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			return out, nil
		}
	} else if err != nil {
		a.logger.Warn("cache read failed", zap.String("tag", tag), zap.Error(err))
	}

	out, err := load(ctx)
	if err != nil {
		return zero, err
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := a.cache.Set(ctx, tag, raw, viewTTL); err != nil {
			a.logger.Warn("cache write failed", zap.String("tag", tag), zap.Error(err))
		}
	}
	return out, nil
}

// ListHealthPlans returns a payer's health plans, served from the view cache
// when fresh.
func (a *Actions) ListHealthPlans(ctx context.Context, payerPubID string) ([]domain.HealthPlan, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return nil, err
	}
	return cachedView(ctx, a, cache.Tag(payerPubID, "healthPlans"), func(ctx context.Context) ([]domain.HealthPlan, error) {
		return a.repos.Plans.ListByPayer(ctx, payerPubID)
	})
}

// GetHealthPlan returns one health plan with its PBPs.
func (a *Actions) GetHealthPlan(ctx context.Context, payerPubID, pubID string) (domain.HealthPlan, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return domain.HealthPlan{}, err
	}
	return a.repos.Plans.GetByPubID(ctx, payerPubID, pubID)
}

// ListNetworkEntities returns a payer's network entities.
func (a *Actions) ListNetworkEntities(ctx context.Context, payerPubID string) ([]domain.NetworkEntity, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return nil, err
	}
	return cachedView(ctx, a, cache.Tag(payerPubID, "networkEntities"), func(ctx context.Context) ([]domain.NetworkEntity, error) {
		return a.repos.Entities.ListByPayer(ctx, payerPubID)
	})
}

// ListNetworkPhysicians returns a payer's physicians.
func (a *Actions) ListNetworkPhysicians(ctx context.Context, payerPubID string) ([]domain.NetworkPhysician, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return nil, err
	}
	return cachedView(ctx, a, cache.Tag(payerPubID, "networkPhysicians"), func(ctx context.Context) ([]domain.NetworkPhysician, error) {
		return a.repos.Physicians.ListByPayer(ctx, payerPubID)
	})
}

// ListPerfYears returns a payer's performance-year configurations.
func (a *Actions) ListPerfYears(ctx context.Context, payerPubID string) ([]domain.PerformanceYearConfig, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return nil, err
	}
	return cachedView(ctx, a, cache.Tag(payerPubID, "perfYears"), func(ctx context.Context) ([]domain.PerformanceYearConfig, error) {
		return a.repos.PerfYears.ListByPayer(ctx, payerPubID)
	})
}

// GetSettings returns a payer's settings singleton.
func (a *Actions) GetSettings(ctx context.Context, payerPubID string) (domain.GlobalSettings, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return domain.GlobalSettings{}, err
	}
	return a.repos.Settings.GetByPayer(ctx, payerPubID)
}

// GetLicense returns a payer's license singleton.
func (a *Actions) GetLicense(ctx context.Context, payerPubID string) (domain.License, error) {
	if _, err := auth.RequireUser(ctx, readRequirement(payerPubID)); err != nil {
		return domain.License{}, err
	}
	return a.repos.Licenses.GetByPayer(ctx, payerPubID)
}

// ListPayers returns all payers; back-office only.
func (a *Actions) ListPayers(ctx context.Context) ([]domain.Payer, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok || user.Type != domain.UserTypeBPO {
		return nil, &domain.AuthorizationError{Message: "only back-office staff may list payers"}
	}
	return a.repos.Payers.List(ctx)
}
