// Package action is the trust boundary between untrusted client payloads and
// the data layer. Every operation follows the same order: re-validate the
// payload against the authoritative schema, authorize the caller against the
// operation's required capability set, delegate to the repository
// transaction, then invalidate the affected cached views. No side effects
// occur if validation or authorization fails.
package action

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/cache"
	"github.com/vbtech/vbadmin/internal/repository"
	"github.com/vbtech/vbadmin/internal/validate"
)

// Repositories bundles the data layer dependencies.
type Repositories struct {
	Payers     repository.PayerRepository
	Plans      repository.HealthPlanRepository
	Entities   repository.NetworkEntityRepository
	Physicians repository.NetworkPhysicianRepository
	PerfYears  repository.PerfYearRepository
	Settings   repository.SettingsRepository
	Licenses   repository.LicenseRepository
}

// Actions exposes every mutating operation of the service.
type Actions struct {
	validator *validator.Validate
	cache     cache.Store
	logger    *zap.Logger
	repos     Repositories
}

// New wires the action boundary.
func New(repos Repositories, store cache.Store, logger *zap.Logger) *Actions {
	return &Actions{
		validator: validate.New(),
		cache:     store,
		logger:    logger,
		repos:     repos,
	}
}

// invalidate drops the named view tags. The mutation has already committed at
// this point, so a cache failure is logged rather than surfaced: the stale
// entry expires on its own TTL.
func (a *Actions) invalidate(ctx context.Context, tags ...string) {
	if err := a.cache.Invalidate(ctx, tags...); err != nil {
		a.logger.Warn("failed to invalidate cached views", zap.Strings("tags", tags), zap.Error(err))
	}
}
