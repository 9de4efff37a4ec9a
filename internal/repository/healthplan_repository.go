package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vbtech/vbadmin/internal/db"
	"github.com/vbtech/vbadmin/internal/domain"
)

// ErrNotFound is returned when the target row does not exist in the caller's
// tenant scope.
var ErrNotFound = errors.New("row not found")

// healthPlanRepository implements HealthPlanRepository
type healthPlanRepository struct {
	conn *db.Connection
}

// NewHealthPlanRepository creates a new health plan repository
func NewHealthPlanRepository(conn *db.Connection) HealthPlanRepository {
	return &healthPlanRepository{conn: conn}
}

const healthPlanColumns = `pub_id, payer_pub_id, plan_name, cms_plan_id, plan_type, is_active,
	created_at, created_by, updated_at, updated_by`

const pbpColumns = `pub_id, health_plan_pub_id, pbp_id, pbp_name, is_active,
	created_at, created_by, updated_at, updated_by`

const snapshotHealthPlanSQL = `
	INSERT INTO health_plans_hist (` + healthPlanColumns + `, hist_added_at)
	SELECT ` + healthPlanColumns + `, now()
	FROM health_plans WHERE pub_id = $1`

const snapshotPBPSQL = `
	INSERT INTO plan_benefit_packages_hist (` + pbpColumns + `, hist_added_at)
	SELECT ` + pbpColumns + `, now()
	FROM plan_benefit_packages WHERE pub_id = $1`

func healthPlanChecks(plan domain.HealthPlan) []uniquenessCheck {
	return []uniquenessCheck{
		{column: "plan_name", display: "Health Plan Name", value: plan.PlanName},
		{column: "cms_plan_id", display: "CMS Plan ID", value: plan.CMSPlanID},
	}
}

// Insert creates a health plan with its PBPs after a tenant-scoped duplicate
// check across every uniqueness field.
func (r *healthPlanRepository) Insert(ctx context.Context, plan domain.HealthPlan) (domain.HealthPlan, error) {
	out := plan
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "health_plans", payerPubID: plan.PayerPubID},
			healthPlanChecks(plan))
		if err != nil {
			return err
		}
		if len(collisions) > 0 {
			return &domain.DuplicateError{Fields: collisions}
		}

		now := time.Now()
		out.PubID = domain.NewPubID()
		out.IsActive = true
		out.CreatedAt, out.UpdatedAt = now, now
		out.UpdatedBy = out.CreatedBy

		if _, err := tx.Exec(ctx, `
			INSERT INTO health_plans (`+healthPlanColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			out.PubID, out.PayerPubID, out.PlanName, out.CMSPlanID, out.PlanType, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert health plan: %w", err)
		}

		for i := range out.PBPs {
			out.PBPs[i].PubID = domain.NewPubID()
			out.PBPs[i].HealthPlanPubID = out.PubID
			out.PBPs[i].IsActive = true
			out.PBPs[i].Audit = domain.NewAudit(out.CreatedBy, now)
			if err := insertPBP(ctx, tx, out.PBPs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.HealthPlan{}, err
	}
	return out, nil
}

// Update snapshots the live row (and every child row about to change) into
// the history tables, applies the update, and reconciles the PBP collection.
// PBPs absent from the submission are deactivated, never deleted.
func (r *healthPlanRepository) Update(ctx context.Context, plan domain.HealthPlan) (domain.HealthPlan, error) {
	var out domain.HealthPlan
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		stored, err := getHealthPlanTx(ctx, tx, plan.PayerPubID, plan.PubID)
		if err != nil {
			return err
		}

		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "health_plans", payerPubID: plan.PayerPubID, excludePubID: plan.PubID},
			healthPlanChecks(plan))
		if err != nil {
			return err
		}
		if len(collisions) > 0 {
			return &domain.DuplicateError{Fields: collisions}
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotHealthPlanSQL, plan.PubID); err != nil {
			return fmt.Errorf("failed to snapshot health plan: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE health_plans
			SET plan_name = $1, cms_plan_id = $2, plan_type = $3, is_active = $4,
				updated_at = $5, updated_by = $6
			WHERE pub_id = $7 AND payer_pub_id = $8`,
			plan.PlanName, plan.CMSPlanID, plan.PlanType, plan.IsActive,
			now, plan.UpdatedBy, plan.PubID, plan.PayerPubID,
		); err != nil {
			return fmt.Errorf("failed to update health plan: %w", err)
		}

		diff := PartitionChildren(stored.PBPs, plan.PBPs,
			func(p domain.PlanBenefitPackage) string { return p.PubID },
			func(p domain.PlanBenefitPackage) bool { return p.IsActive },
			func(stored, submitted domain.PlanBenefitPackage) bool {
				return stored.PBPID == submitted.PBPID && stored.PBPName == submitted.PBPName
			})

		for _, pbp := range diff.New {
			pbp.PubID = domain.NewPubID()
			pbp.HealthPlanPubID = plan.PubID
			pbp.IsActive = true
			pbp.Audit = domain.NewAudit(plan.UpdatedBy, now)
			if err := insertPBP(ctx, tx, pbp); err != nil {
				return err
			}
		}
		for _, pbp := range diff.Changed {
			if _, err := tx.Exec(ctx, snapshotPBPSQL, pbp.PubID); err != nil {
				return fmt.Errorf("failed to snapshot pbp: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE plan_benefit_packages
				SET pbp_id = $1, pbp_name = $2, is_active = true, updated_at = $3, updated_by = $4
				WHERE pub_id = $5`,
				pbp.PBPID, pbp.PBPName, now, plan.UpdatedBy, pbp.PubID,
			); err != nil {
				return fmt.Errorf("failed to update pbp: %w", err)
			}
		}
		for _, pbp := range diff.Removed {
			if _, err := tx.Exec(ctx, snapshotPBPSQL, pbp.PubID); err != nil {
				return fmt.Errorf("failed to snapshot pbp: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE plan_benefit_packages
				SET is_active = false, updated_at = $1, updated_by = $2
				WHERE pub_id = $3`,
				now, plan.UpdatedBy, pbp.PubID,
			); err != nil {
				return fmt.Errorf("failed to deactivate pbp: %w", err)
			}
		}

		out, err = getHealthPlanTx(ctx, tx, plan.PayerPubID, plan.PubID)
		return err
	})
	if err != nil {
		return domain.HealthPlan{}, err
	}
	return out, nil
}

// GetByPubID retrieves a health plan with its PBPs.
func (r *healthPlanRepository) GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.HealthPlan, error) {
	var out domain.HealthPlan
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = getHealthPlanTx(ctx, tx, payerPubID, pubID)
		return err
	})
	if err != nil {
		return domain.HealthPlan{}, err
	}
	return out, nil
}

// ListByPayer retrieves all health plans for a payer.
func (r *healthPlanRepository) ListByPayer(ctx context.Context, payerPubID string) ([]domain.HealthPlan, error) {
	rows, err := r.conn.Pool.Query(ctx, `
		SELECT `+healthPlanColumns+`
		FROM health_plans WHERE payer_pub_id = $1
		ORDER BY plan_name`, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.HealthPlan
	for rows.Next() {
		plan, err := scanHealthPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan health plans: %w", err)
	}
	return plans, nil
}

func insertPBP(ctx context.Context, tx pgx.Tx, pbp domain.PlanBenefitPackage) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO plan_benefit_packages (`+pbpColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pbp.PubID, pbp.HealthPlanPubID, pbp.PBPID, pbp.PBPName, pbp.IsActive,
		pbp.CreatedAt, pbp.CreatedBy, pbp.UpdatedAt, pbp.UpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to insert pbp: %w", err)
	}
	return nil
}

func getHealthPlanTx(ctx context.Context, tx pgx.Tx, payerPubID, pubID string) (domain.HealthPlan, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+healthPlanColumns+`
		FROM health_plans WHERE pub_id = $1 AND payer_pub_id = $2`, pubID, payerPubID)
	plan, err := scanHealthPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.HealthPlan{}, fmt.Errorf("health plan %s: %w", pubID, ErrNotFound)
	}
	if err != nil {
		return domain.HealthPlan{}, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+pbpColumns+`
		FROM plan_benefit_packages WHERE health_plan_pub_id = $1
		ORDER BY pbp_id`, pubID)
	if err != nil {
		return domain.HealthPlan{}, fmt.Errorf("failed to list pbps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pbp domain.PlanBenefitPackage
		if err := rows.Scan(
			&pbp.PubID, &pbp.HealthPlanPubID, &pbp.PBPID, &pbp.PBPName, &pbp.IsActive,
			&pbp.CreatedAt, &pbp.CreatedBy, &pbp.UpdatedAt, &pbp.UpdatedBy,
		); err != nil {
			return domain.HealthPlan{}, fmt.Errorf("failed to scan pbp: %w", err)
		}
		plan.PBPs = append(plan.PBPs, pbp)
	}
	if err := rows.Err(); err != nil {
		return domain.HealthPlan{}, fmt.Errorf("failed to scan pbps: %w", err)
	}
	return plan, nil
}

func scanHealthPlan(row pgx.Row) (domain.HealthPlan, error) {
	var plan domain.HealthPlan
	if err := row.Scan(
		&plan.PubID, &plan.PayerPubID, &plan.PlanName, &plan.CMSPlanID, &plan.PlanType, &plan.IsActive,
		&plan.CreatedAt, &plan.CreatedBy, &plan.UpdatedAt, &plan.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HealthPlan{}, err
		}
		return domain.HealthPlan{}, fmt.Errorf("failed to scan health plan: %w", err)
	}
	return plan, nil
}
