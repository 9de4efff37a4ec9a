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

// settingsRepository implements SettingsRepository
type settingsRepository struct {
	conn *db.Connection
}

// NewSettingsRepository creates a new global settings repository
func NewSettingsRepository(conn *db.Connection) SettingsRepository {
	return &settingsRepository{conn: conn}
}

const settingsColumns = `pub_id, payer_pub_id, phys_assignment_source, require_phys_credential,
	allow_multiple_primary_affs, allow_inactive_plan_refs, is_active,
	created_at, created_by, updated_at, updated_by`

const snapshotSettingsSQL = `
	INSERT INTO global_settings_hist (` + settingsColumns + `, hist_added_at)
	SELECT ` + settingsColumns + `, now()
	FROM global_settings WHERE pub_id = $1`

// Insert creates the settings singleton for a payer. The one-active-row
// invariant is carried by the payer-scoped uniqueness check on the singleton
// marker: a second insert for the same payer collides.
func (r *settingsRepository) Insert(ctx context.Context, settings domain.GlobalSettings) (domain.GlobalSettings, error) {
	out := settings
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "global_settings"},
			[]uniquenessCheck{{column: "payer_pub_id", display: "Payer", value: settings.PayerPubID}})
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
			INSERT INTO global_settings (`+settingsColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			out.PubID, out.PayerPubID, out.PhysAssignmentSource, out.RequirePhysCredential,
			out.AllowMultiplePrimaryAffs, out.AllowInactivePlanRefs, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert global settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.GlobalSettings{}, err
	}
	return out, nil
}

// Update snapshots the settings row into history and applies the update.
func (r *settingsRepository) Update(ctx context.Context, settings domain.GlobalSettings) (domain.GlobalSettings, error) {
	var out domain.GlobalSettings
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		stored, err := getSettingsTx(ctx, tx, settings.PayerPubID)
		if err != nil {
			return err
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotSettingsSQL, stored.PubID); err != nil {
			return fmt.Errorf("failed to snapshot global settings: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE global_settings
			SET phys_assignment_source = $1, require_phys_credential = $2,
				allow_multiple_primary_affs = $3, allow_inactive_plan_refs = $4,
				updated_at = $5, updated_by = $6
			WHERE pub_id = $7`,
			settings.PhysAssignmentSource, settings.RequirePhysCredential,
			settings.AllowMultiplePrimaryAffs, settings.AllowInactivePlanRefs,
			now, settings.UpdatedBy, stored.PubID,
		); err != nil {
			return fmt.Errorf("failed to update global settings: %w", err)
		}

		out, err = getSettingsTx(ctx, tx, settings.PayerPubID)
		return err
	})
	if err != nil {
		return domain.GlobalSettings{}, err
	}
	return out, nil
}

// GetByPayer retrieves the settings singleton for a payer.
func (r *settingsRepository) GetByPayer(ctx context.Context, payerPubID string) (domain.GlobalSettings, error) {
	row := r.conn.Pool.QueryRow(ctx, `
		SELECT `+settingsColumns+`
		FROM global_settings WHERE payer_pub_id = $1`, payerPubID)
	settings, err := scanSettings(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GlobalSettings{}, fmt.Errorf("global settings for payer %s: %w", payerPubID, ErrNotFound)
	}
	return settings, err
}

func getSettingsTx(ctx context.Context, tx pgx.Tx, payerPubID string) (domain.GlobalSettings, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+settingsColumns+`
		FROM global_settings WHERE payer_pub_id = $1`, payerPubID)
	settings, err := scanSettings(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GlobalSettings{}, fmt.Errorf("global settings for payer %s: %w", payerPubID, ErrNotFound)
	}
	return settings, err
}

func scanSettings(row pgx.Row) (domain.GlobalSettings, error) {
	var settings domain.GlobalSettings
	if err := row.Scan(
		&settings.PubID, &settings.PayerPubID, &settings.PhysAssignmentSource, &settings.RequirePhysCredential,
		&settings.AllowMultiplePrimaryAffs, &settings.AllowInactivePlanRefs, &settings.IsActive,
		&settings.CreatedAt, &settings.CreatedBy, &settings.UpdatedAt, &settings.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.GlobalSettings{}, err
		}
		return domain.GlobalSettings{}, fmt.Errorf("failed to scan global settings: %w", err)
	}
	return settings, nil
}
