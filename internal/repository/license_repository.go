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

// licenseRepository implements LicenseRepository
type licenseRepository struct {
	conn *db.Connection
}

// NewLicenseRepository creates a new license repository
func NewLicenseRepository(conn *db.Connection) LicenseRepository {
	return &licenseRepository{conn: conn}
}

const licenseColumns = `pub_id, payer_pub_id, vbcall_enabled, vbpay_enabled, vbum_enabled,
	user_limit, from_date, to_date, is_active,
	created_at, created_by, updated_at, updated_by`

const snapshotLicenseSQL = `
	INSERT INTO licenses_hist (` + licenseColumns + `, hist_added_at)
	SELECT ` + licenseColumns + `, now()
	FROM licenses WHERE pub_id = $1`

// Insert creates the license singleton for a payer.
func (r *licenseRepository) Insert(ctx context.Context, license domain.License) (domain.License, error) {
	out := license
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "licenses"},
			[]uniquenessCheck{{column: "payer_pub_id", display: "Payer", value: license.PayerPubID}})
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
			INSERT INTO licenses (`+licenseColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			out.PubID, out.PayerPubID, out.VBCallEnabled, out.VBPayEnabled, out.VBUMEnabled,
			out.UserLimit, out.FromDate, out.ToDate, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert license: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.License{}, err
	}
	return out, nil
}

// Update snapshots the license row into history and applies the update.
func (r *licenseRepository) Update(ctx context.Context, license domain.License) (domain.License, error) {
	var out domain.License
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		stored, err := getLicenseTx(ctx, tx, license.PayerPubID)
		if err != nil {
			return err
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotLicenseSQL, stored.PubID); err != nil {
			return fmt.Errorf("failed to snapshot license: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE licenses
			SET vbcall_enabled = $1, vbpay_enabled = $2, vbum_enabled = $3,
				user_limit = $4, from_date = $5, to_date = $6,
				updated_at = $7, updated_by = $8
			WHERE pub_id = $9`,
			license.VBCallEnabled, license.VBPayEnabled, license.VBUMEnabled,
			license.UserLimit, license.FromDate, license.ToDate,
			now, license.UpdatedBy, stored.PubID,
		); err != nil {
			return fmt.Errorf("failed to update license: %w", err)
		}

		out, err = getLicenseTx(ctx, tx, license.PayerPubID)
		return err
	})
	if err != nil {
		return domain.License{}, err
	}
	return out, nil
}

// GetByPayer retrieves the license singleton for a payer.
func (r *licenseRepository) GetByPayer(ctx context.Context, payerPubID string) (domain.License, error) {
	row := r.conn.Pool.QueryRow(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses WHERE payer_pub_id = $1`, payerPubID)
	license, err := scanLicense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.License{}, fmt.Errorf("license for payer %s: %w", payerPubID, ErrNotFound)
	}
	return license, err
}

func getLicenseTx(ctx context.Context, tx pgx.Tx, payerPubID string) (domain.License, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses WHERE payer_pub_id = $1`, payerPubID)
	license, err := scanLicense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.License{}, fmt.Errorf("license for payer %s: %w", payerPubID, ErrNotFound)
	}
	return license, err
}

func scanLicense(row pgx.Row) (domain.License, error) {
	var license domain.License
	if err := row.Scan(
		&license.PubID, &license.PayerPubID, &license.VBCallEnabled, &license.VBPayEnabled, &license.VBUMEnabled,
		&license.UserLimit, &license.FromDate, &license.ToDate, &license.IsActive,
		&license.CreatedAt, &license.CreatedBy, &license.UpdatedAt, &license.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.License{}, err
		}
		return domain.License{}, fmt.Errorf("failed to scan license: %w", err)
	}
	return license, nil
}
