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

// payerRepository implements PayerRepository
type payerRepository struct {
	conn *db.Connection
}

// NewPayerRepository creates a new payer repository
func NewPayerRepository(conn *db.Connection) PayerRepository {
	return &payerRepository{conn: conn}
}

const payerColumns = `pub_id, payer_name, marketing_name, cms_id, payer_type,
	initial_perf_year, perf_year_count, parent_org_name, website_url, is_active,
	created_at, created_by, updated_at, updated_by`

const snapshotPayerSQL = `
	INSERT INTO payers_hist (` + payerColumns + `, hist_added_at)
	SELECT ` + payerColumns + `, now()
	FROM payers WHERE pub_id = $1`

// payerChecks covers the payer uniqueness fields. Payers are the tenants
// themselves, so the check is global rather than payer-scoped.
func payerChecks(payer domain.Payer) []uniquenessCheck {
	return []uniquenessCheck{
		{column: "payer_name", display: "Payer Name", value: payer.Name},
		{column: "cms_id", display: "CMS ID", value: payer.CMSID},
	}
}

// Insert creates a payer after a global duplicate check.
func (r *payerRepository) Insert(ctx context.Context, payer domain.Payer) (domain.Payer, error) {
	out := payer
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx, duplicateScope{table: "payers"}, payerChecks(payer))
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
			INSERT INTO payers (`+payerColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			out.PubID, out.Name, out.MarketingName, out.CMSID, out.PayerType,
			out.InitialPerfYear, out.PerfYearCount, out.ParentOrgName, out.WebsiteURL, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Payer{}, err
	}
	return out, nil
}

// Update snapshots the payer row into history and applies the update.
func (r *payerRepository) Update(ctx context.Context, payer domain.Payer) (domain.Payer, error) {
	var out domain.Payer
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := getPayerTx(ctx, tx, payer.PubID); err != nil {
			return err
		}

		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "payers", excludePubID: payer.PubID},
			payerChecks(payer))
		if err != nil {
			return err
		}
		if len(collisions) > 0 {
			return &domain.DuplicateError{Fields: collisions}
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotPayerSQL, payer.PubID); err != nil {
			return fmt.Errorf("failed to snapshot payer: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE payers
			SET payer_name = $1, marketing_name = $2, cms_id = $3, payer_type = $4,
				initial_perf_year = $5, perf_year_count = $6, parent_org_name = $7,
				website_url = $8, is_active = $9, updated_at = $10, updated_by = $11
			WHERE pub_id = $12`,
			payer.Name, payer.MarketingName, payer.CMSID, payer.PayerType,
			payer.InitialPerfYear, payer.PerfYearCount, payer.ParentOrgName,
			payer.WebsiteURL, payer.IsActive, now, payer.UpdatedBy, payer.PubID,
		); err != nil {
			return fmt.Errorf("failed to update payer: %w", err)
		}

		out, err = getPayerTx(ctx, tx, payer.PubID)
		return err
	})
	if err != nil {
		return domain.Payer{}, err
	}
	return out, nil
}

// GetByPubID retrieves a payer by public identifier.
func (r *payerRepository) GetByPubID(ctx context.Context, pubID string) (domain.Payer, error) {
	row := r.conn.Pool.QueryRow(ctx, `SELECT `+payerColumns+` FROM payers WHERE pub_id = $1`, pubID)
	payer, err := scanPayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payer{}, fmt.Errorf("payer %s: %w", pubID, ErrNotFound)
	}
	return payer, err
}

// List retrieves all payers.
func (r *payerRepository) List(ctx context.Context) ([]domain.Payer, error) {
	rows, err := r.conn.Pool.Query(ctx, `SELECT `+payerColumns+` FROM payers ORDER BY payer_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payers: %w", err)
	}
	defer rows.Close()

	var payers []domain.Payer
	for rows.Next() {
		payer, err := scanPayer(rows)
		if err != nil {
			return nil, err
		}
		payers = append(payers, payer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan payers: %w", err)
	}
	return payers, nil
}

func getPayerTx(ctx context.Context, tx pgx.Tx, pubID string) (domain.Payer, error) {
	row := tx.QueryRow(ctx, `SELECT `+payerColumns+` FROM payers WHERE pub_id = $1`, pubID)
	payer, err := scanPayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payer{}, fmt.Errorf("payer %s: %w", pubID, ErrNotFound)
	}
	return payer, err
}

func scanPayer(row pgx.Row) (domain.Payer, error) {
	var payer domain.Payer
	if err := row.Scan(
		&payer.PubID, &payer.Name, &payer.MarketingName, &payer.CMSID, &payer.PayerType,
		&payer.InitialPerfYear, &payer.PerfYearCount, &payer.ParentOrgName, &payer.WebsiteURL, &payer.IsActive,
		&payer.CreatedAt, &payer.CreatedBy, &payer.UpdatedAt, &payer.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payer{}, err
		}
		return domain.Payer{}, fmt.Errorf("failed to scan payer: %w", err)
	}
	return payer, nil
}
