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

// networkPhysicianRepository implements NetworkPhysicianRepository
type networkPhysicianRepository struct {
	conn *db.Connection
}

// NewNetworkPhysicianRepository creates a new network physician repository
func NewNetworkPhysicianRepository(conn *db.Connection) NetworkPhysicianRepository {
	return &networkPhysicianRepository{conn: conn}
}

const physicianColumns = `pub_id, payer_pub_id, first_name, last_name, npi, tax_id, credential,
	specialty, primary_tax_code, phys_type, class, sole_proprietor, is_active,
	created_at, created_by, updated_at, updated_by`

const affiliationColumns = `pub_id, physician_pub_id, network_entity_pub_id, position, is_primary,
	is_active, created_at, created_by, updated_at, updated_by`

const snapshotPhysicianSQL = `
	INSERT INTO network_physicians_hist (` + physicianColumns + `, hist_added_at)
	SELECT ` + physicianColumns + `, now()
	FROM network_physicians WHERE pub_id = $1`

const snapshotAffiliationSQL = `
	INSERT INTO physician_affiliations_hist (` + affiliationColumns + `, hist_added_at)
	SELECT ` + affiliationColumns + `, now()
	FROM physician_affiliations WHERE pub_id = $1`

func physicianChecks(physician domain.NetworkPhysician) []uniquenessCheck {
	return []uniquenessCheck{
		{column: "npi", display: "Individual NPI", value: physician.NPI},
	}
}

// Insert creates a physician with affiliations after a tenant-scoped NPI
// duplicate check.
func (r *networkPhysicianRepository) Insert(ctx context.Context, physician domain.NetworkPhysician) (domain.NetworkPhysician, error) {
	out := physician
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "network_physicians", payerPubID: physician.PayerPubID},
			physicianChecks(physician))
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
			INSERT INTO network_physicians (`+physicianColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			out.PubID, out.PayerPubID, out.FirstName, out.LastName, out.NPI, out.TaxID, out.Credential,
			out.Specialty, out.PrimaryTaxCode, out.PhysType, out.Class, out.SoleProprietor, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert network physician: %w", err)
		}

		for i := range out.Affiliations {
			out.Affiliations[i].PubID = domain.NewPubID()
			out.Affiliations[i].PhysicianPubID = out.PubID
			out.Affiliations[i].IsActive = true
			out.Affiliations[i].Audit = domain.NewAudit(out.CreatedBy, now)
			if err := insertAffiliation(ctx, tx, out.Affiliations[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.NetworkPhysician{}, err
	}
	return out, nil
}

// Update snapshots the live row and every affiliation about to change, then
// applies the update and reconciles the affiliation collection. Affiliations
// absent from the submission are deactivated, never deleted.
func (r *networkPhysicianRepository) Update(ctx context.Context, physician domain.NetworkPhysician) (domain.NetworkPhysician, error) {
	var out domain.NetworkPhysician
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		stored, err := getPhysicianTx(ctx, tx, physician.PayerPubID, physician.PubID)
		if err != nil {
			return err
		}

		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "network_physicians", payerPubID: physician.PayerPubID, excludePubID: physician.PubID},
			physicianChecks(physician))
		if err != nil {
			return err
		}
		if len(collisions) > 0 {
			return &domain.DuplicateError{Fields: collisions}
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotPhysicianSQL, physician.PubID); err != nil {
			return fmt.Errorf("failed to snapshot network physician: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE network_physicians
			SET first_name = $1, last_name = $2, npi = $3, tax_id = $4, credential = $5,
				specialty = $6, primary_tax_code = $7, phys_type = $8, class = $9,
				sole_proprietor = $10, is_active = $11, updated_at = $12, updated_by = $13
			WHERE pub_id = $14 AND payer_pub_id = $15`,
			physician.FirstName, physician.LastName, physician.NPI, physician.TaxID, physician.Credential,
			physician.Specialty, physician.PrimaryTaxCode, physician.PhysType, physician.Class,
			physician.SoleProprietor, physician.IsActive, now, physician.UpdatedBy,
			physician.PubID, physician.PayerPubID,
		); err != nil {
			return fmt.Errorf("failed to update network physician: %w", err)
		}

		diff := PartitionChildren(stored.Affiliations, physician.Affiliations,
			func(a domain.PhysicianAffiliation) string { return a.PubID },
			func(a domain.PhysicianAffiliation) bool { return a.IsActive },
			func(stored, submitted domain.PhysicianAffiliation) bool {
				return stored.NetworkEntityPubID == submitted.NetworkEntityPubID &&
					stored.Position == submitted.Position &&
					stored.IsPrimary == submitted.IsPrimary
			})

		for _, aff := range diff.New {
			aff.PubID = domain.NewPubID()
			aff.PhysicianPubID = physician.PubID
			aff.IsActive = true
			aff.Audit = domain.NewAudit(physician.UpdatedBy, now)
			if err := insertAffiliation(ctx, tx, aff); err != nil {
				return err
			}
		}
		for _, aff := range diff.Changed {
			if _, err := tx.Exec(ctx, snapshotAffiliationSQL, aff.PubID); err != nil {
				return fmt.Errorf("failed to snapshot affiliation: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE physician_affiliations
				SET network_entity_pub_id = $1, position = $2, is_primary = $3, is_active = true,
					updated_at = $4, updated_by = $5
				WHERE pub_id = $6`,
				aff.NetworkEntityPubID, aff.Position, aff.IsPrimary, now, physician.UpdatedBy, aff.PubID,
			); err != nil {
				return fmt.Errorf("failed to update affiliation: %w", err)
			}
		}
		for _, aff := range diff.Removed {
			if _, err := tx.Exec(ctx, snapshotAffiliationSQL, aff.PubID); err != nil {
				return fmt.Errorf("failed to snapshot affiliation: %w", err)
			}
			if _, err := tx.Exec(ctx, `
				UPDATE physician_affiliations
				SET is_active = false, updated_at = $1, updated_by = $2
				WHERE pub_id = $3`,
				now, physician.UpdatedBy, aff.PubID,
			); err != nil {
				return fmt.Errorf("failed to deactivate affiliation: %w", err)
			}
		}

		out, err = getPhysicianTx(ctx, tx, physician.PayerPubID, physician.PubID)
		return err
	})
	if err != nil {
		return domain.NetworkPhysician{}, err
	}
	return out, nil
}

// GetByPubID retrieves a physician with affiliations.
func (r *networkPhysicianRepository) GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.NetworkPhysician, error) {
	var out domain.NetworkPhysician
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		out, err = getPhysicianTx(ctx, tx, payerPubID, pubID)
		return err
	})
	if err != nil {
		return domain.NetworkPhysician{}, err
	}
	return out, nil
}

// ListByPayer retrieves all physicians for a payer.
func (r *networkPhysicianRepository) ListByPayer(ctx context.Context, payerPubID string) ([]domain.NetworkPhysician, error) {
	rows, err := r.conn.Pool.Query(ctx, `
		SELECT `+physicianColumns+`
		FROM network_physicians WHERE payer_pub_id = $1
		ORDER BY last_name, first_name`, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list network physicians: %w", err)
	}
	defer rows.Close()

	var physicians []domain.NetworkPhysician
	for rows.Next() {
		physician, err := scanPhysician(rows)
		if err != nil {
			return nil, err
		}
		physicians = append(physicians, physician)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan network physicians: %w", err)
	}
	return physicians, nil
}

func insertAffiliation(ctx context.Context, tx pgx.Tx, aff domain.PhysicianAffiliation) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO physician_affiliations (`+affiliationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		aff.PubID, aff.PhysicianPubID, aff.NetworkEntityPubID, aff.Position, aff.IsPrimary,
		aff.IsActive, aff.CreatedAt, aff.CreatedBy, aff.UpdatedAt, aff.UpdatedBy,
	); err != nil {
		return fmt.Errorf("failed to insert affiliation: %w", err)
	}
	return nil
}

func getPhysicianTx(ctx context.Context, tx pgx.Tx, payerPubID, pubID string) (domain.NetworkPhysician, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+physicianColumns+`
		FROM network_physicians WHERE pub_id = $1 AND payer_pub_id = $2`, pubID, payerPubID)
	physician, err := scanPhysician(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NetworkPhysician{}, fmt.Errorf("network physician %s: %w", pubID, ErrNotFound)
	}
	if err != nil {
		return domain.NetworkPhysician{}, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+affiliationColumns+`
		FROM physician_affiliations WHERE physician_pub_id = $1
		ORDER BY created_at`, pubID)
	if err != nil {
		return domain.NetworkPhysician{}, fmt.Errorf("failed to list affiliations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var aff domain.PhysicianAffiliation
		if err := rows.Scan(
			&aff.PubID, &aff.PhysicianPubID, &aff.NetworkEntityPubID, &aff.Position, &aff.IsPrimary,
			&aff.IsActive, &aff.CreatedAt, &aff.CreatedBy, &aff.UpdatedAt, &aff.UpdatedBy,
		); err != nil {
			return domain.NetworkPhysician{}, fmt.Errorf("failed to scan affiliation: %w", err)
		}
		physician.Affiliations = append(physician.Affiliations, aff)
	}
	if err := rows.Err(); err != nil {
		return domain.NetworkPhysician{}, fmt.Errorf("failed to scan affiliations: %w", err)
	}
	return physician, nil
}

func scanPhysician(row pgx.Row) (domain.NetworkPhysician, error) {
	var physician domain.NetworkPhysician
	if err := row.Scan(
		&physician.PubID, &physician.PayerPubID, &physician.FirstName, &physician.LastName,
		&physician.NPI, &physician.TaxID, &physician.Credential, &physician.Specialty,
		&physician.PrimaryTaxCode, &physician.PhysType, &physician.Class, &physician.SoleProprietor,
		&physician.IsActive, &physician.CreatedAt, &physician.CreatedBy, &physician.UpdatedAt, &physician.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NetworkPhysician{}, err
		}
		return domain.NetworkPhysician{}, fmt.Errorf("failed to scan network physician: %w", err)
	}
	return physician, nil
}
