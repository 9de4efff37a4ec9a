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

// networkEntityRepository implements NetworkEntityRepository
type networkEntityRepository struct {
	conn *db.Connection
}

// NewNetworkEntityRepository creates a new network entity repository
func NewNetworkEntityRepository(conn *db.Connection) NetworkEntityRepository {
	return &networkEntityRepository{conn: conn}
}

const networkEntityColumns = `pub_id, payer_pub_id, net_ent_type, marketing_name, legal_business_name,
	reference_name, org_npi, tax_id, is_active, created_at, created_by, updated_at, updated_by`

const snapshotNetworkEntitySQL = `
	INSERT INTO network_entities_hist (` + networkEntityColumns + `, hist_added_at)
	SELECT ` + networkEntityColumns + `, now()
	FROM network_entities WHERE pub_id = $1`

func networkEntityChecks(entity domain.NetworkEntity) []uniquenessCheck {
	return []uniquenessCheck{
		{column: "marketing_name", display: "Marketing Name", value: entity.MarketingName},
		{column: "legal_business_name", display: "Legal Business Name", value: entity.LegalBusinessName},
		{column: "org_npi", display: "Organization NPI", value: entity.OrgNPI},
		{column: "tax_id", display: "Tax ID", value: entity.TaxID},
	}
}

// Insert creates a network entity after a duplicate check scoped to the payer
// and the entity's type: two entities of different types may share a name.
func (r *networkEntityRepository) Insert(ctx context.Context, entity domain.NetworkEntity) (domain.NetworkEntity, error) {
	out := entity
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx, duplicateScope{
			table:       "network_entities",
			payerPubID:  entity.PayerPubID,
			extraEquals: []sqlCondition{{column: "net_ent_type", value: string(entity.NetEntType)}},
		}, networkEntityChecks(entity))
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
			INSERT INTO network_entities (`+networkEntityColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			out.PubID, out.PayerPubID, out.NetEntType, out.MarketingName, out.LegalBusinessName,
			out.ReferenceName, out.OrgNPI, out.TaxID, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert network entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.NetworkEntity{}, err
	}
	return out, nil
}

// Update snapshots the live row into history and applies the update.
func (r *networkEntityRepository) Update(ctx context.Context, entity domain.NetworkEntity) (domain.NetworkEntity, error) {
	var out domain.NetworkEntity
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := getNetworkEntityTx(ctx, tx, entity.PayerPubID, entity.PubID); err != nil {
			return err
		}

		collisions, err := findCollisions(ctx, tx, duplicateScope{
			table:        "network_entities",
			payerPubID:   entity.PayerPubID,
			extraEquals:  []sqlCondition{{column: "net_ent_type", value: string(entity.NetEntType)}},
			excludePubID: entity.PubID,
		}, networkEntityChecks(entity))
		if err != nil {
			return err
		}
		if len(collisions) > 0 {
			return &domain.DuplicateError{Fields: collisions}
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotNetworkEntitySQL, entity.PubID); err != nil {
			return fmt.Errorf("failed to snapshot network entity: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE network_entities
			SET net_ent_type = $1, marketing_name = $2, legal_business_name = $3,
				reference_name = $4, org_npi = $5, tax_id = $6, is_active = $7,
				updated_at = $8, updated_by = $9
			WHERE pub_id = $10 AND payer_pub_id = $11`,
			entity.NetEntType, entity.MarketingName, entity.LegalBusinessName,
			entity.ReferenceName, entity.OrgNPI, entity.TaxID, entity.IsActive,
			now, entity.UpdatedBy, entity.PubID, entity.PayerPubID,
		); err != nil {
			return fmt.Errorf("failed to update network entity: %w", err)
		}

		out, err = getNetworkEntityTx(ctx, tx, entity.PayerPubID, entity.PubID)
		return err
	})
	if err != nil {
		return domain.NetworkEntity{}, err
	}
	return out, nil
}

// GetByPubID retrieves a network entity.
func (r *networkEntityRepository) GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.NetworkEntity, error) {
	row := r.conn.Pool.QueryRow(ctx, `
		SELECT `+networkEntityColumns+`
		FROM network_entities WHERE pub_id = $1 AND payer_pub_id = $2`, pubID, payerPubID)
	entity, err := scanNetworkEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NetworkEntity{}, fmt.Errorf("network entity %s: %w", pubID, ErrNotFound)
	}
	return entity, err
}

// ListByPayer retrieves all network entities for a payer.
func (r *networkEntityRepository) ListByPayer(ctx context.Context, payerPubID string) ([]domain.NetworkEntity, error) {
	rows, err := r.conn.Pool.Query(ctx, `
		SELECT `+networkEntityColumns+`
		FROM network_entities WHERE payer_pub_id = $1
		ORDER BY marketing_name`, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list network entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.NetworkEntity
	for rows.Next() {
		entity, err := scanNetworkEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan network entities: %w", err)
	}
	return entities, nil
}

func getNetworkEntityTx(ctx context.Context, tx pgx.Tx, payerPubID, pubID string) (domain.NetworkEntity, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+networkEntityColumns+`
		FROM network_entities WHERE pub_id = $1 AND payer_pub_id = $2`, pubID, payerPubID)
	entity, err := scanNetworkEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NetworkEntity{}, fmt.Errorf("network entity %s: %w", pubID, ErrNotFound)
	}
	return entity, err
}

func scanNetworkEntity(row pgx.Row) (domain.NetworkEntity, error) {
	var entity domain.NetworkEntity
	if err := row.Scan(
		&entity.PubID, &entity.PayerPubID, &entity.NetEntType, &entity.MarketingName, &entity.LegalBusinessName,
		&entity.ReferenceName, &entity.OrgNPI, &entity.TaxID, &entity.IsActive,
		&entity.CreatedAt, &entity.CreatedBy, &entity.UpdatedAt, &entity.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NetworkEntity{}, err
		}
		return domain.NetworkEntity{}, fmt.Errorf("failed to scan network entity: %w", err)
	}
	return entity, nil
}
