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

// perfYearRepository implements PerfYearRepository
type perfYearRepository struct {
	conn *db.Connection
}

// NewPerfYearRepository creates a new performance-year configuration repository
func NewPerfYearRepository(conn *db.Connection) PerfYearRepository {
	return &perfYearRepository{conn: conn}
}

const perfYearColumns = `pub_id, payer_pub_id, performance_year, program_start, program_end,
	eligibility_source, payment_model, risk_adjusted, is_active,
	created_at, created_by, updated_at, updated_by`

const snapshotPerfYearSQL = `
	INSERT INTO perf_year_configs_hist (` + perfYearColumns + `, hist_added_at)
	SELECT ` + perfYearColumns + `, now()
	FROM perf_year_configs WHERE pub_id = $1`

func perfYearChecks(config domain.PerformanceYearConfig) []uniquenessCheck {
	return []uniquenessCheck{
		{column: "performance_year", display: "Performance Year", value: config.PerformanceYear},
	}
}

// Insert creates a performance-year configuration; at most one active row may
// exist per payer and year.
func (r *perfYearRepository) Insert(ctx context.Context, config domain.PerformanceYearConfig) (domain.PerformanceYearConfig, error) {
	out := config
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		collisions, err := findCollisions(ctx, tx,
			duplicateScope{table: "perf_year_configs", payerPubID: config.PayerPubID},
			perfYearChecks(config))
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
			INSERT INTO perf_year_configs (`+perfYearColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			out.PubID, out.PayerPubID, out.PerformanceYear, out.ProgramStart, out.ProgramEnd,
			out.EligibilitySource, out.PaymentModel, out.RiskAdjusted, out.IsActive,
			out.CreatedAt, out.CreatedBy, out.UpdatedAt, out.UpdatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert perf year config: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.PerformanceYearConfig{}, err
	}
	return out, nil
}

// Update snapshots the live row into history and applies the update. The
// performance year itself is immutable after insert.
func (r *perfYearRepository) Update(ctx context.Context, config domain.PerformanceYearConfig) (domain.PerformanceYearConfig, error) {
	var out domain.PerformanceYearConfig
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := getPerfYearTx(ctx, tx, config.PayerPubID, config.PubID); err != nil {
			return err
		}

		now := time.Now()
		if _, err := tx.Exec(ctx, snapshotPerfYearSQL, config.PubID); err != nil {
			return fmt.Errorf("failed to snapshot perf year config: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE perf_year_configs
			SET program_start = $1, program_end = $2, eligibility_source = $3,
				payment_model = $4, risk_adjusted = $5, is_active = $6,
				updated_at = $7, updated_by = $8
			WHERE pub_id = $9 AND payer_pub_id = $10`,
			config.ProgramStart, config.ProgramEnd, config.EligibilitySource,
			config.PaymentModel, config.RiskAdjusted, config.IsActive,
			now, config.UpdatedBy, config.PubID, config.PayerPubID,
		); err != nil {
			return fmt.Errorf("failed to update perf year config: %w", err)
		}

		var err error
		out, err = getPerfYearTx(ctx, tx, config.PayerPubID, config.PubID)
		return err
	})
	if err != nil {
		return domain.PerformanceYearConfig{}, err
	}
	return out, nil
}

// GetByPubID retrieves a performance-year configuration.
func (r *perfYearRepository) GetByPubID(ctx context.Context, payerPubID, pubID string) (domain.PerformanceYearConfig, error) {
	row := r.conn.Pool.QueryRow(ctx, `
		SELECT `+perfYearColumns+`
		FROM perf_year_configs WHERE pub_id = $1 AND payer_pub_id = $2`, pubID, payerPubID)
	config, err := scanPerfYear(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PerformanceYearConfig{}, fmt.Errorf("perf year config %s: %w", pubID, ErrNotFound)
	}
	return config, err
}

// ListByPayer retrieves all performance-year configurations for a payer.
func (r *perfYearRepository) ListByPayer(ctx context.Context, payerPubID string) ([]domain.PerformanceYearConfig, error) {
	rows, err := r.conn.Pool.Query(ctx, `
		SELECT `+perfYearColumns+`
		FROM perf_year_configs WHERE payer_pub_id = $1
		ORDER BY performance_year DESC`, payerPubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list perf year configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.PerformanceYearConfig
	for rows.Next() {
		config, err := scanPerfYear(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan perf year configs: %w", err)
	}
	return configs, nil
}

func getPerfYearTx(ctx context.Context, tx pgx.Tx, payerPubID, pubID string) (domain.PerformanceYearConfig, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+perfYearColumns+`
		FROM perf_year_configs WHERE pub_id = $1 AND payer_pub_id = $2`, pubID, payerPubID)
	config, err := scanPerfYear(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PerformanceYearConfig{}, fmt.Errorf("perf year config %s: %w", pubID, ErrNotFound)
	}
	return config, err
}

func scanPerfYear(row pgx.Row) (domain.PerformanceYearConfig, error) {
	var config domain.PerformanceYearConfig
	if err := row.Scan(
		&config.PubID, &config.PayerPubID, &config.PerformanceYear, &config.ProgramStart, &config.ProgramEnd,
		&config.EligibilitySource, &config.PaymentModel, &config.RiskAdjusted, &config.IsActive,
		&config.CreatedAt, &config.CreatedBy, &config.UpdatedAt, &config.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PerformanceYearConfig{}, err
		}
		return domain.PerformanceYearConfig{}, fmt.Errorf("failed to scan perf year config: %w", err)
	}
	return config, nil
}
