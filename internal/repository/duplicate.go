package repository

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
)

// uniquenessCheck names one business-uniqueness field for an aggregate: the
// column to check, the display name reported back in a DuplicateError, and
// the candidate value from the payload.
type uniquenessCheck struct {
	column  string
	display string
	value   any
}

// duplicateScope bounds a duplicate check to the target tenant. The payer
// scope is omitted for the payer table itself, where uniqueness is global.
// extraEquals narrows the check further where the business rule demands it
// (e.g. network entities are only unique within their entity type).
type duplicateScope struct {
	table        string
	payerPubID   string
	extraEquals  []sqlCondition
	excludePubID string
}

type sqlCondition struct {
	column string
	value  any
}

// buildDuplicateQuery renders the tenant-scoped collision query: one SELECT
// over all uniqueness columns, restricted to active rows of the same scope,
// matching any of the candidate values.
func buildDuplicateQuery(scope duplicateScope, checks []uniquenessCheck) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()

	columns := make([]string, len(checks))
	for i, check := range checks {
		columns[i] = check.column
	}
	sb.Select(columns...).From(scope.table)

	conds := []string{sb.Equal("is_active", true)}
	if scope.payerPubID != "" {
		conds = append(conds, sb.Equal("payer_pub_id", scope.payerPubID))
	}
	for _, extra := range scope.extraEquals {
		conds = append(conds, sb.Equal(extra.column, extra.value))
	}
	if scope.excludePubID != "" {
		conds = append(conds, sb.NotEqual("pub_id", scope.excludePubID))
	}

	matches := make([]string, len(checks))
	for i, check := range checks {
		matches[i] = sb.Equal(check.column, check.value)
	}
	conds = append(conds, sb.Or(matches...))

	sb.Where(conds...)
	return sb.Build()
}

// collidingFields returns the display name of every check whose value appears
// in at least one returned row. Row values arrive in check order, matching
// the SELECT column list. All colliding fields are reported, not just the
// first.
func collidingFields(rows [][]any, checks []uniquenessCheck) []string {
	var collisions []string
	for i, check := range checks {
		for _, row := range rows {
			if i >= len(row) {
				continue
			}
			if fmt.Sprint(row[i]) == fmt.Sprint(check.value) {
				collisions = append(collisions, check.display)
				break
			}
		}
	}
	return collisions
}

// findCollisions runs the duplicate check inside the caller's transaction and
// returns the display names of every colliding uniqueness field.
func findCollisions(ctx context.Context, tx pgx.Tx, scope duplicateScope, checks []uniquenessCheck) ([]string, error) {
	query, args := buildDuplicateQuery(scope, checks)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run duplicate check on %s: %w", scope.table, err)
	}
	defer rows.Close()

	var values [][]any
	for rows.Next() {
		rowValues, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read duplicate check row: %w", err)
		}
		values = append(values, rowValues)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan duplicate check rows: %w", err)
	}

	return collidingFields(values, checks), nil
}
