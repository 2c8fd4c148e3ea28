package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Execute runs the query under EXPLAIN against a live database and
// returns the raw JSON plan. The statement runs inside a transaction
// that is always rolled back, so ANALYZE on writes has no lasting
// effect.
func Execute(dbConn string, sql string) (string, error) {
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, dbConn)
	if err != nil {
		return "", fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := "EXPLAIN (ANALYZE, VERBOSE, BUFFERS, FORMAT JSON) " + sql

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("executing EXPLAIN: %w", err)
	}
	defer rows.Close()

	var out strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return "", fmt.Errorf("reading EXPLAIN output: %w", err)
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("reading EXPLAIN output: %w", err)
	}

	return out.String(), nil
}
