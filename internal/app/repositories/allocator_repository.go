package repositories

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/pkg/memberno"
)

// allocateSQL bumps the per-year counter in one statement. Every allocation
// also considers the highest conforming number already stored, so historical
// and hand-entered numbers are never reissued.
const allocateSQL = `
INSERT INTO membership_counters (year, last_seq)
VALUES ($1, (
	SELECT COALESCE(MAX(CAST(substring(n.membership_number FROM 11) AS BIGINT)), 0)
	FROM (
		SELECT membership_number FROM membership_applications WHERE membership_number IS NOT NULL
		UNION ALL
		SELECT membership_number FROM members WHERE membership_number IS NOT NULL
	) n
	WHERE n.membership_number ~ $2
) + 1)
ON CONFLICT (year) DO UPDATE SET last_seq = GREATEST(membership_counters.last_seq + 1, EXCLUDED.last_seq)
RETURNING last_seq`

// PostgresNumberAllocator allocates membership numbers from the membership_counters table
type PostgresNumberAllocator struct {
	db *pgxpool.Pool
}

// NewNumberAllocator creates a Postgres-backed allocator
func NewNumberAllocator(db *pgxpool.Pool) *PostgresNumberAllocator {
	return &PostgresNumberAllocator{db: db}
}

// conformingPattern matches SESI-<year>-<4+ digits>
func conformingPattern(year int) string {
	return "^" + regexp.QuoteMeta(memberno.YearPrefix(year)) + "[0-9]{4,}$"
}

// Allocate returns the next membership number for year
func (a *PostgresNumberAllocator) Allocate(ctx context.Context, year int) (string, error) {
	var seq int64
	if err := a.db.QueryRow(ctx, allocateSQL, year, conformingPattern(year)).Scan(&seq); err != nil {
		return "", fmt.Errorf("error allocating membership number: %w", err)
	}
	return memberno.Format(year, int(seq)), nil
}
