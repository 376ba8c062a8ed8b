package database

import (
	"context"

	"github.com/google/uuid"
)

// NextGreetingCounter atomically increments the per-tenant greeting counter
// and returns the pre-increment value. The single-statement upsert serializes
// concurrent callers in the database, so multiple server instances share the
// rotation without any in-process lock.
func (q *Queries) NextGreetingCounter(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var counter int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO greeting_counters (tenant_id, counter)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET counter = greeting_counters.counter + 1
		RETURNING counter - 1`, tenantID).
		Scan(&counter)
	return counter, err
}
