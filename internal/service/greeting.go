package service

import (
	"context"

	"github.com/google/uuid"
)

// GreetingStore provides the atomic per-tenant greeting counter.
type GreetingStore interface {
	NextGreetingCounter(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// GreetingService rotates through a tenant's greeting lines for confirmation
// emails. The counter lives in the database so rotation survives restarts and
// stays correct across multiple server instances.
type GreetingService struct {
	store GreetingStore
}

func NewGreetingService(store GreetingStore) *GreetingService {
	return &GreetingService{store: store}
}

// NextIndex returns the index of the greeting to use, cycling through n
// greetings in order. Returns 0 when n <= 0 so callers can fall back to a
// default greeting.
func (s *GreetingService) NextIndex(ctx context.Context, tenantID uuid.UUID, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	counter, err := s.store.NextGreetingCounter(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return int(counter % int64(n)), nil
}
