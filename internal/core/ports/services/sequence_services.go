package services

import "context"

// SequenceSvc issues per-company sequence numbers. Allocation retries
// internally on transient transaction conflicts and fails with
// apperrors.ErrSequenceConflict once the retry budget is exhausted; callers
// must not create the owning entity without a successfully allocated number.
type SequenceSvc interface {
	// Allocate returns the next value of the named counter for the company.
	// Values are unique and monotonically increasing per (company, counter).
	Allocate(ctx context.Context, companyID, counter string) (int64, error)

	// CounterValues reports the last allocated value of every known counter
	// for the company. Admin only; a counter that has never allocated
	// reports zero.
	CounterValues(ctx context.Context, companyID, userID string) (map[string]int64, error)
}
