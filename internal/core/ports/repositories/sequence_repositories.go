package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Counter names managed by the sequence allocator. Each is an independent
// monotonic series per company.
const (
	CounterJobNumber         = "job_number"
	CounterQuoteNumber       = "quote_number"
	CounterInvoiceNumber     = "invoice_number"
	CounterCertificateNumber = "certificate_number"
)

// SequenceRepository is the only mutation path for per-company sequence
// counters. No other code may read-then-write a counter.
type SequenceRepository interface {
	// AllocateNext atomically increments the named counter for the company
	// and returns the allocated value. Two concurrent calls for the same
	// (company, counter) never return the same value; the underlying store
	// serializes them and a losing transaction surfaces a conflict error
	// for the caller to retry.
	AllocateNext(ctx context.Context, companyID, counter string) (int64, error)

	// AllocateNextInTx performs the same allocation inside an existing
	// transaction, so the entity that owns the number can be inserted in the
	// same atomic unit. If the transaction rolls back, the increment rolls
	// back with it.
	AllocateNextInTx(ctx context.Context, tx pgx.Tx, companyID, counter string) (int64, error)

	// CurrentValue reads the counter without allocating. Returns 0 when the
	// counter has never been used.
	CurrentValue(ctx context.Context, companyID, counter string) (int64, error)
}
