package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// The upsert allocates in a single statement: a fresh counter starts at 1 and
// leaves next_value at 2, an existing counter is bumped under its row lock.
// Either way the allocated value is next_value - 1 after the write.
const allocateCounterQuery = `
	INSERT INTO sequence_counters (company_id, name, next_value)
	VALUES ($1, $2, 2)
	ON CONFLICT (company_id, name) DO UPDATE SET
		next_value = sequence_counters.next_value + 1
	RETURNING sequence_counters.next_value - 1;
`

func (r *PgxSequenceRepository) AllocateNext(ctx context.Context, companyID, counter string) (int64, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to begin allocation transaction", err)
	}
	defer tx.Rollback(ctx)

	value, err := r.AllocateNextInTx(ctx, tx, companyID, counter)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return 0, fmt.Errorf("allocation of %s for company %s lost a concurrent race: %w", counter, companyID, apperrors.ErrSequenceConflict)
		}
		return 0, apperrors.NewAppError(500, "failed to commit allocation transaction", err)
	}
	return value, nil
}

func (r *PgxSequenceRepository) AllocateNextInTx(ctx context.Context, tx pgx.Tx, companyID, counter string) (int64, error) {
	var value int64
	err := tx.QueryRow(ctx, allocateCounterQuery, companyID, counter).Scan(&value)
	if err != nil {
		if isSerializationFailure(err) {
			return 0, fmt.Errorf("allocation of %s for company %s lost a concurrent race: %w", counter, companyID, apperrors.ErrSequenceConflict)
		}
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("company %s does not exist: %w", companyID, apperrors.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to allocate %s for company %s: %w", counter, companyID, err)
	}
	return value, nil
}

func (r *PgxSequenceRepository) CurrentValue(ctx context.Context, companyID, counter string) (int64, error) {
	query := `
		SELECT next_value - 1
		FROM sequence_counters
		WHERE company_id = $1 AND name = $2;
	`
	var value int64
	err := r.Pool.QueryRow(ctx, query, companyID, counter).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil // counter never used
		}
		return 0, fmt.Errorf("failed to read %s for company %s: %w", counter, companyID, err)
	}
	return value, nil
}
