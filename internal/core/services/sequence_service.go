package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
)

// allocationRetries bounds how many times a lost allocation race is retried
// before ErrSequenceConflict is reported to the caller.
const allocationRetries = 3

// sequenceService implements the SequenceSvc interface
type sequenceService struct {
	BaseService
	sequenceRepo portsrepo.SequenceRepository
}

// NewSequenceService creates a new sequence service with the provided dependencies
func NewSequenceService(sequenceRepo portsrepo.SequenceRepository, authorizer portssvc.CompanyAuthorizerSvc) portssvc.SequenceSvc {
	return &sequenceService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		sequenceRepo: sequenceRepo,
	}
}

// Ensure sequenceService implements the SequenceSvc interface
var _ portssvc.SequenceSvc = (*sequenceService)(nil)

// Allocate returns the next value of the named counter for the company,
// retrying transient transaction conflicts with a short backoff.
func (s *sequenceService) Allocate(ctx context.Context, companyID, counter string) (int64, error) {
	var lastErr error
	for attempt := 0; attempt <= allocationRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
			}
		}

		value, err := s.sequenceRepo.AllocateNext(ctx, companyID, counter)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, apperrors.ErrSequenceConflict) {
			return 0, err
		}
		lastErr = err
		s.LogDebug(ctx, "Sequence allocation lost a race, retrying",
			slog.String("company_id", companyID),
			slog.String("counter", counter),
			slog.Int("attempt", attempt+1))
	}

	s.LogError(ctx, lastErr, "Sequence allocation exhausted its retry budget",
		slog.String("company_id", companyID),
		slog.String("counter", counter))
	return 0, lastErr
}

// knownCounters lists every counter the core allocates from.
var knownCounters = []string{
	portsrepo.CounterJobNumber,
	portsrepo.CounterQuoteNumber,
	portsrepo.CounterInvoiceNumber,
	portsrepo.CounterCertificateNumber,
}

// CounterValues reports the last allocated value of every known counter for
// the company. A counter that has never allocated reports zero.
func (s *sequenceService) CounterValues(ctx context.Context, companyID, userID string) (map[string]int64, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	values := make(map[string]int64, len(knownCounters))
	for _, counter := range knownCounters {
		value, err := s.sequenceRepo.CurrentValue(ctx, companyID, counter)
		if err != nil {
			return nil, err
		}
		values[counter] = value
	}
	return values, nil
}
