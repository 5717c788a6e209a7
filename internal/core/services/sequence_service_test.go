package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/services"
)

// --- Mock SequenceRepository ---
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) AllocateNext(ctx context.Context, companyID, counter string) (int64, error) {
	args := m.Called(ctx, companyID, counter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) AllocateNextInTx(ctx context.Context, tx pgx.Tx, companyID, counter string) (int64, error) {
	args := m.Called(ctx, tx, companyID, counter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) CurrentValue(ctx context.Context, companyID, counter string) (int64, error) {
	args := m.Called(ctx, companyID, counter)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type SequenceServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockSequenceRepository
	mockAuthorizer *MockCompanyAuthorizer
	service        portssvc.SequenceSvc
}

func (suite *SequenceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSequenceRepository)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.service = services.NewSequenceService(suite.mockRepo, suite.mockAuthorizer)
}

func (suite *SequenceServiceTestSuite) TestAllocate_Success() {
	ctx := context.Background()
	companyID := uuid.NewString()

	suite.mockRepo.On("AllocateNext", ctx, companyID, portsrepo.CounterJobNumber).Return(int64(42), nil).Once()

	value, err := suite.service.Allocate(ctx, companyID, portsrepo.CounterJobNumber)

	suite.Require().NoError(err)
	suite.Equal(int64(42), value)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SequenceServiceTestSuite) TestAllocate_RetriesOnConflict() {
	ctx := context.Background()
	companyID := uuid.NewString()

	suite.mockRepo.On("AllocateNext", ctx, companyID, portsrepo.CounterInvoiceNumber).
		Return(int64(0), apperrors.ErrSequenceConflict).Twice()
	suite.mockRepo.On("AllocateNext", ctx, companyID, portsrepo.CounterInvoiceNumber).
		Return(int64(7), nil).Once()

	value, err := suite.service.Allocate(ctx, companyID, portsrepo.CounterInvoiceNumber)

	suite.Require().NoError(err)
	suite.Equal(int64(7), value)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SequenceServiceTestSuite) TestAllocate_ExhaustsRetryBudget() {
	ctx := context.Background()
	companyID := uuid.NewString()

	suite.mockRepo.On("AllocateNext", ctx, companyID, portsrepo.CounterQuoteNumber).
		Return(int64(0), apperrors.ErrSequenceConflict).Times(4)

	value, err := suite.service.Allocate(ctx, companyID, portsrepo.CounterQuoteNumber)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSequenceConflict)
	suite.Equal(int64(0), value)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SequenceServiceTestSuite) TestAllocate_NonConflictErrorNotRetried() {
	ctx := context.Background()
	companyID := uuid.NewString()

	suite.mockRepo.On("AllocateNext", ctx, companyID, portsrepo.CounterJobNumber).
		Return(int64(0), apperrors.ErrNotFound).Once()

	_, err := suite.service.Allocate(ctx, companyID, portsrepo.CounterJobNumber)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SequenceServiceTestSuite) TestCounterValues_AdminSeesAllCounters() {
	ctx := context.Background()
	companyID := uuid.NewString()
	adminID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockRepo.On("CurrentValue", ctx, companyID, portsrepo.CounterJobNumber).Return(int64(42), nil).Once()
	suite.mockRepo.On("CurrentValue", ctx, companyID, portsrepo.CounterQuoteNumber).Return(int64(3), nil).Once()
	suite.mockRepo.On("CurrentValue", ctx, companyID, portsrepo.CounterInvoiceNumber).Return(int64(17), nil).Once()
	suite.mockRepo.On("CurrentValue", ctx, companyID, portsrepo.CounterCertificateNumber).Return(int64(0), nil).Once()

	values, err := suite.service.CounterValues(ctx, companyID, adminID)

	suite.Require().NoError(err)
	suite.Equal(int64(42), values[portsrepo.CounterJobNumber])
	suite.Equal(int64(17), values[portsrepo.CounterInvoiceNumber])
	// An unused counter reports zero rather than being omitted.
	suite.Equal(int64(0), values[portsrepo.CounterCertificateNumber])
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SequenceServiceTestSuite) TestCounterValues_WorkerForbidden() {
	ctx := context.Background()
	companyID := uuid.NewString()
	workerID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, workerID, companyID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	values, err := suite.service.CounterValues(ctx, companyID, workerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(values)
	suite.mockRepo.AssertNotCalled(suite.T(), "CurrentValue", mock.Anything, mock.Anything, mock.Anything)
}

// fakeCounterRepo is a mutex-guarded in-memory counter used to race the
// allocator from many goroutines. Conflict handling has its own tests above;
// here every call succeeds so the uniqueness property is isolated.
type fakeCounterRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (f *fakeCounterRepo) AllocateNext(_ context.Context, companyID, counter string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counters == nil {
		f.counters = make(map[string]int64)
	}
	key := companyID + "/" + counter
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeCounterRepo) AllocateNextInTx(ctx context.Context, _ pgx.Tx, companyID, counter string) (int64, error) {
	return f.AllocateNext(ctx, companyID, counter)
}

func (f *fakeCounterRepo) CurrentValue(_ context.Context, companyID, counter string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[companyID+"/"+counter], nil
}

func TestAllocate_ConcurrentValuesAreUniqueAndDense(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	service := services.NewSequenceService(&fakeCounterRepo{}, nil)

	const workers = 64

	var wg sync.WaitGroup
	results := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := service.Allocate(ctx, companyID, portsrepo.CounterJobNumber)
			require.NoError(t, err)
			results <- value
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	for value := range results {
		require.False(t, seen[value], "value %d allocated twice", value)
		seen[value] = true
	}
	// No gaps: a failure-free run consumes exactly 1..workers.
	for v := int64(1); v <= workers; v++ {
		require.True(t, seen[v], "value %d missing from allocation range", v)
	}
}

func TestSequenceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SequenceServiceTestSuite))
}
