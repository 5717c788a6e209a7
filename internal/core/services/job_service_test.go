package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// --- Mock JobRepository ---
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) ListJobs(ctx context.Context, companyID string, statuses []domain.JobStatus, limit, offset int) ([]domain.Job, error) {
	args := m.Called(ctx, companyID, statuses, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepository) ListJobsAssignedTo(ctx context.Context, companyID, userID string, limit, offset int) ([]domain.Job, error) {
	args := m.Called(ctx, companyID, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}

func (m *MockJobRepository) ListJobActivities(ctx context.Context, jobID string) ([]domain.JobActivity, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobActivity), args.Error(1)
}

func (m *MockJobRepository) CreateJob(ctx context.Context, job domain.Job, referencePrefix string, activity domain.JobActivity) (*domain.Job, error) {
	args := m.Called(ctx, job, referencePrefix, activity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) ApplyStatusTransition(ctx context.Context, jobID string, from, to domain.JobStatus, update portsrepo.JobStatusUpdate, activity domain.JobActivity) error {
	args := m.Called(ctx, jobID, from, to, update, activity)
	return args.Error(0)
}

func (m *MockJobRepository) UpdateAssignment(ctx context.Context, jobID string, assignedTo []string, updatedBy string, activity domain.JobActivity) error {
	args := m.Called(ctx, jobID, assignedTo, updatedBy, activity)
	return args.Error(0)
}

func (m *MockJobRepository) AddArtifacts(ctx context.Context, jobID string, update portsrepo.JobStatusUpdate, updatedBy string, activity domain.JobActivity) error {
	args := m.Called(ctx, jobID, update, updatedBy, activity)
	return args.Error(0)
}

func (m *MockJobRepository) AppendActivity(ctx context.Context, activity domain.JobActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

// --- Mock CustomerReader ---
type MockCustomerReader struct {
	mock.Mock
}

func (m *MockCustomerReader) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerReader) ListCustomers(ctx context.Context, companyID string, limit, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

// --- Mock CompanyReader ---
type MockCompanyReader struct {
	mock.Mock
}

func (m *MockCompanyReader) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyReader) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyReader) GetMemberRole(ctx context.Context, companyID, userID string) (domain.CompanyRole, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Get(0).(domain.CompanyRole), args.Error(1)
}

func (m *MockCompanyReader) ListMembers(ctx context.Context, companyID string) ([]domain.CompanyMember, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompanyMember), args.Error(1)
}

// --- Mock CompanyAuthorizer ---
type MockCompanyAuthorizer struct {
	mock.Mock
}

func (m *MockCompanyAuthorizer) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.CompanyRole) error {
	args := m.Called(ctx, userID, companyID, requiredRole)
	return args.Error(0)
}

func (m *MockCompanyAuthorizer) ResolveActor(ctx context.Context, userID, companyID string) (domain.Actor, error) {
	args := m.Called(ctx, userID, companyID)
	return args.Get(0).(domain.Actor), args.Error(1)
}

// --- Fake Notifier ---
// Counts pokes instead of asserting call order; notification is fire and
// forget from the service's point of view.
type fakeNotifier struct {
	companyNotified int
	jobNotified     int
}

func (f *fakeNotifier) SubscribeCompany(companyID string, fn func()) portssvc.Unsubscribe {
	return func() {}
}

func (f *fakeNotifier) SubscribeJob(jobID string, fn func()) portssvc.Unsubscribe {
	return func() {}
}

func (f *fakeNotifier) NotifyCompany(companyID string) { f.companyNotified++ }

func (f *fakeNotifier) NotifyJob(companyID, jobID string) { f.jobNotified++ }

// --- Test Suite ---
type JobServiceTestSuite struct {
	suite.Suite
	mockJobRepo      *MockJobRepository
	mockCustomerRepo *MockCustomerReader
	mockCompanyRepo  *MockCompanyReader
	mockAuthorizer   *MockCompanyAuthorizer
	notifier         *fakeNotifier
	service          portssvc.JobSvcFacade

	companyID string
	adminID   string
	workerID  string
}

func (suite *JobServiceTestSuite) SetupTest() {
	suite.mockJobRepo = new(MockJobRepository)
	suite.mockCustomerRepo = new(MockCustomerReader)
	suite.mockCompanyRepo = new(MockCompanyReader)
	suite.mockAuthorizer = new(MockCompanyAuthorizer)
	suite.notifier = &fakeNotifier{}
	suite.service = services.NewJobService(
		suite.mockJobRepo,
		suite.mockCustomerRepo,
		suite.mockCompanyRepo,
		suite.mockAuthorizer,
		suite.notifier,
	)
	suite.companyID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.workerID = uuid.NewString()
}

func (suite *JobServiceTestSuite) job(status domain.JobStatus, signature string) *domain.Job {
	return &domain.Job{
		JobID:      uuid.NewString(),
		CompanyID:  suite.companyID,
		Reference:  "TF-2025-0042",
		Status:     status,
		AssignedTo: []string{suite.workerID},
		Signature:  signature,
		AuditFields: domain.AuditFields{
			CreatedAt: time.Now(),
		},
	}
}

func (suite *JobServiceTestSuite) TestCreateJob_Success() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := dto.CreateJobRequest{
		CustomerID:  customerID,
		Description: "Annual boiler service",
	}
	customer := &domain.Customer{
		CustomerID: customerID,
		CompanyID:  suite.companyID,
		Name:       "Jane Holloway",
	}
	company := &domain.Company{
		CompanyID:       suite.companyID,
		ReferencePrefix: "TF",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(customer, nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Once()
	suite.mockJobRepo.On("CreateJob", ctx, mock.MatchedBy(func(j domain.Job) bool {
		return j.CompanyID == suite.companyID &&
			j.Status == domain.JobPending &&
			j.CustomerSnapshot.Name == customer.Name &&
			j.CreatedBy == suite.adminID
	}), "TF", mock.MatchedBy(func(a domain.JobActivity) bool {
		return a.Action == domain.ActionJobCreated && a.ActorID == suite.adminID
	})).Return(suite.job(domain.JobPending, ""), nil).Once()

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Require().NotNil(job)
	suite.Equal(domain.JobPending, job.Status)
	suite.Equal(1, suite.notifier.companyNotified)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *JobServiceTestSuite) TestCreateJob_NonAdminForbidden() {
	ctx := context.Background()
	req := dto.CreateJobRequest{CustomerID: uuid.NewString()}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.workerID, suite.companyID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.workerID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "CreateJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobServiceTestSuite) TestCreateJob_CustomerFromAnotherCompany() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := dto.CreateJobRequest{CustomerID: customerID}
	foreignCustomer := &domain.Customer{
		CustomerID: customerID,
		CompanyID:  uuid.NewString(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, suite.companyID, domain.RoleAdmin).Return(nil).Once()
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).Return(foreignCustomer, nil).Once()

	job, err := suite.service.CreateJob(ctx, suite.companyID, req, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JobServiceTestSuite) TestTransition_WorkerStartsAssignedJob() {
	ctx := context.Background()
	pending := suite.job(domain.JobPending, "")
	started := *pending
	started.Status = domain.JobInProgress

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.workerID, suite.companyID).
		Return(domain.Actor{UserID: suite.workerID, Role: domain.RoleWorker}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(pending, nil).Once()
	suite.mockJobRepo.On("ApplyStatusTransition", ctx, pending.JobID, domain.JobPending, domain.JobInProgress,
		mock.AnythingOfType("repositories.JobStatusUpdate"),
		mock.MatchedBy(func(a domain.JobActivity) bool {
			return a.Action == domain.ActionStatusChange &&
				a.Details["from"] == "pending" && a.Details["to"] == "in_progress"
		})).Return(nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(&started, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, pending.JobID, domain.JobInProgress, dto.TransitionRequest{}, suite.workerID)

	suite.Require().NoError(err)
	suite.Equal(domain.JobInProgress, job.Status)
	suite.Equal(1, suite.notifier.jobNotified)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *JobServiceTestSuite) TestTransition_UnassignedWorkerForbidden() {
	ctx := context.Background()
	otherWorkerID := uuid.NewString()
	pending := suite.job(domain.JobPending, "")

	suite.mockAuthorizer.On("ResolveActor", ctx, otherWorkerID, suite.companyID).
		Return(domain.Actor{UserID: otherWorkerID, Role: domain.RoleWorker}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(pending, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, pending.JobID, domain.JobInProgress, dto.TransitionRequest{}, otherWorkerID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJobRepo.AssertNotCalled(suite.T(), "ApplyStatusTransition",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobServiceTestSuite) TestTransition_CompleteRequiresSignature() {
	ctx := context.Background()
	inProgress := suite.job(domain.JobInProgress, "")

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.adminID, suite.companyID).
		Return(domain.Actor{UserID: suite.adminID, Role: domain.RoleAdmin}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, inProgress.JobID).Return(inProgress, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, inProgress.JobID, domain.JobComplete, dto.TransitionRequest{}, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JobServiceTestSuite) TestTransition_CompleteWithSignatureInRequest() {
	ctx := context.Background()
	inProgress := suite.job(domain.JobInProgress, "")
	completed := *inProgress
	completed.Status = domain.JobComplete
	completed.Signature = "sig/job-42.png"

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.workerID, suite.companyID).
		Return(domain.Actor{UserID: suite.workerID, Role: domain.RoleWorker}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, inProgress.JobID).Return(inProgress, nil).Once()
	suite.mockJobRepo.On("ApplyStatusTransition", ctx, inProgress.JobID, domain.JobInProgress, domain.JobComplete,
		mock.MatchedBy(func(u portsrepo.JobStatusUpdate) bool {
			return u.Signature != nil && *u.Signature == "sig/job-42.png"
		}), mock.AnythingOfType("domain.JobActivity")).Return(nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, inProgress.JobID).Return(&completed, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, inProgress.JobID, domain.JobComplete,
		dto.TransitionRequest{Signature: "sig/job-42.png"}, suite.workerID)

	suite.Require().NoError(err)
	suite.Equal(domain.JobComplete, job.Status)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *JobServiceTestSuite) TestTransition_WorkerCannotMarkPaid() {
	ctx := context.Background()
	complete := suite.job(domain.JobComplete, "sig/job-42.png")

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.workerID, suite.companyID).
		Return(domain.Actor{UserID: suite.workerID, Role: domain.RoleWorker}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, complete.JobID).Return(complete, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, complete.JobID, domain.JobPaid, dto.TransitionRequest{}, suite.workerID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *JobServiceTestSuite) TestTransition_SkippingStatusRejected() {
	ctx := context.Background()
	pending := suite.job(domain.JobPending, "")

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.adminID, suite.companyID).
		Return(domain.Actor{UserID: suite.adminID, Role: domain.RoleAdmin}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(pending, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, pending.JobID, domain.JobComplete, dto.TransitionRequest{}, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *JobServiceTestSuite) TestTransition_LostRaceSurfacesInvalidTransition() {
	ctx := context.Background()
	pending := suite.job(domain.JobPending, "")

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.adminID, suite.companyID).
		Return(domain.Actor{UserID: suite.adminID, Role: domain.RoleAdmin}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(pending, nil).Once()
	suite.mockJobRepo.On("ApplyStatusTransition", ctx, pending.JobID, domain.JobPending, domain.JobInProgress,
		mock.AnythingOfType("repositories.JobStatusUpdate"), mock.AnythingOfType("domain.JobActivity")).
		Return(apperrors.ErrInvalidTransition).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, pending.JobID, domain.JobInProgress, dto.TransitionRequest{}, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *JobServiceTestSuite) TestTransition_CancelFromTerminalRejected() {
	ctx := context.Background()
	paid := suite.job(domain.JobPaid, "sig/job-42.png")

	suite.mockAuthorizer.On("ResolveActor", ctx, suite.adminID, suite.companyID).
		Return(domain.Actor{UserID: suite.adminID, Role: domain.RoleAdmin}, nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, paid.JobID).Return(paid, nil).Once()

	job, err := suite.service.Transition(ctx, suite.companyID, paid.JobID, domain.JobCancelled, dto.TransitionRequest{}, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *JobServiceTestSuite) TestAdvance_WalksForwardOrder() {
	ctx := context.Background()
	pending := suite.job(domain.JobPending, "")
	started := *pending
	started.Status = domain.JobInProgress

	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(pending, nil).Twice()
	suite.mockAuthorizer.On("ResolveActor", ctx, suite.workerID, suite.companyID).
		Return(domain.Actor{UserID: suite.workerID, Role: domain.RoleWorker}, nil).Once()
	suite.mockJobRepo.On("ApplyStatusTransition", ctx, pending.JobID, domain.JobPending, domain.JobInProgress,
		mock.AnythingOfType("repositories.JobStatusUpdate"), mock.AnythingOfType("domain.JobActivity")).
		Return(nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, pending.JobID).Return(&started, nil).Once()

	job, err := suite.service.Advance(ctx, suite.companyID, pending.JobID, dto.TransitionRequest{}, suite.workerID)

	suite.Require().NoError(err)
	suite.Equal(domain.JobInProgress, job.Status)
	suite.mockJobRepo.AssertExpectations(suite.T())
}

func (suite *JobServiceTestSuite) TestAdvance_FromTerminalRejected() {
	ctx := context.Background()
	paid := suite.job(domain.JobPaid, "sig/job-42.png")

	suite.mockJobRepo.On("FindJobByID", ctx, paid.JobID).Return(paid, nil).Once()

	job, err := suite.service.Advance(ctx, suite.companyID, paid.JobID, dto.TransitionRequest{}, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(job)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *JobServiceTestSuite) TestGetJob_OtherCompanyHidden() {
	ctx := context.Background()
	otherCompanyID := uuid.NewString()
	job := suite.job(domain.JobPending, "")

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.adminID, otherCompanyID, domain.RoleWorker).Return(nil).Once()
	suite.mockJobRepo.On("FindJobByID", ctx, job.JobID).Return(job, nil).Once()

	found, err := suite.service.GetJob(ctx, otherCompanyID, job.JobID, suite.adminID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestJobServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JobServiceTestSuite))
}
