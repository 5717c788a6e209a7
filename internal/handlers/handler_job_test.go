package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
	"github.com/tradeflowhq/tradeflow_backend/internal/handlers"
	"github.com/tradeflowhq/tradeflow_backend/internal/middleware"
)

// --- Mock JobService ---
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) GetJob(ctx context.Context, companyID, jobID, requestingUserID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, jobID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) ListJobs(ctx context.Context, companyID string, params dto.ListJobsParams, requestingUserID string) ([]domain.Job, error) {
	args := m.Called(ctx, companyID, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Job), args.Error(1)
}
func (m *MockJobService) ListJobActivities(ctx context.Context, companyID, jobID, requestingUserID string) ([]domain.JobActivity, error) {
	args := m.Called(ctx, companyID, jobID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobActivity), args.Error(1)
}
func (m *MockJobService) CreateJob(ctx context.Context, companyID string, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) AssignWorkers(ctx context.Context, companyID, jobID string, workerIDs []string, requestingUserID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, jobID, workerIDs, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) AttachArtifacts(ctx context.Context, companyID, jobID string, req dto.JobArtifactsRequest, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, jobID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) Transition(ctx context.Context, companyID, jobID string, target domain.JobStatus, req dto.TransitionRequest, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, jobID, target, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobService) Advance(ctx context.Context, companyID, jobID string, req dto.TransitionRequest, actorUserID string) (*domain.Job, error) {
	args := m.Called(ctx, companyID, jobID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JobSvcFacade = (*MockJobService)(nil)

// --- Test Suite ---
type JobHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockJobService *MockJobService
	jwtSecret      string
	companyID      string
	userID         string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *JobHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "tradeflow-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *JobHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockJobService = new(MockJobService)

	v1 := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterJobRoutes(v1, suite.mockJobService)
}

func (suite *JobHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *JobHandlerTestSuite) sampleJob(status domain.JobStatus) *domain.Job {
	return &domain.Job{
		JobID:     uuid.NewString(),
		CompanyID: suite.companyID,
		Reference: "TF-2025-0042",
		Status:    status,
		CustomerSnapshot: domain.CustomerSnapshot{
			CustomerID: uuid.NewString(),
			Name:       "Jane Tenant",
			Postcode:   "M1 2AB",
		},
		AssignedTo: []string{suite.userID},
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now().Add(-time.Hour),
			LastUpdatedAt: time.Now(),
		},
	}
}

// --- Test Cases ---

func (suite *JobHandlerTestSuite) TestCreateJob_Success() {
	customerID := uuid.NewString()
	expected := suite.sampleJob(domain.JobPending)

	suite.mockJobService.On("CreateJob",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(req dto.CreateJobRequest) bool {
			return req.CustomerID == customerID
		}),
		suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs", suite.companyID)
	w := suite.doRequest(http.MethodPost, url, dto.CreateJobRequest{CustomerID: customerID})

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(expected.JobID, body.JobID)
	suite.Equal("TF-2025-0042", body.Reference)
	suite.Equal(domain.JobPending, body.Status)

	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestCreateJob_MissingCustomerRejected() {
	url := fmt.Sprintf("/api/v1/companies/%s/jobs", suite.companyID)
	w := suite.doRequest(http.MethodPost, url, dto.CreateJobRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "CreateJob")
}

func (suite *JobHandlerTestSuite) TestCreateJob_ForbiddenForWorker() {
	suite.mockJobService.On("CreateJob", mock.Anything, suite.companyID, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrForbidden).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs", suite.companyID)
	w := suite.doRequest(http.MethodPost, url, dto.CreateJobRequest{CustomerID: uuid.NewString()})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *JobHandlerTestSuite) TestGetJob_NotFound() {
	jobID := uuid.NewString()
	suite.mockJobService.On("GetJob", mock.Anything, suite.companyID, jobID, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs/%s", suite.companyID, jobID)
	w := suite.doRequest(http.MethodGet, url, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JobHandlerTestSuite) TestGetJob_RequiresToken() {
	url := fmt.Sprintf("/api/v1/companies/%s/jobs/%s", suite.companyID, uuid.NewString())
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJobService.AssertNotCalled(suite.T(), "GetJob")
}

func (suite *JobHandlerTestSuite) TestTransition_Success() {
	jobID := uuid.NewString()
	expected := suite.sampleJob(domain.JobInProgress)
	expected.JobID = jobID

	suite.mockJobService.On("Transition",
		mock.Anything,
		suite.companyID,
		jobID,
		domain.JobInProgress,
		mock.AnythingOfType("dto.TransitionRequest"),
		suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs/%s/transition", suite.companyID, jobID)
	w := suite.doRequest(http.MethodPost, url, gin.H{"status": "in_progress"})

	suite.Equal(http.StatusOK, w.Code)

	var body dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.JobInProgress, body.Status)

	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestTransition_IllegalEdgeConflicts() {
	jobID := uuid.NewString()
	suite.mockJobService.On("Transition",
		mock.Anything, suite.companyID, jobID, domain.JobPaid, mock.Anything, suite.userID,
	).Return(nil, fmt.Errorf("job is pending, expected complete: %w", apperrors.ErrInvalidTransition)).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs/%s/transition", suite.companyID, jobID)
	w := suite.doRequest(http.MethodPost, url, gin.H{"status": "paid"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JobHandlerTestSuite) TestTransition_MissingSignatureIsBadRequest() {
	jobID := uuid.NewString()
	suite.mockJobService.On("Transition",
		mock.Anything, suite.companyID, jobID, domain.JobComplete, mock.Anything, suite.userID,
	).Return(nil, fmt.Errorf("completing a job requires a signature: %w", apperrors.ErrValidation)).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs/%s/transition", suite.companyID, jobID)
	w := suite.doRequest(http.MethodPost, url, gin.H{"status": "complete"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JobHandlerTestSuite) TestAdvance_Success() {
	jobID := uuid.NewString()
	expected := suite.sampleJob(domain.JobInProgress)
	expected.JobID = jobID

	suite.mockJobService.On("Advance",
		mock.Anything, suite.companyID, jobID, mock.AnythingOfType("dto.TransitionRequest"), suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs/%s/advance", suite.companyID, jobID)
	w := suite.doRequest(http.MethodPost, url, gin.H{})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockJobService.AssertExpectations(suite.T())
}

func (suite *JobHandlerTestSuite) TestListJobs_PassesFilters() {
	expected := []domain.Job{*suite.sampleJob(domain.JobPending)}

	suite.mockJobService.On("ListJobs",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(p dto.ListJobsParams) bool {
			return len(p.Statuses) == 1 && p.Statuses[0] == "pending" && p.Limit == 5
		}),
		suite.userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/jobs?status=pending&limit=5", suite.companyID)
	w := suite.doRequest(http.MethodGet, url, nil)

	suite.Equal(http.StatusOK, w.Code)

	var body []dto.JobResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body, 1)

	suite.mockJobService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestJobHandler(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}
