package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// jobService implements the JobSvcFacade interface
type jobService struct {
	BaseService
	jobRepo      portsrepo.JobRepositoryFacade
	customerRepo portsrepo.CustomerReader
	companyRepo  portsrepo.CompanyReader
	notifier     portssvc.NotifierSvc
}

// NewJobService creates a new job service with the provided dependencies
func NewJobService(
	jobRepo portsrepo.JobRepositoryFacade,
	customerRepo portsrepo.CustomerReader,
	companyRepo portsrepo.CompanyReader,
	authorizer portssvc.CompanyAuthorizerSvc,
	notifier portssvc.NotifierSvc,
) portssvc.JobSvcFacade {
	return &jobService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		jobRepo:      jobRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		notifier:     notifier,
	}
}

// Ensure jobService implements the JobSvcFacade interface
var _ portssvc.JobSvcFacade = (*jobService)(nil)

// GetJob retrieves a job, visible only to members of the owning company.
func (s *jobService) GetJob(ctx context.Context, companyID, jobID, requestingUserID string) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	return s.findCompanyJob(ctx, companyID, jobID)
}

// ListJobs retrieves a company's jobs with optional status and assignee filters.
func (s *jobService) ListJobs(ctx context.Context, companyID string, params dto.ListJobsParams, requestingUserID string) ([]domain.Job, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}

	if params.AssignedTo != "" {
		jobs, err := s.jobRepo.ListJobsAssignedTo(ctx, companyID, params.AssignedTo, params.Limit, params.Offset)
		if err != nil {
			s.LogError(ctx, err, "Failed to list assigned jobs",
				slog.String("company_id", companyID),
				slog.String("assigned_to", params.AssignedTo))
			return nil, err
		}
		return jobs, nil
	}

	statuses := make([]domain.JobStatus, 0, len(params.Statuses))
	for _, raw := range params.Statuses {
		status := domain.JobStatus(raw)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, raw)
		}
		statuses = append(statuses, status)
	}

	jobs, err := s.jobRepo.ListJobs(ctx, companyID, statuses, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list jobs", slog.String("company_id", companyID))
		return nil, err
	}
	if jobs == nil {
		return []domain.Job{}, nil
	}
	return jobs, nil
}

// ListJobActivities retrieves a job's audit trail, oldest first.
func (s *jobService) ListJobActivities(ctx context.Context, companyID, jobID, requestingUserID string) ([]domain.JobActivity, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	if _, err := s.findCompanyJob(ctx, companyID, jobID); err != nil {
		return nil, err
	}
	activities, err := s.jobRepo.ListJobActivities(ctx, jobID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list job activities", slog.String("job_id", jobID))
		return nil, err
	}
	if activities == nil {
		return []domain.JobActivity{}, nil
	}
	return activities, nil
}

// CreateJob mints the job's reference from the company's sequence and
// persists it with a value copy of the customer. Admin only.
func (s *jobService) CreateJob(ctx context.Context, companyID string, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	for _, workerID := range req.AssignedTo {
		if err := s.AuthorizeUser(ctx, workerID, companyID, domain.RoleWorker); err != nil {
			return nil, fmt.Errorf("%w: user %s is not a member of the company", apperrors.ErrValidation, workerID)
		}
	}

	now := time.Now()
	job := domain.Job{
		JobID:            uuid.NewString(),
		CompanyID:        companyID,
		Status:           domain.JobPending,
		CustomerSnapshot: customer.Snapshot(),
		Description:      req.Description,
		ScheduledAt:      req.ScheduledAt,
		ScheduledEnd:     req.ScheduledEnd,
		AssignedTo:       req.AssignedTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	activity := domain.JobActivity{
		ActivityID: uuid.NewString(),
		ActorID:    creatorUserID,
		Action:     domain.ActionJobCreated,
		CreatedAt:  now,
	}

	// Creation embeds a number allocation, so a lost race is retried whole.
	var created *domain.Job
	for attempt := 0; attempt <= allocationRetries; attempt++ {
		created, err = s.jobRepo.CreateJob(ctx, job, company.ReferencePrefix, activity)
		if err == nil || !errors.Is(err, apperrors.ErrSequenceConflict) {
			break
		}
		s.LogDebug(ctx, "Job creation lost an allocation race, retrying",
			slog.String("company_id", companyID),
			slog.Int("attempt", attempt+1))
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to create job", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Job created",
		slog.String("job_id", created.JobID),
		slog.String("reference", created.Reference),
		slog.String("company_id", companyID))
	s.notifier.NotifyCompany(companyID)
	return created, nil
}

// AssignWorkers replaces the job's assigned worker set. Admin only.
func (s *jobService) AssignWorkers(ctx context.Context, companyID, jobID string, workerIDs []string, requestingUserID string) (*domain.Job, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.findCompanyJob(ctx, companyID, jobID); err != nil {
		return nil, err
	}
	for _, workerID := range workerIDs {
		if err := s.AuthorizeUser(ctx, workerID, companyID, domain.RoleWorker); err != nil {
			return nil, fmt.Errorf("%w: user %s is not a member of the company", apperrors.ErrValidation, workerID)
		}
	}

	now := time.Now()
	activity := domain.JobActivity{
		ActivityID: uuid.NewString(),
		JobID:      jobID,
		CompanyID:  companyID,
		ActorID:    requestingUserID,
		Action:     domain.ActionWorkerAssigned,
		Details:    map[string]string{"count": fmt.Sprintf("%d", len(workerIDs))},
		CreatedAt:  now,
	}
	if err := s.jobRepo.UpdateAssignment(ctx, jobID, workerIDs, requestingUserID, activity); err != nil {
		s.LogError(ctx, err, "Failed to assign workers", slog.String("job_id", jobID))
		return nil, err
	}

	s.notifier.NotifyJob(companyID, jobID)
	return s.findCompanyJob(ctx, companyID, jobID)
}

// AttachArtifacts adds completion artifacts outside of a status change.
func (s *jobService) AttachArtifacts(ctx context.Context, companyID, jobID string, req dto.JobArtifactsRequest, actorUserID string) (*domain.Job, error) {
	actor, err := s.resolveActor(ctx, actorUserID, companyID)
	if err != nil {
		return nil, err
	}
	job, err := s.findCompanyJob(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !job.IsAssignedTo(actor.UserID) {
		return nil, fmt.Errorf("%w: only an admin or an assigned worker may attach artifacts", apperrors.ErrForbidden)
	}

	now := time.Now()
	update := portsrepo.JobStatusUpdate{
		Price:     req.Price,
		PhotoKeys: req.PhotoKeys,
	}
	if req.Signature != "" {
		update.Signature = &req.Signature
	}
	activity := domain.JobActivity{
		ActivityID: uuid.NewString(),
		JobID:      jobID,
		CompanyID:  companyID,
		ActorID:    actorUserID,
		Action:     domain.ActionArtifactsAdded,
		CreatedAt:  now,
	}
	if err := s.jobRepo.AddArtifacts(ctx, jobID, update, actorUserID, activity); err != nil {
		s.LogError(ctx, err, "Failed to attach artifacts", slog.String("job_id", jobID))
		return nil, err
	}

	s.notifier.NotifyJob(companyID, jobID)
	return s.findCompanyJob(ctx, companyID, jobID)
}

// Transition validates and applies a status change for the acting user.
func (s *jobService) Transition(ctx context.Context, companyID, jobID string, target domain.JobStatus, req dto.TransitionRequest, actorUserID string) (*domain.Job, error) {
	actor, err := s.resolveActor(ctx, actorUserID, companyID)
	if err != nil {
		return nil, err
	}
	job, err := s.findCompanyJob(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}

	hasSignature := job.Signature != "" || req.Signature != ""
	if err := domain.ValidateTransition(*job, target, actor, hasSignature); err != nil {
		return nil, err
	}

	now := time.Now()
	update := portsrepo.JobStatusUpdate{
		Price:     req.Price,
		PhotoKeys: req.PhotoKeys,
	}
	if req.Signature != "" {
		update.Signature = &req.Signature
	}
	activity := domain.JobActivity{
		ActivityID: uuid.NewString(),
		JobID:      jobID,
		CompanyID:  companyID,
		ActorID:    actorUserID,
		Action:     domain.ActionStatusChange,
		Details:    domain.StatusChangeDetails(job.Status, target),
		CreatedAt:  now,
	}

	if err := s.jobRepo.ApplyStatusTransition(ctx, jobID, job.Status, target, update, activity); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			s.LogError(ctx, err, "Failed to apply status transition",
				slog.String("job_id", jobID),
				slog.String("target", string(target)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Job status changed",
		slog.String("job_id", jobID),
		slog.String("from", string(job.Status)),
		slog.String("to", string(target)),
		slog.String("actor_id", actorUserID))
	s.notifier.NotifyJob(companyID, jobID)
	return s.findCompanyJob(ctx, companyID, jobID)
}

// Advance moves the job to the next status in the fixed forward order.
func (s *jobService) Advance(ctx context.Context, companyID, jobID string, req dto.TransitionRequest, actorUserID string) (*domain.Job, error) {
	job, err := s.findCompanyJob(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}
	next, ok := job.Status.Next()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no next status", apperrors.ErrInvalidTransition, job.Status)
	}
	return s.Transition(ctx, companyID, jobID, next, req, actorUserID)
}

// findCompanyJob loads a job and verifies it belongs to the company. Jobs of
// other companies are indistinguishable from missing ones.
func (s *jobService) findCompanyJob(ctx context.Context, companyID, jobID string) (*domain.Job, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return job, nil
}

func (s *jobService) resolveActor(ctx context.Context, userID, companyID string) (domain.Actor, error) {
	if s.CompanyAuthorizer == nil {
		return domain.Actor{}, fmt.Errorf("%w: no authorizer configured", apperrors.ErrForbidden)
	}
	return s.CompanyAuthorizer.ResolveActor(ctx, userID, companyID)
}
