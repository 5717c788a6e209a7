package services

import (
	"context"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// JobReaderSvc defines read operations for job data
type JobReaderSvc interface {
	// GetJob retrieves a job. The requesting user must be a member of the
	// owning company.
	GetJob(ctx context.Context, companyID, jobID, requestingUserID string) (*domain.Job, error)

	// ListJobs retrieves a paginated list of a company's jobs with optional
	// status and assignee filters.
	ListJobs(ctx context.Context, companyID string, params dto.ListJobsParams, requestingUserID string) ([]domain.Job, error)

	// ListJobActivities retrieves a job's audit trail, oldest first.
	ListJobActivities(ctx context.Context, companyID, jobID, requestingUserID string) ([]domain.JobActivity, error)
}

// JobWriterSvc defines write operations for job data
type JobWriterSvc interface {
	// CreateJob mints the job's reference from the company's sequence and
	// persists the job with a value copy of the customer. Admin only.
	CreateJob(ctx context.Context, companyID string, req dto.CreateJobRequest, creatorUserID string) (*domain.Job, error)

	// AssignWorkers replaces the job's assigned worker set. Admin only.
	AssignWorkers(ctx context.Context, companyID, jobID string, workerIDs []string, requestingUserID string) (*domain.Job, error)

	// AttachArtifacts adds completion artifacts (photos, signature, price)
	// outside of a status change.
	AttachArtifacts(ctx context.Context, companyID, jobID string, req dto.JobArtifactsRequest, actorUserID string) (*domain.Job, error)
}

// JobTransitionSvc defines the role-gated status state machine operations.
type JobTransitionSvc interface {
	// Transition validates and applies a status change for the acting user.
	// Illegal edges fail with apperrors.ErrInvalidTransition, missing
	// permissions with apperrors.ErrForbidden; neither is retried.
	Transition(ctx context.Context, companyID, jobID string, target domain.JobStatus, req dto.TransitionRequest, actorUserID string) (*domain.Job, error)

	// Advance moves the job to the next status in the fixed forward order.
	// It is a convenience wrapper over Transition and applies the same
	// validation.
	Advance(ctx context.Context, companyID, jobID string, req dto.TransitionRequest, actorUserID string) (*domain.Job, error)
}

// JobSvcFacade combines all job-related service interfaces.
type JobSvcFacade interface {
	JobReaderSvc
	JobWriterSvc
	JobTransitionSvc
}
