package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// JobStatusUpdate carries the optional completion artifacts persisted in the
// same transaction as a status change.
type JobStatusUpdate struct {
	Signature *string
	Price     *decimal.Decimal
	PhotoKeys []string
}

// JobReader defines read operations for job data
type JobReader interface {
	// FindJobByID retrieves a specific job by its unique identifier.
	FindJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	// ListJobs retrieves a paginated list of a company's jobs, optionally
	// filtered by status.
	ListJobs(ctx context.Context, companyID string, statuses []domain.JobStatus, limit, offset int) ([]domain.Job, error)

	// ListJobsAssignedTo retrieves the jobs assigned to a specific worker.
	ListJobsAssignedTo(ctx context.Context, companyID, userID string, limit, offset int) ([]domain.Job, error)

	// ListJobActivities retrieves the append-only activity trail of a job,
	// oldest first.
	ListJobActivities(ctx context.Context, jobID string) ([]domain.JobActivity, error)
}

// JobWriter defines write operations for job data
type JobWriter interface {
	// CreateJob allocates the company's next job number, formats the
	// reference, and inserts the job together with its creation activity
	// entry in one transaction. A failed insert rolls the allocation back, so
	// committed numbers always have an owning job.
	CreateJob(ctx context.Context, job domain.Job, referencePrefix string, activity domain.JobActivity) (*domain.Job, error)

	// ApplyStatusTransition moves the job from the expected status to the
	// target status with a conditional update, persisting the artifacts and
	// appending the activity entry in the same transaction. When the job's
	// current status no longer matches `from` (a concurrent transition won),
	// it fails with apperrors.ErrInvalidTransition and writes nothing.
	ApplyStatusTransition(ctx context.Context, jobID string, from, to domain.JobStatus, update JobStatusUpdate, activity domain.JobActivity) error

	// UpdateAssignment replaces the job's assigned worker set and appends the
	// activity entry in the same transaction.
	UpdateAssignment(ctx context.Context, jobID string, assignedTo []string, updatedBy string, activity domain.JobActivity) error

	// AddArtifacts attaches completion artifacts outside of a status change.
	AddArtifacts(ctx context.Context, jobID string, update JobStatusUpdate, updatedBy string, activity domain.JobActivity) error

	// AppendActivity records an activity entry that does not accompany a job
	// row mutation, such as a document being issued against the job.
	AppendActivity(ctx context.Context, activity domain.JobActivity) error
}

// JobRepositoryFacade combines all job-related repository interfaces.
type JobRepositoryFacade interface {
	JobReader
	JobWriter
}
