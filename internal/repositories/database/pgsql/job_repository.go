package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils/mapping"
)

type PgxJobRepository struct {
	BaseRepository
	sequenceRepo portsrepo.SequenceRepository
}

func newPgxJobRepository(pool *pgxpool.Pool, sequenceRepo portsrepo.SequenceRepository) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{
		BaseRepository: BaseRepository{Pool: pool},
		sequenceRepo:   sequenceRepo,
	}
}

// Ensure PgxJobRepository implements portsrepo.JobRepositoryFacade
var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

const fullJobSelectQuery = `
	SELECT job_id, company_id, reference, status, customer_snapshot, description,
	       scheduled_at, scheduled_end, assigned_to, photo_keys, signature, price,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM jobs
`

const insertJobQuery = `
	INSERT INTO jobs (job_id, company_id, reference, status, customer_snapshot, description,
	                  scheduled_at, scheduled_end, assigned_to, photo_keys, signature, price,
	                  created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`

const insertJobActivityQuery = `
	INSERT INTO job_activities (activity_id, job_id, company_id, actor_id, action, details, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

// getJobs executes the shared select with an optional filter clause and maps
// the rows to domain jobs.
func (r *PgxJobRepository) getJobs(ctx context.Context, filterQuery string, args ...interface{}) ([]domain.Job, error) {
	query := fullJobSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	modelJobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		return nil, fmt.Errorf("failed to collect job rows: %w", err)
	}
	return mapping.ToDomainJobSlice(modelJobs)
}

func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	jobs, err := r.getJobs(ctx, " WHERE job_id = $1;", jobID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &jobs[0], nil
}

func (r *PgxJobRepository) ListJobs(ctx context.Context, companyID string, statuses []domain.JobStatus, limit, offset int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if len(statuses) == 0 {
		return r.getJobs(ctx, " WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;", companyID, limit, offset)
	}
	statusValues := make([]string, len(statuses))
	for i, s := range statuses {
		statusValues[i] = string(s)
	}
	return r.getJobs(ctx, " WHERE company_id = $1 AND status = ANY($2) ORDER BY created_at DESC LIMIT $3 OFFSET $4;",
		companyID, statusValues, limit, offset)
}

func (r *PgxJobRepository) ListJobsAssignedTo(ctx context.Context, companyID, userID string, limit, offset int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return r.getJobs(ctx, " WHERE company_id = $1 AND $2 = ANY(assigned_to) ORDER BY created_at DESC LIMIT $3 OFFSET $4;",
		companyID, userID, limit, offset)
}

func (r *PgxJobRepository) ListJobActivities(ctx context.Context, jobID string) ([]domain.JobActivity, error) {
	query := `
		SELECT activity_id, job_id, company_id, actor_id, action, details, created_at
		FROM job_activities
		WHERE job_id = $1
		ORDER BY created_at ASC, activity_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query job activities: %w", err)
	}
	defer rows.Close()

	modelActivities, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JobActivity])
	if err != nil {
		return nil, fmt.Errorf("failed to collect job activity rows: %w", err)
	}
	activities := make([]domain.JobActivity, len(modelActivities))
	for i, m := range modelActivities {
		activities[i], err = mapping.ToDomainJobActivity(m)
		if err != nil {
			return nil, err
		}
	}
	return activities, nil
}

func (r *PgxJobRepository) CreateJob(ctx context.Context, job domain.Job, referencePrefix string, activity domain.JobActivity) (*domain.Job, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction for job creation", err)
	}
	defer tx.Rollback(ctx)

	// Number and row commit together; a failed insert rolls the counter back.
	seq, err := r.sequenceRepo.AllocateNextInTx(ctx, tx, job.CompanyID, portsrepo.CounterJobNumber)
	if err != nil {
		return nil, err
	}
	job.Reference = utils.FormatJobReference(referencePrefix, job.CreatedAt.Year(), seq)

	modelJob, err := mapping.ToModelJob(job)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, insertJobQuery,
		modelJob.JobID,
		modelJob.CompanyID,
		modelJob.Reference,
		modelJob.Status,
		modelJob.CustomerSnapshot,
		modelJob.Description,
		modelJob.ScheduledAt,
		modelJob.ScheduledEnd,
		modelJob.AssignedTo,
		modelJob.PhotoKeys,
		modelJob.Signature,
		modelJob.Price,
		modelJob.CreatedAt,
		modelJob.CreatedBy,
		modelJob.LastUpdatedAt,
		modelJob.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("job with ID %s already exists", job.JobID))
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("company %s does not exist", job.CompanyID))
		}
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	activity.JobID = job.JobID
	activity.CompanyID = job.CompanyID
	if err := r.insertActivityInTx(ctx, tx, activity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return nil, fmt.Errorf("job number allocation for company %s lost a concurrent race: %w", job.CompanyID, apperrors.ErrSequenceConflict)
		}
		return nil, apperrors.NewAppError(500, "failed to commit job creation", err)
	}
	return &job, nil
}

func (r *PgxJobRepository) ApplyStatusTransition(ctx context.Context, jobID string, from, to domain.JobStatus, update portsrepo.JobStatusUpdate, activity domain.JobActivity) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Conditional on the expected status so a concurrent transition that
	// already moved the row makes this one a no-op.
	query := `
		UPDATE jobs SET
			status = $2,
			signature = COALESCE($3, signature),
			price = COALESCE($4, price),
			photo_keys = photo_keys || COALESCE($5, '{}'::text[]),
			last_updated_at = $6,
			last_updated_by = $7
		WHERE job_id = $1 AND status = $8;
	`
	tag, err := tx.Exec(ctx, query,
		jobID,
		string(to),
		update.Signature,
		update.Price,
		update.PhotoKeys,
		activity.CreatedAt,
		activity.ActorID,
		string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update job %s status: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM jobs WHERE job_id = $1;`, jobID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to re-read job %s status: %w", jobID, err)
		}
		return fmt.Errorf("job %s is %s, expected %s: %w", jobID, current, from, apperrors.ErrInvalidTransition)
	}

	if err := r.insertActivityInTx(ctx, tx, activity); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxJobRepository) UpdateAssignment(ctx context.Context, jobID string, assignedTo []string, updatedBy string, activity domain.JobActivity) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE jobs SET
			assigned_to = $2,
			last_updated_at = $3,
			last_updated_by = $4
		WHERE job_id = $1;
	`
	tag, err := tx.Exec(ctx, query, jobID, assignedTo, activity.CreatedAt, updatedBy)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationFailedError("one or more assigned workers do not exist")
		}
		return fmt.Errorf("failed to update job %s assignment: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.insertActivityInTx(ctx, tx, activity); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxJobRepository) AddArtifacts(ctx context.Context, jobID string, update portsrepo.JobStatusUpdate, updatedBy string, activity domain.JobActivity) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE jobs SET
			signature = COALESCE($2, signature),
			price = COALESCE($3, price),
			photo_keys = photo_keys || COALESCE($4, '{}'::text[]),
			last_updated_at = $5,
			last_updated_by = $6
		WHERE job_id = $1;
	`
	tag, err := tx.Exec(ctx, query, jobID, update.Signature, update.Price, update.PhotoKeys, activity.CreatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to add artifacts to job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.insertActivityInTx(ctx, tx, activity); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxJobRepository) AppendActivity(ctx context.Context, activity domain.JobActivity) error {
	modelActivity, err := mapping.ToModelJobActivity(activity)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, insertJobActivityQuery,
		modelActivity.ActivityID,
		modelActivity.JobID,
		modelActivity.CompanyID,
		modelActivity.ActorID,
		modelActivity.Action,
		modelActivity.Details,
		modelActivity.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to append job activity: %w", err)
	}
	return nil
}

func (r *PgxJobRepository) insertActivityInTx(ctx context.Context, tx pgx.Tx, activity domain.JobActivity) error {
	modelActivity, err := mapping.ToModelJobActivity(activity)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, insertJobActivityQuery,
		modelActivity.ActivityID,
		modelActivity.JobID,
		modelActivity.CompanyID,
		modelActivity.ActorID,
		modelActivity.Action,
		modelActivity.Details,
		modelActivity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job activity: %w", err)
	}
	return nil
}
