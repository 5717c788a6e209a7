package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

func jobWith(status domain.JobStatus, assigned ...string) domain.Job {
	return domain.Job{
		JobID:      "job-1",
		CompanyID:  "company-1",
		Reference:  "TF-2025-0001",
		Status:     status,
		AssignedTo: assigned,
	}
}

func TestValidateTransition(t *testing.T) {
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	worker := domain.Actor{UserID: "worker-1", Role: domain.RoleWorker}
	otherWorker := domain.Actor{UserID: "worker-2", Role: domain.RoleWorker}

	tests := []struct {
		name         string
		job          domain.Job
		target       domain.JobStatus
		actor        domain.Actor
		hasSignature bool
		wantErr      error
	}{
		{
			name:   "admin starts a pending job",
			job:    jobWith(domain.JobPending),
			target: domain.JobInProgress,
			actor:  admin,
		},
		{
			name:   "assigned worker starts a pending job",
			job:    jobWith(domain.JobPending, "worker-1"),
			target: domain.JobInProgress,
			actor:  worker,
		},
		{
			name:    "unassigned worker cannot start a job",
			job:     jobWith(domain.JobPending, "worker-1"),
			target:  domain.JobInProgress,
			actor:   otherWorker,
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:         "assigned worker completes with signature",
			job:          jobWith(domain.JobInProgress, "worker-1"),
			target:       domain.JobComplete,
			actor:        worker,
			hasSignature: true,
		},
		{
			name:    "completion without signature is rejected",
			job:     jobWith(domain.JobInProgress, "worker-1"),
			target:  domain.JobComplete,
			actor:   worker,
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "admin completion still requires signature",
			job:     jobWith(domain.JobInProgress),
			target:  domain.JobComplete,
			actor:   admin,
			wantErr: apperrors.ErrValidation,
		},
		{
			name:   "admin marks a complete job paid",
			job:    jobWith(domain.JobComplete),
			target: domain.JobPaid,
			actor:  admin,
		},
		{
			name:    "worker may never mark a job paid",
			job:     jobWith(domain.JobComplete, "worker-1"),
			target:  domain.JobPaid,
			actor:   worker,
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "statuses never move backward",
			job:     jobWith(domain.JobComplete),
			target:  domain.JobInProgress,
			actor:   admin,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "no skipping ahead",
			job:     jobWith(domain.JobPending),
			target:  domain.JobComplete,
			actor:   admin,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:   "admin cancels an in-progress job",
			job:    jobWith(domain.JobInProgress),
			target: domain.JobCancelled,
			actor:  admin,
		},
		{
			name:    "worker cannot cancel",
			job:     jobWith(domain.JobInProgress, "worker-1"),
			target:  domain.JobCancelled,
			actor:   worker,
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "paid jobs cannot be cancelled",
			job:     jobWith(domain.JobPaid),
			target:  domain.JobCancelled,
			actor:   admin,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "cancelled is terminal",
			job:     jobWith(domain.JobCancelled),
			target:  domain.JobInProgress,
			actor:   admin,
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:    "unknown target status",
			job:     jobWith(domain.JobPending),
			target:  domain.JobStatus("archived"),
			actor:   admin,
			wantErr: apperrors.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateTransition(tt.job, tt.target, tt.actor, tt.hasSignature)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobStatusNext(t *testing.T) {
	tests := []struct {
		status domain.JobStatus
		next   domain.JobStatus
		ok     bool
	}{
		{domain.JobPending, domain.JobInProgress, true},
		{domain.JobInProgress, domain.JobComplete, true},
		{domain.JobComplete, domain.JobPaid, true},
		{domain.JobPaid, "", false},
		{domain.JobCancelled, "", false},
	}

	for _, tt := range tests {
		next, ok := tt.status.Next()
		assert.Equal(t, tt.ok, ok, "status %s", tt.status)
		assert.Equal(t, tt.next, next, "status %s", tt.status)
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	assert.True(t, domain.JobPaid.IsTerminal())
	assert.True(t, domain.JobCancelled.IsTerminal())
	assert.False(t, domain.JobPending.IsTerminal())
	assert.False(t, domain.JobInProgress.IsTerminal())
	assert.False(t, domain.JobComplete.IsTerminal())
}
