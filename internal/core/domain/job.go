package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
)

// JobStatus indicates where a job is in its lifecycle.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobComplete   JobStatus = "complete"
	JobPaid       JobStatus = "paid"
	JobCancelled  JobStatus = "cancelled"
)

// jobStatusOrder is the forward path a job walks. Cancellation branches off
// sideways and is handled separately from this order.
var jobStatusOrder = []JobStatus{JobPending, JobInProgress, JobComplete, JobPaid}

// IsTerminal reports whether no further transitions are possible.
func (s JobStatus) IsTerminal() bool {
	return s == JobPaid || s == JobCancelled
}

// IsValid reports whether s is one of the defined statuses.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobPending, JobInProgress, JobComplete, JobPaid, JobCancelled:
		return true
	}
	return false
}

// Next returns the status that follows s in the forward order. The second
// return value is false when s has no forward successor.
func (s JobStatus) Next() (JobStatus, bool) {
	for i, status := range jobStatusOrder {
		if status == s && i+1 < len(jobStatusOrder) {
			return jobStatusOrder[i+1], true
		}
	}
	return "", false
}

// Job represents a single piece of field work for a customer.
type Job struct {
	JobID            string           `json:"jobID"`     // Primary Key (UUID)
	CompanyID        string           `json:"companyID"` // FK -> companies.company_id
	Reference        string           `json:"reference"` // e.g. TF-2025-0042; assigned once at creation, immutable
	Status           JobStatus        `json:"status"`
	CustomerSnapshot CustomerSnapshot `json:"customerSnapshot"` // Value copy taken at creation
	Description      string           `json:"description"`
	ScheduledAt      *time.Time       `json:"scheduledAt,omitempty"`
	ScheduledEnd     *time.Time       `json:"scheduledEnd,omitempty"`
	AssignedTo       []string         `json:"assignedTo"` // UserIDs of assigned workers
	PhotoKeys        []string         `json:"photoKeys,omitempty"`
	Signature        string           `json:"signature,omitempty"` // Captured sign-off image reference
	Price            *decimal.Decimal `json:"price,omitempty"`
	AuditFields
}

// IsAssignedTo reports whether the given user is one of the job's workers.
func (j Job) IsAssignedTo(userID string) bool {
	for _, id := range j.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// Actor identifies who is attempting an operation and with what role.
// Role is supplied by the identity layer and trusted as given.
type Actor struct {
	UserID string
	Role   CompanyRole
}

// ValidateTransition checks a requested status change against the transition
// table. It is the single authority on which edges exist and who may take
// them; every call site, including the "advance to next status" convenience
// path, goes through it.
//
//	pending     -> in_progress   assigned worker or admin
//	in_progress -> complete      assigned worker or admin, signature required
//	complete    -> paid          admin only
//	non-terminal -> cancelled    admin only
//
// hasSignature reports whether a sign-off artifact is present (already on the
// job or captured in the same operation).
func ValidateTransition(job Job, target JobStatus, actor Actor, hasSignature bool) error {
	from := job.Status
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidTransition, target)
	}

	if target == JobCancelled {
		if from.IsTerminal() {
			return fmt.Errorf("%w: cannot cancel a %s job", apperrors.ErrInvalidTransition, from)
		}
		if actor.Role != RoleAdmin {
			return fmt.Errorf("%w: only an admin may cancel a job", apperrors.ErrForbidden)
		}
		return nil
	}

	next, ok := from.Next()
	if !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, from, target)
	}

	switch target {
	case JobInProgress, JobComplete:
		if actor.Role != RoleAdmin && !(actor.Role == RoleWorker && job.IsAssignedTo(actor.UserID)) {
			return fmt.Errorf("%w: %s -> %s requires an admin or an assigned worker", apperrors.ErrForbidden, from, target)
		}
		if target == JobComplete && !hasSignature {
			return fmt.Errorf("%w: completing a job requires a captured signature", apperrors.ErrValidation)
		}
	case JobPaid:
		if actor.Role != RoleAdmin {
			return fmt.Errorf("%w: only an admin may mark a job paid", apperrors.ErrForbidden)
		}
	}
	return nil
}
