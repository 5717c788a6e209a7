package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// CreateJobRequest defines the data needed to create a new job.
type CreateJobRequest struct {
	CustomerID   string     `json:"customerID" binding:"required"`
	Description  string     `json:"description"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
	ScheduledEnd *time.Time `json:"scheduledEnd"`
	AssignedTo   []string   `json:"assignedTo"`
}

// ListJobsParams defines query parameters for listing jobs.
type ListJobsParams struct {
	Statuses   []string `form:"status"`
	AssignedTo string   `form:"assignedTo"`
	Limit      int      `form:"limit,default=20"`
	Offset     int      `form:"offset,default=0"`
}

// TransitionRequest carries the data accompanying a status change. The
// signature is required when completing a job and is persisted in the same
// operation as the transition.
type TransitionRequest struct {
	Signature string           `json:"signature"`
	Price     *decimal.Decimal `json:"price"`
	PhotoKeys []string         `json:"photoKeys"`
}

// TransitionTarget names the requested status for an explicit transition.
type TransitionTarget struct {
	Status domain.JobStatus `json:"status" binding:"required"`
	TransitionRequest
}

// JobArtifactsRequest attaches completion artifacts outside a transition.
type JobArtifactsRequest struct {
	Signature string           `json:"signature"`
	Price     *decimal.Decimal `json:"price"`
	PhotoKeys []string         `json:"photoKeys"`
}

// AssignWorkersRequest replaces a job's assigned worker set.
type AssignWorkersRequest struct {
	WorkerIDs []string `json:"workerIDs" binding:"required"`
}

// JobResponse defines the data returned for a job.
type JobResponse struct {
	JobID            string                  `json:"jobID"`
	CompanyID        string                  `json:"companyID"`
	Reference        string                  `json:"reference"`
	Status           domain.JobStatus        `json:"status"`
	CustomerSnapshot domain.CustomerSnapshot `json:"customerSnapshot"`
	Description      string                  `json:"description"`
	ScheduledAt      *time.Time              `json:"scheduledAt,omitempty"`
	ScheduledEnd     *time.Time              `json:"scheduledEnd,omitempty"`
	AssignedTo       []string                `json:"assignedTo"`
	PhotoKeys        []string                `json:"photoKeys,omitempty"`
	Signature        string                  `json:"signature,omitempty"`
	Price            *decimal.Decimal        `json:"price,omitempty"`
	CreatedAt        time.Time               `json:"createdAt"`
	LastUpdatedAt    time.Time               `json:"lastUpdatedAt"`
}

// ToJobResponse converts a domain.Job to JobResponse DTO
func ToJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		JobID:            j.JobID,
		CompanyID:        j.CompanyID,
		Reference:        j.Reference,
		Status:           j.Status,
		CustomerSnapshot: j.CustomerSnapshot,
		Description:      j.Description,
		ScheduledAt:      j.ScheduledAt,
		ScheduledEnd:     j.ScheduledEnd,
		AssignedTo:       j.AssignedTo,
		PhotoKeys:        j.PhotoKeys,
		Signature:        j.Signature,
		Price:            j.Price,
		CreatedAt:        j.CreatedAt,
		LastUpdatedAt:    j.LastUpdatedAt,
	}
}

// ToListJobResponse converts a slice of domain.Job to response DTOs.
func ToListJobResponse(jobs []domain.Job) []JobResponse {
	res := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		res[i] = ToJobResponse(&j)
	}
	return res
}

// ActivityResponse defines the data returned for one activity entry.
type ActivityResponse struct {
	ActivityID string            `json:"activityID"`
	JobID      string            `json:"jobID"`
	ActorID    string            `json:"actorID"`
	Action     string            `json:"action"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ToListActivityResponse converts activity entries to response DTOs.
func ToListActivityResponse(activities []domain.JobActivity) []ActivityResponse {
	res := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		res[i] = ActivityResponse{
			ActivityID: a.ActivityID,
			JobID:      a.JobID,
			ActorID:    a.ActorID,
			Action:     a.Action,
			Details:    a.Details,
			CreatedAt:  a.CreatedAt,
		}
	}
	return res
}
