package domain

import "time"

// Activity actions recorded against a job. The set is open-ended; these are
// the ones the core writes.
const (
	ActionJobCreated     = "created"
	ActionStatusChange   = "status_change"
	ActionWorkerAssigned = "worker_assigned"
	ActionArtifactsAdded = "artifacts_added"
	ActionDocumentIssued = "document_issued"
)

// JobActivity is one append-only audit record for a job. Rows are written
// once and never updated or deleted, so the trail stays trustworthy even
// though the job row itself is mutable.
type JobActivity struct {
	ActivityID string            `json:"activityID"` // Primary Key (UUID)
	JobID      string            `json:"jobID"`
	CompanyID  string            `json:"companyID"`
	ActorID    string            `json:"actorID"`
	Action     string            `json:"action"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// StatusChangeDetails builds the details map recorded for a status change.
func StatusChangeDetails(from, to JobStatus) map[string]string {
	return map[string]string{"from": string(from), "to": string(to)}
}
