package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job represents a job row. CustomerSnapshot is the JSONB value copy taken
// at creation; it is written once and never refreshed from the customers
// table.
type Job struct {
	JobID            string           `db:"job_id"`
	CompanyID        string           `db:"company_id"`
	Reference        string           `db:"reference"`
	Status           string           `db:"status"`
	CustomerSnapshot []byte           `db:"customer_snapshot"` // JSONB
	Description      string           `db:"description"`
	ScheduledAt      *time.Time       `db:"scheduled_at"`
	ScheduledEnd     *time.Time       `db:"scheduled_end"`
	AssignedTo       []string         `db:"assigned_to"` // text[]
	PhotoKeys        []string         `db:"photo_keys"`  // text[]
	Signature        *string          `db:"signature"`
	Price            *decimal.Decimal `db:"price"`
	AuditFields
}

// JobActivity represents one append-only audit row for a job.
type JobActivity struct {
	ActivityID string    `db:"activity_id"`
	JobID      string    `db:"job_id"`
	CompanyID  string    `db:"company_id"`
	ActorID    string    `db:"actor_id"`
	Action     string    `db:"action"`
	Details    []byte    `db:"details"` // JSONB
	CreatedAt  time.Time `db:"created_at"`
}
