package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
)

// ToModelJob converts a domain Job to a model Job, serializing the customer
// snapshot for the JSONB column.
func ToModelJob(d domain.Job) (models.Job, error) {
	snapshot, err := json.Marshal(d.CustomerSnapshot)
	if err != nil {
		return models.Job{}, fmt.Errorf("failed to marshal customer snapshot: %w", err)
	}
	var signature *string
	if d.Signature != "" {
		signature = &d.Signature
	}
	return models.Job{
		JobID:            d.JobID,
		CompanyID:        d.CompanyID,
		Reference:        d.Reference,
		Status:           string(d.Status),
		CustomerSnapshot: snapshot,
		Description:      d.Description,
		ScheduledAt:      d.ScheduledAt,
		ScheduledEnd:     d.ScheduledEnd,
		AssignedTo:       d.AssignedTo,
		PhotoKeys:        d.PhotoKeys,
		Signature:        signature,
		Price:            d.Price,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainJob converts a model Job to a domain Job.
func ToDomainJob(m models.Job) (domain.Job, error) {
	var snapshot domain.CustomerSnapshot
	if len(m.CustomerSnapshot) > 0 {
		if err := json.Unmarshal(m.CustomerSnapshot, &snapshot); err != nil {
			return domain.Job{}, fmt.Errorf("failed to unmarshal customer snapshot: %w", err)
		}
	}
	var signature string
	if m.Signature != nil {
		signature = *m.Signature
	}
	return domain.Job{
		JobID:            m.JobID,
		CompanyID:        m.CompanyID,
		Reference:        m.Reference,
		Status:           domain.JobStatus(m.Status),
		CustomerSnapshot: snapshot,
		Description:      m.Description,
		ScheduledAt:      m.ScheduledAt,
		ScheduledEnd:     m.ScheduledEnd,
		AssignedTo:       m.AssignedTo,
		PhotoKeys:        m.PhotoKeys,
		Signature:        signature,
		Price:            m.Price,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainJobSlice converts model Jobs to domain Jobs.
func ToDomainJobSlice(ms []models.Job) ([]domain.Job, error) {
	ds := make([]domain.Job, len(ms))
	for i, m := range ms {
		d, err := ToDomainJob(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToModelJobActivity converts a domain JobActivity to a model JobActivity.
func ToModelJobActivity(d domain.JobActivity) (models.JobActivity, error) {
	var details []byte
	if len(d.Details) > 0 {
		var err error
		details, err = json.Marshal(d.Details)
		if err != nil {
			return models.JobActivity{}, fmt.Errorf("failed to marshal activity details: %w", err)
		}
	}
	return models.JobActivity{
		ActivityID: d.ActivityID,
		JobID:      d.JobID,
		CompanyID:  d.CompanyID,
		ActorID:    d.ActorID,
		Action:     d.Action,
		Details:    details,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// ToDomainJobActivity converts a model JobActivity to a domain JobActivity.
func ToDomainJobActivity(m models.JobActivity) (domain.JobActivity, error) {
	var details map[string]string
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return domain.JobActivity{}, fmt.Errorf("failed to unmarshal activity details: %w", err)
		}
	}
	return domain.JobActivity{
		ActivityID: m.ActivityID,
		JobID:      m.JobID,
		CompanyID:  m.CompanyID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		Details:    details,
		CreatedAt:  m.CreatedAt,
	}, nil
}
