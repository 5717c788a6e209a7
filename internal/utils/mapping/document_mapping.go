package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
)

// ToModelDocument converts a domain Document to a model Document. The locked
// payload, when present, is serialized here exactly once; storage and later
// reads treat it as opaque bytes.
func ToModelDocument(d domain.Document) (models.Document, error) {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to marshal line items: %w", err)
	}
	var payload []byte
	if d.Payload != nil {
		payload, err = json.Marshal(d.Payload)
		if err != nil {
			return models.Document{}, fmt.Errorf("failed to marshal locked payload: %w", err)
		}
	}
	return models.Document{
		DocumentID:      d.DocumentID,
		CompanyID:       d.CompanyID,
		JobID:           d.JobID,
		Kind:            string(d.Kind),
		Number:          d.Number,
		Reference:       d.Reference,
		Status:          string(d.Status),
		CustomerID:      d.CustomerID,
		Items:           items,
		DiscountPercent: d.DiscountPercent,
		Subtotal:        d.Totals.Subtotal,
		VATTotal:        d.Totals.VATTotal,
		DiscountAmount:  d.Totals.DiscountAmount,
		GrandTotal:      d.Totals.GrandTotal,
		Payload:         payload,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainDocument converts a model Document to a domain Document.
func ToDomainDocument(m models.Document) (domain.Document, error) {
	var items []domain.LineItem
	if len(m.Items) > 0 {
		if err := json.Unmarshal(m.Items, &items); err != nil {
			return domain.Document{}, fmt.Errorf("failed to unmarshal line items: %w", err)
		}
	}
	var payload *domain.CertificatePayload
	if len(m.Payload) > 0 {
		payload = &domain.CertificatePayload{}
		if err := json.Unmarshal(m.Payload, payload); err != nil {
			return domain.Document{}, fmt.Errorf("failed to unmarshal locked payload: %w", err)
		}
	}
	return domain.Document{
		DocumentID:      m.DocumentID,
		CompanyID:       m.CompanyID,
		JobID:           m.JobID,
		Kind:            domain.DocumentKind(m.Kind),
		Number:          m.Number,
		Reference:       m.Reference,
		Status:          domain.DocumentStatus(m.Status),
		CustomerID:      m.CustomerID,
		Items:           items,
		DiscountPercent: m.DiscountPercent,
		Totals: domain.DocumentTotals{
			Subtotal:       m.Subtotal,
			VATTotal:       m.VATTotal,
			DiscountAmount: m.DiscountAmount,
			GrandTotal:     m.GrandTotal,
		},
		Payload:     payload,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainDocumentSlice converts model Documents to domain Documents.
func ToDomainDocumentSlice(ms []models.Document) ([]domain.Document, error) {
	ds := make([]domain.Document, len(ms))
	for i, m := range ms {
		d, err := ToDomainDocument(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
