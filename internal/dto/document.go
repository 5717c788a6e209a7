package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// LineItemRequest is one chargeable line in a quote or invoice request.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	VATPercent  decimal.Decimal `json:"vatPercent"`
}

// CreateDocumentRequest defines the data needed to create a quote or invoice.
type CreateDocumentRequest struct {
	JobID           *string           `json:"jobID"`
	CustomerID      *string           `json:"customerID"`
	Items           []LineItemRequest `json:"items" binding:"required,min=1"`
	DiscountPercent decimal.Decimal   `json:"discountPercent"`
}

// ToLineItems converts request line items to domain values.
func (r CreateDocumentRequest) ToLineItems() []domain.LineItem {
	items := make([]domain.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATPercent:  it.VATPercent,
		}
	}
	return items
}

// ApplianceInspectionRequest is one appliance's inspection results.
type ApplianceInspectionRequest struct {
	Location          string `json:"location" binding:"required"`
	ApplianceType     string `json:"applianceType" binding:"required"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	OperatingPressure string `json:"operatingPressure"`
	SafetyDeviceOK    bool   `json:"safetyDeviceOK"`
	FlueTestPassed    bool   `json:"flueTestPassed"`
	Result            string `json:"result" binding:"required,oneof=pass fail not_tested"`
	DefectsIdentified string `json:"defectsIdentified"`
	RemedialAction    string `json:"remedialAction"`
}

// IssueCertificateRequest defines the data needed to issue a gas safety
// certificate. Live company and customer details are resolved and frozen
// server-side at issue time.
type IssueCertificateRequest struct {
	JobID      *string                      `json:"jobID"`
	CustomerID string                       `json:"customerID" binding:"required"`
	LandlordID *string                      `json:"landlordID"`
	Appliances []ApplianceInspectionRequest `json:"appliances" binding:"required,min=1"`
	Signature  string                       `json:"signature" binding:"required"`
	NextDueAt  *time.Time                   `json:"nextDueAt"`
}

// UpdateDocumentStatusRequest moves a document to a new lifecycle status.
type UpdateDocumentStatusRequest struct {
	Status domain.DocumentStatus `json:"status" binding:"required,oneof=draft sent accepted declined unpaid paid overdue"`
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	Kind   string `form:"kind"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID      string                     `json:"documentID"`
	CompanyID       string                     `json:"companyID"`
	JobID           *string                    `json:"jobID,omitempty"`
	Kind            domain.DocumentKind        `json:"kind"`
	Number          int64                      `json:"number"`
	Reference       string                     `json:"reference"`
	Status          domain.DocumentStatus      `json:"status"`
	Items           []domain.LineItem          `json:"items,omitempty"`
	DiscountPercent decimal.Decimal            `json:"discountPercent"`
	Totals          domain.DocumentTotals      `json:"totals"`
	Payload         *domain.CertificatePayload `json:"payload,omitempty"`
	CreatedAt       time.Time                  `json:"createdAt"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:      d.DocumentID,
		CompanyID:       d.CompanyID,
		JobID:           d.JobID,
		Kind:            d.Kind,
		Number:          d.Number,
		Reference:       d.Reference,
		Status:          d.Status,
		Items:           d.Items,
		DiscountPercent: d.DiscountPercent,
		Totals:          d.Totals,
		Payload:         d.Payload,
		CreatedAt:       d.CreatedAt,
	}
}

// ToListDocumentResponse converts a slice of domain.Document to response DTOs.
func ToListDocumentResponse(docs []domain.Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = ToDocumentResponse(&d)
	}
	return res
}
