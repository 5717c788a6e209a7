package domain

import (
	"github.com/shopspring/decimal"
)

// DocumentKind tags what a document is.
type DocumentKind string

const (
	KindQuote          DocumentKind = "quote"
	KindInvoice        DocumentKind = "invoice"
	KindGasCertificate DocumentKind = "gas_certificate"
	// KindOther is the fallback tag used when storage rejects a kind value.
	// The payload is never altered to fit the constraint, only the tag.
	KindOther DocumentKind = "other"
)

// IsLocked reports whether documents of this kind carry a frozen payload
// once issued. Locked documents are legal records; reads render exclusively
// from the stored payload, never from live customer or company rows.
func (k DocumentKind) IsLocked() bool {
	return k == KindGasCertificate
}

// DocumentStatus tracks a document through its commercial lifecycle.
type DocumentStatus string

const (
	DocDraft    DocumentStatus = "draft"
	DocSent     DocumentStatus = "sent"
	DocAccepted DocumentStatus = "accepted"
	DocDeclined DocumentStatus = "declined"
	DocUnpaid   DocumentStatus = "unpaid"
	DocPaid     DocumentStatus = "paid"
	DocOverdue  DocumentStatus = "overdue"
)

// LineItem is one chargeable line on a quote or invoice.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VATPercent  decimal.Decimal `json:"vatPercent"`
}

// Document represents a quote, invoice or compliance certificate owned by
// one company. JobID, when set, exists for traceability only; after a locked
// document is issued its content is never re-derived from the job or its
// customer.
type Document struct {
	DocumentID      string              `json:"documentID"` // Primary Key (UUID)
	CompanyID       string              `json:"companyID"`
	JobID           *string             `json:"jobID,omitempty"`
	Kind            DocumentKind        `json:"kind"`
	Number          int64               `json:"number"` // From the sequence allocator
	Reference       string              `json:"reference"`
	Status          DocumentStatus      `json:"status"`
	CustomerID      *string             `json:"customerID,omitempty"`
	Items           []LineItem          `json:"items,omitempty"`
	DiscountPercent decimal.Decimal     `json:"discountPercent"`
	Totals          DocumentTotals      `json:"totals"`
	Payload         *CertificatePayload `json:"payload,omitempty"` // Set for locked kinds only
	AuditFields
}
