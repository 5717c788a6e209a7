package models

import "github.com/shopspring/decimal"

// Document represents a document row. Payload holds the serialized locked
// snapshot for locked kinds; once written it is never updated.
type Document struct {
	DocumentID      string          `db:"document_id"`
	CompanyID       string          `db:"company_id"`
	JobID           *string         `db:"job_id"`
	Kind            string          `db:"kind"`
	Number          int64           `db:"number"`
	Reference       string          `db:"reference"`
	Status          string          `db:"status"`
	CustomerID      *string         `db:"customer_id"`
	Items           []byte          `db:"items"` // JSONB line items
	DiscountPercent decimal.Decimal `db:"discount_percent"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	VATTotal        decimal.Decimal `db:"vat_total"`
	DiscountAmount  decimal.Decimal `db:"discount_amount"`
	GrandTotal      decimal.Decimal `db:"grand_total"`
	Payload         []byte          `db:"payload"` // JSONB locked snapshot, nullable
	AuditFields
}
