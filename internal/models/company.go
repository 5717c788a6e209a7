package models

import "time"

// Company represents one tenant row.
type Company struct {
	CompanyID       string `db:"company_id"`
	Name            string `db:"name"`
	AddressLine1    string `db:"address_line1"`
	AddressLine2    string `db:"address_line2"`
	City            string `db:"city"`
	Postcode        string `db:"postcode"`
	Phone           string `db:"phone"`
	Email           string `db:"email"`
	VATNumber       string `db:"vat_number"`
	GasSafeNumber   string `db:"gas_safe_number"`
	ReferencePrefix string `db:"reference_prefix"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}

// CompanyMember represents one membership row.
type CompanyMember struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}

// SequenceCounter is one per-company counter row. The only mutation path is
// the sequence repository's atomic allocate.
type SequenceCounter struct {
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	NextValue int64  `db:"next_value"`
}
