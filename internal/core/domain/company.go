package domain

import "time"

// Company represents one tenant: a trade business whose jobs, customers and
// documents are isolated from every other company's.
type Company struct {
	CompanyID       string `json:"companyID"` // Primary Key (UUID)
	Name            string `json:"name"`
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2"`
	City            string `json:"city"`
	Postcode        string `json:"postcode"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	VATNumber       string `json:"vatNumber"`
	GasSafeNumber   string `json:"gasSafeNumber"`   // Gas Safe register number, required on certificates
	ReferencePrefix string `json:"referencePrefix"` // Prefix for job references, e.g. "TF"
	IsActive        bool   `json:"isActive"`
	AuditFields
}

// CompanyRole defines the possible roles a user can have within a company.
type CompanyRole string

const (
	RoleAdmin   CompanyRole = "ADMIN"
	RoleWorker  CompanyRole = "WORKER"
	RoleRemoved CompanyRole = "REMOVED" // For users who have been removed from the company
)

// CompanyMember represents the membership of a User in a Company.
type CompanyMember struct {
	UserID    string      `json:"userID"`    // FK -> users.user_id
	UserName  string      `json:"userName"`  // Name of the user
	CompanyID string      `json:"companyID"` // FK -> companies.company_id
	Role      CompanyRole `json:"role"`      // Role of the user in this specific company
	JoinedAt  time.Time   `json:"joinedAt"`
}

// CanAdminister reports whether the role carries admin rights.
func (r CompanyRole) CanAdminister() bool {
	return r == RoleAdmin
}
