package repositories

import (
	"context"
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUserID retrieves the companies a user is a member of.
	ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error)

	// GetMemberRole retrieves the role a user holds in a company.
	// Returns apperrors.ErrNotFound if the user is not a member.
	GetMemberRole(ctx context.Context, companyID, userID string) (domain.CompanyRole, error)

	// ListMembers retrieves all members of a company with their roles.
	ListMembers(ctx context.Context, companyID string) ([]domain.CompanyMember, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// UpdateCompany updates an existing company's details.
	UpdateCompany(ctx context.Context, company domain.Company) error

	// AddMember adds a user to a company with a role.
	AddMember(ctx context.Context, member domain.CompanyMember) error

	// UpdateMemberRole changes a member's role.
	UpdateMemberRole(ctx context.Context, companyID, userID string, role domain.CompanyRole, updatedBy string, now time.Time) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
