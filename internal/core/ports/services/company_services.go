package services

import (
	"context"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// FindCompanyByID retrieves a specific company. The requesting user must
	// be a member.
	FindCompanyByID(ctx context.Context, companyID, requestingUserID string) (*domain.Company, error)

	// ListUserCompanies retrieves the companies the user belongs to.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// ListCompanyMembers retrieves all members and their roles. Only members
	// of the company can access this data.
	ListCompanyMembers(ctx context.Context, companyID, requestingUserID string) ([]domain.CompanyMember, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company and makes the creator its admin.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// UpdateCompany updates company details. Admin only.
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error)
}

// CompanyMembershipSvc defines operations for managing company membership
type CompanyMembershipSvc interface {
	// AddUserToCompany adds a user to a company with a specific role. Admin only.
	AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.CompanyRole) error

	// UpdateUserCompanyRole updates a user's role in a company. Admin only.
	UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.CompanyRole) error
}

// CompanyAuthorizerSvc defines operations for company authorization.
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction checks that the user holds at least the required
	// role in the company. Returns apperrors.ErrForbidden otherwise.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.CompanyRole) error

	// ResolveActor returns the user's identity paired with their role in the
	// company, for use by role-gated operations.
	ResolveActor(ctx context.Context, userID, companyID string) (domain.Actor, error)
}

// CompanySvcFacade combines all company-related service interfaces.
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyMembershipSvc
	CompanyAuthorizerSvc
}
