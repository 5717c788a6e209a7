package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

const defaultReferencePrefix = "TF"

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service with the provided dependencies
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{
		companyRepo: companyRepo,
	}
}

// Ensure companyService implements the CompanySvcFacade interface
var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// FindCompanyByID retrieves a company, visible only to its members.
func (s *companyService) FindCompanyByID(ctx context.Context, companyID, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company by ID",
				slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListUserCompanies retrieves all companies a user belongs to
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for user",
			slog.String("user_id", userID))
		return nil, err
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// ListCompanyMembers retrieves the members of a company, visible only to members.
func (s *companyService) ListCompanyMembers(ctx context.Context, companyID, requestingUserID string) ([]domain.CompanyMember, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	members, err := s.companyRepo.ListMembers(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company members",
			slog.String("company_id", companyID))
		return nil, err
	}
	if members == nil {
		return []domain.CompanyMember{}, nil
	}
	return members, nil
}

// CreateCompany creates a new company and makes the creator its admin.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now()
	prefix := req.ReferencePrefix
	if prefix == "" {
		prefix = defaultReferencePrefix
	}

	company := domain.Company{
		CompanyID:       uuid.NewString(),
		Name:            req.Name,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		Postcode:        req.Postcode,
		Phone:           req.Phone,
		Email:           req.Email,
		VATNumber:       req.VATNumber,
		GasSafeNumber:   req.GasSafeNumber,
		ReferencePrefix: prefix,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company",
			slog.String("company_name", req.Name))
		return nil, err
	}

	member := domain.CompanyMember{
		UserID:    creatorUserID,
		CompanyID: company.CompanyID,
		Role:      domain.RoleAdmin,
		JoinedAt:  now,
	}
	if err := s.companyRepo.AddMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to add creator as company admin",
			slog.String("company_id", company.CompanyID),
			slog.String("user_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created",
		slog.String("company_id", company.CompanyID),
		slog.String("created_by", creatorUserID))
	return &company, nil
}

// UpdateCompany updates company details. Admin only.
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.AddressLine1 != nil {
		company.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		company.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.Postcode != nil {
		company.Postcode = *req.Postcode
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.VATNumber != nil {
		company.VATNumber = *req.VATNumber
	}
	if req.GasSafeNumber != nil {
		company.GasSafeNumber = *req.GasSafeNumber
	}
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = requestingUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company",
			slog.String("company_id", companyID))
		return nil, err
	}
	return company, nil
}

// AddUserToCompany adds a user to a company with a specific role. Admin only.
func (s *companyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.CompanyRole) error {
	if err := s.AuthorizeUserAction(ctx, addingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if role != domain.RoleAdmin && role != domain.RoleWorker {
		return fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
	}

	member := domain.CompanyMember{
		UserID:    targetUserID,
		CompanyID: companyID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.companyRepo.AddMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("company_id", companyID),
			slog.String("target_user_id", targetUserID))
		return err
	}

	s.LogInfo(ctx, "User added to company",
		slog.String("company_id", companyID),
		slog.String("target_user_id", targetUserID),
		slog.String("role", string(role)))
	return nil
}

// UpdateUserCompanyRole updates a user's role in a company. Admin only.
func (s *companyService) UpdateUserCompanyRole(ctx context.Context, requestingUserID, targetUserID, companyID string, newRole domain.CompanyRole) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleAdmin); err != nil {
		return err
	}
	if requestingUserID == targetUserID && newRole != domain.RoleAdmin {
		// The last admin demoting themselves would orphan the company.
		members, err := s.companyRepo.ListMembers(ctx, companyID)
		if err != nil {
			return err
		}
		adminCount := 0
		for _, m := range members {
			if m.Role == domain.RoleAdmin {
				adminCount++
			}
		}
		if adminCount <= 1 {
			return fmt.Errorf("%w: cannot demote the only admin of a company", apperrors.ErrValidation)
		}
	}

	if err := s.companyRepo.UpdateMemberRole(ctx, companyID, targetUserID, newRole, requestingUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to update member role",
			slog.String("company_id", companyID),
			slog.String("target_user_id", targetUserID))
		return err
	}

	s.LogInfo(ctx, "Member role updated",
		slog.String("company_id", companyID),
		slog.String("target_user_id", targetUserID),
		slog.String("new_role", string(newRole)))
	return nil
}

// AuthorizeUserAction checks that the user holds at least the required role.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.CompanyRole) error {
	role, err := s.companyRepo.GetMemberRole(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("user %s is not a member of company %s: %w", userID, companyID, apperrors.ErrForbidden)
		}
		return err
	}
	if role == domain.RoleRemoved {
		return fmt.Errorf("user %s was removed from company %s: %w", userID, companyID, apperrors.ErrForbidden)
	}
	if requiredRole == domain.RoleAdmin && role != domain.RoleAdmin {
		return fmt.Errorf("user %s requires %s in company %s: %w", userID, requiredRole, companyID, apperrors.ErrForbidden)
	}
	return nil
}

// ResolveActor returns the user paired with their role in the company.
func (s *companyService) ResolveActor(ctx context.Context, userID, companyID string) (domain.Actor, error) {
	role, err := s.companyRepo.GetMemberRole(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("user %s is not a member of company %s: %w", userID, companyID, apperrors.ErrForbidden)
		}
		return domain.Actor{}, err
	}
	if role == domain.RoleRemoved {
		return domain.Actor{}, fmt.Errorf("user %s was removed from company %s: %w", userID, companyID, apperrors.ErrForbidden)
	}
	return domain.Actor{UserID: userID, Role: role}, nil
}
