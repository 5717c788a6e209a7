package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	portssvc "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/services"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// customerService implements the CustomerSvcFacade interface
type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new customer service with the provided dependencies
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.CustomerSvcFacade {
	return &customerService{
		BaseService:  BaseService{CompanyAuthorizer: authorizer},
		customerRepo: customerRepo,
	}
}

// Ensure customerService implements the CustomerSvcFacade interface
var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// GetCustomer retrieves a customer, visible only to members of the owning company.
func (s *customerService) GetCustomer(ctx context.Context, companyID, customerID, requestingUserID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return customer, nil
}

// ListCustomers retrieves a paginated list of a company's customers.
func (s *customerService) ListCustomers(ctx context.Context, companyID string, limit, offset int, requestingUserID string) ([]domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.ListCustomers(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers", slog.String("company_id", companyID))
		return nil, err
	}
	if customers == nil {
		return []domain.Customer{}, nil
	}
	return customers, nil
}

// CreateCustomer persists a new customer for a company.
func (s *customerService) CreateCustomer(ctx context.Context, companyID string, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}

	now := time.Now()
	customer := domain.Customer{
		CustomerID:   uuid.NewString(),
		CompanyID:    companyID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		Postcode:     req.Postcode,
		IsLandlord:   req.IsLandlord,
		Notes:        req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Customer created",
		slog.String("customer_id", customer.CustomerID),
		slog.String("company_id", companyID))
	return &customer, nil
}

// UpdateCustomer updates an existing customer. Edits never propagate into
// snapshots already copied onto jobs or locked documents.
func (s *customerService) UpdateCustomer(ctx context.Context, companyID, customerID string, req dto.UpdateCustomerRequest, requestingUserID string) (*domain.Customer, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.RoleWorker); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		customer.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		customer.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.Postcode != nil {
		customer.Postcode = *req.Postcode
	}
	if req.IsLandlord != nil {
		customer.IsLandlord = *req.IsLandlord
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	customer.LastUpdatedAt = time.Now()
	customer.LastUpdatedBy = requestingUserID

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		s.LogError(ctx, err, "Failed to update customer", slog.String("customer_id", customerID))
		return nil, err
	}
	return customer, nil
}
