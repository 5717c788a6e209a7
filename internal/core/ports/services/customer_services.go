package services

import (
	"context"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/dto"
)

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	// GetCustomer retrieves a customer. The requesting user must be a member
	// of the owning company.
	GetCustomer(ctx context.Context, companyID, customerID, requestingUserID string) (*domain.Customer, error)

	// ListCustomers retrieves a paginated list of a company's customers.
	ListCustomers(ctx context.Context, companyID string, limit, offset int, requestingUserID string) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	// CreateCustomer persists a new customer for a company.
	CreateCustomer(ctx context.Context, companyID string, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error)

	// UpdateCustomer updates an existing customer. Edits never propagate into
	// customer snapshots already copied onto jobs or locked documents.
	UpdateCustomer(ctx context.Context, companyID, customerID string, req dto.UpdateCustomerRequest, requestingUserID string) (*domain.Customer, error)
}

// CustomerSvcFacade combines all customer-related service interfaces.
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
}
