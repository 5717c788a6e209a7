package dto

import (
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// CreateCustomerRequest defines the data needed to create a new customer.
type CreateCustomerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	IsLandlord   bool   `json:"isLandlord"`
	Notes        string `json:"notes"`
}

// UpdateCustomerRequest defines the data allowed for updating a customer.
type UpdateCustomerRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	Postcode     *string `json:"postcode"`
	IsLandlord   *bool   `json:"isLandlord"`
	Notes        *string `json:"notes"`
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID   string    `json:"customerID"`
	CompanyID    string    `json:"companyID"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2"`
	City         string    `json:"city"`
	Postcode     string    `json:"postcode"`
	IsLandlord   bool      `json:"isLandlord"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:   c.CustomerID,
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		Postcode:     c.Postcode,
		IsLandlord:   c.IsLandlord,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
	}
}

// ToListCustomerResponse converts a slice of domain.Customer to response DTOs.
func ToListCustomerResponse(customers []domain.Customer) []CustomerResponse {
	res := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		res[i] = ToCustomerResponse(&c)
	}
	return res
}
