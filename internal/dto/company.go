package dto

import (
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

// CreateCompanyRequest defines the data needed to create a new company.
type CreateCompanyRequest struct {
	Name            string `json:"name" binding:"required"`
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2"`
	City            string `json:"city"`
	Postcode        string `json:"postcode"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	VATNumber       string `json:"vatNumber"`
	GasSafeNumber   string `json:"gasSafeNumber"`
	ReferencePrefix string `json:"referencePrefix"` // Defaults to "TF" when empty
}

// UpdateCompanyRequest defines the data allowed for updating a company.
// Use pointers to distinguish omitted fields from zero values.
type UpdateCompanyRequest struct {
	Name          *string `json:"name"`
	AddressLine1  *string `json:"addressLine1"`
	AddressLine2  *string `json:"addressLine2"`
	City          *string `json:"city"`
	Postcode      *string `json:"postcode"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	VATNumber     *string `json:"vatNumber"`
	GasSafeNumber *string `json:"gasSafeNumber"`
}

// AddMemberRequest adds a user to a company with a role.
type AddMemberRequest struct {
	UserID string             `json:"userID" binding:"required"`
	Role   domain.CompanyRole `json:"role" binding:"required,oneof=ADMIN WORKER"`
}

// UpdateMemberRoleRequest changes a member's role.
type UpdateMemberRoleRequest struct {
	Role domain.CompanyRole `json:"role" binding:"required,oneof=ADMIN WORKER REMOVED"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID       string    `json:"companyID"`
	Name            string    `json:"name"`
	AddressLine1    string    `json:"addressLine1"`
	AddressLine2    string    `json:"addressLine2"`
	City            string    `json:"city"`
	Postcode        string    `json:"postcode"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	VATNumber       string    `json:"vatNumber"`
	GasSafeNumber   string    `json:"gasSafeNumber"`
	ReferencePrefix string    `json:"referencePrefix"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		AddressLine1:    c.AddressLine1,
		AddressLine2:    c.AddressLine2,
		City:            c.City,
		Postcode:        c.Postcode,
		Phone:           c.Phone,
		Email:           c.Email,
		VATNumber:       c.VATNumber,
		GasSafeNumber:   c.GasSafeNumber,
		ReferencePrefix: c.ReferencePrefix,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
	}
}

// ToListCompanyResponse converts a slice of domain.Company to response DTOs.
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	res := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		res[i] = ToCompanyResponse(&c)
	}
	return res
}

// MemberResponse defines the data returned for a company member.
type MemberResponse struct {
	UserID   string             `json:"userID"`
	UserName string             `json:"userName"`
	Role     domain.CompanyRole `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
}

// ToListMemberResponse converts domain members to response DTOs.
func ToListMemberResponse(members []domain.CompanyMember) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i, m := range members {
		res[i] = MemberResponse{
			UserID:   m.UserID,
			UserName: m.UserName,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		}
	}
	return res
}

// CounterValuesResponse reports the last allocated value of each sequence
// counter, keyed by counter name.
type CounterValuesResponse struct {
	Counters map[string]int64 `json:"counters"`
}
