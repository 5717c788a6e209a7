package mapping

import (
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
)

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		AddressLine1:    d.AddressLine1,
		AddressLine2:    d.AddressLine2,
		City:            d.City,
		Postcode:        d.Postcode,
		Phone:           d.Phone,
		Email:           d.Email,
		VATNumber:       d.VATNumber,
		GasSafeNumber:   d.GasSafeNumber,
		ReferencePrefix: d.ReferencePrefix,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a model Company to a domain Company
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		AddressLine1:    m.AddressLine1,
		AddressLine2:    m.AddressLine2,
		City:            m.City,
		Postcode:        m.Postcode,
		Phone:           m.Phone,
		Email:           m.Email,
		VATNumber:       m.VATNumber,
		GasSafeNumber:   m.GasSafeNumber,
		ReferencePrefix: m.ReferencePrefix,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCompanySlice converts a slice of model Companies to domain Companies
func ToDomainCompanySlice(ms []models.Company) []domain.Company {
	ds := make([]domain.Company, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCompany(m)
	}
	return ds
}
