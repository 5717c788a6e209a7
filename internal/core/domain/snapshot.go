package domain

import (
	"fmt"
	"time"

	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
)

// CompanyDetails is the value copy of the issuing company's details taken at
// lock time.
type CompanyDetails struct {
	Name          string `json:"name"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2"`
	City          string `json:"city"`
	Postcode      string `json:"postcode"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	GasSafeNumber string `json:"gasSafeNumber"`
}

// ApplianceInspection records the per-appliance checks carried out for a gas
// safety certificate.
type ApplianceInspection struct {
	Location          string `json:"location"`
	ApplianceType     string `json:"applianceType"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	OperatingPressure string `json:"operatingPressure"`
	SafetyDeviceOK    bool   `json:"safetyDeviceOK"`
	FlueTestPassed    bool   `json:"flueTestPassed"`
	Result            string `json:"result"` // pass / fail / not_tested
	DefectsIdentified string `json:"defectsIdentified,omitempty"`
	RemedialAction    string `json:"remedialAction,omitempty"`
}

// CertificatePayload is the frozen content of an issued gas safety
// certificate. Every field a later reprint needs is copied here by value:
// there are no foreign keys to resolve, so edits to the source company,
// customer or landlord rows after issue have no effect on what this payload
// renders.
type CertificatePayload struct {
	CertificateNumber string                `json:"certificateNumber"`
	JobReference      string                `json:"jobReference,omitempty"`
	Company           CompanyDetails        `json:"company"`
	Customer          CustomerSnapshot      `json:"customer"`
	Landlord          *CustomerSnapshot     `json:"landlord,omitempty"`
	Appliances        []ApplianceInspection `json:"appliances"`
	EngineerName      string                `json:"engineerName"`
	Signature         string                `json:"signature"` // Captured signature image reference
	Totals            *DocumentTotals       `json:"totals,omitempty"`
	IssuedAt          time.Time             `json:"issuedAt"`
	NextDueDate       *time.Time            `json:"nextDueDate,omitempty"`
}

// Details copies the company's current fields into a CompanyDetails value.
func (c Company) Details() CompanyDetails {
	return CompanyDetails{
		Name:          c.Name,
		AddressLine1:  c.AddressLine1,
		AddressLine2:  c.AddressLine2,
		City:          c.City,
		Postcode:      c.Postcode,
		Phone:         c.Phone,
		Email:         c.Email,
		GasSafeNumber: c.GasSafeNumber,
	}
}

// Validate checks that every field a certificate legally requires is present
// before the payload may be persisted. A partial certificate must never be
// written.
func (p CertificatePayload) Validate() error {
	switch {
	case p.Signature == "":
		return fmt.Errorf("%w: signature is required", apperrors.ErrIncompleteSnapshot)
	case p.Company.Name == "":
		return fmt.Errorf("%w: company name is required", apperrors.ErrIncompleteSnapshot)
	case p.Company.GasSafeNumber == "":
		return fmt.Errorf("%w: company gas safe number is required", apperrors.ErrIncompleteSnapshot)
	case p.Customer.Name == "":
		return fmt.Errorf("%w: customer name is required", apperrors.ErrIncompleteSnapshot)
	case p.EngineerName == "":
		return fmt.Errorf("%w: engineer name is required", apperrors.ErrIncompleteSnapshot)
	case len(p.Appliances) == 0:
		return fmt.Errorf("%w: at least one appliance inspection is required", apperrors.ErrIncompleteSnapshot)
	}
	return nil
}
