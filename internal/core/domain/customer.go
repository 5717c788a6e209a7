package domain

// Customer represents a customer (or landlord) record owned by one company.
// Customer rows are mutable; jobs and locked documents copy the fields they
// need by value rather than holding a live reference.
type Customer struct {
	CustomerID   string `json:"customerID"` // Primary Key (UUID)
	CompanyID    string `json:"companyID"`  // FK -> companies.company_id
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	IsLandlord   bool   `json:"isLandlord"`
	Notes        string `json:"notes"`
	AuditFields
}

// CustomerSnapshot is the value copy of a customer taken when a job is
// created. Later edits to the customer row do not change it.
type CustomerSnapshot struct {
	CustomerID   string `json:"customerID"` // Kept for traceability only, never re-joined
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
}

// Snapshot copies the customer's current fields into a CustomerSnapshot.
func (c Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		CustomerID:   c.CustomerID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		Postcode:     c.Postcode,
	}
}
