package models

// Customer represents a customer row.
type Customer struct {
	CustomerID   string `db:"customer_id"`
	CompanyID    string `db:"company_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	AddressLine1 string `db:"address_line1"`
	AddressLine2 string `db:"address_line2"`
	City         string `db:"city"`
	Postcode     string `db:"postcode"`
	IsLandlord   bool   `db:"is_landlord"`
	Notes        string `db:"notes"`
	AuditFields
}
