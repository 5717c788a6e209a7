package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils/mapping"
)

type PgxCustomerRepository struct {
	BaseRepository
}

func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const fullCustomerSelectQuery = `
	SELECT customer_id, company_id, name, email, phone, address_line1, address_line2,
	       city, postcode, is_landlord, notes,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM customers
`

func (r *PgxCustomerRepository) getCustomers(ctx context.Context, filterQuery string, args ...interface{}) ([]domain.Customer, error) {
	query := fullCustomerSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	modelCustomers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		return nil, fmt.Errorf("failed to collect customer rows: %w", err)
	}
	return mapping.ToDomainCustomerSlice(modelCustomers), nil
}

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customers, err := r.getCustomers(ctx, " WHERE customer_id = $1;", customerID)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &customers[0], nil
}

func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, companyID string, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return r.getCustomers(ctx, " WHERE company_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3;", companyID, limit, offset)
}

func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	modelCustomer := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (customer_id, company_id, name, email, phone, address_line1, address_line2,
		                       city, postcode, is_landlord, notes,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCustomer.CustomerID,
		modelCustomer.CompanyID,
		modelCustomer.Name,
		modelCustomer.Email,
		modelCustomer.Phone,
		modelCustomer.AddressLine1,
		modelCustomer.AddressLine2,
		modelCustomer.City,
		modelCustomer.Postcode,
		modelCustomer.IsLandlord,
		modelCustomer.Notes,
		modelCustomer.CreatedAt,
		modelCustomer.CreatedBy,
		modelCustomer.LastUpdatedAt,
		modelCustomer.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("customer with ID %s already exists", customer.CustomerID))
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationFailedError(fmt.Sprintf("company %s does not exist", customer.CompanyID))
		}
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	modelCustomer := mapping.ToModelCustomer(customer)
	query := `
		UPDATE customers SET
			name = $2,
			email = $3,
			phone = $4,
			address_line1 = $5,
			address_line2 = $6,
			city = $7,
			postcode = $8,
			is_landlord = $9,
			notes = $10,
			last_updated_at = $11,
			last_updated_by = $12
		WHERE customer_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelCustomer.CustomerID,
		modelCustomer.Name,
		modelCustomer.Email,
		modelCustomer.Phone,
		modelCustomer.AddressLine1,
		modelCustomer.AddressLine2,
		modelCustomer.City,
		modelCustomer.Postcode,
		modelCustomer.IsLandlord,
		modelCustomer.Notes,
		modelCustomer.LastUpdatedAt,
		modelCustomer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", customer.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
