package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tradeflowhq/tradeflow_backend/internal/apperrors"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
	portsrepo "github.com/tradeflowhq/tradeflow_backend/internal/core/ports/repositories"
	"github.com/tradeflowhq/tradeflow_backend/internal/models"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const fullCompanySelectQuery = `
	SELECT c.company_id, c.name, c.address_line1, c.address_line2, c.city, c.postcode,
	       c.phone, c.email, c.vat_number, c.gas_safe_number, c.reference_prefix, c.is_active,
	       c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
	FROM companies c
`

// getCompanies executes the shared select with an optional filter clause and
// maps the rows to domain companies.
func (r *PgxCompanyRepository) getCompanies(ctx context.Context, filterQuery string, args ...interface{}) ([]domain.Company, error) {
	query := fullCompanySelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	modelCompanies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Company])
	if err != nil {
		return nil, fmt.Errorf("failed to collect company rows: %w", err)
	}
	return mapping.ToDomainCompanySlice(modelCompanies), nil
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	companies, err := r.getCompanies(ctx, " WHERE c.company_id = $1;", companyID)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &companies[0], nil
}

func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	return r.getCompanies(ctx, `
		JOIN company_members cm ON cm.company_id = c.company_id
		WHERE cm.user_id = $1 AND cm.role != $2
		ORDER BY c.name ASC;`,
		userID, string(domain.RoleRemoved))
}

func (r *PgxCompanyRepository) GetMemberRole(ctx context.Context, companyID, userID string) (domain.CompanyRole, error) {
	query := `
		SELECT role
		FROM company_members
		WHERE company_id = $1 AND user_id = $2;
	`
	var role string
	err := r.Pool.QueryRow(ctx, query, companyID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to get role for user %s in company %s: %w", userID, companyID, err)
	}
	return domain.CompanyRole(role), nil
}

func (r *PgxCompanyRepository) ListMembers(ctx context.Context, companyID string) ([]domain.CompanyMember, error) {
	query := `
		SELECT cm.user_id, u.name, cm.company_id, cm.role, cm.joined_at
		FROM company_members cm
		JOIN users u ON u.user_id = cm.user_id
		WHERE cm.company_id = $1 AND cm.role != $2
		ORDER BY cm.joined_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, string(domain.RoleRemoved))
	if err != nil {
		return nil, fmt.Errorf("failed to query members of company %s: %w", companyID, err)
	}
	defer rows.Close()

	var members []domain.CompanyMember
	for rows.Next() {
		var m domain.CompanyMember
		var role string
		if err := rows.Scan(&m.UserID, &m.UserName, &m.CompanyID, &role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company member row: %w", err)
		}
		m.Role = domain.CompanyRole(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating company member rows: %w", err)
	}
	return members, nil
}

func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	modelCompany := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (company_id, name, address_line1, address_line2, city, postcode,
		                       phone, email, vat_number, gas_safe_number, reference_prefix, is_active,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.AddressLine1,
		modelCompany.AddressLine2,
		modelCompany.City,
		modelCompany.Postcode,
		modelCompany.Phone,
		modelCompany.Email,
		modelCompany.VATNumber,
		modelCompany.GasSafeNumber,
		modelCompany.ReferencePrefix,
		modelCompany.IsActive,
		modelCompany.CreatedAt,
		modelCompany.CreatedBy,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("company with ID %s already exists", company.CompanyID))
		}
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	modelCompany := mapping.ToModelCompany(company)
	query := `
		UPDATE companies SET
			name = $2,
			address_line1 = $3,
			address_line2 = $4,
			city = $5,
			postcode = $6,
			phone = $7,
			email = $8,
			vat_number = $9,
			gas_safe_number = $10,
			reference_prefix = $11,
			is_active = $12,
			last_updated_at = $13,
			last_updated_by = $14
		WHERE company_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelCompany.CompanyID,
		modelCompany.Name,
		modelCompany.AddressLine1,
		modelCompany.AddressLine2,
		modelCompany.City,
		modelCompany.Postcode,
		modelCompany.Phone,
		modelCompany.Email,
		modelCompany.VATNumber,
		modelCompany.GasSafeNumber,
		modelCompany.ReferencePrefix,
		modelCompany.IsActive,
		modelCompany.LastUpdatedAt,
		modelCompany.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update company %s: %w", company.CompanyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCompanyRepository) AddMember(ctx context.Context, member domain.CompanyMember) error {
	// Upsert so re-adding a previously removed user reactivates the row.
	query := `
		INSERT INTO company_members (company_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, user_id) DO UPDATE SET
			role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query, member.CompanyID, member.UserID, string(member.Role), member.JoinedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationFailedError("company or user does not exist")
		}
		return fmt.Errorf("failed to add member %s to company %s: %w", member.UserID, member.CompanyID, err)
	}
	return nil
}

func (r *PgxCompanyRepository) UpdateMemberRole(ctx context.Context, companyID, userID string, role domain.CompanyRole, updatedBy string, now time.Time) error {
	query := `
		UPDATE company_members SET
			role = $3
		WHERE company_id = $1 AND user_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, userID, string(role))
	if err != nil {
		return fmt.Errorf("failed to update role of user %s in company %s: %w", userID, companyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
