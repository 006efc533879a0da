package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
)

var (
	ErrCompanyNotFound = fmt.Errorf("company not found")
)

const (
	companyFindQuery = `SELECT id, name, is_super_admin, created_at, updated_at FROM companies`
)

type CompanyRepository struct{}

func NewCompanyRepository() company.Repository {
	return &CompanyRepository{}
}

func (r *CompanyRepository) GetAll(ctx context.Context) ([]*company.Company, error) {
	return r.queryCompanies(ctx, companyFindQuery+" ORDER BY id")
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uint) (*company.Company, error) {
	companies, err := r.queryCompanies(ctx, companyFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(companies) == 0 {
		return nil, ErrCompanyNotFound
	}

	return companies[0], nil
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*company.Company, error) {
	companies, err := r.queryCompanies(ctx, companyFindQuery+" WHERE name = $1", name)
	if err != nil {
		return nil, err
	}

	if len(companies) == 0 {
		return nil, ErrCompanyNotFound
	}

	return companies[0], nil
}

// ExistsOtherSuperAdmin reports whether a super-admin company other than the
// given one exists. Pass zero to consider all companies.
func (r *CompanyRepository) ExistsOtherSuperAdmin(ctx context.Context, excludeID uint) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM companies WHERE is_super_admin AND id <> $1)`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, query, excludeID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check super admin companies")
	}
	return exists, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	query := `
		INSERT INTO companies (name, is_super_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var id uint
	if err := tx.QueryRow(
		ctx,
		query,
		c.Name(),
		c.IsSuperAdmin(),
		c.CreatedAt(),
		c.UpdatedAt(),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) (*company.Company, error) {
	query := `
		UPDATE companies
		SET name = $1, is_super_admin = $2, updated_at = $3
		WHERE id = $4
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, query, c.Name(), c.IsSuperAdmin(), c.UpdatedAt(), c.ID()); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, c.ID())
}

func (r *CompanyRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM companies WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *CompanyRepository) queryCompanies(ctx context.Context, query string, args ...interface{}) ([]*company.Company, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var companies []*company.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.IsSuperAdmin,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan company row")
		}
		companies = append(companies, toDomainCompany(&c))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return companies, nil
}
