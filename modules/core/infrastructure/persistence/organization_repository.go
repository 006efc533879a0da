package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrOrganizationNotFound = fmt.Errorf("organization not found")
)

const (
	organizationFindQuery = `SELECT id, name, details, company_id FROM organizations`
)

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func (r *OrganizationRepository) GetAll(ctx context.Context) ([]*organization.Organization, error) {
	return r.queryOrganizations(ctx, organizationFindQuery+" ORDER BY id")
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uint) (*organization.Organization, error) {
	orgs, err := r.queryOrganizations(ctx, organizationFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(orgs) == 0 {
		return nil, ErrOrganizationNotFound
	}

	return orgs[0], nil
}

func (r *OrganizationRepository) Create(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	query := `
		INSERT INTO organizations (name, details, company_id)
		VALUES ($1, $2, $3)
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
		o.Name(),
		mapping.ValueToSQLNullString(o.Details()),
		uintPtrToNullInt64(o.CompanyID()),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *OrganizationRepository) Update(ctx context.Context, o *organization.Organization) (*organization.Organization, error) {
	query := `
		UPDATE organizations
		SET name = $1, details = $2, company_id = $3
		WHERE id = $4
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		o.Name(),
		mapping.ValueToSQLNullString(o.Details()),
		uintPtrToNullInt64(o.CompanyID()),
		o.ID(),
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, o.ID())
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM organizations WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *OrganizationRepository) IDsByCompany(ctx context.Context, companyID uint) ([]uint, error) {
	query := `SELECT id FROM organizations WHERE company_id = $1 ORDER BY id`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, companyID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan organization id")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return ids, nil
}

func (r *OrganizationRepository) queryOrganizations(ctx context.Context, query string, args ...interface{}) ([]*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var orgs []*organization.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Details,
			&o.CompanyID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan organization row")
		}
		orgs = append(orgs, toDomainOrganization(&o))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return orgs, nil
}
