package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrPersonnelNotFound = fmt.Errorf("personnel not found")
)

const (
	personnelFindQuery = `SELECT id, name, email, phone, role, avatar, company_id, user_id FROM personnels`
)

type PersonnelRepository struct{}

func NewPersonnelRepository() personnel.Repository {
	return &PersonnelRepository{}
}

func (r *PersonnelRepository) GetAll(ctx context.Context) ([]*personnel.Personnel, error) {
	return r.queryPersonnels(ctx, personnelFindQuery+" ORDER BY id")
}

func (r *PersonnelRepository) GetByID(ctx context.Context, id uint) (*personnel.Personnel, error) {
	personnels, err := r.queryPersonnels(ctx, personnelFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(personnels) == 0 {
		return nil, ErrPersonnelNotFound
	}

	return personnels[0], nil
}

func (r *PersonnelRepository) GetByUserID(ctx context.Context, userID uint) (*personnel.Personnel, error) {
	personnels, err := r.queryPersonnels(ctx, personnelFindQuery+" WHERE user_id = $1", userID)
	if err != nil {
		return nil, err
	}

	if len(personnels) == 0 {
		return nil, ErrPersonnelNotFound
	}

	return personnels[0], nil
}

func (r *PersonnelRepository) Create(ctx context.Context, p *personnel.Personnel) (*personnel.Personnel, error) {
	query := `
		INSERT INTO personnels (name, email, phone, role, avatar, company_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
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
		p.Name(),
		mapping.ValueToSQLNullString(p.Email()),
		mapping.ValueToSQLNullString(p.Phone()),
		mapping.ValueToSQLNullString(p.Role()),
		mapping.ValueToSQLNullString(p.Avatar()),
		uintPtrToNullInt64(p.CompanyID()),
		uintPtrToNullInt64(p.UserID()),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *PersonnelRepository) Update(ctx context.Context, p *personnel.Personnel) (*personnel.Personnel, error) {
	query := `
		UPDATE personnels
		SET name = $1, email = $2, phone = $3, role = $4, avatar = $5, company_id = $6, user_id = $7
		WHERE id = $8
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		p.Name(),
		mapping.ValueToSQLNullString(p.Email()),
		mapping.ValueToSQLNullString(p.Phone()),
		mapping.ValueToSQLNullString(p.Role()),
		mapping.ValueToSQLNullString(p.Avatar()),
		uintPtrToNullInt64(p.CompanyID()),
		uintPtrToNullInt64(p.UserID()),
		p.ID(),
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, p.ID())
}

func (r *PersonnelRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM personnels WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *PersonnelRepository) DeleteByCompany(ctx context.Context, companyID uint) (int64, error) {
	query := `DELETE FROM personnels WHERE company_id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, query, companyID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to execute query")
	}
	return tag.RowsAffected(), nil
}

func (r *PersonnelRepository) queryPersonnels(ctx context.Context, query string, args ...interface{}) ([]*personnel.Personnel, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var personnels []*personnel.Personnel
	for rows.Next() {
		var p models.Personnel
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Email,
			&p.Phone,
			&p.Role,
			&p.Avatar,
			&p.CompanyID,
			&p.UserID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan personnel row")
		}
		personnels = append(personnels, toDomainPersonnel(&p))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return personnels, nil
}
