package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
)

var (
	ErrUserNotFound = fmt.Errorf("user not found")
)

const (
	userFindQuery = `SELECT id, name, email, password_hash, access, avatar, company_id, organization_id FROM users`
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	return r.queryUsers(ctx, userFindQuery+" ORDER BY id")
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	return users[0], nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := r.queryUsers(ctx, userFindQuery+" WHERE email = $1", email)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	return users[0], nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, access, avatar, company_id, organization_id)
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
		u.Name(),
		u.Email(),
		u.PasswordHash(),
		string(u.Access()),
		u.Avatar(),
		uintPtrToNullInt64(u.CompanyID()),
		uintPtrToNullInt64(u.OrganizationID()),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, access = $4, avatar = $5, company_id = $6, organization_id = $7
		WHERE id = $8
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		u.Name(),
		u.Email(),
		u.PasswordHash(),
		string(u.Access()),
		u.Avatar(),
		uintPtrToNullInt64(u.CompanyID()),
		uintPtrToNullInt64(u.OrganizationID()),
		u.ID(),
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, u.ID())
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM users WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

// DetachCompany clears the company link for every user in the company and
// reports how many rows were touched. Used during company deletion, where
// user accounts survive the tenant.
func (r *UserRepository) DetachCompany(ctx context.Context, companyID uint) (int64, error) {
	query := `UPDATE users SET company_id = NULL WHERE company_id = $1`
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

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.Access,
			&u.Avatar,
			&u.CompanyID,
			&u.OrganizationID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		users = append(users, toDomainUser(&u))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return users, nil
}
