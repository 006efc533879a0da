package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/provisioning/domain/accessrequest"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrAccessRequestNotFound = fmt.Errorf("access request not found")
)

const (
	accessRequestFindQuery = `
		SELECT id, name, email, organization, phone, requested_access, message,
			status, created_at, processed_at, processed_by
		FROM access_requests`
)

type accessRequestRow struct {
	ID              uint
	Name            string
	Email           string
	Organization    string
	Phone           sql.NullString
	RequestedAccess sql.NullString
	Message         sql.NullString
	Status          string
	CreatedAt       time.Time
	ProcessedAt     sql.NullTime
	ProcessedBy     sql.NullInt64
}

type AccessRequestRepository struct{}

func NewAccessRequestRepository() accessrequest.Repository {
	return &AccessRequestRepository{}
}

func (r *AccessRequestRepository) ListPending(ctx context.Context) ([]*accessrequest.AccessRequest, error) {
	return r.queryAccessRequests(ctx, accessRequestFindQuery+" WHERE status = $1 ORDER BY created_at", string(accessrequest.StatusPending))
}

func (r *AccessRequestRepository) GetByID(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) {
	requests, err := r.queryAccessRequests(ctx, accessRequestFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		return nil, ErrAccessRequestNotFound
	}

	return requests[0], nil
}

func (r *AccessRequestRepository) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM access_requests WHERE email = $1 AND status = $2)`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, query, email, string(accessrequest.StatusPending)).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to execute query")
	}
	return exists, nil
}

func (r *AccessRequestRepository) Create(ctx context.Context, req *accessrequest.AccessRequest) (*accessrequest.AccessRequest, error) {
	query := `
		INSERT INTO access_requests (name, email, organization, phone, requested_access, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
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
		req.Name,
		req.Email,
		req.Organization,
		mapping.ValueToSQLNullString(req.Phone),
		mapping.ValueToSQLNullString(req.RequestedAccess),
		mapping.ValueToSQLNullString(req.Message),
		string(req.Status),
		req.CreatedAt,
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// TransitionFromPending is a compare-and-set on status. A request processed
// by a concurrent transaction yields false, never a lost update.
func (r *AccessRequestRepository) TransitionFromPending(ctx context.Context, id uint, to accessrequest.Status, processedAt time.Time, processedBy *uint) (bool, error) {
	query := `
		UPDATE access_requests
		SET status = $1, processed_at = $2, processed_by = $3
		WHERE id = $4 AND status = $5
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var by sql.NullInt64
	if processedBy != nil {
		by = sql.NullInt64{Int64: int64(*processedBy), Valid: true}
	}

	tag, err := tx.Exec(ctx, query, string(to), processedAt, by, id, string(accessrequest.StatusPending))
	if err != nil {
		return false, errors.Wrap(err, "failed to execute query")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AccessRequestRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM access_requests WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *AccessRequestRepository) queryAccessRequests(ctx context.Context, query string, args ...interface{}) ([]*accessrequest.AccessRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var requests []*accessrequest.AccessRequest
	for rows.Next() {
		var row accessRequestRow
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Email,
			&row.Organization,
			&row.Phone,
			&row.RequestedAccess,
			&row.Message,
			&row.Status,
			&row.CreatedAt,
			&row.ProcessedAt,
			&row.ProcessedBy,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan access request row")
		}
		requests = append(requests, toDomainAccessRequest(&row))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return requests, nil
}

func toDomainAccessRequest(row *accessRequestRow) *accessrequest.AccessRequest {
	req := &accessrequest.AccessRequest{
		ID:              row.ID,
		Name:            row.Name,
		Email:           row.Email,
		Organization:    row.Organization,
		Phone:           mapping.SQLNullStringToValue(row.Phone),
		RequestedAccess: mapping.SQLNullStringToValue(row.RequestedAccess),
		Message:         mapping.SQLNullStringToValue(row.Message),
		Status:          accessrequest.Status(row.Status),
		CreatedAt:       row.CreatedAt,
	}
	if row.ProcessedAt.Valid {
		at := row.ProcessedAt.Time
		req.ProcessedAt = &at
	}
	if row.ProcessedBy.Valid {
		by := uint(row.ProcessedBy.Int64)
		req.ProcessedBy = &by
	}
	return req
}
