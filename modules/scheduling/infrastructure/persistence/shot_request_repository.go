package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrShotRequestNotFound = fmt.Errorf("shot request not found")
)

const (
	shotRequestFindQuery = `SELECT id, request, notes, quick_turn, start_time, end_time, deadline, process_point FROM shot_requests`
)

type ShotRequestRepository struct{}

func NewShotRequestRepository() shotrequest.Repository {
	return &ShotRequestRepository{}
}

func (r *ShotRequestRepository) GetAll(ctx context.Context) ([]*shotrequest.ShotRequest, error) {
	return r.queryShotRequests(ctx, shotRequestFindQuery+" ORDER BY id")
}

func (r *ShotRequestRepository) GetByID(ctx context.Context, id uint) (*shotrequest.ShotRequest, error) {
	requests, err := r.queryShotRequests(ctx, shotRequestFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		return nil, ErrShotRequestNotFound
	}

	return requests[0], nil
}

func (r *ShotRequestRepository) Exists(ctx context.Context, id uint) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM shot_requests WHERE id = $1)`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to execute query")
	}
	return exists, nil
}

func (r *ShotRequestRepository) Create(ctx context.Context, s *shotrequest.ShotRequest) (*shotrequest.ShotRequest, error) {
	query := `
		INSERT INTO shot_requests (request, notes, quick_turn, start_time, end_time, deadline, process_point)
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
		s.Request,
		mapping.ValueToSQLNullString(s.Notes),
		s.QuickTurn,
		mapping.ValueToSQLNullString(s.StartTime),
		mapping.ValueToSQLNullString(s.EndTime),
		mapping.ValueToSQLNullString(s.Deadline),
		string(s.ProcessPoint),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *ShotRequestRepository) Update(ctx context.Context, s *shotrequest.ShotRequest) (*shotrequest.ShotRequest, error) {
	query := `
		UPDATE shot_requests
		SET request = $1, notes = $2, quick_turn = $3, start_time = $4, end_time = $5, deadline = $6, process_point = $7
		WHERE id = $8
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		s.Request,
		mapping.ValueToSQLNullString(s.Notes),
		s.QuickTurn,
		mapping.ValueToSQLNullString(s.StartTime),
		mapping.ValueToSQLNullString(s.EndTime),
		mapping.ValueToSQLNullString(s.Deadline),
		string(s.ProcessPoint),
		s.ID,
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, s.ID)
}

func (r *ShotRequestRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM shot_requests WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *ShotRequestRepository) queryShotRequests(ctx context.Context, query string, args ...interface{}) ([]*shotrequest.ShotRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var requests []*shotrequest.ShotRequest
	for rows.Next() {
		var s models.ShotRequest
		if err := rows.Scan(
			&s.ID,
			&s.Request,
			&s.Notes,
			&s.QuickTurn,
			&s.StartTime,
			&s.EndTime,
			&s.Deadline,
			&s.ProcessPoint,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan shot request row")
		}
		requests = append(requests, toDomainShotRequest(&s))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return requests, nil
}
