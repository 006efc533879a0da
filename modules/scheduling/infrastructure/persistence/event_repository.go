package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrEventNotFound = fmt.Errorf("event not found")
)

const (
	eventFindQuery = `
		SELECT id, name, date, start_time, end_time, location, notes, quick_turn,
			deadline, process_point, column_number, project_id
		FROM events`
)

type EventRepository struct{}

func NewEventRepository() event.Repository {
	return &EventRepository{}
}

func (r *EventRepository) GetAll(ctx context.Context) ([]*event.Event, error) {
	return r.queryEvents(ctx, eventFindQuery+" ORDER BY id")
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	events, err := r.queryEvents(ctx, eventFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return nil, ErrEventNotFound
	}

	return events[0], nil
}

// GetByIDs returns the events that exist out of the requested set. Missing
// ids are simply absent from the result.
func (r *EventRepository) GetByIDs(ctx context.Context, ids []uint) ([]*event.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryEvents(ctx, eventFindQuery+" WHERE id = ANY($1) ORDER BY id", ids)
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) (*event.Event, error) {
	query := `
		INSERT INTO events (name, date, start_time, end_time, location, notes, quick_turn, deadline, process_point, column_number, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
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
		e.Name,
		e.Date,
		mapping.ValueToSQLNullString(e.StartTime),
		mapping.ValueToSQLNullString(e.EndTime),
		mapping.ValueToSQLNullString(e.Location),
		mapping.ValueToSQLNullString(e.Notes),
		e.QuickTurn,
		mapping.ValueToSQLNullString(e.Deadline),
		string(e.ProcessPoint),
		e.ColumnNumber,
		uintPtrToNullInt64(e.ProjectID),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) (*event.Event, error) {
	query := `
		UPDATE events
		SET name = $1, date = $2, start_time = $3, end_time = $4, location = $5, notes = $6,
			quick_turn = $7, deadline = $8, process_point = $9, column_number = $10, project_id = $11
		WHERE id = $12
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		e.Name,
		e.Date,
		mapping.ValueToSQLNullString(e.StartTime),
		mapping.ValueToSQLNullString(e.EndTime),
		mapping.ValueToSQLNullString(e.Location),
		mapping.ValueToSQLNullString(e.Notes),
		e.QuickTurn,
		mapping.ValueToSQLNullString(e.Deadline),
		string(e.ProcessPoint),
		e.ColumnNumber,
		uintPtrToNullInt64(e.ProjectID),
		e.ID,
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, e.ID)
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM events WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *EventRepository) AttachProject(ctx context.Context, id uint, projectID *uint) error {
	query := `UPDATE events SET project_id = $1 WHERE id = $2`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, uintPtrToNullInt64(projectID), id)
	return err
}

func (r *EventRepository) IDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	query := `SELECT id FROM events WHERE project_id = $1 ORDER BY id`
	return queryIDs(ctx, query, projectID)
}

// ListByPersonnel returns the events a crew member is assigned to, optionally
// narrowed to an exact date string.
func (r *EventRepository) ListByPersonnel(ctx context.Context, personnelID uint, date string) ([]*event.Event, error) {
	query := eventFindQuery + `
		JOIN personnel_events pe ON pe.event_id = events.id
		WHERE pe.personnel_id = $1`
	args := []interface{}{personnelID}
	if date != "" {
		query += " AND events.date = $2"
		args = append(args, date)
	}
	query += " ORDER BY events.date, events.start_time"
	return r.queryEvents(ctx, query, args...)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*event.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Date,
			&e.StartTime,
			&e.EndTime,
			&e.Location,
			&e.Notes,
			&e.QuickTurn,
			&e.Deadline,
			&e.ProcessPoint,
			&e.ColumnNumber,
			&e.ProjectID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan event row")
		}
		events = append(events, toDomainEvent(&e))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return events, nil
}
