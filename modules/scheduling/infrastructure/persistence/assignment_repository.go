package persistence

import (
	"context"

	"github.com/relayhq/relay-server/modules/scheduling/domain/assignment"
	"github.com/relayhq/relay-server/pkg/composables"
)

type AssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &AssignmentRepository{}
}

func (r *AssignmentRepository) EventIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error) {
	query := `SELECT event_id FROM personnel_events WHERE personnel_id = $1 ORDER BY event_id`
	return queryIDs(ctx, query, personnelID)
}

func (r *AssignmentRepository) ProjectIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error) {
	query := `SELECT project_id FROM project_personnel WHERE personnel_id = $1 ORDER BY project_id`
	return queryIDs(ctx, query, personnelID)
}

func (r *AssignmentRepository) ShotRequestIDsByPersonnel(ctx context.Context, personnelID uint) ([]uint, error) {
	query := `SELECT shot_request_id FROM personnel_shot_requests WHERE personnel_id = $1 ORDER BY shot_request_id`
	return queryIDs(ctx, query, personnelID)
}

func (r *AssignmentRepository) ShotRequestIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	query := `SELECT shot_request_id FROM event_shot_requests WHERE event_id = $1 ORDER BY shot_request_id`
	return queryIDs(ctx, query, eventID)
}

func (r *AssignmentRepository) ShotRequestIDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	query := `SELECT shot_request_id FROM project_shot_requests WHERE project_id = $1 ORDER BY shot_request_id`
	return queryIDs(ctx, query, projectID)
}

func (r *AssignmentRepository) PersonnelIDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	query := `SELECT personnel_id FROM project_personnel WHERE project_id = $1 ORDER BY personnel_id`
	return queryIDs(ctx, query, projectID)
}

func (r *AssignmentRepository) PersonnelIDsByEvent(ctx context.Context, eventID uint) ([]uint, error) {
	query := `SELECT personnel_id FROM personnel_events WHERE event_id = $1 ORDER BY personnel_id`
	return queryIDs(ctx, query, eventID)
}

func (r *AssignmentRepository) DistinctProjectIDsByEvents(ctx context.Context, eventIDs []uint) ([]uint, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	query := `SELECT DISTINCT project_id FROM events WHERE id = ANY($1) AND project_id IS NOT NULL ORDER BY project_id`
	return queryIDs(ctx, query, eventIDs)
}

func (r *AssignmentRepository) ReplacePersonnelEvents(ctx context.Context, personnelID uint, eventIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM personnel_events WHERE personnel_id = $1`,
		`INSERT INTO personnel_events (personnel_id, event_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		personnelID, eventIDs,
	)
}

func (r *AssignmentRepository) ReplacePersonnelProjects(ctx context.Context, personnelID uint, projectIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM project_personnel WHERE personnel_id = $1`,
		`INSERT INTO project_personnel (personnel_id, project_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		personnelID, projectIDs,
	)
}

func (r *AssignmentRepository) ReplacePersonnelShotRequests(ctx context.Context, personnelID uint, shotRequestIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM personnel_shot_requests WHERE personnel_id = $1`,
		`INSERT INTO personnel_shot_requests (personnel_id, shot_request_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		personnelID, shotRequestIDs,
	)
}

func (r *AssignmentRepository) ReplaceEventShotRequests(ctx context.Context, eventID uint, shotRequestIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM event_shot_requests WHERE event_id = $1`,
		`INSERT INTO event_shot_requests (event_id, shot_request_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		eventID, shotRequestIDs,
	)
}

func (r *AssignmentRepository) ReplaceProjectShotRequests(ctx context.Context, projectID uint, shotRequestIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM project_shot_requests WHERE project_id = $1`,
		`INSERT INTO project_shot_requests (project_id, shot_request_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		projectID, shotRequestIDs,
	)
}

func (r *AssignmentRepository) ReplaceProjectPersonnel(ctx context.Context, projectID uint, personnelIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM project_personnel WHERE project_id = $1`,
		`INSERT INTO project_personnel (project_id, personnel_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		projectID, personnelIDs,
	)
}

func (r *AssignmentRepository) ReplaceEventPersonnel(ctx context.Context, eventID uint, personnelIDs []uint) error {
	return r.replace(ctx,
		`DELETE FROM personnel_events WHERE event_id = $1`,
		`INSERT INTO personnel_events (event_id, personnel_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		eventID, personnelIDs,
	)
}

func (r *AssignmentRepository) LinkEventShotRequest(ctx context.Context, eventID, shotRequestID uint) error {
	query := `INSERT INTO event_shot_requests (event_id, shot_request_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, eventID, shotRequestID)
	return err
}

func (r *AssignmentRepository) LinkProjectShotRequest(ctx context.Context, projectID, shotRequestID uint) error {
	query := `INSERT INTO project_shot_requests (project_id, shot_request_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, projectID, shotRequestID)
	return err
}

// replace swaps the full membership set for the owner side. Runs inside the
// caller's transaction, so delete and inserts land atomically.
func (r *AssignmentRepository) replace(ctx context.Context, deleteQuery, insertQuery string, ownerID uint, memberIDs []uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, deleteQuery, ownerID); err != nil {
		return err
	}

	for _, memberID := range memberIDs {
		if _, err := tx.Exec(ctx, insertQuery, ownerID, memberID); err != nil {
			return err
		}
	}

	return nil
}
