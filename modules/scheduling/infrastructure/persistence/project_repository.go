package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrProjectNotFound = fmt.Errorf("project not found")
)

const (
	projectFindQuery = `SELECT id, name, location, start_date, end_date, deliver_date, organization_id FROM projects`
)

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]*project.Project, error) {
	return r.queryProjects(ctx, projectFindQuery+" ORDER BY id")
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*project.Project, error) {
	projects, err := r.queryProjects(ctx, projectFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 {
		return nil, ErrProjectNotFound
	}

	return projects[0], nil
}

func (r *ProjectRepository) Exists(ctx context.Context, id uint) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`
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

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	query := `
		INSERT INTO projects (name, location, start_date, end_date, deliver_date, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6)
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
		p.Name,
		p.Location,
		p.StartDate,
		p.EndDate,
		mapping.ValueToSQLNullString(p.DeliverDate),
		uintPtrToNullInt64(p.OrganizationID),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) (*project.Project, error) {
	query := `
		UPDATE projects
		SET name = $1, location = $2, start_date = $3, end_date = $4, deliver_date = $5, organization_id = $6
		WHERE id = $7
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		p.Name,
		p.Location,
		p.StartDate,
		p.EndDate,
		mapping.ValueToSQLNullString(p.DeliverDate),
		uintPtrToNullInt64(p.OrganizationID),
		p.ID,
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, p.ID)
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM projects WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *ProjectRepository) AttachOrganization(ctx context.Context, id uint, organizationID *uint) error {
	query := `UPDATE projects SET organization_id = $1 WHERE id = $2`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, uintPtrToNullInt64(organizationID), id)
	return err
}

func (r *ProjectRepository) IDsByOrganization(ctx context.Context, organizationID uint) ([]uint, error) {
	query := `SELECT id FROM projects WHERE organization_id = $1 ORDER BY id`
	return queryIDs(ctx, query, organizationID)
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Location,
			&p.StartDate,
			&p.EndDate,
			&p.DeliverDate,
			&p.OrganizationID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan project row")
		}
		projects = append(projects, toDomainProject(&p))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return projects, nil
}

// queryIDs runs a single-column id query. Shared by the repositories in this
// package.
func queryIDs(ctx context.Context, query string, args ...interface{}) ([]uint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan id")
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return ids, nil
}
