package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/mapping"
)

var (
	ErrImageNotFound = fmt.Errorf("image not found")
)

const (
	imageFindQuery = `
		SELECT id, filename, file_path, thumbnail_path, client_select, favorite,
			upload_date, file_size, event_id, shot_request_id
		FROM images`
)

type ImageRepository struct{}

func NewImageRepository() image.Repository {
	return &ImageRepository{}
}

func (r *ImageRepository) GetAll(ctx context.Context) ([]*image.Image, error) {
	return r.queryImages(ctx, imageFindQuery+" ORDER BY id")
}

func (r *ImageRepository) GetByID(ctx context.Context, id uint) (*image.Image, error) {
	images, err := r.queryImages(ctx, imageFindQuery+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, ErrImageNotFound
	}

	return images[0], nil
}

func (r *ImageRepository) Create(ctx context.Context, img *image.Image) (*image.Image, error) {
	query := `
		INSERT INTO images (filename, file_path, thumbnail_path, client_select, favorite, upload_date, file_size, event_id, shot_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
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
		img.Filename,
		mapping.ValueToSQLNullString(img.FilePath),
		mapping.ValueToSQLNullString(img.ThumbnailPath),
		img.ClientSelect,
		img.Favorite,
		mapping.ValueToSQLNullString(img.UploadDate),
		mapping.PointerToSQLNullInt64(img.FileSize),
		uintPtrToNullInt64(img.EventID),
		uintPtrToNullInt64(img.ShotRequestID),
	).Scan(&id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *ImageRepository) Update(ctx context.Context, img *image.Image) (*image.Image, error) {
	query := `
		UPDATE images
		SET filename = $1, file_path = $2, thumbnail_path = $3, client_select = $4, favorite = $5,
			upload_date = $6, file_size = $7, event_id = $8, shot_request_id = $9
		WHERE id = $10
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		query,
		img.Filename,
		mapping.ValueToSQLNullString(img.FilePath),
		mapping.ValueToSQLNullString(img.ThumbnailPath),
		img.ClientSelect,
		img.Favorite,
		mapping.ValueToSQLNullString(img.UploadDate),
		mapping.PointerToSQLNullInt64(img.FileSize),
		uintPtrToNullInt64(img.EventID),
		uintPtrToNullInt64(img.ShotRequestID),
		img.ID,
	); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, img.ID)
}

func (r *ImageRepository) Delete(ctx context.Context, id uint) error {
	query := `DELETE FROM images WHERE id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, id)
	return err
}

func (r *ImageRepository) DeleteByEvent(ctx context.Context, eventID uint) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM images WHERE event_id = $1`, eventID)
}

func (r *ImageRepository) DeleteByEvents(ctx context.Context, eventIDs []uint) (int64, error) {
	if len(eventIDs) == 0 {
		return 0, nil
	}
	return r.deleteWhere(ctx, `DELETE FROM images WHERE event_id = ANY($1)`, eventIDs)
}

func (r *ImageRepository) DeleteByShotRequest(ctx context.Context, shotRequestID uint) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM images WHERE shot_request_id = $1`, shotRequestID)
}

func (r *ImageRepository) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	query := `SELECT COUNT(*) FROM images WHERE event_id = $1`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to execute query")
	}
	return count, nil
}

func (r *ImageRepository) deleteWhere(ctx context.Context, query string, arg interface{}) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, query, arg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to execute query")
	}
	return tag.RowsAffected(), nil
}

func (r *ImageRepository) queryImages(ctx context.Context, query string, args ...interface{}) ([]*image.Image, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var images []*image.Image
	for rows.Next() {
		var m models.Image
		if err := rows.Scan(
			&m.ID,
			&m.Filename,
			&m.FilePath,
			&m.ThumbnailPath,
			&m.ClientSelect,
			&m.Favorite,
			&m.UploadDate,
			&m.FileSize,
			&m.EventID,
			&m.ShotRequestID,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan image row")
		}
		images = append(images, toDomainImage(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return images, nil
}
