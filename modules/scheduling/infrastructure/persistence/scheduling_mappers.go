package persistence

import (
	"database/sql"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence/models"
	"github.com/relayhq/relay-server/pkg/mapping"
)

func nullInt64ToUintPtr(v sql.NullInt64) *uint {
	if !v.Valid {
		return nil
	}
	id := uint(v.Int64)
	return &id
}

func uintPtrToNullInt64(v *uint) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toDomainProject(m *models.Project) *project.Project {
	return &project.Project{
		ID:             m.ID,
		Name:           m.Name,
		Location:       m.Location,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		DeliverDate:    mapping.SQLNullStringToValue(m.DeliverDate),
		OrganizationID: nullInt64ToUintPtr(m.OrganizationID),
	}
}

func toDomainEvent(m *models.Event) *event.Event {
	return &event.Event{
		ID:           m.ID,
		Name:         m.Name,
		Date:         m.Date,
		StartTime:    mapping.SQLNullStringToValue(m.StartTime),
		EndTime:      mapping.SQLNullStringToValue(m.EndTime),
		Location:     mapping.SQLNullStringToValue(m.Location),
		Notes:        mapping.SQLNullStringToValue(m.Notes),
		QuickTurn:    m.QuickTurn,
		Deadline:     mapping.SQLNullStringToValue(m.Deadline),
		ProcessPoint: process.Point(m.ProcessPoint),
		ColumnNumber: m.ColumnNumber,
		ProjectID:    nullInt64ToUintPtr(m.ProjectID),
	}
}

func toDomainShotRequest(m *models.ShotRequest) *shotrequest.ShotRequest {
	return &shotrequest.ShotRequest{
		ID:           m.ID,
		Request:      m.Request,
		Notes:        mapping.SQLNullStringToValue(m.Notes),
		QuickTurn:    m.QuickTurn,
		StartTime:    mapping.SQLNullStringToValue(m.StartTime),
		EndTime:      mapping.SQLNullStringToValue(m.EndTime),
		Deadline:     mapping.SQLNullStringToValue(m.Deadline),
		ProcessPoint: process.Point(m.ProcessPoint),
	}
}

func toDomainImage(m *models.Image) *image.Image {
	return &image.Image{
		ID:            m.ID,
		Filename:      m.Filename,
		FilePath:      mapping.SQLNullStringToValue(m.FilePath),
		ThumbnailPath: mapping.SQLNullStringToValue(m.ThumbnailPath),
		ClientSelect:  m.ClientSelect,
		Favorite:      m.Favorite,
		UploadDate:    mapping.SQLNullStringToValue(m.UploadDate),
		FileSize:      mapping.SQLNullInt64ToPointer(m.FileSize),
		EventID:       nullInt64ToUintPtr(m.EventID),
		ShotRequestID: nullInt64ToUintPtr(m.ShotRequestID),
	}
}
