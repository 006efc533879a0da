// Package dtos holds the wire shapes of the scheduling API.
package dtos

import (
	"github.com/go-playground/validator/v10"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
)

var Validate = validator.New()

type ProjectResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DeliverDate    string `json:"deliver_date,omitempty"`
	OrganizationID *uint  `json:"organization_id"`
	ShotRequestIDs []uint `json:"shot_request_ids,omitempty"`
	PersonnelIDs   []uint `json:"personnel_ids,omitempty"`
}

func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Location:       p.Location,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		DeliverDate:    p.DeliverDate,
		OrganizationID: p.OrganizationID,
	}
}

type CreateProjectRequest struct {
	Name           string `json:"name" validate:"required"`
	Location       string `json:"location" validate:"required"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
	DeliverDate    string `json:"deliver_date" validate:"omitempty,datetime=2006-01-02"`
	OrganizationID *uint  `json:"organization_id"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Location    *string `json:"location"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DeliverDate *string `json:"deliver_date" validate:"omitempty,datetime=2006-01-02"`
}

type AttachOrganizationRequest struct {
	OrganizationID *uint `json:"organization_id"`
}

type ProjectDeleteResponse struct {
	DeletedEvents int64 `json:"deleted_events"`
	DeletedImages int64 `json:"deleted_images"`
}

type EventResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	Location       string `json:"location,omitempty"`
	Notes          string `json:"notes,omitempty"`
	QuickTurn      bool   `json:"quick_turn"`
	Deadline       string `json:"deadline,omitempty"`
	ProcessPoint   string `json:"process_point"`
	ColumnNumber   int    `json:"column_number"`
	ProjectID      *uint  `json:"project_id"`
	ShotRequestIDs []uint `json:"shot_request_ids,omitempty"`
	PersonnelIDs   []uint `json:"personnel_ids,omitempty"`
}

func ToEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Name:         e.Name,
		Date:         e.Date,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Location:     e.Location,
		Notes:        e.Notes,
		QuickTurn:    e.QuickTurn,
		Deadline:     e.Deadline,
		ProcessPoint: string(e.ProcessPoint),
		ColumnNumber: e.ColumnNumber,
		ProjectID:    e.ProjectID,
	}
}

type CreateEventRequest struct {
	Name         string `json:"name" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Location     string `json:"location"`
	Notes        string `json:"notes"`
	QuickTurn    bool   `json:"quick_turn"`
	Deadline     string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	ProcessPoint string `json:"process_point"`
	ColumnNumber int    `json:"column_number" validate:"gte=0,lte=3"`
	ProjectID    *uint  `json:"project_id"`
}

type UpdateEventRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Date         *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
	QuickTurn    *bool   `json:"quick_turn"`
	Deadline     *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	ProcessPoint *string `json:"process_point"`
	ColumnNumber *int    `json:"column_number" validate:"omitempty,gte=0,lte=3"`
}

type AttachProjectRequest struct {
	ProjectID *uint `json:"project_id"`
}

type EventDeleteResponse struct {
	DeletedImages int64 `json:"deleted_images"`
}

type ShotRequestResponse struct {
	ID           uint   `json:"id"`
	Request      string `json:"request"`
	Notes        string `json:"notes,omitempty"`
	QuickTurn    bool   `json:"quick_turn"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	ProcessPoint string `json:"process_point"`
}

func ToShotRequestResponse(s *shotrequest.ShotRequest) ShotRequestResponse {
	return ShotRequestResponse{
		ID:           s.ID,
		Request:      s.Request,
		Notes:        s.Notes,
		QuickTurn:    s.QuickTurn,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Deadline:     s.Deadline,
		ProcessPoint: string(s.ProcessPoint),
	}
}

type CreateShotRequestRequest struct {
	Request      string `json:"request" validate:"required"`
	Notes        string `json:"notes"`
	QuickTurn    bool   `json:"quick_turn"`
	StartTime    string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Deadline     string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	ProcessPoint string `json:"process_point"`
	ProjectID    *uint  `json:"project_id"`
	EventID      *uint  `json:"event_id"`
}

type UpdateShotRequestRequest struct {
	Request      *string `json:"request" validate:"omitempty,min=1"`
	Notes        *string `json:"notes"`
	QuickTurn    *bool   `json:"quick_turn"`
	StartTime    *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Deadline     *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	ProcessPoint *string `json:"process_point"`
}

type ShotRequestDeleteResponse struct {
	DeletedImages int64 `json:"deleted_images"`
}

type ImageResponse struct {
	ID            uint   `json:"id"`
	Filename      string `json:"filename"`
	FilePath      string `json:"file_path,omitempty"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	ClientSelect  bool   `json:"client_select"`
	Favorite      bool   `json:"favorite"`
	UploadDate    string `json:"upload_date,omitempty"`
	FileSize      *int64 `json:"file_size"`
	EventID       *uint  `json:"event_id"`
	ShotRequestID *uint  `json:"shot_request_id"`
}

func ToImageResponse(i *image.Image) ImageResponse {
	return ImageResponse{
		ID:            i.ID,
		Filename:      i.Filename,
		FilePath:      i.FilePath,
		ThumbnailPath: i.ThumbnailPath,
		ClientSelect:  i.ClientSelect,
		Favorite:      i.Favorite,
		UploadDate:    i.UploadDate,
		FileSize:      i.FileSize,
		EventID:       i.EventID,
		ShotRequestID: i.ShotRequestID,
	}
}

type CreateImageRequest struct {
	Filename      string `json:"filename" validate:"required"`
	ClientSelect  bool   `json:"client_select"`
	Favorite      bool   `json:"favorite"`
	UploadDate    string `json:"upload_date" validate:"omitempty,datetime=2006-01-02"`
	FileSize      *int64 `json:"file_size"`
	EventID       *uint  `json:"event_id"`
	ShotRequestID *uint  `json:"shot_request_id"`
}

type UpdateImageRequest struct {
	Filename     *string `json:"filename" validate:"omitempty,min=1"`
	ClientSelect *bool   `json:"client_select"`
	Favorite     *bool   `json:"favorite"`
	UploadDate   *string `json:"upload_date" validate:"omitempty,datetime=2006-01-02"`
	FileSize     *int64  `json:"file_size"`
}

type ReplaceIDsRequest struct {
	IDs []uint `json:"ids"`
}

type CreatePersonnelRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
	CompanyID *uint  `json:"company_id"`
	UserID    *uint  `json:"user_id"`
}

// UpdatePersonnelRequest patches profile fields and, when present, replaces
// the membership sets. event_ids also rederives project memberships.
type UpdatePersonnelRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone"`
	Role       *string `json:"role"`
	Avatar     *string `json:"avatar"`
	EventIDs   *[]uint `json:"event_ids"`
	ProjectIDs *[]uint `json:"project_ids"`

	// Replaced independently, no effect on the other sets.
	ShotRequestIDs *[]uint `json:"shot_request_ids"`
}
