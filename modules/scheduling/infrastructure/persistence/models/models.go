// Package models holds the database row shapes for the scheduling module.
package models

import "database/sql"

type Project struct {
	ID             uint
	Name           string
	Location       string
	StartDate      string
	EndDate        string
	DeliverDate    sql.NullString
	OrganizationID sql.NullInt64
}

type Event struct {
	ID           uint
	Name         string
	Date         string
	StartTime    sql.NullString
	EndTime      sql.NullString
	Location     sql.NullString
	Notes        sql.NullString
	QuickTurn    bool
	Deadline     sql.NullString
	ProcessPoint string
	ColumnNumber int
	ProjectID    sql.NullInt64
}

type ShotRequest struct {
	ID           uint
	Request      string
	Notes        sql.NullString
	QuickTurn    bool
	StartTime    sql.NullString
	EndTime      sql.NullString
	Deadline     sql.NullString
	ProcessPoint string
}

type Image struct {
	ID            uint
	Filename      string
	FilePath      sql.NullString
	ThumbnailPath sql.NullString
	ClientSelect  bool
	Favorite      bool
	UploadDate    sql.NullString
	FileSize      sql.NullInt64
	EventID       sql.NullInt64
	ShotRequestID sql.NullInt64
}
