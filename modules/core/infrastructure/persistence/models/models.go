// Package models holds the database row shapes for the core module.
package models

import (
	"database/sql"
	"time"
)

type Company struct {
	ID           uint
	Name         string
	IsSuperAdmin bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Organization struct {
	ID        uint
	Name      string
	Details   sql.NullString
	CompanyID sql.NullInt64
}

type User struct {
	ID             uint
	Name           string
	Email          string
	PasswordHash   string
	Access         string
	Avatar         string
	CompanyID      sql.NullInt64
	OrganizationID sql.NullInt64
}

type Personnel struct {
	ID        uint
	Name      string
	Email     sql.NullString
	Phone     sql.NullString
	Role      sql.NullString
	Avatar    sql.NullString
	CompanyID sql.NullInt64
	UserID    sql.NullInt64
}
