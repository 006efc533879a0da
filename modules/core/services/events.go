package services

import (
	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
)

type CompanyCreatedEvent struct {
	Company *company.Company
}

type CompanyUpdatedEvent struct {
	Company *company.Company
}

type CompanyDeletedEvent struct {
	CompanyID uint
	Report    *CompanyDeleteReport
}

type OrganizationCreatedEvent struct {
	Organization *organization.Organization
}

type OrganizationUpdatedEvent struct {
	Organization *organization.Organization
}

type OrganizationDeletedEvent struct {
	OrganizationID uint
	Report         *OrganizationDeleteReport
}

type UserCreatedEvent struct {
	User *user.User
}

type UserUpdatedEvent struct {
	User *user.User
}

type UserDeletedEvent struct {
	UserID uint
}

type PersonnelCreatedEvent struct {
	Personnel *personnel.Personnel
}

type PersonnelUpdatedEvent struct {
	Personnel *personnel.Personnel
}

type PersonnelDeletedEvent struct {
	PersonnelID uint
}
