package persistence

import (
	"database/sql"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence/models"
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

func toDomainCompany(m *models.Company) *company.Company {
	return company.New(
		m.Name,
		company.WithID(m.ID),
		company.WithSuperAdmin(m.IsSuperAdmin),
		company.WithCreatedAt(m.CreatedAt),
		company.WithUpdatedAt(m.UpdatedAt),
	)
}

func toDomainOrganization(m *models.Organization) *organization.Organization {
	return organization.New(
		m.Name,
		organization.WithID(m.ID),
		organization.WithDetails(mapping.SQLNullStringToValue(m.Details)),
		organization.WithCompanyID(nullInt64ToUintPtr(m.CompanyID)),
	)
}

func toDomainUser(m *models.User) *user.User {
	return user.New(
		m.Name,
		m.Email,
		user.Role(m.Access),
		user.WithID(m.ID),
		user.WithPasswordHash(m.PasswordHash),
		user.WithAvatar(m.Avatar),
		user.WithCompanyID(nullInt64ToUintPtr(m.CompanyID)),
		user.WithOrganizationID(nullInt64ToUintPtr(m.OrganizationID)),
	)
}

func toDomainPersonnel(m *models.Personnel) *personnel.Personnel {
	return personnel.New(
		m.Name,
		personnel.WithID(m.ID),
		personnel.WithEmail(mapping.SQLNullStringToValue(m.Email)),
		personnel.WithPhone(mapping.SQLNullStringToValue(m.Phone)),
		personnel.WithRole(mapping.SQLNullStringToValue(m.Role)),
		personnel.WithAvatar(mapping.SQLNullStringToValue(m.Avatar)),
		personnel.WithCompanyID(nullInt64ToUintPtr(m.CompanyID)),
		personnel.WithUserID(nullInt64ToUintPtr(m.UserID)),
	)
}
