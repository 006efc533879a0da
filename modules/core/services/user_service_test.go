package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/core/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/itf"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

func newUserService() (*services.UserService, user.Repository) {
	userRepo := persistence.NewUserRepository()
	personnelRepo := persistence.NewPersonnelRepository()
	bus := eventbus.NewEventPublisher(logrus.New())
	return services.NewUserService(userRepo, personnelRepo, persistence.NewOrganizationRepository(), bus), userRepo
}

func TestUserService_CreateWithPersonnel(t *testing.T) {
	f := itf.Setup(t)
	svc, _ := newUserService()
	personnelRepo := persistence.NewPersonnelRepository()

	created, err := svc.Create(f.Ctx,
		user.New("Jordan", "jordan@example.com", user.RolePhotographer),
		"initial-pass", true)
	require.NoError(t, err)
	require.NotZero(t, created.ID())
	assert.True(t, created.CheckPassword("initial-pass"))

	p, err := personnelRepo.GetByUserID(f.Ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "Jordan", p.Name())
	assert.Equal(t, "jordan@example.com", p.Email())
	assert.Equal(t, string(user.RolePhotographer), p.Role())
	require.NotNil(t, p.UserID())
	assert.Equal(t, created.ID(), *p.UserID())
}

func TestUserService_DuplicateEmail(t *testing.T) {
	f := itf.Setup(t)
	svc, _ := newUserService()

	_, err := svc.Create(f.Ctx, user.New("A", "same@example.com", user.RoleEditor), "pass-a", false)
	require.NoError(t, err)

	_, err = svc.Create(f.Ctx, user.New("B", "same@example.com", user.RoleEditor), "pass-b", false)
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "EMAIL_TAKEN", serr.Code)
}

func TestUserService_DeleteRemovesLinkedPersonnel(t *testing.T) {
	f := itf.Setup(t)
	svc, _ := newUserService()
	personnelRepo := persistence.NewPersonnelRepository()

	created, err := svc.Create(f.Ctx,
		user.New("Crew", "crew@example.com", user.RoleVideographer),
		"pass", true)
	require.NoError(t, err)

	deletedPersonnel, err := svc.Delete(f.Ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, deletedPersonnel)

	_, err = svc.GetByID(f.Ctx, created.ID())
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Status)

	_, err = personnelRepo.GetByUserID(f.Ctx, created.ID())
	assert.True(t, errors.Is(err, persistence.ErrPersonnelNotFound))
}

func TestUserService_ChangePassword(t *testing.T) {
	f := itf.Setup(t)
	svc, repo := newUserService()

	created, err := svc.Create(f.Ctx, user.New("P", "p@example.com", user.RoleEditor), "old-pass", false)
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(f.Ctx, created.ID(), "new-pass"))

	reloaded, err := repo.GetByID(f.Ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, reloaded.CheckPassword("new-pass"))
	assert.False(t, reloaded.CheckPassword("old-pass"))
}

func TestAuthService_Authenticate(t *testing.T) {
	f := itf.Setup(t)
	svc, repo := newUserService()
	auth := services.NewAuthService(repo)

	_, err := svc.Create(f.Ctx, user.New("L", "login@example.com", user.RoleAdmin), "correct-pass", false)
	require.NoError(t, err)

	u, err := auth.Authenticate(f.Ctx, "login@example.com", "correct-pass")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", u.Email())

	for _, attempt := range []struct{ email, password string }{
		{"login@example.com", "wrong-pass"},
		{"nobody@example.com", "correct-pass"},
	} {
		_, err := auth.Authenticate(f.Ctx, attempt.email, attempt.password)
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusUnauthorized, serr.Status)
		assert.Equal(t, "INVALID_CREDENTIALS", serr.Code)
	}
}

func newPersonnelService() *services.PersonnelService {
	return services.NewPersonnelService(
		persistence.NewPersonnelRepository(),
		persistence.NewUserRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func TestUserService_CreateRejectsCrossTenantOrganization(t *testing.T) {
	f := itf.Setup(t)
	svc, _ := newUserService()

	companyRepo := persistence.NewCompanyRepository()
	orgRepo := persistence.NewOrganizationRepository()

	home, err := companyRepo.Create(f.Ctx, company.New("Home Studios"))
	require.NoError(t, err)
	other, err := companyRepo.Create(f.Ctx, company.New("Other Studios"))
	require.NoError(t, err)
	org, err := orgRepo.Create(f.Ctx, organization.New("Other Weddings",
		organization.WithCompanyID(mapping.Pointer(other.ID()))))
	require.NoError(t, err)

	_, err = svc.Create(f.Ctx,
		user.New("Crossed", "crossed@example.com", user.RoleEditor,
			user.WithCompanyID(mapping.Pointer(home.ID())),
			user.WithOrganizationID(mapping.Pointer(org.ID()))),
		"pass", false)
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "CROSS_TENANT_ORGANIZATION", serr.Code)

	// A user with no company of their own may join any organization.
	_, err = svc.Create(f.Ctx,
		user.New("Floater", "floater@example.com", user.RoleEditor,
			user.WithOrganizationID(mapping.Pointer(org.ID()))),
		"pass", false)
	require.NoError(t, err)
}

func TestUserService_AttachOrganization(t *testing.T) {
	f := itf.Setup(t)
	svc, _ := newUserService()

	companyRepo := persistence.NewCompanyRepository()
	orgRepo := persistence.NewOrganizationRepository()

	home, err := companyRepo.Create(f.Ctx, company.New("Home Studios"))
	require.NoError(t, err)
	homeOrg, err := orgRepo.Create(f.Ctx, organization.New("Home Weddings",
		organization.WithCompanyID(mapping.Pointer(home.ID()))))
	require.NoError(t, err)
	strayOrg, err := orgRepo.Create(f.Ctx, organization.New("Stray"))
	require.NoError(t, err)

	created, err := svc.Create(f.Ctx,
		user.New("Member", "member@example.com", user.RoleEditor,
			user.WithCompanyID(mapping.Pointer(home.ID()))),
		"pass", false)
	require.NoError(t, err)

	updated, err := svc.AttachOrganization(f.Ctx, created.ID(), mapping.Pointer(homeOrg.ID()))
	require.NoError(t, err)
	require.NotNil(t, updated.OrganizationID())
	assert.Equal(t, homeOrg.ID(), *updated.OrganizationID())

	// An organization outside the user's company is refused.
	_, err = svc.AttachOrganization(f.Ctx, created.ID(), mapping.Pointer(strayOrg.ID()))
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "CROSS_TENANT_ORGANIZATION", serr.Code)

	detached, err := svc.AttachOrganization(f.Ctx, created.ID(), nil)
	require.NoError(t, err)
	assert.Nil(t, detached.OrganizationID())
}

func TestUserService_AttachCompanyChecksOrganization(t *testing.T) {
	f := itf.Setup(t)
	svc, _ := newUserService()

	companyRepo := persistence.NewCompanyRepository()
	orgRepo := persistence.NewOrganizationRepository()

	home, err := companyRepo.Create(f.Ctx, company.New("Home Studios"))
	require.NoError(t, err)
	other, err := companyRepo.Create(f.Ctx, company.New("Other Studios"))
	require.NoError(t, err)
	homeOrg, err := orgRepo.Create(f.Ctx, organization.New("Home Weddings",
		organization.WithCompanyID(mapping.Pointer(home.ID()))))
	require.NoError(t, err)

	created, err := svc.Create(f.Ctx,
		user.New("Member", "member@example.com", user.RoleEditor,
			user.WithCompanyID(mapping.Pointer(home.ID())),
			user.WithOrganizationID(mapping.Pointer(homeOrg.ID()))),
		"pass", false)
	require.NoError(t, err)

	// Moving to a company the user's organization does not belong to is refused.
	_, err = svc.AttachCompany(f.Ctx, created.ID(), mapping.Pointer(other.ID()))
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "CROSS_TENANT_ORGANIZATION", serr.Code)

	// Detaching from the company keeps the organization link intact.
	detached, err := svc.AttachCompany(f.Ctx, created.ID(), nil)
	require.NoError(t, err)
	assert.Nil(t, detached.CompanyID())
	require.NotNil(t, detached.OrganizationID())
	assert.Equal(t, homeOrg.ID(), *detached.OrganizationID())
}

func TestPersonnelService_CreateRejectsCrossTenantLink(t *testing.T) {
	f := itf.Setup(t)
	userSvc, _ := newUserService()
	personnelSvc := newPersonnelService()

	companyRepo := persistence.NewCompanyRepository()
	home, err := companyRepo.Create(f.Ctx, company.New("Home Studios"))
	require.NoError(t, err)
	other, err := companyRepo.Create(f.Ctx, company.New("Other Studios"))
	require.NoError(t, err)

	owner, err := userSvc.Create(f.Ctx,
		user.New("Owner", "owner@example.com", user.RolePhotographer,
			user.WithCompanyID(mapping.Pointer(home.ID()))),
		"pass", false)
	require.NoError(t, err)

	// Neither a company-less crew record nor one in another company may link
	// to a user that belongs to a company.
	for _, companyID := range []*uint{nil, mapping.Pointer(other.ID())} {
		_, err = personnelSvc.Create(f.Ctx, personnel.New("Crew",
			personnel.WithCompanyID(companyID),
			personnel.WithUserID(mapping.Pointer(owner.ID()))))
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusConflict, serr.Status)
		assert.Equal(t, "CROSS_TENANT_LINK", serr.Code)
	}

	created, err := personnelSvc.Create(f.Ctx, personnel.New("Crew",
		personnel.WithCompanyID(mapping.Pointer(home.ID())),
		personnel.WithUserID(mapping.Pointer(owner.ID()))))
	require.NoError(t, err)
	require.NotNil(t, created.CompanyID())
	assert.Equal(t, home.ID(), *created.CompanyID())
}

func TestUserService_ComposedCallsRollBackTogether(t *testing.T) {
	f := itf.Setup(t)
	svc, repo := newUserService()

	boom := errors.New("boom")
	err := composables.InTx(f.Ctx, func(txCtx context.Context) error {
		if _, err := svc.Create(txCtx,
			user.New("Ghost", "ghost@example.com", user.RoleEditor), "pass", false); err != nil {
			return err
		}
		// The service call joined the outer unit of work, so its row is
		// already visible here.
		if _, err := repo.GetByEmail(txCtx, "ghost@example.com"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	users, err := repo.GetAll(f.Ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
