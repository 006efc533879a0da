package services_test

import (
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
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	schedulingpersistence "github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/itf"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

func newCompanyService() *services.CompanyService {
	return services.NewCompanyService(
		persistence.NewCompanyRepository(),
		persistence.NewOrganizationRepository(),
		persistence.NewUserRepository(),
		persistence.NewPersonnelRepository(),
		schedulingpersistence.NewProjectRepository(),
		schedulingpersistence.NewEventRepository(),
		schedulingpersistence.NewImageRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func TestCompanyService_DeleteCascades(t *testing.T) {
	f := itf.Setup(t)
	svc := newCompanyService()

	companyRepo := persistence.NewCompanyRepository()
	orgRepo := persistence.NewOrganizationRepository()
	userRepo := persistence.NewUserRepository()
	personnelRepo := persistence.NewPersonnelRepository()
	projectRepo := schedulingpersistence.NewProjectRepository()
	eventRepo := schedulingpersistence.NewEventRepository()
	imageRepo := schedulingpersistence.NewImageRepository()

	c, err := companyRepo.Create(f.Ctx, company.New("Acme Studios"))
	require.NoError(t, err)

	org, err := orgRepo.Create(f.Ctx, organization.New("Acme Weddings",
		organization.WithCompanyID(mapping.Pointer(c.ID()))))
	require.NoError(t, err)

	p, err := projectRepo.Create(f.Ctx, &project.Project{
		Name:           "Summer Gala",
		OrganizationID: mapping.Pointer(org.ID()),
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		e, err := eventRepo.Create(f.Ctx, &event.Event{
			Name:         "Shoot",
			Date:         "2026-08-01",
			ProcessPoint: process.Idle,
			ProjectID:    mapping.Pointer(p.ID),
		})
		require.NoError(t, err)

		img := &image.Image{Filename: "frame.jpg", EventID: mapping.Pointer(e.ID)}
		img.DerivePaths("/uploads")
		_, err = imageRepo.Create(f.Ctx, img)
		require.NoError(t, err)
	}

	_, err = personnelRepo.Create(f.Ctx, personnel.New("Crew",
		personnel.WithCompanyID(mapping.Pointer(c.ID()))))
	require.NoError(t, err)

	u := user.New("Member", "member@example.com", user.RoleEditor,
		user.WithCompanyID(mapping.Pointer(c.ID())))
	require.NoError(t, u.SetPassword("pass"))
	createdUser, err := userRepo.Create(f.Ctx, u)
	require.NoError(t, err)

	report, err := svc.Delete(f.Ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Organizations)
	assert.Equal(t, int64(1), report.Projects)
	assert.Equal(t, int64(2), report.Events)
	assert.Equal(t, int64(2), report.Images)
	assert.Equal(t, int64(1), report.Personnel)
	assert.Equal(t, int64(1), report.DetachedUsers)

	// The account survives with its company link cleared.
	survivor, err := userRepo.GetByID(f.Ctx, createdUser.ID())
	require.NoError(t, err)
	assert.Nil(t, survivor.CompanyID())

	_, err = companyRepo.GetByID(f.Ctx, c.ID())
	assert.ErrorIs(t, err, persistence.ErrCompanyNotFound)
}

func TestCompanyService_DeleteRefusesSuperAdmin(t *testing.T) {
	f := itf.Setup(t)
	svc := newCompanyService()

	companyRepo := persistence.NewCompanyRepository()
	c, err := companyRepo.Create(f.Ctx, company.New("Relay", company.WithSuperAdmin(true)))
	require.NoError(t, err)

	_, err = svc.Delete(f.Ctx, c.ID())
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "SUPER_ADMIN_COMPANY", serr.Code)

	_, err = companyRepo.GetByID(f.Ctx, c.ID())
	assert.NoError(t, err)
}

func TestOrganizationService_DeleteCascades(t *testing.T) {
	f := itf.Setup(t)

	orgRepo := persistence.NewOrganizationRepository()
	projectRepo := schedulingpersistence.NewProjectRepository()
	eventRepo := schedulingpersistence.NewEventRepository()
	imageRepo := schedulingpersistence.NewImageRepository()
	svc := services.NewOrganizationService(
		orgRepo, projectRepo, eventRepo, imageRepo,
		eventbus.NewEventPublisher(logrus.New()),
	)

	org, err := orgRepo.Create(f.Ctx, organization.New("Standalone Org"))
	require.NoError(t, err)

	p, err := projectRepo.Create(f.Ctx, &project.Project{
		Name:           "Brand Film",
		OrganizationID: mapping.Pointer(org.ID()),
	})
	require.NoError(t, err)

	e, err := eventRepo.Create(f.Ctx, &event.Event{
		Name:         "Interview Day",
		Date:         "2026-09-15",
		ProcessPoint: process.Idle,
		ProjectID:    mapping.Pointer(p.ID),
	})
	require.NoError(t, err)

	img := &image.Image{Filename: "take1.jpg", EventID: mapping.Pointer(e.ID)}
	img.DerivePaths("/uploads")
	_, err = imageRepo.Create(f.Ctx, img)
	require.NoError(t, err)

	report, err := svc.Delete(f.Ctx, org.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Projects)
	assert.Equal(t, int64(1), report.Events)
	assert.Equal(t, int64(1), report.Images)

	_, err = orgRepo.GetByID(f.Ctx, org.ID())
	assert.ErrorIs(t, err, persistence.ErrOrganizationNotFound)
}

func TestCompanyService_SingleSuperAdmin(t *testing.T) {
	f := itf.Setup(t)
	svc := newCompanyService()

	operator, err := svc.Create(f.Ctx, company.New("Relay", company.WithSuperAdmin(true)))
	require.NoError(t, err)
	tenant, err := svc.Create(f.Ctx, company.New("Acme Studios"))
	require.NoError(t, err)

	// Only one platform-operator tenant may exist.
	_, err = svc.Create(f.Ctx, company.New("Shadow Relay", company.WithSuperAdmin(true)))
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "SUPER_ADMIN_EXISTS", serr.Code)

	// Nor may an ordinary tenant be promoted while one exists.
	_, err = svc.Update(f.Ctx, tenant.ID(), company.Patch{IsSuperAdmin: mapping.Pointer(true)})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "SUPER_ADMIN_EXISTS", serr.Code)

	// The operator itself can still be updated.
	renamed, err := svc.Update(f.Ctx, operator.ID(), company.Patch{Name: mapping.Pointer("Relay HQ")})
	require.NoError(t, err)
	assert.Equal(t, "Relay HQ", renamed.Name())
	assert.True(t, renamed.IsSuperAdmin())
}
