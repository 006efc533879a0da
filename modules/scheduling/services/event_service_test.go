package services_test

import (
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	coreservices "github.com/relayhq/relay-server/modules/core/services"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/image"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/itf"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

func newEventService() *services.EventService {
	return services.NewEventService(
		persistence.NewEventRepository(),
		persistence.NewProjectRepository(),
		persistence.NewImageRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func TestEventService_CreateValidations(t *testing.T) {
	f := itf.Setup(t)
	svc := newEventService()

	t.Run("rejects unknown project reference", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, &event.Event{
			Name: "Orphaned", Date: "2026-08-01",
			ProcessPoint: process.Idle, ProjectID: mapping.Pointer(uint(9999)),
		})
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusBadRequest, serr.Status)
		assert.Equal(t, "PROJECT_NOT_FOUND", serr.Code)
	})

	t.Run("rejects invalid process point", func(t *testing.T) {
		_, err := svc.Create(f.Ctx, &event.Event{
			Name: "Bad Stage", Date: "2026-08-01",
			ProcessPoint: process.Point("archived"),
		})
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "INVALID_PROCESS_POINT", serr.Code)
	})

	t.Run("accepts a detached event", func(t *testing.T) {
		created, err := svc.Create(f.Ctx, &event.Event{
			Name: "Detached", Date: "2026-08-01", ProcessPoint: process.Idle,
		})
		require.NoError(t, err)
		assert.Nil(t, created.ProjectID)
	})
}

func TestEventService_DeleteReportsImageCount(t *testing.T) {
	f := itf.Setup(t)
	svc := newEventService()
	imageRepo := persistence.NewImageRepository()

	created, err := svc.Create(f.Ctx, &event.Event{
		Name: "Shoot", Date: "2026-08-05", ProcessPoint: process.Cull,
	})
	require.NoError(t, err)

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		img := &image.Image{Filename: name, EventID: mapping.Pointer(created.ID)}
		img.DerivePaths("/uploads")
		_, err := imageRepo.Create(f.Ctx, img)
		require.NoError(t, err)
	}

	deleted, err := svc.Delete(f.Ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	_, err = svc.GetByID(f.Ctx, created.ID)
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Status)
}

func TestScheduleService_ForUser(t *testing.T) {
	f := itf.Setup(t)

	userRepo := corepersistence.NewUserRepository()
	personnelRepo := corepersistence.NewPersonnelRepository()
	eventRepo := persistence.NewEventRepository()
	projectRepo := persistence.NewProjectRepository()
	bus := eventbus.NewEventPublisher(logrus.New())

	userSvc := coreservices.NewUserService(userRepo, personnelRepo, corepersistence.NewOrganizationRepository(), bus)
	assignSvc := services.NewAssignmentService(
		persistence.NewAssignmentRepository(),
		personnelRepo, eventRepo, projectRepo,
		persistence.NewShotRequestRepository(), bus,
	)
	svc := services.NewScheduleService(userRepo, personnelRepo, eventRepo)

	staffed, err := userSvc.Create(f.Ctx,
		user.New("Shooter", "shooter@example.com", user.RolePhotographer),
		"pass", true)
	require.NoError(t, err)
	deskbound, err := userSvc.Create(f.Ctx,
		user.New("Producer", "producer@example.com", user.RoleCoordinator),
		"pass", false)
	require.NoError(t, err)

	proj, err := projectRepo.Create(f.Ctx, &project.Project{Name: "Festival"})
	require.NoError(t, err)

	var dayOne, dayTwo *event.Event
	dayOne, err = eventRepo.Create(f.Ctx, &event.Event{
		Name: "Main Stage", Date: "2026-08-07", StartTime: "09:00",
		ProcessPoint: process.Idle, ProjectID: mapping.Pointer(proj.ID),
	})
	require.NoError(t, err)
	dayTwo, err = eventRepo.Create(f.Ctx, &event.Event{
		Name: "Backstage", Date: "2026-08-08", StartTime: "10:00",
		ProcessPoint: process.Idle, ProjectID: mapping.Pointer(proj.ID),
	})
	require.NoError(t, err)

	crew, err := personnelRepo.GetByUserID(f.Ctx, staffed.ID())
	require.NoError(t, err)
	_, _, err = assignSvc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{dayOne.ID, dayTwo.ID})
	require.NoError(t, err)

	t.Run("full schedule is date ordered", func(t *testing.T) {
		events, err := svc.ForUser(f.Ctx, staffed.ID(), "")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, dayOne.ID, events[0].ID)
		assert.Equal(t, dayTwo.ID, events[1].ID)
	})

	t.Run("date filter narrows the day", func(t *testing.T) {
		events, err := svc.ForUser(f.Ctx, staffed.ID(), "2026-08-08")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, dayTwo.ID, events[0].ID)
	})

	t.Run("user without personnel gets an empty schedule", func(t *testing.T) {
		events, err := svc.ForUser(f.Ctx, deskbound.ID(), "")
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		_, err := svc.ForUser(f.Ctx, 9999, "")
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusNotFound, serr.Status)
	})
}
