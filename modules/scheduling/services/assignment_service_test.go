package services_test

import (
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/itf"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

func newAssignmentService() *services.AssignmentService {
	return services.NewAssignmentService(
		persistence.NewAssignmentRepository(),
		corepersistence.NewPersonnelRepository(),
		persistence.NewEventRepository(),
		persistence.NewProjectRepository(),
		persistence.NewShotRequestRepository(),
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func TestAssignPersonnelToEvents(t *testing.T) {
	f := itf.Setup(t)
	svc := newAssignmentService()

	personnelRepo := corepersistence.NewPersonnelRepository()
	projectRepo := persistence.NewProjectRepository()
	eventRepo := persistence.NewEventRepository()

	crew, err := personnelRepo.Create(f.Ctx, personnel.New("Sam"))
	require.NoError(t, err)

	projA, err := projectRepo.Create(f.Ctx, &project.Project{Name: "Gala"})
	require.NoError(t, err)
	projB, err := projectRepo.Create(f.Ctx, &project.Project{Name: "Launch"})
	require.NoError(t, err)

	evA, err := eventRepo.Create(f.Ctx, &event.Event{
		Name: "Gala Day 1", Date: "2026-08-01",
		ProcessPoint: process.Idle, ProjectID: mapping.Pointer(projA.ID),
	})
	require.NoError(t, err)
	evB, err := eventRepo.Create(f.Ctx, &event.Event{
		Name: "Launch Shoot", Date: "2026-08-02",
		ProcessPoint: process.Idle, ProjectID: mapping.Pointer(projB.ID),
	})
	require.NoError(t, err)
	orphan, err := eventRepo.Create(f.Ctx, &event.Event{
		Name: "Floating", Date: "2026-08-03", ProcessPoint: process.Idle,
	})
	require.NoError(t, err)

	t.Run("derives projects from assigned events", func(t *testing.T) {
		events, projects, err := svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{evA.ID, evB.ID, orphan.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{evA.ID, evB.ID, orphan.ID}, events)
		assert.ElementsMatch(t, []uint{projA.ID, projB.ID}, projects)
	})

	t.Run("unknown event ids are dropped, not rejected", func(t *testing.T) {
		events, projects, err := svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{evA.ID, 9999})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{evA.ID}, events)
		assert.ElementsMatch(t, []uint{projA.ID}, projects)
	})

	t.Run("replace is idempotent", func(t *testing.T) {
		first, _, err := svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{evA.ID, evA.ID})
		require.NoError(t, err)
		second, _, err := svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{evA.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, first, second)
	})

	t.Run("empty set clears events but keeps projects", func(t *testing.T) {
		_, _, err := svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{evA.ID, evB.ID})
		require.NoError(t, err)

		events, projects, err := svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), nil)
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.ElementsMatch(t, []uint{projA.ID, projB.ID}, projects)

		remaining, err := svc.EventIDsByPersonnel(f.Ctx, crew.ID())
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("unknown personnel is rejected", func(t *testing.T) {
		_, _, err := svc.AssignPersonnelToEvents(f.Ctx, 9999, []uint{evA.ID})
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusNotFound, serr.Status)
		assert.Equal(t, "PERSONNEL_NOT_FOUND", serr.Code)
	})
}

func TestAssignPersonnelToProjectsLeavesEventsAlone(t *testing.T) {
	f := itf.Setup(t)
	svc := newAssignmentService()

	personnelRepo := corepersistence.NewPersonnelRepository()
	projectRepo := persistence.NewProjectRepository()
	eventRepo := persistence.NewEventRepository()

	crew, err := personnelRepo.Create(f.Ctx, personnel.New("Alex"))
	require.NoError(t, err)
	proj, err := projectRepo.Create(f.Ctx, &project.Project{Name: "Retainer"})
	require.NoError(t, err)
	ev, err := eventRepo.Create(f.Ctx, &event.Event{
		Name: "Standing Shoot", Date: "2026-08-10",
		ProcessPoint: process.Idle, ProjectID: mapping.Pointer(proj.ID),
	})
	require.NoError(t, err)

	_, _, err = svc.AssignPersonnelToEvents(f.Ctx, crew.ID(), []uint{ev.ID})
	require.NoError(t, err)

	projects, err := svc.AssignPersonnelToProjects(f.Ctx, crew.ID(), nil)
	require.NoError(t, err)
	assert.Empty(t, projects)

	events, err := svc.EventIDsByPersonnel(f.Ctx, crew.ID())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{ev.ID}, events)
}

func TestAssignShotRequests(t *testing.T) {
	f := itf.Setup(t)
	svc := newAssignmentService()

	projectRepo := persistence.NewProjectRepository()
	eventRepo := persistence.NewEventRepository()
	shotRepo := persistence.NewShotRequestRepository()

	proj, err := projectRepo.Create(f.Ctx, &project.Project{Name: "Campaign"})
	require.NoError(t, err)
	ev, err := eventRepo.Create(f.Ctx, &event.Event{
		Name: "Studio Day", Date: "2026-08-20", ProcessPoint: process.Idle,
	})
	require.NoError(t, err)

	srA, err := shotRepo.Create(f.Ctx, &shotrequest.ShotRequest{
		Request: "Hero product on white", ProcessPoint: process.Idle,
	})
	require.NoError(t, err)
	srB, err := shotRepo.Create(f.Ctx, &shotrequest.ShotRequest{
		Request: "Lifestyle candids", ProcessPoint: process.Idle,
	})
	require.NoError(t, err)

	attached, err := svc.AssignShotRequestsToEvent(f.Ctx, ev.ID, []uint{srA.ID, srB.ID, 9999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{srA.ID, srB.ID}, attached)

	attached, err = svc.AssignShotRequestsToProject(f.Ctx, proj.ID, []uint{srB.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{srB.ID}, attached)

	_, err = svc.AssignShotRequestsToEvent(f.Ctx, 9999, []uint{srA.ID})
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "EVENT_NOT_FOUND", serr.Code)

	_, err = svc.AssignShotRequestsToProject(f.Ctx, 9999, []uint{srA.ID})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "PROJECT_NOT_FOUND", serr.Code)
}

func TestAssignShotRequestsToPersonnel(t *testing.T) {
	f := itf.Setup(t)
	svc := newAssignmentService()

	personnelRepo := corepersistence.NewPersonnelRepository()
	shotRepo := persistence.NewShotRequestRepository()

	crew, err := personnelRepo.Create(f.Ctx, personnel.New("Robin"))
	require.NoError(t, err)
	srA, err := shotRepo.Create(f.Ctx, &shotrequest.ShotRequest{
		Request: "Backstage portraits", ProcessPoint: process.Idle,
	})
	require.NoError(t, err)
	srB, err := shotRepo.Create(f.Ctx, &shotrequest.ShotRequest{
		Request: "Crowd wides", ProcessPoint: process.Idle,
	})
	require.NoError(t, err)

	stored, err := svc.AssignShotRequestsToPersonnel(f.Ctx, crew.ID(), []uint{srA.ID, srB.ID, 9999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{srA.ID, srB.ID}, stored)

	stored, err = svc.AssignShotRequestsToPersonnel(f.Ctx, crew.ID(), []uint{srB.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{srB.ID}, stored)

	got, err := svc.ShotRequestIDsByPersonnel(f.Ctx, crew.ID())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{srB.ID}, got)

	// Replacing shot requests must not touch event or project memberships.
	events, err := svc.EventIDsByPersonnel(f.Ctx, crew.ID())
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = svc.AssignShotRequestsToPersonnel(f.Ctx, 9999, []uint{srA.ID})
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "PERSONNEL_NOT_FOUND", serr.Code)
}

func TestAssignPersonnelToEvent(t *testing.T) {
	f := itf.Setup(t)
	svc := newAssignmentService()

	personnelRepo := corepersistence.NewPersonnelRepository()
	projectRepo := persistence.NewProjectRepository()
	eventRepo := persistence.NewEventRepository()

	crewA, err := personnelRepo.Create(f.Ctx, personnel.New("Lee"))
	require.NoError(t, err)
	crewB, err := personnelRepo.Create(f.Ctx, personnel.New("Mor"))
	require.NoError(t, err)
	proj, err := projectRepo.Create(f.Ctx, &project.Project{Name: "Festival"})
	require.NoError(t, err)
	ev, err := eventRepo.Create(f.Ctx, &event.Event{
		Name: "Main Stage", Date: "2026-08-22",
		ProcessPoint: process.Idle, ProjectID: mapping.Pointer(proj.ID),
	})
	require.NoError(t, err)

	stored, err := svc.AssignPersonnelToEvent(f.Ctx, ev.ID, []uint{crewA.ID(), crewB.ID(), 9999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{crewA.ID(), crewB.ID()}, stored)

	got, err := svc.PersonnelIDsByEvent(f.Ctx, ev.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{crewA.ID(), crewB.ID()}, got)

	// Staffing from the event side never rederives project memberships.
	projects, err := svc.ProjectIDsByPersonnel(f.Ctx, crewA.ID())
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, err = svc.AssignPersonnelToEvent(f.Ctx, 9999, []uint{crewA.ID()})
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "EVENT_NOT_FOUND", serr.Code)
}
