package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/scheduling/presentation/controllers"
	"github.com/relayhq/relay-server/modules/scheduling/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/itf"
	"github.com/relayhq/relay-server/pkg/middleware"
)

func newEventsRouter(f *itf.Fixtures) *mux.Router {
	bus := eventbus.NewEventPublisher(logrus.New())
	eventRepo := persistence.NewEventRepository()
	projectRepo := persistence.NewProjectRepository()
	imageRepo := persistence.NewImageRepository()

	eventService := services.NewEventService(eventRepo, projectRepo, imageRepo, bus)
	assignmentService := services.NewAssignmentService(
		persistence.NewAssignmentRepository(),
		corepersistence.NewPersonnelRepository(),
		eventRepo, projectRepo,
		persistence.NewShotRequestRepository(), bus,
	)

	r := mux.NewRouter()
	r.Use(middleware.ProvidePool(f.Pool))
	controllers.NewEventController(eventService, assignmentService).Register(r)
	return r
}

func postJSON(t *testing.T, router *mux.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEventController_Create(t *testing.T) {
	f := itf.Setup(t)
	router := newEventsRouter(f)

	t.Run("creates and defaults the process point", func(t *testing.T) {
		rec := postJSON(t, router, "/api/events", `{"name":"Keynote","date":"2026-09-01"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp dtos.EventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Keynote", resp.Name)
		assert.Equal(t, "idle", resp.ProcessPoint)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		rec := postJSON(t, router, "/api/events", `{"name":"Keynote","date":"Sept 1"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var envelope httpapi.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "VALIDATION_FAILED", envelope.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		rec := postJSON(t, router, "/api/events", `{"name":"Keynote","date":"2026-09-01","datee":"typo"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var envelope httpapi.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "INVALID_BODY", envelope.Code)
	})

	t.Run("rejects a dangling project reference", func(t *testing.T) {
		rec := postJSON(t, router, "/api/events", `{"name":"Keynote","date":"2026-09-01","project_id":9999}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var envelope httpapi.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "PROJECT_NOT_FOUND", envelope.Code)
	})

	t.Run("rejects an out of range column", func(t *testing.T) {
		rec := postJSON(t, router, "/api/events", `{"name":"Keynote","date":"2026-09-01","column_number":7}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventController_GetUnknownID(t *testing.T) {
	f := itf.Setup(t)
	router := newEventsRouter(f)

	req := httptest.NewRequest(http.MethodGet, "/api/events/424242", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var envelope httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "EVENT_NOT_FOUND", envelope.Code)
}
