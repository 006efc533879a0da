package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/event"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
	"github.com/relayhq/relay-server/modules/scheduling/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type EventController struct {
	basePath          string
	service           *services.EventService
	assignmentService *services.AssignmentService
}

func NewEventController(service *services.EventService, assignmentService *services.AssignmentService) server.Controller {
	return &EventController{
		basePath:          "/api/events",
		service:           service,
		assignmentService: assignmentService,
	}
}

func (c *EventController) Key() string {
	return c.basePath
}

func (c *EventController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/project", c.attachProject).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}/shot-requests", c.replaceShotRequests).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}/personnel", c.replacePersonnel).Methods(http.MethodPut)
}

func (c *EventController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	events, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.EventResponse, 0, len(events))
	for _, item := range events {
		out = append(out, dtos.ToEventResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *EventController) get(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	item, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}

	resp := dtos.ToEventResponse(item)
	if ids, err := c.assignmentService.ShotRequestIDsByEvent(r.Context(), id); err == nil {
		resp.ShotRequestIDs = ids
	}
	if ids, err := c.assignmentService.PersonnelIDsByEvent(r.Context(), id); err == nil {
		resp.PersonnelIDs = ids
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (c *EventController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateEventRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	point := process.Idle
	if body.ProcessPoint != "" {
		point = process.Point(body.ProcessPoint)
	}

	created, err := c.service.Create(r.Context(), &event.Event{
		Name:         body.Name,
		Date:         body.Date,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Location:     body.Location,
		Notes:        body.Notes,
		QuickTurn:    body.QuickTurn,
		Deadline:     body.Deadline,
		ProcessPoint: point,
		ColumnNumber: body.ColumnNumber,
		ProjectID:    body.ProjectID,
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToEventResponse(created))
}

func (c *EventController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdateEventRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	patch := event.Patch{
		Name:         body.Name,
		Date:         body.Date,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Location:     body.Location,
		Notes:        body.Notes,
		QuickTurn:    body.QuickTurn,
		Deadline:     body.Deadline,
		ColumnNumber: body.ColumnNumber,
	}
	if body.ProcessPoint != nil {
		point := process.Point(*body.ProcessPoint)
		patch.ProcessPoint = &point
	}

	updated, err := c.service.Update(r.Context(), id, patch)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToEventResponse(updated))
}

func (c *EventController) attachProject(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.AttachProjectRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}

	updated, err := c.service.AttachProject(r.Context(), id, body.ProjectID)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToEventResponse(updated))
}

func (c *EventController) replaceShotRequests(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.ReplaceIDsRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}

	stored, err := c.assignmentService.AssignShotRequestsToEvent(r.Context(), id, body.IDs)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ReplaceIDsRequest{IDs: stored})
}

func (c *EventController) replacePersonnel(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.ReplaceIDsRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}

	stored, err := c.assignmentService.AssignPersonnelToEvent(r.Context(), id, body.IDs)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ReplaceIDsRequest{IDs: stored})
}

func (c *EventController) delete(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	deletedImages, err := c.service.Delete(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.EventDeleteResponse{DeletedImages: deletedImages})
}
