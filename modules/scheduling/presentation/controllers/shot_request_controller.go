package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/process"
	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/shotrequest"
	"github.com/relayhq/relay-server/modules/scheduling/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type ShotRequestController struct {
	basePath string
	service  *services.ShotRequestService
}

func NewShotRequestController(service *services.ShotRequestService) server.Controller {
	return &ShotRequestController{
		basePath: "/api/shot-requests",
		service:  service,
	}
}

func (c *ShotRequestController) Key() string {
	return c.basePath
}

func (c *ShotRequestController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
}

func (c *ShotRequestController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	requests, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.ShotRequestResponse, 0, len(requests))
	for _, item := range requests {
		out = append(out, dtos.ToShotRequestResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ShotRequestController) get(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToShotRequestResponse(item))
}

func (c *ShotRequestController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateShotRequestRequest
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

	created, err := c.service.Create(r.Context(), &shotrequest.ShotRequest{
		Request:      body.Request,
		Notes:        body.Notes,
		QuickTurn:    body.QuickTurn,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Deadline:     body.Deadline,
		ProcessPoint: point,
	}, body.ProjectID, body.EventID)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToShotRequestResponse(created))
}

func (c *ShotRequestController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdateShotRequestRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	patch := shotrequest.Patch{
		Request:   body.Request,
		Notes:     body.Notes,
		QuickTurn: body.QuickTurn,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Deadline:  body.Deadline,
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToShotRequestResponse(updated))
}

func (c *ShotRequestController) delete(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ShotRequestDeleteResponse{DeletedImages: deletedImages})
}
