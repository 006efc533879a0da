package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/scheduling/domain/entities/project"
	"github.com/relayhq/relay-server/modules/scheduling/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type ProjectController struct {
	basePath          string
	service           *services.ProjectService
	assignmentService *services.AssignmentService
}

func NewProjectController(service *services.ProjectService, assignmentService *services.AssignmentService) server.Controller {
	return &ProjectController{
		basePath:          "/api/projects",
		service:           service,
		assignmentService: assignmentService,
	}
}

func (c *ProjectController) Key() string {
	return c.basePath
}

func (c *ProjectController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/organization", c.attachOrganization).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}/shot-requests", c.replaceShotRequests).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}/personnel", c.replacePersonnel).Methods(http.MethodPut)
}

func (c *ProjectController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	projects, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.ProjectResponse, 0, len(projects))
	for _, item := range projects {
		out = append(out, dtos.ToProjectResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ProjectController) get(w http.ResponseWriter, r *http.Request) {
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

	resp := dtos.ToProjectResponse(item)
	if ids, err := c.assignmentService.ShotRequestIDsByProject(r.Context(), id); err == nil {
		resp.ShotRequestIDs = ids
	}
	if ids, err := c.assignmentService.PersonnelIDsByProject(r.Context(), id); err == nil {
		resp.PersonnelIDs = ids
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (c *ProjectController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateProjectRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := c.service.Create(r.Context(), &project.Project{
		Name:           body.Name,
		Location:       body.Location,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		DeliverDate:    body.DeliverDate,
		OrganizationID: body.OrganizationID,
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToProjectResponse(created))
}

func (c *ProjectController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdateProjectRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	updated, err := c.service.Update(r.Context(), id, project.Patch{
		Name:        body.Name,
		Location:    body.Location,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		DeliverDate: body.DeliverDate,
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToProjectResponse(updated))
}

func (c *ProjectController) attachOrganization(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.AttachOrganizationRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}

	updated, err := c.service.AttachOrganization(r.Context(), id, body.OrganizationID)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToProjectResponse(updated))
}

func (c *ProjectController) replaceShotRequests(w http.ResponseWriter, r *http.Request) {
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

	stored, err := c.assignmentService.AssignShotRequestsToProject(r.Context(), id, body.IDs)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ReplaceIDsRequest{IDs: stored})
}

func (c *ProjectController) replacePersonnel(w http.ResponseWriter, r *http.Request) {
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

	stored, err := c.assignmentService.AssignPersonnelToProject(r.Context(), id, body.IDs)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ReplaceIDsRequest{IDs: stored})
}

func (c *ProjectController) delete(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	report, err := c.service.Delete(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ProjectDeleteResponse{
		DeletedEvents: report.Events,
		DeletedImages: report.Images,
	})
}
