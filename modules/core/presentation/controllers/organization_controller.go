package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/core/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type OrganizationController struct {
	basePath string
	service  *services.OrganizationService
}

func NewOrganizationController(service *services.OrganizationService) server.Controller {
	return &OrganizationController{
		basePath: "/api/organizations",
		service:  service,
	}
}

func (c *OrganizationController) Key() string {
	return c.basePath
}

func (c *OrganizationController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/company", c.attachCompany).Methods(http.MethodPut)
}

func (c *OrganizationController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	orgs, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.OrganizationResponse, 0, len(orgs))
	for _, item := range orgs {
		out = append(out, dtos.ToOrganizationResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *OrganizationController) get(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToOrganizationResponse(item))
}

func (c *OrganizationController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateOrganizationRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := c.service.Create(r.Context(), organization.New(
		body.Name,
		organization.WithDetails(body.Details),
		organization.WithCompanyID(body.CompanyID),
	))
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToOrganizationResponse(created))
}

func (c *OrganizationController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdateOrganizationRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	updated, err := c.service.Update(r.Context(), id, organization.Patch{
		Name:    body.Name,
		Details: body.Details,
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToOrganizationResponse(updated))
}

func (c *OrganizationController) attachCompany(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.AttachCompanyRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}

	updated, err := c.service.AttachCompany(r.Context(), id, body.CompanyID)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToOrganizationResponse(updated))
}

func (c *OrganizationController) delete(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.OrganizationDeleteResponse{
		DeletedProjects: report.Projects,
		DeletedEvents:   report.Events,
		DeletedImages:   report.Images,
	})
}
