package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/core/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type CompanyController struct {
	basePath string
	service  *services.CompanyService
}

func NewCompanyController(service *services.CompanyService) server.Controller {
	return &CompanyController{
		basePath: "/api/companies",
		service:  service,
	}
}

func (c *CompanyController) Key() string {
	return c.basePath
}

func (c *CompanyController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
}

func (c *CompanyController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	companies, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.CompanyResponse, 0, len(companies))
	for _, item := range companies {
		out = append(out, dtos.ToCompanyResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *CompanyController) get(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToCompanyResponse(item))
}

func (c *CompanyController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateCompanyRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := c.service.Create(r.Context(), company.New(body.Name, company.WithSuperAdmin(body.IsSuperAdmin)))
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToCompanyResponse(created))
}

func (c *CompanyController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdateCompanyRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	updated, err := c.service.Update(r.Context(), id, company.Patch{
		Name:         body.Name,
		IsSuperAdmin: body.IsSuperAdmin,
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToCompanyResponse(updated))
}

func (c *CompanyController) delete(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.CompanyDeleteResponse{
		DeletedOrganizations: report.Organizations,
		DeletedProjects:      report.Projects,
		DeletedEvents:        report.Events,
		DeletedImages:        report.Images,
		DeletedPersonnel:     report.Personnel,
		DetachedUsers:        report.DetachedUsers,
	})
}
