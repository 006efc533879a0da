package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	coredtos "github.com/relayhq/relay-server/modules/core/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/provisioning/domain/accessrequest"
	"github.com/relayhq/relay-server/modules/provisioning/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/provisioning/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type AccessRequestController struct {
	basePath string
	service  *services.AccessRequestService
}

func NewAccessRequestController(service *services.AccessRequestService) server.Controller {
	return &AccessRequestController{
		basePath: "/api/access-requests",
		service:  service,
	}
}

func (c *AccessRequestController) Key() string {
	return c.basePath
}

func (c *AccessRequestController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.listPending).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/process", c.process).Methods(http.MethodPost)
}

// listPending returns open requests only; processed ones are reachable by
// id.
func (c *AccessRequestController) listPending(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	requests, err := c.service.ListPending(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.AccessRequestResponse, 0, len(requests))
	for _, item := range requests {
		out = append(out, dtos.ToAccessRequestResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *AccessRequestController) get(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToAccessRequestResponse(item))
}

func (c *AccessRequestController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateAccessRequestRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := c.service.Create(r.Context(), &accessrequest.AccessRequest{
		Name:            body.Name,
		Email:           body.Email,
		Organization:    body.Organization,
		Phone:           body.Phone,
		RequestedAccess: body.RequestedAccess,
		Message:         body.Message,
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToAccessRequestResponse(created))
}

func (c *AccessRequestController) process(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.ProcessAccessRequestRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	switch body.Action {
	case "approve":
		result, err := c.service.Approve(r.Context(), id, services.ApprovalInput{
			ProcessedBy:       body.ProcessedBy,
			Role:              body.Role,
			Avatar:            body.Avatar,
			OrganizationID:    body.OrganizationID,
			TemporaryPassword: body.TemporaryPassword,
			CreatePersonnel:   body.CreatePersonnel,
			Phone:             body.Phone,
		})
		if err != nil {
			httpapi.WriteServiceError(w, requestID, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, dtos.ApprovalResponse{
			Request:   dtos.ToAccessRequestResponse(result.Request),
			User:      coredtos.ToUserResponse(result.User),
			EmailSent: result.EmailSent,
		})
	case "deny":
		denied, err := c.service.Deny(r.Context(), id, body.ProcessedBy)
		if err != nil {
			httpapi.WriteServiceError(w, requestID, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, dtos.ToAccessRequestResponse(denied))
	}
}

func (c *AccessRequestController) delete(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
