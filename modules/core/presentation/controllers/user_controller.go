package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	"github.com/relayhq/relay-server/modules/core/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/core/services"
	schedulingdtos "github.com/relayhq/relay-server/modules/scheduling/presentation/controllers/dtos"
	schedulingservices "github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

type UserController struct {
	basePath        string
	service         *services.UserService
	authService     *services.AuthService
	scheduleService *schedulingservices.ScheduleService
}

func NewUserController(
	service *services.UserService,
	authService *services.AuthService,
	scheduleService *schedulingservices.ScheduleService,
) server.Controller {
	return &UserController{
		basePath:        "/api/users",
		service:         service,
		authService:     authService,
		scheduleService: scheduleService,
	}
}

func (c *UserController) Key() string {
	return c.basePath
}

func (c *UserController) Register(r *mux.Router) {
	r.HandleFunc("/api/login", c.login).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/password", c.changePassword).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/schedule", c.schedule).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}/company", c.attachCompany).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}/organization", c.attachOrganization).Methods(http.MethodPut)
}

func (c *UserController) attachCompany(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToUserResponse(updated))
}

func (c *UserController) attachOrganization(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToUserResponse(updated))
}

func (c *UserController) login(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.LoginRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	u, err := c.authService.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToUserResponse(u))
}

func (c *UserController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	users, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]dtos.UserResponse, 0, len(users))
	for _, item := range users {
		out = append(out, dtos.ToUserResponse(item))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *UserController) get(w http.ResponseWriter, r *http.Request) {
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
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToUserResponse(item))
}

func (c *UserController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreateUserRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}
	role, ok := user.ParseRole(body.Access)
	if !ok {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ACCESS", "unknown access level")
		return
	}

	opts := []user.Option{
		user.WithCompanyID(body.CompanyID),
		user.WithOrganizationID(body.OrganizationID),
	}
	if body.Avatar != "" {
		opts = append(opts, user.WithAvatar(body.Avatar))
	}

	created, err := c.service.Create(r.Context(), user.New(body.Name, body.Email, role, opts...), body.Password, body.CreatePersonnel)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, dtos.ToUserResponse(created))
}

func (c *UserController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdateUserRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	patch := user.Patch{
		Name:   body.Name,
		Avatar: body.Avatar,
	}
	if body.Access != nil {
		role, ok := user.ParseRole(*body.Access)
		if !ok {
			httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ACCESS", "unknown access level")
			return
		}
		patch.Access = &role
	}

	updated, err := c.service.Update(r.Context(), id, patch)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.ToUserResponse(updated))
}

func (c *UserController) changePassword(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.ChangePasswordRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	if err := c.service.ChangePassword(r.Context(), id, body.Password); err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func (c *UserController) schedule(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}

	events, err := c.scheduleService.ForUser(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]schedulingdtos.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, schedulingdtos.ToEventResponse(e))
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *UserController) delete(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	deletedPersonnel, err := c.service.Delete(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, dtos.UserDeleteResponse{DeletedPersonnel: deletedPersonnel})
}
