package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	coredtos "github.com/relayhq/relay-server/modules/core/presentation/controllers/dtos"
	coreservices "github.com/relayhq/relay-server/modules/core/services"
	"github.com/relayhq/relay-server/modules/scheduling/presentation/controllers/dtos"
	"github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/httpapi"
	"github.com/relayhq/relay-server/pkg/server"
)

// PersonnelController lives in the scheduling surface because patching a
// crew member can replace their event and project memberships, which is an
// assignment concern.
type PersonnelController struct {
	basePath          string
	service           *coreservices.PersonnelService
	assignmentService *services.AssignmentService
}

func NewPersonnelController(service *coreservices.PersonnelService, assignmentService *services.AssignmentService) server.Controller {
	return &PersonnelController{
		basePath:          "/api/personnel",
		service:           service,
		assignmentService: assignmentService,
	}
}

func (c *PersonnelController) Key() string {
	return c.basePath
}

func (c *PersonnelController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.update).Methods(http.MethodPatch)
	router.HandleFunc("/{id:[0-9]+}", c.delete).Methods(http.MethodDelete)
}

func (c *PersonnelController) list(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	personnels, err := c.service.GetAll(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	out := make([]coredtos.PersonnelResponse, 0, len(personnels))
	for _, item := range personnels {
		resp := coredtos.ToPersonnelResponse(item)
		if resp.EventIDs, err = c.assignmentService.EventIDsByPersonnel(r.Context(), item.ID()); err != nil {
			httpapi.WriteServiceError(w, requestID, err)
			return
		}
		if resp.ProjectIDs, err = c.assignmentService.ProjectIDsByPersonnel(r.Context(), item.ID()); err != nil {
			httpapi.WriteServiceError(w, requestID, err)
			return
		}
		out = append(out, resp)
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *PersonnelController) get(w http.ResponseWriter, r *http.Request) {
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

	resp := coredtos.ToPersonnelResponse(item)
	if resp.EventIDs, err = c.assignmentService.EventIDsByPersonnel(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	if resp.ProjectIDs, err = c.assignmentService.ProjectIDsByPersonnel(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	if resp.ShotRequestIDs, err = c.assignmentService.ShotRequestIDsByPersonnel(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (c *PersonnelController) create(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	var body dtos.CreatePersonnelRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := c.service.Create(r.Context(), personnel.New(
		body.Name,
		personnel.WithEmail(body.Email),
		personnel.WithPhone(body.Phone),
		personnel.WithRole(body.Role),
		personnel.WithAvatar(body.Avatar),
		personnel.WithCompanyID(body.CompanyID),
		personnel.WithUserID(body.UserID),
	))
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, coredtos.ToPersonnelResponse(created))
}

func (c *PersonnelController) update(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())
	id, err := httpapi.ParseUintVar(r, "id")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_ID", err.Error())
		return
	}
	var body dtos.UpdatePersonnelRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "INVALID_BODY", err.Error())
		return
	}
	if err := dtos.Validate.Struct(&body); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, requestID, "VALIDATION_FAILED", err.Error())
		return
	}

	// The scalar patch and every membership replace commit together: a
	// failed replace rolls the whole request back.
	var resp coredtos.PersonnelResponse
	err = composables.InTx(r.Context(), func(txCtx context.Context) error {
		updated, err := c.service.Update(txCtx, id, personnel.Patch{
			Name:   body.Name,
			Email:  body.Email,
			Phone:  body.Phone,
			Role:   body.Role,
			Avatar: body.Avatar,
		})
		if err != nil {
			return err
		}
		resp = coredtos.ToPersonnelResponse(updated)

		// Membership keys replace the full set. event_ids also rederives
		// the crew member's project memberships from the surviving events.
		if body.EventIDs != nil {
			events, projects, err := c.assignmentService.AssignPersonnelToEvents(txCtx, id, *body.EventIDs)
			if err != nil {
				return err
			}
			resp.EventIDs = events
			resp.ProjectIDs = projects
		}
		if body.ProjectIDs != nil {
			projects, err := c.assignmentService.AssignPersonnelToProjects(txCtx, id, *body.ProjectIDs)
			if err != nil {
				return err
			}
			resp.ProjectIDs = projects
		}
		if body.ShotRequestIDs != nil {
			shotRequests, err := c.assignmentService.AssignShotRequestsToPersonnel(txCtx, id, *body.ShotRequestIDs)
			if err != nil {
				return err
			}
			resp.ShotRequestIDs = shotRequests
		}
		return nil
	})
	if err != nil {
		httpapi.WriteServiceError(w, requestID, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (c *PersonnelController) delete(w http.ResponseWriter, r *http.Request) {
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
