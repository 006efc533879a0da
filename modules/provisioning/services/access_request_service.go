package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/personnel"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/provisioning/domain/accessrequest"
	"github.com/relayhq/relay-server/modules/provisioning/domain/notification"
	"github.com/relayhq/relay-server/modules/provisioning/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

const (
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	passwordLength  = 12
)

type AccessRequestCreatedEvent struct {
	Request *accessrequest.AccessRequest
}

type AccessRequestApprovedEvent struct {
	Request *accessrequest.AccessRequest
	User    *user.User
}

type AccessRequestDeniedEvent struct {
	Request *accessrequest.AccessRequest
}

// ApprovalInput carries what the approver chose when granting access: the
// organization the account lands in, the granted role, avatar, an optional
// caller-supplied temporary credential and whether to create a linked crew
// record. Zero values fall back to the request's own fields.
type ApprovalInput struct {
	ProcessedBy       *uint
	Role              string
	Avatar            string
	OrganizationID    *uint
	TemporaryPassword string
	CreatePersonnel   bool
	Phone             string
}

// ApprovalResult is what an approve operation hands back: the processed
// request, the provisioned account and whether the credential mail went
// out. The mail is sent only after the transaction commits.
type ApprovalResult struct {
	Request   *accessrequest.AccessRequest
	User      *user.User
	EmailSent bool
}

type AccessRequestService struct {
	repo             accessrequest.Repository
	userRepo         user.Repository
	personnelRepo    personnel.Repository
	organizationRepo organization.Repository
	gateway          notification.Gateway
	publisher        eventbus.EventBus
}

func NewAccessRequestService(
	repo accessrequest.Repository,
	userRepo user.Repository,
	personnelRepo personnel.Repository,
	organizationRepo organization.Repository,
	gateway notification.Gateway,
	publisher eventbus.EventBus,
) *AccessRequestService {
	return &AccessRequestService{
		repo:             repo,
		userRepo:         userRepo,
		personnelRepo:    personnelRepo,
		organizationRepo: organizationRepo,
		gateway:          gateway,
		publisher:        publisher,
	}
}

func (s *AccessRequestService) ListPending(ctx context.Context) ([]*accessrequest.AccessRequest, error) {
	return s.repo.ListPending(ctx)
}

func (s *AccessRequestService) GetByID(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrAccessRequestNotFound) {
			return nil, serrors.NewNotFound("ACCESS_REQUEST_NOT_FOUND", "access request not found")
		}
		return nil, serrors.NewInternal("failed to load access request", err)
	}
	return req, nil
}

// Create files a new access request. One pending request per email; a
// repeat ask while the first is open is a conflict. The store's partial
// unique index backs up this check against races.
func (s *AccessRequestService) Create(ctx context.Context, req *accessrequest.AccessRequest) (*accessrequest.AccessRequest, error) {
	req.Status = accessrequest.StatusPending
	req.CreatedAt = time.Now()

	var created *accessrequest.AccessRequest
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		pending, err := s.repo.ExistsPendingByEmail(txCtx, req.Email)
		if err != nil {
			return serrors.NewInternal("failed to check pending requests", err)
		}
		if pending {
			return serrors.NewConflict("REQUEST_ALREADY_PENDING", "an access request for this email is already pending")
		}

		created, err = s.repo.Create(txCtx, req)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "REQUEST_ALREADY_PENDING", "an access request for this email is already pending")
			}
			return serrors.NewInternal("failed to create access request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(AccessRequestCreatedEvent{Request: created})
	return created, nil
}

// Approve provisions an account for a pending request: the status flips
// pending->approved and a user is created under the chosen organization's
// company with the granted role and a temporary credential (caller-supplied
// or generated). A linked crew record inheriting the request's phone is
// created when asked for. All of that commits atomically; the credential
// mail goes out afterwards and its failure cannot undo the approval.
func (s *AccessRequestService) Approve(ctx context.Context, id uint, input ApprovalInput) (*ApprovalResult, error) {
	result := &ApprovalResult{}
	var tempPassword string
	var orgName string

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		req, err := s.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		var org *organization.Organization
		if input.OrganizationID != nil {
			org, err = s.organizationRepo.GetByID(txCtx, *input.OrganizationID)
			if err != nil {
				if errors.Is(err, corepersistence.ErrOrganizationNotFound) {
					return serrors.NewValidation("ORGANIZATION_NOT_FOUND", "organization not found")
				}
				return serrors.NewInternal("failed to load organization", err)
			}
		}

		ok, err := s.repo.TransitionFromPending(txCtx, id, accessrequest.StatusApproved, time.Now(), input.ProcessedBy)
		if err != nil {
			return serrors.NewInternal("failed to transition access request", err)
		}
		if !ok {
			return serrors.NewInvalidState("REQUEST_ALREADY_PROCESSED", "this access request was already processed")
		}

		tempPassword = input.TemporaryPassword
		if tempPassword == "" {
			tempPassword, err = generatePassword(passwordLength)
			if err != nil {
				return serrors.NewInternal("failed to generate password", err)
			}
		}

		// The approver's role choice wins; the requested access is only a
		// fallback, and anything unrecognized lands on Client.
		roleName := input.Role
		if roleName == "" {
			roleName = req.RequestedAccess
		}
		role, ok := user.ParseRole(roleName)
		if !ok {
			role = user.RoleClient
		}

		opts := []user.Option{}
		if input.Avatar != "" {
			opts = append(opts, user.WithAvatar(input.Avatar))
		}
		if org != nil {
			// Scoping through the organization keeps the user's company in
			// agreement with the organization's company.
			opts = append(opts, user.WithOrganizationID(mapping.Pointer(org.ID())), user.WithCompanyID(org.CompanyID()))
		}

		u := user.New(req.Name, req.Email, role, opts...)
		if err := u.SetPassword(tempPassword); err != nil {
			return serrors.NewInternal("failed to hash password", err)
		}
		created, err := s.userRepo.Create(txCtx, u)
		if err != nil {
			if serrors.IsIntegrity(err) {
				return serrors.MapIntegrity(err, "EMAIL_TAKEN", "a user with this email already exists")
			}
			return serrors.NewInternal("failed to create user", err)
		}
		result.User = created

		if input.CreatePersonnel {
			phone := req.Phone
			if phone == "" {
				phone = input.Phone
			}
			p := personnel.New(
				req.Name,
				personnel.WithEmail(req.Email),
				personnel.WithPhone(phone),
				personnel.WithRole(string(role)),
				personnel.WithAvatar(created.Avatar()),
				personnel.WithCompanyID(created.CompanyID()),
				personnel.WithUserID(mapping.Pointer(created.ID())),
			)
			if _, err := s.personnelRepo.Create(txCtx, p); err != nil {
				return serrors.NewInternal("failed to create linked personnel", err)
			}
		}

		orgName = req.Organization
		if org != nil {
			orgName = org.Name()
		}

		result.Request, err = s.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	result.EmailSent = s.gateway.SendApproval(ctx, notification.Approval{
		RecipientEmail:    result.Request.Email,
		RecipientName:     result.Request.Name,
		LoginEmail:        result.User.Email(),
		TemporaryPassword: tempPassword,
		Organization:      orgName,
	})

	s.publisher.Publish(AccessRequestApprovedEvent{Request: result.Request, User: result.User})
	return result, nil
}

// Deny closes a pending request without provisioning anything. A denied
// email may file a fresh request afterwards.
func (s *AccessRequestService) Deny(ctx context.Context, id uint, processedBy *uint) (*accessrequest.AccessRequest, error) {
	var denied *accessrequest.AccessRequest
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}

		ok, err := s.repo.TransitionFromPending(txCtx, id, accessrequest.StatusDenied, time.Now(), processedBy)
		if err != nil {
			return serrors.NewInternal("failed to transition access request", err)
		}
		if !ok {
			return serrors.NewInvalidState("REQUEST_ALREADY_PROCESSED", "this access request was already processed")
		}

		denied, err = s.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(AccessRequestDeniedEvent{Request: denied})
	return denied, nil
}

func (s *AccessRequestService) Delete(ctx context.Context, id uint) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.GetByID(txCtx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return serrors.NewInternal("failed to delete access request", err)
		}
		return nil
	})
}

func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordCharset[n.Int64()]
	}
	return string(buf), nil
}
