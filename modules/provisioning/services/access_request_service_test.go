package services_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/provisioning/domain/accessrequest"
	"github.com/relayhq/relay-server/modules/provisioning/domain/notification"
	"github.com/relayhq/relay-server/modules/provisioning/infrastructure/persistence"
	"github.com/relayhq/relay-server/modules/provisioning/services"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/itf"
	"github.com/relayhq/relay-server/pkg/mapping"
	"github.com/relayhq/relay-server/pkg/serrors"
)

type recordingGateway struct {
	mu      sync.Mutex
	sent    []notification.Approval
	deliver bool
}

func (g *recordingGateway) SendApproval(ctx context.Context, approval notification.Approval) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, approval)
	return g.deliver
}

func newAccessRequestService(gateway notification.Gateway) *services.AccessRequestService {
	return services.NewAccessRequestService(
		persistence.NewAccessRequestRepository(),
		corepersistence.NewUserRepository(),
		corepersistence.NewPersonnelRepository(),
		corepersistence.NewOrganizationRepository(),
		gateway,
		eventbus.NewEventPublisher(logrus.New()),
	)
}

func newRequest(email string) *accessrequest.AccessRequest {
	return &accessrequest.AccessRequest{
		Name:            "Taylor Reed",
		Email:           email,
		Organization:    "Reed Creative",
		Phone:           "555-0137",
		RequestedAccess: "Photographer",
		Message:         "We shoot two events a month.",
	}
}

func TestAccessRequestService_PendingUniqueness(t *testing.T) {
	f := itf.Setup(t)
	gw := &recordingGateway{deliver: true}
	svc := newAccessRequestService(gw)

	first, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusPending, first.Status)

	_, err = svc.Create(f.Ctx, newRequest("taylor@example.com"))
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "REQUEST_ALREADY_PENDING", serr.Code)

	// A different email is unaffected.
	_, err = svc.Create(f.Ctx, newRequest("other@example.com"))
	assert.NoError(t, err)
}

func TestAccessRequestService_ApproveProvisionsAccount(t *testing.T) {
	f := itf.Setup(t)
	gw := &recordingGateway{deliver: true}
	svc := newAccessRequestService(gw)
	personnelRepo := corepersistence.NewPersonnelRepository()

	req, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)

	result, err := svc.Approve(f.Ctx, req.ID, services.ApprovalInput{CreatePersonnel: true})
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusApproved, result.Request.Status)
	require.NotNil(t, result.Request.ProcessedAt)
	assert.True(t, result.EmailSent)

	assert.Equal(t, "taylor@example.com", result.User.Email())
	assert.Equal(t, "Taylor Reed", result.User.Name())
	// No role override: the requested access carries through.
	assert.Equal(t, user.RolePhotographer, result.User.Access())

	crew, err := personnelRepo.GetByUserID(f.Ctx, result.User.ID())
	require.NoError(t, err)
	assert.Equal(t, "555-0137", crew.Phone())

	// The mailed credential matches the stored hash.
	require.Len(t, gw.sent, 1)
	mail := gw.sent[0]
	assert.Equal(t, "taylor@example.com", mail.LoginEmail)
	assert.NotEmpty(t, mail.TemporaryPassword)
	assert.True(t, result.User.CheckPassword(mail.TemporaryPassword))
}

func TestAccessRequestService_ApproveWithApproverChoices(t *testing.T) {
	f := itf.Setup(t)
	gw := &recordingGateway{deliver: true}
	svc := newAccessRequestService(gw)
	companyRepo := corepersistence.NewCompanyRepository()
	orgRepo := corepersistence.NewOrganizationRepository()

	co, err := companyRepo.Create(f.Ctx, company.New("Acme Media"))
	require.NoError(t, err)
	org, err := orgRepo.Create(f.Ctx, organization.New("Acme", organization.WithCompanyID(mapping.Pointer(co.ID()))))
	require.NoError(t, err)

	req, err := svc.Create(f.Ctx, newRequest("a@b.com"))
	require.NoError(t, err)

	result, err := svc.Approve(f.Ctx, req.ID, services.ApprovalInput{
		Role:              "Client",
		Avatar:            "avatar7.png",
		OrganizationID:    mapping.Pointer(org.ID()),
		TemporaryPassword: "temp123-secret",
		CreatePersonnel:   true,
	})
	require.NoError(t, err)

	// The approver's choices win over the request's own fields, and the
	// account lands inside the chosen organization's company.
	got := result.User
	assert.Equal(t, user.RoleClient, got.Access())
	assert.Equal(t, "avatar7.png", got.Avatar())
	require.NotNil(t, got.OrganizationID())
	assert.Equal(t, org.ID(), *got.OrganizationID())
	require.NotNil(t, got.CompanyID())
	assert.Equal(t, co.ID(), *got.CompanyID())
	assert.True(t, got.CheckPassword("temp123-secret"))

	require.Len(t, gw.sent, 1)
	assert.Equal(t, "temp123-secret", gw.sent[0].TemporaryPassword)
	assert.Equal(t, "Acme", gw.sent[0].Organization)

	// The linked crew record agrees with the user's company.
	crew, err := corepersistence.NewPersonnelRepository().GetByUserID(f.Ctx, got.ID())
	require.NoError(t, err)
	require.NotNil(t, crew.CompanyID())
	assert.Equal(t, co.ID(), *crew.CompanyID())
}

func TestAccessRequestService_ApproveWithoutPersonnel(t *testing.T) {
	f := itf.Setup(t)
	svc := newAccessRequestService(&recordingGateway{deliver: true})
	personnelRepo := corepersistence.NewPersonnelRepository()

	req, err := svc.Create(f.Ctx, newRequest("solo@example.com"))
	require.NoError(t, err)

	result, err := svc.Approve(f.Ctx, req.ID, services.ApprovalInput{})
	require.NoError(t, err)

	_, err = personnelRepo.GetByUserID(f.Ctx, result.User.ID())
	assert.ErrorIs(t, err, corepersistence.ErrPersonnelNotFound)
}

func TestAccessRequestService_ApproveUnknownOrganization(t *testing.T) {
	f := itf.Setup(t)
	svc := newAccessRequestService(&recordingGateway{deliver: true})

	req, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)

	_, err = svc.Approve(f.Ctx, req.ID, services.ApprovalInput{OrganizationID: mapping.Pointer(uint(9999))})
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "ORGANIZATION_NOT_FOUND", serr.Code)

	// The failed approve rolled back: the request is still pending.
	still, err := svc.GetByID(f.Ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusPending, still.Status)
}

func TestAccessRequestService_ApproveTwice(t *testing.T) {
	f := itf.Setup(t)
	svc := newAccessRequestService(&recordingGateway{deliver: true})

	req, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)

	_, err = svc.Approve(f.Ctx, req.ID, services.ApprovalInput{})
	require.NoError(t, err)

	_, err = svc.Approve(f.Ctx, req.ID, services.ApprovalInput{})
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusConflict, serr.Status)
	assert.Equal(t, "REQUEST_ALREADY_PROCESSED", serr.Code)
}

func TestAccessRequestService_ConcurrentApproval(t *testing.T) {
	f := itf.Setup(t)
	svc := newAccessRequestService(&recordingGateway{deliver: true})
	userRepo := corepersistence.NewUserRepository()

	req, err := svc.Create(f.Ctx, newRequest("race@example.com"))
	require.NoError(t, err)

	// Two overlapping approves: the compare-and-set on status lets exactly
	// one through; the loser sees the already-processed conflict.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(f.Ctx, req.ID, services.ApprovalInput{})
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var serr *serrors.ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "REQUEST_ALREADY_PROCESSED", serr.Code)
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	// Exactly one user was provisioned.
	_, err = userRepo.GetByEmail(f.Ctx, "race@example.com")
	require.NoError(t, err)
	all, err := userRepo.GetAll(f.Ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestAccessRequestService_UnconfirmedDelivery(t *testing.T) {
	f := itf.Setup(t)
	svc := newAccessRequestService(&recordingGateway{deliver: false})

	req, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)

	// Approval still succeeds when the mail does not go out.
	result, err := svc.Approve(f.Ctx, req.ID, services.ApprovalInput{})
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
	assert.Equal(t, accessrequest.StatusApproved, result.Request.Status)
}

func TestAccessRequestService_DenyFreesTheEmail(t *testing.T) {
	f := itf.Setup(t)
	gw := &recordingGateway{deliver: true}
	svc := newAccessRequestService(gw)

	req, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)

	denied, err := svc.Deny(f.Ctx, req.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusDenied, denied.Status)
	assert.Empty(t, gw.sent)

	_, err = svc.Deny(f.Ctx, req.ID, nil)
	var serr *serrors.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "REQUEST_ALREADY_PROCESSED", serr.Code)

	// Denial is terminal, so the same address may apply again.
	again, err := svc.Create(f.Ctx, newRequest("taylor@example.com"))
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusPending, again.Status)

	pending, err := svc.ListPending(f.Ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, again.ID, pending[0].ID)
}
