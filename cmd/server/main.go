package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relayhq/relay-server/migrations"
	corepersistence "github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	corecontrollers "github.com/relayhq/relay-server/modules/core/presentation/controllers"
	coreservices "github.com/relayhq/relay-server/modules/core/services"
	provisioningmail "github.com/relayhq/relay-server/modules/provisioning/infrastructure/mail"
	provisioningpersistence "github.com/relayhq/relay-server/modules/provisioning/infrastructure/persistence"
	provisioningcontrollers "github.com/relayhq/relay-server/modules/provisioning/presentation/controllers"
	provisioningservices "github.com/relayhq/relay-server/modules/provisioning/services"
	schedulingpersistence "github.com/relayhq/relay-server/modules/scheduling/infrastructure/persistence"
	schedulingcontrollers "github.com/relayhq/relay-server/modules/scheduling/presentation/controllers"
	schedulingservices "github.com/relayhq/relay-server/modules/scheduling/services"
	"github.com/relayhq/relay-server/pkg/configuration"
	"github.com/relayhq/relay-server/pkg/eventbus"
	"github.com/relayhq/relay-server/pkg/middleware"
	"github.com/relayhq/relay-server/pkg/server"

	"github.com/gorilla/mux"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool); err != nil {
		logger.WithError(err).Fatal("failed to apply migrations")
	}

	publisher := eventbus.NewEventPublisher(logger)

	companyRepo := corepersistence.NewCompanyRepository()
	organizationRepo := corepersistence.NewOrganizationRepository()
	userRepo := corepersistence.NewUserRepository()
	personnelRepo := corepersistence.NewPersonnelRepository()
	projectRepo := schedulingpersistence.NewProjectRepository()
	eventRepo := schedulingpersistence.NewEventRepository()
	shotRequestRepo := schedulingpersistence.NewShotRequestRepository()
	imageRepo := schedulingpersistence.NewImageRepository()
	assignmentRepo := schedulingpersistence.NewAssignmentRepository()
	accessRequestRepo := provisioningpersistence.NewAccessRequestRepository()

	companyService := coreservices.NewCompanyService(
		companyRepo, organizationRepo, userRepo, personnelRepo,
		projectRepo, eventRepo, imageRepo, publisher,
	)
	organizationService := coreservices.NewOrganizationService(
		organizationRepo, projectRepo, eventRepo, imageRepo, publisher,
	)
	userService := coreservices.NewUserService(userRepo, personnelRepo, organizationRepo, publisher)
	authService := coreservices.NewAuthService(userRepo)
	personnelService := coreservices.NewPersonnelService(personnelRepo, userRepo, publisher)

	projectService := schedulingservices.NewProjectService(
		projectRepo, eventRepo, imageRepo, publisher,
	)
	eventService := schedulingservices.NewEventService(
		eventRepo, projectRepo, imageRepo, publisher,
	)
	shotRequestService := schedulingservices.NewShotRequestService(
		shotRequestRepo, projectRepo, eventRepo, imageRepo, assignmentRepo, publisher,
	)
	imageService := schedulingservices.NewImageService(
		imageRepo, eventRepo, shotRequestRepo, conf.UploadsPath, publisher,
	)
	assignmentService := schedulingservices.NewAssignmentService(
		assignmentRepo, personnelRepo, eventRepo, projectRepo, shotRequestRepo, publisher,
	)
	scheduleService := schedulingservices.NewScheduleService(userRepo, personnelRepo, eventRepo)

	accessRequestService := provisioningservices.NewAccessRequestService(
		accessRequestRepo, userRepo, personnelRepo, organizationRepo,
		provisioningmail.NewSMTPGateway(conf.SMTP), publisher,
	)

	srv := &server.HTTPServer{
		Controllers: []server.Controller{
			corecontrollers.NewCompanyController(companyService),
			corecontrollers.NewOrganizationController(organizationService),
			corecontrollers.NewUserController(userService, authService, scheduleService),
			schedulingcontrollers.NewProjectController(projectService, assignmentService),
			schedulingcontrollers.NewEventController(eventService, assignmentService),
			schedulingcontrollers.NewShotRequestController(shotRequestService),
			schedulingcontrollers.NewImageController(imageService),
			schedulingcontrollers.NewPersonnelController(personnelService, assignmentService),
			provisioningcontrollers.NewAccessRequestController(accessRequestService),
		},
		Middlewares: []mux.MiddlewareFunc{
			middleware.ProvidePool(pool),
			middleware.RequestID(conf),
			middleware.LogRequests(logger),
		},
		CORSOrigins: []string{conf.Origin},
	}

	go func() {
		logger.WithField("address", conf.SocketAddress).Info("server listening")
		if err := srv.Start(conf.SocketAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
