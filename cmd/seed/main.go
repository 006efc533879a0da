// Command seed bootstraps the Relay super-admin company, its default
// organization, and the initial admin account. Safe to run repeatedly:
// existing records are left untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relayhq/relay-server/migrations"
	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/organization"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
	"github.com/relayhq/relay-server/modules/core/infrastructure/persistence"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/configuration"
	"github.com/relayhq/relay-server/pkg/mapping"
)

const (
	superAdminCompanyName = "Relay"
	defaultOrgName        = "Relay HQ"
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

	adminName := flag.String("name", "Admin", "admin display name")
	adminEmail := flag.String("email", "admin@relayhq.io", "admin login email")
	adminPassword := flag.String("password", "", "admin password (required)")
	flag.Parse()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	if *adminPassword == "" {
		logger.Fatal("missing -password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool); err != nil {
		logger.WithError(err).Fatal("failed to apply migrations")
	}

	ctx = composables.WithPool(ctx, pool)
	companyRepo := persistence.NewCompanyRepository()
	orgRepo := persistence.NewOrganizationRepository()
	userRepo := persistence.NewUserRepository()

	err = composables.InTx(ctx, func(txCtx context.Context) error {
		c, err := companyRepo.GetByName(txCtx, superAdminCompanyName)
		if errors.Is(err, persistence.ErrCompanyNotFound) {
			c, err = companyRepo.Create(txCtx, company.New(superAdminCompanyName, company.WithSuperAdmin(true)))
			if err != nil {
				return err
			}
			logger.WithField("company_id", c.ID()).Info("created super-admin company")
		} else if err != nil {
			return err
		}

		orgIDs, err := orgRepo.IDsByCompany(txCtx, c.ID())
		if err != nil {
			return err
		}
		if len(orgIDs) == 0 {
			o, err := orgRepo.Create(txCtx, organization.New(
				defaultOrgName,
				organization.WithCompanyID(mapping.Pointer(c.ID())),
			))
			if err != nil {
				return err
			}
			logger.WithField("organization_id", o.ID()).Info("created default organization")
		}

		_, err = userRepo.GetByEmail(txCtx, *adminEmail)
		if errors.Is(err, persistence.ErrUserNotFound) {
			u := user.New(*adminName, *adminEmail, user.RoleAdmin,
				user.WithCompanyID(mapping.Pointer(c.ID())))
			if err := u.SetPassword(*adminPassword); err != nil {
				return err
			}
			created, err := userRepo.Create(txCtx, u)
			if err != nil {
				return err
			}
			logger.WithField("user_id", created.ID()).Info("created admin user")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("admin user already exists, nothing to do")
		return nil
	})
	if err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}
