// Command createsuperuser registers a staff user with superuser rights.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	ur "github.com/Leopold1975/finscore/internal/finscore/repository/userrepo/postgres"
	"github.com/Leopold1975/finscore/internal/finscore/services/authservice"
	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/Leopold1975/finscore/internal/pkg/pgtools"
	"github.com/Leopold1975/finscore/internal/pkg/validation"
)

func main() {
	var configPath, phone, password string

	flag.StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")
	flag.StringVar(&phone, "phone", "", "phone number of the superuser")
	flag.StringVar(&password, "password", "", "password of the superuser")
	flag.Parse()

	cfg, err := config.New(configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, phone, password); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, phone, password string) error {
	db, err := pgtools.New(ctx, cfg.PostgresDB)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer db.Close()

	as := authservice.New(ur.New(db), validation.New(), cfg.Auth)

	u, err := as.CreateSuperuser(ctx, phone, password)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				log.Printf("%s: %s", field, msg)
			}
		}

		return err //nolint:wrapcheck
	}

	log.Printf("superuser %s created with id %d", u.PhoneNumber, u.ID)

	return nil
}
