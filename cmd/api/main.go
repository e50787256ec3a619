// @title           Accounts API
// @version         1.0
// @description     User accounts: registration, JWT login and token refresh.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/coreapp/accounts-api/internal/api"
	"github.com/coreapp/accounts-api/internal/core/ports"
	"github.com/coreapp/accounts-api/internal/core/service"
	"github.com/coreapp/accounts-api/internal/infrastructure/config"
	"github.com/coreapp/accounts-api/internal/infrastructure/db/postgres"
	redisdb "github.com/coreapp/accounts-api/internal/infrastructure/db/redis"
	"github.com/coreapp/accounts-api/pkg/logger"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "createsuperuser" {
		if err := runCreateSuperuser(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "createsuperuser:", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func runServer() error {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		return err
	}

	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	e := api.NewRouter(cfg, pool, rdb)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// runCreateSuperuser creates a staff+superuser account from the command
// line, prompting for the password without echo.
func runCreateSuperuser(args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	email := fs.String("email", "", "email address (required)")
	username := fs.String("username", "", "username (required)")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		return err
	}
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := service.NewAccountService(postgres.NewUserRepository(pool))
	user, err := accounts.CreateSuperuser(ctx, ports.CreateUserInput{
		Email:     *email,
		Username:  *username,
		Password:  string(password),
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		return err
	}

	fmt.Printf("superuser %q created (id %s)\n", user.Username, user.ID)
	return nil
}

func promptPassword() ([]byte, error) {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}
	return password, nil
}
