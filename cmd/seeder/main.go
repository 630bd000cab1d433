// Command seeder provisions the identity store: it ensures the shipped role
// definitions exist and creates the initial administrator account when one is
// missing. It is intended to be run once against a fresh database, and is
// safe to re-run.
//
// Flags:
//
//	--admin-user      username for the initial administrator (default: admin)
//	--admin-password  password for the initial administrator (default: admin)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	postgres "github.com/emslab/labadmin/internal/adapter/postgres"
	"github.com/emslab/labadmin/internal/adapter/postgres/role"
	"github.com/emslab/labadmin/internal/adapter/postgres/user"
	"github.com/emslab/labadmin/internal/app"
	"github.com/emslab/labadmin/internal/auth"
	"github.com/emslab/labadmin/internal/config"
	"github.com/emslab/labadmin/internal/domain"
)

// shippedRoles are the role definitions the system depends on.
var shippedRoles = []struct {
	code string
	name string
}{
	{domain.RoleSuperAdmin, "Super Administrator"},
	{domain.RoleAdmin, "Administrator"},
	{domain.RoleLabManager, "Lab Manager"},
	{domain.RoleUser, "User"},
}

func main() {
	adminUser := flag.String("admin-user", "admin", "username for the initial administrator")
	adminPassword := flag.String("admin-password", "admin", "password for the initial administrator")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	gw := postgres.NewGateway(pool, cfg.Database)
	roleRepo := role.New(gw)
	userRepo := user.New(gw)
	hasher := auth.NewHasher(cfg.Auth)

	for _, r := range shippedRoles {
		if err := roleRepo.Ensure(ctx, r.code, r.name); err != nil {
			logger.Error("ensure role",
				slog.String("code", r.code),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	logger.Info("roles ensured", slog.Int("count", len(shippedRoles)))

	if err := ensureAdmin(ctx, userRepo, roleRepo, hasher, *adminUser, *adminPassword, logger); err != nil {
		logger.Error("ensure administrator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding completed")
}

// ensureAdmin creates the administrator account and grants it SUPER_ADMIN and
// ADMIN, unless the username is already taken.
func ensureAdmin(ctx context.Context, users *user.Repo, roles *role.Repo, hasher *auth.Hasher, username, password string, logger *slog.Logger) error {
	taken, err := users.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		logger.Info("administrator already present", slog.String("username", username))
		return nil
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	admin, err := users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: digest,
		FullName:     "System Administrator",
		Status:       domain.StatusActive,
	})
	if err != nil {
		// A concurrent seeder run may have won the race.
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.Info("administrator already present", slog.String("username", username))
			return nil
		}
		return err
	}

	for _, code := range []string{domain.RoleSuperAdmin, domain.RoleAdmin} {
		r, err := roles.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if _, err := roles.Assign(ctx, admin.ID, r.ID, admin.ID); err != nil {
			return err
		}
	}

	logger.Info("administrator created",
		slog.String("username", username),
		slog.String("user_id", admin.ID.String()))
	return nil
}
