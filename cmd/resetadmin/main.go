// Command resetadmin restores access to the admin panel. Without -password
// the account falls back to ADMIN_DEFAULT_PASSWORD.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/lshigami/examhall/config"
	"github.com/lshigami/examhall/database"
	"github.com/lshigami/examhall/internal/logger"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/lshigami/examhall/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	password := flag.String("password", "", "new admin password; empty restores the default password")
	flag.Parse()

	logger.Init()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := service.ResetAdmin(ctx, repository.NewAdminRepository(db), *password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reset admin")
	}

	if admin.PasswordHash == nil {
		log.Info().Str("username", admin.Username).Msg("Admin password reset to the configured default")
	} else {
		log.Info().Str("username", admin.Username).Msg("Admin password updated")
	}
}
