package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/examhall/config"
	"github.com/lshigami/examhall/internal/auth"
	"github.com/lshigami/examhall/internal/dto"
	"github.com/lshigami/examhall/internal/model"
	"github.com/lshigami/examhall/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminAuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type adminAuthService struct {
	adminRepo       repository.AdminRepository
	tokens          *auth.TokenManager
	defaultPassword string
}

func NewAdminAuthService(adminRepo repository.AdminRepository, tokens *auth.TokenManager, cfg *config.Config) AdminAuthService {
	return &adminAuthService{
		adminRepo:       adminRepo,
		tokens:          tokens,
		defaultPassword: cfg.Auth.AdminDefaultPassword,
	}
}

// Login checks the credentials and issues an admin token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *adminAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("username", username).Msg("Admin login: unknown username")
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		log.Error().Err(err).Msg("Admin login: Failed to load admin")
		return nil, fmt.Errorf("error loading admin: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, s.defaultPassword, req.Password) {
		log.Warn().Str("username", username).Msg("Admin login: wrong password")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Generate(admin.ID, admin.Username)
	if err != nil {
		log.Error().Err(err).Uint("adminID", admin.ID).Msg("Admin login: Failed to sign token")
		return nil, err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Uint("adminID", admin.ID).Msg("Admin login: Failed to update last login")
	}

	log.Info().Uint("adminID", admin.ID).Msg("Admin logged in")
	return &dto.LoginResponse{
		Success: true,
		Token:   token,
		Admin: dto.AdminProfileDTO{
			ID:       admin.ID,
			Username: admin.Username,
			Email:    admin.Email,
		},
	}, nil
}

// DefaultAdminUsername is the account maintained by ResetAdmin.
const DefaultAdminUsername = "admin"

// ResetAdmin makes sure an "admin" account exists, normalizing the case of a
// legacy "Admin" row, and sets its password. An empty password clears the
// hash so the configured default password applies again.
func ResetAdmin(ctx context.Context, repo repository.AdminRepository, password string) (*model.Admin, error) {
	admins, err := repo.FindByUsernameFold(ctx, DefaultAdminUsername)
	if err != nil {
		return nil, fmt.Errorf("error looking up admin: %w", err)
	}

	var admin model.Admin
	if len(admins) == 0 {
		admin = model.Admin{Username: DefaultAdminUsername, Email: "admin@example.com"}
		if err := repo.Create(ctx, &admin); err != nil {
			return nil, fmt.Errorf("error creating admin: %w", err)
		}
		log.Info().Uint("adminID", admin.ID).Msg("Created admin user")
	} else {
		admin = admins[0]
		if admin.Username != DefaultAdminUsername {
			if err := repo.UpdateUsername(ctx, admin.ID, DefaultAdminUsername); err != nil {
				return nil, fmt.Errorf("error renaming admin: %w", err)
			}
			log.Info().Str("from", admin.Username).Msg("Normalized admin username")
			admin.Username = DefaultAdminUsername
		}
	}

	var hash *string
	if password != "" {
		h, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	if err := repo.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		return nil, fmt.Errorf("error resetting admin password: %w", err)
	}
	admin.PasswordHash = hash
	return &admin, nil
}
