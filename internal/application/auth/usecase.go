// Package auth implementa el login con verificación pass/fail de credenciales.
package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nortetech/wms-api/internal/application/dto"
	"github.com/nortetech/wms-api/internal/domain"
	"github.com/nortetech/wms-api/internal/domain/repository"
	"github.com/nortetech/wms-api/pkg/config"
	"github.com/nortetech/wms-api/pkg/jwt"
	"github.com/nortetech/wms-api/pkg/logger"
)

// UseCase caso de uso de autenticación.
type UseCase struct {
	users repository.UserRepository
	cfg   config.JWTConfig
	log   *logger.Logger
	now   func() time.Time
}

// NewUseCase construye el caso de uso. now nil usa time.Now.
func NewUseCase(users repository.UserRepository, cfg config.JWTConfig, log *logger.Logger, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{users: users, cfg: cfg, log: log, now: now}
}

// Login verifica credenciales y emite un token JWT. Usuario inexistente y
// contraseña incorrecta devuelven el mismo error para no filtrar existencia.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "Ativo" {
		return nil, domain.ErrForbidden
	}

	token, err := jwt.Generate(uc.cfg.Secret, user.ID, user.Name, user.Role, uc.cfg.Issuer, uc.cfg.Expiration)
	if err != nil {
		return nil, err
	}

	if err := uc.users.UpdateLastAccess(ctx, user.ID, uc.now()); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar el último acceso")
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
