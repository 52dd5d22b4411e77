package commands

import (
	"context"
	"log/slog"
	"time"

	"stayflow/internal/domain/user"
	"stayflow/internal/pkg/clock"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/pkg/jwt"
	"stayflow/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	UserID uuid.UUID
	Email  string
	Role   string
	Token  string
}

type AuthCommands interface {
	Register(ctx context.Context, email, rawPassword string) (*LoginResult, error)
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
}

// UserRepository is the write-side surface auth needs.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email user.Email) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type authCommandsImpl struct {
	users      UserRepository
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(users UserRepository, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		users:      users,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	credentials, err := user.NewCredentials(email, rawPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	hash, err := password.HashPassword(credentials.Password().Value())
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	newUser := user.NewUser(credentials.Email(), hash, user.RoleGuest)
	if err := a.users.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return a.issueToken(newUser)
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	credentials, err := user.NewCredentials(email, rawPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	found, err := a.users.FindByEmail(ctx, credentials.Email())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}
	if !found.IsActive() {
		return nil, ErrUserInactive
	}
	if err := password.ComparePassword(found.PasswordHash(), credentials.Password().Value()); err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	if err := a.users.UpdateLastLogin(ctx, found.ID(), a.clock.Now()); err != nil {
		// Not critical; the login itself succeeded.
		slog.Warn("failed to update last login", "user_id", found.ID(), "error", err)
	}

	return a.issueToken(found)
}

func (a *authCommandsImpl) issueToken(u *user.User) (*LoginResult, error) {
	token, err := a.jwtService.GenerateToken(u.ID(), u.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &LoginResult{
		UserID: u.ID(),
		Email:  u.Email().Value(),
		Role:   u.Role().String(),
		Token:  token,
	}, nil
}
