package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moscovig/hthCourseReg/internal/access"
	userModel "github.com/moscovig/hthCourseReg/internal/model/user"
	"github.com/moscovig/hthCourseReg/internal/user"
	authsdk "github.com/moscovig/hthCourseReg/packages/auth-sdk"
	"github.com/moscovig/hthCourseReg/packages/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Users account operations the login flow needs
type Users interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*userModel.User, error)
	Authenticate(ctx context.Context, email, password string) (*userModel.User, error)
	RoleNames(ctx context.Context, userID uint) ([]string, error)
}

type Service struct {
	users    Users
	sessions SessionStore
	secret   string
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(users Users, sessions SessionStore, secret string, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   secret,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Register creates a student account and logs it in
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.Uint("user_id", u.ID))
	return s.issue(ctx, u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, response.NewBusinessError(
				response.WithErrorCode(response.Unauthorized),
				response.WithErrorMessage(err.Error()),
				response.WithError(err),
			)
		}
		return nil, err
	}
	return s.issue(ctx, u)
}

// Logout ends the session; the token is rejected from then on
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Me describes the authenticated caller
func (s *Service) Me(caller *authsdk.UserContext) MeResponse {
	roles := access.ParseRoles(caller.Roles)
	permissions := make(map[string][]string)
	for _, resource := range access.Resources() {
		actions := access.AllowedActions(roles, resource)
		if len(actions) == 0 {
			continue
		}
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, string(a))
		}
		permissions[string(resource)] = names
	}

	return MeResponse{
		UserID:      caller.UserID,
		Email:       caller.Email,
		Roles:       caller.Roles,
		Permissions: permissions,
		ExpiresAt:   caller.ExpiresAt,
	}
}

func (s *Service) issue(ctx context.Context, u *userModel.User) (*LoginResult, error) {
	roles, err := s.users.RoleNames(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sessionID := uuid.NewString()
	token, err := authsdk.IssueToken(authsdk.UserContext{
		UserID:    u.ID,
		Email:     u.Email,
		Roles:     roles,
		SessionID: sessionID,
	}, s.secret, s.ttl, now)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.sessions.Create(ctx, sessionID, u.ID, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		UserID:    u.ID,
		Email:     u.Email,
		Roles:     roles,
	}, nil
}
