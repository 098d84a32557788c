package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/moscovig/hthCourseReg/internal/access"
	"github.com/moscovig/hthCourseReg/internal/model/user"
	"github.com/moscovig/hthCourseReg/packages/response"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownRole    = errors.New("unknown role")

	// ErrInvalidCredentials unknown email, wrong password or inactive account
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccessLists emails granted a role whenever the account exists.
// An empty Students list admits every account as a student.
type AccessLists struct {
	Teachers []string
	Students []string
}

// SessionRevoker ends every live login session of a user
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID uint) error
}

type Service struct {
	repo     Repository
	lists    AccessLists
	sessions SessionRevoker
	logger   *zap.Logger
}

// NewService sessions may be nil when no login sessions exist (tools, tests)
func NewService(repo Repository, lists AccessLists, sessions SessionRevoker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		lists:    AccessLists{Teachers: normalizeAll(lists.Teachers), Students: normalizeAll(lists.Students)},
		sessions: sessions,
		logger:   logger,
	}
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeAll(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = NormalizeEmail(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Bootstrap creates the role rows and grants the access-list roles to
// accounts that already exist. Safe to run on every start.
func (s *Service) Bootstrap(ctx context.Context) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		roles, err := ensureRoles(ctx, tx)
		if err != nil {
			return err
		}

		grant := func(emails []string, role access.Role) error {
			users, err := tx.FindByEmails(ctx, emails)
			if err != nil {
				return fmt.Errorf("find users: %w", err)
			}
			for _, u := range users {
				if err := tx.AddRole(ctx, u.ID, roles[role].ID); err != nil {
					return fmt.Errorf("grant %s to user %d: %w", role, u.ID, err)
				}
			}
			s.logger.Info("access list applied",
				zap.String("role", string(role)),
				zap.Int("listed", len(emails)),
				zap.Int("existing", len(users)))
			return nil
		}

		if err := grant(s.lists.Teachers, access.RoleTeacher); err != nil {
			return err
		}
		return grant(s.lists.Students, access.RoleStudent)
	})
}

func ensureRoles(ctx context.Context, tx Repository) (map[access.Role]*user.Role, error) {
	roles := make(map[access.Role]*user.Role, 3)
	for _, name := range []access.Role{access.RoleAdmin, access.RoleTeacher, access.RoleStudent} {
		role, err := tx.EnsureRole(ctx, string(name), name == access.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("ensure role %s: %w", name, err)
		}
		roles[name] = role
	}
	return roles, nil
}

// DefaultRoles roles a newly registered account receives: student when the
// students list is empty or names the email, teacher when listed. An account
// with no role can log in but sees nothing until staff grant one.
func (s *Service) DefaultRoles(email string) []string {
	email = NormalizeEmail(email)
	roles := []string{}
	if len(s.lists.Students) == 0 || contains(s.lists.Students, email) {
		roles = append(roles, string(access.RoleStudent))
	}
	if contains(s.lists.Teachers, email) {
		roles = append(roles, string(access.RoleTeacher))
	}
	return roles
}

// Register creates an account with the default roles and returns it.
// The password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*user.User, error) {
	email = NormalizeEmail(email)
	return s.create(ctx, &user.User{
		Active:    true,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, password, s.DefaultRoles(email))
}

func (s *Service) create(ctx context.Context, u *user.User, password string, roles []string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, u); err != nil {
			return err
		}
		return assignRoles(ctx, tx, u.ID, roles)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func assignRoles(ctx context.Context, tx Repository, userID uint, names []string) error {
	known, err := ensureRoles(ctx, tx)
	if err != nil {
		return err
	}
	if err := tx.ClearRoles(ctx, userID); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	for _, name := range names {
		role, ok := access.ParseRole(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
		if err := tx.AddRole(ctx, userID, known[role].ID); err != nil {
			return fmt.Errorf("add role %s: %w", name, err)
		}
	}
	return nil
}

// Authenticate checks the password of an active account
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !u.Active {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// RoleNames the enumerated roles the user holds. A role row flagged
// is_admin counts as admin whatever its name.
func (s *Service) RoleNames(ctx context.Context, userID uint) ([]string, error) {
	byUser, err := s.repo.ListRoles(ctx, []uint{userID})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roleNames(byUser[userID]), nil
}

func roleNames(roles []user.Role) []string {
	names := make([]string, 0, len(roles))
	seen := make(map[string]bool, len(roles))
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, r := range roles {
		if r.IsAdmin {
			add(string(access.RoleAdmin))
		}
		if role, ok := access.ParseRole(r.Name); ok {
			add(string(role))
		}
	}
	return names
}

func (s *Service) List(ctx context.Context) ([]UserView, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return s.views(ctx, list)
}

func (s *Service) Get(ctx context.Context, id uint) (*UserView, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	views, err := s.views(ctx, []user.User{*u})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	roles := req.Roles
	if len(roles) == 0 {
		roles = s.DefaultRoles(req.Email)
	}

	u, err := s.create(ctx, &user.User{
		Active:    active,
		Email:     NormalizeEmail(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password, roles)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, u.ID)
}

func (s *Service) Update(ctx context.Context, id uint, req UpdateUserRequest) (*UserView, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	deactivated := u.Active && !req.Active

	u.Email = NormalizeEmail(req.Email)
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Active = req.Active
	u.IsRegCompleted = req.IsRegCompleted
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, mapError(err)
	}
	if deactivated {
		if err := s.revokeSessions(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the user with their enrollments, roles and timetable
func (s *Service) Delete(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return mapError(gorm.ErrRecordNotFound)
	}
	return s.revokeSessions(ctx, id)
}

// SetRoles replaces the user's roles. Tokens carry the roles they were
// issued with, so the user's sessions are revoked and the next login
// picks up the new set.
func (s *Service) SetRoles(ctx context.Context, id uint, names []string) (*UserView, error) {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.FindByID(ctx, id); err != nil {
			return err
		}
		return assignRoles(ctx, tx, id, names)
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("roles updated", zap.Uint("user_id", id), zap.Strings("roles", names))
	if err := s.revokeSessions(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) revokeSessions(ctx context.Context, id uint) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeUser(ctx, id); err != nil {
		return fmt.Errorf("revoke sessions of user %d: %w", id, err)
	}
	s.logger.Info("sessions revoked", zap.Uint("user_id", id))
	return nil
}

func (s *Service) views(ctx context.Context, list []user.User) ([]UserView, error) {
	ids := make([]uint, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}

	roles, err := s.repo.ListRoles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	taught, err := s.repo.CoursesTaught(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list taught courses: %w", err)
	}
	attended, err := s.repo.CoursesAttended(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list attended courses: %w", err)
	}

	views := make([]UserView, 0, len(list))
	for _, u := range list {
		views = append(views, UserView{
			ID:             u.ID,
			Email:          u.Email,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Active:         u.Active,
			IsRegCompleted: u.IsRegCompleted,
			Roles:          roleNames(roles[u.ID]),
			Teaching:       orEmpty(taught[u.ID]),
			Attending:      orEmpty(attended[u.ID]),
		})
	}
	return views, nil
}

func orEmpty(refs []CourseRef) []CourseRef {
	if refs == nil {
		return []CourseRef{}
	}
	return refs
}

func mapError(err error) error {
	var (
		code     response.ResponseCode
		sentinel error
	)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		code, sentinel = response.NotFound, ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code, sentinel = response.Conflict, ErrDuplicateEmail
	case errors.Is(err, ErrUnknownRole):
		code, sentinel = response.InvalidParameter, ErrUnknownRole
	default:
		return err
	}
	if !errors.Is(err, sentinel) {
		err = sentinel
	}
	return response.NewBusinessError(
		response.WithErrorCode(code),
		response.WithErrorMessage(sentinel.Error()),
		response.WithError(err),
	)
}
