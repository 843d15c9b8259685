package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cleansweep/internal/auth"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/model"
	"cleansweep/internal/repository"
)

// Messages returned by the auth operations.
const (
	MsgAllFieldsRequired      = "All fields are required"
	MsgAdminFieldsRequired    = "All fields are required and role must be admin"
	MsgEmailExists            = "Email already exists"
	MsgUserNotFound           = "User not found"
	MsgAlreadyAdmin           = "User is already an admin"
	MsgCannotPromoteSuperuser = "Superadmin cannot be promoted"
	MsgSuperadminExists       = "Superadmin already exists"
)

// Credentials is the input of every account-creating operation.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

func (c Credentials) normalized() Credentials {
	return Credentials{
		Name:     strings.TrimSpace(c.Name),
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
	}
}

func (c Credentials) complete() bool {
	return c.Name != "" && c.Email != "" && c.Password != ""
}

// AuthResult is a signed token plus the public view of its user.
type AuthResult struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// AuthService handles authentication and role management.
type AuthService interface {
	Register(ctx context.Context, in Credentials) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	BootstrapSuperadmin(ctx context.Context, in Credentials) (*model.UserSummary, error)
	Promote(ctx context.Context, actor auth.Identity, email string) (*model.UserSummary, error)
	CreateAdmin(ctx context.Context, in Credentials, role string) (*model.UserSummary, error)
	Verify(token string) (auth.Identity, error)
}

type authService struct {
	users         repository.UserRepository
	jwtService    *auth.JWTService
	activity      ActivityRecorder
	onRoleChanged func(ctx context.Context, userID string)
	logger        *zap.Logger
}

// AuthServiceOption customizes an auth service.
type AuthServiceOption func(*authService)

// WithRoleChanged registers a hook called after a user's role changed.
func WithRoleChanged(fn func(ctx context.Context, userID string)) AuthServiceOption {
	return func(s *authService) { s.onRoleChanged = fn }
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	activity ActivityRecorder,
	logger *zap.Logger,
	opts ...AuthServiceOption,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &authService{
		users:      users,
		jwtService: jwtService,
		activity:   activity,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user account and signs a token for it.
func (s *authService) Register(ctx context.Context, in Credentials) (*AuthResult, error) {
	in = in.normalized()
	if !in.complete() {
		return nil, apperrors.Validation(MsgAllFieldsRequired)
	}

	user, err := s.createUser(ctx, in, model.RoleUser)
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.ActivityLog{Event: model.EventUserRegistered, ActorID: user.ID, SubjectID: user.ID})

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation(MsgAllFieldsRequired)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.RejectPassword(password)
			return nil, apperrors.Auth(apperrors.MsgInvalidCredentials)
		}
		return nil, s.persistence("find user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.Auth(apperrors.MsgInvalidCredentials)
	}

	token, err := s.jwtService.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// BootstrapSuperadmin creates the one superadmin. The existence check only
// gives a friendly answer; the store's unique slot settles races.
func (s *authService) BootstrapSuperadmin(ctx context.Context, in Credentials) (*model.UserSummary, error) {
	in = in.normalized()
	if !in.complete() {
		return nil, apperrors.Validation(MsgAllFieldsRequired)
	}

	exists, err := s.users.ExistsWithRole(ctx, model.RoleSuperadmin)
	if err != nil {
		return nil, s.persistence("check superadmin", err)
	}
	if exists {
		return nil, apperrors.Conflict(MsgSuperadminExists)
	}

	user, err := s.createUser(ctx, in, model.RoleSuperadmin)
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.ActivityLog{Event: model.EventSuperadminBootstrapped, ActorID: user.ID, SubjectID: user.ID})

	summary := user.Summary()
	return &summary, nil
}

// Promote makes an existing user an admin. Only the superadmin may do this.
func (s *authService) Promote(ctx context.Context, actor auth.Identity, email string) (*model.UserSummary, error) {
	if err := auth.Authorize(actor.Role, auth.PermPromoteAdmin); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.Validation(MsgAllFieldsRequired)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(MsgUserNotFound)
		}
		return nil, s.persistence("find user", err)
	}
	switch user.Role {
	case model.RoleAdmin:
		return nil, apperrors.Conflict(MsgAlreadyAdmin)
	case model.RoleSuperadmin:
		return nil, apperrors.Conflict(MsgCannotPromoteSuperuser)
	}

	if err := s.users.UpdateRole(ctx, user.ID, model.RoleUser, model.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// promoted concurrently
			return nil, apperrors.Conflict(MsgAlreadyAdmin)
		}
		return nil, s.persistence("update role", err)
	}
	user.Role = model.RoleAdmin
	if s.onRoleChanged != nil {
		s.onRoleChanged(ctx, user.ID)
	}
	s.record(ctx, model.ActivityLog{Event: model.EventUserPromoted, ActorID: actor.ID, SubjectID: user.ID})

	summary := user.Summary()
	return &summary, nil
}

// CreateAdmin creates an admin account directly from the request body.
func (s *authService) CreateAdmin(ctx context.Context, in Credentials, role string) (*model.UserSummary, error) {
	in = in.normalized()
	if !in.complete() || model.Role(role) != model.RoleAdmin {
		return nil, apperrors.Validation(MsgAdminFieldsRequired)
	}

	user, err := s.createUser(ctx, in, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.record(ctx, model.ActivityLog{Event: model.EventAdminCreated, SubjectID: user.ID})

	summary := user.Summary()
	return &summary, nil
}

// Verify validates a bearer token and returns its identity.
func (s *authService) Verify(token string) (auth.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return auth.Identity{}, apperrors.Auth(apperrors.MsgNoToken)
	}
	claims, err := s.jwtService.Verify(token)
	if err != nil {
		return auth.Identity{}, apperrors.Auth(apperrors.MsgInvalidToken)
	}
	return claims.Identity(), nil
}

func (s *authService) createUser(ctx context.Context, in Credentials, role model.Role) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict(MsgEmailExists)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, s.persistence("check user existence", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if role == model.RoleSuperadmin {
		slot := true
		user.SuperadminSlot = &slot
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost a race on either the email or the superadmin slot
			if role == model.RoleSuperadmin {
				if taken, _ := s.users.ExistsWithRole(ctx, model.RoleSuperadmin); taken {
					return nil, apperrors.Conflict(MsgSuperadminExists)
				}
			}
			return nil, apperrors.Conflict(MsgEmailExists)
		}
		return nil, s.persistence("create user", err)
	}
	return user, nil
}

func (s *authService) record(ctx context.Context, entry model.ActivityLog) {
	if s.activity != nil {
		s.activity.Record(ctx, entry)
	}
}

func (s *authService) persistence(op string, err error) error {
	s.logger.Error(op, zap.Error(err))
	return apperrors.Persistence(err)
}
