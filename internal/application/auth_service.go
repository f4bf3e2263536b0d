package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/internal/access"
	"github.com/oksasatya/booking-api/internal/domain/entity"
	repo "github.com/oksasatya/booking-api/internal/domain/repository"
	"github.com/oksasatya/booking-api/pkg/helpers"
	"github.com/oksasatya/booking-api/pkg/mailer"
	tpl "github.com/oksasatya/booking-api/pkg/mailer/templates"
)

// AuthService orchestrates registration, login, password change and token refresh.
// It keeps no state of its own between calls.
type AuthService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Hasher   *helpers.PasswordHasher
	Logger   *logrus.Logger
	Denylist TokenDenylist
	Indexer  UserIndexer
	Pub      EventPublisher
	AppName  string
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.PasswordHasher, logger *logrus.Logger) *AuthService {
	if hasher == nil {
		hasher = helpers.NewPasswordHasher(helpers.BcryptCost)
	}
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AuthService{Repo: r, JWT: jwt, Hasher: hasher, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResult struct {
	TokenPair
	User entity.PublicUser
}

type RefreshResult struct {
	AccessToken       string
	AccessTokenExpiry time.Time
}

// Register creates a user with the default role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.PublicUser, error) {
	email = entity.NormalizeEmail(email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, Conflict(MsgEmailExists)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, Internal("Failed to create user", err)
	}

	hash, err := hashNewPassword(s.Hasher, password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Name: name, Email: email, Password: hash, Role: entity.RoleUser}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, Conflict(MsgEmailExists)
		}
		s.Logger.WithError(err).WithField("email", email).Error("create user failed")
		return nil, Internal("Failed to create user", err)
	}

	indexUser(ctx, s.Indexer, s.Logger, u)
	s.notify(ctx, u, tpl.Welcome)

	out := u.Sanitize()
	return &out, nil
}

// Login verifies credentials and issues an access/refresh pair. Unknown email
// and wrong password fail with the same message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, Unauthorized(MsgInvalidCredentials)
		}
		return nil, Internal(MsgInternal, err)
	}
	if !s.Hasher.Compare(u.Password, password) {
		return nil, Unauthorized(MsgInvalidCredentials)
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Debug("login succeeded")
	return &LoginResult{TokenPair: pair, User: u.Sanitize()}, nil
}

func (s *AuthService) issueTokens(u *entity.User) (TokenPair, error) {
	sub := subjectOf(u)
	access, aexp, err := s.JWT.GenerateAccessToken(sub)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, Internal(MsgInternal, err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(sub)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, Internal(MsgInternal, err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// ChangePassword replaces the stored hash after re-checking the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) (string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", userNotFound(userID)
		}
		return "", Internal(MsgInternal, err)
	}
	if !s.Hasher.Compare(u.Password, current) {
		return "", Unauthorized(MsgCurrentPasswordWrong)
	}
	if err := helpers.ValidatePasswordStrength(next); err != nil {
		return "", BadRequest(err.Error())
	}
	if s.Hasher.Compare(u.Password, next) {
		return "", BadRequest(MsgSamePassword)
	}

	hash, err := hashNewPassword(s.Hasher, next)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", userNotFound(userID)
		}
		return "", Internal(MsgInternal, err)
	}

	s.notify(ctx, u, tpl.PasswordChanged)
	return MsgPasswordChanged, nil
}

// RefreshToken mints a new access token from a valid refresh token. The
// refresh token itself is neither rotated nor consumed; only Logout revokes it.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, Unauthorized(MsgInvalidRefreshToken)
	}
	if s.Denylist != nil {
		revoked, err := s.Denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.Logger.WithError(err).Warn("denylist lookup failed")
			return nil, Internal(MsgInternal, err)
		}
		if revoked {
			return nil, Unauthorized(MsgInvalidRefreshToken)
		}
	}
	uid, err := claims.UserID()
	if err != nil {
		return nil, Unauthorized(MsgInvalidRefreshToken)
	}
	u, err := s.Repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, Unauthorized(MsgInvalidRefreshToken)
		}
		return nil, Internal(MsgInternal, err)
	}

	access, aexp, err := s.JWT.GenerateAccessToken(subjectOf(u))
	if err != nil {
		return nil, Internal(MsgInternal, err)
	}
	return &RefreshResult{AccessToken: access, AccessTokenExpiry: aexp}, nil
}

// Logout revokes the refresh token until its natural expiry. Invalid tokens
// are ignored so the call stays idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if s.Denylist == nil || refreshToken == "" {
		return nil
	}
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	uid, _ := claims.UserID()
	if err := s.Denylist.Revoke(ctx, claims.ID, uid, claims.ExpiresAt.Time); err != nil {
		return Internal(MsgInternal, err)
	}
	return nil
}

// Me returns the sanitized record of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, userNotFound(userID)
		}
		return nil, Internal(MsgInternal, err)
	}
	out := u.Sanitize()
	return &out, nil
}

// Authenticate verifies an access token and resolves the caller from the store,
// so a role change or deletion takes effect before the token expires.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*access.Principal, error) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}
	uid, err := claims.UserID()
	if err != nil {
		return nil, Unauthorized("Invalid or expired token")
	}
	u, err := s.Repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, Unauthorized("User no longer exists")
		}
		return nil, Internal(MsgInternal, err)
	}
	return &access.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *AuthService) notify(ctx context.Context, u *entity.User, template string) {
	if s.Pub == nil {
		return
	}
	data := tpl.NewEmailData(s.AppName, u.Name, u.Email, time.Now())
	job := mailer.EmailJob{To: u.Email, Template: template, Data: tpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("failed to publish email job")
	}
}

func subjectOf(u *entity.User) helpers.TokenSubject {
	return helpers.TokenSubject{UserID: u.ID, Email: u.Email, Role: u.Role.String()}
}

// hashNewPassword applies the strength policy before hashing.
func hashNewPassword(h *helpers.PasswordHasher, plain string) (string, error) {
	if err := helpers.ValidatePasswordStrength(plain); err != nil {
		return "", BadRequest(err.Error())
	}
	hash, err := h.Hash(plain)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return "", BadRequest(MsgPasswordTooLong)
		}
		return "", Internal(MsgInternal, err)
	}
	return hash, nil
}

func indexUser(ctx context.Context, idx UserIndexer, logger *logrus.Logger, u *entity.User) {
	if idx == nil {
		return
	}
	if err := idx.Index(ctx, u); err != nil {
		logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
	}
}
