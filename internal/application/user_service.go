package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/internal/domain/entity"
	repo "github.com/oksasatya/booking-api/internal/domain/repository"
	"github.com/oksasatya/booking-api/pkg/helpers"
)

// UserService holds the admin-facing user management use cases.
type UserService struct {
	Repo    repo.UserRepository
	Hasher  *helpers.PasswordHasher
	Logger  *logrus.Logger
	Indexer UserIndexer
}

func NewUserService(r repo.UserRepository, hasher *helpers.PasswordHasher, logger *logrus.Logger) *UserService {
	if hasher == nil {
		hasher = helpers.NewPasswordHasher(helpers.BcryptCost)
	}
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &UserService{Repo: r, Hasher: hasher, Logger: logger}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

func (s *UserService) List(ctx context.Context) ([]entity.PublicUser, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, Internal(MsgInternal, err)
	}
	out := make([]entity.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitize())
	}
	return out, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, Internal(MsgInternal, err)
	}
	out := u.Sanitize()
	return &out, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.PublicUser, error) {
	email = entity.NormalizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound("User with email " + email + " not found")
		}
		return nil, Internal(MsgInternal, err)
	}
	out := u.Sanitize()
	return &out, nil
}

// Create inserts a user on behalf of an admin. Role defaults to user.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.PublicUser, error) {
	role := entity.RoleUser
	if in.Role != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, BadRequest("Role must be one of: admin, user")
		}
		role = r
	}
	hash, err := hashNewPassword(s.Hasher, in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: in.Name, Email: entity.NormalizeEmail(in.Email), Password: hash, Role: role}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, Conflict(MsgEmailExists)
		}
		return nil, Internal("Failed to create user", err)
	}
	indexUser(ctx, s.Indexer, s.Logger, u)
	out := u.Sanitize()
	return &out, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, Internal(MsgInternal, err)
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if email != u.Email {
			if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other.ID != u.ID {
				return nil, Conflict(MsgEmailExists)
			} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, Internal(MsgInternal, err)
			}
		}
		u.Email = email
	}
	if in.Role != nil {
		r, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, BadRequest("Role must be one of: admin, user")
		}
		u.Role = r
	}
	if in.Password != nil {
		hash, err := hashNewPassword(s.Hasher, *in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, userNotFound(id)
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, Conflict(MsgEmailExists)
		}
		return nil, Internal(MsgInternal, err)
	}
	indexUser(ctx, s.Indexer, s.Logger, u)
	out := u.Sanitize()
	return &out, nil
}

// Delete removes id on behalf of actorID and returns the removed record.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) (*entity.PublicUser, error) {
	if actorID == id {
		return nil, BadRequest(MsgCannotDeleteSelf)
	}
	u, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, Internal(MsgInternal, err)
	}
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("remove user from index failed")
		}
	}
	out := u.Sanitize()
	return &out, nil
}

// Search queries the user index. Without an index it falls back to an
// empty result.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]entity.PublicUser, error) {
	if s.Indexer == nil {
		return []entity.PublicUser{}, nil
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	users, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, Internal("Search failed", err)
	}
	return users, nil
}
