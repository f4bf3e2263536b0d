package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/booking-api/internal/domain/entity"
	"github.com/oksasatya/booking-api/pkg/helpers"
)

func ptr[T any](v T) *T { return &v }

func newUsers(t *testing.T) (*UserService, *memIndex) {
	t.Helper()
	idx := &memIndex{}
	s := NewUserService(newMemRepo(), helpers.NewPasswordHasher(bcrypt.MinCost), nil)
	s.Indexer = idx
	return s, idx
}

func TestUserCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s, idx := newUsers(t)

	u, err := s.Create(ctx, CreateUserInput{Name: "Admin", Email: "Admin@Example.com", Password: strongPassword, Role: "ADMIN"})
	require.NoError(t, err)
	require.Equal(t, entity.RoleAdmin, u.Role)
	require.Contains(t, idx.docs, u.ID)

	got, err := s.GetByEmail(ctx, " admin@example.COM")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.GetByID(ctx, 77)
	requireKind(t, err, KindNotFound, "User with ID 77 not found")

	_, err = s.Create(ctx, CreateUserInput{Name: "X", Email: "admin@example.com", Password: strongPassword})
	requireKind(t, err, KindConflict, MsgEmailExists)

	_, err = s.Create(ctx, CreateUserInput{Name: "X", Email: "x@example.com", Password: strongPassword, Role: "root"})
	requireKind(t, err, KindBadRequest, "")
}

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := newUsers(t)
	a, err := s.Create(ctx, CreateUserInput{Name: "A", Email: "a@example.com", Password: strongPassword})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateUserInput{Name: "B", Email: "b@example.com", Password: strongPassword})
	require.NoError(t, err)

	u, err := s.Update(ctx, a.ID, UpdateUserInput{Name: ptr("Alpha"), Role: ptr("admin")})
	require.NoError(t, err)
	require.Equal(t, "Alpha", u.Name)
	require.Equal(t, entity.RoleAdmin, u.Role)
	require.Equal(t, "a@example.com", u.Email)

	_, err = s.Update(ctx, a.ID, UpdateUserInput{Email: ptr("B@example.com")})
	requireKind(t, err, KindConflict, MsgEmailExists)

	_, err = s.Update(ctx, a.ID, UpdateUserInput{Password: ptr("weak")})
	requireKind(t, err, KindBadRequest, helpers.ErrPasswordTooShort.Error())

	_, err = s.Update(ctx, a.ID, UpdateUserInput{Password: ptr("Another1?")})
	require.NoError(t, err)
	stored, err := s.Repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, helpers.CompareHashAndPassword(stored.Password, "Another1?"))

	_, err = s.Update(ctx, 404, UpdateUserInput{Name: ptr("x")})
	requireKind(t, err, KindNotFound, "User with ID 404 not found")
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	s, idx := newUsers(t)
	admin, err := s.Create(ctx, CreateUserInput{Name: "Admin", Email: "admin@example.com", Password: strongPassword, Role: "admin"})
	require.NoError(t, err)
	u, err := s.Create(ctx, CreateUserInput{Name: "U", Email: "u@example.com", Password: strongPassword})
	require.NoError(t, err)

	_, err = s.Delete(ctx, admin.ID, admin.ID)
	requireKind(t, err, KindBadRequest, MsgCannotDeleteSelf)

	removed, err := s.Delete(ctx, admin.ID, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, removed.ID)
	require.NotContains(t, idx.docs, u.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, admin.ID, list[0].ID)

	_, err = s.Delete(ctx, admin.ID, u.ID)
	requireKind(t, err, KindNotFound, "")
}

func TestUserSearchWithoutIndex(t *testing.T) {
	s := NewUserService(newMemRepo(), nil, nil)
	out, err := s.Search(context.Background(), "any", 10)
	require.NoError(t, err)
	require.Empty(t, out)
}
