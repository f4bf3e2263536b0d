package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

func TestLoginPersistsSession(t *testing.T) {
	_, api := newFakeServer(t)
	store := &MemoryPersister{}
	s := NewSession(api, store)

	require.NoError(t, s.Login(context.Background(), "jane@example.com", janePassword))
	require.False(t, s.Loading())
	require.Empty(t, s.Err())

	st := s.State()
	require.True(t, st.IsAuthenticated)
	require.Equal(t, "Jane", st.User.Name)
	require.NotEmpty(t, st.Token)
	require.NotEmpty(t, st.RefreshToken)

	saved, _ := store.Load()
	require.Equal(t, st, saved)
}

func TestLoginFailureRecordsMessage(t *testing.T) {
	_, api := newFakeServer(t)
	s := NewSession(api, nil)

	err := s.Login(context.Background(), "jane@example.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Invalid credentials", s.Err())
	require.False(t, s.Loading())
	require.False(t, s.State().IsAuthenticated)

	s.ClearError()
	require.Empty(t, s.Err())
}

func TestLoginFallbackMessageWhenServerUnreachable(t *testing.T) {
	s := NewSession(NewAPI("http://127.0.0.1:1/api", time.Second), nil)
	require.Error(t, s.Login(context.Background(), "jane@example.com", janePassword))
	require.Equal(t, "Login failed", s.Err())
}

func TestSignupRegistersThenSignsIn(t *testing.T) {
	f, api := newFakeServer(t)
	s := NewSession(api, nil)

	require.NoError(t, s.Signup(context.Background(), "Kim", "kim@example.com", janePassword))
	st := s.State()
	require.True(t, st.IsAuthenticated)
	require.Equal(t, "kim@example.com", st.User.Email)
	require.Equal(t, 1, f.count("POST /auth/register"))
	require.Equal(t, 1, f.count("POST /auth/login"))

	other := NewSession(api, nil)
	require.Error(t, other.Signup(context.Background(), "Jane", "jane@example.com", janePassword))
	require.Equal(t, "Email already exists", other.Err())
	require.False(t, other.State().IsAuthenticated)
}

func TestLogoutRevokesAndClears(t *testing.T) {
	f, api := newFakeServer(t)
	store := &MemoryPersister{}
	s := NewSession(api, store)
	require.NoError(t, s.Login(context.Background(), "jane@example.com", janePassword))
	refresh := s.State().RefreshToken

	require.NoError(t, s.Logout(context.Background()))
	require.Equal(t, []string{refresh}, f.revoked)
	require.Equal(t, State{}, s.State())
	saved, _ := store.Load()
	require.Equal(t, State{}, saved)
}

func TestLogoutClearsEvenWhenRevocationFails(t *testing.T) {
	store := &MemoryPersister{}
	require.NoError(t, store.Save(State{Token: "a", RefreshToken: "r", IsAuthenticated: true}))
	s := NewSession(NewAPI("http://127.0.0.1:1/api", time.Second), store)
	require.NoError(t, s.Hydrate())

	require.Error(t, s.Logout(context.Background()))
	require.Equal(t, State{}, s.State())
}

func TestRefreshTokenWithoutTokenIsNoop(t *testing.T) {
	f, api := newFakeServer(t)
	s := NewSession(api, nil)
	require.NoError(t, s.RefreshToken(context.Background()))
	require.Zero(t, f.count("POST /auth/refresh"))
}

func TestRefreshTokenReplacesAccessToken(t *testing.T) {
	_, api := newFakeServer(t)
	s := NewSession(api, nil)
	require.NoError(t, s.Login(context.Background(), "jane@example.com", janePassword))
	before := s.State()

	require.NoError(t, s.RefreshToken(context.Background()))
	after := s.State()
	require.NotEqual(t, before.Token, after.Token)
	require.Equal(t, before.RefreshToken, after.RefreshToken)
	require.True(t, after.IsAuthenticated)
}

func TestRefreshTokenFailureLogsOut(t *testing.T) {
	_, api := newFakeServer(t)
	store := &MemoryPersister{}
	require.NoError(t, store.Save(State{
		User:            &entity.PublicUser{ID: 2, Name: "Jane", Role: entity.RoleUser},
		Token:           "stale",
		RefreshToken:    "revoked",
		IsAuthenticated: true,
	}))
	s := NewSession(api, store)
	require.NoError(t, s.Hydrate())

	require.Error(t, s.RefreshToken(context.Background()))
	require.Equal(t, State{}, s.State())
	require.Equal(t, "Invalid refresh token", s.Err())
}

func TestUpdateUserMergesPartial(t *testing.T) {
	s := NewSession(nil, nil)
	require.NoError(t, s.UpdateUser(UserPatch{Name: ptr("ignored")}))
	require.Nil(t, s.State().User)

	_, api := newFakeServer(t)
	s = NewSession(api, nil)
	require.NoError(t, s.Login(context.Background(), "jane@example.com", janePassword))
	require.NoError(t, s.UpdateUser(UserPatch{Name: ptr("Jane Doe")}))
	u := s.State().User
	require.Equal(t, "Jane Doe", u.Name)
	require.Equal(t, "jane@example.com", u.Email)
}

func TestStateReturnsCopy(t *testing.T) {
	_, api := newFakeServer(t)
	s := NewSession(api, nil)
	require.NoError(t, s.Login(context.Background(), "jane@example.com", janePassword))
	s.State().User.Name = "mutated"
	require.Equal(t, "Jane", s.State().User.Name)
}

func TestReloadRefreshesOnceOnUnauthorized(t *testing.T) {
	f, api := newFakeServer(t)
	s := NewSession(api, nil)
	require.NoError(t, s.Login(context.Background(), "jane@example.com", janePassword))

	f.mu.Lock()
	for tok := range f.access {
		delete(f.access, tok)
	}
	u := f.users[2]
	u.Name = "Jane Renamed"
	f.users[2] = u
	f.mu.Unlock()

	require.NoError(t, s.Reload(context.Background()))
	require.Equal(t, "Jane Renamed", s.State().User.Name)
	require.Equal(t, 1, f.count("POST /auth/refresh"))
	require.Equal(t, 2, f.count("GET /auth/me"))
}

func TestFilePersisterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	p := NewFilePersister(path)

	st, err := p.Load()
	require.NoError(t, err)
	require.Equal(t, State{}, st)

	want := State{User: &entity.PublicUser{ID: 2, Email: "jane@example.com", Role: entity.RoleUser}, Token: "a", RefreshToken: "r", IsAuthenticated: true}
	require.NoError(t, p.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	s := NewSession(nil, p)
	require.False(t, s.Hydrated())
	require.NoError(t, s.Hydrate())
	require.True(t, s.Hydrated())
	require.Equal(t, want.Token, s.State().Token)
	require.Equal(t, int64(2), s.UserID())
}

func TestHydrateCorruptFileCountsAsSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := NewSession(nil, NewFilePersister(path))
	require.Error(t, s.Hydrate())
	require.True(t, s.Hydrated())
	require.Equal(t, Redirect, Decide(s, nil).Outcome)
}

func ptr(s string) *string { return &s }
