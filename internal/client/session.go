package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

const (
	msgLoginFailed   = "Login failed"
	msgSignupFailed  = "Signup failed"
	msgRefreshFailed = "Session expired"
)

// Session holds the signed-in user and their tokens. It is an explicit
// value; callers pass it to whatever needs the current principal.
type Session struct {
	api   *API
	store Persister

	mu       sync.RWMutex
	state    State
	loading  bool
	err      string
	hydrated bool
}

func NewSession(api *API, store Persister) *Session {
	if store == nil {
		store = &MemoryPersister{}
	}
	return &Session{api: api, store: store}
}

// Hydrate loads the persisted state. The session counts as hydrated even
// when loading fails, so guards stop waiting and treat it as signed out.
func (s *Session) Hydrate() error {
	st, err := s.store.Load()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
	if err != nil {
		s.state = State{}
		return err
	}
	s.state = st
	return nil
}

func (s *Session) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// State returns a copy of the persisted state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// UserID is zero when nobody is signed in.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return 0
	}
	return s.state.User.ID
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err is the message of the last failed call, or "".
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Session) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

func (s *Session) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

// fail records the failure and signs the session out.
func (s *Session) fail(err error, fallback string) error {
	s.mu.Lock()
	s.err = ErrorMessage(err, fallback)
	s.loading = false
	s.state.IsAuthenticated = false
	s.mu.Unlock()
	return err
}

// commit replaces the state, persists it and ends the loading phase.
func (s *Session) commit(st State) error {
	s.mu.Lock()
	s.state = st
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	if err := s.store.Save(st); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.begin()
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.fail(err, msgLoginFailed)
	}
	return s.commit(stateFrom(res))
}

// Signup registers the account and then signs in with the same
// credentials, since registration itself returns no tokens.
func (s *Session) Signup(ctx context.Context, name, email, password string) error {
	s.begin()
	if _, err := s.api.Register(ctx, name, email, password); err != nil {
		return s.fail(err, msgSignupFailed)
	}
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.fail(err, msgSignupFailed)
	}
	return s.commit(stateFrom(res))
}

// Logout forgets the local session. The refresh token is revoked on the
// server when possible; a failed revocation does not keep the user signed in.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	refresh := s.state.RefreshToken
	s.mu.RUnlock()

	var revokeErr error
	if refresh != "" && s.api != nil {
		revokeErr = s.api.Logout(ctx, refresh)
	}
	if err := s.clear(); err != nil {
		return err
	}
	if revokeErr != nil {
		return fmt.Errorf("revoke refresh token: %w", revokeErr)
	}
	return nil
}

func (s *Session) clear() error {
	s.mu.Lock()
	s.state = State{}
	s.err = ""
	s.loading = false
	s.mu.Unlock()
	if err := s.store.Save(State{}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// RefreshToken swaps the refresh token for a new access token. It does
// nothing without a refresh token and signs the session out on failure.
func (s *Session) RefreshToken(ctx context.Context) error {
	st := s.State()
	if st.RefreshToken == "" {
		return nil
	}
	access, err := s.api.Refresh(ctx, st.RefreshToken)
	if err != nil {
		_ = s.clear()
		s.mu.Lock()
		s.err = ErrorMessage(err, msgRefreshFailed)
		s.mu.Unlock()
		return err
	}
	st.Token = access
	st.IsAuthenticated = true
	return s.commit(st)
}

// UpdateUser merges patch into the stored user. Without a user it is a no-op.
func (s *Session) UpdateUser(patch UserPatch) error {
	st := s.State()
	if st.User == nil {
		return nil
	}
	applyPatch(st.User, patch)
	return s.commit(st)
}

// Reload fetches the current user from the API. A 401 means the access
// token is gone; the session tries one refresh before giving up.
func (s *Session) Reload(ctx context.Context) error {
	st := s.State()
	if st.Token == "" {
		return nil
	}
	u, err := s.api.Me(ctx, st.Token)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && st.RefreshToken != "" {
		if rerr := s.RefreshToken(ctx); rerr != nil {
			return rerr
		}
		st = s.State()
		u, err = s.api.Me(ctx, st.Token)
	}
	if err != nil {
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			_ = s.clear()
		}
		return err
	}
	st.User = &u
	st.IsAuthenticated = true
	return s.commit(st)
}

func stateFrom(res LoginResult) State {
	u := res.User
	return State{
		User:            &u,
		Token:           res.AccessToken,
		RefreshToken:    res.RefreshToken,
		IsAuthenticated: true,
	}
}

func applyPatch(u *entity.PublicUser, p UserPatch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = entity.Role(*p.Role)
	}
}
