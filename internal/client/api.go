package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

const (
	msgForbidden    = "Access denied. Admin privileges required."
	msgUserNotFound = "User not found."
	msgUnauthorized = "Unauthorized. Please login again."
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// API talks to the booking REST API. BaseURL includes the /api prefix.
type API struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPI(baseURL string, timeout time.Duration) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

type LoginResult struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	User         entity.PublicUser `json:"user"`
}

// UserPatch is a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (a *API) Register(ctx context.Context, name, email, password string) (entity.PublicUser, error) {
	var u entity.PublicUser
	body := map[string]string{"name": name, "email": email, "password": password}
	err := a.do(ctx, http.MethodPost, "/auth/register", "", body, &u)
	return u, err
}

func (a *API) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	err := a.do(ctx, http.MethodPost, "/auth/login", "", body, &res)
	return res, err
}

// Refresh exchanges a refresh token, sent as a bearer token, for a new access token.
func (a *API) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var res struct {
		AccessToken string `json:"accessToken"`
	}
	err := a.do(ctx, http.MethodPost, "/auth/refresh", refreshToken, struct{}{}, &res)
	return res.AccessToken, err
}

func (a *API) Logout(ctx context.Context, refreshToken string) error {
	return a.do(ctx, http.MethodPost, "/auth/logout", "", map[string]string{"refreshToken": refreshToken}, nil)
}

func (a *API) Me(ctx context.Context, token string) (entity.PublicUser, error) {
	var u entity.PublicUser
	err := a.do(ctx, http.MethodGet, "/auth/me", token, nil, &u)
	return u, err
}

func (a *API) ChangePassword(ctx context.Context, token, current, next string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	err := a.do(ctx, http.MethodPatch, "/auth/change-password", token, body, &res)
	return res.Message, err
}

func (a *API) ListUsers(ctx context.Context, token string) ([]entity.PublicUser, error) {
	var users []entity.PublicUser
	err := a.do(ctx, http.MethodGet, "/users", token, nil, &users)
	return users, err
}

func (a *API) GetUser(ctx context.Context, token string, id int64) (entity.PublicUser, error) {
	var u entity.PublicUser
	err := a.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), token, nil, &u)
	return u, err
}

func (a *API) GetUserByEmail(ctx context.Context, token, email string) (entity.PublicUser, error) {
	var u entity.PublicUser
	err := a.do(ctx, http.MethodGet, "/users/by-email/"+url.PathEscape(email), token, nil, &u)
	return u, err
}

func (a *API) CreateUser(ctx context.Context, token string, in NewUser) (entity.PublicUser, error) {
	var u entity.PublicUser
	err := a.do(ctx, http.MethodPost, "/users", token, in, &u)
	return u, err
}

func (a *API) UpdateUser(ctx context.Context, token string, id int64, patch UserPatch) (entity.PublicUser, error) {
	var u entity.PublicUser
	err := a.do(ctx, http.MethodPatch, "/users/"+strconv.FormatInt(id, 10), token, patch, &u)
	return u, err
}

func (a *API) DeleteUser(ctx context.Context, token string, id int64) error {
	return a.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), token, nil, nil)
}

func (a *API) SearchUsers(ctx context.Context, token, q string, size int) ([]entity.PublicUser, error) {
	v := url.Values{}
	v.Set("q", q)
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	var users []entity.PublicUser
	err := a.do(ctx, http.MethodGet, "/users/search?"+v.Encode(), token, nil, &users)
	return users, err
}

func (a *API) do(ctx context.Context, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := a.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = messageOf(env.Message)
		}
		if apiErr.Message == "" {
			apiErr.Message = statusMessage(resp.StatusCode)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

// messageOf reads a message that is either a string or a list of strings.
func messageOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

func statusMessage(status int) string {
	switch status {
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgUserNotFound
	case http.StatusUnauthorized:
		return msgUnauthorized
	}
	return ""
}

// ErrorMessage returns the user-facing text of err, or fallback when the
// error carries none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
