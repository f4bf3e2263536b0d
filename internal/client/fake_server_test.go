package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

const (
	janePassword = "Abcdef1!"
	adminID      = int64(1)
)

// fakeServer speaks the API's envelope for the handful of routes the client uses.
type fakeServer struct {
	mu       sync.Mutex
	users    map[int64]entity.PublicUser
	nextID   int64
	access   map[string]int64
	refresh  map[string]int64
	revoked  []string
	requests []string
	seq      int
}

func newFakeServer(t *testing.T) (*fakeServer, *API) {
	t.Helper()
	now := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	f := &fakeServer{
		users: map[int64]entity.PublicUser{
			adminID: {ID: adminID, Email: "admin@example.com", Name: "Admin", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now},
			2:       {ID: 2, Email: "jane@example.com", Name: "Jane", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now},
		},
		nextID:  3,
		access:  map[string]int64{},
		refresh: map[string]int64{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewAPI(srv.URL+"/api", 5*time.Second)
}

func writeEnvelope(w http.ResponseWriter, status int, message any, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"success": status < 400,
		"message": message,
		"data":    data,
	})
}

func (f *fakeServer) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r == route {
			n++
		}
	}
	return n
}

func (f *fakeServer) issue(id int64) (string, string) {
	f.seq++
	a := "acc-" + strconv.Itoa(f.seq)
	r := "ref-" + strconv.Itoa(f.seq)
	f.access[a] = id
	f.refresh[r] = id
	return a, r
}

func (f *fakeServer) principal(r *http.Request) (entity.PublicUser, bool) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, ok := f.access[tok]
	if !ok {
		return entity.PublicUser{}, false
	}
	u, ok := f.users[id]
	return u, ok
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/api")
	f.requests = append(f.requests, r.Method+" "+path)

	var body map[string]string
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	switch {
	case r.Method == http.MethodPost && path == "/auth/register":
		for _, u := range f.users {
			if u.Email == body["email"] {
				writeEnvelope(w, http.StatusConflict, "Email already exists", nil)
				return
			}
		}
		u := entity.PublicUser{ID: f.nextID, Email: body["email"], Name: body["name"], Role: entity.RoleUser}
		f.users[u.ID] = u
		f.nextID++
		writeEnvelope(w, http.StatusCreated, "User registered successfully", u)
		return

	case r.Method == http.MethodPost && path == "/auth/login":
		for _, u := range f.users {
			if u.Email == body["email"] && body["password"] == janePassword {
				a, rt := f.issue(u.ID)
				writeEnvelope(w, http.StatusOK, "", map[string]any{"accessToken": a, "refreshToken": rt, "user": u})
				return
			}
		}
		writeEnvelope(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return

	case r.Method == http.MethodPost && path == "/auth/refresh":
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		id, ok := f.refresh[tok]
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, "Invalid refresh token", nil)
			return
		}
		f.seq++
		a := "acc-" + strconv.Itoa(f.seq)
		f.access[a] = id
		writeEnvelope(w, http.StatusOK, "Token refreshed", map[string]string{"accessToken": a})
		return

	case r.Method == http.MethodPost && path == "/auth/logout":
		f.revoked = append(f.revoked, body["refreshToken"])
		delete(f.refresh, body["refreshToken"])
		writeEnvelope(w, http.StatusOK, "Logged out", nil)
		return
	}

	me, ok := f.principal(r)
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	if path == "/auth/me" {
		writeEnvelope(w, http.StatusOK, "", me)
		return
	}
	if path == "/auth/change-password" {
		writeEnvelope(w, http.StatusOK, "Password changed successfully", map[string]string{"message": "Password changed successfully"})
		return
	}
	if !strings.HasPrefix(path, "/users") {
		http.NotFound(w, r)
		return
	}
	if me.Role != entity.RoleAdmin {
		writeEnvelope(w, http.StatusForbidden, "Forbidden resource", nil)
		return
	}

	rest := strings.TrimPrefix(path, "/users")
	switch {
	case rest == "" && r.Method == http.MethodGet:
		list := make([]entity.PublicUser, 0, len(f.users))
		for id := int64(1); id < f.nextID; id++ {
			if u, ok := f.users[id]; ok {
				list = append(list, u)
			}
		}
		writeEnvelope(w, http.StatusOK, "", list)
	case rest == "/search":
		var hits []entity.PublicUser
		q := strings.ToLower(r.URL.Query().Get("q"))
		for id := int64(1); id < f.nextID; id++ {
			if u, ok := f.users[id]; ok && strings.Contains(strings.ToLower(u.Name), q) {
				hits = append(hits, u)
			}
		}
		writeEnvelope(w, http.StatusOK, "", hits)
	case strings.HasPrefix(rest, "/by-email/"):
		email := strings.TrimPrefix(rest, "/by-email/")
		for _, u := range f.users {
			if u.Email == email {
				writeEnvelope(w, http.StatusOK, "", u)
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, nil, nil)
	default:
		id, err := strconv.ParseInt(strings.TrimPrefix(rest, "/"), 10, 64)
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, []string{"id must be a number", "id is required"}, nil)
			return
		}
		u, ok := f.users[id]
		if !ok {
			writeEnvelope(w, http.StatusNotFound, "User with ID "+strconv.FormatInt(id, 10)+" not found", nil)
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeEnvelope(w, http.StatusOK, "", u)
		case http.MethodPatch:
			if v, ok := body["name"]; ok {
				u.Name = v
			}
			if v, ok := body["role"]; ok {
				u.Role = entity.Role(v)
			}
			f.users[id] = u
			writeEnvelope(w, http.StatusOK, "User updated", u)
		case http.MethodDelete:
			delete(f.users, id)
			writeEnvelope(w, http.StatusOK, "User deleted", nil)
		}
	}
}
