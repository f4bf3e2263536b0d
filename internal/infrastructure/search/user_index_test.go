package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/booking-api/internal/domain/entity"
	"github.com/oksasatya/booking-api/pkg/helpers"
)

func TestSearchQuery(t *testing.T) {
	q := searchQuery("  ", 5)
	require.Equal(t, 5, q["size"])
	require.Contains(t, q["query"], "match_all")

	q = searchQuery("ali", 10)
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	require.Equal(t, "ali", mm["query"])
	require.Equal(t, []string{"name^2", "email"}, mm["fields"])
}

func TestDecodeHits(t *testing.T) {
	body := `{"hits":{"hits":[
		{"_source":{"id":1,"email":"a@example.com","name":"A","role":"admin","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}},
		{"_source":{"id":2,"email":"b@example.com","name":"B","role":"user","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}}
	]}}`
	users, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, int64(1), users[0].ID)
	require.Equal(t, "user", users[1].Role.String())
}

// fakeCluster answers requests by "METHOD /path" and records what it saw.
type fakeCluster struct {
	mu      sync.Mutex
	replies map[string]int
	seen    []string
	bodies  map[string]string
}

func (f *fakeCluster) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := req.Method + " " + req.URL.Path
	f.seen = append(f.seen, key)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies[key] = string(b)
	}
	status, ok := f.replies[key]
	if !ok {
		status = http.StatusOK
	}
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(`{"hits":{"hits":[]}}`)),
		Request:    req,
	}, nil
}

func newFakeIndex(t *testing.T, replies map[string]int) (*fakeCluster, *UserIndex) {
	t.Helper()
	fc := &fakeCluster{replies: replies, bodies: map[string]string{}}
	es, err := helpers.NewESClient(helpers.ESOptions{Addrs: []string{"http://es.test:9200"}, Transport: fc})
	require.NoError(t, err)
	return fc, NewUserIndex(es, "")
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	fc, idx := newFakeIndex(t, map[string]int{"HEAD /users": http.StatusNotFound})
	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Equal(t, []string{"HEAD /users", "PUT /users"}, fc.seen)
	require.Contains(t, fc.bodies["PUT /users"], "search_as_you_type")

	fc, idx = newFakeIndex(t, nil)
	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Equal(t, []string{"HEAD /users"}, fc.seen)
}

func TestIndexAndRemove(t *testing.T) {
	fc, idx := newFakeIndex(t, map[string]int{"DELETE /users/_doc/9": http.StatusNotFound})
	u := &entity.User{ID: 7, Email: "a@example.com", Name: "A", Password: "$2a$hash", Role: entity.RoleUser}

	require.NoError(t, idx.Index(context.Background(), u))
	require.NotContains(t, fc.bodies["PUT /users/_doc/7"], "hash")
	require.Contains(t, fc.bodies["PUT /users/_doc/7"], `"email":"a@example.com"`)

	require.NoError(t, idx.Remove(context.Background(), 9))

	found, err := idx.Search(context.Background(), "a", 5)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestNewESClientNeedsAddress(t *testing.T) {
	_, err := helpers.NewESClient(helpers.ESOptions{})
	require.Error(t, err)
}
