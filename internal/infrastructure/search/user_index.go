package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

const DefaultIndex = "users"

// UserIndex mirrors sanitized users into Elasticsearch for admin search.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &UserIndex{es: es, index: index}
}

// mapping makes name and email searchable by prefix for bool_prefix queries.
var mapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":        map[string]any{"type": "long"},
			"name":      map[string]any{"type": "search_as_you_type"},
			"email":     map[string]any{"type": "search_as_you_type"},
			"role":      map[string]any{"type": "keyword"},
			"createdAt": map[string]any{"type": "date"},
			"updatedAt": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("elasticsearch exists: %s", res.Status())
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(ctx),
		x.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return responseError(res, "create index")
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	body, err := json.Marshal(u.Sanitize())
	if err != nil {
		return err
	}
	res, err := x.es.Index(x.index, bytes.NewReader(body),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(strconv.FormatInt(u.ID, 10)),
		x.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return responseError(res, "index")
}

func (x *UserIndex) Remove(ctx context.Context, id int64) error {
	res, err := x.es.Delete(x.index, strconv.FormatInt(id, 10), x.es.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res, "delete")
}

func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]entity.PublicUser, error) {
	body, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}
	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if err := responseError(res, "search"); err != nil {
		return nil, err
	}
	return decodeHits(res.Body)
}

func searchQuery(q string, size int) map[string]any {
	q = strings.TrimSpace(q)
	query := map[string]any{"match_all": map[string]any{}}
	if q != "" {
		query = map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "email"},
				"type":   "bool_prefix",
			},
		}
	}
	return map[string]any{
		"size":  size,
		"query": query,
		"sort":  []any{"_score", map[string]any{"id": "asc"}},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source entity.PublicUser `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeHits(r io.Reader) ([]entity.PublicUser, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, err
	}
	out := make([]entity.PublicUser, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func responseError(res *esapi.Response, op string) error {
	if !res.IsError() {
		return nil
	}
	b, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), strings.TrimSpace(string(b)))
}
