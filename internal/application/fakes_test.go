package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/booking-api/internal/domain/entity"
	repo "github.com/oksasatya/booking-api/internal/domain/repository"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.User
	err    error
}

func newMemRepo() *memRepo { return &memRepo{rows: map[int64]entity.User{}} }

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, x := range r.rows {
		if x.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.rows[u.ID] = *u
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.rows))
	for _, u := range r.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	r.rows[u.ID] = *u
	return nil
}

func (r *memRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	r.rows[id] = u
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(r.rows, id)
	return &u, nil
}

type memDenylist struct {
	revoked map[string]time.Time
}

func (d *memDenylist) Revoke(_ context.Context, jti string, _ int64, until time.Time) error {
	if d.revoked == nil {
		d.revoked = map[string]time.Time{}
	}
	d.revoked[jti] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := d.revoked[jti]
	return ok, nil
}

type recordingPublisher struct {
	msgs []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.msgs = append(p.msgs, body)
	return nil
}

type memIndex struct {
	docs map[int64]entity.PublicUser
}

func (m *memIndex) Index(_ context.Context, u *entity.User) error {
	if m.docs == nil {
		m.docs = map[int64]entity.PublicUser{}
	}
	m.docs[u.ID] = u.Sanitize()
	return nil
}

func (m *memIndex) Remove(_ context.Context, id int64) error {
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, _ string, size int) ([]entity.PublicUser, error) {
	out := []entity.PublicUser{}
	for _, u := range m.docs {
		if len(out) == size {
			break
		}
		out = append(out, u)
	}
	return out, nil
}
