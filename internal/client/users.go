package client

import (
	"context"
	"errors"
	"sync"

	"github.com/oksasatya/booking-api/internal/domain/entity"
)

const msgOperationFailed = "Operation failed"

// ErrSelfDelete is returned before any request when an admin targets their own account.
var ErrSelfDelete = errors.New("You cannot delete your own account")

// Credentials is what the users store needs from a session.
type Credentials interface {
	Token() string
	UserID() int64
}

// Users caches the admin user list and the last user looked at.
type Users struct {
	api   *API
	creds Credentials

	mu      sync.RWMutex
	users   []entity.PublicUser
	current *entity.PublicUser
	total   int
	loading bool
	err     string
}

func NewUsers(api *API, creds Credentials) *Users {
	return &Users{api: api, creds: creds}
}

func (u *Users) List() []entity.PublicUser {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]entity.PublicUser(nil), u.users...)
}

func (u *Users) Current() *entity.PublicUser {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.current == nil {
		return nil
	}
	c := *u.current
	return &c
}

func (u *Users) Total() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.total
}

func (u *Users) Loading() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.loading
}

func (u *Users) Err() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.err
}

func (u *Users) ClearError() {
	u.mu.Lock()
	u.err = ""
	u.mu.Unlock()
}

func (u *Users) ClearCurrent() {
	u.mu.Lock()
	u.current = nil
	u.mu.Unlock()
}

func (u *Users) begin() {
	u.mu.Lock()
	u.loading = true
	u.err = ""
	u.mu.Unlock()
}

// fail records err; mutate runs under the lock to reset whatever the call owns.
func (u *Users) fail(err error, mutate func()) error {
	u.mu.Lock()
	u.err = ErrorMessage(err, msgOperationFailed)
	u.loading = false
	if mutate != nil {
		mutate()
	}
	u.mu.Unlock()
	return err
}

func (u *Users) done(mutate func()) {
	u.mu.Lock()
	mutate()
	u.loading = false
	u.err = ""
	u.mu.Unlock()
}

func (u *Users) GetAll(ctx context.Context) ([]entity.PublicUser, error) {
	u.begin()
	list, err := u.api.ListUsers(ctx, u.creds.Token())
	if err != nil {
		return nil, u.fail(err, func() {
			u.users = nil
			u.total = 0
		})
	}
	u.done(func() {
		u.users = list
		u.total = len(list)
	})
	return list, nil
}

func (u *Users) GetByID(ctx context.Context, id int64) (entity.PublicUser, error) {
	u.begin()
	got, err := u.api.GetUser(ctx, u.creds.Token(), id)
	return u.setCurrent(got, err)
}

func (u *Users) GetByEmail(ctx context.Context, email string) (entity.PublicUser, error) {
	u.begin()
	got, err := u.api.GetUserByEmail(ctx, u.creds.Token(), email)
	return u.setCurrent(got, err)
}

func (u *Users) setCurrent(got entity.PublicUser, err error) (entity.PublicUser, error) {
	if err != nil {
		return entity.PublicUser{}, u.fail(err, func() { u.current = nil })
	}
	u.done(func() { u.current = &got })
	return got, nil
}

func (u *Users) Create(ctx context.Context, in NewUser) (entity.PublicUser, error) {
	u.begin()
	created, err := u.api.CreateUser(ctx, u.creds.Token(), in)
	if err != nil {
		return entity.PublicUser{}, u.fail(err, nil)
	}
	u.done(func() {
		u.users = append(u.users, created)
		u.total++
	})
	return created, nil
}

// Update replaces the cached copies of the user with the server's answer.
func (u *Users) Update(ctx context.Context, id int64, patch UserPatch) (entity.PublicUser, error) {
	u.begin()
	updated, err := u.api.UpdateUser(ctx, u.creds.Token(), id, patch)
	if err != nil {
		return entity.PublicUser{}, u.fail(err, nil)
	}
	u.done(func() {
		for i := range u.users {
			if u.users[i].ID == id {
				u.users[i] = updated
			}
		}
		if u.current != nil && u.current.ID == id {
			c := updated
			u.current = &c
		}
	})
	return updated, nil
}

func (u *Users) Delete(ctx context.Context, id int64) error {
	if id == u.creds.UserID() {
		u.mu.Lock()
		u.err = ErrSelfDelete.Error()
		u.mu.Unlock()
		return ErrSelfDelete
	}
	u.begin()
	if err := u.api.DeleteUser(ctx, u.creds.Token(), id); err != nil {
		return u.fail(err, nil)
	}
	u.done(func() {
		kept := u.users[:0]
		removed := 0
		for _, x := range u.users {
			if x.ID == id {
				removed++
				continue
			}
			kept = append(kept, x)
		}
		u.users = kept
		u.total -= removed
		if u.current != nil && u.current.ID == id {
			u.current = nil
		}
	})
	return nil
}

// Search does not touch the cached list.
func (u *Users) Search(ctx context.Context, q string, size int) ([]entity.PublicUser, error) {
	u.begin()
	found, err := u.api.SearchUsers(ctx, u.creds.Token(), q, size)
	if err != nil {
		return nil, u.fail(err, nil)
	}
	u.done(func() {})
	return found, nil
}
