// Package access holds the server-side authorization rules: an explicit
// route table declaring the roles each route requires, and the single
// function that checks a principal against those requirements.
package access

import (
	"github.com/oksasatya/booking-api/internal/domain/entity"
)

// Principal is the authenticated caller. A principal carries either a single
// Role or a Roles list; Role wins when both are set.
type Principal struct {
	UserID int64
	Email  string
	Role   entity.Role
	Roles  []entity.Role
}

// RoleSet converts whichever shape the principal carries into the canonical set.
func (p *Principal) RoleSet() entity.RoleSet {
	if p == nil {
		return entity.RoleSet{}
	}
	if p.Role != "" {
		return entity.NewRoleSet(p.Role)
	}
	return entity.NewRoleSet(p.Roles...)
}

// Route declares the roles required to call Method Path. An empty Roles set
// leaves the route open to any caller that passed the authentication chain.
type Route struct {
	Method string
	Path   string
	Roles  entity.RoleSet
}

// Table is the route configuration consumed by the authorization middleware.
type Table []Route

// Lookup finds the rule for a method and a registered route pattern.
func (t Table) Lookup(method, path string) (Route, bool) {
	for _, r := range t {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Authorize reports whether p satisfies required.
func Authorize(required entity.RoleSet, p *Principal) bool {
	if required.Empty() {
		return true
	}
	if p == nil {
		return false
	}
	return required.Intersects(p.RoleSet())
}
