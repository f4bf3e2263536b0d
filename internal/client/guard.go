package client

import "github.com/oksasatya/booking-api/internal/domain/entity"

// Outcome is what a protected view should do for the current session.
type Outcome int

const (
	Loading Outcome = iota
	Redirect
	NotFound
	Render
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	default:
		return "render"
	}
}

const (
	RouteHome  = "/"
	RouteAdmin = "/admin"
	RouteUser  = "/user"
)

// Decision pairs an outcome with its redirect target, if any.
type Decision struct {
	Outcome  Outcome
	Location string
}

// SessionView is the read side of a session.
type SessionView interface {
	Hydrated() bool
	State() State
}

// Decide guards a view. An empty allowed set admits any signed-in user.
func Decide(s SessionView, allowed entity.RoleSet) Decision {
	if !s.Hydrated() {
		return Decision{Outcome: Loading}
	}
	st := s.State()
	if !st.IsAuthenticated || st.User == nil {
		return Decision{Outcome: Redirect, Location: RouteHome}
	}
	if allowed.Empty() {
		return Decision{Outcome: Render}
	}
	if !RolesOf(st.User).Intersects(allowed) {
		return Decision{Outcome: NotFound}
	}
	return Decision{Outcome: Render}
}

// Landing guards the public home route: signed-in users go to their role route.
func Landing(s SessionView) Decision {
	if !s.Hydrated() {
		return Decision{Outcome: Loading}
	}
	st := s.State()
	if !st.IsAuthenticated || st.User == nil {
		return Decision{Outcome: Render}
	}
	if to := LandingRoute(st.User); to != RouteHome {
		return Decision{Outcome: Redirect, Location: to}
	}
	return Decision{Outcome: Render}
}

// LandingRoute picks the route for the user's highest-priority role.
func LandingRoute(u *entity.PublicUser) string {
	if u == nil {
		return RouteHome
	}
	switch RolesOf(u).Primary() {
	case entity.RoleAdmin:
		return RouteAdmin
	case entity.RoleUser:
		return RouteUser
	}
	return RouteHome
}

// RolesOf reads the role field, which may hold several comma-separated roles.
func RolesOf(u *entity.PublicUser) entity.RoleSet {
	if u == nil {
		return entity.RoleSet{}
	}
	return entity.ParseRoles(string(u.Role))
}
