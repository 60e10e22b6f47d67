// Package authz holds the route access policy, enforced with casbin.
//
// Roles form a small hierarchy: every caller is "public"; callers without a
// token are also "anonymous"; "admin" inherits everything "user" may do.
// Anonymous-only routes (register, login) are therefore closed to signed-in
// callers.
package authz

import (
	"fmt"

	"github.com/casbin/casbin"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// Anonymous is the subject used for requests without a token.
const Anonymous = "anonymous"

const public = "public"

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const (
	read      = "^GET$"
	write     = "^(POST|PUT|DELETE)$"
	readWrite = "^(GET|POST|PUT|DELETE)$"
)

var policies = [][]string{
	{public, "/healthz", read},
	{public, "/openapi.yaml", read},
	{public, "/continents", read},
	{public, "/continents/:id", read},
	{public, "/countries", read},
	{public, "/countries/:id", read},
	{public, "/trips", read},
	{public, "/trips/:id", read},
	{public, "/reservations/count/trip/:id", read},

	{Anonymous, "/auth/register", "^POST$"},
	{Anonymous, "/auth/login", "^POST$"},

	{string(domain.RoleUser), "/auth/logout", "^POST$"},
	{string(domain.RoleUser), "/auth/verify", read},
	{string(domain.RoleUser), "/users/profile/me", "^(GET|PUT)$"},
	{string(domain.RoleUser), "/reservations/book", "^POST$"},
	{string(domain.RoleUser), "/reservations/user/:id", read},

	{string(domain.RoleAdmin), "/continents", write},
	{string(domain.RoleAdmin), "/continents/:id", write},
	{string(domain.RoleAdmin), "/countries", write},
	{string(domain.RoleAdmin), "/countries/:id", write},
	{string(domain.RoleAdmin), "/trips", write},
	{string(domain.RoleAdmin), "/trips/:id", write},
	{string(domain.RoleAdmin), "/users", readWrite},
	{string(domain.RoleAdmin), "/users/:id", readWrite},
	{string(domain.RoleAdmin), "/reservations", readWrite},
	{string(domain.RoleAdmin), "/reservations/:id", readWrite},
	{string(domain.RoleAdmin), "/reservations/count/user/:id", read},
	{string(domain.RoleAdmin), "/reports/:entity", read},
}

var roles = [][]string{
	{Anonymous, public},
	{string(domain.RoleUser), public},
	{string(domain.RoleAdmin), string(domain.RoleUser)},
}

// Enforcer decides whether a subject may call a route.
type Enforcer struct {
	e *casbin.Enforcer
}

// NewEnforcer builds the policy in memory.
func NewEnforcer() (*Enforcer, error) {
	e, err := casbin.NewEnforcerSafe(casbin.NewModel(modelText))
	if err != nil {
		return nil, fmt.Errorf("authz.NewEnforcer: %w", err)
	}
	for _, p := range policies {
		e.AddPolicy(p[0], p[1], p[2])
	}
	for _, g := range roles {
		e.AddGroupingPolicy(g[0], g[1])
	}
	e.BuildRoleLinks()
	return &Enforcer{e: e}, nil
}

// Allow reports whether subject may call method on path.
func (a *Enforcer) Allow(subject, path, method string) (bool, error) {
	ok, err := a.e.EnforceSafe(subject, path, method)
	if err != nil {
		return false, fmt.Errorf("authz.Enforcer.Allow: %w", err)
	}
	return ok, nil
}

// Subject maps a caller to its policy subject.
func Subject(c domain.Claims, authenticated bool) string {
	if !authenticated {
		return Anonymous
	}
	return string(c.Role)
}
