// Package authz evaluates the ordered authorization rule table for inbound
// HTTP requests. The table is built once at startup and is immutable
// afterwards, so it may be shared across concurrent requests without
// synchronization. Evaluation is top-to-bottom, first match wins, and the
// default for anything unmatched is "authenticated".
package authz

import (
	"net/http"
	"strings"

	domainauth "github.com/smartsupplypro/inventory-api/internal/domain/auth"
)

// Decision is the outcome of evaluating a request against the rule table.
type Decision int

const (
	// Allow grants the request.
	Allow Decision = iota
	// DenyUnauthenticated rejects the request because no authenticated
	// session is present; the entry point decides how to respond.
	DenyUnauthenticated
	// DenyForbidden rejects an authenticated request whose role does not
	// satisfy the matched rule.
	DenyForbidden
)

// Condition is what a matched rule requires of the request.
type Condition int

const (
	// ConditionPublic grants access unconditionally.
	ConditionPublic Condition = iota
	// ConditionAuthenticated requires any authenticated session.
	ConditionAuthenticated
	// ConditionRoles requires an authenticated session whose role is in
	// the rule's role set.
	ConditionRoles
)

// Rule is one entry of the ordered authorization table.
// A nil Methods slice matches any method. Paths match exactly, or as a
// segment-aligned prefix ("/api/admin" matches "/api/admin" and
// "/api/admin/ping" but not "/api/administrators").
type Rule struct {
	Methods   []string
	Paths     []string
	Condition Condition
	Roles     []domainauth.Role
}

// Input carries the request attributes the engine evaluates.
type Input struct {
	Path          string
	Method        string
	Authenticated bool
	Role          domainauth.Role
}

// Engine holds the compiled rule table.
type Engine struct {
	rules []Rule
}

// Options controls how the default rule table is built.
type Options struct {
	// DemoReadonly widens unauthenticated GET access to the read paths.
	// It never affects mutation rules.
	DemoReadonly bool
}

var (
	readPaths     = []string{"/api/inventory", "/api/analytics", "/api/suppliers"}
	mutationPaths = []string{"/api/inventory", "/api/suppliers"}

	mutatingMethods = []string{
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}

	publicPaths = []string{
		"/",
		"/healthz",
		"/api/health",
		"/oauth2",
		"/login/oauth2",
		"/login",
		"/error",
		"/auth/logout",
	}
)

// NewEngine builds the default rule table. The demo rule is inserted ahead of
// the authenticated read rule only when demo mode is on; its position relative
// to the read rule is a contract, not an implementation detail.
func NewEngine(opts Options) *Engine {
	rules := make([]Rule, 0, 8)

	// 1. CORS preflight on any path.
	rules = append(rules, Rule{
		Methods:   []string{http.MethodOptions},
		Condition: ConditionPublic,
	})

	// 2. Explicit public paths: root, health, login/callback routes, error page.
	rules = append(rules, Rule{
		Paths:     publicPaths,
		Condition: ConditionPublic,
	})

	// 3. Demo read-only override: unauthenticated GET on read paths.
	if opts.DemoReadonly {
		rules = append(rules, Rule{
			Methods:   []string{http.MethodGet},
			Paths:     readPaths,
			Condition: ConditionPublic,
		})
	}

	// 4. Authenticated reads.
	rules = append(rules, Rule{
		Methods:   []string{http.MethodGet},
		Paths:     readPaths,
		Condition: ConditionAuthenticated,
	})

	// 5. Admin area.
	rules = append(rules, Rule{
		Paths:     []string{"/api/admin"},
		Condition: ConditionRoles,
		Roles:     []domainauth.Role{domainauth.RoleAdmin},
	})

	// 6. Inventory and supplier mutations: business users.
	rules = append(rules, Rule{
		Methods:   mutatingMethods,
		Paths:     mutationPaths,
		Condition: ConditionRoles,
		Roles:     []domainauth.Role{domainauth.RoleUser, domainauth.RoleAdmin},
	})

	// 7. Everything else under /api.
	rules = append(rules, Rule{
		Paths:     []string{"/api"},
		Condition: ConditionAuthenticated,
	})

	return &Engine{rules: rules}
}

// Evaluate returns the decision for the given request attributes.
// Unmatched requests require authentication (rule 8).
func (e *Engine) Evaluate(in Input) Decision {
	for _, rule := range e.rules {
		if !rule.matches(in) {
			continue
		}
		return rule.decide(in)
	}
	return requireAuthenticated(in)
}

func (r Rule) matches(in Input) bool {
	if len(r.Methods) > 0 && !containsFold(r.Methods, in.Method) {
		return false
	}
	if len(r.Paths) == 0 {
		return true
	}
	for _, p := range r.Paths {
		if matchPath(p, in.Path) {
			return true
		}
	}
	return false
}

func (r Rule) decide(in Input) Decision {
	switch r.Condition {
	case ConditionPublic:
		return Allow
	case ConditionAuthenticated:
		return requireAuthenticated(in)
	case ConditionRoles:
		if !in.Authenticated {
			return DenyUnauthenticated
		}
		for _, role := range r.Roles {
			if in.Role == role {
				return Allow
			}
		}
		return DenyForbidden
	default:
		return requireAuthenticated(in)
	}
}

func requireAuthenticated(in Input) Decision {
	if in.Authenticated {
		return Allow
	}
	return DenyUnauthenticated
}

// matchPath reports whether path equals pattern or sits beneath it as a whole
// path segment. Root matches only itself.
func matchPath(pattern, path string) bool {
	if pattern == "/" {
		return path == "/"
	}
	if path == pattern {
		return true
	}
	return strings.HasPrefix(path, pattern+"/")
}

func containsFold(values []string, v string) bool {
	for _, item := range values {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
