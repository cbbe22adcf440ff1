package auth

import (
	"net/http"
	"strings"

	"github.com/user/empman-go/apperror"
)

// Rule permits any of the listed roles to call matching requests. An empty
// Method matches every method. Paths match by prefix.
type Rule struct {
	Method string
	Prefix string
	AnyOf  []string
}

// Policy is a static table of access rules consulted after the gate has
// established an identity. Rules are evaluated in order; the first match
// decides. A request matching no rule requires only an authenticated
// identity, with no specific role.
type Policy struct {
	rules []Rule
}

// NewPolicy creates a Policy from an ordered rule list. The table is fixed
// at startup and read-only afterwards, safe for concurrent use.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Authorize reports whether the identity may perform method on path.
func (p *Policy) Authorize(identity *Identity, method, path string) bool {
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		return identity.Roles.HasAny(rule.AnyOf...)
	}
	return true
}

// Middleware enforces the policy. It expects the gate to have run first; a
// missing identity is rejected as unauthenticated, an identity without a
// required role as forbidden. The two cases keep distinct status codes.
func (p *Policy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}
		if !p.Authorize(identity, r.Method, r.URL.Path) {
			WriteError(w, r, apperror.NewForbiddenError("insufficient permissions", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
