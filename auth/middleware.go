package auth

import (
	"net/http"
	"strings"

	"github.com/user/empman-go/apperror"
)

// RequireToken is the request gate. It runs once per request on protected
// routes: it extracts the bearer token, validates it through the codec, and
// attaches the reconstructed identity to the request context before any
// handler executes. Missing, malformed, or expired tokens are rejected with
// 401. Public routes are simply mounted outside gated groups and never pass
// through here.
func RequireToken(codec *Codec) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := codec.Parse(parts[1])
			if err != nil {
				WriteError(w, r, err)
				return
			}

			ctx := NewContextWithIdentity(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
