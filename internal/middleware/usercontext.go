package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/vbtech/vbadmin/internal/auth"
	"github.com/vbtech/vbadmin/internal/domain"
)

// UserContextHeader carries the authenticated caller identity, set by the
// identity-aware proxy in front of this service. Authentication itself
// happens upstream; this service only consumes the asserted identity.
const UserContextHeader = "X-User-Context"

// UserContext parses the identity header into the request context. Requests
// without the header pass through unauthenticated; the action layer denies
// them when an operation demands a caller.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserContextHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		var user domain.UserContext
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			http.Error(w, "malformed user context header", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
	})
}
