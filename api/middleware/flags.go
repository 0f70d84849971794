// ABOUTME: Feature flag middleware attaches the flag manager to request contexts
// ABOUTME: Handlers and core services read flags through featureflags.IsEnabled

package middleware

import (
	"net/http"

	"subfeed-api/pkg/featureflags"
)

// FeatureFlags attaches manager to every request context so handlers and
// core services can read flags with featureflags.IsEnabled
func FeatureFlags(manager featureflags.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(featureflags.WithManager(r.Context(), manager)))
		})
	}
}
