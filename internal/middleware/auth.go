package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Sphere-Cloud/SyncPoShopify/pkg/apierror"
	"github.com/Sphere-Cloud/SyncPoShopify/pkg/response"
)

// NewAdminKey creates a middleware that guards the admin surface with a
// static key sent in the X-Admin-Key header. An empty configured key disables
// the check, which is only acceptable in development.
func NewAdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-Admin-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				response.Error(w, apierror.Unauthorized("invalid admin key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
