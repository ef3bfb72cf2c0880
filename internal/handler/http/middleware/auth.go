package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-reconciler/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-reconciler/internal/pkg/hrisapi"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a valid access token and stashes
// the raw bearer token in the context so the HRIS client can forward it
// upstream verbatim.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing access token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid access token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.Unauthorized(w, "Invalid access token")
				return
			}

			// The user_id claim keys per-user state downstream; a token
			// without one must not fall through to a shared empty key.
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.Unauthorized(w, "Invalid access token")
				return
			}

			ctx := hrisapi.WithToken(r.Context(), jwtauth.TokenFromHeader(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// UserKey extracts the stable per-user cache key from the verified token.
func UserKey(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}
