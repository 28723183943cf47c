package middleware

import (
	"net/http"
)

const (
	corsAllowMethods = "GET, PUT, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// CORS emits Access-Control-Allow-Origin for allow-listed origins and for
// requests that carry no Origin header at all. Other origins get no CORS
// headers; the request itself is still served.
//
// For OPTIONS requests the allowed methods and headers are added as well;
// answering the preflight is left to the route table.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			// The response depends on Origin whether or not it is present.
			w.Header().Add("Vary", "Origin")

			permitted := origin == ""
			if !permitted {
				_, permitted = allowed[origin]
			}

			if permitted {
				if origin == "" {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			}

			if permitted && r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			}

			next.ServeHTTP(w, r)
		})
	}
}
