package middleware

import (
	"net/http"

	"movies-api/pkg/utils"
)

const RequestIDHeader = "X-Request-Id"

// RequestID keeps a caller supplied X-Request-Id when it is a valid UUID
// and generates a new one otherwise.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || !utils.IsUUID(requestID) {
				requestID = utils.GenerateUUIDString()
			}

			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(utils.SetRequestID(r.Context(), requestID)))
		})
	}
}
