package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"fondos/pkg/requestcontext"
)

// PropagateRequestID copies the chi-assigned request ID into
// pkg/requestcontext so services can log it without importing chi.
// Mount after chi's middleware.RequestID.
func PropagateRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := chimw.GetReqID(ctx); reqID != "" {
			ctx = requestcontext.WithRequestID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
