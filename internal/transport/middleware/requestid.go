package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/pkg/logger"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID carries a trace id through the request context and echoes it
// back. An incoming X-Trace-ID is honoured, otherwise a new uuid is minted.
// The id is also stored as chi's request id so LoggingMiddleware sees it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		ctx = context.WithValue(ctx, chimw.RequestIDKey, traceID)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
