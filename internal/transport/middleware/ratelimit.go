package middleware

import (
	"fmt"
	"net/http"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

var ErrRateLimited = &internal.AppError{
	Type:       internal.ErrorTypeForbidden,
	Code:       "RATE_LIMITED",
	Message:    "Too many requests, try again later.",
	StatusCode: http.StatusTooManyRequests,
}

// RateLimit throttles requests per client IP using a formatted rate such as
// "5-M". An empty rate disables limiting.
func RateLimit(formatted string) (func(http.Handler) http.Handler, error) {
	if formatted == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			writeAppError(w, ErrRateLimited)
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			writeAppError(w, internal.NewInternalError("rate limiter failure", err))
		}),
	)
	return mw.Handler, nil
}
