package graphql

import (
	"context"
	"net/http"
	"time"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeyAsOf contextKey = "asOf"

// AsOfFromContext returns the evaluation date for age-based lookups.
// Defaults to now, so recommendations always reflect the current age.
func AsOfFromContext(ctx context.Context) time.Time {
	if v := ctx.Value(CtxKeyAsOf); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

// WithAsOf attaches an evaluation date to context.
func WithAsOf(ctx context.Context, at time.Time) context.Context {
	return context.WithValue(ctx, CtxKeyAsOf, at)
}

// As-of date resolved from: As-Of header > __asOf query param. Used by the
// dashboard to preview recommendations for a future date.
const (
	HeaderAsOf     = "As-Of"
	QueryParamAsOf = "__asOf"
)

// GetAsOf extracts the as-of date (YYYY-MM-DD) from a request.
func GetAsOf(r *http.Request) (time.Time, bool) {
	if h := r.Header.Get(HeaderAsOf); h != "" {
		if t, err := time.Parse("2006-01-02", h); err == nil {
			return t, true
		}
	}
	if q := r.URL.Query().Get(QueryParamAsOf); q != "" {
		if t, err := time.Parse("2006-01-02", q); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
