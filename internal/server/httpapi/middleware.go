package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/logging"
	"github.com/dmitrijs2005/taxiikeeper/internal/server/metrics"
	"github.com/google/uuid"
)

type ctxKey string

const loggerKey ctxKey = "logger"

func withLogger(ctx context.Context, l logging.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFrom returns the request-scoped logger, or a no-op logger outside a request.
func loggerFrom(ctx context.Context) logging.Logger {
	if l, ok := ctx.Value(loggerKey).(logging.Logger); ok {
		return l
	}
	return logging.Nop{}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument assigns a request id, attaches a child logger carrying it and
// records the outcome in the access log and metrics.
func instrument(next http.Handler, l logging.Logger, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		requestID := r.Header.Get(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, requestID)

		log := l.With("request_id", requestID)
		r = r.WithContext(withLogger(r.Context(), log))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if m != nil {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()
		}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(started)
		if m != nil {
			m.RecordHTTPRequest(route, rec.status, elapsed)
		}
		log.Info(r.Context(), "Request served",
			"method", r.Method, "path", r.URL.Path, "status", rec.status, "took", elapsed.String())
	})
}
