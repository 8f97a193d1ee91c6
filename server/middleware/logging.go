package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/transcribe-mcp/logger"
)

var quietPaths = map[string]bool{
	"/health":  true,
	"/version": true,
}

// RequestLogger logs every request with method, path, status and duration.
// Health and version probes are skipped. Streaming requests (/sse, /events)
// are logged when the stream ends.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.DurationFields("request", time.Since(start))
			fields["method"] = r.Method
			fields["path"] = r.URL.Path
			fields["status"] = sw.status
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
