package middleware

import (
	"bytes"
	"net/http"
	"time"

	reqctx "skyrelief/dispatch/internal/context"
	"skyrelief/dispatch/internal/logging"
)

// Response bodies are truncated to this many bytes in debug logs.
const maxLoggedBody = 2048

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := maxLoggedBody - l.buf.Len(); room > 0 {
		if len(b) > room {
			l.buf.Write(b[:room])
		} else {
			l.buf.Write(b)
		}
	}
	return l.ResponseWriter.Write(b)
}

// DebugLogging logs the request line and the response body. It is only
// mounted when LOG_LEVEL is debug.
func DebugLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(reqctx.GetRequestID(r.Context()), r.Method, r.URL.Path)
		log.Debugw("→ request", "query", r.URL.RawQuery, "content_length", r.ContentLength)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: &bytes.Buffer{}}

		start := time.Now()
		next.ServeHTTP(lw, r)

		log.Debugw("← response",
			"status_code", lw.status,
			"duration", time.Since(start).String(),
			"body", lw.buf.String(),
		)
	})
}
