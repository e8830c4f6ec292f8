package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"
)

const maxLoggedBodyBytes = 512

// statusRecorder captures the status and size of a response, and keeps a
// bounded copy of the body for logging failed requests.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
	wroteHeader  bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n

	if remaining := r.maxLogBytes - r.logBody.Len(); remaining > 0 {
		if len(p) > remaining {
			r.logBody.Write(p[:remaining])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}
	return n, err
}

func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedBodyBytes,
		}

		next.ServeHTTP(recorder, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"bytes", recorder.bytesWritten,
			"duration", time.Since(start),
		}
		switch {
		case recorder.statusCode >= http.StatusInternalServerError:
			logger.ErrorContext(r.Context(), "http request", append(attrs, "body", recorder.logBody.String(), "truncated", recorder.truncated)...)
		case recorder.statusCode >= http.StatusBadRequest:
			logger.InfoContext(r.Context(), "http request", append(attrs, "body", recorder.logBody.String(), "truncated", recorder.truncated)...)
		default:
			logger.DebugContext(r.Context(), "http request", attrs...)
		}
	})
}

func withRecovery(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				logger.ErrorContext(r.Context(), "panic serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", recovered,
				)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
