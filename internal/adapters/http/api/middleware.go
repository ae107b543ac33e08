package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/byline/pkg/metrics"
)

// instrument records request count, latency and failures for one route.
// Failures are counted under the error code the handler put in its JSON
// envelope, so the errors series and the API responses use the same names.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		h(rec, r)

		status := rec.Status()
		label := strconv.Itoa(status)
		metrics.RecordHTTPRequest(route, r.Method, label)
		metrics.RecordHTTPRequestDuration(route, r.Method, label, metrics.SinceMs(start))
		if status >= http.StatusBadRequest {
			metrics.RecordErrorByComponent("http", rec.failure(status))
		}
	}
}

// statusRecorder remembers the first status written and the API error code,
// if any, of a response.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	errCode string
}

func (rec *statusRecorder) WriteHeader(status int) {
	if rec.status == 0 {
		rec.status = status
	}
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }

// Status is the written status; a handler that wrote nothing answered 200.
func (rec *statusRecorder) Status() int {
	if rec.status == 0 {
		return http.StatusOK
	}
	return rec.status
}

func (rec *statusRecorder) failure(status int) string {
	switch {
	case rec.errCode != "":
		return rec.errCode
	case status >= http.StatusInternalServerError:
		return "server_error"
	default:
		return "client_error"
	}
}

// tagFailure attaches the API error code to w when the route is instrumented.
func tagFailure(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.errCode = code
	}
}
