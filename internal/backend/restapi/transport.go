package restapi

import (
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"taskdeck/internal/logging"
)

// RequestIDHeader carries a per-request id for correlating with server logs.
const RequestIDHeader = "X-Request-ID"

// loggingTransport stamps a request id on every request and logs the
// exchange at debug level.
type loggingTransport struct {
	base http.RoundTripper
	log  *log.Helper
}

func newLoggingTransport(base http.RoundTripper, logger log.Logger) http.RoundTripper {
	return &loggingTransport{base: base, log: log.NewHelper(logging.OrDiscard(logger))}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	id := req.Header.Get(RequestIDHeader)

	start := time.Now()
	res, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		t.log.Debugw("msg", "request failed", "method", req.Method, "url", req.URL.Redacted(), "request_id", id, "elapsed", elapsed, "err", err)
		return nil, err
	}
	t.log.Debugw("msg", "request", "method", req.Method, "url", req.URL.Redacted(), "status", res.StatusCode, "request_id", id, "elapsed", elapsed)
	return res, nil
}
