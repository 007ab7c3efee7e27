package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abhisek/learntrack/internal/logger"
	"github.com/abhisek/learntrack/internal/store"
)

// maxJournalBody caps the request/response text kept per journal row.
const maxJournalBody = 64 << 10

// LoggingTransport is an http.RoundTripper decorator that logs every
// backend call and, when a CallRepo is set, records it in the journal.
type LoggingTransport struct {
	inner   http.RoundTripper
	log     *logger.Logger
	journal store.CallRepo
}

// WithLogging wraps inner (http.DefaultTransport when nil). journal may be nil.
func WithLogging(inner http.RoundTripper, log *logger.Logger, journal store.CallRepo) http.RoundTripper {
	if inner == nil {
		inner = http.DefaultTransport
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingTransport{inner: inner, log: log, journal: journal}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := req.Context()
	endpoint := strings.TrimPrefix(req.URL.Path, "/")

	reqBody := peekRequestBody(req)

	resp, err := t.inner.RoundTrip(req)
	latency := time.Since(start)

	rec := store.CallRecord{
		Timestamp:    start,
		SubmissionID: SubmissionFrom(ctx),
		Endpoint:     endpoint,
		Method:       req.Method,
		LatencyMs:    latency.Milliseconds(),
		RequestBody:  reqBody,
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
		t.log.Warn("backend call failed",
			"endpoint", endpoint,
			"method", req.Method,
			"submission_id", rec.SubmissionID,
			"latency_ms", rec.LatencyMs,
			"error", err,
		)
		t.record(ctx, rec)
		return nil, err
	}

	rec.StatusCode = resp.StatusCode
	rec.Success = resp.StatusCode >= 200 && resp.StatusCode <= 299
	if t.journal != nil {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		rec.ResponseBody = truncate(string(body))
		if readErr != nil {
			rec.ErrorMessage = readErr.Error()
		}
	}
	if !rec.Success && rec.ErrorMessage == "" {
		rec.ErrorMessage = http.StatusText(resp.StatusCode)
	}

	t.log.Info("backend call",
		"endpoint", endpoint,
		"method", req.Method,
		"status", resp.StatusCode,
		"submission_id", rec.SubmissionID,
		"latency_ms", rec.LatencyMs,
	)
	t.record(ctx, rec)
	return resp, nil
}

// record appends to the journal; a journal failure never fails the call.
func (t *LoggingTransport) record(ctx context.Context, rec store.CallRecord) {
	if t.journal == nil {
		return
	}
	if err := t.journal.Append(context.WithoutCancel(ctx), rec); err != nil {
		t.log.Warn("journal append failed", "endpoint", rec.Endpoint, "error", err)
	}
}

// peekRequestBody returns the request body text without consuming it. The
// user_id field is hashed.
func peekRequestBody(req *http.Request) string {
	if req.Body == nil || req.GetBody == nil {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return truncate(redactUserID(b))
}

func redactUserID(b []byte) string {
	var body map[string]any
	if err := json.Unmarshal(b, &body); err != nil {
		return string(b)
	}
	id, ok := body["user_id"].(string)
	if !ok {
		return string(b)
	}
	body["user_id"] = logger.HashID(id)
	out, err := json.Marshal(body)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// truncate caps s at maxJournalBody bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxJournalBody {
		return s
	}
	cut := maxJournalBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
