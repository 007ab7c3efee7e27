package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StatusError indicates the backend answered with a non-2xx status.
type StatusError struct {
	Endpoint   Endpoint
	StatusCode int
	// Detail is the serialized "detail" field of the body, or the whole body
	// when no detail was provided.
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint.Name(), e.StatusCode, e.Detail)
}

// NetworkError indicates the request was sent but no response was received.
type NetworkError struct {
	Endpoint Endpoint
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: no response: %v", e.Endpoint.Name(), e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError indicates the request could not be constructed or sent.
type RequestError struct {
	Endpoint Endpoint
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: build request: %v", e.Endpoint.Name(), e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// InvalidResponseError indicates a 2xx body that is not valid JSON or does
// not match the endpoint's schema.
type InvalidResponseError struct {
	Endpoint Endpoint
	Body     json.RawMessage
	Err      error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Endpoint.Name(), e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// Describe renders err as the user-visible description of a failed call.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var status *StatusError
	if errors.As(err, &status) {
		return fmt.Sprintf("server responded with status %d: %s", status.StatusCode, status.Detail)
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return fmt.Sprintf("network error: no response from server (%v)", network.Err)
	}
	var request *RequestError
	if errors.As(err, &request) {
		return fmt.Sprintf("request error: %v", request.Err)
	}
	var invalid *InvalidResponseError
	if errors.As(err, &invalid) {
		return fmt.Sprintf("invalid response: %v", invalid.Err)
	}
	return fmt.Sprintf("request error: %v", err)
}

// extractDetail serializes the "detail" field of an error body, falling back
// to the whole body.
func extractDetail(raw []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if d, ok := envelope["detail"]; ok && string(d) != "null" {
			return compactJSON(d)
		}
	}
	if json.Valid(raw) {
		return compactJSON(raw)
	}
	return strings.TrimSpace(string(raw))
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
