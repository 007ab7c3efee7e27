package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the local origin the prediction service listens on.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client is the backend abstraction consumed by the dashboard. Every
// method returns one of the typed errors in this package on failure.
type Client interface {
	// Predict posts the request to /predict.
	Predict(ctx context.Context, req PredictionRequest) (*PredictResponse, error)

	// GenerateContent posts the request to /generate_content.
	GenerateContent(ctx context.Context, req PredictionRequest) (*ContentResponse, error)

	// RecommendContent posts the request to /recommend_content.
	RecommendContent(ctx context.Context, req PredictionRequest) (*RecommendResponse, error)

	// TrackProgress posts the timestamped request to /track_progress.
	TrackProgress(ctx context.Context, req ProgressRequest) (*ProgressResponse, error)

	// ListPredictions fetches past predictions from /predictions.
	ListPredictions(ctx context.Context) (*PredictionsResponse, error)

	// BaseURL returns the backend origin this client talks to.
	BaseURL() string
}

// HTTPClient implements Client over JSON HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout bounds every call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.timeout = d }
}

// NewHTTPClient creates a client for the backend at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) Predict(ctx context.Context, req PredictionRequest) (*PredictResponse, error) {
	var out PredictResponse
	if err := c.do(ctx, http.MethodPost, EndpointPredict, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GenerateContent(ctx context.Context, req PredictionRequest) (*ContentResponse, error) {
	var out ContentResponse
	if err := c.do(ctx, http.MethodPost, EndpointGenerate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RecommendContent(ctx context.Context, req PredictionRequest) (*RecommendResponse, error) {
	var out RecommendResponse
	if err := c.do(ctx, http.MethodPost, EndpointRecommend, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) TrackProgress(ctx context.Context, req ProgressRequest) (*ProgressResponse, error) {
	var out ProgressResponse
	if err := c.do(ctx, http.MethodPost, EndpointTrack, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListPredictions(ctx context.Context) (*PredictionsResponse, error) {
	var out PredictionsResponse
	if err := c.do(ctx, http.MethodGet, EndpointPredictions, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one JSON request and decodes the response into out.
func (c *HTTPClient) do(ctx context.Context, method string, ep Endpoint, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Endpoint: ep, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+string(ep), body)
	if err != nil {
		return &RequestError{Endpoint: ep, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: ep, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Endpoint: ep, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractDetail(raw)
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Endpoint: ep, StatusCode: resp.StatusCode, Detail: detail}
	}

	if err := validateResponse(ep, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidResponseError{Endpoint: ep, Body: raw, Err: err}
	}
	return nil
}
