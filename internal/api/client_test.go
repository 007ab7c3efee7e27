package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewHTTPClient(server.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func sampleRequest() PredictionRequest {
	return PredictionRequest{
		QuizScores:      85,
		TimeSpent:       3,
		CorrectAnswers:  17,
		TopicsCompleted: 4,
		Topic:           "algebra",
		UserPerformance: []string{"70", "80", "90"},
		UserID:          "u1",
	}
}

func TestNewHTTPClient_BaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"default", "", DefaultBaseURL, false},
		{"trailing slash", "http://localhost:9000/", "http://localhost:9000", false},
		{"https", "https://api.example.com", "https://api.example.com", false},
		{"bad scheme", "ftp://example.com", "", true},
		{"no host", "http://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewHTTPClient(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.BaseURL() != tt.want {
				t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), tt.want)
			}
		})
	}
}

func TestHTTPClient_PredictSendsPayload(t *testing.T) {
	var gotPath, gotMethod, gotType string
	var gotBody map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"proficiency_level":"Intermediate","roadmap":"Practice quadratics"}`)
	}

	c := newTestClient(t, handler)
	resp, err := c.Predict(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/predict" || gotMethod != http.MethodPost {
		t.Fatalf("request = %s %s, want POST /predict", gotMethod, gotPath)
	}
	if gotType != "application/json" {
		t.Errorf("content type = %q", gotType)
	}
	if gotBody["quiz_scores"] != float64(85) || gotBody["topic"] != "algebra" || gotBody["user_id"] != "u1" {
		t.Errorf("unexpected body: %v", gotBody)
	}
	perf, ok := gotBody["user_performance"].([]any)
	if !ok || len(perf) != 3 || perf[0] != "70" {
		t.Errorf("user_performance = %v", gotBody["user_performance"])
	}
	if !resp.Complete() {
		t.Fatal("expected complete response")
	}
	if resp.ProficiencyLevel.String() != "Intermediate" {
		t.Errorf("proficiency = %q", resp.ProficiencyLevel.String())
	}
}

func TestHTTPClient_PredictMissingRoadmap(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"proficiency_level":"Beginner"}`)
	}
	c := newTestClient(t, handler)
	resp, err := c.Predict(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Complete() {
		t.Fatal("expected incomplete response")
	}
}

func TestHTTPClient_PredictNonStringLabels(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"proficiency_level":["Intermediate"],"roadmap":{"week":1}}`)
	}
	c := newTestClient(t, handler)
	resp, err := c.Predict(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Complete() {
		t.Fatal("non-string labels should still make a complete prediction")
	}
	if got := resp.ProficiencyLevel.String(); got != `["Intermediate"]` {
		t.Errorf("proficiency = %q", got)
	}
	if got := resp.Roadmap.String(); got != `{"week":1}` {
		t.Errorf("roadmap = %q", got)
	}
}

func TestHTTPClient_StatusError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", 500, `{"detail":"model not loaded"}`, `"model not loaded"`},
		{"structured detail", 422, `{"detail":[{"loc":["body","quiz_scores"],"msg":"field required"}]}`, `[{"loc":["body","quiz_scores"],"msg":"field required"}]`},
		{"no detail", 400, `{"error":"bad"}`, `{"error":"bad"}`},
		{"plain text", 502, "upstream down\n", "upstream down"},
		{"empty body", 503, "", "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}
			c := newTestClient(t, handler)
			_, err := c.GenerateContent(context.Background(), sampleRequest())

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StatusError, got %T: %v", err, err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", se.StatusCode, tt.status)
			}
			if se.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", se.Detail, tt.wantDetail)
			}
			if se.Endpoint != EndpointGenerate {
				t.Errorf("endpoint = %q", se.Endpoint)
			}
		})
	}
}

func TestHTTPClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewHTTPClient(url)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.TrackProgress(context.Background(), ProgressRequest{PredictionRequest: sampleRequest()})

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if !strings.HasPrefix(Describe(err), "network error: no response from server") {
		t.Errorf("describe = %q", Describe(err))
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	handler := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}
	c := newTestClient(t, handler, WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := c.ListPredictions(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestHTTPClient_RequestError(t *testing.T) {
	c, err := NewHTTPClient("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	req := sampleRequest()
	req.QuizScores = math.NaN()
	_, err = c.Predict(context.Background(), req)

	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
	if !strings.HasPrefix(Describe(err), "request error:") {
		t.Errorf("describe = %q", Describe(err))
	}
}

func TestHTTPClient_InvalidResponse(t *testing.T) {
	tests := []struct {
		name string
		call func(c *HTTPClient) error
		body string
	}{
		{"not json", func(c *HTTPClient) error {
			_, err := c.Predict(context.Background(), sampleRequest())
			return err
		}, "<html>ok</html>"},
		{"not an object", func(c *HTTPClient) error {
			_, err := c.GenerateContent(context.Background(), sampleRequest())
			return err
		}, `["study"]`},
		{"recommendation not a pair", func(c *HTTPClient) error {
			_, err := c.RecommendContent(context.Background(), sampleRequest())
			return err
		}, `{"recommended_content":[[0.9]]}`},
		{"recommendation score not a number", func(c *HTTPClient) error {
			_, err := c.RecommendContent(context.Background(), sampleRequest())
			return err
		}, `{"recommended_content":[["high","Intro"]]}`},
		{"anomaly not an integer", func(c *HTTPClient) error {
			_, err := c.TrackProgress(context.Background(), ProgressRequest{PredictionRequest: sampleRequest()})
			return err
		}, `{"anomalies":[1,"x"]}`},
		{"prediction not an object", func(c *HTTPClient) error {
			_, err := c.ListPredictions(context.Background())
			return err
		}, `{"predictions":[1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}
			c := newTestClient(t, handler)
			err := tt.call(c)

			var ie *InvalidResponseError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *InvalidResponseError, got %T: %v", err, err)
			}
			if !strings.HasPrefix(Describe(err), "invalid response:") {
				t.Errorf("describe = %q", Describe(err))
			}
		})
	}
}

func TestHTTPClient_SecondaryResponses(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/generate_content":
			io.WriteString(w, `{"study_material":"Read chapter 4"}`)
		case "/recommend_content":
			io.WriteString(w, `{"recommended_content":[[0.92,"Linear equations"],[0.4,"Fractions"]]}`)
		case "/track_progress":
			io.WriteString(w, `{"anomalies":[1,-1,1]}`)
		case "/predictions":
			if r.Method != http.MethodGet {
				t.Errorf("predictions method = %s", r.Method)
			}
			io.WriteString(w, `{"predictions":[{"id":7,"quiz_scores":85,"time_spent":3,"correct_answers":17,"topics_completed":4,"proficiency_level":"Intermediate","roadmap":"Next"}]}`)
		default:
			http.NotFound(w, r)
		}
	}
	c := newTestClient(t, handler)
	ctx := context.Background()

	content, err := c.GenerateContent(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if content.StudyMaterial == nil || content.StudyMaterial.String() != "Read chapter 4" {
		t.Errorf("study material = %v", content.StudyMaterial)
	}

	rec, err := c.RecommendContent(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.RecommendedContent) != 2 || rec.RecommendedContent[0].Score != 0.92 || rec.RecommendedContent[0].Content != "Linear equations" {
		t.Errorf("recommendations = %+v", rec.RecommendedContent)
	}

	prog, err := c.TrackProgress(ctx, ProgressRequest{PredictionRequest: sampleRequest(), Timestamp: "2024-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if len(prog.Anomalies) != 3 || prog.Anomalies[1] != AnomalyMarker {
		t.Errorf("anomalies = %v", prog.Anomalies)
	}

	past, err := c.ListPredictions(ctx)
	if err != nil {
		t.Fatalf("predictions: %v", err)
	}
	if len(past.Predictions) != 1 {
		t.Fatalf("predictions = %d, want 1", len(past.Predictions))
	}
	if got := past.Predictions[0].DisplayID(0); got != "7" {
		t.Errorf("display id = %q, want 7", got)
	}
}

func TestHTTPClient_TrackProgressTimestamp(t *testing.T) {
	var gotBody map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"anomalies":[]}`)
	}
	c := newTestClient(t, handler)
	_, err := c.TrackProgress(context.Background(), ProgressRequest{
		PredictionRequest: sampleRequest(),
		Timestamp:         "2024-05-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["timestamp"] != "2024-05-01T10:00:00Z" {
		t.Errorf("timestamp = %v", gotBody["timestamp"])
	}
	if gotBody["topic"] != "algebra" {
		t.Errorf("embedded fields not flattened: %v", gotBody)
	}
}
