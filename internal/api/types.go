package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Endpoint is a backend path consumed by the dashboard.
type Endpoint string

const (
	EndpointPredict     Endpoint = "/predict"
	EndpointGenerate    Endpoint = "/generate_content"
	EndpointRecommend   Endpoint = "/recommend_content"
	EndpointTrack       Endpoint = "/track_progress"
	EndpointPredictions Endpoint = "/predictions"
)

// Name returns the endpoint without its leading slash, e.g. "generate_content".
func (e Endpoint) Name() string {
	return strings.TrimPrefix(string(e), "/")
}

// PredictionRequest is the validated payload posted to every submission endpoint.
type PredictionRequest struct {
	QuizScores      float64  `json:"quiz_scores"`
	TimeSpent       float64  `json:"time_spent"`
	CorrectAnswers  float64  `json:"correct_answers"`
	TopicsCompleted float64  `json:"topics_completed"`
	Topic           string   `json:"topic"`
	UserPerformance []string `json:"user_performance"`
	UserID          string   `json:"user_id"`
}

// Normalized returns a copy with every numeric field finite and
// UserPerformance non-nil, so the payload always encodes as numbers and a list.
func (r PredictionRequest) Normalized() PredictionRequest {
	out := r
	out.QuizScores = finite(r.QuizScores)
	out.TimeSpent = finite(r.TimeSpent)
	out.CorrectAnswers = finite(r.CorrectAnswers)
	out.TopicsCompleted = finite(r.TopicsCompleted)
	out.UserPerformance = make([]string, len(r.UserPerformance))
	copy(out.UserPerformance, r.UserPerformance)
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ProgressRequest is the /track_progress payload: the prediction request
// plus an ISO-8601 timestamp.
type ProgressRequest struct {
	PredictionRequest
	Timestamp string `json:"timestamp"`
}

// Text is a display label decoded leniently: a JSON string is taken as-is,
// any other JSON value is kept as its compact JSON text.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// String returns the label text.
func (t Text) String() string { return string(t) }

// present reports whether a decoded label carries a non-blank value.
func present(t *Text) bool {
	return t != nil && strings.TrimSpace(string(*t)) != ""
}

// PredictResponse is the /predict response.
type PredictResponse struct {
	ProficiencyLevel *Text `json:"proficiency_level,omitempty"`
	Roadmap          *Text `json:"roadmap,omitempty"`
}

// Complete reports whether both proficiency level and roadmap are present.
func (r *PredictResponse) Complete() bool {
	return r != nil && present(r.ProficiencyLevel) && present(r.Roadmap)
}

// ContentResponse is the /generate_content response.
type ContentResponse struct {
	StudyMaterial *Text `json:"study_material,omitempty"`
}

// Recommendation is one ranked (score, content) pair.
type Recommendation struct {
	Score   float64
	Content string
}

func (r *Recommendation) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("recommendation: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("recommendation: want [score, content], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Score); err != nil {
		return fmt.Errorf("recommendation score: %w", err)
	}
	var content Text
	if err := json.Unmarshal(pair[1], &content); err != nil {
		return fmt.Errorf("recommendation content: %w", err)
	}
	r.Content = string(content)
	return nil
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{r.Score, r.Content})
}

// RecommendResponse is the /recommend_content response.
type RecommendResponse struct {
	RecommendedContent []Recommendation `json:"recommended_content"`
}

// AnomalyMarker flags an anomalous progress entry.
const AnomalyMarker = -1

// ProgressResponse is the /track_progress response.
type ProgressResponse struct {
	Anomalies []int `json:"anomalies"`
}

// PastPrediction is one stored prediction returned by /predictions.
type PastPrediction struct {
	ID               *Text   `json:"id,omitempty"`
	QuizScores       float64 `json:"quiz_scores"`
	TimeSpent        float64 `json:"time_spent"`
	CorrectAnswers   float64 `json:"correct_answers"`
	TopicsCompleted  float64 `json:"topics_completed"`
	ProficiencyLevel Text    `json:"proficiency_level"`
	Roadmap          Text    `json:"roadmap"`
}

// DisplayID returns the record id, or a positional fallback for records without one.
func (p PastPrediction) DisplayID(index int) string {
	if present(p.ID) {
		return string(*p.ID)
	}
	return fmt.Sprintf("#%d", index+1)
}

// PredictionsResponse is the /predictions response.
type PredictionsResponse struct {
	Predictions []PastPrediction `json:"predictions"`
}
