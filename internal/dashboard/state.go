// Package dashboard holds the submission state machine and the sequential
// pipeline that drives it against the backend.
package dashboard

import (
	"github.com/abhisek/learntrack/internal/api"
)

// ErrPredictFailed is shown when the primary prediction cannot be used.
const ErrPredictFailed = "Failed to fetch prediction. Please try again."

// Phase is the lifecycle position of the current submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhasePartiallySucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhasePartiallySucceeded:
		return "partially_succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one backend call: a value or an error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// State is the display state of the dashboard. It is owned by a single
// goroutine and changed only through its Apply methods.
type State struct {
	Phase        Phase
	Loading      bool
	SubmissionID string

	ProficiencyLevel string
	Roadmap          string
	StudyMaterial    string
	Recommendations  []api.Recommendation
	Anomalies        []int

	// Error is the single visible error message; the last write wins.
	Error string

	Past []api.PastPrediction

	predicted       bool
	secondaryFailed bool
}

// Begin clears the previous result and error and enters Submitting.
// Past predictions are kept until the next refresh replaces them.
func (s *State) Begin(submissionID string) {
	past := s.Past
	*s = State{
		Phase:           PhaseSubmitting,
		Loading:         true,
		SubmissionID:    submissionID,
		Recommendations: []api.Recommendation{},
		Anomalies:       []int{},
		Past:            past,
	}
}

// ApplyPredict stores the prediction. It reports false when the submission
// must stop: the call failed or the response lacks a proficiency level or roadmap.
func (s *State) ApplyPredict(r Result[*api.PredictResponse]) bool {
	if r.Err != nil || !r.Value.Complete() {
		s.Error = ErrPredictFailed
		return false
	}
	s.ProficiencyLevel = r.Value.ProficiencyLevel.String()
	s.Roadmap = r.Value.Roadmap.String()
	s.predicted = true
	return true
}

// ApplyContent stores the generated study material or records its error.
func (s *State) ApplyContent(r Result[*api.ContentResponse]) {
	if r.Err != nil {
		s.Error = "generate_content failed: " + api.Describe(r.Err)
		s.secondaryFailed = true
		return
	}
	if r.Value != nil && r.Value.StudyMaterial != nil {
		s.StudyMaterial = r.Value.StudyMaterial.String()
	}
}

// ApplyRecommend stores the recommendations. A failure leaves the list empty
// and sets no error message.
func (s *State) ApplyRecommend(r Result[*api.RecommendResponse]) {
	if r.Err != nil {
		s.secondaryFailed = true
		return
	}
	if r.Value != nil && r.Value.RecommendedContent != nil {
		s.Recommendations = r.Value.RecommendedContent
	}
}

// ApplyProgress stores the anomaly flags or records its error. Anomalies is
// an empty list on failure.
func (s *State) ApplyProgress(r Result[*api.ProgressResponse]) {
	if r.Err != nil {
		s.Error = "track_progress failed: " + api.Describe(r.Err)
		s.Anomalies = []int{}
		s.secondaryFailed = true
		return
	}
	if r.Value != nil && r.Value.Anomalies != nil {
		s.Anomalies = r.Value.Anomalies
	} else {
		s.Anomalies = []int{}
	}
}

// Finish leaves Submitting and records the outcome.
func (s *State) Finish() {
	s.Loading = false
	switch {
	case !s.predicted:
		s.Phase = PhaseFailed
	case s.secondaryFailed:
		s.Phase = PhasePartiallySucceeded
	default:
		s.Phase = PhaseSucceeded
	}
}

// ApplyPast replaces the past predictions. A failed refresh empties the list.
func (s *State) ApplyPast(r Result[[]api.PastPrediction]) {
	if r.Err != nil || r.Value == nil {
		s.Past = []api.PastPrediction{}
		return
	}
	s.Past = r.Value
}

// AnomalyCount returns how many anomaly flags mark an anomalous entry.
func (s *State) AnomalyCount() int {
	n := 0
	for _, a := range s.Anomalies {
		if a == api.AnomalyMarker {
			n++
		}
	}
	return n
}
