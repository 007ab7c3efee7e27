package api

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_FIFO(t *testing.T) {
	first := Text("Beginner")
	second := Text("Advanced")
	roadmap := Text("r")
	m := NewMockClient().
		On(EndpointPredict, MockResult{Predict: &PredictResponse{ProficiencyLevel: &first, Roadmap: &roadmap}}).
		On(EndpointPredict, MockResult{Predict: &PredictResponse{ProficiencyLevel: &second, Roadmap: &roadmap}})

	ctx := context.Background()
	r1, err := m.Predict(ctx, PredictionRequest{Topic: "a"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	r2, err := m.Predict(ctx, PredictionRequest{Topic: "b"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if r1.ProficiencyLevel.String() != "Beginner" || r2.ProficiencyLevel.String() != "Advanced" {
		t.Fatalf("unexpected order: %s, %s", r1.ProficiencyLevel, r2.ProficiencyLevel)
	}

	calls := m.CallsTo(EndpointPredict)
	if len(calls) != 2 || calls[1].Request.Topic != "b" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestMockClient_Exhausted(t *testing.T) {
	m := NewMockClient()
	_, err := m.ListPredictions(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NetworkError, got %T", err)
	}
	if m.CallCount() != 1 {
		t.Errorf("call count = %d", m.CallCount())
	}
}

func TestMockClient_RecordsProgressTimestamp(t *testing.T) {
	m := NewMockClient().On(EndpointTrack, MockResult{Progress: &ProgressResponse{}})
	_, err := m.TrackProgress(context.Background(), ProgressRequest{Timestamp: "2024-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := m.CallsTo(EndpointTrack)
	if len(calls) != 1 || calls[0].Progress == nil || calls[0].Progress.Timestamp != "2024-01-01T00:00:00Z" {
		t.Fatalf("calls = %+v", calls)
	}
}
