package api

import (
	"context"
	"sync"
)

// MockResult is a canned outcome for one MockClient call.
type MockResult struct {
	Predict     *PredictResponse
	Content     *ContentResponse
	Recommend   *RecommendResponse
	Progress    *ProgressResponse
	Predictions *PredictionsResponse
	Err         error

	// Block, when set, is waited on before the call returns.
	Block <-chan struct{}
}

// MockCall records one request made against the MockClient.
type MockCall struct {
	Endpoint Endpoint
	Request  PredictionRequest
	Progress *ProgressRequest
}

// MockClient is a deterministic Client for testing. It returns canned
// results per endpoint in FIFO order and records every call.
type MockClient struct {
	mu      sync.Mutex
	results map[Endpoint][]MockResult
	Calls   []MockCall
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates an empty MockClient. Endpoints without a queued
// result fail with a *NetworkError.
func NewMockClient() *MockClient {
	return &MockClient{results: make(map[Endpoint][]MockResult)}
}

// On queues a result for the endpoint and returns the client for chaining.
func (m *MockClient) On(ep Endpoint, res MockResult) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[ep] = append(m.results[ep], res)
	return m
}

func (m *MockClient) next(call MockCall) MockResult {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	queue := m.results[call.Endpoint]
	if len(queue) == 0 {
		m.mu.Unlock()
		return MockResult{Err: &NetworkError{Endpoint: call.Endpoint, Err: errNoMockResult}}
	}
	res := queue[0]
	m.results[call.Endpoint] = queue[1:]
	m.mu.Unlock()

	if res.Block != nil {
		<-res.Block
	}
	return res
}

func (m *MockClient) Predict(_ context.Context, req PredictionRequest) (*PredictResponse, error) {
	res := m.next(MockCall{Endpoint: EndpointPredict, Request: req})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Predict, nil
}

func (m *MockClient) GenerateContent(_ context.Context, req PredictionRequest) (*ContentResponse, error) {
	res := m.next(MockCall{Endpoint: EndpointGenerate, Request: req})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Content, nil
}

func (m *MockClient) RecommendContent(_ context.Context, req PredictionRequest) (*RecommendResponse, error) {
	res := m.next(MockCall{Endpoint: EndpointRecommend, Request: req})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Recommend, nil
}

func (m *MockClient) TrackProgress(_ context.Context, req ProgressRequest) (*ProgressResponse, error) {
	res := m.next(MockCall{Endpoint: EndpointTrack, Request: req.PredictionRequest, Progress: &req})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Progress, nil
}

func (m *MockClient) ListPredictions(_ context.Context) (*PredictionsResponse, error) {
	res := m.next(MockCall{Endpoint: EndpointPredictions})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Predictions, nil
}

// BaseURL returns "mock".
func (m *MockClient) BaseURL() string {
	return "mock"
}

// CallsTo returns the recorded calls for one endpoint, in order.
func (m *MockClient) CallsTo(ep Endpoint) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.Calls {
		if c.Endpoint == ep {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns the total number of calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errNoMockResult = mockError("no mock result queued")
