package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/form"
	"github.com/abhisek/learntrack/internal/logger"
)

// timestampLayout is RFC 3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Orchestrator runs the submission pipeline against a backend client.
// Each step returns a Result instead of an error so failures stay local to
// the step that produced them.
type Orchestrator struct {
	client api.Client
	log    *logger.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the clock used for progress timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator overrides submission id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// NewOrchestrator creates an orchestrator. log may be nil.
func NewOrchestrator(client api.Client, log *logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	o := &Orchestrator{
		client: client,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Client returns the backend client.
func (o *Orchestrator) Client() api.Client {
	return o.client
}

// NewSubmission returns a fresh submission id.
func (o *Orchestrator) NewSubmission() string {
	return o.newID()
}

// Predict calls /predict.
func (o *Orchestrator) Predict(ctx context.Context, req api.PredictionRequest) Result[*api.PredictResponse] {
	res := step(ctx, o.log, api.EndpointPredict, func() (*api.PredictResponse, error) {
		return o.client.Predict(ctx, req.Normalized())
	})
	if res.Err == nil && !res.Value.Complete() {
		o.log.Warn("prediction incomplete",
			"submission_id", api.SubmissionFrom(ctx),
			"has_proficiency", res.Value != nil && res.Value.ProficiencyLevel != nil,
			"has_roadmap", res.Value != nil && res.Value.Roadmap != nil,
		)
	}
	return res
}

// GenerateContent calls /generate_content.
func (o *Orchestrator) GenerateContent(ctx context.Context, req api.PredictionRequest) Result[*api.ContentResponse] {
	return step(ctx, o.log, api.EndpointGenerate, func() (*api.ContentResponse, error) {
		return o.client.GenerateContent(ctx, req.Normalized())
	})
}

// RecommendContent calls /recommend_content. Its failure is only logged.
func (o *Orchestrator) RecommendContent(ctx context.Context, req api.PredictionRequest) Result[*api.RecommendResponse] {
	return step(ctx, o.log, api.EndpointRecommend, func() (*api.RecommendResponse, error) {
		return o.client.RecommendContent(ctx, req.Normalized())
	})
}

// TrackProgress calls /track_progress with the re-normalized request and
// the current time.
func (o *Orchestrator) TrackProgress(ctx context.Context, req api.PredictionRequest) Result[*api.ProgressResponse] {
	preq := api.ProgressRequest{
		PredictionRequest: req.Normalized(),
		Timestamp:         o.now().UTC().Format(timestampLayout),
	}
	return step(ctx, o.log, api.EndpointTrack, func() (*api.ProgressResponse, error) {
		return o.client.TrackProgress(ctx, preq)
	})
}

// FetchPast calls /predictions. A missing list decodes as empty.
func (o *Orchestrator) FetchPast(ctx context.Context) Result[[]api.PastPrediction] {
	res := step(ctx, o.log, api.EndpointPredictions, func() (*api.PredictionsResponse, error) {
		return o.client.ListPredictions(ctx)
	})
	if res.Err != nil {
		return Result[[]api.PastPrediction]{Err: res.Err}
	}
	if res.Value == nil || res.Value.Predictions == nil {
		return Result[[]api.PastPrediction]{Value: []api.PastPrediction{}}
	}
	return Result[[]api.PastPrediction]{Value: res.Value.Predictions}
}

// RefreshPast fetches past predictions on a new goroutine. The channel
// receives exactly one result and is then closed.
func (o *Orchestrator) RefreshPast(ctx context.Context) <-chan Result[[]api.PastPrediction] {
	ch := make(chan Result[[]api.PastPrediction], 1)
	go func() {
		defer close(ch)
		ch <- o.FetchPast(ctx)
	}()
	return ch
}

// Submit runs the whole pipeline for in and applies every result to st.
// It returns the pending past-predictions refresh, or nil when the
// prediction failed and no refresh was started. The refresh result must be
// applied by the caller, which owns st.
func (o *Orchestrator) Submit(ctx context.Context, st *State, in form.Input) <-chan Result[[]api.PastPrediction] {
	id := o.NewSubmission()
	st.Begin(id)
	defer st.Finish()

	ctx = api.WithSubmission(ctx, id)
	req := in.Request()

	if !st.ApplyPredict(o.Predict(ctx, req)) {
		return nil
	}
	refresh := o.RefreshPast(context.WithoutCancel(ctx))

	st.ApplyContent(o.GenerateContent(ctx, req))
	st.ApplyRecommend(o.RecommendContent(ctx, req))
	st.ApplyProgress(o.TrackProgress(ctx, req))
	return refresh
}

// step runs one backend call, logs its failure, and turns a panic into an error.
func step[T any](ctx context.Context, log *logger.Logger, ep api.Endpoint, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("backend step panicked",
				"endpoint", ep.Name(),
				"submission_id", api.SubmissionFrom(ctx),
				"panic", fmt.Sprint(r),
			)
			res = Result[T]{Err: fmt.Errorf("%s: panic: %v", ep.Name(), r)}
		}
	}()

	v, err := fn()
	if err != nil {
		log.Warn(ep.Name()+" failed",
			"submission_id", api.SubmissionFrom(ctx),
			"error", api.Describe(err),
		)
		return Result[T]{Err: err}
	}
	return Result[T]{Value: v}
}
