package predict

import (
	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/dashboard"
)

// predictDoneMsg is sent when /predict returns for a submission.
type predictDoneMsg struct {
	ID     string
	Result dashboard.Result[*api.PredictResponse]
}

// contentDoneMsg is sent when /generate_content returns.
type contentDoneMsg struct {
	ID     string
	Result dashboard.Result[*api.ContentResponse]
}

// recommendDoneMsg is sent when /recommend_content returns.
type recommendDoneMsg struct {
	ID     string
	Result dashboard.Result[*api.RecommendResponse]
}

// progressDoneMsg is sent when /track_progress returns. It ends the submission.
type progressDoneMsg struct {
	ID     string
	Result dashboard.Result[*api.ProgressResponse]
}

// pastLoadedMsg carries a past predictions refresh. Refreshes are not tied
// to a submission; the latest one wins.
type pastLoadedMsg struct {
	Result dashboard.Result[[]api.PastPrediction]
}
