package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learntrack/internal/api"
)

func backend(t *testing.T, predictStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var req api.PredictionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("%s: decode request: %v", r.URL.Path, err)
			}
			if req.UserID != "tester" {
				t.Errorf("%s: user_id = %q, want tester", r.URL.Path, req.UserID)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, body)
		}
	}
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		if predictStatus != http.StatusOK {
			w.WriteHeader(predictStatus)
			io.WriteString(w, `{"detail":"model not loaded"}`)
			return
		}
		reply(`{"proficiency_level":"Intermediate","roadmap":"Review loops"}`)(w, r)
	})
	mux.HandleFunc("POST /generate_content", reply(`{"study_material":"Loop drills"}`))
	mux.HandleFunc("POST /recommend_content", reply(`{"recommended_content":[[0.8,"Recursion basics"]]}`))
	mux.HandleFunc("POST /track_progress", reply(`{"anomalies":[1,-1]}`))
	mux.HandleFunc("GET /predictions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"predictions":[{"id":7,"quiz_scores":85,"time_spent":3,"correct_answers":17,"topics_completed":4,"proficiency_level":"Beginner","roadmap":"Start"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPredictJSON(t *testing.T) {
	srv := backend(t, http.StatusOK)

	out, err := execute(t, "predict",
		"--base-url", srv.URL, "--user-id", "tester",
		"--quiz-scores", "85", "--topic", "algebra", "--user-performance", "70,80",
		"--json", "--history",
	)
	require.NoError(t, err)

	var res struct {
		Phase              string               `json:"phase"`
		ProficiencyLevel   string               `json:"proficiency_level"`
		StudyMaterial      string               `json:"study_material"`
		RecommendedContent [][]any              `json:"recommended_content"`
		Anomalies          []int                `json:"anomalies"`
		Predictions        []api.PastPrediction `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "succeeded", res.Phase)
	assert.Equal(t, "Intermediate", res.ProficiencyLevel)
	assert.Equal(t, "Loop drills", res.StudyMaterial)
	assert.Equal(t, [][]any{{0.8, "Recursion basics"}}, res.RecommendedContent)
	assert.Equal(t, []int{1, -1}, res.Anomalies)
	require.Len(t, res.Predictions, 1)
	assert.Equal(t, "7", res.Predictions[0].DisplayID(0))
}

func TestPredictFailureReturnsError(t *testing.T) {
	srv := backend(t, http.StatusServiceUnavailable)

	out, err := execute(t, "predict",
		"--base-url", srv.URL, "--user-id", "tester",
		"--json=false", "--history=false",
	)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch prediction. Please try again.", err.Error())
	assert.Contains(t, out, "Failed to fetch prediction")
	assert.NotContains(t, out, "Proficiency Level")
}

func TestPredictionsTable(t *testing.T) {
	srv := backend(t, http.StatusOK)

	out, err := execute(t, "predictions", "--base-url", srv.URL, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Beginner")
	assert.Contains(t, out, "Start")
	assert.True(t, strings.HasPrefix(out, "ID"), out)
}

func TestPredictionsReportsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := execute(t, "predictions", "--base-url", srv.URL, "--json=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server responded with status 500")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "learntrack (devel)\n", out)
}
