package components

import (
	"math"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learntrack/internal/api"
)

func TestScoreBarFraction(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0.5, 0.5},
		{-1, 0},
		{3, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := NewScoreBar("x", tt.score, 10, 40).Fraction(); got != tt.want {
			t.Errorf("Fraction(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestScoreBarViewShowsScoreAndLabel(t *testing.T) {
	view := NewScoreBar("Linear equations", 0.92, 10, 60).View()
	if !strings.Contains(view, "0.92") {
		t.Errorf("view missing score: %q", view)
	}
	if !strings.Contains(view, "Linear equations") {
		t.Errorf("view missing label: %q", view)
	}
}

func TestButtonDisabledIgnoresEnter(t *testing.T) {
	pressed := false
	b := NewButton("Get Prediction", "Predicting...", func() tea.Cmd {
		pressed = true
		return nil
	})
	b.Active = true
	b.Disabled = true

	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed {
		t.Fatal("disabled button must not fire")
	}
	if !strings.Contains(b.View(""), "Predicting...") {
		t.Errorf("disabled button should show busy label, got %q", b.View(""))
	}

	b.Disabled = false
	b.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !pressed {
		t.Fatal("enabled active button should fire on enter")
	}
}

func TestTextInputNumericFilter(t *testing.T) {
	ti := NewTextInput("Quiz Scores", "", true, 0)
	ti.Focus()
	for _, r := range "8a5.x5" {
		ti, _ = ti.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if ti.Value() != "85.5" {
		t.Errorf("value = %q, want %q", ti.Value(), "85.5")
	}
}

func TestTextInputFreeText(t *testing.T) {
	ti := NewTextInput("Topic", "", false, 0)
	ti.Focus()
	for _, r := range "a b" {
		ti, _ = ti.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if ti.Value() != "a b" {
		t.Errorf("value = %q, want %q", ti.Value(), "a b")
	}
}

func TestPastRow(t *testing.T) {
	id := api.Text("42")
	p := api.PastPrediction{
		ID: &id, QuizScores: 85.5, TimeSpent: 3, CorrectAnswers: 17, TopicsCompleted: 4,
		ProficiencyLevel: "Intermediate", Roadmap: "Review loops and recursion",
	}
	got := PastRow(p, 0, 10)
	want := []string{"42", "85.5", "3", "17", "4", "Intermediate", "Review lo…"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("PastRow = %v, want %v", got, want)
	}

	if got := PastRow(api.PastPrediction{}, 2, 0)[0]; got != "#3" {
		t.Errorf("fallback id = %q, want #3", got)
	}
}

func TestPastTableView(t *testing.T) {
	if got := (PastTable{}).View(80); !strings.Contains(got, "No past predictions") {
		t.Errorf("empty table = %q", got)
	}

	rows := make([]api.PastPrediction, 5)
	for i := range rows {
		rows[i].ProficiencyLevel = api.Text("Level" + FormatNumber(float64(i)))
	}
	view := PastTable{Rows: rows, Selected: -1, Offset: 1, MaxRows: 2}.View(100)
	if !strings.Contains(view, "Level1") || !strings.Contains(view, "Level2") {
		t.Errorf("expected rows 1 and 2 in view: %q", view)
	}
	if strings.Contains(view, "Level0") || strings.Contains(view, "Level3") {
		t.Errorf("unexpected rows outside window: %q", view)
	}
	if !strings.Contains(view, "rows 2-3 of 5") {
		t.Errorf("missing window hint: %q", view)
	}
}
