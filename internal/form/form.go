// Package form holds the raw learner-activity input and turns it into a
// backend request.
package form

import (
	"fmt"

	"github.com/abhisek/learntrack/internal/api"
)

// DefaultUserID is the sentinel user_id used when none is configured.
const DefaultUserID = "default_user"

// Field names one input of the form. Values match the request JSON keys.
type Field string

const (
	FieldQuizScores      Field = "quiz_scores"
	FieldTimeSpent       Field = "time_spent"
	FieldCorrectAnswers  Field = "correct_answers"
	FieldTopicsCompleted Field = "topics_completed"
	FieldTopic           Field = "topic"
	FieldUserPerformance Field = "user_performance"
	FieldUserID          Field = "user_id"
)

// FieldInfo describes how a field is presented.
type FieldInfo struct {
	Field       Field
	Label       string
	Placeholder string
	Numeric     bool
}

// fields is the display order of the form.
var fields = []FieldInfo{
	{FieldQuizScores, "Quiz Scores", "Enter quiz score", true},
	{FieldTimeSpent, "Time Spent (hrs)", "Enter time spent on learning", true},
	{FieldCorrectAnswers, "Correct Answers", "Enter number of correct answers", true},
	{FieldTopicsCompleted, "Topics Completed", "Enter topics completed", true},
	{FieldTopic, "Topic", "Enter the topic you studied", false},
	{FieldUserPerformance, "User Performance", "e.g. 70,80,90", false},
	{FieldUserID, "User ID", "Enter your user id", false},
}

// Fields returns every field in display order.
func Fields() []FieldInfo {
	out := make([]FieldInfo, len(fields))
	copy(out, fields)
	return out
}

// UnknownFieldError is returned by Set for a name that is not a form field.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown form field %q", e.Name)
}

// Input is the form state: one raw string per field, exactly as typed.
type Input struct {
	QuizScores      string
	TimeSpent       string
	CorrectAnswers  string
	TopicsCompleted string
	Topic           string
	UserPerformance string
	UserID          string
}

// New returns an empty form with user_id set to userID, or to
// DefaultUserID when userID is empty.
func New(userID string) Input {
	if userID == "" {
		userID = DefaultUserID
	}
	return Input{UserID: userID}
}

func (in *Input) ref(f Field) *string {
	switch f {
	case FieldQuizScores:
		return &in.QuizScores
	case FieldTimeSpent:
		return &in.TimeSpent
	case FieldCorrectAnswers:
		return &in.CorrectAnswers
	case FieldTopicsCompleted:
		return &in.TopicsCompleted
	case FieldTopic:
		return &in.Topic
	case FieldUserPerformance:
		return &in.UserPerformance
	case FieldUserID:
		return &in.UserID
	}
	return nil
}

// Set replaces the raw value of the named field. The value is not validated.
func (in *Input) Set(name string, value string) error {
	p := in.ref(Field(name))
	if p == nil {
		return &UnknownFieldError{Name: name}
	}
	*p = value
	return nil
}

// Get returns the raw value of a field, "" for unknown fields.
func (in Input) Get(f Field) string {
	if p := in.ref(f); p != nil {
		return *p
	}
	return ""
}

// Request coerces the form into the payload posted to the backend.
func (in Input) Request() api.PredictionRequest {
	return api.PredictionRequest{
		QuizScores:      ParseNumber(in.QuizScores),
		TimeSpent:       ParseNumber(in.TimeSpent),
		CorrectAnswers:  ParseNumber(in.CorrectAnswers),
		TopicsCompleted: ParseNumber(in.TopicsCompleted),
		Topic:           in.Topic,
		UserPerformance: ParsePerformance(in.UserPerformance),
		UserID:          in.UserID,
	}
}
