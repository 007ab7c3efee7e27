package api

import "context"

type contextKey string

const submissionKey contextKey = "submission_id"

// WithSubmission tags the context with the id of the submission a call belongs to.
func WithSubmission(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionKey, id)
}

// SubmissionFrom extracts the submission id from the context, "" when unset.
func SubmissionFrom(ctx context.Context) string {
	if v, ok := ctx.Value(submissionKey).(string); ok {
		return v
	}
	return ""
}
