package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const callColumns = `id, timestamp, submission_id, endpoint, method, status_code,
	latency_ms, success, error_message, request_body, response_body`

// callRepo implements CallRepo with raw SQL.
type callRepo struct {
	db *sql.DB
}

func (r *callRepo) Append(ctx context.Context, rec CallRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_calls (timestamp, submission_id, endpoint, method, status_code,
			latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC(), rec.SubmissionID, rec.Endpoint, rec.Method, rec.StatusCode,
		rec.LatencyMs, rec.Success, rec.ErrorMessage, rec.RequestBody, rec.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("append call: %w", err)
	}
	return nil
}

func (r *callRepo) Query(ctx context.Context, opts QueryOpts) ([]CallRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Endpoint != "" {
		where = append(where, "endpoint = ?")
		args = append(args, opts.Endpoint)
	}
	if opts.SubmissionID != "" {
		where = append(where, "submission_id = ?")
		args = append(args, opts.SubmissionID)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UTC())
	}

	q := "SELECT " + callColumns + " FROM api_calls"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		rec, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return out, nil
}

func (r *callRepo) Get(ctx context.Context, id int) (*CallRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+callColumns+" FROM api_calls WHERE id = ?", id)
	rec, err := scanCall(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCall(s scanner) (*CallRecord, error) {
	var rec CallRecord
	err := s.Scan(&rec.ID, &rec.Timestamp, &rec.SubmissionID, &rec.Endpoint, &rec.Method,
		&rec.StatusCode, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
		&rec.RequestBody, &rec.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan call: %w", err)
	}
	return &rec, nil
}
