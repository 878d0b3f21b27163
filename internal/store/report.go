package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var reportColumns = []string{
	"id", "sequence", "timestamp", "session_id", "category", "locale", "model",
	"question_count", "score", "max_score", "duration_ms", "started_at", "ended_at",
	"results",
}

type reportRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *reportRepo) SaveReport(ctx context.Context, data ReportData) (int, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	results := string(data.Results)
	if results == "" {
		results = "[]"
	}

	query, args := sqlite().Insert(reportsTable.Name).
		Columns(reportColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.Category, data.Locale, data.Model,
			data.QuestionCount, data.Score, data.MaxScore, data.DurationMs,
			nullTime(data.StartedAt), nullTime(data.EndedAt), results,
		).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report id: %w", err)
	}
	return int(id), nil
}

func (r *reportRepo) ListReports(ctx context.Context, opts QueryOpts) ([]ReportRecord, error) {
	sel := sqlite().Select(reportColumns...).
		From(entsql.Table(reportsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)
	if opts.Category != "" {
		sel.Where(entsql.EQ("category", opts.Category))
	}
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		rec, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *reportRepo) GetReport(ctx context.Context, id int) (*ReportRecord, error) {
	query, args := sqlite().Select(reportColumns...).
		From(entsql.Table(reportsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanReport(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func scanReport(row rowScanner) (*ReportRecord, error) {
	var (
		rec            ReportRecord
		started, ended sql.NullTime
		locale, model  sql.NullString
		results        []byte
	)
	err := row.Scan(
		&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Category, &locale, &model,
		&rec.QuestionCount, &rec.Score, &rec.MaxScore, &rec.DurationMs, &started, &ended,
		&results,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	rec.Locale = locale.String
	rec.Model = model.String
	rec.StartedAt = started.Time
	rec.EndedAt = ended.Time
	rec.Results = results
	return &rec, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
