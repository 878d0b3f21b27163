package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/interviewz/internal/evaluation"
	"github.com/abhisek/interviewz/internal/store"
)

// ToRecord converts a report for persistence.
func ToRecord(r *Report) (store.ReportData, error) {
	results, err := json.Marshal(r.Results)
	if err != nil {
		return store.ReportData{}, fmt.Errorf("encode results: %w", err)
	}
	return store.ReportData{
		SessionID:     r.SessionID,
		Category:      r.Category,
		Locale:        r.Locale,
		Model:         r.Model,
		QuestionCount: len(r.Results),
		Score:         r.Score,
		MaxScore:      r.MaxScore,
		DurationMs:    r.DurationMs,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		Results:       results,
	}, nil
}

// FromRecord rebuilds a report from a stored row.
func FromRecord(rec store.ReportRecord) (*Report, error) {
	var results []evaluation.Line
	if len(rec.Results) > 0 {
		if err := json.Unmarshal(rec.Results, &results); err != nil {
			return nil, fmt.Errorf("decode results of report %d: %w", rec.ID, err)
		}
	}
	return &Report{
		SessionID:  rec.SessionID,
		Category:   rec.Category,
		Locale:     rec.Locale,
		Model:      rec.Model,
		Results:    results,
		DurationMs: rec.DurationMs,
		Score:      rec.Score,
		MaxScore:   rec.MaxScore,
		StartedAt:  rec.StartedAt,
		EndedAt:    rec.EndedAt,
	}, nil
}

// Save persists r and returns the stored ID.
func Save(ctx context.Context, repo store.ReportRepo, r *Report) (int, error) {
	data, err := ToRecord(r)
	if err != nil {
		return 0, err
	}
	return repo.SaveReport(ctx, data)
}

// Load fetches a stored report by ID. It returns (nil, nil) when the
// report does not exist.
func Load(ctx context.Context, repo store.ReportRepo, id int) (*Report, error) {
	rec, err := repo.GetReport(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return FromRecord(*rec)
}
