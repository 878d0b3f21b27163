package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"llm_request_events", "reports", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.ReportRepo().SaveReport(ctx, ReportData{SessionID: "s-1", Category: "Go", QuestionCount: 1, MaxScore: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	reports, err := s.ReportRepo().ListReports(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEventsAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "interview-open", SessionID: "s-1", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true, RequestBody: "[user]\nhello", ResponseBody: "What is TCP?"},
		{Provider: "mock", Model: "mock", Purpose: "interview-answer", SessionID: "s-1", InputTokens: 20, OutputTokens: 5, LatencyMs: 300, Success: true},
		{Provider: "mock", Model: "gpt-4o-mini", Purpose: "interview-grade", SessionID: "s-2", InputTokens: 30, OutputTokens: 15, LatencyMs: 200, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("events = %d, want 3", len(all))
	}
	if all[0].Purpose != "interview-grade" {
		t.Errorf("newest purpose = %q, want interview-grade", all[0].Purpose)
	}
	if all[0].Success {
		t.Error("expected failed event to be stored as unsuccessful")
	}

	bySession, err := repo.QueryLLMEvents(ctx, QueryOpts{SessionID: "s-1", Limit: 10})
	if err != nil {
		t.Fatalf("query by session: %v", err)
	}
	if len(bySession) != 2 {
		t.Errorf("session events = %d, want 2", len(bySession))
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "interview-open"})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(limited) != 1 || limited[0].ResponseBody != "What is TCP?" {
		t.Fatalf("unexpected purpose query result: %+v", limited)
	}

	got, err := repo.GetLLMEvent(ctx, limited[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\nhello" {
		t.Fatalf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "interview-answer",
			InputTokens: 10, OutputTokens: 2, LatencyMs: 100, Success: true,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o", Purpose: "interview-grade",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 400, Success: true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	first := byPurpose[0]
	if first.Purpose != "interview-answer" || first.Calls != 3 || first.InputTokens != 30 || first.OutputTokens != 6 {
		t.Errorf("unexpected first stat: %+v", first)
	}
	if first.AvgLatencyMs != 100 {
		t.Errorf("avg latency = %d, want 100", first.AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "gpt-4o" {
		t.Errorf("unexpected model stats: %+v", byModel)
	}
}

func TestReportSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	results := json.RawMessage(`[{"index":1,"status":"correct","score":4}]`)

	id, err := repo.SaveReport(ctx, ReportData{
		SessionID:     "s-42",
		Category:      "Networking",
		Locale:        "en",
		Model:         "mock",
		QuestionCount: 2,
		Score:         6,
		MaxScore:      10,
		DurationMs:    95_000,
		StartedAt:     start,
		EndedAt:       start.Add(95 * time.Second),
		Results:       results,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want positive", id)
	}

	got, err := repo.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected report")
	}
	if got.Category != "Networking" || got.Score != 6 || got.MaxScore != 10 {
		t.Errorf("unexpected report: %+v", got.ReportData)
	}
	if got.DurationMs != 95_000 {
		t.Errorf("duration = %d, want 95000", got.DurationMs)
	}
	if !got.StartedAt.Equal(start) {
		t.Errorf("started_at = %v, want %v", got.StartedAt, start)
	}
	if string(got.Results) != string(results) {
		t.Errorf("results = %s, want %s", got.Results, results)
	}

	missing, err := repo.GetReport(ctx, id+100)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing report")
	}
}

func TestReportListFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReportRepo()
	ctx := context.Background()

	for i, cat := range []string{"Go", "Networking", "Go"} {
		_, err := repo.SaveReport(ctx, ReportData{
			SessionID:     "s-" + string(rune('a'+i)),
			Category:      cat,
			QuestionCount: 1,
			MaxScore:      5,
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := repo.ListReports(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("reports = %d, want 3", len(all))
	}
	if all[0].SessionID != "s-c" {
		t.Errorf("newest session = %q, want s-c", all[0].SessionID)
	}
	if string(all[0].Results) != "[]" {
		t.Errorf("empty results stored as %q, want []", all[0].Results)
	}

	goOnly, err := repo.ListReports(ctx, QueryOpts{Category: "Go"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(goOnly) != 2 {
		t.Errorf("go reports = %d, want 2", len(goOnly))
	}

	_, err = repo.SaveReport(ctx, ReportData{SessionID: "s-a", Category: "Go"})
	if err == nil {
		t.Fatal("expected duplicate session id to be rejected")
	}
}
