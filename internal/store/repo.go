package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Purpose   string    // LLM events only
	SessionID string
	Category  string // reports only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates LLM calls grouped by purpose or model.
type LLMUsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsageStat, error)
}

// ReportData is a finished interview report as persisted. Results holds
// the per-question evaluation lines encoded as JSON.
type ReportData struct {
	SessionID     string
	Category      string
	Locale        string
	Model         string
	QuestionCount int
	Score         int
	MaxScore      int
	DurationMs    int64
	StartedAt     time.Time
	EndedAt       time.Time
	Results       json.RawMessage
}

// ReportRecord is a stored report.
type ReportRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ReportData
}

// ReportRepo persists finished interview reports.
type ReportRepo interface {
	// SaveReport stores a report and returns its ID.
	SaveReport(ctx context.Context, data ReportData) (int, error)

	// ListReports returns reports newest first.
	ListReports(ctx context.Context, opts QueryOpts) ([]ReportRecord, error)

	// GetReport returns a single report, or nil if it does not exist.
	GetReport(ctx context.Context, id int) (*ReportRecord, error)
}
