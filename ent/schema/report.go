package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Result is one graded question as stored in Report.results.
type Result struct {
	Index           int    `json:"index"`
	Question        string `json:"question"`
	AnswerGiven     string `json:"answer_given"`
	Status          string `json:"status"`
	Score           int    `json:"score"`
	ReferenceAnswer string `json:"reference_answer"`
}

// Report is a finished, graded interview.
type Report struct {
	ent.Schema
}

func (Report) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Report) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Unique().
			Immutable(),
		field.String("category"),
		field.String("locale").
			Default(""),
		field.String("model").
			Default(""),
		field.Int("question_count"),
		field.Int("score"),
		field.Int("max_score"),
		field.Int64("duration_ms"),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("ended_at").
			Optional().
			Nillable(),
		field.JSON("results", []Result{}),
	}
}

func (Report) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("category"),
	}
}
