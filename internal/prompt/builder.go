// Package prompt builds the fixed-shape instructions sent to the
// text-generation service on each interview turn. Every function is a pure
// string transform; whitespace and ordering are part of the contract
// because the grading reply mirrors the structure back.
package prompt

import (
	"fmt"
	"strings"
)

// Pair is one asked question and the answer recorded for it.
type Pair struct {
	Question string
	Answer   string
}

// Builder produces prompts for one locale.
type Builder struct {
	locale Locale
	p      phrases
}

// New returns a Builder for locale. Unknown locales fall back to English.
func New(locale Locale) *Builder {
	p, ok := tables[locale]
	if !ok {
		locale = English
		p = tables[English]
	}
	return &Builder{locale: locale, p: p}
}

// Locale returns the locale the builder writes in.
func (b *Builder) Locale() Locale { return b.locale }

// Opening returns the prompt that starts an interview on category.
func (b *Builder) Opening(category string) string {
	lines := make([]string, len(b.p.opening))
	copy(lines, b.p.opening)
	lines[0] = fmt.Sprintf(lines[0], strings.TrimSpace(category))
	return strings.Join(lines, "\n")
}

// Continuation asks for another question. The chat history carries all
// the context.
func (b *Builder) Continuation() string {
	return b.p.continuation
}

// Answer prefixes the candidate's answer with the answer marker.
func (b *Builder) Answer(text string) string {
	return b.p.answerMarker + text
}

// Marker returns the answer prefix.
func (b *Builder) Marker() string {
	return b.p.answerMarker
}

// Fallback is the answer recorded when the deadline expires.
func (b *Builder) Fallback() string {
	return b.p.fallback
}

// Evaluation lays out the transcript as "Question N: <question>\n<answer>"
// blocks separated by blank lines, followed by the grading instruction.
func (b *Builder) Evaluation(pairs []Pair) string {
	blocks := make([]string, len(pairs))
	for i, pair := range pairs {
		blocks[i] = fmt.Sprintf("%s %d: %s\n%s", b.p.questionLabel, i+1, pair.Question, pair.Answer)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(b.p.evaluation, "\n"))
	return sb.String()
}
