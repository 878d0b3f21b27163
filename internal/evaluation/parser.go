package evaluation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/interviewz/internal/prompt"
)

// Leading list markers such as "-", "*" or "1.".
var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

// Field labels the service echoes from the instruction. Only a whole field
// matching one of them is dropped.
var (
	scoreLabels     = []string{"note", "score", "grade"}
	referenceLabels = []string{"réponse correcte", "reponse correcte", "correct answer", "reference answer"}
)

var statusTokens = map[string]Status{
	"correct":    StatusCorrect,
	"correcte":   StatusCorrect,
	"incorrect":  StatusIncorrect,
	"incorrecte": StatusIncorrect,
}

// Parse decomposes reply into exactly one Line per question. questions and
// answers must be index-aligned. Blank lines in the reply are ignored.
//
// Each verdict line is either "status : score : reference" or carries a
// leading label, "Answer N : status : score : reference". A "note" field
// may precede the score and a "réponse correcte" field the reference.
// The reference answer is kept verbatim, colons included.
func Parse(reply string, questions, answers []string) ([]Line, error) {
	if len(answers) != len(questions) {
		return nil, &MalformedError{
			Reason: fmt.Sprintf("transcript has %d questions but %d answers", len(questions), len(answers)),
		}
	}

	var verdicts []string
	for _, l := range strings.Split(reply, "\n") {
		if strings.TrimSpace(l) != "" {
			verdicts = append(verdicts, l)
		}
	}
	if len(verdicts) != len(questions) {
		return nil, &MalformedError{
			Reason: fmt.Sprintf("expected %d verdict lines, got %d", len(questions), len(verdicts)),
		}
	}

	lines := make([]Line, len(verdicts))
	for i, raw := range verdicts {
		status, score, ref, reason := parseVerdict(raw)
		if reason != "" {
			return nil, &MalformedError{Line: i + 1, Text: strings.TrimSpace(raw), Reason: reason}
		}
		lines[i] = Line{
			Index:           i + 1,
			Question:        strings.TrimSpace(questions[i]),
			AnswerGiven:     CleanAnswer(answers[i]),
			Status:          status,
			Score:           score,
			ReferenceAnswer: ref,
		}
	}
	return lines, nil
}

// parseVerdict returns a non-empty reason when raw does not fit the grammar.
func parseVerdict(raw string) (Status, int, string, string) {
	parts := strings.Split(bulletRe.ReplaceAllString(raw, ""), ":")
	field := func(i int) string { return strings.TrimSpace(parts[i]) }

	at := 0
	if _, ok := normalizeStatus(field(0)); !ok {
		if len(parts) < 4 {
			return "", 0, "", fmt.Sprintf("expected at least 4 fields, got %d", len(parts))
		}
		at = 1
	}
	if len(parts) < at+3 {
		return "", 0, "", fmt.Sprintf("expected at least 3 fields, got %d", len(parts))
	}

	status, ok := normalizeStatus(field(at))
	if !ok {
		return "", 0, "", fmt.Sprintf("unknown status %q", field(at))
	}

	i := at + 1
	if isLabel(field(i), scoreLabels) && len(parts) > i+2 {
		i++
	}
	score, err := strconv.Atoi(strings.Trim(field(i), "*_ "))
	if err != nil {
		return "", 0, "", fmt.Sprintf("score %q is not an integer", field(i))
	}
	if score < 0 || score > MaxScore {
		return "", 0, "", fmt.Sprintf("score %d out of range [0,%d]", score, MaxScore)
	}

	if isLabel(field(i+1), referenceLabels) && len(parts) > i+2 {
		i++
	}
	ref := strings.TrimSpace(strings.Join(parts[i+1:], ":"))
	if ref == "" {
		return "", 0, "", "missing reference answer"
	}
	return status, score, ref, ""
}

func isLabel(s string, labels []string) bool {
	s = strings.Join(strings.Fields(strings.Trim(s, " *_")), " ")
	for _, l := range labels {
		if strings.EqualFold(s, l) {
			return true
		}
	}
	return false
}

func normalizeStatus(s string) (Status, bool) {
	st, ok := statusTokens[strings.ToLower(strings.Trim(s, " *_.'\""))]
	return st, ok
}

// CleanAnswer removes a leading answer marker and collapses embedded
// newlines and tabs so the answer prints on one line.
func CleanAnswer(s string) string {
	s = strings.TrimSpace(s)
	for _, m := range prompt.AnswerMarkers() {
		m = strings.TrimSpace(m)
		if len(s) >= len(m) && strings.EqualFold(s[:len(m)], m) {
			s = s[len(m):]
			break
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
