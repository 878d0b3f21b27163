package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/interviewz/internal/evaluation"
	"github.com/abhisek/interviewz/internal/report"
	"github.com/abhisek/interviewz/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedReport(t *testing.T, dbPath string) int {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := report.Build("Networking", []evaluation.Line{
		{Index: 1, Question: "What is TCP?", AnswerGiven: "A protocol.", Status: evaluation.StatusCorrect, Score: 4, ReferenceAnswer: "A reliable transport protocol."},
	}, report.Timer{StartedAt: start, EndedAt: start.Add(40 * time.Second)})
	r.SessionID = "s-1"

	id, err := report.Save(context.Background(), st.ReportRepo(), r)
	require.NoError(t, err)
	return id
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "interviewz (devel)\n", out)
}

func TestCategories(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "interviewz.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("categories: [Kubernetes, Rust]\n"), 0o644))

	out, err := run(t, "categories", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes\nRust\n", out)
}

func TestCategoriesRejectsInvalidConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "interviewz.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("question_limit: 0\n"), 0o644))

	_, err := run(t, "categories", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question_limit")
}

func TestReports(t *testing.T) {
	db := filepath.Join(t.TempDir(), "interviewz.db")
	id := seedReport(t, db)

	out, err := run(t, "reports", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Networking")
	assert.Contains(t, out, "4/5")

	out, err = run(t, "reports", "view", strconv.Itoa(id), "--db", db, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Interview report: Networking")

	dir := t.TempDir()
	out, err = run(t, "reports", "export", strconv.Itoa(id), "--db", db, "--format", "json", "--out", dir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.FileExists(t, path)

	_, err = run(t, "reports", "view", "999", "--db", db, "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLLMListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "interviewz.db")
	out, err := run(t, "llm", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}
