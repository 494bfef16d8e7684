package cleanup

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// --- мок Executor ---

type mockResult struct {
	rows    int64
	rowsErr error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }
func (m mockResult) RowsAffected() (int64, error) { return m.rows, m.rowsErr }

type mockExecutor struct {
	query   string
	args    []interface{}
	result  sql.Result
	execErr error
}

func (m *mockExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	m.query = query
	m.args = args
	if m.execErr != nil {
		return nil, m.execErr
	}
	return m.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestCleanupJobRun(t *testing.T) {
	exec := &mockExecutor{result: mockResult{rows: 3}}
	job := NewCleanupJob(exec, testLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(exec.query, "is_approved = FALSE") {
		t.Errorf("запрос %q: удаляются только неодобренные отзывы", exec.query)
	}
	if len(exec.args) != 1 || exec.args[0] != "90 days" {
		t.Errorf("args = %v, want [90 days]", exec.args)
	}
}

func TestCleanupJobCustomRetention(t *testing.T) {
	exec := &mockExecutor{result: mockResult{rows: 0}}
	job := NewCleanupJob(exec, testLogger())
	job.RetentionDays = 30

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if exec.args[0] != "30 days" {
		t.Errorf("args = %v, want [30 days]", exec.args)
	}
}

func TestCleanupJobNoCandidates(t *testing.T) {
	exec := &mockExecutor{result: mockResult{rows: 0}}
	job := NewCleanupJob(exec, testLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v: пустой результат не является ошибкой", err)
	}
}

func TestCleanupJobExecError(t *testing.T) {
	exec := &mockExecutor{execErr: errors.New("connection refused")}
	job := NewCleanupJob(exec, testLogger())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error")
	}
}

func TestCleanupJobRowsAffectedError(t *testing.T) {
	exec := &mockExecutor{result: mockResult{rowsErr: errors.New("not supported")}}
	job := NewCleanupJob(exec, testLogger())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error")
	}
}
