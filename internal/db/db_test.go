package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeExecer struct {
	statements []string
	failAt     int
}

func (f *fakeExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if f.failAt > 0 && len(f.statements)+1 == f.failAt {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	f.statements = append(f.statements, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestMigrate_RunsEveryStatementInOrder(t *testing.T) {
	exec := &fakeExecer{}
	if err := Migrate(context.Background(), exec); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(exec.statements) != len(schemaStatements) {
		t.Fatalf("expected %d statements, got %d", len(schemaStatements), len(exec.statements))
	}
	if !strings.Contains(exec.statements[0], "CREATE TABLE IF NOT EXISTS users") {
		t.Fatalf("expected users table first, got %q", exec.statements[0])
	}
	for _, stmt := range exec.statements {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Fatalf("expected idempotent statement, got %q", stmt)
		}
	}
}

func TestMigrate_WrapsStatementError(t *testing.T) {
	exec := &fakeExecer{failAt: 3}
	err := Migrate(context.Background(), exec)
	if err == nil || !strings.Contains(err.Error(), "migrate statement 2") {
		t.Fatalf("expected wrapped statement error, got %v", err)
	}
}
