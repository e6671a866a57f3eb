package repository

import (
	"strings"
	"testing"
)

func TestBuildLikeConditionByDialectSQLite(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"developer_name", " ", "li.client_name"})
	if argCount != 2 {
		t.Fatalf("arg count want 2 got %d", argCount)
	}
	want := `developer_name LIKE ? ESCAPE '\' OR li.client_name LIKE ? ESCAPE '\'`
	if condition != want {
		t.Fatalf("sqlite condition mismatch, want %s got %s", want, condition)
	}
}

func TestBuildLikeConditionByDialectPostgres(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("postgres", []string{"name"})
	if argCount != 1 || !strings.HasPrefix(condition, "name ILIKE ?") {
		t.Fatalf("postgres condition mismatch: %s (%d)", condition, argCount)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escaped value: %s", got)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%acme%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%acme%" {
			t.Fatalf("args[%d] want %%acme%% got %v", idx, arg)
		}
	}
}
