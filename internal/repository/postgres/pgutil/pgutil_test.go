package pgutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"ana":     "%ana%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for input, want := range cases {
		if got := LikePattern(input); got != want {
			t.Fatalf("LikePattern(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "employees_team_fkey"}
	if !IsForeignKeyViolation(fmt.Errorf("insert: %w", fk), "") {
		t.Fatalf("expected wrapped fk violation detected")
	}
	if !IsForeignKeyViolation(fk, "employees_team_fkey") {
		t.Fatalf("expected named constraint to match")
	}
	if IsForeignKeyViolation(fk, "other_fkey") {
		t.Fatalf("expected other constraint not to match")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}, "") {
		t.Fatalf("expected unique violation not to match")
	}
	if IsForeignKeyViolation(errors.New("boom"), "") {
		t.Fatalf("expected plain error not to match")
	}
}
