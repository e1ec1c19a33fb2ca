package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassifyWrite(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantValid bool
		wantDup   bool
	}{
		{"gorm duplicate", gorm.ErrDuplicatedKey, true, true},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true, true},
		{"pg not null", &pgconn.PgError{Code: "23502"}, true, false},
		{"sqlite unique", errors.New("UNIQUE constraint failed: author.name"), true, true},
		{"sqlite not null", errors.New("NOT NULL constraint failed: book.title"), true, false},
		{"wrapped pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true, true},
		{"pg other", &pgconn.PgError{Code: "57P01"}, false, false},
		{"cancelled", context.Canceled, false, false},
		{"connection", errors.New("dial tcp: connection refused"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyWrite("author", "name", "Tolkien", tc.err)
			if IsValidation(got) != tc.wantValid {
				t.Fatalf("IsValidation: want=%v got=%v (%v)", tc.wantValid, !tc.wantValid, got)
			}
			if IsDuplicate(got) != tc.wantDup {
				t.Fatalf("IsDuplicate: want=%v (%v)", tc.wantDup, got)
			}
			if !tc.wantValid && got != tc.err {
				t.Fatalf("non-validation errors must pass through unchanged")
			}
		})
	}
}

func TestClassifyWriteKeepsExistingValidation(t *testing.T) {
	ve := Invalid("book", "title", "abc", "too short")
	if got := ClassifyWrite("book", "title", "abc", fmt.Errorf("hook: %w", ve)); got != ve {
		t.Fatalf("expected the original ValidationError, got %v", got)
	}
	if ClassifyWrite("book", "title", "abc", nil) != nil {
		t.Fatalf("nil in, nil out")
	}
	if !errors.Is(ve, ErrRejected) {
		t.Fatalf("field rule violations should wrap ErrRejected")
	}
}
