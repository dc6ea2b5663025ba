package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_shops_name"}

	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "unrelated error", err: errors.New("connection reset"), want: false},
		{name: "postgres message", err: errors.New(`duplicate key value violates unique constraint "ux_shops_name"`), want: true},
		{name: "postgres message with constraint", err: errors.New(`duplicate key value violates unique constraint "ux_shops_name"`), constraint: "ux_shops_name", want: true},
		{name: "postgres message wrong constraint", err: errors.New(`duplicate key value violates unique constraint "ux_shops_name"`), constraint: "ux_categories_name", want: false},
		{name: "pg error code", err: pgErr, want: true},
		{name: "pg error code with constraint", err: pgErr, constraint: "ux_shops_name", want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: shops.name"), want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !IsNotFound(gorm.ErrRecordNotFound) {
		t.Fatal("expected record-not-found sentinel to match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("did not expect unrelated error to match")
	}
}
