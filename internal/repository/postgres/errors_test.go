package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "pgconn unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped pgconn unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "lib/pq unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "pgconn other error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
