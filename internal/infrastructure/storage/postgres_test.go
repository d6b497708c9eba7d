package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation code",
			err:  &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("insert source: %w", &pq.Error{Code: "23505"}),
			want: true,
		},
		{
			name: "other pq error",
			err:  &pq.Error{Code: "23503", Message: "foreign key violation"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestSchemaEmbedded(t *testing.T) {
	t.Parallel()

	for _, table := range []string{"source_origin", "stock", "source", "stocks_source"} {
		assert.Contains(t, schemaSQL, table)
	}
}
