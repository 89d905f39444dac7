package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstraintViolations(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		unique bool
		check  bool
	}{
		{name: "Unique violation", err: &pq.Error{Code: "23505"}, unique: true},
		{name: "Check violation encapsulada", err: fmt.Errorf("erro ao salvar meta: %w", &pq.Error{Code: "23514"}), check: true},
		{name: "Outro erro do banco", err: &pq.Error{Code: "40001"}},
		{name: "Erro sem código", err: errors.New("connection refused")},
		{name: "Sem erro", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.check, IsCheckViolation(tt.err))
		})
	}
}
