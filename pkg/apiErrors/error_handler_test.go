package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{name: "Cooldown ativo", code: ErrCooldownActive, expected: http.StatusTooManyRequests},
		{name: "Limite de variação excedido", code: ErrCapExceeded, expected: http.StatusTooManyRequests},
		{name: "Lote malformado", code: ErrBatchMalformed, expected: http.StatusBadRequest},
		{name: "Tipo de orçamento divergente", code: ErrBudgetTypeMismatch, expected: http.StatusBadRequest},
		{name: "Erro da plataforma", code: ErrExternalService, expected: http.StatusBadGateway},
		{name: "Código desconhecido", code: "XYZ_999", expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.code))
		})
	}
}

func TestWriteFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteFailure(rec, ErrBatchMalformed, "o lote precisa de ao menos um ajuste", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, ErrBatchMalformed, body["code"])
	assert.Equal(t, "o lote precisa de ao menos um ajuste", body["message"])
}
