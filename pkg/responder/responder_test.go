package responder

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/engine"
	"github.com/raywall/stats-api/pkg/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		body     interface{}
		internal bool
	}{
		{
			name:   "Nao encontrado",
			err:    fmt.Errorf("lookup: %w", creature.ErrNotFound),
			status: http.StatusNotFound,
			body:   ErrorBody{Message: "Pokemon not found"},
		},
		{
			name:   "Id invalido",
			err:    fmt.Errorf("%w: %q", engine.ErrInvalidID, "abc"),
			status: http.StatusBadRequest,
			body:   ErrorBody{Message: "Invalid ID"},
		},
		{
			name:   "Parametro invalido",
			err:    &query.ParamError{Param: "hp_min", Value: "abc"},
			status: http.StatusBadRequest,
			body:   ErrorBody{Message: `invalid value "abc" for parameter "hp_min"`, Param: "hp_min"},
		},
		{
			name:     "Inesperado",
			err:      errors.New("disk on fire"),
			status:   http.StatusInternalServerError,
			body:     InternalBody{Error: "Internal Server Error"},
			internal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, internal := MapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
			assert.Equal(t, tt.internal, internal)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]int{"count": 1})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	t.Run("Falha de serializacao vira 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSON(rec, http.StatusOK, map[string]float64{"ratio": math.Inf(1)})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	})
}

func TestWriteError_LogsInternal(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	req := httptest.NewRequest(http.MethodGet, "/pokemon?x=1", nil)

	rec := httptest.NewRecorder()
	WriteError(rec, req, log, creature.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, buf.Len(), "404 não é logado como erro")

	rec = httptest.NewRecorder()
	WriteError(rec, req, log, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "/pokemon")
}
