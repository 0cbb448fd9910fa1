package responder

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raywall/stats-api/pkg/creature"
	"github.com/raywall/stats-api/pkg/engine"
	"github.com/raywall/stats-api/pkg/query"
	"github.com/rs/zerolog"
)

const (
	MsgNotFound  = "Pokemon not found"
	MsgInvalidID = "Invalid ID"
	MsgInternal  = "Internal Server Error"
)

// ErrorBody é o envelope de erros de cliente (4xx).
type ErrorBody struct {
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// InternalBody é o envelope de erros inesperados (5xx).
type InternalBody struct {
	Error string `json:"error"`
}

// MapError traduz um erro em status e corpo. internal indica falha inesperada,
// que deve ser registrada com contexto completo.
func MapError(err error) (status int, body interface{}, internal bool) {
	var pe *query.ParamError
	switch {
	case errors.Is(err, creature.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Message: MsgNotFound}, false
	case errors.Is(err, engine.ErrInvalidID):
		return http.StatusBadRequest, ErrorBody{Message: MsgInvalidID}, false
	case errors.As(err, &pe):
		return http.StatusBadRequest, ErrorBody{Message: pe.Error(), Param: pe.Param}, false
	default:
		return http.StatusInternalServerError, InternalBody{Error: MsgInternal}, true
	}
}

// Marshal serializa o corpo; em caso de falha devolve o envelope 500.
func Marshal(status int, body interface{}) (int, []byte) {
	data, err := json.Marshal(body)
	if err != nil {
		data, _ = json.Marshal(InternalBody{Error: MsgInternal})
		return http.StatusInternalServerError, data
	}
	return status, data
}

// WriteJSON escreve status, Content-Type e corpo.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	status, data := Marshal(status, body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError mapeia o erro e registra as falhas inesperadas.
func WriteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	status, body, internal := MapError(err)
	if internal {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Msg("Erro inesperado ao processar requisição")
	}
	WriteJSON(w, status, body)
}
