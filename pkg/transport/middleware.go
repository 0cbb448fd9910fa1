package transport

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/stats-api/pkg/engine"
	"github.com/raywall/stats-api/pkg/metrics"
	"github.com/raywall/stats-api/pkg/responder"
	"github.com/rs/zerolog"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type ctxKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição.
const ContextKeyCorrID ctxKey = "correlation_id"

// CorrelationID devolve o id da requisição corrente, se houver.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCorrID).(string)
	return id
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, strconv.FormatInt(duration.Milliseconds(), 10))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware atribui o correlation id, aplica o timeout do
// serviço, mede a latência e registra log e métricas de cada requisição.
func ObservabilityMiddleware(svc *engine.ServiceEngine) mux.MiddlewareFunc {
	timeout := svc.Config.Service.GetTimeout()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, corrID)

			logger := svc.Logger.With().Str("correlation_id", corrID).Logger()
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			ctx = logger.WithContext(ctx)
			ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

			wrapper := &responseWriterWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				startTime:      start,
			}

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			latency := time.Since(start).Milliseconds()
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", wrapper.statusCode).
				Int64("latency_ms", latency).
				Msg("request completed")

			tags := []string{
				"route:" + routeTemplate(r),
				"method:" + r.Method,
				"status:" + strconv.Itoa(wrapper.statusCode),
			}
			svc.Record(metrics.RequestCount, 1, tags...)
			svc.Record(metrics.RequestLatency, float64(latency), tags...)
		})
	}
}

// RecoveryMiddleware converte panics em 500 com o envelope padrão.
func RecoveryMiddleware(svc *engine.ServiceEngine) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				zerolog.Ctx(r.Context()).Error().
					Str("panic", fmt.Sprint(rec)).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("query", r.URL.RawQuery).
					Bytes("stack", debug.Stack()).
					Msg("Panic recuperado durante a requisição")
				svc.Record(metrics.RequestPanic, 1, "route:"+routeTemplate(r))

				if rw, ok := w.(*responseWriterWrapper); ok && rw.wroteHeader {
					return
				}
				responder.WriteJSON(w, http.StatusInternalServerError, responder.InternalBody{Error: responder.MsgInternal})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
