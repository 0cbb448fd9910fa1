package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
	"github.com/raywall/stats-api/pkg/engine"
)

// LambdaHandler adapta eventos do API Gateway para o mesmo router HTTP.
type LambdaHandler struct {
	svc    *engine.ServiceEngine
	router *mux.Router
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(svc *engine.ServiceEngine) (*LambdaHandler, error) {
	router, err := NewRouter(svc)
	if err != nil {
		return nil, err
	}
	return &LambdaHandler{svc: svc, router: router}, nil
}

// Handle processa a requisição Lambda
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		h.svc.Logger.Error().Err(err).Str("path", req.Path).Msg("Evento API Gateway inválido")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
			Body:       `{"message":"Invalid request"}`,
		}, nil
	}

	rec := newBufferedWriter()
	h.router.ServeHTTP(rec, httpReq)

	headers := make(map[string]string, len(rec.header))
	multi := make(map[string][]string, len(rec.header))
	for k, v := range rec.header {
		if len(v) == 0 {
			continue
		}
		headers[strings.ToLower(k)] = v[0]
		multi[strings.ToLower(k)] = v
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        rec.status,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              rec.body.String(),
	}, nil
}

func toHTTPRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("corpo base64 inválido: %w", err)
		}
		body = decoded
	}

	q := url.Values{}
	for k, vals := range req.MultiValueQueryStringParameters {
		for _, v := range vals {
			q.Add(k, v)
		}
	}
	for k, v := range req.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}

	method := req.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}
	u := &url.URL{Path: req.Path, RawQuery: q.Encode()}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vals := range req.MultiValueHeaders {
		httpReq.Header.Del(k)
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	return httpReq, nil
}

// bufferedWriter acumula a resposta do router para devolvê-la ao API Gateway.
type bufferedWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: http.Header{}, status: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) {
	if b.wrote {
		return
	}
	b.status = code
	b.wrote = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if !b.wrote {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}
