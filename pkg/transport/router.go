package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/raywall/stats-api/pkg/config"
	"github.com/raywall/stats-api/pkg/engine"
	"github.com/raywall/stats-api/pkg/graphql"
	"github.com/raywall/stats-api/pkg/query"
	"github.com/raywall/stats-api/pkg/responder"
	"github.com/rs/zerolog"
)

const (
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid JSON Body"
	msgMissingQuery     = "Missing GraphQL query"
)

type handlers struct {
	svc *engine.ServiceEngine
	gql *graphql.GraphQLEngine
}

// NewRouter registra as rotas REST, /health e (opcionalmente) GraphQL.
func NewRouter(svc *engine.ServiceEngine) (*mux.Router, error) {
	h := &handlers{svc: svc}
	route := strings.TrimRight(svc.Config.Service.Route, "/")

	r := mux.NewRouter()
	r.Use(ObservabilityMiddleware(svc), RecoveryMiddleware(svc))

	r.HandleFunc(config.HealthRoute, h.health).Methods(http.MethodGet)

	// GraphQL antes de {identifier}, que capturaria a rota quando service.route é "/"
	if svc.Config.GraphQL.Enabled {
		gql, err := graphql.NewGraphQLEngine(svc)
		if err != nil {
			return nil, err
		}
		h.gql = gql
		svc.Logger.Info().Str("route", svc.Config.GraphQL.Route).Msg("Registrando GraphQL")
		r.HandleFunc(svc.Config.GraphQL.Route, h.graphQL).Methods(http.MethodGet, http.MethodPost)
	}

	listPath := route
	if listPath == "" {
		listPath = "/"
	}
	r.HandleFunc(listPath, h.list).Methods(http.MethodGet)
	// budget-picks precisa vir antes de {identifier}
	r.HandleFunc(route+"/budget-picks", h.budgetPicks).Methods(http.MethodGet)
	r.HandleFunc(route+"/id/{id}", h.byID).Methods(http.MethodGet)
	r.HandleFunc(route+"/name/{name}", h.byName).Methods(http.MethodGet)
	r.HandleFunc(route+"/{identifier}", h.byIdentifier).Methods(http.MethodGet)

	// Os handlers de fallback não passam pelos middlewares do router
	fallback := func(status int, msg string) http.Handler {
		return ObservabilityMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			responder.WriteJSON(w, status, responder.ErrorBody{Message: msg})
		}))
	}
	r.NotFoundHandler = fallback(http.StatusNotFound, msgRouteNotFound)
	r.MethodNotAllowedHandler = fallback(http.StatusMethodNotAllowed, msgMethodNotAllowed)

	return r, nil
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	responder.WriteJSON(w, http.StatusOK, h.svc.Health())
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.List(query.FromURL(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responder.WriteJSON(w, http.StatusOK, res)
}

func (h *handlers) budgetPicks(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.BudgetPicks(query.FromURL(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responder.WriteJSON(w, http.StatusOK, res)
}

func (h *handlers) byIdentifier(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Lookup(mux.Vars(r)["identifier"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responder.WriteJSON(w, http.StatusOK, e)
}

func (h *handlers) byID(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.LookupID(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responder.WriteJSON(w, http.StatusOK, e)
}

func (h *handlers) byName(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.LookupName(mux.Vars(r)["name"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	responder.WriteJSON(w, http.StatusOK, e)
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// graphQL aceita POST com corpo JSON ou GET com ?query=&variables=.
func (h *handlers) graphQL(w http.ResponseWriter, r *http.Request) {
	var p graphqlRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		p.Query = q.Get("query")
		p.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &p.Variables); err != nil {
				responder.WriteJSON(w, http.StatusBadRequest, responder.ErrorBody{Message: msgInvalidBody, Param: "variables"})
				return
			}
		}
	} else {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			responder.WriteJSON(w, http.StatusBadRequest, responder.ErrorBody{Message: msgInvalidBody})
			return
		}
	}
	if strings.TrimSpace(p.Query) == "" {
		responder.WriteJSON(w, http.StatusBadRequest, responder.ErrorBody{Message: msgMissingQuery, Param: "query"})
		return
	}

	result := h.gql.ExecuteOperation(r.Context(), p.Query, p.Variables, p.OperationName)
	responder.WriteJSON(w, http.StatusOK, result)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	responder.WriteError(w, r, *zerolog.Ctx(r.Context()), err)
}
