package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"coffeemachine/pkg/fault"
	"coffeemachine/pkg/journal"
	"coffeemachine/pkg/machine"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

// Machine is what the API needs from machine.Service.
type Machine interface {
	Buy(ctx context.Context, r recipe.Recipe) (machine.Outcome, error)
	Fill(ctx context.Context, add supply.Levels) (machine.Status, error)
	Take(ctx context.Context) (int, error)
	Clean(ctx context.Context) error
	Remaining(ctx context.Context) (machine.Status, error)
	MaxCups(ctx context.Context, r recipe.Recipe) (int, error)
	Sales(ctx context.Context) ([]journal.Entry, journal.Summary, error)
}

const requestTimeout = 3 * time.Second

// Server wires JSON endpoints to the machine service.
type Server struct {
	machine Machine
	catalog *recipe.Catalog
	metrics http.Handler
	logger  *zap.Logger
}

// New builds the server. metricsHandler may be nil to skip /metrics.
func New(m Machine, catalog *recipe.Catalog, metricsHandler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		machine: m,
		catalog: catalog,
		metrics: metricsHandler,
		logger:  logger,
	}
}

// Handler returns the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/buy", s.buy).Methods(http.MethodPost)
	api.HandleFunc("/fill", s.fill).Methods(http.MethodPost)
	api.HandleFunc("/take", s.take).Methods(http.MethodPost)
	api.HandleFunc("/clean", s.clean).Methods(http.MethodPost)
	api.HandleFunc("/remaining", s.remaining).Methods(http.MethodGet)
	api.HandleFunc("/recipes", s.recipes).Methods(http.MethodGet)
	api.HandleFunc("/sales", s.sales).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}
	return r
}

type buyRequest struct {
	Recipe string `json:"recipe"`
}

type outcomeResponse struct {
	Outcome string        `json:"outcome"`
	Recipe  recipe.Recipe `json:"recipe"`
	Missing string        `json:"missing,omitempty"`
	Message string        `json:"message"`
}

// buy resolves the selector and runs one sale attempt.
func (s *Server) buy(w http.ResponseWriter, r *http.Request) {
	var payload buyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.Info("buy rejected: unable to decode payload", zap.Error(err))
		s.respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	rec, err := s.catalog.Lookup(payload.Recipe)
	if err != nil {
		s.respondFailure(w, "buy", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	out, err := s.machine.Buy(ctx, rec)
	if err != nil {
		s.respondFailure(w, "buy", err)
		return
	}

	resp := outcomeResponse{Outcome: out.Kind.String(), Recipe: out.Recipe}
	switch out.Kind {
	case machine.Sold:
		resp.Message = "I have enough resources, making you a coffee!"
	case machine.Rejected:
		resp.Missing = out.Missing.String()
		resp.Message = "Sorry, not enough " + resp.Missing + "!"
	case machine.NeedsCleaning:
		resp.Message = "I need cleaning!"
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// fill adds stock; negative amounts come back as 400.
func (s *Server) fill(w http.ResponseWriter, r *http.Request) {
	var payload supply.Levels
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.Info("fill rejected: unable to decode payload", zap.Error(err))
		s.respondError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	st, err := s.machine.Fill(ctx, payload)
	if err != nil {
		s.respondFailure(w, "fill", err)
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) take(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	amount, err := s.machine.Take(ctx)
	if err != nil {
		s.respondFailure(w, "take", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int{"amount": amount})
}

func (s *Server) clean(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := s.machine.Clean(ctx); err != nil {
		s.respondFailure(w, "clean", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) remaining(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	st, err := s.machine.Remaining(ctx)
	if err != nil {
		s.respondFailure(w, "remaining", err)
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

type recipeResponse struct {
	Code    string        `json:"code"`
	Recipe  recipe.Recipe `json:"recipe"`
	MaxCups int           `json:"max_cups"`
}

// recipes lists the catalog with how many of each drink the stock allows.
func (s *Server) recipes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries := s.catalog.List()
	resp := make([]recipeResponse, 0, len(entries))
	for _, e := range entries {
		n, err := s.machine.MaxCups(ctx, e.Recipe)
		if err != nil {
			s.respondFailure(w, "recipes", err)
			return
		}
		resp = append(resp, recipeResponse{Code: e.Selector.Code(), Recipe: e.Recipe, MaxCups: n})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type salesResponse struct {
	Summary journal.Summary `json:"summary"`
	Entries []journal.Entry `json:"entries"`
}

func (s *Server) sales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entries, summary, err := s.machine.Sales(ctx)
	if err != nil {
		s.respondFailure(w, "sales", err)
		return
	}
	s.respondJSON(w, http.StatusOK, salesResponse{Summary: summary, Entries: entries})
}

// respondFailure maps engine errors onto HTTP statuses.
func (s *Server) respondFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case fault.IsInvalidArgument(err), fault.IsUnknownSelector(err):
		s.logger.Info(op+" rejected", zap.Error(err))
		s.respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, machine.ErrBusy), errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn(op+" timed out", zap.Error(err))
		s.respondError(w, err.Error()+"; the request may still have been applied", http.StatusServiceUnavailable)
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("response encoding failed", zap.Error(err))
	}
}

// respondError keeps JSON formatting consistent across endpoints.
func (s *Server) respondError(w http.ResponseWriter, message string, status int) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
