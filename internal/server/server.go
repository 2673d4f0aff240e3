// Package server exposes the working dataset to the dashboard layer as
// a small JSON API: periods, scoped filter options, trend aggregates,
// KPI deltas, and dimensional comparisons.
package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/nrunyard/cma-ma-enrollment/internal/compare"
	"github.com/nrunyard/cma-ma-enrollment/internal/dataset"
)

// Server serves one immutable working dataset.
type Server struct {
	ds     *dataset.WorkingDataset
	engine *compare.Engine
	log    zerolog.Logger
}

// New builds a Server over a loaded dataset.
func New(ds *dataset.WorkingDataset, log zerolog.Logger) *Server {
	return &Server{ds: ds, engine: compare.NewEngine(ds), log: log}
}

// Router returns the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/periods", s.handlePeriods)
		r.Get("/options", s.handleOptions)
		r.Get("/trend", s.handleTrend)
		r.Get("/kpi", s.handleKPI)
		r.Get("/compare", s.handleCompare)
	})
	return r
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	s.respond(w, map[string]any{"periods": s.ds.Periods()})
}

// handleOptions returns filter option lists, each scoped by the filters
// upstream of it: organization narrows states and types; organization,
// state, and type together narrow contracts.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	s.respond(w, map[string]any{
		"organizations":  s.ds.OrganizationOptions(),
		"states":         s.ds.StateOptions(f),
		"contract_types": s.ds.ContractTypeOptions(f),
		"contracts":      s.ds.ContractOptions(f),
	})
}

type trendPoint struct {
	Period     string  `json:"period"`
	Enrollment float64 `json:"enrollment"`
	Rows       int     `json:"rows"`
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	periods := r.URL.Query()["period"]

	include := func(p string) bool { return true }
	if len(periods) > 0 {
		set := make(map[string]bool, len(periods))
		for _, p := range periods {
			set[p] = true
		}
		include = func(p string) bool { return set[p] }
	}

	byPeriod := make(map[string]*trendPoint)
	for _, row := range s.ds.Filter(f) {
		if !include(row.Period) {
			continue
		}
		pt, ok := byPeriod[row.Period]
		if !ok {
			pt = &trendPoint{Period: row.Period}
			byPeriod[row.Period] = pt
		}
		pt.Rows++
		if row.Enrollment != nil {
			pt.Enrollment += *row.Enrollment
		}
	}

	out := make([]trendPoint, 0, len(byPeriod))
	for _, pt := range byPeriod {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	s.respond(w, map[string]any{"trend": out})
}

// handleKPI returns the latest-period total alongside the three derived
// baselines. A baseline not loaded in the dataset is omitted.
func (s *Server) handleKPI(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	current := r.URL.Query().Get("current")
	if current == "" {
		all := s.ds.Periods()
		if len(all) == 0 {
			s.fail(w, http.StatusUnprocessableEntity, "dataset has no periods")
			return
		}
		current = all[len(all)-1]
	}

	out := map[string]any{"current_period": current}
	for name, mode := range map[string]string{
		"mom":       compare.BaselinePriorMonth,
		"yoy":       compare.BaselinePriorYear,
		"prior_dec": compare.BaselinePriorDecember,
	} {
		baseline, ok := s.engine.ResolveBaseline(current, mode)
		if !ok {
			continue
		}
		out[name] = s.engine.Aggregate(current, baseline, f)
	}
	s.respond(w, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filterFromQuery(r)
	current := q.Get("current")
	if current == "" {
		s.fail(w, http.StatusBadRequest, "current period is required")
		return
	}

	baseline := q.Get("baseline")
	if baseline == "" {
		mode := q.Get("mode")
		if mode == "" {
			mode = compare.BaselinePriorMonth
		}
		derived, ok := s.engine.ResolveBaseline(current, mode)
		if !ok {
			s.fail(w, http.StatusUnprocessableEntity, "baseline period not loaded")
			return
		}
		baseline = derived
	}

	dim := compare.Dimension(q.Get("by"))
	if dim == "" {
		dim = compare.DimOrganization
	}
	result, err := s.engine.ByDimension(dim, current, baseline, f)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respond(w, result)
}

func filterFromQuery(r *http.Request) dataset.FilterState {
	q := r.URL.Query()
	return dataset.FilterState{
		Organizations: q["org"],
		States:        q["state"],
		ContractTypes: q["type"],
		Contracts:     q["contract"],
	}
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) fail(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
