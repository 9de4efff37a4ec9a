// Package api exposes the action layer over JSON HTTP endpoints. Mutations
// are wizard or form submissions: the full payload arrives in one POST or PUT
// and passes through validation, authorization and the repository
// transaction in the action layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vbtech/vbadmin/internal/action"
	"github.com/vbtech/vbadmin/internal/domain"
)

// Server routes JSON requests to the action layer.
type Server struct {
	actions *action.Actions
	logger  *zap.Logger
}

// NewRouter builds the service mux. The export handler is mounted under
// /exports/ and serves file downloads rather than JSON.
func NewRouter(actions *action.Actions, exportHandler http.Handler, logger *zap.Logger) *http.ServeMux {
	s := &Server{actions: actions, logger: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /payers", mutation(s, s.actions.InsertPayer, http.StatusCreated))
	mux.HandleFunc("PUT /payers", mutation(s, s.actions.UpdatePayer, http.StatusOK))
	mux.HandleFunc("GET /payers", s.handleListPayers)

	mux.HandleFunc("POST /health-plans", mutation(s, s.actions.InsertHealthPlan, http.StatusCreated))
	mux.HandleFunc("PUT /health-plans", mutation(s, s.actions.UpdateHealthPlan, http.StatusOK))
	mux.HandleFunc("GET /health-plans", payerQuery(s, s.actions.ListHealthPlans))
	mux.HandleFunc("GET /health-plans/{pubId}", s.handleGetHealthPlan)

	mux.HandleFunc("POST /network-entities", mutation(s, s.actions.InsertNetworkEntity, http.StatusCreated))
	mux.HandleFunc("PUT /network-entities", mutation(s, s.actions.UpdateNetworkEntity, http.StatusOK))
	mux.HandleFunc("GET /network-entities", payerQuery(s, s.actions.ListNetworkEntities))

	mux.HandleFunc("POST /network-physicians", mutation(s, s.actions.InsertNetworkPhysician, http.StatusCreated))
	mux.HandleFunc("PUT /network-physicians", mutation(s, s.actions.UpdateNetworkPhysician, http.StatusOK))
	mux.HandleFunc("GET /network-physicians", payerQuery(s, s.actions.ListNetworkPhysicians))

	mux.HandleFunc("POST /perf-years", mutation(s, s.actions.InsertPerfYear, http.StatusCreated))
	mux.HandleFunc("PUT /perf-years", mutation(s, s.actions.UpdatePerfYear, http.StatusOK))
	mux.HandleFunc("GET /perf-years", payerQuery(s, s.actions.ListPerfYears))

	mux.HandleFunc("PUT /settings", mutation(s, s.actions.UpdateSettings, http.StatusOK))
	mux.HandleFunc("GET /settings", payerQuery(s, s.actions.GetSettings))

	mux.HandleFunc("PUT /licenses", mutation(s, s.actions.UpdateLicense, http.StatusOK))
	mux.HandleFunc("GET /licenses", payerQuery(s, s.actions.GetLicense))

	mux.Handle("/exports/", exportHandler)

	return mux
}

// mutation adapts one action method into a JSON handler: decode the payload,
// run the action, map the error taxonomy onto statuses.
func mutation[Req any, Res any](s *Server, run func(context.Context, Req) (Res, error), okStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req Req
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
			return
		}
		result, err := run(r.Context(), req)
		if err != nil {
			s.logError(r, err)
			writeError(w, err)
			return
		}
		writeJSON(w, okStatus, result)
	}
}

// payerQuery adapts one payer-scoped read into a JSON handler.
func payerQuery[Res any](s *Server, run func(context.Context, string) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payerPubID := strings.TrimSpace(r.URL.Query().Get("payerPubId"))
		if payerPubID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "payerPubId is required"})
			return
		}
		result, err := run(r.Context(), payerPubID)
		if err != nil {
			s.logError(r, err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleListPayers(w http.ResponseWriter, r *http.Request) {
	payers, err := s.actions.ListPayers(r.Context())
	if err != nil {
		s.logError(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payers)
}

func (s *Server) handleGetHealthPlan(w http.ResponseWriter, r *http.Request) {
	payerPubID := strings.TrimSpace(r.URL.Query().Get("payerPubId"))
	if payerPubID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "payerPubId is required"})
		return
	}
	plan, err := s.actions.GetHealthPlan(r.Context(), payerPubID, r.PathValue("pubId"))
	if err != nil {
		s.logError(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// logError records failures at a level matching their category: client errors
// are expected traffic, infrastructure errors are not.
func (s *Server) logError(r *http.Request, err error) {
	var valErr *domain.ValidationError
	var authErr *domain.AuthorizationError
	var dupErr *domain.DuplicateError
	switch {
	case errors.As(err, &valErr), errors.As(err, &dupErr):
		s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	case errors.As(err, &authErr):
		s.logger.Info("request denied", zap.String("path", r.URL.Path), zap.Error(err))
	default:
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}
