package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/tenderdesk/tenderdesk/internal/common"
	"github.com/tenderdesk/tenderdesk/internal/llm"
	"github.com/tenderdesk/tenderdesk/internal/proposal"
	"github.com/tenderdesk/tenderdesk/internal/sqlite"
)

type Server struct {
	router    chi.Router
	store     *sqlite.Store
	proposals *proposal.Service
	provider  llm.Provider
}

func NewServer(store *sqlite.Store, provider llm.Provider) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	srv := &Server{
		router:    chi.NewRouter(),
		store:     store,
		proposals: proposal.NewService(store),
		provider:  provider,
	}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Get("/v1/logs", s.handleLogs)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireActor)

		r.Get("/v1/company", s.handleCompanyGet)
		r.Put("/v1/company", s.handleCompanyUpdate)
		r.Get("/v1/company/members", s.handleMembersList)
		r.Post("/v1/company/members", s.handleMemberCreate)
		r.Delete("/v1/company/members/{memberID}", s.handleMemberDelete)
		r.Get("/v1/company/awards", s.handleAwardsList)
		r.Post("/v1/company/awards", s.handleAwardCreate)
		r.Delete("/v1/company/awards/{awardID}", s.handleAwardDelete)

		r.Post("/v1/proposals", s.handleProposalCreate)
		r.Get("/v1/proposals", s.handleProposalList)
		r.Get("/v1/proposals/{proposalID}", s.handleProposalGet)
		r.Put("/v1/proposals/{proposalID}", s.handleProposalUpdate)
		r.Post("/v1/proposals/{proposalID}/transition", s.handleProposalTransition)
		r.Get("/v1/proposals/{proposalID}/history", s.handleProposalHistory)
		r.Post("/v1/proposals/{proposalID}/convert", s.handleProposalConvert)
		r.Post("/v1/proposals/{proposalID}/draft", s.handleProposalDraft)

		r.Get("/v1/projects", s.handleProjectList)
		r.Get("/v1/projects/{projectID}", s.handleProjectGet)
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorBody is the wire shape of every failure: a stable machine-readable
// kind plus a human message. Duplicate-conversion failures additionally carry
// the existing project id so clients can offer "view existing".
type errorBody struct {
	Kind              string `json:"kind"`
	Error             string `json:"error"`
	Field             string `json:"field,omitempty"`
	FromStatus        string `json:"from_status,omitempty"`
	ToStatus          string `json:"to_status,omitempty"`
	ExistingProjectID string `json:"existing_project_id,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	logger := common.Logger()
	body := errorBody{Kind: string(proposal.KindInternal), Error: err.Error()}
	status := http.StatusInternalServerError
	if pe, ok := proposal.AsError(err); ok {
		body.Kind = string(pe.Kind)
		body.Field = pe.Field
		body.FromStatus = string(pe.From)
		body.ToStatus = string(pe.To)
		body.ExistingProjectID = pe.ProjectID
		switch pe.Kind {
		case proposal.KindNotFound:
			status = http.StatusNotFound
		case proposal.KindValidation, proposal.KindInvalidTransition:
			status = http.StatusBadRequest
		case proposal.KindForbidden:
			status = http.StatusForbidden
		case proposal.KindAlreadyConverted, proposal.KindConflict:
			status = http.StatusConflict
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "kind", body.Kind, "error", err)
	}
	writeJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Kind: string(proposal.KindValidation), Error: err.Error()})
}

var errUnauthorized = errors.New("missing or invalid api token")
