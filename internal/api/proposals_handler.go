package api

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/tenderdesk/tenderdesk/internal/proposal"
)

func (s *Server) handleProposalCreate(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	dueDate, err := parseDate("due_date", req.DueDate)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := s.proposals.Create(r.Context(), proposal.CreateInput{
		Title:      req.Title,
		Summary:    req.Summary,
		ClientName: req.ClientName,
		Amount:     req.Amount,
		DueDate:    dueDate,
	}, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleProposalList(w http.ResponseWriter, r *http.Request) {
	proposals, err := s.proposals.List(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"proposals": proposals})
}

func (s *Server) handleProposalGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.proposals.Get(r.Context(), chi.URLParam(r, "proposalID"), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProposalUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if req.Version <= 0 {
		writeError(w, &proposal.Error{
			Kind:    proposal.KindValidation,
			Field:   "version",
			Message: "version is required for updates",
		})
		return
	}
	in := proposal.UpdateInput{
		Title:      req.Title,
		Summary:    req.Summary,
		ClientName: req.ClientName,
		Amount:     req.Amount,
		Version:    req.Version,
	}
	if req.DueDate != nil {
		dueDate, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			writeError(w, err)
			return
		}
		in.DueDate = dueDate
	}
	updated, err := s.proposals.Update(r.Context(), chi.URLParam(r, "proposalID"), in, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleProposalTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	updated, err := s.proposals.Transition(r.Context(), chi.URLParam(r, "proposalID"), req.Status, actorFrom(r).ID, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleProposalHistory(w http.ResponseWriter, r *http.Request) {
	view, err := s.proposals.History(r.Context(), chi.URLParam(r, "proposalID"), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleProposalConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		writeError(w, err)
		return
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.proposals.Convert(r.Context(), chi.URLParam(r, "proposalID"), proposal.ConvertInput{
		ProjectName: req.ProjectName,
		Description: req.Description,
		ClientName:  req.ClientName,
		Amount:      req.Amount,
		StartDate:   startDate,
		EndDate:     endDate,
		Force:       req.Force,
	}, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context(), actorFrom(r).CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (s *Server) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if project.CompanyID != actorFrom(r).CompanyID {
		writeError(w, &proposal.Error{
			Kind:    proposal.KindForbidden,
			Message: "project does not belong to your company",
		})
		return
	}
	writeJSON(w, http.StatusOK, project)
}
