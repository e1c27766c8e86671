package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tenderdesk/tenderdesk/internal/sqlite"
)

func (s *Server) handleCompanyGet(w http.ResponseWriter, r *http.Request) {
	company, err := s.store.GetCompany(r.Context(), actorFrom(r).CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleCompanyUpdate(w http.ResponseWriter, r *http.Request) {
	var req companyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeBadRequest(w, fmt.Errorf("name is required"))
		return
	}
	company, err := s.store.GetCompany(r.Context(), actorFrom(r).CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}
	company.Name = strings.TrimSpace(req.Name)
	company.Description = strings.TrimSpace(req.Description)
	company.Website = strings.TrimSpace(req.Website)
	company.Email = strings.TrimSpace(req.Email)
	company.Phone = strings.TrimSpace(req.Phone)
	if err := s.store.UpdateCompany(r.Context(), company); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleMembersList(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context(), actorFrom(r).CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

func (s *Server) handleMemberCreate(w http.ResponseWriter, r *http.Request) {
	var req memberCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeBadRequest(w, fmt.Errorf("name is required"))
		return
	}
	member := &sqlite.Member{
		ID:        uuid.NewString(),
		CompanyID: actorFrom(r).CompanyID,
		Name:      strings.TrimSpace(req.Name),
		Role:      strings.TrimSpace(req.Role),
		Bio:       strings.TrimSpace(req.Bio),
	}
	if err := s.store.InsertMember(r.Context(), member); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (s *Server) handleMemberDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMember(r.Context(), actorFrom(r).CompanyID, chi.URLParam(r, "memberID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAwardsList(w http.ResponseWriter, r *http.Request) {
	awards, err := s.store.ListAwards(r.Context(), actorFrom(r).CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"awards": awards})
}

func (s *Server) handleAwardCreate(w http.ResponseWriter, r *http.Request) {
	var req awardCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeBadRequest(w, fmt.Errorf("title is required"))
		return
	}
	awardedOn, err := parseDate("awarded_on", req.AwardedOn)
	if err != nil {
		writeError(w, err)
		return
	}
	award := &sqlite.Award{
		ID:        uuid.NewString(),
		CompanyID: actorFrom(r).CompanyID,
		Title:     strings.TrimSpace(req.Title),
		Issuer:    strings.TrimSpace(req.Issuer),
	}
	if awardedOn != nil {
		award.AwardedOn = sql.NullTime{Time: *awardedOn, Valid: true}
	}
	if err := s.store.InsertAward(r.Context(), award); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, award)
}

func (s *Server) handleAwardDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAward(r.Context(), actorFrom(r).CompanyID, chi.URLParam(r, "awardID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
