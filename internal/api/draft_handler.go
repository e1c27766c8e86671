package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/tenderdesk/tenderdesk/internal/llm"
)

// handleProposalDraft asks the configured provider for a draft of one
// proposal section. Content generation is fully delegated; this handler only
// assembles context from the proposal record.
func (s *Server) handleProposalDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err)
		return
	}
	section := strings.TrimSpace(req.Section)
	if section == "" {
		writeBadRequest(w, fmt.Errorf("section is required"))
		return
	}
	p, err := s.proposals.Get(r.Context(), chi.URLParam(r, "proposalID"), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if s.provider == nil {
		writeError(w, fmt.Errorf("no drafting provider configured"))
		return
	}
	prompt := fmt.Sprintf("Draft the %q section of a bid proposal titled %q", section, p.Title)
	if p.ClientName != "" {
		prompt += fmt.Sprintf(" for client %q", p.ClientName)
	}
	if p.Summary != "" {
		prompt += ". Proposal summary: " + p.Summary
	}
	if guidance := strings.TrimSpace(req.Guidance); guidance != "" {
		prompt += ". Additional guidance: " + guidance
	}
	messages, err := llm.NormalizeMessages([]llm.Message{
		{Role: "system", Content: "You write concise, professional business proposal sections."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	draft, err := s.provider.Chat(r.Context(), messages)
	if err != nil {
		writeError(w, fmt.Errorf("draft generation: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"proposal_id": p.ID,
		"section":     section,
		"draft":       draft,
		"provider":    s.provider.Name(),
	})
}
