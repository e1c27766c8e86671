package api

import (
	"strings"
	"time"

	"github.com/tenderdesk/tenderdesk/internal/proposal"
)

const dateLayout = "2006-01-02"

type createProposalRequest struct {
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	ClientName string  `json:"client_name"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"due_date"`
}

type updateProposalRequest struct {
	Title      *string  `json:"title"`
	Summary    *string  `json:"summary"`
	ClientName *string  `json:"client_name"`
	Amount     *float64 `json:"amount"`
	DueDate    *string  `json:"due_date"`
	Version    int64    `json:"version"`
}

type transitionRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type convertRequest struct {
	ProjectName string  `json:"project_name"`
	Description string  `json:"description"`
	ClientName  string  `json:"client_name"`
	Amount      float64 `json:"amount"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Force       bool    `json:"force"`
}

type draftRequest struct {
	Section  string `json:"section"`
	Guidance string `json:"guidance"`
}

type companyUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type memberCreateRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Bio  string `json:"bio"`
}

type awardCreateRequest struct {
	Title     string `json:"title"`
	Issuer    string `json:"issuer"`
	AwardedOn string `json:"awarded_on"`
}

// parseDate turns an optional YYYY-MM-DD string into a time pointer, reporting
// the offending field on failure.
func parseDate(field, value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, trimmed)
	if err != nil {
		return nil, &proposal.Error{
			Kind:    proposal.KindValidation,
			Field:   field,
			Message: field + " must be formatted as YYYY-MM-DD",
		}
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
