package proposal

import "time"

// Proposal is a bid record moving through the lifecycle graph. Version
// increases by one on every mutation and backs the optimistic concurrency
// guard. The three Converted fields are set together, atomically, by the
// converter and are never set individually.
type Proposal struct {
	ID                   string     `json:"id"`
	CompanyID            string     `json:"company_id"`
	Title                string     `json:"title"`
	Summary              string     `json:"summary,omitempty"`
	ClientName           string     `json:"client_name,omitempty"`
	Amount               float64    `json:"amount,omitempty"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	Status               Status     `json:"status"`
	Version              int64      `json:"version"`
	ConvertedToProjectID *string    `json:"converted_to_project_id,omitempty"`
	ConvertedAt          *time.Time `json:"converted_at,omitempty"`
	ConvertedBy          *string    `json:"converted_by,omitempty"`
	CreatedBy            string     `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// HistoryEntry is one row of the append-only transition ledger. FromStatus is
// nil only for the creation entry. Entries are never updated or deleted.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	ProposalID string    `json:"proposal_id"`
	FromStatus *Status   `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	Note       string    `json:"note,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

// Project is a past-performance record. When created by the converter its
// SourceProposalID points back at the originating proposal.
type Project struct {
	ID               string     `json:"id"`
	CompanyID        string     `json:"company_id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ClientName       string     `json:"client_name,omitempty"`
	Amount           float64    `json:"amount,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	SourceProposalID *string    `json:"source_proposal_id,omitempty"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Actor identifies the authenticated user on whose behalf an operation runs.
type Actor struct {
	ID        string
	CompanyID string
}

// HistoryView pairs a proposal's denormalised current status with its ledger,
// newest entry first.
type HistoryView struct {
	ProposalID    string         `json:"proposal_id"`
	CurrentStatus Status         `json:"current_status"`
	Entries       []HistoryEntry `json:"history"`
}
