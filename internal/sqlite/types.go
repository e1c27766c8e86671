package sqlite

import (
	"database/sql"
	"time"
)

// Company represents a company profile row.
type Company struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Website     string    `db:"website" json:"website,omitempty"`
	Email       string    `db:"email" json:"email,omitempty"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// User is an authenticated account tied to a company. APIToken is the bearer
// credential checked by the API layer; issuing tokens is out of scope here.
type User struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	APIToken  string    `db:"api_token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Member is a team member shown on a company profile.
type Member struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role,omitempty"`
	Bio       string    `db:"bio" json:"bio,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Award is a recognition entry on a company profile.
type Award struct {
	ID        string       `db:"id" json:"id"`
	CompanyID string       `db:"company_id" json:"company_id"`
	Title     string       `db:"title" json:"title"`
	Issuer    string       `db:"issuer" json:"issuer,omitempty"`
	AwardedOn sql.NullTime `db:"awarded_on" json:"awarded_on,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

type proposalRow struct {
	ID                   string         `db:"id"`
	CompanyID            string         `db:"company_id"`
	Title                string         `db:"title"`
	Summary              string         `db:"summary"`
	ClientName           string         `db:"client_name"`
	Amount               float64        `db:"amount"`
	DueDate              sql.NullTime   `db:"due_date"`
	Status               string         `db:"status"`
	Version              int64          `db:"version"`
	ConvertedToProjectID sql.NullString `db:"converted_to_project_id"`
	ConvertedAt          sql.NullTime   `db:"converted_at"`
	ConvertedBy          sql.NullString `db:"converted_by"`
	CreatedBy            string         `db:"created_by"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

type historyRow struct {
	ID         int64          `db:"id"`
	ProposalID string         `db:"proposal_id"`
	FromStatus sql.NullString `db:"from_status"`
	ToStatus   string         `db:"to_status"`
	ChangedBy  string         `db:"changed_by"`
	Note       string         `db:"note"`
	ChangedAt  time.Time      `db:"changed_at"`
}

type projectRow struct {
	ID               string         `db:"id"`
	CompanyID        string         `db:"company_id"`
	Name             string         `db:"name"`
	Description      string         `db:"description"`
	ClientName       string         `db:"client_name"`
	Amount           float64        `db:"amount"`
	StartDate        sql.NullTime   `db:"start_date"`
	EndDate          sql.NullTime   `db:"end_date"`
	SourceProposalID sql.NullString `db:"source_proposal_id"`
	CreatedBy        string         `db:"created_by"`
	CreatedAt        time.Time      `db:"created_at"`
}
