package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"github.com/tenderdesk/tenderdesk/internal/proposal"
)

func (r proposalRow) toDomain() *proposal.Proposal {
	p := &proposal.Proposal{
		ID:         r.ID,
		CompanyID:  r.CompanyID,
		Title:      r.Title,
		Summary:    r.Summary,
		ClientName: r.ClientName,
		Amount:     r.Amount,
		Status:     proposal.Status(r.Status),
		Version:    r.Version,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.DueDate.Valid {
		due := r.DueDate.Time
		p.DueDate = &due
	}
	if r.ConvertedToProjectID.Valid {
		id := r.ConvertedToProjectID.String
		p.ConvertedToProjectID = &id
	}
	if r.ConvertedAt.Valid {
		at := r.ConvertedAt.Time
		p.ConvertedAt = &at
	}
	if r.ConvertedBy.Valid {
		by := r.ConvertedBy.String
		p.ConvertedBy = &by
	}
	return p
}

func (r historyRow) toDomain() proposal.HistoryEntry {
	entry := proposal.HistoryEntry{
		ID:         r.ID,
		ProposalID: r.ProposalID,
		ToStatus:   proposal.Status(r.ToStatus),
		ChangedBy:  r.ChangedBy,
		Note:       r.Note,
		ChangedAt:  r.ChangedAt,
	}
	if r.FromStatus.Valid {
		from := proposal.Status(r.FromStatus.String)
		entry.FromStatus = &from
	}
	return entry
}

func (r projectRow) toDomain() *proposal.Project {
	p := &proposal.Project{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Name:        r.Name,
		Description: r.Description,
		ClientName:  r.ClientName,
		Amount:      r.Amount,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
	if r.StartDate.Valid {
		start := r.StartDate.Time
		p.StartDate = &start
	}
	if r.EndDate.Valid {
		end := r.EndDate.Time
		p.EndDate = &end
	}
	if r.SourceProposalID.Valid {
		src := r.SourceProposalID.String
		p.SourceProposalID = &src
	}
	return p
}

func nullIfEmpty(value string) interface{} {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullIfZeroTime(value *time.Time) sql.NullTime {
	if value == nil || value.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
