package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tenderdesk/tenderdesk/internal/proposal"
)

// CreateProposal inserts a new proposal together with its creation ledger
// entry (from_status NULL) in one transaction.
func (s *Store) CreateProposal(ctx context.Context, p *proposal.Proposal) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO proposals(
                        id, company_id, title, summary, client_name, amount, due_date,
                        status, version, created_by, created_at, updated_at)
                VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.CompanyID, p.Title, p.Summary, p.ClientName, p.Amount, nullIfZeroTime(p.DueDate),
			string(p.Status), p.Version, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert proposal: %w", err)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO status_history(
                        proposal_id, from_status, to_status, changed_by, note, changed_at)
                VALUES(?, NULL, ?, ?, ?, ?)`,
			p.ID, string(p.Status), p.CreatedBy, "proposal created", p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert creation history: %w", err)
		}
		return nil
	})
}

// GetProposal loads a proposal by id.
func (s *Store) GetProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var row proposalRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM proposals WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposal.NotFoundError("proposal", id)
		}
		return nil, fmt.Errorf("select proposal: %w", err)
	}
	return row.toDomain(), nil
}

// ListProposals returns a company's proposals, newest first.
func (s *Store) ListProposals(ctx context.Context, companyID string) ([]proposal.Proposal, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	rows := []proposalRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM proposals WHERE company_id = ? ORDER BY created_at DESC, id`, companyID); err != nil {
		return nil, fmt.Errorf("select proposals: %w", err)
	}
	out := make([]proposal.Proposal, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}
	return out, nil
}

// UpdateProposal writes a content edit guarded by the supplied version. The
// update predicate (`AND version = ?`) is the concurrency control: zero
// affected rows means another writer bumped the version first and nothing is
// written.
func (s *Store) UpdateProposal(ctx context.Context, p *proposal.Proposal, expectedVersion int64) (*proposal.Proposal, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	res, err := s.db.ExecContext(ctx, `UPDATE proposals SET
                        title = ?, summary = ?, client_name = ?, amount = ?, due_date = ?,
                        version = ? + 1, updated_at = ?
                WHERE id = ? AND version = ?`,
		p.Title, p.Summary, p.ClientName, p.Amount, nullIfZeroTime(p.DueDate),
		expectedVersion, p.UpdatedAt, p.ID, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update proposal rows: %w", err)
	}
	if affected == 0 {
		return nil, proposal.ConflictError("proposal %s was modified concurrently", p.ID)
	}
	return s.GetProposal(ctx, p.ID)
}
