package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tenderdesk/tenderdesk/internal/proposal"
)

// TransitionProposal applies a status change and appends the matching ledger
// entry as one transaction. The update is conditioned on both the version and
// the status the caller observed, so a concurrent transition loses the race
// cleanly: zero affected rows, nothing written, conflict returned.
func (s *Store) TransitionProposal(ctx context.Context, id string, from, to proposal.Status, actorID, note string, expectedVersion int64) (*proposal.Proposal, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var row proposalRow
	now := time.Now().UTC()
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE proposals SET
                                status = ?, version = version + 1, updated_at = ?
                        WHERE id = ? AND version = ? AND status = ?`,
			string(to), now, id, expectedVersion, string(from))
		if err != nil {
			return fmt.Errorf("update proposal status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update proposal status rows: %w", err)
		}
		if affected == 0 {
			return proposal.ConflictError("proposal %s changed concurrently during transition to %s", id, to)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO status_history(
                                proposal_id, from_status, to_status, changed_by, note, changed_at)
                        VALUES(?, ?, ?, ?, ?, ?)`,
			id, string(from), string(to), actorID, note, now); err != nil {
			return fmt.Errorf("append status history: %w", err)
		}
		return tx.GetContext(ctx, &row, `SELECT * FROM proposals WHERE id = ?`, id)
	})
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// HistoryForProposal returns the append-only ledger, newest entry first. The
// id tiebreak keeps same-instant entries in insertion order.
func (s *Store) HistoryForProposal(ctx context.Context, id string) ([]proposal.HistoryEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	rows := []historyRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM status_history
                WHERE proposal_id = ? ORDER BY changed_at DESC, id DESC`, id); err != nil {
		return nil, fmt.Errorf("select status history: %w", err)
	}
	out := make([]proposal.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
