package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tenderdesk/tenderdesk/internal/proposal"
)

// ConvertProposal creates the past-performance project and stamps the
// proposal's conversion markers in one transaction. The proposal update is
// conditioned on converted_to_project_id still holding the value the
// conversion guard observed (`IS ?` matches NULL as well as a concrete id), so
// two concurrent non-forced conversions cannot both succeed.
func (s *Store) ConvertProposal(ctx context.Context, rec proposal.ConvertRecord) (*proposal.Project, *proposal.Proposal, error) {
	if s == nil || s.db == nil {
		return nil, nil, errors.New("sqlite store not initialised")
	}
	var (
		projRow projectRow
		propRow proposalRow
	)
	now := time.Now().UTC()
	var observed interface{}
	if rec.ObservedProjectID != nil {
		observed = *rec.ObservedProjectID
	}
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		project := rec.Project
		_, err := tx.ExecContext(ctx, `INSERT INTO projects(
                        id, company_id, name, description, client_name, amount,
                        start_date, end_date, source_proposal_id, created_by, created_at)
                VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			project.ID, project.CompanyID, project.Name, project.Description,
			project.ClientName, project.Amount,
			nullIfZeroTime(project.StartDate), nullIfZeroTime(project.EndDate),
			nullIfEmpty(stringValue(project.SourceProposalID)), project.CreatedBy, project.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		res, err := tx.ExecContext(ctx, `UPDATE proposals SET
                                converted_to_project_id = ?, converted_at = ?, converted_by = ?,
                                version = version + 1, updated_at = ?
                        WHERE id = ? AND converted_to_project_id IS ?`,
			project.ID, now, rec.ActorID, now, rec.ProposalID, observed)
		if err != nil {
			return fmt.Errorf("mark proposal converted: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark proposal converted rows: %w", err)
		}
		if affected == 0 {
			return proposal.ConflictError("proposal %s was converted concurrently", rec.ProposalID)
		}
		if err := tx.GetContext(ctx, &projRow, `SELECT * FROM projects WHERE id = ?`, project.ID); err != nil {
			return fmt.Errorf("reload project: %w", err)
		}
		return tx.GetContext(ctx, &propRow, `SELECT * FROM proposals WHERE id = ?`, rec.ProposalID)
	})
	if err != nil {
		return nil, nil, err
	}
	return projRow.toDomain(), propRow.toDomain(), nil
}

// GetProject loads a project by id.
func (s *Store) GetProject(ctx context.Context, id string) (*proposal.Project, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var row projectRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM projects WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposal.NotFoundError("project", id)
		}
		return nil, fmt.Errorf("select project: %w", err)
	}
	return row.toDomain(), nil
}

// ListProjects returns a company's past-performance projects, newest first.
func (s *Store) ListProjects(ctx context.Context, companyID string) ([]proposal.Project, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	rows := []projectRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM projects WHERE company_id = ? ORDER BY created_at DESC, id`, companyID); err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	out := make([]proposal.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}
	return out, nil
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
