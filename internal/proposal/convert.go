package proposal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenderdesk/tenderdesk/internal/common"
)

// WarningDuplicateConversion is surfaced to the caller when a forced convert
// creates a second project from the same proposal.
const WarningDuplicateConversion = "duplicate conversion: this proposal was already converted; a new project has been created"

// ConvertInput carries the fields of the project a won proposal is promoted
// into.
type ConvertInput struct {
	ProjectName string
	Description string
	ClientName  string
	Amount      float64
	StartDate   *time.Time
	EndDate     *time.Time
	Force       bool
}

// ConvertRecord is the atomic unit handed to the store: create the project and
// mark the proposal converted, conditioned on converted_to_project_id still
// holding the value the guard observed.
type ConvertRecord struct {
	ProposalID        string
	ObservedProjectID *string
	ActorID           string
	Project           Project
}

// ConvertResult bundles the converter's outputs. Warning is non-empty only on
// a forced duplicate conversion.
type ConvertResult struct {
	Project  *Project  `json:"project"`
	Proposal *Proposal `json:"proposal"`
	Warning  string    `json:"warning,omitempty"`
}

// evaluateConversion is the conversion guard. It runs synchronously right
// before the store write; the store's conditional update on the observed
// converted_to_project_id closes the remaining race window between two
// concurrent attempts.
func evaluateConversion(p *Proposal, force bool) (warning string, err error) {
	if p.Status != StatusWon {
		return "", validation("status", "only won proposals can be converted to projects (current status: %s)", p.Status)
	}
	if p.ConvertedToProjectID != nil {
		if !force {
			return "", alreadyConverted(*p.ConvertedToProjectID)
		}
		return WarningDuplicateConversion, nil
	}
	return "", nil
}

// Convert promotes a won proposal into a past-performance project. The project
// insert and the proposal's conversion markers are one transaction; the
// proposal's status is never changed by conversion. Force permits a duplicate
// conversion and is reported back through the result's warning.
func (s *Service) Convert(ctx context.Context, proposalID string, in ConvertInput, actor Actor) (*ConvertResult, error) {
	if err := validateConvertInput(in); err != nil {
		return nil, err
	}
	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != actor.CompanyID {
		return nil, forbidden("proposal %s does not belong to your company", proposalID)
	}
	warning, err := evaluateConversion(p, in.Force)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rec := ConvertRecord{
		ProposalID:        p.ID,
		ObservedProjectID: p.ConvertedToProjectID,
		ActorID:           actor.ID,
		Project: Project{
			ID:               uuid.NewString(),
			CompanyID:        p.CompanyID,
			Name:             strings.TrimSpace(in.ProjectName),
			Description:      strings.TrimSpace(in.Description),
			ClientName:       strings.TrimSpace(in.ClientName),
			Amount:           in.Amount,
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			SourceProposalID: &p.ID,
			CreatedBy:        actor.ID,
			CreatedAt:        now,
		},
	}
	project, updated, err := s.store.ConvertProposal(ctx, rec)
	if err != nil {
		return nil, err
	}
	logger := common.Logger()
	logger.Info("proposal: converted to project", "proposal", p.ID, "project", project.ID, "actor", actor.ID, "forced", in.Force)
	if warning != "" {
		logger.Warn("proposal: duplicate conversion forced", "proposal", p.ID, "project", project.ID, "actor", actor.ID)
	}
	return &ConvertResult{Project: project, Proposal: updated, Warning: warning}, nil
}

func validateConvertInput(in ConvertInput) error {
	if strings.TrimSpace(in.ProjectName) == "" {
		return validation("project_name", "project_name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return validation("description", "description is required")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return validation("end_date", "end_date cannot precede start_date")
	}
	return nil
}
