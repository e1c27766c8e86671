package proposal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenderdesk/tenderdesk/internal/common"
)

// Store is the persistence surface the lifecycle service depends on. Every
// mutating method is a single atomic unit: the guarded proposal write and any
// ledger append either both happen or neither does, and a failed conditional
// predicate surfaces as a conflict error with nothing written.
type Store interface {
	CreateProposal(ctx context.Context, p *Proposal) error
	GetProposal(ctx context.Context, id string) (*Proposal, error)
	ListProposals(ctx context.Context, companyID string) ([]Proposal, error)
	UpdateProposal(ctx context.Context, p *Proposal, expectedVersion int64) (*Proposal, error)
	TransitionProposal(ctx context.Context, id string, from, to Status, actorID, note string, expectedVersion int64) (*Proposal, error)
	HistoryForProposal(ctx context.Context, id string) ([]HistoryEntry, error)
	ConvertProposal(ctx context.Context, rec ConvertRecord) (*Project, *Proposal, error)
}

// Service applies lifecycle rules on top of the store. It holds no in-process
// state; concurrent requests are linearised by the store's conditional writes.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the writable fields of a new proposal.
type CreateInput struct {
	Title      string
	Summary    string
	ClientName string
	Amount     float64
	DueDate    *time.Time
}

// Create stores a new proposal in draft at version 1 and records the creation
// entry in the ledger.
func (s *Service) Create(ctx context.Context, in CreateInput, actor Actor) (*Proposal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validation("title", "title is required")
	}
	now := time.Now().UTC()
	p := &Proposal{
		ID:         uuid.NewString(),
		CompanyID:  actor.CompanyID,
		Title:      title,
		Summary:    strings.TrimSpace(in.Summary),
		ClientName: strings.TrimSpace(in.ClientName),
		Amount:     in.Amount,
		DueDate:    in.DueDate,
		Status:     StatusDraft,
		Version:    1,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateProposal(ctx, p); err != nil {
		return nil, err
	}
	common.Logger().Info("proposal: created", "proposal", p.ID, "company", p.CompanyID, "actor", actor.ID)
	return p, nil
}

// Get loads a proposal, enforcing company ownership.
func (s *Service) Get(ctx context.Context, id string, actor Actor) (*Proposal, error) {
	p, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != actor.CompanyID {
		return nil, forbidden("proposal %s does not belong to your company", id)
	}
	return p, nil
}

// List returns the actor company's proposals.
func (s *Service) List(ctx context.Context, actor Actor) ([]Proposal, error) {
	return s.store.ListProposals(ctx, actor.CompanyID)
}

// UpdateInput carries a partial content edit. Version is the version the
// caller read; the edit is rejected when it is stale.
type UpdateInput struct {
	Title      *string
	Summary    *string
	ClientName *string
	Amount     *float64
	DueDate    *time.Time
	Version    int64
}

// Update applies a version-guarded content edit. Status is never touched by
// this path; lifecycle changes go through Transition.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, actor Actor) (*Proposal, error) {
	p, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := CheckVersion(p.Version, in.Version); err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validation("title", "title cannot be empty")
		}
		p.Title = title
	}
	if in.Summary != nil {
		p.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.ClientName != nil {
		p.ClientName = strings.TrimSpace(*in.ClientName)
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	p.UpdatedAt = time.Now().UTC()
	return s.store.UpdateProposal(ctx, p, in.Version)
}

// Transition moves a proposal to the requested status and appends the matching
// ledger entry in one atomic unit. Validation order: missing proposal, then
// unchanged status, then unrecognised status, then the transition table.
func (s *Service) Transition(ctx context.Context, id, requested, actorID, note string) (*Proposal, error) {
	p, err := s.store.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(requested), string(p.Status)) {
		return nil, invalidTransition(p.Status, p.Status, "status unchanged: proposal is already %s", p.Status)
	}
	target, ok := ParseStatus(requested)
	if !ok {
		return nil, validation("status", "unknown status %q", requested)
	}
	if !CanTransition(p.Status, target) {
		return nil, invalidTransition(p.Status, target, "cannot transition from %s to %s", p.Status, target)
	}
	updated, err := s.store.TransitionProposal(ctx, p.ID, p.Status, target, actorID, strings.TrimSpace(note), p.Version)
	if err != nil {
		return nil, err
	}
	common.Logger().Info(
		"proposal: status changed",
		"proposal", p.ID,
		"from", p.Status,
		"to", target,
		"version", updated.Version,
		"actor", actorID,
	)
	return updated, nil
}

// History returns the proposal's current status together with its ledger,
// newest entry first.
func (s *Service) History(ctx context.Context, id string, actor Actor) (*HistoryView, error) {
	p, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.HistoryForProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HistoryView{ProposalID: p.ID, CurrentStatus: p.Status, Entries: entries}, nil
}
