package proposal

import "strings"

// Status is the lifecycle state of a proposal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalises a caller-supplied status string. The boolean reports
// whether the value names a recognised status.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusDraft:
		return StatusDraft, true
	case StatusPending:
		return StatusPending, true
	case StatusSubmitted:
		return StatusSubmitted, true
	case StatusWon:
		return StatusWon, true
	case StatusLost:
		return StatusLost, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// Terminal reports whether a proposal in this status accepts no further
// transitions. Conversion of a won proposal is a separate side channel, not a
// status transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusWon, StatusLost, StatusCancelled:
		return true
	}
	return false
}

// statusTransitions holds every legal edge of the lifecycle graph. Submission
// is the sole gateway to won/lost; cancellation is reachable from every
// non-terminal state; nothing regresses into draft.
var statusTransitions = map[Status]map[Status]bool{
	StatusDraft:     {StatusPending: true, StatusCancelled: true},
	StatusPending:   {StatusSubmitted: true, StatusCancelled: true},
	StatusSubmitted: {StatusWon: true, StatusLost: true, StatusCancelled: true},
	StatusWon:       {},
	StatusLost:      {},
	StatusCancelled: {},
}

// CanTransition reports whether the lifecycle graph permits moving from one
// status to another. Re-requesting the current status is always rejected.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	next, ok := statusTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}
