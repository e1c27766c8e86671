package proposal

import "testing"

func TestParseStatus(t *testing.T) {
	cases := map[string]struct {
		want Status
		ok   bool
	}{
		"draft":      {StatusDraft, true},
		"  Pending ": {StatusPending, true},
		"SUBMITTED":  {StatusSubmitted, true},
		"won":        {StatusWon, true},
		"lost":       {StatusLost, true},
		"cancelled":  {StatusCancelled, true},
		"archived":   {"", false},
		"":           {"", false},
	}
	for input, expected := range cases {
		got, ok := ParseStatus(input)
		if ok != expected.ok || got != expected.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", input, got, ok, expected.want, expected.ok)
		}
	}
}

func TestCanTransitionGraph(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusDraft, StatusPending}:       true,
		{StatusDraft, StatusCancelled}:     true,
		{StatusPending, StatusSubmitted}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusSubmitted, StatusWon}:       true,
		{StatusSubmitted, StatusLost}:      true,
		{StatusSubmitted, StatusCancelled}: true,
	}
	statuses := []Status{StatusDraft, StatusPending, StatusSubmitted, StatusWon, StatusLost, StatusCancelled}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionRejectsSameStatus(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusPending, StatusSubmitted, StatusWon, StatusLost, StatusCancelled} {
		if CanTransition(status, status) {
			t.Errorf("CanTransition(%s, %s) should be rejected", status, status)
		}
	}
}

func TestCanTransitionNeverRegressesToDraft(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusSubmitted, StatusWon, StatusLost, StatusCancelled} {
		if CanTransition(from, StatusDraft) {
			t.Errorf("CanTransition(%s, draft) should be rejected", from)
		}
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	targets := []Status{StatusDraft, StatusPending, StatusSubmitted, StatusWon, StatusLost, StatusCancelled}
	for _, from := range []Status{StatusWon, StatusLost, StatusCancelled} {
		if !from.Terminal() {
			t.Errorf("%s should be terminal", from)
		}
		for _, to := range targets {
			if CanTransition(from, to) {
				t.Errorf("terminal status %s should not transition to %s", from, to)
			}
		}
	}
	for _, from := range []Status{StatusDraft, StatusPending, StatusSubmitted} {
		if from.Terminal() {
			t.Errorf("%s should not be terminal", from)
		}
	}
}
