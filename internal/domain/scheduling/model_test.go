package scheduling

import (
	"strings"
	"testing"
)

func TestCanTransition_Allowed(t *testing.T) {
	allowed := [][2]string{
		{StatusScheduled, StatusConfirmed},
		{StatusScheduled, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusNoShow},
		{StatusConfirmed, StatusCancelled},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Errorf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}
}

func TestCanTransition_Rejected(t *testing.T) {
	rejected := [][2]string{
		{StatusScheduled, StatusCompleted},
		{StatusScheduled, StatusNoShow},
		{StatusCompleted, StatusConfirmed},
		{StatusCompleted, StatusScheduled},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusScheduled},
		{StatusConfirmed, StatusScheduled},
		{StatusScheduled, StatusScheduled},
	}
	for _, tr := range rejected {
		if CanTransition(tr[0], tr[1]) {
			t.Errorf("expected %s -> %s to be rejected", tr[0], tr[1])
		}
	}
}

func TestTerminalStatesAreFrozen(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled, StatusNoShow} {
		for target := range ValidStatuses {
			if CanTransition(terminal, target) {
				t.Errorf("terminal state %s must not transition to %s", terminal, target)
			}
		}
	}
}

func TestInvalidTransitionError_NamesBothStates(t *testing.T) {
	err := &InvalidTransitionError{From: StatusCompleted, To: StatusConfirmed}
	msg := err.Error()
	if !strings.Contains(msg, StatusCompleted) || !strings.Contains(msg, StatusConfirmed) {
		t.Errorf("expected error to name both states, got %q", msg)
	}
}
