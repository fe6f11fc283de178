package transition

import "taskcraftify/internal/core/domain"

type State int

const (
	Normal State = iota
	PendingComplete
	Removed
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case PendingComplete:
		return "pending_complete"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

type Transition string

const (
	None     Transition = "none"
	Complete Transition = "complete"
	Undo     Transition = "undo"
	Reopen   Transition = "reopen"
)

// decide is the transition table for a single toggle.
//
//	status     view state        double-click  timer armed  -> transition
//	ARCHIVED   any               any           any          -> None
//	DONE       PendingComplete   any           any          -> Undo
//	DONE       any               yes           any          -> Undo
//	not DONE   any               no            any          -> Complete
//	not DONE   any               yes           any          -> None (debounced)
//	DONE       Normal/Removed    no            no           -> Reopen
func decide(status domain.TaskStatus, state State, doubleClick, armed bool) Transition {
	switch {
	case status == domain.TaskStatusArchived:
		return None
	case status == domain.TaskStatusDone && (doubleClick || state == PendingComplete):
		return Undo
	case status != domain.TaskStatusDone && !doubleClick:
		return Complete
	case status != domain.TaskStatusDone:
		return None
	case !armed:
		return Reopen
	default:
		return None
	}
}
