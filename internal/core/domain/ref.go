package domain

import "fmt"

// EntityKind names the collection an entity belongs to.
type EntityKind string

const (
	EntityTask    EntityKind = "task"
	EntityProject EntityKind = "project"
)

// Ref identifies an entity. It is either a pending placeholder carrying a
// client-generated temporary id, or a confirmed server-assigned id.
type Ref struct {
	id      string
	pending bool
}

func Pending(tempID string) Ref {
	return Ref{id: tempID, pending: true}
}

func Confirmed(id string) Ref {
	return Ref{id: id}
}

func (r Ref) ID() string {
	return r.id
}

func (r Ref) IsPending() bool {
	return r.pending
}

func (r Ref) IsZero() bool {
	return r.id == ""
}

func (r Ref) String() string {
	if r.pending {
		return fmt.Sprintf("pending:%s", r.id)
	}
	return r.id
}

// Phase is the lifecycle phase of an id inside the store.
type Phase string

const (
	PhaseUnknown   Phase = "unknown"
	PhaseCreating  Phase = "creating"
	PhaseConfirmed Phase = "confirmed"
	PhaseDeleting  Phase = "deleting"
)
