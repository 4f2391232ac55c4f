package SAGD2D

import (
	"fmt"

	"github.com/notargets/gosagd/types"
)

type EventKind uint8

const (
	EventDuplicatePlacement EventKind = iota
	EventMissingPlacement
	EventOutOfBoundsPlacement
)

func (ek EventKind) String() string {
	switch ek {
	case EventDuplicatePlacement:
		return "duplicate placement"
	case EventMissingPlacement:
		return "missing placement"
	case EventOutOfBoundsPlacement:
		return "out of bounds placement"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(ek))
}

// Event is a construction diagnostic delivered to an Observer.
type Event struct {
	Kind    EventKind
	Pos     types.Position
	Message string
}

func (e Event) String() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
}

// Observer receives construction diagnostics. It is called synchronously.
type Observer func(Event)

func (o Observer) notify(e Event) {
	if o != nil {
		o(e)
	}
}
