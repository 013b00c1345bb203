package common

// ChangeVariant names a single kind of mutation observable on a state storage.
type ChangeVariant string

// Change is implemented by per-storage change types distributed by a ChangesBroadcaster.
type Change interface {
	Variant() ChangeVariant
}

// ChangesBroadcaster distributes state storage changes to its subscribers.
type ChangesBroadcaster[CT Change] struct {
	Broadcaster[CT]
}

func NewChangesBroadcaster[CT Change]() *ChangesBroadcaster[CT] {
	return &ChangesBroadcaster[CT]{
		*NewBroadcaster[CT](),
	}
}
