package revision

import "sync/atomic"

type Identifier = uint64

// Storage is a monotonic counter ticked on every mutation of an owning storage.
// Exposed through read endpoints so that polling clients can cheaply detect
// that a storage changed between reads.
type Storage struct {
	revision atomic.Uint64
}

func NewStorage() *Storage {
	return &Storage{}
}

func (rs *Storage) Revision() Identifier {
	return rs.revision.Load()
}

func (rs *Storage) Tick() {
	rs.revision.Add(1)
}
