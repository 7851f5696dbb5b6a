package access

import (
	"github.com/google/uuid"
	"github.com/kova98/nearmatch.api/data"
)

type Decision int

const (
	Denied Decision = iota
	Allowed
	// Ambiguous means neither a viewer nor an owner was given, so there is
	// no way to tell whose entry is being asked about.
	Ambiguous
)

// CanRead decides whether viewer may search entry. A nil viewer is an
// anonymous request; a nil owner means the viewer is asking about their own
// entries. granted reports whether the viewer holds a read grant on entry.
//
//   - anonymous viewers may read public entries
//   - owners may read their own entries
//   - other users may read public entries and entries shared with them
func CanRead(entry data.Entry, viewer, owner *uuid.UUID, granted bool) Decision {
	if viewer == nil && owner == nil {
		return Ambiguous
	}

	if owner == nil {
		owner = viewer
	}
	if *owner != entry.OwnerID {
		return Denied
	}

	if viewer == nil {
		if entry.Public {
			return Allowed
		}
		return Denied
	}

	if *viewer == entry.OwnerID || entry.Public || granted {
		return Allowed
	}

	return Denied
}
