package messaging

import (
	"fmt"
	"sort"
)

// Receiver is anything that can be addressed by a telegram.
type Receiver interface {
	ID() EntityID
	HandleMessage(msg Telegram) bool
}

// Directory resolves receivers by id.
type Directory interface {
	Find(id EntityID) (Receiver, bool)
}

// Registry is the map-backed Directory used by a match. It is only mutated
// while a match is being built or torn down.
type Registry struct {
	entities map[EntityID]Receiver
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[EntityID]Receiver)}
}

// Register adds r. Registering the reserved id or a duplicate id panics.
func (r *Registry) Register(e Receiver) {
	id := e.ID()
	if id == NoEntity {
		panic("messaging: cannot register the reserved entity id")
	}
	if _, dup := r.entities[id]; dup {
		panic(fmt.Sprintf("messaging: entity %d registered twice", id))
	}
	r.entities[id] = e
}

func (r *Registry) Find(id EntityID) (Receiver, bool) {
	e, ok := r.entities[id]
	return e, ok
}

func (r *Registry) Remove(id EntityID) {
	delete(r.entities, id)
}

func (r *Registry) Reset() {
	r.entities = make(map[EntityID]Receiver)
}

func (r *Registry) Len() int { return len(r.entities) }

// IDs returns the registered ids in ascending order.
func (r *Registry) IDs() []EntityID {
	ids := make([]EntityID, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
