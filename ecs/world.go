package ecs

import "github.com/milk9111/dungeoncrawler/ecs/component"

// World owns entities, their components and the per-tick event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Emit pushes an event payload onto the world queue.
func (w *World) Emit(data any) {
	if w == nil || data == nil {
		return
	}
	w.events.Push(Event{Data: data})
}

func (w *World) destroy(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// entityFor rebuilds a full handle for a live slot id.
func (w *World) entityFor(id entityID) Entity {
	return makeEntity(id, w.entities.gens[id-1])
}
