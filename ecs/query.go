package ecs

import (
	"slices"

	"github.com/milk9111/dungeoncrawler/ecs/component"
)

// Collect returns the entities carrying kind ordered by slot index.
func Collect[A any](w *World, ka component.ComponentKind[A]) []Entity {
	s := storeFor(w, ka, false)
	if s == nil {
		return nil
	}
	out := make([]Entity, 0, s.size())
	for _, id := range s.dense {
		out = append(out, w.entityFor(id))
	}
	SortByIndex(out)
	return out
}

// SortByIndex orders entities by slot index, the tie-break used wherever
// several entities resolve against the same target in one tick.
func SortByIndex(ents []Entity) {
	slices.SortFunc(ents, func(a, b Entity) int {
		switch {
		case a.Index() < b.Index():
			return -1
		case a.Index() > b.Index():
			return 1
		}
		return 0
	})
}
