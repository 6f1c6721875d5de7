package ecs

import "github.com/milk9111/dungeoncrawler/ecs/component"

// storeFor returns the typed set for kind, creating it when create is set.
func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}

// smallest picks the store with the fewest members to drive a multi-kind scan.
func smallest(stores ...store) store {
	var best store
	for _, s := range stores {
		if s == nil {
			return nil
		}
		if best == nil || s.size() < best.size() {
			best = s
		}
	}
	return best
}
