package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/common"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/layout"
)

// wallThreshold is the fraction of a tile a mover may approach a blocking
// tile's centre before it is pushed back.
const wallThreshold = 0.7

// CollisionSystem pushes the player and enemies out of walls, closed doors
// and blocking props.
type CollisionSystem struct{}

func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

func (s *CollisionSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	rt, ok := entity.LevelRuntime(w)
	if !ok {
		return
	}
	props := blockingProps(w)

	if e, _, ok := entity.Player(w); ok {
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			resolve(rt.Grid, props, tr)
		}
	}
	for _, e := range ecs.Collect(w, component.EnemyComponent.Kind()) {
		if ecs.Has(w, e, component.DeathEffectComponent.Kind()) {
			continue
		}
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			resolve(rt.Grid, props, tr)
		}
	}
}

type obstacle struct {
	pos    cp.Vector
	radius float64
}

func blockingProps(w *ecs.World) []obstacle {
	var out []obstacle
	for _, e := range ecs.Collect(w, component.PropComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PropComponent.Kind())
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || !p.Blocks {
			continue
		}
		out = append(out, obstacle{pos: tr.Pos(), radius: p.Radius})
	}
	return out
}

func resolve(grid *layout.Grid, props []obstacle, tr *component.Transform) {
	pos := tr.Pos()
	threshold := grid.TileSize() * wallThreshold
	centre := grid.GridPosOf(pos)

	// Only the first overlapping tile is resolved per tick.
walls:
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			tile := centre.Add(dx, dy)
			if !grid.Blocking(tile) {
				continue
			}
			wall := grid.WorldPos(tile)
			if pos.Distance(wall) >= threshold {
				continue
			}
			pos = wall.Add(pushDir(pos, wall).Mult(threshold + 1))
			break walls
		}
	}

	for _, p := range props {
		if pos.Distance(p.pos) >= p.radius {
			continue
		}
		pos = p.pos.Add(pushDir(pos, p.pos).Mult(p.radius + 1))
	}
	tr.SetPos(pos)
}

// pushDir points from an obstacle to the mover, north when they coincide.
func pushDir(pos, from cp.Vector) cp.Vector {
	if d := common.NormalizeOrZero(pos.Sub(from)); d != (cp.Vector{}) {
		return d
	}
	return cp.Vector{Y: 1}
}
