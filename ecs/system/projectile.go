package system

import (
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/common"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/layout"
)

// occludingPriority is the lowest projectile priority that stops a
// projectile: closed doors and walls.
const occludingPriority = 2

// occlusionSamples is how many points along the swept path are tested.
const occlusionSamples = 5

// poisonTickSeconds is how often web poison deals its damage.
const poisonTickSeconds = 1.0

// ProjectileSystem moves bolts and webs, stops them on walls and closed
// doors, and resolves hits against the player.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

func (s *ProjectileSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	var grid *layout.Grid
	if rt, ok := entity.LevelRuntime(w); ok {
		grid = rt.Grid
	}
	_, playerPos, hasPlayer := entity.Player(w)

	for _, e := range ecs.Collect(w, component.ProjectileComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.ProjectileComponent.Kind())
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			ecs.DestroyEntity(w, e)
			continue
		}

		prev := tr.Pos()
		next := prev.Add(p.Velocity.Mult(dt))
		tr.SetPos(next)
		expired := p.Lifetime.Tick(dt) || p.Lifetime.Finished()

		if grid != nil && occluded(grid, p, prev, next) {
			ecs.DestroyEntity(w, e)
			continue
		}
		if hasPlayer && touches(p, next, playerPos) {
			if player, ok := livePlayer(w); ok {
				player.hit(w, p.Attack)
				if p.Kind == component.ProjectileWeb {
					poison(w, player.e, p)
				}
			}
			ecs.DestroyEntity(w, e)
			continue
		}
		if expired {
			ecs.DestroyEntity(w, e)
		}
	}
}

// occluded samples the path from prev to next, plus both web tips, against
// the grid's projectile priorities.
func occluded(grid *layout.Grid, p *component.Projectile, prev, next cp.Vector) bool {
	for i := range occlusionSamples {
		t := float64(i) / float64(occlusionSamples-1)
		if grid.ProjectilePriorityAt(common.LerpVector(prev, next, t)) >= occludingPriority {
			return true
		}
	}
	if p.HalfLength <= 0 {
		return false
	}
	dir := common.NormalizeOrZero(p.Velocity)
	for _, tip := range []cp.Vector{next.Add(dir.Mult(p.HalfLength)), next.Sub(dir.Mult(p.HalfLength))} {
		if grid.ProjectilePriorityAt(tip) >= occludingPriority {
			return true
		}
	}
	return false
}

// touches is a point test for bolts and a capsule test for webs.
func touches(p *component.Projectile, centre, player cp.Vector) bool {
	toPlayer := player.Sub(centre)
	if p.Kind != component.ProjectileWeb || p.HalfLength <= 0 {
		return toPlayer.Length() <= p.HitRadius
	}
	dir := common.NormalizeOrZero(p.Velocity)
	if dir == (cp.Vector{}) {
		return toPlayer.Length() <= p.HitRadius
	}
	along := toPlayer.Dot(dir)
	if along < -p.HalfLength || along > p.HalfLength {
		return false
	}
	perp := toPlayer.Sub(dir.Mult(along)).Length()
	return perp <= p.HitRadius
}

// poison refreshes an existing poison or applies a new one.
func poison(w *ecs.World, player ecs.Entity, p *component.Projectile) {
	if p.PoisonDamage <= 0 {
		return
	}
	if existing, ok := ecs.Get(w, player, component.PoisonedComponent.Kind()); ok {
		existing.Tick.Reset()
		existing.DamagePerTick = p.PoisonDamage
		return
	}
	seconds := p.PoisonSeconds
	if seconds <= 0 {
		seconds = poisonTickSeconds
	}
	status := component.NewPoisoned(seconds, p.PoisonDamage)
	if err := ecs.Add(w, player, component.PoisonedComponent.Kind(), &status); err != nil {
		slog.Warn("apply poison failed", "err", err)
	}
}
