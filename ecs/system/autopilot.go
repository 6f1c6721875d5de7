package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

const (
	defaultRepathTicks = 15
	// waypointReach is the fraction of a tile that counts as arriving.
	waypointReach = 0.3
)

// AutopilotSystem writes PlayerInput for a player carrying Autopilot. It
// fights whatever is in reach, then walks to chests, loot, the exit portal
// and finally the nearest enemy.
type AutopilotSystem struct {
	tuning *prefabs.Tuning
}

func NewAutopilotSystem(tuning *prefabs.Tuning) *AutopilotSystem {
	return &AutopilotSystem{tuning: tuning}
}

func (s *AutopilotSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.tuning == nil {
		return
	}
	player, pos, ok := entity.Player(w)
	if !ok {
		return
	}
	pilot, ok := ecs.Get(w, player, component.AutopilotComponent.Kind())
	if !ok {
		return
	}
	input, ok := ecs.Get(w, player, component.PlayerInputComponent.Kind())
	if !ok {
		return
	}
	*input = component.PlayerInput{}
	if ecs.Has(w, player, component.PlayerDeadComponent.Kind()) {
		return
	}
	rt, ok := entity.LevelRuntime(w)
	if !ok {
		return
	}
	spec := s.tuning.Player

	if _, foePos, ok := nearestEnemy(w, pos); ok && foePos.Distance(pos) <= pilot.EngageRange {
		toFoe := foePos.Sub(pos)
		input.Aim = toFoe
		if toFoe.Length() > spec.ReticleDistance*0.75 {
			input.Move = toFoe
		}
		if st, ok := ecs.Get(w, player, component.StaminaComponent.Kind()); ok && st.Current >= spec.AttackStaminaCost {
			input.Attack = toFoe.Length() <= spec.ReticleDistance+spec.AttackRadius
		}
		return
	}

	goal, interact, ok := s.objective(w, pos)
	if !ok {
		return
	}
	if interact && goal.Distance(pos) <= spec.InteractRadius {
		input.Interact = true
		return
	}

	route, ok := ecs.Get(w, player, component.RouteComponent.Kind())
	if !ok {
		input.Move = goal.Sub(pos)
		return
	}
	grid := rt.Grid
	target := grid.GridPosOf(goal)
	next, ok := follow(route, target, pos, grid.TileSize(), func() []cp.Vector {
		return waypoints(grid, findPath(grid, grid.GridPosOf(pos), target))
	})
	if !ok {
		next = goal
	}
	input.Move = next.Sub(pos)
}

// objective picks where to walk when nothing is in reach. interact is set
// when arriving should press the interact button.
func (s *AutopilotSystem) objective(w *ecs.World, pos cp.Vector) (cp.Vector, bool, bool) {
	if chest, ok := nearestWhere(w, pos, component.ChestComponent.Kind(), func(c *component.Chest) bool {
		return c.State == component.ChestClosed
	}); ok {
		return chest, true, true
	}
	if loot, ok := nearestWhere(w, pos, component.PickupComponent.Kind(), nil); ok {
		return loot, false, true
	}
	if portal, ok := nearestWhere(w, pos, component.ExitPortalComponent.Kind(), nil); ok {
		return portal, false, true
	}
	if _, foe, ok := nearestEnemy(w, pos); ok {
		return foe, false, true
	}
	return cp.Vector{}, false, false
}

// follow advances route toward goal and returns the next waypoint. The path
// is rebuilt when the goal tile changes or every RepathTicks.
func follow(route *component.Route, goal layout.GridPos, pos cp.Vector, tileSize float64, plan func() []cp.Vector) (cp.Vector, bool) {
	if route.RepathTicks <= 0 {
		route.RepathTicks = defaultRepathTicks
	}
	route.Counter++
	if !route.HasGoal || route.Goal != goal || route.Counter >= route.RepathTicks || len(route.Waypoints) == 0 {
		route.Goal, route.HasGoal = goal, true
		route.Counter = 0
		route.Waypoints = plan()
	}
	for len(route.Waypoints) > 0 && route.Waypoints[0].Distance(pos) <= tileSize*waypointReach {
		route.Waypoints = route.Waypoints[1:]
	}
	if len(route.Waypoints) == 0 {
		return cp.Vector{}, false
	}
	return route.Waypoints[0], true
}

// nearestEnemy ignores enemies already fading out.
func nearestEnemy(w *ecs.World, pos cp.Vector) (ecs.Entity, cp.Vector, bool) {
	var (
		best     ecs.Entity
		bestPos  cp.Vector
		bestDist = math.Inf(1)
	)
	ecs.ForEach3(w, component.EnemyComponent.Kind(), component.TransformComponent.Kind(), component.HealthComponent.Kind(),
		func(e ecs.Entity, _ *component.Enemy, tr *component.Transform, h *component.Health) {
			if h.Dead() || ecs.Has(w, e, component.DeathEffectComponent.Kind()) {
				return
			}
			if d := tr.Pos().Distance(pos); d < bestDist {
				best, bestPos, bestDist = e, tr.Pos(), d
			}
		})
	return best, bestPos, best != 0
}

func nearestWhere[T any](w *ecs.World, pos cp.Vector, kind component.ComponentKind[T], keep func(*T) bool) (cp.Vector, bool) {
	bestDist := math.Inf(1)
	var best cp.Vector
	ecs.ForEach2(w, kind, component.TransformComponent.Kind(), func(_ ecs.Entity, v *T, tr *component.Transform) {
		if keep != nil && !keep(v) {
			return
		}
		if d := tr.Pos().Distance(pos); d < bestDist {
			best, bestDist = tr.Pos(), d
		}
	})
	return best, !math.IsInf(bestDist, 1)
}
