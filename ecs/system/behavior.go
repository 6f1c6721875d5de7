package system

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/common"
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
)

// BehaviorSystem runs the enemy state machine once per tick for every live
// enemy, switching on its kind.
type BehaviorSystem struct{}

func NewBehaviorSystem() *BehaviorSystem {
	return &BehaviorSystem{}
}

// actor bundles the components every enemy behaviour reads.
type actor struct {
	e        ecs.Entity
	enemy    *component.Enemy
	tr       *component.Transform
	patrol   *component.Patrol
	alert    *component.Alert
	move     *component.Movement
	behavior *component.Behavior
}

func (a actor) pos() cp.Vector {
	return a.tr.Pos()
}

func (s *BehaviorSystem) Update(w *ecs.World, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	_, player, ok := entity.Player(w)
	if !ok {
		return
	}

	for _, e := range ecs.Collect(w, component.EnemyComponent.Kind()) {
		if ecs.Has(w, e, component.DeathEffectComponent.Kind()) {
			continue
		}
		a, ok := loadActor(w, e)
		if !ok {
			continue
		}

		switch a.enemy.Kind {
		case component.EnemySlime, component.EnemyMimic:
			s.updateMelee(a, player, dt)
		case component.EnemyCyclops:
			charge, ok := ecs.Get(w, e, component.ChargeComponent.Kind())
			if !ok {
				s.updateMelee(a, player, dt)
				continue
			}
			s.updateCyclops(a, charge, player, dt)
		case component.EnemySpider:
			shooter, ok := ecs.Get(w, e, component.WebShooterComponent.Kind())
			if !ok {
				continue
			}
			s.updateSpider(w, a, shooter, player, dt)
		case component.EnemyBoss:
			caster, ok := ecs.Get(w, e, component.CasterComponent.Kind())
			if !ok {
				continue
			}
			s.updateBoss(w, a, caster, player, dt)
		}
	}
}

func loadActor(w *ecs.World, e ecs.Entity) (actor, bool) {
	a := actor{e: e}
	var ok bool
	if a.enemy, ok = ecs.Get(w, e, component.EnemyComponent.Kind()); !ok {
		return a, false
	}
	if a.tr, ok = ecs.Get(w, e, component.TransformComponent.Kind()); !ok {
		return a, false
	}
	if a.patrol, ok = ecs.Get(w, e, component.PatrolComponent.Kind()); !ok {
		return a, false
	}
	if a.alert, ok = ecs.Get(w, e, component.AlertComponent.Kind()); !ok {
		return a, false
	}
	if a.move, ok = ecs.Get(w, e, component.MovementComponent.Kind()); !ok {
		return a, false
	}
	if a.behavior, ok = ecs.Get(w, e, component.BehaviorComponent.Kind()); !ok {
		return a, false
	}
	return a, true
}

// updateMelee drives slimes and awakened mimics.
func (s *BehaviorSystem) updateMelee(a actor, player cp.Vector, dt float64) {
	dist := a.pos().Distance(player)

	if a.behavior.State.Maneuvering() {
		a.behavior.State = component.StatePatrolling
	}
	switch a.behavior.State {
	case component.StatePatrolling:
		if dist <= a.alert.Trigger {
			a.behavior.State = component.StateChasing
		}
	case component.StateChasing:
		if dist > a.alert.Leash {
			a.behavior.State = component.StatePatrolling
			a.patrol.Direction = directionHome(a)
		}
	}

	if a.behavior.State == component.StateChasing {
		next := common.MoveTowards(a.pos(), player, a.move.ChaseSpeed*dt)
		setFacing(a, next.X-a.tr.X)
		a.tr.SetPos(next)
		return
	}
	patrolStep(a, a.move.PatrolSpeed, dt)
}

func (s *BehaviorSystem) updateCyclops(a actor, c *component.Charge, player cp.Vector, dt float64) {
	if !c.Ready {
		c.Cooldown.Tick(dt)
		if c.Cooldown.Finished() {
			c.Ready = true
		}
	}

	toPlayer := player.Sub(a.pos())
	dist := toPlayer.Length()

	switch a.behavior.State {
	case component.StateWindUp:
		if f := common.NormalizeOrZero(toPlayer); f != (cp.Vector{}) {
			c.Facing = f
		}
		if c.Windup.Tick(dt) {
			c.Dash.Reset()
			if c.Facing == (cp.Vector{}) {
				c.Facing = cp.Vector{X: a.patrol.Direction}
			}
			a.behavior.State = component.StateCharging
			slog.Debug("cyclops charging", "entity", a.e, "facing_x", c.Facing.X)
		}
		return
	case component.StateCharging:
		done := c.Dash.Tick(dt) || c.Dash.Finished()
		x := a.patrol.ClampX(a.tr.X + c.Facing.X*a.move.ChaseSpeed*c.Multiplier*dt)
		a.tr.X = x
		a.tr.Y = a.patrol.Origin.Y
		lo, hi := a.patrol.Bounds()
		if done || x-lo <= 1 || hi-x <= 1 {
			a.behavior.State = component.StatePatrolling
			if d := common.Sign(c.Facing.X); d != 0 {
				a.patrol.Direction = d
			}
			c.Cooldown.Reset()
			c.Ready = false
		}
		return
	}

	if dist <= a.alert.Trigger {
		if c.Ready {
			c.Windup.Reset()
			c.Facing = common.NormalizeOrZero(toPlayer)
			if c.Facing == (cp.Vector{}) {
				c.Facing = cp.Vector{X: a.patrol.Direction}
			}
			a.behavior.State = component.StateWindUp
			return
		}
		a.behavior.State = component.StateChasing
		chaseX(a, player.X, a.move.ChaseSpeed, dt)
		return
	}

	if dist > a.alert.Leash && a.behavior.State == component.StateChasing {
		a.behavior.State = component.StatePatrolling
		a.patrol.Direction = directionHome(a)
	}
	if a.behavior.State == component.StateChasing {
		chaseX(a, player.X, a.move.ChaseSpeed, dt)
		return
	}
	patrolStep(a, a.move.PatrolSpeed, dt)
}

func (s *BehaviorSystem) updateSpider(w *ecs.World, a actor, shooter *component.WebShooter, player cp.Vector, dt float64) {
	a.behavior.State = component.StatePatrolling
	dist := a.pos().Distance(player)

	dir := a.patrol.Direction
	if dir == 0 {
		dir = 1
	}
	lo, hi := a.patrol.Bounds()
	step := a.move.PatrolSpeed * dt
	if dist < shooter.MinDistance {
		if away := -common.Sign(player.X - a.tr.X); away != 0 {
			dir = away
		}
		if projected := a.tr.X + dir*step; projected < lo || projected > hi {
			dir = -dir
		}
	}
	a.patrol.Direction = dir
	patrolStep(a, a.move.PatrolSpeed, dt)

	shooter.Cooldown.Tick(dt)
	if !shooter.Cooldown.Finished() || dist < shooter.MinDistance || dist > shooter.Radius {
		return
	}
	aim := common.NormalizeOrZero(player.Sub(a.pos()))
	if aim == (cp.Vector{}) {
		return
	}
	origin := a.pos().Add(aim.Mult(shooter.SpawnOffset + shooter.HalfLength))
	if _, err := entity.NewWeb(w, origin, aim, attackOf(w, a.e), shooter); err != nil {
		slog.Warn("spider web spawn failed", "entity", a.e, "err", err)
		return
	}
	shooter.Cooldown.Reset()
}

func (s *BehaviorSystem) updateBoss(w *ecs.World, a actor, caster *component.Caster, player cp.Vector, dt float64) {
	caster.Cooldown.Tick(dt)
	dist := a.pos().Distance(player)
	if dist > a.alert.Trigger {
		a.behavior.State = component.StatePatrolling
		patrolStep(a, a.move.PatrolSpeed, dt)
		return
	}

	a.behavior.State = component.StateChasing
	dx := player.X - a.tr.X
	switch {
	case dist < caster.CastMinDistance:
		a.tr.X -= common.Sign(dx) * a.move.ChaseSpeed * dt
	case dist > caster.Radius:
		a.tr.X += common.Sign(dx) * a.move.PatrolSpeed * dt
	}
	a.tr.X = a.patrol.ClampX(a.tr.X)
	a.tr.Y = a.patrol.Origin.Y
	if d := common.Sign(dx); d != 0 {
		a.patrol.Direction = d
	}

	if dist > caster.Radius || !caster.Cooldown.Finished() {
		return
	}
	aim := common.NormalizeOrZero(player.Sub(a.pos()))
	if aim == (cp.Vector{}) {
		return
	}
	origin := a.pos().Add(aim.Mult(caster.SpawnOffset))
	if _, err := entity.NewBolt(w, origin, aim, attackOf(w, a.e), caster); err != nil {
		slog.Warn("boss bolt spawn failed", "entity", a.e, "err", err)
		return
	}
	caster.Cooldown.Reset()
	w.Emit(component.SpellCastEvent{Caster: a.enemy.Name})
}

// patrolStep paces the patrol band, flipping at either bound, with y pinned
// to the patrol row.
func patrolStep(a actor, speed, dt float64) {
	if a.patrol.Direction == 0 {
		a.patrol.Direction = 1
	}
	lo, hi := a.patrol.Bounds()
	x := a.tr.X + a.patrol.Direction*speed*dt
	if x <= lo {
		x = lo
		a.patrol.Direction = 1
	} else if x >= hi {
		x = hi
		a.patrol.Direction = -1
	}
	a.tr.X = x
	a.tr.Y = a.patrol.Origin.Y
}

// chaseX closes the horizontal gap to targetX without overshooting and
// without leaving the patrol band.
func chaseX(a actor, targetX, speed, dt float64) {
	dx := targetX - a.tr.X
	step := math.Min(math.Abs(dx), speed*dt)
	a.tr.X = a.patrol.ClampX(a.tr.X + common.Sign(dx)*step)
	a.tr.Y = a.patrol.Origin.Y
	setFacing(a, dx)
}

func setFacing(a actor, vx float64) {
	if math.Abs(vx) > common.Epsilon {
		a.patrol.Direction = common.Sign(vx)
	}
}

func directionHome(a actor) float64 {
	if a.tr.X >= a.patrol.Origin.X {
		return -1
	}
	return 1
}

func attackOf(w *ecs.World, e ecs.Entity) int {
	if atk, ok := ecs.Get(w, e, component.AttackComponent.Kind()); ok {
		return atk.Value()
	}
	return 0
}
