package system

import (
	"github.com/milk9111/dungeoncrawler/ecs"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/ecs/entity"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

// ProgressionSystem awards experience for this tick's defeats. Surplus
// experience carries over into the next level; at the level cap it is
// discarded.
type ProgressionSystem struct {
	tuning *prefabs.Tuning
}

func NewProgressionSystem(tuning *prefabs.Tuning) *ProgressionSystem {
	return &ProgressionSystem{tuning: tuning}
}

func (s *ProgressionSystem) Update(w *ecs.World, _ float64) {
	if w == nil || s.tuning == nil {
		return
	}
	defeats := ecs.EventsOf[component.EnemyDefeatedEvent](w.Events().Pending())
	if len(defeats) == 0 {
		return
	}
	e, _, ok := entity.Player(w)
	if !ok {
		return
	}
	prog, ok := ecs.Get(w, e, component.ProgressionComponent.Kind())
	if !ok {
		return
	}

	table := s.tuning.Player.Progression
	prog.Level = max(1, prog.Level)
	for _, ev := range defeats {
		prog.XP += ev.XP
	}
	for prog.Level < table.MaxLevel() {
		need := table.XPToNext[prog.Level-1]
		if prog.XP < need {
			break
		}
		prog.XP -= need
		prog.Level++
		entity.RefreshPlayerStats(w, e, s.tuning.Player)
		w.Emit(component.PlayerLevelUpEvent{
			Level:   prog.Level,
			Attack:  attackOf(w, e),
			Defense: defenseOf(w, e),
		})
	}
	if prog.Level >= table.MaxLevel() {
		prog.XP = 0
	}
}

func defenseOf(w *ecs.World, e ecs.Entity) int {
	if d, ok := ecs.Get(w, e, component.DefenseComponent.Kind()); ok {
		return d.Value()
	}
	return 0
}
