package component

// BehaviorState is the enemy state machine position.
type BehaviorState int

const (
	StatePatrolling BehaviorState = iota
	StateChasing
	StateWindUp
	StateCharging
)

func (s BehaviorState) String() string {
	switch s {
	case StatePatrolling:
		return "patrolling"
	case StateChasing:
		return "chasing"
	case StateWindUp:
		return "windup"
	case StateCharging:
		return "charging"
	}
	return "unknown"
}

// Maneuvering reports whether the state is one of the exclusive charge
// phases.
func (s BehaviorState) Maneuvering() bool {
	return s == StateWindUp || s == StateCharging
}

type Behavior struct {
	State BehaviorState
}

var BehaviorComponent = NewComponent[Behavior]()
