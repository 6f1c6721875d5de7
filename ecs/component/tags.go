package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// LevelScoped marks entities torn down when the next level is laid out.
type LevelScoped struct{}

var LevelScopedComponent = NewComponent[LevelScoped]()

type BossTag struct{}

var BossTagComponent = NewComponent[BossTag]()

// PlayerDead is set while the player waits for a respawn.
type PlayerDead struct{}

var PlayerDeadComponent = NewComponent[PlayerDead]()
