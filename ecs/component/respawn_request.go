package component

// PlayerRespawnRequest asks the respawn system to restore the player at the
// level spawn point and reset the enemy roster.
type PlayerRespawnRequest struct{}

var PlayerRespawnRequestComponent = NewComponent[PlayerRespawnRequest]()
