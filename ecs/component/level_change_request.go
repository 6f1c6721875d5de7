package component

// LevelAdvanceRequest is a one-shot request from the interaction layer (or the
// exit portal) to build level Target. The level orchestrator consumes it.
type LevelAdvanceRequest struct {
	Target int
}

var LevelAdvanceRequestComponent = NewComponent[LevelAdvanceRequest]()
