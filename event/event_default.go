package event

// DefaultEventHandler is an implementation of [EventHandler] interface with
// all handlers doing nothing. It is a good starting point to be embedded your
// own struct to be extended.
type DefaultEventHandler struct{}

func (e *DefaultEventHandler) StationConnected(StationConnected)       {}
func (e *DefaultEventHandler) StationDisconnected(StationDisconnected) {}
func (e *DefaultEventHandler) Other(Other)                             {}
