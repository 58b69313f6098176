package event

import "github.com/thiagokokada/hostapd-go"

const (
	IdentStationConnected    = "AP-STA-CONNECTED"
	IdentStationDisconnected = "AP-STA-DISCONNECTED"
)

// Event is one of [StationConnected], [StationDisconnected] or [Other].
type Event interface {
	// Identifier of the event on the wire, e.g. 'AP-STA-CONNECTED'.
	Identifier() string
	isEvent()
}

type StationConnected struct {
	Address hostapd.HardwareAddr
}

type StationDisconnected struct {
	Address hostapd.HardwareAddr
}

// Other is any event without a dedicated type, e.g. 'CTRL-EVENT-EAP-STARTED'.
type Other struct {
	Ident string
	Args  []string
}

func (StationConnected) Identifier() string    { return IdentStationConnected }
func (StationDisconnected) Identifier() string { return IdentStationDisconnected }
func (o Other) Identifier() string             { return o.Ident }

func (StationConnected) isEvent()    {}
func (StationDisconnected) isEvent() {}
func (Other) isEvent()               {}

// EventHandler receives parsed events from [Loop].
// Embed [DefaultEventHandler] to only implement the methods you care about.
type EventHandler interface {
	StationConnected(StationConnected)
	StationDisconnected(StationDisconnected)
	Other(Other)
}

// ErrorHandler may be implemented by an [EventHandler] to be notified of
// events that could not be parsed. The loop skips them either way.
type ErrorHandler interface {
	ParseError(raw string, err error)
}
