// Package events defines the observable events the coordinator emits to
// its surrounding channel layer. The coordinator never assumes a
// transport for them; callers supply a Sink.
package events

import "time"

// EventType identifies an event for routing/filtering.
type EventType string

const (
	TypeStreamAdded            EventType = "stream.added"
	TypeStreamRemoved          EventType = "stream.removed"
	TypeStreamStateChanged     EventType = "stream.state_changed"
	TypeStreamDirectionChanged EventType = "stream.direction_changed"
	TypeHoldStateChanged       EventType = "session.hold_state_changed"
	TypeCallStateChanged       EventType = "session.call_state_changed"
	TypeSessionStateChanged    EventType = "session.state_changed"
	TypeNewStreamHandler       EventType = "session.new_stream_handler"
)

// Event is the interface every observable event implements.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	SessionID() string
}

// BaseEvent carries the fields common to all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
	SessID    string
}

func (b BaseEvent) Type() EventType      { return b.EventType }
func (b BaseEvent) Timestamp() time.Time { return b.EventTime }
func (b BaseEvent) SessionID() string    { return b.SessID }

// MediaType mirrors stream.MediaType without importing it, to keep this
// package free of a dependency on the stream package.
type MediaType uint8

const (
	MediaAudio MediaType = iota
	MediaVideo
)

// StreamAdded fires when a new stream slot is created, locally or from
// a remote m-line.
type StreamAdded struct {
	BaseEvent
	StreamID  int
	Peer      string
	MediaType MediaType
}

// StreamRemoved fires when a stream slot's tombstone is set.
type StreamRemoved struct {
	BaseEvent
	StreamID int
}

// StreamStateChanged forwards a media-backend state transition
// (e.g. Connected) for a stream.
type StreamStateChanged struct {
	BaseEvent
	StreamID int
	State    string
}

// StreamDirectionChanged fires when a stream's achieved direction or
// pending-send bitset changes.
type StreamDirectionChanged struct {
	BaseEvent
	StreamID   int
	Direction  uint8
	PendingSend uint8
}

// HoldStateChanged fires when the session-wide hold state changes.
type HoldStateChanged struct {
	BaseEvent
	State  string
	Reason string
}

// CallStateChanged carries CallState flag transitions; the Held bit
// flips on remote hold independent of the local hold state machine.
type CallStateChanged struct {
	BaseEvent
	Peer        string
	AddFlags    uint8
	RemoveFlags uint8
}

// CallState flag bits used by CallStateChanged.
const (
	CallStateHeld uint8 = 1 << iota
)

// SessionStateChanged fires on every session state-machine transition.
type SessionStateChanged struct {
	BaseEvent
	Old string
	New string
}

// NewStreamHandler fires when the media backend reports readiness and,
// per stream, on Accept.
type NewStreamHandler struct {
	BaseEvent
	ObjectPath string
	StreamID   int
	MediaType  MediaType
	Direction  uint8
}

// Sink receives emitted events. The coordinator holds one but is
// agnostic to what lies behind it (channel, D-Bus, NATS, a test slice).
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Collector is an in-memory Sink, used by tests to assert on the
// sequence of events a session emitted.
type Collector struct {
	Events []Event
}

func (c *Collector) Emit(e Event) {
	c.Events = append(c.Events, e)
}
