package events

import "time"

// Builder provides fluent construction of session events with a
// consistent BaseEvent. Sessions hold one Builder per coordinator
// instance so every event it emits carries the same SessionID.
type Builder struct {
	sessionID string
	now       func() time.Time
}

// NewBuilder creates an event builder scoped to one session.
func NewBuilder(sessionID string) *Builder {
	return &Builder{sessionID: sessionID, now: time.Now}
}

// WithClock overrides the time source, for deterministic tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) base(t EventType) BaseEvent {
	return BaseEvent{EventType: t, EventTime: b.now(), SessID: b.sessionID}
}

func (b *Builder) StreamAdded(streamID int, peer string, mt MediaType) *StreamAdded {
	return &StreamAdded{
		BaseEvent: b.base(TypeStreamAdded),
		StreamID:  streamID,
		Peer:      peer,
		MediaType: mt,
	}
}

func (b *Builder) StreamRemoved(streamID int) *StreamRemoved {
	return &StreamRemoved{
		BaseEvent: b.base(TypeStreamRemoved),
		StreamID:  streamID,
	}
}

func (b *Builder) StreamStateChanged(streamID int, state string) *StreamStateChanged {
	return &StreamStateChanged{
		BaseEvent: b.base(TypeStreamStateChanged),
		StreamID:  streamID,
		State:     state,
	}
}

func (b *Builder) StreamDirectionChanged(streamID int, direction, pendingSend uint8) *StreamDirectionChanged {
	return &StreamDirectionChanged{
		BaseEvent:   b.base(TypeStreamDirectionChanged),
		StreamID:    streamID,
		Direction:   direction,
		PendingSend: pendingSend,
	}
}

func (b *Builder) HoldStateChanged(state, reason string) *HoldStateChanged {
	return &HoldStateChanged{
		BaseEvent: b.base(TypeHoldStateChanged),
		State:     state,
		Reason:    reason,
	}
}

func (b *Builder) CallStateChanged(peer string, addFlags, removeFlags uint8) *CallStateChanged {
	return &CallStateChanged{
		BaseEvent:   b.base(TypeCallStateChanged),
		Peer:        peer,
		AddFlags:    addFlags,
		RemoveFlags: removeFlags,
	}
}

func (b *Builder) SessionStateChanged(old, new string) *SessionStateChanged {
	return &SessionStateChanged{
		BaseEvent: b.base(TypeSessionStateChanged),
		Old:       old,
		New:       new,
	}
}

func (b *Builder) NewStreamHandler(objectPath string, streamID int, mt MediaType, direction uint8) *NewStreamHandler {
	return &NewStreamHandler{
		BaseEvent:  b.base(TypeNewStreamHandler),
		ObjectPath: objectPath,
		StreamID:   streamID,
		MediaType:  mt,
		Direction:  direction,
	}
}
