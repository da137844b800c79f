package session

import (
	"fmt"

	"github.com/sebas/mediasession/internal/mediasession/events"
	"github.com/sebas/mediasession/internal/mediasession/mserr"
	"github.com/sebas/mediasession/internal/mediasession/stream"
)

// StateTransitionError reports an inbound INVITE or re-INVITE that
// arrived in a state with no transition for it. Other signalling events
// with no transition from the current state (glare, final responses)
// are ignored without an error, and in Ended Session drops every event.
type StateTransitionError struct {
	From  string
	Event string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("mediasession: no transition for event %q from state %q", e.Event, e.From)
}

func (e *StateTransitionError) Unwrap() error {
	return mserr.ErrProtocolError
}

func eventsMediaType(st *stream.Stream) events.MediaType {
	if st.MediaType == stream.MediaVideo {
		return events.MediaVideo
	}
	return events.MediaAudio
}
