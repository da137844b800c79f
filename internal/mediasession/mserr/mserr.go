// Package mserr defines the media-session coordinator's error kinds and
// the typed errors built from them, independent of any SIP response code.
package mserr

import "fmt"

// Kind classifies a coordinator error, per the propagation policy: some
// kinds are synchronous client-call failures, others drive a protocol
// recovery (rollback, glare) or terminate the session.
type Kind int

const (
	// InvalidArgument: bad stream ID, unsupported media type, DTMF on video.
	InvalidArgument Kind = iota
	// NotAvailable: resource missing — backend busy, empty codec intersection.
	NotAvailable
	// ProtocolError: malformed SDP, m-line count mismatch with the answer.
	ProtocolError
	// PeerRejected: 4xx/5xx/6xx from the peer. Terminal.
	PeerRejected
	// Glare: recoverable, drives ReinvitePending.
	Glare
	// Fatal: backend lost or dialog destroyed. Terminal.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case NotAvailable:
		return "not_available"
	case ProtocolError:
		return "protocol_error"
	case PeerRejected:
		return "peer_rejected"
	case Glare:
		return "glare"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a sentinel-comparable error carrying its Kind, a message and,
// for stream-scoped errors, the ID of the stream that triggered it.
type Error struct {
	Kind     Kind
	Msg      string
	StreamID int // -1 if not stream-scoped
}

func (e *Error) Error() string {
	if e.StreamID >= 0 {
		return fmt.Sprintf("mediasession: %s: stream %d: %s", e.Kind, e.StreamID, e.Msg)
	}
	return fmt.Sprintf("mediasession: %s: %s", e.Kind, e.Msg)
}

// Is lets errors.Is(err, mserr.ErrGlare) and friends match by Kind,
// ignoring the message and stream ID.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a session-scoped (non-stream) error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, StreamID: -1}
}

// NewStream builds a stream-scoped error of the given kind.
func NewStream(kind Kind, streamID int, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, StreamID: streamID}
}

// Sentinel values for errors.Is comparisons against a Kind alone.
var (
	ErrInvalidArgument = New(InvalidArgument, "")
	ErrNotAvailable    = New(NotAvailable, "")
	ErrProtocolError   = New(ProtocolError, "")
	ErrPeerRejected    = New(PeerRejected, "")
	ErrGlare           = New(Glare, "")
	ErrFatal           = New(Fatal, "")
)
