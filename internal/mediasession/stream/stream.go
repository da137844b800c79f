package stream

import (
	"fmt"
	"log/slog"

	"github.com/sebas/mediasession/internal/mediasession/mserr"
	"github.com/sebas/mediasession/internal/mediasession/sdpview"
)

// Stream is one m-line slot in a session's stream vector: its achieved
// and requested direction, pending-approval bits, hold state and link
// to the media backend. Transitions are driven exclusively by Session
// operations or MediaPort callbacks relayed through Session.
type Stream struct {
	ID          int
	MediaType   MediaType
	Direction   Direction // achieved
	Requested   Direction // last asked for, may exceed Direction while pending
	PendingSend PendingSend

	NativeTransportRating int
	CodecIntersectPending bool
	HoldState             bool
	LocalReady            bool
	Closed                bool

	BackendHandle any
}

// New creates an open Stream slot at id with no achieved direction yet.
func New(id int, mt MediaType) *Stream {
	return &Stream{ID: id, MediaType: mt}
}

// SetDirection records a client- or Session-driven direction request.
// The achieved Direction becomes requested with the pending-gated bits
// masked off; Requested always records the raw ask.
func (s *Stream) SetDirection(requested Direction, pendingSendMask PendingSend) {
	s.Requested = requested
	s.Direction = gate(requested, pendingSendMask)
	slog.Debug("stream direction set", "stream", s.ID, "requested", requested, "achieved", s.Direction)
}

// ApplyPendingSend clears the listed bits from PendingSend, possibly
// widening the effective Direction toward Requested. It returns whether
// anything changed, so Session can decide whether to re-evaluate.
func (s *Stream) ApplyPendingSend(mask PendingSend) bool {
	if s.PendingSend&mask == 0 {
		return false
	}
	s.PendingSend &^= mask
	before := s.Direction
	s.Direction = gate(s.Requested, s.PendingSend)
	changed := before != s.Direction
	if changed {
		slog.Debug("stream pending send cleared", "stream", s.ID, "direction", s.Direction)
	}
	return changed
}

// SetRemoteMedia absorbs the peer's m-line. directionUpMask limits which
// bits the peer may newly grant (0 during an answer, since the peer can
// only narrow); bits newly granted are recorded in PendingSend so a
// local approval step (ApplyPendingSend) must confirm them before they
// take effect on the local side's notion of "achieved".
func (s *Stream) SetRemoteMedia(desc sdpview.MediaDesc, directionUpMask Direction, pendingSendMask PendingSend) error {
	if desc.Type != s.MediaType.String() {
		s.Closed = true
		return mserr.NewStream(mserr.ProtocolError, s.ID, fmt.Sprintf("media type changed from %s to %s", s.MediaType, desc.Type))
	}

	peerDirection := Direction(desc.Direction)
	newDirection := (s.Direction | (peerDirection & directionUpMask)) & peerDirection

	grantedByPeer := newDirection &^ s.Direction
	if grantedByPeer != 0 {
		if grantedByPeer&DirSend != 0 {
			pendingSendMask |= PendingLocalSend
		}
		if grantedByPeer&DirRecv != 0 {
			pendingSendMask |= PendingRemoteSend
		}
	}

	s.Requested = newDirection
	s.Direction = gate(newDirection, pendingSendMask)
	s.PendingSend = pendingSendMask
	s.CodecIntersectPending = true

	return nil
}

// StartTelephonyEvent begins sending a DTMF digit; audio only.
func (s *Stream) StartTelephonyEvent(digit uint8) error {
	if s.MediaType != MediaAudio {
		return mserr.NewStream(mserr.InvalidArgument, s.ID, fmt.Sprintf("non-audio stream %d does not support telephony events", s.ID))
	}
	return nil
}

// StopTelephonyEvent ends an in-progress DTMF digit; audio only.
func (s *Stream) StopTelephonyEvent() error {
	if s.MediaType != MediaAudio {
		return mserr.NewStream(mserr.InvalidArgument, s.ID, fmt.Sprintf("non-audio stream %d does not support telephony events", s.ID))
	}
	return nil
}

// RequestHoldState asks the stream to converge to target; the caller
// (Session) invokes the backend and learns whether a round trip is
// needed by inspecting this return, then later observes the backend's
// hold_state_changed callback to confirm. The boolean here reflects
// only whether the stream already matches target.
func (s *Stream) RequestHoldState(target bool) (needsRoundTrip bool) {
	return s.HoldState != target
}

// Close is idempotent: repeated calls are no-ops.
func (s *Stream) Close() {
	s.Closed = true
}
