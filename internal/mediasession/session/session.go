// Package session implements the media-session coordinator's central
// state machine: one Session per SIP dialog, owning an ordered vector
// of Streams, composing and absorbing offer/answer SDP, and resolving
// glare and hold as single-threaded, event-driven state transitions.
package session

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/sebas/mediasession/internal/mediasession/clock"
	"github.com/sebas/mediasession/internal/mediasession/config"
	"github.com/sebas/mediasession/internal/mediasession/events"
	"github.com/sebas/mediasession/internal/mediasession/mserr"
	"github.com/sebas/mediasession/internal/mediasession/ports"
	"github.com/sebas/mediasession/internal/mediasession/sdpview"
	"github.com/sebas/mediasession/internal/mediasession/stream"
)

// Session owns one SIP dialog's media negotiation. All methods assume
// single-threaded, serialized invocation: the surrounding signalling
// and media layers must not call into a Session concurrently.
type Session struct {
	ID              string
	Peer            string
	State           State
	RemoteInitiated bool
	Accepted        bool
	MediaReady      bool
	RTCPEnabled     bool
	HoldState       HoldState
	HoldReason      HoldReason

	// IsCallIDOwner is true when this side generated the Call-ID (the
	// original INVITE's sender), which decides the glare back-off
	// interval this side uses.
	IsCallIDOwner bool

	streams           []*stream.Stream
	localNonReady     uint32
	remoteStreamCount uint32
	pendingOffer      bool

	remoteSDP       *sdpview.View
	backupRemoteSDP *sdpview.View

	savedEvent *ports.InboundRequestToken
	glareTimer *clock.TimerID

	cfg   *config.Config
	clk   clock.Clock
	sig   ports.SignallingPort
	media ports.MediaPort
	sink  events.Sink
	evtb  *events.Builder
}

// New constructs a Session in the Created state.
func New(peer string, cfg *config.Config, clk clock.Clock, sig ports.SignallingPort, media ports.MediaPort, sink events.Sink) *Session {
	id := uuid.New().String()
	return &Session{
		ID:          id,
		Peer:        peer,
		State:       Created,
		RTCPEnabled: cfg.RTCPEnabledByDefault,
		cfg:         cfg,
		clk:         clk,
		sig:         sig,
		media:       media,
		sink:        sink,
		evtb:        events.NewBuilder(id),
	}
}

func (s *Session) emit(e events.Event) {
	if s.sink != nil {
		s.sink.Emit(e)
	}
}

func (s *Session) setState(to State) {
	if s.State == to {
		return
	}
	from := s.State
	s.State = to
	slog.Info("session state transition", "session", s.ID, "from", from, "to", to)
	s.emit(s.evtb.SessionStateChanged(from.String(), to.String()))

	if to == Active {
		s.onEnterActive()
	}
}

// onEnterActive implements the supplemented behaviors from
// sip-media-session.c's priv_apply_streams_pending_send /
// tpsip_media_session_change_state: clearing leftover
// PendingRemoteSend bits and firing a queued offer immediately.
func (s *Session) onEnterActive() {
	for _, st := range s.streams {
		if st == nil || st.Closed {
			continue
		}
		if st.ApplyPendingSend(stream.PendingRemoteSend) {
			s.applyDirection(st)
		}
	}
	if s.pendingOffer {
		s.evaluate()
	}
}

// applyDirection pushes a stream's achieved Direction down to the media
// backend. Every place that changes Stream.Direction must call this so
// the RTP engine never silently diverges from the negotiated SDP.
func (s *Session) applyDirection(st *stream.Stream) {
	s.media.SetDirection(st.BackendHandle, uint8(st.Direction))
}

// openStreams returns the non-nil, non-closed streams in index order.
func (s *Session) openStreams() []*stream.Stream {
	var out []*stream.Stream
	for _, st := range s.streams {
		if st != nil && !st.Closed {
			out = append(out, st)
		}
	}
	return out
}

// --- Client API ---

// AddStream creates a new local stream slot and asks the backend to
// create its backend-side handle; the stream is not ready until the
// backend's CallbackReady fires.
func (s *Session) AddStream(mt stream.MediaType) (int, error) {
	if s.State == Ended {
		return 0, mserr.New(mserr.Fatal, "session already ended")
	}

	id := len(s.streams)
	st := stream.New(id, mt)
	s.streams = append(s.streams, st)
	s.localNonReady++

	handle, err := s.media.CreateStream(id, uint8(mt), uint8(stream.DirBidirectional), uint8(stream.PendingNone))
	if err != nil {
		s.streams[id] = nil
		s.localNonReady--
		return 0, mserr.NewStream(mserr.NotAvailable, id, err.Error())
	}
	st.BackendHandle = handle
	st.SetDirection(stream.DirBidirectional, stream.PendingNone)
	s.applyDirection(st)

	s.emit(s.evtb.StreamAdded(id, s.Peer, events.MediaType(mt)))
	s.pendingOffer = true
	s.evaluate()
	return id, nil
}

// RemoveStream closes a stream slot, preserving its index as a
// tombstone.
func (s *Session) RemoveStream(id int) error {
	st, err := s.mustStream(id)
	if err != nil {
		return err
	}
	s.closeStream(st)
	s.pendingOffer = true
	s.evaluate()
	return nil
}

func (s *Session) closeStream(st *stream.Stream) {
	if st.Closed {
		return
	}
	st.Closed = true
	s.media.Close(st.BackendHandle)
	s.emit(s.evtb.StreamRemoved(st.ID))
}

func (s *Session) mustStream(id int) (*stream.Stream, error) {
	if id < 0 || id >= len(s.streams) || s.streams[id] == nil {
		return nil, mserr.NewStream(mserr.InvalidArgument, id, "no such stream")
	}
	return s.streams[id], nil
}

// Accept marks an inbound session as locally accepted. A second call
// while already accepted is a silent no-op, matching
// tpsip_media_session_accept.
func (s *Session) Accept() error {
	if s.State == Ended {
		return mserr.New(mserr.Fatal, "session already ended")
	}
	if s.Accepted {
		return nil
	}
	s.Accepted = true
	for _, st := range s.streams {
		if st == nil {
			continue
		}
		if st.ApplyPendingSend(stream.PendingLocalSend | stream.PendingRemoteSend) {
			s.applyDirection(st)
		}
	}
	s.evaluate()
	return nil
}

// Terminate ends the session from any state: cancels an in-flight
// INVITE, sends BYE if established, or rejects an inbound INVITE.
func (s *Session) Terminate() error {
	if s.State == Ended {
		return nil
	}
	switch s.State {
	case Created:
		s.toEnded(nil)
	case InviteSent:
		_ = s.sig.SendCancel()
		s.toEnded(nil)
	case InviteReceived:
		_ = s.sig.SendRespond(480, nil, "Terminated", s.savedEvent)
		s.savedEvent = nil
		s.toEnded(nil)
	default:
		_ = s.sig.SendBye()
		s.toEnded(nil)
	}
	return nil
}

// toEnded performs the Ended-state cleanup mandated by section 5:
// close every stream idempotently, destroy the dialog, cancel the
// glare timer, and drop any saved event token.
func (s *Session) toEnded(rejectReason *mserr.Error) {
	for _, st := range s.streams {
		if st != nil {
			s.closeStream(st)
		}
	}
	s.cancelGlareTimer()
	s.savedEvent = nil
	_ = s.sig.DestroyDialog()
	s.setState(Ended)
	_ = rejectReason
}

// RequestStreamDirection applies a client direction change. Per the
// supplemented clamp (sip_media_session_request_stream_direction), a
// request made while an offer from the peer is still being processed
// (InviteReceived/ReinviteReceived) is masked down to what that offer
// actually granted, rather than applied verbatim.
func (s *Session) RequestStreamDirection(id int, requested stream.Direction) error {
	st, err := s.mustStream(id)
	if err != nil {
		return err
	}
	if s.State == InviteReceived || s.State == ReinviteReceived {
		requested &= st.Requested
	}
	before := st.Direction
	st.SetDirection(requested, st.PendingSend)
	if before != st.Direction {
		s.applyDirection(st)
		s.emit(s.evtb.StreamDirectionChanged(id, uint8(st.Direction), uint8(st.PendingSend)))
		s.pendingOffer = true
	}
	s.evaluate()
	return nil
}

// StartDTMF begins a telephony event on an audio stream.
func (s *Session) StartDTMF(id int, digit uint8) error {
	st, err := s.mustStream(id)
	if err != nil {
		return err
	}
	if err := st.StartTelephonyEvent(digit); err != nil {
		return err
	}
	return s.media.SendDTMF(st.BackendHandle, digit)
}

// StopDTMF ends an in-progress telephony event.
func (s *Session) StopDTMF(id int) error {
	st, err := s.mustStream(id)
	if err != nil {
		return err
	}
	if err := st.StopTelephonyEvent(); err != nil {
		return err
	}
	s.media.StopDTMF(st.BackendHandle)
	return nil
}

// RateTransport scores a candidate transport address: +1 for UDP at
// the configured local_ip, 0 for any other UDP address, -1 for
// anything else. IPv6 is not handled distinctly — a known gap, see
// DESIGN.md.
func (s *Session) RateTransport(addr, proto string) int {
	if proto != "UDP" && proto != "udp" {
		return -1
	}
	if addr == s.cfg.LocalIP {
		return 1
	}
	return 0
}
