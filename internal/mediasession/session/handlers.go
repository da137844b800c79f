package session

import (
	"log/slog"

	"github.com/sebas/mediasession/internal/mediasession/mserr"
	"github.com/sebas/mediasession/internal/mediasession/ports"
)

// HandleSignallingEvent dispatches one inbound SignallingPort event.
// Like evaluate, it assumes serialized invocation: this is the only
// entry point signalling events arrive through.
func (s *Session) HandleSignallingEvent(ev ports.SignallingEvent) error {
	if s.State == Ended {
		return nil // silent drop, per the idempotent-teardown policy
	}

	switch ev.Kind {
	case ports.EventInviteReceived:
		return s.handleInviteReceived(ev)
	case ports.EventReinviteReceived:
		return s.handleReinviteReceived(ev)
	case ports.EventRemoteSdp:
		return s.handleRemoteSdp(ev)
	case ports.EventFinalResponse:
		return s.handleFinalResponse(ev)
	case ports.EventBye:
		s.toEnded(nil)
		return nil
	case ports.EventCancelled:
		s.toEnded(nil)
		return nil
	case ports.EventGlareDetected:
		s.enterGlare()
		return nil
	case ports.EventSavedEventExpired:
		s.savedEvent = nil
		return nil
	}
	return mserr.New(mserr.ProtocolError, "unrecognized signalling event")
}

func (s *Session) handleInviteReceived(ev ports.SignallingEvent) error {
	if s.State != Created {
		return &StateTransitionError{From: s.State.String(), Event: "InviteReceived"}
	}
	s.RemoteInitiated = true
	s.savedEvent = ev.Token
	_ = s.sig.SendRinging()
	s.setState(InviteReceived)
	if len(ev.RemoteSDP) > 0 {
		if _, err := s.setRemoteMedia(ev.RemoteSDP, true); err != nil {
			slog.Warn("invalid initial offer", "session", s.ID, "error", err)
			return err
		}
	}
	s.evaluate()
	return nil
}

func (s *Session) handleReinviteReceived(ev ports.SignallingEvent) error {
	if s.State != Active && s.State != ReinvitePending && s.State != ReinviteSent {
		return &StateTransitionError{From: s.State.String(), Event: "ReinviteReceived"}
	}
	s.cancelGlareTimer()
	s.savedEvent = ev.Token
	s.setState(ReinviteReceived)
	if _, err := s.setRemoteMedia(ev.RemoteSDP, true); err != nil {
		slog.Warn("invalid re-invite offer", "session", s.ID, "error", err)
		s.rollback()
		return err
	}
	s.evaluate()
	return nil
}

func (s *Session) handleRemoteSdp(ev ports.SignallingEvent) error {
	switch s.State {
	case InviteSent:
		if _, err := s.setRemoteMedia(ev.RemoteSDP, false); err != nil {
			return err
		}
		s.setState(ResponseReceived)
		s.evaluate()
		return nil
	default:
		if _, err := s.setRemoteMedia(ev.RemoteSDP, false); err != nil {
			return err
		}
		s.evaluate()
		return nil
	}
}

func (s *Session) handleFinalResponse(ev ports.SignallingEvent) error {
	if ev.StatusCode >= 200 && ev.StatusCode < 300 {
		return nil
	}
	if ev.StatusCode == 491 {
		s.enterGlare()
		return nil
	}
	switch s.State {
	case InviteSent:
		s.toEnded(mserr.New(mserr.PeerRejected, "peer rejected initial invite"))
	case ReinviteSent:
		// a rejected re-INVITE does not tear down an already-established
		// call; fall back to Active with the prior media unchanged.
		s.setState(Active)
	}
	return nil
}

// HandleMediaCallback implements ports.MediaCallbacks.
func (s *Session) HandleMediaCallback(cb ports.MediaCallback) {
	if s.State == Ended {
		return
	}
	if cb.StreamID < 0 || cb.StreamID >= len(s.streams) || s.streams[cb.StreamID] == nil {
		return
	}
	st := s.streams[cb.StreamID]

	switch cb.Kind {
	case ports.CallbackReady:
		if !st.LocalReady {
			st.LocalReady = true
			if s.localNonReady > 0 {
				s.localNonReady--
			}
		}
		s.emit(s.evtb.NewStreamHandler("", st.ID, eventsMediaType(st), uint8(st.Direction)))
		s.evaluate()

	case ports.CallbackSupportedCodecs:
		st.CodecIntersectPending = false
		if cb.CodecCount == 0 {
			if s.State == ReinviteReceived {
				s.rollback()
				return
			}
			s.closeStream(st)
		}
		s.evaluate()

	case ports.CallbackHoldStateChanged:
		st.HoldState = cb.HoldAchieved
		switch {
		case s.HoldState == Unheld && cb.HoldAchieved:
			// peer-induced hold: no request of ours is in flight.
			s.HoldState = Held
			s.HoldReason = ReasonNone
			s.emit(s.evtb.HoldStateChanged(s.HoldState.String(), s.HoldReason.String()))
			s.finaliseHold()
		default:
			s.finaliseHold()
		}

	case ports.CallbackUnholdFailure:
		s.requestHold(true, ReasonResourceNotAvailable)

	case ports.CallbackLocalMediaUpdated:
		s.pendingOffer = true
		s.evaluate()

	case ports.CallbackClosed:
		s.closeStream(st)
	}
}
