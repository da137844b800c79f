package session

import (
	"log/slog"

	"github.com/sebas/mediasession/internal/mediasession/stream"
)

// RequestHold is the client-facing entry point for placing or releasing
// the session-wide hold.
func (s *Session) RequestHold(target bool) error {
	s.requestHold(target, ReasonRequested)
	return nil
}

// requestHold drives the hold state machine toward target, per the
// "Hold aggregation" algorithm: redundant requests are logged and
// dropped, each open stream is asked to converge, and the session
// enters a Pending* meta-state until every stream confirms.
func (s *Session) requestHold(target bool, reason HoldReason) {
	if s.atHoldTarget(target) {
		slog.Debug("redundant hold request", "session", s.ID, "target", target)
		return
	}

	needsRoundTrip := false
	for _, st := range s.openStreams() {
		if st.RequestHoldState(target) {
			needsRoundTrip = true
			s.media.RequestHold(st.BackendHandle, target)
		} else {
			st.HoldState = target
		}
	}

	if needsRoundTrip {
		if target {
			s.HoldState = PendingHold
		} else {
			s.HoldState = PendingUnhold
		}
	} else if target {
		s.HoldState = Held
	} else {
		s.HoldState = Unheld
	}
	s.HoldReason = reason

	s.emit(s.evtb.HoldStateChanged(s.HoldState.String(), s.HoldReason.String()))

	if !needsRoundTrip {
		s.finaliseHold()
	}
}

func (s *Session) atHoldTarget(target bool) bool {
	switch s.HoldState {
	case Held:
		return target
	case Unheld:
		return !target
	case PendingHold:
		return target
	case PendingUnhold:
		return !target
	}
	return false
}

// finaliseHold runs once every open stream's HoldState matches the
// session's target. It adjusts each stream's direction — hold masks
// outgoing media to Send only, unhold restores up to Bidirectional
// with at least Recv — and may queue a re-INVITE to carry the new
// direction to the peer.
func (s *Session) finaliseHold() {
	target := s.HoldState == PendingHold || s.HoldState == Held
	for _, st := range s.openStreams() {
		if st.HoldState != target {
			return // not all streams have confirmed yet
		}
	}

	for _, st := range s.openStreams() {
		var want stream.Direction
		if target {
			want = stream.DirSend
		} else {
			want = stream.DirRecv
			if st.Requested&stream.DirSend != 0 {
				want |= stream.DirSend
			}
		}
		if st.Direction != want {
			st.SetDirection(want, st.PendingSend)
			s.applyDirection(st)
			s.emit(s.evtb.StreamDirectionChanged(st.ID, uint8(st.Direction), uint8(st.PendingSend)))
			s.pendingOffer = true
		}
	}

	if target {
		s.HoldState = Held
	} else {
		s.HoldState = Unheld
	}
	s.emit(s.evtb.HoldStateChanged(s.HoldState.String(), s.HoldReason.String()))
	s.evaluate()
}
