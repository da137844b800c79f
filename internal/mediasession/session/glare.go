package session

import (
	"log/slog"
	"time"
)

// ownerBaseInterval is the lower bound of the owner-side glare back-off
// window, RFC 3261 section 14.1: owners wait [2.1s, 4.0s), non-owners
// wait [0s, 2.0s).
const ownerBaseInterval = 2100 * time.Millisecond

// enterGlare transitions to ReinvitePending and schedules the
// randomised back-off timer. It is reached either because this side
// detected a crossing inbound re-INVITE while its own re-INVITE was in
// flight, or because the peer answered with 491.
func (s *Session) enterGlare() {
	if s.State != Active && s.State != ReinviteSent {
		return
	}
	s.cancelGlareTimer()

	var interval time.Duration
	switch {
	case s.pendingOffer:
		interval = 0
	case s.IsCallIDOwner:
		span := s.cfg.GlareIntervalOwner - ownerBaseInterval
		interval = ownerBaseInterval + s.clk.JitterDuration(span)
	default:
		interval = s.clk.JitterDuration(s.cfg.GlareIntervalNonOwner)
	}

	id := s.clk.SetTimer(interval, s.fireGlareTimer)
	s.glareTimer = &id
	s.setState(ReinvitePending)
	slog.Debug("glare timer scheduled", "session", s.ID, "interval", interval, "owner", s.IsCallIDOwner)
}

// fireGlareTimer re-issues the queued re-INVITE if the session is still
// waiting on glare resolution; a cancellation (inbound re-INVITE,
// termination) that raced the timer wins and this becomes a no-op.
func (s *Session) fireGlareTimer() {
	s.glareTimer = nil
	if s.State != ReinvitePending {
		return
	}

	sdpBytes, ok := s.composeSDP(true)
	if !ok {
		return
	}
	s.pendingOffer = false
	if err := s.sig.SendInvite(sdpBytes, true, s.cfg.ReinviteTimeout); err != nil {
		slog.Warn("glare retry send invite failed", "session", s.ID, "error", err)
		return
	}
	s.setState(ReinviteSent)
}

func (s *Session) cancelGlareTimer() {
	if s.glareTimer == nil {
		return
	}
	s.clk.Cancel(*s.glareTimer)
	s.glareTimer = nil
}
