// Package ports declares the two boundaries the Session drives: the
// signalling stack (SIP verbs in, dialog events out) and the media
// backend (stream lifecycle verbs out, readiness/codec callbacks in).
// Both boundaries are plain Go interfaces; the SIP transaction stack,
// SDP parser internals, and RTP engine behind them are out of scope for
// this coordinator.
package ports

import (
	"time"

	"github.com/emiago/sipgo/sip"
)

// InboundRequestToken wraps an inbound SIP request the Session must
// eventually respond to. It has move semantics: Consume marks it used
// so a caller can never bind two responses to the same request.
type InboundRequestToken struct {
	req      *sip.Request
	consumed bool
}

// NewInboundRequestToken wraps req for later response.
func NewInboundRequestToken(req *sip.Request) *InboundRequestToken {
	return &InboundRequestToken{req: req}
}

// Consume marks the token used and returns the wrapped request. Calling
// it twice on the same token is a programmer error; the second call
// returns nil so callers fail loudly instead of double-replying.
func (t *InboundRequestToken) Consume() *sip.Request {
	if t == nil || t.consumed {
		return nil
	}
	t.consumed = true
	return t.req
}

// Consumed reports whether Consume has already been called.
func (t *InboundRequestToken) Consumed() bool {
	return t == nil || t.consumed
}

// InboundEventKind discriminates the SignallingEvent sum type.
type InboundEventKind int

const (
	EventInviteReceived InboundEventKind = iota
	EventReinviteReceived
	EventRemoteSdp
	EventFinalResponse
	EventBye
	EventCancelled
	EventGlareDetected
	EventSavedEventExpired
)

// SignallingEvent is the inbound event sum type the signalling stack
// feeds to Session.HandleSignallingEvent.
type SignallingEvent struct {
	Kind InboundEventKind

	// Token carries the saved request for EventInviteReceived/
	// EventReinviteReceived, so Session can respond to it later.
	Token *InboundRequestToken

	// RemoteSDP carries the peer's SDP body for EventRemoteSdp (and
	// implicitly for EventInviteReceived/EventReinviteReceived, which
	// always carry an offer).
	RemoteSDP []byte

	// FromResponse is true when RemoteSDP arrived in a final response
	// rather than an inbound request (EventRemoteSdp only).
	FromResponse bool

	// StatusCode carries the SIP final response code for
	// EventFinalResponse.
	StatusCode int
}

// SignallingPort is the abstract outbound-verb boundary the Session
// drives; sipgo (or a fake, in tests) implements it.
type SignallingPort interface {
	SendRinging() error
	// SendInvite issues an (re-)INVITE with the given SDP body. For a
	// re-INVITE, the implementation must arm a 180s response timer per
	// RFC 3261 13.3.1.1; timeout is non-zero only in that case.
	SendInvite(sdp []byte, isReinvite bool, timeout time.Duration) error
	// SendRespond answers a saved request. boundTo, once passed, is
	// consumed; a second SendRespond with the same token finds it
	// already consumed and must treat that as a programmer error.
	SendRespond(code int, sdp []byte, phrase string, boundTo *InboundRequestToken) error
	SendCancel() error
	SendBye() error
	DestroyDialog() error
}
