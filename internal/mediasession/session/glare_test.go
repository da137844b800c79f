package session

import (
	"testing"
	"time"

	"github.com/sebas/mediasession/internal/mediasession/clock"
	"github.com/sebas/mediasession/internal/mediasession/config"
	"github.com/sebas/mediasession/internal/mediasession/events"
	"github.com/sebas/mediasession/internal/mediasession/ports"
	"github.com/sebas/mediasession/internal/mediasession/stream"
)

func newGlareTestSession(owner bool, seq []time.Duration) (*Session, *fakeSignalling, *clock.Fake) {
	cfg := &config.Config{
		LocalIP:               "127.0.0.1",
		RTCPEnabledByDefault:  true,
		ReinviteTimeout:       180 * time.Second,
		GlareIntervalOwner:    4 * time.Second,
		GlareIntervalNonOwner: 2 * time.Second,
	}
	sig := &fakeSignalling{}
	media := newFakeMedia()
	fc := clock.NewFake(time.Unix(0, 0))
	fc.Sequence = seq
	s := New("peer@example.com", cfg, fc, sig, media, &events.Collector{})
	s.IsCallIDOwner = owner

	id, _ := s.AddStream(stream.MediaAudio)
	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: id})

	peerSDP := []byte("v=0\r\no=- 1 1 IN IP4 10.0.0.9\r\ns=-\r\nc=IN IP4 10.0.0.9\r\nt=0 0\r\n" +
		"m=audio 40000 RTP/AVP 0\r\na=sendrecv\r\n")
	_ = s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventRemoteSdp, RemoteSDP: peerSDP})
	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackSupportedCodecs, StreamID: id, CodecCount: 3})
	_ = s.Accept()

	return s, sig, fc
}

// Scenario B — glare, we own the Call-ID: timer in [2100ms, 4000ms).
func TestScenarioBGlareOwnerBackoff(t *testing.T) {
	s, sig, fc := newGlareTestSession(true, []time.Duration{400 * time.Millisecond})
	if s.State != Active {
		t.Fatalf("State = %v, want Active", s.State)
	}

	id, _ := s.AddStream(stream.MediaVideo)
	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: id})
	if s.State != ReinviteSent {
		t.Fatalf("State = %v, want ReinviteSent", s.State)
	}
	invitesBeforeGlare := len(sig.invites)

	if err := s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventGlareDetected}); err != nil {
		t.Fatalf("HandleSignallingEvent(GlareDetected) error = %v", err)
	}
	if s.State != ReinvitePending {
		t.Fatalf("State = %v, want ReinvitePending", s.State)
	}

	fc.Advance(2099 * time.Millisecond)
	if s.State != ReinvitePending {
		t.Fatal("glare timer fired too early")
	}

	fc.Advance(1 * time.Millisecond) // total 2100ms + 400ms jitter = 2500ms
	if s.State != ReinvitePending {
		t.Fatal("glare timer fired before owner base interval elapsed")
	}

	fc.Advance(400 * time.Millisecond)
	if s.State != ReinviteSent {
		t.Fatalf("State = %v, want ReinviteSent after glare timer fires", s.State)
	}
	if len(sig.invites) != invitesBeforeGlare+1 {
		t.Errorf("invites after glare retry = %d, want %d", len(sig.invites), invitesBeforeGlare+1)
	}
}

func TestGlareNonOwnerUsesShortWindow(t *testing.T) {
	s, _, fc := newGlareTestSession(false, []time.Duration{500 * time.Millisecond})

	id, _ := s.AddStream(stream.MediaVideo)
	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: id})

	_ = s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventGlareDetected})
	if s.State != ReinvitePending {
		t.Fatalf("State = %v, want ReinvitePending", s.State)
	}

	fc.Advance(500 * time.Millisecond)
	if s.State != ReinviteSent {
		t.Fatalf("State = %v, want ReinviteSent after 500ms non-owner back-off", s.State)
	}
}

func TestInboundReinviteCancelsGlareTimer(t *testing.T) {
	s, _, fc := newGlareTestSession(true, []time.Duration{1 * time.Second})

	id, _ := s.AddStream(stream.MediaVideo)
	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: id})
	_ = s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventGlareDetected})
	if s.State != ReinvitePending {
		t.Fatalf("State = %v, want ReinvitePending", s.State)
	}

	reinviteSDP := []byte("v=0\r\no=- 2 2 IN IP4 10.0.0.9\r\ns=-\r\nc=IN IP4 10.0.0.9\r\nt=0 0\r\n" +
		"m=audio 40000 RTP/AVP 0\r\na=sendrecv\r\n")
	tok := ports.NewInboundRequestToken(nil)
	if err := s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventReinviteReceived, Token: tok, RemoteSDP: reinviteSDP}); err != nil {
		t.Fatalf("HandleSignallingEvent(ReinviteReceived) error = %v", err)
	}
	if s.State != ReinviteReceived && s.State != Active {
		t.Fatalf("State = %v, want ReinviteReceived or Active", s.State)
	}

	fc.Advance(10 * time.Second)
	if s.State == ReinviteSent {
		t.Error("glare timer fired after being canceled by inbound re-INVITE")
	}
}
