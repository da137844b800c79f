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

func newTestSession() (*Session, *fakeSignalling, *fakeMedia, *events.Collector) {
	cfg := &config.Config{
		LocalIP:               "127.0.0.1",
		RTCPEnabledByDefault:  true,
		ReinviteTimeout:       180 * time.Second,
		GlareIntervalOwner:    4 * time.Second,
		GlareIntervalNonOwner: 2 * time.Second,
	}
	sig := &fakeSignalling{}
	media := newFakeMedia()
	coll := &events.Collector{}
	s := New("peer@example.com", cfg, clock.NewFake(time.Unix(0, 0)), sig, media, coll)
	return s, sig, media, coll
}

// Scenario A — outbound audio call, peer accepts.
func TestScenarioAOutboundCallAccepted(t *testing.T) {
	s, sig, media, _ := newTestSession()

	id, err := s.AddStream(stream.MediaAudio)
	if err != nil {
		t.Fatalf("AddStream() error = %v", err)
	}
	if id != 0 {
		t.Fatalf("AddStream() id = %d, want 0", id)
	}

	// Not ready yet: no invite should have gone out.
	if len(sig.invites) != 0 {
		t.Fatalf("invites sent before ready = %d, want 0", len(sig.invites))
	}

	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: 0})

	if len(sig.invites) != 1 {
		t.Fatalf("invites sent after ready = %d, want 1", len(sig.invites))
	}
	if s.State != InviteSent {
		t.Fatalf("State = %v, want InviteSent", s.State)
	}

	peerSDP := []byte("v=0\r\no=- 1 1 IN IP4 10.0.0.9\r\ns=-\r\nc=IN IP4 10.0.0.9\r\nt=0 0\r\n" +
		"m=audio 40000 RTP/AVP 0\r\na=sendrecv\r\n")
	if err := s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventRemoteSdp, RemoteSDP: peerSDP}); err != nil {
		t.Fatalf("HandleSignallingEvent(RemoteSdp) error = %v", err)
	}
	if s.State != ResponseReceived {
		t.Fatalf("State = %v, want ResponseReceived", s.State)
	}

	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackSupportedCodecs, StreamID: 0, CodecCount: 3})

	if err := s.Accept(); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if s.State != Active {
		t.Fatalf("State = %v, want Active", s.State)
	}
	_ = media
}

// Scenario E — DTMF on non-audio fails, session state unchanged.
func TestScenarioEDtmfOnVideoFails(t *testing.T) {
	s, _, _, _ := newTestSession()
	id, _ := s.AddStream(stream.MediaVideo)
	before := s.State

	err := s.StartDTMF(id, 5)
	if err == nil {
		t.Fatal("StartDTMF() on video stream = nil error, want error")
	}
	if s.State != before {
		t.Errorf("State changed to %v after failed StartDTMF, want unchanged %v", s.State, before)
	}
}

// Scenario F — terminate while InviteSent.
func TestScenarioFTerminateWhileInviteSent(t *testing.T) {
	s, sig, media, _ := newTestSession()
	id, _ := s.AddStream(stream.MediaAudio)
	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: id})
	if s.State != InviteSent {
		t.Fatalf("State = %v, want InviteSent", s.State)
	}

	if err := s.Terminate(); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	if !sig.cancelled {
		t.Error("Terminate() from InviteSent did not send CANCEL")
	}
	if s.State != Ended {
		t.Fatalf("State = %v, want Ended", s.State)
	}
	if len(media.closed) != 1 {
		t.Errorf("closed streams = %d, want 1", len(media.closed))
	}
	if !sig.dialogClosed {
		t.Error("dialog was not destroyed on Ended")
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	s, _, _, _ := newTestSession()
	if err := s.Accept(); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if err := s.Accept(); err != nil {
		t.Fatalf("second Accept() error = %v, want nil (idempotent)", err)
	}
	if !s.Accepted {
		t.Error("Accepted = false after Accept()")
	}
}

func TestRemoveStreamPreservesIndex(t *testing.T) {
	s, _, media, _ := newTestSession()
	id0, _ := s.AddStream(stream.MediaAudio)
	id1, _ := s.AddStream(stream.MediaVideo)

	if err := s.RemoveStream(id0); err != nil {
		t.Fatalf("RemoveStream() error = %v", err)
	}

	if s.streams[id0] == nil || !s.streams[id0].Closed {
		t.Error("removed stream slot should remain present but closed")
	}
	if s.streams[id1].Closed {
		t.Error("unrelated stream was closed")
	}
	if len(media.closed) != 1 || media.closed[0] != id0 {
		t.Errorf("media.closed = %v, want [%d]", media.closed, id0)
	}
}

func TestInvalidStreamIDIsInvalidArgument(t *testing.T) {
	s, _, _, _ := newTestSession()
	if err := s.RemoveStream(5); err == nil {
		t.Error("RemoveStream(5) on empty session = nil error, want error")
	}
}

func TestEmptyCodecIntersectionOnInitialInviteClosesStream(t *testing.T) {
	s, sig, _, _ := newTestSession()
	req := ports.NewInboundRequestToken(nil)
	offer := []byte("v=0\r\no=- 1 1 IN IP4 10.0.0.9\r\ns=-\r\nc=IN IP4 10.0.0.9\r\nt=0 0\r\n" +
		"m=audio 40000 RTP/AVP 0\r\na=sendrecv\r\n")

	if err := s.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventInviteReceived, Token: req, RemoteSDP: offer}); err != nil {
		t.Fatalf("HandleSignallingEvent(InviteReceived) error = %v", err)
	}
	if s.State != InviteReceived {
		t.Fatalf("State = %v, want InviteReceived", s.State)
	}

	s.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackSupportedCodecs, StreamID: 0, CodecCount: 0})

	if !s.streams[0].Closed {
		t.Error("stream with empty codec intersection on initial INVITE should be closed")
	}
	_ = sig
}
