// Command mediasession wires a single media-session coordinator against
// logging stand-ins for the SIP signalling stack and RTP backend, and
// drives it through one outbound call, from the first offer to Active,
// without a live SIP peer. The demo does not exercise glare or hold.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebas/mediasession/internal/banner"
	"github.com/sebas/mediasession/internal/logger"
	"github.com/sebas/mediasession/internal/mediasession/clock"
	"github.com/sebas/mediasession/internal/mediasession/config"
	"github.com/sebas/mediasession/internal/mediasession/events"
	"github.com/sebas/mediasession/internal/mediasession/ports"
	"github.com/sebas/mediasession/internal/mediasession/session"
	"github.com/sebas/mediasession/internal/mediasession/stream"
)

func main() {
	cfg := config.Load()
	logger.Init(os.Stdout)
	logger.SetLevel(cfg.LogLevel)

	banner.Print("Media Session Coordinator", []banner.ConfigLine{
		{Label: "local-ip", Value: cfg.LocalIP},
		{Label: "rtcp-enabled", Value: boolString(cfg.RTCPEnabledByDefault)},
		{Label: "reinvite-timeout", Value: cfg.ReinviteTimeout.String()},
		{Label: "glare-owner", Value: cfg.GlareIntervalOwner.String()},
		{Label: "glare-nonowner", Value: cfg.GlareIntervalNonOwner.String()},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := newLoggingSignalling()
	media := newLoggingMedia()
	sess := session.New("sip:bob@example.com", cfg, clock.New(), sig, media, events.SinkFunc(logEvent))
	sess.IsCallIDOwner = true

	if _, err := sess.AddStream(stream.MediaAudio); err != nil {
		slog.Error("add audio stream failed", "error", err)
		os.Exit(1)
	}

	go run(ctx, sess)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	received := <-stopCh
	slog.Info("received signal, shutting down", "signal", received)
	cancel()

	_ = sess.Terminate()
	time.Sleep(200 * time.Millisecond)
}

// run simulates the backend and peer responses a live SIP/RTP stack
// would otherwise deliver, so the demo reaches Active without a real
// network peer.
func run(ctx context.Context, sess *session.Session) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(100 * time.Millisecond):
	}

	sess.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackReady, StreamID: 0})

	answer := []byte("v=0\r\no=- 1 1 IN IP4 203.0.113.9\r\ns=-\r\nc=IN IP4 203.0.113.9\r\nt=0 0\r\n" +
		"m=audio 40000 RTP/AVP 0\r\na=sendrecv\r\n")
	if err := sess.HandleSignallingEvent(ports.SignallingEvent{Kind: ports.EventRemoteSdp, RemoteSDP: answer}); err != nil {
		slog.Error("absorbing remote answer failed", "error", err)
		return
	}

	sess.HandleMediaCallback(ports.MediaCallback{Kind: ports.CallbackSupportedCodecs, StreamID: 0, CodecCount: 1})
	if err := sess.Accept(); err != nil {
		slog.Error("accept failed", "error", err)
	}
}

func logEvent(e events.Event) {
	slog.Info("session event", "type", string(e.Type()), "session", e.SessionID())
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
