package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sebas/mediasession/internal/mediasession/mediatypes"
	"github.com/sebas/mediasession/internal/mediasession/ports"
	"github.com/sebas/mediasession/internal/mediasession/sdpview"
	"github.com/sebas/mediasession/internal/mediasession/stream"
)

// loggingSignalling stands in for a sipgo-backed SignallingPort: it logs
// every verb instead of sending it over the wire. This module contains no
// SIP-backed SignallingPort; a real deployment supplies its own.
type loggingSignalling struct{}

func newLoggingSignalling() *loggingSignalling { return &loggingSignalling{} }

func (s *loggingSignalling) SendRinging() error {
	slog.Info("-> 180 Ringing")
	return nil
}

func (s *loggingSignalling) SendInvite(sdp []byte, isReinvite bool, timeout time.Duration) error {
	verb := "INVITE"
	if isReinvite {
		verb = "re-INVITE"
	}
	slog.Info("-> "+verb, "bytes", len(sdp), "timeout", timeout)
	return nil
}

func (s *loggingSignalling) SendRespond(code int, sdp []byte, phrase string, boundTo *ports.InboundRequestToken) error {
	slog.Info("-> response", "code", code, "phrase", phrase, "bytes", len(sdp))
	if boundTo != nil {
		boundTo.Consume()
	}
	return nil
}

func (s *loggingSignalling) SendCancel() error {
	slog.Info("-> CANCEL")
	return nil
}

func (s *loggingSignalling) SendBye() error {
	slog.Info("-> BYE")
	return nil
}

func (s *loggingSignalling) DestroyDialog() error {
	slog.Info("dialog destroyed")
	return nil
}

// loggingMedia stands in for the RTP backend (a sister process in the
// original architecture, out of scope here): it accepts every stream
// creation and hold request immediately, logging what it was asked to do.
// Its audio path is real enough to exercise the mediatypes codec/DTMF
// framing this coordinator negotiates for, rather than just echoing verbs.
type loggingMedia struct {
	nextHandle int
	dtmfSeq    uint16
	dtmfTS     uint32
	dtmfSSRC   uint32
}

func newLoggingMedia() *loggingMedia {
	return &loggingMedia{dtmfSSRC: 0x1a2b3c4d}
}

func (m *loggingMedia) CreateStream(id int, mediaType uint8, direction uint8, pendingSend uint8) (ports.BackendHandle, error) {
	m.nextHandle++
	slog.Info("media: create stream", "id", id, "mediaType", mediaType, "direction", direction)

	if mediaType == uint8(stream.MediaAudio) {
		silence := make([]byte, mediatypes.CodecPCMU.SamplesPerFrame()*2)
		encoded, err := mediatypes.EncodeG711(mediatypes.CodecPCMU, silence)
		if err != nil {
			return nil, err
		}
		slog.Debug("media: codec probe ok", "id", id, "codec", mediatypes.CodecPCMU.Name, "encoded_bytes", len(encoded))
	}
	return m.nextHandle, nil
}

func (m *loggingMedia) SetPlaying(playing bool) {
	slog.Info("media: set playing", "playing", playing)
}

func (m *loggingMedia) SetRemoteMedia(handle ports.BackendHandle, desc sdpview.MediaDesc) error {
	slog.Info("media: set remote media", "handle", handle, "type", desc.Type, "port", desc.Port)
	return nil
}

func (m *loggingMedia) SetDirection(handle ports.BackendHandle, direction uint8) {
	slog.Info("media: set direction", "handle", handle, "direction", direction)
}

func (m *loggingMedia) RequestHold(handle ports.BackendHandle, hold bool) bool {
	slog.Info("media: request hold", "handle", handle, "hold", hold)
	return false
}

func (m *loggingMedia) SendDTMF(handle ports.BackendHandle, digit uint8) error {
	r, ok := mediatypes.DigitToRune(digit)
	if !ok {
		return fmt.Errorf("media: invalid dtmf digit %d", digit)
	}

	const totalSamples = 1600 // 200ms at 8kHz
	packets, err := mediatypes.BuildDTMFPackets(r, totalSamples, mediatypes.CodecTelephoneEvent.PayloadType, m.dtmfSSRC, m.dtmfSeq, m.dtmfTS)
	if err != nil {
		return err
	}
	m.dtmfSeq += uint16(len(packets))
	m.dtmfTS += totalSamples

	slog.Info("media: send dtmf", "handle", handle, "digit", string(r), "packets", len(packets))
	return nil
}

func (m *loggingMedia) StopDTMF(handle ports.BackendHandle) {
	slog.Info("media: stop dtmf", "handle", handle)
}

func (m *loggingMedia) Close(handle ports.BackendHandle) {
	slog.Info("media: close", "handle", handle)
}
