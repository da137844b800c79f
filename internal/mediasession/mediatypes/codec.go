// Package mediatypes holds the codec and DTMF wire-format types the
// coordinator hands across the MediaPort boundary. It does not touch a
// network socket; the out-of-scope media/RTP engine owns that.
package mediatypes

import (
	"fmt"
	"time"

	"github.com/zaf/g711"
)

// Codec describes one negotiable payload: its RTP payload type and timing,
// independent of any particular m= line.
type Codec struct {
	Name        string
	PayloadType uint8
	ClockRate   uint32
	FrameDur    time.Duration
}

// Pre-defined codecs a Stream may advertise or accept.
var (
	CodecPCMU            = Codec{"PCMU", 0, 8000, 20 * time.Millisecond}
	CodecPCMA            = Codec{"PCMA", 8, 8000, 20 * time.Millisecond}
	CodecTelephoneEvent = Codec{"telephone-event", 101, 8000, 20 * time.Millisecond}
)

// SamplesPerFrame returns the samples carried by one frame interval.
func (c Codec) SamplesPerFrame() int {
	return int(c.ClockRate) * int(c.FrameDur) / int(time.Second)
}

// TimestampIncrement returns the RTP timestamp delta between consecutive
// frames of this codec.
func (c Codec) TimestampIncrement() uint32 {
	return uint32(c.SamplesPerFrame())
}

// EncodeG711 encodes little-endian 16-bit linear PCM with the G.711 law of
// the codec named by c (PCMU or PCMA), verifying that the coordinator's advertised codec is actually
// encodable by the process it runs in. The demo MediaPort runs this once as
// a codec probe when an audio stream is created, in place of a live encoder.
func EncodeG711(c Codec, pcm []byte) ([]byte, error) {
	switch c.Name {
	case "PCMU":
		return g711.EncodeUlaw(pcm), nil
	case "PCMA":
		return g711.EncodeAlaw(pcm), nil
	default:
		return nil, fmt.Errorf("mediatypes: no G.711 encoding for codec %q", c.Name)
	}
}

// DecodeG711 is the inverse of EncodeG711.
func DecodeG711(c Codec, payload []byte) ([]byte, error) {
	switch c.Name {
	case "PCMU":
		return g711.DecodeUlaw(payload), nil
	case "PCMA":
		return g711.DecodeAlaw(payload), nil
	default:
		return nil, fmt.Errorf("mediatypes: no G.711 decoding for codec %q", c.Name)
	}
}
