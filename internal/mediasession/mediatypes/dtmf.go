package mediatypes

import (
	"encoding/binary"
	"fmt"

	"github.com/pion/rtp"
)

// DTMFEvent is an RFC 4733 telephone-event payload:
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|     event     |E|R| volume    |          duration             |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type DTMFEvent struct {
	Digit      uint8  // 0-15: 0-9, *, #, A-D
	EndOfEvent bool   // E bit: marks the final packet of the event
	Volume     uint8  // 0-63, dBm0
	Duration   uint16 // timestamp units elapsed since event start
}

// DTMF digit codes, RFC 4733 section 3.
const (
	DTMFDigit0 uint8 = iota
	DTMFDigit1
	DTMFDigit2
	DTMFDigit3
	DTMFDigit4
	DTMFDigit5
	DTMFDigit6
	DTMFDigit7
	DTMFDigit8
	DTMFDigit9
	DTMFStar
	DTMFPound
	DTMFA
	DTMFB
	DTMFC
	DTMFD
)

const (
	DefaultDTMFVolume   uint8  = 10
	MinDTMFDuration     uint16 = 400 // 50ms at 8kHz
	dtmfIntervalSamples uint16 = 160 // 20ms at 8kHz
)

// RuneToDigit converts a DTMF character to its RFC 4733 event code.
func RuneToDigit(r rune) (uint8, bool) {
	switch r {
	case '0':
		return DTMFDigit0, true
	case '1':
		return DTMFDigit1, true
	case '2':
		return DTMFDigit2, true
	case '3':
		return DTMFDigit3, true
	case '4':
		return DTMFDigit4, true
	case '5':
		return DTMFDigit5, true
	case '6':
		return DTMFDigit6, true
	case '7':
		return DTMFDigit7, true
	case '8':
		return DTMFDigit8, true
	case '9':
		return DTMFDigit9, true
	case '*':
		return DTMFStar, true
	case '#':
		return DTMFPound, true
	case 'A', 'a':
		return DTMFA, true
	case 'B', 'b':
		return DTMFB, true
	case 'C', 'c':
		return DTMFC, true
	case 'D', 'd':
		return DTMFD, true
	}
	return 0, false
}

// DigitToRune is the inverse of RuneToDigit.
func DigitToRune(digit uint8) (rune, bool) {
	switch digit {
	case DTMFDigit0:
		return '0', true
	case DTMFDigit1:
		return '1', true
	case DTMFDigit2:
		return '2', true
	case DTMFDigit3:
		return '3', true
	case DTMFDigit4:
		return '4', true
	case DTMFDigit5:
		return '5', true
	case DTMFDigit6:
		return '6', true
	case DTMFDigit7:
		return '7', true
	case DTMFDigit8:
		return '8', true
	case DTMFDigit9:
		return '9', true
	case DTMFStar:
		return '*', true
	case DTMFPound:
		return '#', true
	case DTMFA:
		return 'A', true
	case DTMFB:
		return 'B', true
	case DTMFC:
		return 'C', true
	case DTMFD:
		return 'D', true
	}
	return 0, false
}

// Encode serializes the event to its 4-byte RFC 4733 payload.
func (e DTMFEvent) Encode() []byte {
	b := make([]byte, 4)
	b[0] = e.Digit
	b[1] = e.Volume & 0x3F
	if e.EndOfEvent {
		b[1] |= 0x80
	}
	binary.BigEndian.PutUint16(b[2:], e.Duration)
	return b
}

// DecodeDTMFEvent parses a 4-byte RFC 4733 payload.
func DecodeDTMFEvent(payload []byte) (DTMFEvent, error) {
	if len(payload) < 4 {
		return DTMFEvent{}, fmt.Errorf("mediatypes: DTMF payload too short: %d bytes", len(payload))
	}
	return DTMFEvent{
		Digit:      payload[0],
		EndOfEvent: payload[1]&0x80 != 0,
		Volume:     payload[1] & 0x3F,
		Duration:   binary.BigEndian.Uint16(payload[2:]),
	}, nil
}

// BuildDTMFPackets frames one DTMF digit as the sequence of RTP packets
// RFC 4733 prescribes: one packet per 20ms interval with increasing
// duration while the digit is held, followed by three duplicate
// end-of-event packets for loss resilience. The timestamp is held
// constant across the whole event; ssrc/seqStart/tsStart are supplied by
// the caller's RTP session state rather than generated here, since this
// package does not own a live RTP stream.
func BuildDTMFPackets(digit rune, totalSamples uint16, payloadType uint8, ssrc uint32, seqStart uint16, tsStart uint32) ([]*rtp.Packet, error) {
	event, ok := RuneToDigit(digit)
	if !ok {
		return nil, fmt.Errorf("mediatypes: invalid DTMF digit %q", digit)
	}
	if totalSamples < MinDTMFDuration {
		totalSamples = MinDTMFDuration
	}

	var packets []*rtp.Packet
	seq := seqStart
	dur := dtmfIntervalSamples

	for dur < totalSamples {
		evt := DTMFEvent{Digit: event, Volume: DefaultDTMFVolume, Duration: dur}
		packets = append(packets, &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         seq == seqStart,
				PayloadType:    payloadType,
				SequenceNumber: seq,
				Timestamp:      tsStart,
				SSRC:           ssrc,
			},
			Payload: evt.Encode(),
		})
		seq++
		dur += dtmfIntervalSamples
	}

	for i := 0; i < 3; i++ {
		evt := DTMFEvent{Digit: event, EndOfEvent: true, Volume: DefaultDTMFVolume, Duration: totalSamples}
		packets = append(packets, &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    payloadType,
				SequenceNumber: seq,
				Timestamp:      tsStart,
				SSRC:           ssrc,
			},
			Payload: evt.Encode(),
		})
		seq++
	}

	return packets, nil
}
