// Package sdpview wraps a parsed SDP session description in the read-only
// adapter the coordinator needs: iterating m-lines, detecting RFC 3556
// RTCP-disabled bandwidth modifiers, and semantic equality for the
// idempotent set_remote_media short-circuit.
package sdpview

import (
	"github.com/pion/sdp/v3"
)

// View is a read-only adapter over a parsed SDP session description.
type View struct {
	desc *sdp.SessionDescription
}

// New wraps a parsed session description.
func New(desc *sdp.SessionDescription) *View {
	return &View{desc: desc}
}

// Parse unmarshals raw SDP bytes into a View.
func Parse(raw []byte) (*View, error) {
	desc := &sdp.SessionDescription{}
	if err := desc.Unmarshal(raw); err != nil {
		return nil, err
	}
	return New(desc), nil
}

// MediaDesc is one m-line's view, narrowed to what Stream needs to
// absorb a remote offer or answer.
type MediaDesc struct {
	Type      string // "audio" or "video"
	Port      int    // 0 means the peer rejected/zeroed this stream
	Formats   []string
	Direction Direction
	raw       *sdp.MediaDescription
}

// Raw returns the underlying pion/sdp MediaDescription, for callers that
// need attributes this adapter doesn't surface directly (e.g. fmtp).
func (m MediaDesc) Raw() *sdp.MediaDescription {
	return m.raw
}

// Direction mirrors the two-bit Send/Recv bitset used throughout the
// coordinator: Send=1, Recv=2.
type Direction uint8

const (
	DirNone          Direction = 0
	DirSend          Direction = 1
	DirRecv          Direction = 2
	DirBidirectional           = DirSend | DirRecv
)

// MediaIter returns the session's media descriptions in order.
func (v *View) MediaIter() []MediaDesc {
	out := make([]MediaDesc, 0, len(v.desc.MediaDescriptions))
	for _, md := range v.desc.MediaDescriptions {
		out = append(out, MediaDesc{
			Type:      md.MediaName.Media,
			Port:      md.MediaName.Port.Value,
			Formats:   md.MediaName.Formats,
			Direction: mediaDirection(md),
			raw:       md,
		})
	}
	return out
}

// mediaDirection reads sendonly/recvonly/inactive/sendrecv attributes,
// defaulting to Bidirectional when none is present (RFC 3264 section 5.1).
func mediaDirection(md *sdp.MediaDescription) Direction {
	for _, a := range md.Attributes {
		switch a.Key {
		case "sendrecv":
			return DirBidirectional
		case "sendonly":
			return DirSend
		case "recvonly":
			return DirRecv
		case "inactive":
			return DirNone
		}
	}
	return DirBidirectional
}

// RTCPThrottled reports whether the session-level bandwidth modifiers
// disable RTCP per RFC 3556: both b=RS:0 and b=RR:0 present.
func (v *View) RTCPThrottled() bool {
	return bandwidthThrottled(v.desc.Bandwidth)
}

// RTCPThrottled reports the same for a single media description, which
// may override the session-level modifiers.
func (m MediaDesc) RTCPThrottled() bool {
	return bandwidthThrottled(m.raw.Bandwidth)
}

func bandwidthThrottled(bws []sdp.Bandwidth) bool {
	var rs, rr bool
	for _, b := range bws {
		switch b.Type {
		case "RS":
			rs = b.Bandwidth == 0
		case "RR":
			rr = b.Bandwidth == 0
		}
	}
	return rs && rr
}

// Equivalent reports semantic equality with other: same media count,
// types, ports, formats and directions in order. It intentionally
// ignores origin version/session-id churn, so a remote re-offer that
// repeats the same media unchanged is recognized as a no-op.
func (v *View) Equivalent(other *View) bool {
	if other == nil {
		return false
	}
	a, b := v.MediaIter(), other.MediaIter()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Port != b[i].Port || a[i].Direction != b[i].Direction {
			return false
		}
		if len(a[i].Formats) != len(b[i].Formats) {
			return false
		}
		for j := range a[i].Formats {
			if a[i].Formats[j] != b[i].Formats[j] {
				return false
			}
		}
	}
	return true
}

// Raw returns the underlying pion/sdp SessionDescription.
func (v *View) Raw() *sdp.SessionDescription {
	return v.desc
}
