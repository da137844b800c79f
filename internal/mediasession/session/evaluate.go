package session

import (
	"log/slog"

	"github.com/pion/sdp/v3"

	"github.com/sebas/mediasession/internal/mediasession/events"
	"github.com/sebas/mediasession/internal/mediasession/sdpview"
	"github.com/sebas/mediasession/internal/mediasession/stream"
)

// evaluate is the only place that emits protocol verbs. It is invoked
// after every external input, checks readiness and codec-intersect
// progress across streams, and selects at most one action from the
// transition table for the current state. It is idempotent: calling it
// with no new inputs is a no-op.
func (s *Session) evaluate() {
	if s.State == Ended {
		return
	}

	ready := s.localNonReady == 0
	codecPending := s.anyCodecIntersectPending()

	switch s.State {
	case Created:
		if ready && s.pendingOffer && !s.RemoteInitiated {
			sdpBytes, ok := s.composeSDP(true)
			if !ok {
				return
			}
			s.pendingOffer = false
			s.media.SetPlaying(true)
			if err := s.sig.SendInvite(sdpBytes, false, 0); err != nil {
				slog.Warn("send invite failed", "session", s.ID, "error", err)
				return
			}
			s.setState(InviteSent)
		}

	case InviteReceived:
		if ready && s.Accepted && !codecPending {
			sdpBytes, ok := s.composeSDP(false)
			if !ok {
				return
			}
			_ = s.sig.SendRespond(200, sdpBytes, "OK", s.savedEvent)
			s.savedEvent = nil
			s.setState(Active)
		}

	case ResponseReceived:
		if ready && s.Accepted && !codecPending {
			s.setState(Active)
		}

	case Active:
		if s.pendingOffer && ready && !codecPending {
			sdpBytes, ok := s.composeSDP(true)
			if !ok {
				return
			}
			s.pendingOffer = false
			if err := s.sig.SendInvite(sdpBytes, true, s.cfg.ReinviteTimeout); err != nil {
				slog.Warn("send re-invite failed", "session", s.ID, "error", err)
				return
			}
			s.setState(ReinviteSent)
		}

	case ReinviteReceived:
		if ready && !codecPending {
			sdpBytes, ok := s.composeSDP(false)
			if !ok {
				return
			}
			_ = s.sig.SendRespond(200, sdpBytes, "OK", s.savedEvent)
			s.savedEvent = nil
			s.setState(Active)
		}
	}
}

func (s *Session) anyCodecIntersectPending() bool {
	for _, st := range s.streams {
		if st != nil && !st.Closed && st.CodecIntersectPending {
			return true
		}
	}
	return false
}

// composeSDP builds an offer (authoritative) or answer (!authoritative)
// from the current stream vector.
func (s *Session) composeSDP(authoritative bool) ([]byte, bool) {
	if s.localNonReady != 0 {
		return nil, false
	}

	limit := len(s.streams)
	if !authoritative && int(s.remoteStreamCount) < limit {
		limit = int(s.remoteStreamCount)
	}

	desc := &sdp.SessionDescription{
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      1,
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: s.cfg.LocalIP,
		},
		SessionName: "-",
		ConnectionInformation: &sdp.ConnectionInformation{
			NetworkType: "IN",
			AddressType: "IP4",
			Address:     &sdp.Address{Address: s.cfg.LocalIP},
		},
		TimeDescriptions: []sdp.TimeDescription{{Timing: sdp.Timing{StartTime: 0, StopTime: 0}}},
	}

	anyLive := false
	for i := 0; i < limit; i++ {
		st := s.streams[i]
		if st == nil {
			desc.MediaDescriptions = append(desc.MediaDescriptions, declineStub("audio"))
			continue
		}
		if st.Closed {
			desc.MediaDescriptions = append(desc.MediaDescriptions, declineStub(st.MediaType.String()))
			continue
		}
		anyLive = true
		desc.MediaDescriptions = append(desc.MediaDescriptions, mediaDescriptionFor(st))
	}

	if !anyLive {
		return nil, false
	}

	raw, err := desc.Marshal()
	if err != nil {
		slog.Warn("compose sdp marshal failed", "session", s.ID, "error", err)
		return nil, false
	}
	return raw, true
}

// declineStub builds a zero-port m-line for a tombstoned or closed stream
// slot: the only form of "local SDP" such a slot ever has, since it owns no
// backend handle to negotiate a direction for.
func declineStub(mediaType string) *sdp.MediaDescription {
	return &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   mediaType,
			Port:    sdp.RangedPort{Value: 0},
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{"0"},
		},
	}
}

func mediaDescriptionFor(st *stream.Stream) *sdp.MediaDescription {
	md := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   st.MediaType.String(),
			Port:    sdp.RangedPort{Value: 1},
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{"0"},
		},
		Attributes: []sdp.Attribute{{Key: directionAttr(st.Direction)}},
	}
	return md
}

func directionAttr(d stream.Direction) string {
	switch d {
	case stream.DirSend:
		return "sendonly"
	case stream.DirRecv:
		return "recvonly"
	case stream.DirNone:
		return "inactive"
	default:
		return "sendrecv"
	}
}

// setRemoteMedia absorbs an inbound offer or answer, per section 4.3's
// "Remote media absorption" algorithm.
func (s *Session) setRemoteMedia(raw []byte, authoritative bool) (bool, error) {
	view, err := sdpview.Parse(raw)
	if err != nil {
		return false, err
	}

	if s.remoteSDP != nil && s.remoteSDP.Equivalent(view) {
		return true, nil
	}

	if s.remoteSDP != nil {
		s.backupRemoteSDP = s.remoteSDP
	} else {
		s.backupRemoteSDP = nil
	}
	s.remoteSDP = view

	if view.RTCPThrottled() {
		s.RTCPEnabled = false
	} else {
		s.RTCPEnabled = s.cfg.RTCPEnabledByDefault
	}

	ok := s.applyRemoteMediaLines(view, authoritative)
	s.remoteStreamCount = uint32(len(view.MediaIter()))

	s.updateRemoteHoldObservation()
	return ok, nil
}

// applyRemoteMediaLines walks the peer's m-lines in order, pairing them
// with existing stream slots by index and creating, narrowing, or
// closing streams as the "Remote media absorption" algorithm requires.
func (s *Session) applyRemoteMediaLines(view *sdpview.View, authoritative bool) bool {
	directionUpMask := stream.DirBidirectional
	if authoritative {
		if s.HoldState == Held || s.HoldState == PendingHold {
			directionUpMask = stream.DirSend
		}
	} else {
		directionUpMask = stream.DirNone
	}

	pendingSendMask := stream.PendingLocalSend
	if s.pendingOffer {
		pendingSendMask |= stream.PendingRemoteSend
	}

	lines := view.MediaIter()
	hasSupportedMedia := false

	for i, md := range lines {
		if i >= len(s.streams) {
			st := stream.New(i, mediaTypeFor(md.Type))
			s.streams = append(s.streams, st)
			s.localNonReady++
			handle, err := s.media.CreateStream(i, uint8(st.MediaType), uint8(stream.DirNone), uint8(stream.PendingLocalSend))
			if err == nil {
				st.BackendHandle = handle
			}
			s.emit(s.evtb.StreamAdded(i, s.Peer, events.MediaType(st.MediaType)))
		}

		st := s.streams[i]
		if st == nil || st.Closed {
			continue
		}

		if md.Port == 0 {
			s.closeStream(st)
			continue
		}

		if err := st.SetRemoteMedia(md, directionUpMask, pendingSendMask); err != nil {
			slog.Warn("remote media rejected", "session", s.ID, "stream", i, "error", err)
			continue
		}
		s.applyDirection(st)
		hasSupportedMedia = true
	}

	if len(lines) < len(s.streams) && !s.pendingOffer {
		for i := len(lines); i < len(s.streams); i++ {
			if s.streams[i] != nil {
				s.closeStream(s.streams[i])
			}
		}
	}

	return hasSupportedMedia
}

func mediaTypeFor(sdpType string) stream.MediaType {
	if sdpType == "video" {
		return stream.MediaVideo
	}
	return stream.MediaAudio
}

// rollback restores the single backup SDP snapshot when a re-INVITE
// cannot be accepted, per the "Rollback as snapshot" design note: there
// is exactly one backup arena, never a stack.
func (s *Session) rollback() {
	if s.backupRemoteSDP == nil {
		_ = s.Terminate()
		return
	}
	restored := s.backupRemoteSDP
	s.remoteSDP = restored
	s.backupRemoteSDP = nil
	s.applyRemoteMediaLines(restored, false)

	_ = s.sig.SendRespond(488, nil, "Not Acceptable Here", s.savedEvent)
	s.savedEvent = nil
	s.setState(Active)
}

// updateRemoteHoldObservation recomputes the session-wide "remote
// hold" observation independent of the local hold state machine: if no
// open stream currently has Send in its requested direction, the peer
// is considered to have put us on hold.
func (s *Session) updateRemoteHoldObservation() {
	remoteHeld := true
	for _, st := range s.openStreams() {
		if st.Requested&stream.DirSend != 0 {
			remoteHeld = false
			break
		}
	}

	add, remove := uint8(0), uint8(0)
	if remoteHeld {
		add = events.CallStateHeld
	} else {
		remove = events.CallStateHeld
	}
	s.emit(s.evtb.CallStateChanged(s.Peer, add, remove))
}
