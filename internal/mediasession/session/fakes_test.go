package session

import (
	"time"

	"github.com/sebas/mediasession/internal/mediasession/ports"
	"github.com/sebas/mediasession/internal/mediasession/sdpview"
)

// fakeSignalling records every outbound verb a test Session emits.
type fakeSignalling struct {
	invites      [][]byte
	reinvites    bool
	responses    []fakeResponse
	cancelled    bool
	byeSent      bool
	dialogClosed bool
}

type fakeResponse struct {
	code  int
	sdp   []byte
	bound *ports.InboundRequestToken
}

func (f *fakeSignalling) SendRinging() error { return nil }

func (f *fakeSignalling) SendInvite(sdp []byte, isReinvite bool, timeout time.Duration) error {
	f.invites = append(f.invites, sdp)
	if isReinvite {
		f.reinvites = true
	}
	return nil
}

func (f *fakeSignalling) SendRespond(code int, sdp []byte, phrase string, boundTo *ports.InboundRequestToken) error {
	f.responses = append(f.responses, fakeResponse{code: code, sdp: sdp, bound: boundTo})
	if boundTo != nil {
		boundTo.Consume()
	}
	return nil
}

func (f *fakeSignalling) SendCancel() error    { f.cancelled = true; return nil }
func (f *fakeSignalling) SendBye() error       { f.byeSent = true; return nil }
func (f *fakeSignalling) DestroyDialog() error { f.dialogClosed = true; return nil }

// fakeMedia is an in-memory MediaPort: CreateStream succeeds
// immediately and readiness/codec callbacks are delivered only when
// the test explicitly pushes them through the owning Session.
type fakeMedia struct {
	created       []int
	playing       bool
	holdRequested map[int]bool
	closed        []int
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{holdRequested: make(map[int]bool)}
}

func (f *fakeMedia) CreateStream(id int, mediaType uint8, direction uint8, pendingSend uint8) (ports.BackendHandle, error) {
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeMedia) SetPlaying(playing bool) { f.playing = playing }

func (f *fakeMedia) SetRemoteMedia(handle ports.BackendHandle, desc sdpview.MediaDesc) error {
	return nil
}

func (f *fakeMedia) SetDirection(handle ports.BackendHandle, direction uint8) {}

func (f *fakeMedia) RequestHold(handle ports.BackendHandle, hold bool) bool {
	f.holdRequested[handle.(int)] = hold
	return true
}

func (f *fakeMedia) SendDTMF(handle ports.BackendHandle, digit uint8) error { return nil }
func (f *fakeMedia) StopDTMF(handle ports.BackendHandle)                   {}
func (f *fakeMedia) Close(handle ports.BackendHandle) {
	f.closed = append(f.closed, handle.(int))
}
