package ports

import "github.com/sebas/mediasession/internal/mediasession/sdpview"

// BackendHandle opaquely references the media backend's view of a
// stream. Session holds it but never interprets it.
type BackendHandle any

// MediaPort is the abstract boundary to the local media backend. The
// Session calls it; the backend answers asynchronously through
// MediaCallbacks.
type MediaPort interface {
	CreateStream(id int, mediaType uint8, direction uint8, pendingSend uint8) (BackendHandle, error)
	SetPlaying(playing bool)
	SetRemoteMedia(handle BackendHandle, desc sdpview.MediaDesc) error
	SetDirection(handle BackendHandle, direction uint8)
	RequestHold(handle BackendHandle, hold bool) (needsRoundTrip bool)
	SendDTMF(handle BackendHandle, digit uint8) error
	StopDTMF(handle BackendHandle)
	Close(handle BackendHandle)
}

// MediaCallbackKind discriminates backend-to-session callbacks.
type MediaCallbackKind int

const (
	CallbackReady MediaCallbackKind = iota
	CallbackSupportedCodecs
	CallbackHoldStateChanged
	CallbackUnholdFailure
	CallbackLocalMediaUpdated
	CallbackClosed
)

// MediaCallback is the backend-to-session event sum type.
type MediaCallback struct {
	Kind         MediaCallbackKind
	StreamID     int
	CodecCount   int  // CallbackSupportedCodecs: 0 means empty intersection
	HoldAchieved bool // CallbackHoldStateChanged
}

// MediaCallbacks is implemented by Session and invoked by the media
// backend as it makes progress on a stream.
type MediaCallbacks interface {
	HandleMediaCallback(cb MediaCallback)
}
