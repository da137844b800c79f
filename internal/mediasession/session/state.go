package session

// State is one of the nine values in the session state machine. It is a
// closed enumeration; transitions live in evaluate() and the handler
// methods in handlers.go, not spread across the type.
type State int

const (
	Created State = iota
	InviteSent
	InviteReceived
	ResponseReceived
	Active
	ReinviteSent
	ReinviteReceived
	ReinvitePending
	Ended
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case InviteSent:
		return "InviteSent"
	case InviteReceived:
		return "InviteReceived"
	case ResponseReceived:
		return "ResponseReceived"
	case Active:
		return "Active"
	case ReinviteSent:
		return "ReinviteSent"
	case ReinviteReceived:
		return "ReinviteReceived"
	case ReinvitePending:
		return "ReinvitePending"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// HoldState is the session-wide hold aggregation state.
type HoldState int

const (
	Unheld HoldState = iota
	PendingHold
	Held
	PendingUnhold
)

func (h HoldState) String() string {
	switch h {
	case Unheld:
		return "Unheld"
	case PendingHold:
		return "PendingHold"
	case Held:
		return "Held"
	case PendingUnhold:
		return "PendingUnhold"
	default:
		return "Unknown"
	}
}

// HoldReason explains the last hold-state-changed notification.
type HoldReason int

const (
	ReasonNone HoldReason = iota
	ReasonRequested
	ReasonResourceNotAvailable
)

func (r HoldReason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonRequested:
		return "Requested"
	case ReasonResourceNotAvailable:
		return "ResourceNotAvailable"
	default:
		return "Unknown"
	}
}
