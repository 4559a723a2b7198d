package model

// MessageKind classifies a message sent to a caller.
type MessageKind uint8

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageSuccess:
		return "success"
	case MessageError:
		return "error"
	default:
		return "info"
	}
}

// Message is a single line delivered to a player.
type Message struct {
	Kind MessageKind
	Text string
}
