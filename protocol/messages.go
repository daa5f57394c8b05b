package protocol

import (
	"fmt"

	"github.com/minaorangina/rundown/game"
)

// NewStateMessage wraps a snapshot for one recipient
func NewStateMessage(recipientID string, s game.Snapshot) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  State,
		Snapshot: &s,
	}
}

// NewRejectedMessage tells a player their command was not applied
func NewRejectedMessage(recipientID string, cmd Cmd, state game.State) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  Rejected,
		Message:  fmt.Sprintf("%s is not allowed in %s", cmd, state),
	}
}

// NewErrorMessage reports a message that could not be handled
func NewErrorMessage(recipientID string, err error) OutboundMessage {
	return OutboundMessage{
		PlayerID: recipientID,
		Command:  Error,
		Error:    err.Error(),
	}
}
