package command

import "errors"

// RoutingError reports a recognized command invoked in a way it cannot run.
type RoutingError struct {
	msg  string
	hint string
}

func (e *RoutingError) Error() string { return e.msg }

// UserMessage is the instruction shown to the invoker.
func (e *RoutingError) UserMessage() string { return e.hint }

// ErrNoTargetMessage is returned when run is invoked without a resolved
// target message, i.e. not from the message context menu.
var ErrNoTargetMessage = &RoutingError{
	msg:  "run invoked without a target message",
	hint: "ERROR: This command can only be used through the context menu on a message containing a code block. Use the ... in the upper right corner of the message, Apps -> Run.",
}

// fallbackMessage is shown for errors that carry no user-facing text.
const fallbackMessage = "ERROR: Something went wrong."

type userFacing interface {
	UserMessage() string
}

// UserMessage extracts the channel-safe text for err.
func UserMessage(err error) string {
	var uf userFacing
	if errors.As(err, &uf) {
		return uf.UserMessage()
	}
	return fallbackMessage
}
