// Package command classifies invoked application commands and runs them.
package command

import (
	"github.com/samber/mo"

	"github.com/mattjoyce/runbot/internal/interaction"
)

// Kind is the closed set of commands the bot understands.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindPing
	KindPong
	KindRun
)

// Registered command names.
const (
	NamePing = "ping"
	NamePong = "pong"
	NameRun  = "run"
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return NamePing
	case KindPong:
		return NamePong
	case KindRun:
		return NameRun
	default:
		return "unrecognized"
	}
}

// Classify maps a command name to its Kind. Names are matched exactly.
func Classify(name string) Kind {
	switch name {
	case NamePing:
		return KindPing
	case NamePong:
		return KindPong
	case NameRun:
		return KindRun
	default:
		return KindUnrecognized
	}
}

// Command is a classified invocation bound to the data it came from.
type Command struct {
	kind Kind
	data interaction.Data
}

// New classifies data. An unrecognized name yields mo.None.
func New(data interaction.Data) mo.Option[Command] {
	kind := Classify(data.Name)
	if kind == KindUnrecognized {
		return mo.None[Command]()
	}
	return mo.Some(Command{kind: kind, data: data})
}

// Kind reports which command this is.
func (c Command) Kind() Kind { return c.kind }

// Data returns the interaction data the command was classified from.
func (c Command) Data() interaction.Data { return c.data }
