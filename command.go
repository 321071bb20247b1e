package somfy

import (
	"strings"

	"github.com/pkg/errors"
)

// Command represents the button code carried in the upper nibble of frame byte 1.
type Command byte

//go:generate stringer -type Command

const (
	Stop Command = 0x1 // the "My" button
	Up   Command = 0x2
	Down Command = 0x4
	Prog Command = 0x8 // pairing
)

// Commands lists the valid commands in button order.
var Commands = []Command{Up, Stop, Down, Prog}

// Valid reports whether c is one of the defined command codes.
func (c Command) Valid() bool {
	switch c {
	case Stop, Up, Down, Prog:
		return true
	}
	return false
}

var commandNames = map[string]Command{
	"stop":  Stop,
	"my":    Stop,
	"up":    Up,
	"open":  Up,
	"down":  Down,
	"close": Down,
	"prog":  Prog,
	"pair":  Prog,
}

// ParseCommand returns the command with the given name, ignoring case.
func ParseCommand(s string) (Command, error) {
	c, ok := commandNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidCommand, "%q", s)
	}
	return c, nil
}
