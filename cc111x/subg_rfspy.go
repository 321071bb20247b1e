package cc111x

import (
	"errors"
)

// Command is a request understood by the subg_rfspy firmware on the CC111x.
// See https://github.com/ps2/subg_rfspy
type Command byte

const (
	CmdGetState       Command = 1
	CmdGetVersion     Command = 2
	CmdGetPacket      Command = 3
	CmdSendPacket     Command = 4
	CmdSendAndListen  Command = 5
	CmdUpdateRegister Command = 6
	CmdReset          Command = 7
	CmdLED            Command = 8
	CmdReadRegister   Command = 9
)

const firmwarePrefix = "subg_rfspy"

var errNoResponse = errors.New("no response from firmware")
