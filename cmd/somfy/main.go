package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	"github.com/pkg/errors"

	"github.com/ecc1/somfy"
	"github.com/ecc1/somfy/cc111x"
	"github.com/ecc1/somfy/state"
)

var (
	statePath = flag.String("state", defaultStatePath(), "state `file`")
	repeats   = flag.Uint("repeats", somfy.DefaultRepeats, "number of frame `repeats`")
	frequency = flag.Uint("freq", somfy.Frequency, "carrier `frequency` in Hz")
	verbose   = flag.Bool("v", false, "verbose mode")
)

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "somfy.state"
	}
	return filepath.Join(home, ".somfy", "somfy.state")
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [options] command [args]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "commands:\n")
	fmt.Fprintf(os.Stderr, "  list\n")
	fmt.Fprintf(os.Stderr, "  add NAME\n")
	fmt.Fprintf(os.Stderr, "  remove NAME\n")
	fmt.Fprintf(os.Stderr, "  send NAME up|down|stop|prog\n")
	fmt.Fprintf(os.Stderr, "  dump NAME up|down|stop|prog\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	if *repeats > 0xFF {
		log.Fatalf("%d repeats is too many", *repeats)
	}
	s, err := state.Load(*statePath)
	if err != nil {
		log.Fatal(err)
	}
	switch args[0] {
	case "list":
		needArgs(args, 1)
		list(s)
	case "add":
		needArgs(args, 2)
		b, err := s.Add(args[1])
		if err != nil {
			log.Fatal(err)
		}
		save(s)
		fmt.Printf("added %s at address %06X\n", b.Name, b.Address)
	case "remove":
		needArgs(args, 2)
		if err := s.Remove(args[1]); err != nil {
			log.Fatal(err)
		}
		save(s)
	case "send":
		needArgs(args, 3)
		b, cmd := blindCommand(s, args[1], args[2])
		send(b, cmd)
		save(s)
	case "dump":
		needArgs(args, 3)
		b, cmd := blindCommand(s, args[1], args[2])
		if err := dump(b, cmd); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func needArgs(args []string, n int) {
	if len(args) != n {
		usage()
		os.Exit(2)
	}
}

func blindCommand(s *state.State, name string, command string) (*somfy.Blind, somfy.Command) {
	b, err := s.Lookup(name)
	if err != nil {
		log.Fatal(err)
	}
	cmd, err := somfy.ParseCommand(command)
	if err != nil {
		log.Fatal(err)
	}
	return b, cmd
}

func save(s *state.State) {
	if err := s.Save(*statePath); err != nil {
		log.Fatal(err)
	}
}

func list(s *state.State) {
	if len(s.Blinds) == 0 {
		fmt.Printf("no blinds in %s\n", *statePath)
		return
	}
	for _, b := range s.Blinds {
		fmt.Printf("%-*s  address %06X  rolling code %d\n", state.MaxNameLen, b.Name, b.Address, b.RollingCode)
	}
}

func send(b *somfy.Blind, cmd somfy.Command) {
	r := cc111x.Open()
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	defer r.Close()
	r.Init(uint32(*frequency))
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	remote := somfy.NewRemote(r, uint8(*repeats))
	remote.SetVerbose(*verbose)
	if err := remote.Send(b, cmd); err != nil {
		log.Fatal(errors.Wrapf(err, "%s %v", b.Name, cmd))
	}
	if *verbose {
		log.Printf("%s: next rolling code %d", b.Name, b.RollingCode)
	}
}

func dump(b *somfy.Blind, cmd somfy.Command) error {
	seq, err := somfy.BuildTransmission(cmd, b.RollingCode, b.Address, uint8(*repeats))
	if err != nil {
		return err
	}
	color := isatty.IsTerminal(os.Stdout.Fd())
	var w io.Writer = os.Stdout
	if color {
		w = colorable.NewColorableStdout()
	}
	fmt.Fprintf(w, "%s: %v address %06X rolling code %d\n", b.Name, cmd, b.Address, b.RollingCode)
	writePulses(w, seq, color)
	fmt.Fprintf(w, "%d pulses, %v\n", seq.Len(), seq.Duration())
	return nil
}

const pulsesPerLine = 8

func writePulses(w io.Writer, seq somfy.Sequence, color bool) {
	c := seq.Cursor()
	for n := 0; ; n++ {
		p, ok := c.Next()
		if !ok {
			if n%pulsesPerLine != 0 {
				fmt.Fprintln(w)
			}
			return
		}
		s := fmt.Sprintf("%7s", p)
		if color {
			s = ansi.Color(s, pulseColor(p))
		}
		fmt.Fprint(w, s)
		if (n+1)%pulsesPerLine == 0 {
			fmt.Fprintln(w)
		}
	}
}

func pulseColor(p somfy.Pulse) string {
	switch {
	case !p.Level && p.Duration >= somfy.InterFrameGap:
		return "black+h"
	case p.Level:
		return "green+b"
	default:
		return "blue"
	}
}
