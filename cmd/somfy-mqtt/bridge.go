package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ecc1/somfy"
	"github.com/ecc1/somfy/state"
)

// request is a command received for a named blind.
type request struct {
	name    string
	command string
}

// report is published after a successful transmission.
type report struct {
	Command     string `json:"command"`
	Address     string `json:"address"`
	RollingCode uint16 `json:"rolling_code"`
}

type failure struct {
	Command string `json:"command"`
	Error   string `json:"error"`
}

const requestBacklog = 16

// bridge owns the state and the remote; only its run goroutine touches them.
type bridge struct {
	prefix    string
	state     *state.State
	remote    *somfy.Remote
	statePath string
	publish   func(topic string, payload []byte)
	done      chan struct{}

	mu       sync.Mutex // protects requests and stopped
	requests chan request
	stopped  bool
}

func newBridge(prefix string, s *state.State, remote *somfy.Remote, statePath string, publish func(string, []byte)) *bridge {
	return &bridge{
		prefix:    strings.TrimSuffix(prefix, "/"),
		state:     s,
		remote:    remote,
		statePath: statePath,
		publish:   publish,
		done:      make(chan struct{}),
		requests:  make(chan request, requestBacklog),
	}
}

func (b *bridge) setFilter() string {
	return b.prefix + "/+/set"
}

// parse extracts the blind name from a PREFIX/NAME/set topic.
func (b *bridge) parse(topic string, payload []byte) (request, bool) {
	rest := strings.TrimPrefix(topic, b.prefix+"/")
	if rest == topic || !strings.HasSuffix(rest, "/set") {
		return request{}, false
	}
	name := strings.TrimSuffix(rest, "/set")
	if name == "" || strings.Contains(name, "/") {
		return request{}, false
	}
	return request{name: name, command: strings.TrimSpace(string(payload))}, true
}

// forward queues the command in a PREFIX/NAME/set message for the run goroutine.
// It reports false for other topics and after stop.
func (b *bridge) forward(topic string, payload []byte) bool {
	req, ok := b.parse(topic, payload)
	if !ok {
		log.Printf("ignoring message on %s", topic)
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		log.Printf("%s: shutting down, dropping %q", req.name, req.command)
		return false
	}
	b.requests <- req
	return true
}

// stop ends the run loop once queued requests are handled.
func (b *bridge) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stopped {
		b.stopped = true
		close(b.requests)
	}
}

func (b *bridge) run() {
	defer close(b.done)
	for req := range b.requests {
		b.handle(req)
	}
}

func (b *bridge) handle(req request) {
	if err := b.send(req); err != nil {
		log.Printf("%s: %v", req.name, err)
		b.publishJSON(req.name, "error", failure{Command: req.command, Error: err.Error()})
	}
}

func (b *bridge) send(req request) error {
	blind, err := b.state.Lookup(req.name)
	if err != nil {
		return err
	}
	cmd, err := somfy.ParseCommand(req.command)
	if err != nil {
		return err
	}
	if err := b.remote.Send(blind, cmd); err != nil {
		return err
	}
	if b.statePath != "" {
		if err := b.state.Save(b.statePath); err != nil {
			return err
		}
	}
	b.publishJSON(req.name, "state", report{
		Command:     strings.ToLower(cmd.String()),
		Address:     fmt.Sprintf("%06X", blind.Address),
		RollingCode: blind.RollingCode,
	})
	return nil
}

func (b *bridge) publishJSON(name string, suffix string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("%s: %v", name, err)
		return
	}
	b.publish(b.prefix+"/"+name+"/"+suffix, payload)
}
