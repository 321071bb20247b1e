package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/ecc1/somfy"
	"github.com/ecc1/somfy/state"
)

type fakeTransmitter struct {
	sent int
	err  error
}

func (tx *fakeTransmitter) Transmit(seq somfy.Sequence) error {
	if tx.err != nil {
		return tx.err
	}
	tx.sent++
	return nil
}

type message struct {
	topic   string
	payload []byte
}

func newTestBridge(t *testing.T, tx somfy.Transmitter) (*bridge, *[]message, string) {
	t.Helper()
	s := &state.State{}
	if _, err := s.Add("kitchen"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "somfy.state")
	var msgs []message
	b := newBridge("home/somfy/", s, somfy.NewRemote(tx, 1), path, func(topic string, payload []byte) {
		msgs = append(msgs, message{topic, payload})
	})
	return b, &msgs, path
}

func TestParse(t *testing.T) {
	b, _, _ := newTestBridge(t, &fakeTransmitter{})
	cases := []struct {
		topic string
		name  string
		ok    bool
	}{
		{"home/somfy/kitchen/set", "kitchen", true},
		{"home/somfy/kitchen/state", "", false},
		{"home/somfy//set", "", false},
		{"home/somfy/a/b/set", "", false},
		{"other/kitchen/set", "", false},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%q", c.topic), func(t *testing.T) {
			req, ok := b.parse(c.topic, []byte(" Down\n"))
			if ok != c.ok {
				t.Fatalf("parse(%q) ok == %v, want %v", c.topic, ok, c.ok)
			}
			if ok && (req.name != c.name || req.command != "Down") {
				t.Errorf("parse(%q) == %+v, want name %q command Down", c.topic, req, c.name)
			}
		})
	}
	if f := b.setFilter(); f != "home/somfy/+/set" {
		t.Errorf("setFilter() == %q", f)
	}
}

func TestHandle(t *testing.T) {
	tx := &fakeTransmitter{}
	b, msgs, path := newTestBridge(t, tx)
	for _, cmd := range []string{"up", "close"} {
		if !b.forward("home/somfy/kitchen/set", []byte(cmd)) {
			t.Fatalf("forward dropped %q", cmd)
		}
	}
	b.stop()
	b.run()
	<-b.done
	if tx.sent != 2 {
		t.Fatalf("transmitted %d sequences, want 2", tx.sent)
	}
	if len(*msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(*msgs))
	}
	m := (*msgs)[1]
	if m.topic != "home/somfy/kitchen/state" {
		t.Errorf("published to %q", m.topic)
	}
	var r report
	if err := json.Unmarshal(m.payload, &r); err != nil {
		t.Fatal(err)
	}
	want := report{Command: "down", Address: "100002", RollingCode: somfy.InitialRollingCode + 2}
	if r != want {
		t.Errorf("report == %+v, want %+v", r, want)
	}
	s, err := state.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Blinds) != 1 || s.Blinds[0].RollingCode != somfy.InitialRollingCode+2 {
		t.Errorf("saved state == %+v", s.Blinds)
	}
}

func TestHandleErrors(t *testing.T) {
	cases := []struct {
		req request
		err error
	}{
		{request{"porch", "up"}, nil},
		{request{"kitchen", "sideways"}, nil},
		{request{"kitchen", "up"}, errors.New("radio unavailable")},
	}
	for _, c := range cases {
		t.Run(c.req.name+"_"+c.req.command, func(t *testing.T) {
			tx := &fakeTransmitter{err: c.err}
			b, msgs, _ := newTestBridge(t, tx)
			b.handle(c.req)
			if len(*msgs) != 1 {
				t.Fatalf("published %d messages, want 1", len(*msgs))
			}
			m := (*msgs)[0]
			if m.topic != "home/somfy/"+c.req.name+"/error" {
				t.Errorf("published to %q", m.topic)
			}
			var f failure
			if err := json.Unmarshal(m.payload, &f); err != nil {
				t.Fatal(err)
			}
			if f.Command != c.req.command || f.Error == "" {
				t.Errorf("failure report == %+v", f)
			}
			blind, err := b.state.Lookup("kitchen")
			if err != nil {
				t.Fatal(err)
			}
			if blind.RollingCode != somfy.InitialRollingCode {
				t.Errorf("rolling code advanced to %d after failure", blind.RollingCode)
			}
		})
	}
}

func TestStop(t *testing.T) {
	tx := &fakeTransmitter{}
	b, msgs, _ := newTestBridge(t, tx)
	if b.forward("home/somfy/kitchen/status", []byte("up")) {
		t.Errorf("forward accepted a message on a non-set topic")
	}
	if !b.forward("home/somfy/kitchen/set", []byte("up")) {
		t.Fatal("forward dropped a request before stop")
	}
	b.stop()
	b.stop()
	if b.forward("home/somfy/kitchen/set", []byte("down")) {
		t.Errorf("forward accepted a request after stop")
	}
	b.run()
	<-b.done
	if tx.sent != 1 || len(*msgs) != 1 {
		t.Errorf("after stop: transmitted %d, published %d; want 1 and 1", tx.sent, len(*msgs))
	}
}
