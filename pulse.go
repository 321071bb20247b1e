package somfy

import (
	"fmt"
	"time"
)

// Pulse is a level held for a duration in microseconds.
type Pulse struct {
	Level    bool
	Duration uint32
}

// Interval returns the pulse duration as a time.Duration.
func (p Pulse) Interval() time.Duration {
	return time.Duration(p.Duration) * time.Microsecond
}

// String formats high pulses as positive and low pulses as negative durations.
func (p Pulse) String() string {
	if p.Level {
		return fmt.Sprintf("+%d", p.Duration)
	}
	return fmt.Sprintf("-%d", p.Duration)
}

// Consolidate merges runs of equal-level pulses into single pulses
// whose duration is the sum of the run.
func Consolidate(raw []Pulse) []Pulse {
	out := make([]Pulse, 0, len(raw))
	for _, p := range raw {
		n := len(out)
		if n != 0 && out[n-1].Level == p.Level {
			out[n-1].Duration += p.Duration
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sequence is a finished, read-only pulse sequence.
// Its length is fixed when it is built.
type Sequence struct {
	pulses []Pulse
}

// Len returns the number of pulses in s.
func (s Sequence) Len() int {
	return len(s.pulses)
}

// At returns the i'th pulse of s.
func (s Sequence) At(i int) Pulse {
	return s.pulses[i]
}

// Pulses returns a copy of the pulses in s.
func (s Sequence) Pulses() []Pulse {
	return append([]Pulse(nil), s.pulses...)
}

// Duration returns the total air time of s.
func (s Sequence) Duration() time.Duration {
	total := time.Duration(0)
	for _, p := range s.pulses {
		total += p.Interval()
	}
	return total
}

// Cursor returns a cursor positioned at the first pulse of s.
func (s Sequence) Cursor() *Cursor {
	return &Cursor{seq: s}
}

// Cursor hands out the pulses of a sequence one at a time,
// the way a transmit callback consumes them.
type Cursor struct {
	seq   Sequence
	index int
}

// Next returns the next pulse. The second result is false
// once the sequence is exhausted.
func (c *Cursor) Next() (Pulse, bool) {
	if c.index >= c.seq.Len() {
		return Pulse{}, false
	}
	p := c.seq.pulses[c.index]
	c.index++
	return p, true
}

// Remaining returns the number of pulses not yet returned by Next.
func (c *Cursor) Remaining() int {
	return c.seq.Len() - c.index
}
