package somfy

import (
	"log"
	"sync"
)

// Blind is a registered receiver: its display name,
// 24-bit address, and current rolling code.
type Blind struct {
	Name        string
	Address     uint32
	RollingCode uint16
}

// Transmitter replays a pulse sequence over the air.
type Transmitter interface {
	Transmit(Sequence) error
}

// Remote sends commands to blinds through a Transmitter.
type Remote struct {
	mu      sync.Mutex
	tx      Transmitter
	repeats uint8
	verbose bool
}

// NewRemote returns a remote that sends each command with the given
// number of repeats.
func NewRemote(tx Transmitter, repeats uint8) *Remote {
	return &Remote{tx: tx, repeats: repeats}
}

// SetVerbose enables logging of each transmission.
func (r *Remote) SetVerbose(v bool) {
	r.mu.Lock()
	r.verbose = v
	r.mu.Unlock()
}

// Send transmits cmd to b. The rolling code of b is advanced
// only if the transmitter reports success.
func (r *Remote) Send(b *Blind, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq, err := BuildTransmission(cmd, b.RollingCode, b.Address, r.repeats)
	if err != nil {
		return err
	}
	if r.verbose {
		log.Printf("%s: %v address %06X rolling code %d (%d pulses, %v)",
			b.Name, cmd, b.Address, b.RollingCode, seq.Len(), seq.Duration())
	}
	if err := r.tx.Transmit(seq); err != nil {
		return err
	}
	b.RollingCode = NextRollingCode(b.RollingCode)
	return nil
}
