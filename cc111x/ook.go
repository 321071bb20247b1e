package cc111x

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/ecc1/somfy"
)

type register struct {
	addr  byte
	value byte
}

// Register settings for asynchronous OOK transmission,
// with the modulated carrier keyed by the data line.
var ookRegisters = []register{
	{PKTCTRL0, 0x30},  // asynchronous serial mode
	{MDMCFG2, 0x30},   // ASK/OOK, no preamble or sync word
	{MCSM1, 0x32},     // stay in TX after the trigger packet
	{FREND0, 0x11},    // PA_TABLE1 for a high data bit, PA_TABLE0 for low
	{PA_TABLE0, 0x00}, // carrier off
	{PA_TABLE1, 0xC0}, // +10 dBm
}

// Transmit replays seq on the data line with the radio in OOK mode,
// then restores the previous register settings.
func (r *Radio) Transmit(seq somfy.Sequence) error {
	if r.Error() != nil {
		return r.Error()
	}
	saved := r.enterOOK()
	if r.Error() != nil {
		return r.Error()
	}
	if verbose {
		log.Printf("transmitting %d pulses (%v)", seq.Len(), seq.Duration())
	}
	err := replayRealtime(seq, r.dataPin.Write)
	r.restore(saved)
	if err != nil {
		return err
	}
	if r.Error() != nil {
		return r.Error()
	}
	r.stats.Packets.Sent++
	r.stats.Bytes.Sent += seq.Len()
	return nil
}

func (r *Radio) enterOOK() []register {
	saved := make([]register, len(ookRegisters))
	for i, reg := range ookRegisters {
		saved[i] = register{reg.addr, r.ReadRegister(reg.addr)}
	}
	for _, reg := range ookRegisters {
		r.WriteRegister(reg.addr, reg.value)
	}
	// Any packet starts TX; in asynchronous mode the
	// transmitter then follows the data line instead of the FIFO.
	r.request(CmdSendPacket, 0, 0, 0, 0)
	_ = r.response(defaultTimeout)
	if r.Error() != nil {
		r.SetError(fmt.Errorf("entering OOK mode: %v", r.Error()))
	}
	return saved
}

func (r *Radio) restore(saved []register) {
	err := r.Error()
	r.SetError(nil)
	for _, reg := range saved {
		r.WriteRegister(reg.addr, reg.value)
	}
	if err != nil {
		r.SetError(err)
	}
}

// replayRealtime runs replay on its own OS thread at realtime priority.
// The thread stays locked, so it exits with the goroutine
// instead of returning to the scheduler with raised priority.
func replayRealtime(seq somfy.Sequence, set func(bool) error) error {
	done := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		if err := realtime(); err != nil {
			log.Printf("realtime priority unavailable: %v", err)
		}
		done <- replay(seq, set)
	}()
	return <-done
}

// spinThreshold is how close to a deadline replay stops sleeping
// and busy-waits instead.
const spinThreshold = 2 * time.Millisecond

// replay drives set through the pulses of seq. Deadlines are cumulative
// offsets from the start, so timing errors do not accumulate.
// The line is left low.
func replay(seq somfy.Sequence, set func(bool) error) error {
	c := seq.Cursor()
	start := time.Now()
	deadline := time.Duration(0)
	for {
		p, ok := c.Next()
		if !ok {
			break
		}
		if err := set(p.Level); err != nil {
			_ = set(false)
			return err
		}
		deadline += p.Interval()
		if d := deadline - time.Since(start); d > spinThreshold {
			time.Sleep(d - spinThreshold)
		}
		for time.Since(start) < deadline {
		}
	}
	return set(false)
}
