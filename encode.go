package somfy

// RTS timing constants, in microseconds.
const (
	HalfSymbol    = 604
	WakeupHigh    = 9415
	WakeupLow     = 89565
	HWSyncHigh    = 2416
	HWSyncLow     = 2416
	SWSyncHigh    = 4550
	SWSyncLow     = 604
	InterFrameGap = 30415
)

const (
	firstHWSyncs  = 2
	repeatHWSyncs = 7
)

// MaxPulses is the capacity of the pulse buffers.
// Four repeats need 507 raw pulses; five would need 636.
const MaxPulses = 600

// Encoder accumulates the raw, unconsolidated pulses of a transmission
// in a fixed-size buffer.
type Encoder struct {
	buf [MaxPulses]Pulse
	n   int
}

// Reset empties the encoder.
func (e *Encoder) Reset() {
	e.n = 0
}

// Len returns the number of raw pulses encoded so far.
func (e *Encoder) Len() int {
	return e.n
}

// Pulses returns the raw pulses encoded so far.
// The slice aliases the encoder's buffer.
func (e *Encoder) Pulses() []Pulse {
	return e.buf[:e.n]
}

func (e *Encoder) push(level bool, duration uint32) error {
	if e.n == len(e.buf) {
		return ErrCapacityExceeded
	}
	e.buf[e.n] = Pulse{Level: level, Duration: duration}
	e.n++
	return nil
}

func (e *Encoder) pair(high, low uint32) error {
	if err := e.push(true, high); err != nil {
		return err
	}
	return e.push(false, low)
}

// Encode appends one repeat of the obfuscated frame f.
// Repeat 0 starts with the wakeup pulse; last suppresses the trailing gap.
func (e *Encoder) Encode(f Frame, repeat int, last bool) error {
	syncs := repeatHWSyncs
	if repeat == 0 {
		if err := e.pair(WakeupHigh, WakeupLow); err != nil {
			return err
		}
		syncs = firstHWSyncs
	}
	for i := 0; i < syncs; i++ {
		if err := e.pair(HWSyncHigh, HWSyncLow); err != nil {
			return err
		}
	}
	if err := e.pair(SWSyncHigh, SWSyncLow); err != nil {
		return err
	}
	if err := e.manchester(f); err != nil {
		return err
	}
	if last {
		return nil
	}
	return e.push(false, InterFrameGap)
}

// manchester encodes f most significant bit first.
// A 1 is a rising edge (low, high) and a 0 is a falling edge (high, low).
func (e *Encoder) manchester(f Frame) error {
	for _, b := range f {
		for bit := 7; bit >= 0; bit-- {
			one := (b>>uint(bit))&1 == 1
			if err := e.push(!one, HalfSymbol); err != nil {
				return err
			}
			if err := e.push(one, HalfSymbol); err != nil {
				return err
			}
		}
	}
	return nil
}
