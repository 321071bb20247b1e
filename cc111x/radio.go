package cc111x

import (
	"log"
	"time"

	"github.com/ecc1/radio"
)

const (
	defaultTimeout = 50 * time.Millisecond

	verbose    = false
	verboseSPI = false
)

func init() {
	if verbose || verboseSPI {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.LUTC)
	}
}

// CC111x hardware-related constants.
const (
	FXOSC = 24000000 // Crystal frequency in Hz
)

// Register addresses as numbered by subg_rfspy's update/read commands.
const (
	PKTCTRL0  = 0x04
	FREQ2     = 0x09 // Frequency control word, high byte
	FREQ1     = 0x0A // Frequency control word, middle byte
	FREQ0     = 0x0B // Frequency control word, low byte
	MDMCFG2   = 0x0E
	MCSM1     = 0x13
	FREND0    = 0x1B
	PA_TABLE1 = 0x2D
	PA_TABLE0 = 0x2E
)

// Name returns the radio's name.
func (r *Radio) Name() string {
	return "CC111x"
}

// State returns the firmware's state string.
func (r *Radio) State() string {
	r.request(CmdGetState)
	return string(r.response(defaultTimeout))
}

// Version returns the radio's firmware version.
func (r *Radio) Version() string {
	r.request(CmdGetVersion)
	return string(r.response(defaultTimeout))
}

// Init initializes the radio device.
func (r *Radio) Init(frequency uint32) {
	r.SetFrequency(frequency)
}

// ReadRegister returns the value of a CC111x register.
// This is only available on subg_rfspy 1.0 or later.
func (r *Radio) ReadRegister(addr byte) byte {
	r.request(CmdReadRegister, addr)
	b := r.response(defaultTimeout)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// WriteRegister writes a value to a CC111x register.
func (r *Radio) WriteRegister(addr byte, value byte) {
	r.request(CmdUpdateRegister, addr, value)
	_ = r.response(defaultTimeout)
}

// Frequency returns the radio's current frequency, in Hertz.
func (r *Radio) Frequency() uint32 {
	f2 := r.ReadRegister(FREQ2)
	f1 := r.ReadRegister(FREQ1)
	f0 := r.ReadRegister(FREQ0)
	return wordFrequency(uint32(f2)<<16 | uint32(f1)<<8 | uint32(f0))
}

// SetFrequency sets the radio to the given frequency, in Hertz.
func (r *Radio) SetFrequency(freq uint32) {
	f := frequencyWord(freq)
	r.WriteRegister(FREQ2, byte(f>>16))
	r.WriteRegister(FREQ1, byte(f>>8))
	r.WriteRegister(FREQ0, byte(f))
}

// frequencyWord rounds freq to the nearest 24-bit FREQ register value.
func frequencyWord(freq uint32) uint32 {
	return uint32((uint64(freq)<<16 + FXOSC/2) / FXOSC)
}

func wordFrequency(f uint32) uint32 {
	return uint32(uint64(f) * FXOSC >> 16)
}

// Statistics returns the byte and packet counts for the radio device.
func (r *Radio) Statistics() radio.Statistics {
	return r.stats
}

// Error returns the error state of the radio device.
func (r *Radio) Error() error {
	return r.err
}

// SetError sets the error state of the radio device.
func (r *Radio) SetError(err error) {
	r.err = err
}
