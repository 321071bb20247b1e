package somfy

import (
	"github.com/pkg/errors"
)

// Frequency is the RTS carrier frequency in Hz.
const Frequency = 433420000

// DefaultRepeats is the number of frames sent per button press.
const DefaultRepeats = 4

var (
	ErrInvalidRepeatCount = errors.New("repeat count must be at least 1")
	ErrCapacityExceeded   = errors.New("transmission exceeds pulse buffer capacity")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrZeroRollingCode    = errors.New("rolling code 0 is reserved")
)

// InitialRollingCode is the rolling code of a newly registered blind.
const InitialRollingCode = 1

// NextRollingCode returns the rolling code to use after a successful
// transmission with rc. Zero is never used.
func NextRollingCode(rc uint16) uint16 {
	rc++
	if rc == 0 {
		rc = 1
	}
	return rc
}

// BuildTransmission returns the consolidated pulse sequence for
// sending cmd with the given rolling code and address, repeated
// the given number of times.
func BuildTransmission(cmd Command, rollingCode uint16, address uint32, repeats uint8) (Sequence, error) {
	if !cmd.Valid() {
		return Sequence{}, errors.Wrapf(ErrInvalidCommand, "%v", cmd)
	}
	if repeats == 0 {
		return Sequence{}, ErrInvalidRepeatCount
	}
	if rollingCode == 0 {
		return Sequence{}, ErrZeroRollingCode
	}
	f := BuildFrame(cmd, rollingCode, address)
	f.Obfuscate()
	var e Encoder
	for r := 0; r < int(repeats); r++ {
		if err := e.Encode(f, r, r == int(repeats)-1); err != nil {
			return Sequence{}, errors.Wrapf(err, "%d repeats", repeats)
		}
	}
	pulses := Consolidate(e.Pulses())
	if len(pulses) > MaxPulses {
		return Sequence{}, errors.Wrapf(ErrCapacityExceeded, "%d consolidated pulses", len(pulses))
	}
	return Sequence{pulses: pulses}, nil
}
