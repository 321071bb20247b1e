//go:build uart

package cc111x

import (
	"bytes"
	"log"
	"time"

	"github.com/ecc1/gpio"
	"github.com/ecc1/radio"
	"github.com/ecc1/serial"
)

const (
	serialDevice = "/dev/serial0"
	serialSpeed  = 19200
)

// Radio represents a CC111x attached over a serial port.
type Radio struct {
	device  *serial.Port
	dataPin gpio.OutputPin
	buf     [256]byte
	stats   radio.Statistics
	err     error
}

// Open opens the serial port and the OOK data line.
func Open() *Radio {
	r := &Radio{}
	r.device, r.err = serial.Open(serialDevice, serialSpeed)
	if r.err != nil {
		return r
	}
	r.dataPin, r.err = gpio.Output(dataPin, false, false)
	if r.err != nil {
		r.Close()
	}
	return r
}

// Close closes the serial port.
func (r *Radio) Close() {
	err := r.device.Close()
	if r.err == nil {
		r.err = err
	}
}

// Device returns the pathname of the radio's device.
func (*Radio) Device() string {
	return serialDevice
}

// Reset resets the CC111x hardware.
// (Can't reset when connected only via serial port.)
func (*Radio) Reset() {
}

func (r *Radio) request(cmd Command, params ...byte) {
	if r.Error() != nil {
		return
	}
	data := append([]byte{byte(cmd)}, params...)
	if verbose {
		log.Printf("request: % X", data)
	}
	r.err = r.device.Write(data)
}

func (r *Radio) response(timeout time.Duration) []byte {
	const pollInterval = 1 * time.Millisecond
	off := 0
	for r.Error() == nil && timeout > 0 {
		n, err := r.device.ReadAvailable(r.buf[off:])
		if err != nil {
			r.SetError(err)
			return nil
		}
		off += n
		if i := bytes.IndexByte(r.buf[:off], 0); i >= 0 {
			p := append([]byte(nil), r.buf[:i]...)
			if verbose {
				log.Printf("received %d-byte response % X", i, p)
			}
			return p
		}
		if off == len(r.buf) {
			off = 0
		}
		time.Sleep(pollInterval)
		timeout -= pollInterval
	}
	if r.err == nil {
		r.err = errNoResponse
	}
	return nil
}
