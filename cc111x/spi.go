//go:build !uart

package cc111x

import (
	"bytes"
	"fmt"
	"log"
	"math/bits"
	"strings"
	"time"

	"github.com/ecc1/gpio"
	"github.com/ecc1/radio"
	"github.com/ecc1/spi"
)

const spiSpeed = 62500 // Hz

// Radio represents an open CC111x attached over SPI.
type Radio struct {
	device        *spi.Device
	resetPin      gpio.OutputPin
	dataPin       gpio.OutputPin
	receiveBuffer bytes.Buffer
	xferBuf       [1]byte
	stats         radio.Statistics
	err           error
}

// Open opens the radio device and checks its firmware version.
func Open() *Radio {
	r := &Radio{}
	r.device, r.err = spi.Open(spiDevice, spiSpeed, customCS)
	if r.err != nil {
		return r
	}
	r.resetPin, r.err = gpio.Output(resetPin, true, false)
	if r.err != nil {
		r.Close()
		return r
	}
	r.dataPin, r.err = gpio.Output(dataPin, false, false)
	if r.err != nil {
		r.Close()
		return r
	}
	r.Reset()
	r.Flush()
	v := r.Version()
	if r.err == nil && !strings.HasPrefix(v, firmwarePrefix) {
		r.err = fmt.Errorf("unexpected firmware version %q", v)
	}
	if r.err != nil {
		r.Close()
	}
	return r
}

// Close closes the radio device.
// An earlier error is kept in preference to the one from closing.
func (r *Radio) Close() {
	err := r.device.Close()
	if r.err == nil {
		r.err = err
	}
}

// Device returns the pathname of the radio's device.
func (r *Radio) Device() string {
	return spiDevice
}

// Reset pulses the CC111x reset line and waits for the firmware to start.
func (r *Radio) Reset() {
	if r.Error() != nil {
		return
	}
	_ = r.resetPin.Write(true)
	time.Sleep(100 * time.Microsecond)
	r.err = r.resetPin.Write(false)
	time.Sleep(1 * time.Second)
}

// xfer exchanges one byte with the firmware, which expects LSB-first order.
func (r *Radio) xfer(b byte) byte {
	r.xferBuf[0] = bits.Reverse8(b)
	r.err = r.device.Transfer(r.xferBuf[:])
	c := bits.Reverse8(r.xferBuf[0])
	if verboseSPI {
		log.Printf("xfer %02X -> %02X", b, c)
	}
	return c
}

// poll starts an SPI exchange of n bytes and returns the number of bytes
// the firmware has waiting for us.
func (r *Radio) poll(n byte) byte {
	r.xfer(0x99)
	return r.xfer(n)
}

func (r *Radio) request(cmd Command, params ...byte) {
	if r.Error() != nil {
		return
	}
	data := append([]byte{byte(cmd)}, params...)
	if verbose {
		log.Printf("request: % X", data)
	}
	if len(data) > 0xFF {
		r.err = fmt.Errorf("%d-byte request too long", len(data))
		return
	}
	count := r.poll(byte(len(data)))
	for _, b := range data {
		rx := r.xfer(b)
		if count > 0 {
			r.receiveBuffer.WriteByte(rx)
			count--
		}
	}
	r.drain(count)
}

// drain reads count pending bytes into the receive buffer.
func (r *Radio) drain(count byte) {
	for ; count != 0; count-- {
		r.receiveBuffer.WriteByte(r.xfer(0))
	}
}

// Flush discards any bytes the firmware has waiting.
func (r *Radio) Flush() {
	if r.Error() != nil {
		return
	}
	count := r.poll(0)
	for ; count != 0; count-- {
		r.xfer(0)
	}
	r.receiveBuffer.Reset()
}

// response waits for a zero-terminated reply from the firmware.
func (r *Radio) response(timeout time.Duration) []byte {
	const pollInterval = 1 * time.Millisecond
	for r.Error() == nil && timeout > 0 {
		b := r.receiveBuffer.Bytes()
		n := len(b)
		if n != 0 && b[n-1] == 0 {
			p := append([]byte(nil), b[:n-1]...)
			r.receiveBuffer.Reset()
			if verbose {
				log.Printf("received %d-byte response % X", n-1, p)
			}
			return p
		}
		// No terminating 0 byte yet.
		time.Sleep(pollInterval)
		timeout -= pollInterval
		r.drain(r.poll(0))
	}
	if r.err == nil {
		r.err = errNoResponse
	}
	return nil
}
