package sds

import (
	"io"
	"time"

	"github.com/albenik/go-serial/v2"
)

const (
	SERIAL_GAP = 30 * time.Millisecond
	BAUDRATE   = 115200
)

type OpenErr struct {
	Dev string
	Err error
}

func (e OpenErr) Error() string {
	return e.Err.Error() + " while opening " + e.Dev
}

func (e OpenErr) Unwrap() error {
	return e.Err
}

// SerialPort talks to a cradle that is bound to a tty driver instead of
// being claimed through libusb.
type SerialPort struct {
	Dev      string
	Gap      time.Duration // silence that ends a reply
	Baudrate int

	port *serial.Port
}

func (p *SerialPort) Open() error {
	if p.Dev == "" {
		panic("empty SerialPort.Dev")
	}
	if p.Gap <= 0 {
		p.Gap = SERIAL_GAP
	}
	if p.Baudrate <= 0 {
		p.Baudrate = BAUDRATE
	}

	log("opening %s", p.Dev)
	port, err := serial.Open(p.Dev,
		serial.WithBaudrate(p.Baudrate),
		serial.WithReadTimeout(int(p.Gap.Milliseconds())),
		serial.WithWriteTimeout(int(TIMEOUT_SHORT.Milliseconds())))
	if err != nil {
		return OpenErr{p.Dev, err}
	}
	p.port = port
	log("cradle found on %s", p.Dev)
	return nil
}

func (p *SerialPort) Close() {
	if p.port != nil {
		p.port.Close()
		p.port = nil
	}
}

func (p *SerialPort) Write(b []byte, timeout time.Duration) (int, error) {
	if err := p.port.Reconfigure(
		serial.WithWriteTimeout(int(timeout.Milliseconds()))); err != nil {
		return 0, err
	}
	n, err := p.port.Write(b)
	if err == nil && n < len(b) {
		return n, ErrTimeout
	}
	return n, err
}

// Read waits up to timeout for the first bytes, then keeps reading until
// the line stays quiet for Gap or b is full.
func (p *SerialPort) Read(b []byte, timeout time.Duration) (int, error) {
	n := 0
	for deadline := ctime.Now().Add(timeout); n < len(b); {
		nn, err := p.port.Read(b[n:])
		n += nn
		if err != nil && err != io.EOF {
			return n, err
		} else if nn > 0 {
			continue
		} else if n > 0 {
			break
		}

		if ctime.Now().After(deadline) {
			return 0, ErrTimeout
		}
	}
	return n, nil
}

// Reset drops whatever is left in both directions of the line.
func (p *SerialPort) Reset() error {
	if err := p.port.ResetInputBuffer(); err != nil {
		return err
	}
	return p.port.ResetOutputBuffer()
}
