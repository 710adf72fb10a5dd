// Package ioadapter provides a concrete rcp.IOAdapter backed by a real
// serial port, adapting the reference target's weak-symbol serial_read
// / serial_write extension points to an actual transport.
package ioadapter

import (
	"runtime"
	"time"

	"github.com/tarm/serial"
)

// defaultDevice mirrors driver/mjolnir.Open's platform-specific fallback.
func defaultDevice() string {
	switch runtime.GOOS {
	case "windows":
		return "COM3"
	default:
		return "/dev/ttyUSB0"
	}
}

// defaultBaud matches the reference target's fixed wire baud rate.
const defaultBaud = 115200

// Serial wraps a tarm/serial port as an rcp.IOAdapter. Bytes read by
// ReadAvail are staged in an internal queue that Read drains in order.
type Serial struct {
	port    *serial.Port
	pending []byte
}

// Open opens dev at the protocol's fixed baud rate. An empty dev selects
// the platform default device name, mirroring driver/mjolnir's Open.
func Open(dev string) (*Serial, error) {
	if dev == "" {
		dev = defaultDevice()
	}
	cfg := &serial.Config{Name: dev, Baud: defaultBaud, ReadTimeout: time.Millisecond}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &Serial{port: port}, nil
}

// Close releases the underlying port.
func (s *Serial) Close() error {
	return s.port.Close()
}

// ReadAvail reports up to 255 bytes available, waiting no longer than the
// port's read timeout. tarm/serial has no non-blocking peek, so this
// adapter performs a single byte-at-a-time Read bounded by the read
// timeout set in Open's port configuration (tarm/serial rounds it up to
// the platform's smallest timeout unit); callers that need exact avail counts should prefer a
// platform ioctl, out of scope here (spec.md §1).
func (s *Serial) ReadAvail() uint8 {
	buf := make([]byte, 1)
	n, err := s.port.Read(buf)
	if err != nil || n == 0 {
		return 0
	}
	s.pending = append(s.pending, buf[0])
	return uint8(len(s.pending))
}

// Read returns the next buffered byte, previously staged by ReadAvail.
func (s *Serial) Read() uint8 {
	if len(s.pending) == 0 {
		return 0
	}
	v := s.pending[0]
	s.pending = s.pending[1:]
	return v
}

// Write hands buf to the port in a single call.
func (s *Serial) Write(buf []byte) (int, error) {
	return s.port.Write(buf)
}
