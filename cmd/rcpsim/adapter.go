package main

import (
	"go.bug.st/serial"
)

// portAdapter implements rcp.IOAdapter over a go.bug.st/serial port,
// buffering whatever the last port Read returned so ReadAvail can report
// it without reading again. The port's read timeout is zero, so a Read
// returns at once with whatever bytes are already queued.
type portAdapter struct {
	port    serial.Port
	pending []byte
}

func newPortAdapter(port serial.Port) *portAdapter {
	port.SetReadTimeout(0)
	return &portAdapter{port: port}
}

func (a *portAdapter) ReadAvail() uint8 {
	if len(a.pending) > 0 {
		return uint8(len(a.pending))
	}
	buf := make([]byte, 64)
	n, err := a.port.Read(buf)
	if err != nil || n == 0 {
		return 0
	}
	a.pending = append(a.pending, buf[:n]...)
	return uint8(len(a.pending))
}

func (a *portAdapter) Read() uint8 {
	if len(a.pending) == 0 {
		return 0
	}
	v := a.pending[0]
	a.pending = a.pending[1:]
	return v
}

func (a *portAdapter) Write(buf []byte) (int, error) {
	return a.port.Write(buf)
}
