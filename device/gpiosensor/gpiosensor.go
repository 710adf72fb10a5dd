// Package gpiosensor implements rcp.BoolSensorDriver over raw GPIO
// input pins, adapting wshat's periph.io button-reading shape directly
// (a BOOL_SENSOR is a button without debounce or event delivery).
package gpiosensor

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"
)

// Bool reads a set of GPIO input pins as BOOL_SENSOR devices, indexed
// by the wire id byte.
type Bool struct {
	pins map[byte]gpio.PinIn
}

// NewBool initializes periph.io's host drivers and configures each pin
// as a pulled-up input, mirroring wshat.Open's button setup.
func NewBool(pins map[byte]gpio.PinIn) (*Bool, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpiosensor: %w", err)
	}
	for id, p := range pins {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("gpiosensor: pin %d: %w", id, err)
		}
	}
	return &Bool{pins: pins}, nil
}

// ReadBoolSensor implements rcp.BoolSensorDriver. An unbound id reads as
// false.
func (b *Bool) ReadBoolSensor(id byte) bool {
	p, ok := b.pins[id]
	if !ok {
		return false
	}
	return p.Read() == gpio.Low
}
