// Package gpioactuator implements rcp.SimpleActuatorDriver and
// rcp.AngledActuatorDriver over raw GPIO pins, adapting wshat's
// periph.io button-polling shape to actuator output instead of input.
package gpioactuator

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"

	"github.com/liquidrocketry/rcp-target/rcp"
)

// Simple drives a set of GPIO pins as on/off simple actuators, indexed
// by the wire id byte.
type Simple struct {
	pins map[byte]gpio.PinIO
}

// NewSimple initializes periph.io's host drivers and binds each id to a
// pin. Call once before handing the result to rcp.Drivers.
func NewSimple(pins map[byte]gpio.PinIO) (*Simple, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpioactuator: %w", err)
	}
	for id, p := range pins {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("gpioactuator: pin %d: %w", id, err)
		}
	}
	return &Simple{pins: pins}, nil
}

// ReadSimpleActuator implements rcp.SimpleActuatorDriver.
func (s *Simple) ReadSimpleActuator(id byte) bool {
	p, ok := s.pins[id]
	if !ok {
		return false
	}
	return p.Read() == gpio.High
}

// WriteSimpleActuator implements rcp.SimpleActuatorDriver. TOGGLE flips
// the pin's current level.
func (s *Simple) WriteSimpleActuator(id byte, state rcp.SimpleActuatorState) bool {
	p, ok := s.pins[id]
	if !ok {
		return false
	}
	on := state == rcp.SimpleActuatorOn
	if state == rcp.SimpleActuatorToggle {
		on = p.Read() != gpio.High
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := p.Out(level); err != nil {
		return s.ReadSimpleActuator(id)
	}
	return on
}

// Angled drives a set of PWM-capable pins as angled actuators reporting
// a float32 angle/position. This adapter tracks the commanded value and
// drives the pin high for a positive value and low otherwise; it does
// not generate a PWM signal.
type Angled struct {
	pins   map[byte]gpio.PinIO
	values map[byte]float32
}

// NewAngled binds each id to a pin, with all positions starting at 0.
func NewAngled(pins map[byte]gpio.PinIO) (*Angled, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpioactuator: %w", err)
	}
	return &Angled{pins: pins, values: make(map[byte]float32, len(pins))}, nil
}

// ReadAngledActuator implements rcp.AngledActuatorDriver.
func (a *Angled) ReadAngledActuator(id byte) float32 {
	return a.values[id]
}

// WriteAngledActuator implements rcp.AngledActuatorDriver.
func (a *Angled) WriteAngledActuator(id byte, value float32) float32 {
	p, ok := a.pins[id]
	if !ok {
		return 0
	}
	level := gpio.Low
	if value > 0 {
		level = gpio.High
	}
	if err := p.Out(level); err != nil {
		return a.values[id]
	}
	a.values[id] = value
	return value
}
