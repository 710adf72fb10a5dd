package main

import "github.com/liquidrocketry/rcp-target/rcp"

// simActuator is an in-memory rcp.SimpleActuatorDriver: it just holds
// whatever state the last write set.
type simActuator struct {
	state map[byte]bool
}

func newSimActuator() *simActuator {
	return &simActuator{state: make(map[byte]bool)}
}

func (s *simActuator) ReadSimpleActuator(id byte) bool { return s.state[id] }
func (s *simActuator) WriteSimpleActuator(id byte, state rcp.SimpleActuatorState) bool {
	switch state {
	case rcp.SimpleActuatorToggle:
		s.state[id] = !s.state[id]
	default:
		s.state[id] = state == rcp.SimpleActuatorOn
	}
	return s.state[id]
}

// simAngled is an in-memory rcp.AngledActuatorDriver.
type simAngled struct {
	value map[byte]float32
}

func newSimAngled() *simAngled {
	return &simAngled{value: make(map[byte]float32)}
}

func (s *simAngled) ReadAngledActuator(id byte) float32 { return s.value[id] }
func (s *simAngled) WriteAngledActuator(id byte, v float32) float32 {
	s.value[id] = v
	return v
}

// simBoolSensor is an in-memory rcp.BoolSensorDriver: always reads as
// false, since no physical input exists in the simulator.
type simBoolSensor struct{}

func newSimBoolSensor() *simBoolSensor { return &simBoolSensor{} }

func (s *simBoolSensor) ReadBoolSensor(id byte) bool { return false }

var _ rcp.SimpleActuatorDriver = (*simActuator)(nil)
var _ rcp.AngledActuatorDriver = (*simAngled)(nil)
var _ rcp.BoolSensorDriver = (*simBoolSensor)(nil)
