package rcp

import "github.com/liquidrocketry/rcp-target/internal/frame"

// StepperMode is the tagged control mode of a STEPPER write, matching
// the wire byte exactly.
type StepperMode byte

const (
	StepperAbsolutePos StepperMode = 0x40
	StepperRelativePos StepperMode = 0x80
	StepperSpeed       StepperMode = 0xC0
)

// SimpleActuatorState is the tagged commanded state of a SIMPLE_ACTUATOR
// write, matching the wire byte exactly. TOGGLE is a distinct command
// from ON: a driver implementing it must read its own current state and
// flip it, not just treat any nonzero byte as "on".
type SimpleActuatorState byte

const (
	SimpleActuatorOff    SimpleActuatorState = 0x00
	SimpleActuatorOn     SimpleActuatorState = 0x80
	SimpleActuatorToggle SimpleActuatorState = 0xC0
)

// SimpleActuatorDriver is the consumed read/write seam for
// SIMPLE_ACTUATOR devices (C4). Every method here corresponds to a
// weak-symbol extension point in the reference target: a default no-op
// implementation lets unit tests run without real hardware.
type SimpleActuatorDriver interface {
	ReadSimpleActuator(id byte) bool
	WriteSimpleActuator(id byte, state SimpleActuatorState) bool
}

// StepperDriver is the consumed seam for STEPPER devices.
type StepperDriver interface {
	ReadStepper(id byte) (position, speed float32)
	WriteStepper(id byte, mode StepperMode, value float32) (position, speed float32)
}

// AngledActuatorDriver is the consumed seam for ANGLED_ACTUATOR devices.
type AngledActuatorDriver interface {
	ReadAngledActuator(id byte) float32
	WriteAngledActuator(id byte, value float32) float32
}

// BoolSensorDriver is the consumed seam for BOOL_SENSOR devices.
type BoolSensorDriver interface {
	ReadBoolSensor(id byte) bool
}

// SensorDriver is the consumed seam for the scalar, vector, GPS and
// POWERMON sensor classes. Read always returns all four channels; the
// dispatcher selects how many it reports based on device class.
type SensorDriver interface {
	ReadSensor(class frame.DeviceClass, id byte) [4]float32
	WriteSensorTare(class frame.DeviceClass, id, channel byte, value float32)
}

// CustomHandler is the consumed seam for CUSTOM-class payloads.
type CustomHandler interface {
	HandleCustomData(payload []byte)
}

// Drivers aggregates every consumed driver seam. Fields are interfaces
// so the embedding program can mix concrete adapters and defaults
// freely; a nil field behaves like the zero-value default below.
type Drivers struct {
	SimpleActuator SimpleActuatorDriver
	Stepper        StepperDriver
	AngledActuator AngledActuatorDriver
	BoolSensor     BoolSensorDriver
	Sensor         SensorDriver
	Custom         CustomHandler
}

// NoopDrivers implements every driver interface with the reference
// target's weak-symbol defaults: actuators report off/zero, sensors
// report zero, writes are accepted but have no effect.
type NoopDrivers struct{}

func (NoopDrivers) ReadSimpleActuator(id byte) bool { return false }
func (NoopDrivers) WriteSimpleActuator(id byte, state SimpleActuatorState) bool {
	return state == SimpleActuatorOn
}
func (NoopDrivers) ReadStepper(id byte) (float32, float32)                          { return 0, 0 }
func (NoopDrivers) WriteStepper(id byte, mode StepperMode, v float32) (float32, float32) {
	return 0, 0
}
func (NoopDrivers) ReadAngledActuator(id byte) float32            { return 0 }
func (NoopDrivers) WriteAngledActuator(id byte, v float32) float32 { return v }
func (NoopDrivers) ReadBoolSensor(id byte) bool                   { return false }
func (NoopDrivers) ReadSensor(class frame.DeviceClass, id byte) [4]float32 {
	return [4]float32{}
}
func (NoopDrivers) WriteSensorTare(class frame.DeviceClass, id, channel byte, v float32) {}
func (NoopDrivers) HandleCustomData(payload []byte)                                     {}

// fill replaces any nil field of d with the NoopDrivers default.
func (d *Drivers) fill() {
	var noop NoopDrivers
	if d.SimpleActuator == nil {
		d.SimpleActuator = noop
	}
	if d.Stepper == nil {
		d.Stepper = noop
	}
	if d.AngledActuator == nil {
		d.AngledActuator = noop
	}
	if d.BoolSensor == nil {
		d.BoolSensor = noop
	}
	if d.Sensor == nil {
		d.Sensor = noop
	}
	if d.Custom == nil {
		d.Custom = noop
	}
}
