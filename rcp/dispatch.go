package rcp

import "github.com/liquidrocketry/rcp-target/internal/frame"

// dispatch handles one decoded inbound frame, per the per-device-class
// rules in spec.md §4.3.
func (t *Target) dispatch(fr frame.Frame) {
	switch fr.Device {
	case frame.TestState:
		t.dispatchTestState(fr.Payload)
	case frame.Prompt:
		t.pr.Deliver(fr.Payload)
	case frame.SimpleActuator:
		t.dispatchSimpleActuator(fr.Payload)
	case frame.Stepper:
		t.dispatchStepper(fr.Payload)
	case frame.AngledActuator:
		t.dispatchAngledActuator(fr.Payload)
	case frame.BoolSensor:
		t.dispatchBoolSensor(fr.Payload)
	case frame.AMPressure, frame.AMTemperature, frame.PressureTransducer,
		frame.RelativeHygrometer, frame.LoadCell:
		t.dispatchScalarSensor(fr.Device, fr.Payload)
	case frame.Powermon:
		t.dispatchTwoFloatSensor(fr.Device, fr.Payload)
	case frame.Accelerometer, frame.Gyroscope, frame.Magnetometer:
		t.dispatchVectorSensor(fr.Device, fr.Payload)
	case frame.GPS:
		t.dispatchGPS(fr.Payload)
	case frame.Custom:
		t.drivers.Custom.HandleCustomData(fr.Payload)
	default:
		// Unknown device class: ignore silently (spec.md §7).
	}
}

func (t *Target) dispatchTestState(p []byte) {
	if len(p) < 1 {
		return
	}
	ctl := p[0]
	switch ctl & 0xF0 {
	case 0x00: // start
		t.test.Start(ctl & 0x0F)
	case 0x10: // control
		switch ctl & 0x0F {
		case 0x00: // stop
			if t.test.Stop() {
				t.ResetPrompt()
			}
		case 0x01: // pause/resume toggle
			t.test.TogglePause()
		case 0x02: // device reset
			t.log.Println("rcp: device reset requested")
			t.resetFn()
		case 0x03: // reset time
			t.clk.ResetTime()
		}
	case 0x20: // streaming
		t.test.SetStreaming(ctl&0x0F != 0)
	case 0x30: // query: no state change, report emitted below
	case 0xF0: // heartbeat
		if ctl&0x0F == 0x0F {
			t.test.AckHeartbeat(t.Millis())
		} else {
			t.test.SetHeartbeatPeriod(ctl & 0x0F)
		}
	}
	t.emitTestState()
}

func (t *Target) dispatchSimpleActuator(p []byte) {
	switch len(p) {
	case 1:
		on := t.drivers.SimpleActuator.ReadSimpleActuator(p[0])
		t.write(frame.EncodeSimpleActuator(t.channel, t.Millis(), p[0], on))
	case 2:
		id := p[0]
		on := t.drivers.SimpleActuator.WriteSimpleActuator(id, SimpleActuatorState(p[1]))
		if !t.writeRepliesPaused {
			t.write(frame.EncodeSimpleActuator(t.channel, t.Millis(), id, on))
		}
	}
}

func (t *Target) dispatchStepper(p []byte) {
	switch len(p) {
	case 1:
		pos, spd := t.drivers.Stepper.ReadStepper(p[0])
		t.write(frame.EncodeTwoFloat(t.channel, frame.Stepper, t.Millis(), p[0], pos, spd))
	case 6:
		id := p[0]
		mode := StepperMode(p[1])
		val := frame.DecodeFloat32(p[2:6])
		pos, spd := t.drivers.Stepper.WriteStepper(id, mode, val)
		if !t.writeRepliesPaused {
			t.write(frame.EncodeTwoFloat(t.channel, frame.Stepper, t.Millis(), id, pos, spd))
		}
	}
}

func (t *Target) dispatchAngledActuator(p []byte) {
	switch len(p) {
	case 1:
		v := t.drivers.AngledActuator.ReadAngledActuator(p[0])
		t.write(frame.EncodeOneFloat(t.channel, frame.AngledActuator, t.Millis(), p[0], v))
	case 5:
		id := p[0]
		val := frame.DecodeFloat32(p[1:5])
		v := t.drivers.AngledActuator.WriteAngledActuator(id, val)
		if !t.writeRepliesPaused {
			t.write(frame.EncodeOneFloat(t.channel, frame.AngledActuator, t.Millis(), id, v))
		}
	}
}

func (t *Target) dispatchBoolSensor(p []byte) {
	if len(p) != 1 {
		return
	}
	v := t.drivers.BoolSensor.ReadBoolSensor(p[0])
	t.write(frame.EncodeBoolSensor(t.channel, t.Millis(), p[0], v))
}

func (t *Target) dispatchScalarSensor(class frame.DeviceClass, p []byte) {
	switch len(p) {
	case 1:
		vals := t.drivers.Sensor.ReadSensor(class, p[0])
		t.write(frame.EncodeOneFloat(t.channel, class, t.Millis(), p[0], vals[0]))
	case 6:
		t.writeTare(class, p)
	}
}

func (t *Target) dispatchTwoFloatSensor(class frame.DeviceClass, p []byte) {
	switch len(p) {
	case 1:
		vals := t.drivers.Sensor.ReadSensor(class, p[0])
		t.write(frame.EncodeTwoFloat(t.channel, class, t.Millis(), p[0], vals[0], vals[1]))
	case 6:
		t.writeTare(class, p)
	}
}

func (t *Target) dispatchVectorSensor(class frame.DeviceClass, p []byte) {
	switch len(p) {
	case 1:
		vals := t.drivers.Sensor.ReadSensor(class, p[0])
		t.write(frame.EncodeThreeFloat(t.channel, class, t.Millis(), p[0], vals[0], vals[1], vals[2]))
	case 6:
		t.writeTare(class, p)
	}
}

func (t *Target) dispatchGPS(p []byte) {
	switch len(p) {
	case 1:
		vals := t.drivers.Sensor.ReadSensor(frame.GPS, p[0])
		t.write(frame.EncodeFourFloat(t.channel, frame.GPS, t.Millis(), p[0], vals[0], vals[1], vals[2], vals[3]))
	case 6:
		t.writeTare(frame.GPS, p)
	}
}

// writeTare forwards a 6-byte tare payload (id, channel, f32) to the
// sensor driver. No reply frame is emitted for a tare (spec.md §4.3).
func (t *Target) writeTare(class frame.DeviceClass, p []byte) {
	id := p[0]
	tareChannel := p[1]
	val := frame.DecodeFloat32(p[2:6])
	t.drivers.Sensor.WriteSensorTare(class, id, tareChannel, val)
}
