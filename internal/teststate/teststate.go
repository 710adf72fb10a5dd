// Package teststate implements the test-execution state machine (C7):
// Stopped/Running/Paused/ESTOP transitions, the 16-slot test registry,
// the data-streaming and ready flags, and heartbeat-based liveness.
package teststate

import (
	"github.com/liquidrocketry/rcp-target/internal/frame"
	"github.com/liquidrocketry/rcp-target/internal/procedure"
)

// RegistrySize is the fixed number of test-procedure slots.
const RegistrySize = 16

// Registry is the ordered sequence of procedure slots indexed 0..15.
type Registry [RegistrySize]procedure.Procedure

// Machine holds the process-wide test-execution state.
type Machine struct {
	Registry Registry

	state           frame.State
	testNum         byte
	dataStreaming   bool
	ready           bool
	heartbeatPeriod byte
	lastHeartbeat   uint32
	firstRun        bool
	initialized     bool
}

// Init resets the machine to its post-boot state: Stopped, testNum 0,
// streaming/ready cleared, heartbeat disabled. Mirrors spec.md §3
// Lifecycle.
func (m *Machine) Init() {
	m.state = frame.StateStopped
	m.testNum = 0
	m.dataStreaming = false
	m.ready = false
	m.heartbeatPeriod = 0
	m.lastHeartbeat = 0
	m.firstRun = false
	m.initialized = true
}

// State returns the current test-execution state.
func (m *Machine) State() frame.State { return m.state }

// TestNum returns the currently selected test-registry index. The
// TestState report never encodes this (spec.md §9(a)); callers needing
// it must query separately.
func (m *Machine) TestNum() byte { return m.testNum }

// DataStreaming reports the current streaming flag.
func (m *Machine) DataStreaming() bool { return m.dataStreaming }

// Ready reports the current ready flag.
func (m *Machine) Ready() bool { return m.ready }

// HeartbeatPeriod returns the configured heartbeat period, in
// milliseconds, or 0 if liveness checking is disabled.
func (m *Machine) HeartbeatPeriod() byte { return m.heartbeatPeriod }

// StateByte composes the single data byte of a TestState report.
func (m *Machine) StateByte() byte {
	return frame.StateByte(m.state, m.heartbeatPeriod, m.dataStreaming, m.ready)
}

// active returns the procedure at the current testNum, or nil if the
// slot is empty.
func (m *Machine) active() procedure.Procedure {
	return m.Registry[m.testNum]
}

// Start honors a TEST_STATE start control byte: only valid from
// Stopped. Returns whether the transition occurred.
func (m *Machine) Start(testNum byte) bool {
	if m.state != frame.StateStopped {
		return false
	}
	m.testNum = testNum
	m.state = frame.StateRunning
	m.firstRun = true
	return true
}

// Stop honors a TEST_STATE stop control byte: valid from Running or
// Paused, ending the active procedure with interrupted=true. Returns
// whether the transition occurred.
func (m *Machine) Stop() bool {
	if m.state != frame.StateRunning && m.state != frame.StatePaused {
		return false
	}
	if p := m.active(); p != nil {
		p.End(true)
	}
	m.state = frame.StateStopped
	return true
}

// TogglePause toggles Running<->Paused; a no-op in any other state.
// Returns whether the transition occurred.
func (m *Machine) TogglePause() bool {
	switch m.state {
	case frame.StateRunning:
		m.state = frame.StatePaused
		return true
	case frame.StatePaused:
		m.state = frame.StateRunning
		return true
	default:
		return false
	}
}

// SetStreaming sets the data-streaming flag.
func (m *Machine) SetStreaming(on bool) {
	m.dataStreaming = on
}

// SetReady updates the ready flag. It is a no-op unless initialized and
// the value actually changes (spec.md §3 invariant); the return value
// tells the caller whether a TestState report must be emitted.
func (m *Machine) SetReady(newReady bool) bool {
	if !m.initialized || newReady == m.ready {
		return false
	}
	m.ready = newReady
	return true
}

// SetHeartbeatPeriod sets the heartbeat period in milliseconds (the low
// nibble of a TEST_STATE heartbeat control frame); 0 disables liveness
// checking.
func (m *Machine) SetHeartbeatPeriod(period byte) {
	m.heartbeatPeriod = period & 0x0F
}

// AckHeartbeat records receipt of a heartbeat pulse at the given
// millisecond reading.
func (m *Machine) AckHeartbeat(millis uint32) {
	m.lastHeartbeat = millis
}

// HeartbeatExpired reports whether liveness has been lost: armed
// (period != 0) and the elapsed time since the last ack exceeds it.
func (m *Machine) HeartbeatExpired(millis uint32) bool {
	if m.heartbeatPeriod == 0 {
		return false
	}
	return millis-m.lastHeartbeat > uint32(m.heartbeatPeriod)
}

// RunTick advances the currently selected procedure by one tick, if the
// machine is Running. It reports whether the procedure finished this
// tick (state transitioned back to Stopped), so the caller can emit the
// required TestState report.
func (m *Machine) RunTick() (finished bool) {
	if m.state != frame.StateRunning {
		return false
	}
	p := m.active()
	if p == nil {
		return false
	}
	if m.firstRun {
		p.Initialize()
		m.firstRun = false
	}
	p.Execute()
	if p.IsFinished() {
		p.End(false)
		m.state = frame.StateStopped
		m.firstRun = true
		return true
	}
	return false
}

// EndActiveTestIfRunning ends the active procedure with interrupted=true
// iff the machine is Running or Paused. It does not itself change state;
// the caller (the ESTOP engine) transitions to ESTOP separately. This is
// the Host seam estop.Engine drives.
func (m *Machine) EndActiveTestIfRunning() {
	if m.state != frame.StateRunning && m.state != frame.StatePaused {
		return
	}
	if p := m.active(); p != nil {
		p.End(true)
	}
}

// EnterEstop transitions to the terminal ESTOP state. Idempotent.
func (m *Machine) EnterEstop() {
	m.state = frame.StateEstop
}
