// Package rcp implements the target side of the Rocket Control Protocol:
// the framed-packet decoder, device-class dispatcher, telemetry encoder,
// test-execution state machine, prompt subsystem and ESTOP engine
// described in the project specification. It owns the process-wide
// protocol state (design note: "collect into a single context value
// owned by the program entry point") and expects its Tick/RunTestTick
// methods to be called cooperatively from a single-threaded host loop.
package rcp

import (
	"log"

	"github.com/liquidrocketry/rcp-target/internal/clock"
	"github.com/liquidrocketry/rcp-target/internal/estop"
	"github.com/liquidrocketry/rcp-target/internal/frame"
	"github.com/liquidrocketry/rcp-target/internal/procedure"
	"github.com/liquidrocketry/rcp-target/internal/prompt"
	"github.com/liquidrocketry/rcp-target/internal/ringbuf"
	"github.com/liquidrocketry/rcp-target/internal/teststate"
)

// SerialBytesPerLoop is the default number of bytes pulled from the I/O
// adapter per protocol tick.
const SerialBytesPerLoop = 20

// Target is the process-wide RCP protocol context: the channel binding,
// ring buffer, clock, I/O adapter, driver adapters, test-execution state
// machine, prompt subsystem and ESTOP engine. All of it is mutated only
// from Tick/RunTestTick; see spec.md §5.
type Target struct {
	channel frame.Channel
	io      IOAdapter
	clk     *clock.Adapter
	drivers Drivers

	buf   *ringbuf.Buffer
	test  teststate.Machine
	pr    prompt.Subsystem
	estop estop.Engine

	estopProc          procedure.Procedure
	writeRepliesPaused bool
	halted             bool
	bytesPerLoop       int

	resetFn func()
	haltFn  func()
	log     *log.Logger
}

// New constructs a Target bound to channel, talking to io over the
// given clock source, with the given driver adapters. Call Init before
// the first Tick.
func New(channel frame.Channel, io IOAdapter, clockSrc clock.Source, drivers Drivers) *Target {
	drivers.fill()
	t := &Target{
		channel:      channel,
		io:           io,
		clk:          clock.New(clockSrc),
		drivers:      drivers,
		buf:          ringbuf.New(ringbuf.DefaultCapacity),
		bytesPerLoop: SerialBytesPerLoop,
		resetFn:      func() { select {} },
		haltFn:       func() { select {} },
		log:          log.Default(),
	}
	t.estop.Host = t
	return t
}

// SetBufferCapacity overrides the default RCP_SERIAL_BUFFER_SIZE. Must
// be called before Init.
func (t *Target) SetBufferCapacity(capacity int) {
	t.buf = ringbuf.New(capacity)
}

// SetBytesPerLoop overrides SERIAL_BYTES_PER_LOOP.
func (t *Target) SetBytesPerLoop(n int) {
	t.bytesPerLoop = n
}

// SetLogger overrides the default *log.Logger used for lifecycle
// messages (ESTOP halt, device reset).
func (t *Target) SetLogger(l *log.Logger) {
	t.log = l
}

// SetResetFunc overrides the non-returning systemReset primitive
// consumed by a TEST_STATE device-reset control frame. The default
// spins forever, matching the reference target's weak-symbol default;
// tests should install a fake that records the call and returns.
func (t *Target) SetResetFunc(fn func()) {
	t.resetFn = fn
}

// SetHaltFunc overrides the non-returning terminal action the ESTOP
// engine invokes once its procedure has completed. The default spins
// forever; tests should install a fake that records the call and
// returns so assertions can run afterward.
func (t *Target) SetHaltFunc(fn func()) {
	t.haltFn = fn
}

// SetEstopProcedure installs the procedure the ESTOP engine runs to
// completion once the state machine reaches ESTOP. It also implements
// procedure.EstopSetter, so EStopSetterWrapper can scope it.
func (t *Target) SetEstopProcedure(p procedure.Procedure) {
	t.estopProc = p
}

// Registry exposes the 16 test-procedure slots for the embedding
// program to populate before Init.
func (t *Target) Registry() *teststate.Registry {
	return &t.test.Registry
}

// SetHeartbeatPeriod sets the heartbeat period (in the same 0-15 encoding
// as the wire control byte's low nibble) without waiting for an inbound
// TEST_STATE heartbeat-control frame. Useful for a host program that
// wants a board-configured period active from the first Tick.
func (t *Target) SetHeartbeatPeriod(period byte) {
	t.test.SetHeartbeatPeriod(period)
}

// SetWriteRepliesPaused toggles whether write-path replies (simple
// actuator, stepper, angled actuator) are emitted. See SPEC_FULL.md §12:
// a procedure performing many writes in a row can pause replies to
// avoid flooding the link, then resume them.
func (t *Target) SetWriteRepliesPaused(paused bool) {
	t.writeRepliesPaused = paused
}

// Init zeroes the test-execution state and clears the ring buffer, per
// spec.md §3 Lifecycle.
func (t *Target) Init() {
	t.test.Init()
	t.buf.Clear()
	t.halted = false
}

// Millis is millis() = systime() - timeOffset.
func (t *Target) Millis() uint32 {
	return t.clk.Millis()
}

// TestState returns the current test-execution state.
func (t *Target) TestState() frame.State { return t.test.State() }

// TestNum returns the currently selected test-registry index.
func (t *Target) TestNum() byte { return t.test.TestNum() }

// DataStreaming reports the current data-streaming flag.
func (t *Target) DataStreaming() bool { return t.test.DataStreaming() }

// Ready reports the current ready flag.
func (t *Target) Ready() bool { return t.test.Ready() }

// SetReady updates the ready flag, emitting a TestState report iff the
// value actually changed (spec.md §3 invariant, testable property 7).
func (t *Target) SetReady(ready bool) {
	if t.test.SetReady(ready) {
		t.emitTestState()
	}
}

// SetPrompt issues a prompt and registers acceptor for the next PROMPT
// response. text longer than 62 bytes is silently rejected (spec.md
// §4.6, §7): no frame is sent and no registration occurs.
func (t *Target) SetPrompt(text string, typ frame.PromptDataType, acceptor prompt.Acceptor) {
	if buf := t.pr.Set(t.channel, text, typ, acceptor); buf != nil {
		t.write(buf)
	}
}

// ResetPrompt clears any registered acceptor and emits a prompt-reset
// frame.
func (t *Target) ResetPrompt() {
	t.write(t.pr.Reset(t.channel))
}

// ESTOP triggers the terminal shutdown sequence directly, as spec.md
// §4.5(c) allows in addition to the zero-length sentinel and heartbeat
// timeout paths.
func (t *Target) ESTOP() {
	t.estop.Trigger()
}

// write hands a complete outbound frame buffer to the I/O adapter in a
// single call, per the per-frame atomicity guarantee (spec.md §5(c)).
func (t *Target) write(buf []byte) {
	if t.halted {
		return
	}
	t.io.Write(buf)
}

func (t *Target) emitTestState() {
	t.write(frame.EncodeTestState(t.channel, t.Millis(), t.test.StateByte()))
}

// EndActiveTestIfRunning implements estop.Host.
func (t *Target) EndActiveTestIfRunning() {
	t.test.EndActiveTestIfRunning()
}

// EnterEstopState implements estop.Host: transition to ESTOP and emit
// the report before the ESTOP procedure runs (spec.md §5(d)).
func (t *Target) EnterEstopState() {
	t.test.EnterEstop()
	t.emitTestState()
}

// EstopProcedure implements estop.Host.
func (t *Target) EstopProcedure() procedure.Procedure {
	return t.estopProc
}

// Halt implements estop.Host.
func (t *Target) Halt() {
	t.halted = true
	t.log.Println("rcp: ESTOP sequence complete, halting")
	t.haltFn()
}

// Tick is the protocol tick (C1+C5+C6 driven by the host loop): it
// ingests up to bytesPerLoop bytes from the I/O adapter, checks the
// heartbeat, decodes at most one frame, and dispatches it. ESTOP is
// terminal: once Halt has been reached, Tick is a no-op.
func (t *Target) Tick() {
	if t.halted {
		return
	}
	for i := 0; i < t.bytesPerLoop && t.io.ReadAvail() > 0; i++ {
		t.buf.Push(t.io.Read())
	}

	if t.test.HeartbeatExpired(t.Millis()) {
		t.ESTOP()
		return
	}

	fr, ok, estop := frame.Decode(t.buf, t.channel)
	if estop {
		t.ESTOP()
		return
	}
	if !ok {
		return
	}
	t.dispatch(fr)
}

// RunTestTick is the test-execution tick (C7 driven by the host loop):
// it advances the currently selected procedure by one step, ending and
// reporting when it finishes on its own.
func (t *Target) RunTestTick() {
	if t.halted {
		return
	}
	if t.test.RunTick() {
		t.emitTestState()
	}
}
