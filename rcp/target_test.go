package rcp

import (
	"testing"

	"github.com/liquidrocketry/rcp-target/internal/frame"
)

// fakeIO is an in-memory IOAdapter: Feed queues bytes for ReadAvail/Read,
// Write appends to Written.
type fakeIO struct {
	pending []byte
	Written [][]byte
}

func (f *fakeIO) Feed(b ...byte)   { f.pending = append(f.pending, b...) }
func (f *fakeIO) ReadAvail() uint8 { return uint8(len(f.pending)) }
func (f *fakeIO) Read() uint8 {
	v := f.pending[0]
	f.pending = f.pending[1:]
	return v
}
func (f *fakeIO) Write(buf []byte) (int, error) {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	f.Written = append(f.Written, cp)
	return len(buf), nil
}

type fakeClock struct{ now uint32 }

func (f *fakeClock) Systime() uint32 { return f.now }

func newTestTarget() (*Target, *fakeIO, *fakeClock) {
	io := &fakeIO{}
	clk := &fakeClock{}
	tgt := New(frame.Channel0, io, clk, Drivers{})
	tgt.Init()
	return tgt, io, clk
}

func TestS1QueryAfterInit(t *testing.T) {
	tgt, io, _ := newTestTarget()
	io.Feed(0x01, 0x00, 0x30)
	tgt.Tick()
	if len(io.Written) != 1 {
		t.Fatalf("expected 1 write, got %d", len(io.Written))
	}
	got := io.Written[0]
	if got[0] != 0x05 || got[1] != 0x00 || got[6] != 0x20 {
		t.Fatalf("unexpected report %#v", got)
	}
}

func TestS2StartThenStop(t *testing.T) {
	tgt, io, _ := newTestTarget()
	io.Feed(0x01, 0x00, 0x01) // start test 1
	tgt.Tick()
	if tgt.TestState() != frame.StateRunning || tgt.TestNum() != 1 {
		t.Fatalf("expected running test 1, got state=%v num=%d", tgt.TestState(), tgt.TestNum())
	}
	if got := io.Written[0][6]; got != byte(frame.StateRunning) {
		t.Fatalf("running report byte = %#x, want %#x", got, frame.StateRunning)
	}
	io.Feed(0x01, 0x00, 0x10) // stop
	tgt.Tick()
	if tgt.TestState() != frame.StateStopped {
		t.Fatalf("expected stopped after stop frame, got %v", tgt.TestState())
	}
	if got := io.Written[2][6]; got != byte(frame.StateStopped) {
		t.Fatalf("stop report byte = %#x, want %#x", got, frame.StateStopped)
	}
}

func TestS3PauseToggle(t *testing.T) {
	tgt, io, _ := newTestTarget()
	io.Feed(0x01, 0x00, 0x01) // start test 1
	tgt.Tick()
	io.Feed(0x01, 0x00, 0x11) // pause
	tgt.Tick()
	if tgt.TestState() != frame.StatePaused {
		t.Fatalf("expected paused, got %v", tgt.TestState())
	}
	io.Feed(0x01, 0x00, 0x11) // resume
	tgt.Tick()
	if tgt.TestState() != frame.StateRunning {
		t.Fatalf("expected running, got %v", tgt.TestState())
	}
}

type fakeSimpleActuator struct {
	state map[byte]bool
}

func (f *fakeSimpleActuator) ReadSimpleActuator(id byte) bool { return f.state[id] }
func (f *fakeSimpleActuator) WriteSimpleActuator(id byte, state SimpleActuatorState) bool {
	switch state {
	case SimpleActuatorToggle:
		f.state[id] = !f.state[id]
	default:
		f.state[id] = state == SimpleActuatorOn
	}
	return f.state[id]
}

func TestS4SimpleActuatorToggle(t *testing.T) {
	act := &fakeSimpleActuator{state: map[byte]bool{0: false}}
	io := &fakeIO{}
	clk := &fakeClock{}
	tgt := New(frame.Channel0, io, clk, Drivers{SimpleActuator: act})
	tgt.Init()
	io.Feed(0x02, 0x01, 0x00, 0xC0)
	tgt.Tick()
	if !act.state[0] {
		t.Fatal("expected actuator 0 turned on")
	}
	if len(io.Written) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(io.Written))
	}
	got := io.Written[0]
	want := []byte{0x06, 0x01, 0, 0, 0, 0, 0x00, 0x80}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestS4bSimpleActuatorToggleFlipsExistingState(t *testing.T) {
	act := &fakeSimpleActuator{state: map[byte]bool{0: true}}
	io := &fakeIO{}
	clk := &fakeClock{}
	tgt := New(frame.Channel0, io, clk, Drivers{SimpleActuator: act})
	tgt.Init()
	io.Feed(0x02, 0x01, 0x00, 0xC0) // toggle actuator 0, already on
	tgt.Tick()
	if act.state[0] {
		t.Fatal("expected toggle to turn an already-on actuator off")
	}
	got := io.Written[0]
	if got[7] != 0x00 {
		t.Fatalf("reply byte = %#x, want OFF", got[7])
	}
}

func TestS5FloatPrompt(t *testing.T) {
	tgt, io, _ := newTestTarget()
	var got frame.PromptData
	var invoked int
	tgt.SetPrompt("", frame.PromptFloat, func(d frame.PromptData) {
		invoked++
		got = d
	})
	if len(io.Written) != 1 {
		t.Fatalf("expected prompt-issue frame, got %d writes", len(io.Written))
	}
	if w := io.Written[0]; w[0] != 0x01 || w[1] != 0x03 || w[2] != 0x01 {
		t.Fatalf("unexpected prompt-issue frame %#v", w)
	}
	io.Feed(0x04, 0x03, 0x40, 0x40, 0x00, 0x00) // float 3.0 big-endian-looking bytes, opaque round trip
	tgt.Tick()
	if invoked != 1 {
		t.Fatalf("expected acceptor invoked once, got %d", invoked)
	}
	wantFloat := frame.DecodeFloat32([]byte{0x40, 0x40, 0x00, 0x00})
	if got.Float != wantFloat {
		t.Fatalf("float = %v, want %v", got.Float, wantFloat)
	}
	// second inbound prompt is ignored: no acceptor registered
	io.Feed(0x04, 0x03, 0x00, 0x00, 0x80, 0x3F)
	tgt.Tick()
	if invoked != 1 {
		t.Fatal("expected acceptor not invoked a second time")
	}
}

func TestS6HeartbeatKill(t *testing.T) {
	tgt, io, clk := newTestTarget()
	var haltCalled bool
	tgt.SetHaltFunc(func() { haltCalled = true })
	io.Feed(0x01, 0x00, 0xF5) // set heartbeat period = 5ms
	tgt.Tick()
	io.Feed(0x01, 0x00, 0xFF) // ack
	tgt.Tick()
	clk.now += 10
	tgt.Tick()
	if tgt.TestState() != frame.StateEstop {
		t.Fatalf("expected ESTOP, got %v", tgt.TestState())
	}
	if !haltCalled {
		t.Fatal("expected halt invoked")
	}
	// ESTOP is terminal: further ticks are no-ops.
	writesBefore := len(io.Written)
	io.Feed(0x01, 0x00, 0x30)
	tgt.Tick()
	if len(io.Written) != writesBefore {
		t.Fatal("expected no further output after halt")
	}
}

func TestZeroLengthSentinelTriggersEstop(t *testing.T) {
	tgt, io, _ := newTestTarget()
	var haltCalled bool
	tgt.SetHaltFunc(func() { haltCalled = true })
	io.Feed(0x00)
	tgt.Tick()
	if tgt.TestState() != frame.StateEstop || !haltCalled {
		t.Fatal("expected ESTOP on zero-length sentinel")
	}
}

func TestChannelMismatchProducesNoOutput(t *testing.T) {
	tgt, io, _ := newTestTarget()
	io.Feed(frame.Header(frame.Channel1, 1), 0x00, 0x30)
	tgt.Tick()
	if len(io.Written) != 0 {
		t.Fatalf("expected no output for mismatched channel, got %d", len(io.Written))
	}
}

func TestSetReadyNoopWhenUnchanged(t *testing.T) {
	tgt, io, _ := newTestTarget()
	tgt.SetReady(false) // already false: no-op
	if len(io.Written) != 0 {
		t.Fatal("expected no output for unchanged ready value")
	}
	tgt.SetReady(true)
	if len(io.Written) != 1 {
		t.Fatal("expected one report for ready transition")
	}
}

func TestResetTimeZeroesMillis(t *testing.T) {
	tgt, io, clk := newTestTarget()
	clk.now = 5000
	io.Feed(0x01, 0x00, 0x13) // reset-time
	tgt.Tick()
	if tgt.Millis() != 0 {
		t.Fatalf("millis after reset = %d, want 0", tgt.Millis())
	}
	clk.now = 5100
	if tgt.Millis() != 100 {
		t.Fatalf("millis = %d, want 100", tgt.Millis())
	}
}

func TestStartOnlyHonoredFromStopped(t *testing.T) {
	tgt, io, _ := newTestTarget()
	io.Feed(0x01, 0x00, 0x02) // start test 2
	tgt.Tick()
	io.Feed(0x01, 0x00, 0x03) // attempt start test 3 while Running
	tgt.Tick()
	if tgt.TestNum() != 2 {
		t.Fatalf("expected start to be ignored while running, testNum=%d", tgt.TestNum())
	}
}
