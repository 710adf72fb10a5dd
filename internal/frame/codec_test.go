package frame

import (
	"testing"

	"github.com/liquidrocketry/rcp-target/internal/ringbuf"
)

func TestDecodeAwaitsFullFrame(t *testing.T) {
	buf := ringbuf.New(16)
	buf.Push(0x01) // channel 0, len 1
	buf.Push(0x00) // devclass
	_, ok, estop := Decode(buf, Channel0)
	if ok || estop {
		t.Fatal("expected decode to wait for more bytes")
	}
	buf.Push(0x30) // payload
	fr, ok, estop := Decode(buf, Channel0)
	if estop || !ok {
		t.Fatalf("expected complete frame, ok=%v estop=%v", ok, estop)
	}
	if fr.Device != TestState || len(fr.Payload) != 1 || fr.Payload[0] != 0x30 {
		t.Fatalf("unexpected frame %+v", fr)
	}
}

func TestDecodeEstopSentinel(t *testing.T) {
	buf := ringbuf.New(16)
	buf.Push(0x00)
	_, ok, estop := Decode(buf, Channel0)
	if ok || !estop {
		t.Fatalf("expected estop sentinel, ok=%v estop=%v", ok, estop)
	}
}

func TestDecodeChannelMismatchConsumesBytes(t *testing.T) {
	buf := ringbuf.New(16)
	buf.Push(Header(Channel1, 1))
	buf.Push(0x00)
	buf.Push(0x30)
	_, ok, estop := Decode(buf, Channel0)
	if ok || estop {
		t.Fatalf("expected discard, ok=%v estop=%v", ok, estop)
	}
	if buf.Size() != 0 {
		t.Fatalf("expected bytes consumed on channel mismatch, size=%d", buf.Size())
	}
}

func TestEncodeTestState(t *testing.T) {
	got := EncodeTestState(Channel0, 0, byte(StateStopped))
	want := []byte{0x05, 0x00, 0, 0, 0, 0, 0x20}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	putFloats(buf, 0, 3.5)
	got := DecodeFloat32(buf)
	if got != 3.5 {
		t.Fatalf("got %v, want 3.5", got)
	}
}

func TestStateByteEncoding(t *testing.T) {
	got := StateByte(StateRunning, 0, false, false)
	if got != 0x00 {
		t.Fatalf("got %#x, want 0x00", got)
	}
	got = StateByte(StatePaused, 0, false, false)
	if got != 0x40 {
		t.Fatalf("got %#x, want 0x40", got)
	}
	got = StateByte(StateStopped, 0, true, true)
	if got != 0x20|FlagDataStreaming|FlagReady {
		t.Fatalf("got %#x", got)
	}
}
