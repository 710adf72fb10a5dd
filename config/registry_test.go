package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func TestLoadRoundTrip(t *testing.T) {
	want := Board{
		Channel:      1,
		SerialDevice: "/dev/ttyUSB0",
		SimpleActuators: []PinAssignment{
			{ID: 0, Pin: 17, Dir: "out"},
		},
		HeartbeatPeriod: 5,
	}
	data, err := cbor.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "board.cbor")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Channel != want.Channel || got.SerialDevice != want.SerialDevice ||
		got.HeartbeatPeriod != want.HeartbeatPeriod {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.SimpleActuators) != 1 || got.SimpleActuators[0] != want.SimpleActuators[0] {
		t.Fatalf("simple actuators = %+v, want %+v", got.SimpleActuators, want.SimpleActuators)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.cbor")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
