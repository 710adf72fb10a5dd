// Package config loads the static, board-level configuration a target
// program needs before it can construct an rcp.Target: the channel
// binding, serial device name, GPIO pin assignments, and an optional
// heartbeat period. It does not describe the 16-slot test registry; the
// embedding program installs procedures itself. The file format is CBOR,
// matching the teacher's preferred encoding for structured
// on-disk/on-wire data (bc/urtypes).
package config

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// PinAssignment names a GPIO pin by BCM number for a given device id.
type PinAssignment struct {
	ID  byte   `cbor:"id"`
	Pin int    `cbor:"pin"`
	Dir string `cbor:"dir"` // "in" or "out"
}

// Board is the static configuration for one target board: which serial
// device to open, which logical channel it answers on, and its GPIO pin
// map for simple actuators and bool sensors.
type Board struct {
	Channel         byte            `cbor:"channel"`
	SerialDevice    string          `cbor:"serial_device"`
	SimpleActuators []PinAssignment `cbor:"simple_actuators"`
	AngledActuators []PinAssignment `cbor:"angled_actuators"`
	BoolSensors     []PinAssignment `cbor:"bool_sensors"`
	HeartbeatPeriod byte            `cbor:"heartbeat_period"`
}

// decMode is a strict decode mode: unknown map keys are rejected so a
// malformed board file fails loudly instead of silently dropping fields.
var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{ExtraReturnErrors: cbor.ExtraDecErrorUnknownField}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// Load reads and decodes a Board descriptor from path.
func Load(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("config: %w", err)
	}
	var b Board
	if err := decMode.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return b, nil
}
