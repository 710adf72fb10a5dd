// Command rcptarget runs the RCP target protocol core against a real
// serial link and GPIO hardware on a Raspberry Pi, in the same
// configuration class as the controller command this project is built
// from.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpioreg"
	"periph.io/x/host/v3"

	"github.com/liquidrocketry/rcp-target/config"
	"github.com/liquidrocketry/rcp-target/device/gpioactuator"
	"github.com/liquidrocketry/rcp-target/device/gpiosensor"
	"github.com/liquidrocketry/rcp-target/internal/clock"
	"github.com/liquidrocketry/rcp-target/internal/frame"
	"github.com/liquidrocketry/rcp-target/ioadapter"
	"github.com/liquidrocketry/rcp-target/rcp"
)

var configPath = flag.String("config", "", "path to a board configuration file (CBOR)")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v", err)
		os.Exit(2)
	}
}

func run() error {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	log.Println("rcptarget: loading...")

	board := config.Board{Channel: 0}
	if *configPath != "" {
		b, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		board = b
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	port, err := ioadapter.Open(board.SerialDevice)
	if err != nil {
		return err
	}
	defer port.Close()

	drivers := rcp.Drivers{}
	if len(board.SimpleActuators) > 0 {
		pins := bindPins(board.SimpleActuators)
		sa, err := gpioactuator.NewSimple(pins)
		if err != nil {
			return err
		}
		drivers.SimpleActuator = sa
	}
	if len(board.AngledActuators) > 0 {
		pins := bindPins(board.AngledActuators)
		aa, err := gpioactuator.NewAngled(pins)
		if err != nil {
			return err
		}
		drivers.AngledActuator = aa
	}
	if len(board.BoolSensors) > 0 {
		pins := bindInputPins(board.BoolSensors)
		bs, err := gpiosensor.NewBool(pins)
		if err != nil {
			return err
		}
		drivers.BoolSensor = bs
	}

	target := rcp.New(frame.Channel(board.Channel), port, clock.NewSystem(), drivers)
	target.Init()
	if board.HeartbeatPeriod != 0 {
		target.SetHeartbeatPeriod(board.HeartbeatPeriod)
	}

	log.Println("rcptarget: running")
	for {
		target.Tick()
		target.RunTestTick()
		time.Sleep(time.Millisecond)
	}
}

func bindPins(assignments []config.PinAssignment) map[byte]gpio.PinIO {
	pins := make(map[byte]gpio.PinIO, len(assignments))
	for _, a := range assignments {
		if p := gpioreg.ByName(fmt.Sprintf("GPIO%d", a.Pin)); p != nil {
			pins[a.ID] = p
		}
	}
	return pins
}

func bindInputPins(assignments []config.PinAssignment) map[byte]gpio.PinIn {
	pins := make(map[byte]gpio.PinIn, len(assignments))
	for _, a := range assignments {
		if p := gpioreg.ByName(fmt.Sprintf("GPIO%d", a.Pin)); p != nil {
			pins[a.ID] = p
		}
	}
	return pins
}
