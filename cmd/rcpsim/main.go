// Command rcpsim runs the RCP target protocol core against a real
// serial port using simulated (in-memory) device drivers, so ground
// station software can be exercised without physical actuators or
// sensors attached. It reads the wire over go.bug.st/serial from the
// same ticker loop that drives the protocol and test ticks; there is no
// separate reader goroutine.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"

	"github.com/liquidrocketry/rcp-target/internal/clock"
	"github.com/liquidrocketry/rcp-target/internal/frame"
	"github.com/liquidrocketry/rcp-target/rcp"
)

func main() {
	portPath := flag.String("port", "", "serial port to open (required)")
	baud := flag.Int("baud", 115200, "baud rate")
	channel := flag.Int("channel", 0, "RCP channel to answer on (0-3)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rcpsim -port <device> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *portPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*portPath, *baud, byte(*channel)); err != nil {
		log.Fatalf("rcpsim: %v", err)
	}
}

func run(portPath string, baud int, channel byte) error {
	port, err := serial.Open(portPath, &serial.Mode{BaudRate: baud})
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}
	defer port.Close()

	io := newPortAdapter(port)
	drivers := rcp.Drivers{
		SimpleActuator: newSimActuator(),
		AngledActuator: newSimAngled(),
		BoolSensor:     newSimBoolSensor(),
	}

	target := rcp.New(frame.Channel(channel), io, clock.NewSystem(), drivers)
	target.Init()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	log.Printf("rcpsim: simulating on %s (%d baud), channel %d", portPath, baud, channel)
	for {
		select {
		case <-ticker.C:
			target.Tick()
			target.RunTestTick()
		case <-sigChan:
			log.Println("rcpsim: shutting down")
			return nil
		}
	}
}
