// Package estop implements the terminal shutdown sequence (C9):
// reached via the zero-length frame sentinel, heartbeat timeout, or a
// direct call, and never returning control to the caller in production.
package estop

import "github.com/liquidrocketry/rcp-target/internal/procedure"

// Host is the narrow seam the ESTOP engine needs from the protocol core
// that owns it. Engine never touches process state directly.
type Host interface {
	// EndActiveTestIfRunning ends the currently selected test with
	// interrupted=true, iff the test state machine is Running or Paused.
	EndActiveTestIfRunning()
	// EnterEstopState transitions the test state machine to ESTOP and
	// emits the TestState report, per the ordering guarantee that a
	// report always precedes the ESTOP procedure running.
	EnterEstopState()
	// EstopProcedure returns the currently configured ESTOP sequence, or
	// nil if none is set.
	EstopProcedure() procedure.Procedure
	// Halt is the non-returning terminal action. In production it never
	// returns control; test doubles may return so assertions can run.
	Halt()
}

// Engine drives the ESTOP sequence against a Host. It carries no state
// of its own: ESTOP is idempotent because Host.EnterEstopState and
// Host.EndActiveTestIfRunning are themselves idempotent once the state
// machine has already reached ESTOP.
type Engine struct {
	Host Host
}

// Trigger runs the full terminal sequence described in spec.md §4.5:
// end the active test if one is running, transition to ESTOP and emit a
// report, run the configured ESTOP procedure to completion, then halt.
func (e *Engine) Trigger() {
	e.Host.EndActiveTestIfRunning()
	e.Host.EnterEstopState()
	if proc := e.Host.EstopProcedure(); proc != nil {
		proc.Initialize()
		for !proc.IsFinished() {
			proc.Execute()
		}
		proc.End(false)
	}
	e.Host.Halt()
}
