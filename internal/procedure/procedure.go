// Package procedure implements the composable test/ESTOP building blocks
// of component C10: a four-method lifecycle (initialize, execute,
// isFinished, end) and combinators that compose values implementing it.
// Combinators own their children; there is no sharing and no cycles.
package procedure

// Procedure is the abstract unit of a test or ESTOP sequence.
type Procedure interface {
	// Initialize is called exactly once, before the first Execute.
	Initialize()
	// Execute runs one tick's worth of work. It must not block.
	Execute()
	// IsFinished reports whether the procedure has completed on its own.
	IsFinished() bool
	// End is called exactly once per Initialize. interrupted is true iff
	// termination was forced externally rather than reached by
	// IsFinished.
	End(interrupted bool)
}

// OneShot runs a function once on Initialize and finishes immediately.
type OneShot struct {
	Run func()
}

func (p *OneShot) Initialize() {
	if p.Run != nil {
		p.Run()
	}
}
func (p *OneShot) Execute()             {}
func (p *OneShot) IsFinished() bool     { return true }
func (p *OneShot) End(interrupted bool) {}

// Wait finishes once Millis() has advanced by more than the configured
// duration since Initialize.
type Wait struct {
	Millis func() uint32
	Dur    uint32

	start uint32
}

func (p *Wait) Initialize() {
	p.start = p.Millis()
}
func (p *Wait) Execute() {}
func (p *Wait) IsFinished() bool {
	return p.Millis()-p.start > p.Dur
}
func (p *Wait) End(interrupted bool) {}

// BoolWaiter finishes once Supplier returns true.
type BoolWaiter struct {
	Supplier func() bool
}

func (p *BoolWaiter) Initialize()     {}
func (p *BoolWaiter) Execute()        {}
func (p *BoolWaiter) IsFinished() bool {
	return p.Supplier()
}
func (p *BoolWaiter) End(interrupted bool) {}

// Sequential runs its children one after another.
type Sequential struct {
	children []Procedure
	current  int
}

// NewSequential takes ownership of children, run in order.
func NewSequential(children ...Procedure) *Sequential {
	return &Sequential{children: children}
}

func (p *Sequential) Initialize() {
	p.current = 0
	if len(p.children) > 0 {
		p.children[0].Initialize()
	}
}

func (p *Sequential) Execute() {
	if p.current >= len(p.children) {
		return
	}
	child := p.children[p.current]
	child.Execute()
	if child.IsFinished() {
		child.End(false)
		p.current++
		if p.current < len(p.children) {
			p.children[p.current].Initialize()
		}
	}
}

func (p *Sequential) IsFinished() bool {
	return p.current >= len(p.children)
}

// End forwards interrupted to the active child only, if one is still
// running. It deliberately does not propagate to the child when
// interrupted is false: this mirrors the original implementation's
// behavior (spec.md §9(c)) rather than "fixing" it.
func (p *Sequential) End(interrupted bool) {
	if !interrupted {
		return
	}
	if p.current < len(p.children) {
		p.children[p.current].End(true)
	}
}

// Parallel runs all children concurrently (within one tick each),
// finishing when none are still running.
type Parallel struct {
	children []Procedure
	running  []bool
}

// NewParallel takes ownership of children, all ticked every Execute.
func NewParallel(children ...Procedure) *Parallel {
	return &Parallel{children: children}
}

func (p *Parallel) Initialize() {
	p.running = make([]bool, len(p.children))
	for i, c := range p.children {
		c.Initialize()
		p.running[i] = true
	}
}

func (p *Parallel) Execute() {
	for i, c := range p.children {
		if !p.running[i] {
			continue
		}
		c.Execute()
		if c.IsFinished() {
			c.End(false)
			p.running[i] = false
		}
	}
}

func (p *Parallel) IsFinished() bool {
	for _, r := range p.running {
		if r {
			return false
		}
	}
	return true
}

func (p *Parallel) End(interrupted bool) {
	for i, c := range p.children {
		if p.running[i] {
			c.End(interrupted)
			p.running[i] = false
		}
	}
}

// ParallelRace finishes as soon as any one child finishes, ending the
// rest with interrupted=true.
type ParallelRace struct {
	*Parallel
}

// NewParallelRace takes ownership of children.
func NewParallelRace(children ...Procedure) *ParallelRace {
	return &ParallelRace{Parallel: NewParallel(children...)}
}

// Execute is inherited from Parallel: a finishing child is ended with
// End(false) there, exactly like the original's ParallelRaceProcedure
// deriving ParallelProcedure's execute. Only IsFinished and End are
// overridden, to race instead of waiting for every child.

func (p *ParallelRace) IsFinished() bool {
	for _, r := range p.running {
		if !r {
			return true
		}
	}
	return false
}

func (p *ParallelRace) End(interrupted bool) {
	for i, c := range p.children {
		if p.running[i] {
			c.End(true)
			p.running[i] = false
		}
	}
}

// ParallelDeadline runs children alongside a deadline procedure; the
// compound finishes exactly when the deadline finishes, regardless of
// whether the children have. Children still running at that point are
// terminated with interrupted=true.
//
// spec.md §9(b) notes the original source sets its "deadline running"
// flag backwards on completion; this implementation follows the
// corrected semantics the docstring describes: a finished deadline ends
// the compound.
type ParallelDeadline struct {
	deadline        Procedure
	deadlineRunning bool
	children        []Procedure
	running         []bool
}

// NewParallelDeadline takes ownership of deadline and children.
func NewParallelDeadline(deadline Procedure, children ...Procedure) *ParallelDeadline {
	return &ParallelDeadline{deadline: deadline, children: children}
}

func (p *ParallelDeadline) Initialize() {
	p.deadline.Initialize()
	p.deadlineRunning = true
	p.running = make([]bool, len(p.children))
	for i, c := range p.children {
		c.Initialize()
		p.running[i] = true
	}
}

func (p *ParallelDeadline) Execute() {
	if p.deadlineRunning {
		p.deadline.Execute()
		if p.deadline.IsFinished() {
			p.deadline.End(false)
			p.deadlineRunning = false
		}
	}
	for i, c := range p.children {
		if !p.running[i] {
			continue
		}
		c.Execute()
		if c.IsFinished() {
			c.End(false)
			p.running[i] = false
		} else if !p.deadlineRunning {
			c.End(true)
			p.running[i] = false
		}
	}
}

func (p *ParallelDeadline) IsFinished() bool {
	return !p.deadlineRunning
}

func (p *ParallelDeadline) End(interrupted bool) {
	if p.deadlineRunning {
		p.deadline.End(interrupted)
		p.deadlineRunning = false
	}
	for i, c := range p.children {
		if p.running[i] {
			c.End(true)
			p.running[i] = false
		}
	}
}

// Selector picks yes or no at Initialize time via chooser, and forwards
// every subsequent call to the chosen branch only.
type Selector struct {
	yes, no Procedure
	chooser func() bool
	choice  Procedure
}

// NewSelector takes ownership of yes and no.
func NewSelector(chooser func() bool, yes, no Procedure) *Selector {
	return &Selector{yes: yes, no: no, chooser: chooser}
}

func (p *Selector) Initialize() {
	if p.chooser() {
		p.choice = p.yes
	} else {
		p.choice = p.no
	}
	p.choice.Initialize()
}

func (p *Selector) Execute()         { p.choice.Execute() }
func (p *Selector) IsFinished() bool { return p.choice.IsFinished() }
func (p *Selector) End(interrupted bool) {
	p.choice.End(interrupted)
}

// EstopSetter is the seam EStopSetterWrapper uses to scope which
// sequence is the active ESTOP procedure while inner runs.
type EstopSetter interface {
	SetEstopProcedure(Procedure)
}

// EStopSetterWrapper runs inner, installing seqEstop as the process-wide
// ESTOP procedure for its duration and endEstop once inner ends.
type EStopSetterWrapper struct {
	inner              Procedure
	seqEstop, endEstop Procedure
	setter             EstopSetter
}

// NewEStopSetterWrapper takes ownership of inner, seqEstop and endEstop.
func NewEStopSetterWrapper(setter EstopSetter, inner, seqEstop, endEstop Procedure) *EStopSetterWrapper {
	return &EStopSetterWrapper{setter: setter, inner: inner, seqEstop: seqEstop, endEstop: endEstop}
}

func (p *EStopSetterWrapper) Initialize() {
	p.inner.Initialize()
	p.setter.SetEstopProcedure(p.seqEstop)
}

func (p *EStopSetterWrapper) Execute()         { p.inner.Execute() }
func (p *EStopSetterWrapper) IsFinished() bool { return p.inner.IsFinished() }

func (p *EStopSetterWrapper) End(interrupted bool) {
	p.inner.End(interrupted)
	p.setter.SetEstopProcedure(p.endEstop)
}
