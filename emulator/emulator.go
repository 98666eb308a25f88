// Package emulator is the control surface over the cpu engine: loading
// program images, stepping, budgeted continuous runs, the INP/OUT bridge,
// breakpoints, and copy-out state snapshots for a host interface to render.
package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/azyrite/lmp/cpu"
	"github.com/azyrite/lmp/internal"
	lmpio "github.com/azyrite/lmp/io"
)

// RUN_BUDGET is the default step budget of a single Run slice. Run always
// returns to the caller within one budget so a hosting event loop can
// render and poll for input between bursts.
const RUN_BUDGET = 4096

var _emulator_defines = map[string]string{
	"RUN_BUDGET": fmt.Sprintf("%d", RUN_BUDGET),
}

// Snapshot is a copy of the full machine state. It shares nothing with the
// live engine, so a renderer can never corrupt execution between steps.
type Snapshot struct {
	Memory   []int64
	Acc      int64
	Pc       uint
	Negative bool
	Overflow bool
	State    cpu.State
	Ticks    int
	Fault    *cpu.Fault
}

// Emulator drives one cpu.Cpu. Optional Source and Sink devices bridge
// INP and OUT to byte streams for batch runs; without them, input arrives
// via ProvideInput and output is collected via TakeOutput.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // The machine under control.

	Source lmpio.Source // Optional input device feeding INP.
	Sink   lmpio.Sink   // Optional output device consuming OUT.

	breakpoints map[uint]struct{}
}

// NewEmulator creates an emulator around a freshly configured machine.
func NewEmulator(conf cpu.Config) (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(conf),
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// SetBreakpoint marks an address; Run pauses before executing it.
func (emu *Emulator) SetBreakpoint(addr uint) {
	if emu.breakpoints == nil {
		emu.breakpoints = make(map[uint]struct{})
	}
	emu.breakpoints[addr] = struct{}{}
}

// ClearBreakpoint removes a breakpoint.
func (emu *Emulator) ClearBreakpoint(addr uint) {
	delete(emu.breakpoints, addr)
}

// Step executes a single machine cycle, bridging the I/O devices: pending
// output is drained into the Sink, and a suspended INP is fed from the
// Source. Fatal conditions surface as an *ErrRuntime wrapping the fault.
func (emu *Emulator) Step() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Step()

	if errors.Is(err, cpu.ErrOutputFull) && emu.Sink != nil {
		err = emu.drainOutput()
	}

	if err == nil && emu.Sink != nil {
		err = emu.drainOutput()
	}

	if err == nil && emu.Cpu.State() == cpu.STATE_AWAIT_INPUT && emu.Source != nil {
		err = emu.feedInput()
	}

	if fault, ok := emu.Cpu.Fault(); ok && err != nil {
		err = &ErrRuntime{Addr: fault.Addr, Err: err}
	}

	return
}

// drainOutput moves every pending output value into the Sink.
func (emu *Emulator) drainOutput() (err error) {
	for {
		value, ok := emu.Cpu.TakeOutput()
		if !ok {
			return
		}
		err = emu.Sink.WriteNumber(value)
		if err != nil {
			return
		}
	}
}

// feedInput queues the next Source value for the suspended INP. End of
// input leaves the machine suspended without error; the caller observes
// STATE_AWAIT_INPUT.
func (emu *Emulator) feedInput() (err error) {
	value, err := emu.Source.ReadNumber()
	if errors.Is(err, io.EOF) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	err = emu.Cpu.ProvideInput(value)

	return
}

// Run steps the machine until it halts, faults, suspends awaiting input
// that no device can supply, hits a breakpoint, or exhausts the budget.
// A budget of zero or less selects RUN_BUDGET. Returns done only on a
// clean halt; the caller distinguishes the other outcomes via State.
func (emu *Emulator) Run(budget int) (done bool, err error) {
	if budget <= 0 {
		budget = RUN_BUDGET
	}

	for n := 0; n < budget; n++ {
		if n > 0 {
			if _, bp := emu.breakpoints[emu.Cpu.Regs.Pc]; bp {
				return
			}
		}

		before := emu.Cpu.State()

		err = emu.Step()
		if err != nil {
			if errors.Is(err, cpu.ErrStopped) {
				err = nil
				done = emu.Cpu.State() == cpu.STATE_HALTED
			}
			return
		}

		switch emu.Cpu.State() {
		case cpu.STATE_HALTED:
			done = true
			return
		case cpu.STATE_FAULTED:
			return
		case cpu.STATE_AWAIT_INPUT:
			if before == cpu.STATE_AWAIT_INPUT {
				// No input arrived between steps; yield to the host.
				return
			}
		}
	}

	return
}

// Snapshot returns a copy of the complete machine state.
func (emu *Emulator) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		Memory:   emu.Cpu.Memory.Cells(),
		Acc:      emu.Cpu.Regs.Acc,
		Pc:       emu.Cpu.Regs.Pc,
		Negative: emu.Cpu.Regs.Negative,
		Overflow: emu.Cpu.Regs.Overflow,
		State:    emu.Cpu.State(),
		Ticks:    emu.Cpu.Ticks,
	}

	if fault, ok := emu.Cpu.Fault(); ok {
		snap.Fault = &fault
	}

	return
}
