package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

// I/O buffer limits for the INP/OUT boundary.
const (
	INPUT_LIMIT  = 8  // Maximum pending input values.
	OUTPUT_LIMIT = 64 // Maximum undrained output values.
)

// State is the engine execution state.
type State int

const (
	STATE_READY       = State(0) // ready
	STATE_RUNNING     = State(1) // running
	STATE_AWAIT_INPUT = State(2) // await-input
	STATE_HALTED      = State(3) // halted
	STATE_FAULTED     = State(4) // faulted
)

var stateNames = [...]string{
	STATE_READY:       "ready",
	STATE_RUNNING:     "running",
	STATE_AWAIT_INPUT: "await-input",
	STATE_HALTED:      "halted",
	STATE_FAULTED:     "faulted",
}

// String returns the state name.
func (st State) String() string {
	if st < 0 || int(st) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(st))
	}
	return stateNames[st]
}

// Runnable returns true if Step can make progress from this state.
func (st State) Runnable() bool {
	switch st {
	case STATE_READY, STATE_RUNNING, STATE_AWAIT_INPUT:
		return true
	}
	return false
}

// Fault records a fatal condition: the address of the offending fetch,
// the raw cell value, and the classified error.
type Fault struct {
	Addr uint
	Raw  int64
	Err  error
}

// Config carries the construction parameters of a Cpu. The zero value
// selects the defaults. Configuration is explicit per instance; there is
// no process-wide state, so independent machines never interfere.
type Config struct {
	MemorySize uint // Cells, clamped to [MEMORY_MIN, MEMORY_MAX]. 0 selects MEMORY_DEFAULT.
	AccBits    uint // Accumulator width: 8, 16, 32, or 64. 0 selects ACC_BITS_DEFAULT.
	CellBits   uint // Memory cell width. 0 selects CELL_BITS_DEFAULT.
}

// Cpu is the execution engine: the fetch-decode-execute loop over a Memory
// and a register file. It is single threaded; Step never blocks. INP with
// no pending input suspends the machine in STATE_AWAIT_INPUT with the
// program counter held at the INP cell, so the next Step after
// ProvideInput re-executes it.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *Memory    // Cell storage.
	Regs   *Registers // Accumulator, program counter, flags.

	Ticks int // Executed instruction count since reset.

	state State
	fault *Fault

	input  chan int64
	output chan int64
}

// NewCpu creates a machine from a configuration.
func NewCpu(conf Config) (cpu *Cpu) {
	if conf.MemorySize == 0 {
		conf.MemorySize = MEMORY_DEFAULT
	}
	if conf.AccBits == 0 {
		conf.AccBits = ACC_BITS_DEFAULT
	}
	if conf.CellBits == 0 {
		conf.CellBits = CELL_BITS_DEFAULT
	}

	cpu = &Cpu{
		Memory: NewMemory(conf.MemorySize, conf.CellBits),
		Regs:   NewRegisters(conf.AccBits),
		input:  make(chan int64, INPUT_LIMIT),
		output: make(chan int64, OUTPUT_LIMIT),
	}

	return
}

// Defines returns the machine constants visible to an assembler.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%d", cpu.Memory.Size()),
		"ACC_BITS":    fmt.Sprintf("%d", cpu.Regs.Bits()),
		"CELL_BITS":   fmt.Sprintf("%d", cpu.Memory.Bits()),
	})
}

// State returns the current execution state.
func (cpu *Cpu) State() State {
	return cpu.state
}

// Fault returns the recorded fault, if the machine is faulted.
func (cpu *Cpu) Fault() (fault Fault, ok bool) {
	if cpu.fault == nil {
		return
	}

	return *cpu.fault, true
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("  acc: %d\n   pc: %03d\n  neg: %v\n  ovf: %v\nstate: %v\nticks: %d\n",
		cpu.Regs.Acc, cpu.Regs.Pc, cpu.Regs.Negative, cpu.Regs.Overflow, cpu.state, cpu.Ticks)

	if cpu.fault != nil {
		text += fmt.Sprintf("fault: %03d (cell %d): %v\n", cpu.fault.Addr, cpu.fault.Raw, cpu.fault.Err)
	}

	return
}

// Reset zeroes memory and registers, discards pending I/O, and returns
// the machine to STATE_READY.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Clear()
	cpu.Regs.Reset()
	cpu.Ticks = 0
	cpu.state = STATE_READY
	cpu.fault = nil
	cpu.drain()
}

// Load replaces memory with a program image and resets the register file.
// Fails with ErrImageTooLarge, leaving prior memory and register state
// untouched, if the image exceeds the memory size.
func (cpu *Cpu) Load(image []int64) (err error) {
	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: load %d cells", len(image))
	}

	cpu.Regs.Reset()
	cpu.Ticks = 0
	cpu.state = STATE_READY
	cpu.fault = nil
	cpu.drain()

	return
}

// drain discards pending input and output.
func (cpu *Cpu) drain() {
	for {
		select {
		case <-cpu.input:
		case <-cpu.output:
		default:
			return
		}
	}
}

// ProvideInput queues a value for the next INP instruction. Fails with
// ErrInputFull when INPUT_LIMIT values are already pending.
func (cpu *Cpu) ProvideInput(value int64) (err error) {
	select {
	case cpu.input <- value:
	default:
		err = ErrInputFull
	}

	return
}

// TakeOutput removes and returns the oldest value emitted by OUT.
func (cpu *Cpu) TakeOutput() (value int64, ok bool) {
	select {
	case value = <-cpu.output:
		ok = true
	default:
	}

	return
}

// faultAt transitions to STATE_FAULTED, recording the offending address,
// raw cell value, and error. No instruction executes after a fault until
// Reset or Load.
func (cpu *Cpu) faultAt(addr uint, raw int64, err error) error {
	cpu.state = STATE_FAULTED
	cpu.fault = &Fault{Addr: addr, Raw: raw, Err: err}

	if cpu.Verbose {
		log.Printf("cpu: fault at %03d (cell %d): %v", addr, raw, err)
	}

	return err
}

// Step executes a single fetch-decode-execute cycle. In STATE_HALTED or
// STATE_FAULTED it is a no-op returning ErrStopped. In STATE_AWAIT_INPUT
// it re-executes the suspended INP, staying suspended (and returning nil)
// if no input is pending. A full output buffer returns ErrOutputFull
// without faulting; the OUT re-executes once output is drained.
func (cpu *Cpu) Step() (err error) {
	if !cpu.state.Runnable() {
		return ErrStopped
	}

	at := cpu.Regs.Pc
	if at >= cpu.Memory.Size() {
		return cpu.faultAt(at, 0, ErrPcOverflow)
	}

	cell, _ := cpu.Memory.Read(int64(at))

	// Pre-increment: branches overwrite the advanced value.
	cpu.Regs.Pc = at + 1

	// Always decode from current memory contents; self-modifying code
	// must see its own stores.
	in, err := Decode(cell)
	if err != nil {
		return cpu.faultAt(at, cell, err)
	}

	if cpu.Verbose {
		log.Printf("%03d: %v", at, in)
	}

	err = cpu.execute(at, in)
	if errors.Is(err, ErrOutputFull) {
		// Backpressure, not a fault; the OUT re-executes after a drain.
		return
	}
	if err != nil {
		return cpu.faultAt(at, cell, err)
	}

	if cpu.state.Runnable() && cpu.state != STATE_AWAIT_INPUT {
		cpu.state = STATE_RUNNING
	}

	return
}

// execute applies one instruction's semantics. A returned error is fatal;
// suspension (INP without input, OUT without buffer space) is signalled by
// rewinding the program counter instead.
func (cpu *Cpu) execute(at uint, in Instruction) (err error) {
	mem := cpu.Memory
	regs := cpu.Regs

	switch in.Op {
	case OP_HLT:
		cpu.state = STATE_HALTED

	case OP_DAT:
		// Data fetched as code: a likely programmer error, executed as
		// a no-op advance.
		if cpu.Verbose {
			log.Printf("%03d: data cell %d executed as code", at, in.Operand)
		}

	case OP_ADD:
		var value int64
		value, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		regs.Add(value)

	case OP_SUB:
		var value int64
		value, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		regs.Sub(value)

	case OP_STA:
		// Lossy narrowing when the accumulator is wider than a cell:
		// only the low-order cell-width bits are stored.
		err = mem.Write(in.Operand, regs.Acc)
		if err != nil {
			return
		}

	case OP_LDA:
		var value int64
		value, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		regs.SetAcc(value)

	case OP_LDR:
		// One extra indirection: the operand cell holds the target
		// address. Either address out of range is a fault.
		var target int64
		target, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		var value int64
		value, err = mem.Read(target)
		if err != nil {
			return
		}
		regs.SetAcc(value)

	case OP_BRA:
		err = cpu.branch(in.Operand)

	case OP_BRZ:
		if regs.Acc == 0 {
			err = cpu.branch(in.Operand)
		}

	case OP_BRP:
		// Non-negative, zero included.
		if regs.Acc >= 0 {
			err = cpu.branch(in.Operand)
		}

	case OP_INP:
		select {
		case value := <-cpu.input:
			regs.SetAcc(value)
			if cpu.state == STATE_AWAIT_INPUT {
				cpu.state = STATE_RUNNING
			}
		default:
			// Suspend on the INP cell until input arrives.
			regs.Pc = at
			cpu.state = STATE_AWAIT_INPUT
			return
		}

	case OP_OUT:
		select {
		case cpu.output <- regs.Acc:
		default:
			// Hold on the OUT cell until the buffer drains.
			regs.Pc = at
			return ErrOutputFull
		}

	case OP_BWN:
		regs.SetAcc(^regs.Acc)

	case OP_BWA:
		var value int64
		value, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		regs.SetAcc(regs.Acc & value)

	case OP_BWO:
		var value int64
		value, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		regs.SetAcc(regs.Acc | value)

	case OP_BWX:
		var value int64
		value, err = mem.Read(in.Operand)
		if err != nil {
			return
		}
		regs.SetAcc(regs.Acc ^ value)

	case OP_SHL:
		count := uint(in.Operand) & (regs.Bits() - 1)
		regs.SetAcc(regs.Acc << count)

	case OP_SHR:
		// Logical shift over the configured width.
		count := uint(in.Operand) & (regs.Bits() - 1)
		pattern := uint64(regs.Acc) & widthMask(regs.Bits())
		regs.SetAcc(int64(pattern >> count))
	}

	cpu.Ticks += 1

	return
}

// widthMask returns the unsigned bit mask of a width.
func widthMask(bits uint) uint64 {
	return ^uint64(0) >> (64 - bits)
}

// branch sets the program counter, faulting with ErrOutOfBounds on a
// target outside memory.
func (cpu *Cpu) branch(target int64) (err error) {
	if target < 0 || uint(target) >= cpu.Memory.Size() {
		return ErrOutOfBounds{Addr: target, Size: cpu.Memory.Size()}
	}

	cpu.Regs.Pc = uint(target)

	return
}
