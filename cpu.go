package m68k

import (
	"log/slog"
)

// Registers is a snapshot of the programmer-visible register file.
type Registers struct {
	D   [8]uint32
	A   [8]uint32
	PC  uint32
	SR  uint16
	USP uint32
	ISP uint32
	MSP uint32
}

// regFile holds D/A/PC plus the parallel snapshot captured at the start
// of every instruction so address/bus-error rollback can restore it.
type regFile struct {
	D  [8]uint32
	A  [8]uint32
	PC uint32
}

// CPU is one instance of an M68000-family processor core. It is driven
// exclusively through Step/StepWithHLE/Execute; there is no background
// goroutine and no internal synchronization, matching the single-threaded
// cooperative scheduling model the core is specified against.
type CPU struct {
	reg     regFile
	regSave regFile // snapshot at instruction start, for fault rollback
	srSave  uint16

	ppc uint32 // address of the currently-executing instruction
	ir  uint16 // first word of the currently-executing instruction

	sp [8]uint32 // banked A7: index 0=USP, 4=ISP, 6=MSP

	flags Flags

	// 68010+ control registers.
	vbr, sfc, dfc uint32

	// 68020+ cache control.
	cacr, caar uint32

	// 68040 transparent translation.
	itt0, itt1, dtt0, dtt1 uint32
	// 68040 root pointer / dirty control.
	urp, dacr0, dacr1, iacr0, iacr1 uint32

	// 68030 transparent translation.
	tt0, tt1 uint32

	// PMMU (68030/68040): CRP/SRP table roots, TC, MMUSR.
	crpAptr, crpLimit uint32
	srpAptr, srpLimit uint32
	tc, mmusr         uint32
	pmmuEnabled       bool

	// FPU (881/882-class, integrated on 68040 except LC/EC).
	fpr          [8]float64
	fpcr, fpsr, fpiar uint32
	fpuJustReset bool

	cpuType  CpuType
	hasPMMU  bool
	hasFPU   bool
	bcdMode  BCDCompat

	mode                runMode
	exceptionProcessing bool
	changeOfFlow        bool
	stopped             bool
	halted              bool

	pendingLevel uint8
	pendingVec   *uint8

	cycles uint64

	bus Bus
	hle HLEHandler
	log *slog.Logger
}

// Option configures a CPU at construction time.
type Option func(*CPU)

// WithSlog sets the CPU's structured logger. Defaults to slog.Default().
// The logger is stored on the CPU; the core writes no log records to it.
func WithSlog(l *slog.Logger) Option {
	return func(c *CPU) { c.log = l }
}

// WithBCDCompat selects the ABCD/SBCD/NBCD undefined-bit convention.
func WithBCDCompat(mode BCDCompat) Option {
	return func(c *CPU) { c.bcdMode = mode }
}

// WithHLE installs a high-level-emulation trap handler.
func WithHLE(h HLEHandler) Option {
	return func(c *CPU) { c.hle = h }
}

// NewCPU constructs a CPU of the given variant wired to bus and performs
// a hardware reset (equivalent to calling Reset immediately).
func NewCPU(cpuType CpuType, bus Bus, opts ...Option) *CPU {
	c := &CPU{
		cpuType: cpuType,
		hasPMMU: cpuType.hasPMMU(),
		hasFPU:  cpuType.hasFPU(),
		bus:     bus,
		hle:     NoOpHLE{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset(bus)
	return c
}

// PulseReset clears CPU state without touching the bus: S=1, M=0,
// T1=T0=0, interrupt mask=7, Z=1, X=N=V=C=0, VBR=0, control registers
// zeroed. It does not load SSP/PC from the vector table; callers that
// want a full hardware reset should call Reset instead.
func (c *CPU) PulseReset() {
	c.reg = regFile{}
	c.regSave = regFile{}
	c.sp = [8]uint32{}
	// NotZ: 0 means Z IS set after reset, per the reset-invariance property.
	c.flags = Flags{NotZ: 0, IM: 7, S: 1}
	c.vbr = 0
	c.sfc, c.dfc = 0, 0
	c.cacr, c.caar = 0, 0
	c.itt0, c.itt1, c.dtt0, c.dtt1 = 0, 0, 0, 0
	c.urp, c.dacr0, c.dacr1, c.iacr0, c.iacr1 = 0, 0, 0, 0, 0
	c.tt0, c.tt1 = 0, 0
	c.crpAptr, c.crpLimit, c.srpAptr, c.srpLimit = 0, 0, 0, 0
	c.tc, c.mmusr = 0, 0
	c.pmmuEnabled = false
	c.fpr = [8]float64{}
	c.fpcr, c.fpsr, c.fpiar = 0, 0, 0
	c.fpuJustReset = true
	c.mode = runNormal
	c.exceptionProcessing = false
	c.changeOfFlow = false
	c.stopped = false
	c.halted = false
	c.pendingLevel = 0
	c.pendingVec = nil
	c.cycles = 0
}

// Reset performs a full hardware reset: PulseReset, then reads SSP from
// address 0 and PC from address 4, mirroring SSP into the ISP and MSP
// banks (matching the 68k reset exception's effect on the stack bank).
func (c *CPU) Reset(bus Bus) {
	c.bus = bus
	c.PulseReset()
	ssp := c.rawReadLong(0)
	c.reg.A[7] = ssp
	c.sp[stackBankIndex(1, 0)] = ssp // ISP
	c.sp[stackBankIndex(1, 1)] = ssp // MSP
	c.reg.PC = c.rawReadLong(4)
	c.cycles += 40
	c.bus.ResetDevices()
}

// Halted reports whether the CPU has stopped due to an unrecoverable
// double fault. Only an external Reset clears this.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the CPU executed STOP and has not yet been
// woken by a sufficiently prioritized interrupt.
func (c *CPU) Stopped() bool { return c.stopped }

// CpuType returns the variant this CPU instance emulates.
func (c *CPU) CpuType() CpuType { return c.cpuType }

// Cycles returns the cumulative cycle count since the last reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Registers returns a snapshot of the programmer-visible register file.
func (c *CPU) Registers() Registers {
	r := Registers{D: c.reg.D, A: c.reg.A, PC: c.reg.PC, SR: c.assembleSR()}
	r.USP = c.sp[stackBankIndex(0, 0)]
	r.ISP = c.sp[stackBankIndex(1, 0)]
	r.MSP = c.sp[stackBankIndex(1, 1)]
	if c.flags.S != 0 {
		if c.flags.M != 0 {
			r.MSP = c.reg.A[7]
		} else {
			r.ISP = c.reg.A[7]
		}
	} else {
		r.USP = c.reg.A[7]
	}
	return r
}

// D returns data register n (0-7).
func (c *CPU) D(n int) uint32 { return c.reg.D[n&7] }

// SetD sets data register n (0-7).
func (c *CPU) SetD(n int, v uint32) { c.reg.D[n&7] = v }

// A returns address register n (0-7); A[7] is the active stack pointer.
func (c *CPU) A(n int) uint32 { return c.reg.A[n&7] }

// SetA sets address register n (0-7).
func (c *CPU) SetA(n int, v uint32) { c.reg.A[n&7] = v }

// PC returns the program counter.
func (c *CPU) PC() uint32 { return c.reg.PC }

// SetPC sets the program counter.
func (c *CPU) SetPC(v uint32) { c.reg.PC = v }

// USP returns the user stack pointer, whether or not it is the active A7.
func (c *CPU) USP() uint32 {
	if c.flags.S == 0 {
		return c.reg.A[7]
	}
	return c.sp[stackBankIndex(0, 0)]
}

// SetUSP sets the user stack pointer, whether or not it is the active A7.
func (c *CPU) SetUSP(v uint32) {
	if c.flags.S == 0 {
		c.reg.A[7] = v
		return
	}
	c.sp[stackBankIndex(0, 0)] = v
}

// ISP returns the interrupt (supervisor) stack pointer.
func (c *CPU) ISP() uint32 {
	if c.flags.S != 0 && c.flags.M == 0 {
		return c.reg.A[7]
	}
	return c.sp[stackBankIndex(1, 0)]
}

// SetISP sets the interrupt (supervisor) stack pointer.
func (c *CPU) SetISP(v uint32) {
	if c.flags.S != 0 && c.flags.M == 0 {
		c.reg.A[7] = v
		return
	}
	c.sp[stackBankIndex(1, 0)] = v
}

// MSP returns the master stack pointer (020+).
func (c *CPU) MSP() uint32 {
	if c.flags.S != 0 && c.flags.M != 0 {
		return c.reg.A[7]
	}
	return c.sp[stackBankIndex(1, 1)]
}

// SetMSP sets the master stack pointer (020+).
func (c *CPU) SetMSP(v uint32) {
	if c.flags.S != 0 && c.flags.M != 0 {
		c.reg.A[7] = v
		return
	}
	c.sp[stackBankIndex(1, 1)] = v
}

// ControlRegister reads a control register by its MOVEC selector code
// (0x000 SFC ... 0x808 TT0, 0x809 TT1). Unknown selectors read zero.
func (c *CPU) ControlRegister(selector uint16) uint32 {
	if r, ok := movecRegs[selector&0xFFF]; ok {
		return r.get(c)
	}
	return 0
}

// SetControlRegister writes a control register by its MOVEC selector
// code. Unknown selectors discard the write.
func (c *CPU) SetControlRegister(selector uint16, v uint32) {
	if r, ok := movecRegs[selector&0xFFF]; ok {
		r.set(c, v)
	}
}

// SR returns the assembled Status Register.
func (c *CPU) SR() uint16 { return c.assembleSR() }

// SetSR sets the Status Register, banking the stack pointer if S or M
// changed (the normal, non-exception-entry path).
func (c *CPU) SetSR(sr uint16) { c.decomposeSR(sr) }

// CCR returns the low byte (XNZVC) of the Status Register.
func (c *CPU) CCR() uint8 { return c.ccr() }

// SetCCR sets the low byte (XNZVC) of the Status Register.
func (c *CPU) SetCCR(v uint8) { c.setCCR(v) }

// RequestInterrupt raises the pending interrupt priority level (1-7). A
// higher level preempts a lower pending one. A non-nil vector is used
// directly when the interrupt is serviced; nil resolves the vector via
// the bus's InterruptAcknowledge (which may autovector). The core
// samples this between instructions, never mid-step.
func (c *CPU) RequestInterrupt(level uint8, vector *uint8) {
	if level > c.pendingLevel {
		c.pendingLevel = level
		c.pendingVec = vector
	}
}

// supervisor reports whether the CPU is currently in supervisor mode.
func (c *CPU) supervisor() bool { return c.flags.S != 0 }

// snapshotInstruction captures dar/SR at the start of an instruction so a
// mid-instruction address/bus-error fault can roll back register side
// effects before the exception frame is built.
func (c *CPU) snapshotInstruction() {
	c.regSave = c.reg
	c.srSave = c.assembleSR()
}

// rollbackInstruction restores the snapshot captured by
// snapshotInstruction. Used only from the fault paths in exception.go.
func (c *CPU) rollbackInstruction() {
	c.reg = c.regSave
}

// stepMode selects how step() resolves a trap sentinel once decoded.
type stepMode int

const (
	modeSurface stepMode = iota // Step(): return the trap, touch nothing else
	modeHLE                     // StepWithHLE(h): consult h, else take the real exception
	modeAuto                    // Execute(): always take the real exception
)

// Step executes exactly one instruction (or services one pending
// interrupt / STOP tick) and returns a discriminated StepResult. Trap
// opcodes (A-line, F-line, TRAP, BKPT, ILLEGAL) are surfaced as-is,
// without being taken as hardware exceptions or offered to any installed
// HLE handler — callers that want one of those behaviors should use
// StepWithHLE or Execute instead.
func (c *CPU) Step() StepResult {
	return c.step(modeSurface, nil)
}

// StepWithHLE executes exactly one instruction, routing any trap class
// through h. If h consumes the trap (returns true) it is reported as
// StepOK with 4 cycles charged; otherwise the real hardware exception is
// taken and the result reflects the cycles that cost.
func (c *CPU) StepWithHLE(h HLEHandler) StepResult {
	if h == nil {
		h = c.hle
	}
	return c.step(modeHLE, h)
}

// Execute runs instructions, auto-taking every trap as a real hardware
// exception (ignoring any installed HLE handler), until the cumulative
// cycle count consumed reaches or exceeds budget. Returns the number of
// cycles actually consumed.
func (c *CPU) Execute(budget int) int {
	spent := 0
	for spent < budget {
		if c.halted {
			break
		}
		r := c.step(modeAuto, nil)
		if r.Kind == StepStopped {
			spent += 4
			continue
		}
		spent += r.Cycles
	}
	return spent
}

func (c *CPU) step(mode stepMode, h HLEHandler) StepResult {
	if c.halted {
		return StepResult{Kind: StepStopped}
	}

	c.pollInterrupt()

	if c.stopped {
		c.cycles += 4
		return StepResult{Kind: StepStopped}
	}

	c.snapshotInstruction()
	c.ppc = c.reg.PC

	before := c.cycles
	c.ir = c.readImm16()
	if c.mode == runBerrAerrReset {
		c.mode = runNormal
		return StepResult{Kind: StepOK, Cycles: int(c.cycles - before)}
	}

	trap := c.dispatch(c.ir)

	if trap.Kind != StepOK {
		if mode == modeSurface {
			return trap
		}
		return c.resolveTrap(trap, mode, h, before)
	}

	if c.mode == runBerrAerrReset {
		c.mode = runNormal
		return StepResult{Kind: StepOK, Cycles: int(c.cycles - before)}
	}

	if c.checkTrace() {
		c.exceptionTrace()
	}

	return StepResult{Kind: StepOK, Cycles: int(c.cycles - before)}
}

// resolveTrap handles the outer-step half of a trap sentinel: consult the
// HLE handler in modeHLE, else take the real exception. PC rewinding for
// the rewind-class traps happens here, uniformly, rather than in every
// executor.
func (c *CPU) resolveTrap(trap StepResult, mode stepMode, h HLEHandler, before uint64) StepResult {
	handled := false
	switch trap.Kind {
	case StepAlineTrap:
		if mode == modeHLE {
			handled = h.HandleALine(c, trap.Opcode)
		}
		if handled {
			break
		}
		c.reg.PC = c.ppc
		c.exceptionSimple(vecLineA)
	case StepFlineTrap:
		if mode == modeHLE {
			handled = h.HandleFLine(c, trap.Opcode)
		}
		if handled {
			break
		}
		c.reg.PC = c.ppc
		c.exceptionSimple(vecLineF)
	case StepTrapInstruction:
		if mode == modeHLE {
			handled = h.HandleTrap(c, trap.Num)
		}
		if handled {
			break
		}
		c.exceptionTrap(trap.Num)
	case StepBreakpoint:
		if mode == modeHLE {
			handled = h.HandleBreakpoint(c, trap.Num)
		}
		if handled {
			break
		}
		c.reg.PC = c.ppc
		c.exceptionSimple(vecIllegalInstruction)
	case StepIllegalInstruction:
		if mode == modeHLE {
			handled = h.HandleIllegal(c, trap.Opcode)
		}
		if handled {
			break
		}
		c.reg.PC = c.ppc
		c.exceptionSimple(vecIllegalInstruction)
	}
	if handled {
		return StepResult{Kind: StepOK, Cycles: 4}
	}
	return StepResult{Kind: StepOK, Cycles: int(c.cycles - before)}
}
