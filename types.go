// Package m68k implements a cycle-approximate instruction-set simulator for
// the Motorola 68000 processor family: M68000, M68010, M68EC020, M68020,
// M68EC030, M68030, M68EC040, M68LC040, M68040, and the Philips SCC68070.
//
// The core is an interpreter driven entirely by a host-supplied Bus: it owns
// no peripherals, no clock, and no disassembler. Callers drive it one
// instruction (Step) or one cycle budget (Execute) at a time.
package m68k

// CpuType identifies which member of the 68000 family a CPU instance
// emulates. Variant gating (addressing modes, instructions, stack-frame
// formats, PMMU/FPU presence) is derived from this at construction time.
type CpuType int

const (
	Invalid CpuType = iota
	M68000
	M68010
	M68EC020
	M68020
	M68EC030
	M68030
	M68EC040
	M68LC040
	M68040
	SCC68070
)

// String returns a human-readable name for the CPU variant.
func (t CpuType) String() string {
	switch t {
	case M68000:
		return "68000"
	case M68010:
		return "68010"
	case M68EC020:
		return "68EC020"
	case M68020:
		return "68020"
	case M68EC030:
		return "68EC030"
	case M68030:
		return "68030"
	case M68EC040:
		return "68EC040"
	case M68LC040:
		return "68LC040"
	case M68040:
		return "68040"
	case SCC68070:
		return "SCC68070"
	default:
		return "invalid"
	}
}

// atLeast020 reports whether the variant implements the 68020+ instruction
// set extensions (CAS/CAS2, bitfield ops, long multiply/divide, CMP2/CHK2,
// PACK/UNPK, LINK.L, RTM, CALLM, EXTB, full extension-word addressing).
func (t CpuType) atLeast020() bool {
	switch t {
	case M68EC020, M68020, M68EC030, M68030, M68EC040, M68LC040, M68040:
		return true
	default:
		return false
	}
}

// atLeast010 reports whether the variant has VBR/SFC/DFC, MOVES, BKPT, and
// the format-0 exception stack frame. SCC68070 is 68010-compatible at the
// core level (VBR, MOVES, format-0 frames) with a 32-bit address bus
// bolted on, not a stripped-down 68000, so it belongs on the true side of
// this check alongside M68010 and every 020+ variant.
func (t CpuType) atLeast010() bool {
	return t != M68000
}

// hasPMMU reports whether the variant has an integrated paged MMU.
func (t CpuType) hasPMMU() bool {
	switch t {
	case M68EC030, M68030, M68EC040, M68LC040, M68040:
		return true
	default:
		return false
	}
}

// hasFPU reports whether the variant has an integrated FPU. LC040/EC040
// omit the FPU; plain 68040 and all 881/882-class externally-coupled
// variants are modeled as having one for F-line dispatch purposes.
func (t CpuType) hasFPU() bool {
	switch t {
	case M68EC040, M68LC040:
		return false
	case M68040:
		return true
	default:
		return t.atLeast020()
	}
}

// addressMask returns the externally visible address mask: 24-bit for
// 000/010, full 32-bit for 020 and later.
func (t CpuType) addressMask() uint32 {
	if t == M68000 || t == M68010 {
		return 0x00FFFFFF
	}
	return 0xFFFFFFFF
}

// srMask returns the SR bits implemented by this variant. M (master) and
// T0 (020+ trace) are only meaningful on 020 and later.
func (t CpuType) srMask() uint16 {
	if t.atLeast020() {
		return 0xF71F // T1 T0 S -- III --- XNZVC, M in bit 12
	}
	return 0xA71F // T1 S -- III --- XNZVC (no T0, no M)
}

// BCDCompat selects which reference's deterministic behavior for the
// architecturally-undefined N/V bits of ABCD/SBCD/NBCD is reproduced.
type BCDCompat int

const (
	// BCDMusashi matches the widely-used Musashi reference core (default).
	BCDMusashi BCDCompat = iota
	// BCDMame matches MAME / SingleStepTests fixtures, which use a
	// different carry-detection threshold (0x9F vs 0x99 for ABCD).
	BCDMame
)

// StepResult is the discriminated outcome of a single Step call.
type StepResult struct {
	Kind   StepKind
	Cycles int    // valid when Kind == StepOK
	Opcode uint16 // valid for AlineTrap, FlineTrap, IllegalInstruction
	Num    uint8  // valid for TrapInstruction, Breakpoint
}

// StepKind discriminates the StepResult union.
type StepKind int

const (
	StepOK StepKind = iota
	StepAlineTrap
	StepFlineTrap
	StepTrapInstruction
	StepBreakpoint
	StepIllegalInstruction
	StepStopped
)

// HLEHandler lets a host intercept traps before the real hardware
// exception is taken. Each method returns true to consume the trap (no
// hardware exception, no extra cycles) or false to fall through.
type HLEHandler interface {
	HandleALine(c *CPU, opcode uint16) bool
	HandleFLine(c *CPU, opcode uint16) bool
	HandleTrap(c *CPU, n uint8) bool
	HandleBreakpoint(c *CPU, n uint8) bool
	HandleIllegal(c *CPU, opcode uint16) bool
}

// NoOpHLE is an HLEHandler that never intercepts; every trap falls
// through to the real hardware exception. It is the default handler.
type NoOpHLE struct{}

func (NoOpHLE) HandleALine(*CPU, uint16) bool      { return false }
func (NoOpHLE) HandleFLine(*CPU, uint16) bool      { return false }
func (NoOpHLE) HandleTrap(*CPU, uint8) bool        { return false }
func (NoOpHLE) HandleBreakpoint(*CPU, uint8) bool  { return false }
func (NoOpHLE) HandleIllegal(*CPU, uint16) bool    { return false }
