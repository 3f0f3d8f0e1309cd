package m68k

// 68030/68040 PMMU control opcodes (PMOVE, PTEST, PFLUSH, PLOAD) and
// 68040 on-chip cache control (CINV, CPUSH). These share the coprocessor
// ID 000 F-line window (0xF000-0xF03F) that real 68851/68030 hardware
// uses for the whole PMMU instruction family, distinguished entirely by
// the extension word rather than by opcode bits; CINV/CPUSH get their
// own 0xF400-0xF4FF window, matching the 68040's on-chip cache opcodes.
//
// The core has no ATC (address translation cache) or instruction/data
// cache model, so PFLUSH/PLOAD/CINV/CPUSH are supervisor-gated no-ops:
// there is nothing to invalidate. PMOVE and PTEST are the only members
// that touch real CPU state (the control registers mmu.go already
// exposes to the host) and are implemented for real.

func init() {
	registerPMMU()
	registerCache040()
}

// pmmuGate reports whether this variant has a PMMU to dispatch these
// opcodes to; variants without one treat the whole window as F-line,
// matching decode.go's reserved-opcode fallback.
func (c *CPU) pmmuGate() bool {
	return c.hasPMMU
}

func registerPMMU() {
	for mode := uint16(0); mode < 8; mode++ {
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0xF000|mode<<3|reg] = opPMMU
		}
	}
}

// PMMU sub-operation selector: extension word bits 15-13.
const (
	pmmuSubPMove  = 0
	pmmuSubPFlush = 1
	pmmuSubPTest  = 2
	pmmuSubPLoad  = 3
)

// PMOVE preg selector: extension word bits 12-10.
const (
	pmmuRegTC    = 0
	pmmuRegCRP   = 1 // 64-bit: limit word then aptr word
	pmmuRegSRP   = 2 // 64-bit
	pmmuRegMMUSR = 3
	pmmuRegTT0   = 4 // TT0 on 030, ITT0 on 040
	pmmuRegTT1   = 5 // TT1 on 030, ITT1 on 040
	pmmuRegDTT0  = 6 // 040 only
	pmmuRegDTT1  = 7 // 040 only
)

// opPMMU dispatches the shared 0xF000 coprocessor-ID-000 window to
// PMOVE, PFLUSH, PTEST, or PLOAD per the extension word's top bits.
func opPMMU(c *CPU) StepResult {
	if !c.pmmuGate() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}

	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	ext := c.readImm16()

	switch ext >> 13 {
	case pmmuSubPMove:
		return c.opPMove(mode, reg, ext)
	case pmmuSubPFlush:
		c.cycles += 8
		return StepResult{Kind: StepOK}
	case pmmuSubPTest:
		return c.opPTest(mode, reg)
	case pmmuSubPLoad:
		c.cycles += 8
		return StepResult{Kind: StepOK}
	}
	return illegal(c)
}

// opPMove implements PMOVE <ea>,preg and PMOVE preg,<ea>. 64-bit
// registers (CRP, SRP) require a memory EA; register-direct forms are
// only valid for the 32-bit registers, mirroring the restriction real
// hardware places on which pregs can target Dn/An.
func (c *CPU) opPMove(mode, reg uint8, ext uint16) StepResult {
	preg := uint8((ext >> 10) & 7)
	toPreg := ext&0x0200 != 0

	is64 := preg == pmmuRegCRP || preg == pmmuRegSRP
	if is64 && (mode == 0 || mode == 1) {
		return illegal(c)
	}

	e, ok := c.resolveEA(mode, reg, Long)
	if !ok {
		return illegal(c)
	}

	if is64 {
		addr := e.address()
		if toPreg {
			limit := c.readBus(Long, addr, false)
			aptr := c.readBus(Long, addr+4, false)
			c.setPmmuReg64(preg, limit, aptr)
		} else {
			limit, aptr := c.pmmuReg64(preg)
			c.writeBus(Long, addr, limit, false)
			c.writeBus(Long, addr+4, aptr, false)
		}
		c.cycles += 20
		return StepResult{Kind: StepOK}
	}

	if toPreg {
		v := e.read(c, Long)
		c.setPmmuReg32(preg)(c, v)
	} else {
		v := c.pmmuReg32(preg)
		e.write(c, Long, v)
	}
	c.cycles += 16
	return StepResult{Kind: StepOK}
}

func (c *CPU) pmmuReg64(preg uint8) (limit, aptr uint32) {
	switch preg {
	case pmmuRegCRP:
		return c.CRP()
	case pmmuRegSRP:
		return c.SRP()
	}
	return 0, 0
}

func (c *CPU) setPmmuReg64(preg uint8, limit, aptr uint32) {
	switch preg {
	case pmmuRegCRP:
		c.SetCRP(limit, aptr)
	case pmmuRegSRP:
		c.SetSRP(limit, aptr)
	}
}

func (c *CPU) pmmuReg32(preg uint8) uint32 {
	switch preg {
	case pmmuRegTC:
		return c.tc
	case pmmuRegMMUSR:
		return c.mmusr
	case pmmuRegTT0:
		return c.tt0Reg()
	case pmmuRegTT1:
		return c.tt1Reg()
	case pmmuRegDTT0:
		return c.dtt0
	case pmmuRegDTT1:
		return c.dtt1
	}
	return 0
}

func (c *CPU) setPmmuReg32(preg uint8) func(*CPU, uint32) {
	switch preg {
	case pmmuRegTC:
		return func(c *CPU, v uint32) { c.SetTC(v) }
	case pmmuRegMMUSR:
		return func(c *CPU, v uint32) { c.mmusr = v }
	case pmmuRegTT0:
		return func(c *CPU, v uint32) { c.setTT0Reg(v) }
	case pmmuRegTT1:
		return func(c *CPU, v uint32) { c.setTT1Reg(v) }
	case pmmuRegDTT0:
		return func(c *CPU, v uint32) { c.dtt0 = v }
	case pmmuRegDTT1:
		return func(c *CPU, v uint32) { c.dtt1 = v }
	}
	return func(*CPU, uint32) {}
}

// tt0Reg/tt1Reg/setTT0Reg/setTT1Reg route to TT0/TT1 on the 030's shared
// transparent-translation registers or ITT0/ITT1 on the 040's split ones.
func (c *CPU) tt0Reg() uint32 {
	if c.cpuType == M68EC040 || c.cpuType == M68LC040 || c.cpuType == M68040 {
		return c.itt0
	}
	return c.tt0
}

func (c *CPU) tt1Reg() uint32 {
	if c.cpuType == M68EC040 || c.cpuType == M68LC040 || c.cpuType == M68040 {
		return c.itt1
	}
	return c.tt1
}

func (c *CPU) setTT0Reg(v uint32) {
	if c.cpuType == M68EC040 || c.cpuType == M68LC040 || c.cpuType == M68040 {
		c.itt0 = v
		return
	}
	c.tt0 = v
}

func (c *CPU) setTT1Reg(v uint32) {
	if c.cpuType == M68EC040 || c.cpuType == M68LC040 || c.cpuType == M68040 {
		c.itt1 = v
		return
	}
	c.tt1 = v
}

// opPTest runs the logical-to-physical translation the MMU would
// perform for a real access and reports the outcome in MMUSR: bit 31 set
// on translation failure (leaving the low bits clear, since this core has
// no descriptor-level status to report beyond pass/fail), cleared on
// success. Register-direct EAs have no logical address to test and
// report success trivially.
func (c *CPU) opPTest(mode, reg uint8) StepResult {
	e, ok := c.resolveEA(mode, reg, Long)
	if !ok {
		return illegal(c)
	}
	if mode == 0 || mode == 1 {
		c.mmusr = 0
		c.cycles += 8
		return StepResult{Kind: StepOK}
	}
	_, fault := c.mmuTranslate(e.address(), false, false)
	if fault != nil {
		c.mmusr = 0x80000000
	} else {
		c.mmusr = 0
	}
	c.cycles += 8
	return StepResult{Kind: StepOK}
}

// --- 68040 cache control (CINV, CPUSH) ---

// registerCache040 registers the 68040 on-chip instruction/data cache
// control opcodes. The core models no cache, so every combination of
// cache selector, scope, and push-vs-invalidate decodes to the same
// supervisor-gated no-op.
func registerCache040() {
	for cc := uint16(0); cc < 4; cc++ {
		for ss := uint16(0); ss < 4; ss++ {
			for push := uint16(0); push < 2; push++ {
				for reg := uint16(0); reg < 8; reg++ {
					opcodeTable[0xF400|cc<<6|ss<<4|push<<3|reg] = opCacheControl
				}
			}
		}
	}
}

func (c *CPU) hasOnChipCache() bool {
	switch c.cpuType {
	case M68EC040, M68LC040, M68040:
		return true
	default:
		return false
	}
}

func opCacheControl(c *CPU) StepResult {
	if !c.hasOnChipCache() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	c.cycles += 4
	return StepResult{Kind: StepOK}
}
