package m68k

// EA addressing mode categories.
const (
	eaDataReg   = iota // Data register direct (Dn)
	eaAddrReg          // Address register direct (An)
	eaMemory           // All memory addressing modes
	eaImmediate        // Immediate (#imm)
)

// ea represents a resolved effective address operand. Every resolveEA call
// fetches its extension words and applies postinc/predec side effects
// exactly once, at resolution time; read/write never repeat them.
type ea struct {
	mode uint8  // eaDataReg, eaAddrReg, eaMemory, eaImmediate
	reg  uint8  // register number (for register modes)
	addr uint32 // memory address (for memory modes)
	imm  uint32 // immediate value (for immediate mode)
}

// read returns the value at this effective address.
func (e ea) read(c *CPU, sz Size) uint32 {
	switch e.mode {
	case eaDataReg:
		return c.reg.D[e.reg] & sz.Mask()
	case eaAddrReg:
		return c.reg.A[e.reg] & sz.Mask()
	case eaMemory:
		return c.readBus(sz, e.addr, false)
	case eaImmediate:
		return e.imm & sz.Mask()
	}
	return 0
}

// write stores a value at this effective address. Data register writes
// preserve upper bits for byte/word operations; address register writes
// always store the full 32-bit value, sign-extended for byte/word (used by
// MOVEA and the few instructions that target An with sub-long size).
func (e ea) write(c *CPU, sz Size, val uint32) {
	// After a fault the registers have been rolled back to the
	// pre-instruction snapshot; the faulting instruction writes nothing more.
	if c.mode == runBerrAerrReset {
		return
	}
	switch e.mode {
	case eaDataReg:
		mask := sz.Mask()
		c.reg.D[e.reg] = (c.reg.D[e.reg] & ^mask) | (val & mask)
	case eaAddrReg:
		switch sz {
		case Byte:
			c.reg.A[e.reg] = uint32(int32(int8(val)))
		case Word:
			c.reg.A[e.reg] = uint32(int32(int16(val)))
		default:
			c.reg.A[e.reg] = val
		}
	case eaMemory:
		c.writeBus(sz, e.addr, val, false)
	}
}

// address returns the memory address (only valid for memory EAs).
func (e ea) address() uint32 { return e.addr }

// resolveEA decodes and resolves an effective address from a mode/register
// pair. The mode is bits 5-3 and reg is bits 2-0 of the standard EA field.
// Extension words are fetched from the instruction stream as needed.
// Invalid combinations (predecrement/postincrement on PC-relative or
// immediate, reserved mode-7 registers) report illegal via the ok result
// so the caller can surface StepIllegalInstruction instead of the core
// silently treating reg 0.
func (c *CPU) resolveEA(mode, reg uint8, sz Size) (ea, bool) {
	switch mode {
	case 0: // Dn - Data register direct
		return ea{mode: eaDataReg, reg: reg}, true

	case 1: // An - Address register direct
		return ea{mode: eaAddrReg, reg: reg}, true

	case 2: // (An) - Address register indirect
		return ea{mode: eaMemory, addr: c.reg.A[reg]}, true

	case 3: // (An)+ - Address register indirect with postincrement
		addr := c.reg.A[reg]
		inc := uint32(sz)
		if reg == 7 && sz == Byte {
			inc = 2 // SP always stays word-aligned
		}
		c.reg.A[reg] += inc
		return ea{mode: eaMemory, addr: addr}, true

	case 4: // -(An) - Address register indirect with predecrement
		dec := uint32(sz)
		if reg == 7 && sz == Byte {
			dec = 2 // SP always stays word-aligned
		}
		c.reg.A[reg] -= dec
		return ea{mode: eaMemory, addr: c.reg.A[reg]}, true

	case 5: // d16(An) - Address register indirect with displacement
		disp := int16(c.readImm16())
		return ea{mode: eaMemory, addr: uint32(int32(c.reg.A[reg]) + int32(disp))}, true

	case 6: // d8(An,Xn) or 020+ full extension word
		addr := c.resolveExtended(c.reg.A[reg])
		return ea{mode: eaMemory, addr: addr}, true

	case 7:
		switch reg {
		case 0: // abs.W - Absolute short (sign-extended to 32 bits)
			addr := int16(c.readImm16())
			return ea{mode: eaMemory, addr: uint32(int32(addr))}, true

		case 1: // abs.L - Absolute long
			return ea{mode: eaMemory, addr: c.readImm32()}, true

		case 2: // d16(PC) - PC relative with displacement
			pc := c.reg.PC // PC points to the extension word
			disp := int16(c.readImm16())
			return ea{mode: eaMemory, addr: uint32(int32(pc) + int32(disp))}, true

		case 3: // d8(PC,Xn) or 020+ full extension word, PC relative
			pc := c.reg.PC // PC points to the extension word
			addr := c.resolveExtended(pc)
			return ea{mode: eaMemory, addr: addr}, true

		case 4: // #imm - Immediate
			switch sz {
			case Byte:
				val := c.readImm16()
				return ea{mode: eaImmediate, imm: uint32(val & 0xFF)}, true
			case Word:
				val := c.readImm16()
				return ea{mode: eaImmediate, imm: uint32(val)}, true
			case Long:
				return ea{mode: eaImmediate, imm: c.readImm32()}, true
			}
		}
	}

	return ea{}, false
}

// resolveExtended fetches one extension word anchored at base (An or PC)
// and resolves it: the brief format (bit 8 clear, every pre-020 variant)
// mirrors the classic d8(An,Xn) form; the full format (bit 8 set, 020+
// only) adds base/index suppression, a 0/16/32-bit base displacement, a
// scale factor, and optional single/double memory indirection with a
// 0/16/32-bit outer displacement.
func (c *CPU) resolveExtended(base uint32) uint32 {
	ext := c.readImm16()

	xn := (ext >> 12) & 7
	var idx int32
	if ext&0x8000 != 0 {
		idx = int32(c.reg.A[xn])
	} else {
		idx = int32(c.reg.D[xn])
	}
	if ext&0x0800 == 0 {
		idx = int32(int16(idx)) // W/L bit clear: sign-extend word index
	}

	if ext&0x0100 == 0 || !c.cpuType.atLeast020() {
		// Brief extension word: base + 8-bit displacement + index.
		disp := int8(ext & 0xFF)
		return uint32(int32(base) + idx + int32(disp))
	}

	// Full extension word (020+).
	scale := uint(1) << ((ext >> 9) & 3)
	idx *= int32(scale)

	baseSuppress := ext&0x80 != 0
	indexSuppress := ext&0x40 != 0
	if indexSuppress {
		idx = 0
	}

	var baseAddr int32
	if !baseSuppress {
		baseAddr = int32(base)
	}

	bdSize := (ext >> 4) & 3
	var baseDisp int32
	switch bdSize {
	case 2:
		baseDisp = int32(int16(c.readImm16()))
	case 3:
		baseDisp = int32(c.readImm32())
	default:
		baseDisp = 0 // 0 = reserved, 1 = null displacement
	}

	iis := ext & 7
	if iis == 0 {
		// No memory indirection: base + index + base displacement.
		return uint32(baseAddr + idx + baseDisp)
	}

	// Memory indirect: pre-indexed (iis 1-3) adds the index before the
	// indirection, post-indexed (iis 5-7) adds it after.
	preIndexed := iis <= 3

	intermediate := baseAddr + baseDisp
	if preIndexed {
		intermediate += idx
	}

	indirect := c.readBus(Long, uint32(intermediate), false)

	if !preIndexed {
		indirect = uint32(int32(indirect) + idx)
	}

	odSize := iis & 3
	var outerDisp int32
	switch odSize {
	case 2:
		outerDisp = int32(int16(c.readImm16()))
	case 3:
		outerDisp = int32(c.readImm32())
	default:
		outerDisp = 0
	}

	return uint32(int32(indirect) + outerDisp)
}
