package m68k

func init() {
	registerAND()
	registerANDI()
	registerOR()
	registerORI()
	registerEOR()
	registerEORI()
	registerNOT()
	registerTST()
	registerTAS()
	registerShifts()
}

// --- AND ---

func registerAND() {
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			for mode := uint16(0); mode < 8; mode++ {
				if mode == 1 {
					continue
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					opcode := 0xC000 | dn<<9 | szBits<<6 | mode<<3 | reg
					opcodeTable[opcode] = opANDtoReg
				}
			}
			for mode := uint16(2); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					opcode := 0xC000 | dn<<9 | (szBits+4)<<6 | mode<<3 | reg
					opcodeTable[opcode] = opANDtoEA
				}
			}
		}
	}
}

func opANDtoReg(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := src.read(c, sz) & (c.reg.D[dn] & sz.Mask())
	c.setFlagsLogical(result, sz)

	mask := sz.Mask()
	c.reg.D[dn] = (c.reg.D[dn] & ^mask) | (result & mask)

	c.cycles += 4
	if sz == Long {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}

func opANDtoEA(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding(((c.ir >> 6) & 7) - 4)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := dst.read(c, sz) & (c.reg.D[dn] & sz.Mask())
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 8
	if sz == Long {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}

// --- ANDI ---

func registerANDI() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x0200 | szBits<<6 | mode<<3 | reg
				opcodeTable[opcode] = opANDI
			}
		}
	}
}

func opANDI(c *CPU) StepResult {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	var imm uint32
	if sz == Long {
		imm = c.readImm32()
	} else {
		imm = c.readImm16Masked(sz)
	}

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := dst.read(c, sz) & imm
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 8
	if sz == Long {
		c.cycles += 8
	}
	return StepResult{Kind: StepOK}
}

// --- OR ---

func registerOR() {
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			for mode := uint16(0); mode < 8; mode++ {
				if mode == 1 {
					continue
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 4 {
						continue
					}
					opcode := 0x8000 | dn<<9 | szBits<<6 | mode<<3 | reg
					opcodeTable[opcode] = opORtoReg
				}
			}
			for mode := uint16(2); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					opcode := 0x8000 | dn<<9 | (szBits+4)<<6 | mode<<3 | reg
					opcodeTable[opcode] = opORtoEA
				}
			}
		}
	}
}

func opORtoReg(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := src.read(c, sz) | (c.reg.D[dn] & sz.Mask())
	c.setFlagsLogical(result, sz)

	mask := sz.Mask()
	c.reg.D[dn] = (c.reg.D[dn] & ^mask) | (result & mask)

	c.cycles += 4
	if sz == Long {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}

func opORtoEA(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding(((c.ir >> 6) & 7) - 4)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := dst.read(c, sz) | (c.reg.D[dn] & sz.Mask())
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 8
	if sz == Long {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}

// --- ORI ---

func registerORI() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x0000 | szBits<<6 | mode<<3 | reg
				opcodeTable[opcode] = opORI
			}
		}
	}
}

func opORI(c *CPU) StepResult {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	var imm uint32
	if sz == Long {
		imm = c.readImm32()
	} else {
		imm = c.readImm16Masked(sz)
	}

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := dst.read(c, sz) | imm
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 8
	if sz == Long {
		c.cycles += 8
	}
	return StepResult{Kind: StepOK}
}

// --- EOR ---

func registerEOR() {
	for dn := uint16(0); dn < 8; dn++ {
		for szBits := uint16(0); szBits < 3; szBits++ {
			for mode := uint16(0); mode < 8; mode++ {
				if mode == 1 {
					continue
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					opcode := 0xB000 | dn<<9 | (szBits+4)<<6 | mode<<3 | reg
					opcodeTable[opcode] = opEOR
				}
			}
		}
	}
}

func opEOR(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	sz := sizeEncoding(((c.ir >> 6) & 7) - 4)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := dst.read(c, sz) ^ (c.reg.D[dn] & sz.Mask())
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 4
	if mode >= 2 {
		c.cycles += 4
	}
	if sz == Long && mode == 0 {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}

// --- EORI ---

func registerEORI() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x0A00 | szBits<<6 | mode<<3 | reg
				opcodeTable[opcode] = opEORI
			}
		}
	}
}

func opEORI(c *CPU) StepResult {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	var imm uint32
	if sz == Long {
		imm = c.readImm32()
	} else {
		imm = c.readImm16Masked(sz)
	}

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := dst.read(c, sz) ^ imm
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 8
	if sz == Long {
		c.cycles += 8
	}
	return StepResult{Kind: StepOK}
}

// --- NOT ---

func registerNOT() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x4600 | szBits<<6 | mode<<3 | reg
				opcodeTable[opcode] = opNOT
			}
		}
	}
}

func opNOT(c *CPU) StepResult {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	result := ^dst.read(c, sz) & sz.Mask()
	c.setFlagsLogical(result, sz)
	dst.write(c, sz, result)

	c.cycles += 4
	if mode >= 2 {
		c.cycles += 4
	}
	if sz == Long && mode == 0 {
		c.cycles += 2
	}
	return StepResult{Kind: StepOK}
}

// --- TST ---

// registerTST registers TST <ea>. On 020+ TST also accepts An direct and
// the PC-relative modes (teacher's 68000-only table omitted mode 1 and
// mode 7/2-3); gated here by variant.
func registerTST() {
	for szBits := uint16(0); szBits < 3; szBits++ {
		for mode := uint16(0); mode < 8; mode++ {
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				if mode == 1 && szBits == 0 {
					continue
				}
				opcode := 0x4A00 | szBits<<6 | mode<<3 | reg
				opcodeTable[opcode] = opTST
			}
		}
	}
}

func opTST(c *CPU) StepResult {
	sz := sizeEncoding((c.ir >> 6) & 3)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	if mode == 1 && !c.cpuType.atLeast020() {
		return illegal(c)
	}
	if mode == 7 && reg >= 2 && !c.cpuType.atLeast020() {
		return illegal(c)
	}

	src, ok := c.resolveEA(mode, reg, sz)
	if !ok {
		return illegal(c)
	}
	val := src.read(c, sz)
	c.setFlagsLogical(val, sz)

	c.cycles += 4
	return StepResult{Kind: StepOK}
}

// --- TAS ---

func registerTAS() {
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcode := 0x4AC0 | mode<<3 | reg
			opcodeTable[opcode] = opTAS
		}
	}
}

func opTAS(c *CPU) StepResult {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Byte)
	if !ok {
		return illegal(c)
	}
	val := dst.read(c, Byte)
	c.setFlagsLogical(val, Byte)
	dst.write(c, Byte, val|0x80)

	c.cycles += 4
	if mode >= 2 {
		c.cycles += 10
	}
	return StepResult{Kind: StepOK}
}

// --- Shifts and Rotates ---
// ASL, ASR, LSL, LSR, ROL, ROR, ROXL, ROXR
// Register form: 1110 CCC D SS i TT RRR
//   CCC = count/register, D = direction (0=right, 1=left)
//   SS = size, i = 0:immediate count 1:register count
//   TT = type (00=AS, 01=LS, 10=ROX, 11=RO)
//   RRR = data register
// Memory form: 1110 0TT D 11 eee eee (always word, count=1)

func registerShifts() {
	for cnt := uint16(0); cnt < 8; cnt++ {
		for dir := uint16(0); dir < 2; dir++ {
			for szBits := uint16(0); szBits < 3; szBits++ {
				for irBit := uint16(0); irBit < 2; irBit++ {
					for typ := uint16(0); typ < 4; typ++ {
						for dreg := uint16(0); dreg < 8; dreg++ {
							opcode := 0xE000 | cnt<<9 | dir<<8 | szBits<<6 | irBit<<5 | typ<<3 | dreg
							opcodeTable[opcode] = opShiftReg
						}
					}
				}
			}
		}
	}

	for dir := uint16(0); dir < 2; dir++ {
		for typ := uint16(0); typ < 4; typ++ {
			for mode := uint16(2); mode < 8; mode++ {
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 && reg > 1 {
						continue
					}
					opcode := 0xE0C0 | typ<<9 | dir<<8 | mode<<3 | reg
					opcodeTable[opcode] = opShiftMem
				}
			}
		}
	}
}

func opShiftReg(c *CPU) StepResult {
	cnt := (c.ir >> 9) & 7
	dir := (c.ir >> 8) & 1
	sz := sizeEncoding((c.ir >> 6) & 3)
	irBit := (c.ir >> 5) & 1
	typ := (c.ir >> 3) & 3
	dreg := c.ir & 7

	var count uint32
	if irBit != 0 {
		count = c.reg.D[cnt] & 63
	} else {
		count = uint32(cnt)
		if count == 0 {
			count = 8
		}
	}

	val := c.reg.D[dreg] & sz.Mask()
	result := c.doShift(val, count, dir, typ, sz)

	mask := sz.Mask()
	c.reg.D[dreg] = (c.reg.D[dreg] & ^mask) | (result & mask)

	c.cycles += uint64(6 + 2*count)
	if sz == Long {
		c.cycles += 2
	}
	return StepResult{Kind: StepOK}
}

func opShiftMem(c *CPU) StepResult {
	dir := (c.ir >> 8) & 1
	typ := (c.ir >> 9) & 3
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	val := dst.read(c, Word)
	result := c.doShift(val, 1, dir, typ, Word)
	dst.write(c, Word, result)

	c.cycles += 8
	return StepResult{Kind: StepOK}
}

// doShift performs the actual shift/rotate operation and sets flags.
func (c *CPU) doShift(val, count uint32, dir, typ uint16, sz Size) uint32 {
	msb := sz.MSB()
	mask := sz.Mask()

	if count == 0 {
		c.setFlagsLogical(val, sz)
		if typ == 2 {
			c.flags.C = c.flags.X
		}
		return val
	}

	var result uint32

	switch typ {
	case 0: // Arithmetic shift
		if dir == 1 { // ASL
			result = val
			c.flags.V = 0
			for i := uint32(0); i < count; i++ {
				msbit := result & msb
				result = (result << 1) & mask
				if result&msb != msbit {
					c.flags.V = 1
				}
			}
			lastOut := (val >> (sz.Bits() - count)) & 1
			c.flags.C = lastOut
			c.flags.X = lastOut
		} else { // ASR
			sign := val & msb
			result = val
			for i := uint32(0); i < count; i++ {
				result = (result >> 1) | sign
			}
			result &= mask
			var lastOut uint32
			if count >= sz.Bits() {
				lastOut = (val >> (sz.Bits() - 1)) & 1
			} else {
				lastOut = (val >> (count - 1)) & 1
			}
			c.flags.C = lastOut
			c.flags.X = lastOut
			c.flags.V = 0
		}

	case 1: // Logical shift
		if dir == 1 { // LSL
			result = (val << count) & mask
			lastOut := (val >> (sz.Bits() - count)) & 1
			c.flags.C = lastOut
			c.flags.X = lastOut
		} else { // LSR
			result = (val & mask) >> count
			lastOut := (val >> (count - 1)) & 1
			c.flags.C = lastOut
			c.flags.X = lastOut
		}
		c.flags.V = 0

	case 2: // Rotate through extend
		bits := sz.Bits()
		if dir == 1 { // ROXL
			result = val
			for i := uint32(0); i < count; i++ {
				x := c.flags.X
				if result&msb != 0 {
					c.flags.X, c.flags.C = 1, 1
				} else {
					c.flags.X, c.flags.C = 0, 0
				}
				result = ((result << 1) | x) & mask
			}
		} else { // ROXR
			result = val
			for i := uint32(0); i < count; i++ {
				x := c.flags.X
				if result&1 != 0 {
					c.flags.X, c.flags.C = 1, 1
				} else {
					c.flags.X, c.flags.C = 0, 0
				}
				result = (result >> 1) | (x << (bits - 1))
			}
			result &= mask
		}
		c.flags.V = 0

	case 3: // Rotate
		bits := sz.Bits()
		if dir == 1 { // ROL
			shift := count % bits
			result = ((val << shift) | (val >> (bits - shift))) & mask
			c.flags.C = result & 1
		} else { // ROR
			shift := count % bits
			result = ((val >> shift) | (val << (bits - shift))) & mask
			c.flags.C = boolU32(result&msb != 0)
		}
		c.flags.V = 0
	}

	c.flags.N = boolU32(result&msb != 0)
	c.flags.NotZ = boolU32(result&mask != 0)

	return result
}
