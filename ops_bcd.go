package m68k

func init() {
	registerABCD()
	registerSBCD()
	registerNBCD()
}

// --- ABCD ---

func registerABCD() {
	// Encoding: 1100 XXX1 0000 RYYY  R=0: Dy,Dx  R=1: -(Ay),-(Ax)
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			opcodeTable[0xC100|rx<<9|ry] = opABCDreg
			opcodeTable[0xC108|rx<<9|ry] = opABCDmem
		}
	}
}

func opABCDreg(c *CPU) StepResult {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	s := c.reg.D[ry] & 0xFF
	d := c.reg.D[rx] & 0xFF
	result := c.bcdAdd(s, d)
	c.reg.D[rx] = (c.reg.D[rx] & 0xFFFFFF00) | (result & 0xFF)

	c.cycles += 6
	return StepResult{Kind: StepOK}
}

func opABCDmem(c *CPU) StepResult {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	src, ok := c.resolveEA(4, uint8(ry), Byte) // -(Ay)
	if !ok {
		return illegal(c)
	}
	s := src.read(c, Byte)
	dst, ok := c.resolveEA(4, uint8(rx), Byte) // -(Ax)
	if !ok {
		return illegal(c)
	}
	d := dst.read(c, Byte)
	result := c.bcdAdd(s, d)
	dst.write(c, Byte, result)

	c.cycles += 18
	return StepResult{Kind: StepOK}
}

// bcdAdd performs a single packed-BCD digit-pair addition, with carry
// detection threshold chosen by the active BCDCompat mode (the high-nibble
// overflow point is architecturally undefined and references disagree).
func (c *CPU) bcdAdd(s, d uint32) uint32 {
	x := c.flags.X

	binary := s + d + x

	lo := (s & 0x0F) + (d & 0x0F) + x
	hi := (s & 0xF0) + (d & 0xF0)

	if lo > 9 {
		lo += 6
	}
	result := hi + lo

	threshold := uint32(0x99)
	if c.bcdMode == BCDMame {
		threshold = 0x9F
	}
	carry := false
	if result > threshold {
		result += 0x60
		carry = true
	}

	r8 := result & 0xFF
	c.flags.C, c.flags.X, c.flags.N, c.flags.V = 0, 0, 0, 0
	if carry {
		c.flags.C, c.flags.X = 1, 1
	}
	if r8&0x80 != 0 {
		c.flags.N = 1
	}
	// V: bit 7 went from 0 to 1 during BCD correction.
	if binary&0x80 == 0 && r8&0x80 != 0 {
		c.flags.V = 1
	}
	if r8 != 0 {
		c.flags.NotZ = 1
	}

	return r8
}

// --- SBCD ---

func registerSBCD() {
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			opcodeTable[0x8100|rx<<9|ry] = opSBCDreg
			opcodeTable[0x8108|rx<<9|ry] = opSBCDmem
		}
	}
}

func opSBCDreg(c *CPU) StepResult {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	s := c.reg.D[ry] & 0xFF
	d := c.reg.D[rx] & 0xFF
	result := c.bcdSub(s, d)
	c.reg.D[rx] = (c.reg.D[rx] & 0xFFFFFF00) | (result & 0xFF)

	c.cycles += 6
	return StepResult{Kind: StepOK}
}

func opSBCDmem(c *CPU) StepResult {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7

	src, ok := c.resolveEA(4, uint8(ry), Byte)
	if !ok {
		return illegal(c)
	}
	s := src.read(c, Byte)
	dst, ok := c.resolveEA(4, uint8(rx), Byte)
	if !ok {
		return illegal(c)
	}
	d := dst.read(c, Byte)
	result := c.bcdSub(s, d)
	dst.write(c, Byte, result)

	c.cycles += 18
	return StepResult{Kind: StepOK}
}

func (c *CPU) bcdSub(s, d uint32) uint32 {
	x := c.flags.X

	binary := d - s - x

	lo := (d & 0x0F) - (s & 0x0F) - x
	result := binary
	if lo&0x10 != 0 {
		result -= 6
	}

	borrow := d < s+x
	if borrow {
		result -= 0x60
	}

	r8 := result & 0xFF

	c.flags.C, c.flags.X, c.flags.N, c.flags.V = 0, 0, 0, 0
	if borrow {
		c.flags.C, c.flags.X = 1, 1
	}
	if r8&0x80 != 0 {
		c.flags.N = 1
	}
	// V: bit 7 went from 1 to 0 during BCD correction (sign change).
	if binary&0x80 != 0 && r8&0x80 == 0 {
		c.flags.V = 1
	}
	if r8 != 0 {
		c.flags.NotZ = 1
	}

	return r8
}

// --- NBCD ---

func registerNBCD() {
	// Encoding: 0100 1000 00ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0x4800|mode<<3|reg] = opNBCD
		}
	}
}

func opNBCD(c *CPU) StepResult {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Byte)
	if !ok {
		return illegal(c)
	}
	d := dst.read(c, Byte)
	result := c.bcdSub(d, 0)
	dst.write(c, Byte, result)

	if mode == 0 {
		c.cycles += 6
	} else {
		c.cycles += 8 + uint64(eaFetchCycles(mode, reg, Byte))
	}
	return StepResult{Kind: StepOK}
}
