package m68k

func init() {
	registerBTST()
	registerBCHG()
	registerBCLR()
	registerBSET()
}

// Bit operations have two forms:
// Dynamic: 0000 DDD1 ttmm mrrr (Dn specifies bit number)
// Static:  0000 1000 ttmm mrrr + immediate word (bit number in extension)
// tt = 00:BTST, 01:BCHG, 10:BCLR, 11:BSET
// For Dn destination: operates on long (bit mod 32)
// For memory: operates on byte (bit mod 8)

// bitOp is shared by all four bit instructions: it resolves the operand
// (Dn long or memory byte), sets Z from the tested bit, and lets modify
// compute the new value (nil modify = BTST, which leaves the operand
// untouched).
func (c *CPU) bitOp(mode, reg uint8, bitNum uint32, modify func(val, mask uint32) uint32) (bool, StepResult) {
	if mode == 0 {
		bitNum &= 31
		mask := uint32(1) << bitNum
		val := c.reg.D[reg]
		c.flags.NotZ = boolU32(val&mask != 0)
		if modify != nil {
			c.reg.D[reg] = modify(val, mask)
		}
		return true, StepResult{Kind: StepOK}
	}
	bitNum &= 7
	dst, ok := c.resolveEA(mode, reg, Byte)
	if !ok {
		return false, illegal(c)
	}
	mask := uint32(1) << bitNum
	val := dst.read(c, Byte)
	c.flags.NotZ = boolU32(val&mask != 0)
	if modify != nil {
		dst.write(c, Byte, modify(val, mask))
	}
	return true, StepResult{Kind: StepOK}
}

// --- BTST ---

func registerBTST() {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 4 {
					continue
				}
				opcode := 0x0100 | dn<<9 | mode<<3 | reg
				opcodeTable[opcode] = opBTSTdyn
			}
		}
	}
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 3 {
				continue
			}
			opcode := 0x0800 | mode<<3 | reg
			opcodeTable[opcode] = opBTSTstatic
		}
	}
}

func opBTSTdyn(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, c.reg.D[dn], nil)
	if mode == 0 {
		c.cycles += 6
	} else {
		c.cycles += 4
	}
	return res
}

func opBTSTstatic(c *CPU) StepResult {
	bitNum := uint32(c.readImm16() & 0xFF)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, bitNum, nil)
	if mode == 0 {
		c.cycles += 10
	} else {
		c.cycles += 8
	}
	return res
}

// --- BCHG ---

func registerBCHG() {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x0140 | dn<<9 | mode<<3 | reg
				opcodeTable[opcode] = opBCHGdyn
			}
		}
	}
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcode := 0x0840 | mode<<3 | reg
			opcodeTable[opcode] = opBCHGstatic
		}
	}
}

func bchgModify(val, mask uint32) uint32 { return val ^ mask }

func opBCHGdyn(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, c.reg.D[dn], bchgModify)
	c.cycles += 8
	return res
}

func opBCHGstatic(c *CPU) StepResult {
	bitNum := uint32(c.readImm16() & 0xFF)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, bitNum, bchgModify)
	if mode == 0 {
		c.cycles += 12
	} else {
		c.cycles += 12
	}
	return res
}

// --- BCLR ---

func registerBCLR() {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x0180 | dn<<9 | mode<<3 | reg
				opcodeTable[opcode] = opBCLRdyn
			}
		}
	}
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcode := 0x0880 | mode<<3 | reg
			opcodeTable[opcode] = opBCLRstatic
		}
	}
}

func bclrModify(val, mask uint32) uint32 { return val &^ mask }

func opBCLRdyn(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, c.reg.D[dn], bclrModify)
	if mode == 0 {
		c.cycles += 10
	} else {
		c.cycles += 8
	}
	return res
}

func opBCLRstatic(c *CPU) StepResult {
	bitNum := uint32(c.readImm16() & 0xFF)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, bitNum, bclrModify)
	if mode == 0 {
		c.cycles += 14
	} else {
		c.cycles += 12
	}
	return res
}

// --- BSET ---

func registerBSET() {
	for dn := uint16(0); dn < 8; dn++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x01C0 | dn<<9 | mode<<3 | reg
				opcodeTable[opcode] = opBSETdyn
			}
		}
	}
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcode := 0x08C0 | mode<<3 | reg
			opcodeTable[opcode] = opBSETstatic
		}
	}
}

func bsetModify(val, mask uint32) uint32 { return val | mask }

func opBSETdyn(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, c.reg.D[dn], bsetModify)
	c.cycles += 8
	return res
}

func opBSETstatic(c *CPU) StepResult {
	bitNum := uint32(c.readImm16() & 0xFF)
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	_, res := c.bitOp(mode, reg, bitNum, bsetModify)
	c.cycles += 12
	return res
}
