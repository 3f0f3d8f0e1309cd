package m68k

func init() {
	registerBcc()
	registerBRA()
	registerBSR()
	registerDBcc()
	registerJMP()
	registerJSR()
	registerRTS()
	registerRTE()
	registerRTR()
	registerScc()
}

// --- Bcc ---

func registerBcc() {
	// Encoding: 0110 CCCC DDDDDDDD
	// CC = condition (2-15; 0=BRA, 1=BSR handled separately)
	// DD = 8-bit displacement (0 = 16-bit extension, FF = 32-bit extension on 020+)
	for cc := uint16(2); cc < 16; cc++ {
		for disp := uint16(0); disp < 256; disp++ {
			opcode := 0x6000 | cc<<8 | disp
			opcodeTable[opcode] = opBcc
		}
	}
}

func opBcc(c *CPU) StepResult {
	cc := (c.ir >> 8) & 0xF
	disp8 := int8(c.ir & 0xFF)
	disp := int32(disp8)
	base := c.reg.PC // PC after opcode fetch = instruction address + 2

	if disp8 == 0 {
		disp = int32(int16(c.readImm16()))
	} else if disp8 == -1 && c.cpuType.atLeast020() {
		disp = int32(c.readImm32())
	}

	if c.testCondition(cc) {
		c.reg.PC = uint32(int32(base) + disp)
		c.changeOfFlow = true
		c.cycles += 10
	} else {
		c.cycles += 8
		if disp8 == 0 {
			c.cycles += 4
		}
	}
	return StepResult{Kind: StepOK}
}

// --- BRA ---

func registerBRA() {
	for disp := uint16(0); disp < 256; disp++ {
		opcode := 0x6000 | disp
		opcodeTable[opcode] = opBRA
	}
}

func opBRA(c *CPU) StepResult {
	disp8 := int8(c.ir & 0xFF)
	disp := int32(disp8)
	base := c.reg.PC

	if disp8 == 0 {
		disp = int32(int16(c.readImm16()))
	} else if disp8 == -1 && c.cpuType.atLeast020() {
		disp = int32(c.readImm32())
	}

	c.reg.PC = uint32(int32(base) + disp)
	c.changeOfFlow = true
	c.cycles += 10
	return StepResult{Kind: StepOK}
}

// --- BSR ---

func registerBSR() {
	for disp := uint16(0); disp < 256; disp++ {
		opcode := 0x6100 | disp
		opcodeTable[opcode] = opBSR
	}
}

func opBSR(c *CPU) StepResult {
	disp8 := int8(c.ir & 0xFF)
	disp := int32(disp8)
	base := c.reg.PC

	if disp8 == 0 {
		disp = int32(int16(c.readImm16()))
	} else if disp8 == -1 && c.cpuType.atLeast020() {
		disp = int32(c.readImm32())
	}

	c.pushLong(c.reg.PC)
	c.reg.PC = uint32(int32(base) + disp)
	c.cycles += 18
	return StepResult{Kind: StepOK}
}

// --- DBcc ---

func registerDBcc() {
	// Encoding: 0101 CCCC 1100 1DDD
	for cc := uint16(0); cc < 16; cc++ {
		for dn := uint16(0); dn < 8; dn++ {
			opcode := 0x50C8 | cc<<8 | dn
			opcodeTable[opcode] = opDBcc
		}
	}
}

func opDBcc(c *CPU) StepResult {
	cc := (c.ir >> 8) & 0xF
	dn := c.ir & 7

	disp := int16(c.readImm16())

	if c.testCondition(cc) {
		c.cycles += 12
		return StepResult{Kind: StepOK}
	}

	val := int16(c.reg.D[dn]&0xFFFF) - 1
	c.reg.D[dn] = (c.reg.D[dn] & 0xFFFF0000) | uint32(uint16(val))

	if val == -1 {
		c.cycles += 14
	} else {
		c.reg.PC = uint32(int32(c.reg.PC) - 2 + int32(disp))
		c.changeOfFlow = true
		c.cycles += 10
	}
	return StepResult{Kind: StepOK}
}

// --- JMP ---

func registerJMP() {
	// Encoding: 0100 1110 11ss ssss (control addressing modes)
	for mode := uint16(2); mode < 8; mode++ {
		if mode == 3 || mode == 4 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 3 {
				continue
			}
			opcode := 0x4EC0 | mode<<3 | reg
			opcodeTable[opcode] = opJMP
		}
	}
}

func opJMP(c *CPU) StepResult {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	c.reg.PC = dst.address()
	c.changeOfFlow = true

	c.cycles += 8
	return StepResult{Kind: StepOK}
}

// --- JSR ---

func registerJSR() {
	for mode := uint16(2); mode < 8; mode++ {
		if mode == 3 || mode == 4 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 3 {
				continue
			}
			opcode := 0x4E80 | mode<<3 | reg
			opcodeTable[opcode] = opJSR
		}
	}
}

func opJSR(c *CPU) StepResult {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	c.pushLong(c.reg.PC)
	c.reg.PC = dst.address()
	c.changeOfFlow = true

	c.cycles += 16
	return StepResult{Kind: StepOK}
}

// --- RTS ---

func registerRTS() {
	opcodeTable[0x4E75] = opRTS
}

func opRTS(c *CPU) StepResult {
	c.reg.PC = c.popLong()
	c.changeOfFlow = true
	c.cycles += 16
	return StepResult{Kind: StepOK}
}

// --- RTE ---

func registerRTE() {
	opcodeTable[0x4E73] = opRTEInstr
}

func opRTEInstr(c *CPU) StepResult {
	c.RTE()
	c.cycles += 20
	return StepResult{Kind: StepOK}
}

// --- RTR ---

func registerRTR() {
	opcodeTable[0x4E77] = opRTR
}

func opRTR(c *CPU) StepResult {
	ccr := c.popWord()
	c.setCCR(uint8(ccr))
	c.reg.PC = c.popLong()
	c.changeOfFlow = true

	c.cycles += 20
	return StepResult{Kind: StepOK}
}

// --- Scc ---

func registerScc() {
	// Encoding: 0101 CCCC 11ss ssss
	for cc := uint16(0); cc < 16; cc++ {
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 && reg > 1 {
					continue
				}
				opcode := 0x50C0 | cc<<8 | mode<<3 | reg
				opcodeTable[opcode] = opScc
			}
		}
	}
}

func opScc(c *CPU) StepResult {
	cc := (c.ir >> 8) & 0xF
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Byte)
	if !ok {
		return illegal(c)
	}

	if c.testCondition(cc) {
		dst.write(c, Byte, 0xFF)
		c.cycles += 6
	} else {
		dst.write(c, Byte, 0x00)
		c.cycles += 4
	}
	if mode >= 2 {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}
