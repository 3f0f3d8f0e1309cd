package m68k

func init() {
	registerNOP()
	registerSTOP()
	registerRTD()
	registerRESET()
	registerTRAP()
	registerTRAPV()
	registerLINK()
	registerUNLK()
	registerMoveToFromSR()
	registerAndiOriEoriSRCCR()
	registerBKPT()
}

// --- NOP ---

func registerNOP() {
	opcodeTable[0x4E71] = opNOP
}

func opNOP(c *CPU) StepResult {
	c.cycles += 4
	return StepResult{Kind: StepOK}
}

// --- STOP ---

func registerSTOP() {
	opcodeTable[0x4E72] = opSTOP
}

func opSTOP(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}

	imm := c.readImm16()
	c.decomposeSR(imm)
	// PC stays past the immediate word, so the eventual interrupt frame
	// stacks the instruction after STOP.
	c.stopped = true
	c.cycles += 4
	return StepResult{Kind: StepOK}
}

// --- RTD (68010+) ---

func registerRTD() {
	opcodeTable[0x4E74] = opRTD
}

// opRTD pops the return PC, then releases the caller's parameter block
// by adding the signed displacement to SP.
func opRTD(c *CPU) StepResult {
	if !c.cpuType.atLeast010() {
		return illegal(c)
	}
	disp := int16(c.readImm16())
	c.reg.PC = c.popLong()
	c.reg.A[7] = uint32(int32(c.reg.A[7]) + int32(disp))
	c.changeOfFlow = true
	c.cycles += 16
	return StepResult{Kind: StepOK}
}

// --- RESET ---

func registerRESET() {
	opcodeTable[0x4E70] = opRESET
}

func opRESET(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}

	c.bus.ResetDevices()
	c.cycles += 132
	return StepResult{Kind: StepOK}
}

// --- TRAP ---

func registerTRAP() {
	// Encoding: 0100 1110 0100 VVVV (vector 0-15 -> exception vectors 32-47)
	for v := uint16(0); v < 16; v++ {
		opcode := 0x4E40 | v
		opcodeTable[opcode] = opTRAP
	}
}

func opTRAP(c *CPU) StepResult {
	return StepResult{Kind: StepTrapInstruction, Num: uint8(c.ir & 0xF), Opcode: c.ir}
}

// --- TRAPV ---

func registerTRAPV() {
	opcodeTable[0x4E76] = opTRAPV
}

func opTRAPV(c *CPU) StepResult {
	if c.flags.V != 0 {
		c.exceptionCHK(vecTRAPV)
	} else {
		c.cycles += 4
	}
	return StepResult{Kind: StepOK}
}

// --- BKPT (68010+) ---

func registerBKPT() {
	// Encoding: 0100 1000 0100 1VVV
	for v := uint16(0); v < 8; v++ {
		opcodeTable[0x4848|v] = opBKPT
	}
}

func opBKPT(c *CPU) StepResult {
	return StepResult{Kind: StepBreakpoint, Num: uint8(c.ir & 7), Opcode: c.ir}
}

// --- LINK ---

func registerLINK() {
	// Encoding: 0100 1110 0101 0AAA (word displacement)
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4E50|an] = opLINK
	}
	// LINK.L (68020+): 0100 1000 0000 1AAA + 32-bit displacement
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4808|an] = opLINKL
	}
}

func opLINK(c *CPU) StepResult {
	an := c.ir & 7
	disp := int16(c.readImm16())

	c.pushLong(c.reg.A[an])
	c.reg.A[an] = c.reg.A[7]
	c.reg.A[7] = uint32(int32(c.reg.A[7]) + int32(disp))

	c.cycles += 16
	return StepResult{Kind: StepOK}
}

func opLINKL(c *CPU) StepResult {
	if !c.cpuType.atLeast020() {
		return illegal(c)
	}
	an := c.ir & 7
	disp := int32(c.readImm32())

	c.pushLong(c.reg.A[an])
	c.reg.A[an] = c.reg.A[7]
	c.reg.A[7] = uint32(int32(c.reg.A[7]) + disp)

	c.cycles += 16
	return StepResult{Kind: StepOK}
}

// --- UNLK ---

func registerUNLK() {
	// Encoding: 0100 1110 0101 1AAA
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4E58|an] = opUNLK
	}
}

func opUNLK(c *CPU) StepResult {
	an := c.ir & 7
	c.reg.A[7] = c.reg.A[an]
	c.reg.A[an] = c.popLong()

	c.cycles += 12
	return StepResult{Kind: StepOK}
}

// --- MOVE to/from SR, MOVE to/from CCR ---

func registerMoveToFromSR() {
	// MOVE SR,<ea> (read SR - privileged on 010+, unprivileged on 000)
	// Encoding: 0100 0000 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0x40C0|mode<<3|reg] = opMOVEfromSR
		}
	}

	// MOVE CCR,<ea> (68010+; the encoding is unassigned on the 68000)
	// Encoding: 0100 0010 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0x42C0|mode<<3|reg] = opMOVEfromCCR
		}
	}

	// MOVE <ea>,CCR
	// Encoding: 0100 0100 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0x44C0|mode<<3|reg] = opMOVEtoCCR
		}
	}

	// MOVE <ea>,SR (privileged)
	// Encoding: 0100 0110 11ss ssss
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0x46C0|mode<<3|reg] = opMOVEtoSR
		}
	}

	// MOVE USP,An and MOVE An,USP (privileged)
	// Encoding: 0100 1110 0110 DAAA (D=0: An->USP, D=1: USP->An)
	for an := uint16(0); an < 8; an++ {
		opcodeTable[0x4E60|an] = opMOVEtoUSP
		opcodeTable[0x4E68|an] = opMOVEfromUSP
	}
}

func opMOVEfromSR(c *CPU) StepResult {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	if c.cpuType.atLeast010() && !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}

	dst, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	dst.write(c, Word, uint32(c.assembleSR()))

	if mode == 0 {
		c.cycles += 6
	} else {
		c.cycles += 8 + uint64(eaFetchCycles(mode, reg, Word))
	}
	return StepResult{Kind: StepOK}
}

func opMOVEfromCCR(c *CPU) StepResult {
	if !c.cpuType.atLeast010() {
		return illegal(c)
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	dst, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	dst.write(c, Word, uint32(c.ccr()))

	if mode == 0 {
		c.cycles += 6
	} else {
		c.cycles += 8 + uint64(eaFetchCycles(mode, reg, Word))
	}
	return StepResult{Kind: StepOK}
}

func opMOVEtoCCR(c *CPU) StepResult {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	val := src.read(c, Word)
	c.setCCR(uint8(val))

	c.cycles += 12 + uint64(eaFetchCycles(mode, reg, Word))
	return StepResult{Kind: StepOK}
}

func opMOVEtoSR(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}

	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	src, ok := c.resolveEA(mode, reg, Word)
	if !ok {
		return illegal(c)
	}
	val := src.read(c, Word)
	c.decomposeSR(uint16(val))

	c.cycles += 12 + uint64(eaFetchCycles(mode, reg, Word))
	return StepResult{Kind: StepOK}
}

func opMOVEtoUSP(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	an := c.ir & 7
	c.sp[stackBankIndex(0, 0)] = c.reg.A[an]
	c.cycles += 4
	return StepResult{Kind: StepOK}
}

func opMOVEfromUSP(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	an := c.ir & 7
	c.reg.A[an] = c.sp[stackBankIndex(0, 0)]
	c.cycles += 4
	return StepResult{Kind: StepOK}
}

// --- ANDI/ORI/EORI to CCR and SR ---

func registerAndiOriEoriSRCCR() {
	opcodeTable[0x023C] = opANDItoCCR
	opcodeTable[0x027C] = opANDItoSR
	opcodeTable[0x003C] = opORItoCCR
	opcodeTable[0x007C] = opORItoSR
	opcodeTable[0x0A3C] = opEORItoCCR
	opcodeTable[0x0A7C] = opEORItoSR
}

func opANDItoCCR(c *CPU) StepResult {
	imm := c.readImm16()
	c.setCCR(c.ccr() & uint8(imm))
	c.cycles += 20
	return StepResult{Kind: StepOK}
}

func opANDItoSR(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	imm := c.readImm16()
	c.decomposeSR(c.assembleSR() & imm)
	c.cycles += 20
	return StepResult{Kind: StepOK}
}

func opORItoCCR(c *CPU) StepResult {
	imm := c.readImm16()
	c.setCCR(c.ccr() | uint8(imm))
	c.cycles += 20
	return StepResult{Kind: StepOK}
}

func opORItoSR(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	imm := c.readImm16()
	c.decomposeSR(c.assembleSR() | imm)
	c.cycles += 20
	return StepResult{Kind: StepOK}
}

func opEORItoCCR(c *CPU) StepResult {
	imm := c.readImm16()
	c.setCCR(c.ccr() ^ uint8(imm))
	c.cycles += 20
	return StepResult{Kind: StepOK}
}

func opEORItoSR(c *CPU) StepResult {
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	imm := c.readImm16()
	c.decomposeSR(c.assembleSR() ^ imm)
	c.cycles += 20
	return StepResult{Kind: StepOK}
}
