package m68k

import "math/bits"

func init() {
	registerMOVE()
	registerMOVEA()
	registerMOVEQ()
	registerMOVEP()
	registerLEA()
	registerPEA()
	registerMOVEM()
	registerEXG()
	registerSWAP()
}

// moveSizeMap maps the MOVE size encoding to Size.
// MOVE uses non-standard encoding: 01=Byte, 11=Word, 10=Long.
var moveSizeMap = [4]Size{0, Byte, Long, Word}

// registerMOVE registers all MOVE.B/W/L opcodes.
// Encoding: 00SS DDDd ddss ssss
//
//	SS = size (01=B, 11=W, 10=L)
//	DDD/ddd = destination reg/mode (note: reversed from source)
//	sss/ssssss = source mode/reg
func registerMOVE() {
	for _, szBits := range []uint16{0x1000, 0x2000, 0x3000} {
		for dstMode := uint16(0); dstMode < 8; dstMode++ {
			if dstMode == 1 {
				continue
			}
			for dstReg := uint16(0); dstReg < 8; dstReg++ {
				if dstMode == 7 && dstReg > 1 {
					continue
				}
				for srcMode := uint16(0); srcMode < 8; srcMode++ {
					if srcMode == 1 && szBits == 0x1000 {
						continue // no byte reads of address registers
					}
					for srcReg := uint16(0); srcReg < 8; srcReg++ {
						if srcMode == 7 && srcReg > 4 {
							continue
						}
						opcode := szBits | dstReg<<9 | dstMode<<6 | srcMode<<3 | srcReg
						opcodeTable[opcode] = opMOVE
					}
				}
			}
		}
	}
}

func opMOVE(c *CPU) StepResult {
	sz := moveSizeMap[(c.ir>>12)&3]
	srcMode := uint8((c.ir >> 3) & 7)
	srcReg := uint8(c.ir & 7)
	dstMode := uint8((c.ir >> 6) & 7)
	dstReg := uint8((c.ir >> 9) & 7)

	src, ok := c.resolveEA(srcMode, srcReg, sz)
	if !ok {
		return illegal(c)
	}
	val := src.read(c, sz)

	dst, ok := c.resolveEA(dstMode, dstReg, sz)
	if !ok {
		return illegal(c)
	}
	dst.write(c, sz, val)

	c.setFlagsLogical(val, sz)
	c.cycles += 4 + uint64(eaFetchCycles(srcMode, srcReg, sz)) + uint64(eaWriteCycles(dstMode, dstReg, sz))
	return StepResult{Kind: StepOK}
}

// registerMOVEA registers MOVEA.W and MOVEA.L opcodes.
// Encoding: 00SS DDD0 01ss ssss (destination mode = 001 = An)
func registerMOVEA() {
	for _, szBits := range []uint16{0x2000, 0x3000} {
		for dstReg := uint16(0); dstReg < 8; dstReg++ {
			for srcMode := uint16(0); srcMode < 8; srcMode++ {
				for srcReg := uint16(0); srcReg < 8; srcReg++ {
					if srcMode == 7 && srcReg > 4 {
						continue
					}
					opcode := szBits | dstReg<<9 | 1<<6 | srcMode<<3 | srcReg
					opcodeTable[opcode] = opMOVEA
				}
			}
		}
	}
}

func opMOVEA(c *CPU) StepResult {
	sz := moveSizeMap[(c.ir>>12)&3]
	srcMode := uint8((c.ir >> 3) & 7)
	srcReg := uint8(c.ir & 7)
	an := (c.ir >> 9) & 7

	src, ok := c.resolveEA(srcMode, srcReg, sz)
	if !ok {
		return illegal(c)
	}
	val := src.read(c, sz)

	// ea.write already sign-extends byte/word into An, but MOVEA has no
	// memory destination to route through write(); do it here directly.
	if sz == Word {
		val = uint32(int32(int16(val)))
	}
	c.reg.A[an] = val

	// MOVEA does not affect condition codes.
	c.cycles += 4 + uint64(eaFetchCycles(srcMode, srcReg, sz))
	return StepResult{Kind: StepOK}
}

// registerMOVEQ registers MOVEQ #imm8,Dn.
// Encoding: 0111 DDD0 dddddddd
func registerMOVEQ() {
	for dn := uint16(0); dn < 8; dn++ {
		for data := uint16(0); data < 256; data++ {
			opcode := 0x7000 | dn<<9 | data
			opcodeTable[opcode] = opMOVEQ
		}
	}
}

func opMOVEQ(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	data := int8(c.ir & 0xFF)
	c.reg.D[dn] = uint32(int32(data))
	c.setFlagsLogical(c.reg.D[dn], Long)
	c.cycles += 4
	return StepResult{Kind: StepOK}
}

// registerLEA registers LEA <ea>,An.
// Encoding: 0100 AAA1 11ss ssss (only control addressing modes)
func registerLEA() {
	for an := uint16(0); an < 8; an++ {
		for srcMode := uint16(2); srcMode < 8; srcMode++ {
			if srcMode == 3 || srcMode == 4 {
				continue
			}
			for srcReg := uint16(0); srcReg < 8; srcReg++ {
				if srcMode == 7 && srcReg > 3 {
					continue
				}
				opcode := 0x41C0 | an<<9 | srcMode<<3 | srcReg
				opcodeTable[opcode] = opLEA
			}
		}
	}
}

func opLEA(c *CPU) StepResult {
	an := (c.ir >> 9) & 7
	srcMode := uint8((c.ir >> 3) & 7)
	srcReg := uint8(c.ir & 7)

	src, ok := c.resolveEA(srcMode, srcReg, Long)
	if !ok {
		return illegal(c)
	}
	c.reg.A[an] = src.address()

	switch srcMode {
	case 2:
		c.cycles += 4
	case 5:
		c.cycles += 8
	case 6:
		c.cycles += 12
	case 7:
		switch srcReg {
		case 0, 2:
			c.cycles += 8
		case 1, 3:
			c.cycles += 12
		}
	}
	return StepResult{Kind: StepOK}
}

// registerPEA registers PEA <ea>.
// Encoding: 0100 1000 01ss ssss (only control addressing modes)
func registerPEA() {
	for srcMode := uint16(2); srcMode < 8; srcMode++ {
		if srcMode == 3 || srcMode == 4 {
			continue
		}
		for srcReg := uint16(0); srcReg < 8; srcReg++ {
			if srcMode == 7 && srcReg > 3 {
				continue
			}
			opcode := 0x4840 | srcMode<<3 | srcReg
			opcodeTable[opcode] = opPEA
		}
	}
}

func opPEA(c *CPU) StepResult {
	srcMode := uint8((c.ir >> 3) & 7)
	srcReg := uint8(c.ir & 7)

	src, ok := c.resolveEA(srcMode, srcReg, Long)
	if !ok {
		return illegal(c)
	}
	c.pushLong(src.address())

	switch srcMode {
	case 2:
		c.cycles += 12
	case 5:
		c.cycles += 16
	case 6:
		c.cycles += 20
	case 7:
		switch srcReg {
		case 0, 2:
			c.cycles += 16
		case 1, 3:
			c.cycles += 20
		}
	}
	return StepResult{Kind: StepOK}
}

// registerMOVEM registers MOVEM.W and MOVEM.L (register to memory and memory to register).
// Encoding: 0100 1D00 1Sss ssss  D=direction(0=reg-to-mem,1=mem-to-reg), S=size(0=W,1=L)
func registerMOVEM() {
	for dir := uint16(0); dir < 2; dir++ {
		for szBit := uint16(0); szBit < 2; szBit++ {
			for mode := uint16(2); mode < 8; mode++ {
				if dir == 0 && mode == 3 {
					continue
				}
				if dir == 1 && mode == 4 {
					continue
				}
				if mode == 1 {
					continue
				}
				for reg := uint16(0); reg < 8; reg++ {
					if mode == 7 {
						if dir == 0 && reg > 1 {
							continue
						}
						if dir == 1 && reg > 3 {
							continue
						}
					}
					opcode := 0x4880 | dir<<10 | szBit<<6 | mode<<3 | reg
					opcodeTable[opcode] = opMOVEM
				}
			}
		}
	}
}

func opMOVEM(c *CPU) StepResult {
	dir := (c.ir >> 10) & 1
	szBit := (c.ir >> 6) & 1
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	sz := Word
	if szBit != 0 {
		sz = Long
	}

	mask := c.readImm16()

	if dir == 0 {
		if mode == 4 {
			addr := c.reg.A[reg]
			for i := 0; i < 16; i++ {
				if mask&(1<<uint(i)) != 0 {
					addr -= uint32(sz)
					ri := 15 - i
					if ri < 8 {
						c.writeBus(sz, addr, c.reg.D[ri], false)
					} else {
						c.writeBus(sz, addr, c.reg.A[ri-8], false)
					}
				}
			}
			c.reg.A[reg] = addr
		} else {
			src, ok := c.resolveEA(mode, reg, sz)
			if !ok {
				return illegal(c)
			}
			addr := src.address()
			for i := 0; i < 16; i++ {
				if mask&(1<<uint(i)) != 0 {
					if i < 8 {
						c.writeBus(sz, addr, c.reg.D[i], false)
					} else {
						c.writeBus(sz, addr, c.reg.A[i-8], false)
					}
					addr += uint32(sz)
				}
			}
		}
	} else {
		if mode == 3 {
			addr := c.reg.A[reg]
			for i := 0; i < 16; i++ {
				if mask&(1<<uint(i)) != 0 {
					val := c.readBus(sz, addr, false)
					if sz == Word {
						val = uint32(int32(int16(val)))
					}
					if i < 8 {
						c.reg.D[i] = val
					} else {
						c.reg.A[i-8] = val
					}
					addr += uint32(sz)
				}
			}
			c.reg.A[reg] = addr
		} else {
			src, ok := c.resolveEA(mode, reg, sz)
			if !ok {
				return illegal(c)
			}
			addr := src.address()
			for i := 0; i < 16; i++ {
				if mask&(1<<uint(i)) != 0 {
					val := c.readBus(sz, addr, false)
					if sz == Word {
						val = uint32(int32(int16(val)))
					}
					if i < 8 {
						c.reg.D[i] = val
					} else {
						c.reg.A[i-8] = val
					}
					addr += uint32(sz)
				}
			}
		}
	}

	n := uint64(bits.OnesCount16(mask))

	perReg := uint64(4)
	if sz == Long {
		perReg = 8
	}

	var base uint64
	if dir == 0 {
		switch mode {
		case 2, 4:
			base = 8
		case 5:
			base = 12
		case 6:
			base = 14
		case 7:
			switch reg {
			case 0:
				base = 12
			case 1:
				base = 16
			}
		}
	} else {
		switch mode {
		case 2, 3:
			base = 12
		case 5:
			base = 16
		case 6:
			base = 18
		case 7:
			switch reg {
			case 0:
				base = 16
			case 1:
				base = 20
			case 2:
				base = 16
			case 3:
				base = 18
			}
		}
	}

	c.cycles += base + n*perReg
	return StepResult{Kind: StepOK}
}

// registerEXG registers EXG Dx,Dy / EXG Ax,Ay / EXG Dx,Ay.
// Encoding: 1100 XXX1 MMMM MYYY
func registerEXG() {
	for rx := uint16(0); rx < 8; rx++ {
		for ry := uint16(0); ry < 8; ry++ {
			opcodeTable[0xC100|rx<<9|0x40|ry] = opEXG
			opcodeTable[0xC100|rx<<9|0x48|ry] = opEXG
			opcodeTable[0xC100|rx<<9|0x88|ry] = opEXG
		}
	}
}

func opEXG(c *CPU) StepResult {
	rx := (c.ir >> 9) & 7
	ry := c.ir & 7
	opmode := (c.ir >> 3) & 0x1F

	switch opmode {
	case 0x08:
		c.reg.D[rx], c.reg.D[ry] = c.reg.D[ry], c.reg.D[rx]
	case 0x09:
		c.reg.A[rx], c.reg.A[ry] = c.reg.A[ry], c.reg.A[rx]
	case 0x11:
		c.reg.D[rx], c.reg.A[ry] = c.reg.A[ry], c.reg.D[rx]
	}

	c.cycles += 6
	return StepResult{Kind: StepOK}
}

// registerSWAP registers SWAP Dn.
// Encoding: 0100 1000 0100 0DDD
func registerSWAP() {
	for dn := uint16(0); dn < 8; dn++ {
		opcodeTable[0x4840|dn] = opSWAP
	}
}

func opSWAP(c *CPU) StepResult {
	dn := c.ir & 7
	val := c.reg.D[dn]
	c.reg.D[dn] = (val>>16)&0xFFFF | (val&0xFFFF)<<16
	c.setFlagsLogical(c.reg.D[dn], Long)
	c.cycles += 4
	return StepResult{Kind: StepOK}
}

// registerMOVEP registers MOVEP.W and MOVEP.L opcodes.
// Encoding: 0000 DDD OOO 001 AAA + 16-bit displacement
//
//	OOO=100: MOVEP.W (An),Dn   101: MOVEP.L (An),Dn
//	OOO=110: MOVEP.W Dn,(An)   111: MOVEP.L Dn,(An)
func registerMOVEP() {
	for dn := uint16(0); dn < 8; dn++ {
		for an := uint16(0); an < 8; an++ {
			opcodeTable[0x0108|dn<<9|an] = opMOVEP
			opcodeTable[0x0148|dn<<9|an] = opMOVEP
			opcodeTable[0x0188|dn<<9|an] = opMOVEP
			opcodeTable[0x01C8|dn<<9|an] = opMOVEP
		}
	}
}

func opMOVEP(c *CPU) StepResult {
	dn := (c.ir >> 9) & 7
	an := c.ir & 7
	opmode := (c.ir >> 6) & 7
	disp := int16(c.readImm16())
	addr := uint32(int32(c.reg.A[an]) + int32(disp))

	switch opmode {
	case 4:
		b0 := c.readBus(Byte, addr, false)
		b1 := c.readBus(Byte, addr+2, false)
		val := (b0 << 8) | b1
		c.reg.D[dn] = (c.reg.D[dn] & 0xFFFF0000) | (val & 0xFFFF)
		c.cycles += 16
	case 5:
		b0 := c.readBus(Byte, addr, false)
		b1 := c.readBus(Byte, addr+2, false)
		b2 := c.readBus(Byte, addr+4, false)
		b3 := c.readBus(Byte, addr+6, false)
		c.reg.D[dn] = (b0 << 24) | (b1 << 16) | (b2 << 8) | b3
		c.cycles += 24
	case 6:
		val := c.reg.D[dn]
		c.writeBus(Byte, addr, (val>>8)&0xFF, false)
		c.writeBus(Byte, addr+2, val&0xFF, false)
		c.cycles += 16
	case 7:
		val := c.reg.D[dn]
		c.writeBus(Byte, addr, (val>>24)&0xFF, false)
		c.writeBus(Byte, addr+2, (val>>16)&0xFF, false)
		c.writeBus(Byte, addr+4, (val>>8)&0xFF, false)
		c.writeBus(Byte, addr+6, val&0xFF, false)
		c.cycles += 24
	}
	// MOVEP does not affect condition codes.
	return StepResult{Kind: StepOK}
}
