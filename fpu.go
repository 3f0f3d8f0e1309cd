package m68k

import "math"

// Integrated FPU (68881/68882-class, native on 68040 except LC/EC). The
// coprocessor-ID-1 F-line window breaks down as:
//
//	0xF200-0xF23F  general (ALU, FMOVE, FMOVECR, FMOVEM) + extension word
//	0xF240-0xF27F  FScc (condition in the extension word)
//	0xF280-0xF2BF  FBcc.W (condition in opcode bits 5-0)
//	0xF2C0-0xF2FF  FBcc.L
//	0xF300-0xF33F  FSAVE
//	0xF340-0xF37F  FRESTORE
//
// Variants without an FPU (LC040/EC040) surface every one of these as an
// F-line trap instead.
//
// Extended precision (80-bit) is approximated with float64: every FPn is
// stored as a float64 and FMOVE to/from an extended memory operand
// converts through that, which loses the real chip's extra exponent and
// mantissa range but preserves ordinary NaN/Inf/±0 semantics.

func init() {
	registerFPU()
}

const (
	fpcrRoundMask = 0x30
	fpsrN         = 1 << 27
	fpsrZ         = 1 << 26
	fpsrI         = 1 << 25
	fpsrNAN       = 1 << 24
	fpsrOPERR     = 0x20
	fpsrDZ        = 0x10
)

func registerFPU() {
	for mode := uint16(0); mode < 8; mode++ {
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcodeTable[0xF200|mode<<3|reg] = opFGeneral
		}
	}
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue // FDBcc; not implemented, stays F-line
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0xF240|mode<<3|reg] = opFScc
		}
	}
	for cc := uint16(0); cc < 64; cc++ {
		opcodeTable[0xF280|cc] = opFBcc // word displacement
		opcodeTable[0xF2C0|cc] = opFBcc // long displacement
	}
	for mode := uint16(2); mode < 8; mode++ {
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 1 {
				continue
			}
			opcodeTable[0xF300|mode<<3|reg] = opFSAVE
			opcodeTable[0xF340|mode<<3|reg] = opFRESTORE
		}
	}
}

// fpuGate surfaces an F-line trap (not illegal) when the variant has no
// FPU, matching decode.go's reserved F-line window semantics.
func (c *CPU) fpuGate() bool {
	return c.hasFPU
}

func (c *CPU) setFPCmpFlags(v float64) {
	c.fpsr &^= fpsrN | fpsrZ | fpsrI | fpsrNAN
	switch {
	case math.IsNaN(v):
		c.fpsr |= fpsrNAN
	case math.IsInf(v, 0):
		c.fpsr |= fpsrI
		if v < 0 {
			c.fpsr |= fpsrN
		}
	case v == 0:
		c.fpsr |= fpsrZ
		if math.Signbit(v) {
			c.fpsr |= fpsrN
		}
	case v < 0:
		c.fpsr |= fpsrN
	}
}

// fpromConstant returns the FMOVECR constant ROM entry for an offset.
func fpromConstant(offset uint16) float64 {
	switch offset {
	case 0x00:
		return math.Pi
	case 0x0B:
		return math.Log10(2)
	case 0x0C:
		return math.E
	case 0x0D:
		return math.Log2(math.E)
	case 0x0E:
		return math.Log10(math.E)
	case 0x0F:
		return 0
	case 0x30:
		return math.Ln2
	case 0x31:
		return math.Log(10)
	case 0x32:
		return 1
	case 0x33:
		return 10
	case 0x34:
		return 100
	case 0x35:
		return 1e4
	case 0x36:
		return 1e8
	case 0x37:
		return 1e16
	case 0x38:
		return 1e32
	case 0x39:
		return 1e64
	case 0x3A:
		return 1e128
	case 0x3B:
		return 1e256
	case 0x3C, 0x3D, 0x3E, 0x3F:
		return math.Inf(1)
	default:
		return 0
	}
}

// fpOperandAddr resolves a memory effective address for an n-byte FPU
// operand. The general resolver's postinc/predec side effects are sized
// for 1/2/4-byte integer operands; double (8) and extended (12) operands
// need their own adjustment, so modes 3 and 4 are handled here and the
// rest delegate to resolveEA (whose displacement/absolute/PC-relative
// paths have no size-dependent side effects).
func (c *CPU) fpOperandAddr(mode, reg uint8, nbytes uint32) (uint32, bool) {
	switch mode {
	case 3:
		addr := c.reg.A[reg]
		c.reg.A[reg] += nbytes
		return addr, true
	case 4:
		c.reg.A[reg] -= nbytes
		return c.reg.A[reg], true
	default:
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok || e.mode != eaMemory {
			return 0, false
		}
		return e.addr, true
	}
}

// fpLoadOperand reads a floating operand from <ea> in the given memory
// format (the source-specifier field of a class-010 extension word).
// Format 7 (FMOVECR) is handled by the caller; format 3 (packed decimal)
// is not modeled and reads as zero.
func (c *CPU) fpLoadOperand(fmt uint16, mode, reg uint8) (float64, bool) {
	switch fmt {
	case 0: // long integer
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok {
			return 0, false
		}
		return float64(int32(e.read(c, Long))), true
	case 1: // single precision
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok {
			return 0, false
		}
		return float64(math.Float32frombits(e.read(c, Long))), true
	case 2: // extended precision (12 bytes: exponent word, pad, mantissa)
		if mode == 7 && reg == 4 {
			expWord := c.readImm16()
			c.readImm16() // pad
			hi := c.readImm32()
			lo := c.readImm32()
			return extendedToFloat64(expWord, uint64(hi)<<32|uint64(lo)), true
		}
		addr, ok := c.fpOperandAddr(mode, reg, 12)
		if !ok {
			return 0, false
		}
		expWord := uint16(c.readBus(Word, addr, false))
		hi := c.readBus(Long, addr+4, false)
		lo := c.readBus(Long, addr+8, false)
		return extendedToFloat64(expWord, uint64(hi)<<32|uint64(lo)), true
	case 3: // packed decimal: not modeled
		_, _ = c.fpOperandAddr(mode, reg, 12)
		return 0, true
	case 4: // word integer
		e, ok := c.resolveEA(mode, reg, Word)
		if !ok {
			return 0, false
		}
		return float64(int16(e.read(c, Word))), true
	case 5: // double precision
		if mode == 7 && reg == 4 {
			hi := c.readImm32()
			lo := c.readImm32()
			return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), true
		}
		addr, ok := c.fpOperandAddr(mode, reg, 8)
		if !ok {
			return 0, false
		}
		hi := c.readBus(Long, addr, false)
		lo := c.readBus(Long, addr+4, false)
		return math.Float64frombits(uint64(hi)<<32 | uint64(lo)), true
	case 6: // byte integer
		e, ok := c.resolveEA(mode, reg, Byte)
		if !ok {
			return 0, false
		}
		return float64(int8(e.read(c, Byte))), true
	}
	return 0, false
}

// fpStoreOperand writes an FPn value to <ea> in the given memory format
// (the destination-format field of a class-011 extension word).
func (c *CPU) fpStoreOperand(v float64, fmt uint16, mode, reg uint8) bool {
	switch fmt {
	case 0:
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok {
			return false
		}
		e.write(c, Long, uint32(int32(v)))
	case 1:
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok {
			return false
		}
		e.write(c, Long, math.Float32bits(float32(v)))
	case 2:
		addr, ok := c.fpOperandAddr(mode, reg, 12)
		if !ok {
			return false
		}
		expWord, mantissa := float64ToExtended(v)
		c.writeBus(Word, addr, uint32(expWord), false)
		c.writeBus(Word, addr+2, 0, false)
		c.writeBus(Long, addr+4, uint32(mantissa>>32), false)
		c.writeBus(Long, addr+8, uint32(mantissa), false)
	case 3:
		_, _ = c.fpOperandAddr(mode, reg, 12)
		return true // packed decimal store not modeled
	case 4:
		e, ok := c.resolveEA(mode, reg, Word)
		if !ok {
			return false
		}
		e.write(c, Word, uint32(int16(v)))
	case 5:
		addr, ok := c.fpOperandAddr(mode, reg, 8)
		if !ok {
			return false
		}
		bits := math.Float64bits(v)
		c.writeBus(Long, addr, uint32(bits>>32), false)
		c.writeBus(Long, addr+4, uint32(bits), false)
	case 6:
		e, ok := c.resolveEA(mode, reg, Byte)
		if !ok {
			return false
		}
		e.write(c, Byte, uint32(int8(v)))
	default:
		return false
	}
	return true
}

// extendedToFloat64 narrows an 80-bit extended value (exponent word plus
// 64-bit mantissa with explicit integer bit) to a float64.
func extendedToFloat64(expWord uint16, mantissa uint64) float64 {
	sign := uint64(expWord>>15) & 1
	exp := int32(expWord & 0x7FFF)

	if exp == 0 && mantissa == 0 {
		if sign != 0 {
			return math.Copysign(0, -1)
		}
		return 0
	}
	if exp == 0x7FFF {
		if mantissa == 0 {
			return math.Inf(1 - 2*int(sign))
		}
		return math.NaN()
	}

	biased := exp - 16383 + 1023
	if biased >= 2047 {
		return math.Inf(1 - 2*int(sign))
	}
	if biased <= 0 {
		return math.Copysign(0, float64(1-2*int(sign)))
	}

	// Drop the explicit integer bit, keep the top 52 fraction bits.
	frac := (mantissa << 1) >> 12
	return math.Float64frombits(sign<<63 | uint64(biased)<<52 | frac)
}

// float64ToExtended widens a float64 to the 80-bit extended layout.
func float64ToExtended(v float64) (expWord uint16, mantissa uint64) {
	bits := math.Float64bits(v)
	sign := uint16(bits>>63) << 15
	exp := int32(bits>>52) & 0x7FF
	frac := bits & 0x000FFFFFFFFFFFFF

	switch {
	case exp == 0x7FF: // Inf/NaN
		expWord = sign | 0x7FFF
		if frac != 0 {
			mantissa = 0xC000000000000000 // quiet NaN
		}
		return
	case exp == 0 && frac == 0: // ±0
		return sign, 0
	case exp == 0: // denormal: flushed to zero in this approximation
		return sign, 0
	}

	expWord = sign | uint16(exp-1023+16383)
	mantissa = 1<<63 | frac<<11
	return
}

// fpRound applies the FPCR rounding mode to an intermediate result.
// Round-to-nearest (mode 0) is float64's native behavior; the directed
// modes only matter for results this approximation cannot distinguish at
// float64 precision, so they are identity here except for FINT (which
// honors them explicitly).
func (c *CPU) fpRound(v float64) float64 {
	return v
}

// fpIntRound rounds to an integer per the FPCR rounding mode (FINT).
func (c *CPU) fpIntRound(v float64) float64 {
	switch (c.fpcr & fpcrRoundMask) >> 4 {
	case 1: // round toward zero
		return math.Trunc(v)
	case 2: // round toward -infinity
		return math.Floor(v)
	case 3: // round toward +infinity
		return math.Ceil(v)
	default:
		return math.Round(v)
	}
}

// opFGeneral decodes the general FPU instruction: 0xF200|ea plus an
// extension word whose top three bits select the operation class.
func opFGeneral(c *CPU) StepResult {
	if !c.fpuGate() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	c.fpuJustReset = false

	ext := c.readImm16()

	switch ext >> 13 {
	case 0: // FPm -> FPn ALU (or FMOVECR at opmode 0x17)
		src := c.fpr[(ext>>10)&7]
		if ext&0x7F == 0x17 {
			dst := (ext >> 7) & 7
			c.fpr[dst] = fpromConstant((ext >> 10) & 7)
			c.setFPCmpFlags(c.fpr[dst])
			c.cycles += 4
			return StepResult{Kind: StepOK}
		}
		return c.fpALU(ext, src)

	case 2: // <ea> -> FPn ALU, or FMOVECR when the format field is 111
		fmt := (ext >> 10) & 7
		if fmt == 7 {
			dst := (ext >> 7) & 7
			c.fpr[dst] = fpromConstant(ext & 0x7F)
			c.setFPCmpFlags(c.fpr[dst])
			c.cycles += 4
			return StepResult{Kind: StepOK}
		}
		src, ok := c.fpLoadOperand(fmt, mode, reg)
		if !ok {
			return illegal(c)
		}
		return c.fpALU(ext, src)

	case 3: // FMOVE FPn -> <ea>
		fmt := (ext >> 10) & 7
		src := c.fpr[(ext>>7)&7]
		if !c.fpStoreOperand(src, fmt, mode, reg) {
			return illegal(c)
		}
		c.cycles += 8
		return StepResult{Kind: StepOK}

	case 4: // FMOVE/FMOVEM <ea> -> FPCR/FPSR/FPIAR
		return c.fmovemControl(mode, reg, ext, false)
	case 5: // FMOVE/FMOVEM FPCR/FPSR/FPIAR -> <ea>
		return c.fmovemControl(mode, reg, ext, true)

	case 6: // FMOVEM <ea> -> FPn list
		return c.fmovemData(mode, reg, ext, false)
	case 7: // FMOVEM FPn list -> <ea>
		return c.fmovemData(mode, reg, ext, true)
	}

	return illegal(c)
}

// fpALU executes one arithmetic/transcendental opmode against a resolved
// source operand, writing FPn and the FPSR condition codes. The opmode's
// rounding-precision modifier bits are stripped first (FS/FD-prefixed
// opcodes behave as their base operation at this core's precision).
func (c *CPU) fpALU(ext uint16, src float64) StepResult {
	dst := (ext >> 7) & 7
	opmode := ext & 0x7F
	if opmode == 0x41 || opmode == 0x45 {
		opmode = 0x04 // FSSQRT/FDSQRT
	} else if opmode&0x44 == 0x44 {
		opmode &^= 0x44
	} else if opmode&0x40 != 0 {
		opmode &^= 0x40
	}

	d := c.fpr[dst]
	var result float64

	switch opmode {
	case 0x00: // FMOVE
		result = src
	case 0x01: // FINT
		result = c.fpIntRound(src)
	case 0x02: // FSINH
		result = math.Sinh(src)
	case 0x03: // FINTRZ
		result = math.Trunc(src)
	case 0x04: // FSQRT
		result = math.Sqrt(src)
	case 0x06: // FLOGNP1
		result = math.Log1p(src)
	case 0x08: // FETOXM1
		result = math.Expm1(src)
	case 0x09: // FTANH
		result = math.Tanh(src)
	case 0x0A: // FATAN
		result = math.Atan(src)
	case 0x0C: // FASIN
		result = math.Asin(src)
	case 0x0D: // FATANH
		result = math.Atanh(src)
	case 0x0E: // FSIN
		result = math.Sin(src)
	case 0x0F: // FTAN
		result = math.Tan(src)
	case 0x10: // FETOX
		result = math.Exp(src)
	case 0x11: // FTWOTOX
		result = math.Exp2(src)
	case 0x12: // FTENTOX
		result = math.Pow(10, src)
	case 0x14: // FLOGN
		result = math.Log(src)
	case 0x15: // FLOG10
		result = math.Log10(src)
	case 0x16: // FLOG2
		result = math.Log2(src)
	case 0x18: // FABS
		result = math.Abs(src)
	case 0x19: // FCOSH
		result = math.Cosh(src)
	case 0x1A: // FNEG
		result = -src
	case 0x1C: // FACOS
		result = math.Acos(src)
	case 0x1D: // FCOS
		result = math.Cos(src)
	case 0x1E: // FGETEXP
		result = fpExponent(src)
	case 0x1F: // FGETMAN
		result = fpMantissa(src)
	case 0x20: // FDIV
		result = c.fpDivide(d, src)
	case 0x21: // FMOD
		result = math.Mod(d, src)
	case 0x22: // FADD
		result = d + src
	case 0x23: // FMUL
		result = d * src
	case 0x24: // FSGLDIV (single-precision divide)
		result = float64(float32(d) / float32(src))
	case 0x25: // FREM (IEEE remainder)
		result = d
		if src != 0 {
			result = d - src*math.Round(d/src)
		}
	case 0x26: // FSCALE
		result = d * math.Pow(2, math.Trunc(src))
	case 0x27: // FSGLMUL
		result = float64(float32(d) * float32(src))
	case 0x28: // FSUB
		result = d - src
	case 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37: // FSINCOS
		cosDst := opmode & 7
		c.fpr[dst] = math.Sin(src)
		c.fpr[cosDst] = math.Cos(src)
		c.setFPCmpFlags(c.fpr[dst])
		c.cycles += 12
		return StepResult{Kind: StepOK}
	case 0x38: // FCMP
		c.setFPCmpFlags(d - src)
		c.cycles += 4
		return StepResult{Kind: StepOK}
	case 0x3A: // FTST
		c.setFPCmpFlags(src)
		c.cycles += 4
		return StepResult{Kind: StepOK}
	default:
		return illegal(c)
	}

	result = c.fpRound(result)
	c.fpr[dst] = result
	c.setFPCmpFlags(result)
	c.cycles += 12
	return StepResult{Kind: StepOK}
}

// fpDivide implements FDIV's zero-divisor handling: 0/0 is a NaN with
// OPERR, x/0 is a signed infinity with DZ.
func (c *CPU) fpDivide(d, src float64) float64 {
	if src == 0 {
		if d == 0 {
			c.fpsr |= fpsrOPERR
			return math.NaN()
		}
		c.fpsr |= fpsrDZ
		return math.Inf(1 - 2*int(math.Float64bits(d)>>63))
	}
	return d / src
}

func fpExponent(v float64) float64 {
	if v == 0 {
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN()
	}
	_, exp := math.Frexp(v)
	return float64(exp - 1)
}

func fpMantissa(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	frac, _ := math.Frexp(v)
	return frac * 2
}

// --- FBcc ---

// opFBcc covers both displacement sizes: opcode bit 6 clear is a 16-bit
// displacement, set is 32-bit. The branch base is the extension-word
// address (PPC+2), captured before the displacement is consumed.
func opFBcc(c *CPU) StepResult {
	if !c.fpuGate() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	cc := c.ir & 0x3F
	longForm := c.ir&0x0040 != 0

	base := c.reg.PC
	var disp int32
	if longForm {
		disp = int32(c.readImm32())
	} else {
		disp = int32(int16(c.readImm16()))
	}

	if c.testFPCondition(cc) {
		c.reg.PC = uint32(int32(base) + disp)
		c.changeOfFlow = true
		c.cycles += 10
	} else {
		c.cycles += 8
	}
	return StepResult{Kind: StepOK}
}

// testFPCondition evaluates one of the 32 floating conditions against the
// FPSR's N/Z/NAN bits. Conditions 32-63 alias 0-31 (bit 5 selects the
// signaling variants, which differ only in exception behavior this core
// does not model).
func (c *CPU) testFPCondition(cc uint16) bool {
	n := c.fpsr&fpsrN != 0
	z := c.fpsr&fpsrZ != 0
	nan := c.fpsr&fpsrNAN != 0
	switch cc & 0x1F {
	case 0x00: // F
		return false
	case 0x01: // EQ
		return z
	case 0x02: // OGT
		return !nan && !z && !n
	case 0x03: // OGE
		return !nan && (z || !n)
	case 0x04: // OLT
		return !nan && n && !z
	case 0x05: // OLE
		return !nan && (z || n)
	case 0x06: // OGL
		return !nan && !z
	case 0x07: // OR
		return !nan
	case 0x08: // UN
		return nan
	case 0x09: // UEQ
		return nan || z
	case 0x0A: // UGT
		return nan || (!z && !n)
	case 0x0B: // UGE
		return nan || z || !n
	case 0x0C: // ULT
		return nan || (n && !z)
	case 0x0D: // ULE
		return nan || z || n
	case 0x0E: // NE
		return !z
	case 0x0F: // T
		return true
	case 0x10: // SF
		return false
	case 0x11: // SEQ
		return z
	case 0x12: // GT
		return !nan && !z && !n
	case 0x13: // GE
		return !nan && (z || !n)
	case 0x14: // LT
		return !nan && n && !z
	case 0x15: // LE
		return !nan && (z || n)
	case 0x16: // GL
		return !nan && !z
	case 0x17: // GLE
		return !nan
	case 0x18: // NGLE
		return nan
	case 0x19: // NGL
		return nan || z
	case 0x1A: // NLE
		return nan || (!z && !n)
	case 0x1B: // NLT
		return nan || z || !n
	case 0x1C: // NGE
		return nan || (n && !z)
	case 0x1D: // NGT
		return nan || z || n
	case 0x1E: // SNE
		return !z
	case 0x1F: // ST
		return true
	}
	return false
}

// --- FScc ---

func opFScc(c *CPU) StepResult {
	if !c.fpuGate() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	ext := c.readImm16()
	cc := ext & 0x3F

	dst, ok := c.resolveEA(mode, reg, Byte)
	if !ok {
		return illegal(c)
	}
	if c.testFPCondition(cc) {
		dst.write(c, Byte, 0xFF)
	} else {
		dst.write(c, Byte, 0x00)
	}
	c.cycles += 6
	return StepResult{Kind: StepOK}
}

// --- FMOVEM ---

// fmovemData moves a list of FP data registers to or from memory, 12
// bytes per register stored as a 4-byte zero pad followed by the 8-byte
// double (this core's stand-in for the 96-bit extended format). The
// extension word's mode bits select the list's bit order; predecrement
// destinations pre-subtract the whole block and then store ascending.
func (c *CPU) fmovemData(mode, reg uint8, ext uint16, toMemory bool) StepResult {
	list := ext & 0xFF
	ascendingList := (ext>>11)&1 != 0

	var addr uint32
	switch mode {
	case 2:
		addr = c.reg.A[reg]
	case 3:
		addr = c.reg.A[reg]
	case 4:
		if !toMemory {
			return illegal(c)
		}
		n := uint32(0)
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) != 0 {
				n++
			}
		}
		addr = c.reg.A[reg] - n*12
		c.reg.A[reg] = addr
	default:
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok || e.mode != eaMemory {
			return illegal(c)
		}
		addr = e.addr
	}

	count := 0
	for i := 0; i < 8; i++ {
		var bit uint16
		if ascendingList {
			bit = 1 << uint(i)
		} else {
			bit = 1 << uint(7-i)
		}
		if list&bit == 0 {
			continue
		}
		count++
		if toMemory {
			bits := math.Float64bits(c.fpr[i])
			c.writeBus(Long, addr, 0, false)
			c.writeBus(Long, addr+4, uint32(bits>>32), false)
			c.writeBus(Long, addr+8, uint32(bits), false)
		} else {
			hi := c.readBus(Long, addr+4, false)
			lo := c.readBus(Long, addr+8, false)
			c.fpr[i] = math.Float64frombits(uint64(hi)<<32 | uint64(lo))
		}
		addr += 12
	}

	if mode == 3 {
		c.reg.A[reg] = addr
	}

	c.cycles += uint64(8 * count)
	return StepResult{Kind: StepOK}
}

// fmovemControl moves FPCR/FPSR/FPIAR (selected by extension-word bits
// 12-10, in that order at ascending addresses) to or from <ea>. A single
// selected register also accepts Dn direct and immediate sources.
func (c *CPU) fmovemControl(mode, reg uint8, ext uint16, toMemory bool) StepResult {
	selector := (ext >> 10) & 7

	regs := make([]*uint32, 0, 3)
	if selector&4 != 0 {
		regs = append(regs, &c.fpcr)
	}
	if selector&2 != 0 {
		regs = append(regs, &c.fpsr)
	}
	if selector&1 != 0 {
		regs = append(regs, &c.fpiar)
	}
	if len(regs) == 0 {
		return illegal(c)
	}

	if len(regs) == 1 && (mode == 0 || (mode == 7 && reg == 4)) {
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok {
			return illegal(c)
		}
		if toMemory {
			e.write(c, Long, *regs[0])
		} else {
			*regs[0] = e.read(c, Long)
		}
		c.cycles += 4
		return StepResult{Kind: StepOK}
	}

	var addr uint32
	switch mode {
	case 3:
		addr = c.reg.A[reg]
		c.reg.A[reg] += uint32(4 * len(regs))
	case 4:
		c.reg.A[reg] -= uint32(4 * len(regs))
		addr = c.reg.A[reg]
	default:
		e, ok := c.resolveEA(mode, reg, Long)
		if !ok || e.mode != eaMemory {
			return illegal(c)
		}
		addr = e.addr
	}

	for _, r := range regs {
		if toMemory {
			c.writeBus(Long, addr, *r, false)
		} else {
			*r = c.readBus(Long, addr, false)
		}
		addr += 4
	}

	c.cycles += uint64(4 * len(regs))
	return StepResult{Kind: StepOK}
}

// --- FSAVE / FRESTORE ---

// opFSAVE stores the FPU's internal state frame: a single zero longword
// (NULL frame) when the FPU is untouched since reset, else a 28-byte
// 881-style IDLE frame with header 0x1F180000 and trailer 0x70000000.
// Only the (An)+ and -(An) forms are supported, matching the 68040's own
// restriction.
func opFSAVE(c *CPU) StepResult {
	if !c.fpuGate() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	switch mode {
	case 3: // (An)+
		addr := c.reg.A[reg]
		c.reg.A[reg] = addr + 4
		if c.fpuJustReset {
			c.writeBus(Long, addr, 0, false)
		} else {
			c.reg.A[reg] += 6 * 4
			c.writeBus(Long, addr, 0x1F180000, false)
			for i := uint32(1); i < 6; i++ {
				c.writeBus(Long, addr+i*4, 0, false)
			}
			c.writeBus(Long, addr+24, 0x70000000, false)
		}
	case 4: // -(An)
		c.reg.A[reg] -= 4
		addrHi := c.reg.A[reg]
		if c.fpuJustReset {
			c.writeBus(Long, addrHi, 0, false)
		} else {
			c.reg.A[reg] -= 6 * 4
			c.writeBus(Long, addrHi, 0x70000000, false)
			for i := uint32(1); i < 6; i++ {
				c.writeBus(Long, addrHi-i*4, 0, false)
			}
			c.writeBus(Long, addrHi-24, 0x1F180000, false)
		}
	default:
		return illegal(c)
	}
	c.cycles += 8
	return StepResult{Kind: StepOK}
}

// opFRESTORE reloads an FPU state frame. A NULL frame (high byte of the
// header zero) resets the FPU; otherwise the frame's type byte sizes how
// far an (An)+ pointer advances past the body (IDLE/UNIMP/BUSY).
func opFRESTORE(c *CPU) StepResult {
	if !c.fpuGate() {
		return StepResult{Kind: StepFlineTrap, Opcode: c.ir}
	}
	if !c.supervisor() {
		c.takeException(vecPrivilegeViolation)
		return StepResult{Kind: StepOK}
	}
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)

	switch mode {
	case 2: // (An)
		header := c.readBus(Long, c.reg.A[reg], false)
		if header&0xFF000000 == 0 {
			c.frestoreNull()
		} else {
			c.fpuJustReset = false
		}
	case 3: // (An)+
		addr := c.reg.A[reg]
		c.reg.A[reg] = addr + 4
		header := c.readBus(Long, addr, false)
		if header&0xFF000000 == 0 {
			c.frestoreNull()
			break
		}
		c.fpuJustReset = false
		switch header & 0x00FF0000 {
		case 0x00180000: // IDLE
			c.reg.A[reg] += 6 * 4
		case 0x00380000: // UNIMP
			c.reg.A[reg] += 14 * 4
		case 0x00B40000: // BUSY
			c.reg.A[reg] += 45 * 4
		}
	default:
		return illegal(c)
	}
	c.cycles += 8
	return StepResult{Kind: StepOK}
}

// frestoreNull resets the FPU to its just-reset state: control words
// cleared, every data register a NaN.
func (c *CPU) frestoreNull() {
	c.fpcr, c.fpsr, c.fpiar = 0, 0, 0
	for i := range c.fpr {
		c.fpr[i] = math.NaN()
	}
	c.fpuJustReset = true
}

// FPCR/FPSR/FPIAR accessors for hosts that want to inspect or seed FPU
// state directly (used by save-state restore and test fixtures).
func (c *CPU) FPCR() uint32      { return c.fpcr }
func (c *CPU) SetFPCR(v uint32)  { c.fpcr = v }
func (c *CPU) FPSR() uint32      { return c.fpsr }
func (c *CPU) SetFPSR(v uint32)  { c.fpsr = v }
func (c *CPU) FPIAR() uint32     { return c.fpiar }
func (c *CPU) SetFPIAR(v uint32) { c.fpiar = v }

// FPR returns floating data register n (0-7).
func (c *CPU) FPR(n int) float64 { return c.fpr[n&7] }

// SetFPR sets floating data register n (0-7).
func (c *CPU) SetFPR(n int, v float64) { c.fpr[n&7] = v }
