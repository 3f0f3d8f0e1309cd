package m68k

import (
	"encoding/binary"
	"errors"
	"math"
)

// cpuSerializeVersion is incremented whenever the binary layout changes.
const cpuSerializeVersion = 1

// cpuSerializeSize is the number of bytes produced by CPU.Serialize.
// Update this constant whenever the binary layout changes.
const cpuSerializeSize = 293

// SerializeSize returns the number of bytes needed for Serialize.
func (c *CPU) SerializeSize() int { return cpuSerializeSize }

// Serialize writes the full CPU state into buf, which must be at least
// SerializeSize() bytes. Returns an error if the buffer is too small.
// The bus, HLE handler, and logger are not included.
func (c *CPU) Serialize(buf []byte) error {
	if len(buf) < cpuSerializeSize {
		return errors.New("m68k: serialize buffer too small")
	}

	buf[0] = cpuSerializeVersion
	be := binary.BigEndian
	off := 1

	for i := 0; i < 8; i++ {
		be.PutUint32(buf[off:], c.reg.D[i])
		off += 4
	}
	for i := 0; i < 8; i++ {
		be.PutUint32(buf[off:], c.reg.A[i])
		off += 4
	}
	be.PutUint32(buf[off:], c.reg.PC)
	off += 4
	be.PutUint16(buf[off:], c.assembleSR())
	off += 2

	for i := 0; i < 8; i++ {
		be.PutUint32(buf[off:], c.sp[i])
		off += 4
	}

	be.PutUint32(buf[off:], c.ppc)
	off += 4
	be.PutUint16(buf[off:], c.ir)
	off += 2
	be.PutUint64(buf[off:], c.cycles)
	off += 8

	buf[off] = boolByte(c.stopped)
	off++
	buf[off] = boolByte(c.halted)
	off++
	buf[off] = boolByte(c.fpuJustReset)
	off++
	buf[off] = boolByte(c.pmmuEnabled)
	off++

	for _, v := range []uint32{
		c.vbr, c.sfc, c.dfc, c.cacr, c.caar,
		c.itt0, c.itt1, c.dtt0, c.dtt1,
		c.urp, c.dacr0, c.dacr1, c.iacr0, c.iacr1,
		c.tt0, c.tt1,
		c.crpAptr, c.crpLimit, c.srpAptr, c.srpLimit,
		c.tc, c.mmusr,
	} {
		be.PutUint32(buf[off:], v)
		off += 4
	}

	for i := 0; i < 8; i++ {
		be.PutUint64(buf[off:], math.Float64bits(c.fpr[i]))
		off += 8
	}
	be.PutUint32(buf[off:], c.fpcr)
	off += 4
	be.PutUint32(buf[off:], c.fpsr)
	off += 4
	be.PutUint32(buf[off:], c.fpiar)
	off += 4

	buf[off] = uint8(c.cpuType)
	off++
	buf[off] = uint8(c.bcdMode)
	off++
	buf[off] = c.pendingLevel
	off++
	if c.pendingVec != nil {
		buf[off] = 1
		buf[off+1] = *c.pendingVec
	} else {
		buf[off] = 0
		buf[off+1] = 0
	}
	off += 2
	buf[off] = uint8(c.mode)
	off++
	buf[off] = boolByte(c.exceptionProcessing)
	off++
	buf[off] = boolByte(c.changeOfFlow)

	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Deserialize restores CPU state from buf, which must be at least
// SerializeSize() bytes. Returns an error if the buffer is too small or
// the version does not match. The bus, HLE handler, and logger are left
// unchanged; hasPMMU/hasFPU are re-derived from the restored cpuType
// rather than trusted from the buffer.
func (c *CPU) Deserialize(buf []byte) error {
	if len(buf) < cpuSerializeSize {
		return errors.New("m68k: deserialize buffer too small")
	}
	if buf[0] != cpuSerializeVersion {
		return errors.New("m68k: unsupported serialize version")
	}

	be := binary.BigEndian
	off := 1

	for i := 0; i < 8; i++ {
		c.reg.D[i] = be.Uint32(buf[off:])
		off += 4
	}
	for i := 0; i < 8; i++ {
		c.reg.A[i] = be.Uint32(buf[off:])
		off += 4
	}
	c.reg.PC = be.Uint32(buf[off:])
	off += 4
	sr := be.Uint16(buf[off:])
	off += 2

	for i := 0; i < 8; i++ {
		c.sp[i] = be.Uint32(buf[off:])
		off += 4
	}

	c.ppc = be.Uint32(buf[off:])
	off += 4
	c.ir = be.Uint16(buf[off:])
	off += 2
	c.cycles = be.Uint64(buf[off:])
	off += 8

	c.stopped = buf[off] != 0
	off++
	c.halted = buf[off] != 0
	off++
	c.fpuJustReset = buf[off] != 0
	off++
	c.pmmuEnabled = buf[off] != 0
	off++

	fields := []*uint32{
		&c.vbr, &c.sfc, &c.dfc, &c.cacr, &c.caar,
		&c.itt0, &c.itt1, &c.dtt0, &c.dtt1,
		&c.urp, &c.dacr0, &c.dacr1, &c.iacr0, &c.iacr1,
		&c.tt0, &c.tt1,
		&c.crpAptr, &c.crpLimit, &c.srpAptr, &c.srpLimit,
		&c.tc, &c.mmusr,
	}
	for _, f := range fields {
		*f = be.Uint32(buf[off:])
		off += 4
	}

	for i := 0; i < 8; i++ {
		c.fpr[i] = math.Float64frombits(be.Uint64(buf[off:]))
		off += 8
	}
	c.fpcr = be.Uint32(buf[off:])
	off += 4
	c.fpsr = be.Uint32(buf[off:])
	off += 4
	c.fpiar = be.Uint32(buf[off:])
	off += 4

	c.cpuType = CpuType(buf[off])
	off++
	c.bcdMode = BCDCompat(buf[off])
	off++
	c.pendingLevel = buf[off]
	off++
	if buf[off] != 0 {
		v := buf[off+1]
		c.pendingVec = &v
	} else {
		c.pendingVec = nil
	}
	off += 2
	c.mode = runMode(buf[off])
	off++
	c.exceptionProcessing = buf[off] != 0
	off++
	c.changeOfFlow = buf[off] != 0

	c.hasPMMU = c.cpuType.hasPMMU()
	c.hasFPU = c.cpuType.hasFPU()

	// decomposeSRNoBank restores flags without re-banking A7 (sp[] and
	// A[7] were both just written verbatim from the snapshot, so no
	// bank swap should occur on restore).
	c.decomposeSRNoBank(sr)

	return nil
}
