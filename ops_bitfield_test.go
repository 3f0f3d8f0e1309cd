package m68k

import "testing"

// TestBfextuRegister extracts an unsigned field from a data register
// with MSB-first offset numbering.
func TestBfextuRegister(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x12345678)
	bus.writeWord(0x400, 0xE9C0) // BFEXTU D0{8:8},D1
	bus.writeWord(0x402, 0x1208) // dst D1, offset 8, width 8

	c.Step()
	if c.D(1) != 0x34 {
		t.Fatalf("D1 = %#x, want 0x34 (bits 8-15 MSB-first)", c.D(1))
	}
	if c.flags.N != 0 {
		t.Fatal("N must be clear: extracted field MSB is 0")
	}
}

// TestBfextsSignExtends extracts a signed field whose top bit is set.
func TestBfextsSignExtends(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x12F45678)
	bus.writeWord(0x400, 0xEBC0) // BFEXTS D0{8:8},D1
	bus.writeWord(0x402, 0x1208)

	c.Step()
	if c.D(1) != 0xFFFFFFF4 {
		t.Fatalf("D1 = %#x, want sign-extended 0xFFFFFFF4", c.D(1))
	}
	if c.flags.N == 0 {
		t.Fatal("N must follow the field's MSB")
	}
}

// TestBfffoFindsFirstOne checks BFFFO reports base offset plus the
// position of the first set bit.
func TestBfffoFindsFirstOne(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x00F00000)
	bus.writeWord(0x400, 0xEDC0) // BFFFO D0{4:12},D1
	bus.writeWord(0x402, 0x110C) // dst D1, offset 4, width 12

	c.Step()
	if c.D(1) != 8 {
		t.Fatalf("D1 = %d, want 8 (offset 4 + 4 leading zeros)", c.D(1))
	}
}

// TestBfinsRegister inserts a field into a data register.
func TestBfinsRegister(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x00000000)
	c.SetD(1, 0xA)
	bus.writeWord(0x400, 0xEFC0) // BFINS D1,D0{0:4}
	bus.writeWord(0x402, 0x1004) // src D1, offset 0, width 4

	c.Step()
	if c.D(0) != 0xA0000000 {
		t.Fatalf("D0 = %#x, want 0xA0000000", c.D(0))
	}
	if c.flags.N == 0 {
		t.Fatal("N must be set: inserted field MSB is 1")
	}
}

// TestBfsetMemorySpansBytes sets a field that crosses byte boundaries
// and checks neighboring bits survive.
func TestBfsetMemorySpansBytes(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetA(0, 0x2000)
	bus.writeWord(0x400, 0xEED0) // BFSET (A0){12:8}
	bus.writeWord(0x402, 0x0308) // offset 12, width 8

	c.Step()
	// Offset 12 within (A0): byte 0x2001 bit 3 down through byte 0x2002
	// bit 4: low nibble of 0x2001 and high nibble of 0x2002.
	if got := bus.Read(Byte, 0x2001); got != 0x0F {
		t.Fatalf("mem[0x2001] = %#x, want 0x0F", got)
	}
	if got := bus.Read(Byte, 0x2002); got != 0xF0 {
		t.Fatalf("mem[0x2002] = %#x, want 0xF0", got)
	}
	if got := bus.Read(Byte, 0x2000); got != 0 {
		t.Fatalf("mem[0x2000] = %#x, want untouched 0", got)
	}
}

// TestBfclrDynamicMemoryOffset checks a dynamic (register) offset with a
// byte displacement: offset 40 starts five bytes past the base address.
func TestBfclrDynamicMemoryOffset(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetA(0, 0x2000)
	c.SetD(2, 40) // dynamic offset: byte 0x2005, bit 0
	bus.Write(Byte, 0x2005, 0xFF)
	bus.writeWord(0x400, 0xECD0) // BFCLR (A0){D2:8}
	bus.writeWord(0x402, 0x0888) // offset dynamic D2, width 8

	c.Step()
	if got := bus.Read(Byte, 0x2005); got != 0 {
		t.Fatalf("mem[0x2005] = %#x, want cleared", got)
	}
	if c.flags.NotZ == 0 {
		t.Fatal("Z must reflect the field before clearing (nonzero)")
	}
}

// TestBfchgWidthZeroMeansThirtyTwo checks the width-0 encoding covers
// the whole register.
func TestBfchgWidthZeroMeansThirtyTwo(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x0000FFFF)
	bus.writeWord(0x400, 0xEAC0) // BFCHG D0{0:32}
	bus.writeWord(0x402, 0x0000)

	c.Step()
	if c.D(0) != 0xFFFF0000 {
		t.Fatalf("D0 = %#x, want every bit inverted", c.D(0))
	}
}

// TestBitfieldIllegalPre020 checks the bitfield window decodes as
// illegal on earlier CPUs.
func TestBitfieldIllegalPre020(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	bus.writeWord(0x400, 0xE9C0)
	bus.writeWord(0x402, 0x1208)

	r := c.Step()
	if r.Kind != StepIllegalInstruction {
		t.Fatalf("kind = %v, want StepIllegalInstruction pre-020", r.Kind)
	}
}
