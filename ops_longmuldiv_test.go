package m68k

import "testing"

// TestMulLWide covers the 68020+ MULU.L wide form (0x4C00|ea, extension
// word bit 10 set) producing a 64-bit product across two registers.
func TestMulLWide(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x80000000)
	c.SetD(1, 2)
	c.SetD(2, 0)

	// MULU.L D1,D2:D0 -- opcode 0x4C00|mode(0)<<3|reg(1)=0x4C01
	// ext: wide(bit10)=1, dl=D0(0)<<12, dh=D2(2)
	bus.writeWord(0x400, 0x4C01)
	bus.writeWord(0x402, 0x0402)

	c.Step()
	if c.D(0) != 0 {
		t.Fatalf("D0 (lo) = %#x, want 0", c.D(0))
	}
	if c.D(2) != 1 {
		t.Fatalf("D2 (hi) = %#x, want 1", c.D(2))
	}
}

// TestMulLOnPre020Illegal confirms the long multiply family is gated off
// on pre-020 variants rather than silently executing.
func TestMulLOnPre020Illegal(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecIllegalInstruction*4, 0x00002000)
	c := newResetCPU(M68000, bus)

	bus.writeWord(0x400, 0x4C01)
	bus.writeWord(0x402, 0x0000)

	c.StepWithHLE(NoOpHLE{})
	if c.PC() != 0x2000 {
		t.Fatalf("PC = %#x, want 0x2000 (illegal-instruction handler)", c.PC())
	}
}

// TestDivULRemainder covers the plain 32/32 DIVU.L form with quotient and
// remainder routed to distinct registers.
func TestDivULRemainder(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 100) // dividend / quotient out
	c.SetD(1, 7)   // divisor (ea)
	c.SetD(2, 0)   // remainder out

	// DIVU.L D1,D2:D0 -- opcode 0x4C40|mode(0)<<3|reg(1)=0x4C41
	// ext: signed=0, use64=0, dq=D0(0)<<12, dr=D2(2)
	bus.writeWord(0x400, 0x4C41)
	bus.writeWord(0x402, 0x0002)

	c.Step()
	if c.D(0) != 14 {
		t.Fatalf("quotient D0 = %d, want 14", c.D(0))
	}
	if c.D(2) != 2 {
		t.Fatalf("remainder D2 = %d, want 2", c.D(2))
	}
}

// TestDivSL64 covers the 64-bit-dividend DIVSL.L form (use64 + signed).
func TestDivSL64(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 100)        // low dividend / quotient out
	c.SetD(1, 0)          // high dividend / remainder out
	c.SetD(2, 0xFFFFFFFD) // divisor: -3

	// DIVSL.L D2,D1:D0 -- opcode 0x4C40|mode(0)<<3|reg(2)=0x4C42
	// ext: signed=1, use64=1, dq=D0(0)<<12, dr=D1(1)
	bus.writeWord(0x400, 0x4C42)
	bus.writeWord(0x402, 0x0C01)

	c.Step()
	if c.D(0) != 0xFFFFFFDF { // -33
		t.Fatalf("quotient D0 = %#x, want 0xFFFFFFDF (-33)", c.D(0))
	}
	if c.D(1) != 1 {
		t.Fatalf("remainder D1 = %d, want 1", c.D(1))
	}
}

// TestDivLByZero covers the long-divide-by-zero exception path.
func TestDivLByZero(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecDivideByZero*4, 0x00002000)
	c := newResetCPU(M68020, bus)

	c.SetD(0, 100)
	c.SetD(1, 0) // divisor is zero

	bus.writeWord(0x400, 0x4C41) // DIVU.L D1,D2:D0
	bus.writeWord(0x402, 0x0002)

	c.Step()
	if c.PC() != 0x2000 {
		t.Fatalf("PC = %#x, want 0x2000 after divide-by-zero trap", c.PC())
	}
}

// TestChkLongBoundOK and TestChkLongTraps cover the 68020+ CHK.L long
// form (0x4100|ea), which shares opCHK with the teacher's word form but
// must compare the full 32-bit register against the full 32-bit bound.
func TestChkLongBoundOK(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetD(0, 5)
	c.SetD(1, 0x00010000) // bound: well beyond word range

	// CHK.L D1,D0 -- opcode 0x4100|dn(0)<<9|mode(0)<<3|reg(1)=0x4101
	bus.writeWord(0x400, 0x4101)

	c.Step()
	if c.PC() != 0x402 {
		t.Fatalf("PC = %#x, want 0x402 (no trap, in bounds)", c.PC())
	}
}

func TestChkLongTraps(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecCHK*4, 0x00002000)
	c := newResetCPU(M68020, bus)

	c.SetD(0, 0x00020000) // exceeds the long bound below
	c.SetD(1, 0x00010000)

	bus.writeWord(0x400, 0x4101) // CHK.L D1,D0

	c.Step()
	if c.PC() != 0x2000 {
		t.Fatalf("PC = %#x, want 0x2000 (CHK trap)", c.PC())
	}
}

// TestChkLongOnPre020Illegal confirms CHK.L is gated off pre-020.
func TestChkLongOnPre020Illegal(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecIllegalInstruction*4, 0x00002000)
	c := newResetCPU(M68000, bus)

	c.SetD(0, 5)
	c.SetD(1, 10)
	bus.writeWord(0x400, 0x4101)

	c.StepWithHLE(NoOpHLE{})
	if c.PC() != 0x2000 {
		t.Fatalf("PC = %#x, want 0x2000 (illegal-instruction handler)", c.PC())
	}
}
