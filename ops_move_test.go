package m68k

import "testing"

// TestMovemPredecrementOrder checks MOVEM.L D0/A0,-(A7) stores in
// reverse mask order so D0 lands at the lowest address, with A7 updated
// only after the block completes.
func TestMovemPredecrementOrder(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetD(0, 0x11111111)
	c.SetA(0, 0x22222222)
	c.SetA(7, 0x8000)
	bus.writeWord(0x400, 0x48E7) // MOVEM.L D0/A0,-(A7)
	bus.writeWord(0x402, 0x8080) // predec mask: D0=bit15, A0=bit7

	c.Step()
	if c.A(7) != 0x7FF8 {
		t.Fatalf("A7 = %#x, want 0x7FF8", c.A(7))
	}
	if got := bus.Read(Long, 0x7FF8); got != 0x11111111 {
		t.Fatalf("lowest slot = %#x, want D0", got)
	}
	if got := bus.Read(Long, 0x7FFC); got != 0x22222222 {
		t.Fatalf("next slot = %#x, want A0", got)
	}
}

// TestMovemPostincrementWordSignExtends checks MOVEM.W (An)+ loads
// sign-extend into both data and address registers.
func TestMovemPostincrementWordSignExtends(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetA(0, 0x2000)
	bus.writeWord(0x2000, 0x8000)
	bus.writeWord(0x2002, 0x1234)
	bus.writeWord(0x400, 0x4C98) // MOVEM.W (A0)+,D0/A1
	bus.writeWord(0x402, 0x0201) // natural mask: D0=bit0, A1=bit9

	c.Step()
	if c.D(0) != 0xFFFF8000 {
		t.Fatalf("D0 = %#x, want sign-extended 0xFFFF8000", c.D(0))
	}
	if c.A(1) != 0x00001234 {
		t.Fatalf("A1 = %#x, want 0x1234", c.A(1))
	}
	if c.A(0) != 0x2004 {
		t.Fatalf("A0 = %#x, want 0x2004 after two word loads", c.A(0))
	}
}

// TestMovepLongRoundTrip checks MOVEP's alternate-byte transfer both
// directions.
func TestMovepLongRoundTrip(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetD(0, 0xDEADBEEF)
	c.SetA(0, 0x2000)
	bus.writeWord(0x400, 0x01C8) // MOVEP.L D0,(2,A0)
	bus.writeWord(0x402, 0x0002)

	c.Step()
	for i, want := range []uint32{0xDE, 0xAD, 0xBE, 0xEF} {
		if got := bus.Read(Byte, uint32(0x2002+i*2)); got != want {
			t.Fatalf("byte %d = %#x, want %#x (alternate addresses)", i, got, want)
		}
	}

	bus.writeWord(0x404, 0x0348) // MOVEP.L (2,A0),D1
	bus.writeWord(0x406, 0x0002)
	c.Step()
	if c.D(1) != 0xDEADBEEF {
		t.Fatalf("D1 = %#x, want 0xDEADBEEF", c.D(1))
	}
}

// TestMoveSetsFlags checks MOVE's logical flag rule and that MOVEA does
// not touch flags.
func TestMoveSetsFlags(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetD(0, 0x80000000)
	bus.writeWord(0x400, 0x2200) // MOVE.L D0,D1
	c.Step()
	if c.flags.N == 0 {
		t.Fatal("MOVE of a negative value must set N")
	}

	c.flags.N = 0
	c.flags.NotZ = 1
	bus.writeWord(0x402, 0x2040) // MOVEA.L D0,A0
	c.Step()
	if c.A(0) != 0x80000000 {
		t.Fatalf("A0 = %#x, want 0x80000000", c.A(0))
	}
	if c.flags.N != 0 {
		t.Fatal("MOVEA must not touch the condition codes")
	}
}

// TestMoveaWordSignExtends checks the MOVEA.W sign-extension rule.
func TestMoveaWordSignExtends(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetD(0, 0x8000)
	bus.writeWord(0x400, 0x3040) // MOVEA.W D0,A0

	c.Step()
	if c.A(0) != 0xFFFF8000 {
		t.Fatalf("A0 = %#x, want 0xFFFF8000", c.A(0))
	}
}

// TestSwapAndExg checks SWAP's half exchange and EXG's register swap.
func TestSwapAndExg(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetD(0, 0x12345678)
	bus.writeWord(0x400, 0x4840) // SWAP D0
	c.Step()
	if c.D(0) != 0x56781234 {
		t.Fatalf("D0 = %#x, want 0x56781234", c.D(0))
	}

	c.SetD(1, 0xAAAAAAAA)
	c.SetA(2, 0xBBBBBBBB)
	bus.writeWord(0x402, 0xC38A) // EXG D1,A2
	c.Step()
	if c.D(1) != 0xBBBBBBBB || c.A(2) != 0xAAAAAAAA {
		t.Fatalf("D1/A2 = %#x/%#x, want exchanged", c.D(1), c.A(2))
	}
}

// TestLeaPea checks LEA loads an address and PEA pushes one.
func TestLeaPea(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetA(0, 0x2000)
	bus.writeWord(0x400, 0x43E8) // LEA (0x10,A0),A1
	bus.writeWord(0x402, 0x0010)
	c.Step()
	if c.A(1) != 0x2010 {
		t.Fatalf("A1 = %#x, want 0x2010", c.A(1))
	}

	sp := c.A(7)
	bus.writeWord(0x404, 0x4868) // PEA (0x20,A0)
	bus.writeWord(0x406, 0x0020)
	c.Step()
	if c.A(7) != sp-4 {
		t.Fatalf("A7 = %#x, want %#x", c.A(7), sp-4)
	}
	if got := bus.Read(Long, c.A(7)); got != 0x2020 {
		t.Fatalf("pushed address = %#x, want 0x2020", got)
	}
}

// TestDBccFetchesDisplacementWhenTrue checks DBcc consumes its
// displacement word even when the condition is true (no loop).
func TestDBccFetchesDisplacementWhenTrue(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.flags.NotZ = 0 // Z set: DBEQ condition true
	c.SetD(0, 5)
	bus.writeWord(0x400, 0x57C8) // DBEQ D0,<disp>
	bus.writeWord(0x402, 0xFFFE)

	c.Step()
	if c.PC() != 0x404 {
		t.Fatalf("PC = %#x, want 0x404 (displacement consumed, no branch)", c.PC())
	}
	if c.D(0) != 5 {
		t.Fatal("a true condition must not decrement the counter")
	}
}

// TestDBccLoopAndExit checks the decrement-and-branch path and the -1
// exit.
func TestDBccLoopAndExit(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.flags.NotZ = 1 // Z clear: DBEQ condition false, loop runs
	c.SetD(0, 1)
	bus.writeWord(0x400, 0x57C8)
	bus.writeWord(0x402, 0xFFFE) // branch back to 0x400

	c.Step()
	if c.PC() != 0x400 {
		t.Fatalf("PC = %#x, want 0x400 (branched)", c.PC())
	}
	if c.D(0)&0xFFFF != 0 {
		t.Fatalf("D0 = %#x, want 0 after one decrement", c.D(0)&0xFFFF)
	}

	c.Step() // counter hits -1: falls through
	if c.PC() != 0x404 {
		t.Fatalf("PC = %#x, want 0x404 (loop exit)", c.PC())
	}
}

// TestBraLongDisplacement020 checks the 0xFF displacement byte selects a
// 32-bit displacement on 020+ but means -1 on a 68000.
func TestBraLongDisplacement020(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	bus.writeWord(0x400, 0x60FF) // BRA.L
	bus.writeLong(0x402, 0x00010000)
	c.Step()
	if c.PC() != 0x10402 {
		t.Fatalf("PC = %#x, want 0x10402 (32-bit displacement)", c.PC())
	}

	c68k := newResetCPU(M68000, newTestBus())
	b := c68k.bus.(*testBus)
	b.writeWord(0x400, 0x60FF) // BRA.S -1
	c68k.Step()
	if c68k.PC() != 0x401 {
		t.Fatalf("PC = %#x, want 0x401 (8-bit displacement -1)", c68k.PC())
	}
}

// TestBsrRtsRoundTrip checks the subroutine call pair.
func TestBsrRtsRoundTrip(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	bus.writeWord(0x400, 0x6100) // BSR.W +0x100
	bus.writeWord(0x402, 0x0100)
	bus.writeWord(0x502, 0x4E75) // RTS

	c.Step()
	if c.PC() != 0x502 {
		t.Fatalf("PC = %#x, want 0x502", c.PC())
	}
	c.Step()
	if c.PC() != 0x404 {
		t.Fatalf("PC = %#x, want 0x404 after RTS", c.PC())
	}
}
