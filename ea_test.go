package m68k

import "testing"

// TestPostincrementAppliedOnce checks that a read-modify-write through
// (An)+ advances the register by exactly one operand size, and that the
// A7 byte accesses keep the stack word-aligned (+2).
func TestPostincrementAppliedOnce(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetA(2, 0x2000)
	bus.writeWord(0x400, 0xD11A) // ADD.B D0,(A2)+
	c.Step()
	if c.A(2) != 0x2001 {
		t.Fatalf("A2 = %#x, want 0x2001 (one byte postincrement)", c.A(2))
	}

	c.SetA(7, 0x3000)
	c.SetPC(0x402)
	bus.writeWord(0x402, 0xD11F) // ADD.B D0,(A7)+
	c.Step()
	if c.A(7) != 0x3002 {
		t.Fatalf("A7 = %#x, want 0x3002 (byte postincrement keeps SP word-aligned)", c.A(7))
	}
}

// TestPredecrementAppliedOnce checks -(An) as an R-M-W destination.
func TestPredecrementAppliedOnce(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetA(2, 0x2004)
	bus.writeLong(0x2000, 0x00000010)
	c.SetD(0, 1)
	bus.writeWord(0x400, 0x9122) // SUB.B D0,-(A2)
	c.Step()
	if c.A(2) != 0x2003 {
		t.Fatalf("A2 = %#x, want 0x2003 (one byte predecrement)", c.A(2))
	}
	if got := bus.Read(Byte, 0x2003); got != 0x0F {
		t.Fatalf("mem[0x2003] = %#x, want 0x0F (0x10 - 1)", got)
	}
}

// TestBriefIndexWordSignExtension exercises d8(An,Xn.W) with a negative
// word index.
func TestBriefIndexWordSignExtension(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetA(0, 0x1000)
	c.SetD(1, 0x0000FFFF) // -1 as a word index

	bus.writeWord(0x400, 0x43F0) // LEA 4(A0,D1.W),A1
	bus.writeWord(0x402, 0x1004) // ext: Xn=D1, W, scale 1, disp +4

	c.Step()
	if c.A(1) != 0x1003 {
		t.Fatalf("A1 = %#x, want 0x1003 (0x1000 - 1 + 4)", c.A(1))
	}
}

// TestFullExtensionScaledIndex exercises the 68020 full extension word
// with a long index, scale factor 4, and a 16-bit base displacement.
func TestFullExtensionScaledIndex(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetA(0, 0x1000)
	c.SetD(1, 2)

	bus.writeWord(0x400, 0x43F0) // LEA (0x100,A0,D1.L*4),A1
	bus.writeWord(0x402, 0x1D20) // ext: D1, L, scale*4, full, bd=16-bit
	bus.writeWord(0x404, 0x0100) // base displacement

	c.Step()
	if c.A(1) != 0x1108 {
		t.Fatalf("A1 = %#x, want 0x1108 (0x1000 + 2*4 + 0x100)", c.A(1))
	}
}

// TestFullExtensionBaseSuppress checks that the base-suppress bit drops
// An from the calculation.
func TestFullExtensionBaseSuppress(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetA(0, 0xDEAD0000) // must not contribute
	c.SetD(1, 8)

	bus.writeWord(0x400, 0x43F0) // LEA (0x200,ZA0,D1.L),A1
	bus.writeWord(0x402, 0x19A0) // ext: D1, L, scale*1, full, BS, bd=16-bit
	bus.writeWord(0x404, 0x0200)

	c.Step()
	if c.A(1) != 0x0208 {
		t.Fatalf("A1 = %#x, want 0x0208 (base suppressed)", c.A(1))
	}
}

// TestFullExtensionMemoryIndirectPreIndexed exercises ([bd,An,Xn]) with
// a null outer displacement.
func TestFullExtensionMemoryIndirectPreIndexed(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68020, bus)

	c.SetA(0, 0x2000)
	c.SetD(1, 4)
	bus.writeLong(0x2004, 0x00005000) // pointer fetched by the indirection

	bus.writeWord(0x400, 0x43F0) // LEA ([A0,D1.L]),A1
	bus.writeWord(0x402, 0x1911) // ext: D1, L, full, bd=null, pre-indexed
	c.Step()
	if c.A(1) != 0x5000 {
		t.Fatalf("A1 = %#x, want 0x5000 (value loaded via memory indirection)", c.A(1))
	}
}

// TestFullExtensionIgnoredPre020 checks that a pre-020 CPU treats bit 8
// of the extension word as part of the brief format rather than decoding
// full-extension fields.
func TestFullExtensionIgnoredPre020(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetA(0, 0x1000)
	c.SetD(1, 0)

	bus.writeWord(0x400, 0x43F0)
	bus.writeWord(0x402, 0x1110) // bit 8 set; brief decode sees disp8=0x10

	c.Step()
	if c.A(1) != 0x1010 {
		t.Fatalf("A1 = %#x, want 0x1010 (brief decode with disp 0x10)", c.A(1))
	}
	if c.PC() != 0x404 {
		t.Fatalf("PC = %#x, want 0x404 (no extra extension words consumed)", c.PC())
	}
}

// TestAbsoluteShortSignExtends checks (xxx).W sign extension into the
// full address space.
func TestAbsoluteShortSignExtends(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	// (0xFFFF8000).W masked by the 24-bit bus = 0xFF8000.
	bus.Write(Word, 0xFF8000, 0xBEEF)
	bus.writeWord(0x400, 0x3038) // MOVE.W (xxx).W,D0
	bus.writeWord(0x402, 0x8000)

	c.Step()
	if c.D(0)&0xFFFF != 0xBEEF {
		t.Fatalf("D0 = %#x, want 0xBEEF via sign-extended absolute short", c.D(0))
	}
}
