package m68k

import "testing"

// TestRtdPopsAndDeallocates checks RTD's pop-then-release sequence.
func TestRtdPopsAndDeallocates(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68010, bus)

	c.SetA(7, 0x9000)
	bus.writeLong(0x9000, 0x00000500)
	bus.writeWord(0x400, 0x4E74) // RTD #8
	bus.writeWord(0x402, 0x0008)

	c.Step()
	if c.PC() != 0x500 {
		t.Fatalf("PC = %#x, want 0x500", c.PC())
	}
	if c.A(7) != 0x900C {
		t.Fatalf("A7 = %#x, want 0x900C (return long plus 8)", c.A(7))
	}
}

// TestRtdIllegalOn68000 checks the encoding is unassigned on the 68000.
func TestRtdIllegalOn68000(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	bus.writeWord(0x400, 0x4E74)
	if r := c.Step(); r.Kind != StepIllegalInstruction {
		t.Fatalf("kind = %v, want StepIllegalInstruction", r.Kind)
	}
}

// TestMoveFromCCR checks the 010+ MOVE CCR,<ea> form and its absence on
// the 68000.
func TestMoveFromCCR(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68010, bus)

	c.SetCCR(0x15)
	c.SetD(0, 0xFFFF0000)
	bus.writeWord(0x400, 0x42C0) // MOVE CCR,D0

	c.Step()
	if c.D(0)&0xFFFF != 0x15 {
		t.Fatalf("D0 = %#x, want CCR value 0x15 in the low word", c.D(0))
	}

	c68k := newResetCPU(M68000, newTestBus())
	b := c68k.bus.(*testBus)
	b.writeWord(0x400, 0x42C0)
	if r := c68k.Step(); r.Kind != StepIllegalInstruction {
		t.Fatalf("kind = %v, want StepIllegalInstruction on 68000", r.Kind)
	}
}

// TestMoveFromSRPrivilege checks MOVE SR,<ea> is unprivileged on the
// 68000 but privileged from the 68010 on.
func TestMoveFromSRPrivilege(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetSR(0x0000) // user mode: still allowed on the 68000
	c.SetA(7, 0x8000)
	bus.writeWord(0x400, 0x40C0) // MOVE SR,D0
	c.Step()
	if c.D(0)&0xFFFF != uint32(c.SR()) {
		t.Fatalf("D0 = %#x, want the live SR", c.D(0))
	}

	bus10 := newTestBus()
	bus10.writeLong(vecPrivilegeViolation*4, 0x00003000)
	c10 := newResetCPU(M68010, bus10)
	c10.SetSR(0x0000)
	c10.SetA(7, 0x8000)
	bus10.writeWord(0x400, 0x40C0)
	c10.Step()
	if c10.PC() != 0x3000 {
		t.Fatalf("PC = %#x, want 0x3000 (privileged on 010+)", c10.PC())
	}
}

// TestTrapvOnlyWhenVSet checks TRAPV's conditional trap.
func TestTrapvOnlyWhenVSet(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecTRAPV*4, 0x00002000)
	c := newResetCPU(M68000, bus)

	c.flags.V = 0
	bus.writeWord(0x400, 0x4E76) // TRAPV
	c.Step()
	if c.PC() != 0x402 {
		t.Fatalf("PC = %#x, want 0x402 (V clear, no trap)", c.PC())
	}

	c.flags.V = 1
	c.SetPC(0x400)
	c.Step()
	if c.PC() != 0x2000 {
		t.Fatalf("PC = %#x, want 0x2000 (V set traps)", c.PC())
	}
}

// TestAndiToSRDropsSupervisor checks ANDI to SR can drop to user mode,
// banking the stack pointer.
func TestAndiToSRDropsSupervisor(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetUSP(0x8000)
	bus.writeWord(0x400, 0x027C) // ANDI #~S,SR
	bus.writeWord(0x402, uint16(^srS))

	c.Step()
	if c.supervisor() {
		t.Fatal("clearing S via ANDI to SR must drop to user mode")
	}
	if c.A(7) != 0x8000 {
		t.Fatalf("A7 = %#x, want the USP 0x8000 after the bank switch", c.A(7))
	}
}

// TestOriToCCRSetsFlags checks the CCR immediate forms only touch the
// low byte.
func TestOriToCCRSetsFlags(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	bus.writeWord(0x400, 0x003C) // ORI #0x0F,CCR
	bus.writeWord(0x402, 0x000F)

	c.Step()
	if c.CCR()&0x0F != 0x0F {
		t.Fatalf("CCR = %#x, want NZVC all set", c.CCR())
	}
	if !c.supervisor() {
		t.Fatal("ORI to CCR must not touch the system byte")
	}
}
