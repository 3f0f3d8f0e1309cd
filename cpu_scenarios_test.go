package m68k

import "testing"

// TestMove16Misalignment covers end-to-end scenario (b): MOVE16 on
// unaligned pointers takes an address-error exception rather than
// transferring the 16-byte block.
func TestMove16Misalignment(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecAddressError*4, 0x00002500)
	c := newResetCPU(M68040, bus)

	c.SetA(0, 0x0101)
	c.SetA(1, 0x0201)
	bus.writeWord(0x400, 0xF620) // MOVE16 (A0)+,(A1)+
	bus.writeWord(0x402, 0x1000) // ext: Ay=1 in bits 15-12

	c.Step()

	if c.PC() != 0x2500 {
		t.Fatalf("PC = %#x, want 0x2500 (address-error handler)", c.PC())
	}
	if c.A(0) != 0x0101 {
		t.Fatalf("A0 = %#x, want unchanged 0x0101", c.A(0))
	}
	if c.A(1) != 0x0201 {
		t.Fatalf("A1 = %#x, want unchanged 0x0201", c.A(1))
	}
}

// TestPmmuDisabledIdentityMaps covers end-to-end scenario (f): loading a
// TC value with the enable bit (31) clear must leave pmmuEnabled false,
// so memory accesses stay identity-mapped.
func TestPmmuDisabledIdentityMaps(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68030, bus)

	c.SetTC(0x00000000) // bit 31 clear: PMMU stays disabled
	if c.EnablePMMU() {
		t.Fatal("pmmuEnabled should remain false with TC bit 31 clear")
	}

	bus.writeLong(0x3000, 0xCAFEBABE)
	if got := c.readBus(Long, 0x3000, false); got != 0xCAFEBABE {
		t.Fatalf("identity-mapped read = %#x, want 0xCAFEBABE", got)
	}
}

// TestPmovePmmuRegisters exercises PMOVE to and from TC plus the 64-bit
// CRP register pair through a memory effective address.
func TestPmovePmmuRegisters(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68030, bus)

	c.SetA(0, 0x4000)

	// PMOVE CRP,(A0) first, while translation is still disabled.
	c.SetCRP(0x00000002, 0x00005000)
	bus.writeWord(0x400, 0xF010) // PMOVE CRP,(A0)
	bus.writeWord(0x402, 0x0400) // preg=CRP(001)<<10, dir bit9=0 (store)

	c.Step()
	if got := bus.Read(Long, 0x4000); got != 0x00000002 {
		t.Fatalf("CRP limit word in memory = %#x, want 0x00000002", got)
	}
	if got := bus.Read(Long, 0x4004); got != 0x00005000 {
		t.Fatalf("CRP aptr word in memory = %#x, want 0x00005000", got)
	}

	// Identity-map everything through an early-termination root entry so
	// execution can continue once TC turns translation on.
	bus.writeLong(0x5000, 0x00000001)

	c.SetA(1, 0x4800)
	bus.writeLong(0x4800, 0x80000000) // TC value with enable bit set
	bus.writeWord(0x404, 0xF011)      // PMOVE (A1),TC
	bus.writeWord(0x406, 0x0200)      // preg=TC(000), dir bit9=1 (load)

	c.Step()
	if c.TC() != 0x80000000 {
		t.Fatalf("TC = %#x, want 0x80000000 after PMOVE load", c.TC())
	}
	if !c.EnablePMMU() {
		t.Fatal("PMMU should be enabled once TC bit 31 is set via PMOVE")
	}
}

// TestAddxStickyZ covers testable property 5: Z stays clear across an
// ADDX chain once any partial result is non-zero, even when a later
// partial result in the same chain happens to be zero.
func TestAddxStickyZ(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68000, bus)

	c.SetD(0, 5)
	c.SetD(1, 3) // D0 = D0 + D1 + X(0) = 8: non-zero, clears Z for good

	bus.writeWord(0x400, 0xD181) // ADDX.L D1,D0
	bus.writeWord(0x402, 0xD583) // ADDX.L D3,D2

	c.Step()
	if c.flags.NotZ == 0 {
		t.Fatal("Z should be clear after first ADDX with a non-zero result")
	}

	// Force X so the second ADDX's partial result wraps to exactly zero;
	// sticky Z must not re-set Z just because this partial happened to
	// land on zero.
	c.flags.X = 1
	c.SetD(2, 0xFFFFFFFF)
	c.SetD(3, 0x00000000)

	c.Step()
	if c.flags.NotZ == 0 {
		t.Fatal("sticky Z: a later zero partial must not re-set Z once cleared")
	}
}

// TestDoubleFaultHalts covers testable property 8: an exception raised
// while another exception is already building its frame halts the CPU.
func TestDoubleFaultHalts(t *testing.T) {
	bus := newTestBus()
	// exceptionProcessing is forced on to stand in for an exception that
	// is still building its frame; the address error raised on top of it
	// must halt before laying down a second frame.
	c := newResetCPU(M68000, bus)
	c.exceptionProcessing = true

	c.faultAddressError(0x1001, false, true)

	if !c.halted {
		t.Fatal("expected halted=true after a fault during exception processing")
	}
	if c.mode != runBerrAerrReset {
		t.Fatal("expected run_mode to remain in the fault state after double fault")
	}
}
