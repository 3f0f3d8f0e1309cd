package m68k

import "testing"

// TestTTRBypassIdentityMaps checks a matching transparent translation
// register skips the table walk entirely: with a config-error root
// pointer installed, only the TTR window stays accessible.
func TestTTRBypassIdentityMaps(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecMMUConfigError*4, 0x00002000)
	c := newResetCPU(M68030, bus)

	c.SetCRP(0, 0) // limit mode 0: any walk is a configuration error
	c.SetTC(0x80000000)

	// TT0: base 0x00, address mask 0x00 (exact), enabled, fc mask 7
	// (function code ignored).
	c.tt0 = 0x0000801C

	bus.writeLong(0x3000, 0xCAFEBABE)
	if got := c.readBus(Long, 0x3000, false); got != 0xCAFEBABE {
		t.Fatalf("TTR-mapped read = %#x, want 0xCAFEBABE", got)
	}
	if c.mode != runNormal {
		t.Fatal("TTR bypass must not fault")
	}
}

// TestWalkConfigurationError checks a root pointer in short-form mode
// (limit bits 0/1) raises the MMU configuration-error exception.
func TestWalkConfigurationError(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecMMUConfigError*4, 0x00002000)
	c := newResetCPU(M68030, bus)

	c.SetCRP(0, 0x8000)
	c.SetTC(0x80000000)

	c.snapshotInstruction()
	c.readBus(Long, 0x3000, false)

	if c.PC() != 0x2000 {
		t.Fatalf("PC = %#x, want 0x2000 (MMU configuration-error handler)", c.PC())
	}
}

// TestWalkEarlyTermination4Byte checks a level-A early-termination
// descriptor in a 4-byte table: the entry's high bits become the page
// base and the remaining logical bits pass through.
func TestWalkEarlyTermination4Byte(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68030, bus)

	// TC: enable, is=0, abits=8, bbits=0, cbits=0.
	c.SetTC(0x80000000 | 8<<12)
	c.SetCRP(2, 0x8000) // 4-byte descriptors, table at 0x8000

	// Logical 0x00401000 -> A index = top 8 bits = 0x00.
	bus.writeLong(0x8000, 0x00100001) // mode 1: early termination, base 0x100000
	bus.writeLong(0x501000, 0xFEEDC0DE)

	if got := c.readBus(Long, 0x00401000, false); got != 0xFEEDC0DE {
		t.Fatalf("translated read = %#x, want 0xFEEDC0DE", got)
	}
	if c.mode != runNormal {
		t.Fatal("walk must not fault")
	}
}

// TestWalkTwoLevel8ByteRoot checks an 8-byte root descriptor pointing at
// a 4-byte B table whose entry terminates the walk.
func TestWalkTwoLevel8ByteRoot(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68030, bus)

	// TC: enable, is=0, abits=4, bbits=4.
	c.SetTC(0x80000000 | 4<<12 | 4<<8)
	c.SetCRP(3, 0x8000) // 8-byte root descriptors

	// Logical 0x00401000: A index = top 4 bits = 0, B index = next 4 = 0.
	bus.writeLong(0x8000, 0x00000002) // descriptor mode long: mode 2 (4-byte next table)
	bus.writeLong(0x8004, 0x00009000) // pointer to the B table
	bus.writeLong(0x9000, 0x00200001) // B entry: early termination, base 0x200000
	bus.writeLong(0x601000, 0x0BADF00D)

	if got := c.readBus(Long, 0x00401000, false); got != 0x0BADF00D {
		t.Fatalf("translated read = %#x, want 0x0BADF00D", got)
	}
}

// TestWalkInvalidDescriptorFaults checks a mode-0 descriptor surfaces as
// an access-level violation (vector 58).
func TestWalkInvalidDescriptorFaults(t *testing.T) {
	bus := newTestBus()
	bus.writeLong(vecMMUAccessLevel*4, 0x00002100)
	c := newResetCPU(M68030, bus)

	c.SetTC(0x80000000 | 8<<12)
	c.SetCRP(2, 0x8000)
	bus.writeLong(0x8000, 0x00000000) // mode 0: invalid

	c.snapshotInstruction()
	c.readBus(Long, 0x00401000, false)

	if c.PC() != 0x2100 {
		t.Fatalf("PC = %#x, want 0x2100 (access-level-violation handler)", c.PC())
	}
}

// TestSRPSelectedForSupervisor checks TC bit 25 routes supervisor
// accesses through SRP while CRP would fault.
func TestSRPSelectedForSupervisor(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68030, bus)

	c.SetTC(0x80000000 | 0x02000000 | 8<<12)
	c.SetCRP(0, 0)      // would be a configuration error if consulted
	c.SetSRP(2, 0x8000) // valid supervisor root

	bus.writeLong(0x8000, 0x00100001)
	bus.writeLong(0x501000, 0x12344321)

	if got := c.readBus(Long, 0x00401000, false); got != 0x12344321 {
		t.Fatalf("SRP-translated read = %#x, want 0x12344321", got)
	}
}

// TestMMUBypassedDuringExceptionProcessing checks the reentrancy guard:
// frame construction must not be translated.
func TestMMUBypassedDuringExceptionProcessing(t *testing.T) {
	bus := newTestBus()
	c := newResetCPU(M68030, bus)

	c.SetTC(0x80000000) // enabled with a garbage root
	c.exceptionProcessing = true

	bus.writeLong(0x3000, 0x55AA55AA)
	if got := c.readBus(Long, 0x3000, false); got != 0x55AA55AA {
		t.Fatalf("read during exception processing = %#x, want identity-mapped 0x55AA55AA", got)
	}
	c.exceptionProcessing = false
}

// TestWalkBusErrorBecomesBusError checks a descriptor fetch that faults
// on the bus surfaces as a 68k bus-error exception.
func TestWalkBusErrorBecomesBusError(t *testing.T) {
	bus := &faultyBus{testBus: newTestBus(), faultAddr: 0x8000}
	bus.writeLong(0, 0x00010000)
	bus.writeLong(4, 0x00000400)
	bus.writeLong(vecBusError*4, 0x00002200)
	c := NewCPU(M68030, bus)

	c.SetTC(0x80000000 | 8<<12)
	c.SetCRP(2, 0x8000) // descriptor fetch at 0x8000 will bus-error

	c.snapshotInstruction()
	c.readBus(Long, 0x00401000, false)

	if c.PC() != 0x2200 {
		t.Fatalf("PC = %#x, want 0x2200 (bus-error handler)", c.PC())
	}
}
