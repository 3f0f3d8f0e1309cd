package m68k

import "testing"

// ackBus wraps testBus to record InterruptAcknowledge calls and return a
// programmable vector.
type ackBus struct {
	*testBus
	ackLevel  uint8
	ackCount  int
	vectorOut uint32
}

func (b *ackBus) InterruptAcknowledge(level uint8) uint32 {
	b.ackLevel = level
	b.ackCount++
	return b.vectorOut
}

// TestAutovectorInterrupt checks the autovector handshake: the bus
// returns 0xFFFFFFFF, so level 3 lands on vector 27.
func TestAutovectorInterrupt(t *testing.T) {
	bus := &ackBus{testBus: newTestBus(), vectorOut: 0xFFFFFFFF}
	bus.writeLong(0, 0x00010000)
	bus.writeLong(4, 0x00000400)
	bus.writeLong((24+3)*4, 0x00001500)
	c := NewCPU(M68000, bus)

	c.SetSR(0x2000) // drop the mask from 7 so level 3 is unmasked
	bus.fillNOPs(0x1500, 1)

	c.RequestInterrupt(3, nil)
	c.Step()

	if bus.ackCount != 1 || bus.ackLevel != 3 {
		t.Fatalf("acknowledge called %d times with level %d, want once with 3", bus.ackCount, bus.ackLevel)
	}
	if c.PC() != 0x1502 {
		t.Fatalf("PC = %#x, want 0x1502 (first handler instruction executed)", c.PC())
	}
	if c.flags.IM != 3 {
		t.Fatalf("interrupt mask = %d, want 3 (raised to serviced level)", c.flags.IM)
	}
	// The stacked PC is the interrupted instruction's address.
	if got := bus.Read(Long, c.A(7)+2); got != 0x400 {
		t.Fatalf("stacked PC = %#x, want 0x400", got)
	}
}

// TestInterruptMasking checks a level at or below the mask stays
// pending, while level 7 is never maskable.
func TestInterruptMasking(t *testing.T) {
	bus := &ackBus{testBus: newTestBus(), vectorOut: 0xFFFFFFFF}
	bus.writeLong(0, 0x00010000)
	bus.writeLong(4, 0x00000400)
	bus.writeLong((24+7)*4, 0x00001600)
	c := NewCPU(M68000, bus)
	// Reset leaves the mask at 7.

	bus.fillNOPs(0x400, 1)
	c.RequestInterrupt(3, nil)
	c.Step()
	if bus.ackCount != 0 {
		t.Fatal("level 3 must stay pending under mask 7")
	}
	if c.PC() != 0x402 {
		t.Fatalf("PC = %#x, want 0x402 (NOP executed, no interrupt)", c.PC())
	}

	c.RequestInterrupt(7, nil)
	c.Step()
	if bus.ackCount != 1 || bus.ackLevel != 7 {
		t.Fatal("level 7 must be serviced even at mask 7")
	}
}

// TestSuppliedVectorBypassesAcknowledge checks RequestInterrupt's
// explicit-vector form.
func TestSuppliedVectorBypassesAcknowledge(t *testing.T) {
	bus := &ackBus{testBus: newTestBus(), vectorOut: 0xFFFFFFFF}
	bus.writeLong(0, 0x00010000)
	bus.writeLong(4, 0x00000400)
	bus.writeLong(0x40*4, 0x00001700)
	c := NewCPU(M68000, bus)

	c.SetSR(0x2000)
	bus.fillNOPs(0x1700, 1)

	vec := uint8(0x40)
	c.RequestInterrupt(5, &vec)
	c.Step()

	if bus.ackCount != 0 {
		t.Fatal("supplied vector must bypass the acknowledge handshake")
	}
	if c.PC() != 0x1702 {
		t.Fatalf("PC = %#x, want 0x1702 (user-vector handler entered)", c.PC())
	}
}

// TestStopWakesOnInterrupt checks STOP parks the CPU until an unmasked
// interrupt arrives.
func TestStopWakesOnInterrupt(t *testing.T) {
	bus := newTestBus()
	bus.writeLong((24+7)*4, 0x00001800)
	c := newResetCPU(M68000, bus)

	bus.writeWord(0x400, 0x4E72) // STOP #0x2700
	bus.writeWord(0x402, 0x2700)
	bus.fillNOPs(0x1800, 1)

	c.Step()
	if !c.Stopped() {
		t.Fatal("expected stopped state after STOP")
	}

	r := c.Step()
	if r.Kind != StepStopped {
		t.Fatalf("kind = %v while parked, want StepStopped", r.Kind)
	}

	c.RequestInterrupt(7, nil)
	c.Step()
	if c.Stopped() {
		t.Fatal("NMI must wake a stopped CPU")
	}
	if c.PC() != 0x1802 {
		t.Fatalf("PC = %#x, want 0x1802 (handler instruction after wake)", c.PC())
	}
}

// TestMasterStackThrowawayFrame checks the 020 M=1 interrupt protocol:
// the primary frame lands on the master stack, then M is cleared and a
// format-1 throwaway frame is pushed on the interrupt stack.
func TestMasterStackThrowawayFrame(t *testing.T) {
	bus := &ackBus{testBus: newTestBus(), vectorOut: 0xFFFFFFFF}
	bus.writeLong(0, 0x00010000)
	bus.writeLong(4, 0x00000400)
	bus.writeLong((24+2)*4, 0x00001900)
	c := NewCPU(M68020, bus)

	c.SetISP(0x00020000)
	c.SetSR(0x3000 | 0x0100) // S=1, M=1, mask 1: master stack active
	c.SetA(7, 0x00018000)    // MSP
	bus.fillNOPs(0x1900, 1)

	c.RequestInterrupt(2, nil)
	c.Step()

	if c.flags.M != 0 {
		t.Fatal("M must be cleared when the throwaway frame is pushed")
	}

	r := c.Registers()
	if r.MSP != 0x18000-8 {
		t.Fatalf("MSP = %#x, want %#x (primary format-0 frame)", r.MSP, 0x18000-8)
	}
	isp := r.ISP
	if isp != 0x20000-8 {
		t.Fatalf("ISP = %#x, want %#x (throwaway frame)", isp, 0x20000-8)
	}
	if got := bus.Read(Word, isp+6); got != 0x1000|uint32(24+2)<<2 {
		t.Fatalf("throwaway format word = %#x, want %#x", got, 0x1000|(24+2)<<2)
	}
}
