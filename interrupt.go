package m68k

// pollInterrupt is called once per Step, before fetching the next
// opcode: compare the pending level against the interrupt mask and
// service it if unmasked (level 7 is always serviced, non-maskable).
// A requested level stays latched until it is serviced, and servicing
// clears it; it is not re-sampled from the host afterwards. Requests are
// sampled only between instructions, never mid-instruction, matching the
// host contract in spec.md §5.
func (c *CPU) pollInterrupt() {
	if c.pendingLevel == 0 {
		return
	}
	if uint32(c.pendingLevel) > c.flags.IM || c.pendingLevel == 7 {
		c.serviceInterrupt()
	}
}

// serviceInterrupt builds the interrupt exception frame, calling the
// host's InterruptAcknowledge to resolve the vector. On 68020+ with M=1
// (the interrupted context was running on the master stack, S=1 and
// M=1), a throwaway format-1 frame is pushed on ISP after the
// primary frame, per spec.md §4.6.
func (c *CPU) serviceInterrupt() {
	level := c.pendingLevel
	vec := c.pendingVec
	c.pendingLevel = 0
	c.pendingVec = nil

	if c.exceptionProcessing {
		c.stopped = true
		c.halted = true
		c.mode = runBerrAerrReset
		return
	}
	c.exceptionProcessing = true
	defer func() { c.exceptionProcessing = false }()

	wasM := c.flags.M != 0 && c.flags.S != 0

	oldSR := c.assembleSR()
	c.enterSupervisor()
	c.flags.IM = uint32(level)

	// A vector supplied with RequestInterrupt short-circuits the
	// acknowledge handshake; otherwise ask the bus, with 0xFFFFFFFF
	// meaning autovector.
	var vectorNum uint8
	if vec != nil {
		vectorNum = *vec
	} else if raw := c.bus.InterruptAcknowledge(level); raw == 0xFFFFFFFF {
		vectorNum = uint8(24 + level)
	} else {
		vectorNum = uint8(raw)
	}

	stackedPC := c.reg.PC

	if c.cpuType == M68000 {
		c.pushLong(stackedPC)
		c.pushWord(oldSR)
	} else {
		c.pushWord(uint16(vectorNum) << 2)
		c.pushLong(stackedPC)
		c.pushWord(oldSR)
	}

	if c.cpuType.atLeast020() && wasM {
		// The interrupted context ran with M=1 (on the master stack).
		// Move to the interrupt stack (clear M) and leave a throwaway
		// format-1 frame behind on it, with the old SR's S-bit forced
		// set (it was already supervisor, since M is only meaningful
		// in supervisor mode).
		oldM := c.flags.M
		c.flags.M = 0
		c.bankStack(1, oldM)
		throwawaySR := oldSR | srS
		c.pushWord(0x1000 | (uint16(vectorNum) << 2))
		c.pushLong(0)
		c.pushWord(throwawaySR)
	}

	c.jumpVector(int(vectorNum))

	c.stopped = false
	c.cycles += uint64(exceptionCycles(int(vectorNum)))
}
