package m68k

// MmuFaultKind classifies a failure during PMMU translation.
type MmuFaultKind int

const (
	MmuConfigurationError MmuFaultKind = iota
	MmuIllegalOperation
	MmuAccessLevelViolation
	// MmuBusError is a physical bus error encountered while walking
	// descriptor tables (distinct from the logical-access bus error the
	// memory gateway itself can report).
	MmuBusError
)

// MmuFault is returned by mmuTranslate on any failure.
type MmuFault struct {
	Kind    MmuFaultKind
	Address uint32
}

// functionCode derives the 3-bit function code for the current access:
// user/supervisor data/program, per the active S bit and access kind.
func (c *CPU) functionCode(instruction bool) uint8 {
	base := uint8(fcUserData)
	if instruction {
		base = uint8(fcUserProgram)
	}
	if c.supervisor() {
		if instruction {
			return uint8(fcSupervisorProgram)
		}
		return uint8(fcSupervisorData)
	}
	return base
}

// EnablePMMU reports whether PMMU translation is currently active for
// memory accesses. The PTEST/PMOVE family flips this via TC bit 31.
func (c *CPU) EnablePMMU() bool { return c.pmmuEnabled }

// ttrMatches checks a single Transparent Translation Register against
// an address and function code, per spec.md §4.8's bit layout.
func ttrMatches(ttr uint32, addrHigh uint8, fc uint8) bool {
	const ttrEnable = 0x8000
	if ttr&ttrEnable == 0 {
		return false
	}
	base := uint8(ttr >> 24)
	addrMask := uint8(ttr >> 16)
	fcBase := uint8(ttr>>8) & 7
	fcMask := uint8(ttr>>2) & 7

	addrMatch := addrHigh&^addrMask == base&^addrMask
	fcMatch := fc&^fcMask == fcBase&^fcMask
	return addrMatch && fcMatch
}

// checkTransparentTranslation reports whether a TTR bypasses the page
// table walk for this access, per variant: 68030 shares TT0/TT1 across
// instruction and data; 68040 splits ITT0/ITT1 (instruction) from
// DTT0/DTT1 (data).
func (c *CPU) checkTransparentTranslation(addr uint32, instruction bool) bool {
	fc := c.functionCode(instruction)
	addrHigh := uint8(addr >> 24)
	switch c.cpuType {
	case M68EC030, M68030:
		return ttrMatches(c.tt0, addrHigh, fc) || ttrMatches(c.tt1, addrHigh, fc)
	case M68EC040, M68LC040, M68040:
		if instruction {
			return ttrMatches(c.itt0, addrHigh, fc) || ttrMatches(c.itt1, addrHigh, fc)
		}
		return ttrMatches(c.dtt0, addrHigh, fc) || ttrMatches(c.dtt1, addrHigh, fc)
	default:
		return false
	}
}

// mmuTranslate resolves a logical address to a physical one: TTR bypass
// first, then CRP/SRP table walk. Bypassed entirely (identity mapping)
// during exception-frame construction, per spec.md's MMU-reentrancy
// design note.
func (c *CPU) mmuTranslate(logical uint32, write, instruction bool) (uint32, *MmuFault) {
	if !c.hasPMMU || !c.pmmuEnabled {
		return logical, nil
	}
	if c.exceptionProcessing {
		return logical, nil
	}
	if c.checkTransparentTranslation(logical, instruction) {
		return logical, nil
	}

	useSRP := c.tc&0x02000000 != 0 && c.supervisor()
	rootAptr, rootLimit := c.crpAptr, c.crpLimit
	if useSRP {
		rootAptr, rootLimit = c.srpAptr, c.srpLimit
	}

	is := (c.tc >> 16) & 0xF
	abits := (c.tc >> 12) & 0xF
	bbits := (c.tc >> 8) & 0xF
	cbits := (c.tc >> 4) & 0xF

	topIndex := func(addr uint32, leftShift, bits uint32) uint32 {
		if bits == 0 {
			return 0
		}
		rshift := uint32(32)
		if bits < 32 {
			rshift = 32 - bits
		} else {
			rshift = 0
		}
		return (addr << leftShift) >> rshift
	}
	lowBits := func(addr uint32, shift uint32) uint32 {
		if shift >= 32 {
			return 0
		}
		return (addr << shift) >> shift
	}

	read32 := func(addr uint32) (uint32, *MmuFault) {
		if fb, ok := c.bus.(FallibleBus); ok {
			v, fault := fb.TryRead(Long, addr)
			if fault != nil {
				return 0, &MmuFault{Kind: MmuBusError, Address: fault.Address}
			}
			return v, nil
		}
		return c.bus.Read(Long, addr), nil
	}

	tofs := topIndex(logical, is, abits)
	var entry, mode uint32
	switch rootLimit & 3 {
	case 0, 1:
		return 0, &MmuFault{Kind: MmuConfigurationError, Address: logical}
	case 2:
		tofs *= 4
		e, ferr := read32(tofs + rootAptr&0xFFFFFFFC)
		if ferr != nil {
			return 0, ferr
		}
		entry, mode = e, e&3
	case 3:
		tofs *= 8
		hi, ferr := read32(tofs + rootAptr&0xFFFFFFFC)
		if ferr != nil {
			return 0, ferr
		}
		lo, ferr2 := read32(tofs + rootAptr&0xFFFFFFFC + 4)
		if ferr2 != nil {
			return 0, ferr2
		}
		entry, mode = lo, hi&3
	}

	tofs = topIndex(logical, is+abits, bbits)
	tptr := entry & 0xFFFFFFF0
	switch mode {
	case 0:
		return 0, &MmuFault{Kind: MmuAccessLevelViolation, Address: logical}
	case 1:
		base := entry & 0xFFFFFF00
		return lowBits(logical, is+abits) + base, nil
	case 2:
		tofs *= 4
		e, ferr := read32(tofs + tptr)
		if ferr != nil {
			return 0, ferr
		}
		entry, mode = e, e&3
	case 3:
		tofs *= 8
		hi, ferr := read32(tofs + tptr)
		if ferr != nil {
			return 0, ferr
		}
		lo, ferr2 := read32(tofs + tptr + 4)
		if ferr2 != nil {
			return 0, ferr2
		}
		entry, mode = lo, hi&3
	default:
		return 0, &MmuFault{Kind: MmuAccessLevelViolation, Address: logical}
	}

	tofs = topIndex(logical, is+abits+bbits, cbits)
	tptr = entry & 0xFFFFFFF0
	switch mode {
	case 0:
		return 0, &MmuFault{Kind: MmuAccessLevelViolation, Address: logical}
	case 1:
		base := entry & 0xFFFFFF00
		return lowBits(logical, is+abits+bbits) + base, nil
	case 2:
		tofs *= 4
		e, ferr := read32(tofs + tptr)
		if ferr != nil {
			return 0, ferr
		}
		entry, mode = e, e&3
	case 3:
		tofs *= 8
		hi, ferr := read32(tofs + tptr)
		if ferr != nil {
			return 0, ferr
		}
		lo, ferr2 := read32(tofs + tptr + 4)
		if ferr2 != nil {
			return 0, ferr2
		}
		entry, mode = lo, hi&3
	default:
		return 0, &MmuFault{Kind: MmuAccessLevelViolation, Address: logical}
	}

	if mode != 1 {
		return 0, &MmuFault{Kind: MmuAccessLevelViolation, Address: logical}
	}
	base := entry & 0xFFFFFF00
	return lowBits(logical, is+abits+bbits+cbits) + base, nil
}

// SetTC writes the Translation Control register. Bit 31 (enable) gates
// pmmuEnabled directly; disabling TC identity-maps every access.
func (c *CPU) SetTC(v uint32) {
	c.tc = v
	c.pmmuEnabled = c.hasPMMU && v&0x80000000 != 0
}

// TC returns the Translation Control register.
func (c *CPU) TC() uint32 { return c.tc }

// SetCRP writes the 64-bit CRP (user root pointer): aptr is the table
// base (low long), limit the descriptor-mode/limit word (high long).
func (c *CPU) SetCRP(limit, aptr uint32) { c.crpLimit, c.crpAptr = limit, aptr }

// SetSRP writes the 64-bit SRP (supervisor root pointer).
func (c *CPU) SetSRP(limit, aptr uint32) { c.srpLimit, c.srpAptr = limit, aptr }

// CRP / SRP return the current root pointer pairs.
func (c *CPU) CRP() (limit, aptr uint32) { return c.crpLimit, c.crpAptr }
func (c *CPU) SRP() (limit, aptr uint32) { return c.srpLimit, c.srpAptr }

// MMUSR returns the PMMU status register (legacy PMOVE target).
func (c *CPU) MMUSR() uint32 { return c.mmusr }

// SetMMUSR writes the PMMU status register.
func (c *CPU) SetMMUSR(v uint32) { c.mmusr = v }
