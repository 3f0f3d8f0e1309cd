package m68k

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var sstPath = flag.String("sstpath", "", "directory containing SST JSON test files")
var sstStrict = flag.Bool("sststrict", false, "run all SST tests including known failures")

// sstSkip lists JSON files that fail due to documented design choices.
// Remove entries as features are implemented to re-enable those tests.
var sstSkip = map[string]string{
	// The fixtures record the hardware's undefined N/V bits for invalid
	// BCD digits; the BCDMame convention used here covers the carry
	// threshold but not every undefined-bit corner.
	"ABCD.json": "undefined N/V corner cases beyond the MAME carry convention",
	"SBCD.json": "undefined N/V corner cases beyond the MAME carry convention",
	"NBCD.json": "undefined N/V corner cases beyond the MAME carry convention",

	// Address-error fixtures record the hardware 7-word frame byte
	// order; this core mirrors its reference's layout instead.
	"MOVE.w.json": "address-error frame layout differs from hardware byte order",
}

// sstState is one side (initial or final) of a SingleStepTests fixture.
type sstState struct {
	D0       uint32     `json:"d0"`
	D1       uint32     `json:"d1"`
	D2       uint32     `json:"d2"`
	D3       uint32     `json:"d3"`
	D4       uint32     `json:"d4"`
	D5       uint32     `json:"d5"`
	D6       uint32     `json:"d6"`
	D7       uint32     `json:"d7"`
	A0       uint32     `json:"a0"`
	A1       uint32     `json:"a1"`
	A2       uint32     `json:"a2"`
	A3       uint32     `json:"a3"`
	A4       uint32     `json:"a4"`
	A5       uint32     `json:"a5"`
	A6       uint32     `json:"a6"`
	USP      uint32     `json:"usp"`
	SSP      uint32     `json:"ssp"`
	SR       uint16     `json:"sr"`
	PC       uint32     `json:"pc"`
	Prefetch [2]uint16  `json:"prefetch"`
	RAM      [][]uint32 `json:"ram"`
}

func (s *sstState) d() [8]uint32 {
	return [8]uint32{s.D0, s.D1, s.D2, s.D3, s.D4, s.D5, s.D6, s.D7}
}

func (s *sstState) a() [7]uint32 {
	return [7]uint32{s.A0, s.A1, s.A2, s.A3, s.A4, s.A5, s.A6}
}

type sstTest struct {
	Name    string   `json:"name"`
	Initial sstState `json:"initial"`
	Final   sstState `json:"final"`
	Length  int      `json:"length"`
}

// sstPrefetchOffset compensates for the fixtures' prefetch-queue PC
// model: the recorded PC is two words ahead of the instruction being
// executed, while this core's PC sits at the instruction itself.
const sstPrefetchOffset = 4

// runSSTCase seeds a 68000 from an initial fixture state, steps one
// instruction, and diffs the result. A case that ends in a double-fault
// halt is skipped; whole fixture files whose address-error frames differ
// from this core's 7-word layout are listed in sstSkip.
func runSSTCase(t *testing.T, jt *sstTest) {
	t.Helper()

	bus := newTestBus()
	for _, entry := range jt.Initial.RAM {
		bus.mem[entry[0]&0xFFFFFF] = byte(entry[1])
	}
	// Construction reads SSP/PC from whatever the fixture RAM holds at
	// 0-7; the fixture state set below overwrites both.
	c := NewCPU(M68000, bus, WithBCDCompat(BCDMame))

	for i, v := range jt.Initial.d() {
		c.SetD(i, v)
	}
	for i, v := range jt.Initial.a() {
		c.SetA(i, v)
	}
	c.SetSR(jt.Initial.SR)
	if jt.Initial.SR&0x2000 != 0 {
		c.SetA(7, jt.Initial.SSP)
		c.SetUSP(jt.Initial.USP)
	} else {
		c.SetA(7, jt.Initial.USP)
		c.SetISP(jt.Initial.SSP)
	}
	c.SetPC(jt.Initial.PC - sstPrefetchOffset)

	c.StepWithHLE(NoOpHLE{})

	if c.Halted() {
		t.Skip("double-fault halt (frame layout not fixture-compatible)")
	}

	reg := c.Registers()
	for i, want := range jt.Final.d() {
		if reg.D[i] != want {
			t.Errorf("D%d = 0x%08X, want 0x%08X", i, reg.D[i], want)
		}
	}
	for i, want := range jt.Final.a() {
		if reg.A[i] != want {
			t.Errorf("A%d = 0x%08X, want 0x%08X", i, reg.A[i], want)
		}
	}

	if jt.Final.SR&0x2000 != 0 {
		if reg.A[7] != jt.Final.SSP {
			t.Errorf("A7/SSP = 0x%08X, want 0x%08X", reg.A[7], jt.Final.SSP)
		}
		if reg.USP != jt.Final.USP {
			t.Errorf("USP = 0x%08X, want 0x%08X", reg.USP, jt.Final.USP)
		}
	} else {
		if reg.A[7] != jt.Final.USP {
			t.Errorf("A7/USP = 0x%08X, want 0x%08X", reg.A[7], jt.Final.USP)
		}
		if reg.ISP != jt.Final.SSP {
			t.Errorf("SSP = 0x%08X, want 0x%08X", reg.ISP, jt.Final.SSP)
		}
	}

	if wantPC := jt.Final.PC - sstPrefetchOffset; reg.PC != wantPC {
		t.Errorf("PC = 0x%08X, want 0x%08X", reg.PC, wantPC)
	}
	if reg.SR != jt.Final.SR {
		t.Errorf("SR = 0x%04X, want 0x%04X (diff %04X)", reg.SR, jt.Final.SR, reg.SR^jt.Final.SR)
	}

	for _, entry := range jt.Final.RAM {
		addr := entry[0] & 0xFFFFFF
		if got, want := bus.mem[addr], byte(entry[1]); got != want {
			t.Errorf("RAM[0x%06X] = 0x%02X, want 0x%02X", addr, got, want)
		}
	}
}

func TestSSTRunner(t *testing.T) {
	if *sstPath == "" {
		t.Skip("no -sstpath provided")
	}

	entries, err := os.ReadDir(*sstPath)
	if err != nil {
		t.Fatalf("reading sstpath: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		fname := entry.Name()
		if reason, ok := sstSkip[fname]; ok && !*sstStrict {
			t.Run(fname, func(t *testing.T) {
				t.Skipf("known failure: %s (use -sststrict to run)", reason)
			})
			continue
		}
		t.Run(fname, func(t *testing.T) {
			t.Parallel()
			data, err := os.ReadFile(filepath.Join(*sstPath, fname))
			if err != nil {
				t.Fatalf("reading %s: %v", fname, err)
			}

			var tests []sstTest
			if err := json.Unmarshal(data, &tests); err != nil {
				t.Fatalf("parsing %s: %v", fname, err)
			}

			for i := range tests {
				jt := &tests[i]
				t.Run(jt.Name, func(t *testing.T) {
					runSSTCase(t, jt)
				})
			}
		})
	}
}
