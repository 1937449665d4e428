package cpu

import "testing"

// flatMem is a full 64KiB array satisfying the Memory interface, with
// no I/O side effects -- enough for exercising the interpreter in
// isolation from the mmu package.
type flatMem struct {
	data [0x10000]uint8
}

func (m *flatMem) Get(addr uint16) uint8  { return m.data[addr] }
func (m *flatMem) Set(addr uint16, v uint8) { m.data[addr] = v }
func (m *flatMem) Modify(addr uint16, fn func(uint8) uint8) uint8 {
	v := fn(m.data[addr])
	m.data[addr] = v
	return v
}

func newTestCPU() (*CPU, *flatMem) {
	m := &flatMem{}
	return New(m), m
}

func load(m *flatMem, pc uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.data[pc+uint16(i)] = b
	}
}

func TestAddFlags(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.A = 0x3A
	c.B = 0xC6
	load(m, c.PC, 0x80) // ADD A,B

	res := c.Step()

	if c.A != 0x00 {
		t.Errorf("A = %#02x, want 0x00", c.A)
	}
	if !c.Flag(FlagZ) || c.Flag(FlagN) || !c.Flag(FlagH) || !c.Flag(FlagC) {
		t.Errorf("flags = %04b, want Z=1 N=0 H=1 C=1", c.F>>4)
	}
	if res.Length != 1 || res.Duration != 4 {
		t.Errorf("Length/Duration = %d/%d, want 1/4", res.Length, res.Duration)
	}
}

func TestIncHalfCarry(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.C = 0x0F
	load(m, c.PC, 0x0C) // INC C

	c.Step()

	if c.C != 0x10 {
		t.Errorf("C = %#02x, want 0x10", c.C)
	}
	if c.Flag(FlagZ) || c.Flag(FlagN) || !c.Flag(FlagH) {
		t.Errorf("flags = %04b, want Z=0 N=0 H=1", c.F>>4)
	}
}

func TestAddHL16(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.SetHL(0x8A23)
	c.SetBC(0x0605)
	load(m, c.PC, 0x09) // ADD HL,BC

	c.Step()

	if c.HL() != 0x9028 {
		t.Errorf("HL = %#04x, want 0x9028", c.HL())
	}
	if !c.Flag(FlagH) || c.Flag(FlagC) {
		t.Errorf("flags H/C = %v/%v, want true/false", c.Flag(FlagH), c.Flag(FlagC))
	}
}

func TestDAAAfterAdd(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.A = 0x45
	c.B = 0x38
	load(m, c.PC, 0x80, 0x27) // ADD A,B; DAA

	c.Step()
	c.Step()

	if c.A != 0x83 {
		t.Errorf("A = %#02x, want 0x83", c.A)
	}
	if c.Flag(FlagN) || c.Flag(FlagH) || c.Flag(FlagC) || c.Flag(FlagZ) {
		t.Errorf("flags = %04b, want all clear", c.F>>4)
	}
}

func TestJRSignedDisplacement(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	load(m, c.PC, 0x18, 0xFC) // JR -4

	res := c.Step()

	if c.PC != 0x0FE {
		t.Errorf("PC = %#04x, want 0x00FE", c.PC)
	}
	if res.Length != 2 {
		t.Errorf("Length = %d, want 2", res.Length)
	}
}

func TestConditionalBranchDuration(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.SetFlag(FlagZ, false)
	load(m, c.PC, 0x28, 0x10) // JR Z,+16 -- not taken

	res := c.Step()

	if res.Duration != 8 {
		t.Errorf("Duration = %d, want 8 (not taken)", res.Duration)
	}
	if c.PC != 0x102 {
		t.Errorf("PC = %#04x, want 0x0102", c.PC)
	}
}

func TestCPLRoundTrips(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.A = 0x5A
	load(m, c.PC, 0x2F, 0x2F) // CPL; CPL

	c.Step()
	c.Step()

	if c.A != 0x5A {
		t.Errorf("A = %#02x after double CPL, want 0x5A", c.A)
	}
	if !c.Flag(FlagN) || !c.Flag(FlagH) {
		t.Error("double CPL should leave N and H set")
	}
}

func TestCCFRoundTrips(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.SetFlag(FlagC, true)
	load(m, c.PC, 0x3F, 0x3F) // CCF; CCF

	c.Step()
	c.Step()

	if !c.Flag(FlagC) {
		t.Error("CCF;CCF should restore the original carry")
	}
}

func TestCallAndRet(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.SP = 0xFFFE
	load(m, c.PC, 0xCD, 0x00, 0x02) // CALL 0x0200
	load(m, 0x0200, 0xC9)          // RET

	res := c.Step()
	if c.PC != 0x0200 {
		t.Fatalf("PC after CALL = %#04x, want 0x0200", c.PC)
	}
	if res.Duration != 24 {
		t.Errorf("CALL duration = %d, want 24", res.Duration)
	}

	c.Step()
	if c.PC != 0x0103 {
		t.Errorf("PC after RET = %#04x, want 0x0103", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("SP after CALL;RET = %#04x, want 0xFFFE", c.SP)
	}
}

func TestCBBitOpsOnMemory(t *testing.T) {
	c, m := newTestCPU()
	c.PC = 0x100
	c.SetHL(0x9000)
	m.data[0x9000] = 0x00
	load(m, c.PC, 0xCB, 0xC6) // SET 0,(HL)

	res := c.Step()

	if m.data[0x9000] != 0x01 {
		t.Errorf("(HL) = %#02x, want 0x01", m.data[0x9000])
	}
	if res.Duration != 16 {
		t.Errorf("Duration = %d, want 16", res.Duration)
	}
}
