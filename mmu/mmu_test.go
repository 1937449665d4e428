package mmu

import "testing"

type fakeCart struct {
	rom, ram []uint8
}

func (c *fakeCart) ReadROM(addr uint16) uint8 { return c.rom[addr] }
func (c *fakeCart) ReadRAM(addr uint16) uint8 { return c.ram[addr] }
func (c *fakeCart) WriteRAM(addr uint16, v uint8) { c.ram[addr] = v }

func TestRegionRouting(t *testing.T) {
	cart := &fakeCart{rom: make([]uint8, 0x8000), ram: make([]uint8, 0x2000)}
	cart.rom[0x0010] = 0xAA
	m := New(cart)

	cases := []struct {
		name string
		addr uint16
		set  bool
		val  uint8
	}{
		{"rom", 0x0010, false, 0xAA},
		{"vram", 0x8000, true, 0x11},
		{"extram", 0xA000, true, 0x22},
		{"wram", 0xC000, true, 0x33},
		{"echo", 0xE000, true, 0x33}, // aliases wram 0xC000
		{"oam", 0xFE00, true, 0x44},
		{"hram", 0xFF80, true, 0x55},
	}

	for _, tc := range cases {
		if tc.set {
			m.Set(tc.addr, tc.val)
		}
		if got := m.Get(tc.addr); got != tc.val {
			t.Errorf("%s: Get(%#04x) = %#02x, want %#02x", tc.name, tc.addr, got, tc.val)
		}
	}
}

func TestEchoAliasesWRAM(t *testing.T) {
	m := New(nil)
	m.Set(0xC005, 0x42)
	if got := m.Get(0xE005); got != 0x42 {
		t.Errorf("echo read = %#02x, want 0x42", got)
	}
	m.Set(0xE006, 0x99)
	if got := m.Get(0xC006); got != 0x99 {
		t.Errorf("wram read after echo write = %#02x, want 0x99", got)
	}
}

func TestPortsStructuredFields(t *testing.T) {
	m := New(nil)
	m.Set(0xFF40, 0x91) // LCDC
	if m.Ports.LCDC != 0x91 {
		t.Errorf("Ports.LCDC = %#02x, want 0x91", m.Ports.LCDC)
	}
	if got := m.Get(0xFF40); got != 0x91 {
		t.Errorf("Get(0xFF40) = %#02x, want 0x91", got)
	}
}

func TestLYIsReadOnly(t *testing.T) {
	m := New(nil)
	m.Ports.LY = 42
	m.Set(0xFF44, 99)
	if m.Ports.LY != 42 {
		t.Errorf("LY = %d after CPU write, want unchanged 42", m.Ports.LY)
	}
}

func TestModify(t *testing.T) {
	m := New(nil)
	m.Set(0xC000, 10)
	got := m.Modify(0xC000, func(v uint8) uint8 { return v + 1 })
	if got != 11 || m.Get(0xC000) != 11 {
		t.Errorf("Modify result/stored = %d/%d, want 11/11", got, m.Get(0xC000))
	}
}

func TestNoCartridgeReadsOpenBus(t *testing.T) {
	m := New(nil)
	if got := m.Get(0x0000); got != 0xFF {
		t.Errorf("ROM read with no cartridge = %#02x, want 0xFF", got)
	}
	if got := m.Get(0xA000); got != 0xFF {
		t.Errorf("ExtRAM read with no cartridge = %#02x, want 0xFF", got)
	}
}
