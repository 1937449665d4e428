package system

import "testing"

type blankCart struct{ rom []uint8 }

func (c *blankCart) ReadROM(addr uint16) uint8    { return c.rom[addr] }
func (c *blankCart) ReadRAM(addr uint16) uint8    { return 0xFF }
func (c *blankCart) WriteRAM(addr uint16, v uint8) {}

func TestStepInvariants(t *testing.T) {
	rom := make([]uint8, 0x8000) // all zero bytes = NOP
	sys := New(&blankCart{rom: rom})

	for i := 0; i < 1000; i++ {
		pcBefore := sys.CPU.PC
		sys.Step()
		if sys.CPU.PC != pcBefore+1 {
			t.Fatalf("step %d: PC advanced by %d, want 1 (NOP)", i, sys.CPU.PC-pcBefore)
		}
		ly := sys.MMU.Ports.LY
		if ly >= 154 {
			t.Fatalf("step %d: LY = %d, want < 154", i, ly)
		}
	}
}

func TestJoypadSyncRoundTrips(t *testing.T) {
	rom := make([]uint8, 0x8000)
	sys := New(&blankCart{rom: rom})

	sys.Joy.SetButton(0, true) // A pressed
	sys.MMU.Ports.JOYP = 0x10  // CPU selected the buttons nibble
	sys.Step()

	if sys.MMU.Ports.JOYP&0x01 != 0 {
		t.Error("JOYP bit 0 should read pressed (0) for button A after sync")
	}
}
