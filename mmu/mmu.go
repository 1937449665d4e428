// Package mmu implements the DMG's flat 16-bit memory map, routing byte
// reads and writes to VRAM, OAM, I/O ports, work RAM, high RAM and the
// cartridge, the way a CPU-side memory façade routes addresses to PPU
// registers and the cartridge mapper.
package mmu

import "fmt"

// Cartridge is the external collaborator that backs ROM reads and
// external-RAM reads/writes. Loading/parsing a cartridge image is out of
// scope for the core (see cartridge.Raw for the minimal boundary
// implementation); the MMU only needs these three methods.
type Cartridge interface {
	ReadROM(addr uint16) uint8
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, v uint8)
}

// Memory region boundaries. https://gbdev.io/pandocs/Memory_Map.html
const (
	ROMEnd     = 0x7FFF
	VRAMStart  = 0x8000
	VRAMEnd    = 0x9FFF
	ExtRAMStart = 0xA000
	ExtRAMEnd  = 0xBFFF
	WRAMStart  = 0xC000
	WRAMEnd    = 0xDFFF
	EchoStart  = 0xE000
	EchoEnd    = 0xFDFF
	OAMStart   = 0xFE00
	OAMEnd     = 0xFE9F
	UnusedStart = 0xFEA0
	UnusedEnd  = 0xFEFF
	IOStart    = 0xFF00
	IOEnd      = 0xFF7F
	HRAMStart  = 0xFF80
	HRAMEnd    = 0xFFFE
	IEAddr     = 0xFFFF
)

// I/O port offsets within [IOStart, IOEnd], relative to 0xFF00.
const (
	PortJOYP = 0x00
	PortIF   = 0x0F
	PortLCDC = 0x40
	PortSTAT = 0x41
	PortSCY  = 0x42
	PortSCX  = 0x43
	PortLY   = 0x44
	PortLYC  = 0x45
	PortBGP  = 0x47
	PortWY   = 0x4A
	PortWX   = 0x4B
)

// Ports is the struct-backed view onto the I/O port region: writes to
// $FF40 update LCDC as a field, not just a byte in an array, so the PPU
// can read structured flags directly.
type Ports struct {
	JOYP uint8
	IF   uint8 // interrupt flag latch; no servicing, only HALT wake polls it
	LCDC uint8
	STAT uint8
	SCY  uint8
	SCX  uint8
	LY   uint8
	LYC  uint8
	BGP  uint8
	WY   uint8
	WX   uint8

	raw [0x80]uint8 // backing store for ports this core doesn't structure
}

// LCDC bit flags.
const (
	LCDCBGWindowEnable  = 1 << 0
	LCDCOBJEnable       = 1 << 1
	LCDCOBJSize         = 1 << 2
	LCDCBGTileMap       = 1 << 3
	LCDCBGWindowTileData = 1 << 4
	LCDCWindowEnable    = 1 << 5
	LCDCWindowTileMap   = 1 << 6
	LCDCEnable          = 1 << 7
)

// STAT mode values (bits 0-1).
const (
	ModeHBlank = iota
	ModeVBlank
	ModeSearching
	ModeTransferring
)

const statCoincidence = 1 << 2

// IF/IE interrupt bit positions ($FF0F / $FFFF). The core only
// maintains the latch; nothing dispatches a handler from it.
const (
	IFVBlank  = 1 << 0
	IFLCDSTAT = 1 << 1
	IFTimer   = 1 << 2
	IFSerial  = 1 << 3
	IFJoypad  = 1 << 4
)

// STAT interrupt-source enable bits (bits 3-6).
const (
	StatIntHBlank = 1 << 3
	StatIntVBlank = 1 << 4
	StatIntOAM    = 1 << 5
	StatIntLYC    = 1 << 6
)

func (p *Ports) read(off uint16) uint8 {
	switch off {
	case PortJOYP:
		return p.JOYP
	case PortIF:
		return p.IF
	case PortLCDC:
		return p.LCDC
	case PortSTAT:
		return p.STAT
	case PortSCY:
		return p.SCY
	case PortSCX:
		return p.SCX
	case PortLY:
		return p.LY
	case PortLYC:
		return p.LYC
	case PortBGP:
		return p.BGP
	case PortWY:
		return p.WY
	case PortWX:
		return p.WX
	}
	return p.raw[off]
}

func (p *Ports) write(off uint16, v uint8) {
	switch off {
	case PortJOYP:
		p.JOYP = v
	case PortIF:
		p.IF = v
	case PortLCDC:
		p.LCDC = v
	case PortSTAT:
		// bottom two mode bits and coincidence are PPU-owned; a CPU
		// write only affects the interrupt-enable bits above them.
		p.STAT = (p.STAT & 0x07) | (v &^ 0x07)
	case PortSCY:
		p.SCY = v
	case PortSCX:
		p.SCX = v
	case PortLY:
		// read-only on real hardware; writes are discarded.
	case PortLYC:
		p.LYC = v
	case PortBGP:
		p.BGP = v
	case PortWY:
		p.WY = v
	case PortWX:
		p.WX = v
	default:
		p.raw[off] = v
	}
}

// Mode returns the current STAT mode (bits 0-1).
func (p *Ports) Mode() uint8 { return p.STAT & 0x03 }

// SetMode overwrites the STAT mode bits, leaving the rest of STAT intact.
func (p *Ports) SetMode(m uint8) { p.STAT = (p.STAT & 0xFC) | (m & 0x03) }

// Coincidence reports the current LY==LYC flag (STAT bit 2).
func (p *Ports) Coincidence() bool { return p.STAT&statCoincidence != 0 }

// SetCoincidence sets or clears the LY==LYC flag (STAT bit 2).
func (p *Ports) SetCoincidence(v bool) {
	if v {
		p.STAT |= statCoincidence
	} else {
		p.STAT &^= statCoincidence
	}
}

// MMU is the DMG's flat 16-bit address space.
type MMU struct {
	cart Cartridge
	vram [VRAMEnd - VRAMStart + 1]uint8
	oam  [OAMEnd - OAMStart + 1]uint8
	wram [WRAMEnd - WRAMStart + 1]uint8
	hram [HRAMEnd - HRAMStart + 1]uint8
	Ports Ports
	IE    uint8
}

// New returns an MMU backed by the given cartridge. A nil cartridge is
// valid for unit tests that never touch ROM/external-RAM addresses.
func New(cart Cartridge) *MMU {
	return &MMU{cart: cart}
}

// Get reads a byte at addr. Every region is covered; there is no
// out-of-range case because addr is a full 16-bit value.
func (m *MMU) Get(addr uint16) uint8 {
	switch {
	case addr <= ROMEnd:
		return m.cartRead(addr)
	case addr <= VRAMEnd:
		return m.vram[addr-VRAMStart]
	case addr <= ExtRAMEnd:
		return m.cartRAMRead(addr)
	case addr <= WRAMEnd:
		return m.wram[addr-WRAMStart]
	case addr <= EchoEnd:
		return m.wram[addr-EchoStart]
	case addr <= OAMEnd:
		return m.oam[addr-OAMStart]
	case addr <= UnusedEnd:
		return 0xFF
	case addr <= IOEnd:
		return m.Ports.read(addr - IOStart)
	case addr <= HRAMEnd:
		return m.hram[addr-HRAMStart]
	default: // IEAddr
		return m.IE
	}
}

// Set writes a byte at addr. Writes into the ROM region are silently
// discarded here; a cartridge with bank-switching logic would
// reinterpret such a write, but that's out of scope.
func (m *MMU) Set(addr uint16, v uint8) {
	switch {
	case addr <= ROMEnd:
		// discarded: no mapper/bank-switch logic in this core.
	case addr <= VRAMEnd:
		m.vram[addr-VRAMStart] = v
	case addr <= ExtRAMEnd:
		m.cartRAMWrite(addr, v)
	case addr <= WRAMEnd:
		m.wram[addr-WRAMStart] = v
	case addr <= EchoEnd:
		m.wram[addr-EchoStart] = v
	case addr <= OAMEnd:
		m.oam[addr-OAMStart] = v
	case addr <= UnusedEnd:
		// discarded
	case addr <= IOEnd:
		m.Ports.write(addr-IOStart, v)
	case addr <= HRAMEnd:
		m.hram[addr-HRAMStart] = v
	default: // IEAddr
		m.IE = v
	}
}

// Modify is a read-modify-write primitive used in place of exposing a
// raw pointer into the address space: it preserves I/O side-effect
// semantics for ops like INC (HL)/DEC (HL) that must read the old
// value, compute flags, then write back through the same path.
func (m *MMU) Modify(addr uint16, fn func(uint8) uint8) uint8 {
	old := m.Get(addr)
	nv := fn(old)
	m.Set(addr, nv)
	return nv
}

func (m *MMU) cartRead(addr uint16) uint8 {
	if m.cart == nil {
		return 0xFF
	}
	return m.cart.ReadROM(addr)
}

func (m *MMU) cartRAMRead(addr uint16) uint8 {
	if m.cart == nil {
		return 0xFF
	}
	return m.cart.ReadRAM(addr - ExtRAMStart)
}

func (m *MMU) cartRAMWrite(addr uint16, v uint8) {
	if m.cart == nil {
		return
	}
	m.cart.WriteRAM(addr-ExtRAMStart, v)
}

// VRAMByte is a debug accessor used by the PPU's preview renderer and
// tests; it bypasses no side effects since VRAM has none.
func (m *MMU) VRAMByte(off uint16) uint8 {
	if off > VRAMEnd-VRAMStart {
		panic(fmt.Sprintf("mmu: vram offset %#x out of range", off))
	}
	return m.vram[off]
}
