// Package cartridge implements the minimal ROM/external-RAM container the
// core needs at its boundary. Parsing cartridge headers, mapper bank
// switching, and save-RAM persistence are explicitly out of scope; this
// package only hands bytes across the mmu.Cartridge interface, the way
// a ROM container hands bytes across a mapper -- minus the header/bank
// logic.
package cartridge

import "fmt"

// Raw is a flat, unbanked cartridge: one ROM image plus one RAM image.
// A real implementation would dispatch on the cartridge header's mapper
// byte; that dispatch is a boundary concern this core delegates away,
// so Raw treats every cartridge as a single linear ROM/RAM pair.
type Raw struct {
	rom []uint8
	ram []uint8
}

// New wraps rom and ram directly; ram may be nil, in which case
// external-RAM reads return 0xFF and writes are discarded, matching
// real hardware's behavior when no cartridge RAM is present.
func New(rom, ram []uint8) *Raw {
	return &Raw{rom: rom, ram: ram}
}

// FromBytes loads a raw byte slice as a cartridge with size bytes of
// external RAM. No header is read or validated -- that parsing belongs
// to a ROM-loading collaborator outside this core.
func FromBytes(rom []uint8, ramSize int) *Raw {
	var ram []uint8
	if ramSize > 0 {
		ram = make([]uint8, ramSize)
	}
	return &Raw{rom: rom, ram: ram}
}

func (r *Raw) ReadROM(addr uint16) uint8 {
	if int(addr) >= len(r.rom) {
		return 0xFF
	}
	return r.rom[addr]
}

func (r *Raw) ReadRAM(off uint16) uint8 {
	if r.ram == nil || int(off) >= len(r.ram) {
		return 0xFF
	}
	return r.ram[off]
}

func (r *Raw) WriteRAM(off uint16, v uint8) {
	if r.ram == nil || int(off) >= len(r.ram) {
		return
	}
	r.ram[off] = v
}

// Info reports the loaded ROM and RAM sizes, mirroring the diagnostic
// surface a ROM container exposes for its own banks.
func (r *Raw) Info() string {
	return fmt.Sprintf("rom=%dKiB ram=%dKiB", len(r.rom)/1024, len(r.ram)/1024)
}
