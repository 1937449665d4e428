// Package system wires the CPU, PPU, MMU and joypad into a runnable
// whole, and implements the ebiten.Game interface so the host driver
// can hand it straight to ebiten.RunGame.
package system

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nwidger/dmg01/cpu"
	"github.com/nwidger/dmg01/joypad"
	"github.com/nwidger/dmg01/mmu"
	"github.com/nwidger/dmg01/ppu"
)

// System owns one DMG's worth of state: CPU, PPU, memory map, and the
// joypad latch the CPU reads through $FF00.
type System struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	MMU *mmu.MMU
	Joy *joypad.State

	ticks uint64
}

// New returns a System with cart mapped in as ROM/external-RAM and the
// ebiten window sized to a 3x-scaled DMG screen.
func New(cart mmu.Cartridge) *System {
	m := mmu.New(cart)
	s := &System{
		MMU: m,
		CPU: cpu.New(m),
		PPU: ppu.New(m),
		Joy: joypad.New(),
	}

	ebiten.SetWindowSize(ppu.ScreenWidth*3, ppu.ScreenHeight*3)
	ebiten.SetWindowTitle("dmg01")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return s
}

// Step executes one CPU instruction, advances the PPU by the dots it
// took, and syncs the joypad latch. It returns whether a frame was
// just completed: callers loop Step until the framebuffer is ready.
func (s *System) Step() bool {
	s.syncJoypad()
	res := s.CPU.Step()
	frameReady := s.PPU.Tick(res.Duration)
	s.ticks++
	return frameReady
}

// syncJoypad feeds the select bits the CPU last wrote to $FF00 into
// the joypad latch and writes back the resulting nibble, so the next
// CPU read of $FF00 sees live button state. This isn't cycle-exact --
// the CPU could in principle observe a button change mid-instruction
// -- but is observationally sufficient for anything polling the port.
func (s *System) syncJoypad() {
	s.Joy.Write(s.MMU.Ports.JOYP)
	s.MMU.Ports.JOYP = s.Joy.Read()
}

// Run steps the system until ctx is cancelled, on its own goroutine so
// the ebiten event loop and the emulation loop don't block each other.
func (s *System) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.Step()
		}
	}
}

// RunFrame steps until exactly one frame has been composed or maxSteps
// instructions have run (a runaway-loop backstop for callers driving
// frame-by-frame instead of through Run).
func (s *System) RunFrame(maxSteps int) {
	for i := 0; i < maxSteps; i++ {
		if s.Step() {
			return
		}
	}
}

// Layout implements ebiten.Game: the DMG's native resolution, which
// ebiten then scales to fit the window.
func (s *System) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

// Draw implements ebiten.Game: blit the PPU's composed framebuffer.
func (s *System) Draw(screen *ebiten.Image) {
	px := s.PPU.Pixels()
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			c := px[y*ppu.ScreenWidth+x]
			screen.Set(x, y, c)
		}
	}
}

// Update implements ebiten.Game. The emulation runs on its own
// goroutine via Run; Update only needs to poll input.
func (s *System) Update() error {
	s.pollInput()
	return nil
}
