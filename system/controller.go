package system

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nwidger/dmg01/joypad"
)

// buttonKeys and directionKeys map host keys onto the joypad's two
// four-bit nibbles, the same table-driven poll a controller façade
// uses to scan a physical pad.
var buttonKeys = [4]ebiten.Key{
	joypad.ButtonA:      ebiten.KeyZ,
	joypad.ButtonB:      ebiten.KeyX,
	joypad.ButtonSelect: ebiten.KeyShift,
	joypad.ButtonStart:  ebiten.KeyEnter,
}

var directionKeys = [4]ebiten.Key{
	joypad.ButtonRight: ebiten.KeyRight,
	joypad.ButtonLeft:  ebiten.KeyLeft,
	joypad.ButtonUp:    ebiten.KeyUp,
	joypad.ButtonDown:  ebiten.KeyDown,
}

// pollInput reads the host keyboard and pushes state into the joypad
// latch; called once per ebiten Update tick.
func (s *System) pollInput() {
	for bit, key := range buttonKeys {
		s.Joy.SetButton(uint8(bit), ebiten.IsKeyPressed(key))
	}
	for bit, key := range directionKeys {
		s.Joy.SetDirection(uint8(bit), ebiten.IsKeyPressed(key))
	}
}
