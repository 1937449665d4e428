// Package ppu implements the DMG picture-processing unit: a dot-clock
// driven scanline state machine (search OAM / transfer / hblank / vblank)
// that composes background and window tiles into a 160x144 framebuffer,
// in the same tick-driven, register-map style a scanline-based PPU
// implementation uses for its own render loop and system-palette lookup.
package ppu

import (
	"image/color"

	"github.com/nwidger/dmg01/mmu"
)

// Display constants. https://gbdev.io/pandocs/Rendering.html
const (
	ScreenWidth  = 160
	ScreenHeight = 144

	DotsPerLine   = 456
	LinesPerFrame = 154
	DotsPerFrame  = DotsPerLine * LinesPerFrame // 70224

	vblankStartLine = 144

	searchDots   = 80  // mode 2: OAM search
	transferDots = 211 // mode 3: pixel transfer
	// remaining dots in the line (165) are mode 0: hblank
)

// dmgPalette maps a 2-bit shade (post-BGP) to the classic four-shade
// DMG grayscale, lightest (00) to darkest (11). color.RGBA implements
// color.Color directly, so the framebuffer can be blitted straight
// into an ebiten/image.Image without a conversion step.
var dmgPalette = [4]color.RGBA{
	{R: 0xE0, G: 0xF8, B: 0xD0, A: 0xFF},
	{R: 0x88, G: 0xC0, B: 0x70, A: 0xFF},
	{R: 0x34, G: 0x68, B: 0x56, A: 0xFF},
	{R: 0x08, G: 0x18, B: 0x20, A: 0xFF},
}

// PPU composes scanlines into an internal framebuffer as dots elapse;
// Tick is the driver loop's entry point, called with the
// dot count a just-executed CPU instruction consumed.
type PPU struct {
	mem *mmu.MMU

	pixels     [ScreenWidth * ScreenHeight]color.RGBA
	dot        uint32 // 0..DotsPerFrame-1
	windowLine uint8  // internal window-only scanline counter
}

// New returns a PPU that reads tile/tilemap data and I/O ports from mem.
func New(mem *mmu.MMU) *PPU {
	return &PPU{mem: mem}
}

// Pixels returns the most recently composed framebuffer, row-major,
// ScreenWidth*ScreenHeight entries.
func (p *PPU) Pixels() []color.RGBA { return p.pixels[:] }

// Debug preview buffer dimensions. The pattern table holds 384 tiles,
// laid out 16 per row across 24 rows; each 8x8 tile is rendered at 2x
// so the assembled buffer comes out 256 pixels wide.
const (
	tilePreviewTilesPerRow = 16
	tilePreviewRows        = 24
	tilePreviewScale       = 2

	TilePreviewWidth  = tilePreviewTilesPerRow * 8 * tilePreviewScale
	TilePreviewHeight = tilePreviewRows * 8 * tilePreviewScale
)

// BackgroundBuffer assembles the full 256x256 background layer as raw
// 2-bit tile-color indices (pre-BGP), independent of the current
// SCX/SCY scroll -- a debug view of everything the tile map holds, not
// just what's currently scrolled into view.
func (p *PPU) BackgroundBuffer() [256][256]uint8 {
	ports := &p.mem.Ports
	return p.layerBuffer(ports.LCDC&mmu.LCDCBGTileMap != 0, ports.LCDC&mmu.LCDCBGWindowTileData == 0)
}

// WindowBuffer assembles the full 256x256 window layer the same way,
// from the window tile map.
func (p *PPU) WindowBuffer() [256][256]uint8 {
	ports := &p.mem.Ports
	return p.layerBuffer(ports.LCDC&mmu.LCDCWindowTileMap != 0, ports.LCDC&mmu.LCDCBGWindowTileData == 0)
}

func (p *PPU) layerBuffer(highMap, signedIDs bool) [256][256]uint8 {
	mapBase := tileMapBase(highMap)
	var out [256][256]uint8
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			out[y][x] = p.tileLayerPixel(mapBase, signedIDs, uint8(x), uint8(y))
		}
	}
	return out
}

// TilePreview assembles every tile in VRAM's pattern table into one
// debug buffer, 16 tiles per row across 24 rows, each tile scaled 2x.
func (p *PPU) TilePreview() [TilePreviewHeight][TilePreviewWidth]uint8 {
	var out [TilePreviewHeight][TilePreviewWidth]uint8
	for id := 0; id < tilePreviewTilesPerRow*tilePreviewRows; id++ {
		tile := p.DecodeTile(id)
		baseY := (id / tilePreviewTilesPerRow) * 8 * tilePreviewScale
		baseX := (id % tilePreviewTilesPerRow) * 8 * tilePreviewScale
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				shade := tile[y][x]
				for dy := 0; dy < tilePreviewScale; dy++ {
					for dx := 0; dx < tilePreviewScale; dx++ {
						out[baseY+y*tilePreviewScale+dy][baseX+x*tilePreviewScale+dx] = shade
					}
				}
			}
		}
	}
	return out
}

// Tick advances the PPU by dots dot-cycles (the Duration a CPU Step
// just reported) and reports whether a frame was just completed --
// the dot clock wrapped past DotsPerFrame, which is when a completed
// framebuffer is ready for the driver.
func (p *PPU) Tick(dots uint8) bool {
	frame := false
	for i := uint8(0); i < dots; i++ {
		if p.tick() {
			frame = true
		}
	}
	return frame
}

func (p *PPU) tick() bool {
	ports := &p.mem.Ports

	if ports.LCDC&mmu.LCDCEnable == 0 {
		// LCD off: LY and the dot clock are pinned at 0 and mode is
		// forced to vblank, so re-enabling resumes a fresh scanline
		// clock rather than a stale mid-line count.
		p.dot = 0
		ports.LY = 0
		ports.SetMode(mmu.ModeVBlank)
		ports.SetCoincidence(false)
		return false
	}

	p.dot++
	frameDone := false
	if p.dot >= DotsPerFrame {
		p.dot = 0
		p.windowLine = 0
		frameDone = true
	}

	line := uint8(p.dot / DotsPerLine)
	posInLine := uint16(p.dot % DotsPerLine)

	ports.LY = line
	p.updateCoincidence(ports)

	prevMode := ports.Mode()
	mode := p.modeFor(line, posInLine)
	ports.SetMode(mode)
	if mode != prevMode {
		p.onModeEntry(ports, mode, line)
	}

	return frameDone
}

func (p *PPU) modeFor(line uint8, posInLine uint16) uint8 {
	if line >= vblankStartLine {
		return mmu.ModeVBlank
	}
	switch {
	case posInLine < searchDots:
		return mmu.ModeSearching
	case posInLine < searchDots+transferDots:
		return mmu.ModeTransferring
	default:
		return mmu.ModeHBlank
	}
}

func (p *PPU) updateCoincidence(ports *mmu.Ports) {
	match := ports.LY == ports.LYC
	wasMatch := ports.Coincidence()
	ports.SetCoincidence(match)
	if match && !wasMatch && ports.STAT&mmu.StatIntLYC != 0 {
		ports.IF |= mmu.IFLCDSTAT
	}
}

// onModeEntry fires the STAT/VBlank interrupt latches and, on entering
// hblank for a visible line, composes that scanline into the
// framebuffer -- real hardware renders progressively during transfer,
// but a once-per-line composition is observationally equivalent for
// every consumer this core exposes.
func (p *PPU) onModeEntry(ports *mmu.Ports, mode uint8, line uint8) {
	switch mode {
	case mmu.ModeVBlank:
		ports.IF |= mmu.IFVBlank
		if ports.STAT&mmu.StatIntVBlank != 0 {
			ports.IF |= mmu.IFLCDSTAT
		}
	case mmu.ModeSearching:
		if ports.STAT&mmu.StatIntOAM != 0 {
			ports.IF |= mmu.IFLCDSTAT
		}
	case mmu.ModeHBlank:
		if line < ScreenHeight {
			p.renderScanline(ports, line)
		}
		if ports.STAT&mmu.StatIntHBlank != 0 {
			ports.IF |= mmu.IFLCDSTAT
		}
	}
}

// renderScanline composes one row of the framebuffer from the
// background and (if enabled) window layers, handling SCX/SCY
// wraparound via uint8 arithmetic.
func (p *PPU) renderScanline(ports *mmu.Ports, ly uint8) {
	bgEnabled := ports.LCDC&mmu.LCDCBGWindowEnable != 0
	windowEnabled := bgEnabled && ports.LCDC&mmu.LCDCWindowEnable != 0 &&
		ly >= ports.WY && ports.WX <= 166

	bgMapBase := tileMapBase(ports.LCDC&mmu.LCDCBGTileMap != 0)
	winMapBase := tileMapBase(ports.LCDC&mmu.LCDCWindowTileMap != 0)
	signedIDs := ports.LCDC&mmu.LCDCBGWindowTileData == 0

	windowDrawn := false
	for x := 0; x < ScreenWidth; x++ {
		var idx uint8
		switch {
		case windowEnabled && int(ports.WX)-7 <= x:
			wx := uint8(x - (int(ports.WX) - 7))
			idx = p.tileLayerPixel(winMapBase, signedIDs, wx, p.windowLine)
			windowDrawn = true
		case bgEnabled:
			bgX := uint8(x) + ports.SCX
			bgY := ly + ports.SCY
			idx = p.tileLayerPixel(bgMapBase, signedIDs, bgX, bgY)
		}
		shade := (ports.BGP >> (idx * 2)) & 0x03
		p.pixels[int(ly)*ScreenWidth+x] = dmgPalette[shade]
	}
	if windowDrawn {
		p.windowLine++
	}
}

func tileMapBase(highMap bool) uint16 {
	if highMap {
		return 0x1C00
	}
	return 0x1800
}

// tileLayerPixel returns the 2-bit color index at tile-space coordinate
// (x,y) within a 256x256 background/window layer backed by the 32x32
// tile map at mapBase.
func (p *PPU) tileLayerPixel(mapBase uint16, signedIDs bool, x, y uint8) uint8 {
	tileCol, tileRow := uint16(x/8), uint16(y/8)
	id := p.mem.VRAMByte(mapBase + tileRow*32 + tileCol)
	tileOff := tileDataOffset(id, signedIDs)
	return p.tilePixel(tileOff, x%8, y%8)
}

// tileDataOffset resolves a tile ID to its VRAM-relative byte offset
// under either addressing mode: unsigned ($8000 base) or signed ($9000
// base, IDs 0-127 reaching upward, 128-255 reaching down as negative
// offsets) -- https://gbdev.io/pandocs/Tile_Data.html.
func tileDataOffset(id uint8, signedIDs bool) uint16 {
	if !signedIDs {
		return uint16(id) * 16
	}
	return uint16(0x1000 + int(int8(id))*16)
}

// tilePixel decodes one pixel from the 16-byte, bitplane-interleaved
// tile at VRAM-relative offset tileOff: each row is two bytes, low and
// high bitplane, MSB first.
func (p *PPU) tilePixel(tileOff uint16, x, y uint8) uint8 {
	lo := p.mem.VRAMByte(tileOff + uint16(y)*2)
	hi := p.mem.VRAMByte(tileOff + uint16(y)*2 + 1)
	bit := 7 - x
	return (hi>>bit&1)<<1 | (lo >> bit & 1)
}

// DecodeTile renders the 384-tile pattern table's Nth tile (the format
// a standalone tile viewer or debugger would want), independent of
// either background addressing mode: tile IDs 0-383 map directly onto
// VRAM offset id*16, matching the $8000 unsigned scheme.
func (p *PPU) DecodeTile(id int) [8][8]uint8 {
	var out [8][8]uint8
	off := uint16(id * 16)
	for y := uint8(0); y < 8; y++ {
		for x := uint8(0); x < 8; x++ {
			out[y][x] = p.tilePixel(off, x, y)
		}
	}
	return out
}
