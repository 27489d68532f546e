package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dotmatrix-emu/dotmatrix/internal/emulator"
)

// Tile-viewer geometry: the 384 tiles of VRAM block 0x8000-0x97FF laid out
// 16 across.
const (
	tilesPerRow = 16
	tileRows    = 24
	tileBytes   = 16

	viewWidth  = tilesPerRow * 8
	viewHeight = tileRows * 8

	// cyclesPerFrame is one 59.7 Hz frame of the 4.194304 MHz clock.
	cyclesPerFrame = 70224
)

// shades maps the four 2-bit pixel values to grayscale.
var shades = [4]uint8{0xFF, 0xAA, 0x55, 0x00}

// Display runs the emulator core at frame pace and draws the VRAM tile set.
type Display struct {
	emu    *emulator.Emulator
	pixels []byte
}

// NewDisplay creates a display for the session.
func NewDisplay(emu *emulator.Emulator) *Display {
	return &Display{
		emu:    emu,
		pixels: make([]byte, viewWidth*viewHeight*4),
	}
}

// Update advances the core by one frame's worth of cycles.
func (d *Display) Update() error {
	if d.emu.CPU.Locked() {
		// A frozen core has nothing further to show; keep the window up.
		return nil
	}
	d.emu.RunCycles(cyclesPerFrame)
	return nil
}

// Draw decodes the 2bpp tile data straight out of VRAM.
func (d *Display) Draw(screen *ebiten.Image) {
	for tile := 0; tile < tilesPerRow*tileRows; tile++ {
		base := uint16(0x8000 + tile*tileBytes) //nolint:gosec // G115: bounded by tile count
		tileX := (tile % tilesPerRow) * 8
		tileY := (tile / tilesPerRow) * 8

		for row := 0; row < 8; row++ {
			low := d.emu.Bus.Peek(base + uint16(row*2))    //nolint:gosec // G115: row < 8
			high := d.emu.Bus.Peek(base + uint16(row*2+1)) //nolint:gosec // G115: row < 8

			for col := 0; col < 8; col++ {
				bit := uint8(7 - col) //nolint:gosec // G115: col < 8
				value := (high>>bit&1)<<1 | low>>bit&1

				offset := ((tileY+row)*viewWidth + tileX + col) * 4
				shade := shades[value]
				d.pixels[offset] = shade
				d.pixels[offset+1] = shade
				d.pixels[offset+2] = shade
				d.pixels[offset+3] = 0xFF
			}
		}
	}

	screen.WritePixels(d.pixels)
}

// Layout reports the fixed logical size of the tile view.
func (d *Display) Layout(_, _ int) (int, int) {
	return viewWidth, viewHeight
}
