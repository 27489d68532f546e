// Package memory implements the Game Boy memory bus: the fixed RAM regions,
// the I/O register block and its side effects, and delegation of cartridge
// addresses to the active MBC.
//
// The Bus is the single owner of every mutable memory region. The timer and
// the interrupt controller are reached only through Read/Write here, so the
// CPU never aliases peripheral state.
package memory

import (
	"errors"
	"fmt"

	"github.com/dotmatrix-emu/dotmatrix/internal/cartridge"
	"github.com/dotmatrix-emu/dotmatrix/internal/interrupts"
	"github.com/dotmatrix-emu/dotmatrix/internal/timer"
)

// fillByte is returned for reads that reach no backing memory: unmapped
// regions, disabled cartridge RAM, and non-HRAM reads during OAM DMA.
const fillByte = 0xFF

// Serial transfer registers. The serial port itself is external to this
// core; the bus stores the bytes and the emulator loop watches them for
// Blargg-style test output.
const (
	RegSB = 0xFF01 // serial transfer data
	RegSC = 0xFF02 // serial transfer control
)

// I/O register addresses the bus treats specially.
const (
	regIF  = 0xFF0F // interrupt flags
	regDMA = 0xFF46 // OAM DMA source/trigger
)

// dmaCycles is the length of an OAM DMA transfer in M-cycles, one byte each.
const dmaCycles = 160

// Bus routes the full 16-bit address space. Every address decodes to exactly
// one region; Read and Write never fail.
type Bus struct {
	cart cartridge.Cartridge

	ic  *interrupts.Controller
	tmr *timer.Timer

	vram [0x2000]uint8 // 8000-9FFF: video RAM (storage only, PPU is external)
	wram [0x2000]uint8 // C000-DFFF: work RAM, mirrored at E000-FDFF
	oam  [0xA0]uint8   // FE00-FE9F: object attribute memory
	io   [0x80]uint8   // FF00-FF7F: I/O registers without a dedicated owner
	hram [0x7F]uint8   // FF80-FFFE: high RAM

	// OAM DMA state: while active, the CPU sees only HRAM.
	dmaActive bool
	dmaSource uint16
	dmaLeft   uint16
}

// NewBus creates a bus wired to the given interrupt controller and timer.
func NewBus(ic *interrupts.Controller, tmr *timer.Timer) *Bus {
	return &Bus{
		ic:  ic,
		tmr: tmr,
	}
}

// ErrROMLoadFailed indicates the ROM image could not be turned into a
// cartridge.
var ErrROMLoadFailed = errors.New("ROM loading failed")

// LoadROM builds a cartridge from the image and attaches it. A previously
// attached cartridge is replaced wholesale.
func (b *Bus) LoadROM(rom []byte) error {
	cart, err := cartridge.New(rom)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrROMLoadFailed, err)
	}
	b.cart = cart
	return nil
}

// SetCartridge attaches an already constructed cartridge.
func (b *Bus) SetCartridge(cart cartridge.Cartridge) {
	b.cart = cart
}

// Cartridge returns the attached cartridge, or nil.
func (b *Bus) Cartridge() cartridge.Cartridge {
	return b.cart
}

// Read returns the byte at addr. Total over the address space.
func (b *Bus) Read(addr uint16) uint8 {
	// During OAM DMA only HRAM is reachable from the CPU.
	if b.dmaActive && (addr < 0xFF80 || addr == 0xFFFF) {
		return fillByte
	}
	return b.read(addr)
}

// Peek returns the byte at addr without the DMA visibility restriction.
// Out-of-band observers (serial capture, debug views) use this; CPU reads go
// through Read.
func (b *Bus) Peek(addr uint16) uint8 {
	return b.read(addr)
}

// read decodes without the DMA restriction; DMA itself fetches through here.
func (b *Bus) read(addr uint16) uint8 {
	switch {
	case addr < 0x8000: // cartridge ROM
		if b.cart != nil {
			return b.cart.Read(addr)
		}
		return fillByte

	case addr < 0xA000: // video RAM
		return b.vram[addr-0x8000]

	case addr < 0xC000: // cartridge RAM
		if b.cart != nil {
			return b.cart.Read(addr)
		}
		return fillByte

	case addr < 0xE000: // work RAM
		return b.wram[addr-0xC000]

	case addr < 0xFE00: // echo RAM mirrors C000-DDFF
		return b.wram[addr-0xE000]

	case addr < 0xFEA0: // OAM
		return b.oam[addr-0xFE00]

	case addr < 0xFF00: // unusable
		return fillByte

	case addr < 0xFF80: // I/O registers
		return b.readIO(addr)

	case addr < 0xFFFF: // high RAM
		return b.hram[addr-0xFF80]

	default: // 0xFFFF: interrupt enable
		return b.ic.ReadEnable()
	}
}

// Write stores value at addr, applying I/O side effects. Total over the
// address space; writes to ROM reach the MBC, writes to the unusable region
// are dropped.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x8000:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}

	case addr < 0xA000:
		b.vram[addr-0x8000] = value

	case addr < 0xC000:
		if b.cart != nil {
			b.cart.Write(addr, value)
		}

	case addr < 0xE000:
		b.wram[addr-0xC000] = value

	case addr < 0xFE00:
		b.wram[addr-0xE000] = value

	case addr < 0xFEA0:
		b.oam[addr-0xFE00] = value

	case addr < 0xFF00:
		// unusable region, writes discarded

	case addr < 0xFF80:
		b.writeIO(addr, value)

	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value

	default:
		b.ic.WriteEnable(value)
	}
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch addr {
	case timer.DIV, timer.TIMA, timer.TMA, timer.TAC:
		return b.tmr.Read(addr)
	case regIF:
		return b.ic.ReadFlags()
	default:
		return b.io[addr-0xFF00]
	}
}

func (b *Bus) writeIO(addr uint16, value uint8) {
	switch addr {
	case timer.DIV, timer.TIMA, timer.TMA, timer.TAC:
		b.tmr.Write(addr, value)

	case regIF:
		b.ic.WriteFlags(value)

	case regDMA:
		// Source pages above 0xF1 would copy from restricted space and
		// do not start a transfer.
		if value <= 0xF1 {
			b.dmaActive = true
			b.dmaSource = uint16(value) << 8
			b.dmaLeft = dmaCycles
		}
		b.io[addr-0xFF00] = value

	default:
		b.io[addr-0xFF00] = value
	}
}

// DMAActive reports whether an OAM DMA transfer is in progress.
func (b *Bus) DMAActive() bool {
	return b.dmaActive
}

// StepDMA advances an active OAM DMA transfer by one M-cycle, copying one
// byte into OAM. It reports whether the transfer is still running.
func (b *Bus) StepDMA() bool {
	if !b.dmaActive {
		return false
	}

	offset := dmaCycles - b.dmaLeft
	b.oam[offset] = b.read(b.dmaSource + offset)

	b.dmaLeft--
	if b.dmaLeft == 0 {
		b.dmaActive = false
	}
	return b.dmaActive
}

// Reset clears all bus-owned RAM and DMA state. Cartridge RAM is left alone
// since it may be battery-backed.
func (b *Bus) Reset() {
	clear(b.vram[:])
	clear(b.wram[:])
	clear(b.oam[:])
	clear(b.io[:])
	clear(b.hram[:])
	b.dmaActive = false
	b.dmaSource = 0
	b.dmaLeft = 0
}
