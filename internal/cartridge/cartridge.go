package cartridge

import (
	"errors"
	"fmt"
)

// Cartridge is the bus-facing view of a loaded cartridge: ROM reads in
// 0x0000-0x7FFF, external RAM in 0xA000-0xBFFF, and MBC control-register
// writes in the ROM range. Both functions are total and never fail; reads of
// absent or disabled memory return 0xFF.
type Cartridge interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)

	// Header returns the parsed cartridge header.
	Header() *Header

	// HasBattery reports whether RAM contents should be persisted.
	HasBattery() bool

	// RAM returns a copy of the external RAM, or nil when there is none.
	RAM() []byte

	// LoadRAM restores previously saved external RAM contents.
	LoadRAM(data []byte)
}

var (
	// ErrUnsupportedType indicates an MBC variant this core does not
	// implement.
	ErrUnsupportedType = errors.New("unsupported cartridge type")

	// ErrSizeMismatch indicates the image is shorter than the header's
	// declared ROM size.
	ErrSizeMismatch = errors.New("ROM size does not match header")

	// ErrROMTooLarge indicates an image beyond the 8 MiB the header
	// encoding can describe.
	ErrROMTooLarge = errors.New("ROM exceeds maximum size of 8 MiB")
)

const maxROMSize = 8 << 20

// New parses and validates a ROM image and constructs the cartridge variant
// its header declares. Malformed images are load-time errors; a loaded
// cartridge never fails at run time.
func New(rom []byte) (Cartridge, error) {
	if len(rom) > maxROMSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrROMTooLarge, len(rom))
	}

	header, err := ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if header.ROMBanks() == 0 {
		return nil, fmt.Errorf("%w: invalid ROM size code 0x%02X",
			ErrSizeMismatch, header.ROMSizeCode)
	}

	if len(rom) < header.ROMBytes() {
		return nil, fmt.Errorf("%w: header declares %d bytes, image has %d",
			ErrSizeMismatch, header.ROMBytes(), len(rom))
	}

	switch header.Type {
	case TypeROMOnly, TypeROMRAM, TypeROMRAMBattery:
		return newROMOnly(rom, header), nil

	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return newMBC1(rom, header), nil

	default:
		return nil, fmt.Errorf("%w: 0x%02X (%s)",
			ErrUnsupportedType, byte(header.Type), header.Type)
	}
}

// allocRAM sizes the external RAM for a cartridge, or returns nil when the
// type or size code declares none.
func allocRAM(header *Header) []byte {
	if !header.Type.HasRAM() {
		return nil
	}
	size := header.RAMBytes()
	if size == 0 {
		return nil
	}
	return make([]byte, size)
}

// copyRAM returns a defensive copy for Cartridge.RAM implementations.
func copyRAM(ram []byte) []byte {
	if ram == nil {
		return nil
	}
	out := make([]byte, len(ram))
	copy(out, ram)
	return out
}
