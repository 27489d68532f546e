// Package cartridge implements Game Boy cartridge loading and the memory
// bank controllers (MBCs) that multiplex large ROM/RAM images into the CPU's
// fixed address windows.
package cartridge

import (
	"errors"
	"fmt"
)

// header field offsets within the ROM image.
const (
	titleStart     = 0x0134
	titleEnd       = 0x0144
	cgbFlagOffset  = 0x0143
	sgbFlagOffset  = 0x0146
	typeOffset     = 0x0147
	romSizeOffset  = 0x0148
	ramSizeOffset  = 0x0149
	checksumOffset = 0x014D

	// headerEnd is the first byte past the cartridge header; an image
	// shorter than this cannot be valid.
	headerEnd = 0x0150

	romBankSize = 0x4000 // 16 KiB
	ramBankSize = 0x2000 // 8 KiB
)

// Type is the cartridge type byte at 0x0147, declaring the MBC variant and
// whether RAM and a battery are present.
type Type byte

// Cartridge types. Only the ROM-only and MBC1 families are supported; the
// rest are listed so unsupported images are reported by name.
const (
	TypeROMOnly        Type = 0x00
	TypeMBC1           Type = 0x01
	TypeMBC1RAM        Type = 0x02
	TypeMBC1RAMBattery Type = 0x03
	TypeMBC2           Type = 0x05
	TypeMBC2Battery    Type = 0x06
	TypeROMRAM         Type = 0x08
	TypeROMRAMBattery  Type = 0x09
	TypeMBC3           Type = 0x11
	TypeMBC3RAM        Type = 0x12
	TypeMBC3RAMBattery Type = 0x13
	TypeMBC5           Type = 0x19
	TypeMBC5RAM        Type = 0x1A
	TypeMBC5RAMBattery Type = 0x1B
)

// String returns the conventional name for the type.
func (t Type) String() string {
	switch t {
	case TypeROMOnly:
		return "ROM ONLY"
	case TypeMBC1:
		return "MBC1"
	case TypeMBC1RAM:
		return "MBC1+RAM"
	case TypeMBC1RAMBattery:
		return "MBC1+RAM+BATTERY"
	case TypeMBC2:
		return "MBC2"
	case TypeMBC2Battery:
		return "MBC2+BATTERY"
	case TypeROMRAM:
		return "ROM+RAM"
	case TypeROMRAMBattery:
		return "ROM+RAM+BATTERY"
	case TypeMBC3:
		return "MBC3"
	case TypeMBC3RAM:
		return "MBC3+RAM"
	case TypeMBC3RAMBattery:
		return "MBC3+RAM+BATTERY"
	case TypeMBC5:
		return "MBC5"
	case TypeMBC5RAM:
		return "MBC5+RAM"
	case TypeMBC5RAMBattery:
		return "MBC5+RAM+BATTERY"
	default:
		return fmt.Sprintf("UNKNOWN (0x%02X)", byte(t))
	}
}

// HasRAM reports whether the type declares external RAM.
func (t Type) HasRAM() bool {
	switch t {
	case TypeMBC1RAM, TypeMBC1RAMBattery,
		TypeROMRAM, TypeROMRAMBattery,
		TypeMBC3RAM, TypeMBC3RAMBattery,
		TypeMBC5RAM, TypeMBC5RAMBattery:
		return true
	default:
		return false
	}
}

// HasBattery reports whether the type declares battery-backed RAM.
func (t Type) HasBattery() bool {
	switch t {
	case TypeMBC1RAMBattery, TypeMBC2Battery, TypeROMRAMBattery,
		TypeMBC3RAMBattery, TypeMBC5RAMBattery:
		return true
	default:
		return false
	}
}

// Header holds the cartridge header fields this core reads.
type Header struct {
	Title       string
	Type        Type
	ROMSizeCode byte
	RAMSizeCode byte
	CGBFlag     byte
	SGBFlag     byte
	Checksum    byte
}

// ROMBanks returns the number of 16 KiB ROM banks the header declares.
func (h *Header) ROMBanks() int {
	if h.ROMSizeCode <= 0x08 {
		return 2 << h.ROMSizeCode
	}
	return 0
}

// ROMBytes returns the declared ROM size in bytes.
func (h *Header) ROMBytes() int {
	return h.ROMBanks() * romBankSize
}

// RAMBanks returns the number of 8 KiB external RAM banks.
func (h *Header) RAMBanks() int {
	switch h.RAMSizeCode {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}

// RAMBytes returns the declared external RAM size in bytes.
func (h *Header) RAMBytes() int {
	return h.RAMBanks() * ramBankSize
}

// Load-time validation errors.
var (
	// ErrROMTooSmall indicates the image cannot contain a header.
	ErrROMTooSmall = errors.New("ROM too small to contain a cartridge header")

	// ErrBadChecksum indicates the header checksum does not match.
	ErrBadChecksum = errors.New("cartridge header checksum mismatch")
)

// ParseHeader reads and validates the header of a ROM image.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd {
		return nil, fmt.Errorf("%w: got %d bytes", ErrROMTooSmall, len(rom))
	}

	h := &Header{
		Type:        Type(rom[typeOffset]),
		ROMSizeCode: rom[romSizeOffset],
		RAMSizeCode: rom[ramSizeOffset],
		CGBFlag:     rom[cgbFlagOffset],
		SGBFlag:     rom[sgbFlagOffset],
		Checksum:    rom[checksumOffset],
	}

	title := rom[titleStart:titleEnd]
	for i, b := range title {
		if b == 0 {
			title = title[:i]
			break
		}
	}
	h.Title = string(title)

	if checksum(rom) != h.Checksum {
		return nil, ErrBadChecksum
	}

	return h, nil
}

// checksum computes the header checksum over 0x0134-0x014C:
// x = 0; for each byte: x = x - byte - 1.
func checksum(rom []byte) byte {
	var sum byte
	for addr := titleStart; addr < checksumOffset; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum
}
