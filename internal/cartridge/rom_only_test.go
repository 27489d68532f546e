package cartridge

import (
	"testing"
)

func TestROMOnlyReads(t *testing.T) {
	rom := buildROM(TypeROMOnly, 0x00, 0x00)
	rom[0x1234] = 0xAB
	rom[0x7FFF] = 0xCD

	cart, err := New(rom)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := cart.Read(0x1234); got != 0xAB {
		t.Errorf("Read(0x1234) = %02X, want 0xAB", got)
	}
	if got := cart.Read(0x7FFF); got != 0xCD {
		t.Errorf("Read(0x7FFF) = %02X, want 0xCD", got)
	}
}

func TestROMOnlyWritesIgnored(t *testing.T) {
	cart, err := New(buildROM(TypeROMOnly, 0x00, 0x00))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	before := cart.Read(0x2000)
	cart.Write(0x2000, ^before)
	if got := cart.Read(0x2000); got != before {
		t.Errorf("Read(0x2000) = %02X after write, want %02X", got, before)
	}
}

func TestROMOnlyRAM(t *testing.T) {
	cart, err := New(buildROM(TypeROMRAM, 0x00, 0x02))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cart.Write(0xA000, 0x11)
	cart.Write(0xBFFF, 0x22)
	if got := cart.Read(0xA000); got != 0x11 {
		t.Errorf("Read(0xA000) = %02X, want 0x11", got)
	}
	if got := cart.Read(0xBFFF); got != 0x22 {
		t.Errorf("Read(0xBFFF) = %02X, want 0x22", got)
	}
}

func TestROMOnlyNoRAM(t *testing.T) {
	cart, err := New(buildROM(TypeROMOnly, 0x00, 0x00))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cart.Write(0xA000, 0x11)
	if got := cart.Read(0xA000); got != 0xFF {
		t.Errorf("Read(0xA000) = %02X with no RAM, want 0xFF", got)
	}
	if cart.RAM() != nil {
		t.Error("RAM() should be nil when the type declares none")
	}
}
