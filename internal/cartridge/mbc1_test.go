package cartridge

import (
	"testing"
)

func newMBC1Cart(t *testing.T, ctype Type, romCode, ramCode byte) Cartridge {
	t.Helper()
	cart, err := New(buildROM(ctype, romCode, ramCode))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return cart
}

func TestMBC1DefaultBanks(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1, 0x02, 0x00) // 8 banks

	if got := cart.Read(0x0000); got != 0 {
		t.Errorf("fixed window reads bank %d, want 0", got)
	}
	// The 5-bit register powers on holding 1.
	if got := cart.Read(0x4000); got != 1 {
		t.Errorf("switchable window reads bank %d, want 1", got)
	}
}

func TestMBC1BankSwitch(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1, 0x02, 0x00)

	for _, bank := range []uint8{2, 5, 7} {
		cart.Write(0x2000, bank)
		if got := cart.Read(0x4000); got != bank {
			t.Errorf("switchable window reads bank %d, want %d", got, bank)
		}
	}
}

func TestMBC1BankZeroPromoted(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1, 0x02, 0x00)

	cart.Write(0x2000, 0)
	if got := cart.Read(0x4000); got != 1 {
		t.Errorf("bank 0 request maps to bank %d, want 1", got)
	}
}

func TestMBC1BankModulo(t *testing.T) {
	// 4-bank image: requests past the end wrap around.
	cart := newMBC1Cart(t, TypeMBC1, 0x01, 0x00)

	cart.Write(0x2000, 5)
	if got := cart.Read(0x4000); got != 1 {
		t.Errorf("bank 5 of 4 reads bank %d, want 1", got)
	}
}

func TestMBC1SecondaryRegister(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1, 0x05, 0x00) // 64 banks

	cart.Write(0x2000, 0x02) // low 5 bits
	cart.Write(0x4000, 0x01) // bits 5-6
	if got := cart.Read(0x4000); got != 0x22 {
		t.Errorf("switchable window reads bank %d, want 0x22", got)
	}

	// In RAM mode the secondary register also banks the fixed window.
	cart.Write(0x6000, 0x01)
	if got := cart.Read(0x0000); got != 0x20 {
		t.Errorf("fixed window reads bank %d in RAM mode, want 0x20", got)
	}

	// Back in ROM mode the fixed window is bank 0 again.
	cart.Write(0x6000, 0x00)
	if got := cart.Read(0x0000); got != 0 {
		t.Errorf("fixed window reads bank %d in ROM mode, want 0", got)
	}
}

func TestMBC1RAMEnable(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1RAM, 0x01, 0x03)

	// Disabled RAM ignores writes and reads 0xFF.
	cart.Write(0xA000, 0x42)
	if got := cart.Read(0xA000); got != 0xFF {
		t.Errorf("disabled RAM reads %02X, want 0xFF", got)
	}

	cart.Write(0x0000, 0x0A)
	cart.Write(0xA000, 0x42)
	if got := cart.Read(0xA000); got != 0x42 {
		t.Errorf("enabled RAM reads %02X, want 0x42", got)
	}

	// Any low nibble other than 0x0A disables again.
	cart.Write(0x0000, 0x00)
	if got := cart.Read(0xA000); got != 0xFF {
		t.Errorf("re-disabled RAM reads %02X, want 0xFF", got)
	}
}

func TestMBC1RAMBanking(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1RAM, 0x01, 0x03) // 4 RAM banks
	cart.Write(0x0000, 0x0A)

	// ROM mode: the secondary register does not bank RAM.
	cart.Write(0x4000, 0x02)
	cart.Write(0xA000, 0x11)

	// RAM mode: bank 2 is a different page.
	cart.Write(0x6000, 0x01)
	if got := cart.Read(0xA000); got == 0x11 {
		t.Error("RAM mode bank 2 should not alias bank 0")
	}
	cart.Write(0xA000, 0x22)

	// Back to bank 0.
	cart.Write(0x4000, 0x00)
	if got := cart.Read(0xA000); got != 0x11 {
		t.Errorf("bank 0 reads %02X, want 0x11", got)
	}
}

func TestMBC1BatteryRAMRoundTrip(t *testing.T) {
	cart := newMBC1Cart(t, TypeMBC1RAMBattery, 0x01, 0x02)
	if !cart.HasBattery() {
		t.Fatal("MBC1+RAM+BATTERY should report a battery")
	}

	cart.Write(0x0000, 0x0A)
	cart.Write(0xA000, 0x99)

	saved := cart.RAM()
	if len(saved) == 0 {
		t.Fatal("RAM() returned nothing for a battery cartridge")
	}
	if saved[0] != 0x99 {
		t.Fatalf("RAM()[0] = %02X, want 0x99", saved[0])
	}

	// A fresh cartridge restored from the save sees the same contents.
	restored := newMBC1Cart(t, TypeMBC1RAMBattery, 0x01, 0x02)
	restored.LoadRAM(saved)
	restored.Write(0x0000, 0x0A)
	if got := restored.Read(0xA000); got != 0x99 {
		t.Errorf("restored RAM reads %02X, want 0x99", got)
	}
}
