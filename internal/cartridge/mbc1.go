package cartridge

// mbc1 implements Memory Bank Controller 1, the most common mapper: up to
// 2 MiB of ROM in 16 KiB banks and up to 32 KiB of RAM in 8 KiB banks.
//
// Control registers, selected by the write address:
//
//	0x0000-0x1FFF  RAM enable (low nibble 0x0A enables)
//	0x2000-0x3FFF  ROM bank, low 5 bits (0 is promoted to 1)
//	0x4000-0x5FFF  secondary 2-bit bank register
//	0x6000-0x7FFF  banking mode (0 = ROM mode, 1 = RAM mode)
//
// The secondary register always supplies bits 5-6 of the switchable ROM
// bank; in RAM mode it additionally banks the fixed ROM window and the RAM
// window. Every bank index is reduced modulo the real bank count before use,
// so no guest write can index out of bounds.
type mbc1 struct {
	header *Header
	rom    []byte
	ram    []byte

	ramEnabled bool
	bankLow    uint8 // 5-bit ROM bank register
	bankHigh   uint8 // 2-bit secondary register
	ramMode    bool  // banking mode bit

	romBanks int
	ramBanks int
}

func newMBC1(rom []byte, header *Header) *mbc1 {
	return &mbc1{
		header:   header,
		rom:      rom,
		ram:      allocRAM(header),
		bankLow:  1,
		romBanks: header.ROMBanks(),
		ramBanks: header.RAMBanks(),
	}
}

// fixedROMBank returns the bank mapped at 0x0000-0x3FFF. Normally bank 0;
// in RAM mode the secondary register supplies bits 5-6.
func (c *mbc1) fixedROMBank() int {
	if !c.ramMode {
		return 0
	}
	return (int(c.bankHigh) << 5) % c.romBanks
}

// switchableROMBank returns the bank mapped at 0x4000-0x7FFF.
func (c *mbc1) switchableROMBank() int {
	bank := int(c.bankHigh)<<5 | int(c.bankLow)
	// The 5-bit register never holds 0, so banks 0x00/0x20/0x40/0x60 are
	// unreachable here; their slots map to the next bank up.
	if bank&0x1F == 0 {
		bank |= 1
	}
	return bank % c.romBanks
}

// ramBank returns the active external RAM bank. Only RAM mode banks RAM.
func (c *mbc1) ramBank() int {
	if !c.ramMode || c.ramBanks < 2 {
		return 0
	}
	return int(c.bankHigh) % c.ramBanks
}

func (c *mbc1) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		offset := c.fixedROMBank()*romBankSize + int(addr)
		if offset < len(c.rom) {
			return c.rom[offset]
		}
		return 0xFF

	case addr < 0x8000:
		offset := c.switchableROMBank()*romBankSize + int(addr-0x4000)
		if offset < len(c.rom) {
			return c.rom[offset]
		}
		return 0xFF

	case addr >= 0xA000 && addr < 0xC000:
		if !c.ramEnabled {
			return 0xFF
		}
		offset := c.ramBank()*ramBankSize + int(addr-0xA000)
		if offset < len(c.ram) {
			return c.ram[offset]
		}
		return 0xFF

	default:
		return 0xFF
	}
}

func (c *mbc1) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		c.ramEnabled = value&0x0F == 0x0A

	case addr < 0x4000:
		c.bankLow = value & 0x1F
		if c.bankLow == 0 {
			c.bankLow = 1
		}

	case addr < 0x6000:
		c.bankHigh = value & 0x03

	case addr < 0x8000:
		c.ramMode = value&0x01 != 0

	case addr >= 0xA000 && addr < 0xC000:
		if !c.ramEnabled {
			return
		}
		offset := c.ramBank()*ramBankSize + int(addr-0xA000)
		if offset < len(c.ram) {
			c.ram[offset] = value
		}
	}
}

func (c *mbc1) Header() *Header {
	return c.header
}

func (c *mbc1) HasBattery() bool {
	return c.header.Type.HasBattery()
}

func (c *mbc1) RAM() []byte {
	return copyRAM(c.ram)
}

func (c *mbc1) LoadRAM(data []byte) {
	copy(c.ram, data)
}
