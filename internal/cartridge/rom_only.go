package cartridge

// romOnly is a cartridge without an MBC: up to 32 KiB of ROM mapped flat,
// plus an optional flat RAM region. ROM writes are ignored.
type romOnly struct {
	header *Header
	rom    []byte
	ram    []byte
}

func newROMOnly(rom []byte, header *Header) *romOnly {
	return &romOnly{
		header: header,
		rom:    rom,
		ram:    allocRAM(header),
	}
}

func (c *romOnly) Read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF

	case addr >= 0xA000 && addr < 0xC000:
		offset := int(addr - 0xA000)
		if offset < len(c.ram) {
			return c.ram[offset]
		}
		return 0xFF

	default:
		return 0xFF
	}
}

func (c *romOnly) Write(addr uint16, value uint8) {
	if addr >= 0xA000 && addr < 0xC000 {
		offset := int(addr - 0xA000)
		if offset < len(c.ram) {
			c.ram[offset] = value
		}
	}
	// ROM range writes have no MBC to talk to and are dropped.
}

func (c *romOnly) Header() *Header {
	return c.header
}

func (c *romOnly) HasBattery() bool {
	return c.header.Type.HasBattery()
}

func (c *romOnly) RAM() []byte {
	return copyRAM(c.ram)
}

func (c *romOnly) LoadRAM(data []byte) {
	copy(c.ram, data)
}
