package cpu

// Flag register bits. The low nibble of F is unused and always zero.
const (
	FlagZ uint8 = 1 << 7 // Zero
	FlagN uint8 = 1 << 6 // Subtract
	FlagH uint8 = 1 << 5 // Half-carry
	FlagC uint8 = 1 << 4 // Carry
)

// Registers holds the SM83 register file: eight 8-bit registers paired into
// AF/BC/DE/HL, the stack pointer and the program counter.
type Registers struct {
	A  uint8
	F  uint8
	B  uint8
	C  uint8
	D  uint8
	E  uint8
	H  uint8
	L  uint8
	SP uint16
	PC uint16
}

// NewRegisters returns registers in the DMG post-boot-ROM state, which is
// where cartridge code starts when no boot ROM is mapped.
func NewRegisters() *Registers {
	return &Registers{
		A:  0x01,
		F:  0xB0,
		B:  0x00,
		C:  0x13,
		D:  0x00,
		E:  0xD8,
		H:  0x01,
		L:  0x4D,
		SP: 0xFFFE,
		PC: 0x0100,
	}
}

// AF returns the combined AF pair.
func (r *Registers) AF() uint16 {
	return uint16(r.A)<<8 | uint16(r.F)
}

// BC returns the combined BC pair.
func (r *Registers) BC() uint16 {
	return uint16(r.B)<<8 | uint16(r.C)
}

// DE returns the combined DE pair.
func (r *Registers) DE() uint16 {
	return uint16(r.D)<<8 | uint16(r.E)
}

// HL returns the combined HL pair.
func (r *Registers) HL() uint16 {
	return uint16(r.H)<<8 | uint16(r.L)
}

// SetAF sets the AF pair. The low nibble of F is forced to zero.
func (r *Registers) SetAF(value uint16) {
	r.A = uint8(value >> 8)   //nolint:gosec // G115: high byte extraction
	r.F = uint8(value) & 0xF0 //nolint:gosec // G115: low nibble always 0
}

// SetBC sets the BC pair.
func (r *Registers) SetBC(value uint16) {
	r.B = uint8(value >> 8) //nolint:gosec // G115: high byte extraction
	r.C = uint8(value)      //nolint:gosec // G115: low byte extraction
}

// SetDE sets the DE pair.
func (r *Registers) SetDE(value uint16) {
	r.D = uint8(value >> 8) //nolint:gosec // G115: high byte extraction
	r.E = uint8(value)      //nolint:gosec // G115: low byte extraction
}

// SetHL sets the HL pair.
func (r *Registers) SetHL(value uint16) {
	r.H = uint8(value >> 8) //nolint:gosec // G115: high byte extraction
	r.L = uint8(value)      //nolint:gosec // G115: low byte extraction
}

// Flag reports whether the given flag bit is set.
func (r *Registers) Flag(flag uint8) bool {
	return r.F&flag != 0
}

// SetFlag sets a flag bit.
func (r *Registers) SetFlag(flag uint8) {
	r.F |= flag
}

// ClearFlag clears a flag bit.
func (r *Registers) ClearFlag(flag uint8) {
	r.F &^= flag
}

// PutFlag sets or clears a flag bit.
func (r *Registers) PutFlag(flag uint8, on bool) {
	if on {
		r.F |= flag
	} else {
		r.F &^= flag
	}
}

// Zero reports the Zero flag.
func (r *Registers) Zero() bool { return r.Flag(FlagZ) }

// Subtract reports the Subtract flag.
func (r *Registers) Subtract() bool { return r.Flag(FlagN) }

// HalfCarry reports the Half-carry flag.
func (r *Registers) HalfCarry() bool { return r.Flag(FlagH) }

// Carry reports the Carry flag.
func (r *Registers) Carry() bool { return r.Flag(FlagC) }
