// Package interrupts implements the Game Boy interrupt controller: the
// interrupt enable register (IE, 0xFFFF) and the interrupt flag register
// (IF, 0xFF0F).
//
// Peripherals raise requests through Request; the CPU consumes them via
// Highest/Acknowledge. The controller is plain shared state owned by the
// emulated session, so independent sessions never interfere.
package interrupts

// Source identifies one of the five interrupt sources, in priority order
// (VBlank highest, Joypad lowest).
type Source uint8

// Interrupt sources, bit positions in IE/IF.
const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// sourceMask covers the five implemented interrupt bits.
const sourceMask = 0x1F

// Mask returns the IE/IF bit for the source.
func (s Source) Mask() uint8 {
	return 1 << s
}

// Vector returns the fixed address the CPU jumps to when servicing the source.
func (s Source) Vector() uint16 {
	return 0x40 + uint16(s)*8
}

// String returns the conventional name of the source.
func (s Source) String() string {
	switch s {
	case VBlank:
		return "VBlank"
	case LCDStat:
		return "LCD STAT"
	case Timer:
		return "Timer"
	case Serial:
		return "Serial"
	case Joypad:
		return "Joypad"
	default:
		return "Unknown"
	}
}

// Controller holds the interrupt enable mask and request flags.
type Controller struct {
	enable uint8 // IE (0xFFFF)
	flags  uint8 // IF (0xFF0F), low 5 bits
}

// NewController creates a controller with no interrupts enabled or requested.
func NewController() *Controller {
	return &Controller{}
}

// Request sets the request flag for the source.
func (c *Controller) Request(s Source) {
	c.flags |= s.Mask()
}

// Acknowledge clears the request flag for the source.
func (c *Controller) Acknowledge(s Source) {
	c.flags &^= s.Mask()
}

// Pending reports whether any enabled interrupt is requested.
func (c *Controller) Pending() bool {
	return c.enable&c.flags&sourceMask != 0
}

// Highest returns the highest-priority enabled and requested source.
// The second return value is false when nothing is pending.
func (c *Controller) Highest() (Source, bool) {
	pending := c.enable & c.flags & sourceMask
	for s := VBlank; s <= Joypad; s++ {
		if pending&s.Mask() != 0 {
			return s, true
		}
	}
	return 0, false
}

// ReadEnable returns the IE register value.
func (c *Controller) ReadEnable() uint8 {
	return c.enable
}

// WriteEnable sets the IE register. All 8 bits are stored, as on hardware.
func (c *Controller) WriteEnable(value uint8) {
	c.enable = value
}

// ReadFlags returns the IF register value. The unused upper 3 bits read as 1.
func (c *Controller) ReadFlags() uint8 {
	return c.flags | ^uint8(sourceMask)
}

// WriteFlags sets the IF register. Only the low 5 bits are writable.
func (c *Controller) WriteFlags(value uint8) {
	c.flags = value & sourceMask
}

// Reset clears all enable and request bits.
func (c *Controller) Reset() {
	c.enable = 0
	c.flags = 0
}
