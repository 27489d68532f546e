// Package cpu implements the Sharp SM83 CPU used in the Game Boy (DMG).
package cpu

import (
	"github.com/dotmatrix-emu/dotmatrix/internal/interrupts"
)

// Bus is the CPU's view of the memory bus. Both functions are total over the
// 16-bit address space and never fail.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const (
	// prefixOpcode introduces the 256-entry CB instruction page.
	prefixOpcode = 0xCB

	// idleCycles is one machine cycle in T-cycles, consumed while halted
	// or locked.
	idleCycles = 4

	// interruptCycles is the fixed cost of an interrupt dispatch
	// (2 idle + 2 push + 1 jump machine cycles).
	interruptCycles = 20
)

// CPU represents the SM83 core. One Step executes one instruction (or one
// interrupt dispatch, or one idle cycle while halted) and returns the
// T-cycles consumed, which the caller forwards to the timer and other
// cycle-driven peripherals.
type CPU struct {
	Regs *Registers

	bus Bus
	ic  *interrupts.Controller

	// IME is the interrupt master enable latch.
	IME bool

	halted  bool
	haltBug bool
	stopped bool
	locked  bool

	// imeDelay models EI's one-instruction latency: EI sets it to 2 and it
	// counts down once per executed instruction; IME goes high when it
	// reaches zero.
	imeDelay uint8

	// Cycles counts total elapsed T-cycles for the session.
	Cycles uint64
}

// New creates a CPU attached to the given bus and interrupt controller.
func New(bus Bus, ic *interrupts.Controller) *CPU {
	return &CPU{
		Regs: NewRegisters(),
		bus:  bus,
		ic:   ic,
	}
}

// Halted reports whether the CPU is in the low-power HALT state.
func (c *CPU) Halted() bool {
	return c.halted
}

// Stopped reports whether the CPU has executed STOP.
func (c *CPU) Stopped() bool {
	return c.stopped
}

// Locked reports whether the CPU has executed one of the opcodes that freeze
// the core. A locked CPU only consumes idle cycles.
func (c *CPU) Locked() bool {
	return c.locked
}

// Step executes one instruction boundary and returns the T-cycles consumed.
//
// Order of business: service a pending enabled interrupt if IME is set
// (replacing the fetch for this step), otherwise wake from or remain in HALT,
// otherwise fetch, decode and execute. The EI latch counts down after the
// executed instruction so that interrupts become visible only at the boundary
// after the next one.
func (c *CPU) Step() uint8 {
	if c.locked {
		c.Cycles += idleCycles
		return idleCycles
	}

	if c.IME && c.ic.Pending() {
		c.Cycles += interruptCycles
		c.serviceInterrupt()
		return interruptCycles
	}

	if c.halted {
		// HALT ends when any enabled interrupt is requested, even with
		// IME clear (in that case execution just continues).
		if !c.ic.Pending() {
			c.Cycles += idleCycles
			return idleCycles
		}
		c.halted = false
	}

	opcode := c.fetchByte()

	var cycles uint8
	if opcode == prefixOpcode {
		cycles = c.executeCB(c.fetchByte())
	} else {
		cycles = c.execute(opcode)
	}

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.IME = true
		}
	}

	c.Cycles += uint64(cycles)
	return cycles
}

// serviceInterrupt dispatches the highest-priority pending interrupt:
// IME and the request bit are cleared, PC is pushed and control transfers to
// the fixed vector.
func (c *CPU) serviceInterrupt() {
	src, ok := c.ic.Highest()
	if !ok {
		return
	}

	c.halted = false
	c.IME = false
	c.imeDelay = 0
	c.ic.Acknowledge(src)
	c.push(c.Regs.PC)
	c.Regs.PC = src.Vector()
}

// fetchByte reads the byte at PC and advances PC. When the halt bug is armed
// the advance is suppressed once, so the same byte is decoded twice.
func (c *CPU) fetchByte() uint8 {
	value := c.bus.Read(c.Regs.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.Regs.PC++
	}
	return value
}

// fetchWord reads a little-endian 16-bit operand at PC.
func (c *CPU) fetchWord() uint16 {
	low := uint16(c.fetchByte())
	high := uint16(c.fetchByte())
	return high<<8 | low
}

// push pushes a 16-bit value onto the stack, high byte at the higher address.
func (c *CPU) push(value uint16) {
	c.Regs.SP -= 2
	c.bus.Write(c.Regs.SP, uint8(value))      //nolint:gosec // G115: low byte
	c.bus.Write(c.Regs.SP+1, uint8(value>>8)) //nolint:gosec // G115: high byte
}

// pop pops a 16-bit value from the stack.
func (c *CPU) pop() uint16 {
	low := uint16(c.bus.Read(c.Regs.SP))
	high := uint16(c.bus.Read(c.Regs.SP + 1))
	c.Regs.SP += 2
	return high<<8 | low
}
