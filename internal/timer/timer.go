// Package timer implements the Game Boy timer: the free-running divider
// (DIV), the programmable counter (TIMA) with its modulo (TMA), and the
// control register (TAC).
//
// TIMA is clocked by a falling-edge detector on the AND of a selected bit of
// the internal 16-bit divider and the TAC enable bit. Because the detector
// watches the composite signal, writes that reset DIV or disable the timer
// can themselves produce an edge and clock TIMA, exactly as on hardware.
package timer

import (
	"github.com/dotmatrix-emu/dotmatrix/internal/interrupts"
)

// Timer register addresses.
const (
	DIV  = 0xFF04
	TIMA = 0xFF05
	TMA  = 0xFF06
	TAC  = 0xFF07
)

const (
	tacEnable    = 0x04
	tacClockMask = 0x03

	// reloadDelay is the number of T-cycles after a TIMA overflow during
	// which TIMA reads as 0, before it reloads from TMA and the interrupt
	// is requested.
	reloadDelay = 4
)

// Timer owns the divider and timer registers and raises timer interrupt
// requests through the interrupt controller.
type Timer struct {
	ic *interrupts.Controller

	// counter is the free-running 16-bit divider; DIV is its upper byte.
	counter uint16

	tima uint8
	tma  uint8
	tac  uint8

	// lastSignal is the previous value of (selected divider bit AND
	// enable), for falling-edge detection.
	lastSignal bool

	// reloadTicks counts down the overflow window; nonzero means TIMA has
	// wrapped and is waiting to reload from TMA.
	reloadTicks uint8
}

// New creates a timer that reports overflows to the given controller.
func New(ic *interrupts.Controller) *Timer {
	return &Timer{ic: ic}
}

// Read returns the value of a timer register. Unmapped addresses read 0xFF.
func (t *Timer) Read(addr uint16) uint8 {
	switch addr {
	case DIV:
		return uint8(t.counter >> 8) //nolint:gosec // DIV is the high byte
	case TIMA:
		return t.tima
	case TMA:
		return t.tma
	case TAC:
		return t.tac | 0xF8 // unused bits read as 1
	}
	return 0xFF
}

// Write stores to a timer register, applying the documented side effects.
func (t *Timer) Write(addr uint16, value uint8) {
	switch addr {
	case DIV:
		// Any write zeroes the whole internal counter. Dropping a high
		// selected bit counts as a falling edge.
		t.counter = 0
		t.detectEdge()

	case TIMA:
		// A write inside the overflow window cancels the reload and the
		// interrupt.
		t.tima = value
		t.reloadTicks = 0

	case TMA:
		t.tma = value

	case TAC:
		t.tac = value & 0x07
		t.detectEdge()
	}
}

// Update advances the timer by the given number of T-cycles. The CPU calls
// this once per instruction with the cycles that instruction consumed.
func (t *Timer) Update(cycles uint16) {
	for i := uint16(0); i < cycles; i++ {
		t.tick()
	}
}

// tick advances the divider by one T-cycle.
func (t *Timer) tick() {
	if t.reloadTicks > 0 {
		t.reloadTicks--
		if t.reloadTicks == 0 {
			t.tima = t.tma
			t.ic.Request(interrupts.Timer)
		}
	}

	t.counter++ // wraps at 0xFFFF, as on hardware
	t.detectEdge()
}

// detectEdge clocks TIMA when the composite timer signal falls.
func (t *Timer) detectEdge() {
	signal := t.enabled() && t.selectedBit()
	if t.lastSignal && !signal {
		t.incrementTIMA()
	}
	t.lastSignal = signal
}

// incrementTIMA bumps the counter and opens the overflow window on wrap.
func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima == 0 {
		t.reloadTicks = reloadDelay
	}
}

func (t *Timer) enabled() bool {
	return t.tac&tacEnable != 0
}

// selectedBit returns the divider bit chosen by the TAC clock-select field:
// 00 -> bit 9 (4096 Hz), 01 -> bit 3 (262144 Hz), 10 -> bit 5 (65536 Hz),
// 11 -> bit 7 (16384 Hz).
func (t *Timer) selectedBit() bool {
	var bit uint
	switch t.tac & tacClockMask {
	case 0:
		bit = 9
	case 1:
		bit = 3
	case 2:
		bit = 5
	case 3:
		bit = 7
	}
	return t.counter&(1<<bit) != 0
}

// Reset returns the timer to its power-on state.
func (t *Timer) Reset() {
	t.counter = 0
	t.tima = 0
	t.tma = 0
	t.tac = 0
	t.lastSignal = false
	t.reloadTicks = 0
}
