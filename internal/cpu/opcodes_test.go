package cpu

import (
	"testing"
)

func TestLoadImmediate(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x06, 0x42) // LD B, 0x42

	cycles := c.Step()
	if cycles != 8 {
		t.Errorf("LD B, n cycles = %d, want 8", cycles)
	}
	if c.Regs.B != 0x42 {
		t.Errorf("B = %02X, want 0x42", c.Regs.B)
	}
}

func TestLoadRegisterBlock(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x41) // LD B, C
	c.Regs.C = 0x99

	cycles := c.Step()
	if cycles != 4 {
		t.Errorf("LD B, C cycles = %d, want 4", cycles)
	}
	if c.Regs.B != 0x99 {
		t.Errorf("B = %02X, want 0x99", c.Regs.B)
	}
}

func TestLoadThroughHL(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x46, 0x70) // LD B, (HL); LD (HL), B
	c.Regs.SetHL(0xC000)
	bus.data[0xC000] = 0x5A

	if cycles := c.Step(); cycles != 8 {
		t.Errorf("LD B, (HL) cycles = %d, want 8", cycles)
	}
	if c.Regs.B != 0x5A {
		t.Errorf("B = %02X, want 0x5A", c.Regs.B)
	}

	c.Regs.B = 0xA5
	if cycles := c.Step(); cycles != 8 {
		t.Errorf("LD (HL), B cycles = %d, want 8", cycles)
	}
	if bus.data[0xC000] != 0xA5 {
		t.Errorf("(HL) = %02X, want 0xA5", bus.data[0xC000])
	}
}

func TestLoad16AndIncrements(t *testing.T) {
	c, bus, _ := setup()
	load(bus,
		0x21, 0x00, 0xC0, // LD HL, 0xC000
		0x22, // LD (HL+), A
		0x32, // LD (HL-), A
	)
	c.Regs.A = 0x7E

	if cycles := c.Step(); cycles != 12 {
		t.Errorf("LD HL, nn cycles = %d, want 12", cycles)
	}
	if c.Regs.HL() != 0xC000 {
		t.Errorf("HL = %04X, want 0xC000", c.Regs.HL())
	}

	c.Step() // LD (HL+), A
	if bus.data[0xC000] != 0x7E || c.Regs.HL() != 0xC001 {
		t.Errorf("(0xC000) = %02X HL = %04X, want 0x7E / 0xC001",
			bus.data[0xC000], c.Regs.HL())
	}

	c.Step() // LD (HL-), A
	if bus.data[0xC001] != 0x7E || c.Regs.HL() != 0xC000 {
		t.Errorf("(0xC001) = %02X HL = %04X, want 0x7E / 0xC000",
			bus.data[0xC001], c.Regs.HL())
	}
}

func TestJumpAbsolute(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xC3, 0x00, 0x02) // JP 0x0200

	cycles := c.Step()
	if cycles != 16 {
		t.Errorf("JP cycles = %d, want 16", cycles)
	}
	if c.Regs.PC != 0x0200 {
		t.Errorf("PC = %04X, want 0x0200", c.Regs.PC)
	}
}

func TestJumpConditionalCycles(t *testing.T) {
	// JP NZ taken vs not taken: 16 vs 12 cycles.
	c, bus, _ := setup()
	load(bus, 0xC2, 0x00, 0x02) // JP NZ, 0x0200
	c.Regs.ClearFlag(FlagZ)

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("taken JP NZ cycles = %d, want 16", cycles)
	}

	c, bus, _ = setup()
	load(bus, 0xC2, 0x00, 0x02)
	c.Regs.SetFlag(FlagZ)

	if cycles := c.Step(); cycles != 12 {
		t.Errorf("not-taken JP NZ cycles = %d, want 12", cycles)
	}
	if c.Regs.PC != 0x0103 {
		t.Errorf("PC = %04X, want 0x0103 (operand still consumed)", c.Regs.PC)
	}
}

func TestJumpRelativeBackward(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x18, 0xFE) // JR -2: loops onto itself

	cycles := c.Step()
	if cycles != 12 {
		t.Errorf("JR cycles = %d, want 12", cycles)
	}
	if c.Regs.PC != 0x0100 {
		t.Errorf("PC = %04X, want 0x0100", c.Regs.PC)
	}
}

func TestJumpRelativeConditional(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x20, 0x10) // JR NZ, +0x10
	c.Regs.SetFlag(FlagZ)

	if cycles := c.Step(); cycles != 8 {
		t.Errorf("not-taken JR NZ cycles = %d, want 8", cycles)
	}
	if c.Regs.PC != 0x0102 {
		t.Errorf("PC = %04X, want 0x0102", c.Regs.PC)
	}
}

func TestCallAndReturn(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xCD, 0x00, 0x02) // CALL 0x0200
	bus.data[0x0200] = 0xC9     // RET
	c.Regs.SP = 0xFFFE

	if cycles := c.Step(); cycles != 24 {
		t.Errorf("CALL cycles = %d, want 24", cycles)
	}
	if c.Regs.PC != 0x0200 {
		t.Errorf("PC = %04X, want 0x0200", c.Regs.PC)
	}
	if c.Regs.SP != 0xFFFC {
		t.Errorf("SP = %04X, want 0xFFFC", c.Regs.SP)
	}

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("RET cycles = %d, want 16", cycles)
	}
	if c.Regs.PC != 0x0103 {
		t.Errorf("PC = %04X, want 0x0103", c.Regs.PC)
	}
}

func TestConditionalReturnCycles(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xC0) // RET NZ
	c.Regs.SP = 0xFFF0
	bus.data[0xFFF0] = 0x00
	bus.data[0xFFF1] = 0x02
	c.Regs.ClearFlag(FlagZ)

	if cycles := c.Step(); cycles != 20 {
		t.Errorf("taken RET NZ cycles = %d, want 20", cycles)
	}
	if c.Regs.PC != 0x0200 {
		t.Errorf("PC = %04X, want 0x0200", c.Regs.PC)
	}

	c, bus, _ = setup()
	load(bus, 0xC0)
	c.Regs.SetFlag(FlagZ)
	if cycles := c.Step(); cycles != 8 {
		t.Errorf("not-taken RET NZ cycles = %d, want 8", cycles)
	}
}

func TestRestart(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xEF) // RST 28H
	c.Regs.SP = 0xFFFE

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("RST cycles = %d, want 16", cycles)
	}
	if c.Regs.PC != 0x0028 {
		t.Errorf("PC = %04X, want 0x0028", c.Regs.PC)
	}
	pushed := uint16(bus.data[0xFFFC]) | uint16(bus.data[0xFFFD])<<8
	if pushed != 0x0101 {
		t.Errorf("pushed PC = %04X, want 0x0101", pushed)
	}
}

func TestStackPushPopPairs(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xC5, 0xD1) // PUSH BC; POP DE
	c.Regs.SetBC(0x1234)
	c.Regs.SP = 0xFFFE

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("PUSH cycles = %d, want 16", cycles)
	}
	if cycles := c.Step(); cycles != 12 {
		t.Errorf("POP cycles = %d, want 12", cycles)
	}
	if c.Regs.DE() != 0x1234 {
		t.Errorf("DE = %04X, want 0x1234", c.Regs.DE())
	}
}

func TestPopAFMasksLowNibble(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xF1) // POP AF
	c.Regs.SP = 0xFFF0
	bus.data[0xFFF0] = 0xFF // flags byte with garbage low nibble
	bus.data[0xFFF1] = 0x12

	c.Step()
	if c.Regs.AF() != 0x12F0 {
		t.Errorf("AF = %04X, want 0x12F0", c.Regs.AF())
	}
}

func TestHighPageLoads(t *testing.T) {
	c, bus, _ := setup()
	load(bus,
		0xE0, 0x80, // LDH (0x80), A
		0xF0, 0x80, // LDH A, (0x80)
	)
	c.Regs.A = 0x3C

	if cycles := c.Step(); cycles != 12 {
		t.Errorf("LDH (n), A cycles = %d, want 12", cycles)
	}
	if bus.data[0xFF80] != 0x3C {
		t.Errorf("(0xFF80) = %02X, want 0x3C", bus.data[0xFF80])
	}

	c.Regs.A = 0x00
	c.Step()
	if c.Regs.A != 0x3C {
		t.Errorf("A = %02X, want 0x3C", c.Regs.A)
	}
}

func TestLoadStoreSP(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x08, 0x00, 0xC0) // LD (0xC000), SP
	c.Regs.SP = 0xBEEF

	if cycles := c.Step(); cycles != 20 {
		t.Errorf("LD (nn), SP cycles = %d, want 20", cycles)
	}
	if bus.data[0xC000] != 0xEF || bus.data[0xC001] != 0xBE {
		t.Errorf("stored SP = %02X%02X, want BEEF", bus.data[0xC001], bus.data[0xC000])
	}
}

func TestAddSPOffsetFlags(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xE8, 0x01) // ADD SP, +1
	c.Regs.SP = 0x00FF

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("ADD SP, e cycles = %d, want 16", cycles)
	}
	if c.Regs.SP != 0x0100 {
		t.Errorf("SP = %04X, want 0x0100", c.Regs.SP)
	}
	// H and C come from the low byte of the unsigned addition.
	if !c.Regs.HalfCarry() || !c.Regs.Carry() {
		t.Errorf("flags H=%v C=%v, want both set", c.Regs.HalfCarry(), c.Regs.Carry())
	}
	if c.Regs.Zero() || c.Regs.Subtract() {
		t.Error("Z and N must be cleared by ADD SP, e")
	}
}

func TestCBRotateRegister(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xCB, 0x00) // RLC B
	c.Regs.B = 0x85

	cycles := c.Step()
	if cycles != 8 {
		t.Errorf("RLC B cycles = %d, want 8", cycles)
	}
	if c.Regs.B != 0x0B {
		t.Errorf("B = %02X, want 0x0B", c.Regs.B)
	}
	if !c.Regs.Carry() {
		t.Error("Carry should be set from bit 7")
	}
}

func TestCBBitTest(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xCB, 0x7C, 0xCB, 0x7C) // BIT 7, H twice
	c.Regs.H = 0x80

	if cycles := c.Step(); cycles != 8 {
		t.Errorf("BIT 7, H cycles = %d, want 8", cycles)
	}
	if c.Regs.Zero() {
		t.Error("Z should be clear when the bit is set")
	}

	c.Regs.H = 0x00
	c.Step()
	if !c.Regs.Zero() {
		t.Error("Z should be set when the bit is clear")
	}
}

func TestCBMemoryOperand(t *testing.T) {
	c, bus, _ := setup()
	load(bus,
		0xCB, 0xC6, // SET 0, (HL)
		0xCB, 0x86, // RES 0, (HL)
		0xCB, 0x46, // BIT 0, (HL)
	)
	c.Regs.SetHL(0xC000)

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("SET 0, (HL) cycles = %d, want 16", cycles)
	}
	if bus.data[0xC000] != 0x01 {
		t.Errorf("(HL) = %02X, want 0x01", bus.data[0xC000])
	}

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("RES 0, (HL) cycles = %d, want 16", cycles)
	}
	if bus.data[0xC000] != 0x00 {
		t.Errorf("(HL) = %02X, want 0x00", bus.data[0xC000])
	}

	if cycles := c.Step(); cycles != 12 {
		t.Errorf("BIT 0, (HL) cycles = %d, want 12", cycles)
	}
}

func TestCBSwap(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0xCB, 0x37) // SWAP A
	c.Regs.A = 0xF1

	c.Step()
	if c.Regs.A != 0x1F {
		t.Errorf("A = %02X, want 0x1F", c.Regs.A)
	}
	if c.Regs.Carry() || c.Regs.Zero() {
		t.Error("SWAP of nonzero value must clear all flags")
	}
}

func TestRotateAccumulatorClearsZ(t *testing.T) {
	// RLCA on zero would set Z through the shared helper; the accumulator
	// variants always clear it.
	c, bus, _ := setup()
	load(bus, 0x07) // RLCA
	c.Regs.A = 0x00
	c.Regs.SetFlag(FlagZ)

	c.Step()
	if c.Regs.Zero() {
		t.Error("RLCA must clear Z")
	}
}

func TestCPLAndCarryFlagOps(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x2F, 0x37, 0x3F) // CPL; SCF; CCF
	c.Regs.A = 0x35

	c.Step()
	if c.Regs.A != 0xCA {
		t.Errorf("A = %02X, want 0xCA", c.Regs.A)
	}
	if !c.Regs.Subtract() || !c.Regs.HalfCarry() {
		t.Error("CPL must set N and H")
	}

	c.Step()
	if !c.Regs.Carry() {
		t.Error("SCF must set C")
	}

	c.Step()
	if c.Regs.Carry() {
		t.Error("CCF must flip C")
	}
}

func TestAdd16SetsFlags(t *testing.T) {
	c, bus, _ := setup()
	load(bus, 0x09) // ADD HL, BC
	c.Regs.SetHL(0x0FFF)
	c.Regs.SetBC(0x0001)
	c.Regs.SetFlag(FlagZ) // must survive

	cycles := c.Step()
	if cycles != 8 {
		t.Errorf("ADD HL, BC cycles = %d, want 8", cycles)
	}
	if c.Regs.HL() != 0x1000 {
		t.Errorf("HL = %04X, want 0x1000", c.Regs.HL())
	}
	if !c.Regs.HalfCarry() {
		t.Error("H should be set on carry out of bit 11")
	}
	if !c.Regs.Zero() {
		t.Error("Z must be untouched by ADD HL, rr")
	}
}
