package cpu

// Operand index used by the regular opcode blocks: 0..7 selects
// B, C, D, E, H, L, (HL), A. Index 6 is the memory operand.
const indirectHL = 6

// reg8 reads the 8-bit operand with the given index.
func (c *CPU) reg8(idx uint8) uint8 {
	switch idx & 0x07 {
	case 0:
		return c.Regs.B
	case 1:
		return c.Regs.C
	case 2:
		return c.Regs.D
	case 3:
		return c.Regs.E
	case 4:
		return c.Regs.H
	case 5:
		return c.Regs.L
	case indirectHL:
		return c.bus.Read(c.Regs.HL())
	default:
		return c.Regs.A
	}
}

// setReg8 writes the 8-bit operand with the given index.
func (c *CPU) setReg8(idx, value uint8) {
	switch idx & 0x07 {
	case 0:
		c.Regs.B = value
	case 1:
		c.Regs.C = value
	case 2:
		c.Regs.D = value
	case 3:
		c.Regs.E = value
	case 4:
		c.Regs.H = value
	case 5:
		c.Regs.L = value
	case indirectHL:
		c.bus.Write(c.Regs.HL(), value)
	default:
		c.Regs.A = value
	}
}

// alu applies one of the eight accumulator operations (ADD, ADC, SUB, SBC,
// AND, XOR, OR, CP in opcode order) to A and the operand.
func (c *CPU) alu(op, value uint8) {
	switch op & 0x07 {
	case 0:
		c.Regs.A = c.add8(c.Regs.A, value, false)
	case 1:
		c.Regs.A = c.add8(c.Regs.A, value, true)
	case 2:
		c.Regs.A = c.sub8(c.Regs.A, value, false)
	case 3:
		c.Regs.A = c.sub8(c.Regs.A, value, true)
	case 4:
		c.Regs.A = c.and(value)
	case 5:
		c.Regs.A = c.xor(value)
	case 6:
		c.Regs.A = c.or(value)
	case 7:
		// CP discards the result.
		c.sub8(c.Regs.A, value, false)
	}
}

// Control-flow helpers. Conditional variants return the taken cost when the
// condition holds and the shorter not-taken cost otherwise; operand bytes are
// consumed either way.

func (c *CPU) jumpRelative(taken bool) uint8 {
	offset := int8(c.fetchByte()) //nolint:gosec // G115: signed displacement
	if !taken {
		return 8
	}
	c.Regs.PC = uint16(int32(c.Regs.PC) + int32(offset)) //nolint:gosec // G115: wrapping add
	return 12
}

func (c *CPU) jump(taken bool) uint8 {
	addr := c.fetchWord()
	if !taken {
		return 12
	}
	c.Regs.PC = addr
	return 16
}

func (c *CPU) call(taken bool) uint8 {
	addr := c.fetchWord()
	if !taken {
		return 12
	}
	c.push(c.Regs.PC)
	c.Regs.PC = addr
	return 24
}

func (c *CPU) retCond(taken bool) uint8 {
	if !taken {
		return 8
	}
	c.Regs.PC = c.pop()
	return 20
}

func (c *CPU) rst(vector uint16) uint8 {
	c.push(c.Regs.PC)
	c.Regs.PC = vector
	return 16
}

// illegal handles the opcodes with no defined instruction. On hardware they
// freeze the core; the lock is observable via Locked and every following
// Step is an idle cycle.
func (c *CPU) illegal() uint8 {
	c.locked = true
	return 4
}

// execute runs one non-prefixed opcode and returns its T-cycle cost.
//
//nolint:gocognit,gocyclo,cyclop,funlen,maintidx // exhaustive 256-entry decode
func (c *CPU) execute(opcode uint8) uint8 {
	// The two regular quadrants decode by bit fields: 0x40-0x7F is
	// LD r, r' (0x76 is HALT), 0x80-0xBF is the accumulator ALU block.
	if opcode >= 0x40 && opcode < 0x80 && opcode != 0x76 {
		dst := opcode >> 3 & 0x07
		src := opcode & 0x07
		c.setReg8(dst, c.reg8(src))
		if dst == indirectHL || src == indirectHL {
			return 8
		}
		return 4
	}
	if opcode >= 0x80 && opcode < 0xC0 {
		c.alu(opcode>>3, c.reg8(opcode))
		if opcode&0x07 == indirectHL {
			return 8
		}
		return 4
	}

	switch opcode {
	// 0x00-0x3F: loads, 16-bit arithmetic, rotates on A, relative jumps
	case 0x00: // NOP
		return 4
	case 0x01: // LD BC, nn
		c.Regs.SetBC(c.fetchWord())
		return 12
	case 0x02: // LD (BC), A
		c.bus.Write(c.Regs.BC(), c.Regs.A)
		return 8
	case 0x03: // INC BC
		c.Regs.SetBC(c.Regs.BC() + 1)
		return 8
	case 0x04: // INC B
		c.Regs.B = c.inc8(c.Regs.B)
		return 4
	case 0x05: // DEC B
		c.Regs.B = c.dec8(c.Regs.B)
		return 4
	case 0x06: // LD B, n
		c.Regs.B = c.fetchByte()
		return 8
	case 0x07: // RLCA
		c.Regs.A = c.rlc(c.Regs.A)
		c.Regs.ClearFlag(FlagZ)
		return 4
	case 0x08: // LD (nn), SP
		addr := c.fetchWord()
		c.bus.Write(addr, uint8(c.Regs.SP))        //nolint:gosec // G115: low byte
		c.bus.Write(addr+1, uint8(c.Regs.SP>>8))   //nolint:gosec // G115: high byte
		return 20
	case 0x09: // ADD HL, BC
		c.Regs.SetHL(c.add16(c.Regs.HL(), c.Regs.BC()))
		return 8
	case 0x0A: // LD A, (BC)
		c.Regs.A = c.bus.Read(c.Regs.BC())
		return 8
	case 0x0B: // DEC BC
		c.Regs.SetBC(c.Regs.BC() - 1)
		return 8
	case 0x0C: // INC C
		c.Regs.C = c.inc8(c.Regs.C)
		return 4
	case 0x0D: // DEC C
		c.Regs.C = c.dec8(c.Regs.C)
		return 4
	case 0x0E: // LD C, n
		c.Regs.C = c.fetchByte()
		return 8
	case 0x0F: // RRCA
		c.Regs.A = c.rrc(c.Regs.A)
		c.Regs.ClearFlag(FlagZ)
		return 4

	case 0x10: // STOP
		c.stopped = true
		c.fetchByte() // second byte of the two-byte encoding
		return 4
	case 0x11: // LD DE, nn
		c.Regs.SetDE(c.fetchWord())
		return 12
	case 0x12: // LD (DE), A
		c.bus.Write(c.Regs.DE(), c.Regs.A)
		return 8
	case 0x13: // INC DE
		c.Regs.SetDE(c.Regs.DE() + 1)
		return 8
	case 0x14: // INC D
		c.Regs.D = c.inc8(c.Regs.D)
		return 4
	case 0x15: // DEC D
		c.Regs.D = c.dec8(c.Regs.D)
		return 4
	case 0x16: // LD D, n
		c.Regs.D = c.fetchByte()
		return 8
	case 0x17: // RLA
		c.Regs.A = c.rl(c.Regs.A)
		c.Regs.ClearFlag(FlagZ)
		return 4
	case 0x18: // JR e
		return c.jumpRelative(true)
	case 0x19: // ADD HL, DE
		c.Regs.SetHL(c.add16(c.Regs.HL(), c.Regs.DE()))
		return 8
	case 0x1A: // LD A, (DE)
		c.Regs.A = c.bus.Read(c.Regs.DE())
		return 8
	case 0x1B: // DEC DE
		c.Regs.SetDE(c.Regs.DE() - 1)
		return 8
	case 0x1C: // INC E
		c.Regs.E = c.inc8(c.Regs.E)
		return 4
	case 0x1D: // DEC E
		c.Regs.E = c.dec8(c.Regs.E)
		return 4
	case 0x1E: // LD E, n
		c.Regs.E = c.fetchByte()
		return 8
	case 0x1F: // RRA
		c.Regs.A = c.rr(c.Regs.A)
		c.Regs.ClearFlag(FlagZ)
		return 4

	case 0x20: // JR NZ, e
		return c.jumpRelative(!c.Regs.Zero())
	case 0x21: // LD HL, nn
		c.Regs.SetHL(c.fetchWord())
		return 12
	case 0x22: // LD (HL+), A
		c.bus.Write(c.Regs.HL(), c.Regs.A)
		c.Regs.SetHL(c.Regs.HL() + 1)
		return 8
	case 0x23: // INC HL
		c.Regs.SetHL(c.Regs.HL() + 1)
		return 8
	case 0x24: // INC H
		c.Regs.H = c.inc8(c.Regs.H)
		return 4
	case 0x25: // DEC H
		c.Regs.H = c.dec8(c.Regs.H)
		return 4
	case 0x26: // LD H, n
		c.Regs.H = c.fetchByte()
		return 8
	case 0x27: // DAA
		c.daa()
		return 4
	case 0x28: // JR Z, e
		return c.jumpRelative(c.Regs.Zero())
	case 0x29: // ADD HL, HL
		c.Regs.SetHL(c.add16(c.Regs.HL(), c.Regs.HL()))
		return 8
	case 0x2A: // LD A, (HL+)
		c.Regs.A = c.bus.Read(c.Regs.HL())
		c.Regs.SetHL(c.Regs.HL() + 1)
		return 8
	case 0x2B: // DEC HL
		c.Regs.SetHL(c.Regs.HL() - 1)
		return 8
	case 0x2C: // INC L
		c.Regs.L = c.inc8(c.Regs.L)
		return 4
	case 0x2D: // DEC L
		c.Regs.L = c.dec8(c.Regs.L)
		return 4
	case 0x2E: // LD L, n
		c.Regs.L = c.fetchByte()
		return 8
	case 0x2F: // CPL
		c.Regs.A = ^c.Regs.A
		c.Regs.SetFlag(FlagN)
		c.Regs.SetFlag(FlagH)
		return 4

	case 0x30: // JR NC, e
		return c.jumpRelative(!c.Regs.Carry())
	case 0x31: // LD SP, nn
		c.Regs.SP = c.fetchWord()
		return 12
	case 0x32: // LD (HL-), A
		c.bus.Write(c.Regs.HL(), c.Regs.A)
		c.Regs.SetHL(c.Regs.HL() - 1)
		return 8
	case 0x33: // INC SP
		c.Regs.SP++
		return 8
	case 0x34: // INC (HL)
		addr := c.Regs.HL()
		c.bus.Write(addr, c.inc8(c.bus.Read(addr)))
		return 12
	case 0x35: // DEC (HL)
		addr := c.Regs.HL()
		c.bus.Write(addr, c.dec8(c.bus.Read(addr)))
		return 12
	case 0x36: // LD (HL), n
		c.bus.Write(c.Regs.HL(), c.fetchByte())
		return 12
	case 0x37: // SCF
		c.Regs.ClearFlag(FlagN)
		c.Regs.ClearFlag(FlagH)
		c.Regs.SetFlag(FlagC)
		return 4
	case 0x38: // JR C, e
		return c.jumpRelative(c.Regs.Carry())
	case 0x39: // ADD HL, SP
		c.Regs.SetHL(c.add16(c.Regs.HL(), c.Regs.SP))
		return 8
	case 0x3A: // LD A, (HL-)
		c.Regs.A = c.bus.Read(c.Regs.HL())
		c.Regs.SetHL(c.Regs.HL() - 1)
		return 8
	case 0x3B: // DEC SP
		c.Regs.SP--
		return 8
	case 0x3C: // INC A
		c.Regs.A = c.inc8(c.Regs.A)
		return 4
	case 0x3D: // DEC A
		c.Regs.A = c.dec8(c.Regs.A)
		return 4
	case 0x3E: // LD A, n
		c.Regs.A = c.fetchByte()
		return 8
	case 0x3F: // CCF
		c.Regs.ClearFlag(FlagN)
		c.Regs.ClearFlag(FlagH)
		c.Regs.PutFlag(FlagC, !c.Regs.Carry())
		return 4

	case 0x76: // HALT
		// HALT with IME clear while a request is already pending does not
		// halt; instead the next opcode byte is read twice (the halt bug).
		if !c.IME && c.ic.Pending() {
			c.haltBug = true
		} else {
			c.halted = true
		}
		return 4

	// 0xC0-0xFF: stack, control flow, immediate ALU, high-page loads
	case 0xC0: // RET NZ
		return c.retCond(!c.Regs.Zero())
	case 0xC1: // POP BC
		c.Regs.SetBC(c.pop())
		return 12
	case 0xC2: // JP NZ, nn
		return c.jump(!c.Regs.Zero())
	case 0xC3: // JP nn
		return c.jump(true)
	case 0xC4: // CALL NZ, nn
		return c.call(!c.Regs.Zero())
	case 0xC5: // PUSH BC
		c.push(c.Regs.BC())
		return 16
	case 0xC6: // ADD A, n
		c.alu(0, c.fetchByte())
		return 8
	case 0xC7: // RST 00H
		return c.rst(0x00)
	case 0xC8: // RET Z
		return c.retCond(c.Regs.Zero())
	case 0xC9: // RET
		c.Regs.PC = c.pop()
		return 16
	case 0xCA: // JP Z, nn
		return c.jump(c.Regs.Zero())
	case 0xCB:
		// The prefix byte is consumed in Step; a gap here is a decode bug.
		panic("cpu: CB prefix reached execute")
	case 0xCC: // CALL Z, nn
		return c.call(c.Regs.Zero())
	case 0xCD: // CALL nn
		return c.call(true)
	case 0xCE: // ADC A, n
		c.alu(1, c.fetchByte())
		return 8
	case 0xCF: // RST 08H
		return c.rst(0x08)

	case 0xD0: // RET NC
		return c.retCond(!c.Regs.Carry())
	case 0xD1: // POP DE
		c.Regs.SetDE(c.pop())
		return 12
	case 0xD2: // JP NC, nn
		return c.jump(!c.Regs.Carry())
	case 0xD3:
		return c.illegal()
	case 0xD4: // CALL NC, nn
		return c.call(!c.Regs.Carry())
	case 0xD5: // PUSH DE
		c.push(c.Regs.DE())
		return 16
	case 0xD6: // SUB n
		c.alu(2, c.fetchByte())
		return 8
	case 0xD7: // RST 10H
		return c.rst(0x10)
	case 0xD8: // RET C
		return c.retCond(c.Regs.Carry())
	case 0xD9: // RETI
		c.Regs.PC = c.pop()
		c.IME = true
		return 16
	case 0xDA: // JP C, nn
		return c.jump(c.Regs.Carry())
	case 0xDB:
		return c.illegal()
	case 0xDC: // CALL C, nn
		return c.call(c.Regs.Carry())
	case 0xDD:
		return c.illegal()
	case 0xDE: // SBC A, n
		c.alu(3, c.fetchByte())
		return 8
	case 0xDF: // RST 18H
		return c.rst(0x18)

	case 0xE0: // LDH (n), A
		c.bus.Write(0xFF00+uint16(c.fetchByte()), c.Regs.A)
		return 12
	case 0xE1: // POP HL
		c.Regs.SetHL(c.pop())
		return 12
	case 0xE2: // LDH (C), A
		c.bus.Write(0xFF00+uint16(c.Regs.C), c.Regs.A)
		return 8
	case 0xE3, 0xE4:
		return c.illegal()
	case 0xE5: // PUSH HL
		c.push(c.Regs.HL())
		return 16
	case 0xE6: // AND n
		c.alu(4, c.fetchByte())
		return 8
	case 0xE7: // RST 20H
		return c.rst(0x20)
	case 0xE8: // ADD SP, e
		c.Regs.SP = c.addSPOffset(int8(c.fetchByte())) //nolint:gosec // G115: signed displacement
		return 16
	case 0xE9: // JP HL
		c.Regs.PC = c.Regs.HL()
		return 4
	case 0xEA: // LD (nn), A
		c.bus.Write(c.fetchWord(), c.Regs.A)
		return 16
	case 0xEB, 0xEC, 0xED:
		return c.illegal()
	case 0xEE: // XOR n
		c.alu(5, c.fetchByte())
		return 8
	case 0xEF: // RST 28H
		return c.rst(0x28)

	case 0xF0: // LDH A, (n)
		c.Regs.A = c.bus.Read(0xFF00 + uint16(c.fetchByte()))
		return 12
	case 0xF1: // POP AF
		c.Regs.SetAF(c.pop())
		return 12
	case 0xF2: // LDH A, (C)
		c.Regs.A = c.bus.Read(0xFF00 + uint16(c.Regs.C))
		return 8
	case 0xF3: // DI
		c.IME = false
		c.imeDelay = 0
		return 4
	case 0xF4:
		return c.illegal()
	case 0xF5: // PUSH AF
		c.push(c.Regs.AF())
		return 16
	case 0xF6: // OR n
		c.alu(6, c.fetchByte())
		return 8
	case 0xF7: // RST 30H
		return c.rst(0x30)
	case 0xF8: // LD HL, SP+e
		c.Regs.SetHL(c.addSPOffset(int8(c.fetchByte()))) //nolint:gosec // G115: signed displacement
		return 12
	case 0xF9: // LD SP, HL
		c.Regs.SP = c.Regs.HL()
		return 8
	case 0xFA: // LD A, (nn)
		c.Regs.A = c.bus.Read(c.fetchWord())
		return 16
	case 0xFB: // EI
		// Takes effect after the next instruction completes.
		c.imeDelay = 2
		return 4
	case 0xFC, 0xFD:
		return c.illegal()
	case 0xFE: // CP n
		c.alu(7, c.fetchByte())
		return 8
	case 0xFF: // RST 38H
		return c.rst(0x38)

	default:
		// Unreachable with a complete table; reaching it is a decode bug,
		// not an emulation condition.
		panic("cpu: opcode fell through the dispatch table")
	}
}
