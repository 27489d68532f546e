package cpu

// executeCB runs one CB-prefixed opcode and returns its T-cycle cost.
//
// The CB page is fully regular: bits 7-6 select the operation group
// (rotate/shift, BIT, RES, SET), bits 5-3 the sub-operation or bit number,
// bits 2-0 the operand.
func (c *CPU) executeCB(opcode uint8) uint8 {
	operand := opcode & 0x07
	group := opcode >> 6
	selector := opcode >> 3 & 0x07

	// Register operations cost 8 cycles; (HL) operations cost 16, except
	// BIT which only reads and costs 12.
	cycles := uint8(8)
	if operand == indirectHL {
		if group == 1 {
			cycles = 12
		} else {
			cycles = 16
		}
	}

	value := c.reg8(operand)

	switch group {
	case 0: // rotates and shifts
		switch selector {
		case 0:
			value = c.rlc(value)
		case 1:
			value = c.rrc(value)
		case 2:
			value = c.rl(value)
		case 3:
			value = c.rr(value)
		case 4:
			value = c.sla(value)
		case 5:
			value = c.sra(value)
		case 6:
			value = c.swap(value)
		case 7:
			value = c.srl(value)
		}
		c.setReg8(operand, value)

	case 1: // BIT b, r
		c.testBit(value, selector)

	case 2: // RES b, r
		c.setReg8(operand, value&^(1<<selector))

	case 3: // SET b, r
		c.setReg8(operand, value|1<<selector)
	}

	return cycles
}
