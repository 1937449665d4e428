package cpu

// instr describes one base-table opcode: its encoded length in bytes,
// its dot cost, and the handler that performs it. Non-branching
// instructions use exec; the jump/call/ret family uses execJ instead,
// which both computes the next PC and reports whether a conditional
// branch was taken (so Step can charge the taken-vs-not-taken dot
// cost). Exactly one of exec/execJ is set per entry.
type instr struct {
	mnemonic    string
	length      uint8
	cycles      uint8
	cyclesTaken uint8
	exec        func(c *CPU, op1, op2 uint8)
	execJ       func(c *CPU, op1, op2 uint8, next uint16) (newPC uint16, taken bool)
}

var baseTable [256]instr

func init() {
	buildMiscBlock()
	buildLoadGrid()
	buildALUBlock()
	buildControlBlock()
}

// regName8 gives the mnemonic-table register letters matching reg8B..reg8A.
var regName8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// buildLoadGrid fills $40-$7F: LD r,r' for every (dst,src) pair, 8x8,
// with $76 (dst=(HL), src=(HL)) overridden as HALT per the Sharp
// encoding quirk where that one slot has no LD (HL),(HL) opcode.
func buildLoadGrid() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			op := 0x40 + dst*8 + src
			d, s := dst, src
			cyc := uint8(4)
			if d == reg8HL || s == reg8HL {
				cyc = 8
			}
			baseTable[op] = instr{
				mnemonic: "LD " + regName8[d] + "," + regName8[s],
				length:   1, cycles: cyc,
				exec: func(c *CPU, op1, op2 uint8) { c.setReg8(d, c.getReg8(s)) },
			}
		}
	}
	baseTable[0x76] = instr{
		mnemonic: "HALT", length: 1, cycles: 4,
		exec: func(c *CPU, op1, op2 uint8) { c.Halted = true },
	}
}

// buildALUBlock fills $80-$BF: the eight-wide ADD/ADC/SUB/SBC/AND/
// XOR/OR/CP block, one row per operation, one column per reg8 source.
func buildALUBlock() {
	rows := []struct {
		base uint8
		name string
		fn   func(c *CPU, src uint8)
	}{
		{0x80, "ADD A,", func(c *CPU, src uint8) { c.addA(src, false) }},
		{0x88, "ADC A,", func(c *CPU, src uint8) { c.addA(src, true) }},
		{0x90, "SUB ", func(c *CPU, src uint8) { c.subA(src, false, true) }},
		{0x98, "SBC A,", func(c *CPU, src uint8) { c.subA(src, true, true) }},
		{0xA0, "AND ", func(c *CPU, src uint8) { c.andA(src) }},
		{0xA8, "XOR ", func(c *CPU, src uint8) { c.xorA(src) }},
		{0xB0, "OR ", func(c *CPU, src uint8) { c.orA(src) }},
		{0xB8, "CP ", func(c *CPU, src uint8) { c.subA(src, false, false) }},
	}
	for _, row := range rows {
		for s := uint8(0); s < 8; s++ {
			op := row.base + s
			src := s
			fn := row.fn
			cyc := uint8(4)
			if src == reg8HL {
				cyc = 8
			}
			baseTable[op] = instr{
				mnemonic: row.name + regName8[src], length: 1, cycles: cyc,
				exec: func(c *CPU, op1, op2 uint8) { fn(c, c.getReg8(src)) },
			}
		}
	}
}

// buildMiscBlock fills the irregular $00-$3F quadrant: 16-bit
// immediate loads, INC/DEC (8 and 16-bit), the accumulator rotates,
// DAA/CPL/SCF/CCF, STOP, and the unconditional/conditional JR forms.
func buildMiscBlock() {
	baseTable[0x00] = instr{"NOP", 1, 4, 4, func(c *CPU, op1, op2 uint8) {}, nil}

	baseTable[0x01] = ld16Imm("BC", (*CPU).SetBC)
	baseTable[0x11] = ld16Imm("DE", (*CPU).SetDE)
	baseTable[0x21] = ld16Imm("HL", (*CPU).SetHL)
	baseTable[0x31] = instr{"LD SP,d16", 3, 12, 12, func(c *CPU, op1, op2 uint8) {
		c.SP = imm16(op1, op2)
	}, nil}

	baseTable[0x02] = instr{"LD (BC),A", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(c.BC(), c.A)
	}, nil}
	baseTable[0x12] = instr{"LD (DE),A", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(c.DE(), c.A)
	}, nil}
	baseTable[0x22] = instr{"LD (HL+),A", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
	}, nil}
	baseTable[0x32] = instr{"LD (HL-),A", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
	}, nil}
	baseTable[0x0A] = instr{"LD A,(BC)", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(c.BC())
	}, nil}
	baseTable[0x1A] = instr{"LD A,(DE)", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(c.DE())
	}, nil}
	baseTable[0x2A] = instr{"LD A,(HL+)", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(c.HL())
		c.SetHL(c.HL() + 1)
	}, nil}
	baseTable[0x3A] = instr{"LD A,(HL-)", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(c.HL())
		c.SetHL(c.HL() - 1)
	}, nil}

	baseTable[0x08] = instr{"LD (a16),SP", 3, 20, 20, func(c *CPU, op1, op2 uint8) {
		addr := imm16(op1, op2)
		c.mem.Set(addr, uint8(c.SP))
		c.mem.Set(addr+1, uint8(c.SP>>8))
	}, nil}

	baseTable[0x03] = inc16("INC BC", (*CPU).BC, (*CPU).SetBC, 1)
	baseTable[0x13] = inc16("INC DE", (*CPU).DE, (*CPU).SetDE, 1)
	baseTable[0x23] = inc16("INC HL", (*CPU).HL, (*CPU).SetHL, 1)
	baseTable[0x33] = instr{"INC SP", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.SP++ }, nil}
	baseTable[0x0B] = inc16("DEC BC", (*CPU).BC, (*CPU).SetBC, ^uint16(0))
	baseTable[0x1B] = inc16("DEC DE", (*CPU).DE, (*CPU).SetDE, ^uint16(0))
	baseTable[0x2B] = inc16("DEC HL", (*CPU).HL, (*CPU).SetHL, ^uint16(0))
	baseTable[0x3B] = instr{"DEC SP", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.SP-- }, nil}

	for _, reg := range []uint8{reg8B, reg8D, reg8H} {
		r := reg
		op := uint8(0x04) + r*8
		baseTable[op] = instr{"INC " + regName8[r], 1, regCycles(r), regCycles(r),
			func(c *CPU, op1, op2 uint8) { c.inc8(r) }, nil}
		baseTable[op+1] = instr{"DEC " + regName8[r], 1, regCycles(r), regCycles(r),
			func(c *CPU, op1, op2 uint8) { c.dec8(r) }, nil}
	}
	for _, reg := range []uint8{reg8C, reg8E, reg8L, reg8A} {
		r := reg
		op := uint8(0x0C) + (r-1)*8
		baseTable[op] = instr{"INC " + regName8[r], 1, regCycles(r), regCycles(r),
			func(c *CPU, op1, op2 uint8) { c.inc8(r) }, nil}
		baseTable[op+1] = instr{"DEC " + regName8[r], 1, regCycles(r), regCycles(r),
			func(c *CPU, op1, op2 uint8) { c.dec8(r) }, nil}
	}
	baseTable[0x34] = instr{"INC (HL)", 1, 12, 12, func(c *CPU, op1, op2 uint8) { c.inc8(reg8HL) }, nil}
	baseTable[0x35] = instr{"DEC (HL)", 1, 12, 12, func(c *CPU, op1, op2 uint8) { c.dec8(reg8HL) }, nil}

	baseTable[0x06] = ldReg8Imm(reg8B)
	baseTable[0x0E] = ldReg8Imm(reg8C)
	baseTable[0x16] = ldReg8Imm(reg8D)
	baseTable[0x1E] = ldReg8Imm(reg8E)
	baseTable[0x26] = ldReg8Imm(reg8H)
	baseTable[0x2E] = ldReg8Imm(reg8L)
	baseTable[0x36] = instr{"LD (HL),d8", 2, 12, 12, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(c.HL(), op1)
	}, nil}
	baseTable[0x3E] = ldReg8Imm(reg8A)

	baseTable[0x07] = instr{"RLCA", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.rotateA(true, false) }, nil}
	baseTable[0x17] = instr{"RLA", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.rotateA(true, true) }, nil}
	baseTable[0x0F] = instr{"RRCA", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.rotateA(false, false) }, nil}
	baseTable[0x1F] = instr{"RRA", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.rotateA(false, true) }, nil}

	baseTable[0x27] = instr{"DAA", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.daa() }, nil}
	baseTable[0x2F] = instr{"CPL", 1, 4, 4, func(c *CPU, op1, op2 uint8) {
		c.A = ^c.A
		c.SetFlag(FlagN, true)
		c.SetFlag(FlagH, true)
	}, nil}
	baseTable[0x37] = instr{"SCF", 1, 4, 4, func(c *CPU, op1, op2 uint8) {
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, true)
	}, nil}
	baseTable[0x3F] = instr{"CCF", 1, 4, 4, func(c *CPU, op1, op2 uint8) {
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, !c.Flag(FlagC))
	}, nil}

	baseTable[0x09] = instr{"ADD HL,BC", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.addHL16(c.BC()) }, nil}
	baseTable[0x19] = instr{"ADD HL,DE", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.addHL16(c.DE()) }, nil}
	baseTable[0x29] = instr{"ADD HL,HL", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.addHL16(c.HL()) }, nil}
	baseTable[0x39] = instr{"ADD HL,SP", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.addHL16(c.SP) }, nil}

	baseTable[0x10] = instr{"STOP", 2, 4, 4, func(c *CPU, op1, op2 uint8) { c.Stopped = true }, nil}

	baseTable[0x18] = instr{"JR r8", 2, 12, 12, nil, func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
		return jrTarget(next, op1), true
	}}
	baseTable[0x20] = jrCond("JR NZ,r8", func(c *CPU) bool { return !c.Flag(FlagZ) })
	baseTable[0x28] = jrCond("JR Z,r8", func(c *CPU) bool { return c.Flag(FlagZ) })
	baseTable[0x30] = jrCond("JR NC,r8", func(c *CPU) bool { return !c.Flag(FlagC) })
	baseTable[0x38] = jrCond("JR C,r8", func(c *CPU) bool { return c.Flag(FlagC) })
}

// jrTarget computes the JR destination from the already-advanced
// "next" PC (PC+2) plus a signed 8-bit displacement: JR is always 2
// bytes regardless of branch direction, and the offset is signed
// two's complement, not unsigned.
func jrTarget(next uint16, disp uint8) uint16 {
	return uint16(int32(next) + int32(int8(disp)))
}

func jrCond(name string, cond func(c *CPU) bool) instr {
	return instr{mnemonic: name, length: 2, cycles: 8, cyclesTaken: 12,
		execJ: func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
			if cond(c) {
				return jrTarget(next, op1), true
			}
			return next, false
		}}
}

func ld16Imm(name string, set func(*CPU, uint16)) instr {
	return instr{mnemonic: "LD " + name + ",d16", length: 3, cycles: 12, cyclesTaken: 12,
		exec: func(c *CPU, op1, op2 uint8) { set(c, imm16(op1, op2)) }}
}

func inc16(name string, get func(*CPU) uint16, set func(*CPU, uint16), delta uint16) instr {
	return instr{mnemonic: name, length: 1, cycles: 8, cyclesTaken: 8,
		exec: func(c *CPU, op1, op2 uint8) { set(c, get(c)+delta) }}
}

func ldReg8Imm(r uint8) instr {
	cyc := uint8(8)
	if r == reg8HL {
		cyc = 12
	}
	return instr{mnemonic: "LD " + regName8[r] + ",d8", length: 2, cycles: cyc, cyclesTaken: cyc,
		exec: func(c *CPU, op1, op2 uint8) { c.setReg8(r, op1) }}
}

func regCycles(r uint8) uint8 {
	if r == reg8HL {
		return 12
	}
	return 4
}

// buildControlBlock fills $C0-$FF: stack ops, PUSH/POP, conditional and
// unconditional JP/CALL/RET, RST, EI/DI/RETI, LDH, and the two
// SP-relative forms (ADD SP,r8 and LD HL,SP+r8).
func buildControlBlock() {
	type pair struct {
		name string
		get  func(*CPU) uint16
		set  func(*CPU, uint16)
	}
	pairs := []pair{
		{"BC", (*CPU).BC, (*CPU).SetBC},
		{"DE", (*CPU).DE, (*CPU).SetDE},
		{"HL", (*CPU).HL, (*CPU).SetHL},
		{"AF", (*CPU).AF, (*CPU).SetAF},
	}
	popBases := []uint8{0xC1, 0xD1, 0xE1, 0xF1}
	pushBases := []uint8{0xC5, 0xD5, 0xE5, 0xF5}
	for i, p := range pairs {
		p := p
		baseTable[popBases[i]] = instr{"POP " + p.name, 1, 12, 12, func(c *CPU, op1, op2 uint8) {
			p.set(c, c.pop16())
		}, nil}
		baseTable[pushBases[i]] = instr{"PUSH " + p.name, 1, 16, 16, func(c *CPU, op1, op2 uint8) {
			c.push16(p.get(c))
		}, nil}
	}

	jpConds := []struct {
		op   uint8
		name string
		cond func(c *CPU) bool
	}{
		{0xC2, "JP NZ,a16", func(c *CPU) bool { return !c.Flag(FlagZ) }},
		{0xCA, "JP Z,a16", func(c *CPU) bool { return c.Flag(FlagZ) }},
		{0xD2, "JP NC,a16", func(c *CPU) bool { return !c.Flag(FlagC) }},
		{0xDA, "JP C,a16", func(c *CPU) bool { return c.Flag(FlagC) }},
	}
	for _, jc := range jpConds {
		cond := jc.cond
		baseTable[jc.op] = instr{jc.name, 3, 12, 16, nil,
			func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
				if cond(c) {
					return imm16(op1, op2), true
				}
				return next, false
			}}
	}
	baseTable[0xC3] = instr{"JP a16", 3, 16, 16, nil, func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
		return imm16(op1, op2), true
	}}
	baseTable[0xE9] = instr{"JP (HL)", 1, 4, 4, nil, func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
		return c.HL(), true
	}}

	callConds := []struct {
		op   uint8
		name string
		cond func(c *CPU) bool
	}{
		{0xC4, "CALL NZ,a16", func(c *CPU) bool { return !c.Flag(FlagZ) }},
		{0xCC, "CALL Z,a16", func(c *CPU) bool { return c.Flag(FlagZ) }},
		{0xD4, "CALL NC,a16", func(c *CPU) bool { return !c.Flag(FlagC) }},
		{0xDC, "CALL C,a16", func(c *CPU) bool { return c.Flag(FlagC) }},
	}
	for _, cc := range callConds {
		cond := cc.cond
		baseTable[cc.op] = instr{cc.name, 3, 12, 24, nil,
			func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
				if cond(c) {
					c.push16(next)
					return imm16(op1, op2), true
				}
				return next, false
			}}
	}
	baseTable[0xCD] = instr{"CALL a16", 3, 24, 24, nil, func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
		c.push16(next)
		return imm16(op1, op2), true
	}}

	retConds := []struct {
		op   uint8
		name string
		cond func(c *CPU) bool
	}{
		{0xC0, "RET NZ", func(c *CPU) bool { return !c.Flag(FlagZ) }},
		{0xC8, "RET Z", func(c *CPU) bool { return c.Flag(FlagZ) }},
		{0xD0, "RET NC", func(c *CPU) bool { return !c.Flag(FlagC) }},
		{0xD8, "RET C", func(c *CPU) bool { return c.Flag(FlagC) }},
	}
	for _, rc := range retConds {
		cond := rc.cond
		baseTable[rc.op] = instr{rc.name, 1, 8, 20, nil,
			func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
				if cond(c) {
					return c.pop16(), true
				}
				return next, false
			}}
	}
	baseTable[0xC9] = instr{"RET", 1, 16, 16, nil, func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
		return c.pop16(), true
	}}
	baseTable[0xD9] = instr{"RETI", 1, 16, 16, nil, func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
		c.IME = true
		return c.pop16(), true
	}}

	for i, addr := range []uint16{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		op := uint8(0xC7) + uint8(i)*8
		target := addr
		baseTable[op] = instr{mnemonicRST(target), 1, 16, 16, nil,
			func(c *CPU, op1, op2 uint8, next uint16) (uint16, bool) {
				c.push16(next)
				return target, true
			}}
	}

	baseTable[0xC6] = instr{"ADD A,d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.addA(op1, false) }, nil}
	baseTable[0xCE] = instr{"ADC A,d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.addA(op1, true) }, nil}
	baseTable[0xD6] = instr{"SUB d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.subA(op1, false, true) }, nil}
	baseTable[0xDE] = instr{"SBC A,d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.subA(op1, true, true) }, nil}
	baseTable[0xE6] = instr{"AND d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.andA(op1) }, nil}
	baseTable[0xEE] = instr{"XOR d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.xorA(op1) }, nil}
	baseTable[0xF6] = instr{"OR d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.orA(op1) }, nil}
	baseTable[0xFE] = instr{"CP d8", 2, 8, 8, func(c *CPU, op1, op2 uint8) { c.subA(op1, false, false) }, nil}

	baseTable[0xE0] = instr{"LDH (a8),A", 2, 12, 12, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(0xFF00+uint16(op1), c.A)
	}, nil}
	baseTable[0xF0] = instr{"LDH A,(a8)", 2, 12, 12, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(0xFF00 + uint16(op1))
	}, nil}
	baseTable[0xE2] = instr{"LD (C),A", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(0xFF00+uint16(c.C), c.A)
	}, nil}
	baseTable[0xF2] = instr{"LD A,(C)", 1, 8, 8, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(0xFF00 + uint16(c.C))
	}, nil}
	baseTable[0xEA] = instr{"LD (a16),A", 3, 16, 16, func(c *CPU, op1, op2 uint8) {
		c.mem.Set(imm16(op1, op2), c.A)
	}, nil}
	baseTable[0xFA] = instr{"LD A,(a16)", 3, 16, 16, func(c *CPU, op1, op2 uint8) {
		c.A = c.mem.Get(imm16(op1, op2))
	}, nil}

	baseTable[0xE8] = instr{"ADD SP,r8", 2, 16, 16, func(c *CPU, op1, op2 uint8) {
		c.SP = c.addSPSigned(int8(op1))
	}, nil}
	baseTable[0xF8] = instr{"LD HL,SP+r8", 2, 12, 12, func(c *CPU, op1, op2 uint8) {
		c.SetHL(c.addSPSigned(int8(op1)))
	}, nil}
	baseTable[0xF9] = instr{"LD SP,HL", 1, 8, 8, func(c *CPU, op1, op2 uint8) { c.SP = c.HL() }, nil}

	baseTable[0xF3] = instr{"DI", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.IME = false }, nil}
	baseTable[0xFB] = instr{"EI", 1, 4, 4, func(c *CPU, op1, op2 uint8) { c.IME = true }, nil}
}

func mnemonicRST(addr uint16) string {
	hex := "0123456789ABCDEF"
	return "RST " + string([]byte{hex[(addr>>4)&0xF], hex[addr&0xF]}) + "H"
}
