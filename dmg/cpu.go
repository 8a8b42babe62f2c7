package dmg

type cpuFlag uint8

const (
	flagZ cpuFlag = 0x80
	flagN cpuFlag = 0x40
	flagH cpuFlag = 0x20
	flagC cpuFlag = 0x10
)

type cpu struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	ime       bool
	eiPending bool
	halted    bool
}

func (c *cpu) getFlag(fl cpuFlag) uint8 {
	if c.f&uint8(fl) != 0 {
		return 1
	}
	return 0
}

func (c *cpu) setFlag(fl cpuFlag, v bool) {
	if v {
		c.f |= uint8(fl)
	} else {
		c.f &^= uint8(fl)
	}
}

func (c *cpu) bc() uint16 { return uint16(c.b)<<8 | uint16(c.c) }
func (c *cpu) de() uint16 { return uint16(c.d)<<8 | uint16(c.e) }
func (c *cpu) hl() uint16 { return uint16(c.h)<<8 | uint16(c.l) }

func (c *cpu) setBC(v uint16) { c.b, c.c = uint8(v>>8), uint8(v) }
func (c *cpu) setDE(v uint16) { c.d, c.e = uint8(v>>8), uint8(v) }
func (c *cpu) setHL(v uint16) { c.h, c.l = uint8(v>>8), uint8(v) }

// condition decodes the cc field of conditional jumps: NZ, Z, NC, C.
func (c *cpu) condition(cc uint8) bool {
	switch cc & 3 {
	case 0:
		return c.f&uint8(flagZ) == 0
	case 1:
		return c.f&uint8(flagZ) != 0
	case 2:
		return c.f&uint8(flagC) == 0
	}
	return c.f&uint8(flagC) != 0
}

func (g *GB) fetch8() uint8 {
	v := g.read(g.pc)
	g.pc++
	return v
}

func (g *GB) fetch16() uint16 {
	lo := g.fetch8()
	hi := g.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (g *GB) push(v uint16) {
	g.sp--
	g.write(g.sp, uint8(v>>8))
	g.sp--
	g.write(g.sp, uint8(v))
}

func (g *GB) pop() uint16 {
	lo := g.read(g.sp)
	g.sp++
	hi := g.read(g.sp)
	g.sp++
	return uint16(hi)<<8 | uint16(lo)
}

// r8 operand encoding: B C D E H L (HL) A
func (g *GB) getR(r uint8) uint8 {
	switch r & 7 {
	case 0:
		return g.b
	case 1:
		return g.c
	case 2:
		return g.d
	case 3:
		return g.e
	case 4:
		return g.h
	case 5:
		return g.l
	case 6:
		return g.read(g.hl())
	}
	return g.a
}

func (g *GB) setR(r uint8, v uint8) {
	switch r & 7 {
	case 0:
		g.b = v
	case 1:
		g.c = v
	case 2:
		g.d = v
	case 3:
		g.e = v
	case 4:
		g.h = v
	case 5:
		g.l = v
	case 6:
		g.write(g.hl(), v)
	default:
		g.a = v
	}
}

// rp operand encoding: BC DE HL SP
func (g *GB) getRP(p uint8) uint16 {
	switch p & 3 {
	case 0:
		return g.bc()
	case 1:
		return g.de()
	case 2:
		return g.hl()
	}
	return g.sp
}

func (g *GB) setRP(p uint8, v uint16) {
	switch p & 3 {
	case 0:
		g.setBC(v)
	case 1:
		g.setDE(v)
	case 2:
		g.setHL(v)
	default:
		g.sp = v
	}
}

func (g *GB) alu(op uint8, v uint8) {
	a := g.a
	carry := g.getFlag(flagC)
	switch op & 7 {
	case 0: // ADD
		r := uint16(a) + uint16(v)
		g.a = uint8(r)
		g.f = 0
		g.setFlag(flagZ, g.a == 0)
		g.setFlag(flagH, a&0xF+v&0xF > 0xF)
		g.setFlag(flagC, r > 0xFF)
	case 1: // ADC
		r := uint16(a) + uint16(v) + uint16(carry)
		g.a = uint8(r)
		g.f = 0
		g.setFlag(flagZ, g.a == 0)
		g.setFlag(flagH, a&0xF+v&0xF+carry > 0xF)
		g.setFlag(flagC, r > 0xFF)
	case 2, 7: // SUB, CP
		r := int(a) - int(v)
		g.f = uint8(flagN)
		g.setFlag(flagZ, uint8(r) == 0)
		g.setFlag(flagH, int(a&0xF)-int(v&0xF) < 0)
		g.setFlag(flagC, r < 0)
		if op&7 == 2 {
			g.a = uint8(r)
		}
	case 3: // SBC
		r := int(a) - int(v) - int(carry)
		g.a = uint8(r)
		g.f = uint8(flagN)
		g.setFlag(flagZ, g.a == 0)
		g.setFlag(flagH, int(a&0xF)-int(v&0xF)-int(carry) < 0)
		g.setFlag(flagC, r < 0)
	case 4: // AND
		g.a = a & v
		g.f = uint8(flagH)
		g.setFlag(flagZ, g.a == 0)
	case 5: // XOR
		g.a = a ^ v
		g.f = 0
		g.setFlag(flagZ, g.a == 0)
	case 6: // OR
		g.a = a | v
		g.f = 0
		g.setFlag(flagZ, g.a == 0)
	}
}

func (g *GB) inc8(v uint8) uint8 {
	r := v + 1
	g.setFlag(flagZ, r == 0)
	g.setFlag(flagN, false)
	g.setFlag(flagH, v&0xF == 0xF)
	return r
}

func (g *GB) dec8(v uint8) uint8 {
	r := v - 1
	g.setFlag(flagZ, r == 0)
	g.setFlag(flagN, true)
	g.setFlag(flagH, v&0xF == 0)
	return r
}

func (g *GB) addHL(v uint16) {
	hl := g.hl()
	r := uint32(hl) + uint32(v)
	g.setFlag(flagN, false)
	g.setFlag(flagH, hl&0xFFF+v&0xFFF > 0xFFF)
	g.setFlag(flagC, r > 0xFFFF)
	g.setHL(uint16(r))
}

// addSP returns SP plus a signed immediate, with flags computed on the low
// byte as the hardware does.
func (g *GB) addSP() uint16 {
	v := uint16(int16(int8(g.fetch8())))
	sp := g.sp
	g.f = 0
	g.setFlag(flagH, sp&0xF+v&0xF > 0xF)
	g.setFlag(flagC, sp&0xFF+v&0xFF > 0xFF)
	return sp + v
}

func (g *GB) daa() {
	a := g.a
	var adj uint8
	carry := g.getFlag(flagC) == 1
	if g.getFlag(flagN) == 0 {
		if g.getFlag(flagH) == 1 || a&0xF > 9 {
			adj |= 0x06
		}
		if carry || a > 0x99 {
			adj |= 0x60
			carry = true
		}
		a += adj
	} else {
		if g.getFlag(flagH) == 1 {
			adj |= 0x06
		}
		if carry {
			adj |= 0x60
		}
		a -= adj
	}
	g.a = a
	g.setFlag(flagZ, a == 0)
	g.setFlag(flagH, false)
	g.setFlag(flagC, carry)
}

func (g *GB) jr(take bool) int {
	off := int8(g.fetch8())
	if !take {
		return 8
	}
	g.pc = uint16(int32(g.pc) + int32(off))
	return 12
}

// execute runs one instruction and returns the cycles it took.
func (g *GB) execute() int {
	op := g.fetch8()

	switch {
	case op == 0x76: // HALT
		g.halted = true
		return 4
	case op >= 0x40 && op < 0x80: // LD r, r
		g.setR(op>>3, g.getR(op))
		if op&7 == 6 || op>>3&7 == 6 {
			return 8
		}
		return 4
	case op >= 0x80 && op < 0xC0: // ALU A, r
		g.alu(op>>3, g.getR(op))
		if op&7 == 6 {
			return 8
		}
		return 4
	}

	switch op {
	case 0x00: // NOP
		return 4
	case 0x10: // STOP
		g.fetch8()
		return 4

	case 0x01, 0x11, 0x21, 0x31:
		g.setRP(op>>4, g.fetch16())
		return 12
	case 0x02:
		g.write(g.bc(), g.a)
		return 8
	case 0x12:
		g.write(g.de(), g.a)
		return 8
	case 0x22:
		hl := g.hl()
		g.write(hl, g.a)
		g.setHL(hl + 1)
		return 8
	case 0x32:
		hl := g.hl()
		g.write(hl, g.a)
		g.setHL(hl - 1)
		return 8
	case 0x0A:
		g.a = g.read(g.bc())
		return 8
	case 0x1A:
		g.a = g.read(g.de())
		return 8
	case 0x2A:
		hl := g.hl()
		g.a = g.read(hl)
		g.setHL(hl + 1)
		return 8
	case 0x3A:
		hl := g.hl()
		g.a = g.read(hl)
		g.setHL(hl - 1)
		return 8

	case 0x03, 0x13, 0x23, 0x33:
		p := op >> 4
		g.setRP(p, g.getRP(p)+1)
		return 8
	case 0x0B, 0x1B, 0x2B, 0x3B:
		p := op >> 4
		g.setRP(p, g.getRP(p)-1)
		return 8
	case 0x09, 0x19, 0x29, 0x39:
		g.addHL(g.getRP(op >> 4))
		return 8

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		r := op >> 3 & 7
		g.setR(r, g.inc8(g.getR(r)))
		if r == 6 {
			return 12
		}
		return 4
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		r := op >> 3 & 7
		g.setR(r, g.dec8(g.getR(r)))
		if r == 6 {
			return 12
		}
		return 4
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		r := op >> 3 & 7
		g.setR(r, g.fetch8())
		if r == 6 {
			return 12
		}
		return 8

	case 0x07: // RLCA
		c := g.a >> 7
		g.a = g.a<<1 | c
		g.f = c << 4
		return 4
	case 0x0F: // RRCA
		c := g.a & 1
		g.a = g.a>>1 | c<<7
		g.f = c << 4
		return 4
	case 0x17: // RLA
		c := g.a >> 7
		g.a = g.a<<1 | g.getFlag(flagC)
		g.f = c << 4
		return 4
	case 0x1F: // RRA
		c := g.a & 1
		g.a = g.a>>1 | g.getFlag(flagC)<<7
		g.f = c << 4
		return 4

	case 0x08: // LD (a16), SP
		addr := g.fetch16()
		g.write(addr, uint8(g.sp))
		g.write(addr+1, uint8(g.sp>>8))
		return 20

	case 0x18:
		return g.jr(true)
	case 0x20, 0x28, 0x30, 0x38:
		return g.jr(g.condition(op >> 3))

	case 0x27:
		g.daa()
		return 4
	case 0x2F: // CPL
		g.a = ^g.a
		g.setFlag(flagN, true)
		g.setFlag(flagH, true)
		return 4
	case 0x37: // SCF
		g.setFlag(flagN, false)
		g.setFlag(flagH, false)
		g.setFlag(flagC, true)
		return 4
	case 0x3F: // CCF
		g.setFlag(flagN, false)
		g.setFlag(flagH, false)
		g.setFlag(flagC, g.getFlag(flagC) == 0)
		return 4

	case 0xC0, 0xC8, 0xD0, 0xD8:
		if g.condition(op >> 3) {
			g.pc = g.pop()
			return 20
		}
		return 8
	case 0xC9:
		g.pc = g.pop()
		return 16
	case 0xD9: // RETI
		g.pc = g.pop()
		g.ime = true
		return 16

	case 0xC1, 0xD1, 0xE1, 0xF1:
		v := g.pop()
		if op == 0xF1 {
			g.a, g.f = uint8(v>>8), uint8(v)&0xF0
		} else {
			g.setRP(op>>4, v)
		}
		return 12
	case 0xC5, 0xD5, 0xE5, 0xF5:
		if op == 0xF5 {
			g.push(uint16(g.a)<<8 | uint16(g.f))
		} else {
			g.push(g.getRP(op >> 4))
		}
		return 16

	case 0xC2, 0xCA, 0xD2, 0xDA:
		addr := g.fetch16()
		if g.condition(op >> 3) {
			g.pc = addr
			return 16
		}
		return 12
	case 0xC3:
		g.pc = g.fetch16()
		return 16
	case 0xE9:
		g.pc = g.hl()
		return 4

	case 0xC4, 0xCC, 0xD4, 0xDC:
		addr := g.fetch16()
		if g.condition(op >> 3) {
			g.push(g.pc)
			g.pc = addr
			return 24
		}
		return 12
	case 0xCD:
		addr := g.fetch16()
		g.push(g.pc)
		g.pc = addr
		return 24

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		g.push(g.pc)
		g.pc = uint16(op & 0x38)
		return 16

	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		g.alu(op>>3, g.fetch8())
		return 8

	case 0xCB:
		return g.executeCB()

	case 0xE0:
		g.write(0xFF00+uint16(g.fetch8()), g.a)
		return 12
	case 0xF0:
		g.a = g.read(0xFF00 + uint16(g.fetch8()))
		return 12
	case 0xE2:
		g.write(0xFF00+uint16(g.c), g.a)
		return 8
	case 0xF2:
		g.a = g.read(0xFF00 + uint16(g.c))
		return 8
	case 0xEA:
		g.write(g.fetch16(), g.a)
		return 16
	case 0xFA:
		g.a = g.read(g.fetch16())
		return 16

	case 0xE8:
		g.sp = g.addSP()
		return 16
	case 0xF8:
		g.setHL(g.addSP())
		return 12
	case 0xF9:
		g.sp = g.hl()
		return 8

	case 0xF3: // DI
		g.ime = false
		g.eiPending = false
		return 4
	case 0xFB: // EI
		g.eiPending = true
		return 4
	}

	g.fatal(ErrorInvalidOpcode, uint16(op))
	return 4
}

func (g *GB) executeCB() int {
	op := g.fetch8()
	r := op & 7
	bit := op >> 3 & 7
	v := g.getR(r)

	switch op >> 6 {
	case 0:
		var c uint8
		switch bit {
		case 0: // RLC
			c = v >> 7
			v = v<<1 | c
		case 1: // RRC
			c = v & 1
			v = v>>1 | c<<7
		case 2: // RL
			c = v >> 7
			v = v<<1 | g.getFlag(flagC)
		case 3: // RR
			c = v & 1
			v = v>>1 | g.getFlag(flagC)<<7
		case 4: // SLA
			c = v >> 7
			v <<= 1
		case 5: // SRA
			c = v & 1
			v = v>>1 | v&0x80
		case 6: // SWAP
			v = v<<4 | v>>4
		case 7: // SRL
			c = v & 1
			v >>= 1
		}
		g.f = c << 4
		g.setFlag(flagZ, v == 0)
		g.setR(r, v)
	case 1: // BIT
		g.setFlag(flagZ, v&(1<<bit) == 0)
		g.setFlag(flagN, false)
		g.setFlag(flagH, true)
		if r == 6 {
			return 12
		}
		return 8
	case 2: // RES
		g.setR(r, v&^(1<<bit))
	case 3: // SET
		g.setR(r, v|1<<bit)
	}

	if r == 6 {
		return 16
	}
	return 8
}
