package dmg

// I/O register offsets from 0xFF00.
const (
	regP1   = 0x00
	regDIV  = 0x04
	regTIMA = 0x05
	regTMA  = 0x06
	regTAC  = 0x07
	regIF   = 0x0F
	regLCDC = 0x40
	regSTAT = 0x41
	regSCY  = 0x42
	regSCX  = 0x43
	regLY   = 0x44
	regLYC  = 0x45
	regDMA  = 0x46
	regBGP  = 0x47
	regOBP0 = 0x48
	regOBP1 = 0x49
	regWY   = 0x4A
	regWX   = 0x4B
)

const (
	intVBlank = 0x01
	intSTAT   = 0x02
	intTimer  = 0x04
	intJoypad = 0x10
)

func (g *GB) read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		if int(addr) >= g.romSize {
			g.fatal(ErrorInvalidRead, addr)
			return 0xFF
		}
		return g.cart.ReadROM(uint32(addr))
	case addr < 0xA000:
		return g.vram[addr-0x8000]
	case addr < 0xC000:
		off := int(addr - 0xA000)
		if off < g.saveSize {
			return g.cart.ReadRAM(uint32(off))
		}
		return 0xFF
	case addr < 0xE000:
		return g.wram[addr-0xC000]
	case addr < 0xFE00:
		return g.wram[addr-0xE000]
	case addr < 0xFEA0:
		return g.oam[addr-0xFE00]
	case addr < 0xFF00:
		return 0xFF
	case addr < 0xFF80:
		return g.readIO(uint8(addr - 0xFF00))
	case addr < 0xFFFF:
		return g.hram[addr-0xFF80]
	}
	return g.ie
}

func (g *GB) write(addr uint16, v uint8) {
	switch {
	case addr < 0x8000:
		// no bank controller to talk to
	case addr < 0xA000:
		g.vram[addr-0x8000] = v
	case addr < 0xC000:
		off := int(addr - 0xA000)
		if off < g.saveSize {
			g.cart.WriteRAM(uint32(off), v)
		}
	case addr < 0xE000:
		g.wram[addr-0xC000] = v
	case addr < 0xFE00:
		g.wram[addr-0xE000] = v
	case addr < 0xFEA0:
		g.oam[addr-0xFE00] = v
	case addr < 0xFF00:
		// unusable
	case addr < 0xFF80:
		g.writeIO(uint8(addr-0xFF00), v)
	case addr < 0xFFFF:
		g.hram[addr-0xFF80] = v
	default:
		g.ie = v
	}
}

func (g *GB) readIO(reg uint8) uint8 {
	switch reg {
	case regP1:
		return g.joypadRead()
	case regDIV:
		return uint8(g.timer.div >> 8)
	case regTIMA:
		return g.timer.tima
	case regTMA:
		return g.timer.tma
	case regTAC:
		return g.timer.tac | 0xF8
	case regIF:
		return g.ifr | 0xE0
	case regLCDC:
		return g.ppu.lcdc.reg
	case regSTAT:
		return g.ppu.stat.reg | 0x80
	case regSCY:
		return g.ppu.scy
	case regSCX:
		return g.ppu.scx
	case regLY:
		return g.ppu.ly
	case regLYC:
		return g.ppu.lyc
	case regBGP:
		return g.ppu.bgp
	case regOBP0:
		return g.ppu.obp0
	case regOBP1:
		return g.ppu.obp1
	case regWY:
		return g.ppu.wy
	case regWX:
		return g.ppu.wx
	}
	return g.io[reg]
}

func (g *GB) writeIO(reg uint8, v uint8) {
	switch reg {
	case regP1:
		g.io[regP1] = v & 0x30
	case regDIV:
		g.timer.div = 0
	case regTIMA:
		g.timer.tima = v
	case regTMA:
		g.timer.tma = v
	case regTAC:
		g.timer.tac = v & 0x07
	case regIF:
		g.ifr = v & 0x1F
	case regLCDC:
		g.writeLCDC(v)
	case regSTAT:
		// mode and coincidence bits are read-only
		g.ppu.stat.set(g.ppu.stat.reg&0x07 | v&0x78)
	case regSCY:
		g.ppu.scy = v
	case regSCX:
		g.ppu.scx = v
	case regLY:
		// read-only
	case regLYC:
		g.ppu.lyc = v
		g.compareLYC()
	case regDMA:
		g.dma(v)
	case regBGP:
		g.ppu.bgp = v
	case regOBP0:
		g.ppu.obp0 = v
	case regOBP1:
		g.ppu.obp1 = v
	case regWY:
		g.ppu.wy = v
	case regWX:
		g.ppu.wx = v
	default:
		g.io[reg] = v
	}
}

// dma copies 160 bytes into OAM at once.
func (g *GB) dma(page uint8) {
	src := uint16(page) << 8
	for i := uint16(0); i < uint16(len(g.oam)); i++ {
		g.oam[i] = g.read(src + i)
	}
}

func (g *GB) joypadRead() uint8 {
	sel := g.io[regP1]
	nibble := uint8(0x0F)
	if sel&0x10 == 0 {
		nibble &= g.direct.Joypad >> 4
	}
	if sel&0x20 == 0 {
		nibble &= g.direct.Joypad & 0x0F
	}
	return 0xC0 | sel | nibble
}
