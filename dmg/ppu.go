package dmg

const (
	modeHBlank = 0
	modeVBlank = 1
	modeOAM    = 2
	modeDraw   = 3
)

const (
	cyclesOAM    = 80
	cyclesDraw   = 172
	cyclesHBlank = 204
	cyclesLine   = cyclesOAM + cyclesDraw + cyclesHBlank
	linesTotal   = 154
)

const maxSpritesPerLine = 10

type ppu struct {
	lcdc register
	stat register

	scy, scx uint8
	ly, lyc  uint8
	wy, wx   uint8
	bgp      uint8
	obp0     uint8
	obp1     uint8

	cycles     int
	offCycles  int
	windowLine int

	// interlace field and frame-skip phase, both flipped once per frame
	field    uint8
	skipThis bool

	line    [LCDWidth]uint8
	bgIndex [LCDWidth]uint8
}

func (p *ppu) reset() {
	p.lcdc = newLCDC()
	p.stat = newSTAT()
	p.lcdc.set(0x91)
	p.stat.set(0x80 | modeOAM)
	p.scy, p.scx = 0, 0
	p.ly, p.lyc = 0, 0
	p.wy, p.wx = 0, 0
	p.bgp = 0xFC
	p.obp0 = 0xFF
	p.obp1 = 0xFF
	p.cycles = 0
	p.offCycles = 0
	p.windowLine = 0
	p.field = 0
	p.skipThis = false
}

func (p *ppu) endFrame() {
	p.field ^= 1
	p.skipThis = !p.skipThis
}

func (g *GB) writeLCDC(v uint8) {
	p := &g.ppu
	wasOn := p.lcdc.flag("lcd_enable")
	p.lcdc.set(v)
	on := p.lcdc.flag("lcd_enable")

	switch {
	case wasOn && !on:
		p.ly = 0
		p.cycles = 0
		p.offCycles = 0
		p.stat.setField("mode", modeHBlank)
	case !wasOn && on:
		p.ly = 0
		p.cycles = 0
		p.windowLine = 0
		g.setMode(modeOAM)
		g.compareLYC()
	}
}

func (g *GB) setMode(mode uint8) {
	p := &g.ppu
	p.stat.setField("mode", mode)

	var irq bool
	switch mode {
	case modeHBlank:
		irq = p.stat.flag("hblank_int")
	case modeVBlank:
		irq = p.stat.flag("vblank_int")
	case modeOAM:
		irq = p.stat.flag("oam_int")
	}
	if irq {
		g.ifr |= intSTAT
	}
}

func (g *GB) compareLYC() {
	p := &g.ppu
	if p.ly == p.lyc {
		p.stat.setField("lyc_match", 1)
		if p.stat.flag("lyc_int") {
			g.ifr |= intSTAT
		}
		return
	}
	p.stat.setField("lyc_match", 0)
}

func (g *GB) ppuTick(cycles int) {
	p := &g.ppu

	if !p.lcdc.flag("lcd_enable") {
		p.offCycles += cycles
		if p.offCycles >= frameCycles {
			p.offCycles -= frameCycles
			g.frameDone = true
		}
		return
	}

	p.cycles += cycles
	switch p.stat.field("mode") {
	case modeOAM:
		if p.cycles >= cyclesOAM {
			p.cycles -= cyclesOAM
			g.setMode(modeDraw)
		}
	case modeDraw:
		if p.cycles >= cyclesDraw {
			p.cycles -= cyclesDraw
			if g.lineVisible(int(p.ly)) {
				g.renderLine()
			}
			g.setMode(modeHBlank)
		}
	case modeHBlank:
		if p.cycles >= cyclesHBlank {
			p.cycles -= cyclesHBlank
			p.ly++
			g.compareLYC()
			if p.ly == LCDHeight {
				g.setMode(modeVBlank)
				g.ifr |= intVBlank
				g.frameDone = true
			} else {
				g.setMode(modeOAM)
			}
		}
	case modeVBlank:
		if p.cycles >= cyclesLine {
			p.cycles -= cyclesLine
			p.ly++
			if p.ly == linesTotal {
				p.ly = 0
				p.windowLine = 0
				g.setMode(modeOAM)
			}
			g.compareLYC()
		}
	}
}

// lineVisible applies the frame-skip and interlace switches.
func (g *GB) lineVisible(ly int) bool {
	if g.lcd == nil {
		return false
	}
	if g.direct.FrameSkip && g.ppu.skipThis {
		return false
	}
	if g.direct.Interlace && uint8(ly&1) != g.ppu.field {
		return false
	}
	return true
}

// tilePixel returns the 2-bit color of one pixel of a tile.
func (g *GB) tilePixel(tile uint8, x, y uint8, unsigned bool) uint8 {
	var addr int
	if unsigned {
		addr = int(tile) * 16
	} else {
		addr = 0x1000 + int(int8(tile))*16
	}
	addr += int(y) * 2
	lo := g.vram[addr]
	hi := g.vram[addr+1]
	bit := 7 - x
	return (hi>>bit&1)<<1 | lo>>bit&1
}

func shade(palette, color uint8) uint8 {
	return palette >> (color * 2) & 0x03
}

func (g *GB) renderLine() {
	p := &g.ppu
	ly := p.ly
	unsigned := p.lcdc.flag("tile_data")

	// background off shows white whatever BGP says
	for x := range p.line {
		p.line[x] = 0
		p.bgIndex[x] = 0
	}

	if p.lcdc.flag("bg_enable") {
		mapBase := 0x1800
		if p.lcdc.flag("bg_map") {
			mapBase = 0x1C00
		}
		y := ly + p.scy
		row := mapBase + int(y/8)*32
		for x := 0; x < LCDWidth; x++ {
			px := uint8(x) + p.scx
			tile := g.vram[row+int(px/8)]
			c := g.tilePixel(tile, px&7, y&7, unsigned)
			p.bgIndex[x] = c
			p.line[x] = shade(p.bgp, c)
		}

		if p.lcdc.flag("window_enable") && ly >= p.wy && p.wx <= 166 {
			mapBase = 0x1800
			if p.lcdc.flag("window_map") {
				mapBase = 0x1C00
			}
			wy := uint8(p.windowLine)
			row = mapBase + int(wy/8)*32
			drawn := false
			for x := 0; x < LCDWidth; x++ {
				if x+7 < int(p.wx) {
					continue
				}
				wx := uint8(x + 7 - int(p.wx))
				tile := g.vram[row+int(wx/8)]
				c := g.tilePixel(tile, wx&7, wy&7, unsigned)
				p.bgIndex[x] = c
				p.line[x] = shade(p.bgp, c)
				drawn = true
			}
			if drawn {
				p.windowLine++
			}
		}
	}

	if p.lcdc.flag("obj_enable") {
		g.renderSprites()
	}

	g.lcd.DrawLine(&p.line, int(ly))
}

type sprite struct {
	y, x  int
	tile  uint8
	attr  uint8
	index int
}

func (g *GB) renderSprites() {
	p := &g.ppu
	ly := int(p.ly)
	height := 8
	if p.lcdc.flag("obj_size") {
		height = 16
	}

	var found [maxSpritesPerLine]sprite
	n := 0
	for i := 0; i < 40 && n < maxSpritesPerLine; i++ {
		y := int(g.oam[i*4]) - 16
		if ly < y || ly >= y+height {
			continue
		}
		found[n] = sprite{
			y:     y,
			x:     int(g.oam[i*4+1]) - 8,
			tile:  g.oam[i*4+2],
			attr:  g.oam[i*4+3],
			index: i,
		}
		n++
	}

	// draw lowest priority first so higher priority sprites end up on top;
	// a smaller x wins, ties go to the earlier OAM entry
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(found[j-1], found[j]); j-- {
			found[j-1], found[j] = found[j], found[j-1]
		}
	}

	for _, s := range found[:n] {
		row := ly - s.y
		if s.attr&0x40 != 0 {
			row = height - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile &= 0xFE
		}
		palette := p.obp0
		if s.attr&0x10 != 0 {
			palette = p.obp1
		}
		for col := 0; col < 8; col++ {
			x := s.x + col
			if x < 0 || x >= LCDWidth {
				continue
			}
			tx := col
			if s.attr&0x20 != 0 {
				tx = 7 - col
			}
			c := g.tilePixel(tile, uint8(tx), uint8(row), true)
			if c == 0 {
				continue
			}
			if s.attr&0x80 != 0 && p.bgIndex[x] != 0 {
				continue
			}
			p.line[x] = shade(palette, c)
		}
	}
}

// less orders sprites by drawing priority, lowest first.
func less(a, b sprite) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.index < b.index
}
