// Package dmg is a Game Boy (DMG) emulation core for ROM-only cartridges.
//
// The core never owns cartridge memory. Every ROM and cartridge RAM access
// goes through the Cartridge the core was created with, and every finished
// scanline is handed to the LineDrawer installed with InitLCD. Fatal
// conditions are reported through Cartridge.OnFatalError, after which the
// core refuses to run.
package dmg

import "fmt"

const (
	LCDWidth  = 160
	LCDHeight = 144
)

// cycles in one full frame of 154 lines
const frameCycles = 70224

// Joypad bits as stored in Direct.Joypad. A cleared bit is a pressed
// button.
const (
	JoypadA      = 0x01
	JoypadB      = 0x02
	JoypadSelect = 0x04
	JoypadStart  = 0x08
	JoypadRight  = 0x10
	JoypadLeft   = 0x20
	JoypadUp     = 0x40
	JoypadDown   = 0x80
)

// Cartridge is how the core reaches cartridge memory. Addresses handed to
// ReadROM are always below ROMSize, addresses handed to the RAM methods
// are always below the size reported by SaveSize.
type Cartridge interface {
	ROMSize() int
	ReadROM(addr uint32) uint8
	ReadRAM(addr uint32) uint8
	WriteRAM(addr uint32, v uint8)
	OnFatalError(kind ErrorKind, val uint16)
}

// LineDrawer receives each scanline as 160 two-bit shades.
type LineDrawer interface {
	DrawLine(pixels *[LCDWidth]uint8, line int)
}

// Direct holds the state a frontend is allowed to change between frames.
type Direct struct {
	Joypad    uint8
	Interlace bool
	FrameSkip bool
}

type ErrorKind uint8

const (
	ErrorUnknown ErrorKind = iota
	ErrorInvalidOpcode
	ErrorInvalidRead
	ErrorInvalidWrite
	ErrorHaltForever
	errorKindCount
)

var errorKindNames = [errorKindCount]string{
	"UNKNOWN",
	"INVALID OPCODE",
	"INVALID READ",
	"INVALID WRITE",
	"HALT FOREVER",
}

func (k ErrorKind) String() string {
	if k < errorKindCount {
		return errorKindNames[k]
	}
	return errorKindNames[ErrorUnknown]
}

type InitCode int

const (
	InitNoError InitCode = iota
	InitCartridgeUnsupported
	InitInvalidChecksum
	InitROMTooSmall
)

func (c InitCode) String() string {
	switch c {
	case InitNoError:
		return "no error"
	case InitCartridgeUnsupported:
		return "cartridge unsupported"
	case InitInvalidChecksum:
		return "invalid header checksum"
	case InitROMTooSmall:
		return "rom too small"
	}
	return "unknown"
}

// InitError is returned by New when the cartridge cannot be used.
type InitError struct {
	Code InitCode
}

func (e *InitError) Error() string {
	return fmt.Sprintf("error %d: %s", int(e.Code), e.Code)
}

// GB is one emulated Game Boy.
type GB struct {
	cpu

	cart   Cartridge
	header Header
	direct Direct
	lcd    LineDrawer

	romSize  int
	saveSize int

	vram [0x2000]uint8
	wram [0x2000]uint8
	oam  [0xA0]uint8
	hram [0x7F]uint8
	io   [0x80]uint8
	ie   uint8
	ifr  uint8

	timer timer
	ppu   ppu

	lastJoypad uint8
	frameDone  bool
	stopped    bool
}

// New validates the cartridge header and returns a core in its post-boot
// state.
func New(cart Cartridge) (*GB, error) {
	g := &GB{cart: cart, romSize: cart.ROMSize()}

	if g.romSize < headerEnd {
		return nil, &InitError{Code: InitROMTooSmall}
	}

	g.header = readHeader(cart)
	if !g.header.Supported() {
		return nil, &InitError{Code: InitCartridgeUnsupported}
	}
	if !g.header.ChecksumValid() {
		return nil, &InitError{Code: InitInvalidChecksum}
	}

	g.saveSize = g.header.SaveSize()
	g.Reset()
	return g, nil
}

// Header returns the parsed cartridge header.
func (g *GB) Header() Header {
	return g.header
}

// SaveSize is the cartridge RAM size in bytes.
func (g *GB) SaveSize() int {
	return g.saveSize
}

// InitLCD installs the scanline receiver. Without one the core still runs
// but nothing is drawn.
func (g *GB) InitLCD(d LineDrawer) {
	g.lcd = d
}

// Direct exposes the joypad byte and the interlace and frame-skip
// switches.
func (g *GB) Direct() *Direct {
	return &g.direct
}

// Stopped reports whether a fatal error has been raised.
func (g *GB) Stopped() bool {
	return g.stopped
}

// Reset puts the machine into the state the boot ROM leaves behind.
// Cartridge memory is untouched.
func (g *GB) Reset() {
	g.cpu = cpu{
		a: 0x01, f: 0xB0,
		b: 0x00, c: 0x13,
		d: 0x00, e: 0xD8,
		h: 0x01, l: 0x4D,
		sp: 0xFFFE,
		pc: 0x0100,
	}

	g.vram = [0x2000]uint8{}
	g.wram = [0x2000]uint8{}
	g.oam = [0xA0]uint8{}
	g.hram = [0x7F]uint8{}
	g.io = [0x80]uint8{}
	g.io[0x00] = 0x30
	g.ie = 0x00
	g.ifr = 0x01

	g.timer = timer{div: 0xABCC}
	g.ppu.reset()

	g.direct.Joypad = 0xFF
	g.lastJoypad = 0xFF
	g.frameDone = false
	g.stopped = false
}

// RunFrame executes until the PPU enters VBlank, or for one frame's worth
// of cycles while the LCD is off.
func (g *GB) RunFrame() {
	if g.stopped {
		return
	}
	// a button going from released to pressed requests the joypad interrupt
	if g.lastJoypad&^g.direct.Joypad != 0 {
		g.ifr |= intJoypad
	}
	g.lastJoypad = g.direct.Joypad

	g.frameDone = false
	for !g.frameDone && !g.stopped {
		g.step()
	}
	g.ppu.endFrame()
}

func (g *GB) fatal(kind ErrorKind, val uint16) {
	if g.stopped {
		return
	}
	g.stopped = true
	g.cart.OnFatalError(kind, val)
}

// step runs one instruction or interrupt dispatch and advances the timer
// and PPU by the cycles it took.
func (g *GB) step() {
	pending := g.ie & g.ifr & 0x1F

	if g.halted {
		if pending == 0 {
			if !g.ime && g.ie&0x1F == 0 {
				g.fatal(ErrorHaltForever, g.pc)
				return
			}
			g.tick(4)
			return
		}
		g.halted = false
	}

	if g.ime && pending != 0 {
		g.ime = false
		for bit := uint8(0); bit < 5; bit++ {
			mask := uint8(1) << bit
			if pending&mask != 0 {
				g.ifr &^= mask
				g.push(g.pc)
				g.pc = 0x40 + uint16(bit)*8
				break
			}
		}
		g.tick(20)
		return
	}

	enable := g.eiPending
	cycles := g.execute()
	if enable && g.eiPending {
		g.ime = true
		g.eiPending = false
	}
	g.tick(cycles)
}

func (g *GB) tick(cycles int) {
	g.timerTick(cycles)
	g.ppuTick(cycles)
}
