// Package session binds an emulation core to a cartridge store and a host
// window, and drives it frame by frame.
package session

import (
	"fmt"
	"log/slog"

	"gb-emu/cartridge"
	"gb-emu/dmg"
	"gb-emu/host"
	"gb-emu/video"
)

// CoreFactory builds a core around the bridge.
type CoreFactory func(cart dmg.Cartridge) (Core, error)

// WindowFactory opens the host window. It is only called once the ROM has
// loaded and the core accepted it.
type WindowFactory func(cfg host.Config) (host.Window, error)

// NewDMG is the CoreFactory for the bundled core.
func NewDMG(cart dmg.Cartridge) (Core, error) {
	g, err := dmg.New(cart)
	if err != nil {
		return nil, err
	}
	return g, nil
}

type Options struct {
	ROMPath    string
	Title      string
	Scale      int
	ShowFPS    bool
	NewCore    CoreFactory
	OpenWindow WindowFactory
	Logger     *slog.Logger
}

// Session is everything one emulation run owns.
type Session struct {
	Store    *cartridge.Store
	Bridge   *Bridge
	Core     Core
	Window   host.Window
	Renderer *video.Renderer
	Driver   *Driver

	log *slog.Logger
}

// New loads the ROM, initialises the core and only then opens the window,
// so a bad ROM never leaves a window behind.
func New(opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	newCore := opts.NewCore
	if newCore == nil {
		newCore = NewDMG
	}

	rom, err := cartridge.LoadROM(opts.ROMPath)
	if err != nil {
		return nil, fmt.Errorf("load rom: %w", err)
	}
	log.Debug("rom loaded", "path", opts.ROMPath, "size", len(rom))

	store := cartridge.NewStore(rom)
	bridge := NewBridge(store)

	core, err := newCore(bridge)
	if err != nil {
		store.Release()
		return nil, fmt.Errorf("init core: %w", err)
	}
	store.AllocateRAM(core.SaveSize())
	log.Info("core initialised", "save_size", core.SaveSize())

	title := opts.Title
	if title == "" {
		title = "gb-emu"
	}
	if h, ok := core.(interface{ Header() dmg.Header }); ok && h.Header().Title != "" {
		title += ": " + h.Header().Title
	}

	win, err := opts.OpenWindow(host.Config{
		Title:   title,
		Width:   dmg.LCDWidth,
		Height:  dmg.LCDHeight,
		Scale:   opts.Scale,
		ShowFPS: opts.ShowFPS,
	})
	if err != nil {
		store.Release()
		return nil, fmt.Errorf("open window: %w", err)
	}

	renderer := video.NewRenderer(win.Framebuffer())
	core.InitLCD(renderer)
	win.SetFPSCap(TargetFPS)

	return &Session{
		Store:    store,
		Bridge:   bridge,
		Core:     core,
		Window:   win,
		Renderer: renderer,
		Driver:   NewDriver(core, win, bridge, store, log),
		log:      log,
	}, nil
}

// Run hands the driver to the window's own loop if it has one, otherwise
// steps until done.
func (s *Session) Run() error {
	if r, ok := s.Window.(host.Runner); ok {
		return r.Run(s.Driver.Step)
	}
	for {
		done, err := s.Driver.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
