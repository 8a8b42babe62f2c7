package session

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gb-emu/cartridge"
	"gb-emu/dmg"
	"gb-emu/host"
	"gb-emu/host/headless"
	"gb-emu/video"
)

type fakeWindow struct {
	events []host.Event
	held   map[host.Key]bool
	fb     *video.Framebuffer

	calls    *[]string
	fps      int
	swaps    int
	closes   int
	notes    []string
	swapErr  error
	closeErr error
}

func newFakeWindow(calls *[]string, events ...host.Event) *fakeWindow {
	return &fakeWindow{
		events: events,
		held:   map[host.Key]bool{},
		fb:     video.NewFramebuffer(dmg.LCDWidth, dmg.LCDHeight, 320),
		calls:  calls,
	}
}

func (w *fakeWindow) record(s string) {
	if w.calls != nil {
		*w.calls = append(*w.calls, s)
	}
}

func (w *fakeWindow) ScreenWidth() int                { return w.fb.Stride }
func (w *fakeWindow) IsPressed(k host.Key) bool       { return w.held[k] }
func (w *fakeWindow) SetFPSCap(fps int)               { w.fps = fps }
func (w *fakeWindow) Framebuffer() *video.Framebuffer { return w.fb }
func (w *fakeWindow) Notify(msg string)               { w.notes = append(w.notes, msg) }

func (w *fakeWindow) PollEvent() host.Event {
	w.record("poll")
	if len(w.events) == 0 {
		return host.Event{}
	}
	ev := w.events[0]
	w.events = w.events[1:]
	return ev
}

func (w *fakeWindow) SwapBuffers() error {
	w.record("present")
	w.swaps++
	return w.swapErr
}

func (w *fakeWindow) Close() error {
	w.record("close")
	w.closes++
	return w.closeErr
}

type fakeCore struct {
	direct dmg.Direct
	calls  *[]string
	runs   int
	resets int
	onRun  func()
}

func (c *fakeCore) SaveSize() int          { return 0x2000 }
func (c *fakeCore) InitLCD(dmg.LineDrawer) {}
func (c *fakeCore) Reset()                 { c.resets++ }
func (c *fakeCore) Direct() *dmg.Direct    { return &c.direct }

func (c *fakeCore) RunFrame() {
	if c.calls != nil {
		*c.calls = append(*c.calls, "run")
	}
	c.runs++
	if c.onRun != nil {
		c.onRun()
	}
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func captureLog() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func newTestDriver(calls *[]string, events ...host.Event) (*Driver, *fakeCore, *fakeWindow, *cartridge.Store) {
	store := cartridge.NewStore(make(cartridge.ROM, 0x8000))
	store.AllocateRAM(0x2000)
	core := &fakeCore{direct: dmg.Direct{Joypad: 0xFF}, calls: calls}
	win := newFakeWindow(calls, events...)
	return NewDriver(core, win, NewBridge(store), store, quiet), core, win, store
}

func press(k host.Key) host.Event   { return host.Event{Type: host.EventKeyPressed, Key: k} }
func release(k host.Key) host.Event { return host.Event{Type: host.EventKeyReleased, Key: k} }

func TestStepOrdering(t *testing.T) {
	var calls []string
	d, _, _, _ := newTestDriver(&calls)

	for i := 0; i < 3; i++ {
		done, err := d.Step()
		require.NoError(t, err)
		require.False(t, done)
	}
	assert.Equal(t, []string{
		"poll", "run", "present",
		"poll", "run", "present",
		"poll", "run", "present",
	}, calls)
	assert.Equal(t, uint64(3), d.Frames())
}

func TestKeyEventResamplesWholeJoypad(t *testing.T) {
	d, core, win, _ := newTestDriver(nil, press(host.KeyZ), release(host.KeyZ))
	win.held[host.KeyZ] = true
	win.held[host.KeyRight] = true

	_, err := d.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF&^(dmg.JoypadA|dmg.JoypadRight)), core.direct.Joypad)

	win.held[host.KeyZ] = false
	_, err = d.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF&^dmg.JoypadRight), core.direct.Joypad)
}

func TestNonKeyEventLeavesJoypad(t *testing.T) {
	d, core, win, _ := newTestDriver(nil)
	win.held[host.KeyZ] = true

	_, err := d.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), core.direct.Joypad)
}

func TestTogglesAreInvolutions(t *testing.T) {
	d, core, win, _ := newTestDriver(nil,
		press(host.KeyI), release(host.KeyI),
		press(host.KeyO),
		press(host.KeyI), release(host.KeyI),
		press(host.KeyO),
	)

	_, _ = d.Step()
	assert.True(t, core.direct.Interlace)
	_, _ = d.Step()
	assert.True(t, core.direct.Interlace, "release must not toggle")
	_, _ = d.Step()
	assert.True(t, core.direct.FrameSkip)
	_, _ = d.Step()
	_, _ = d.Step()
	_, _ = d.Step()
	assert.False(t, core.direct.Interlace)
	assert.False(t, core.direct.FrameSkip)

	assert.Equal(t, []string{
		"Interlace: on", "Frame skip: on", "Interlace: off", "Frame skip: off",
	}, win.notes)
}

func TestResetKeepsStore(t *testing.T) {
	d, core, win, store := newTestDriver(nil, press(host.KeyR))
	store.RAM[5] = 0x42

	_, err := d.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, core.resets)
	assert.Equal(t, 1, core.runs)
	assert.Equal(t, uint8(0x42), store.RAM[5])
	assert.Equal(t, []string{"Reset"}, win.notes)
}

func TestCloseEvent(t *testing.T) {
	var calls []string
	d, core, win, store := newTestDriver(&calls, host.Event{Type: host.EventClose})

	done, err := d.Step()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, StateClosed, d.State())
	assert.Equal(t, 0, core.runs)
	assert.Equal(t, 1, win.closes)
	assert.Equal(t, 1, store.Releases())
	assert.Equal(t, []string{"poll", "close"}, calls)

	done, err = d.Step()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, win.closes)
	assert.Equal(t, 1, store.Releases())
}

func TestFatalErrorStopsBeforePresent(t *testing.T) {
	var calls []string
	d, core, win, store := newTestDriver(&calls)
	core.onRun = func() {
		d.bridge.OnFatalError(dmg.ErrorInvalidOpcode, 0xD3)
		d.bridge.OnFatalError(dmg.ErrorInvalidRead, 0x7000)
	}

	done, err := d.Step()
	assert.True(t, done)
	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, dmg.ErrorInvalidOpcode, fe.Kind)
	assert.Equal(t, uint16(0xD3), fe.Value)
	assert.Equal(t, "error 1 occurred: INVALID OPCODE at 00D3", err.Error())

	assert.Equal(t, 1, store.Releases())
	assert.Nil(t, store.ROM)
	assert.Nil(t, store.RAM)
	assert.Equal(t, 0, win.swaps)
	assert.Equal(t, []string{"poll", "run", "close"}, calls)
}

func TestPresentFailure(t *testing.T) {
	d, _, win, store := newTestDriver(nil)
	win.swapErr = errors.New("device lost")

	done, err := d.Step()
	assert.True(t, done)
	assert.ErrorIs(t, err, win.swapErr)
	assert.Equal(t, 1, store.Releases())
}

func TestPresentFailureLogsCloseError(t *testing.T) {
	d, _, win, store := newTestDriver(nil)
	log, buf := captureLog()
	d.log = log
	win.swapErr = errors.New("device lost")
	win.closeErr = errors.New("window gone")

	done, err := d.Step()
	assert.True(t, done)
	assert.ErrorIs(t, err, win.swapErr)
	assert.NotErrorIs(t, err, win.closeErr)
	assert.Equal(t, 1, store.Releases())

	out := buf.String()
	assert.Contains(t, out, `msg="closing window"`)
	assert.Contains(t, out, "window gone")
	assert.Contains(t, out, "device lost")
	assert.NotContains(t, out, "session closed")
}

func TestSessionClosedLoggedOnlyOnCloseEvent(t *testing.T) {
	d, core, _, _ := newTestDriver(nil)
	log, buf := captureLog()
	d.log = log
	core.onRun = func() { d.bridge.OnFatalError(dmg.ErrorHaltForever, 0x0150) }

	_, err := d.Step()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "emulation stopped")
	assert.NotContains(t, buf.String(), "session closed")

	d, _, _, _ = newTestDriver(nil, host.Event{Type: host.EventClose})
	log, buf = captureLog()
	d.log = log
	done, err := d.Step()
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, buf.String(), "session closed")
}

func TestCloseEventReturnsCloseError(t *testing.T) {
	d, _, win, store := newTestDriver(nil, host.Event{Type: host.EventClose})
	win.closeErr = errors.New("window gone")

	done, err := d.Step()
	assert.True(t, done)
	assert.ErrorIs(t, err, win.closeErr)
	assert.Equal(t, 1, store.Releases())
}

func TestBridge(t *testing.T) {
	store := cartridge.NewStore(cartridge.ROM{0x10, 0x20, 0x30})
	store.AllocateRAM(4)
	b := NewBridge(store)

	assert.Equal(t, 3, b.ROMSize())
	assert.Equal(t, uint8(0x20), b.ReadROM(1))
	b.WriteRAM(3, 0x99)
	assert.Equal(t, uint8(0x99), b.ReadRAM(3))
	assert.Equal(t, uint8(0x99), store.RAM[3])
	assert.NoError(t, b.Err())

	b.OnFatalError(dmg.ErrorKind(99), 0xBEEF)
	assert.EqualError(t, b.Err(), "error 99 occurred: UNKNOWN at BEEF")
	assert.True(t, store.Released())
}

// writeROM stores a 32 KiB ROM-only image whose program at 0x150 is code.
func writeROM(t *testing.T, code []byte) string {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], []byte{0x00, 0xC3, 0x50, 0x01})
	copy(rom[0x134:], "SESSION")
	rom[0x14D] = dmg.HeaderChecksum(rom)
	copy(rom[0x150:], code)

	path := filepath.Join(t.TempDir(), "test.gb")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func TestNewDoesNotOpenWindowOnBadROM(t *testing.T) {
	opened := 0
	open := func(host.Config) (host.Window, error) {
		opened++
		return newFakeWindow(nil), nil
	}

	_, err := New(Options{
		ROMPath:    filepath.Join(t.TempDir(), "missing.gb"),
		OpenWindow: open,
		Logger:     quiet,
	})
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.gb")
	require.NoError(t, os.WriteFile(bad, make([]byte, 0x8000), 0o644))
	_, err = New(Options{ROMPath: bad, OpenWindow: open, Logger: quiet})
	var ie *dmg.InitError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, dmg.InitInvalidChecksum, ie.Code)

	assert.Equal(t, 0, opened)
}

func TestSessionRunsUntilClose(t *testing.T) {
	path := writeROM(t, []byte{0x18, 0xFE})
	win := newFakeWindow(nil,
		host.Event{}, host.Event{}, host.Event{},
		host.Event{Type: host.EventClose},
	)
	var cfg host.Config

	s, err := New(Options{
		ROMPath: path,
		Scale:   2,
		OpenWindow: func(c host.Config) (host.Window, error) {
			cfg = c
			return win, nil
		},
		Logger: quiet,
	})
	require.NoError(t, err)
	assert.Equal(t, "gb-emu: SESSION", cfg.Title)
	assert.Equal(t, dmg.LCDWidth, cfg.Width)
	assert.Equal(t, dmg.LCDHeight, cfg.Height)
	assert.Equal(t, TargetFPS, win.fps)

	require.NoError(t, s.Run())
	assert.Equal(t, uint64(3), s.Driver.Frames())
	assert.Equal(t, 3, win.swaps)
	assert.Equal(t, 1, win.closes)
	assert.Equal(t, 1, s.Store.Releases())

	// blank VRAM renders white, padding past the emulated width is untouched
	assert.Equal(t, video.Palette[0], win.fb.At(0, 0))
	assert.Equal(t, video.Palette[0], win.fb.At(dmg.LCDWidth-1, dmg.LCDHeight-1))
	assert.Zero(t, win.fb.At(dmg.LCDWidth, 0).A)
}

func TestSessionInvalidOpcodeReleasesOnce(t *testing.T) {
	path := writeROM(t, []byte{0xD3})
	win := newFakeWindow(nil)

	s, err := New(Options{
		ROMPath:    path,
		OpenWindow: func(host.Config) (host.Window, error) { return win, nil },
		Logger:     quiet,
	})
	require.NoError(t, err)

	err = s.Run()
	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, dmg.ErrorInvalidOpcode, fe.Kind)
	assert.Equal(t, 1, s.Store.Releases())
	assert.Nil(t, s.Store.ROM)
	assert.Equal(t, 0, win.swaps)
}

func TestSessionOnHeadlessBackend(t *testing.T) {
	path := writeROM(t, []byte{0x18, 0xFE})
	var win *headless.Window

	s, err := New(Options{
		ROMPath: path,
		OpenWindow: func(cfg host.Config) (host.Window, error) {
			win = headless.New(cfg, 4)
			win.Queue(
				host.Event{Type: host.EventKeyPressed, Key: host.KeyO},
				host.Event{Type: host.EventKeyPressed, Key: host.KeyEnter},
			)
			return win, nil
		},
		Logger: quiet,
	})
	require.NoError(t, err)
	require.NoError(t, s.Run())

	assert.Equal(t, 4, win.Frames())
	assert.Equal(t, TargetFPS, win.FPSCap())
	assert.True(t, win.Closed())
	assert.True(t, s.Core.Direct().FrameSkip)
	assert.Equal(t, uint8(0xFF&^dmg.JoypadStart), s.Core.Direct().Joypad)
	assert.Equal(t, []string{"Frame skip: on"}, win.Notices())
	assert.Equal(t, 1, s.Store.Releases())
}
