package session

import (
	"fmt"
	"log/slog"

	"gb-emu/cartridge"
	"gb-emu/dmg"
	"gb-emu/host"
	"gb-emu/input"
)

// TargetFPS is the presentation rate the window is capped to.
const TargetFPS = 60

// Core is the part of the emulation core a session drives.
type Core interface {
	SaveSize() int
	InitLCD(d dmg.LineDrawer)
	Reset()
	RunFrame()
	Direct() *dmg.Direct
}

type State uint8

const (
	StateRunning State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "closed"
}

// Driver runs the frame loop: one event, one frame, one present.
type Driver struct {
	core   Core
	win    host.Window
	bridge *Bridge
	store  *cartridge.Store
	log    *slog.Logger

	state  State
	frames uint64
}

func NewDriver(core Core, win host.Window, bridge *Bridge, store *cartridge.Store, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		core:   core,
		win:    win,
		bridge: bridge,
		store:  store,
		log:    log,
	}
}

func (d *Driver) State() State {
	return d.state
}

// Frames is the number of frames run so far.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Step runs one loop iteration. It reports done once the window has been
// closed or a fatal error stopped the core; the error is the fatal error,
// a presentation failure, or nil after a normal close.
//
// Every key event resamples the joypad, but R, I and O only act on the
// press. Acting on the release as well would undo each toggle the moment
// the key comes up.
func (d *Driver) Step() (bool, error) {
	if d.state == StateClosed {
		return true, nil
	}

	ev := d.win.PollEvent()
	switch ev.Type {
	case host.EventClose:
		err := d.close()
		d.log.Info("session closed", "frames", d.frames)
		return true, err
	case host.EventKeyPressed, host.EventKeyReleased:
		d.core.Direct().Joypad = uint8(input.Sample(d.win))
		if ev.Type == host.EventKeyPressed {
			d.apply(input.CommandFor(ev.Key))
		}
	}

	d.core.RunFrame()
	d.frames++
	if err := d.bridge.Err(); err != nil {
		d.log.Error("emulation stopped", "err", err, "frame", d.frames)
		d.abort(err)
		return true, err
	}

	if err := d.win.SwapBuffers(); err != nil {
		err = fmt.Errorf("present frame %d: %w", d.frames, err)
		d.abort(err)
		return true, err
	}
	return false, nil
}

func (d *Driver) apply(cmd input.Command) {
	direct := d.core.Direct()
	var msg string
	switch cmd {
	case input.CommandNone:
		return
	case input.CommandReset:
		d.core.Reset()
		msg = "Reset"
	case input.CommandToggleInterlace:
		direct.Interlace = !direct.Interlace
		msg = onOff("Interlace", direct.Interlace)
	case input.CommandToggleFrameSkip:
		direct.FrameSkip = !direct.FrameSkip
		msg = onOff("Frame skip", direct.FrameSkip)
	}

	d.log.Debug("control", "command", cmd, "interlace", direct.Interlace, "frameskip", direct.FrameSkip)
	if n, ok := d.win.(host.Notifier); ok {
		n.Notify(msg)
	}
}

func onOff(name string, on bool) string {
	if on {
		return name + ": on"
	}
	return name + ": off"
}

// close releases the window and then the cartridge buffers.
func (d *Driver) close() error {
	if d.state == StateClosed {
		return nil
	}
	d.state = StateClosed
	err := d.win.Close()
	d.store.Release()
	if err != nil {
		return fmt.Errorf("close window: %w", err)
	}
	return nil
}

// abort closes after cause stopped the loop. Cause is what gets returned,
// so a failing close is only logged.
func (d *Driver) abort(cause error) {
	if err := d.close(); err != nil {
		d.log.Warn("closing window", "err", err, "cause", cause)
	}
}
