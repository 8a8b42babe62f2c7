// Package headless is a window-less backend. It runs a fixed number of
// frames and then reports a close, which is what tests and benchmarks
// want.
package headless

import (
	"gb-emu/host"
	"gb-emu/video"
)

// Window implements host.Window and host.Runner without a display.
type Window struct {
	fb     *video.Framebuffer
	frames int
	fps    int

	script  []host.Event
	held    map[host.Key]bool
	swaps   int
	closed  bool
	notices []string
}

// New returns a window that closes itself after frames presented frames.
func New(cfg host.Config, frames int) *Window {
	return &Window{
		fb:     video.NewFramebuffer(cfg.Width, cfg.Height, cfg.Width),
		frames: frames,
		held:   make(map[host.Key]bool),
	}
}

// Queue appends events returned by PollEvent ahead of the close.
func (w *Window) Queue(events ...host.Event) {
	w.script = append(w.script, events...)
}

// Hold marks a key as held or released for IsPressed.
func (w *Window) Hold(k host.Key, held bool) {
	w.held[k] = held
}

func (w *Window) ScreenWidth() int {
	return w.fb.Stride
}

func (w *Window) PollEvent() host.Event {
	if w.closed || w.swaps >= w.frames {
		return host.Event{Type: host.EventClose}
	}
	if len(w.script) == 0 {
		return host.Event{}
	}
	ev := w.script[0]
	w.script = w.script[1:]
	switch ev.Type {
	case host.EventKeyPressed:
		w.held[ev.Key] = true
	case host.EventKeyReleased:
		w.held[ev.Key] = false
	}
	return ev
}

func (w *Window) IsPressed(k host.Key) bool {
	return w.held[k]
}

func (w *Window) SetFPSCap(fps int) {
	w.fps = fps
}

// FPSCap is the last value passed to SetFPSCap. Nothing is throttled.
func (w *Window) FPSCap() int {
	return w.fps
}

func (w *Window) Framebuffer() *video.Framebuffer {
	return w.fb
}

func (w *Window) SwapBuffers() error {
	w.swaps++
	return nil
}

// Frames is the number of presented frames.
func (w *Window) Frames() int {
	return w.swaps
}

func (w *Window) Close() error {
	w.closed = true
	return nil
}

func (w *Window) Closed() bool {
	return w.closed
}

func (w *Window) Notify(msg string) {
	w.notices = append(w.notices, msg)
}

// Notices returns every message passed to Notify.
func (w *Window) Notices() []string {
	return w.notices
}

// Run steps as fast as possible until step is done.
func (w *Window) Run(step func() (bool, error)) error {
	for {
		done, err := step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
