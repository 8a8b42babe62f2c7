//go:build sdl

package sdlhost

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"gb-emu/host"
	"gb-emu/video"
)

// SDL has to be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

const Available = true

var scancodes = map[host.Key]sdl.Scancode{
	host.KeyZ:         sdl.SCANCODE_Z,
	host.KeyX:         sdl.SCANCODE_X,
	host.KeyBackspace: sdl.SCANCODE_BACKSPACE,
	host.KeyEnter:     sdl.SCANCODE_RETURN,
	host.KeyUp:        sdl.SCANCODE_UP,
	host.KeyDown:      sdl.SCANCODE_DOWN,
	host.KeyLeft:      sdl.SCANCODE_LEFT,
	host.KeyRight:     sdl.SCANCODE_RIGHT,
	host.KeyR:         sdl.SCANCODE_R,
	host.KeyI:         sdl.SCANCODE_I,
	host.KeyO:         sdl.SCANCODE_O,
	host.KeyEscape:    sdl.SCANCODE_ESCAPE,
}

var keys = func() map[sdl.Scancode]host.Key {
	m := make(map[sdl.Scancode]host.Key, len(scancodes))
	for hk, sc := range scancodes {
		m[sc] = hk
	}
	return m
}()

type Window struct {
	cfg      host.Config
	fb       *video.Framebuffer
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pace   *pacer
	closed bool
}

// New opens a centred, fixed-size window. The framebuffer stride is the
// width of the desktop display mode.
func New(cfg host.Config) (host.Window, error) {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	stride := cfg.Width
	if mode, err := sdl.GetCurrentDisplayMode(0); err == nil && int(mode.W) > stride {
		stride = int(mode.W)
	}

	w := &Window{
		cfg:  cfg,
		fb:   video.NewFramebuffer(cfg.Width, cfg.Height, stride),
		pace: newPacer(),
	}

	var err error
	w.window, err = sdl.CreateWindow(cfg.Title,
		int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED),
		int32(cfg.Width*cfg.Scale), int32(cfg.Height*cfg.Scale),
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	w.renderer, err = sdl.CreateRenderer(w.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("sdl: %w", err)
	}
	_ = w.renderer.SetLogicalSize(int32(cfg.Width), int32(cfg.Height))

	w.texture, err = w.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), int32(stride), int32(cfg.Height))
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	return w, nil
}

func (w *Window) ScreenWidth() int {
	return w.fb.Stride
}

func (w *Window) PollEvent() host.Event {
	switch ev := sdl.PollEvent().(type) {
	case *sdl.QuitEvent:
		return host.Event{Type: host.EventClose}
	case *sdl.KeyboardEvent:
		if ev.Repeat != 0 {
			return host.Event{}
		}
		k, ok := keys[ev.Keysym.Scancode]
		if !ok {
			return host.Event{}
		}
		switch {
		case k == host.KeyEscape && ev.Type == sdl.KEYDOWN:
			return host.Event{Type: host.EventClose}
		case k == host.KeyEscape:
			return host.Event{}
		case ev.Type == sdl.KEYDOWN:
			return host.Event{Type: host.EventKeyPressed, Key: k}
		case ev.Type == sdl.KEYUP:
			return host.Event{Type: host.EventKeyReleased, Key: k}
		}
	}
	return host.Event{}
}

func (w *Window) IsPressed(k host.Key) bool {
	sc, ok := scancodes[k]
	if !ok {
		return false
	}
	state := sdl.GetKeyboardState()
	return int(sc) < len(state) && state[sc] != 0
}

func (w *Window) SetFPSCap(fps int) {
	w.pace.setRate(fps)
}

func (w *Window) Framebuffer() *video.Framebuffer {
	return w.fb
}

func (w *Window) SwapBuffers() error {
	if err := w.texture.Update(nil, w.fb.Pix, w.fb.Pitch()); err != nil {
		return err
	}
	src := &sdl.Rect{W: int32(w.cfg.Width), H: int32(w.cfg.Height)}
	if err := w.renderer.Copy(w.texture, src, nil); err != nil {
		return err
	}
	w.renderer.Present()
	w.pace.wait()
	return nil
}

func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.texture != nil {
		err = w.texture.Destroy()
	}
	if w.renderer != nil {
		if rerr := w.renderer.Destroy(); err == nil {
			err = rerr
		}
	}
	if w.window != nil {
		if werr := w.window.Destroy(); err == nil {
			err = werr
		}
	}
	sdl.Quit()
	return err
}
