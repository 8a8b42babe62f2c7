// Package ebitenhost is the default window backend, built on ebiten.
//
// ebiten owns the main loop, so the session's step function is called
// from Update and the last presented frame is drawn in Draw.
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"gb-emu/host"
	"gb-emu/video"
)

const osdDuration = 2 * time.Second

var osdColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}

type Window struct {
	cfg   host.Config
	fb    *video.Framebuffer
	frame *ebiten.Image
	face  text.Face

	events []host.Event
	keys   []ebiten.Key
	step   func() (bool, error)

	osd      string
	osdUntil time.Time
	swaps    uint64
	closed   bool
}

// New sizes the window and allocates the presentation buffer. The buffer
// stride is the width of the current monitor.
func New(cfg host.Config) (*Window, error) {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}

	face, err := loadFace(cfg.Scale)
	if err != nil {
		return nil, fmt.Errorf("load osd font: %w", err)
	}

	stride := screenWidth(cfg)
	w := &Window{
		cfg:   cfg,
		fb:    video.NewFramebuffer(cfg.Width, cfg.Height, stride),
		face:  face,
		frame: ebiten.NewImage(stride, cfg.Height),
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowClosingHandled(true)

	return w, nil
}

func screenWidth(cfg host.Config) int {
	if m := ebiten.Monitor(); m != nil {
		if sw, _ := m.Size(); sw >= cfg.Width {
			return sw
		}
	}
	return cfg.Width
}

func (w *Window) ScreenWidth() int {
	return w.fb.Stride
}

func (w *Window) PollEvent() host.Event {
	if len(w.events) == 0 {
		return host.Event{}
	}
	ev := w.events[0]
	w.events = w.events[1:]
	return ev
}

func (w *Window) IsPressed(k host.Key) bool {
	ek, ok := reverseKeyMap[k]
	return ok && ebiten.IsKeyPressed(ek)
}

func (w *Window) SetFPSCap(fps int) {
	ebiten.SetTPS(fps)
}

func (w *Window) Framebuffer() *video.Framebuffer {
	return w.fb
}

// SwapBuffers uploads the framebuffer. It becomes visible on the next Draw.
func (w *Window) SwapBuffers() error {
	w.frame.WritePixels(w.fb.Pix)
	w.swaps++
	return nil
}

func (w *Window) Close() error {
	w.closed = true
	return nil
}

func (w *Window) Notify(msg string) {
	w.osd = msg
	w.osdUntil = time.Now().Add(osdDuration)
}

// Run hands control to ebiten until step is done.
func (w *Window) Run(step func() (bool, error)) error {
	w.step = step
	return ebiten.RunGame(w)
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	w.events = translate(w.events, w.keys, host.EventKeyPressed)
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	w.events = translate(w.events, w.keys, host.EventKeyReleased)
	if ebiten.IsWindowBeingClosed() {
		w.events = append(w.events, host.Event{Type: host.EventClose})
	}

	done, err := w.step()
	if err != nil {
		return err
	}
	if done || w.closed {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	scale := float64(w.cfg.Scale)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.Filter = ebiten.FilterNearest
	visible := w.frame.SubImage(image.Rect(0, 0, w.cfg.Width, w.cfg.Height)).(*ebiten.Image)
	screen.DrawImage(visible, op)

	if w.osd != "" && time.Now().Before(w.osdUntil) {
		textOpts := &text.DrawOptions{}
		textOpts.GeoM.Translate(4, 4)
		textOpts.ColorScale.ScaleWithColor(osdColor)
		text.Draw(screen, w.osd, w.face, textOpts)
	}

	if w.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %0.1f", ebiten.ActualFPS()), 0, screen.Bounds().Dy()-16)
	}
}

// Layout implements ebiten.Game.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.cfg.Width * w.cfg.Scale, w.cfg.Height * w.cfg.Scale
}
