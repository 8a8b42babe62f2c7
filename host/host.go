// Package host describes the window, input and presentation surface a
// session runs against. Backends live in sub-packages.
package host

import "gb-emu/video"

type EventType uint8

const (
	EventNone EventType = iota
	EventKeyPressed
	EventKeyReleased
	EventClose
)

func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventKeyPressed:
		return "key-pressed"
	case EventKeyReleased:
		return "key-released"
	case EventClose:
		return "close"
	}
	return "unknown"
}

// Key is a backend-neutral physical key.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyZ
	KeyX
	KeyBackspace
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyR
	KeyI
	KeyO
	KeyEscape
	keyCount
)

// Keys lists every key a backend has to report.
func Keys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyZ; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

var keyNames = [keyCount]string{
	KeyUnknown:   "Unknown",
	KeyZ:         "Z",
	KeyX:         "X",
	KeyBackspace: "Backspace",
	KeyEnter:     "Enter",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyLeft:      "ArrowLeft",
	KeyRight:     "ArrowRight",
	KeyR:         "R",
	KeyI:         "I",
	KeyO:         "O",
	KeyEscape:    "Escape",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return keyNames[KeyUnknown]
}

// Event is a single host event. Key is only meaningful for key events.
type Event struct {
	Type EventType
	Key  Key
}

// Window is the surface a session draws to and reads input from. All
// methods are called from the goroutine running the session.
type Window interface {
	// ScreenWidth is the detected width of the display. It is the row
	// stride of the framebuffer.
	ScreenWidth() int

	// PollEvent returns at most one pending event, or an EventNone event.
	PollEvent() Event

	// IsPressed reports whether the key is currently held.
	IsPressed(k Key) bool

	// SetFPSCap configures the presentation rate.
	SetFPSCap(fps int)

	// Framebuffer is the presentation buffer. It is owned by the window
	// and never resized.
	Framebuffer() *video.Framebuffer

	// SwapBuffers presents the framebuffer.
	SwapBuffers() error

	// Close releases the window.
	Close() error
}

// Runner owns the main loop. Run calls step once per iteration until step
// reports that the session is done or returns an error.
type Runner interface {
	Run(step func() (done bool, err error)) error
}

// Notifier is implemented by windows that can show short status messages.
type Notifier interface {
	Notify(msg string)
}

// Config is shared by all backends. Width and Height are the emulated
// display size, Scale the window magnification.
type Config struct {
	Title   string
	Width   int
	Height  int
	Scale   int
	ShowFPS bool
}
