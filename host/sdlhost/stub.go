//go:build !sdl

// Package sdlhost is an alternate window backend on SDL2. It is only built
// with the sdl tag; without it New always fails.
package sdlhost

import (
	"errors"

	"gb-emu/host"
)

const Available = false

var ErrUnavailable = errors.New("built without sdl support, rebuild with -tags sdl")

func New(_ host.Config) (host.Window, error) {
	return nil, ErrUnavailable
}
