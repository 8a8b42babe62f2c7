// Package input maps host key state onto the emulated joypad.
package input

import (
	"gb-emu/dmg"
	"gb-emu/host"
)

// State is the joypad byte handed to the core. A set bit means the button
// is released.
type State uint8

// Released is the idle state with every button up.
const Released State = 0xFF

// KeyState reports whether a physical key is held.
type KeyState interface {
	IsPressed(k host.Key) bool
}

type binding struct {
	bit uint8
	key host.Key
}

var bindings = [...]binding{
	{dmg.JoypadA, host.KeyZ},
	{dmg.JoypadB, host.KeyX},
	{dmg.JoypadSelect, host.KeyBackspace},
	{dmg.JoypadStart, host.KeyEnter},
	{dmg.JoypadRight, host.KeyRight},
	{dmg.JoypadLeft, host.KeyLeft},
	{dmg.JoypadUp, host.KeyUp},
	{dmg.JoypadDown, host.KeyDown},
}

// Sample recomputes all eight bits from the keys currently held.
func Sample(k KeyState) State {
	s := Released
	for _, b := range bindings {
		if k.IsPressed(b.key) {
			s &^= State(b.bit)
		}
	}
	return s
}

// Pressed reports whether the button behind bit is down.
func (s State) Pressed(bit uint8) bool {
	return uint8(s)&bit == 0
}

// KeyFor returns the physical key bound to a joypad bit.
func KeyFor(bit uint8) (host.Key, bool) {
	for _, b := range bindings {
		if b.bit == bit {
			return b.key, true
		}
	}
	return host.KeyUnknown, false
}

// Command is a session-control action bound to a key.
type Command uint8

const (
	CommandNone Command = iota
	CommandReset
	CommandToggleInterlace
	CommandToggleFrameSkip
)

func (c Command) String() string {
	switch c {
	case CommandReset:
		return "reset"
	case CommandToggleInterlace:
		return "toggle interlace"
	case CommandToggleFrameSkip:
		return "toggle frame skip"
	}
	return "none"
}

// CommandFor returns the control command for a key event.
func CommandFor(k host.Key) Command {
	switch k {
	case host.KeyR:
		return CommandReset
	case host.KeyI:
		return CommandToggleInterlace
	case host.KeyO:
		return CommandToggleFrameSkip
	}
	return CommandNone
}
