package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gb-emu/dmg"
	"gb-emu/host"
)

type heldKeys map[host.Key]bool

func (h heldKeys) IsPressed(k host.Key) bool { return h[k] }

var allBits = []uint8{
	dmg.JoypadA, dmg.JoypadB, dmg.JoypadSelect, dmg.JoypadStart,
	dmg.JoypadRight, dmg.JoypadLeft, dmg.JoypadUp, dmg.JoypadDown,
}

func TestSampleIdle(t *testing.T) {
	assert.Equal(t, Released, Sample(heldKeys{}))
}

func TestSampleEveryCombination(t *testing.T) {
	mapped := []host.Key{
		host.KeyZ, host.KeyX, host.KeyBackspace, host.KeyEnter,
		host.KeyUp, host.KeyDown, host.KeyLeft, host.KeyRight,
	}
	for mask := 0; mask < 1<<len(mapped); mask++ {
		held := heldKeys{}
		for i, k := range mapped {
			if mask&(1<<i) != 0 {
				held[k] = true
			}
		}
		s := Sample(held)
		for _, bit := range allBits {
			key, ok := KeyFor(bit)
			assert.True(t, ok)
			assert.Equal(t, !held[key], uint8(s)&bit != 0, "mask %08b bit %02x", mask, bit)
		}
	}
}

func TestSampleIgnoresUnmappedKeys(t *testing.T) {
	held := heldKeys{
		host.KeyR:      true,
		host.KeyI:      true,
		host.KeyO:      true,
		host.KeyEscape: true,
	}
	assert.Equal(t, Released, Sample(held))

	held[host.KeyZ] = true
	s := Sample(held)
	assert.True(t, s.Pressed(dmg.JoypadA))
	assert.Equal(t, Released&^State(dmg.JoypadA), s)
}

func TestBindings(t *testing.T) {
	tests := []struct {
		bit uint8
		key host.Key
	}{
		{dmg.JoypadA, host.KeyZ},
		{dmg.JoypadB, host.KeyX},
		{dmg.JoypadSelect, host.KeyBackspace},
		{dmg.JoypadStart, host.KeyEnter},
		{dmg.JoypadUp, host.KeyUp},
		{dmg.JoypadDown, host.KeyDown},
		{dmg.JoypadLeft, host.KeyLeft},
		{dmg.JoypadRight, host.KeyRight},
	}
	for _, tt := range tests {
		k, ok := KeyFor(tt.bit)
		assert.True(t, ok)
		assert.Equal(t, tt.key, k)
	}
	_, ok := KeyFor(0)
	assert.False(t, ok)
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, CommandReset, CommandFor(host.KeyR))
	assert.Equal(t, CommandToggleInterlace, CommandFor(host.KeyI))
	assert.Equal(t, CommandToggleFrameSkip, CommandFor(host.KeyO))
	assert.Equal(t, CommandNone, CommandFor(host.KeyZ))
	assert.Equal(t, CommandNone, CommandFor(host.KeyUnknown))
	assert.Equal(t, "toggle interlace", CommandToggleInterlace.String())
}
