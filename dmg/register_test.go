package dmg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFields(t *testing.T) {
	r := newRegister(map[string]field{
		"low":    {0, 1},
		"middle": {1, 5},
		"six":    {6, 1},
		"top":    {7, 1},
	})

	assert.Equal(t, uint8(0), r.reg)
	r.setField("top", 1)
	assert.Equal(t, map[string]uint8{
		"low":    0,
		"middle": 0,
		"six":    0,
		"top":    1,
	}, r.attributes())
	assert.Equal(t, uint8(0b10000000), r.reg)

	r.setField("middle", 31)
	assert.Equal(t, map[string]uint8{
		"low":    0,
		"middle": 31,
		"six":    0,
		"top":    1,
	}, r.attributes())
	assert.Equal(t, uint8(0b10111110), r.reg)

	r.setField("low", 1)
	assert.Equal(t, uint8(0b10111111), r.reg)

	r.setField("middle", 2)
	assert.Equal(t, map[string]uint8{
		"low":    1,
		"middle": 2,
		"six":    0,
		"top":    1,
	}, r.attributes())
	assert.Equal(t, uint8(0b10000101), r.reg)

	// values wider than the field are masked
	r.setField("low", 0xFE)
	assert.Equal(t, uint8(0), r.field("low"))

	// unknown fields are ignored on write
	r.setField("nope", 1)
	assert.Equal(t, uint8(0b10000100), r.reg)
}

func TestRegisterSet(t *testing.T) {
	lcdc := newLCDC()
	lcdc.set(0x91)

	assert.True(t, lcdc.flag("lcd_enable"))
	assert.True(t, lcdc.flag("tile_data"))
	assert.True(t, lcdc.flag("bg_enable"))
	assert.False(t, lcdc.flag("window_enable"))
	assert.False(t, lcdc.flag("obj_enable"))

	stat := newSTAT()
	stat.set(0x85)
	assert.Equal(t, uint8(1), stat.field("mode"))
	assert.True(t, stat.flag("lyc_match"))
	assert.False(t, stat.flag("hblank_int"))
}

func TestRegisterUnknownFieldPanics(t *testing.T) {
	r := newSTAT()
	assert.Panics(t, func() { r.field("missing") })
}
