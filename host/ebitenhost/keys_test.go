package ebitenhost

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"gb-emu/host"
)

func TestEveryHostKeyIsMapped(t *testing.T) {
	for _, k := range host.Keys() {
		_, ok := reverseKeyMap[k]
		assert.True(t, ok, "no ebiten key for %s", k)
	}
}

func TestTranslate(t *testing.T) {
	events := translate(nil, []ebiten.Key{ebiten.KeyZ, ebiten.KeyQ, ebiten.KeyArrowLeft}, host.EventKeyPressed)
	assert.Equal(t, []host.Event{
		{Type: host.EventKeyPressed, Key: host.KeyZ},
		{Type: host.EventKeyPressed, Key: host.KeyLeft},
	}, events)

	events = translate(nil, []ebiten.Key{ebiten.KeyEscape}, host.EventKeyPressed)
	assert.Equal(t, []host.Event{{Type: host.EventClose}}, events)

	events = translate(nil, []ebiten.Key{ebiten.KeyEscape}, host.EventKeyReleased)
	assert.Empty(t, events)
}
