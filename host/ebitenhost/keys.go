package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"gb-emu/host"
)

var keyMap = map[ebiten.Key]host.Key{
	ebiten.KeyZ:          host.KeyZ,
	ebiten.KeyX:          host.KeyX,
	ebiten.KeyBackspace:  host.KeyBackspace,
	ebiten.KeyEnter:      host.KeyEnter,
	ebiten.KeyArrowUp:    host.KeyUp,
	ebiten.KeyArrowDown:  host.KeyDown,
	ebiten.KeyArrowLeft:  host.KeyLeft,
	ebiten.KeyArrowRight: host.KeyRight,
	ebiten.KeyR:          host.KeyR,
	ebiten.KeyI:          host.KeyI,
	ebiten.KeyO:          host.KeyO,
	ebiten.KeyEscape:     host.KeyEscape,
}

var reverseKeyMap = func() map[host.Key]ebiten.Key {
	m := make(map[host.Key]ebiten.Key, len(keyMap))
	for ek, hk := range keyMap {
		m[hk] = ek
	}
	return m
}()

// translate turns ebiten key transitions into host events. Escape becomes
// a close request, keys without a mapping are dropped.
func translate(events []host.Event, keys []ebiten.Key, typ host.EventType) []host.Event {
	for _, k := range keys {
		hk, ok := keyMap[k]
		if !ok {
			continue
		}
		if hk == host.KeyEscape {
			if typ == host.EventKeyPressed {
				events = append(events, host.Event{Type: host.EventClose})
			}
			continue
		}
		events = append(events, host.Event{Type: typ, Key: hk})
	}
	return events
}
