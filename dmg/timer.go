package dmg

type timer struct {
	div  uint16
	tima uint8
	tma  uint8
	tac  uint8

	counter int
}

// cycles per TIMA increment, indexed by TAC clock select
var timerPeriods = [4]int{1024, 16, 64, 256}

func (g *GB) timerTick(cycles int) {
	t := &g.timer
	t.div += uint16(cycles)

	if t.tac&0x04 == 0 {
		return
	}
	period := timerPeriods[t.tac&0x03]
	t.counter += cycles
	for t.counter >= period {
		t.counter -= period
		t.tima++
		if t.tima == 0 {
			t.tima = t.tma
			g.ifr |= intTimer
		}
	}
}
