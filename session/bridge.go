package session

import (
	"fmt"

	"gb-emu/cartridge"
	"gb-emu/dmg"
)

// FatalError is a non-recoverable error raised by the core while running a
// frame.
type FatalError struct {
	Kind  dmg.ErrorKind
	Value uint16
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("error %d occurred: %s at %04X", int(e.Kind), e.Kind, e.Value)
}

// Bridge satisfies the core's memory requests from a Store. The core
// validates addresses before calling in, so the accessors do not.
type Bridge struct {
	store *cartridge.Store
	err   *FatalError
}

func NewBridge(store *cartridge.Store) *Bridge {
	return &Bridge{store: store}
}

func (b *Bridge) ROMSize() int {
	return len(b.store.ROM)
}

func (b *Bridge) ReadROM(addr uint32) uint8 {
	return b.store.ROM[addr]
}

func (b *Bridge) ReadRAM(addr uint32) uint8 {
	return b.store.RAM[addr]
}

func (b *Bridge) WriteRAM(addr uint32, v uint8) {
	b.store.RAM[addr] = v
}

// OnFatalError releases the cartridge buffers and records the error. Only
// the first report is kept.
func (b *Bridge) OnFatalError(kind dmg.ErrorKind, val uint16) {
	if b.err != nil {
		return
	}
	b.store.Release()
	b.err = &FatalError{Kind: kind, Value: val}
}

// Err returns the recorded fatal error, if any.
func (b *Bridge) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err
}
