// Package cartridge owns the byte buffers behind the emulated cartridge:
// the ROM image read from disk and the cartridge RAM sized by the core.
package cartridge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrShortRead is returned when a ROM file yields fewer bytes than its size.
var ErrShortRead = errors.New("short read")

var errIsDir = errors.New("is a directory")

// ROM is the cartridge image. It is never modified after loading.
type ROM []byte

// RAM is the cartridge's external RAM.
type RAM []byte

// AllocateRAM returns zeroed cartridge RAM of the given size. Nothing is
// loaded from or written back to disk.
func AllocateRAM(size int) RAM {
	if size < 0 {
		size = 0
	}
	return make(RAM, size)
}

// LoadROM reads a ROM image. Archives (.zip, .7z, .rar, .gz) are unpacked
// and their first Game Boy ROM entry returned; any other file is read
// byte-for-byte in full.
func LoadROM(path string) (ROM, error) {
	if k := archiveKind(path); k != archiveNone {
		return extract(path, k)
	}
	return readRaw(path)
}

func readRaw(path string) (ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "read", Path: path, Err: errIsDir}
	}

	return readAll(f, info.Size(), path)
}

// readAll reads exactly size bytes from r. Anything less is a failure and
// the partial buffer is dropped. Sizes above the archive cap are refused
// before anything is allocated.
func readAll(r io.Reader, size int64, path string) (ROM, error) {
	if size > maxROMSize {
		return nil, fmt.Errorf("%s: %w: %d bytes", path, ErrFileTooLarge, size)
	}
	rom := make(ROM, size)
	n, err := io.ReadFull(r, rom)
	if int64(n) != size {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			err = ErrShortRead
		}
		return nil, fmt.Errorf("%s: %w: read %d of %d bytes", path, err, n, size)
	}
	return rom, nil
}

// IsROMName reports whether name looks like a Game Boy ROM.
func IsROMName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gb", ".gbc", ".dmg", ".bin":
		return true
	}
	return false
}

// Store holds the ROM and RAM for one session.
type Store struct {
	ROM ROM
	RAM RAM

	releases int
}

func NewStore(rom ROM) *Store {
	return &Store{ROM: rom}
}

// AllocateRAM replaces the cartridge RAM with a zeroed buffer of size bytes.
func (s *Store) AllocateRAM(size int) {
	s.RAM = AllocateRAM(size)
}

// Release drops both buffers. Only the first call has an effect.
func (s *Store) Release() {
	if s.Released() {
		return
	}
	s.ROM = nil
	s.RAM = nil
	s.releases++
}

// Released reports whether Release has run.
func (s *Store) Released() bool {
	return s.releases > 0
}

// Releases returns how many times the buffers were actually released.
func (s *Store) Releases() int {
	return s.releases
}
