package dmg

import "strings"

const (
	headerTitle    = 0x0134
	headerType     = 0x0147
	headerROMSize  = 0x0148
	headerRAMSize  = 0x0149
	headerChecksum = 0x014D
	headerEnd      = 0x0150
)

// Cartridge types the core can run. Anything with a memory bank
// controller is rejected.
const (
	CartROMOnly       = 0x00
	CartROMRAM        = 0x08
	CartROMRAMBattery = 0x09
)

var saveSizes = [...]int{0, 0x800, 0x2000, 0x8000, 0x20000, 0x10000}

type Header struct {
	Title    string
	Type     uint8
	ROMCode  uint8
	RAMCode  uint8
	Checksum uint8

	computed uint8
}

func readHeader(cart Cartridge) Header {
	var title strings.Builder
	for a := uint32(headerTitle); a < headerTitle+16; a++ {
		c := cart.ReadROM(a)
		if c == 0 {
			break
		}
		if c >= 0x20 && c < 0x7F {
			title.WriteByte(c)
		}
	}

	var x uint8
	for a := uint32(headerTitle); a < headerChecksum; a++ {
		x = x - cart.ReadROM(a) - 1
	}

	return Header{
		Title:    strings.TrimSpace(title.String()),
		Type:     cart.ReadROM(headerType),
		ROMCode:  cart.ReadROM(headerROMSize),
		RAMCode:  cart.ReadROM(headerRAMSize),
		Checksum: cart.ReadROM(headerChecksum),
		computed: x,
	}
}

func (h Header) Supported() bool {
	switch h.Type {
	case CartROMOnly, CartROMRAM, CartROMRAMBattery:
		return true
	}
	return false
}

func (h Header) ChecksumValid() bool {
	return h.computed == h.Checksum
}

// SaveSize is the external RAM size the header declares.
func (h Header) SaveSize() int {
	if int(h.RAMCode) < len(saveSizes) {
		return saveSizes[h.RAMCode]
	}
	return 0
}

// HeaderChecksum computes the header checksum of a ROM image. It is used
// to build test images.
func HeaderChecksum(rom []byte) uint8 {
	var x uint8
	for a := headerTitle; a < headerChecksum && a < len(rom); a++ {
		x = x - rom[a] - 1
	}
	return x
}
