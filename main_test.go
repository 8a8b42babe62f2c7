package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gb-emu/dmg"
)

func writeTestROM(t *testing.T, code []byte) string {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], []byte{0x00, 0xC3, 0x50, 0x01})
	copy(rom[0x134:], "MAINTEST")
	rom[0x14D] = dmg.HeaderChecksum(rom)
	copy(rom[0x150:], code)

	path := filepath.Join(t.TempDir(), "main.gb")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func runArgs(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestNoArgumentsPrintsUsage(t *testing.T) {
	code, stdout, stderr := runArgs()
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "usage: gb-emu ROM")
	assert.Contains(t, stderr, "gb-emu: error:")
}

func TestTooManyArguments(t *testing.T) {
	code, _, stderr := runArgs("a.gb", "b.gb")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "usage: gb-emu ROM")
}

func TestFlagValidation(t *testing.T) {
	code, _, stderr := runArgs("--scale=0", "a.gb")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "scale must be between 1 and 10")

	code, _, _ = runArgs("--backend=opengl", "a.gb")
	assert.Equal(t, 1, code)
}

func TestHelp(t *testing.T) {
	code, stdout, _ := runArgs("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "gb-emu")
	assert.Contains(t, stdout, "--backend")
}

func TestMissingROM(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.gb")
	code, _, stderr := runArgs("--backend=headless", missing)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no such file")
}

func TestRejectedROMReportsCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.gb")
	require.NoError(t, os.WriteFile(path, make([]byte, 0x8000), 0o644))

	code, _, stderr := runArgs("--backend=headless", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "code=2")
}

func TestHeadlessRun(t *testing.T) {
	path := writeTestROM(t, []byte{0x18, 0xFE})
	code, _, stderr := runArgs("--backend=headless", "--frames=5", path)
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "session closed")
}

func TestHeadlessInvalidOpcode(t *testing.T) {
	path := writeTestROM(t, []byte{0xDD})
	code, _, stderr := runArgs("--backend=headless", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "INVALID OPCODE")
	assert.Contains(t, stderr, "00DD")
}
