package cartridge

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// maxROMSize caps how much is read for one ROM, raw or decompressed.
const maxROMSize = 8 * 1024 * 1024

var (
	ErrNoROMFile    = errors.New("no ROM file found in archive")
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

type archive int

const (
	archiveNone archive = iota
	archiveZIP
	archive7z
	archiveRAR
	archiveGzip
)

func archiveKind(path string) archive {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return archiveZIP
	case ".7z":
		return archive7z
	case ".rar":
		return archiveRAR
	case ".gz":
		return archiveGzip
	}
	return archiveNone
}

func extract(path string, k archive) (ROM, error) {
	switch k {
	case archiveZIP:
		return extractZIP(path)
	case archive7z:
		return extract7z(path)
	case archiveRAR:
		return extractRAR(path)
	case archiveGzip:
		return extractGzip(path)
	}
	return readRaw(path)
}

func limitedRead(r io.Reader) (ROM, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func extractZIP(path string) (ROM, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsROMName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		rom, err := limitedRead(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return rom, nil
	}
	return nil, ErrNoROMFile
}

func extract7z(path string) (ROM, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsROMName(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		rom, err := limitedRead(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return rom, nil
	}
	return nil, ErrNoROMFile
}

func extractRAR(path string) (ROM, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open rar: %w", err)
	}
	defer r.Close()

	for {
		h, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rar entry: %w", err)
		}
		if h.IsDir || !IsROMName(h.Name) {
			continue
		}
		rom, err := limitedRead(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", h.Name, err)
		}
		return rom, nil
	}
	return nil, ErrNoROMFile
}

// extractGzip treats the decompressed stream as the ROM. The name inside
// the gzip header is not checked since most tools leave it empty.
func extractGzip(path string) (ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer gr.Close()

	rom, err := limitedRead(gr)
	if err != nil {
		return nil, fmt.Errorf("decompress gzip: %w", err)
	}
	return rom, nil
}
