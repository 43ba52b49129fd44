// Package fileio reads and writes ATF files, plain or compressed with xz or
// gzip.
package fileio

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/atfkit/core/encoding"
	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
)

// Injectable functions for testing.
var (
	osReadFile  = os.ReadFile
	osWriteFile = os.WriteFile
	osMkdirAll  = os.MkdirAll
	xzNewReader = func(r io.Reader) (io.Reader, error) { return xz.NewReader(r) }
	xzNewWriter = func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) }
)

// MaxSize bounds the decompressed size of an input file (256 MB).
var MaxSize int64 = 256 << 20

// ErrTooLarge is returned when decompressed input exceeds MaxSize.
var ErrTooLarge = errors.New("decompressed input too large")

// Compression is the container format of a file.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionXZ   Compression = "xz"
	CompressionGzip Compression = "gzip"
)

var (
	magicXZ   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	magicGzip = []byte{0x1F, 0x8B}
)

// ParseCompression converts "none", "xz" or "gzip" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionXZ, CompressionGzip:
		return c, nil
	case "gz":
		return CompressionGzip, nil
	}
	return CompressionNone, atferrors.NewUnsupported("compression", fmt.Sprintf("%q (want none, xz or gzip)", s))
}

// Extension returns the file suffix for c, including the dot.
func (c Compression) Extension() string {
	switch c {
	case CompressionXZ:
		return ".xz"
	case CompressionGzip:
		return ".gz"
	}
	return ""
}

// DetectCompression inspects the magic bytes of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, magicXZ):
		return CompressionXZ
	case bytes.HasPrefix(data, magicGzip):
		return CompressionGzip
	}
	return CompressionNone
}

// CompressionForPath picks the compression from the file name.
func CompressionForPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		return CompressionXZ
	case ".gz":
		return CompressionGzip
	}
	return CompressionNone
}

// ReadFile reads path and decompresses it when it starts with an xz or
// gzip header.
func ReadFile(path string) ([]byte, error) {
	data, err := osReadFile(path)
	if err != nil {
		return nil, atferrors.NewIO("read", path, err)
	}
	out, err := Decompress(data)
	if err != nil {
		return nil, atferrors.NewIO("decompress", path, err)
	}
	return out, nil
}

// Decompress undoes xz or gzip compression. Uncompressed data is returned
// as is.
func Decompress(data []byte) ([]byte, error) {
	var r io.Reader
	switch DetectCompression(data) {
	case CompressionXZ:
		xr, err := xzNewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xr
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gr.Close()
		r = gr
	default:
		return data, nil
	}
	out, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > MaxSize {
		return nil, ErrTooLarge
	}
	return out, nil
}

// ReadSource reads path and decodes it to NFC-normalized UTF-8.
func ReadSource(path string) (string, error) {
	data, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	src, err := encoding.Decode(data)
	if err != nil {
		var pe *atferrors.ParseError
		if atferrors.As(err, &pe) {
			pe.Path = path
		}
		return "", err
	}
	return src, nil
}

// Compress applies c to data.
func Compress(data []byte, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch c {
	case CompressionXZ:
		xw, err := xzNewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		w = xw
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	default:
		return data, nil
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to path with compression c, creating parent
// directories as needed.
func WriteFile(path string, data []byte, c Compression) error {
	out, err := Compress(data, c)
	if err != nil {
		return atferrors.NewIO("compress", path, err)
	}
	if err := osMkdirAll(filepath.Dir(path), 0755); err != nil {
		return atferrors.NewIO("create directory for", path, err)
	}
	if err := osWriteFile(path, out, 0644); err != nil {
		return atferrors.NewIO("write", path, err)
	}
	return nil
}

// IsATFPath reports whether the name ends in .atf, optionally followed by
// .xz or .gz.
func IsATFPath(path string) bool {
	name := strings.ToLower(path)
	for _, suffix := range []string{".atf", ".atf.xz", ".atf.gz"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Source is one expanded input file. Rel is its path below the directory
// it was found under, or its base name when it was named explicitly.
type Source struct {
	Path string
	Rel  string
}

// Expand replaces each directory in paths with the ATF files below it.
// Files named explicitly are kept whatever their extension. The result is
// sorted and free of duplicates.
func Expand(paths []string) ([]string, error) {
	srcs, err := ExpandSources(paths)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = s.Path
	}
	return out, nil
}

// ExpandSources is Expand keeping each file's path relative to its root.
// A file reached twice keeps the Rel of its first occurrence.
func ExpandSources(paths []string) ([]Source, error) {
	seen := map[string]bool{}
	var out []Source
	add := func(path, rel string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, Source{Path: path, Rel: rel})
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, atferrors.NewIO("stat", p, err)
		}
		if !info.IsDir() {
			add(p, filepath.Base(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsATFPath(path) {
				return nil
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			add(path, rel)
			return nil
		})
		if err != nil {
			return nil, atferrors.NewIO("walk", p, err)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
