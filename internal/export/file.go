package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
)

// Create opens path for writing, creating parent directories. Paths ending
// in ".br" are brotli-compressed.
func Create(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("export: mkdir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".br") {
		return f, nil
	}
	return &brotliFile{Writer: brotli.NewWriterLevel(f, brotli.DefaultCompression), f: f}, nil
}

type brotliFile struct {
	*brotli.Writer
	f *os.File
}

func (b *brotliFile) Close() error {
	if err := b.Writer.Close(); err != nil {
		b.f.Close()
		return fmt.Errorf("export: brotli: %w", err)
	}
	return b.f.Close()
}

// WriteFile creates path and hands the writer to write.
func WriteFile(path string, write func(io.Writer) error) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
