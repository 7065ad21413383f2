// Package importer decodes uploaded statement files into raw rows.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/statements/internal/model"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FileError attaches the originating file name to a decode failure.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Decoder converts one statement file into raw rows.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) ([]model.RawRow, error)
	// Format is the lower-case file extension without the dot.
	Format() string
}

// BestEffort is implemented by decoders whose output carries no structural
// guarantee, such as text extracted from PDFs.
type BestEffort interface {
	LowAccuracy() bool
}

// Registry holds decoders keyed by file extension.
type Registry struct {
	decoders map[string]Decoder
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds a decoder. Panics on duplicate format.
func (r *Registry) Register(d Decoder) {
	key := strings.ToLower(d.Format())
	if _, ok := r.decoders[key]; ok {
		panic("duplicate decoder format: " + key)
	}
	r.decoders[key] = d
}

// Get returns the decoder for format, or nil.
func (r *Registry) Get(format string) Decoder {
	return r.decoders[strings.ToLower(strings.TrimPrefix(format, "."))]
}

// ForFile returns the decoder for a file name's extension.
func (r *Registry) ForFile(name string) (Decoder, error) {
	ext := filepath.Ext(name)
	d := r.Get(ext)
	if d == nil {
		return nil, &FileError{File: name, Err: fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)}
	}
	return d, nil
}

// Supports reports whether name has a registered extension.
func (r *Registry) Supports(name string) bool {
	return r.Get(filepath.Ext(name)) != nil
}

// DefaultRegistry returns a registry with all built-in decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CSVDecoder{})
	r.Register(JSONDecoder{})
	r.Register(XLSXDecoder{})
	r.Register(XLSDecoder{})
	r.Register(&PDFDecoder{})
	return r
}

// processedDir is the subdirectory that archives decoded files.
const processedDir = "processed"

// Scan returns the supported statement files in dir, skipping subdirectories.
func Scan(dir string, reg *Registry) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !reg.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
