package importer

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/statements/internal/logger"
	"github.com/cleared-dev/statements/internal/model"
)

// File is one statement in a batch.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// PathFile returns a File backed by a path on disk.
func PathFile(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesFile returns a File backed by an in-memory upload.
func BytesFile(name string, data []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Decoded holds the rows decoded from one file.
type Decoded struct {
	File        string
	Rows        []model.RawRow
	LowAccuracy bool
}

// DecodeAll decodes files concurrently and returns results in input order.
// The first failure cancels the rest and is returned as a *FileError.
func DecodeAll(ctx context.Context, reg *Registry, files []File) ([]Decoded, error) {
	// Resolve every decoder first so an unsupported file fails before any work.
	decoders := make([]Decoder, len(files))
	for i, f := range files {
		d, err := reg.ForFile(f.Name)
		if err != nil {
			return nil, err
		}
		decoders[i] = d
	}

	log := logger.FromContext(ctx)
	out := make([]Decoded, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			rows, err := decodeFile(ctx, decoders[i], f)
			if err != nil {
				return &FileError{File: f.Name, Err: err}
			}
			be, ok := decoders[i].(BestEffort)
			out[i] = Decoded{File: f.Name, Rows: rows, LowAccuracy: ok && be.LowAccuracy()}
			log.Info().Str("file", f.Name).Str("format", decoders[i].Format()).Int("rows", len(rows)).Msg("decoded file")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeFile(ctx context.Context, d Decoder, f File) ([]model.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return d.Decode(ctx, rc)
}
