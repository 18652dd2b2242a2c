package envsafe

import (
	"context"
	"io/fs"
	"os"
)

// SourceReader supplies raw text for a configured source. Implementations
// must return an error satisfying errors.Is(err, fs.ErrNotExist) when a
// source does not exist, so the loader can treat it as empty instead of
// failing. Any other error aborts the load.
type SourceReader interface {
	ReadSource(ctx context.Context, name string) ([]byte, error)
}

// FileReader reads sources from the filesystem. It is the default reader.
type FileReader struct{}

func (FileReader) ReadSource(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(name)
}

// MapReader serves sources from an in-memory map keyed by source name.
// Names absent from the map report fs.ErrNotExist, mirroring FileReader.
type MapReader map[string]string

func (r MapReader) ReadSource(_ context.Context, name string) ([]byte, error) {
	text, ok := r[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(text), nil
}
