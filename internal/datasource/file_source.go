package datasource

import (
	"context"
	"errors"
	"os"
)

// FileCSVSource reads a feed from a local CSV file.
type FileCSVSource struct {
	path string
}

// NewFileCSVSource creates a file-backed source.
func NewFileCSVSource(path string) *FileCSVSource {
	return &FileCSVSource{path: path}
}

// Fetch reads and parses the file.
func (s *FileCSVSource) Fetch(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewDataSourceError(s.Name(), ErrCodeNotFound, "file not found: "+s.path, ErrNotFound)
		}
		return nil, NewDataSourceError(s.Name(), ErrCodeNetworkError, "failed to open file", err)
	}
	defer f.Close()

	table, err := ParseCSV(f)
	if err != nil {
		code := ErrCodeInvalidData
		if errors.Is(err, ErrEmptyFeed) {
			code = ErrCodeEmpty
		}
		return nil, NewDataSourceError(s.Name(), code, "failed to parse "+s.path, err)
	}
	return table, nil
}

// Name returns the data source name
func (s *FileCSVSource) Name() string {
	return "file"
}

// Location returns the file path.
func (s *FileCSVSource) Location() string {
	return s.path
}
