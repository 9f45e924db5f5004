package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/scoutline/scoutline/pkg/types"
)

// FileSource reads candidates from a single file. JSON files hold either a
// top-level array of entity envelopes or one envelope per line; YAML files
// hold a sequence of entity mappings. The whole file is decoded up front.
type FileSource struct {
	path     string
	entities []types.Entity
	pos      int
}

// NewFileSource opens and decodes path. The extension picks the codec:
// .json, .yaml, or .yml.
func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: failed to read %s: %w", path, err)
	}

	var entities []types.Entity
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entities, err = decodeJSON(path, data)
	case ".yaml", ".yml":
		entities, err = decodeYAML(path, data)
	default:
		return nil, fmt.Errorf("source: unsupported file type %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return &FileSource{path: path, entities: entities}, nil
}

// Next returns the next decoded entity, or io.EOF when the file is drained.
func (f *FileSource) Next(ctx context.Context) (types.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.pos >= len(f.entities) {
		return nil, io.EOF
	}
	e := f.entities[f.pos]
	f.pos++
	return e, nil
}

// Close is a no-op; the file is fully read at construction.
func (f *FileSource) Close() error { return nil }

// Len returns the number of entities the file decoded to.
func (f *FileSource) Len() int { return len(f.entities) }
