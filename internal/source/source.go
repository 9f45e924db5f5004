// Package source loads scoring candidates from files and drop directories.
package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/scoutline/scoutline/pkg/types"
)

// Source yields candidate entities one at a time. Next returns io.EOF once
// the source is drained; Close releases whatever the source holds open.
type Source interface {
	Next(ctx context.Context) (types.Entity, error)
	Close() error
}

// decodeJSON decodes a JSON batch: either a top-level array of entity
// envelopes or one envelope per line. Records that fail to decode are
// skipped with a warning so one bad row never sinks the batch.
func decodeJSON(path string, data []byte) ([]types.Entity, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("source: invalid JSON array in %s: %w", filepath.Base(path), err)
		}
		entities := make([]types.Entity, 0, len(raws))
		for i, raw := range raws {
			e, err := types.DecodeEntity(raw)
			if err != nil {
				log.Printf("source: skipping record %d in %s: %v", i+1, filepath.Base(path), err)
				continue
			}
			entities = append(entities, e)
		}
		return entities, nil
	}

	// One envelope per line.
	var entities []types.Entity
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		e, err := types.DecodeEntity(line)
		if err != nil {
			log.Printf("source: skipping line %d in %s: %v", lineNo, filepath.Base(path), err)
			continue
		}
		entities = append(entities, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("source: failed to scan %s: %w", filepath.Base(path), err)
	}
	return entities, nil
}

// decodeYAML decodes a YAML sequence of entity mappings by round-tripping
// each mapping through JSON into the tagged envelope decoder.
func decodeYAML(path string, data []byte) ([]types.Entity, error) {
	var docs []map[string]interface{}
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("source: invalid YAML in %s: %w", filepath.Base(path), err)
	}

	entities := make([]types.Entity, 0, len(docs))
	for i, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			log.Printf("source: skipping record %d in %s: %v", i+1, filepath.Base(path), err)
			continue
		}
		e, err := types.DecodeEntity(raw)
		if err != nil {
			log.Printf("source: skipping record %d in %s: %v", i+1, filepath.Base(path), err)
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}
