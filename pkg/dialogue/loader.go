package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader fetches dialogue documents by script id.
type Loader interface {
	Load(ctx context.Context, id string) (*Document, error)
}

// FileLoader reads <Dir>/<id>.json, falling back to .yaml and .yml.
type FileLoader struct {
	Dir string
}

var _ Loader = (*FileLoader)(nil)

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

func (l *FileLoader) Load(ctx context.Context, id string) (*Document, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScriptID, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(l.Dir, id+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dialogue %s: %w", path, err)
		}

		doc := &Document{}
		if ext == ".json" {
			err = json.Unmarshal(data, doc)
		} else {
			err = yaml.Unmarshal(data, doc)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse dialogue %s: %w", path, err)
		}
		doc.ID = id
		return doc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, id)
}

// IDs lists the script ids available in the directory.
func (l *FileLoader) IDs() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list dialogues in %s: %w", l.Dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch ext := filepath.Ext(name); ext {
		case ".json", ".yaml", ".yml":
			ids = append(ids, name[:len(name)-len(ext)])
		}
	}
	return ids, nil
}

// MemoryLoader serves documents held in memory.
type MemoryLoader struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

var _ Loader = (*MemoryLoader)(nil)

func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{docs: make(map[string]*Document)}
}

// Put stores a flat script under id.
func (l *MemoryLoader) Put(id string, lines ...Line) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[id] = &Document{ID: id, Flat: &Script{ID: id, Lines: lines}}
}

// PutSection stores lines as a named section of document id.
func (l *MemoryLoader) PutSection(id, section string, lines ...Line) {
	l.mu.Lock()
	defer l.mu.Unlock()
	doc, ok := l.docs[id]
	if !ok || doc.Sections == nil {
		doc = &Document{ID: id, Sections: make(map[string]Script)}
		l.docs[id] = doc
	}
	doc.Sections[section] = Script{Lines: lines}
}

func (l *MemoryLoader) Load(ctx context.Context, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	doc, ok := l.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, id)
	}
	return doc, nil
}
