// Package filestore keeps every entity kind as a JSON array in its own file
// under a data directory, e.g. tasks.json and groups.json. Each mutation
// rewrites the whole document through a temp file and rename.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// Document is a JSON file holding every entity of one kind.
type Document[K comparable, T any] struct {
	mu   sync.Mutex
	path string
	kind entities.Kind
	key  func(T) K
}

// NewDocument returns a document stored at dir/<kind>.json
func NewDocument[K comparable, T any](dir string, kind entities.Kind, key func(T) K) *Document[K, T] {
	return &Document[K, T]{
		path: filepath.Join(dir, string(kind)+".json"),
		kind: kind,
		key:  key,
	}
}

// Path returns the file backing the document
func (d *Document[K, T]) Path() string {
	return d.path
}

// List returns the stored entities. A missing file is an empty collection.
func (d *Document[K, T]) List(ctx context.Context) ([]T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read()
}

// Upsert replaces entities with matching keys in place and appends the rest
func (d *Document[K, T]) Upsert(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.read()
	if err != nil {
		return err
	}

	index := make(map[K]int, len(current))
	for i, item := range current {
		index[d.key(item)] = i
	}
	for _, item := range items {
		if i, ok := index[d.key(item)]; ok {
			current[i] = item
			continue
		}
		index[d.key(item)] = len(current)
		current = append(current, item)
	}
	return d.write(current)
}

// Delete removes the entity with id. Missing ids are not an error.
func (d *Document[K, T]) Delete(ctx context.Context, id K) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.read()
	if err != nil {
		return err
	}

	kept := current[:0]
	for _, item := range current {
		if d.key(item) != id {
			kept = append(kept, item)
		}
	}
	return d.write(kept)
}

func (d *Document[K, T]) read() ([]T, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.kind, err)
	}

	var items []T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", d.kind, err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (d *Document[K, T]) write(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.kind, err)
	}
	if err := writeFileAtomic(d.path, data); err != nil {
		return fmt.Errorf("write %s: %w", d.kind, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SettingsFile stores the mail settings object in settings.json
type SettingsFile struct {
	mu   sync.Mutex
	path string
}

// NewSettingsFile returns the settings store under dir
func NewSettingsFile(dir string) *SettingsFile {
	return &SettingsFile{path: filepath.Join(dir, string(entities.KindSettings)+".json")}
}

// Path returns the file backing the settings
func (s *SettingsFile) Path() string {
	return s.path
}

func (s *SettingsFile) LoadMailSettings(ctx context.Context) (entities.MailSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := entities.DefaultMailSettings()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return entities.DefaultMailSettings(), fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsFile) SaveMailSettings(ctx context.Context, settings entities.MailSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// NewRepositories wires one JSON document per entity kind under dir
func NewRepositories(dir string) ports.Repositories {
	return ports.Repositories{
		Tasks:    NewDocument[int, entities.Task](dir, entities.KindTask, entities.TaskID),
		Groups:   NewDocument[string, string](dir, entities.KindGroup, func(name string) string { return name }),
		Memos:    NewDocument[string, entities.Memo](dir, entities.KindMemo, entities.MemoID),
		Folders:  NewDocument[string, entities.Folder](dir, entities.KindFolder, entities.FolderID),
		Books:    NewDocument[string, entities.ReadingBook](dir, entities.KindBook, entities.BookID),
		Events:   NewDocument[string, entities.CalendarEvent](dir, entities.KindEvent, entities.EventID),
		Settings: NewSettingsFile(dir),
	}
}
