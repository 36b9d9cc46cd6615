package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/ports"
)

// ImportMarker is the sentinel file written once the JSON documents in a
// data directory have been copied into the database.
const ImportMarker = ".db_migrated"

// ImportResult counts what an import copied
type ImportResult struct {
	Skipped  bool
	Imported map[entities.Kind]int
	Failed   map[entities.Kind]int
}

// ImportJSON copies every collection from src (the JSON file store in
// dataDir) into dst. It runs at most once per data directory. Records that
// fail to write are logged and skipped. Afterwards the JSON files are
// renamed to *.json.bak.
func ImportJSON(ctx context.Context, dataDir string, src, dst ports.Repositories, log *logger.Logger) (ImportResult, error) {
	result := ImportResult{
		Imported: map[entities.Kind]int{},
		Failed:   map[entities.Kind]int{},
	}
	log = log.WithComponent("import")

	marker := filepath.Join(dataDir, ImportMarker)
	if _, err := os.Stat(marker); err == nil {
		log.Infow("JSON import already done", "marker", marker)
		result.Skipped = true
		return result, nil
	}

	steps := []struct {
		kind entities.Kind
		copy func() (int, int, error)
	}{
		{entities.KindTask, func() (int, int, error) { return copyAll(ctx, src.Tasks, dst.Tasks) }},
		{entities.KindGroup, func() (int, int, error) { return copyAll(ctx, src.Groups, dst.Groups) }},
		{entities.KindFolder, func() (int, int, error) { return copyAll(ctx, src.Folders, dst.Folders) }},
		{entities.KindMemo, func() (int, int, error) { return copyAll(ctx, src.Memos, dst.Memos) }},
		{entities.KindBook, func() (int, int, error) { return copyAll(ctx, src.Books, dst.Books) }},
		{entities.KindEvent, func() (int, int, error) { return copyAll(ctx, src.Events, dst.Events) }},
		{entities.KindSettings, func() (int, int, error) { return copySettings(ctx, src.Settings, dst.Settings) }},
	}

	for _, step := range steps {
		ok, failed, err := step.copy()
		if err != nil {
			return result, fmt.Errorf("failed to import %s: %w", step.kind, err)
		}
		result.Imported[step.kind] = ok
		result.Failed[step.kind] = failed
		log.Infow("Imported collection", "kind", step.kind, "imported", ok, "failed", failed)
	}

	if err := os.WriteFile(marker, []byte("migrated"), 0o644); err != nil {
		return result, fmt.Errorf("failed to write import marker: %w", err)
	}

	for _, step := range steps {
		path := filepath.Join(dataDir, string(step.kind)+".json")
		if err := os.Rename(path, path+".bak"); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnw("Failed to back up JSON file", "path", path, "error", err)
		}
	}
	return result, nil
}

// copyAll writes the items of src into dst one by one so a bad record does
// not stop the rest.
func copyAll[K comparable, T any](ctx context.Context, src, dst ports.Repository[K, T]) (int, int, error) {
	items, err := src.List(ctx)
	if err != nil {
		return 0, 0, err
	}

	imported, failed := 0, 0
	for _, item := range items {
		if err := dst.Upsert(ctx, item); err != nil {
			failed++
			continue
		}
		imported++
	}
	return imported, failed, nil
}

func copySettings(ctx context.Context, src, dst ports.SettingsRepository) (int, int, error) {
	settings, err := src.LoadMailSettings(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := dst.SaveMailSettings(ctx, settings); err != nil {
		return 0, 1, nil
	}
	return 1, 0, nil
}
