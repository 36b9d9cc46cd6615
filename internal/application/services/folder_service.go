package services

import (
	"context"
	"fmt"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// FolderService handles memo folders
type FolderService struct {
	*base
	folders *store.Collection[string, entities.Folder]
	repo    ports.FolderRepository
	memos   *MemoService
}

// NewFolderService creates a new folder service
func NewFolderService(folders *store.Collection[string, entities.Folder], repo ports.FolderRepository, memos *MemoService, b *base) *FolderService {
	return &FolderService{base: b, folders: folders, repo: repo, memos: memos}
}

// ListFolders returns every folder
func (s *FolderService) ListFolders() []entities.Folder {
	return s.folders.Snapshot()
}

// CreateFolder creates a folder, optionally under an existing parent
func (s *FolderService) CreateFolder(ctx context.Context, req ports.FolderRequest) ([]entities.Folder, error) {
	folder := entities.Folder{
		ID:       s.newID(),
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if folder.ParentID != nil && *folder.ParentID == "" {
		folder.ParentID = nil
	}

	return s.folders.Mutate(func(items *[]entities.Folder) error {
		if err := s.checkParent(*items, folder.ID, folder.ParentID); err != nil {
			return err
		}
		*items = append(*items, folder)
		return s.persisted(entities.KindFolder, "create", s.repo.Upsert(ctx, folder))
	})
}

// UpdateFolder renames a folder. An omitted parent_id keeps the current
// parent, an empty one moves the folder to the root.
func (s *FolderService) UpdateFolder(ctx context.Context, id string, req ports.FolderRequest) ([]entities.Folder, error) {
	return s.folders.Mutate(func(items *[]entities.Folder) error {
		i := s.folders.IndexOf(*items, id)
		if i < 0 {
			return fmt.Errorf("folder %s: %w", id, entities.ErrFolderNotFound)
		}

		folder := &(*items)[i]
		parentID := folder.ParentID
		if req.ParentID != nil {
			parentID = req.ParentID
			if *parentID == "" {
				parentID = nil
			}
		}
		if err := s.checkParent(*items, id, parentID); err != nil {
			return err
		}

		folder.Name = req.Name
		folder.ParentID = cloneStringPtr(parentID)
		return s.persisted(entities.KindFolder, "update", s.repo.Upsert(ctx, *folder))
	})
}

// DeleteFolder removes a folder. Its memos lose their folder reference and
// its child folders move up to the deleted folder's parent. Locks are taken
// folder first, then memo.
func (s *FolderService) DeleteFolder(ctx context.Context, id string) ([]entities.Folder, error) {
	return s.folders.Mutate(func(items *[]entities.Folder) error {
		i := s.folders.IndexOf(*items, id)
		if i < 0 {
			return nil
		}
		parent := (*items)[i].ParentID
		s.folders.Remove(items, id)

		if err := s.persisted(entities.KindFolder, "delete", s.repo.Delete(ctx, id)); err != nil {
			return err
		}

		var moved []entities.Folder
		for j := range *items {
			child := &(*items)[j]
			if child.ParentID != nil && *child.ParentID == id {
				child.ParentID = cloneStringPtr(parent)
				moved = append(moved, child.Clone())
			}
		}
		if len(moved) > 0 {
			if err := s.persisted(entities.KindFolder, "reparent", s.repo.Upsert(ctx, moved...)); err != nil {
				return err
			}
		}

		unfiled, err := s.memos.Unfile(ctx, id)
		if err != nil {
			return err
		}
		s.logger.Infow("Folder deleted successfully", "folder_id", id, "memos_unfiled", unfiled, "folders_moved", len(moved))
		return nil
	})
}

// checkParent verifies that parentID exists and that making it the parent of
// id does not close a loop.
func (s *FolderService) checkParent(items []entities.Folder, id string, parentID *string) error {
	if parentID == nil {
		return nil
	}

	byID := make(map[string]entities.Folder, len(items))
	for _, f := range items {
		byID[f.ID] = f
	}

	current := *parentID
	for steps := 0; steps <= len(items); steps++ {
		if current == id {
			return fmt.Errorf("folder %s: %w", id, entities.ErrFolderCycle)
		}
		f, ok := byID[current]
		if !ok {
			if current == *parentID {
				return fmt.Errorf("parent folder %s: %w", current, entities.ErrFolderNotFound)
			}
			return nil
		}
		if f.ParentID == nil {
			return nil
		}
		current = *f.ParentID
	}
	return fmt.Errorf("folder %s: %w", id, entities.ErrFolderCycle)
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
