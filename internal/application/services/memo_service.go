package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// MemoService handles memo operations
type MemoService struct {
	*base
	memos *store.Collection[string, entities.Memo]
	repo  ports.MemoRepository
}

// NewMemoService creates a new memo service
func NewMemoService(memos *store.Collection[string, entities.Memo], repo ports.MemoRepository, b *base) *MemoService {
	return &MemoService{base: b, memos: memos, repo: repo}
}

// ListMemos returns every memo
func (s *MemoService) ListMemos() []entities.Memo {
	return s.memos.Snapshot()
}

// GetMemo retrieves a memo by ID
func (s *MemoService) GetMemo(id string) (entities.Memo, error) {
	memo, ok := s.memos.Get(id)
	if !ok {
		return entities.Memo{}, fmt.Errorf("memo %s: %w", id, entities.ErrMemoNotFound)
	}
	return memo, nil
}

// CreateMemo creates a memo stamped with the current time
func (s *MemoService) CreateMemo(ctx context.Context, req ports.MemoRequest) ([]entities.Memo, error) {
	now := s.timestamp()
	memo := entities.Memo{
		ID:        s.newID(),
		Title:     req.Title,
		Content:   req.Content,
		FolderID:  req.FolderID,
		Tags:      tagsOrEmpty(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	memos, err := s.memos.Mutate(func(items *[]entities.Memo) error {
		*items = append(*items, memo)
		return s.persisted(entities.KindMemo, "create", s.repo.Upsert(ctx, memo))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Memo created successfully", "memo_id", memo.ID)
	return memos, nil
}

// UpdateMemo replaces title, content, folder and tags
func (s *MemoService) UpdateMemo(ctx context.Context, id string, req ports.MemoRequest) ([]entities.Memo, error) {
	return s.memos.Mutate(func(items *[]entities.Memo) error {
		i := s.memos.IndexOf(*items, id)
		if i < 0 {
			return fmt.Errorf("memo %s: %w", id, entities.ErrMemoNotFound)
		}

		memo := &(*items)[i]
		memo.Title = req.Title
		memo.Content = req.Content
		memo.FolderID = req.FolderID
		memo.Tags = tagsOrEmpty(req.Tags)
		memo.UpdatedAt = s.timestamp()

		return s.persisted(entities.KindMemo, "update", s.repo.Upsert(ctx, *memo))
	})
}

// DeleteMemo removes a memo. Unknown ids leave the collection untouched.
func (s *MemoService) DeleteMemo(ctx context.Context, id string) ([]entities.Memo, error) {
	return s.memos.Mutate(func(items *[]entities.Memo) error {
		if !s.memos.Remove(items, id) {
			return nil
		}
		return s.persisted(entities.KindMemo, "delete", s.repo.Delete(ctx, id))
	})
}

// SearchMemos returns memos whose title, content or any tag contains query,
// ignoring case.
func (s *MemoService) SearchMemos(query string) []entities.Memo {
	needle := strings.ToLower(query)
	matches := []entities.Memo{}

	for _, memo := range s.memos.Snapshot() {
		if strings.Contains(strings.ToLower(memo.Title), needle) ||
			strings.Contains(strings.ToLower(memo.Content), needle) ||
			anyTagContains(memo.Tags, needle) {
			matches = append(matches, memo)
		}
	}
	return matches
}

// AllTags returns the sorted, de-duplicated union of every memo's tags
func (s *MemoService) AllTags() []string {
	seen := map[string]struct{}{}
	tags := []string{}

	s.memos.Read(func(items []entities.Memo) {
		for _, memo := range items {
			for _, tag := range memo.Tags {
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	})

	sort.Strings(tags)
	return tags
}

// Unfile clears the folder reference on every memo in folderID and persists
// the affected memos. Memos themselves are kept.
func (s *MemoService) Unfile(ctx context.Context, folderID string) (int, error) {
	var changed []entities.Memo

	_, err := s.memos.Mutate(func(items *[]entities.Memo) error {
		for i := range *items {
			if (*items)[i].InFolder(folderID) {
				(*items)[i].FolderID = nil
				changed = append(changed, (*items)[i].Clone())
			}
		}
		if len(changed) == 0 {
			return nil
		}
		return s.persisted(entities.KindMemo, "unfile", s.repo.Upsert(ctx, changed...))
	})
	return len(changed), err
}

func anyTagContains(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
