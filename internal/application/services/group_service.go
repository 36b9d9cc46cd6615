package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// errUnchanged lets a mutation report that nothing needs to be written.
var errUnchanged = errors.New("unchanged")

// GroupService manages the group labels tasks can be filed under
type GroupService struct {
	*base
	groups *store.Collection[string, string]
	repo   ports.GroupRepository
	tasks  *TaskService
}

// NewGroupService creates a new group service
func NewGroupService(groups *store.Collection[string, string], repo ports.GroupRepository, tasks *TaskService, b *base) *GroupService {
	return &GroupService{
		base:   b,
		groups: groups,
		repo:   repo,
		tasks:  tasks,
	}
}

// ListGroups returns the groups in creation order
func (s *GroupService) ListGroups() []string {
	return s.groups.Snapshot()
}

// CreateGroup adds a group. Duplicate names are ignored, blank names are
// rejected with ErrInvalidGroup.
func (s *GroupService) CreateGroup(ctx context.Context, name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("group %q: %w", name, entities.ErrInvalidGroup)
	}

	return s.groups.Mutate(func(items *[]string) error {
		if s.groups.IndexOf(*items, name) >= 0 {
			return nil
		}
		*items = append(*items, name)

		if err := s.persisted(entities.KindGroup, "create", s.repo.Upsert(ctx, name)); err != nil {
			return err
		}
		s.logger.Infow("Group created successfully", "group", name)
		return nil
	})
}

// DeleteGroup removes a group and clears it from every task. The group lock
// is held while the task lock is taken, never the reverse.
func (s *GroupService) DeleteGroup(ctx context.Context, name string) ([]string, error) {
	return s.groups.Mutate(func(items *[]string) error {
		if !s.groups.Remove(items, name) {
			return nil
		}
		if err := s.persisted(entities.KindGroup, "delete", s.repo.Delete(ctx, name)); err != nil {
			return err
		}

		cleared, err := s.tasks.ClearGroup(ctx, name)
		if err != nil {
			return err
		}
		s.logger.Infow("Group deleted successfully", "group", name, "tasks_cleared", cleared)
		return nil
	})
}
