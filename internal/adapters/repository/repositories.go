// Package repository stores every entity kind in a relational database
// through sqlx. Both sqlite3 and postgres are supported by the same SQL.
package repository

import (
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

// NewRepositories wires one sqlx repository per entity kind
func NewRepositories(db *database.DB) ports.Repositories {
	return ports.Repositories{
		Tasks:    NewTaskRepository(db),
		Groups:   NewGroupRepository(db),
		Memos:    NewMemoRepository(db),
		Folders:  NewFolderRepository(db),
		Books:    NewBookRepository(db),
		Events:   NewEventRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
