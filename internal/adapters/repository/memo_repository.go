package repository

import (
	"database/sql"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

type memoRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	FolderID  sql.NullString `db:"folder_id"`
	Tags      string         `db:"tags"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt string         `db:"updated_at"`
}

// NewMemoRepository creates a memo repository
func NewMemoRepository(db *database.DB) ports.MemoRepository {
	return &sqlTable[string, entities.Memo, memoRow]{
		db:   db,
		kind: entities.KindMemo,
		selectSQL: `
			SELECT id, title, content, folder_id, tags, created_at, updated_at
			FROM memos
			ORDER BY seq`,
		upsertSQL: `
			INSERT INTO memos (id, title, content, folder_id, tags, created_at, updated_at)
			VALUES (:id, :title, :content, :folder_id, :tags, :created_at, :updated_at)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				content = excluded.content,
				folder_id = excluded.folder_id,
				tags = excluded.tags,
				updated_at = excluded.updated_at`,
		deleteSQL: `DELETE FROM memos WHERE id = ?`,
		toRow:     memoToRow,
		fromRow:   memoFromRow,
	}
}

func memoToRow(m entities.Memo) (memoRow, error) {
	tags, err := encodeList(m.Tags)
	if err != nil {
		return memoRow{}, err
	}
	return memoRow{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		FolderID:  nullString(m.FolderID),
		Tags:      tags,
		CreatedAt: formatTime(m.CreatedAt),
		UpdatedAt: formatTime(m.UpdatedAt),
	}, nil
}

func memoFromRow(r memoRow) (entities.Memo, error) {
	m := entities.Memo{
		ID:       r.ID,
		Title:    r.Title,
		Content:  r.Content,
		FolderID: stringPtr(r.FolderID),
		Tags:     []string{},
	}
	if err := decodeList(r.Tags, &m.Tags); err != nil {
		return m, err
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}

	var err error
	if m.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return m, err
	}
	if m.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return m, err
	}
	return m, nil
}

type folderRow struct {
	ID       string         `db:"id"`
	Name     string         `db:"name"`
	ParentID sql.NullString `db:"parent_id"`
}

// NewFolderRepository creates a folder repository
func NewFolderRepository(db *database.DB) ports.FolderRepository {
	return &sqlTable[string, entities.Folder, folderRow]{
		db:        db,
		kind:      entities.KindFolder,
		selectSQL: `SELECT id, name, parent_id FROM folders ORDER BY seq`,
		upsertSQL: `
			INSERT INTO folders (id, name, parent_id)
			VALUES (:id, :name, :parent_id)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				parent_id = excluded.parent_id`,
		deleteSQL: `DELETE FROM folders WHERE id = ?`,
		toRow: func(f entities.Folder) (folderRow, error) {
			return folderRow{ID: f.ID, Name: f.Name, ParentID: nullString(f.ParentID)}, nil
		},
		fromRow: func(r folderRow) (entities.Folder, error) {
			return entities.Folder{ID: r.ID, Name: r.Name, ParentID: stringPtr(r.ParentID)}, nil
		},
	}
}
