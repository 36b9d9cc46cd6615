package entities

import (
	"time"
)

// Memo is a free-form note, optionally filed in a Folder.
type Memo struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	FolderID  *string   `json:"folder_id" yaml:"folder_id,omitempty"`
	Tags      []string  `json:"tags" yaml:"tags"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// MemoID returns the collection key of m.
func MemoID(m Memo) string { return m.ID }

// InFolder reports whether m is filed under folderID.
func (m *Memo) InFolder(folderID string) bool {
	return m.FolderID != nil && *m.FolderID == folderID
}

// Clone returns a deep copy of m.
func (m Memo) Clone() Memo {
	out := m
	out.FolderID = cloneString(m.FolderID)
	out.Tags = cloneStrings(m.Tags)
	return out
}

// Folder groups memos. Only ParentID links folders together.
type Folder struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	ParentID *string `json:"parent_id" yaml:"parent_id,omitempty"`
}

// FolderID returns the collection key of f.
func FolderID(f Folder) string { return f.ID }

// Clone returns a deep copy of f.
func (f Folder) Clone() Folder {
	out := f
	out.ParentID = cloneString(f.ParentID)
	return out
}
