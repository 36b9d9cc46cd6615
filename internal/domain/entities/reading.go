package entities

import (
	"time"
)

// ReadingStatus tracks where a reader is with a book.
type ReadingStatus string

const (
	ReadingStatusWantToRead ReadingStatus = "want_to_read"
	ReadingStatusReading    ReadingStatus = "reading"
	ReadingStatusFinished   ReadingStatus = "finished"
	ReadingStatusPaused     ReadingStatus = "paused"
)

// Valid reports whether s is a known status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case ReadingStatusWantToRead, ReadingStatusReading, ReadingStatusFinished, ReadingStatusPaused:
		return true
	}
	return false
}

// ReadingNote is a quote or comment attached to a book.
type ReadingNote struct {
	ID         string    `json:"id" yaml:"id"`
	PageNumber *int      `json:"page_number" yaml:"page_number,omitempty"`
	Quote      *string   `json:"quote" yaml:"quote,omitempty"`
	Comment    string    `json:"comment" yaml:"comment"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// ReadingSession records one sitting with a book.
type ReadingSession struct {
	ID              string    `json:"id" yaml:"id"`
	SessionDate     time.Time `json:"session_date" yaml:"session_date"`
	StartPage       *int      `json:"start_page" yaml:"start_page,omitempty"`
	EndPage         *int      `json:"end_page" yaml:"end_page,omitempty"`
	PagesRead       int       `json:"pages_read" yaml:"pages_read"`
	DurationMinutes *int      `json:"duration_minutes" yaml:"duration_minutes,omitempty"`
	Memo            *string   `json:"memo" yaml:"memo,omitempty"`
}

// ReadingBook is an entry in the reading log. Notes and sessions have no
// identity outside the book that owns them.
type ReadingBook struct {
	ID              string           `json:"id" yaml:"id"`
	Title           string           `json:"title" yaml:"title"`
	Author          *string          `json:"author" yaml:"author,omitempty"`
	ISBN            *string          `json:"isbn" yaml:"isbn,omitempty"`
	Publisher       *string          `json:"publisher" yaml:"publisher,omitempty"`
	PublishedYear   *int             `json:"published_year" yaml:"published_year,omitempty"`
	CoverImageURL   *string          `json:"cover_image_url" yaml:"cover_image_url,omitempty"`
	Genres          []string         `json:"genres" yaml:"genres"`
	Status          ReadingStatus    `json:"status" yaml:"status"`
	StartDate       *time.Time       `json:"start_date" yaml:"start_date,omitempty"`
	FinishDate      *time.Time       `json:"finish_date" yaml:"finish_date,omitempty"`
	ProgressPercent *int             `json:"progress_percent" yaml:"progress_percent,omitempty"`
	TotalPages      *int             `json:"total_pages" yaml:"total_pages,omitempty"`
	CurrentPage     *int             `json:"current_page" yaml:"current_page,omitempty"`
	Rating          *int             `json:"rating" yaml:"rating,omitempty"`
	Summary         string           `json:"summary" yaml:"summary"`
	Notes           []ReadingNote    `json:"notes" yaml:"notes"`
	ReadingSessions []ReadingSession `json:"reading_sessions" yaml:"reading_sessions"`
	Tags            []string         `json:"tags" yaml:"tags"`
	CreatedAt       time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" yaml:"updated_at"`
}

// BookID returns the collection key of b.
func BookID(b ReadingBook) string { return b.ID }

// RecomputeProgress sets ProgressPercent to floor(current/total*100) when both
// page counts are known and total is positive. Otherwise the stored value is kept.
func (b *ReadingBook) RecomputeProgress() {
	if b.TotalPages == nil || b.CurrentPage == nil || *b.TotalPages <= 0 {
		return
	}
	p := *b.CurrentPage * 100 / *b.TotalPages
	b.ProgressPercent = &p
}

// FindNote returns a pointer into b.Notes for id.
func (b *ReadingBook) FindNote(id string) *ReadingNote {
	for i := range b.Notes {
		if b.Notes[i].ID == id {
			return &b.Notes[i]
		}
	}
	return nil
}

// FindSession returns a pointer into b.ReadingSessions for id.
func (b *ReadingBook) FindSession(id string) *ReadingSession {
	for i := range b.ReadingSessions {
		if b.ReadingSessions[i].ID == id {
			return &b.ReadingSessions[i]
		}
	}
	return nil
}

// Clone returns a deep copy of b.
func (b ReadingBook) Clone() ReadingBook {
	out := b
	out.Author = cloneString(b.Author)
	out.ISBN = cloneString(b.ISBN)
	out.Publisher = cloneString(b.Publisher)
	out.PublishedYear = cloneInt(b.PublishedYear)
	out.CoverImageURL = cloneString(b.CoverImageURL)
	out.Genres = cloneStrings(b.Genres)
	out.StartDate = cloneTime(b.StartDate)
	out.FinishDate = cloneTime(b.FinishDate)
	out.ProgressPercent = cloneInt(b.ProgressPercent)
	out.TotalPages = cloneInt(b.TotalPages)
	out.CurrentPage = cloneInt(b.CurrentPage)
	out.Rating = cloneInt(b.Rating)
	out.Tags = cloneStrings(b.Tags)
	if b.Notes != nil {
		out.Notes = make([]ReadingNote, len(b.Notes))
		for i, n := range b.Notes {
			n.PageNumber = cloneInt(n.PageNumber)
			n.Quote = cloneString(n.Quote)
			out.Notes[i] = n
		}
	}
	if b.ReadingSessions != nil {
		out.ReadingSessions = make([]ReadingSession, len(b.ReadingSessions))
		for i, s := range b.ReadingSessions {
			s.StartPage = cloneInt(s.StartPage)
			s.EndPage = cloneInt(s.EndPage)
			s.DurationMinutes = cloneInt(s.DurationMinutes)
			s.Memo = cloneString(s.Memo)
			out.ReadingSessions[i] = s
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
