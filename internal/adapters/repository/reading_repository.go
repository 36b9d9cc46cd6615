package repository

import (
	"database/sql"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

type bookRow struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Author          sql.NullString `db:"author"`
	ISBN            sql.NullString `db:"isbn"`
	Publisher       sql.NullString `db:"publisher"`
	PublishedYear   sql.NullInt64  `db:"published_year"`
	CoverImageURL   sql.NullString `db:"cover_image_url"`
	Genres          string         `db:"genres"`
	Status          string         `db:"status"`
	StartDate       sql.NullString `db:"start_date"`
	FinishDate      sql.NullString `db:"finish_date"`
	ProgressPercent sql.NullInt64  `db:"progress_percent"`
	TotalPages      sql.NullInt64  `db:"total_pages"`
	CurrentPage     sql.NullInt64  `db:"current_page"`
	Rating          sql.NullInt64  `db:"rating"`
	Summary         string         `db:"summary"`
	Notes           string         `db:"notes"`
	ReadingSessions string         `db:"reading_sessions"`
	Tags            string         `db:"tags"`
	CreatedAt       string         `db:"created_at"`
	UpdatedAt       string         `db:"updated_at"`
}

// NewBookRepository creates a reading book repository. Notes and sessions
// are stored as JSON columns on the book row.
func NewBookRepository(db *database.DB) ports.BookRepository {
	return &sqlTable[string, entities.ReadingBook, bookRow]{
		db:   db,
		kind: entities.KindBook,
		selectSQL: `
			SELECT id, title, author, isbn, publisher, published_year, cover_image_url,
				genres, status, start_date, finish_date, progress_percent,
				total_pages, current_page, rating, summary, notes, reading_sessions, tags,
				created_at, updated_at
			FROM reading_books
			ORDER BY seq`,
		upsertSQL: `
			INSERT INTO reading_books (
				id, title, author, isbn, publisher, published_year, cover_image_url,
				genres, status, start_date, finish_date, progress_percent,
				total_pages, current_page, rating, summary, notes, reading_sessions, tags,
				created_at, updated_at
			) VALUES (
				:id, :title, :author, :isbn, :publisher, :published_year, :cover_image_url,
				:genres, :status, :start_date, :finish_date, :progress_percent,
				:total_pages, :current_page, :rating, :summary, :notes, :reading_sessions, :tags,
				:created_at, :updated_at
			)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				author = excluded.author,
				isbn = excluded.isbn,
				publisher = excluded.publisher,
				published_year = excluded.published_year,
				cover_image_url = excluded.cover_image_url,
				genres = excluded.genres,
				status = excluded.status,
				start_date = excluded.start_date,
				finish_date = excluded.finish_date,
				progress_percent = excluded.progress_percent,
				total_pages = excluded.total_pages,
				current_page = excluded.current_page,
				rating = excluded.rating,
				summary = excluded.summary,
				notes = excluded.notes,
				reading_sessions = excluded.reading_sessions,
				tags = excluded.tags,
				updated_at = excluded.updated_at`,
		deleteSQL: `DELETE FROM reading_books WHERE id = ?`,
		toRow:     bookToRow,
		fromRow:   bookFromRow,
	}
}

func bookToRow(b entities.ReadingBook) (bookRow, error) {
	genres, err := encodeList(b.Genres)
	if err != nil {
		return bookRow{}, err
	}
	notes, err := encodeList(b.Notes)
	if err != nil {
		return bookRow{}, err
	}
	sessions, err := encodeList(b.ReadingSessions)
	if err != nil {
		return bookRow{}, err
	}
	tags, err := encodeList(b.Tags)
	if err != nil {
		return bookRow{}, err
	}

	return bookRow{
		ID:              b.ID,
		Title:           b.Title,
		Author:          nullString(b.Author),
		ISBN:            nullString(b.ISBN),
		Publisher:       nullString(b.Publisher),
		PublishedYear:   nullInt(b.PublishedYear),
		CoverImageURL:   nullString(b.CoverImageURL),
		Genres:          genres,
		Status:          string(b.Status),
		StartDate:       nullTime(b.StartDate),
		FinishDate:      nullTime(b.FinishDate),
		ProgressPercent: nullInt(b.ProgressPercent),
		TotalPages:      nullInt(b.TotalPages),
		CurrentPage:     nullInt(b.CurrentPage),
		Rating:          nullInt(b.Rating),
		Summary:         b.Summary,
		Notes:           notes,
		ReadingSessions: sessions,
		Tags:            tags,
		CreatedAt:       formatTime(b.CreatedAt),
		UpdatedAt:       formatTime(b.UpdatedAt),
	}, nil
}

func bookFromRow(r bookRow) (entities.ReadingBook, error) {
	b := entities.ReadingBook{
		ID:              r.ID,
		Title:           r.Title,
		Author:          stringPtr(r.Author),
		ISBN:            stringPtr(r.ISBN),
		Publisher:       stringPtr(r.Publisher),
		PublishedYear:   intPtr(r.PublishedYear),
		CoverImageURL:   stringPtr(r.CoverImageURL),
		Status:          entities.ReadingStatus(r.Status),
		ProgressPercent: intPtr(r.ProgressPercent),
		TotalPages:      intPtr(r.TotalPages),
		CurrentPage:     intPtr(r.CurrentPage),
		Rating:          intPtr(r.Rating),
		Summary:         r.Summary,
	}
	if !b.Status.Valid() {
		b.Status = entities.ReadingStatusWantToRead
	}

	for _, list := range []struct {
		raw string
		dst interface{}
	}{
		{r.Genres, &b.Genres},
		{r.Notes, &b.Notes},
		{r.ReadingSessions, &b.ReadingSessions},
		{r.Tags, &b.Tags},
	} {
		if err := decodeList(list.raw, list.dst); err != nil {
			return b, err
		}
	}
	if b.Genres == nil {
		b.Genres = []string{}
	}
	if b.Notes == nil {
		b.Notes = []entities.ReadingNote{}
	}
	if b.ReadingSessions == nil {
		b.ReadingSessions = []entities.ReadingSession{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}

	var err error
	if b.StartDate, err = timePtr(r.StartDate); err != nil {
		return b, err
	}
	if b.FinishDate, err = timePtr(r.FinishDate); err != nil {
		return b, err
	}
	if b.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return b, err
	}
	if b.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return b, err
	}
	return b, nil
}
