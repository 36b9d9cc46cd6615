package services

import (
	"context"
	"fmt"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// ReadingService manages the reading log: books with their notes and
// reading sessions.
type ReadingService struct {
	*base
	books *store.Collection[string, entities.ReadingBook]
	repo  ports.BookRepository
}

// NewReadingService creates a new reading service
func NewReadingService(books *store.Collection[string, entities.ReadingBook], repo ports.BookRepository, b *base) *ReadingService {
	return &ReadingService{base: b, books: books, repo: repo}
}

// ListBooks returns every book
func (s *ReadingService) ListBooks() []entities.ReadingBook {
	return s.books.Snapshot()
}

// GetBook retrieves a book by ID
func (s *ReadingService) GetBook(id string) (entities.ReadingBook, error) {
	book, ok := s.books.Get(id)
	if !ok {
		return entities.ReadingBook{}, fmt.Errorf("book %s: %w", id, entities.ErrBookNotFound)
	}
	return book, nil
}

// CreateBook adds a book the user wants to read
func (s *ReadingService) CreateBook(ctx context.Context, req ports.CreateBookRequest) ([]entities.ReadingBook, error) {
	now := s.timestamp()
	book := entities.ReadingBook{
		ID:              s.newID(),
		Title:           req.Title,
		Genres:          []string{},
		Status:          entities.ReadingStatusWantToRead,
		Notes:           []entities.ReadingNote{},
		ReadingSessions: []entities.ReadingSession{},
		Tags:            []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	books, err := s.books.Mutate(func(items *[]entities.ReadingBook) error {
		*items = append(*items, book)
		return s.persisted(entities.KindBook, "create", s.repo.Upsert(ctx, book))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Reading book created successfully", "book_id", book.ID)
	return books, nil
}

// UpdateBook overwrites the book's descriptive fields and recomputes progress
// from the page counts.
func (s *ReadingService) UpdateBook(ctx context.Context, id string, req ports.UpdateBookRequest) ([]entities.ReadingBook, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", req.Status, entities.ErrInvalidStatus)
	}

	return s.modify(ctx, id, "update", func(book *entities.ReadingBook) error {
		book.Title = req.Title
		book.Author = req.Author
		book.ISBN = req.ISBN
		book.Publisher = req.Publisher
		book.PublishedYear = req.PublishedYear
		book.CoverImageURL = req.CoverImageURL
		book.Genres = tagsOrEmpty(req.Genres)
		book.Status = req.Status
		book.StartDate = req.StartDate
		book.FinishDate = req.FinishDate
		book.TotalPages = req.TotalPages
		book.CurrentPage = req.CurrentPage
		book.Rating = req.Rating
		book.Summary = req.Summary
		book.Tags = tagsOrEmpty(req.Tags)
		book.RecomputeProgress()
		return nil
	})
}

// DeleteBook removes a book with its notes and sessions
func (s *ReadingService) DeleteBook(ctx context.Context, id string) ([]entities.ReadingBook, error) {
	return s.books.Mutate(func(items *[]entities.ReadingBook) error {
		if !s.books.Remove(items, id) {
			return nil
		}
		return s.persisted(entities.KindBook, "delete", s.repo.Delete(ctx, id))
	})
}

// AddNote attaches a note to a book
func (s *ReadingService) AddNote(ctx context.Context, bookID string, req ports.ReadingNoteRequest) ([]entities.ReadingBook, error) {
	return s.modify(ctx, bookID, "add_note", func(book *entities.ReadingBook) error {
		book.Notes = append(book.Notes, entities.ReadingNote{
			ID:         s.newID(),
			PageNumber: req.PageNumber,
			Quote:      req.Quote,
			Comment:    req.Comment,
			CreatedAt:  s.timestamp(),
		})
		return nil
	})
}

// UpdateNote replaces a note's page, quote and comment
func (s *ReadingService) UpdateNote(ctx context.Context, bookID, noteID string, req ports.ReadingNoteRequest) ([]entities.ReadingBook, error) {
	return s.modify(ctx, bookID, "update_note", func(book *entities.ReadingBook) error {
		note := book.FindNote(noteID)
		if note == nil {
			return fmt.Errorf("note %s of book %s: %w", noteID, bookID, entities.ErrNoteNotFound)
		}
		note.PageNumber = req.PageNumber
		note.Quote = req.Quote
		note.Comment = req.Comment
		return nil
	})
}

// DeleteNote removes a note. Unknown note ids are ignored.
func (s *ReadingService) DeleteNote(ctx context.Context, bookID, noteID string) ([]entities.ReadingBook, error) {
	return s.modify(ctx, bookID, "delete_note", func(book *entities.ReadingBook) error {
		kept := book.Notes[:0]
		for _, n := range book.Notes {
			if n.ID != noteID {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(book.Notes) {
			return errUnchanged
		}
		book.Notes = kept
		return nil
	})
}

// AddSession records a reading session
func (s *ReadingService) AddSession(ctx context.Context, bookID string, req ports.ReadingSessionRequest) ([]entities.ReadingBook, error) {
	return s.modify(ctx, bookID, "add_session", func(book *entities.ReadingBook) error {
		book.ReadingSessions = append(book.ReadingSessions, entities.ReadingSession{
			ID:              s.newID(),
			SessionDate:     req.SessionDate,
			StartPage:       req.StartPage,
			EndPage:         req.EndPage,
			PagesRead:       req.PagesRead,
			DurationMinutes: req.DurationMinutes,
			Memo:            req.Memo,
		})
		return nil
	})
}

// UpdateSession replaces every field of a session but its id
func (s *ReadingService) UpdateSession(ctx context.Context, bookID, sessionID string, req ports.ReadingSessionRequest) ([]entities.ReadingBook, error) {
	return s.modify(ctx, bookID, "update_session", func(book *entities.ReadingBook) error {
		session := book.FindSession(sessionID)
		if session == nil {
			return fmt.Errorf("session %s of book %s: %w", sessionID, bookID, entities.ErrSessionNotFound)
		}
		session.SessionDate = req.SessionDate
		session.StartPage = req.StartPage
		session.EndPage = req.EndPage
		session.PagesRead = req.PagesRead
		session.DurationMinutes = req.DurationMinutes
		session.Memo = req.Memo
		return nil
	})
}

// DeleteSession removes a session. Unknown session ids are ignored.
func (s *ReadingService) DeleteSession(ctx context.Context, bookID, sessionID string) ([]entities.ReadingBook, error) {
	return s.modify(ctx, bookID, "delete_session", func(book *entities.ReadingBook) error {
		kept := book.ReadingSessions[:0]
		for _, rs := range book.ReadingSessions {
			if rs.ID != sessionID {
				kept = append(kept, rs)
			}
		}
		if len(kept) == len(book.ReadingSessions) {
			return errUnchanged
		}
		book.ReadingSessions = kept
		return nil
	})
}

// modify applies fn to a copy of the book, stamps UpdatedAt and persists it.
// fn may return errUnchanged to skip the write.
func (s *ReadingService) modify(ctx context.Context, id, op string, fn func(book *entities.ReadingBook) error) ([]entities.ReadingBook, error) {
	return s.books.Mutate(func(items *[]entities.ReadingBook) error {
		i := s.books.IndexOf(*items, id)
		if i < 0 {
			return fmt.Errorf("book %s: %w", id, entities.ErrBookNotFound)
		}

		updated := s.books.Clone((*items)[i])
		if err := fn(&updated); err != nil {
			if err == errUnchanged {
				return nil
			}
			return err
		}
		updated.UpdatedAt = s.timestamp()
		(*items)[i] = updated

		return s.persisted(entities.KindBook, op, s.repo.Upsert(ctx, updated))
	})
}
