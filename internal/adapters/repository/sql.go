package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/database"
)

// sqlTable implements ports.Repository for one table. R is the row struct
// scanned by sqlx; the upsert statement uses named parameters bound from R
// so the same SQL runs on both sqlite3 and postgres.
type sqlTable[K comparable, T any, R any] struct {
	db        *database.DB
	kind      entities.Kind
	selectSQL string
	upsertSQL string
	deleteSQL string
	toRow     func(T) (R, error)
	fromRow   func(R) (T, error)
}

func (t *sqlTable[K, T, R]) List(ctx context.Context) ([]T, error) {
	var rows []R
	if err := t.db.DB.SelectContext(ctx, &rows, t.selectSQL); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.kind, err)
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := t.fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.kind, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (t *sqlTable[K, T, R]) Upsert(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	return t.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, item := range items {
			row, err := t.toRow(item)
			if err != nil {
				return fmt.Errorf("encode %s: %w", t.kind, err)
			}
			if _, err := tx.NamedExecContext(ctx, t.upsertSQL, row); err != nil {
				return fmt.Errorf("upsert %s: %w", t.kind, err)
			}
		}
		return nil
	})
}

func (t *sqlTable[K, T, R]) Delete(ctx context.Context, id K) error {
	if _, err := t.db.DB.ExecContext(ctx, t.db.DB.Rebind(t.deleteSQL), id); err != nil {
		return fmt.Errorf("delete %s: %w", t.kind, err)
	}
	return nil
}

// Column helpers

func encodeList(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

// encodeOptionalList stores a nil slice as NULL so that an absent list and an
// empty one stay distinct.
func encodeOptionalList[T any](v []T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	s, err := encodeList(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: s, Valid: true}, nil
}

func decodeList(s string, v interface{}) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func timePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
