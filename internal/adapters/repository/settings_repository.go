package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

const mailSettingsKey = "mail_settings"

// SettingsRepositoryImpl stores settings as JSON values in a key/value table
type SettingsRepositoryImpl struct {
	db *database.DB
}

// NewSettingsRepository creates a settings repository
func NewSettingsRepository(db *database.DB) ports.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) LoadMailSettings(ctx context.Context) (entities.MailSettings, error) {
	settings := entities.DefaultMailSettings()

	var value string
	query := r.db.DB.Rebind(`SELECT value FROM settings WHERE key = ?`)
	err := r.db.DB.GetContext(ctx, &value, query, mailSettingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("load mail settings: %w", err)
	}

	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return entities.DefaultMailSettings(), fmt.Errorf("decode mail settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepositoryImpl) SaveMailSettings(ctx context.Context, settings entities.MailSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode mail settings: %w", err)
	}

	query := r.db.DB.Rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if _, err := r.db.DB.ExecContext(ctx, query, mailSettingsKey, string(value)); err != nil {
		return fmt.Errorf("save mail settings: %w", err)
	}
	return nil
}
