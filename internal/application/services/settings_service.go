package services

import (
	"context"
	"sync"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// SettingsService holds the single MailSettings record behind its own lock
type SettingsService struct {
	*base
	mu       sync.RWMutex
	settings entities.MailSettings
	repo     ports.SettingsRepository
}

// NewSettingsService creates a settings service seeded with the loaded record
func NewSettingsService(settings entities.MailSettings, repo ports.SettingsRepository, b *base) *SettingsService {
	return &SettingsService{base: b, settings: settings, repo: repo}
}

// GetMailSettings returns the current mail settings
func (s *SettingsService) GetMailSettings() entities.MailSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SaveMailSettings replaces and persists the mail settings
func (s *SettingsService) SaveMailSettings(ctx context.Context, settings entities.MailSettings) (entities.MailSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	if err := s.persisted(entities.KindSettings, "save", s.repo.SaveMailSettings(ctx, settings)); err != nil {
		return settings, err
	}

	s.logger.Infow("Mail settings saved", "configured", settings.Configured(), "notification_minutes", settings.NotificationMinutes)
	return settings, nil
}
