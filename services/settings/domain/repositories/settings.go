package repositories

import (
	"context"

	"github.com/ghuser/shoppinglist/services/settings/domain/models"
)

// SettingsRepository persists the single settings record.
type SettingsRepository interface {
	// Get returns the stored record or domain.ErrSettingsNotFound.
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
	Update(ctx context.Context, s *models.Settings) error
}
