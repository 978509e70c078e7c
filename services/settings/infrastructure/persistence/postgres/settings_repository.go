package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/shoppinglist/pkg/database"
	settingsdomain "github.com/ghuser/shoppinglist/services/settings/domain"
	"github.com/ghuser/shoppinglist/services/settings/domain/models"
	"github.com/ghuser/shoppinglist/services/settings/domain/repositories"
)

const (
	selectSettings = `SELECT theme_mode, background_color, background_image, element_opacity, updated_at
		FROM settings WHERE id = 1`
	insertSettings = `INSERT INTO settings (id, theme_mode, background_color, background_image, element_opacity, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)`
	upsertSettings = insertSettings + `
		ON CONFLICT (id) DO UPDATE SET
			theme_mode = EXCLUDED.theme_mode,
			background_color = EXCLUDED.background_color,
			background_image = EXCLUDED.background_image,
			element_opacity = EXCLUDED.element_opacity,
			updated_at = EXCLUDED.updated_at`
)

// SettingsRepository implements repositories.SettingsRepository against PostgreSQL.
type SettingsRepository struct {
	db *database.Database
}

// NewSettingsRepository returns a SettingsRepository backed by the given pool.
func NewSettingsRepository(d *database.Database) *SettingsRepository {
	return &SettingsRepository{db: d}
}

// Get returns the stored record or ErrSettingsNotFound.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var (
		s    models.Settings
		mode string
	)
	err := r.db.DB().QueryRowContext(ctx, selectSettings).
		Scan(&mode, &s.BackgroundColor, &s.BackgroundImage, &s.ElementOpacity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settingsdomain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("query settings: %w", err)
	}
	s.ThemeMode = models.ThemeMode(mode)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

// Save inserts the record.
func (r *SettingsRepository) Save(ctx context.Context, s *models.Settings) error {
	if _, err := r.db.DB().ExecContext(ctx, insertSettings, args(s)...); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

// Update writes the record, inserting it if the initial save never landed.
func (r *SettingsRepository) Update(ctx context.Context, s *models.Settings) error {
	if _, err := r.db.DB().ExecContext(ctx, upsertSettings, args(s)...); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func args(s *models.Settings) []any {
	var img any
	if len(s.BackgroundImage) > 0 {
		img = s.BackgroundImage
	}
	return []any{string(s.ThemeMode), s.BackgroundColor, img, s.ElementOpacity, s.UpdatedAt}
}

var _ repositories.SettingsRepository = (*SettingsRepository)(nil)
