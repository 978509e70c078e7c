// Package sqlite stores the settings record in the on-device SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ghuser/shoppinglist/pkg/database"
	settingsdomain "github.com/ghuser/shoppinglist/services/settings/domain"
	"github.com/ghuser/shoppinglist/services/settings/domain/models"
	"github.com/ghuser/shoppinglist/services/settings/domain/repositories"
)

const (
	selectSettings = `SELECT theme_mode, background_color, background_image, element_opacity, updated_at_ns
		FROM settings WHERE id = 1`
	insertSettings = `INSERT INTO settings (id, theme_mode, background_color, background_image, element_opacity, updated_at_ns)
		VALUES (1, ?, ?, ?, ?, ?)`
	upsertSettings = insertSettings + `
		ON CONFLICT (id) DO UPDATE SET
			theme_mode = excluded.theme_mode,
			background_color = excluded.background_color,
			background_image = excluded.background_image,
			element_opacity = excluded.element_opacity,
			updated_at_ns = excluded.updated_at_ns`
)

// SettingsRepository implements repositories.SettingsRepository on SQLite.
type SettingsRepository struct {
	db *database.Database
}

// NewSettingsRepository returns a SettingsRepository on d.
func NewSettingsRepository(d *database.Database) *SettingsRepository {
	return &SettingsRepository{db: d}
}

// Get returns the stored record or ErrSettingsNotFound.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var (
		s         models.Settings
		mode      string
		updatedAt int64
	)
	err := r.db.DB().QueryRowContext(ctx, selectSettings).
		Scan(&mode, &s.BackgroundColor, &s.BackgroundImage, &s.ElementOpacity, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settingsdomain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("query settings: %w", err)
	}
	s.ThemeMode = models.ThemeMode(mode)
	s.UpdatedAt = time.Unix(0, updatedAt).UTC()
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
	return []any{string(s.ThemeMode), s.BackgroundColor, img, s.ElementOpacity, s.UpdatedAt.UnixNano()}
}

var _ repositories.SettingsRepository = (*SettingsRepository)(nil)
