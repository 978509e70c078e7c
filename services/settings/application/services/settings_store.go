package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ghuser/shoppinglist/pkg/logger"
	settingsdomain "github.com/ghuser/shoppinglist/services/settings/domain"
	"github.com/ghuser/shoppinglist/services/settings/domain/models"
	"github.com/ghuser/shoppinglist/services/settings/domain/repositories"
)

// BackgroundImageKey is the object key of the mirrored background image.
const BackgroundImageKey = "settings/background-image"

// ImageMirror copies the background image to remote storage.
type ImageMirror interface {
	Put(ctx context.Context, key string, data []byte) (contentType string, err error)
	Delete(ctx context.Context, key string) error
}

// SettingsStore holds the settings record in memory and writes every change
// through the repository. Like the item store it keeps a change whose write
// failed and reports ErrPersistence.
type SettingsStore struct {
	mu      sync.Mutex
	repo    repositories.SettingsRepository
	current *models.Settings
	mirror  ImageMirror
	log     logger.Logger
	now     func() time.Time
}

// NewSettingsStore returns a store on repo. mirror may be nil.
func NewSettingsStore(repo repositories.SettingsRepository, mirror ImageMirror, log logger.Logger) *SettingsStore {
	return &SettingsStore{repo: repo, mirror: mirror, log: log, now: time.Now}
}

// Load returns the settings, creating and storing the defaults on first use.
func (s *SettingsStore) Load(ctx context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.loadLocked(ctx)
	if s.current == nil {
		return nil, err
	}
	return s.current.Clone(), err
}

func (s *SettingsStore) loadLocked(ctx context.Context) error {
	if s.current != nil {
		return nil
	}

	stored, err := s.repo.Get(ctx)
	switch {
	case err == nil:
		s.current = stored
		return nil
	case !errors.Is(err, settingsdomain.ErrSettingsNotFound):
		return fmt.Errorf("%w: load settings: %w", settingsdomain.ErrPersistence, err)
	}

	s.current = models.DefaultSettings(s.now())
	if err := s.repo.Save(ctx, s.current); err != nil {
		s.log.ErrorContext(ctx, "default settings not persisted", "error", err)
		return fmt.Errorf("%w: save defaults: %w", settingsdomain.ErrPersistence, err)
	}
	s.log.InfoContext(ctx, "default settings created")
	return nil
}

// Update applies mutate to a copy of the settings and stores the result.
// When mutate fails nothing changes.
func (s *SettingsStore) Update(ctx context.Context, mutate func(*models.Settings) error) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil && s.current == nil {
		return nil, err
	}

	next := s.current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	s.current = next

	if err := s.repo.Update(ctx, next); err != nil {
		s.log.ErrorContext(ctx, "settings change not persisted", "error", err)
		return next.Clone(), fmt.Errorf("%w: %w", settingsdomain.ErrPersistence, err)
	}
	return next.Clone(), nil
}

// SetThemeMode stores mode.
func (s *SettingsStore) SetThemeMode(ctx context.Context, mode string) (*models.Settings, error) {
	m, err := models.ParseThemeMode(mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", settingsdomain.ErrInvalidInput, err)
	}
	return s.Update(ctx, func(st *models.Settings) error {
		st.ThemeMode = m
		return nil
	})
}

// SetBackgroundColor stores hex as the background and drops any image.
func (s *SettingsStore) SetBackgroundColor(ctx context.Context, hex string) (*models.Settings, error) {
	color, err := models.NormalizeHexColor(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", settingsdomain.ErrInvalidInput, err)
	}
	hadImage := false
	st, err := s.Update(ctx, func(st *models.Settings) error {
		hadImage = st.HasBackgroundImage()
		st.BackgroundColor = color
		st.BackgroundImage = nil
		return nil
	})
	if st != nil && hadImage {
		s.deleteMirror(ctx)
	}
	return st, err
}

// SetBackgroundImage stores data as the background image, keeping the color
// for when the image is removed. Empty data removes the image.
func (s *SettingsStore) SetBackgroundImage(ctx context.Context, data []byte) (*models.Settings, error) {
	if len(data) == 0 {
		return s.ClearBackgroundImage(ctx)
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: background must be an image, got %s", settingsdomain.ErrInvalidInput, mt.String())
	}

	img := append([]byte(nil), data...)
	st, err := s.Update(ctx, func(st *models.Settings) error {
		st.BackgroundImage = img
		return nil
	})
	if st != nil && s.mirror != nil {
		if _, merr := s.mirror.Put(ctx, BackgroundImageKey, img); merr != nil {
			s.log.WarnContext(ctx, "background image not mirrored", "error", merr)
		}
	}
	return st, err
}

// ClearBackgroundImage removes the background image.
func (s *SettingsStore) ClearBackgroundImage(ctx context.Context) (*models.Settings, error) {
	st, err := s.Update(ctx, func(st *models.Settings) error {
		st.BackgroundImage = nil
		return nil
	})
	if st != nil {
		s.deleteMirror(ctx)
	}
	return st, err
}

// SetElementOpacity stores v, which must lie within [0,1].
func (s *SettingsStore) SetElementOpacity(ctx context.Context, v float64) (*models.Settings, error) {
	if err := models.ValidateOpacity(v); err != nil {
		return nil, fmt.Errorf("%w: %w", settingsdomain.ErrInvalidInput, err)
	}
	return s.Update(ctx, func(st *models.Settings) error {
		st.ElementOpacity = v
		return nil
	})
}

func (s *SettingsStore) deleteMirror(ctx context.Context) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Delete(ctx, BackgroundImageKey); err != nil {
		s.log.WarnContext(ctx, "mirrored background image not deleted", "error", err)
	}
}
