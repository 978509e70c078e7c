package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ghuser/shoppinglist/pkg/logger"
	settingsdomain "github.com/ghuser/shoppinglist/services/settings/domain"
	"github.com/ghuser/shoppinglist/services/settings/domain/models"
)

var (
	errDiskFull = errors.New("disk full")
	pngHeader   = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

type fakeRepo struct {
	mu     sync.Mutex
	stored *models.Settings
	getErr error
	fail   bool
	saves  int
}

func (r *fakeRepo) Get(_ context.Context) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.stored == nil {
		return nil, settingsdomain.ErrSettingsNotFound
	}
	return r.stored.Clone(), nil
}

func (r *fakeRepo) Save(_ context.Context, s *models.Settings) error { return r.put(s) }

func (r *fakeRepo) Update(_ context.Context, s *models.Settings) error { return r.put(s) }

func (r *fakeRepo) put(s *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.fail {
		return errDiskFull
	}
	r.stored = s.Clone()
	return nil
}

type fakeMirror struct {
	puts    map[string][]byte
	deletes int
	err     error
}

func (m *fakeMirror) Put(_ context.Context, key string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.puts == nil {
		m.puts = make(map[string][]byte)
	}
	m.puts[key] = data
	return "image/png", nil
}

func (m *fakeMirror) Delete(_ context.Context, key string) error {
	m.deletes++
	delete(m.puts, key)
	return m.err
}

func newTestStore(repo *fakeRepo, mirror ImageMirror) *SettingsStore {
	s := NewSettingsStore(repo, mirror, logger.Discard())
	s.now = func() time.Time { return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestSettingsStore_LoadCreatesDefaultsOnce(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo, nil)
	ctx := context.Background()

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.ThemeMode != models.ThemeSystem || first.BackgroundColor != "#F5E4B5" || first.ElementOpacity != 0.7 {
		t.Errorf("unexpected defaults: %+v", first)
	}
	if _, err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if repo.saves != 1 {
		t.Errorf("defaults saved %d times, want 1", repo.saves)
	}
}

func TestSettingsStore_LoadExisting(t *testing.T) {
	repo := &fakeRepo{stored: &models.Settings{ThemeMode: models.ThemeDark, BackgroundColor: "#000000", ElementOpacity: 0.3}}
	got, err := newTestStore(repo, nil).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.ThemeMode != models.ThemeDark || got.ElementOpacity != 0.3 {
		t.Errorf("unexpected settings: %+v", got)
	}
	if repo.saves != 0 {
		t.Error("existing settings must not be rewritten on load")
	}
}

func TestSettingsStore_LoadErrors(t *testing.T) {
	t.Run("read failure", func(t *testing.T) {
		s := newTestStore(&fakeRepo{getErr: errDiskFull}, nil)
		got, err := s.Load(context.Background())
		if !errors.Is(err, settingsdomain.ErrPersistence) || got != nil {
			t.Fatalf("Load = %+v, %v", got, err)
		}
	})

	t.Run("defaults not saved are still served", func(t *testing.T) {
		s := newTestStore(&fakeRepo{fail: true}, nil)
		got, err := s.Load(context.Background())
		if !errors.Is(err, settingsdomain.ErrPersistence) {
			t.Fatalf("err = %v, want ErrPersistence", err)
		}
		if got == nil || got.ThemeMode != models.ThemeSystem {
			t.Errorf("defaults missing: %+v", got)
		}
	})
}

func TestSettingsStore_SetElementOpacity(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr error
	}{
		{name: "lower bound", value: 0},
		{name: "upper bound", value: 1},
		{name: "slider step", value: 0.42},
		{name: "below zero", value: -0.1, wantErr: settingsdomain.ErrInvalidInput},
		{name: "above one", value: 1.5, wantErr: settingsdomain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(&fakeRepo{}, nil)
			got, err := s.SetElementOpacity(context.Background(), tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				cur, _ := s.Load(context.Background())
				if cur.ElementOpacity != models.DefaultElementOpacity {
					t.Errorf("rejected value changed opacity to %v", cur.ElementOpacity)
				}
				return
			}
			if err != nil || got.ElementOpacity != tt.value {
				t.Fatalf("SetElementOpacity = %+v, %v", got, err)
			}
		})
	}
}

func TestSettingsStore_SetThemeMode(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo, nil)
	ctx := context.Background()

	got, err := s.SetThemeMode(ctx, "dark")
	if err != nil || got.ThemeMode != models.ThemeDark {
		t.Fatalf("SetThemeMode = %+v, %v", got, err)
	}
	if repo.stored.ThemeMode != models.ThemeDark {
		t.Error("theme not persisted")
	}
	if _, err := s.SetThemeMode(ctx, "neon"); !errors.Is(err, settingsdomain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSettingsStore_BackgroundImageAndColor(t *testing.T) {
	repo := &fakeRepo{}
	mirror := &fakeMirror{}
	s := newTestStore(repo, mirror)
	ctx := context.Background()

	withImage, err := s.SetBackgroundImage(ctx, pngHeader)
	if err != nil {
		t.Fatal(err)
	}
	if !withImage.HasBackgroundImage() || withImage.BackgroundColor != models.DefaultBackgroundColor {
		t.Errorf("image must keep the color: %+v", withImage)
	}
	if _, ok := mirror.puts[BackgroundImageKey]; !ok {
		t.Error("image not mirrored")
	}

	withColor, err := s.SetBackgroundColor(ctx, "#1a2b3c")
	if err != nil {
		t.Fatal(err)
	}
	if withColor.HasBackgroundImage() || withColor.BackgroundColor != "#1A2B3C" {
		t.Errorf("color must clear the image: %+v", withColor)
	}
	if mirror.deletes != 1 {
		t.Errorf("mirror deletes = %d, want 1", mirror.deletes)
	}
	if repo.stored.HasBackgroundImage() {
		t.Error("cleared image still persisted")
	}

	if _, err := s.SetBackgroundColor(ctx, "teal"); !errors.Is(err, settingsdomain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSettingsStore_RejectsNonImage(t *testing.T) {
	s := newTestStore(&fakeRepo{}, nil)
	if _, err := s.SetBackgroundImage(context.Background(), []byte("just some text")); !errors.Is(err, settingsdomain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSettingsStore_EmptyImageClears(t *testing.T) {
	s := newTestStore(&fakeRepo{}, nil)
	ctx := context.Background()
	if _, err := s.SetBackgroundImage(ctx, pngHeader); err != nil {
		t.Fatal(err)
	}
	got, err := s.SetBackgroundImage(ctx, nil)
	if err != nil || got.HasBackgroundImage() {
		t.Fatalf("SetBackgroundImage(nil) = %+v, %v", got, err)
	}
}

func TestSettingsStore_MirrorFailureIsNotAnError(t *testing.T) {
	s := newTestStore(&fakeRepo{}, &fakeMirror{err: errors.New("bucket gone")})
	got, err := s.SetBackgroundImage(context.Background(), pngHeader)
	if err != nil || !got.HasBackgroundImage() {
		t.Fatalf("SetBackgroundImage = %+v, %v", got, err)
	}
}

func TestSettingsStore_PersistenceFailureKeepsChange(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestStore(repo, nil)
	ctx := context.Background()
	if _, err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}

	repo.fail = true
	got, err := s.SetThemeMode(ctx, "light")
	if !errors.Is(err, settingsdomain.ErrPersistence) || !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want ErrPersistence wrapping the cause", err)
	}
	if got == nil || got.ThemeMode != models.ThemeLight {
		t.Fatalf("mutated settings not returned: %+v", got)
	}
	cur, _ := s.Load(ctx)
	if cur.ThemeMode != models.ThemeLight {
		t.Error("in-memory change lost after persistence failure")
	}
}
