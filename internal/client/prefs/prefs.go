// Package prefs manages display preferences (theme color, font size).
// Every mutation persists synchronously through the key-value store and then
// runs the apply hook, so persistence is a scoped acquisition per change
// rather than a continuously active subscription.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/confessio/confessio/internal/logging"
)

// Persisted keys.
const (
	keyThemeColor = "theme-color"
	keyFontSize   = "font-size"
)

// FontSize is one of the three supported steps.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// Defaults.
const (
	DefaultThemeColor = "#ff4b2b"
	DefaultFontSize   = FontMedium
)

// KV is the subset of the persistent store the preferences need.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// ApplyFunc receives the effective settings after every change (and after
// Hydrate). The CLI uses it to restyle its prompt; a GUI would restyle its
// root element.
type ApplyFunc func(themeColor string, size FontSize)

// Store holds the current preference values.
type Store struct {
	mu    sync.Mutex
	theme string
	size  FontSize

	kv    KV
	apply ApplyFunc
	log   logging.Logger
}

// New builds a Store with defaults in place. apply may be nil.
func New(kv KV, apply ApplyFunc, log logging.Logger) *Store {
	return &Store{
		theme: DefaultThemeColor,
		size:  DefaultFontSize,
		kv:    kv,
		apply: apply,
		log:   log,
	}
}

// Hydrate loads persisted values, falling back to defaults for absent or
// unrecognized entries, then runs the apply hook once. Never fails.
func (s *Store) Hydrate(ctx context.Context) {
	theme, err := s.kv.Get(ctx, keyThemeColor)
	if err != nil {
		s.log.Warn(ctx, "failed to read persisted theme color", "error", err)
	}
	size, err := s.kv.Get(ctx, keyFontSize)
	if err != nil {
		s.log.Warn(ctx, "failed to read persisted font size", "error", err)
	}

	s.mu.Lock()
	if len(theme) > 0 {
		s.theme = string(theme)
	}
	if parsed, ok := parseFontSize(string(size)); ok {
		s.size = parsed
	}
	theme2, size2 := s.theme, s.size
	s.mu.Unlock()

	s.runApply(theme2, size2)
}

// ThemeColor returns the current theme color.
func (s *Store) ThemeColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Size returns the current font size.
func (s *Store) Size() FontSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// BaseFontPixels maps the current size to a base pixel value.
func (s *Store) BaseFontPixels() int {
	switch s.Size() {
	case FontSmall:
		return 14
	case FontLarge:
		return 18
	default:
		return 16
	}
}

// SetThemeColor updates, persists and applies the theme color.
func (s *Store) SetThemeColor(ctx context.Context, color string) error {
	s.mu.Lock()
	s.theme = color
	size := s.size
	s.mu.Unlock()

	if err := s.kv.Set(ctx, keyThemeColor, []byte(color)); err != nil {
		return fmt.Errorf("persist theme color: %w", err)
	}
	s.runApply(color, size)
	return nil
}

// SetSize updates, persists and applies the font size. Unrecognized values
// are rejected.
func (s *Store) SetSize(ctx context.Context, size FontSize) error {
	if _, ok := parseFontSize(string(size)); !ok {
		return fmt.Errorf("unknown font size %q", size)
	}

	s.mu.Lock()
	s.size = size
	theme := s.theme
	s.mu.Unlock()

	if err := s.kv.Set(ctx, keyFontSize, []byte(size)); err != nil {
		return fmt.Errorf("persist font size: %w", err)
	}
	s.runApply(theme, size)
	return nil
}

func (s *Store) runApply(theme string, size FontSize) {
	if s.apply != nil {
		s.apply(theme, size)
	}
}

func parseFontSize(v string) (FontSize, bool) {
	switch FontSize(v) {
	case FontSmall, FontMedium, FontLarge:
		return FontSize(v), true
	default:
		return "", false
	}
}
