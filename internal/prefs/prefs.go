// Package prefs persists UI toggles as plain string values.
package prefs

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Known keys.
const (
	KeyTheme      = "theme"
	KeyGroup      = "group"
	KeySort       = "sort"
	KeyTableWidth = "tableWidth"
	KeyPanel      = "panel"
)

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Table width values: the desktop layout leaves a margin, the narrow one fills the terminal.
const (
	WidthDesktop = "80%"
	WidthFull    = "100%"
)

// ErrUnknownKey is returned for keys outside Keys().
var ErrUnknownKey = errors.New("unknown preference")

// ErrInvalidValue is returned when a value is not allowed for its key.
var ErrInvalidValue = errors.New("invalid preference value")

var defaults = map[string]string{
	KeyTheme:      ThemeLight,
	KeyGroup:      "false",
	KeySort:       "true",
	KeyTableWidth: WidthDesktop,
	KeyPanel:      "true",
}

var allowed = map[string][]string{
	KeyTheme:      {ThemeLight, ThemeDark},
	KeyGroup:      {"true", "false"},
	KeySort:       {"true", "false"},
	KeyTableWidth: {WidthDesktop, WidthFull},
	KeyPanel:      {"true", "false"},
}

// Keys lists the known preference keys in display order.
func Keys() []string {
	return []string{KeyTheme, KeyGroup, KeySort, KeyTableWidth, KeyPanel}
}

// Allowed lists the accepted values for key.
func Allowed(key string) []string {
	return slices.Clone(allowed[key])
}

// Blobs is the key-value store backing the preferences.
type Blobs interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// Prefs reads and writes preference flags. Storage failures never surface
// to callers: reads fall back to defaults and writes are logged.
type Prefs struct {
	blobs  Blobs
	logger *zap.Logger
}

// New wraps blobs. A nil logger disables logging.
func New(blobs Blobs, logger *zap.Logger) *Prefs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prefs{blobs: blobs, logger: logger}
}

// Get returns the stored value for key or its default.
func (p *Prefs) Get(key string) string {
	def := defaults[key]
	if p == nil || p.blobs == nil {
		return def
	}

	raw, err := p.blobs.Get(key)
	if err != nil {
		p.logger.Warn("failed to read preference", zap.String("key", key), zap.Error(err))
		return def
	}
	value := strings.TrimSpace(string(raw))
	if raw == nil || !slices.Contains(allowed[key], value) {
		return def
	}
	return value
}

// Set validates and stores value for key.
func (p *Prefs) Set(key, value string) error {
	options, ok := allowed[key]
	if !ok {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if !slices.Contains(options, value) {
		return fmt.Errorf("%w %q for %s (expected %s)", ErrInvalidValue, value, key, strings.Join(options, "|"))
	}
	if p == nil || p.blobs == nil {
		return nil
	}

	if err := p.blobs.Put(key, []byte(value)); err != nil {
		p.logger.Warn("failed to save preference", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Reset drops the stored values for keys so their defaults apply again.
// Without keys it clears everything stored, including keys no longer known.
func (p *Prefs) Reset(keys ...string) error {
	for _, key := range keys {
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("%w %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
		}
	}
	if p == nil || p.blobs == nil {
		return nil
	}

	if len(keys) == 0 {
		stored, err := p.blobs.Keys()
		if err != nil {
			p.logger.Warn("failed to list preferences", zap.Error(err))
			return nil
		}
		keys = stored
	}
	for _, key := range keys {
		if err := p.blobs.Delete(key); err != nil {
			p.logger.Warn("failed to reset preference", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Bool reads a true/false flag.
func (p *Prefs) Bool(key string) bool {
	v, err := strconv.ParseBool(p.Get(key))
	return err == nil && v
}

// SetBool stores a true/false flag.
func (p *Prefs) SetBool(key string, v bool) error {
	return p.Set(key, strconv.FormatBool(v))
}

// Toggle flips a boolean flag and returns the new value.
func (p *Prefs) Toggle(key string) bool {
	next := !p.Bool(key)
	if err := p.SetBool(key, next); err != nil {
		p.logger.Warn("failed to toggle preference", zap.String("key", key), zap.Error(err))
	}
	return next
}

// Dark reports whether the dark theme is selected.
func (p *Prefs) Dark() bool {
	return p.Get(KeyTheme) == ThemeDark
}

// ToggleTheme switches between light and dark.
func (p *Prefs) ToggleTheme() string {
	next := ThemeDark
	if p.Dark() {
		next = ThemeLight
	}
	_ = p.Set(KeyTheme, next)
	return next
}

// FullWidth reports whether the table spans the whole terminal.
func (p *Prefs) FullWidth() bool {
	return p.Get(KeyTableWidth) == WidthFull
}

// ToggleWidth switches between the 80% and 100% table widths.
func (p *Prefs) ToggleWidth() string {
	next := WidthFull
	if p.FullWidth() {
		next = WidthDesktop
	}
	_ = p.Set(KeyTableWidth, next)
	return next
}

// WidthPercent returns the table width as a percentage.
func (p *Prefs) WidthPercent() int {
	if p.FullWidth() {
		return 100
	}
	return 80
}
