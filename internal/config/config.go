package config

import (
	"errors"
	"time"

	"github.com/dshills/blockdnd/internal/logging"
)

// Settings holds every tunable of the editor.
type Settings struct {
	// ShowHandleOnHover shows a block's drag handle only while the pointer
	// hovers the block. When false, handles stay visible. Ignored in touch
	// mode, which has no hover.
	ShowHandleOnHover bool

	// LongPressDelay is how long a touch must rest on a handle before the
	// drag arms.
	LongPressDelay time.Duration

	// HoverHideDelay is how long a handle lingers after the pointer leaves
	// its block.
	HoverHideDelay time.Duration

	// RefreshDebounce coalesces layout invalidations into one re-segmentation.
	RefreshDebounce time.Duration

	// DragThreshold is how far (in cells) a touch may wander before the
	// long press is treated as a scroll or tap instead of a drag.
	DragThreshold float64

	// TouchMode drives the view with touch semantics: long-press to drag
	// and tap to select.
	TouchMode bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		ShowHandleOnHover: true,
		LongPressDelay:    150 * time.Millisecond,
		HoverHideDelay:    200 * time.Millisecond,
		RefreshDebounce:   100 * time.Millisecond,
		DragThreshold:     1,
		TouchMode:         false,
		LogLevel:          "info",
	}
}

// Validate reports every unusable setting.
func (s Settings) Validate() error {
	var errs []error
	if s.LongPressDelay < 0 {
		errs = append(errs, &ValidationError{Key: "long_press_delay", Message: "must not be negative"})
	}
	if s.HoverHideDelay < 0 {
		errs = append(errs, &ValidationError{Key: "hover_hide_delay", Message: "must not be negative"})
	}
	if s.RefreshDebounce < 0 {
		errs = append(errs, &ValidationError{Key: "refresh_debounce", Message: "must not be negative"})
	}
	if s.DragThreshold < 0 {
		errs = append(errs, &ValidationError{Key: "drag_threshold", Message: "must not be negative"})
	}
	if !logging.ValidLevel(s.LogLevel) {
		errs = append(errs, &ValidationError{Key: "log_level", Message: "must be debug, info, warn or error"})
	}
	return errors.Join(errs...)
}

// fileSettings is the on-disk shape. Pointer fields distinguish an absent
// key from a zero value so files only override what they mention.
type fileSettings struct {
	ShowHandleOnHover *bool    `toml:"show_handle_on_hover,omitempty" yaml:"show_handle_on_hover,omitempty"`
	LongPressDelay    *string  `toml:"long_press_delay,omitempty" yaml:"long_press_delay,omitempty"`
	HoverHideDelay    *string  `toml:"hover_hide_delay,omitempty" yaml:"hover_hide_delay,omitempty"`
	RefreshDebounce   *string  `toml:"refresh_debounce,omitempty" yaml:"refresh_debounce,omitempty"`
	DragThreshold     *float64 `toml:"drag_threshold,omitempty" yaml:"drag_threshold,omitempty"`
	TouchMode         *bool    `toml:"touch_mode,omitempty" yaml:"touch_mode,omitempty"`
	LogLevel          *string  `toml:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// apply overlays the fields present in f onto s.
func (f fileSettings) apply(s *Settings, source string) error {
	if f.ShowHandleOnHover != nil {
		s.ShowHandleOnHover = *f.ShowHandleOnHover
	}
	durations := []struct {
		key string
		src *string
		dst *time.Duration
	}{
		{"long_press_delay", f.LongPressDelay, &s.LongPressDelay},
		{"hover_hide_delay", f.HoverHideDelay, &s.HoverHideDelay},
		{"refresh_debounce", f.RefreshDebounce, &s.RefreshDebounce},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return &ParseError{Path: source, Message: d.key + ": " + err.Error(), Err: err}
		}
		*d.dst = v
	}
	if f.DragThreshold != nil {
		s.DragThreshold = *f.DragThreshold
	}
	if f.TouchMode != nil {
		s.TouchMode = *f.TouchMode
	}
	if f.LogLevel != nil {
		s.LogLevel = *f.LogLevel
	}
	return nil
}

// toFile converts s to its complete on-disk shape.
func toFile(s Settings) fileSettings {
	long := s.LongPressDelay.String()
	hide := s.HoverHideDelay.String()
	debounce := s.RefreshDebounce.String()
	return fileSettings{
		ShowHandleOnHover: &s.ShowHandleOnHover,
		LongPressDelay:    &long,
		HoverHideDelay:    &hide,
		RefreshDebounce:   &debounce,
		DragThreshold:     &s.DragThreshold,
		TouchMode:         &s.TouchMode,
		LogLevel:          &s.LogLevel,
	}
}
