package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BLOCKDND_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays BLOCKDND_* variables onto s. Empty values are treated
// as set.
func ApplyEnv(s *Settings, lookup LookupFunc) error {
	bools := []struct {
		name string
		dst  *bool
	}{
		{"SHOW_HANDLE_ON_HOVER", &s.ShowHandleOnHover},
		{"TOUCH_MODE", &s.TouchMode},
	}
	for _, b := range bools {
		val, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.name, err)
		}
		*b.dst = v
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"LONG_PRESS_DELAY", &s.LongPressDelay},
		{"HOVER_HIDE_DELAY", &s.HoverHideDelay},
		{"REFRESH_DEBOUNCE", &s.RefreshDebounce},
	}
	for _, d := range durations {
		val, ok := lookup(EnvPrefix + d.name)
		if !ok {
			continue
		}
		v, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, d.name, err)
		}
		*d.dst = v
	}

	if val, ok := lookup(EnvPrefix + "DRAG_THRESHOLD"); ok {
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%sDRAG_THRESHOLD: %w", EnvPrefix, err)
		}
		s.DragThreshold = v
	}
	if val, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		s.LogLevel = val
	}
	return nil
}
