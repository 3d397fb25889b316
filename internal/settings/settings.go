// Package settings holds the user-facing quiz options and their key/value
// persistence.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/core"
)

// Setting keys as stored in the key/value backend.
const (
	KeyDifficulty      = "difficulty"
	KeySoundEnabled    = "soundEnabled"
	KeyGameLockEnabled = "gameLockEnabled"
	KeyHintsEnabled    = "hintsEnabled"
	KeyTimerEnabled    = "timerEnabled"
)

// Keys lists every setting key in display order.
func Keys() []string {
	return []string{
		KeyDifficulty,
		KeySoundEnabled,
		KeyGameLockEnabled,
		KeyHintsEnabled,
		KeyTimerEnabled,
	}
}

// Settings is a snapshot of the persisted options.
type Settings struct {
	Difficulty      catalog.Difficulty
	SoundEnabled    bool
	GameLockEnabled bool
	HintsEnabled    bool
	TimerEnabled    bool
}

// Default returns the settings used when nothing is stored.
func Default() Settings {
	return Settings{
		Difficulty:      catalog.DefaultDifficulty,
		SoundEnabled:    true,
		GameLockEnabled: true,
		HintsEnabled:    true,
		TimerEnabled:    true,
	}
}

// KV is a string key/value backend.
// GetSetting returns ok=false for a missing key.
type KV interface {
	GetSetting(key string) (value string, ok bool, err error)
	SetSetting(key, value string) error
}

// Load reads settings from kv. Missing or unparseable values fall back to
// their defaults.
func Load(kv KV) (Settings, error) {
	s := Default()
	for _, key := range Keys() {
		raw, ok, err := kv.GetSetting(key)
		if err != nil {
			return Default(), fmt.Errorf("settings: cannot read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		// Bad stored values keep the default.
		_ = s.Set(key, raw)
	}
	return s, nil
}

// Save writes every setting to kv.
func Save(kv KV, s Settings) error {
	for _, key := range Keys() {
		if err := kv.SetSetting(key, s.Get(key)); err != nil {
			return fmt.Errorf("settings: cannot write %s: %w", key, err)
		}
	}
	return nil
}

// Get returns the string form of one setting, or "" for an unknown key.
func (s Settings) Get(key string) string {
	switch key {
	case KeyDifficulty:
		return s.Difficulty.String()
	case KeySoundEnabled:
		return strconv.FormatBool(s.SoundEnabled)
	case KeyGameLockEnabled:
		return strconv.FormatBool(s.GameLockEnabled)
	case KeyHintsEnabled:
		return strconv.FormatBool(s.HintsEnabled)
	case KeyTimerEnabled:
		return strconv.FormatBool(s.TimerEnabled)
	default:
		return ""
	}
}

// Set parses value into the named setting.
// Unknown keys and unparseable values return core.ErrConfiguration and leave
// s unchanged.
func (s *Settings) Set(key, value string) error {
	if key == KeyDifficulty {
		d, ok := catalog.ParseDifficulty(value)
		if !ok {
			return fmt.Errorf("settings: invalid difficulty %q: %w", value, core.ErrConfiguration)
		}
		s.Difficulty = d
		return nil
	}

	var target *bool
	switch key {
	case KeySoundEnabled:
		target = &s.SoundEnabled
	case KeyGameLockEnabled:
		target = &s.GameLockEnabled
	case KeyHintsEnabled:
		target = &s.HintsEnabled
	case KeyTimerEnabled:
		target = &s.TimerEnabled
	default:
		return fmt.Errorf("settings: unknown key %q: %w", key, core.ErrConfiguration)
	}

	b, err := parseBool(value)
	if err != nil {
		return fmt.Errorf("settings: invalid value %q for %s: %w", value, key, core.ErrConfiguration)
	}
	*target = b
	return nil
}

// parseBool accepts strconv forms plus on/off and yes/no.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

// MemoryKV is an in-memory KV.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) GetSetting(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Entries returns the stored pairs sorted by key.
func (m *MemoryKV) Entries() [][2]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][2]string, 0, len(m.values))
	for k, v := range m.values {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
