package settings

import (
	"errors"
	"testing"

	"github.com/vovakirdan/photo-quiz/internal/catalog"
	"github.com/vovakirdan/photo-quiz/internal/core"
)

type failingKV struct{}

func (failingKV) GetSetting(string) (string, bool, error) { return "", false, errors.New("boom") }
func (failingKV) SetSetting(string, string) error         { return errors.New("boom") }

func TestDefault(t *testing.T) {
	s := Default()
	if s.Difficulty != catalog.Medium {
		t.Errorf("Expected Medium difficulty, got %s", s.Difficulty)
	}
	if !s.SoundEnabled || !s.GameLockEnabled || !s.HintsEnabled || !s.TimerEnabled {
		t.Errorf("Expected all toggles on by default, got %+v", s)
	}
}

func TestLoadEmptyUsesDefaults(t *testing.T) {
	s, err := Load(NewMemoryKV())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s != Default() {
		t.Errorf("Expected defaults, got %+v", s)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	want := Settings{
		Difficulty:      catalog.Hard,
		SoundEnabled:    false,
		GameLockEnabled: false,
		HintsEnabled:    true,
		TimerEnabled:    false,
	}
	if err := Save(kv, want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if n := len(kv.Entries()); n != len(Keys()) {
		t.Errorf("Expected %d stored keys, got %d", len(Keys()), n)
	}

	got, err := Load(kv)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	kv := NewMemoryKV()
	kv.SetSetting(KeyDifficulty, "impossible")
	kv.SetSetting(KeyTimerEnabled, "maybe")
	kv.SetSetting(KeySoundEnabled, "false")

	s, err := Load(kv)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Difficulty != catalog.Medium {
		t.Errorf("Expected fallback Medium, got %s", s.Difficulty)
	}
	if !s.TimerEnabled {
		t.Error("Expected timer fallback true")
	}
	if s.SoundEnabled {
		t.Error("Expected sound false from stored value")
	}
}

func TestLoadBackendError(t *testing.T) {
	s, err := Load(failingKV{})
	if err == nil {
		t.Fatal("Expected error from failing backend")
	}
	if s != Default() {
		t.Errorf("Expected defaults on error, got %+v", s)
	}
	if err := Save(failingKV{}, Default()); err == nil {
		t.Error("Expected Save() to fail on failing backend")
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(Settings) bool
	}{
		{"difficulty lower case", KeyDifficulty, "easy", false, func(s Settings) bool { return s.Difficulty == catalog.Easy }},
		{"sound off", KeySoundEnabled, "off", false, func(s Settings) bool { return !s.SoundEnabled }},
		{"lock false", KeyGameLockEnabled, "false", false, func(s Settings) bool { return !s.GameLockEnabled }},
		{"hints 0", KeyHintsEnabled, "0", false, func(s Settings) bool { return !s.HintsEnabled }},
		{"timer yes", KeyTimerEnabled, "yes", false, func(s Settings) bool { return s.TimerEnabled }},
		{"unknown key", "volume", "11", true, nil},
		{"bad bool", KeyTimerEnabled, "sometimes", true, nil},
		{"bad difficulty", KeyDifficulty, "nightmare", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			err := s.Set(tt.key, tt.value)
			if tt.wantErr {
				if !errors.Is(err, core.ErrConfiguration) {
					t.Errorf("Expected ErrConfiguration, got %v", err)
				}
				if s != Default() {
					t.Errorf("Failed Set changed settings: %+v", s)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			if !tt.check(s) {
				t.Errorf("Unexpected settings after Set: %+v", s)
			}
		})
	}
}

func TestGetUnknownKey(t *testing.T) {
	if v := Default().Get("nope"); v != "" {
		t.Errorf("Expected empty string, got %q", v)
	}
}
