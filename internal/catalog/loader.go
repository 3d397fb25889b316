package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed defaults/catalog.yaml
var defaultCatalogYAML []byte

// DefaultYAML returns the embedded default catalog document.
func DefaultYAML() []byte {
	return defaultCatalogYAML
}

// Default returns the embedded default catalog.
func Default() (*Catalog, error) {
	games, err := ParseYAML(defaultCatalogYAML)
	if err != nil {
		return nil, fmt.Errorf("catalog: embedded default: %w", err)
	}
	return New(games)
}

// Load loads the game catalog.
// Search order: customPath -> ~/.quiz/catalog.yaml -> ./configs/catalog.yaml -> embedded default.
// A customPath may be a single YAML file or a directory of per-game files.
func Load(customPath string) (*Catalog, error) {
	// Try custom path first
	if customPath != "" {
		info, err := os.Stat(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", customPath, err)
		}
		if info.IsDir() {
			return LoadDir(customPath)
		}
		return LoadFile(customPath)
	}

	// Try user config directory
	if userPath := userCatalogPath(); userPath != "" {
		if c, err := LoadFile(userPath); err == nil {
			return c, nil
		}
	}

	// Try local configs directory
	if c, err := LoadFile(filepath.Join("configs", "catalog.yaml")); err == nil {
		return c, nil
	}

	// Use embedded default
	return Default()
}

// LoadFile loads a single catalog document.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	games, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return New(games)
}

// LoadDir loads every .yaml/.yml file in dir as one game.
// Games are ordered by their order field, then by ID.
// An unparseable file fails the whole load, since game order drives unlock gates.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var parsed []YAMLGame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", path, err)
		}
		yg, err := ParseGameYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing file %s: %w", path, err)
		}
		parsed = append(parsed, yg)
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].Order != parsed[j].Order {
			return parsed[i].Order < parsed[j].Order
		}
		return parsed[i].ID < parsed[j].ID
	})

	games := make([]Game, len(parsed))
	for i, yg := range parsed {
		games[i] = yg.toGame()
	}
	return New(games)
}

// userCatalogPath returns the path to the user catalog, or empty if home is unavailable.
func userCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".quiz", "catalog.yaml")
}
