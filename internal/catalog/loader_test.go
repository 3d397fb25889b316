package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", path, err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Expected 3 default games, got %d", c.Len())
	}

	first, _ := c.At(0)
	if first.ID != "animals" || !first.Unlocked {
		t.Errorf("Expected first game to be unlocked animals, got %+v", first)
	}

	for _, g := range c.Games() {
		for _, d := range Difficulties() {
			if len(g.Questions(d)) == 0 {
				t.Errorf("Default game %q has empty %s tier", g.ID, d)
			}
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
games:
  - id: birds
    name: Birds
    description: Spot birds
    thumbnail: bird
    easy:
      - text: Which is a crow?
        options:
          - { name: Crow, image: crow }
          - { name: Dove, image: dove }
        correct: 0
        hint: Black
`)

	games, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("Expected 1 game, got %d", len(games))
	}

	g := games[0]
	if g.ID != "birds" || g.Name != "Birds" || g.Thumbnail != "bird" {
		t.Errorf("Unexpected game header: %+v", g)
	}
	if len(g.Easy) != 1 || len(g.Medium) != 0 {
		t.Fatalf("Unexpected tiers: easy=%d medium=%d", len(g.Easy), len(g.Medium))
	}
	q := g.Easy[0]
	if q.Correct().Name != "Crow" || q.Hint != "Black" || q.Options[1].Image != "dove" {
		t.Errorf("Unexpected question: %+v", q)
	}
}

func TestParseYAMLInvalid(t *testing.T) {
	if _, err := ParseYAML([]byte("games: [")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, `
games:
  - id: a
    easy:
      - text: q
        options: [{name: x}, {name: y}]
        correct: 1
  - id: b
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if ids := c.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Unexpected ids: %v", ids)
	}
}

func TestLoadCustomFileInvalidIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, `
games:
  - id: a
    easy:
      - text: q
        options: [{name: x}, {name: y}]
        correct: 7
`)

	_, err := Load(path)
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Load() = %v, want ErrConfiguration", err)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing custom catalog")
	}
}

func TestLoadDirOrdering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zeta.yaml"), "id: zeta\norder: 1\n")
	writeFile(t, filepath.Join(dir, "alpha.yml"), "id: alpha\norder: 2\n")
	writeFile(t, filepath.Join(dir, "beta.yaml"), "id: beta\norder: 1\n")
	writeFile(t, filepath.Join(dir, "README.md"), "not a game")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load(dir) failed: %v", err)
	}

	want := []string{"beta", "zeta", "alpha"}
	got := c.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadDirBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.yaml"), "id: ok\n")
	writeFile(t, filepath.Join(dir, "broken.yaml"), "id: [\n")

	if _, err := LoadDir(dir); err == nil {
		t.Error("Expected error for unparseable game file")
	}
}
