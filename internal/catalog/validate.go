package catalog

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/photo-quiz/internal/core"
)

// Validate checks the whole catalog and reports every problem found.
// Empty tiers are allowed here; a round on an empty tier ends immediately.
func (c *Catalog) Validate() error {
	if len(c.games) == 0 {
		return fmt.Errorf("catalog: no games: %w", core.ErrConfiguration)
	}

	var errs []error
	seen := make(map[string]bool, len(c.games))

	for i, g := range c.games {
		if g.ID == "" {
			errs = append(errs, fmt.Errorf("catalog: game at index %d has no id: %w", i, core.ErrConfiguration))
			continue
		}
		if seen[g.ID] {
			errs = append(errs, fmt.Errorf("catalog: duplicate game id %q: %w", g.ID, core.ErrConfiguration))
			continue
		}
		seen[g.ID] = true

		for _, tier := range Difficulties() {
			for qi, q := range g.Questions(tier) {
				if err := q.Validate(); err != nil {
					errs = append(errs, fmt.Errorf("catalog: game %q %s question %d: %w", g.ID, tier, qi, err))
				}
			}
		}
	}

	return errors.Join(errs...)
}
