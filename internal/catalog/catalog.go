// internal/catalog/catalog.go
//
// Content catalog: the item ids every game mode draws its boards from.
//
// Loading behavior:
//   1. If CATALOG_FILE is set, Load reads that YAML file.
//   2. Otherwise the catalog embedded in the assets package is used.
//
// Validate enforces the minimum pool sizes the fixed round tables need, so a
// board can never be short of items at runtime.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/memomu/assets"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid catalog")

// Minimum pool sizes required by the round tables.
const (
	MinSequence    = 17 // 8 tonal items + 9 decoys on the round-1 board
	MinClassic     = 15 // 15 pairs on the 5x6 board
	MinFlash       = 49 // 7x7 board, no repeats
	MinDistractors = 25 // 30 tiles minus 5 targets
	MinAvatars     = 2
)

// Avatar is a duel character.
type Avatar struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Hidden configures the hidden-object board.
type Hidden struct {
	Target      string   `yaml:"target"`
	Distractors []string `yaml:"distractors"`
}

// Duel configures the reaction duel boards.
type Duel struct {
	Avatars []Avatar `yaml:"avatars"`
	Decoys  []string `yaml:"decoys"`
}

// Catalog is read-only once loaded; modes build their own pools from it.
type Catalog struct {
	Sequence []string `yaml:"sequence"`
	Classic  []string `yaml:"classic"`
	Flash    []string `yaml:"flash"`
	Hidden   Hidden   `yaml:"hidden"`
	Duel     Duel     `yaml:"duel"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		data, err := assets.Catalog()
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = Parse(data)
	})
	return defaultCat, defaultErr
}

// Load reads a catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every pool against the minimum sizes.
func (c *Catalog) Validate() error {
	checks := []struct {
		name string
		got  int
		min  int
	}{
		{"sequence", distinct(c.Sequence), MinSequence},
		{"classic", distinct(c.Classic), MinClassic},
		{"flash", distinct(c.Flash), MinFlash},
		{"hidden.distractors", distinct(c.Hidden.Distractors), MinDistractors},
		{"duel.avatars", len(c.Duel.Avatars), MinAvatars},
		{"duel.decoys", distinct(c.Duel.Decoys), 1},
	}
	for _, ch := range checks {
		if ch.got < ch.min {
			return fmt.Errorf("%w: %s has %d distinct items, need %d", ErrInvalid, ch.name, ch.got, ch.min)
		}
	}
	if c.Hidden.Target == "" {
		return fmt.Errorf("%w: hidden.target is empty", ErrInvalid)
	}
	for _, d := range c.Hidden.Distractors {
		if d == c.Hidden.Target {
			return fmt.Errorf("%w: hidden target %q is also a distractor", ErrInvalid, d)
		}
	}
	return nil
}

// AvatarName returns the display name for an avatar index, or "".
func (c *Catalog) AvatarName(i int) string {
	if i < 0 || i >= len(c.Duel.Avatars) {
		return ""
	}
	return c.Duel.Avatars[i].Name
}

func distinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it != "" {
			seen[it] = struct{}{}
		}
	}
	return len(seen)
}
