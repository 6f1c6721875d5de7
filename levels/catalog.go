package levels

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/milk9111/dungeoncrawler/layout"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

const CatalogFile = "catalog.yaml"

var (
	ErrEmptyCatalog = errors.New("levels: catalog has no levels")
	ErrBadIndex     = errors.New("levels: level indices must be contiguous from 0")
)

type EnemyCounts struct {
	Slimes  int `yaml:"slimes"`
	Cyclops int `yaml:"cyclops"`
	Spiders int `yaml:"spiders"`
	Boss    int `yaml:"boss"`
}

// Ground is the number of non-boss enemies placed on floor tiles.
func (c EnemyCounts) Ground() int {
	return c.Slimes + c.Cyclops + c.Spiders
}

type PropCounts struct {
	Trees  int `yaml:"trees"`
	Rocks  int `yaml:"rocks"`
	Crates int `yaml:"crates"`
}

func (c PropCounts) Total() int {
	return c.Trees + c.Rocks + c.Crates
}

// LevelDefinition is immutable authored data for one level.
type LevelDefinition struct {
	Index   int         `yaml:"index"`
	Name    string      `yaml:"name"`
	Seed    uint64      `yaml:"seed"`
	Layout  layout.Spec `yaml:"layout"`
	Enemies EnemyCounts `yaml:"enemies"`
	Props   PropCounts  `yaml:"props"`
}

// Catalog is the fixed, ordered list of levels.
type Catalog struct {
	Levels []LevelDefinition `yaml:"levels"`
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Levels)
}

func (c *Catalog) Get(index int) (LevelDefinition, bool) {
	if c == nil || index < 0 || index >= len(c.Levels) {
		return LevelDefinition{}, false
	}
	return c.Levels[index], true
}

// IsFinal reports whether index is the last level.
func (c *Catalog) IsFinal(index int) bool {
	return index == c.Len()-1
}

// Load reads a catalog file, preferring a copy on disk under levels/ over
// the embedded one so designers can iterate without rebuilding.
func Load(name string) (*Catalog, error) {
	clean := filepath.Base(filepath.ToSlash(name))
	data, err := os.ReadFile(filepath.Join("levels", clean))
	if err != nil {
		data, err = LevelsFS.ReadFile(clean)
		if err != nil {
			return nil, fmt.Errorf("levels: load %s: %w", clean, err)
		}
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", clean, err)
	}
	for _, w := range Validate(cat) {
		slog.Warn("level catalog", "level", w.Level, "issue", w.Message)
	}
	return cat, nil
}

// Parse decodes and structurally checks a catalog.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(cat.Levels) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i, lvl := range cat.Levels {
		if lvl.Index != i {
			return nil, fmt.Errorf("%w: entry %d has index %d", ErrBadIndex, i, lvl.Index)
		}
	}
	return &cat, nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	data, err := LevelsFS.ReadFile(CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("levels: read embedded catalog: %w", err)
	}
	return Parse(data)
}
