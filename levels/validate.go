package levels

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/dungeoncrawler/layout"
)

// Warning is an authoring issue that does not stop the level from loading.
type Warning struct {
	Level   int
	Message string
}

// chestSlots mirrors the fixed chest loadout so floor supply can be estimated.
const chestSlots = 3

// Validate reports layouts that will load in a degraded form: compound
// shapes whose rectangles do not overlap, and levels that ask for more
// spawns than they have floor. Neither is fatal at runtime; the warnings
// exist so they surface when the catalog is authored.
func Validate(c *Catalog) []Warning {
	var out []Warning
	if c == nil {
		return out
	}
	for _, lvl := range c.Levels {
		rng := rand.New(rand.NewPCG(lvl.Seed, lvl.Seed))
		spec := lvl.Layout
		if spec.Shape != layout.ShapeRectangle && len(spec.Rects) == 0 {
			spec = layout.RandomCompound(spec.Shape, rng)
		}

		g, err := layout.Generate(spec, rng)
		if err != nil {
			out = append(out, Warning{Level: lvl.Index, Message: err.Error()})
			continue
		}
		if spec.Shape != layout.ShapeRectangle && len(spec.Rects) >= 2 {
			if _, err := layout.CorridorCells(spec.Shape, spec.Rects[0], spec.Rects[1]); errors.Is(err, layout.ErrDegenerateCorridor) {
				out = append(out, Warning{Level: lvl.Index, Message: "rectangles do not overlap; rooms will be disconnected"})
			}
		}

		floor := 0
		for _, t := range g.Floors() {
			if !t.Corridor {
				floor++
			}
		}
		want := lvl.Enemies.Ground() + lvl.Props.Total() + chestSlots
		if want > floor {
			out = append(out, Warning{
				Level:   lvl.Index,
				Message: fmt.Sprintf("requests %d spawns but only %d floor tiles exist", want, floor),
			})
		}
	}
	return out
}
