package placement

import (
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/layout"
)

// candidate is a floor tile considered for a spawn.
type candidate struct {
	Tile layout.GridPos
	Pos  cp.Vector
}

// sample draws up to count candidates without replacement. Each draw
// swap-removes a uniformly chosen index, so pool order is not preserved.
func sample(pool *[]candidate, rng *rand.Rand, count int) []candidate {
	var out []candidate
	for range count {
		if len(*pool) == 0 {
			break
		}
		i := rng.IntN(len(*pool))
		out = append(out, swapRemove(pool, i))
	}
	return out
}

func swapRemove(pool *[]candidate, i int) candidate {
	p := *pool
	c := p[i]
	last := len(p) - 1
	p[i] = p[last]
	*pool = p[:last]
	return c
}

// removeTile drops the candidate on tile from pool, if present.
func removeTile(pool *[]candidate, tile layout.GridPos) {
	for i, c := range *pool {
		if c.Tile == tile {
			swapRemove(pool, i)
			return
		}
	}
}

// claims is the set of tiles already holding a spawn.
type claims map[layout.GridPos]struct{}

func (c claims) has(p layout.GridPos) bool {
	_, ok := c[p]
	return ok
}

func (c claims) add(p layout.GridPos) {
	c[p] = struct{}{}
}

// take scans pool from the back for the first unclaimed candidate accepted
// by keep, claims it and removes it from pool.
func take(pool *[]candidate, claimed claims, keep func(candidate) bool) (candidate, bool) {
	for i := len(*pool) - 1; i >= 0; i-- {
		c := (*pool)[i]
		if keep != nil && !keep(c) {
			continue
		}
		if claimed.has(c.Tile) {
			continue
		}
		swapRemove(pool, i)
		claimed.add(c.Tile)
		return c, true
	}
	return candidate{}, false
}
