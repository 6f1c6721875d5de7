// Package placement turns a generated grid and a level definition into a
// deterministic spawn plan: the player spawn, the exit anchor, chests,
// props, enemies and bosses. It produces data only; spawning entities from
// a Result is the caller's job.
package placement

import (
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/ecs/component"
	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/levels"
)

var ErrNoEntrance = errors.New("placement: no entrance door")

// Buffers in tiles. A spawn must be strictly farther than its buffer from
// the door, the player spawn and the exit.
const (
	EnemyBuffer  = 1.5
	PropBuffer   = 2.5
	SpiderBuffer = 4.0
)

type PropSpawn struct {
	Kind component.PropKind
	Tile layout.GridPos
	Pos  cp.Vector
}

type ChestSpawn struct {
	Slot  int
	Tile  layout.GridPos
	Pos   cp.Vector
	Mimic bool
	Item  component.Item
}

type EnemySpawn struct {
	Kind   component.EnemyKind
	Serial int
	Tile   layout.GridPos
	Pos    cp.Vector
	Patrol component.Patrol
}

type BossSpawn struct {
	Serial  int
	Pos     cp.Vector
	Health  int
	Attack  int
	Defense int
}

// Shortfall counts requested spawns that could not be placed.
type Shortfall struct {
	Chests  int
	Props   int
	Enemies int
}

func (s Shortfall) Any() bool {
	return s.Chests > 0 || s.Props > 0 || s.Enemies > 0
}

type Result struct {
	Door       layout.GridPos
	DoorPos    cp.Vector
	Spawn      cp.Vector
	ExitAnchor cp.Vector
	Exit       cp.Vector

	Chests  []ChestSpawn
	Props   []PropSpawn
	Enemies []EnemySpawn
	Bosses  []BossSpawn

	Shortfall Shortfall
}

// planner holds the shared state of one Plan call.
type planner struct {
	grid    *layout.Grid
	def     levels.LevelDefinition
	opts    Options
	rng     *rand.Rand
	tile    float64
	res     *Result
	claimed claims
}

// Plan places everything def asks for on grid. The same grid, definition
// and options always produce the same Result. The only error is
// ErrNoEntrance; running short of floor is reported through Shortfall.
func Plan(grid *layout.Grid, def levels.LevelDefinition, opts Options) (*Result, error) {
	if grid == nil {
		return nil, ErrNoEntrance
	}
	door, ok := grid.Door()
	if !ok {
		slog.Warn("no entrance door found; skipping level initialization", "level", def.Index)
		return nil, ErrNoEntrance
	}

	p := &planner{
		grid:    grid,
		def:     def,
		opts:    opts,
		rng:     rand.New(rand.NewPCG(def.Seed, def.Seed)),
		tile:    grid.TileSize(),
		claimed: make(claims),
		res:     &Result{Door: door, DoorPos: grid.WorldPos(door)},
	}
	p.res.Spawn = p.spawnPoint()
	p.res.ExitAnchor = p.exitAnchor()
	p.res.Exit = p.res.ExitAnchor.Add(cp.Vector{Y: p.tile * 0.5})

	pool := p.floorCandidates()
	p.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	p.placeBosses()
	p.placeChests(&pool)
	p.placeProps(&pool)
	p.placeEnemies(&pool)

	if p.res.Shortfall.Any() {
		slog.Warn("placement: level under-populated",
			"level", def.Index,
			"chests", p.res.Shortfall.Chests,
			"props", p.res.Shortfall.Props,
			"enemies", p.res.Shortfall.Enemies)
	}
	return p.res, nil
}

// spawnPoint picks the indoor floor tile closest to the door, penalising
// horizontal misalignment. Ties keep the first tile in grid order.
func (p *planner) spawnPoint() cp.Vector {
	door := p.res.Door
	best, bestScore, found := cp.Vector{}, math.Inf(1), false
	for _, t := range p.grid.Tiles() {
		if t.Kind != layout.Floor || t.Corridor || t.Pos.Y <= door.Y {
			continue
		}
		pos := p.grid.WorldPos(t.Pos)
		align := math.Abs(float64(t.Pos.X - door.X))
		score := align*p.tile*0.25 + pos.Distance(p.res.DoorPos)
		if score < bestScore {
			best, bestScore, found = pos, score, true
		}
	}
	if !found {
		return p.res.DoorPos.Add(cp.Vector{Y: p.tile})
	}
	return best
}

// exitAnchor is the centre of the northernmost non-corridor floor row.
func (p *planner) exitAnchor() cp.Vector {
	tolerance := p.tile * 0.1
	top, sum, count := math.Inf(-1), 0.0, 0
	for _, t := range p.grid.Tiles() {
		if t.Kind != layout.Floor || t.Corridor {
			continue
		}
		pos := p.grid.WorldPos(t.Pos)
		switch {
		case pos.Y > top+tolerance:
			top, sum, count = pos.Y, pos.X, 1
		case math.Abs(pos.Y-top) <= tolerance:
			sum += pos.X
			count++
		}
	}
	if count == 0 {
		return cp.Vector{X: p.res.DoorPos.X + p.tile*2, Y: p.res.Spawn.Y}
	}
	return cp.Vector{X: sum / float64(count), Y: top}
}

func (p *planner) floorCandidates() []candidate {
	minY := p.res.DoorPos.Y + p.tile*0.25
	var out []candidate
	for _, t := range p.grid.Tiles() {
		if t.Kind != layout.Floor || t.Corridor {
			continue
		}
		pos := p.grid.WorldPos(t.Pos)
		if pos.Y <= minY {
			continue
		}
		out = append(out, candidate{Tile: t.Pos, Pos: pos})
	}
	return out
}

// clearOf reports whether pos is strictly farther than buffer tiles from the
// door, the spawn and the exit.
func (p *planner) clearOf(pos cp.Vector, buffer float64) bool {
	limit := buffer * p.tile
	return pos.Distance(p.res.DoorPos) > limit &&
		pos.Distance(p.res.Spawn) > limit &&
		pos.Distance(p.res.Exit) > limit
}

// accessible reports whether at least three orthogonal neighbours are floor,
// which keeps decorations out of chokepoints.
func (p *planner) accessible(tile layout.GridPos) bool {
	n := 0
	for _, q := range tile.Neighbors4() {
		if t, ok := p.grid.At(q); ok && (t.Kind == layout.Floor || t.Kind == layout.FloorOutdoor) {
			n++
		}
	}
	return n >= 3
}

func (p *planner) propValid(c candidate) bool {
	return !p.grid.IsCorridor(c.Tile) && p.clearOf(c.Pos, PropBuffer) && p.accessible(c.Tile)
}

func (p *planner) placeChests(pool *[]candidate) {
	want := p.opts.ChestCount
	if want <= 0 {
		return
	}

	var chosen []candidate
	picked := make(claims)
	for _, c := range *pool {
		if len(chosen) == want {
			break
		}
		if p.propValid(c) && !p.claimed.has(c.Tile) {
			chosen = append(chosen, c)
			picked.add(c.Tile)
		}
	}
	for _, c := range *pool {
		if len(chosen) == want {
			break
		}
		if !picked.has(c.Tile) && !p.claimed.has(c.Tile) && p.clearOf(c.Pos, EnemyBuffer) {
			chosen = append(chosen, c)
			picked.add(c.Tile)
		}
	}
	for _, c := range chosen {
		removeTile(pool, c.Tile)
		p.claimed.add(c.Tile)
	}

	p.rng.Shuffle(len(chosen), func(i, j int) { chosen[i], chosen[j] = chosen[j], chosen[i] })
	for slot, c := range chosen {
		chest := ChestSpawn{Slot: slot, Tile: c.Tile, Pos: c.Pos}
		if slot == 0 {
			chest.Mimic = true
		} else if len(p.opts.Elixirs) > 0 {
			chest.Item = component.Item{Kind: p.opts.Elixirs[p.rng.IntN(len(p.opts.Elixirs))]}
		}
		p.res.Chests = append(p.res.Chests, chest)
	}
	p.res.Shortfall.Chests = want - len(chosen)
}

// placeProps draws each category from the shared pool one tile at a time.
// Draws that fail the prop rules are discarded, not returned to the pool.
func (p *planner) placeProps(pool *[]candidate) {
	p.retainClear(pool, EnemyBuffer)

	plan := []struct {
		kind  component.PropKind
		count int
	}{
		{component.PropTree, p.def.Props.Trees},
		{component.PropRock, p.def.Props.Rocks},
		{component.PropCrate, p.def.Props.Crates},
	}
	for _, cat := range plan {
		placed := 0
		for placed < cat.count && len(*pool) > 0 {
			c := sample(pool, p.rng, 1)[0]
			if !p.propValid(c) || p.claimed.has(c.Tile) {
				continue
			}
			p.claimed.add(c.Tile)
			p.res.Props = append(p.res.Props, PropSpawn{Kind: cat.kind, Tile: c.Tile, Pos: c.Pos})
			placed++
		}
		p.res.Shortfall.Props += cat.count - placed
	}
}

func (p *planner) retainClear(pool *[]candidate, buffer float64) {
	kept := (*pool)[:0]
	for _, c := range *pool {
		if p.clearOf(c.Pos, buffer) {
			kept = append(kept, c)
		}
	}
	*pool = kept
}

func (p *planner) placeBosses() {
	scale := p.opts.BossScale
	if p.opts.Final {
		scale = p.opts.FinalBossScale
	}
	for i := range p.def.Enemies.Boss {
		pos := cp.Vector{
			X: p.res.Exit.X,
			Y: p.res.Exit.Y - p.tile*(p.opts.BossOffset+float64(i)*p.opts.BossSpacing),
		}
		p.claimed.add(p.grid.GridPosOf(pos))
		p.res.Bosses = append(p.res.Bosses, BossSpawn{
			Serial:  i + 1,
			Pos:     pos,
			Health:  max(1, scaleUp(p.opts.Player.MaxHealth, scale)),
			Attack:  max(1, scaleUp(p.opts.Player.Attack, scale)),
			Defense: max(0, scaleUp(p.opts.Player.Defense, scale)),
		})
	}
}

// scaleUp multiplies and rounds up, ignoring float noise such as
// 100*1.1 = 110.00000000000001.
func scaleUp(v int, scale float64) int {
	return int(math.Ceil(float64(v)*scale - 1e-9))
}

func (p *planner) placeEnemies(pool *[]candidate) {
	counts := p.def.Enemies
	requested := counts.Ground()
	needed := requested
	if len(*pool) < needed {
		slog.Warn("not enough floor tiles for all enemies", "level", p.def.Index, "needs", needed, "available", len(*pool))
		needed = len(*pool)
	}

	spawns := sample(pool, p.rng, needed)
	placed := 0

	for i := range counts.Slimes {
		c, ok := take(&spawns, p.claimed, nil)
		if !ok {
			break
		}
		serial := i + 1
		dir := -1.0
		if serial%2 == 0 {
			dir = 1
		}
		p.addEnemy(component.EnemySlime, serial, c, component.Patrol{
			Origin:    c.Pos,
			Range:     cp.Clamp(p.opts.SlimePatrolRange, p.tile*1.5, p.tile*6),
			Direction: dir,
		})
		placed++
	}

	spiderLimit := SpiderBuffer * p.tile
	farFromEntrance := func(c candidate) bool {
		return c.Pos.Distance(p.res.Spawn) >= spiderLimit && c.Pos.Distance(p.res.DoorPos) >= spiderLimit
	}
	for i := range counts.Spiders {
		c, ok := take(&spawns, p.claimed, func(c candidate) bool {
			return farFromEntrance(c) && p.horizontalClearance(c.Tile)
		})
		if !ok {
			c, ok = take(&spawns, p.claimed, farFromEntrance)
		}
		if !ok {
			break
		}
		serial := i + 1
		dir := -1.0
		if serial%2 == 0 {
			dir = 1
		}
		patrol := p.spiderPatrol(c)
		patrol.Direction = dir
		p.addEnemy(component.EnemySpider, serial, c, patrol)
		placed++
	}

	for i := range counts.Cyclops {
		c, ok := take(&spawns, p.claimed, nil)
		if !ok {
			break
		}
		serial := i + 1
		dir := 1.0
		if serial%2 == 0 {
			dir = -1
		}
		p.addEnemy(component.EnemyCyclops, serial, c, component.Patrol{
			Origin:    c.Pos,
			Range:     cp.Clamp(p.opts.CyclopsPatrolRange, p.tile*2, p.tile*6),
			Direction: dir,
		})
		placed++
	}

	p.res.Shortfall.Enemies = requested - placed
}

func (p *planner) addEnemy(kind component.EnemyKind, serial int, c candidate, patrol component.Patrol) {
	p.res.Enemies = append(p.res.Enemies, EnemySpawn{
		Kind:   kind,
		Serial: serial,
		Tile:   c.Tile,
		Pos:    c.Pos,
		Patrol: patrol,
	})
}

func (p *planner) horizontalClearance(tile layout.GridPos) bool {
	return p.grid.IsFloor(tile.Add(-1, 0)) && p.grid.IsFloor(tile.Add(1, 0))
}

// spiderPatrol scans the spider's row both ways until floor runs out and
// centres the patrol band on what it found, inset by a quarter tile.
func (p *planner) spiderPatrol(c candidate) component.Patrol {
	minRange := p.tile * 0.75
	left, right := c.Tile, c.Tile
	for p.grid.IsFloor(left.Add(-1, 0)) {
		left = left.Add(-1, 0)
	}
	for p.grid.IsFloor(right.Add(1, 0)) {
		right = right.Add(1, 0)
	}

	margin := p.tile * 0.25
	lo := p.grid.WorldPos(left).X - p.tile*0.5 + margin
	hi := p.grid.WorldPos(right).X + p.tile*0.5 - margin
	width := hi - lo
	if width <= p.tile*0.3 {
		return component.Patrol{Origin: c.Pos, Range: minRange}
	}

	maxRange := max(p.opts.SpiderPatrolRange, minRange)
	return component.Patrol{
		Origin: cp.Vector{X: (lo + hi) * 0.5, Y: c.Pos.Y},
		Range:  cp.Clamp(width*0.5, minRange, maxRange),
	}
}
