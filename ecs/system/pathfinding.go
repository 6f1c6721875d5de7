package system

import (
	"container/heap"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeoncrawler/layout"
)

// maxPathNodes bounds the search on large sparse grids.
const maxPathNodes = 8192

// walkable reports whether the player may stand on p. Cells outside the
// stamped grid are void.
func walkable(grid *layout.Grid, p layout.GridPos) bool {
	t, ok := grid.At(p)
	return ok && !t.Kind.Blocks()
}

// findPath runs A* over the walkable tiles and returns the tiles from start
// to goal inclusive, or nil when goal is unreachable.
func findPath(grid *layout.Grid, start, goal layout.GridPos) []layout.GridPos {
	if grid == nil || !walkable(grid, start) || !walkable(grid, goal) {
		return nil
	}
	if start == goal {
		return []layout.GridPos{start}
	}

	open := &openSet{}
	heap.Init(open)
	cameFrom := map[layout.GridPos]layout.GridPos{}
	gScore := map[layout.GridPos]int{start: 0}
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal)})

	for expanded := 0; open.Len() > 0 && expanded < maxPathNodes; expanded++ {
		cur := heap.Pop(open).(*openItem)
		if cur.pos == goal {
			return reconstructPath(cameFrom, start, goal)
		}
		if cur.g > gScore[cur.pos] {
			continue
		}
		for _, n := range cur.pos.Neighbors4() {
			if !walkable(grid, n) {
				continue
			}
			g := cur.g + 1
			if best, seen := gScore[n]; seen && g >= best {
				continue
			}
			cameFrom[n] = cur.pos
			gScore[n] = g
			heap.Push(open, &openItem{pos: n, g: g, f: g + heuristic(n, goal)})
		}
	}
	return nil
}

func reconstructPath(cameFrom map[layout.GridPos]layout.GridPos, start, goal layout.GridPos) []layout.GridPos {
	path := []layout.GridPos{goal}
	for cur := goal; cur != start; {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// waypoints converts a tile path to world positions, dropping the start tile
// the walker already stands on.
func waypoints(grid *layout.Grid, path []layout.GridPos) []cp.Vector {
	if len(path) < 2 {
		return nil
	}
	out := make([]cp.Vector, 0, len(path)-1)
	for _, p := range path[1:] {
		out = append(out, grid.WorldPos(p))
	}
	return out
}

func heuristic(a, b layout.GridPos) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type openItem struct {
	pos   layout.GridPos
	f     int
	g     int
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].g > o[j].g
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
