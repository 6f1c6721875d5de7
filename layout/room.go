package layout

const (
	outdoorDepth      = 5
	outdoorExtraWidth = 4
)

// GenerateRoom emits the tiles of one bordered room whose bottom-left
// interior corner is (startX, startY). The room is h+1 rows tall: the outer
// south wall sits one row below startY. With door set, the outer south wall
// carries a closed door at its midpoint and an outdoor apron is laid south
// of it.
func GenerateRoom(w, h, startX, startY int, door bool) []Tile {
	if w < 3 || h < 3 {
		return nil
	}
	total := h + 1
	tiles := make([]Tile, 0, w*total)
	var doorPos GridPos
	hasDoor := false

	for y := 0; y < total; y++ {
		for x := 0; x < w; x++ {
			pos := GridPos{X: startX + x, Y: startY + y - 1}
			kind := roomTileKind(x, y, w, total, door)
			if kind == DoorClosed {
				doorPos, hasDoor = pos, true
			}
			tiles = append(tiles, Tile{Pos: pos, Kind: kind})
		}
	}

	if hasDoor {
		half := (w + outdoorExtraWidth) / 2
		for depth := 1; depth <= outdoorDepth; depth++ {
			for dx := -half; dx <= half; dx++ {
				tiles = append(tiles, Tile{Pos: doorPos.Add(dx, -depth), Kind: FloorOutdoor})
			}
		}
	}
	return tiles
}

func roomTileKind(x, y, w, total int, door bool) TileKind {
	last := w - 1
	switch {
	case y == total-1:
		switch x {
		case 0:
			return WallNInnerCornerW
		case last:
			return WallNInnerCornerE
		}
		return WallNInnerMid
	case y == 1:
		switch x {
		case 0:
			return WallSInnerCapL
		case last:
			return WallSInnerCapR
		}
		return WallSInnerMid
	case y == 0:
		switch {
		case x == 0:
			return WallSOuterCapL
		case x == last:
			return WallSOuterCapR
		case door && x == w/2:
			return DoorClosed
		}
		return WallSOuterMid
	case x == 0:
		return WallWSide
	case x == last:
		return WallESide
	}
	return Floor
}
