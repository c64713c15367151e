// Package parallel splits frames into tiles and runs them on a
// work-stealing worker pool.
//
// Tiles are 64x64 pixels, 16KB of RGBA, so one tile's source and
// destination rows stay in L1 while a worker processes it. Tiles never
// overlap, so workers write pixel data without locks.
package parallel

// Tile size constants.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	TileHeight = 64
)

// Tile is a half-open pixel rectangle [X0, X1) x [Y0, Y1) in frame space.
// Edge tiles are smaller when the frame is not a multiple of the tile size.
type Tile struct {
	X0, Y0 int
	X1, Y1 int
}

// Width returns the tile width in pixels.
func (t Tile) Width() int { return t.X1 - t.X0 }

// Height returns the tile height in pixels.
func (t Tile) Height() int { return t.Y1 - t.Y0 }

// Empty reports whether the tile covers no pixels.
func (t Tile) Empty() bool { return t.X1 <= t.X0 || t.Y1 <= t.Y0 }

// Tiles covers a width x height frame with TileWidth x TileHeight tiles in
// row-major order. Every pixel belongs to exactly one tile.
func Tiles(width, height int) []Tile {
	return TilesSized(width, height, TileWidth, TileHeight)
}

// TilesSized is Tiles with a custom tile size. Non-positive sizes fall back
// to the defaults.
func TilesSized(width, height, tw, th int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tw <= 0 {
		tw = TileWidth
	}
	if th <= 0 {
		th = TileHeight
	}

	cols := (width + tw - 1) / tw
	rows := (height + th - 1) / th
	tiles := make([]Tile, 0, cols*rows)
	for y := 0; y < height; y += th {
		for x := 0; x < width; x += tw {
			tiles = append(tiles, Tile{
				X0: x,
				Y0: y,
				X1: min(x+tw, width),
				Y1: min(y+th, height),
			})
		}
	}
	return tiles
}
