package feedback

import (
	"time"

	"github.com/sweeney/access-panel/internal/logic"
)

// Matrix geometry.
const (
	MatrixSide   = 5
	MatrixPixels = MatrixSide * MatrixSide
)

// Sprite is a 5x5 image indexed [row][col], row 0 at the top.
type Sprite [MatrixSide][MatrixSide]logic.Color

// Frame is one step of an animation.
type Frame struct {
	Sprite Sprite
	Hold   time.Duration
}

// PixelIndex maps a grid position to its index on the serpentine strip.
// The strip starts at the bottom-right corner; even rows run right to left
// from the strip's point of view, odd rows the other way.
func PixelIndex(row, col int) int {
	if row%2 == 0 {
		return MatrixPixels - 1 - (row*MatrixSide + col)
	}
	return MatrixPixels - 1 - (row*MatrixSide + (MatrixSide - 1 - col))
}

var (
	dimGreen  = logic.Color{G: 64}
	dimRed    = logic.Color{R: 64}
	dimYellow = logic.Color{R: 64, G: 64}
)

// spriteFrom builds a sprite from a 5-line mask where '#' lights a pixel.
func spriteFrom(mask [MatrixSide]string, c logic.Color) Sprite {
	var s Sprite
	for r, line := range mask {
		for col := 0; col < MatrixSide && col < len(line); col++ {
			if line[col] == '#' {
				s[r][col] = c
			}
		}
	}
	return s
}

// Built-in sprites.
var (
	SpriteOff Sprite

	SpriteEntry = spriteFrom([MatrixSide]string{
		"..#..",
		".###.",
		"#.#.#",
		"..#..",
		"..#..",
	}, dimGreen)

	SpriteExit = spriteFrom([MatrixSide]string{
		"#...#",
		".#.#.",
		"..#..",
		".#.#.",
		"#...#",
	}, dimRed)

	SpriteReset = spriteFrom([MatrixSide]string{
		"#####",
		"#####",
		"#####",
		"#####",
		"#####",
	}, dimRed)

	SpriteAttention = spriteFrom([MatrixSide]string{
		".###.",
		"##.##",
		"#...#",
		"#.#.#",
		".###.",
	}, dimYellow)
)

// Animations played by the dispatcher.
var (
	AnimEntry = []Frame{{SpriteEntry, 500 * time.Millisecond}, {SpriteOff, 0}}
	AnimExit  = []Frame{{SpriteExit, 500 * time.Millisecond}, {SpriteOff, 0}}
	AnimFull  = []Frame{{SpriteAttention, 500 * time.Millisecond}, {SpriteOff, 0}}
	AnimReset = []Frame{
		{SpriteReset, 200 * time.Millisecond}, {SpriteOff, 200 * time.Millisecond},
		{SpriteReset, 200 * time.Millisecond}, {SpriteOff, 200 * time.Millisecond},
		{SpriteReset, 200 * time.Millisecond}, {SpriteOff, 0},
	}
)

// gridCells are the positions lit by the occupancy grid, in fill order:
// two rows of four cells.
var gridCells = [...][2]int{
	{1, 0}, {1, 1}, {1, 3}, {1, 4},
	{3, 0}, {3, 1}, {3, 3}, {3, 4},
}

// OccupancySprite renders count out of max as a 2x4 grid of lit cells in the
// band color. The number of lit cells is proportional to occupancy, rounded
// up so a single occupant is always visible.
func OccupancySprite(count, max int) Sprite {
	var s Sprite
	if max <= 0 || count <= 0 {
		return s
	}
	if count > max {
		count = max
	}
	lit := (count*len(gridCells) + max - 1) / max
	c := logic.BandFor(count, max).Color()
	c = logic.Color{R: c.R / 4, G: c.G / 4, B: c.B / 4}
	for i := 0; i < lit; i++ {
		cell := gridCells[i]
		s[cell[0]][cell[1]] = c
	}
	return s
}
