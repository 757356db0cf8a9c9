package feedback

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sweeney/access-panel/internal/logic"
)

// Display layout.
const (
	messageX, messageY = 0, 20
	countX, countY     = 5, 50
)

// Beep timing.
const (
	BeepOn  = 100 * time.Millisecond
	BeepGap = 100 * time.Millisecond
)

// Dispatcher serializes writes to the shared output surfaces.
//
// The display, the matrix and the RGB indicator each have their own lock, so
// a long matrix animation never delays a display update. The buzzer has no
// lock: overlapping beeps from different tasks may interleave.
type Dispatcher struct {
	display   Display
	matrix    Matrix
	indicator Indicator
	buzzer    Buzzer
	max       int
	sleep     func(time.Duration)

	displayMu   sync.Mutex
	matrixMu    sync.Mutex
	indicatorMu sync.Mutex
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSleep replaces time.Sleep for beeps and animation holds.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) { d.sleep = sleep }
}

// NewDispatcher creates a Dispatcher for a room of max occupants.
func NewDispatcher(s Surfaces, max int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		display:   s.Display,
		matrix:    s.Matrix,
		indicator: s.Indicator,
		buzzer:    s.Buzzer,
		max:       max,
		sleep:     time.Sleep,
	}
	if d.display == nil {
		d.display = nopDisplay{}
	}
	if d.matrix == nil {
		d.matrix = nopMatrix{}
	}
	if d.indicator == nil {
		d.indicator = nopIndicator{}
	}
	if d.buzzer == nil {
		d.buzzer = nopBuzzer{}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RenderStatus shows msg and the occupant count on the display.
func (d *Dispatcher) RenderStatus(msg string, count int) {
	d.displayMu.Lock()
	defer d.displayMu.Unlock()

	d.display.Clear()
	d.display.DrawText(msg, messageX, messageY)
	d.display.DrawText(fmt.Sprintf("Occupants: %d", count), countX, countY)
	if err := d.display.Present(); err != nil {
		log.Printf("display: %v", err)
	}
}

// SetOccupancyIndicator sets the RGB indicator to the band of count and
// returns that band.
func (d *Dispatcher) SetOccupancyIndicator(count int) logic.Band {
	band := logic.BandFor(count, d.max)

	d.indicatorMu.Lock()
	defer d.indicatorMu.Unlock()
	if err := d.indicator.SetColor(band.Color()); err != nil {
		log.Printf("indicator: %v", err)
	}
	return band
}

// ShowSprite draws s on the matrix and leaves it there.
func (d *Dispatcher) ShowSprite(s Sprite) {
	d.matrixMu.Lock()
	defer d.matrixMu.Unlock()
	d.drawLocked(s)
}

// Animate plays frames on the matrix. The matrix stays locked for the whole
// animation so frames from different tasks never mix.
func (d *Dispatcher) Animate(frames []Frame) {
	d.matrixMu.Lock()
	defer d.matrixMu.Unlock()
	for _, f := range frames {
		d.drawLocked(f.Sprite)
		if f.Hold > 0 {
			d.sleep(f.Hold)
		}
	}
}

// ShowOccupancyGrid draws the occupancy grid for count.
func (d *Dispatcher) ShowOccupancyGrid(count int) {
	d.ShowSprite(OccupancySprite(count, d.max))
}

func (d *Dispatcher) drawLocked(s Sprite) {
	d.matrix.Clear()
	for row := 0; row < MatrixSide; row++ {
		for col := 0; col < MatrixSide; col++ {
			if c := s[row][col]; c != logic.Off {
				d.matrix.SetPixel(PixelIndex(row, col), c)
			}
		}
	}
	if err := d.matrix.Flush(); err != nil {
		log.Printf("matrix: %v", err)
	}
}

// BeepShort sounds one 100 ms beep. It blocks for the beep's duration.
func (d *Dispatcher) BeepShort() {
	d.tone(BeepOn)
}

// BeepDouble sounds two 100 ms beeps separated by 100 ms of silence.
func (d *Dispatcher) BeepDouble() {
	d.tone(BeepOn)
	d.sleep(BeepGap)
	d.tone(BeepOn)
}

func (d *Dispatcher) tone(length time.Duration) {
	if err := d.buzzer.ToneOn(); err != nil {
		log.Printf("buzzer: %v", err)
		return
	}
	d.sleep(length)
	if err := d.buzzer.ToneOff(); err != nil {
		log.Printf("buzzer: %v", err)
	}
}

// Blank turns every surface off. Used on shutdown.
func (d *Dispatcher) Blank() {
	d.displayMu.Lock()
	d.display.Clear()
	if err := d.display.Present(); err != nil {
		log.Printf("display: %v", err)
	}
	d.displayMu.Unlock()

	d.ShowSprite(SpriteOff)

	d.indicatorMu.Lock()
	if err := d.indicator.SetColor(logic.Off); err != nil {
		log.Printf("indicator: %v", err)
	}
	d.indicatorMu.Unlock()

	if err := d.buzzer.ToneOff(); err != nil {
		log.Printf("buzzer: %v", err)
	}
}
