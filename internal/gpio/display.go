package gpio

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// Drawer is the part of a periph display driver the panel needs.
type Drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Display renders text into a 1-bit frame buffer and pushes it to a Drawer.
// It is not safe for concurrent use; the feedback dispatcher serialises it.
type Display struct {
	dev  Drawer
	img  *image1bit.VerticalLSB
	text font.Drawer
	halt func() error
}

// NewDisplay wraps dev with an off-screen buffer of the same size.
func NewDisplay(dev Drawer) *Display {
	img := image1bit.NewVerticalLSB(dev.Bounds())
	return &Display{
		dev: dev,
		img: img,
		text: font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{C: image1bit.On},
			Face: basicfont.Face7x13,
		},
	}
}

// OpenDisplay opens an SSD1306 on the named I2C bus ("" picks the first).
func OpenDisplay(busName string) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	d := NewDisplay(dev)
	d.halt = closeAll(dev.Halt, bus)
	return d, nil
}

// Clear implements feedback.Display.
func (d *Display) Clear() {
	for i := range d.img.Pix {
		d.img.Pix[i] = 0
	}
}

// DrawText implements feedback.Display. (x, y) is the left end of the baseline.
func (d *Display) DrawText(msg string, x, y int) {
	d.text.Dot = fixed.P(x, y)
	d.text.DrawString(msg)
}

// Present implements feedback.Display.
func (d *Display) Present() error {
	if err := d.dev.Draw(d.dev.Bounds(), d.img, image.Point{}); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	return nil
}

// Image returns the frame buffer.
func (d *Display) Image() image.Image {
	return d.img
}

// Close blanks the panel and releases the bus.
func (d *Display) Close() error {
	d.Clear()
	err := d.Present()
	if d.halt != nil {
		if herr := d.halt(); herr != nil && err == nil {
			err = herr
		}
	}
	return err
}

// closeAll halts a device and then closes its bus.
func closeAll(halt func() error, bus interface{ Close() error }) func() error {
	return func() error {
		herr := halt()
		cerr := bus.Close()
		if herr != nil {
			return fmt.Errorf("halt: %w", herr)
		}
		if cerr != nil {
			return fmt.Errorf("close bus: %w", cerr)
		}
		return nil
	}
}
