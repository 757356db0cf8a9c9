//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/access-panel/internal/logic"
)

// RealButtons watches the button lines on the GPIO character device.
// Buttons pull the line to ground, so a press is a falling edge.
type RealButtons struct {
	chip  *gpiocdev.Chip
	pins  ButtonPins
	lines map[logic.Control]*gpiocdev.Line
}

// NewRealButtons requests the three button lines with pull-ups and falling
// edge detection. Each edge is passed to h with the time it was seen.
func NewRealButtons(chipName string, pins ButtonPins, h EdgeHandler) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &RealButtons{
		chip:  chip,
		pins:  pins,
		lines: make(map[logic.Control]*gpiocdev.Line),
	}

	handler := func(evt gpiocdev.LineEvent) {
		c, ok := pins.Control(evt.Offset)
		if !ok {
			return
		}
		h(c, time.Now())
	}

	for _, c := range []logic.Control{logic.ControlEntry, logic.ControlExit, logic.ControlReset} {
		offset := pins.Offset(c)
		line, err := chip.RequestLine(offset,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithEventHandler(handler),
		)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", c, offset, err)
		}
		b.lines[c] = line
	}

	return b, nil
}

// Pressed reports whether the line is held low.
func (b *RealButtons) Pressed(c logic.Control) (bool, error) {
	line, ok := b.lines[c]
	if !ok {
		return false, fmt.Errorf("no line for %s", c)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read %s pin: %w", c, err)
	}
	return v == 0, nil
}

// Close releases the lines and the chip.
// Lines are left as inputs with pull-ups so the buttons stay idle high.
func (b *RealButtons) Close() error {
	var errs []error
	for c, line := range b.lines {
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", c, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", c, err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RGBIndicator drives a common-cathode RGB LED from three output lines.
type RGBIndicator struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines
}

// NewRGBIndicator requests the LED lines as outputs, initially off.
func NewRGBIndicator(chipName string, pins LEDPins) (*RGBIndicator, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines, err := chip.RequestLines([]int{pins.Red, pins.Green, pins.Blue}, gpiocdev.AsOutput(0, 0, 0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request led pins %d/%d/%d: %w", pins.Red, pins.Green, pins.Blue, err)
	}

	return &RGBIndicator{chip: chip, lines: lines}, nil
}

// SetColor implements feedback.Indicator.
func (r *RGBIndicator) SetColor(c logic.Color) error {
	if err := r.lines.SetValues(levels(c)); err != nil {
		return fmt.Errorf("set led: %w", err)
	}
	return nil
}

// Close turns the LED off and releases the lines.
func (r *RGBIndicator) Close() error {
	var errs []error
	if err := r.lines.SetValues([]int{0, 0, 0}); err != nil {
		errs = append(errs, fmt.Errorf("clear led: %w", err))
	}
	if err := r.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close led pins: %w", err))
	}
	if err := r.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close chip: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
