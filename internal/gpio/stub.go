//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/access-panel/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealButtons is not available on non-Linux platforms.
type RealButtons struct{}

// NewRealButtons returns an error on non-Linux platforms.
func NewRealButtons(string, ButtonPins, EdgeHandler) (*RealButtons, error) {
	return nil, errUnsupported
}

// Pressed is not implemented on non-Linux platforms.
func (b *RealButtons) Pressed(logic.Control) (bool, error) {
	return false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (b *RealButtons) Close() error {
	return nil
}

// RGBIndicator is not available on non-Linux platforms.
type RGBIndicator struct{}

// NewRGBIndicator returns an error on non-Linux platforms.
func NewRGBIndicator(string, LEDPins) (*RGBIndicator, error) {
	return nil, errUnsupported
}

// SetColor is not implemented on non-Linux platforms.
func (r *RGBIndicator) SetColor(logic.Color) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RGBIndicator) Close() error {
	return nil
}
