package gpio

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/sweeney/access-panel/internal/feedback"
	"github.com/sweeney/access-panel/internal/logic"
)

// Matrix buffers a 25-pixel WS2812B strip and writes it out on Flush.
// It is not safe for concurrent use; the feedback dispatcher serialises it.
type Matrix struct {
	w    io.Writer
	buf  []byte
	halt func() error
}

// NewMatrix writes RGB triplets for feedback.MatrixPixels pixels to w.
func NewMatrix(w io.Writer) *Matrix {
	return &Matrix{w: w, buf: make([]byte, feedback.MatrixPixels*3)}
}

// OpenMatrix opens the strip on the named SPI port ("" picks the first).
func OpenMatrix(portName string) (*Matrix, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open spi port: %w", err)
	}
	opts := nrzled.DefaultOpts
	opts.NumPixels = feedback.MatrixPixels
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("init nrzled: %w", err)
	}

	m := NewMatrix(dev)
	m.halt = closeAll(dev.Halt, port)
	return m, nil
}

// Clear implements feedback.Matrix.
func (m *Matrix) Clear() {
	for i := range m.buf {
		m.buf[i] = 0
	}
}

// SetPixel implements feedback.Matrix. Out of range indexes are ignored.
func (m *Matrix) SetPixel(index int, c logic.Color) {
	if index < 0 || index >= feedback.MatrixPixels {
		return
	}
	m.buf[index*3] = c.R
	m.buf[index*3+1] = c.G
	m.buf[index*3+2] = c.B
}

// Flush implements feedback.Matrix.
func (m *Matrix) Flush() error {
	if _, err := m.w.Write(m.buf); err != nil {
		return fmt.Errorf("write strip: %w", err)
	}
	return nil
}

// Close turns every pixel off and releases the port.
func (m *Matrix) Close() error {
	m.Clear()
	err := m.Flush()
	if m.halt != nil {
		if herr := m.halt(); herr != nil && err == nil {
			err = herr
		}
	}
	return err
}
