package logic

// Band classifies occupancy relative to capacity.
type Band int

const (
	BandEmpty Band = iota
	BandNormal
	BandNearFull
	BandFull
)

// BandFor returns the band for count occupants out of max.
//
//	count == 0          -> BandEmpty
//	0 < count <= max-2  -> BandNormal
//	count == max-1      -> BandNearFull
//	count >= max        -> BandFull
func BandFor(count, max int) Band {
	switch {
	case count <= 0:
		return BandEmpty
	case count >= max:
		return BandFull
	case count == max-1:
		return BandNearFull
	default:
		return BandNormal
	}
}

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandEmpty:
		return "EMPTY"
	case BandNormal:
		return "NORMAL"
	case BandNearFull:
		return "NEAR_FULL"
	case BandFull:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Off    = Color{}
	Red    = Color{R: 255}
	Green  = Color{G: 255}
	Blue   = Color{B: 255}
	Yellow = Color{R: 255, G: 255}
)

// Color returns the indicator color for the band:
// blue when empty, green when normal, yellow when near full, red when full.
func (b Band) Color() Color {
	switch b {
	case BandEmpty:
		return Blue
	case BandNormal:
		return Green
	case BandNearFull:
		return Yellow
	case BandFull:
		return Red
	default:
		return Off
	}
}
