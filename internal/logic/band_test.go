package logic

import "testing"

func TestBandFor(t *testing.T) {
	tests := []struct {
		count int
		want  Band
	}{
		{0, BandEmpty},
		{1, BandNormal},
		{5, BandNormal},
		{6, BandNormal},
		{7, BandNearFull},
		{8, BandFull},
		{9, BandFull},
		{-1, BandEmpty},
	}

	for _, tt := range tests {
		if got := BandFor(tt.count, MaxCapacity); got != tt.want {
			t.Errorf("BandFor(%d, %d): got %s, want %s", tt.count, MaxCapacity, got, tt.want)
		}
	}
}

func TestBandColor(t *testing.T) {
	tests := []struct {
		band Band
		want Color
	}{
		{BandEmpty, Blue},
		{BandNormal, Green},
		{BandNearFull, Yellow},
		{BandFull, Red},
		{Band(99), Off},
	}

	for _, tt := range tests {
		if got := tt.band.Color(); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.band, got, tt.want)
		}
	}
}

func TestBandString(t *testing.T) {
	if BandNearFull.String() != "NEAR_FULL" {
		t.Errorf("got %q", BandNearFull.String())
	}
	if Band(99).String() != "UNKNOWN" {
		t.Errorf("got %q", Band(99).String())
	}
}
