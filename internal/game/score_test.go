package game

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		km   float64
		want int
	}{
		{0, 5000},
		{9.999, 5000},
		{10, 4000},
		{49.9, 4000},
		{50, 3000},
		{99.99, 3000},
		{100, 2000},
		{499, 2000},
		{500, 1000},
		{999.999, 1000},
		{1000, 3032},
		{2000, 1839},
		{5000, 410},
		{10000, 33},
		{20015, 0},
	}

	for _, tt := range tests {
		if got := Score(tt.km); got != tt.want {
			t.Errorf("Score(%v) = %d, want %d", tt.km, got, tt.want)
		}
	}
}

func TestScoreMatchesExponentialTail(t *testing.T) {
	for _, km := range []float64{1000, 1234.5, 3000, 7777, 15000} {
		want := int(math.Floor(5000 * math.Exp(-km/2000)))
		if got := Score(km); got != want {
			t.Errorf("Score(%v) = %d, want %d", km, got, want)
		}
	}
}

func TestScoreNonIncreasingWithinSegments(t *testing.T) {
	prev := Score(0)
	for km := 0.25; km <= 21000; km += 0.25 {
		got := Score(km)
		if got < 0 {
			t.Fatalf("Score(%v) = %d, want >= 0", km, got)
		}
		// The step table ends at 1000 km, where the tail restarts higher.
		if km != 1000 && got > prev {
			t.Fatalf("Score(%v) = %d rose above %d", km, got, prev)
		}
		prev = got
	}
}

func TestScoreNaN(t *testing.T) {
	if got := Score(math.NaN()); got != 0 {
		t.Errorf("Score(NaN) = %d, want 0", got)
	}
}
