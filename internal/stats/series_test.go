package stats

import (
	"math"
	"testing"
)

func TestSeriesAppendAndRead(t *testing.T) {
	s := NewSeries()
	if s.Len() != 0 {
		t.Fatalf("new series has length %d", s.Len())
	}
	if !math.IsNaN(s.Last()) {
		t.Fatal("empty series Last should be NaN")
	}

	s.Append(1)
	s.Append(2)
	s.Append(4)

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if s.At(1) != 2 {
		t.Errorf("At(1) = %v, want 2", s.At(1))
	}
	if s.Last() != 4 {
		t.Errorf("Last = %v, want 4", s.Last())
	}
	if got := s.Mean(); got != 7.0/3.0 {
		t.Errorf("Mean = %v, want %v", got, 7.0/3.0)
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	s := NewSeries()
	s.Append(10)
	vals := s.Values()
	vals[0] = -1
	if s.At(0) != 10 {
		t.Fatal("mutating Values() copy altered the series")
	}
}
