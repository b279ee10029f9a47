package page

import (
	"math"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name                   string
		start, max, cap        int
		wantFetch              int
		wantSliceS, wantSliceE int
	}{
		{"first page", 1, 10, 0, 10, 0, 10},
		{"third page", 21, 10, 0, 30, 20, 30},
		{"start clamped", -3, 10, 0, 10, 0, 10},
		{"max clamped", 5, -1, 0, 4, 4, 4},
		{"capped", 5000, 10, 1000, 1000, 4999, 5009},
		{"custom cap", 1, 50, 20, 20, 0, 50},
		{"start at max int", math.MaxInt, 10, 0, 1000, math.MaxInt - 1, math.MaxInt},
		{"start and size at max int", math.MaxInt, math.MaxInt, 0, 1000, math.MaxInt - 1, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan(tt.start, tt.max, tt.cap)
			if p.FetchCount != tt.wantFetch {
				t.Errorf("FetchCount = %d, want %d", p.FetchCount, tt.wantFetch)
			}
			if p.SliceStart != tt.wantSliceS || p.SliceEnd != tt.wantSliceE {
				t.Errorf("slice = [%d,%d), want [%d,%d)", p.SliceStart, p.SliceEnd, tt.wantSliceS, tt.wantSliceE)
			}
		})
	}
}

func TestPlan_CountOnly(t *testing.T) {
	if !Plan(1, 0, 0).CountOnly() {
		t.Error("maximumRecords=0 must be count only")
	}
	if !Plan(1, -4, 0).CountOnly() {
		t.Error("negative maximumRecords must be count only")
	}
	if Plan(1, 1, 0).CountOnly() {
		t.Error("maximumRecords=1 must search")
	}
}

func TestFetchPlan_Window(t *testing.T) {
	tests := []struct {
		name               string
		start, max         int
		returned, total    int
		wantStart, wantEnd int
	}{
		{"full page", 1, 10, 10, 25, 0, 10},
		{"last partial page", 21, 10, 25, 25, 20, 25},
		{"beyond results", 31, 10, 25, 25, 25, 25},
		{"engine returned fewer than total", 1, 10, 4, 25, 0, 4},
		{"returned exceeds total", 1, 10, 12, 3, 0, 3},
		{"start at max int", math.MaxInt, 10, 1000, 5000, 1000, 1000},
		{"start near max int", math.MaxInt - 5, 10, 1000, 5000, 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Plan(tt.start, tt.max, 0).Window(tt.returned, tt.total)
			if w.Start != tt.wantStart || w.End != tt.wantEnd {
				t.Errorf("window = [%d,%d), want [%d,%d)", w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
			if w.Start < 0 || w.Start > w.End || w.End > w.Total {
				t.Errorf("window invariant violated: %+v", w)
			}
			if w.Len() > tt.max {
				t.Errorf("window length %d exceeds page size %d", w.Len(), tt.max)
			}
		})
	}
}

func TestFetchPlan_PositionsContiguous(t *testing.T) {
	p := Plan(7, 5, 0)
	w := p.Window(100, 100)
	for i := 0; i < w.Len(); i++ {
		if got := p.Position(i); got != 7+i {
			t.Errorf("Position(%d) = %d, want %d", i, got, 7+i)
		}
	}
}

func TestNextRecordPosition(t *testing.T) {
	tests := []struct {
		name            string
		start, max, tot int
		want            int
		wantOK          bool
	}{
		{"more pages", 1, 10, 25, 11, true},
		{"last page", 21, 10, 25, 0, false},
		{"exact boundary", 16, 10, 25, 0, false},
		{"boundary inclusive", 15, 10, 25, 25, true},
		{"count only", 1, 0, 25, 0, false},
		{"empty", 1, 10, 0, 0, false},
		{"start at max int, no hits", math.MaxInt, 10, 0, 0, false},
		{"start at max int", math.MaxInt, 10, 25, 0, false},
		{"size at max int", 1, math.MaxInt, 25, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextRecordPosition(tt.start, tt.max, tt.tot)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NextRecordPosition(%d,%d,%d) = (%d,%v), want (%d,%v)",
					tt.start, tt.max, tt.tot, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
