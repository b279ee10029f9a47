package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/search/operation"
)

func intPtr(v int) *int { return &v }

func TestNew_Defaults(t *testing.T) {
	r, err := New("", "", "весна", 0, 0, 0, Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "весна" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Operation() != operation.SearchRetrieve {
		t.Errorf("Operation() = %q, want searchRetrieve (default)", r.Operation())
	}
	if r.StartRecord() != 1 {
		t.Errorf("StartRecord() = %d, want 1", r.StartRecord())
	}
	if r.MaximumRecords() != 0 {
		t.Errorf("MaximumRecords() = %d, want 0", r.MaximumRecords())
	}
	if !r.Filters().IsEmpty() {
		t.Error("Filters() should be empty")
	}
}

func TestNew_Clamping(t *testing.T) {
	tests := []struct {
		name               string
		start, max, cap    int
		wantStart, wantMax int
	}{
		{"negative start", -5, 10, 0, 1, 10},
		{"negative max", 3, -1, 0, 3, 0},
		{"capped max", 1, 500, 50, 1, 50},
		{"under cap", 21, 10, 50, 21, 10},
		{"no cap", 1, 500, 0, 1, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(operation.SearchRetrieve, "2.0", "q", tt.start, tt.max, tt.cap, Filters{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.StartRecord() != tt.wantStart {
				t.Errorf("StartRecord() = %d, want %d", r.StartRecord(), tt.wantStart)
			}
			if r.MaximumRecords() != tt.wantMax {
				t.Errorf("MaximumRecords() = %d, want %d", r.MaximumRecords(), tt.wantMax)
			}
		})
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(operation.SearchRetrieve, "", strings.Repeat("a", MaxQueryLength+1), 1, 10, 0, Filters{})
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestNew_InvertedYears(t *testing.T) {
	_, err := New(operation.SearchRetrieve, "", "", 1, 10, 0, Filters{YearFrom: intPtr(1930), YearTo: intPtr(1920)})
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	var pe *domain.ParameterError
	if !errors.As(err, &pe) || pe.Name != "x-year-from" {
		t.Errorf("expected ParameterError for x-year-from, got %v", err)
	}
}

func TestFilters_IsEmpty(t *testing.T) {
	if (Filters{Language: "de"}).IsEmpty() {
		t.Error("language filter should not be empty")
	}
	if (Filters{YearTo: intPtr(1925)}).IsEmpty() {
		t.Error("year filter should not be empty")
	}
}
