package filter

import (
	"math"
	"strings"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

// --- Range tests ---

func TestNewRangeFilter_Valid(t *testing.T) {
	tests := []struct {
		name             string
		lo, hi           *int64
		wantMin, wantMax int64
	}{
		{"lower only", int64Ptr(10), nil, 10, math.MaxInt64},
		{"upper only", nil, int64Ptr(20), math.MinInt64, 20},
		{"both", int64Ptr(10), int64Ptr(20), 10, 20},
		{"single point", int64Ptr(5), int64Ptr(5), 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRangeFilter(tt.lo, tt.hi)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Min() != tt.wantMin {
				t.Errorf("Min() = %d, want %d", r.Min(), tt.wantMin)
			}
			if r.Max() != tt.wantMax {
				t.Errorf("Max() = %d, want %d", r.Max(), tt.wantMax)
			}
			if r.OpenMin() != (tt.lo == nil) {
				t.Error("OpenMin() mismatch")
			}
			if r.OpenMax() != (tt.hi == nil) {
				t.Error("OpenMax() mismatch")
			}
		})
	}
}

func TestNewRangeFilter_NoBoundary(t *testing.T) {
	_, err := NewRangeFilter(nil, nil)
	if err == nil {
		t.Fatal("expected error for no boundary")
	}
	if !strings.Contains(err.Error(), "at least one") {
		t.Errorf("error = %q", err)
	}
}

func TestNewRangeFilter_Inverted(t *testing.T) {
	_, err := NewRangeFilter(int64Ptr(20), int64Ptr(10))
	if err == nil {
		t.Fatal("expected error for inverted bounds")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %q", err)
	}
}

// --- Condition tests ---

func TestNewMatch_Valid(t *testing.T) {
	c, err := NewMatch("magazine", "Огонёк")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "magazine" {
		t.Errorf("Key() = %q", c.Key())
	}
	if c.Match() != "Огонёк" {
		t.Errorf("Match() = %q", c.Match())
	}
	if !c.IsMatch() {
		t.Error("IsMatch() = false")
	}
	if c.IsRange() {
		t.Error("IsRange() = true for match condition")
	}
	if c.Range() != nil {
		t.Error("Range() should be nil for match")
	}
}

func TestNewMatchAny_Values(t *testing.T) {
	c, err := NewMatchAny("language", "de", "de-de", "german")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(c.Values()); got != 3 {
		t.Errorf("Values() len = %d, want 3", got)
	}
	if c.Match() != "de" {
		t.Errorf("Match() = %q, want first value", c.Match())
	}
}

func TestNewMatch_EmptyKey(t *testing.T) {
	_, err := NewMatch("", "go")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "key is required") {
		t.Errorf("error = %q", err)
	}
}

func TestNewMatch_EmptyValue(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{"single empty", []string{""}},
		{"none", nil},
		{"one of many empty", []string{"en", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatchAny("language", tt.values...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "match value") {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestNewRange_Valid(t *testing.T) {
	r, _ := NewRangeFilter(int64Ptr(0), int64Ptr(100))
	c, err := NewRange("issue_date_epoch_ms", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "issue_date_epoch_ms" {
		t.Errorf("Key() = %q", c.Key())
	}
	if !c.IsRange() {
		t.Error("IsRange() = false")
	}
	if c.IsMatch() {
		t.Error("IsMatch() = true for range condition")
	}
	if c.Match() != "" {
		t.Error("Match() should be empty for range")
	}
	if c.Range() == nil {
		t.Fatal("Range() should not be nil")
	}
}

func TestNewRange_EmptyKey(t *testing.T) {
	r, _ := NewRangeFilter(int64Ptr(0), nil)
	_, err := NewRange("", r)
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- Expression tests ---

func TestNewExpression_Valid(t *testing.T) {
	m, _ := NewMatch("form", "Журнал")
	expr, err := NewExpression([]Condition{m}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Must()) != 1 {
		t.Errorf("Must() len = %d", len(expr.Must()))
	}
	if len(expr.Should()) != 0 {
		t.Errorf("Should() len = %d", len(expr.Should()))
	}
	if len(expr.MustNot()) != 0 {
		t.Errorf("MustNot() len = %d", len(expr.MustNot()))
	}
	if expr.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty expression")
	}
}

func TestNewExpression_Empty(t *testing.T) {
	expr, err := NewExpression(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Error("IsEmpty() = false for empty expression")
	}
}

func TestNewExpression_TooMany(t *testing.T) {
	conds := make([]Condition, MaxConditionsPerGroup+1)
	for i := range conds {
		conds[i] = Condition{key: "k", values: []string{"v"}}
	}

	tests := []struct {
		name    string
		build   func() error
		wantErr string
	}{
		{"must", func() error { _, err := NewExpression(conds, nil, nil); return err }, "too many must"},
		{"should", func() error { _, err := NewExpression(nil, conds, nil); return err }, "too many should"},
		{"must_not", func() error { _, err := NewExpression(nil, nil, conds); return err }, "too many must_not"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewExpression_AtMaxConditions(t *testing.T) {
	conds := make([]Condition, MaxConditionsPerGroup)
	for i := range conds {
		conds[i] = Condition{key: "k", values: []string{"v"}}
	}
	_, err := NewExpression(conds, conds, conds)
	if err != nil {
		t.Fatalf("unexpected error for exactly max conditions: %v", err)
	}
}
