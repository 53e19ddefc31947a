package grid

import "testing"

func TestDefaultColumnWidth(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{0, 300},
		{2, 300},
		{3, 300},
		{4, 250},
		{5, 250},
		{7, 200},
		{10, 180},
		{31, 180},
	}
	for _, tt := range tests {
		if got := DefaultColumnWidth(tt.days); got != tt.want {
			t.Errorf("DefaultColumnWidth(%d) = %d, want %d", tt.days, got, tt.want)
		}
	}
}

func TestEffectiveWidth(t *testing.T) {
	if got := EffectiveWidth(0, 2); got != 300 {
		t.Errorf("unset user width: got %d, want 300", got)
	}
	if got := EffectiveWidth(220, 2); got != 220 {
		t.Errorf("user width: got %d, want 220", got)
	}
}

func TestSliderBoundsClamp(t *testing.T) {
	b := SliderBounds(10) // 默认 180
	if b.Min != 150 || b.Max != 400 {
		t.Fatalf("bounds: got %+v", b)
	}
	tests := []struct{ in, want int }{
		{100, 150},
		{150, 150},
		{154, 150},
		{156, 160},
		{399, 400},
		{900, 400},
	}
	for _, tt := range tests {
		if got := b.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if b := SliderBounds(2); b.Min != 250 || b.Max != 400 {
		t.Errorf("2 days: got %+v", b)
	}
}

func TestGridColumnWidth(t *testing.T) {
	g := loadedGrid(t) // 5 天
	if got := g.ColumnWidth(); got != 250 {
		t.Errorf("default: got %d, want 250", got)
	}
	if got := g.SetColumnWidth(310); got != 310 {
		t.Errorf("user: got %d, want 310", got)
	}
	if got := g.SetColumnWidth(0); got != 250 {
		t.Errorf("reset: got %d, want 250", got)
	}
}

func TestSplitSlots(t *testing.T) {
	tests := []struct {
		in, l1, l2 string
	}{
		{"", "", ""},
		{"a", "a", ""},
		{"a | b", "a | b", ""},
		{"a | b | c", "a | b", "c"},
		{"a | b | c | d", "a | b", "c | d"},
	}
	for _, tt := range tests {
		l1, l2 := SplitSlots(tt.in)
		if l1 != tt.l1 || l2 != tt.l2 {
			t.Errorf("SplitSlots(%q) = %q, %q; want %q, %q", tt.in, l1, l2, tt.l1, tt.l2)
		}
	}
}

func TestOptionIndex(t *testing.T) {
	idx := sampleIndex()

	dt := idx.DayTypeOptions()
	if len(dt) != 2 || dt[0].Value != "W" || dt[0].Label != "W - Working" {
		t.Errorf("day types: %+v", dt)
	}

	if opts := idx.ScheduleOptions("unknown"); opts == nil || len(opts) != 0 {
		t.Errorf("unknown job: expected empty non-nil set, got %#v", opts)
	}
	if opts := idx.ScheduleOptions("N01"); len(opts) != 2 || opts[1].Label != "E - 16:00-20:00 | 20:30-23:00" {
		t.Errorf("N01 options: %+v", opts)
	}

	var nilIdx *OptionIndex
	if s, h := nilIdx.Resolve("N01", "M"); s != "" || h != "" {
		t.Errorf("nil index should resolve to empty strings")
	}
}
