package grid

import (
	"strings"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

const widthStep = 10

// DayColumns 返回 1..maxDay，没有行时返回空
func DayColumns(rows []domain.RosterDayRow) []int {
	n := MaxDay(rows)
	cols := make([]int, n)
	for i := range cols {
		cols[i] = i + 1
	}
	return cols
}

// DefaultColumnWidth 天数越少列越宽
func DefaultColumnWidth(days int) int {
	switch {
	case days <= 3:
		return 300
	case days <= 5:
		return 250
	case days <= 7:
		return 200
	default:
		return 180
	}
}

type WidthBounds struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

func SliderBounds(days int) WidthBounds {
	def := DefaultColumnWidth(days)
	return WidthBounds{
		Min:  max(150, def-50),
		Max:  max(400, def+100),
		Step: widthStep,
	}
}

// Clamp 把用户拖动的宽度限制在滑块范围内并对齐到步长
func (b WidthBounds) Clamp(width int) int {
	if width <= b.Min {
		return b.Min
	}
	if width >= b.Max {
		return b.Max
	}
	steps := (width - b.Min + b.Step/2) / b.Step
	return min(b.Min+steps*b.Step, b.Max)
}

// EffectiveWidth userWidth 为 0 表示用户没有设置过
func EffectiveWidth(userWidth, days int) int {
	if userWidth > 0 {
		return userWidth
	}
	return DefaultColumnWidth(days)
}

// SplitSlots 把 "a | b | c" 这样的时段描述拆成两行显示
func SplitSlots(slots string) (string, string) {
	if slots == "" {
		return "", ""
	}
	parts := strings.Split(slots, " | ")
	if len(parts) <= 2 {
		return slots, ""
	}
	mid := (len(parts) + 1) / 2
	return strings.Join(parts[:mid], " | "), strings.Join(parts[mid:], " | ")
}
