// Package grid 实现排班表详情页的按天表格模型：
// 数据归一化、单行编辑会话、班次选项查询以及列布局。
package grid

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

var (
	ErrRowNotFound   = errors.New("row not found")
	ErrNotEditing    = errors.New("row is not being edited")
	ErrDayOutOfRange = errors.New("day out of range")
)

type Grid struct {
	rows      []domain.RosterDayRow
	active    bool
	index     *OptionIndex
	session   Session
	userWidth int
}

func New() *Grid {
	return &Grid{session: Viewing{}}
}

// MaxDay 是所有行中最大的 DAY
func MaxDay(rows []domain.RosterDayRow) int {
	n := 0
	for i := range rows {
		n = max(n, rows[i].Day)
	}
	return n
}

// Normalize 让每一行都拥有 1..MaxDay(rows) 的完整数据，缺失的字段为空字符串。
// 超出范围的已有数据原样保留。
func Normalize(rows []domain.RosterDayRow) []domain.RosterDayRow {
	maxDay := MaxDay(rows)
	out := make([]domain.RosterDayRow, len(rows))
	for i := range rows {
		row := rows[i].Clone()
		for len(row.Days) < maxDay {
			row.Days = append(row.Days, domain.DayCell{})
		}
		out[i] = row
	}
	return out
}

// Load 用后端返回的数据替换整个表格，同时结束任何进行中的编辑
func (g *Grid) Load(rows []domain.RosterDayRow, active bool) {
	g.rows = Normalize(rows)
	g.active = active
	g.session = Viewing{}
}

// Reset 清空表格，用于加载失败的情况
func (g *Grid) Reset() {
	g.rows = nil
	g.session = Viewing{}
}

// Rows 返回当前已提交的数据，调用方不应修改
func (g *Grid) Rows() []domain.RosterDayRow {
	return g.rows
}

func (g *Grid) Len() int {
	return len(g.rows)
}

func (g *Grid) Empty() bool {
	return len(g.rows) == 0
}

func (g *Grid) RowIDs() []int64 {
	ids := make([]int64, len(g.rows))
	for i := range g.rows {
		ids[i] = g.rows[i].RosterItemID
	}
	return ids
}

func (g *Grid) Row(rowID int64) (*domain.RosterDayRow, bool) {
	i := g.find(rowID)
	if i < 0 {
		return nil, false
	}
	return &g.rows[i], true
}

func (g *Grid) find(rowID int64) int {
	return slices.IndexFunc(g.rows, func(r domain.RosterDayRow) bool {
		return r.RosterItemID == rowID
	})
}

func (g *Grid) Active() bool {
	return g.active
}

func (g *Grid) SetActive(active bool) {
	g.active = active
}

func (g *Grid) Options() *OptionIndex {
	return g.index
}

// SetOptions 替换参考数据，并重新解析正在编辑的行中用户选过的班次
func (g *Grid) SetOptions(idx *OptionIndex) {
	g.index = idx
	g.reresolve()
}

func (g *Grid) DayColumns() []int {
	return DayColumns(g.rows)
}

func (g *Grid) ColumnWidth() int {
	return EffectiveWidth(g.userWidth, MaxDay(g.rows))
}

func (g *Grid) UserWidth() int {
	return g.userWidth
}

func (g *Grid) WidthBounds() WidthBounds {
	return SliderBounds(MaxDay(g.rows))
}

// SetColumnWidth 设置用户宽度，返回实际生效的宽度；width <= 0 表示恢复默认
func (g *Grid) SetColumnWidth(width int) int {
	if width <= 0 {
		g.userWidth = 0
	} else {
		g.userWidth = g.WidthBounds().Clamp(width)
	}
	return g.ColumnWidth()
}

// AddRow 在本地新增一行草稿（尚未保存到后端），插入到最前面并直接进入编辑状态
func (g *Grid) AddRow(headerID int64, jobTitle, jobCode string, now time.Time) domain.RosterDayRow {
	days := MaxDay(g.rows)
	if days == 0 {
		days = 1
	}

	seq := 1
	for i := range g.rows {
		if g.rows[i].JobTitle == jobTitle {
			seq++
		}
	}

	id := now.UnixMilli()
	for g.find(id) >= 0 {
		id++
	}

	seqNo := strconv.Itoa(seq)
	row := domain.RosterDayRow{
		RosterHeaderID: headerID,
		RosterItemID:   id,
		JobTitle:       jobTitle,
		JobCode:        jobCode,
		SeqNo:          seqNo,
		UniqueCode:     jobTitle + seqNo,
		Day:            days,
		Days:           make([]domain.DayCell, days),
	}

	g.rows = append([]domain.RosterDayRow{row}, g.rows...)
	g.session = newEditing(id)
	return row.Clone()
}

// RemoveRows 删除指定的行，返回实际删除的数量
func (g *Grid) RemoveRows(ids []int64) int {
	before := len(g.rows)
	g.rows = slices.DeleteFunc(g.rows, func(r domain.RosterDayRow) bool {
		return slices.Contains(ids, r.RosterItemID)
	})
	if e, ok := g.session.(Editing); ok && slices.Contains(ids, e.RowID) {
		g.session = Viewing{}
	}
	return before - len(g.rows)
}
