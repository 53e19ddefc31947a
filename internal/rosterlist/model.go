package rosterlist

import (
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/selection"
)

// Model 保存排班表列表、勾选状态和搜索词
type Model struct {
	rosters  []domain.RosterHeader
	selected selection.Set[int64]
	search   string
}

// Filter 按名称或代码做不区分大小写的子串匹配，空搜索词返回全部
func Filter(rosters []domain.RosterHeader, term string) []domain.RosterHeader {
	term = strings.ToLower(term)
	out := make([]domain.RosterHeader, 0, len(rosters))
	for _, r := range rosters {
		if strings.Contains(strings.ToLower(r.Name.String()), term) ||
			strings.Contains(strings.ToLower(r.Code.String()), term) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Model) Replace(rosters []domain.RosterHeader) {
	m.rosters = rosters
	m.selected.Retain(func(id int64) bool {
		return slices.ContainsFunc(rosters, func(r domain.RosterHeader) bool { return int64(r.ID) == id })
	})
}

// Reset 清空列表但不改变勾选状态
func (m *Model) Reset() {
	m.rosters = nil
}

func (m *Model) Rosters() []domain.RosterHeader {
	return m.rosters
}

func (m *Model) Len() int {
	return len(m.rosters)
}

func (m *Model) SetSearch(term string) {
	m.search = term
}

func (m *Model) Search() string {
	return m.search
}

// Filtered 是当前可见的行，不会修改底层集合
func (m *Model) Filtered() []domain.RosterHeader {
	return Filter(m.rosters, m.search)
}

func (m *Model) Toggle(id int64) bool {
	return m.selected.Toggle(id)
}

// ToggleAll 作用于完整的列表而不是过滤后的结果
func (m *Model) ToggleAll() {
	ids := make([]int64, len(m.rosters))
	for i, r := range m.rosters {
		ids[i] = int64(r.ID)
	}
	m.selected.ToggleAll(ids)
}

func (m *Model) IsSelected(id int64) bool {
	return m.selected.Contains(id)
}

func (m *Model) AllSelected() bool {
	return m.selected.AllSelected(len(m.rosters))
}

func (m *Model) SelectedIDs() []int64 {
	return m.selected.IDs()
}

// Selected 按列表顺序返回被勾选的排班表
func (m *Model) Selected() []domain.RosterHeader {
	out := []domain.RosterHeader{}
	for _, r := range m.rosters {
		if m.selected.Contains(int64(r.ID)) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Model) ClearSelection() {
	m.selected.Clear()
}

// FindByCode 先按代码查找，找不到时把参数当作排班表 ID 再找一次
func (m *Model) FindByCode(code string) (domain.RosterHeader, bool) {
	for _, r := range m.rosters {
		if r.Code.String() == code {
			return r, true
		}
	}
	for _, r := range m.rosters {
		if r.ID.String() == code {
			return r, true
		}
	}
	return domain.RosterHeader{}, false
}

type Snapshot struct {
	Rosters  []domain.RosterHeader `json:"rosters"`
	Selected []int64               `json:"selected"`
	Search   string                `json:"search"`
}

func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Rosters:  slices.Clone(m.rosters),
		Selected: m.selected.IDs(),
		Search:   m.search,
	}
}

func Restore(s Snapshot) *Model {
	return &Model{
		rosters:  s.Rosters,
		selected: selection.FromIDs(s.Selected),
		search:   s.Search,
	}
}
