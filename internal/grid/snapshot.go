package grid

import (
	"slices"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

// Snapshot 是表格状态的可序列化形式，用于在进程之间恢复工作区
type Snapshot struct {
	Rows         []domain.RosterDayRow `json:"rows"`
	Active       bool                  `json:"active"`
	EditingRowID *int64                `json:"editingRowID,omitempty"`
	Working      map[int]CellEdit      `json:"working,omitempty"`
	Chosen       []int                 `json:"chosen,omitempty"`
	UserWidth    int                   `json:"userWidth"`
}

func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{
		Rows:      make([]domain.RosterDayRow, len(g.rows)),
		Active:    g.active,
		UserWidth: g.userWidth,
	}
	for i := range g.rows {
		s.Rows[i] = g.rows[i].Clone()
	}
	if e, ok := g.session.(Editing); ok {
		id := e.RowID
		s.EditingRowID = &id
		s.Working = e.clone().Working
		for day := range e.chosen {
			s.Chosen = append(s.Chosen, day)
		}
		slices.Sort(s.Chosen)
	}
	return s
}

// Restore 按快照重建表格；快照中的行已经归一化过，这里不再处理
func Restore(s Snapshot, idx *OptionIndex) *Grid {
	g := &Grid{
		rows:      s.Rows,
		active:    s.Active,
		index:     idx,
		session:   Viewing{},
		userWidth: s.UserWidth,
	}
	if s.EditingRowID != nil && g.find(*s.EditingRowID) >= 0 {
		e := newEditing(*s.EditingRowID)
		for day, edit := range s.Working {
			e.Working[day] = edit
		}
		for _, day := range s.Chosen {
			e.chosen[day] = true
		}
		g.session = e
	}
	return g
}
