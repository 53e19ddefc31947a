package grid

// Session 是编辑会话的状态，只有 Viewing 和 Editing 两种
type Session interface {
	isSession()
}

// Viewing 表示当前没有行处于编辑状态
type Viewing struct{}

// Editing 表示 RowID 对应的行正在编辑，Working 保存尚未提交的修改
type Editing struct {
	RowID   int64
	Working map[int]CellEdit

	// 用户在本次编辑中选择过班次的天，参考数据变化时需要重新解析
	chosen map[int]bool
}

func (Viewing) isSession() {}
func (Editing) isSession() {}

// CellEdit 中为 nil 的字段表示没有修改，提交时保留原值
type CellEdit struct {
	DayType        *string `json:"dayType,omitempty"`
	ScheduleStatus *string `json:"scheduleStatus,omitempty"`
	Slots          *string `json:"slots,omitempty"`
	TotalHours     *string `json:"totalHours,omitempty"`
}

func newEditing(rowID int64) Editing {
	return Editing{
		RowID:   rowID,
		Working: map[int]CellEdit{},
		chosen:  map[int]bool{},
	}
}

func (e Editing) clone() Editing {
	c := newEditing(e.RowID)
	for day, edit := range e.Working {
		c.Working[day] = edit
	}
	for day, v := range e.chosen {
		c.chosen[day] = v
	}
	return c
}

func strptr(s string) *string {
	return &s
}

func pick(edit *string, committed string) string {
	if edit != nil {
		return *edit
	}
	return committed
}
