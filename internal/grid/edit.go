package grid

import "github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"

func (g *Grid) Session() Session {
	if e, ok := g.session.(Editing); ok {
		return e.clone()
	}
	return Viewing{}
}

// EditingRow 返回正在编辑的行
func (g *Grid) EditingRow() (int64, bool) {
	e, ok := g.session.(Editing)
	if !ok {
		return 0, false
	}
	return e.RowID, true
}

// BeginEdit 进入编辑状态，用已提交的数据初始化工作副本。
// 如果另一行正在编辑，它的修改会被直接丢弃。
func (g *Grid) BeginEdit(rowID int64) error {
	row, ok := g.Row(rowID)
	if !ok {
		return ErrRowNotFound
	}

	e := newEditing(rowID)
	for _, day := range g.DayColumns() {
		cell := row.Cell(day)
		e.Working[day] = CellEdit{
			DayType:        strptr(cell.DayType),
			ScheduleStatus: strptr(cell.ScheduleStatus),
			Slots:          strptr(cell.Slots),
			TotalHours:     strptr(cell.TotalHours),
		}
	}
	g.session = e
	return nil
}

func (g *Grid) editing(rowID int64, day int) (Editing, *domain.RosterDayRow, error) {
	e, ok := g.session.(Editing)
	if !ok || e.RowID != rowID {
		return Editing{}, nil, ErrNotEditing
	}
	row, ok := g.Row(rowID)
	if !ok {
		return Editing{}, nil, ErrRowNotFound
	}
	if day < 1 || day > MaxDay(g.rows) {
		return Editing{}, nil, ErrDayOutOfRange
	}
	return e, row, nil
}

func (g *Grid) SetDayType(rowID int64, day int, value string) error {
	e, _, err := g.editing(rowID, day)
	if err != nil {
		return err
	}
	edit := e.Working[day]
	edit.DayType = strptr(value)
	e.Working[day] = edit
	return nil
}

// SetSchedule 选择班次，同时根据参考数据解析时段描述和总工时
func (g *Grid) SetSchedule(rowID int64, day int, code string) error {
	e, row, err := g.editing(rowID, day)
	if err != nil {
		return err
	}
	slots, hours := g.index.Resolve(g.index.JobKey(row), code)
	edit := e.Working[day]
	edit.ScheduleStatus = strptr(code)
	edit.Slots = strptr(slots)
	edit.TotalHours = strptr(hours)
	e.Working[day] = edit
	e.chosen[day] = true
	return nil
}

func (g *Grid) reresolve() {
	e, ok := g.session.(Editing)
	if !ok {
		return
	}
	row, ok := g.Row(e.RowID)
	if !ok {
		return
	}
	job := g.index.JobKey(row)
	for day := range e.chosen {
		edit := e.Working[day]
		if edit.ScheduleStatus == nil {
			continue
		}
		slots, hours := g.index.Resolve(job, *edit.ScheduleStatus)
		edit.Slots = strptr(slots)
		edit.TotalHours = strptr(hours)
		e.Working[day] = edit
	}
}

// Commit 把工作副本合并到已提交的数据中（仅 1..row.Day），然后回到浏览状态。
// 工作副本中没有的字段保留原值，已分配时段占位清空。
func (g *Grid) Commit(rowID int64) error {
	e, ok := g.session.(Editing)
	if !ok || e.RowID != rowID {
		return ErrNotEditing
	}
	row, ok := g.Row(rowID)
	if !ok {
		g.session = Viewing{}
		return ErrRowNotFound
	}

	merge(row, e)
	g.session = Viewing{}
	return nil
}

func merge(row *domain.RosterDayRow, e Editing) {
	for len(row.Days) < row.Day {
		row.Days = append(row.Days, domain.DayCell{})
	}
	for day := 1; day <= row.Day; day++ {
		cell := &row.Days[day-1]
		if edit, ok := e.Working[day]; ok {
			cell.DayType = pick(edit.DayType, cell.DayType)
			cell.ScheduleStatus = pick(edit.ScheduleStatus, cell.ScheduleStatus)
			cell.Slots = pick(edit.Slots, cell.Slots)
			cell.TotalHours = pick(edit.TotalHours, cell.TotalHours)
		}
		cell.AssignedSlots = []string{}
	}
}

// Pending 返回所有行的副本，正在编辑的行已合并工作副本。表格本身不变
func (g *Grid) Pending() []domain.RosterDayRow {
	out := make([]domain.RosterDayRow, len(g.rows))
	for i := range g.rows {
		out[i] = g.rows[i].Clone()
	}
	if e, ok := g.session.(Editing); ok {
		for i := range out {
			if out[i].RosterItemID == e.RowID {
				merge(&out[i], e)
			}
		}
	}
	return out
}

// Discard 放弃当前的工作副本
func (g *Grid) Discard() {
	g.session = Viewing{}
}

// DisplayCell 返回某个单元格应该显示的值：正在编辑的行优先取工作副本，其它行只读已提交的数据
func (g *Grid) DisplayCell(row *domain.RosterDayRow, day int) domain.DayCell {
	cell := row.Cell(day)
	e, ok := g.session.(Editing)
	if !ok || e.RowID != row.RosterItemID {
		return cell
	}
	edit, ok := e.Working[day]
	if !ok {
		return cell
	}
	return domain.DayCell{
		DayType:        pick(edit.DayType, cell.DayType),
		ScheduleStatus: pick(edit.ScheduleStatus, cell.ScheduleStatus),
		Slots:          pick(edit.Slots, cell.Slots),
		TotalHours:     pick(edit.TotalHours, cell.TotalHours),
		AssignedSlots:  cell.AssignedSlots,
	}
}
