package screen

import (
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/dialog"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/grid"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/selection"
)

type CellView struct {
	Day            int      `json:"day"`
	DayType        string   `json:"dayType"`
	ScheduleStatus string   `json:"scheduleStatus"`
	Slots          string   `json:"slots"`
	SlotsLine1     string   `json:"slotsLine1"`
	SlotsLine2     string   `json:"slotsLine2"`
	TotalHours     string   `json:"totalHours"`
	AssignedSlots  []string `json:"assignedSlots,omitempty"`
}

// RowView 是表格中的一行。ScheduleOptions 只在该行处于编辑状态时给出
type RowView struct {
	RosterItemID    int64                 `json:"rosterItemId"`
	JobTitle        string                `json:"jobTitle"`
	JobCode         string                `json:"jobCode"`
	UniqueCode      string                `json:"uniqueCode"`
	Day             int                   `json:"day"`
	Selected        bool                  `json:"selected"`
	Editing         bool                  `json:"editing"`
	ScheduleOptions []grid.ScheduleOption `json:"scheduleOptions,omitempty"`
	Cells           []CellView            `json:"cells"`
}

type DetailView struct {
	Roster         domain.RosterHeader             `json:"roster"`
	Title          string                          `json:"title"`
	Loading        bool                            `json:"loading"`
	Active         bool                            `json:"active"`
	Empty          bool                            `json:"empty"`
	DayColumns     []int                           `json:"dayColumns"`
	ColumnWidth    int                             `json:"columnWidth"`
	WidthBounds    grid.WidthBounds                `json:"widthBounds"`
	DayTypeOptions []grid.Option                   `json:"dayTypeOptions"`
	Rows           []RowView                       `json:"rows"`
	SelectedIDs    []int64                         `json:"selectedIds"`
	AllSelected    bool                            `json:"allSelected"`
	EditingRowID   *int64                          `json:"editingRowId"`
	User           *domain.CurrentUser             `json:"currentUser"`
	Alert          *Alert                          `json:"alert"`
	AddJob         dialog.View[dialog.AddJobDraft] `json:"addJobDialog"`
	Delete         dialog.View[dialog.DeleteDraft] `json:"deleteDialog"`
	Export         dialog.View[struct{}]           `json:"exportDialog"`
}

// Title 依次取名称、代码，都为空时显示 "Roster"
func Title(header domain.RosterHeader) string {
	if header.Name != "" {
		return header.Name.String()
	}
	if header.Code != "" {
		return header.Code.String()
	}
	return "Roster"
}

func (s *DetailScreen) View() DetailView {
	alert := s.deps.Alerts.view()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.grid.Options()
	editingID, editing := s.grid.EditingRow()
	columns := s.grid.DayColumns()

	rows := make([]RowView, 0, s.grid.Len())
	for _, r := range s.grid.Rows() {
		row := r
		rv := RowView{
			RosterItemID: row.RosterItemID,
			JobTitle:     row.JobTitle,
			JobCode:      row.JobCode,
			UniqueCode:   row.UniqueCode,
			Day:          row.Day,
			Selected:     s.selected.Contains(row.RosterItemID),
			Editing:      editing && editingID == row.RosterItemID,
			Cells:        make([]CellView, 0, len(columns)),
		}
		if rv.Editing {
			rv.ScheduleOptions = idx.ScheduleOptions(idx.JobKey(&row))
		}
		for _, day := range columns {
			cell := s.grid.DisplayCell(&row, day)
			line1, line2 := grid.SplitSlots(cell.Slots)
			rv.Cells = append(rv.Cells, CellView{
				Day:            day,
				DayType:        cell.DayType,
				ScheduleStatus: cell.ScheduleStatus,
				Slots:          cell.Slots,
				SlotsLine1:     line1,
				SlotsLine2:     line2,
				TotalHours:     cell.TotalHours,
				AssignedSlots:  cell.AssignedSlots,
			})
		}
		rows = append(rows, rv)
	}

	var editingRowID *int64
	if editing {
		editingRowID = &editingID
	}

	var user *domain.CurrentUser
	if s.user != nil {
		u := *s.user
		user = &u
	}

	return DetailView{
		Roster:         s.header,
		Title:          Title(s.header),
		Loading:        s.loading > 0,
		Active:         s.grid.Active(),
		Empty:          s.grid.Empty(),
		DayColumns:     columns,
		ColumnWidth:    s.grid.ColumnWidth(),
		WidthBounds:    s.grid.WidthBounds(),
		DayTypeOptions: idx.DayTypeOptions(),
		Rows:           rows,
		SelectedIDs:    s.selected.IDs(),
		AllSelected:    s.selected.AllSelected(s.grid.Len()),
		EditingRowID:   editingRowID,
		User:           user,
		Alert:          alert,
		AddJob:         s.addJob.View(),
		Delete:         s.remove.View(),
		Export:         s.export.View(),
	}
}

// DetailSnapshot 是详情页面可以持久化的状态。参考数据一起保存，恢复时重建选项索引
type DetailSnapshot struct {
	Header     domain.RosterHeader             `json:"header"`
	Mounted    bool                            `json:"mounted"`
	User       *domain.CurrentUser             `json:"user,omitempty"`
	Planning   []domain.PlanningOption         `json:"planning,omitempty"`
	Scheduling []domain.SchedulingStatusItem   `json:"scheduling,omitempty"`
	Grid       grid.Snapshot                   `json:"grid"`
	Selected   []int64                         `json:"selected"`
	AddJob     dialog.View[dialog.AddJobDraft] `json:"addJob"`
	Delete     dialog.View[dialog.DeleteDraft] `json:"delete"`
	Export     dialog.View[struct{}]           `json:"export"`
}

func (s *DetailScreen) Snapshot() DetailSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DetailSnapshot{
		Header:     s.header,
		Mounted:    s.mounted,
		User:       s.user,
		Planning:   s.planning,
		Scheduling: s.scheduling,
		Grid:       s.grid.Snapshot(),
		Selected:   s.selected.IDs(),
		AddJob:     s.addJob.View(),
		Delete:     s.remove.View(),
		Export:     s.export.View(),
	}
}

func RestoreDetailScreen(deps Deps, snap DetailSnapshot) *DetailScreen {
	s := NewDetailScreen(deps)
	s.header = snap.Header
	s.mounted = snap.Mounted
	s.user = snap.User
	s.planning = snap.Planning
	s.scheduling = snap.Scheduling
	s.grid = grid.Restore(snap.Grid, grid.NewOptionIndex(snap.Planning, snap.Scheduling))
	s.selected = selection.FromIDs(snap.Selected)
	s.addJob = dialog.Restore(dialog.KeepOpen, snap.AddJob)
	s.remove = dialog.Restore(dialog.CloseAndAlert, snap.Delete)
	s.export = dialog.Restore(dialog.CloseAndAlert, snap.Export)
	// 恢复时正在加载的岗位列表已经不会返回了
	if d := s.addJob.Draft(); d.Loading {
		d.Loading = false
		_ = s.addJob.Amend(d)
	}
	return s
}
