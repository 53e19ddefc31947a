package screen

import (
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/dialog"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/rosterlist"
)

type RosterView struct {
	domain.RosterHeader
	Selected bool `json:"selected"`
}

// UploadView 不带解析出来的行，只给出行数和进度
type UploadView struct {
	State    dialog.State `json:"state"`
	FileName string       `json:"fileName"`
	RowCount int          `json:"rowCount"`
	Progress int          `json:"progress"`
}

type ListView struct {
	Loading     bool                            `json:"loading"`
	Search      string                          `json:"search"`
	Rosters     []RosterView                    `json:"rosters"`
	Total       int                             `json:"total"`
	SelectedIDs []int64                         `json:"selectedIds"`
	AllSelected bool                            `json:"allSelected"`
	User        *domain.CurrentUser             `json:"currentUser"`
	Alert       *Alert                          `json:"alert"`
	Create      dialog.View[dialog.RosterDraft] `json:"createDialog"`
	Delete      dialog.View[dialog.DeleteDraft] `json:"deleteDialog"`
	Export      dialog.View[struct{}]           `json:"exportDialog"`
	Upload      UploadView                      `json:"uploadDialog"`
}

func (s *ListScreen) View() ListView {
	alert := s.deps.Alerts.view()

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.model.Filtered()
	rosters := make([]RosterView, len(filtered))
	for i, r := range filtered {
		rosters[i] = RosterView{RosterHeader: r, Selected: s.model.IsSelected(int64(r.ID))}
	}

	var user *domain.CurrentUser
	if s.user != nil {
		u := *s.user
		user = &u
	}

	up := s.upload.Draft()
	return ListView{
		Loading:     s.loading > 0,
		Search:      s.model.Search(),
		Rosters:     rosters,
		Total:       s.model.Len(),
		SelectedIDs: s.model.SelectedIDs(),
		AllSelected: s.model.AllSelected(),
		User:        user,
		Alert:       alert,
		Create:      s.create.View(),
		Delete:      s.remove.View(),
		Export:      s.export.View(),
		Upload: UploadView{
			State:    s.upload.State(),
			FileName: up.FileName,
			RowCount: up.RowCount,
			Progress: up.Progress,
		},
	}
}

// ListSnapshot 是列表页面可以持久化的状态
type ListSnapshot struct {
	Model  rosterlist.Snapshot             `json:"model"`
	User   *domain.CurrentUser             `json:"user,omitempty"`
	Create dialog.View[dialog.RosterDraft] `json:"create"`
	Delete dialog.View[dialog.DeleteDraft] `json:"delete"`
	Export dialog.View[struct{}]           `json:"export"`
	Upload dialog.View[dialog.UploadDraft] `json:"upload"`
}

func (s *ListScreen) Snapshot() ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ListSnapshot{
		Model:  s.model.Snapshot(),
		User:   s.user,
		Create: s.create.View(),
		Delete: s.remove.View(),
		Export: s.export.View(),
		Upload: s.upload.View(),
	}
}

func RestoreListScreen(deps Deps, snap ListSnapshot) *ListScreen {
	s := NewListScreen(deps)
	s.model = *rosterlist.Restore(snap.Model)
	s.user = snap.User
	s.create = dialog.Restore(dialog.KeepOpen, snap.Create)
	s.remove = dialog.Restore(dialog.CloseAndAlert, snap.Delete)
	s.export = dialog.Restore(dialog.CloseAndAlert, snap.Export)
	s.upload = dialog.Restore(dialog.KeepOpen, snap.Upload)
	return s
}
