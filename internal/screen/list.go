package screen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/dialog"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/gateway"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/rosterlist"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
)

// ListScreen 是排班表列表页面的状态。锁只在读写状态时持有，调用后端期间不持有
type ListScreen struct {
	deps Deps

	mu      sync.Mutex
	model   rosterlist.Model
	user    *domain.CurrentUser
	loading int
	seq     uint64 // 最新一次列表请求的序号，旧请求的结果会被丢弃

	create *dialog.Dialog[dialog.RosterDraft]
	remove *dialog.Dialog[dialog.DeleteDraft]
	export *dialog.Dialog[struct{}]
	upload *dialog.Dialog[dialog.UploadDraft]
}

func NewListScreen(deps Deps) *ListScreen {
	return &ListScreen{
		deps:   deps.withDefaults(),
		create: dialog.New[dialog.RosterDraft](dialog.KeepOpen),
		remove: dialog.New[dialog.DeleteDraft](dialog.CloseAndAlert),
		export: dialog.New[struct{}](dialog.CloseAndAlert),
		// 上传期间需要展示进度，所以在提交时不立即关闭
		upload: dialog.New[dialog.UploadDraft](dialog.KeepOpen),
	}
}

func (s *ListScreen) Alerts() *AlertBox {
	return s.deps.Alerts
}

func (s *ListScreen) begin() func() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}
}

// Mount 加载排班表列表和当前用户
func (s *ListScreen) Mount(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Refresh(ctx)
	}()
	go func() {
		defer wg.Done()
		s.loadUser(ctx)
	}()
	wg.Wait()
}

func (s *ListScreen) loadUser(ctx context.Context) {
	user, err := s.deps.Gateway.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.user = nil
		return
	}
	s.user = &user
}

// Refresh 重新拉取排班表列表。请求发出前先清空列表，勾选状态保留到新列表返回
func (s *ListScreen) Refresh(ctx context.Context) {
	done := s.begin()
	defer done()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.model.Reset()
	s.mu.Unlock()

	rosters, err := s.deps.Gateway.FetchRosters(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	if err != nil {
		slog.Warn("排班表列表加载失败", "error", err)
		s.deps.Alerts.Error(MsgLoadFailed)
		return
	}
	s.model.Replace(rosters)
}

func (s *ListScreen) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.SetSearch(term)
}

func (s *ListScreen) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.Toggle(id)
}

func (s *ListScreen) ToggleAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.ToggleAll()
}

// Find 先在内存中的列表里找排班表，找不到时重新拉取一次列表
func (s *ListScreen) Find(ctx context.Context, code string) (domain.RosterHeader, bool) {
	s.mu.Lock()
	r, ok := s.model.FindByCode(code)
	s.mu.Unlock()
	if ok {
		return r, true
	}

	s.Refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.FindByCode(code)
}

/**********************************************
 * 创建排班表
 **********************************************/

func (s *ListScreen) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create.Open(dialog.RosterDraft{})
}

func (s *ListScreen) CancelCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create.Cancel()
}

// SubmitCreateForm 保存表单内容并进入确认步骤，字段校验由调用方完成
func (s *ListScreen) SubmitCreateForm(draft dialog.RosterDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.Confirming = true
	return s.create.Update(draft)
}

// CancelCreateConfirm 关闭确认步骤，回到表单
func (s *ListScreen) CancelCreateConfirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.create.Draft()
	draft.Confirming = false
	return s.create.Update(draft)
}

// ConfirmCreate 提交新排班表。没有当前用户时什么都不做
func (s *ListScreen) ConfirmCreate(ctx context.Context) error {
	s.mu.Lock()
	user := s.user
	if user == nil || user.FullName == "" {
		draft := s.create.Draft()
		draft.Confirming = false
		_ = s.create.Update(draft)
		s.mu.Unlock()
		return nil
	}
	draft, err := s.create.Begin()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	req := gateway.CreateRosterRequest{
		RosterName: draft.Name,
		RosterCode: draft.Code,
		Day:        draft.Days,
		ModifiedBy: user.PUserID.String(),
		Status:     domain.RosterStatusDraft,
	}
	err = func() error {
		done := s.begin()
		defer done()
		return s.deps.Gateway.CreateRoster(ctx, req)
	}()

	s.mu.Lock()
	if err != nil {
		slog.Warn("创建排班表失败", "code", draft.Code, "error", err)
		s.create.Fail(MsgCreateFailed)
		draft := s.create.Draft()
		draft.Confirming = false
		_ = s.create.Update(draft)
		s.deps.Alerts.Error(MsgCreateFailed)
		s.mu.Unlock()
		return nil
	}
	s.create.Succeed()
	s.deps.Alerts.Success(MsgRosterCreated)
	s.mu.Unlock()

	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventRosterCreated,
		RosterName: req.RosterName,
		RosterCode: req.RosterCode,
		Actor:      user.FullName,
		Detail:     fmt.Sprintf("%d days", req.Day),
		OccurredAt: s.deps.Now(),
	})
	s.Refresh(ctx)
	return nil
}

/**********************************************
 * 删除排班表
 **********************************************/

func (s *ListScreen) OpenDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.model.SelectedIDs()
	if len(ids) == 0 {
		return ErrNothingSelected
	}
	s.remove.Open(dialog.DeleteDraft{IDs: ids})
	return nil
}

func (s *ListScreen) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove.Cancel()
}

// ConfirmDelete 删除勾选的排班表。弹窗立即关闭，结果通过提示条报告
func (s *ListScreen) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if _, err := s.remove.Begin(); err != nil {
		s.mu.Unlock()
		return err
	}
	user := s.user
	selected := s.model.Selected()
	s.mu.Unlock()

	if user == nil || user.FullName == "" || len(selected) == 0 {
		return nil
	}

	items := make([]gateway.DeleteRosterItem, len(selected))
	names := make([]string, len(selected))
	for i, r := range selected {
		items[i] = gateway.DeleteRosterItem{
			RosterHeaderID: int64(r.ID),
			ModifiedBy:     user.FullName,
			RosterName:     r.Name.String(),
		}
		names[i] = r.Name.String()
	}

	err := func() error {
		done := s.begin()
		defer done()
		return s.deps.Gateway.DeleteRosters(ctx, items)
	}()
	if err != nil {
		slog.Warn("删除排班表失败", "count", len(items), "error", err)
		s.deps.Alerts.Error(MsgDeleteFailed)
		return nil
	}

	s.deps.Alerts.Success(MsgRosterDeleted)
	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventRosterDeleted,
		Actor:      user.FullName,
		Count:      len(items),
		Detail:     strings.Join(names, ", "),
		OccurredAt: s.deps.Now(),
	})
	s.Refresh(ctx)

	s.mu.Lock()
	s.model.ClearSelection()
	s.mu.Unlock()
	return nil
}

/**********************************************
 * 导出
 **********************************************/

func (s *ListScreen) OpenExport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.export.Open(struct{}{})
}

func (s *ListScreen) CancelExport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.export.Cancel()
}

// ConfirmExport 把当前过滤后的排班表导出为 rosters.xlsx
func (s *ListScreen) ConfirmExport() (*Download, error) {
	s.mu.Lock()
	if _, err := s.export.Begin(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	rosters := s.model.Filtered()
	s.mu.Unlock()

	if len(rosters) == 0 {
		s.deps.Alerts.Error(MsgNothingToExport)
		return nil, nil
	}

	var buf bytes.Buffer
	if err := sheet.WriteRosters(&buf, rosters); err != nil {
		slog.Error("导出排班表失败", "error", err)
		s.deps.Alerts.Error(MsgExportFailed)
		return nil, nil
	}
	s.deps.Alerts.Success(MsgExported)
	return &Download{FileName: sheet.RostersFileName, ContentType: xlsxContentType, Data: buf.Bytes()}, nil
}

/**********************************************
 * 批量上传
 **********************************************/

// StageUpload 保存解析好的表格数据并打开确认弹窗
func (s *ListScreen) StageUpload(fileName string, rows []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload.State() == dialog.StateSubmitting {
		return ErrUploadRunning
	}
	s.upload.Open(dialog.UploadDraft{FileName: fileName, Rows: rows, RowCount: len(rows)})
	return nil
}

func (s *ListScreen) CancelUpload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload.State() == dialog.StateSubmitting {
		return ErrUploadRunning
	}
	s.upload.Cancel()
	return nil
}

// ConfirmUpload 上传数据并记录进度。无论成功与否，结束后弹窗都会关闭并重置
func (s *ListScreen) ConfirmUpload(ctx context.Context) error {
	s.mu.Lock()
	draft, err := s.upload.Begin()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.setUploadProgress(1)
	s.mu.Unlock()

	progress := func(percent int) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.setUploadProgress(percent)
	}

	err = func() error {
		done := s.begin()
		defer done()
		return s.deps.Gateway.MassUpload(ctx, draft.Rows, progress)
	}()

	s.mu.Lock()
	s.upload.Succeed()
	s.mu.Unlock()

	if err != nil {
		slog.Warn("批量上传失败", "file", draft.FileName, "rows", draft.RowCount, "error", err)
		s.deps.Alerts.Error(MsgUploadFailed)
		return nil
	}

	s.deps.Alerts.Success(MsgUploaded)
	actor := ""
	s.mu.Lock()
	if s.user != nil {
		actor = s.user.FullName
	}
	s.mu.Unlock()
	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventRosterUploaded,
		Actor:      actor,
		Count:      draft.RowCount,
		Detail:     draft.FileName,
		OccurredAt: s.deps.Now(),
	})
	s.Refresh(ctx)
	return nil
}

// setUploadProgress 需要持有锁
func (s *ListScreen) setUploadProgress(percent int) {
	d := s.upload.Draft()
	d.Progress = percent
	_ = s.upload.Amend(d)
}
