package screen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/dialog"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/gateway"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/grid"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/selection"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
)

// DetailScreen 是排班表详情页面的状态。
// 每次打开一个排班表时 gen 加一，之前发出的请求返回后发现 gen 已变化就丢弃结果
type DetailScreen struct {
	deps Deps

	mu         sync.Mutex
	header     domain.RosterHeader
	mounted    bool
	gen        uint64
	seq        uint64 // 最新一次明细请求的序号
	loading    int
	user       *domain.CurrentUser
	planning   []domain.PlanningOption
	scheduling []domain.SchedulingStatusItem
	grid       *grid.Grid
	selected   selection.Set[int64]

	addJob *dialog.Dialog[dialog.AddJobDraft]
	remove *dialog.Dialog[dialog.DeleteDraft]
	export *dialog.Dialog[struct{}]
}

func NewDetailScreen(deps Deps) *DetailScreen {
	return &DetailScreen{
		deps:   deps.withDefaults(),
		grid:   grid.New(),
		addJob: dialog.New[dialog.AddJobDraft](dialog.KeepOpen),
		remove: dialog.New[dialog.DeleteDraft](dialog.CloseAndAlert),
		export: dialog.New[struct{}](dialog.CloseAndAlert),
	}
}

func (s *DetailScreen) Alerts() *AlertBox {
	return s.deps.Alerts
}

func (s *DetailScreen) begin() func() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}
}

// Header 返回当前打开的排班表
func (s *DetailScreen) Header() (domain.RosterHeader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header, s.mounted
}

// Mount 打开一个排班表：重置页面状态，然后并行加载当前用户、参考数据和明细
func (s *DetailScreen) Mount(ctx context.Context, header domain.RosterHeader) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.header = header
	s.mounted = true
	s.user = nil
	s.planning = nil
	s.scheduling = nil
	s.grid = grid.New()
	s.selected.Clear()
	s.addJob.Cancel()
	s.remove.Cancel()
	s.export.Cancel()
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.loadUser(ctx, gen)
	}()
	go func() {
		defer wg.Done()
		s.loadPlanning(ctx, gen)
	}()
	go func() {
		defer wg.Done()
		s.loadScheduling(ctx, gen)
	}()
	wg.Wait()

	if header.ID != 0 {
		s.fetchRows(ctx, gen)
	}
}

// Reload 重新拉取当前排班表的明细
func (s *DetailScreen) Reload(ctx context.Context) error {
	s.mu.Lock()
	gen, mounted := s.gen, s.mounted
	s.mu.Unlock()
	if !mounted {
		return ErrNotMounted
	}
	s.fetchRows(ctx, gen)
	return nil
}

func (s *DetailScreen) loadUser(ctx context.Context, gen uint64) {
	user, err := s.deps.Gateway.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	if err != nil {
		s.user = nil
		return
	}
	s.user = &user
}

// 参考数据加载失败时按没有选项处理，不提示
func (s *DetailScreen) loadPlanning(ctx context.Context, gen uint64) {
	planning, err := s.deps.Gateway.FetchPlanning(ctx)
	if err != nil {
		slog.Warn("日期类型加载失败", "error", err)
		planning = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.planning = planning
	s.grid.SetOptions(grid.NewOptionIndex(s.planning, s.scheduling))
}

func (s *DetailScreen) loadScheduling(ctx context.Context, gen uint64) {
	scheduling, err := s.deps.Gateway.FetchSchedulingJobBase(ctx)
	if err != nil {
		slog.Warn("班次数据加载失败", "error", err)
		scheduling = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.scheduling = scheduling
	s.grid.SetOptions(grid.NewOptionIndex(s.planning, s.scheduling))
}

// fetchRows 拉取明细。失败时清空表格并提示
func (s *DetailScreen) fetchRows(ctx context.Context, gen uint64) {
	done := s.begin()
	defer done()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	id := int64(s.header.ID)
	s.mu.Unlock()

	days, err := s.deps.Gateway.FetchRosterDays(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || seq != s.seq {
		return
	}
	if err != nil {
		slog.Warn("排班明细加载失败", "rosterID", id, "error", err)
		s.grid.Reset()
		s.selected.Clear()
		s.deps.Alerts.Error(MsgLoadFailed)
		return
	}
	s.grid.Load(days.Rows, days.Active)
	s.pruneSelection()
}

// pruneSelection 去掉已经不存在的行，需要持有锁
func (s *DetailScreen) pruneSelection() {
	ids := s.grid.RowIDs()
	s.selected.Retain(func(id int64) bool {
		for _, v := range ids {
			if v == id {
				return true
			}
		}
		return false
	})
}

// snapshotGen 返回当前的 gen 和排班表，未打开时返回错误
func (s *DetailScreen) snapshotGen() (uint64, domain.RosterHeader, *domain.CurrentUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return 0, domain.RosterHeader{}, nil, ErrNotMounted
	}
	return s.gen, s.header, s.user, nil
}

func actorName(user *domain.CurrentUser) string {
	if user == nil {
		return ""
	}
	return user.FullName
}

/**********************************************
 * 行内编辑
 **********************************************/

func (s *DetailScreen) BeginEdit(rowID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.BeginEdit(rowID)
}

func (s *DetailScreen) SetDayType(rowID int64, day int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.SetDayType(rowID, day, value)
}

func (s *DetailScreen) SetSchedule(rowID int64, day int, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.SetSchedule(rowID, day, code)
}

// CommitRow 把正在编辑的行合并到本地数据，还没有保存到后端
func (s *DetailScreen) CommitRow(rowID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Commit(rowID)
}

func (s *DetailScreen) DiscardEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Discard()
}

func (s *DetailScreen) SetColumnWidth(width int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.SetColumnWidth(width)
}

func (s *DetailScreen) ToggleJob(rowID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected.Toggle(rowID)
}

func (s *DetailScreen) ToggleAllJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected.ToggleAll(s.grid.RowIDs())
}

/**********************************************
 * 保存与状态
 **********************************************/

// Save 把整张表发送到后端，正在编辑的行按工作副本发送。
// 成功后重新拉取，失败时放弃工作副本，表格显示原来已提交的值
func (s *DetailScreen) Save(ctx context.Context) error {
	gen, header, user, err := s.snapshotGen()
	if err != nil {
		return err
	}

	s.mu.Lock()
	rows := s.grid.Pending()
	s.mu.Unlock()

	err = func() error {
		done := s.begin()
		defer done()
		return s.deps.Gateway.SaveData(ctx, rows)
	}()
	if err != nil {
		slog.Warn("保存排班明细失败", "rosterID", int64(header.ID), "error", err)
		s.mu.Lock()
		if gen == s.gen {
			s.grid.Discard()
		}
		s.mu.Unlock()
		s.deps.Alerts.Error(MsgSaveFailed)
		return nil
	}

	s.deps.Alerts.Success(MsgSaved)
	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventRosterSaved,
		RosterID:   int64(header.ID),
		RosterName: header.Name.String(),
		RosterCode: header.Code.String(),
		Actor:      actorName(user),
		Count:      len(rows),
		OccurredAt: s.deps.Now(),
	})
	s.fetchRows(ctx, gen)
	return nil
}

// SetActive 切换排班表状态，界面先行更新。失败时清空表格
func (s *DetailScreen) SetActive(ctx context.Context, active bool) error {
	gen, header, user, err := s.snapshotGen()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.grid.SetActive(active)
	s.mu.Unlock()

	status := domain.StatusFromActive(active)
	err = s.deps.Gateway.MarkRosterStatus(ctx, gateway.MarkStatusRequest{
		Status:         status,
		RosterHeaderID: int64(header.ID),
		ModifiedBy:     actorName(user),
	})
	if err != nil {
		slog.Warn("修改排班表状态失败", "rosterID", int64(header.ID), "status", status, "error", err)
		s.mu.Lock()
		if gen == s.gen {
			s.grid.Reset()
			s.selected.Clear()
		}
		s.mu.Unlock()
		s.deps.Alerts.Error(MsgStatusFailed)
		return nil
	}

	s.mu.Lock()
	if gen == s.gen {
		s.header.Status = status
	}
	s.mu.Unlock()
	s.deps.Alerts.Success(MsgStatusUpdated)
	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventRosterStatusChanged,
		RosterID:   int64(header.ID),
		RosterName: header.Name.String(),
		RosterCode: header.Code.String(),
		Actor:      actorName(user),
		Detail:     string(status),
		OccurredAt: s.deps.Now(),
	})
	return nil
}

/**********************************************
 * 删除岗位
 **********************************************/

func (s *DetailScreen) OpenDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.selected.IDs()
	if len(ids) == 0 {
		return ErrNothingSelected
	}
	s.remove.Open(dialog.DeleteDraft{IDs: ids})
	return nil
}

func (s *DetailScreen) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove.Cancel()
}

// ConfirmDelete 删除勾选的岗位。没有当前用户或没有勾选时什么都不做
func (s *DetailScreen) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if _, err := s.remove.Begin(); err != nil {
		s.mu.Unlock()
		return err
	}
	gen, header, user := s.gen, s.header, s.user
	var items []gateway.DeletePositionItem
	if user != nil {
		for _, id := range s.selected.IDs() {
			row, ok := s.grid.Row(id)
			if !ok {
				continue
			}
			items = append(items, gateway.DeletePositionItem{
				RosterHeaderID: row.RosterHeaderID,
				RosterItemID:   row.RosterItemID,
				ModifiedBy:     user.FullName,
			})
		}
	}
	s.mu.Unlock()

	if user == nil || len(items) == 0 {
		return nil
	}

	err := func() error {
		done := s.begin()
		defer done()
		return s.deps.Gateway.DeletePositions(ctx, items)
	}()
	if err != nil {
		slog.Warn("删除岗位失败", "rosterID", int64(header.ID), "count", len(items), "error", err)
		s.deps.Alerts.Error(MsgJobsDeleteFail)
		return nil
	}

	s.mu.Lock()
	if gen == s.gen {
		ids := make([]int64, len(items))
		for i, it := range items {
			ids[i] = it.RosterItemID
		}
		s.grid.RemoveRows(ids)
		s.selected.Clear()
	}
	s.mu.Unlock()

	s.deps.Alerts.Success(MsgJobsDeleted)
	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventJobsDeleted,
		RosterID:   int64(header.ID),
		RosterName: header.Name.String(),
		RosterCode: header.Code.String(),
		Actor:      user.FullName,
		Count:      len(items),
		OccurredAt: s.deps.Now(),
	})
	if header.ID != 0 {
		s.fetchRows(ctx, gen)
	}
	return nil
}

/**********************************************
 * 添加岗位
 **********************************************/

// OpenAddJob 打开弹窗并加载可选岗位
func (s *DetailScreen) OpenAddJob(ctx context.Context) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return ErrNotMounted
	}
	gen := s.gen
	s.addJob.Open(dialog.AddJobDraft{Loading: true})
	s.mu.Unlock()

	options, err := s.deps.Gateway.FetchPositions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.addJob.IsOpen() {
		return nil
	}
	draft := s.addJob.Draft()
	draft.Loading = false
	switch {
	case errors.Is(err, gateway.ErrMalformed):
		draft.Options = nil
		_ = s.addJob.Amend(draft)
		s.addJob.Fault(MsgNoPositions)
	case err != nil:
		slog.Warn("岗位列表加载失败", "error", err)
		draft.Options = nil
		_ = s.addJob.Amend(draft)
		s.addJob.Fault(MsgPositionsFailed)
	default:
		draft.Options = dialog.UniqueJobOptions(options)
		_ = s.addJob.Amend(draft)
	}
	return nil
}

func (s *DetailScreen) SelectJob(jobCodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.addJob.Draft()
	draft.Selected = jobCodeID
	return s.addJob.Update(draft)
}

func (s *DetailScreen) CancelAddJob() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addJob.Cancel()
}

// ConfirmAddJob 在后端创建默认岗位行，成功后关闭弹窗并重新拉取明细，失败时弹窗保持打开
func (s *DetailScreen) ConfirmAddJob(ctx context.Context) error {
	s.mu.Lock()
	draft := s.addJob.Draft()
	job, ok := draft.Find(draft.Selected)
	if !s.addJob.IsOpen() || draft.Selected == "" || !ok {
		s.mu.Unlock()
		return ErrNoJobSelected
	}
	if _, err := s.addJob.Begin(); err != nil {
		s.mu.Unlock()
		return err
	}
	gen, header, user := s.gen, s.header, s.user
	s.mu.Unlock()

	req := gateway.AddJobRequest{
		RosterHeaderID: int64(header.ID),
		JobTitle:       job.JobTitleDesc.String(),
		JobCode:        job.JobCodeID.String(),
		ModifiedBy:     actorName(user),
	}
	err := func() error {
		done := s.begin()
		defer done()
		return s.deps.Gateway.AddJob(ctx, req)
	}()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		slog.Warn("添加岗位失败", "rosterID", req.RosterHeaderID, "job", req.JobCode, "error", err)
		s.addJob.Fail(MsgAddJobFailed)
		s.mu.Unlock()
		return nil
	}
	s.addJob.Succeed()
	s.mu.Unlock()

	publish(ctx, s.deps.Publisher, domain.RosterEvent{
		Type:       domain.EventJobAdded,
		RosterID:   req.RosterHeaderID,
		RosterName: header.Name.String(),
		RosterCode: header.Code.String(),
		Actor:      req.ModifiedBy,
		Detail:     req.JobTitle,
		OccurredAt: s.deps.Now(),
	})
	s.fetchRows(ctx, gen)
	return nil
}

// AddDraftJob 用弹窗中选中的岗位在本地插入一行草稿并进入编辑，随整表保存时一起提交
func (s *DetailScreen) AddDraftJob() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.addJob.Draft()
	job, ok := draft.Find(draft.Selected)
	if !s.addJob.IsOpen() || !ok {
		return 0, ErrNoJobSelected
	}
	s.addJob.Cancel()
	row := s.grid.AddRow(int64(s.header.ID), job.JobTitleDesc.String(), job.JobCodeID.String(), s.deps.Now())
	return row.RosterItemID, nil
}

/**********************************************
 * 导出
 **********************************************/

func (s *DetailScreen) OpenExport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.export.Open(struct{}{})
}

func (s *DetailScreen) CancelExport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.export.Cancel()
}

// ConfirmExport 下载后端整理好的数据并生成 Roster_<名称>.xlsx
func (s *DetailScreen) ConfirmExport(ctx context.Context) (*Download, error) {
	s.mu.Lock()
	if _, err := s.export.Begin(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	header, mounted := s.header, s.mounted
	s.mu.Unlock()

	if !mounted || header.ID == 0 {
		s.deps.Alerts.Error(MsgExportFailed)
		return nil, nil
	}

	records, err := func() ([]domain.Record, error) {
		done := s.begin()
		defer done()
		return s.deps.Gateway.DownloadData(ctx, int64(header.ID))
	}()
	switch {
	case errors.Is(err, gateway.ErrMalformed):
		s.deps.Alerts.Error(MsgNothingToExport)
		return nil, nil
	case err != nil:
		slog.Warn("下载排班数据失败", "rosterID", int64(header.ID), "error", err)
		s.deps.Alerts.Error(MsgExportFailed)
		return nil, nil
	}

	var buf bytes.Buffer
	if err := sheet.WriteRecords(&buf, records); err != nil {
		slog.Error("生成导出文件失败", "rosterID", int64(header.ID), "error", err)
		s.deps.Alerts.Error(MsgExportFailed)
		return nil, nil
	}
	s.deps.Alerts.Success(MsgExported)
	return &Download{
		FileName:    sheet.RosterFileName(header),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}
