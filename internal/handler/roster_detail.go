package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountDetail(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ws := workspaceFrom(r)
	header, ok := ws.List.Find(r.Context(), code)
	if !ok {
		h.errorResponse(w, r, "Roster not found")
		return
	}
	ws.Detail.Mount(r.Context(), header)

	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) GetDetailView(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "", workspaceFrom(r).Detail.View())
}

func (h *Handler) ReloadDetail(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Detail.Reload(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) SaveDetail(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Detail.Save(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) SetRosterStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := workspaceFrom(r)
	if err := ws.Detail.SetActive(r.Context(), *req.Active); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

// SetColumnWidth width 为 0 时恢复按天数计算的默认宽度
func (h *Handler) SetColumnWidth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width int `json:"width" validate:"gte=0"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := workspaceFrom(r)
	ws.Detail.SetColumnWidth(req.Width)
	h.successResponse(w, r, "", ws.Detail.View())
}

/**********************************************
 * 行内编辑
 **********************************************/

func (h *Handler) rowID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "rowID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "Invalid row ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.rowID(w, r)
	if !ok {
		return
	}

	ws := workspaceFrom(r)
	if err := ws.Detail.BeginEdit(id); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

// EditDay 修改某一天的日期类型和/或班次，没有给出的字段保持不变
func (h *Handler) EditDay(w http.ResponseWriter, r *http.Request) {
	id, ok := h.rowID(w, r)
	if !ok {
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		h.errorResponse(w, r, "Invalid day")
		return
	}

	var req struct {
		DayType        *string `json:"dayType"`
		ScheduleStatus *string `json:"scheduleStatus"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := workspaceFrom(r)
	if req.DayType != nil {
		if err := ws.Detail.SetDayType(id, day, *req.DayType); err != nil {
			h.intentError(w, r, err)
			return
		}
	}
	if req.ScheduleStatus != nil {
		if err := ws.Detail.SetSchedule(id, day, *req.ScheduleStatus); err != nil {
			h.intentError(w, r, err)
			return
		}
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) CommitRow(w http.ResponseWriter, r *http.Request) {
	id, ok := h.rowID(w, r)
	if !ok {
		return
	}

	ws := workspaceFrom(r)
	if err := ws.Detail.CommitRow(id); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) DiscardEdit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Detail.DiscardEdit()
	h.successResponse(w, r, "", ws.Detail.View())
}

/**********************************************
 * 勾选与删除岗位
 **********************************************/

func (h *Handler) ToggleJob(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := workspaceFrom(r)
	ws.Detail.ToggleJob(req.ID)
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) ToggleAllJobs(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Detail.ToggleAllJobs()
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) OpenDeleteJobs(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Detail.OpenDelete(); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) CancelDeleteJobs(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Detail.CancelDelete()
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) ConfirmDeleteJobs(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Detail.ConfirmDelete(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

/**********************************************
 * 添加岗位
 **********************************************/

func (h *Handler) OpenAddJob(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Detail.OpenAddJob(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) CancelAddJob(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Detail.CancelAddJob()
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) SelectJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobCodeID string `json:"jobCodeId" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := workspaceFrom(r)
	if err := ws.Detail.SelectJob(req.JobCodeID); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) ConfirmAddJob(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.Detail.ConfirmAddJob(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

// AddDraftJob 只在本地插入一行，随保存一起提交
func (h *Handler) AddDraftJob(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if _, err := ws.Detail.AddDraftJob(); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.Detail.View())
}

/**********************************************
 * 导出
 **********************************************/

func (h *Handler) OpenExportDetail(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Detail.OpenExport()
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) CancelExportDetail(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Detail.CancelExport()
	h.successResponse(w, r, "", ws.Detail.View())
}

func (h *Handler) ConfirmExportDetail(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	dl, err := ws.Detail.ConfirmExport(r.Context())
	if err != nil {
		h.intentError(w, r, err)
		return
	}
	if dl == nil {
		h.successResponse(w, r, "", ws.Detail.View())
		return
	}
	h.writeDownload(w, r, dl)
}
