package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/dialog"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
)

const uploadFormField = "file"

func (h *Handler) MountList(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.Mount(r.Context())

	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) GetListView(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "", workspaceFrom(r).List.View())
}

func (h *Handler) RefreshList(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.Refresh(r.Context())

	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) SetListSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Search string `json:"search"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ws := workspaceFrom(r)
	ws.List.SetSearch(req.Search)
	h.successResponse(w, r, "", ws.List.View())
}

type toggleRequest struct {
	ID int64 `json:"id" validate:"required"`
}

func (h *Handler) ToggleRoster(w http.ResponseWriter, r *http.Request) {
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
	ws.List.Toggle(req.ID)
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) ToggleAllRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.ToggleAll()
	h.successResponse(w, r, "", ws.List.View())
}

/**********************************************
 * 创建排班表
 **********************************************/

func (h *Handler) OpenCreateRoster(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.OpenCreate()
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) CancelCreateRoster(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.CancelCreate()
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) SubmitCreateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"rosterName" validate:"required"`
		Code string `json:"rosterCode" validate:"required"`
		Days int    `json:"rosteringDays" validate:"required,min=1"`
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
	if err := ws.List.SubmitCreateForm(dialog.RosterDraft{Name: req.Name, Code: req.Code, Days: req.Days}); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) BackToCreateForm(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.List.CancelCreateConfirm(); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) ConfirmCreateRoster(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.List.ConfirmCreate(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

/**********************************************
 * 删除排班表
 **********************************************/

func (h *Handler) OpenDeleteRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.List.OpenDelete(); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) CancelDeleteRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.CancelDelete()
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) ConfirmDeleteRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.List.ConfirmDelete(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

/**********************************************
 * 导出
 **********************************************/

func (h *Handler) OpenExportRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.OpenExport()
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) CancelExportRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.List.CancelExport()
	h.successResponse(w, r, "", ws.List.View())
}

// ConfirmExportRosters 成功时直接返回文件，没有文件时返回页面状态（其中带有提示）
func (h *Handler) ConfirmExportRosters(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	dl, err := ws.List.ConfirmExport()
	if err != nil {
		h.intentError(w, r, err)
		return
	}
	if dl == nil {
		h.successResponse(w, r, "", ws.List.View())
		return
	}
	h.writeDownload(w, r, dl)
}

/**********************************************
 * 批量上传
 **********************************************/

// StageUpload 解析上传的表格并打开确认弹窗，此时还没有发送到后端
func (h *Handler) StageUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxSize)
	if err := r.ParseMultipartForm(h.config.Upload.MaxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorResponse(w, r, "File is too large")
			return
		}
		h.badRequest(w, r, err)
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		h.errorResponse(w, r, "Please choose a file")
		return
	}
	defer file.Close()

	rows, err := sheet.ReadFirstSheet(file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrNoWorksheet), errors.Is(err, sheet.ErrEmptyWorksheet):
			h.errorResponse(w, r, "The file contains no data")
		default:
			h.errorResponse(w, r, "Unable to read the file")
		}
		return
	}

	ws := workspaceFrom(r)
	if err := ws.List.StageUpload(header.Filename, rows); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) CancelUpload(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.List.CancelUpload(); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

// ConfirmUpload 在上传完成后才返回，期间可以通过 GET /list 查看进度
func (h *Handler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := ws.List.ConfirmUpload(r.Context()); err != nil {
		h.intentError(w, r, err)
		return
	}
	h.successResponse(w, r, "", ws.List.View())
}

func (h *Handler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	workspaceFrom(r).Alerts.Dismiss()
	h.successResponse(w, r, "", nil)
}
