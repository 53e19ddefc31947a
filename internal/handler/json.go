package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/dialog"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/grid"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/screen"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("Internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "Internal server error",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// intentError 处理页面拒绝的操作，例如弹窗没有打开或者没有勾选任何一行
func (h *Handler) intentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, screen.ErrNothingSelected):
		h.errorResponse(w, r, "Please select at least one item")
	case errors.Is(err, screen.ErrNoJobSelected):
		h.errorResponse(w, r, "Please select a job")
	case errors.Is(err, screen.ErrUploadRunning):
		h.errorResponse(w, r, "Upload in progress")
	case errors.Is(err, screen.ErrNotMounted):
		h.errorResponse(w, r, "No roster is open")
	case errors.Is(err, dialog.ErrNotOpen):
		h.errorResponse(w, r, "Dialog is not open")
	case errors.Is(err, dialog.ErrSubmitting):
		h.errorResponse(w, r, "Request already in progress")
	case errors.Is(err, grid.ErrRowNotFound):
		h.errorResponse(w, r, "Row not found")
	case errors.Is(err, grid.ErrNotEditing):
		h.errorResponse(w, r, "Row is not being edited")
	case errors.Is(err, grid.ErrDayOutOfRange):
		h.errorResponse(w, r, "Day out of range")
	default:
		h.internalServerError(w, r, err)
	}
}
