package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/screen"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
)

const (
	sampleFileName  = sheet.SampleFileName
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DownloadSample 返回批量上传用的空白模板
func (h *Handler) DownloadSample(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := sheet.WriteSample(&buf); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	h.writeDownload(w, r, &screen.Download{
		FileName:    sampleFileName,
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	})
}

func (h *Handler) writeDownload(w http.ResponseWriter, r *http.Request, dl *screen.Download) {
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", sheet.ContentDisposition(dl.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(dl.Data); err != nil {
		h.logInternalServerError(r, err)
	}
}
