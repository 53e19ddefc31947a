package screen

import (
	"sync"
	"time"
)

type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// 提示条上显示的文字
const (
	MsgLoadFailed      = "Data load failed"
	MsgRosterCreated   = "Roster created successfully"
	MsgCreateFailed    = "Failed to create roster"
	MsgRosterDeleted   = "Roster deleted successfully"
	MsgDeleteFailed    = "Failed to delete roster"
	MsgUploaded        = "Document uploaded successfully"
	MsgUploadFailed    = "Mass upload failed"
	MsgJobsDeleted     = "Delete Successfully"
	MsgJobsDeleteFail  = "Delete failed"
	MsgStatusUpdated   = "Roster Updated Successfully..!!"
	MsgStatusFailed    = "Data loading failed..!!"
	MsgSaved           = "Data successfully saved"
	MsgSaveFailed      = "Failed to save Data"
	MsgExported        = "Exported successfully"
	MsgNothingToExport = "No data to export"
	MsgExportFailed    = "Export failed"
	MsgAddJobFailed    = "Failed to add job"
	MsgNoPositions     = "No positions found"
	MsgPositionsFailed = "Failed to load positions"
)

type Alert struct {
	Kind      AlertKind `json:"type"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AlertBox 同时只保留一条提示，新的提示会替换旧的，过期后自动消失
type AlertBox struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Alert
}

func NewAlertBox(ttl time.Duration, now func() time.Time) *AlertBox {
	if now == nil {
		now = time.Now
	}
	return &AlertBox{ttl: ttl, now: now}
}

func (b *AlertBox) Success(msg string) {
	b.show(AlertSuccess, msg)
}

func (b *AlertBox) Error(msg string) {
	b.show(AlertError, msg)
}

func (b *AlertBox) show(kind AlertKind, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &Alert{Kind: kind, Message: msg, ExpiresAt: b.now().Add(b.ttl)}
}

// Current 返回当前还没过期的提示
func (b *AlertBox) Current() (Alert, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Alert{}, false
	}
	if !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return Alert{}, false
	}
	return *b.current, true
}

func (b *AlertBox) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

func (b *AlertBox) view() *Alert {
	if a, ok := b.Current(); ok {
		return &a
	}
	return nil
}

// Snapshot 返回当前未过期的提示，用于持久化
func (b *AlertBox) Snapshot() *Alert {
	return b.view()
}

// Restore 恢复持久化的提示，已经过期的直接丢弃
func (b *AlertBox) Restore(a *Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a == nil || !b.now().Before(a.ExpiresAt) {
		b.current = nil
		return
	}
	c := *a
	b.current = &c
}
