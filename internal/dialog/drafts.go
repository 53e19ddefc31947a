package dialog

import "github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"

// RosterDraft 是创建排班表表单的内容，Confirming 为 true 时表单已提交、等待二次确认
type RosterDraft struct {
	Name       string `json:"rosterName"`
	Code       string `json:"rosterCode"`
	Days       int    `json:"rosteringDays"`
	Confirming bool   `json:"confirming"`
}

// AddJobDraft 保存可选岗位和当前选择
type AddJobDraft struct {
	Options  []domain.JobOption `json:"options"`
	Selected string             `json:"selected"`
	Loading  bool               `json:"loading"`
}

// UniqueJobOptions 按 JOB_CODE_ID 去重，丢弃没有代码的岗位
func UniqueJobOptions(options []domain.JobOption) []domain.JobOption {
	seen := map[string]bool{}
	out := make([]domain.JobOption, 0, len(options))
	for _, opt := range options {
		id := opt.JobCodeID.String()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, opt)
	}
	return out
}

func (d AddJobDraft) Find(jobCodeID string) (domain.JobOption, bool) {
	for _, opt := range d.Options {
		if opt.JobCodeID.String() == jobCodeID {
			return opt, true
		}
	}
	return domain.JobOption{}, false
}

// DeleteDraft 是待删除的 ID 列表
type DeleteDraft struct {
	IDs []int64 `json:"ids"`
}

// UploadDraft 是已解析但尚未上传的表格数据
type UploadDraft struct {
	FileName string          `json:"fileName"`
	Rows     []domain.Record `json:"rows,omitempty"`
	RowCount int             `json:"rowCount"`
	Progress int             `json:"progress"`
}
