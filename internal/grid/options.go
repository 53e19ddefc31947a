package grid

import (
	"fmt"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ScheduleOption struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	Slots      string `json:"slots"`
	TotalHours string `json:"totalHours"`
}

// OptionIndex 由参考数据构建，只读。nil 的 OptionIndex 等价于没有任何选项
type OptionIndex struct {
	dayTypes  []Option
	schedules map[string][]ScheduleOption
}

func NewOptionIndex(planning []domain.PlanningOption, scheduling []domain.SchedulingStatusItem) *OptionIndex {
	idx := &OptionIndex{
		dayTypes:  make([]Option, 0, len(planning)),
		schedules: make(map[string][]ScheduleOption, len(scheduling)),
	}

	for _, p := range planning {
		idx.dayTypes = append(idx.dayTypes, Option{
			Value: p.Code.String(),
			Label: fmt.Sprintf("%s - %s", p.Code, p.LookupName),
		})
	}

	for _, item := range scheduling {
		key := item.JobCodeID.String()
		// 同一岗位出现多次时以第一次为准
		if _, ok := idx.schedules[key]; ok {
			continue
		}
		opts := make([]ScheduleOption, 0, len(item.Slots))
		for _, slot := range item.Slots {
			opts = append(opts, ScheduleOption{
				Value:      slot.ShiftCode.String(),
				Label:      fmt.Sprintf("%s - %s", slot.ShiftCode, slot.ActualSlots),
				Slots:      slot.ActualSlots.String(),
				TotalHours: slot.TotalHours.String(),
			})
		}
		idx.schedules[key] = opts
	}

	return idx
}

func (x *OptionIndex) DayTypeOptions() []Option {
	if x == nil {
		return []Option{}
	}
	return x.dayTypes
}

// ScheduleOptions 返回岗位可选的班次，未知岗位返回空集合
func (x *OptionIndex) ScheduleOptions(job string) []ScheduleOption {
	if x == nil {
		return []ScheduleOption{}
	}
	opts, ok := x.schedules[job]
	if !ok {
		return []ScheduleOption{}
	}
	return opts
}

func (x *OptionIndex) HasJob(job string) bool {
	if x == nil {
		return false
	}
	_, ok := x.schedules[job]
	return ok
}

// Resolve 根据班次代码查出时段描述和总工时，找不到时都为空字符串
func (x *OptionIndex) Resolve(job, code string) (slots string, totalHours string) {
	for _, opt := range x.ScheduleOptions(job) {
		if opt.Value == code {
			return opt.Slots, opt.TotalHours
		}
	}
	return "", ""
}

// JobKey 决定一行用哪个键查询班次：优先岗位代码，代码没有对应记录时退回岗位名称
func (x *OptionIndex) JobKey(row *domain.RosterDayRow) string {
	if x.HasJob(row.JobCode) {
		return row.JobCode
	}
	return row.JobTitle
}
