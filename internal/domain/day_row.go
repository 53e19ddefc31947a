package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxDays 限制单行可以携带的天数，超出的按未知字段原样保留
const MaxDays = 1000

// DayCell 是某一行在某一天的排班信息
type DayCell struct {
	DayType        string   `json:"dayType"`
	ScheduleStatus string   `json:"scheduleStatus"`
	Slots          string   `json:"slots"`
	TotalHours     string   `json:"totalHours"`
	AssignedSlots  []string `json:"assignedSlots,omitempty"`
}

// RosterDayRow 是某个排班表中的一个岗位，Days[i] 对应第 i+1 天
type RosterDayRow struct {
	RosterHeaderID int64
	RosterItemID   int64
	JobTitle       string
	JobCode        string
	SeqNo          string
	UniqueCode     string
	Day            int
	Days           []DayCell

	// 后端返回但这里不关心的字段，保存时原样带回
	Extra map[string]json.RawMessage
}

// Cell 返回第 day 天的数据，越界时返回零值
func (r *RosterDayRow) Cell(day int) DayCell {
	if day < 1 || day > len(r.Days) {
		return DayCell{}
	}
	return r.Days[day-1]
}

func (r *RosterDayRow) Clone() RosterDayRow {
	c := *r
	c.Days = make([]DayCell, len(r.Days))
	for i, cell := range r.Days {
		c.Days[i] = cell
		if cell.AssignedSlots != nil {
			c.Days[i].AssignedSlots = append([]string{}, cell.AssignedSlots...)
		}
	}
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

const (
	keyHeaderID   = "ROSTER_HEADER_ID"
	keyItemID     = "ROSTER_ITEM_ID"
	keyJobTitle   = "JOB_TITLE"
	keyJobCode    = "JOB_CODE"
	keySeqNo      = "JOB_TITLE_SEQ_NO"
	keyUniqueCode = "UNIQUE_CODE_JOB_TITLE"
	keyDay        = "DAY"

	prefixDayType    = "DAY_TYPE_"
	prefixSchedule   = "SCHEDULE_STATUS_"
	prefixSlots      = "SLOTS_"
	prefixTotalHours = "TOTAL_HOURS_"
	prefixAssigned   = "ASLOTS_"
)

var dayPrefixes = []string{prefixDayType, prefixSchedule, prefixSlots, prefixTotalHours, prefixAssigned}

// splitDayKey 把 "SLOTS_3" 拆成 ("SLOTS_", 3)
func splitDayKey(key string) (string, int, bool) {
	for _, prefix := range dayPrefixes {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		day, err := strconv.Atoi(key[len(prefix):])
		if err != nil || day < 1 || day > MaxDays {
			return "", 0, false
		}
		return prefix, day, true
	}
	return "", 0, false
}

func (r *RosterDayRow) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	row := RosterDayRow{}
	for key, raw := range fields {
		var err error
		switch key {
		case keyHeaderID:
			var v Int
			err = v.UnmarshalJSON(raw)
			row.RosterHeaderID = int64(v)
		case keyItemID:
			var v Int
			err = v.UnmarshalJSON(raw)
			row.RosterItemID = int64(v)
		case keyJobTitle:
			err = decodeText(raw, &row.JobTitle)
		case keyJobCode:
			err = decodeText(raw, &row.JobCode)
		case keySeqNo:
			err = decodeText(raw, &row.SeqNo)
		case keyUniqueCode:
			err = decodeText(raw, &row.UniqueCode)
		case keyDay:
			var v Int
			err = v.UnmarshalJSON(raw)
			row.Day = int(min(max(v, 0), MaxDays))
		default:
			prefix, day, ok := splitDayKey(key)
			if !ok {
				if row.Extra == nil {
					row.Extra = map[string]json.RawMessage{}
				}
				row.Extra[key] = raw
				continue
			}
			for len(row.Days) < day {
				row.Days = append(row.Days, DayCell{})
			}
			cell := &row.Days[day-1]
			switch prefix {
			case prefixDayType:
				err = decodeText(raw, &cell.DayType)
			case prefixSchedule:
				err = decodeText(raw, &cell.ScheduleStatus)
			case prefixSlots:
				err = decodeText(raw, &cell.Slots)
			case prefixTotalHours:
				err = decodeText(raw, &cell.TotalHours)
			case prefixAssigned:
				var vs []Text
				if err = json.Unmarshal(raw, &vs); err == nil {
					cell.AssignedSlots = make([]string, len(vs))
					for i, v := range vs {
						cell.AssignedSlots[i] = string(v)
					}
				}
			}
		}
		if err != nil {
			return fmt.Errorf("字段 %s 解析失败: %w", key, err)
		}
	}

	*r = row
	return nil
}

func (r RosterDayRow) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+7+len(r.Days)*4)
	for k, v := range r.Extra {
		out[k] = v
	}
	out[keyHeaderID] = r.RosterHeaderID
	out[keyItemID] = r.RosterItemID
	out[keyJobTitle] = r.JobTitle
	out[keyJobCode] = r.JobCode
	out[keySeqNo] = r.SeqNo
	out[keyUniqueCode] = r.UniqueCode
	out[keyDay] = r.Day
	for i, cell := range r.Days {
		day := strconv.Itoa(i + 1)
		out[prefixDayType+day] = cell.DayType
		out[prefixSchedule+day] = cell.ScheduleStatus
		out[prefixSlots+day] = cell.Slots
		out[prefixTotalHours+day] = cell.TotalHours
		if cell.AssignedSlots != nil {
			out[prefixAssigned+day] = cell.AssignedSlots
		}
	}
	return json.Marshal(out)
}

func decodeText(raw json.RawMessage, dst *string) error {
	var t Text
	if err := t.UnmarshalJSON(raw); err != nil {
		return err
	}
	*dst = string(t)
	return nil
}
