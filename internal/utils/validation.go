package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

// MaxRosteringDays 是一个排班表最多覆盖的天数
const MaxRosteringDays = 31

func recordText(rec domain.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ParseRosteringDays 解析排班天数，必须是 1 到 MaxRosteringDays 之间的整数
func ParseRosteringDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	days, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("排班天数 %q 不是整数", s)
		}
		days = int(f)
	}
	if days < 1 || days > MaxRosteringDays {
		return 0, fmt.Errorf("排班天数 %d 超出范围 1~%d", days, MaxRosteringDays)
	}
	return days, nil
}

// ValidateUploadRecord 检查一行批量上传数据是否包含必填列
func ValidateUploadRecord(rec domain.Record) error {
	for _, key := range []string{"ROSTER_NAME", "ROSTER_CODE", "JOB_TITLE"} {
		if recordText(rec, key) == "" {
			return fmt.Errorf("缺少 %s", key)
		}
	}
	if _, err := ParseRosteringDays(recordText(rec, "DAY")); err != nil {
		return err
	}
	return nil
}

// ValidateUploadRecords 检查所有行，同一个排班表代码的名称和天数必须一致
func ValidateUploadRecords(records []domain.Record) error {
	type roster struct {
		name string
		days string
	}
	seen := map[string]roster{}

	for i, rec := range records {
		if err := ValidateUploadRecord(rec); err != nil {
			return fmt.Errorf("第 %d 行: %w", i+1, err)
		}

		code := recordText(rec, "ROSTER_CODE")
		cur := roster{name: recordText(rec, "ROSTER_NAME"), days: recordText(rec, "DAY")}
		if prev, ok := seen[code]; ok && prev != cur {
			return fmt.Errorf("第 %d 行: 排班表 %s 的名称或天数与前面的行不一致", i+1, code)
		}
		seen[code] = cur
	}
	return nil
}
