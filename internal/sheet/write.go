package sheet

import (
	"fmt"
	"io"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	RostersSheet    = "Rosters"
	RosterDataSheet = "RosterData"
	SampleSheet     = "Sheet1"

	RostersFileName = "rosters.xlsx"
	SampleFileName  = "RosterSample.xlsx"
)

var RosterColumns = []string{
	"Roster Name",
	"Roster Code",
	"Rostering Days",
	"Roster Modified By",
	"Roster Modified On",
	"Roster Status",
}

// SampleColumns 是批量上传模板的表头
var SampleColumns = []string{"ROSTER_NAME", "ROSTER_CODE", "DAY", "JOB_TITLE", "JOB_CODE"}

// RosterFileName 优先用排班表名称命名导出文件，没有名称时用 ID
func RosterFileName(r domain.RosterHeader) string {
	name := r.Name.String()
	if name == "" {
		name = r.ID.String()
	}
	return fmt.Sprintf("Roster_%s.xlsx", name)
}

// writeTable 把表头和数据写进唯一的工作表并输出
func writeTable(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteRosters 导出排班表列表
func WriteRosters(w io.Writer, rosters []domain.RosterHeader) error {
	rows := make([][]any, len(rosters))
	for i, r := range rosters {
		rows[i] = []any{
			r.Name.String(),
			r.Code.String(),
			int64(r.Days),
			r.ModifiedBy.String(),
			r.ModifiedOn.String(),
			string(r.Status),
		}
	}
	return writeTable(w, RostersSheet, RosterColumns, rows)
}

// Columns 返回所有记录中出现过的字段，按第一次出现的顺序排列
func Columns(records []domain.Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	return cols
}

// WriteRecords 导出从后端下载的原始数据
func WriteRecords(w io.Writer, records []domain.Record) error {
	cols := Columns(records)
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(cols))
		for j, col := range cols {
			v, _ := rec.Get(col)
			row[j] = cellValue(v)
		}
		rows[i] = row
	}
	return writeTable(w, RosterDataSheet, cols, rows)
}

// WriteSample 生成批量上传的模板
func WriteSample(w io.Writer) error {
	rows := [][]any{
		{"Ward A Nights", "WAN", 7, "Staff Nurse", "SN01"},
		{"Ward A Nights", "WAN", 7, "Healthcare Assistant", "HCA01"},
	}
	return writeTable(w, SampleSheet, SampleColumns, rows)
}

// WriteRows 按给定表头写出记录，供样例数据生成使用
func WriteRows(w io.Writer, header []string, records []domain.Record) error {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(header))
		for j, col := range header {
			v, _ := rec.Get(col)
			row[j] = cellValue(v)
		}
		rows[i] = row
	}
	return writeTable(w, SampleSheet, header, rows)
}

// cellValue 把 JSON 解码出来的值转换成 excelize 能写入的类型
func cellValue(v any) any {
	switch v := v.(type) {
	case nil:
		return ""
	case string, bool, int, int64, float64:
		return v
	case interface{ String() string }:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
