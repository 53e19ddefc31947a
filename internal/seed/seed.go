// Package seed 生成批量上传用的排班表工作簿
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/utils"
)

var ErrNoRows = errors.New("没有可写入的数据")

// headerAliases 把常见的中文表头映射到上传列名
var headerAliases = map[string]string{
	"排班表名称": "ROSTER_NAME",
	"排班表代码": "ROSTER_CODE",
	"天数":    "DAY",
	"岗位":    "JOB_TITLE",
	"岗位代码":  "JOB_CODE",
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return strings.ToUpper(h)
}

// FromCSV 读取 CSV，第一行是表头，返回的记录保留列顺序。空行会被跳过
func FromCSV(r io.Reader) ([]string, []domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for i, h := range headers {
		headers[i] = normalizeHeader(h)
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		rec := domain.NewRecord()
		empty := true
		for i, header := range headers {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			if value != "" {
				empty = false
			}
			rec.Set(header, value)
		}
		if empty {
			continue
		}
		records = append(records, *rec)
	}

	if err := utils.ValidateUploadRecords(records); err != nil {
		return nil, nil, err
	}
	return headers, records, nil
}

// Random 生成 n 个随机排班表
func Random(n int) []domain.Record {
	var records []domain.Record
	for i := 0; i < n; i++ {
		records = append(records, utils.GenerateRandomRoster()...)
	}
	return records
}

// WriteWorkbook 把记录写成批量上传模板格式的工作簿
func WriteWorkbook(w io.Writer, header []string, records []domain.Record) error {
	if len(records) == 0 {
		return ErrNoRows
	}
	if len(header) == 0 {
		header = sheet.SampleColumns
	}
	if err := sheet.WriteRows(w, header, records); err != nil {
		return fmt.Errorf("写入工作簿失败: %w", err)
	}
	slog.Info("工作簿已生成", "rows", len(records))
	return nil
}
