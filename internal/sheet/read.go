// Package sheet 负责排班表格的导入导出
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

var (
	ErrNoWorksheet    = errors.New("no worksheet found")
	ErrEmptyWorksheet = errors.New("worksheet is empty")
)

// 旧版 xls 的行列上限
const (
	maxXLSRows = 65536
	maxXLSCols = 256
)

// ReadFirstSheet 读取第一个工作表，第一行是表头，其余每行转成一条记录。
// 空单元格为 ""，整行为空的会被跳过
func ReadFirstSheet(r io.Reader, filename string) ([]domain.Record, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return toRecords(rows), nil
}

func readRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("无法打开 xls 文件: %w", err)
		}
		if workbook.NumSheets() == 0 {
			return nil, ErrNoWorksheet
		}
		ws := workbook.GetSheet(0)
		if ws == nil {
			return nil, ErrNoWorksheet
		}
		var rows [][]string
		for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
			rows = append(rows, xlsCells(xlsRow(ws, i)))
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("无法打开 xlsx 文件: %w", err)
		}
		defer func() { _ = file.Close() }()

		name := file.GetSheetName(0)
		if name == "" {
			return nil, ErrNoWorksheet
		}
		return file.GetRows(name)
	}
}

// xlsRow 读取一行，xls 库在行不存在时会触发空指针，这里转成 nil
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// xlsCells 读出一行的所有单元格，LastCol 对只有单元格记录的行不可靠，所以逐列读取
func xlsCells(row *xls.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, maxXLSCols)
	last := -1
	for j := range cells {
		cells[j] = row.Col(j)
		if cells[j] != "" {
			last = j
		}
	}
	return cells[:last+1]
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// headerNames 给空表头和重复表头补上后缀，保证每列都有唯一的键
func headerNames(row []string) []string {
	names := make([]string, len(row))
	used := map[string]int{}
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = "__EMPTY"
		}
		base := name
		for used[name] > 0 {
			name = fmt.Sprintf("%s_%d", base, used[base])
			used[base]++
		}
		used[name]++
		names[i] = name
	}
	return names
}

func toRecords(rows [][]string) []domain.Record {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return []domain.Record{}
	}

	// 比表头宽的行，多出来的列按空表头命名，不丢弃
	width := len(rows[start])
	for _, row := range rows[start+1:] {
		width = max(width, len(row))
	}
	headerRow := make([]string, width)
	copy(headerRow, rows[start])

	header := headerNames(headerRow)
	records := make([]domain.Record, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if blank(row) {
			continue
		}
		rec := domain.NewRecord()
		for i, key := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec.Set(key, value)
		}
		records = append(records, *rec)
	}
	return records
}
