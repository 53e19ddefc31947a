package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/seed"
)

func main() {
	var op int
	var n int
	var in string
	var out string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 生成随机排班表, 2: 把 CSV 转换成上传工作簿)")
	flag.IntVar(&n, "n", 5, "要生成的排班表数量")
	flag.StringVar(&in, "in", "", "op=2 时读取的 CSV 文件")
	flag.StringVar(&out, "out", "roster_upload.xlsx", "输出的工作簿路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var header []string
	var records []domain.Record

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
		os.Exit(1)
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的排班表数量")
			os.Exit(1)
		}
		records = seed.Random(n)
	case 2:
		if in == "" {
			slog.Error("请指定 CSV 文件")
			os.Exit(1)
		}
		file, err := os.Open(in)
		if err != nil {
			slog.Error("打开文件失败", "error", err)
			os.Exit(1)
		}
		header, records, err = seed.FromCSV(file)
		file.Close()
		if err != nil {
			slog.Error("读取 CSV 失败", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("指定的操作非法")
		os.Exit(1)
	}

	f, err := os.Create(out)
	if err != nil {
		slog.Error("无法创建输出文件", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := seed.WriteWorkbook(f, header, records); err != nil {
		slog.Error("生成工作簿失败", "error", err)
		os.Exit(1)
	}
	slog.Info("已写入", "path", out)
}
