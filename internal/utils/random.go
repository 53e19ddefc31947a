package utils

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

var wardNames = []string{
	"内科", "外科", "儿科", "急诊", "药房", "检验科", "放射科", "手术室",
	"产科", "骨科", "心内科", "神经科", "康复科", "重症监护",
}

var shiftNames = []string{"早班", "晚班", "夜班", "周末", "节假日"}

type job struct {
	title string
	code  string
}

var jobs = []job{
	{"Staff Nurse", "SN01"},
	{"Senior Nurse", "SN02"},
	{"Healthcare Assistant", "HCA01"},
	{"Ward Clerk", "WC01"},
	{"Porter", "PT01"},
	{"Pharmacist", "PH01"},
	{"Radiographer", "RG01"},
	{"Physiotherapist", "PY01"},
}

var digits = "0123456789"

// GenerateRandomRosterName 生成形如 "内科夜班" 的排班表名称
func GenerateRandomRosterName() string {
	return wardNames[rand.Intn(len(wardNames))] + shiftNames[rand.Intn(len(shiftNames))]
}

// GenerateCodeFromChineseName 取每个字拼音的首字母并转成大写，再追加 1~3 位随机数字
func GenerateCodeFromChineseName(chineseName string) string {
	var sb strings.Builder
	for _, py := range pinyin.LazyConvert(chineseName, nil) {
		if py == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(py[:1]))
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		sb.WriteByte(digits[rand.Intn(len(digits))])
	}
	return sb.String()
}

// GenerateRandomSubset 用 Fisher-Yates 洗牌算法选出至少一个岗位
func GenerateRandomSubset(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:rand.Intn(n)+1]
}

// GenerateRandomRoster 生成一个排班表的批量上传行，每个岗位一行
func GenerateRandomRoster() []domain.Record {
	name := GenerateRandomRosterName()
	code := GenerateCodeFromChineseName(name)
	days := rand.Intn(28) + 1

	picked := GenerateRandomSubset(len(jobs))
	out := make([]domain.Record, 0, len(picked))
	for _, i := range picked {
		rec := domain.NewRecord()
		rec.Set("ROSTER_NAME", name)
		rec.Set("ROSTER_CODE", code)
		rec.Set("DAY", days)
		rec.Set("JOB_TITLE", jobs[i].title)
		rec.Set("JOB_CODE", jobs[i].code)
		out = append(out, *rec)
	}
	return out
}
