package sheet

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// ASCIIFileName 把文件名转换成只含 ASCII 的形式，汉字转成拼音，其余非 ASCII 字符替换为 _
func ASCIIFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			for _, p := range pinyin.LazyConvert(string(r), nil) {
				b.WriteString(p)
			}
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r == 0x7f:
			continue
		case r < 0x80:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ContentDisposition 同时带上 ASCII 文件名和 RFC 5987 编码的原始文件名
func ContentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ASCIIFileName(name), url.PathEscape(name))
}
