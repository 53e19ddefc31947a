package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

// progressReader 在请求正文被读取时报告已发送的百分比
type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	last     int
	progress func(percent int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.sent += int64(n)
	if p.total > 0 && n > 0 {
		percent := int((p.sent*100 + p.total/2) / p.total)
		if percent != p.last {
			p.last = percent
			p.progress(percent)
		}
	}
	return n, err
}

// MassUpload 上传表格解析出来的所有行，任何 2xx 都视为成功
func (c *Client) MassUpload(ctx context.Context, rows []domain.Record, progress func(percent int)) error {
	const path = rosterManagement + "massUpload"
	if rows == nil {
		rows = []domain.Record{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("无法序列化上传数据: %w", err)
	}

	var body io.Reader = bytes.NewReader(data)
	if progress != nil {
		body = &progressReader{r: body, total: int64(len(data)), progress: progress}
	}
	if _, err := c.do(ctx, http.MethodPost, path, nil, body, int64(len(data))); err != nil {
		return err
	}
	if progress != nil {
		progress(100)
	}
	return nil
}
