package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// Proxy 把请求原样转发到上游，并附上配置的 Authorization 头
func (c *Client) Proxy() http.Handler {
	target := c.BaseURL()
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
			if c.token != "" {
				pr.Out.Header.Set("Authorization", c.token)
			}
			slog.Debug("转发请求到上游", "method", pr.In.Method, "path", pr.Out.URL.Path)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Warn("转发请求失败", "method", r.Method, "path", r.URL.Path, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `{"success":false,"message":"upstream unavailable","data":null}`)
		},
	}
	return proxy
}
