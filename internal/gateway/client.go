// Package gateway 封装对排班后端的 HTTP 调用，不做重试也不做缓存
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

const rosterManagement = "roster/rosterManagement/"

type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("无效的上游地址: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("无效的上游地址: %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return &Client{
		baseURL:    u,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do 发送请求并返回 2xx 响应的正文
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, length int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if length >= 0 {
			req.ContentLength = length
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("上游请求失败", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("读取上游响应失败", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("上游返回错误状态码", "method", method, "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: HTTP %d", ErrStatus, resp.StatusCode)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, -1)
}

func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("无法序列化请求: %w", err)
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(data), int64(len(data)))
}

// envelope 是后端响应的外层结构，status 是正文里的业务状态码
type envelope struct {
	Status       *domain.Int     `json:"status"`
	Results      json.RawMessage `json:"results"`
	Rows         json.RawMessage `json:"rows"`
	RosterStatus json.RawMessage `json:"rosterStatus"`
}

func decodeEnvelope(path string, data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("无法解析上游响应", "path", path, "error", err)
		return env, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return env, nil
}

// expectStatus 检查正文中的 status 字段
func expectStatus(path string, env envelope, want int64) error {
	if env.Status == nil || int64(*env.Status) != want {
		got := "missing"
		if env.Status != nil {
			got = env.Status.String()
		}
		slog.Warn("上游业务状态不符", "path", path, "want", want, "got", got)
		return fmt.Errorf("%w: status %s, want %d", ErrStatus, got, want)
	}
	return nil
}

// decodeArray 要求 raw 是一个 JSON 数组
func decodeArray[T any](path, field string, raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		slog.Warn("上游响应缺少数组字段", "path", path, "field", field)
		return nil, fmt.Errorf("%w: %s is not an array", ErrMalformed, field)
	}
	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.Warn("无法解析上游数组字段", "path", path, "field", field, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return out, nil
}

// sendExpect 发送一个写请求并检查正文的 status
func (c *Client) sendExpect(ctx context.Context, method, path string, payload any, want int64) error {
	data, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(path, data)
	if err != nil {
		return err
	}
	return expectStatus(path, env, want)
}

func (c *Client) fetchResults(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	data, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(path, data)
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}
