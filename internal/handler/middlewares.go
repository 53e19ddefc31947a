package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"
)

const workspaceCookie = "__roster_manager_workspace"

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Flush 让反向代理的流式响应可以穿过日志中间件
func (rw *ResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// workspace 根据 cookie 取出当前浏览器的工作区，请求处理完后写回存储
func (h *Handler) workspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(workspaceCookie); err == nil {
			id = cookie.Value
		}

		ws, err := h.registry.Acquire(r.Context(), id)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if ws.ID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     workspaceCookie,
				Value:    ws.ID,
				Path:     "/",
				MaxAge:   h.config.Redis.WorkspaceExpiration,
				HttpOnly: true,
				Secure:   h.config.Environment == "production",
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), WorkspaceCtx, ws)
		next.ServeHTTP(w, r.WithContext(ctx))

		// 请求可能已经被取消，保存时使用新的 context
		saveCtx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.registry.Save(saveCtx, ws); err != nil {
			slog.Error("保存工作区失败", "id", ws.ID, "error", err)
		}
	})
}
