package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/gateway"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/handler"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/notify"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/workspace"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 创建上游客户端
	 **********************************************/
	client, err := gateway.New(cfg.Upstream.BaseURL, cfg.Upstream.Token, time.Duration(cfg.Upstream.RequestTimeout)*time.Second)
	if err != nil {
		logger.Error("无法创建上游客户端", "error", err)
		return
	}

	// 令牌过期不影响启动，但之后的请求都会被上游拒绝
	exp, ok, err := gateway.TokenExpiry(cfg.Upstream.Token)
	switch {
	case err != nil:
		logger.Warn("无法解析上游令牌", "error", err)
	case ok && time.Until(exp) <= 0:
		logger.Warn("上游令牌已过期", "expiredAt", exp)
	case ok && time.Until(exp) < 24*time.Hour:
		logger.Warn("上游令牌即将过期", "expiresAt", exp)
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	var publisher notify.Publisher = notify.Discard{}
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer ch.Close()

		// 声明队列
		_, err = ch.QueueDeclare(
			cfg.RabbitMQ.Queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		publisher = notify.NewAMQPPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	} else {
		logger.Info("未配置 rabbitmq，事件不会被发布")
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	/**********************************************
	 * 创建工作区注册表
	 **********************************************/
	store := workspace.NewRedisStore(rdb, time.Duration(cfg.Redis.WorkspaceExpiration)*time.Second)
	registry := workspace.NewRegistry(store, workspace.Options{
		Gateway:   client,
		Publisher: publisher,
		AlertTTL:  time.Duration(cfg.Alert.DismissAfter) * time.Second,
		IdleTTL:   time.Duration(cfg.Redis.WorkspaceExpiration) * time.Second,
	})

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, registry, client.Proxy())
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭", "workspaces", registry.Live())
}
