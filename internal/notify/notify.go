// Package notify 把排班表的变更事件发布到消息队列，由 mail worker 负责发送邮件
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.RosterEvent) error
}

// Channel 是 amqp.Channel 中用到的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AMQPPublisher struct {
	ch      Channel
	queue   string
	timeout time.Duration
}

func NewAMQPPublisher(ch Channel, queue string, timeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue, timeout: timeout}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event domain.RosterEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("事件序列化失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("事件发布失败: %w", err)
	}
	return nil
}

// Discard 在没有配置消息队列时使用
type Discard struct{}

func (Discard) Publish(ctx context.Context, event domain.RosterEvent) error {
	slog.Debug("未配置消息队列，丢弃事件", "type", event.Type, "rosterID", event.RosterID)
	return nil
}
