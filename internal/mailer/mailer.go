// Package mailer 把排班表事件渲染成通知邮件
package mailer

import (
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/roster_event_email.html
var templateFS embed.FS

var eventTemplate = template.Must(template.ParseFS(templateFS, "templates/roster_event_email.html"))

var (
	ErrUnknownEvent = errors.New("不支持的事件类型")
	ErrNoRecipients = errors.New("没有配置收件人")
)

type eventText struct {
	subject string
	summary string
}

var eventTexts = map[domain.EventType]eventText{
	domain.EventRosterCreated:       {"排班系统 - 新建排班表", "新的排班表已创建。"},
	domain.EventRosterDeleted:       {"排班系统 - 删除排班表", "排班表已被删除。"},
	domain.EventRosterUploaded:      {"排班系统 - 批量导入", "排班表数据已通过文件批量导入。"},
	domain.EventRosterStatusChanged: {"排班系统 - 状态变更", "排班表的启用状态已变更。"},
	domain.EventRosterSaved:         {"排班系统 - 保存排班", "排班表的排班数据已保存。"},
	domain.EventJobAdded:            {"排班系统 - 添加岗位", "排班表中添加了新的岗位。"},
	domain.EventJobsDeleted:         {"排班系统 - 删除岗位", "排班表中的岗位已被删除。"},
}

type templateData struct {
	Subject    string
	Summary    string
	RosterName string
	RosterCode string
	Actor      string
	Count      int
	Detail     string
	OccurredAt string
}

func newTemplateData(text eventText, event domain.RosterEvent) templateData {
	return templateData{
		Subject:    text.subject,
		Summary:    text.summary,
		RosterName: event.RosterName,
		RosterCode: event.RosterCode,
		Actor:      event.Actor,
		Count:      event.Count,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.Format("2006-01-02 15:04:05"),
	}
}

func Subject(t domain.EventType) (string, bool) {
	text, ok := eventTexts[t]
	return text.subject, ok
}

// Compose 为一个事件构建邮件，所有收件人共用同一封
func Compose(from string, to []string, event domain.RosterEvent) (*mail.Msg, error) {
	text, ok := eventTexts[event.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event.Type)
	}
	if len(to) == 0 {
		return nil, ErrNoRecipients
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	msg.Subject(text.subject)

	if err := msg.SetBodyHTMLTemplate(eventTemplate, newTemplateData(text, event)); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	return msg, nil
}
