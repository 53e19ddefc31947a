package mailer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

func TestCompose(t *testing.T) {
	event := domain.RosterEvent{
		Type:       domain.EventRosterSaved,
		RosterID:   1,
		RosterName: "Ward A",
		RosterCode: "WA",
		Actor:      "Ada",
		Count:      4,
		OccurredAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	msg, err := Compose("noreply@example.com", []string{"a@example.com", "b@example.com"}, event)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	rcpts, err := msg.GetRecipients()
	if err != nil {
		t.Fatalf("GetRecipients: %v", err)
	}
	if len(rcpts) != 2 {
		t.Errorf("recipients: got %v", rcpts)
	}

	want, _ := Subject(domain.EventRosterSaved)
	if got := msg.GetGenHeader(mail.HeaderSubject); len(got) != 1 || got[0] != want {
		t.Errorf("subject: got %v, want %q", got, want)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
}

func TestTemplate_OmitsEmptyFields(t *testing.T) {
	event := domain.RosterEvent{
		Type:       domain.EventRosterDeleted,
		RosterName: "Ward <A>",
		OccurredAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := eventTemplate.Execute(&buf, newTemplateData(eventTexts[event.Type], event)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "2025-03-01 09:00:00") {
		t.Errorf("body should contain the event time")
	}
	if !strings.Contains(body, "Ward &lt;A&gt;") {
		t.Errorf("roster name should be escaped")
	}
	if strings.Contains(body, "操作人") || strings.Contains(body, "条目数") {
		t.Errorf("empty fields should be omitted")
	}
}

func TestCompose_Errors(t *testing.T) {
	if _, err := Compose("noreply@example.com", nil, domain.RosterEvent{Type: domain.EventRosterCreated}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("no recipients: got %v", err)
	}
	if _, err := Compose("noreply@example.com", []string{"a@example.com"}, domain.RosterEvent{Type: "unknown"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("unknown event: got %v", err)
	}
	if _, err := Compose("not an address", []string{"a@example.com"}, domain.RosterEvent{Type: domain.EventRosterCreated}); err == nil {
		t.Errorf("invalid sender should fail")
	}
}

func TestEveryEventHasSubject(t *testing.T) {
	types := []domain.EventType{
		domain.EventRosterCreated,
		domain.EventRosterDeleted,
		domain.EventRosterUploaded,
		domain.EventRosterStatusChanged,
		domain.EventRosterSaved,
		domain.EventJobAdded,
		domain.EventJobsDeleted,
	}
	for _, typ := range types {
		if _, ok := Subject(typ); !ok {
			t.Errorf("%s has no subject", typ)
		}
	}
}
