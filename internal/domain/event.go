package domain

import "time"

type EventType string

const (
	EventRosterCreated       EventType = "roster_created"
	EventRosterDeleted       EventType = "roster_deleted"
	EventRosterUploaded      EventType = "roster_uploaded"
	EventRosterStatusChanged EventType = "roster_status_changed"
	EventRosterSaved         EventType = "roster_saved"
	EventJobAdded            EventType = "job_added"
	EventJobsDeleted         EventType = "jobs_deleted"
)

// RosterEvent 在排班表被成功修改后发布到消息队列
type RosterEvent struct {
	Type       EventType `json:"type"`
	RosterID   int64     `json:"rosterID"`
	RosterName string    `json:"rosterName"`
	RosterCode string    `json:"rosterCode"`
	Actor      string    `json:"actor"`
	Count      int       `json:"count"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurredAt"`
}
