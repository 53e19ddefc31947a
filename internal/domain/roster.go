package domain

type RosterStatus string

const (
	RosterStatusDraft  RosterStatus = "DRAFT"
	RosterStatusActive RosterStatus = "ACTIVE"
)

func StatusFromActive(active bool) RosterStatus {
	if active {
		return RosterStatusActive
	}
	return RosterStatusDraft
}

type RosterHeader struct {
	ID         Int          `json:"ROSTER_HEADER_ID"`
	Name       Text         `json:"ROSTER_NAME"`
	Code       Text         `json:"ROSTER_CODE"`
	Days       Int          `json:"DAY"`
	Status     RosterStatus `json:"STATUS"`
	ModifiedBy Text         `json:"MODIFIED_BY"`
	ModifiedOn Text         `json:"FORMAT_MODIFIED_ON"`
}

type CurrentUser struct {
	FullName string `json:"fullName"`
	PUserID  Text   `json:"pUserId"`
}

type JobOption struct {
	JobCodeID    Text `json:"JOB_CODE_ID"`
	JobTitleDesc Text `json:"JOB_TITLE_DESC"`
}

type PlanningOption struct {
	Code       Text `json:"CODE"`
	LookupName Text `json:"LOOKUP_NAME"`
}

type ShiftSlot struct {
	ShiftCode   Text `json:"SHIFT_CODE"`
	ActualSlots Text `json:"ACTUAL_SLOTS"`
	TotalHours  Text `json:"TOTAL_HOURS"`
}

// SchedulingStatusItem 是某个岗位可选的班次集合
type SchedulingStatusItem struct {
	JobCodeID Text        `json:"jobCodeId"`
	Slots     []ShiftSlot `json:"slots"`
}
