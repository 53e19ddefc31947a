package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRosterDayRow_Unmarshal(t *testing.T) {
	raw := `{
		"ROSTER_HEADER_ID": "12",
		"ROSTER_ITEM_ID": 345,
		"JOB_TITLE": "Nurse",
		"JOB_CODE": 77,
		"JOB_TITLE_SEQ_NO": null,
		"DAY": "3",
		"DAY_TYPE_1": "WD",
		"SCHEDULE_STATUS_1": "M",
		"SLOTS_1": "08:00-12:00 | 13:00-17:00",
		"TOTAL_HOURS_1": 8,
		"DAY_TYPE_3": "OFF",
		"ASLOTS_1": ["a", 1],
		"CREATED_BY": "admin"
	}`

	var row RosterDayRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if row.RosterHeaderID != 12 || row.RosterItemID != 345 {
		t.Errorf("ids: got %d/%d", row.RosterHeaderID, row.RosterItemID)
	}
	if row.JobCode != "77" {
		t.Errorf("job code: got %q, want %q", row.JobCode, "77")
	}
	if row.SeqNo != "" {
		t.Errorf("null seq no: got %q, want empty", row.SeqNo)
	}
	if row.Day != 3 {
		t.Errorf("day: got %d, want 3", row.Day)
	}
	if len(row.Days) != 3 {
		t.Fatalf("days: got %d, want 3", len(row.Days))
	}
	if c := row.Cell(1); c.TotalHours != "8" || c.ScheduleStatus != "M" {
		t.Errorf("day 1: %+v", c)
	}
	if c := row.Cell(2); c.DayType != "" || c.Slots != "" || c.AssignedSlots != nil {
		t.Errorf("day 2 should be empty: %+v", c)
	}
	if got := row.Cell(3).DayType; got != "OFF" {
		t.Errorf("day 3 type: got %q", got)
	}
	if got := row.Cell(1).AssignedSlots; len(got) != 2 || got[1] != "1" {
		t.Errorf("assigned slots: %v", got)
	}
	if c := row.Cell(9); c.DayType != "" {
		t.Errorf("out of range cell should be zero")
	}
	if string(row.Extra["CREATED_BY"]) != `"admin"` {
		t.Errorf("extra field lost: %v", row.Extra)
	}
}

func TestRosterDayRow_MarshalRoundTripsExtraFields(t *testing.T) {
	row := RosterDayRow{
		RosterHeaderID: 1,
		RosterItemID:   2,
		JobTitle:       "Porter",
		Day:            2,
		Days: []DayCell{
			{DayType: "WD", AssignedSlots: []string{}},
			{DayType: "OFF"},
		},
		Extra: map[string]json.RawMessage{"CREATED_BY": json.RawMessage(`"admin"`)},
	}

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"DAY_TYPE_2":"OFF"`, `"ASLOTS_1":[]`, `"CREATED_BY":"admin"`, `"DAY":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("marshal output missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, "ASLOTS_2") {
		t.Errorf("nil assigned slots should be omitted: %s", s)
	}
}

func TestRecord_KeepsKeyOrder(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"Z": 1, "A": "x", "M": null}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := strings.Join(rec.Keys(), ","); got != "Z,A,M" {
		t.Errorf("got keys %q, want %q", got, "Z,A,M")
	}

	rec.Set("A", "y")
	rec.Set("B", 2)
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"Z":1,"A":"y","M":null,"B":2}`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`1`, true},
		{`0`, false},
		{`""`, false},
		{`"Y"`, true},
		{`{}`, true},
		{``, false},
	}
	for _, tt := range tests {
		if got := Truthy(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("Truthy(%s): got %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestInt_AcceptsStringsAndFloats(t *testing.T) {
	var h RosterHeader
	if err := json.Unmarshal([]byte(`{"ROSTER_HEADER_ID":"7","DAY":14.0,"ROSTER_NAME":null}`), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.ID != 7 || h.Days != 14 || h.Name != "" {
		t.Errorf("got %+v", h)
	}
}

func TestRosterDayRow_ClampsDay(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"DAY": 7}`, 7},
		{`{"DAY": 2e9}`, MaxDays},
		{`{"DAY": "99999999"}`, MaxDays},
		{`{"DAY": -3}`, 0},
	}
	for _, tt := range tests {
		var row RosterDayRow
		if err := json.Unmarshal([]byte(tt.raw), &row); err != nil {
			t.Fatalf("%s: %v", tt.raw, err)
		}
		if row.Day != tt.want {
			t.Errorf("%s: got day %d, want %d", tt.raw, row.Day, tt.want)
		}
	}
}
