package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

func TestGenerateCodeFromChineseName(t *testing.T) {
	re := regexp.MustCompile(`^NKYB[0-9]{1,3}$`)
	for i := 0; i < 20; i++ {
		if code := GenerateCodeFromChineseName("内科夜班"); !re.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, re)
		}
	}
}

func TestGenerateRandomRoster(t *testing.T) {
	for i := 0; i < 20; i++ {
		rows := GenerateRandomRoster()
		if len(rows) == 0 {
			t.Fatalf("expected at least one row")
		}
		if err := ValidateUploadRecords(rows); err != nil {
			t.Fatalf("generated rows are invalid: %v", err)
		}
	}
}

func TestParseRosteringDays(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"7", 7, false},
		{" 14 ", 14, false},
		{"3.0", 3, false},
		{"3.5", 0, true},
		{"0", 0, true},
		{"32", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRosteringDays(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRosteringDays(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func record(name, code string, day any, title string) domain.Record {
	rec := domain.NewRecord()
	rec.Set("ROSTER_NAME", name)
	rec.Set("ROSTER_CODE", code)
	rec.Set("DAY", day)
	rec.Set("JOB_TITLE", title)
	return *rec
}

func TestValidateUploadRecords(t *testing.T) {
	ok := []domain.Record{
		record("Ward A", "WA", 7, "Nurse"),
		record("Ward A", "WA", "7", "Porter"),
	}
	if err := ValidateUploadRecords(ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	missing := []domain.Record{record("Ward A", "", 7, "Nurse")}
	if err := ValidateUploadRecords(missing); err == nil || !strings.Contains(err.Error(), "ROSTER_CODE") {
		t.Errorf("missing code: got %v", err)
	}

	conflict := []domain.Record{
		record("Ward A", "WA", 7, "Nurse"),
		record("Ward A", "WA", 14, "Porter"),
	}
	if err := ValidateUploadRecords(conflict); err == nil || !strings.Contains(err.Error(), "第 2 行") {
		t.Errorf("conflicting days: got %v", err)
	}
}
