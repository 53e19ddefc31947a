package seed

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
)

const sampleCSV = "\ufeff排班表名称,排班表代码,天数,岗位,job_code\n" +
	"Ward A,WA,7,Nurse,N01\n" +
	",,,,\n" +
	"Ward A,WA,7,Porter,P01\n"

func TestFromCSV(t *testing.T) {
	header, records, err := FromCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}

	want := []string{"ROSTER_NAME", "ROSTER_CODE", "DAY", "JOB_TITLE", "JOB_CODE"}
	if strings.Join(header, ",") != strings.Join(want, ",") {
		t.Errorf("header: got %v", header)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if v, _ := records[1].Get("JOB_CODE"); v != "P01" {
		t.Errorf("JOB_CODE: got %v", v)
	}
}

func TestFromCSV_Invalid(t *testing.T) {
	csv := "ROSTER_NAME,ROSTER_CODE,DAY,JOB_TITLE\nWard A,WA,0,Nurse\n"
	if _, _, err := FromCSV(strings.NewReader(csv)); err == nil {
		t.Errorf("expected error for zero days")
	}
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	records := Random(3)

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, nil, records); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	got, err := sheet.ReadFirstSheet(&buf, "seed.xlsx")
	if err != nil {
		t.Fatalf("ReadFirstSheet: %v", err)
	}
	if len(got) != len(records) {
		t.Errorf("rows: got %d, want %d", len(got), len(records))
	}
	for i := range got {
		want, _ := records[i].Get("ROSTER_CODE")
		if v, _ := got[i].Get("ROSTER_CODE"); v != want {
			t.Errorf("row %d: got %v, want %v", i, v, want)
		}
	}
}

func TestWriteWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, nil, nil); !errors.Is(err, ErrNoRows) {
		t.Errorf("got %v, want ErrNoRows", err)
	}
}
