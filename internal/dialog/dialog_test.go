package dialog

import (
	"testing"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
)

func TestKeepOpen_FailureKeepsDraft(t *testing.T) {
	d := New[RosterDraft](KeepOpen)
	d.Open(RosterDraft{Name: "Ward A", Code: "WA", Days: 7})

	draft, err := d.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if draft.Code != "WA" {
		t.Errorf("got code %q, want %q", draft.Code, "WA")
	}
	if d.State() != StateSubmitting {
		t.Errorf("got state %q, want %q", d.State(), StateSubmitting)
	}
	if _, err := d.Begin(); err != ErrSubmitting {
		t.Errorf("double submit: got %v, want %v", err, ErrSubmitting)
	}

	d.Fail("Failed to create roster.")
	if d.State() != StateOpen {
		t.Errorf("got state %q, want %q", d.State(), StateOpen)
	}
	if d.Error() != "Failed to create roster." {
		t.Errorf("got error %q", d.Error())
	}
	if d.Draft().Name != "Ward A" {
		t.Errorf("draft lost after failure: %+v", d.Draft())
	}

	if _, err := d.Begin(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if d.Error() != "" {
		t.Errorf("error should be cleared on retry, got %q", d.Error())
	}
	d.Succeed()
	if d.IsOpen() {
		t.Errorf("dialog should be closed after success")
	}
	if d.Draft() != (RosterDraft{}) {
		t.Errorf("draft should be reset, got %+v", d.Draft())
	}
}

func TestCloseAndAlert_ClosesOnBegin(t *testing.T) {
	d := New[DeleteDraft](CloseAndAlert)
	d.Open(DeleteDraft{IDs: []int64{1, 2}})

	draft, err := d.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if len(draft.IDs) != 2 {
		t.Errorf("got %d ids, want 2", len(draft.IDs))
	}
	if d.IsOpen() {
		t.Errorf("dialog should close as soon as it is confirmed")
	}

	d.Fail("Failed to delete selected rosters.")
	if d.IsOpen() || d.Error() != "" {
		t.Errorf("failure must not reopen the dialog: %+v", d.View())
	}
}

func TestCancelAndClosedErrors(t *testing.T) {
	d := New[AddJobDraft](KeepOpen)
	if _, err := d.Begin(); err != ErrNotOpen {
		t.Errorf("begin on closed: got %v, want %v", err, ErrNotOpen)
	}
	if err := d.Update(AddJobDraft{Selected: "J1"}); err != ErrNotOpen {
		t.Errorf("update on closed: got %v, want %v", err, ErrNotOpen)
	}

	d.Open(AddJobDraft{Loading: true})
	d.Fault("Failed to load job titles.")
	if d.State() != StateOpen || d.Error() == "" {
		t.Errorf("fault should keep dialog open with error: %+v", d.View())
	}

	d.Cancel()
	if d.IsOpen() || d.Error() != "" {
		t.Errorf("cancel should reset everything: %+v", d.View())
	}
}

func TestUniqueJobOptions(t *testing.T) {
	opts := []domain.JobOption{
		{JobCodeID: "N1", JobTitleDesc: "Nurse"},
		{JobCodeID: "", JobTitleDesc: "No code"},
		{JobCodeID: "D1", JobTitleDesc: "Doctor"},
		{JobCodeID: "N1", JobTitleDesc: "Nurse (dup)"},
	}
	got := UniqueJobOptions(opts)
	if len(got) != 2 {
		t.Fatalf("got %d options, want 2", len(got))
	}
	if got[0].JobTitleDesc != "Nurse" || got[1].JobCodeID != "D1" {
		t.Errorf("unexpected options: %+v", got)
	}

	draft := AddJobDraft{Options: got}
	if opt, ok := draft.Find("D1"); !ok || opt.JobTitleDesc != "Doctor" {
		t.Errorf("find D1: %+v %v", opt, ok)
	}
	if _, ok := draft.Find("X"); ok {
		t.Errorf("expected miss")
	}
}

func TestAmendAndRestore(t *testing.T) {
	d := New[UploadDraft](KeepOpen)
	if err := d.Amend(UploadDraft{Progress: 5}); err != ErrNotOpen {
		t.Errorf("amend on closed: got %v", err)
	}

	d.Open(UploadDraft{FileName: "a.xlsx"})
	if _, err := d.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := d.Amend(UploadDraft{FileName: "a.xlsx", Progress: 40}); err != nil {
		t.Fatalf("amend while submitting: %v", err)
	}
	if d.State() != StateSubmitting || d.Draft().Progress != 40 {
		t.Errorf("got %+v", d.View())
	}

	r := Restore(KeepOpen, d.View())
	if r.State() != StateOpen {
		t.Errorf("restored submitting dialog: got %q, want %q", r.State(), StateOpen)
	}
	if r.Draft().FileName != "a.xlsx" {
		t.Errorf("draft lost: %+v", r.Draft())
	}
	if Restore(KeepOpen, View[UploadDraft]{State: StateClosed}).IsOpen() {
		t.Errorf("closed view should restore closed")
	}
}
