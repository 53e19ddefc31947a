package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/gateway"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/sheet"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/workspace"
)

const upstreamToken = "Bearer upstream-token"

// upstream 模拟排班后端，记录保存和上传的请求体
type upstream struct {
	mu       sync.Mutex
	saved    []byte
	uploaded []byte
}

func (u *upstream) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	base := "/base/roster/rosterManagement/"

	mux.HandleFunc("/base/currentUser", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != upstreamToken {
			t.Errorf("Authorization: got %q", got)
		}
		io.WriteString(w, `{"fullName":"Ada Lovelace","pUserId":"u1"}`)
	})
	mux.HandleFunc(base+"fetchRoster", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":200,"results":[
			{"ROSTER_HEADER_ID":1,"ROSTER_NAME":"Ward A","ROSTER_CODE":"WA","DAY":3,"STATUS":"DRAFT"},
			{"ROSTER_HEADER_ID":2,"ROSTER_NAME":"Emergency","ROSTER_CODE":"ER","DAY":7,"STATUS":"ACTIVE"}]}`)
	})
	mux.HandleFunc(base+"fetchPlanning", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"CODE":"W","LOOKUP_NAME":"Working"}]}`)
	})
	mux.HandleFunc(base+"fetchSchedulingJobBase", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"jobCodeId":"N01","slots":[{"SHIFT_CODE":"M","ACTUAL_SLOTS":"08:00-16:00","TOTAL_HOURS":"8"}]}]}`)
	})
	mux.HandleFunc(base+"fetchRosterDaysStructure", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ROSTER_HEADER_ID"); got != "1" {
			t.Errorf("ROSTER_HEADER_ID: got %q", got)
		}
		io.WriteString(w, `{"status":200,"rosterStatus":false,"rows":[
			{"ROSTER_HEADER_ID":1,"ROSTER_ITEM_ID":11,"JOB_TITLE":"Nurse","JOB_CODE":"N01","DAY":3,"DAY_TYPE_1":"W"},
			{"ROSTER_HEADER_ID":1,"ROSTER_ITEM_ID":12,"JOB_TITLE":"Porter","JOB_CODE":"P01","DAY":1}]}`)
	})
	mux.HandleFunc(base+"saveData", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.saved = body
		u.mu.Unlock()
		io.WriteString(w, `{"status":201}`)
	})
	mux.HandleFunc(base+"massUpload", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.uploaded = body
		u.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	upstream *upstream
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	up := &upstream{}
	upSrv := httptest.NewServer(up.handler(t))
	t.Cleanup(upSrv.Close)

	gw, err := gateway.New(upSrv.URL+"/base", upstreamToken, 5*time.Second)
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}

	cfg := &config.Config{}
	cfg.Redis.OperationExpiration = 5
	cfg.Redis.WorkspaceExpiration = 3600
	cfg.Upload.MaxSize = 1 << 20

	registry := workspace.NewRegistry(workspace.NewMemoryStore(time.Hour), workspace.Options{Gateway: gw})
	h, err := NewHandler(cfg, registry, gw.Proxy())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	h.RegisterRoutes()

	srv := httptest.NewServer(h.Mux)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &testApp{server: srv, client: &http.Client{Jar: jar}, upstream: up}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *testApp) call(t *testing.T, method, path string, body any) envelope {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.server.URL+path, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return env
}

type listData struct {
	Rosters []struct {
		Code string `json:"ROSTER_CODE"`
	} `json:"rosters"`
	User *struct {
		FullName string `json:"fullName"`
	} `json:"currentUser"`
	Upload struct {
		State    string `json:"state"`
		RowCount int    `json:"rowCount"`
	} `json:"uploadDialog"`
	Alert *struct {
		Message string `json:"message"`
	} `json:"alert"`
}

type detailData struct {
	Title      string `json:"title"`
	DayColumns []int  `json:"dayColumns"`
	Rows       []struct {
		RosterItemID int64 `json:"rosterItemId"`
		Editing      bool  `json:"editing"`
		Cells        []struct {
			ScheduleStatus string `json:"scheduleStatus"`
			Slots          string `json:"slots"`
			TotalHours     string `json:"totalHours"`
		} `json:"cells"`
	} `json:"rows"`
	Alert *struct {
		Message string `json:"message"`
	} `json:"alert"`
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	if !env.Success {
		t.Fatalf("request failed: %q", env.Message)
	}
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return v
}

func TestListAndWorkspaceCookie(t *testing.T) {
	app := newTestApp(t)

	list := decodeData[listData](t, app.call(t, http.MethodGet, "/rosters", nil))
	if len(list.Rosters) != 2 || list.Rosters[0].Code != "WA" {
		t.Errorf("rosters: %+v", list.Rosters)
	}
	if list.User == nil || list.User.FullName != "Ada Lovelace" {
		t.Errorf("user: %+v", list.User)
	}

	u, _ := url.Parse(app.server.URL)
	found := false
	for _, c := range app.client.Jar.Cookies(u) {
		if c.Name == workspaceCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("workspace cookie was not set")
	}

	// 同一个 cookie 下搜索词会保留
	app.call(t, http.MethodPut, "/list/search", map[string]string{"search": "emer"})
	list = decodeData[listData](t, app.call(t, http.MethodGet, "/list", nil))
	if len(list.Rosters) != 1 || list.Rosters[0].Code != "ER" {
		t.Errorf("filtered rosters: %+v", list.Rosters)
	}
}

func TestCreateRosterValidation(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodGet, "/rosters", nil)
	app.call(t, http.MethodPost, "/list/create/open", nil)

	env := app.call(t, http.MethodPost, "/list/create/submit", map[string]any{"rosterCode": "NT", "rosteringDays": 3})
	if env.Success {
		t.Fatalf("expected validation failure")
	}
	if env.Message != "rosterName is a required field" {
		t.Errorf("message: got %q", env.Message)
	}

	env = app.call(t, http.MethodPost, "/list/create/submit", map[string]any{"rosterName": "Night", "rosterCode": "NT", "rosteringDays": 0})
	if env.Success {
		t.Errorf("zero days should be rejected")
	}
}

func TestIntentErrors(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodGet, "/rosters", nil)

	env := app.call(t, http.MethodPost, "/list/delete/open", nil)
	if env.Success || env.Message != "Please select at least one item" {
		t.Errorf("got %+v", env)
	}
	env = app.call(t, http.MethodPost, "/detail/save", nil)
	if env.Success || env.Message != "No roster is open" {
		t.Errorf("got %+v", env)
	}
	env = app.call(t, http.MethodGet, "/rosters/NOPE", nil)
	if env.Success || env.Message != "Roster not found" {
		t.Errorf("got %+v", env)
	}
}

func TestDetailEditAndSave(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodGet, "/rosters", nil)

	detail := decodeData[detailData](t, app.call(t, http.MethodGet, "/rosters/WA", nil))
	if detail.Title != "Ward A" || len(detail.DayColumns) != 3 || len(detail.Rows) != 2 {
		t.Fatalf("detail: %+v", detail)
	}

	env := app.call(t, http.MethodPut, "/detail/rows/11/days/2", map[string]string{"scheduleStatus": "M"})
	if env.Success || env.Message != "Row is not being edited" {
		t.Errorf("edit without session: %+v", env)
	}

	app.call(t, http.MethodPost, "/detail/rows/11/edit", nil)
	detail = decodeData[detailData](t, app.call(t, http.MethodPut, "/detail/rows/11/days/2", map[string]string{"scheduleStatus": "M"}))
	c := detail.Rows[0].Cells[1]
	if !detail.Rows[0].Editing || c.ScheduleStatus != "M" || c.Slots != "08:00-16:00" || c.TotalHours != "8" {
		t.Errorf("edited cell: %+v", c)
	}

	detail = decodeData[detailData](t, app.call(t, http.MethodPost, "/detail/save", nil))
	if detail.Alert == nil || detail.Alert.Message != "Data successfully saved" {
		t.Errorf("alert: %+v", detail.Alert)
	}

	app.upstream.mu.Lock()
	saved := app.upstream.saved
	app.upstream.mu.Unlock()
	var rows []map[string]any
	if err := json.Unmarshal(saved, &rows); err != nil {
		t.Fatalf("saved body: %v", err)
	}
	if len(rows) != 2 || rows[0]["SCHEDULE_STATUS_2"] != "M" || rows[0]["TOTAL_HOURS_2"] != "8" {
		t.Errorf("saved rows: %v", rows)
	}
}

func TestUploadAndConfirm(t *testing.T) {
	app := newTestApp(t)
	app.call(t, http.MethodGet, "/rosters", nil)

	rec := domain.NewRecord()
	rec.Set("ROSTER_NAME", "Ward B")
	rec.Set("ROSTER_CODE", "WB")
	var file bytes.Buffer
	if err := sheet.WriteRows(&file, []string{"ROSTER_NAME", "ROSTER_CODE"}, []domain.Record{*rec}); err != nil {
		t.Fatalf("WriteRows: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "upload.xlsx")
	part.Write(file.Bytes())
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/list/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.client.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	resp.Body.Close()

	list := decodeData[listData](t, env)
	if list.Upload.State != "open" || list.Upload.RowCount != 1 {
		t.Fatalf("upload dialog: %+v", list.Upload)
	}

	list = decodeData[listData](t, app.call(t, http.MethodPost, "/list/upload/confirm", nil))
	if list.Upload.State != "closed" {
		t.Errorf("upload dialog should close: %+v", list.Upload)
	}
	if list.Alert == nil || list.Alert.Message != "Document uploaded successfully" {
		t.Errorf("alert: %+v", list.Alert)
	}

	app.upstream.mu.Lock()
	uploaded := string(app.upstream.uploaded)
	app.upstream.mu.Unlock()
	if uploaded != `[{"ROSTER_NAME":"Ward B","ROSTER_CODE":"WB"}]` {
		t.Errorf("uploaded body: %s", uploaded)
	}
}

func TestDownloadSample(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.client.Get(app.server.URL + "/RosterSample.xlsx")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != xlsxContentType {
		t.Errorf("Content-Type: got %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, `filename="RosterSample.xlsx"`) {
		t.Errorf("Content-Disposition: got %q", got)
	}
	rows, err := sheet.ReadFirstSheet(resp.Body, "RosterSample.xlsx")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("sample rows: got %d, want 2", len(rows))
	}
}

func TestProxyInjectsToken(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.client.Get(app.server.URL + "/api/currentUser")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var user domain.CurrentUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.FullName != "Ada Lovelace" {
		t.Errorf("user: %+v", user)
	}
}
