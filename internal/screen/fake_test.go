package screen

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/gateway"
)

var errBoom = errors.New("boom")

// fakeGateway 按字段返回固定数据，并记录写操作的参数
type fakeGateway struct {
	mu sync.Mutex

	user       domain.CurrentUser
	userErr    error
	rosters    []domain.RosterHeader
	rostersErr error
	positions  []domain.JobOption
	posErr     error
	planning   []domain.PlanningOption
	scheduling []domain.SchedulingStatusItem
	days       gateway.RosterDays
	daysErr    error
	records    []domain.Record
	recordsErr error

	createErr error
	deleteErr error
	uploadErr error
	addJobErr error
	delPosErr error
	statusErr error
	saveErr   error

	created    []gateway.CreateRosterRequest
	deleted    [][]gateway.DeleteRosterItem
	uploaded   [][]domain.Record
	addedJobs  []gateway.AddJobRequest
	delPos     [][]gateway.DeletePositionItem
	statuses   []gateway.MarkStatusRequest
	saved      [][]domain.RosterDayRow
	fetchCalls int
	daysCalls  int
}

func (f *fakeGateway) CurrentUser(ctx context.Context) (domain.CurrentUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, f.userErr
}

func (f *fakeGateway) FetchRosters(ctx context.Context) ([]domain.RosterHeader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.rostersErr != nil {
		return nil, f.rostersErr
	}
	return append([]domain.RosterHeader{}, f.rosters...), nil
}

func (f *fakeGateway) CreateRoster(ctx context.Context, req gateway.CreateRosterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return f.createErr
}

func (f *fakeGateway) DeleteRosters(ctx context.Context, items []gateway.DeleteRosterItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, items)
	return f.deleteErr
}

func (f *fakeGateway) MassUpload(ctx context.Context, rows []domain.Record, progress func(int)) error {
	f.mu.Lock()
	f.uploaded = append(f.uploaded, rows)
	err := f.uploadErr
	f.mu.Unlock()
	progress(50)
	if err != nil {
		return err
	}
	progress(100)
	return nil
}

func (f *fakeGateway) FetchPositions(ctx context.Context) ([]domain.JobOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.positions, f.posErr
}

func (f *fakeGateway) AddJob(ctx context.Context, req gateway.AddJobRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedJobs = append(f.addedJobs, req)
	return f.addJobErr
}

func (f *fakeGateway) FetchPlanning(ctx context.Context) ([]domain.PlanningOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.planning, nil
}

func (f *fakeGateway) FetchSchedulingJobBase(ctx context.Context) ([]domain.SchedulingStatusItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheduling, nil
}

func (f *fakeGateway) FetchRosterDays(ctx context.Context, id int64) (gateway.RosterDays, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.daysCalls++
	if f.daysErr != nil {
		return gateway.RosterDays{}, f.daysErr
	}
	rows := make([]domain.RosterDayRow, len(f.days.Rows))
	for i := range f.days.Rows {
		rows[i] = f.days.Rows[i].Clone()
	}
	return gateway.RosterDays{Rows: rows, Active: f.days.Active}, nil
}

func (f *fakeGateway) DeletePositions(ctx context.Context, items []gateway.DeletePositionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delPos = append(f.delPos, items)
	return f.delPosErr
}

func (f *fakeGateway) MarkRosterStatus(ctx context.Context, req gateway.MarkStatusRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, req)
	return f.statusErr
}

// SaveData 成功时把保存的数据作为下一次拉取的结果，模拟后端持久化
func (f *fakeGateway) SaveData(ctx context.Context, rows []domain.RosterDayRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rows)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.days.Rows = rows
	return nil
}

func (f *fakeGateway) DownloadData(ctx context.Context, id int64) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, f.recordsErr
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.RosterEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, e domain.RosterEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testDeps(gw *fakeGateway) (Deps, *recordingPublisher) {
	pub := &recordingPublisher{}
	return Deps{
		Gateway:   gw,
		Publisher: pub,
		Now:       func() time.Time { return fixedNow },
	}, pub
}
