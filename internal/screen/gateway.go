package screen

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/gateway"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/notify"
)

// Gateway 是两个页面用到的后端接口，由 *gateway.Client 实现
type Gateway interface {
	CurrentUser(ctx context.Context) (domain.CurrentUser, error)
	FetchRosters(ctx context.Context) ([]domain.RosterHeader, error)
	CreateRoster(ctx context.Context, req gateway.CreateRosterRequest) error
	DeleteRosters(ctx context.Context, items []gateway.DeleteRosterItem) error
	MassUpload(ctx context.Context, rows []domain.Record, progress func(percent int)) error
	FetchPositions(ctx context.Context) ([]domain.JobOption, error)
	AddJob(ctx context.Context, req gateway.AddJobRequest) error
	FetchPlanning(ctx context.Context) ([]domain.PlanningOption, error)
	FetchSchedulingJobBase(ctx context.Context) ([]domain.SchedulingStatusItem, error)
	FetchRosterDays(ctx context.Context, rosterHeaderID int64) (gateway.RosterDays, error)
	DeletePositions(ctx context.Context, items []gateway.DeletePositionItem) error
	MarkRosterStatus(ctx context.Context, req gateway.MarkStatusRequest) error
	SaveData(ctx context.Context, rows []domain.RosterDayRow) error
	DownloadData(ctx context.Context, rosterID int64) ([]domain.Record, error)
}

var _ Gateway = (*gateway.Client)(nil)

var (
	ErrNothingSelected = errors.New("nothing selected")
	ErrNoJobSelected   = errors.New("no job selected")
	ErrUploadRunning   = errors.New("upload in progress")
	ErrNotMounted      = errors.New("no roster is open")
)

// Download 是导出生成的文件
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// publish 发布事件，失败只记录日志，不影响页面操作的结果
func publish(ctx context.Context, pub notify.Publisher, event domain.RosterEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		slog.Warn("事件发布失败", "type", event.Type, "rosterID", event.RosterID, "error", err)
	}
}
