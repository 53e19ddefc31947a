// Package workspace 管理每个浏览器的页面状态。
// 工作区通过 cookie 中的 ID 区分，活跃的工作区保存在内存中，每次请求结束后写回 Store，
// 进程重启或内存中的工作区被回收后可以从 Store 恢复。
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/notify"
	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/screen"
)

type Workspace struct {
	ID     string
	Alerts *screen.AlertBox
	List   *screen.ListScreen
	Detail *screen.DetailScreen

	lastUsed time.Time
}

// Snapshot 是工作区的持久化形式
type Snapshot struct {
	List   screen.ListSnapshot   `json:"list"`
	Detail screen.DetailSnapshot `json:"detail"`
	Alert  *screen.Alert         `json:"alert,omitempty"`
}

func (w *Workspace) Snapshot() Snapshot {
	return Snapshot{
		List:   w.List.Snapshot(),
		Detail: w.Detail.Snapshot(),
		Alert:  w.Alerts.Snapshot(),
	}
}

type Options struct {
	Gateway   screen.Gateway
	Publisher notify.Publisher
	AlertTTL  time.Duration
	IdleTTL   time.Duration // 内存中的工作区超过这个时间没有使用就回收
	Now       func() time.Time
}

type Registry struct {
	store Store
	opts  Options

	mu   sync.Mutex
	live map[string]*Workspace
}

func NewRegistry(store Store, opts Options) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AlertTTL <= 0 {
		opts.AlertTTL = 5 * time.Second
	}
	return &Registry{store: store, opts: opts, live: map[string]*Workspace{}}
}

func (r *Registry) deps() screen.Deps {
	// 两个页面共用一个提示条
	return screen.Deps{
		Gateway:   r.opts.Gateway,
		Publisher: r.opts.Publisher,
		Alerts:    screen.NewAlertBox(r.opts.AlertTTL, r.opts.Now),
		Now:       r.opts.Now,
	}
}

func (r *Registry) newWorkspace(id string) *Workspace {
	deps := r.deps()
	return &Workspace{
		ID:     id,
		Alerts: deps.Alerts,
		List:   screen.NewListScreen(deps),
		Detail: screen.NewDetailScreen(deps),
	}
}

func (r *Registry) restore(id string, snap Snapshot) *Workspace {
	deps := r.deps()
	deps.Alerts.Restore(snap.Alert)
	return &Workspace{
		ID:     id,
		Alerts: deps.Alerts,
		List:   screen.RestoreListScreen(deps, snap.List),
		Detail: screen.RestoreDetailScreen(deps, snap.Detail),
	}
}

// Acquire 返回 id 对应的工作区。id 无效或找不到时创建新的工作区，返回值的 ID 可能与参数不同
func (r *Registry) Acquire(ctx context.Context, id string) (*Workspace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return r.create(), nil
	}

	r.mu.Lock()
	r.evict()
	if ws, ok := r.live[id]; ok {
		ws.lastUsed = r.opts.Now()
		r.mu.Unlock()
		return ws, nil
	}
	r.mu.Unlock()

	data, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return r.create(), nil
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("工作区数据损坏，重新创建", "id", id, "error", err)
		if err := r.store.Delete(ctx, id); err != nil {
			slog.Warn("删除损坏的工作区失败", "id", id, "error", err)
		}
		return r.create(), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// 并发请求可能已经恢复过同一个工作区
	if ws, ok := r.live[id]; ok {
		ws.lastUsed = r.opts.Now()
		return ws, nil
	}
	ws := r.restore(id, snap)
	ws.lastUsed = r.opts.Now()
	r.live[id] = ws
	return ws, nil
}

func (r *Registry) create() *Workspace {
	ws := r.newWorkspace(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict()
	ws.lastUsed = r.opts.Now()
	r.live[ws.ID] = ws
	return ws
}

// Save 把工作区写回 Store
func (r *Registry) Save(ctx context.Context, ws *Workspace) error {
	data, err := json.Marshal(ws.Snapshot())
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ws.ID, data)
}

// Live 返回内存中的工作区数量
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// evict 需要持有锁
func (r *Registry) evict() {
	if r.opts.IdleTTL <= 0 {
		return
	}
	deadline := r.opts.Now().Add(-r.opts.IdleTTL)
	for id, ws := range r.live {
		if ws.lastUsed.Before(deadline) {
			delete(r.live, id)
		}
	}
}
