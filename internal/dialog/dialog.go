// Package dialog 实现各个弹窗的状态机：
// Closed → Open(draft) → {取消回到 Closed | Submitting → 成功回到 Closed | 失败回到 Open 并带错误}
package dialog

import "errors"

type State string

const (
	StateClosed     State = "closed"
	StateOpen       State = "open"
	StateSubmitting State = "submitting"
)

// FailurePolicy 决定提交失败之后弹窗的去向
type FailurePolicy int

const (
	// KeepOpen 失败时保持打开并显示错误（创建排班表、添加岗位）
	KeepOpen FailurePolicy = iota
	// CloseAndAlert 确认时立即关闭，失败通过提示条报告（删除、导出、上传）
	CloseAndAlert
)

var (
	ErrNotOpen    = errors.New("dialog is not open")
	ErrSubmitting = errors.New("dialog is already submitting")
)

type Dialog[D any] struct {
	policy FailurePolicy
	state  State
	draft  D
	err    string
}

func New[D any](policy FailurePolicy) *Dialog[D] {
	return &Dialog[D]{policy: policy, state: StateClosed}
}

func (d *Dialog[D]) State() State {
	return d.state
}

func (d *Dialog[D]) IsOpen() bool {
	return d.state != StateClosed
}

func (d *Dialog[D]) Draft() D {
	return d.draft
}

func (d *Dialog[D]) Error() string {
	return d.err
}

// Open 打开弹窗，重新打开会替换草稿
func (d *Dialog[D]) Open(draft D) {
	d.state = StateOpen
	d.draft = draft
	d.err = ""
}

// Update 在打开状态下修改草稿
func (d *Dialog[D]) Update(draft D) error {
	if d.state != StateOpen {
		return ErrNotOpen
	}
	d.draft = draft
	return nil
}

// Amend 修改草稿但不改变状态，提交过程中也可以调用，例如更新上传进度
func (d *Dialog[D]) Amend(draft D) error {
	if d.state == StateClosed {
		return ErrNotOpen
	}
	d.draft = draft
	return nil
}

// Fault 记录一个不改变状态的错误，例如加载下拉选项失败
func (d *Dialog[D]) Fault(msg string) {
	d.err = msg
}

// Cancel 关闭弹窗并清空草稿
func (d *Dialog[D]) Cancel() {
	var zero D
	d.state = StateClosed
	d.draft = zero
	d.err = ""
}

// Begin 进入提交状态并返回草稿。CloseAndAlert 的弹窗在这里就已经关闭
func (d *Dialog[D]) Begin() (D, error) {
	var zero D
	switch d.state {
	case StateClosed:
		return zero, ErrNotOpen
	case StateSubmitting:
		return zero, ErrSubmitting
	}

	draft := d.draft
	d.err = ""
	if d.policy == CloseAndAlert {
		d.Cancel()
		return draft, nil
	}
	d.state = StateSubmitting
	return draft, nil
}

// Succeed 提交成功，关闭弹窗
func (d *Dialog[D]) Succeed() {
	d.Cancel()
}

// Fail 提交失败。KeepOpen 的弹窗回到打开状态并保留草稿
func (d *Dialog[D]) Fail(msg string) {
	if d.policy == CloseAndAlert {
		return
	}
	if d.state == StateSubmitting {
		d.state = StateOpen
	}
	d.err = msg
}

type View[D any] struct {
	State State  `json:"state"`
	Draft D      `json:"draft"`
	Error string `json:"error,omitempty"`
}

func (d *Dialog[D]) View() View[D] {
	return View[D]{State: d.state, Draft: d.draft, Error: d.err}
}

// Restore 按快照重建弹窗。快照里正在提交的弹窗恢复为打开状态，因为原来的请求已经不存在了
func Restore[D any](policy FailurePolicy, v View[D]) *Dialog[D] {
	d := New[D](policy)
	switch v.State {
	case StateOpen, StateSubmitting:
		d.state = StateOpen
		d.draft = v.Draft
		d.err = v.Error
	}
	return d
}
