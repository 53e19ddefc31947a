package gateway

import "errors"

// 三类失败在界面上统一显示为一条提示，这里仍然区分开以便记录日志
var (
	ErrTransport = errors.New("上游请求失败")
	ErrStatus    = errors.New("上游返回了非成功状态")
	ErrMalformed = errors.New("上游返回的数据格式错误")
)
