package screen

import (
	"time"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/notify"
)

// Deps 是页面依赖的外部组件
type Deps struct {
	Gateway   Gateway
	Publisher notify.Publisher
	Alerts    *AlertBox
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Publisher == nil {
		d.Publisher = notify.Discard{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Alerts == nil {
		d.Alerts = NewAlertBox(5*time.Second, d.Now)
	}
	return d
}
