package clock

import (
	"fmt"
	"time"
)

// Clock 时间源。每次请求只取一次 Now()，同一次渲染内的所有日期计算共用该值
type Clock interface {
	Now() time.Time
}

// ── 系统时钟 ──

type systemClock struct {
	loc *time.Location
}

// NewSystem 创建绑定时区的系统时钟
func NewSystem(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

// NewSystemFromName 按 IANA 时区名创建系统时钟（如 America/Guayaquil）
func NewSystemFromName(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("加载时区 %q 失败: %w", name, err)
	}
	return NewSystem(loc), nil
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

// ── 固定时钟（测试用）──

// Fixed 始终返回同一时刻
type Fixed time.Time

// Now 实现 Clock
func (f Fixed) Now() time.Time { return time.Time(f) }

// Today 返回 now 所在时区的当日零点
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
