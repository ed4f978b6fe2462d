package clock

import (
	"testing"
	"time"
)

func TestFixed_Now(t *testing.T) {
	ts := time.Date(2025, 3, 12, 23, 59, 59, 0, time.UTC)
	c := Fixed(ts)
	if !c.Now().Equal(ts) {
		t.Errorf("期望 %v，实际 %v", ts, c.Now())
	}
}

func TestToday_TruncatesToMidnight(t *testing.T) {
	loc := time.FixedZone("ECT", -5*3600)
	now := time.Date(2025, 3, 12, 23, 59, 59, 0, loc)

	got := Today(now)
	want := time.Date(2025, 3, 12, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got)
	}
	if got.Location() != loc {
		t.Error("Today 应保留原时区")
	}
}

func TestNewSystemFromName_InvalidZone(t *testing.T) {
	if _, err := NewSystemFromName("Mars/Olympus_Mons"); err == nil {
		t.Error("无效时区应返回错误")
	}
}

func TestNewSystem_UsesLocation(t *testing.T) {
	loc := time.FixedZone("ECT", -5*3600)
	c := NewSystem(loc)
	if c.Now().Location() != loc {
		t.Error("系统时钟应返回指定时区的时间")
	}
}
