package model

import (
	"strings"
	"time"
)

// ── 持久化格式（与既有 data/*.json 保持兼容）──

const (
	DateLayout        = "2006-01-02"          // fecha
	TimeLayout        = "15:04:05"            // hora
	TimestampLayout   = "2006-01-02 15:04:05" // fecha_registro / timestamp
	DisplayDateLayout = "02/01/2006"          // 报表展示 DD/MM/YYYY
)

// 集合名称，对应 data/<name>.json
const (
	CollectionStudents        = "students"
	CollectionCleaningHistory = "cleaning_history"
)

// weekdayNames 西语星期名称，索引为 time.Weekday（周日 = 0）
var weekdayNames = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// WeekdayName 返回日期对应的西语星期名称
func WeekdayName(d time.Time) string {
	return weekdayNames[d.Weekday()]
}

// ParseDate 按 DateLayout 解析日期，返回 loc 时区下的零点
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// DateOf 截断到 t 所在时区的零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
