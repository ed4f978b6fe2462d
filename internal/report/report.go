// Package report 从清洁记录派生只读视图：本周日期、过滤、统计与报表行
//
// 所有函数都是纯函数；"今天"由调用方传入，同一次渲染只取一次。
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/irvinmora/sistema-limpieza/internal/model"
)

// WorkDays 一周的工作日数（周一至周五）
const WorkDays = 5

// CurrentWeekDates 返回 today 所在周的周一至周五（周一为一周首日）
func CurrentWeekDates(today time.Time) [WorkDays]time.Time {
	day := model.DateOf(today)
	// time.Weekday 周日为 0，换算为周一为 0
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	var dates [WorkDays]time.Time
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// FilterByWindow 按日期闭区间 [start, end] 过滤；日期无法解析的记录被排除
func FilterByWindow(records []model.CleaningRecord, start, end time.Time) []model.CleaningRecord {
	loc := start.Location()
	from, to := model.DateOf(start), model.DateOf(end.In(loc))

	out := make([]model.CleaningRecord, 0, len(records))
	for i := range records {
		d, ok := records[i].Day(loc)
		if !ok || d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, records[i])
	}
	return out
}

// FilterByDates 保留日期属于 dates 之一的记录
func FilterByDates(records []model.CleaningRecord, dates []time.Time) []model.CleaningRecord {
	if len(dates) == 0 {
		return []model.CleaningRecord{}
	}
	loc := dates[0].Location()
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d.Format(model.DateLayout)] = true
	}

	out := make([]model.CleaningRecord, 0, len(records))
	for i := range records {
		d, ok := records[i].Day(loc)
		if ok && set[d.Format(model.DateLayout)] {
			out = append(out, records[i])
		}
	}
	return out
}

// FilterByArea 按区域过滤；AreaAll（或 "All"、空值）不过滤
func FilterByArea(records []model.CleaningRecord, area model.Area) []model.CleaningRecord {
	if area.IsAll() {
		return append([]model.CleaningRecord(nil), records...)
	}
	out := make([]model.CleaningRecord, 0, len(records))
	for i := range records {
		if records[i].Area == area {
			out = append(out, records[i])
		}
	}
	return out
}

// AreaCounts 按区域统计
type AreaCounts struct {
	Classroom int `json:"aula"`
	Restrooms int `json:"banos"`
}

// Counts 汇总统计
//
// 区域仅限已知两类时 Total == Classroom + Restrooms；
// 未知区域只计入 Total。
type Counts struct {
	Total  int        `json:"total"`
	ByArea AreaCounts `json:"por_area"`
}

// AggregateCounts 统计记录总数与各区域数量
func AggregateCounts(records []model.CleaningRecord) Counts {
	c := Counts{Total: len(records)}
	for i := range records {
		switch records[i].Area {
		case model.AreaClassroom:
			c.ByArea.Classroom++
		case model.AreaRestrooms:
			c.ByArea.Restrooms++
		}
	}
	return c
}

// Row 报表展示行（屏幕与导出共用）
type Row struct {
	Date     string `json:"fecha"`
	Weekday  string `json:"dia"`
	Students string `json:"estudiantes"`
	Area     string `json:"area"`
	Time     string `json:"hora"`
}

// separatorReplacer PDF 内置字体无法可靠渲染的分隔符，统一替换为连字符
var separatorReplacer = strings.NewReplacer(
	"•", "-",
	"·", "-",
	"–", "-",
	"—", "-",
)

// SanitizeText 规范化分隔符
func SanitizeText(s string) string {
	return separatorReplacer.Replace(s)
}

// JoinStudents 规范化后以 ", " 连接学生姓名
func JoinStudents(students []string) string {
	cleaned := make([]string, len(students))
	for i, s := range students {
		cleaned[i] = SanitizeText(s)
	}
	return strings.Join(cleaned, ", ")
}

// ToReportRows 生成报表行；chronological 为 true 时按 (日期, 时间) 稳定排序，
// 否则保持输入顺序
func ToReportRows(records []model.CleaningRecord, chronological bool) []Row {
	ordered := records
	if chronological {
		ordered = SortChronological(records)
	}

	rows := make([]Row, 0, len(ordered))
	for i := range ordered {
		rows = append(rows, toRow(&ordered[i]))
	}
	return rows
}

// SortChronological 返回按日期、时间升序的副本；无法解析的日期排在最后
func SortChronological(records []model.CleaningRecord) []model.CleaningRecord {
	sorted := append([]model.CleaningRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, oki := sorted[i].Day(time.UTC)
		dj, okj := sorted[j].Day(time.UTC)
		switch {
		case oki != okj:
			return oki
		case !oki:
			return false
		case !di.Equal(dj):
			return di.Before(dj)
		default:
			return sorted[i].Time < sorted[j].Time
		}
	})
	return sorted
}

func toRow(r *model.CleaningRecord) Row {
	row := Row{
		Date:     r.Date,
		Weekday:  r.Weekday,
		Students: JoinStudents(r.Students),
		Area:     string(r.Area),
		Time:     r.Time,
	}
	if d, ok := r.Day(time.UTC); ok {
		row.Date = d.Format(model.DisplayDateLayout)
		if row.Weekday == "" {
			row.Weekday = model.WeekdayName(d)
		}
	}
	return row
}

// DaySummary 首页按日汇总
type DaySummary struct {
	Weekday string `json:"dia"`
	Date    string `json:"fecha"`
	Rows    []Row  `json:"registros"`
}

// WeekSummary 按 dates 顺序（周一→周五）列出每天的记录
func WeekSummary(records []model.CleaningRecord, dates []time.Time) []DaySummary {
	byDay := make(map[string][]model.CleaningRecord, len(dates))
	if len(dates) > 0 {
		loc := dates[0].Location()
		for i := range records {
			if d, ok := records[i].Day(loc); ok {
				key := d.Format(model.DateLayout)
				byDay[key] = append(byDay[key], records[i])
			}
		}
	}

	out := make([]DaySummary, 0, len(dates))
	for _, d := range dates {
		out = append(out, DaySummary{
			Weekday: model.WeekdayName(d),
			Date:    d.Format(model.DisplayDateLayout),
			Rows:    ToReportRows(byDay[d.Format(model.DateLayout)], false),
		})
	}
	return out
}
