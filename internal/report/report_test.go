package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/irvinmora/sistema-limpieza/internal/model"
)

var ect = time.FixedZone("ECT", -5*3600)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, ect)
}

func rec(date string, area model.Area, hora string, students ...string) model.CleaningRecord {
	return model.CleaningRecord{Date: date, Area: area, Time: hora, Students: students}
}

// ── CurrentWeekDates ──

func TestCurrentWeekDates_Wednesday(t *testing.T) {
	// 2025-03-12 为周三
	got := CurrentWeekDates(time.Date(2025, 3, 12, 15, 30, 0, 0, ect))

	want := [WorkDays]time.Time{
		day(2025, 3, 10), day(2025, 3, 11), day(2025, 3, 12), day(2025, 3, 13), day(2025, 3, 14),
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("第 %d 天: 期望 %s，实际 %s", i, want[i].Format(model.DateLayout), got[i].Format(model.DateLayout))
		}
	}
	if got[0].Weekday() != time.Monday || got[4].Weekday() != time.Friday {
		t.Errorf("应从周一到周五，实际 %s → %s", got[0].Weekday(), got[4].Weekday())
	}
}

func TestCurrentWeekDates_EdgeDays(t *testing.T) {
	cases := []struct {
		name  string
		today time.Time
		want  time.Time
	}{
		{"周一", day(2025, 3, 10), day(2025, 3, 10)},
		{"周日属于前一周", day(2025, 3, 16), day(2025, 3, 10)},
		{"周六", day(2025, 3, 15), day(2025, 3, 10)},
		{"跨月", day(2025, 4, 2), day(2025, 3, 31)},
		{"临近午夜", time.Date(2025, 3, 12, 23, 59, 59, 0, ect), day(2025, 3, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentWeekDates(tc.today)
			if !got[0].Equal(tc.want) {
				t.Errorf("期望周一 %s，实际 %s", tc.want.Format(model.DateLayout), got[0].Format(model.DateLayout))
			}
		})
	}
}

// ── 过滤 ──

func TestFilterByWindow_InclusiveAndSkipsInvalidDates(t *testing.T) {
	records := []model.CleaningRecord{
		rec("2025-03-09", model.AreaClassroom, "08:00:00", "A"),
		rec("2025-03-10", model.AreaClassroom, "08:00:00", "A"),
		rec("2025-03-12", model.AreaRestrooms, "08:00:00", "A"),
		rec("2025-03-14", model.AreaClassroom, "08:00:00", "A"),
		rec("2025-03-15", model.AreaClassroom, "08:00:00", "A"),
		rec("12/03/2025", model.AreaClassroom, "08:00:00", "A"),
		rec("", model.AreaClassroom, "08:00:00", "A"),
	}

	got := FilterByWindow(records, day(2025, 3, 10), day(2025, 3, 14))
	if len(got) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(got))
	}
	if got[0].Date != "2025-03-10" || got[2].Date != "2025-03-14" {
		t.Errorf("区间应为闭区间，实际 %s … %s", got[0].Date, got[2].Date)
	}
}

func TestFilterByDates(t *testing.T) {
	records := []model.CleaningRecord{
		rec("2025-03-10", model.AreaClassroom, "", "A"),
		rec("2025-03-15", model.AreaClassroom, "", "A"),
		rec("bad", model.AreaClassroom, "", "A"),
	}
	week := CurrentWeekDates(day(2025, 3, 12))

	got := FilterByDates(records, week[:])
	if len(got) != 1 || got[0].Date != "2025-03-10" {
		t.Errorf("期望仅保留周一记录，实际 %v", got)
	}
	if got := FilterByDates(records, nil); len(got) != 0 {
		t.Errorf("空日期集合应返回空列表，实际 %v", got)
	}
}

func TestFilterByArea(t *testing.T) {
	records := []model.CleaningRecord{
		rec("2025-03-10", model.AreaClassroom, "", "A"),
		rec("2025-03-10", model.AreaRestrooms, "", "B"),
		rec("2025-03-10", "Patio", "", "C"),
	}

	for _, all := range []model.Area{model.AreaAll, "All", ""} {
		if got := FilterByArea(records, all); len(got) != 3 {
			t.Errorf("哨兵 %q 不应过滤，实际 %d 条", all, len(got))
		}
	}
	got := FilterByArea(records, model.AreaRestrooms)
	if len(got) != 1 || got[0].Students[0] != "B" {
		t.Errorf("期望仅保留 Baños，实际 %v", got)
	}
}

// ── 统计 ──

func TestAggregateCounts(t *testing.T) {
	var records []model.CleaningRecord
	for i := 0; i < 4; i++ {
		records = append(records, rec("2025-03-10", model.AreaClassroom, "", "A"))
	}
	for i := 0; i < 3; i++ {
		records = append(records, rec("2025-03-10", model.AreaRestrooms, "", "A"))
	}
	records = append(records, rec("2025-03-10", "Patio", "", "A"))

	got := AggregateCounts(records)
	want := Counts{Total: 8, ByArea: AreaCounts{Classroom: 4, Restrooms: 3}}
	if got != want {
		t.Errorf("期望 %+v，实际 %+v", want, got)
	}

	// 顺序无关
	reversed := make([]model.CleaningRecord, len(records))
	for i := range records {
		reversed[len(records)-1-i] = records[i]
	}
	if AggregateCounts(reversed) != want {
		t.Error("统计结果不应依赖记录顺序")
	}
}

func TestAggregateCounts_KnownAreasSumToTotal(t *testing.T) {
	records := []model.CleaningRecord{
		rec("2025-03-10", model.AreaClassroom, "", "A"),
		rec("2025-03-11", model.AreaRestrooms, "", "A"),
	}
	c := AggregateCounts(records)
	if c.Total != c.ByArea.Classroom+c.ByArea.Restrooms {
		t.Errorf("已知区域之和应等于总数: %+v", c)
	}
}

// ── 报表行 ──

func TestToReportRows_FormatsAndSanitizes(t *testing.T) {
	records := []model.CleaningRecord{
		{
			Date:     "2025-03-11",
			Weekday:  "Martes",
			Time:     "10:15:00",
			Students: []string{"ANA • LÓPEZ", "JOSÉ – PÉREZ", "LUIS — DÍAZ"},
			Area:     model.AreaRestrooms,
		},
	}

	rows := ToReportRows(records, false)
	want := Row{
		Date:     "11/03/2025",
		Weekday:  "Martes",
		Students: "ANA - LÓPEZ, JOSÉ - PÉREZ, LUIS - DÍAZ",
		Area:     "Baños",
		Time:     "10:15:00",
	}
	if len(rows) != 1 || rows[0] != want {
		t.Errorf("期望 %+v，实际 %+v", want, rows)
	}
}

func TestToReportRows_DerivesMissingWeekdayAndKeepsBadDate(t *testing.T) {
	records := []model.CleaningRecord{
		rec("2025-03-12", model.AreaClassroom, "09:00:00", "A"),
		rec("sin fecha", model.AreaClassroom, "09:00:00", "B"),
	}

	rows := ToReportRows(records, false)
	if rows[0].Weekday != "Miércoles" {
		t.Errorf("缺失的星期应由日期推导，实际 %q", rows[0].Weekday)
	}
	if rows[1].Date != "sin fecha" {
		t.Errorf("无法解析的日期应原样展示，实际 %q", rows[1].Date)
	}
}

func TestToReportRows_Ordering(t *testing.T) {
	records := []model.CleaningRecord{
		rec("2025-03-12", model.AreaClassroom, "09:00:00", "C"),
		rec("2025-03-10", model.AreaClassroom, "15:00:00", "B"),
		rec("2025-03-10", model.AreaClassroom, "08:00:00", "A"),
		rec("bad", model.AreaClassroom, "07:00:00", "Z"),
	}

	names := func(rows []Row) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Students
		}
		return out
	}

	if got := names(ToReportRows(records, false)); !reflect.DeepEqual(got, []string{"C", "B", "A", "Z"}) {
		t.Errorf("默认应保持输入顺序，实际 %v", got)
	}
	if got := names(ToReportRows(records, true)); !reflect.DeepEqual(got, []string{"A", "B", "C", "Z"}) {
		t.Errorf("时间顺序排序错误，实际 %v", got)
	}
	if records[0].Students[0] != "C" {
		t.Error("排序不应修改输入")
	}
}

func TestWeekSummary(t *testing.T) {
	week := CurrentWeekDates(day(2025, 3, 12))
	records := []model.CleaningRecord{
		rec("2025-03-11", model.AreaClassroom, "09:00:00", "A"),
		rec("2025-03-11", model.AreaRestrooms, "10:00:00", "B"),
		rec("2025-03-14", model.AreaClassroom, "09:00:00", "C"),
		rec("2025-03-17", model.AreaClassroom, "09:00:00", "D"),
	}

	got := WeekSummary(records, week[:])
	if len(got) != WorkDays {
		t.Fatalf("期望 5 天，实际 %d", len(got))
	}
	if got[0].Weekday != "Lunes" || got[0].Date != "10/03/2025" || len(got[0].Rows) != 0 {
		t.Errorf("周一汇总错误: %+v", got[0])
	}
	if got[1].Weekday != "Martes" || len(got[1].Rows) != 2 {
		t.Errorf("周二应有 2 条记录: %+v", got[1])
	}
	if len(got[4].Rows) != 1 || got[4].Rows[0].Students != "C" {
		t.Errorf("周五汇总错误: %+v", got[4])
	}
}
