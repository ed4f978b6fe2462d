package model

import "time"

// Area 清洁区域（落盘值为西语原文）
type Area string

const (
	AreaClassroom Area = "Aula"
	AreaRestrooms Area = "Baños"

	// AreaAll 过滤哨兵值，表示不按区域过滤
	AreaAll Area = "Todos"
)

// Valid 是否为已知区域
func (a Area) Valid() bool {
	return a == AreaClassroom || a == AreaRestrooms
}

// IsAll 是否为"全部"哨兵（兼容 "All" 与空字符串）
func (a Area) IsAll() bool {
	return a == AreaAll || a == "All" || a == ""
}

// MaxStudentsPerRecord 单条清洁记录最多登记的学生数
const MaxStudentsPerRecord = 3

// CleaningRecord 清洁记录，对应 data/cleaning_history.json
//
// 学生按姓名冗余存储（非 ID），改名/删除时由 roster 包级联维护。
type CleaningRecord struct {
	Date      string   `json:"fecha"`
	Weekday   string   `json:"dia_semana"`
	Time      string   `json:"hora"`
	Students  []string `json:"estudiantes"`
	Area      Area     `json:"tipo_limpieza"`
	CreatedAt string   `json:"timestamp,omitempty"`
}

// Day 解析记录日期；格式非法时 ok=false
func (r *CleaningRecord) Day(loc *time.Location) (time.Time, bool) {
	d, err := ParseDate(r.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// HasStudent 记录中是否包含指定姓名（精确匹配）
func (r *CleaningRecord) HasStudent(name string) bool {
	for _, s := range r.Students {
		if s == name {
			return true
		}
	}
	return false
}

// Clone 深拷贝（学生列表独立）
func (r CleaningRecord) Clone() CleaningRecord {
	out := r
	out.Students = append([]string(nil), r.Students...)
	if out.Students == nil {
		out.Students = []string{}
	}
	return out
}
