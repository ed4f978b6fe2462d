package model

import "strings"

// Student 学生名册条目，对应 data/students.json
type Student struct {
	ID           string `json:"id"`
	Name         string `json:"nombre"`
	RegisteredAt string `json:"fecha_registro"`
	UpdatedAt    string `json:"fecha_actualizacion,omitempty"`
}

// CanonicalName 规范化学生姓名：去除首尾空白并转为大写
func CanonicalName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SameName 姓名比较（大小写不敏感）
func SameName(a, b string) bool {
	return CanonicalName(a) == CanonicalName(b)
}
