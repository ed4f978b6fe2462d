// Package roster 维护清洁记录中按姓名冗余的学生引用
//
// 学生改名或删除后，历史清洁记录里的姓名需同步更新。本包只做纯函数变换：
// 输入不被修改，返回新的记录切片。姓名唯一性由调用方在改名前校验。
package roster

import (
	"fmt"

	"github.com/irvinmora/sistema-limpieza/internal/model"
)

// CascadePolicy 删除学生后，学生列表变空的记录如何处理
type CascadePolicy string

const (
	// DeleteEmpty 删除变空的记录
	DeleteEmpty CascadePolicy = "delete_empty"
	// KeepEmpty 保留记录（学生列表为空），用于审计
	KeepEmpty CascadePolicy = "keep_empty"
)

// ParseCascadePolicy 解析级联策略；空字符串返回 DeleteEmpty
func ParseCascadePolicy(s string) (CascadePolicy, error) {
	switch CascadePolicy(s) {
	case "", DeleteEmpty:
		return DeleteEmpty, nil
	case KeepEmpty:
		return KeepEmpty, nil
	default:
		return "", fmt.Errorf("未知的级联策略 %q（可选 delete_empty | keep_empty）", s)
	}
}

// Rename 将所有记录中的 oldName 替换为 newName，保持列表顺序
//
// 返回新记录切片与被修改的记录数。再次以相同参数调用时 changed 为 0。
func Rename(records []model.CleaningRecord, oldName, newName string) ([]model.CleaningRecord, int) {
	out := make([]model.CleaningRecord, 0, len(records))
	changed := 0
	for _, r := range records {
		if oldName == newName || !r.HasStudent(oldName) {
			out = append(out, r)
			continue
		}
		updated := r.Clone()
		for i, s := range updated.Students {
			if s == oldName {
				updated.Students[i] = newName
			}
		}
		out = append(out, updated)
		changed++
	}
	return out, changed
}

// RemoveResult 删除级联的统计
type RemoveResult struct {
	Affected int // 引用了该学生的记录数
	Dropped  int // 因变空而被删除的记录数
}

// Remove 从所有记录中移除 name
//
// 未引用 name 的记录原样返回；引用后变空的记录按 policy 删除或保留。
func Remove(records []model.CleaningRecord, name string, policy CascadePolicy) ([]model.CleaningRecord, RemoveResult) {
	out := make([]model.CleaningRecord, 0, len(records))
	var res RemoveResult
	for _, r := range records {
		if !r.HasStudent(name) {
			out = append(out, r)
			continue
		}
		res.Affected++

		remaining := make([]string, 0, len(r.Students))
		for _, s := range r.Students {
			if s != name {
				remaining = append(remaining, s)
			}
		}
		if len(remaining) == 0 && policy != KeepEmpty {
			res.Dropped++
			continue
		}
		updated := r
		updated.Students = remaining
		out = append(out, updated)
	}
	return out, res
}

// CountReferences 统计引用 name 的记录数（删除前提示用）
func CountReferences(records []model.CleaningRecord, name string) int {
	n := 0
	for i := range records {
		if records[i].HasStudent(name) {
			n++
		}
	}
	return n
}
