package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 新增学生请求
type CreateStudentRequest struct {
	Name string `json:"nombre" binding:"required,max=120"`
	ID   string `json:"id"     binding:"omitempty,max=40"` // 为空时自动生成 STxxx
}

// UpdateStudentRequest 编辑学生请求
type UpdateStudentRequest struct {
	Name string `json:"nombre" binding:"required,max=120"`
	ID   string `json:"id"     binding:"omitempty,max=40"` // 为空时保留原 ID
}

// DeleteStudentRequest 删除学生查询参数
type DeleteStudentRequest struct {
	Cascade string `form:"cascade" binding:"omitempty,oneof=delete_empty keep_empty"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"nombre"`
	RegisteredAt  string `json:"fecha_registro"`
	UpdatedAt     string `json:"fecha_actualizacion,omitempty"`
	CleaningCount int    `json:"cleaning_count"` // 出现在多少条清洁记录中
}

// UpdateStudentResponse 编辑结果
type UpdateStudentResponse struct {
	Student        StudentResponse `json:"student"`
	RenamedRecords int             `json:"renamed_records"`
}

// DeleteStudentResponse 删除结果
type DeleteStudentResponse struct {
	ID              string `json:"id"`
	Name            string `json:"nombre"`
	Cascade         string `json:"cascade"`
	AffectedRecords int    `json:"affected_records"`
	RemovedRecords  int    `json:"removed_records"`
}
