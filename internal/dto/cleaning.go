package dto

// ── 清洁记录模块 DTO ──

// CreateCleaningRequest 登记清洁请求
type CreateCleaningRequest struct {
	Date     string   `json:"fecha"         binding:"required"`
	Area     string   `json:"tipo_limpieza" binding:"required,area"`
	Students []string `json:"estudiantes"   binding:"dive,max=120"` // 空选项会被忽略，人数由业务层校验
}

// CleaningListRequest 清洁历史查询参数
type CleaningListRequest struct {
	Area  string `form:"tipo"`                                          // Todos | Aula | Baños
	From  string `form:"desde" binding:"omitempty,datetime=2006-01-02"` // 默认 今天-7
	To    string `form:"hasta" binding:"omitempty,datetime=2006-01-02"` // 默认 今天
	Order string `form:"orden" binding:"omitempty,oneof=entrada cronologico"`
}

// CleaningRecordResponse 清洁记录响应（与落盘结构一致）
type CleaningRecordResponse struct {
	Date      string   `json:"fecha"`
	Weekday   string   `json:"dia_semana"`
	Time      string   `json:"hora"`
	Students  []string `json:"estudiantes"`
	Area      string   `json:"tipo_limpieza"`
	CreatedAt string   `json:"timestamp,omitempty"`
}
