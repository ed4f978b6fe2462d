package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/irvinmora/sistema-limpieza/internal/archive"
	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/report"
	"github.com/irvinmora/sistema-limpieza/internal/repository"
	"github.com/irvinmora/sistema-limpieza/internal/store"
	"github.com/irvinmora/sistema-limpieza/pkg/clock"
	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords     = errors.New("本周暂无清洁记录，无法生成报表")
	ErrExportInvalidLayout = errors.New("无效的报表版式，可选 table | daily")
	ErrExportGenerateFail  = errors.New("生成报表文件失败")
	ErrExportUnknownFormat = errors.New("不支持的导出格式，可选 pdf | xlsx | ics")
)

// 导出格式
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

// ExportFile 导出结果
type ExportFile struct {
	Buf         *bytes.Buffer
	Filename    string
	ContentType string
	SavedPath   string // 本地落盘路径（仅 PDF，失败时为空）
	ArchivedURL string // 对象存储位置（未启用或失败时为空）
}

// ExportOptions 导出配置
type ExportOptions struct {
	ReportDir string // PDF 落盘目录，空则不落盘
	Layout    string // 默认 PDF 版式
}

// ExportService 本周报表导出接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - PDF 额外写入 report.dir 并尝试归档到对象存储，两者失败只记日志
//   - 本周没有记录时不生成文档
type ExportService interface {
	// ExportWeek 按格式导出本周（周一至周五）记录
	ExportWeek(ctx context.Context, format, layout string) (*ExportFile, error)
}

type exportService struct {
	repo     *repository.Repository
	clock    clock.Clock
	archiver archive.Archiver
	metrics  *metrics.Metrics
	opts     ExportOptions
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(
	repo *repository.Repository,
	clk clock.Clock,
	archiver archive.Archiver,
	m *metrics.Metrics,
	opts ExportOptions,
	logger *zap.Logger,
) ExportService {
	if opts.Layout == "" {
		opts.Layout = LayoutTable
	}
	return &exportService{repo: repo, clock: clk, archiver: archiver, metrics: m, opts: opts, logger: logger}
}

func (s *exportService) ExportWeek(ctx context.Context, format, layout string) (*ExportFile, error) {
	if format == "" {
		format = FormatPDF
	}
	switch format {
	case FormatPDF, FormatXLSX, FormatICS:
	default:
		return nil, ErrExportUnknownFormat
	}
	if layout == "" {
		layout = s.opts.Layout
	}
	if layout != LayoutTable && layout != LayoutDaily {
		return nil, ErrExportInvalidLayout
	}

	week := loadWeek(s.repo.Records(), s.clock.Now())
	if len(week.records) == 0 {
		return nil, ErrExportNoRecords
	}

	var (
		file *ExportFile
		err  error
	)
	switch format {
	case FormatPDF:
		file, err = s.exportPDF(ctx, &week, layout)
	case FormatXLSX:
		file, err = s.exportXLSX(&week)
	case FormatICS:
		file, err = s.exportICS(&week)
	}
	s.metrics.Exported(format, err)
	return file, err
}

// ═══════════════════════════════════════════════════════════
// PDF
// ═══════════════════════════════════════════════════════════

func (s *exportService) exportPDF(ctx context.Context, week *weekData, layout string) (*ExportFile, error) {
	buf := new(bytes.Buffer)
	if err := renderWeekPDF(buf, week, layout); err != nil {
		s.logger.Error("生成 PDF 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	file := &ExportFile{
		Buf:         buf,
		Filename:    weekFilename(week, FormatPDF),
		ContentType: "application/pdf",
	}

	if s.opts.ReportDir != "" {
		path := filepath.Join(s.opts.ReportDir, file.Filename)
		if err := store.WriteFile(path, buf.Bytes()); err != nil {
			s.logger.Warn("报表落盘失败", zap.String("path", path), zap.Error(err))
		} else {
			file.SavedPath = path
		}
	}

	if url, err := s.archiver.Archive(ctx, file.Filename, file.ContentType, buf.Bytes()); err != nil {
		s.logger.Warn("报表归档失败", zap.String("file", file.Filename), zap.Error(err))
	} else {
		file.ArchivedURL = url
	}

	s.logger.Info("生成周报 PDF",
		zap.String("file", file.Filename),
		zap.String("layout", layout),
		zap.Int("records", len(week.records)),
	)
	return file, nil
}

// ═══════════════════════════════════════════════════════════
// Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Semana"
//   - 第 1 行标题（合并单元格）
//   - 第 2 行表头：Fecha | Día | Estudiantes | Área | Hora
//   - 数据行按日期、时间排序，末尾附统计

func (s *exportService) exportXLSX(week *weekData) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Semana"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	widths := []float64{14, 12, 48, 10, 10}
	for i, w := range widths {
		f.SetColWidth(sheetName, colName(i), colName(i), w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E86AB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Reporte semanal de limpieza - Semana del %s al %s",
		week.start().Format(model.DisplayDateLayout), week.end().Format(model.DisplayDateLayout)))
	f.MergeCell(sheetName, "A1", cell(colName(len(pdfColumns)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	for i, col := range pdfColumns {
		f.SetCellValue(sheetName, cell(colName(i), row), col.title)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(colName(len(pdfColumns)-1), row), headerStyle)

	// 数据行
	row = 3
	for _, r := range report.ToReportRows(week.records, true) {
		for i, col := range pdfColumns {
			f.SetCellValue(sheetName, cell(colName(i), row), col.value(r))
		}
		row++
	}

	// 统计
	counts := report.AggregateCounts(week.records)
	row++
	for _, kv := range []struct {
		label string
		value int
	}{
		{"Total de registros", counts.Total},
		{"Limpiezas de aula", counts.ByArea.Classroom},
		{"Limpiezas de baños", counts.ByArea.Restrooms},
	} {
		f.SetCellValue(sheetName, cell("A", row), kv.label)
		f.SetCellValue(sheetName, cell("B", row), kv.value)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	return &ExportFile{
		Buf:         buf,
		Filename:    weekFilename(week, FormatXLSX),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

// ═══════════════════════════════════════════════════════════
// iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条记录一个事件，开始时间为登记时间（无法解析时取当天零点），时长 30 分钟。

const cleaningEventDuration = 30 * time.Minute

func (s *exportService) exportICS(week *weekData) (*ExportFile, error) {
	loc := week.now.Location()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//sistema-limpieza//reporte semanal//ES")
	cal.SetXWRCalName(fmt.Sprintf("Limpieza %s - %s",
		week.start().Format(model.DisplayDateLayout), week.end().Format(model.DisplayDateLayout)))

	for i := range week.records {
		rec := &week.records[i]
		day, ok := rec.Day(loc)
		if !ok {
			continue
		}
		start := day
		if t, err := time.ParseInLocation(model.TimeLayout, rec.Time, loc); err == nil {
			start = time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
		}

		uid := fmt.Sprintf("%s-%s-%d@sistema-limpieza", rec.Date, strings.ReplaceAll(rec.Time, ":", ""), i)
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(week.now)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(cleaningEventDuration))
		ev.SetSummary(fmt.Sprintf("Limpieza de %s", rec.Area))
		ev.SetDescription(report.JoinStudents(rec.Students))
	}

	return &ExportFile{
		Buf:         bytes.NewBufferString(cal.Serialize()),
		Filename:    weekFilename(week, FormatICS),
		ContentType: "text/calendar; charset=utf-8",
	}, nil
}

// ── 辅助函数 ──

// weekFilename reporte_limpieza_semana_<YYYY-MM-DD>.<ext>，日期为生成当天
func weekFilename(week *weekData, ext string) string {
	return fmt.Sprintf("reporte_limpieza_semana_%s.%s", clock.Today(week.now).Format(model.DateLayout), ext)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
