package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/irvinmora/sistema-limpieza/internal/model"
	"github.com/irvinmora/sistema-limpieza/internal/report"
)

// 周报 PDF 版式
const (
	LayoutTable = "table" // 单张表格：Fecha | Día | Estudiantes | Área | Hora
	LayoutDaily = "daily" // 按天分段列出
)

// ── PDF 周报渲染 ──
//
// 内置 Helvetica 只支持 cp1252，所有文本经 UnicodeTranslator 转码；
// 学生姓名中的特殊分隔符已由 report.SanitizeText 替换为连字符。

const (
	pdfMargin       = 20.0
	pdfBottomMargin = 15.0
	pdfLineHeight   = 6.0
)

// pdfColumn 表格列定义，宽度合计 170mm（A4 去掉左右边距）
type pdfColumn struct {
	title string
	width float64
	value func(r report.Row) string
}

var pdfColumns = []pdfColumn{
	{"Fecha", 26, func(r report.Row) string { return r.Date }},
	{"Día", 24, func(r report.Row) string { return r.Weekday }},
	{"Estudiantes", 72, func(r report.Row) string { return r.Students }},
	{"Área", 24, func(r report.Row) string { return r.Area }},
	{"Hora", 24, func(r report.Row) string { return r.Time }},
}

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// renderWeekPDF 将本周记录渲染为 PDF 写入 w
func renderWeekPDF(w io.Writer, week *weekData, layout string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	generated := week.now.Format("02/01/2006 15:04:05")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfBottomMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, pw.tr(fmt.Sprintf("Generado el %s - Sistema de Registro de Limpieza", generated)),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pw.title(week)

	if len(week.records) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 10, pw.tr("No hay registros de limpieza para esta semana."), "", 1, "C", false, 0, "")
	} else if layout == LayoutDaily {
		pw.daily(week)
	} else {
		pw.table(report.ToReportRows(week.records, true))
	}

	pw.stats(report.AggregateCounts(week.records), layout)
	return pdf.Output(w)
}

func (pw *pdfWriter) title(week *weekData) {
	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(31, 119, 180)
	pdf.CellFormat(0, 10, pw.tr("REPORTE SEMANAL DE LIMPIEZA"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, pw.tr(fmt.Sprintf("Semana del %s al %s",
		week.start().Format(model.DisplayDateLayout),
		week.end().Format(model.DisplayDateLayout))), "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

// ── 表格版式 ──

func (pw *pdfWriter) tableHeader() {
	pdf := pw.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(46, 134, 171)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 8, pw.tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func (pw *pdfWriter) table(rows []report.Row) {
	pdf := pw.pdf
	_, pageHeight := pdf.GetPageSize()

	pw.tableHeader()
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		cells := make([][]string, len(pdfColumns))
		lines := 1
		for i, col := range pdfColumns {
			cells[i] = pw.wrap(col.value(row), col.width-2)
			if len(cells[i]) > lines {
				lines = len(cells[i])
			}
		}
		h := float64(lines) * pdfLineHeight

		// 行不跨页：放不下时换页并重画表头
		if pdf.GetY()+h > pageHeight-pdfBottomMargin {
			pdf.AddPage()
			pw.tableHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		x, y := pdf.GetXY()
		pdf.SetFillColor(245, 245, 220)
		for i, col := range pdfColumns {
			pdf.Rect(x, y, col.width, h, "FD")
			for j, ln := range cells[i] {
				pdf.SetXY(x, y+float64(j)*pdfLineHeight)
				pdf.CellFormat(col.width, pdfLineHeight, ln, "", 0, "C", false, 0, "")
			}
			x += col.width
		}
		pdf.SetXY(pdfMargin, y+h)
	}
}

// wrap 按空格折行，返回已转码的行；宽度按当前字体测量
func (pw *pdfWriter) wrap(text string, width float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if pw.pdf.GetStringWidth(pw.tr(candidate)) > width {
			lines = append(lines, pw.tr(current))
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, pw.tr(current))
}

// ── 按天版式 ──

func (pw *pdfWriter) daily(week *weekData) {
	pdf := pw.pdf
	for _, day := range report.WeekSummary(week.records, week.dates[:]) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, pw.tr(fmt.Sprintf("%s - %s", day.Weekday, day.Date)), "", 1, "L", false, 0, "")

		if len(day.Rows) == 0 {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.CellFormat(0, pdfLineHeight, pw.tr("  No hay registros de limpieza"), "", 1, "L", false, 0, "")
		} else {
			pdf.SetFont("Helvetica", "", 10)
			for _, row := range day.Rows {
				line := fmt.Sprintf("  - %s: %s (%s)", row.Area, row.Students, row.Time)
				pdf.MultiCell(0, pdfLineHeight, pw.tr(line), "", "L", false)
			}
		}
		pdf.Ln(3)
	}
}

// ── 统计 ──

func (pw *pdfWriter) stats(c report.Counts, layout string) {
	pdf := pw.pdf
	heading := "ESTADÍSTICAS:"
	if layout == LayoutDaily {
		heading = "Estadísticas de la Semana"
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, pw.tr(heading), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("- Total de registros: %d", c.Total),
		fmt.Sprintf("- Limpiezas de aula: %d", c.ByArea.Classroom),
		fmt.Sprintf("- Limpiezas de baños: %d", c.ByArea.Restrooms),
	} {
		pdf.CellFormat(0, pdfLineHeight, pw.tr(line), "", 1, "L", false, 0, "")
	}
}
